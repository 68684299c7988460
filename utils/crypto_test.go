package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKey = "0123456789abcdef0123456789abcdef"

func TestCipherRoundTrip(t *testing.T) {
	c, err := NewCipher(testKey)
	require.NoError(t, err)

	ciphertext, err := c.EncryptIBAN("FR7630006000011234567890189")
	require.NoError(t, err)
	assert.NotContains(t, ciphertext, "FR76")

	plaintext, err := c.DecryptIBAN(ciphertext)
	require.NoError(t, err)
	assert.Equal(t, "FR7630006000011234567890189", plaintext)
}

func TestNewCipherRejectsBadKeyLength(t *testing.T) {
	_, err := NewCipher("too-short")
	assert.Error(t, err)
}

func TestDecryptIBANRejectsTamperedCiphertext(t *testing.T) {
	c, err := NewCipher(testKey)
	require.NoError(t, err)

	ciphertext, err := c.EncryptIBAN("sensitive")
	require.NoError(t, err)

	tampered := "A" + ciphertext[1:]
	if ciphertext[0] == 'A' {
		tampered = "B" + ciphertext[1:]
	}
	_, err = c.DecryptIBAN(tampered)
	assert.Error(t, err)
}

func TestDecryptIBANRejectsShortCiphertext(t *testing.T) {
	c, err := NewCipher(testKey)
	require.NoError(t, err)

	_, err = c.DecryptIBAN("aGk=") // valid base64, shorter than a GCM nonce
	assert.Error(t, err)
}
