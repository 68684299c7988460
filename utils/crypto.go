package utils

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"io"
)

// Cipher seals account numbers before they touch the database. The AEAD is
// built once at startup so a missing or truncated key fails the boot, not the
// first request.
type Cipher struct {
	gcm cipher.AEAD
}

// NewCipher builds an AES-256-GCM cipher from a 32-character key,
// typically DATA_ENCRYPTION_KEY.
func NewCipher(key string) (*Cipher, error) {
	if len(key) != 32 {
		return nil, errors.New("encryption key must be exactly 32 characters")
	}

	block, err := aes.NewCipher([]byte(key))
	if err != nil {
		return nil, err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	return &Cipher{gcm: gcm}, nil
}

// EncryptIBAN returns the IBAN as base64(nonce || ciphertext).
func (c *Cipher) EncryptIBAN(iban string) (string, error) {
	nonce := make([]byte, c.gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}

	sealed := c.gcm.Seal(nonce, nonce, []byte(iban), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// DecryptIBAN reverses EncryptIBAN.
func (c *Cipher) DecryptIBAN(encoded string) (string, error) {
	sealed, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", err
	}

	nonceSize := c.gcm.NonceSize()
	if len(sealed) < nonceSize {
		return "", errors.New("ciphertext too short")
	}

	nonce, ciphertext := sealed[:nonceSize], sealed[nonceSize:]
	plaintext, err := c.gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", err
	}

	return string(plaintext), nil
}
