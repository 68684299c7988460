package utils

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func withProduction(t *testing.T, enabled bool) {
	t.Helper()
	old := IsProduction
	IsProduction = enabled
	t.Cleanup(func() { IsProduction = old })
}

func TestMaskStringInProduction(t *testing.T) {
	withProduction(t, true)

	masked := MaskString("user alice@example.com paid 42.50 EUR from FR7630006000011234567890189")
	assert.NotContains(t, masked, "alice@example.com")
	assert.NotContains(t, masked, "FR7630006000011234567890189")
	assert.NotContains(t, masked, "42.50 EUR")
}

func TestMaskStringShortensUUIDs(t *testing.T) {
	withProduction(t, true)

	masked := MaskString("goal 6f1b24a0-9c1d-4f7e-8a5b-2f3c4d5e6f70 updated")
	assert.Contains(t, masked, "6f1b24a0...")
	assert.NotContains(t, masked, "6f1b24a0-9c1d")
}

func TestMaskStringPassThroughInDev(t *testing.T) {
	withProduction(t, false)

	input := "user alice@example.com paid 42.50 EUR"
	assert.Equal(t, input, MaskString(input))
}

func TestMaskEmail(t *testing.T) {
	withProduction(t, true)

	assert.Equal(t, "a***@***.***", MaskEmail("alice@example.com"))
	assert.Equal(t, "***", MaskEmail("not-an-email"))
}

func TestMaskAmount(t *testing.T) {
	withProduction(t, true)
	assert.Equal(t, "***", MaskAmount(decimal.NewFromFloat(123.45)))

	withProduction(t, false)
	assert.Equal(t, "123.45", MaskAmount(decimal.NewFromFloat(123.45)))
}
