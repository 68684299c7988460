package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/centime-app/centime-api/models"
)

func TestMatchStaticRule(t *testing.T) {
	tests := []struct {
		label   string
		want    string
		matched bool
	}{
		{"Netflix", models.CategoryLeisure, true},
		{"NETFLIX.COM PARIS", models.CategoryLeisure, true},
		{"  carrefour market  ", models.CategoryFood, true},
		{"SNCF CONNECT", models.CategoryTransport, true},
		{"Salary March", models.CategorySalary, true},
		{"AXA Assurance", models.CategoryInsurance, true},
		{"Unknown Merchant 42", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			got, ok := MatchStaticRule(tt.label)
			assert.Equal(t, tt.matched, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMatchStaticRuleExactBeatsSubstring(t *testing.T) {
	// "free mobile" must resolve as MOBILE even though "mobile" alone
	// appears inside other keys.
	got, ok := MatchStaticRule("free mobile")
	assert.True(t, ok)
	assert.Equal(t, models.CategoryMobile, got)
}
