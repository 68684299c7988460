package services

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/centime-app/centime-api/models"
)

func TestAnalyzeExpenseMobile(t *testing.T) {
	tests := []struct {
		name     string
		label    string
		category string
		amount   decimal.Decimal
		wantType string
	}{
		{"expensive mobile plan", "Vodafone Mobile", models.CategoryMobile, decimal.NewFromInt(45), "MOBILE_OFFER"},
		{"cheap mobile plan", "Sosh", models.CategoryMobile, decimal.NewFromInt(12), ""},
		{"mobile keyword in label", "mobile subscription", models.CategoryOther, decimal.NewFromInt(35), "MOBILE_OFFER"},
		{"at the threshold", "Sosh", models.CategoryMobile, decimal.NewFromInt(30), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AnalyzeExpense(tt.label, tt.category, tt.amount)
			if tt.wantType == "" {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.wantType, got.Type)
			assert.True(t, got.PotentialSavings.IsPositive())
		})
	}
}

func TestAnalyzeExpenseMobileSavingsEstimate(t *testing.T) {
	got := AnalyzeExpense("Vodafone", models.CategoryMobile, decimal.NewFromInt(45))
	require.NotNil(t, got)

	// (45 - 15) * 12
	assert.True(t, got.PotentialSavings.Equal(decimal.NewFromInt(360)),
		"got %s", got.PotentialSavings)
}

func TestAnalyzeExpenseInsurance(t *testing.T) {
	got := AnalyzeExpense("AXA home insurance", models.CategoryInsurance, decimal.NewFromInt(80))
	require.NotNil(t, got)
	assert.Equal(t, "INSURANCE_OFFER", got.Type)

	// 80 * 0.20 * 12
	assert.True(t, got.PotentialSavings.Equal(decimal.NewFromInt(192)),
		"got %s", got.PotentialSavings)

	assert.Nil(t, AnalyzeExpense("AXA home insurance", models.CategoryInsurance, decimal.NewFromInt(40)))
}

func TestAnalyzeExpenseReasonableSpending(t *testing.T) {
	assert.Nil(t, AnalyzeExpense("Carrefour", models.CategoryFood, decimal.NewFromInt(200)))
}

func TestAnalyzeSubscriptions(t *testing.T) {
	assert.Nil(t, AnalyzeSubscriptions(2, decimal.NewFromInt(30)))

	got := AnalyzeSubscriptions(3, decimal.NewFromInt(36))
	require.NotNil(t, got)
	assert.Equal(t, "SUBSCRIPTION_STACK", got.Type)

	// one average service per year: 36/3 * 12
	assert.True(t, got.PotentialSavings.Equal(decimal.NewFromInt(144)),
		"got %s", got.PotentialSavings)
}

func TestAnalyzeOverBudget(t *testing.T) {
	assert.Nil(t, AnalyzeOverBudget(models.CategoryFood, decimal.NewFromInt(300), decimal.NewFromInt(250)))
	assert.Nil(t, AnalyzeOverBudget(models.CategoryFood, decimal.NewFromInt(300), decimal.NewFromInt(300)))

	got := AnalyzeOverBudget(models.CategoryFood, decimal.NewFromInt(300), decimal.NewFromInt(350))
	require.NotNil(t, got)
	assert.Equal(t, "OVER_BUDGET", got.Type)
	assert.Equal(t, models.CategoryFood, got.Category)
	assert.Contains(t, got.Message, "50.00")
	assert.True(t, got.PotentialSavings.Equal(decimal.NewFromInt(600)))
}
