package services

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/centime-app/centime-api/models"
)

var (
	mobileThreshold    = decimal.NewFromInt(30)
	insuranceThreshold = decimal.NewFromInt(50)
	cheapMobilePlan    = decimal.NewFromInt(15)
	twelve             = decimal.NewFromInt(12)
)

// AnalyzeExpense checks a recurring monthly expense against pricing rules and
// returns a savings suggestion, or nil when the expense looks reasonable.
func AnalyzeExpense(label, category string, monthlyAmount decimal.Decimal) *models.Suggestion {
	lower := strings.ToLower(label)

	// Rule 1: mobile plans. Plenty of no-contract offers below 15/month.
	if category == models.CategoryMobile || strings.Contains(lower, "mobile") || strings.Contains(lower, "forfait") {
		if monthlyAmount.GreaterThan(mobileThreshold) {
			return &models.Suggestion{
				Type:             "MOBILE_OFFER",
				Title:            "Mobile plan looks expensive",
				Message:          "Your mobile plan costs more than 30/month. No-contract plans start around 10/month.",
				Category:         models.CategoryMobile,
				PotentialSavings: monthlyAmount.Sub(cheapMobilePlan).Mul(twelve).Round(2),
			}
		}
	}

	// Rule 2: insurance. Assume ~20% savings from switching with equal cover.
	if category == models.CategoryInsurance || strings.Contains(lower, "insurance") || strings.Contains(lower, "assurance") {
		if monthlyAmount.GreaterThan(insuranceThreshold) {
			return &models.Suggestion{
				Type:             "INSURANCE_OFFER",
				Title:            "Compare your insurance",
				Message:          "You could keep the same cover and pay less by comparing insurers.",
				Category:         models.CategoryInsurance,
				PotentialSavings: monthlyAmount.Mul(decimal.NewFromFloat(0.20)).Mul(twelve).Round(2),
			}
		}
	}

	return nil
}

// AnalyzeSubscriptions flags stacked streaming subscriptions in a month's
// leisure expenses. totalStreaming is the monthly sum, count the number of
// distinct streaming charges.
func AnalyzeSubscriptions(count int, totalStreaming decimal.Decimal) *models.Suggestion {
	if count < 3 {
		return nil
	}

	// Rough estimate: dropping one average-priced service.
	perService := totalStreaming.Div(decimal.NewFromInt(int64(count)))
	return &models.Suggestion{
		Type:             "SUBSCRIPTION_STACK",
		Title:            "Several streaming subscriptions",
		Message:          "You pay for several streaming services. Rotating them instead of stacking saves the price of one subscription.",
		Category:         models.CategoryLeisure,
		PotentialSavings: perService.Mul(twelve).Round(2),
	}
}

// AnalyzeOverBudget turns an exceeded budget into a suggestion.
func AnalyzeOverBudget(category string, limit, spent decimal.Decimal) *models.Suggestion {
	if spent.LessThanOrEqual(limit) {
		return nil
	}

	overrun := spent.Sub(limit)
	return &models.Suggestion{
		Type:             "OVER_BUDGET",
		Title:            "Budget exceeded: " + category,
		Message:          "Spending in " + category + " went over the monthly limit by " + overrun.StringFixed(2) + ".",
		Category:         category,
		PotentialSavings: overrun.Mul(twelve).Round(2),
	}
}
