package models

import "github.com/shopspring/decimal"

// Suggestion is a rule-based savings recommendation derived from spending.
type Suggestion struct {
	Type             string          `json:"type"`
	Title            string          `json:"title"`
	Message          string          `json:"message"`
	Category         string          `json:"category,omitempty"`
	PotentialSavings decimal.Decimal `json:"potential_savings"` // estimated per year
}
