package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	TransactionIncome  = "income"
	TransactionExpense = "expense"
)

type Transaction struct {
	ID         string          `json:"id"`
	UserID     string          `json:"user_id"`
	AccountID  string          `json:"account_id"`
	Type       string          `json:"type"`
	Label      string          `json:"label"`
	Category   string          `json:"category"`
	Amount     decimal.Decimal `json:"amount"`
	OccurredOn time.Time       `json:"occurred_on"`
	Note       string          `json:"note,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// Signed returns the amount with the sign implied by the transaction type.
// Expenses count against an account balance, incomes add to it.
func (t Transaction) Signed() decimal.Decimal {
	if t.Type == TransactionExpense {
		return t.Amount.Neg()
	}
	return t.Amount
}

type CreateTransactionRequest struct {
	AccountID  string          `json:"account_id" binding:"required,uuid"`
	Type       string          `json:"type" binding:"required,oneof=income expense"`
	Label      string          `json:"label" binding:"required"`
	Category   string          `json:"category"`
	Amount     decimal.Decimal `json:"amount" binding:"required"`
	OccurredOn string          `json:"occurred_on" binding:"required"` // YYYY-MM-DD
	Note       string          `json:"note"`
}

type UpdateTransactionRequest struct {
	Label    string `json:"label" binding:"required"`
	Category string `json:"category" binding:"required"`
	Note     string `json:"note"`
}
