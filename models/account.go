package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account kinds accepted by the API.
const (
	AccountKindChecking = "checking"
	AccountKindSavings  = "savings"
	AccountKindCash     = "cash"
)

type Account struct {
	ID        string          `json:"id"`
	UserID    string          `json:"user_id"`
	Name      string          `json:"name"`
	Kind      string          `json:"kind"`
	Currency  string          `json:"currency"`
	Balance   decimal.Decimal `json:"balance"`
	IBAN      string          `json:"iban,omitempty"` // decrypted on read, owner only
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

type CreateAccountRequest struct {
	Name     string          `json:"name" binding:"required"`
	Kind     string          `json:"kind" binding:"required,oneof=checking savings cash"`
	Currency string          `json:"currency" binding:"omitempty,len=3"`
	Balance  decimal.Decimal `json:"balance"`
	IBAN     string          `json:"iban"`
}

type UpdateAccountRequest struct {
	Name string  `json:"name" binding:"required"`
	IBAN *string `json:"iban"` // nil keeps the stored IBAN, "" clears it
}
