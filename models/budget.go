package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Budget struct {
	ID          string          `json:"id"`
	UserID      string          `json:"user_id"`
	Category    string          `json:"category"`
	Month       string          `json:"month"` // YYYY-MM
	LimitAmount decimal.Decimal `json:"limit_amount"`
	Spent       decimal.Decimal `json:"spent"`     // computed from transactions
	Remaining   decimal.Decimal `json:"remaining"` // limit - spent, may be negative
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

type CreateBudgetRequest struct {
	Category    string          `json:"category" binding:"required"`
	Month       string          `json:"month" binding:"required,len=7"`
	LimitAmount decimal.Decimal `json:"limit_amount" binding:"required"`
}

type UpdateBudgetRequest struct {
	LimitAmount decimal.Decimal `json:"limit_amount" binding:"required"`
}
