package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	GoalStatusActive   = "active"
	GoalStatusAchieved = "achieved"
	GoalStatusArchived = "archived"
)

type SavingsGoal struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	OwnerID      string          `json:"owner_id"`
	TargetAmount decimal.Decimal `json:"target_amount"`
	Deadline     *time.Time      `json:"deadline,omitempty"`
	Status       string          `json:"status"`
	Saved        decimal.Decimal `json:"saved"`
	Progress     decimal.Decimal `json:"progress"` // saved/target, 0..1+, 2dp
	IsOwner      bool            `json:"is_owner"`
	OwnerName    string          `json:"owner_name,omitempty"`
	Members      []GoalMember    `json:"members,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// ComputeProgress fills Saved, Progress and flips Status between active and
// achieved from the contribution total. Archived goals keep their status.
func (g *SavingsGoal) ComputeProgress(saved decimal.Decimal) {
	g.Saved = saved
	if g.TargetAmount.IsPositive() {
		g.Progress = saved.Div(g.TargetAmount).Round(4)
	}
	if g.Status == GoalStatusArchived {
		return
	}
	if saved.GreaterThanOrEqual(g.TargetAmount) {
		g.Status = GoalStatusAchieved
	} else {
		g.Status = GoalStatusActive
	}
}

type GoalMember struct {
	ID        string    `json:"id"`
	GoalID    string    `json:"goal_id"`
	UserID    string    `json:"user_id"`
	User      *User     `json:"user,omitempty"`
	Role      string    `json:"role"`
	JoinedAt  time.Time `json:"joined_at"`
	UserName  string    `json:"user_name"`
	UserEmail string    `json:"user_email"`
}

type GoalContribution struct {
	ID        string          `json:"id"`
	GoalID    string          `json:"goal_id"`
	UserID    string          `json:"user_id"`
	UserName  string          `json:"user_name,omitempty"`
	Amount    decimal.Decimal `json:"amount"` // negative amounts are withdrawals
	Note      string          `json:"note,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

type CreateGoalRequest struct {
	Name         string          `json:"name" binding:"required"`
	TargetAmount decimal.Decimal `json:"target_amount" binding:"required"`
	Deadline     string          `json:"deadline"` // YYYY-MM-DD, optional
}

type UpdateGoalRequest struct {
	Name         string          `json:"name" binding:"required"`
	TargetAmount decimal.Decimal `json:"target_amount" binding:"required"`
	Deadline     string          `json:"deadline"`
}

type ContributeRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
	Note   string          `json:"note"`
}
