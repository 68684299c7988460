package models

import (
	"time"
)

type Invitation struct {
	ID          string    `json:"id"`
	GoalID      string    `json:"goal_id"`
	Email       string    `json:"email" binding:"required,email"`
	InvitedBy   string    `json:"invited_by"`
	InviterName string    `json:"inviter_name,omitempty"`
	Token       string    `json:"token"`
	Status      string    `json:"status"`
	ExpiresAt   time.Time `json:"expires_at"`
	CreatedAt   time.Time `json:"created_at"`
}

type InvitationRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type AcceptInvitationRequest struct {
	Token string `json:"token" binding:"required"`
}
