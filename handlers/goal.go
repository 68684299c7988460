package handlers

import (
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/centime-app/centime-api/middleware"
	"github.com/centime-app/centime-api/models"
	"github.com/centime-app/centime-api/services"
)

type GoalHandler struct {
	Goals *services.GoalService
	WS    *WSHandler
}

func NewGoalHandler(goals *services.GoalService, ws *WSHandler) *GoalHandler {
	return &GoalHandler{Goals: goals, WS: ws}
}

// CreateGoal creates a savings goal owned by the caller
func (h *GoalHandler) CreateGoal(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req models.CreateGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !req.TargetAmount.IsPositive() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "target_amount must be positive"})
		return
	}

	deadline, err := parseDeadline(req.Deadline)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "deadline must be YYYY-MM-DD"})
		return
	}

	goal, err := h.Goals.Create(c.Request.Context(), req.Name, req.TargetAmount, deadline, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create goal"})
		return
	}

	c.JSON(http.StatusCreated, goal)
}

// GetGoals returns all goals the caller is a member of
func (h *GoalHandler) GetGoals(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	goals, err := h.Goals.GetUserGoals(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch goals"})
		return
	}

	if goals == nil {
		goals = []models.SavingsGoal{}
	}
	c.JSON(http.StatusOK, goals)
}

// GetGoal returns one goal with members and progress
func (h *GoalHandler) GetGoal(c *gin.Context) {
	userID := middleware.GetUserID(c)
	goalID := c.Param("id")

	goal, err := h.Goals.GetByID(c.Request.Context(), goalID, userID)
	if err == sql.ErrNoRows {
		c.JSON(http.StatusNotFound, gin.H{"error": "Goal not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch goal"})
		return
	}

	c.JSON(http.StatusOK, goal)
}

// UpdateGoal changes goal metadata (owner only)
func (h *GoalHandler) UpdateGoal(c *gin.Context) {
	userID := middleware.GetUserID(c)
	goalID := c.Param("id")

	isOwner, err := h.Goals.IsOwner(c.Request.Context(), goalID, userID)
	if err != nil || !isOwner {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the owner can update a goal"})
		return
	}

	var req models.UpdateGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !req.TargetAmount.IsPositive() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "target_amount must be positive"})
		return
	}

	deadline, err := parseDeadline(req.Deadline)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "deadline must be YYYY-MM-DD"})
		return
	}

	if err := h.Goals.Update(c.Request.Context(), goalID, req.Name, req.TargetAmount, deadline); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update goal"})
		return
	}

	h.WS.BroadcastUpdate(goalID, "goal_updated", userID)

	c.JSON(http.StatusOK, gin.H{"message": "Goal updated successfully"})
}

// ArchiveGoal freezes a goal (owner only)
func (h *GoalHandler) ArchiveGoal(c *gin.Context) {
	userID := middleware.GetUserID(c)
	goalID := c.Param("id")

	isOwner, err := h.Goals.IsOwner(c.Request.Context(), goalID, userID)
	if err != nil || !isOwner {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the owner can archive a goal"})
		return
	}

	if err := h.Goals.Archive(c.Request.Context(), goalID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to archive goal"})
		return
	}

	h.WS.BroadcastUpdate(goalID, "goal_archived", userID)

	c.JSON(http.StatusOK, gin.H{"message": "Goal archived successfully"})
}

// DeleteGoal deletes a goal (owner only)
func (h *GoalHandler) DeleteGoal(c *gin.Context) {
	userID := middleware.GetUserID(c)
	goalID := c.Param("id")

	isOwner, err := h.Goals.IsOwner(c.Request.Context(), goalID, userID)
	if err != nil || !isOwner {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the owner can delete a goal"})
		return
	}

	if err := h.Goals.Delete(c.Request.Context(), goalID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete goal"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Goal deleted successfully"})
}

// Contribute records a contribution or withdrawal on a goal
func (h *GoalHandler) Contribute(c *gin.Context) {
	userID := middleware.GetUserID(c)
	goalID := c.Param("id")

	isMember, err := h.Goals.IsMember(c.Request.Context(), goalID, userID)
	if err != nil || !isMember {
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
		return
	}

	var req models.ContributeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Amount.IsZero() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Amount must not be zero"})
		return
	}

	contribution, err := h.Goals.Contribute(c.Request.Context(), goalID, userID, req.Amount, req.Note)
	if errors.Is(err, services.ErrGoalArchived) {
		c.JSON(http.StatusConflict, gin.H{"error": "Goal is archived"})
		return
	}
	if errors.Is(err, services.ErrWithdrawTooMuch) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Withdrawal exceeds the amount saved"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record contribution"})
		return
	}

	h.WS.BroadcastUpdate(goalID, "contribution_added", userID)

	c.JSON(http.StatusCreated, contribution)
}

// GetContributions lists a goal's contributions
func (h *GoalHandler) GetContributions(c *gin.Context) {
	userID := middleware.GetUserID(c)
	goalID := c.Param("id")

	isMember, err := h.Goals.IsMember(c.Request.Context(), goalID, userID)
	if err != nil || !isMember {
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
		return
	}

	contributions, err := h.Goals.GetContributions(c.Request.Context(), goalID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch contributions"})
		return
	}

	if contributions == nil {
		contributions = []models.GoalContribution{}
	}
	c.JSON(http.StatusOK, contributions)
}

func parseDeadline(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
