package handlers

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/centime-app/centime-api/middleware"
	"github.com/centime-app/centime-api/models"
	"github.com/centime-app/centime-api/services"
	"github.com/centime-app/centime-api/utils"
)

type InvitationHandler struct {
	Goals *services.GoalService
	Email *services.EmailService
	WS    *WSHandler
}

// InviteMember sends an invitation to join a savings goal
func (h *InvitationHandler) InviteMember(c *gin.Context) {
	userID := middleware.GetUserID(c)
	goalID := c.Param("id")

	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	isOwner, err := h.Goals.IsOwner(c.Request.Context(), goalID, userID)
	if err != nil || !isOwner {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the owner can invite members"})
		return
	}

	var req models.InvitationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	alreadyMember, err := h.Goals.IsMemberByEmail(c.Request.Context(), goalID, req.Email)
	if err == nil && alreadyMember {
		c.JSON(http.StatusConflict, gin.H{"error": "User is already a member"})
		return
	}

	pending, err := h.Goals.HasPendingInvitation(c.Request.Context(), goalID, req.Email)
	if err == nil && pending {
		c.JSON(http.StatusConflict, gin.H{"error": "Invitation already sent"})
		return
	}

	invitation, err := h.Goals.CreateInvitation(c.Request.Context(), goalID, req.Email, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create invitation"})
		return
	}

	goal, err := h.Goals.GetByID(c.Request.Context(), goalID, userID)
	inviterName := "A Centime user"
	goalName := "a savings goal"
	if err == nil {
		goalName = goal.Name
		inviterName = goal.OwnerName
	}

	if err := h.Email.SendInvitation(req.Email, inviterName, goalName, invitation.Token); err != nil {
		utils.Warnf("⚠️ Invitation email to %s failed: %v", utils.MaskEmail(req.Email), err)
		c.JSON(http.StatusCreated, gin.H{
			"id":      invitation.ID,
			"token":   invitation.Token,
			"message": "Invitation created but email failed to send",
			"warning": "Please share the invitation link manually",
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":      invitation.ID,
		"message": "Invitation sent successfully",
	})
}

// AcceptInvitation joins the caller to the goal behind the token
func (h *InvitationHandler) AcceptInvitation(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req models.AcceptInvitationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	goalID, err := h.Goals.AcceptInvitation(c.Request.Context(), req.Token, userID)
	if errors.Is(err, services.ErrInvitationNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Invitation not found or expired"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to accept invitation"})
		return
	}

	h.WS.BroadcastUpdate(goalID, "member_joined", userID)

	c.JSON(http.StatusOK, gin.H{
		"message": "Invitation accepted",
		"goal_id": goalID,
	})
}

// GetInvitations lists a goal's invitations
func (h *InvitationHandler) GetInvitations(c *gin.Context) {
	userID := middleware.GetUserID(c)
	goalID := c.Param("id")

	isMember, err := h.Goals.IsMember(c.Request.Context(), goalID, userID)
	if err != nil || !isMember {
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
		return
	}

	invitations, err := h.Goals.GetInvitations(c.Request.Context(), goalID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch invitations"})
		return
	}

	if invitations == nil {
		invitations = []models.Invitation{}
	}
	c.JSON(http.StatusOK, invitations)
}

// CancelInvitation deletes a pending invitation (owner only)
func (h *InvitationHandler) CancelInvitation(c *gin.Context) {
	userID := middleware.GetUserID(c)
	goalID := c.Param("id")
	invitationID := c.Param("invitation_id")

	isOwner, err := h.Goals.IsOwner(c.Request.Context(), goalID, userID)
	if err != nil || !isOwner {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the owner can cancel invitations"})
		return
	}

	err = h.Goals.DeleteInvitation(c.Request.Context(), goalID, invitationID)
	if errors.Is(err, sql.ErrNoRows) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Invitation not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to cancel invitation"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Invitation cancelled"})
}

// RemoveMember removes a member from a goal (owner only, owner excluded)
func (h *InvitationHandler) RemoveMember(c *gin.Context) {
	userID := middleware.GetUserID(c)
	goalID := c.Param("id")
	memberID := c.Param("member_id")

	isOwner, err := h.Goals.IsOwner(c.Request.Context(), goalID, userID)
	if err != nil || !isOwner {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the owner can remove members"})
		return
	}

	if err := h.Goals.RemoveMember(c.Request.Context(), goalID, memberID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Member not found or cannot be removed"})
		return
	}

	h.WS.BroadcastUpdate(goalID, "member_removed", userID)

	c.JSON(http.StatusOK, gin.H{"message": "Member removed"})
}
