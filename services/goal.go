package services

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/centime-app/centime-api/models"
	"github.com/centime-app/centime-api/utils"
)

var (
	ErrNotMember          = errors.New("user is not a member of this goal")
	ErrNotOwner           = errors.New("only the goal owner can do this")
	ErrWithdrawTooMuch    = errors.New("withdrawal exceeds the amount saved")
	ErrGoalArchived       = errors.New("goal is archived")
	ErrInvitationNotFound = errors.New("invitation not found or expired")
)

type GoalService struct {
	db *sql.DB
}

func NewGoalService(db *sql.DB) *GoalService {
	return &GoalService{db: db}
}

// Create creates a goal and registers the owner as its first member.
func (s *GoalService) Create(ctx context.Context, name string, target decimal.Decimal, deadline *time.Time, ownerID string) (*models.SavingsGoal, error) {
	goal := &models.SavingsGoal{
		ID:           uuid.New().String(),
		Name:         name,
		OwnerID:      ownerID,
		TargetAmount: target,
		Deadline:     deadline,
		Status:       models.GoalStatusActive,
		IsOwner:      true,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	goal.Saved = decimal.Zero
	goal.Progress = decimal.Zero

	err := utils.WithTransaction(s.db, func(tx *sql.Tx) error {
		query := `
			INSERT INTO savings_goals (id, name, owner_id, target_amount, deadline, status, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`
		if _, err := tx.ExecContext(ctx, query, goal.ID, goal.Name, goal.OwnerID, goal.TargetAmount, goal.Deadline, goal.Status, goal.CreatedAt, goal.UpdatedAt); err != nil {
			return err
		}

		memberQuery := `
			INSERT INTO goal_members (id, goal_id, user_id, role, joined_at)
			VALUES ($1, $2, $3, $4, $5)
		`
		if _, err := tx.ExecContext(ctx, memberQuery, uuid.New().String(), goal.ID, ownerID, "owner", time.Now()); err != nil {
			return err
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	return goal, nil
}

// GetByID returns a goal visible to userID, with progress and members.
func (s *GoalService) GetByID(ctx context.Context, id, userID string) (*models.SavingsGoal, error) {
	query := `
		SELECT g.id, g.name, g.owner_id, g.target_amount, g.deadline, g.status, g.created_at, g.updated_at,
		       CASE WHEN g.owner_id = $2 THEN true ELSE false END as is_owner,
		       u.name as owner_name,
		       COALESCE((SELECT SUM(amount) FROM goal_contributions WHERE goal_id = g.id), 0) as saved
		FROM savings_goals g
		LEFT JOIN users u ON g.owner_id = u.id
		INNER JOIN goal_members gm ON g.id = gm.goal_id
		WHERE g.id = $1 AND gm.user_id = $2
	`

	var goal models.SavingsGoal
	var saved decimal.Decimal
	err := s.db.QueryRowContext(ctx, query, id, userID).Scan(
		&goal.ID,
		&goal.Name,
		&goal.OwnerID,
		&goal.TargetAmount,
		&goal.Deadline,
		&goal.Status,
		&goal.CreatedAt,
		&goal.UpdatedAt,
		&goal.IsOwner,
		&goal.OwnerName,
		&saved,
	)

	if err != nil {
		return nil, err
	}

	goal.ComputeProgress(saved)

	members, err := s.GetMembers(ctx, id)
	if err != nil {
		return nil, err
	}
	goal.Members = members

	return &goal, nil
}

// GetUserGoals returns every goal the user owns or was invited into.
func (s *GoalService) GetUserGoals(ctx context.Context, userID string) ([]models.SavingsGoal, error) {
	query := `
		SELECT g.id, g.name, g.owner_id, g.target_amount, g.deadline, g.status, g.created_at, g.updated_at,
		       CASE WHEN g.owner_id = $1 THEN true ELSE false END as is_owner,
		       COALESCE((SELECT SUM(amount) FROM goal_contributions WHERE goal_id = g.id), 0) as saved
		FROM savings_goals g
		INNER JOIN goal_members gm ON g.id = gm.goal_id
		WHERE gm.user_id = $1
		ORDER BY g.created_at DESC
	`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var goals []models.SavingsGoal
	for rows.Next() {
		var goal models.SavingsGoal
		var saved decimal.Decimal
		err := rows.Scan(
			&goal.ID,
			&goal.Name,
			&goal.OwnerID,
			&goal.TargetAmount,
			&goal.Deadline,
			&goal.Status,
			&goal.CreatedAt,
			&goal.UpdatedAt,
			&goal.IsOwner,
			&saved,
		)
		if err != nil {
			return nil, err
		}

		goal.ComputeProgress(saved)
		goals = append(goals, goal)
	}

	return goals, rows.Err()
}

// IsMember checks goal membership.
func (s *GoalService) IsMember(ctx context.Context, goalID, userID string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM goal_members WHERE goal_id = $1 AND user_id = $2)
	`, goalID, userID).Scan(&exists)
	return exists, err
}

// IsOwner checks goal ownership.
func (s *GoalService) IsOwner(ctx context.Context, goalID, userID string) (bool, error) {
	var isOwner bool
	err := s.db.QueryRowContext(ctx, `
		SELECT owner_id = $1 FROM savings_goals WHERE id = $2
	`, userID, goalID).Scan(&isOwner)
	if err == sql.ErrNoRows {
		return false, nil
	}
	return isOwner, err
}

// Update changes goal metadata (owner only, enforced by the handler).
func (s *GoalService) Update(ctx context.Context, id, name string, target decimal.Decimal, deadline *time.Time) error {
	query := `
		UPDATE savings_goals
		SET name = $1, target_amount = $2, deadline = $3, updated_at = $4
		WHERE id = $5
	`
	_, err := s.db.ExecContext(ctx, query, name, target, deadline, time.Now(), id)
	return err
}

// Archive freezes a goal. Archived goals refuse new contributions.
func (s *GoalService) Archive(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE savings_goals SET status = $1, updated_at = NOW() WHERE id = $2
	`, models.GoalStatusArchived, id)
	return err
}

// Delete removes a goal and everything attached to it.
func (s *GoalService) Delete(ctx context.Context, goalID string) error {
	return utils.WithTransaction(s.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM goal_contributions WHERE goal_id = $1", goalID); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM goal_invitations WHERE goal_id = $1", goalID); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM goal_members WHERE goal_id = $1", goalID); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM savings_goals WHERE id = $1", goalID); err != nil {
			return err
		}
		return nil
	})
}

// Contribute records a contribution (or withdrawal when amount is negative)
// and updates the goal status from the new total. The whole check-and-insert
// runs in one transaction so concurrent withdrawals cannot overdraw the goal.
func (s *GoalService) Contribute(ctx context.Context, goalID, userID string, amount decimal.Decimal, note string) (*models.GoalContribution, error) {
	contribution := &models.GoalContribution{
		ID:        uuid.New().String(),
		GoalID:    goalID,
		UserID:    userID,
		Amount:    amount,
		Note:      note,
		CreatedAt: time.Now(),
	}

	err := utils.WithTransaction(s.db, func(tx *sql.Tx) error {
		var status string
		var target decimal.Decimal
		err := tx.QueryRowContext(ctx, `
			SELECT status, target_amount FROM savings_goals WHERE id = $1 FOR UPDATE
		`, goalID).Scan(&status, &target)
		if err != nil {
			return err
		}

		if status == models.GoalStatusArchived {
			return ErrGoalArchived
		}

		var saved decimal.Decimal
		err = tx.QueryRowContext(ctx, `
			SELECT COALESCE(SUM(amount), 0) FROM goal_contributions WHERE goal_id = $1
		`, goalID).Scan(&saved)
		if err != nil {
			return err
		}

		newTotal := saved.Add(amount)
		if newTotal.IsNegative() {
			return ErrWithdrawTooMuch
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO goal_contributions (id, goal_id, user_id, amount, note, created_at)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, contribution.ID, goalID, userID, amount, note, contribution.CreatedAt)
		if err != nil {
			return err
		}

		newStatus := models.GoalStatusActive
		if newTotal.GreaterThanOrEqual(target) {
			newStatus = models.GoalStatusAchieved
		}

		_, err = tx.ExecContext(ctx, `
			UPDATE savings_goals SET status = $1, updated_at = NOW() WHERE id = $2
		`, newStatus, goalID)
		return err
	})

	if err != nil {
		return nil, err
	}

	return contribution, nil
}

// GetContributions lists a goal's contributions, newest first.
func (s *GoalService) GetContributions(ctx context.Context, goalID string) ([]models.GoalContribution, error) {
	query := `
		SELECT c.id, c.goal_id, c.user_id, c.amount, COALESCE(c.note, ''), c.created_at, u.name
		FROM goal_contributions c
		LEFT JOIN users u ON c.user_id = u.id
		WHERE c.goal_id = $1
		ORDER BY c.created_at DESC
	`

	rows, err := s.db.QueryContext(ctx, query, goalID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var contributions []models.GoalContribution
	for rows.Next() {
		var c models.GoalContribution
		if err := rows.Scan(&c.ID, &c.GoalID, &c.UserID, &c.Amount, &c.Note, &c.CreatedAt, &c.UserName); err != nil {
			return nil, err
		}
		contributions = append(contributions, c)
	}

	return contributions, rows.Err()
}

// GetMembers gets all members of a goal
func (s *GoalService) GetMembers(ctx context.Context, goalID string) ([]models.GoalMember, error) {
	query := `
		SELECT gm.id, gm.user_id, gm.role, gm.joined_at, u.name, u.email
		FROM goal_members gm
		JOIN users u ON gm.user_id = u.id
		WHERE gm.goal_id = $1
		ORDER BY gm.joined_at
	`

	rows, err := s.db.QueryContext(ctx, query, goalID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []models.GoalMember
	for rows.Next() {
		var member models.GoalMember
		err := rows.Scan(
			&member.ID,
			&member.UserID,
			&member.Role,
			&member.JoinedAt,
			&member.UserName,
			&member.UserEmail,
		)
		if err != nil {
			return nil, err
		}

		member.GoalID = goalID
		member.User = &models.User{
			ID:    member.UserID,
			Name:  member.UserName,
			Email: member.UserEmail,
		}

		members = append(members, member)
	}

	return members, rows.Err()
}

// RemoveMember removes a non-owner member from a goal.
func (s *GoalService) RemoveMember(ctx context.Context, goalID, memberID string) error {
	result, err := s.db.ExecContext(ctx, `
		DELETE FROM goal_members WHERE goal_id = $1 AND id = $2 AND role != 'owner'
	`, goalID, memberID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// IsMemberByEmail checks if an email is already a member of a goal
func (s *GoalService) IsMemberByEmail(ctx context.Context, goalID, email string) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM goal_members gm
			JOIN users u ON gm.user_id = u.id
			WHERE gm.goal_id = $1 AND u.email = $2
		)
	`
	var exists bool
	err := s.db.QueryRowContext(ctx, query, goalID, email).Scan(&exists)
	return exists, err
}

// CreateInvitation creates a 7-day invitation for email to join the goal.
func (s *GoalService) CreateInvitation(ctx context.Context, goalID, email, invitedBy string) (*models.Invitation, error) {
	invitation := &models.Invitation{
		ID:        uuid.New().String(),
		GoalID:    goalID,
		Email:     email,
		Token:     uuid.New().String(),
		Status:    "pending",
		InvitedBy: invitedBy,
		ExpiresAt: time.Now().Add(7 * 24 * time.Hour),
		CreatedAt: time.Now(),
	}

	query := `
		INSERT INTO goal_invitations (id, goal_id, email, token, status, invited_by, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := s.db.ExecContext(ctx, query,
		invitation.ID, invitation.GoalID, invitation.Email,
		invitation.Token, invitation.Status, invitation.InvitedBy,
		invitation.ExpiresAt, invitation.CreatedAt,
	)

	if err != nil {
		return nil, err
	}

	return invitation, nil
}

// HasPendingInvitation reports whether email already holds a live invitation.
func (s *GoalService) HasPendingInvitation(ctx context.Context, goalID, email string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM goal_invitations
			WHERE goal_id = $1 AND email = $2 AND status = 'pending' AND expires_at > NOW()
		)
	`, goalID, email).Scan(&exists)
	return exists, err
}

// GetInvitations lists a goal's invitations with the inviter's name.
func (s *GoalService) GetInvitations(ctx context.Context, goalID string) ([]models.Invitation, error) {
	query := `
		SELECT i.id, i.goal_id, i.email, i.invited_by, i.token, i.status, i.expires_at, i.created_at,
		       COALESCE(u.name, '') as inviter_name
		FROM goal_invitations i
		LEFT JOIN users u ON i.invited_by = u.id
		WHERE i.goal_id = $1
		ORDER BY i.created_at DESC
	`

	rows, err := s.db.QueryContext(ctx, query, goalID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var invitations []models.Invitation
	for rows.Next() {
		var inv models.Invitation
		err := rows.Scan(&inv.ID, &inv.GoalID, &inv.Email, &inv.InvitedBy,
			&inv.Token, &inv.Status, &inv.ExpiresAt, &inv.CreatedAt, &inv.InviterName)
		if err != nil {
			return nil, err
		}
		invitations = append(invitations, inv)
	}

	return invitations, rows.Err()
}

// DeleteInvitation cancels a pending invitation. The goal_id match keeps an
// owner from cancelling invitations that belong to someone else's goal.
func (s *GoalService) DeleteInvitation(ctx context.Context, goalID, invitationID string) error {
	result, err := s.db.ExecContext(ctx, `
		DELETE FROM goal_invitations WHERE id = $1 AND goal_id = $2 AND status = 'pending'
	`, invitationID, goalID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// AcceptInvitation joins the user to the goal and cleans up sibling pending
// invitations for the same email.
func (s *GoalService) AcceptInvitation(ctx context.Context, token, userID string) (string, error) {
	var invitation models.Invitation
	query := `
		SELECT id, goal_id, email, expires_at
		FROM goal_invitations
		WHERE token = $1 AND status = 'pending'
	`

	err := s.db.QueryRowContext(ctx, query, token).Scan(
		&invitation.ID,
		&invitation.GoalID,
		&invitation.Email,
		&invitation.ExpiresAt,
	)

	if err == sql.ErrNoRows {
		return "", ErrInvitationNotFound
	}
	if err != nil {
		return "", err
	}

	if time.Now().After(invitation.ExpiresAt) {
		return "", ErrInvitationNotFound
	}

	err = utils.WithTransaction(s.db, func(tx *sql.Tx) error {
		// Idempotent so a user who is already a member can still consume the token.
		memberQuery := `
			INSERT INTO goal_members (id, goal_id, user_id, role, joined_at)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (goal_id, user_id) DO NOTHING
		`
		if _, err := tx.ExecContext(ctx, memberQuery, uuid.New().String(), invitation.GoalID, userID, "member", time.Now()); err != nil {
			return err
		}

		updateQuery := `
			UPDATE goal_invitations
			SET status = 'accepted', updated_at = $1
			WHERE id = $2
		`
		if _, err := tx.ExecContext(ctx, updateQuery, time.Now(), invitation.ID); err != nil {
			return err
		}

		cleanupQuery := `DELETE FROM goal_invitations WHERE goal_id = $1 AND email = $2 AND status = 'pending'`
		if _, err := tx.ExecContext(ctx, cleanupQuery, invitation.GoalID, invitation.Email); err != nil {
			return err
		}

		return nil
	})

	if err != nil {
		return "", err
	}

	return invitation.GoalID, nil
}
