package services

import (
	"context"
	"database/sql"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/centime-app/centime-api/models"
)

func newMockGoalService(t *testing.T) (*GoalService, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewGoalService(db), mock
}

const (
	lockGoalQuery     = `SELECT status, target_amount FROM savings_goals WHERE id = $1 FOR UPDATE`
	savedTotalQuery   = `SELECT COALESCE(SUM(amount), 0) FROM goal_contributions WHERE goal_id = $1`
	updateStatusQuery = `UPDATE savings_goals SET status = $1, updated_at = NOW() WHERE id = $2`
	cancelQuery       = `DELETE FROM goal_invitations WHERE id = $1 AND goal_id = $2 AND status = 'pending'`
)

func TestContributeRejectsArchivedGoal(t *testing.T) {
	svc, mock := newMockGoalService(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(lockGoalQuery)).
		WithArgs("goal-1").
		WillReturnRows(sqlmock.NewRows([]string{"status", "target_amount"}).
			AddRow(models.GoalStatusArchived, "500.00"))
	mock.ExpectRollback()

	_, err := svc.Contribute(context.Background(), "goal-1", "user-1", decimal.NewFromInt(50), "")
	assert.ErrorIs(t, err, ErrGoalArchived)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestContributeRejectsOverdraw(t *testing.T) {
	svc, mock := newMockGoalService(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(lockGoalQuery)).
		WithArgs("goal-1").
		WillReturnRows(sqlmock.NewRows([]string{"status", "target_amount"}).
			AddRow(models.GoalStatusActive, "500.00"))
	mock.ExpectQuery(regexp.QuoteMeta(savedTotalQuery)).
		WithArgs("goal-1").
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow("100.00"))
	mock.ExpectRollback()

	// 100 saved, withdrawing 150 would go below zero.
	_, err := svc.Contribute(context.Background(), "goal-1", "user-1", decimal.NewFromInt(-150), "")
	assert.ErrorIs(t, err, ErrWithdrawTooMuch)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestContributeAllowsWithdrawalToExactlyZero(t *testing.T) {
	svc, mock := newMockGoalService(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(lockGoalQuery)).
		WithArgs("goal-1").
		WillReturnRows(sqlmock.NewRows([]string{"status", "target_amount"}).
			AddRow(models.GoalStatusAchieved, "100.00"))
	mock.ExpectQuery(regexp.QuoteMeta(savedTotalQuery)).
		WithArgs("goal-1").
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow("100.00"))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO goal_contributions")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(updateStatusQuery)).
		WithArgs(models.GoalStatusActive, "goal-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	contribution, err := svc.Contribute(context.Background(), "goal-1", "user-1", decimal.NewFromInt(-100), "emptied")
	require.NoError(t, err)
	assert.True(t, contribution.Amount.Equal(decimal.NewFromInt(-100)))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestContributeMarksGoalAchieved(t *testing.T) {
	svc, mock := newMockGoalService(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(lockGoalQuery)).
		WithArgs("goal-1").
		WillReturnRows(sqlmock.NewRows([]string{"status", "target_amount"}).
			AddRow(models.GoalStatusActive, "500.00"))
	mock.ExpectQuery(regexp.QuoteMeta(savedTotalQuery)).
		WithArgs("goal-1").
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow("450.00"))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO goal_contributions")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(updateStatusQuery)).
		WithArgs(models.GoalStatusAchieved, "goal-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	contribution, err := svc.Contribute(context.Background(), "goal-1", "user-1", decimal.NewFromInt(50), "")
	require.NoError(t, err)
	assert.Equal(t, "goal-1", contribution.GoalID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteInvitationScopedToGoal(t *testing.T) {
	svc, mock := newMockGoalService(t)

	// The invitation belongs to another goal: the scoped delete touches
	// nothing and the caller gets a not-found, not a silent success.
	mock.ExpectExec(regexp.QuoteMeta(cancelQuery)).
		WithArgs("inv-1", "goal-mine").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := svc.DeleteInvitation(context.Background(), "goal-mine", "inv-1")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteInvitationRemovesOwnPending(t *testing.T) {
	svc, mock := newMockGoalService(t)

	mock.ExpectExec(regexp.QuoteMeta(cancelQuery)).
		WithArgs("inv-1", "goal-mine").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := svc.DeleteInvitation(context.Background(), "goal-mine", "inv-1")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
