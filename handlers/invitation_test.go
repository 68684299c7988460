package handlers

import (
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/centime-app/centime-api/services"
)

func newInvitationRouter(t *testing.T, userID string) (*gin.Engine, sqlmock.Sqlmock) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	h := &InvitationHandler{
		Goals: services.NewGoalService(db),
		Email: services.NewEmailService(),
		WS:    NewWSHandler(),
	}

	router := gin.New()
	router.Use(asUser(userID))
	router.DELETE("/goals/:id/invitations/:invitation_id", h.CancelInvitation)
	return router, mock
}

// Owning goal A grants no reach into goal B's invitations: the delete is
// scoped to the path's goal, so a foreign invitation id comes back 404.
func TestCancelInvitationFromAnotherGoalReturns404(t *testing.T) {
	router, mock := newInvitationRouter(t, "owner-1")

	mock.ExpectQuery(regexp.QuoteMeta("SELECT owner_id = $1 FROM savings_goals WHERE id = $2")).
		WithArgs("owner-1", "goal-mine").
		WillReturnRows(sqlmock.NewRows([]string{"is_owner"}).AddRow(true))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM goal_invitations WHERE id = $1 AND goal_id = $2 AND status = 'pending'")).
		WithArgs("inv-from-other-goal", "goal-mine").
		WillReturnResult(sqlmock.NewResult(0, 0))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/goals/goal-mine/invitations/inv-from-other-goal", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCancelInvitationOwnPendingSucceeds(t *testing.T) {
	router, mock := newInvitationRouter(t, "owner-1")

	mock.ExpectQuery(regexp.QuoteMeta("SELECT owner_id = $1 FROM savings_goals WHERE id = $2")).
		WithArgs("owner-1", "goal-mine").
		WillReturnRows(sqlmock.NewRows([]string{"is_owner"}).AddRow(true))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM goal_invitations WHERE id = $1 AND goal_id = $2 AND status = 'pending'")).
		WithArgs("inv-1", "goal-mine").
		WillReturnResult(sqlmock.NewResult(0, 1))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/goals/goal-mine/invitations/inv-1", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}
