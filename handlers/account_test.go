package handlers

import (
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/centime-app/centime-api/utils"
)

// asUser stands in for the auth middleware in handler tests.
func asUser(userID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Set("user_email", userID+"@example.com")
		c.Next()
	}
}

func testCipher(t *testing.T) *utils.Cipher {
	t.Helper()
	cipher, err := utils.NewCipher("0123456789abcdef0123456789abcdef")
	require.NoError(t, err)
	return cipher
}

func newAccountRouter(t *testing.T, userID string) (*gin.Engine, *AccountHandler, sqlmock.Sqlmock) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	h := &AccountHandler{DB: db, Cipher: testCipher(t)}

	router := gin.New()
	router.Use(asUser(userID))
	router.PUT("/accounts/:id", h.UpdateAccount)
	router.DELETE("/accounts/:id", h.DeleteAccount)
	return router, h, mock
}

func TestDeleteAccountHidesForeignAccounts(t *testing.T) {
	router, _, mock := newAccountRouter(t, "user-1")

	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS(SELECT 1 FROM accounts WHERE id = $1 AND user_id = $2)")).
		WithArgs("acc-9", "user-1").
		WillReturnRows(sqlmock.NewRows([]string{"owned", "has_transactions"}).AddRow(false, false))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/accounts/acc-9", nil)
	router.ServeHTTP(w, req)

	// Someone else's account id must look like it doesn't exist.
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteAccountWithTransactionsConflicts(t *testing.T) {
	router, _, mock := newAccountRouter(t, "user-1")

	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS(SELECT 1 FROM accounts WHERE id = $1 AND user_id = $2)")).
		WithArgs("acc-1", "user-1").
		WillReturnRows(sqlmock.NewRows([]string{"owned", "has_transactions"}).AddRow(true, true))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/accounts/acc-1", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateAccountClearsIBAN(t *testing.T) {
	router, _, mock := newAccountRouter(t, "user-1")

	mock.ExpectExec(regexp.QuoteMeta("UPDATE accounts")).
		WithArgs("Main", true, nil, "acc-1", "user-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/accounts/acc-1",
		strings.NewReader(`{"name": "Main", "iban": ""}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateAccountOmittedIBANKeepsStored(t *testing.T) {
	router, _, mock := newAccountRouter(t, "user-1")

	mock.ExpectExec(regexp.QuoteMeta("UPDATE accounts")).
		WithArgs("Main", false, nil, "acc-1", "user-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/accounts/acc-1",
		strings.NewReader(`{"name": "Main"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}
