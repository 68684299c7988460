package handlers

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/centime-app/centime-api/middleware"
	"github.com/centime-app/centime-api/models"
	"github.com/centime-app/centime-api/services"
	"github.com/centime-app/centime-api/utils"
)

type TransactionHandler struct {
	DB          *sql.DB
	Categorizer *services.CategorizerService
}

// CreateTransaction records a transaction and adjusts the account balance in
// the same database transaction.
func (h *TransactionHandler) CreateTransaction(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req models.CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !req.Amount.IsPositive() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Amount must be positive"})
		return
	}

	occurredOn, err := time.Parse("2006-01-02", req.OccurredOn)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "occurred_on must be YYYY-MM-DD"})
		return
	}

	// The account must belong to the caller.
	var accountExists bool
	err = h.DB.QueryRow(`
		SELECT EXISTS(SELECT 1 FROM accounts WHERE id = $1 AND user_id = $2)
	`, req.AccountID, userID).Scan(&accountExists)

	if err != nil || !accountExists {
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
		return
	}

	category := req.Category
	if category == "" {
		category, _ = h.Categorizer.GetCategory(c.Request.Context(), req.Label)
	} else if !models.IsKnownCategory(category) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown category"})
		return
	}

	txn := models.Transaction{
		UserID:     userID,
		AccountID:  req.AccountID,
		Type:       req.Type,
		Label:      req.Label,
		Category:   category,
		Amount:     req.Amount,
		OccurredOn: occurredOn,
		Note:       req.Note,
	}

	err = utils.WithTransaction(h.DB, func(tx *sql.Tx) error {
		err := tx.QueryRow(`
			INSERT INTO transactions (user_id, account_id, type, label, category, amount, occurred_on, note)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			RETURNING id, created_at, updated_at
		`, userID, req.AccountID, req.Type, req.Label, category, req.Amount, occurredOn, req.Note).Scan(
			&txn.ID, &txn.CreatedAt, &txn.UpdatedAt,
		)
		if err != nil {
			return err
		}

		_, err = tx.Exec(`
			UPDATE accounts SET balance = balance + $1, updated_at = NOW() WHERE id = $2
		`, txn.Signed(), req.AccountID)
		return err
	})

	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create transaction"})
		return
	}

	h.audit(userID, "create_transaction", txn.ID, txn)

	c.JSON(http.StatusCreated, txn)
}

// GetTransactions lists the user's transactions, optionally filtered by
// ?month=YYYY-MM, ?category= and ?account_id=.
func (h *TransactionHandler) GetTransactions(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	query := `
		SELECT id, user_id, account_id, type, label, category, amount, occurred_on, COALESCE(note, ''), created_at, updated_at
		FROM transactions
		WHERE user_id = $1
	`
	args := []interface{}{userID}

	if month := c.Query("month"); month != "" {
		start, err := time.Parse("2006-01", month)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "month must be YYYY-MM"})
			return
		}
		args = append(args, start, start.AddDate(0, 1, 0))
		query += ` AND occurred_on >= $2 AND occurred_on < $3`
	}
	if category := c.Query("category"); category != "" {
		args = append(args, category)
		query += ` AND category = $` + strconv.Itoa(len(args))
	}
	if accountID := c.Query("account_id"); accountID != "" {
		args = append(args, accountID)
		query += ` AND account_id = $` + strconv.Itoa(len(args))
	}

	query += ` ORDER BY occurred_on DESC, created_at DESC`

	rows, err := h.DB.Query(query, args...)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch transactions"})
		return
	}
	defer rows.Close()

	transactions := []models.Transaction{}
	for rows.Next() {
		var t models.Transaction
		if err := rows.Scan(&t.ID, &t.UserID, &t.AccountID, &t.Type, &t.Label, &t.Category,
			&t.Amount, &t.OccurredOn, &t.Note, &t.CreatedAt, &t.UpdatedAt); err != nil {
			continue
		}
		transactions = append(transactions, t)
	}

	c.JSON(http.StatusOK, transactions)
}

// UpdateTransaction changes label, category and note. A corrected category is
// fed back to the categorizer cache.
func (h *TransactionHandler) UpdateTransaction(c *gin.Context) {
	userID := middleware.GetUserID(c)
	txnID := c.Param("id")

	var req models.UpdateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !models.IsKnownCategory(req.Category) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown category"})
		return
	}

	var previousCategory string
	err := h.DB.QueryRow(`
		SELECT category FROM transactions WHERE id = $1 AND user_id = $2
	`, txnID, userID).Scan(&previousCategory)

	if err == sql.ErrNoRows {
		c.JSON(http.StatusNotFound, gin.H{"error": "Transaction not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch transaction"})
		return
	}

	_, err = h.DB.Exec(`
		UPDATE transactions
		SET label = $1, category = $2, note = $3, updated_at = NOW()
		WHERE id = $4 AND user_id = $5
	`, req.Label, req.Category, req.Note, txnID, userID)

	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update transaction"})
		return
	}

	if req.Category != previousCategory {
		_ = h.Categorizer.Learn(c.Request.Context(), req.Label, req.Category)
	}

	h.audit(userID, "update_transaction", txnID, req)

	c.JSON(http.StatusOK, gin.H{"message": "Transaction updated successfully"})
}

// DeleteTransaction removes a transaction and reverses its balance effect.
func (h *TransactionHandler) DeleteTransaction(c *gin.Context) {
	userID := middleware.GetUserID(c)
	txnID := c.Param("id")

	err := utils.WithTransaction(h.DB, func(tx *sql.Tx) error {
		var txn models.Transaction
		err := tx.QueryRow(`
			SELECT account_id, type, amount FROM transactions WHERE id = $1 AND user_id = $2
		`, txnID, userID).Scan(&txn.AccountID, &txn.Type, &txn.Amount)
		if err != nil {
			return err
		}

		if _, err := tx.Exec(`DELETE FROM transactions WHERE id = $1`, txnID); err != nil {
			return err
		}

		_, err = tx.Exec(`
			UPDATE accounts SET balance = balance - $1, updated_at = NOW() WHERE id = $2
		`, txn.Signed(), txn.AccountID)
		return err
	})

	if err == sql.ErrNoRows {
		c.JSON(http.StatusNotFound, gin.H{"error": "Transaction not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete transaction"})
		return
	}

	h.audit(userID, "delete_transaction", txnID, nil)

	c.JSON(http.StatusOK, gin.H{"message": "Transaction deleted successfully"})
}

// GetCategories lists the categories the API understands.
func (h *TransactionHandler) GetCategories(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"categories": models.Categories})
}

func (h *TransactionHandler) audit(userID, action, entityID string, changes interface{}) {
	var payload []byte
	if changes != nil {
		payload, _ = json.Marshal(changes)
	}
	_, _ = h.DB.Exec(`
		INSERT INTO audit_logs (user_id, action, entity, entity_id, changes)
		VALUES ($1, $2, 'transaction', $3, $4)
	`, userID, action, entityID, payload)
}
