package handlers

import (
	"database/sql"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/centime-app/centime-api/middleware"
	"github.com/centime-app/centime-api/models"
	"github.com/centime-app/centime-api/utils"
)

type AccountHandler struct {
	DB     *sql.DB
	Cipher *utils.Cipher
}

// CreateAccount creates a financial account for the user
func (h *AccountHandler) CreateAccount(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req models.CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	currency := strings.ToUpper(req.Currency)
	if currency == "" {
		currency = "EUR"
	}

	// IBAN is stored encrypted, never in clear.
	var ibanEncrypted sql.NullString
	if req.IBAN != "" {
		encrypted, err := h.Cipher.EncryptIBAN(req.IBAN)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to encrypt account number"})
			return
		}
		ibanEncrypted = sql.NullString{String: encrypted, Valid: true}
	}

	var account models.Account
	err := h.DB.QueryRow(`
		INSERT INTO accounts (user_id, name, kind, currency, balance, iban_encrypted)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`, userID, req.Name, req.Kind, currency, req.Balance, ibanEncrypted).Scan(
		&account.ID, &account.CreatedAt, &account.UpdatedAt,
	)

	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create account"})
		return
	}

	account.UserID = userID
	account.Name = req.Name
	account.Kind = req.Kind
	account.Currency = currency
	account.Balance = req.Balance
	account.IBAN = req.IBAN

	c.JSON(http.StatusCreated, account)
}

// GetAccounts returns all of the user's accounts
func (h *AccountHandler) GetAccounts(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	rows, err := h.DB.Query(`
		SELECT id, user_id, name, kind, currency, balance, created_at, updated_at
		FROM accounts
		WHERE user_id = $1
		ORDER BY created_at
	`, userID)

	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch accounts"})
		return
	}
	defer rows.Close()

	accounts := []models.Account{}
	for rows.Next() {
		var account models.Account
		if err := rows.Scan(&account.ID, &account.UserID, &account.Name, &account.Kind,
			&account.Currency, &account.Balance, &account.CreatedAt, &account.UpdatedAt); err != nil {
			continue
		}
		accounts = append(accounts, account)
	}

	c.JSON(http.StatusOK, accounts)
}

// GetAccount returns a single account with its decrypted IBAN
func (h *AccountHandler) GetAccount(c *gin.Context) {
	userID := middleware.GetUserID(c)
	accountID := c.Param("id")

	var account models.Account
	var ibanEncrypted sql.NullString
	err := h.DB.QueryRow(`
		SELECT id, user_id, name, kind, currency, balance, iban_encrypted, created_at, updated_at
		FROM accounts
		WHERE id = $1 AND user_id = $2
	`, accountID, userID).Scan(
		&account.ID, &account.UserID, &account.Name, &account.Kind,
		&account.Currency, &account.Balance, &ibanEncrypted,
		&account.CreatedAt, &account.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		c.JSON(http.StatusNotFound, gin.H{"error": "Account not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch account"})
		return
	}

	if ibanEncrypted.Valid {
		plaintext, err := h.Cipher.DecryptIBAN(ibanEncrypted.String)
		if err == nil {
			account.IBAN = plaintext
		}
	}

	c.JSON(http.StatusOK, account)
}

// UpdateAccount updates account name and IBAN. An omitted iban keeps the
// stored value, an empty string clears it.
func (h *AccountHandler) UpdateAccount(c *gin.Context) {
	userID := middleware.GetUserID(c)
	accountID := c.Param("id")

	var req models.UpdateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	setIBAN := req.IBAN != nil
	var ibanEncrypted sql.NullString
	if setIBAN && *req.IBAN != "" {
		encrypted, err := h.Cipher.EncryptIBAN(*req.IBAN)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to encrypt account number"})
			return
		}
		ibanEncrypted = sql.NullString{String: encrypted, Valid: true}
	}

	result, err := h.DB.Exec(`
		UPDATE accounts
		SET name = $1, iban_encrypted = CASE WHEN $2 THEN $3 ELSE iban_encrypted END, updated_at = NOW()
		WHERE id = $4 AND user_id = $5
	`, req.Name, setIBAN, ibanEncrypted, accountID, userID)

	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update account"})
		return
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Account not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Account updated successfully"})
}

// DeleteAccount deletes an account that has no transactions
func (h *AccountHandler) DeleteAccount(c *gin.Context) {
	userID := middleware.GetUserID(c)
	accountID := c.Param("id")

	// Ownership first: someone else's account id answers 404, not 409.
	var owned, hasTransactions bool
	err := h.DB.QueryRow(`
		SELECT EXISTS(SELECT 1 FROM accounts WHERE id = $1 AND user_id = $2),
		       EXISTS(SELECT 1 FROM transactions WHERE account_id = $1 AND user_id = $2)
	`, accountID, userID).Scan(&owned, &hasTransactions)

	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check account"})
		return
	}
	if !owned {
		c.JSON(http.StatusNotFound, gin.H{"error": "Account not found"})
		return
	}
	if hasTransactions {
		c.JSON(http.StatusConflict, gin.H{"error": "Account has transactions and cannot be deleted"})
		return
	}

	result, err := h.DB.Exec(`
		DELETE FROM accounts WHERE id = $1 AND user_id = $2
	`, accountID, userID)

	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete account"})
		return
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Account not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Account deleted successfully"})
}
