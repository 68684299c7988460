package handlers

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/centime-app/centime-api/middleware"
	"github.com/centime-app/centime-api/models"
)

type BudgetHandler struct {
	DB *sql.DB
}

// CreateBudget sets a monthly spending limit for a category
func (h *BudgetHandler) CreateBudget(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req models.CreateBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !models.IsKnownCategory(req.Category) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown category"})
		return
	}
	if _, err := time.Parse("2006-01", req.Month); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "month must be YYYY-MM"})
		return
	}
	if !req.LimitAmount.IsPositive() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "limit_amount must be positive"})
		return
	}

	budget := models.Budget{
		UserID:      userID,
		Category:    req.Category,
		Month:       req.Month,
		LimitAmount: req.LimitAmount,
	}

	err := h.DB.QueryRow(`
		INSERT INTO budgets (user_id, category, month, limit_amount)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`, userID, req.Category, req.Month, req.LimitAmount).Scan(
		&budget.ID, &budget.CreatedAt, &budget.UpdatedAt,
	)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			c.JSON(http.StatusConflict, gin.H{"error": "Budget already exists for this category and month"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create budget"})
		return
	}

	budget.Remaining = budget.LimitAmount
	c.JSON(http.StatusCreated, budget)
}

// GetBudgets returns the user's budgets with spent/remaining amounts,
// optionally restricted to ?month=YYYY-MM.
func (h *BudgetHandler) GetBudgets(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	query := `
		SELECT b.id, b.user_id, b.category, b.month, b.limit_amount, b.created_at, b.updated_at,
		       COALESCE((
		           SELECT SUM(t.amount) FROM transactions t
		           WHERE t.user_id = b.user_id
		             AND t.category = b.category
		             AND t.type = 'expense'
		             AND to_char(t.occurred_on, 'YYYY-MM') = b.month
		       ), 0) as spent
		FROM budgets b
		WHERE b.user_id = $1
	`
	args := []interface{}{userID}

	if month := c.Query("month"); month != "" {
		args = append(args, month)
		query += ` AND b.month = $2`
	}

	query += ` ORDER BY b.month DESC, b.category`

	rows, err := h.DB.Query(query, args...)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch budgets"})
		return
	}
	defer rows.Close()

	budgets := []models.Budget{}
	for rows.Next() {
		var b models.Budget
		var spent decimal.Decimal
		if err := rows.Scan(&b.ID, &b.UserID, &b.Category, &b.Month, &b.LimitAmount,
			&b.CreatedAt, &b.UpdatedAt, &spent); err != nil {
			continue
		}
		b.Spent = spent
		b.Remaining = b.LimitAmount.Sub(spent)
		budgets = append(budgets, b)
	}

	c.JSON(http.StatusOK, budgets)
}

// UpdateBudget changes the limit of an existing budget
func (h *BudgetHandler) UpdateBudget(c *gin.Context) {
	userID := middleware.GetUserID(c)
	budgetID := c.Param("id")

	var req models.UpdateBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !req.LimitAmount.IsPositive() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "limit_amount must be positive"})
		return
	}

	result, err := h.DB.Exec(`
		UPDATE budgets
		SET limit_amount = $1, updated_at = NOW()
		WHERE id = $2 AND user_id = $3
	`, req.LimitAmount, budgetID, userID)

	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update budget"})
		return
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Budget not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Budget updated successfully"})
}

// DeleteBudget removes a budget
func (h *BudgetHandler) DeleteBudget(c *gin.Context) {
	userID := middleware.GetUserID(c)
	budgetID := c.Param("id")

	result, err := h.DB.Exec(`
		DELETE FROM budgets WHERE id = $1 AND user_id = $2
	`, budgetID, userID)

	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete budget"})
		return
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Budget not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Budget deleted successfully"})
}
