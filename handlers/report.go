package handlers

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/centime-app/centime-api/middleware"
	"github.com/centime-app/centime-api/models"
	"github.com/centime-app/centime-api/services"
)

type ReportHandler struct {
	DB *sql.DB
}

type categoryTotal struct {
	Category string          `json:"category"`
	Total    decimal.Decimal `json:"total"`
}

// GetMonthlyReport summarizes a month: income, expenses, net, savings rate
// and per-category expense totals.
func (h *ReportHandler) GetMonthlyReport(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	month := c.Query("month")
	if month == "" {
		month = time.Now().Format("2006-01")
	}
	if _, err := time.Parse("2006-01", month); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "month must be YYYY-MM"})
		return
	}

	var income, expenses decimal.Decimal
	err := h.DB.QueryRow(`
		SELECT
			COALESCE(SUM(amount) FILTER (WHERE type = 'income'), 0),
			COALESCE(SUM(amount) FILTER (WHERE type = 'expense'), 0)
		FROM transactions
		WHERE user_id = $1 AND to_char(occurred_on, 'YYYY-MM') = $2
	`, userID, month).Scan(&income, &expenses)

	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute report"})
		return
	}

	net := income.Sub(expenses)
	savingsRate := decimal.Zero
	if income.IsPositive() {
		savingsRate = net.Div(income).Round(4)
	}

	rows, err := h.DB.Query(`
		SELECT category, SUM(amount)
		FROM transactions
		WHERE user_id = $1 AND type = 'expense' AND to_char(occurred_on, 'YYYY-MM') = $2
		GROUP BY category
		ORDER BY SUM(amount) DESC
	`, userID, month)

	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute report"})
		return
	}
	defer rows.Close()

	byCategory := []categoryTotal{}
	for rows.Next() {
		var ct categoryTotal
		if err := rows.Scan(&ct.Category, &ct.Total); err != nil {
			continue
		}
		byCategory = append(byCategory, ct)
	}

	overBudget := h.overBudgetCategories(userID, month)

	c.JSON(http.StatusOK, gin.H{
		"month":        month,
		"income":       income,
		"expenses":     expenses,
		"net":          net,
		"savings_rate": savingsRate,
		"by_category":  byCategory,
		"over_budget":  overBudget,
	})
}

// GetSuggestions runs the savings rules against the month's spending.
func (h *ReportHandler) GetSuggestions(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	month := c.Query("month")
	if month == "" {
		month = time.Now().Format("2006-01")
	}

	suggestions := []models.Suggestion{}

	// Recurring charges: one suggestion max per label.
	rows, err := h.DB.Query(`
		SELECT label, category, SUM(amount)
		FROM transactions
		WHERE user_id = $1 AND type = 'expense' AND to_char(occurred_on, 'YYYY-MM') = $2
		GROUP BY label, category
	`, userID, month)

	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute suggestions"})
		return
	}
	defer rows.Close()

	leisureCount := 0
	leisureTotal := decimal.Zero
	for rows.Next() {
		var label, category string
		var total decimal.Decimal
		if err := rows.Scan(&label, &category, &total); err != nil {
			continue
		}

		if category == models.CategoryLeisure {
			leisureCount++
			leisureTotal = leisureTotal.Add(total)
		}

		if s := services.AnalyzeExpense(label, category, total); s != nil {
			suggestions = append(suggestions, *s)
		}
	}

	if s := services.AnalyzeSubscriptions(leisureCount, leisureTotal); s != nil {
		suggestions = append(suggestions, *s)
	}

	for _, ob := range h.overBudgetSuggestions(userID, month) {
		suggestions = append(suggestions, ob)
	}

	c.JSON(http.StatusOK, gin.H{
		"month":       month,
		"suggestions": suggestions,
	})
}

func (h *ReportHandler) overBudgetCategories(userID, month string) []string {
	categories := []string{}
	for _, s := range h.overBudgetSuggestions(userID, month) {
		categories = append(categories, s.Category)
	}
	return categories
}

func (h *ReportHandler) overBudgetSuggestions(userID, month string) []models.Suggestion {
	rows, err := h.DB.Query(`
		SELECT b.category, b.limit_amount,
		       COALESCE((
		           SELECT SUM(t.amount) FROM transactions t
		           WHERE t.user_id = b.user_id
		             AND t.category = b.category
		             AND t.type = 'expense'
		             AND to_char(t.occurred_on, 'YYYY-MM') = b.month
		       ), 0)
		FROM budgets b
		WHERE b.user_id = $1 AND b.month = $2
	`, userID, month)

	if err != nil {
		return nil
	}
	defer rows.Close()

	var suggestions []models.Suggestion
	for rows.Next() {
		var category string
		var limit, spent decimal.Decimal
		if err := rows.Scan(&category, &limit, &spent); err != nil {
			continue
		}
		if s := services.AnalyzeOverBudget(category, limit, spent); s != nil {
			suggestions = append(suggestions, *s)
		}
	}

	return suggestions
}
