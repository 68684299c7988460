package routes

import (
	"database/sql"

	"github.com/gin-gonic/gin"

	"github.com/centime-app/centime-api/handlers"
	"github.com/centime-app/centime-api/services"
	"github.com/centime-app/centime-api/utils"
)

// SetupAuthRoutes sets up public authentication routes.
func SetupAuthRoutes(rg *gin.RouterGroup, db *sql.DB) {
	authHandler := &handlers.AuthHandler{DB: db, Email: services.NewEmailService()}

	rg.POST("/auth/signup", authHandler.Signup)
	rg.POST("/auth/login", authHandler.Login)
	rg.POST("/auth/refresh", authHandler.Refresh)
	rg.POST("/auth/logout", authHandler.Logout)
	rg.GET("/auth/verify", authHandler.VerifyEmail)
}

// SetupUserRoutes sets up protected user routes.
func SetupUserRoutes(rg *gin.RouterGroup, db *sql.DB) {
	userHandler := &handlers.UserHandler{DB: db}

	rg.GET("/user/profile", userHandler.GetProfile)
	rg.PUT("/user/profile", userHandler.UpdateProfile)
	rg.POST("/user/password", userHandler.ChangePassword)
	rg.POST("/user/2fa/setup", userHandler.SetupTOTP)
	rg.POST("/user/2fa/verify", userHandler.VerifyTOTP)
	rg.POST("/user/2fa/disable", userHandler.DisableTOTP)
	rg.DELETE("/user/account", userHandler.DeleteAccount)
}

// SetupAccountRoutes sets up protected financial-account routes.
func SetupAccountRoutes(rg *gin.RouterGroup, db *sql.DB, cipher *utils.Cipher) {
	accountHandler := &handlers.AccountHandler{DB: db, Cipher: cipher}

	rg.GET("/accounts", accountHandler.GetAccounts)
	rg.POST("/accounts", accountHandler.CreateAccount)
	rg.GET("/accounts/:id", accountHandler.GetAccount)
	rg.PUT("/accounts/:id", accountHandler.UpdateAccount)
	rg.DELETE("/accounts/:id", accountHandler.DeleteAccount)
}

// SetupTransactionRoutes sets up protected transaction routes.
func SetupTransactionRoutes(rg *gin.RouterGroup, db *sql.DB) {
	categorizer := services.NewCategorizerService(db)
	txHandler := &handlers.TransactionHandler{DB: db, Categorizer: categorizer}

	rg.GET("/transactions", txHandler.GetTransactions)
	rg.POST("/transactions", txHandler.CreateTransaction)
	rg.PUT("/transactions/:id", txHandler.UpdateTransaction)
	rg.DELETE("/transactions/:id", txHandler.DeleteTransaction)
	rg.GET("/categories", txHandler.GetCategories)
}

// SetupBudgetRoutes sets up protected budget routes.
func SetupBudgetRoutes(rg *gin.RouterGroup, db *sql.DB) {
	budgetHandler := &handlers.BudgetHandler{DB: db}

	rg.GET("/budgets", budgetHandler.GetBudgets)
	rg.POST("/budgets", budgetHandler.CreateBudget)
	rg.PUT("/budgets/:id", budgetHandler.UpdateBudget)
	rg.DELETE("/budgets/:id", budgetHandler.DeleteBudget)
}

// SetupGoalRoutes sets up protected savings-goal routes.
func SetupGoalRoutes(rg *gin.RouterGroup, db *sql.DB, ws *handlers.WSHandler) {
	goalService := services.NewGoalService(db)
	goalHandler := handlers.NewGoalHandler(goalService, ws)

	rg.GET("/goals", goalHandler.GetGoals)
	rg.POST("/goals", goalHandler.CreateGoal)
	rg.GET("/goals/:id", goalHandler.GetGoal)
	rg.PUT("/goals/:id", goalHandler.UpdateGoal)
	rg.POST("/goals/:id/archive", goalHandler.ArchiveGoal)
	rg.DELETE("/goals/:id", goalHandler.DeleteGoal)

	rg.GET("/goals/:id/contributions", goalHandler.GetContributions)
	rg.POST("/goals/:id/contributions", goalHandler.Contribute)
}

// SetupInvitationRoutes sets up goal invitation and member management routes.
func SetupInvitationRoutes(rg *gin.RouterGroup, db *sql.DB, ws *handlers.WSHandler) {
	invitationHandler := &handlers.InvitationHandler{
		Goals: services.NewGoalService(db),
		Email: services.NewEmailService(),
		WS:    ws,
	}

	rg.POST("/goals/:id/invite", invitationHandler.InviteMember)
	rg.POST("/invitations/accept", invitationHandler.AcceptInvitation)
	rg.GET("/goals/:id/invitations", invitationHandler.GetInvitations)
	rg.DELETE("/goals/:id/invitations/:invitation_id", invitationHandler.CancelInvitation)
	rg.DELETE("/goals/:id/members/:member_id", invitationHandler.RemoveMember)
}

// SetupReportRoutes sets up protected reporting routes.
func SetupReportRoutes(rg *gin.RouterGroup, db *sql.DB) {
	reportHandler := &handlers.ReportHandler{DB: db}

	rg.GET("/reports/monthly", reportHandler.GetMonthlyReport)
	rg.GET("/reports/suggestions", reportHandler.GetSuggestions)
}
