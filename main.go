package main

import (
	"context"
	"database/sql"
	"log"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/centime-app/centime-api/config"
	"github.com/centime-app/centime-api/handlers"
	"github.com/centime-app/centime-api/middleware"
	"github.com/centime-app/centime-api/routes"
	"github.com/centime-app/centime-api/utils"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	if os.Getenv("SECRET_KEY") == "" {
		log.Fatal("SECRET_KEY environment variable is required")
	}

	cipher, err := utils.NewCipher(os.Getenv("DATA_ENCRYPTION_KEY"))
	if err != nil {
		log.Fatal("DATA_ENCRYPTION_KEY is invalid: ", err)
	}

	db, err := config.InitDB()
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	log.Println("✅ Database connected successfully")

	if err := config.RunMigrations(db); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	go scheduleMaintenance(db)

	wsHandler := handlers.NewWSHandler()

	router := gin.Default()

	frontendURL := os.Getenv("FRONTEND_URL")
	if frontendURL == "" {
		frontendURL = "http://localhost:3000"
	}

	corsConfig := cors.Config{
		AllowOrigins:     []string{frontendURL},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           86400,
	}
	router.Use(cors.New(corsConfig))

	router.Use(func(c *gin.Context) {
		start := time.Now()
		utils.Debugf("📨 %s %s from %s", c.Request.Method, c.Request.URL.Path, c.ClientIP())
		c.Next()
		duration := time.Since(start)
		utils.Infof("✅ %s %s - %d (%v)", c.Request.Method, c.Request.URL.Path, c.Writer.Status(), duration)
	})

	router.Use(middleware.RateLimiter())

	v1 := router.Group("/api/v1")
	{
		routes.SetupAuthRoutes(v1, db)
		v1.GET("/ws/goals/:id", wsHandler.HandleWS)

		protected := v1.Group("/")
		protected.Use(middleware.AuthMiddleware())
		{
			routes.SetupUserRoutes(protected, db)
			routes.SetupAccountRoutes(protected, db, cipher)
			routes.SetupTransactionRoutes(protected, db)
			routes.SetupBudgetRoutes(protected, db)
			routes.SetupGoalRoutes(protected, db, wsHandler)
			routes.SetupInvitationRoutes(protected, db, wsHandler)
			routes.SetupReportRoutes(protected, db)
		}
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"version": "1.0.0",
			"time":    time.Now().Format(time.RFC3339),
		})
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("🚀 Server starting on port %s...", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}

func scheduleMaintenance(db *sql.DB) {
	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()
	runMaintenance(db)
	for range ticker.C {
		runMaintenance(db)
	}
}

// runMaintenance drops expired sessions, verification tokens and invitations.
func runMaintenance(db *sql.DB) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	sweeps := map[string]string{
		"sessions":      `DELETE FROM sessions WHERE expires_at < NOW()`,
		"verifications": `DELETE FROM email_verifications WHERE expires_at < NOW()`,
		"invitations":   `DELETE FROM goal_invitations WHERE status = 'pending' AND expires_at < NOW()`,
	}

	for name, query := range sweeps {
		result, err := db.ExecContext(ctx, query)
		if err != nil {
			utils.Errorf("❌ Maintenance sweep %s failed: %v", name, err)
			continue
		}
		rows, _ := result.RowsAffected()
		if rows > 0 {
			utils.Infof("🧹 Cleaned %d expired %s", rows, name)
		}
	}
}
