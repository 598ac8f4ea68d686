// main.go
package main

import (
	"log"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"

	"github.com/sshinde/billsplit-backend/auth"
	"github.com/sshinde/billsplit-backend/cache"
	"github.com/sshinde/billsplit-backend/handlers"
	"github.com/sshinde/billsplit-backend/middleware"
	"github.com/sshinde/billsplit-backend/repository"
	"github.com/sshinde/billsplit-backend/routes"
	"github.com/sshinde/billsplit-backend/services"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	// Initialize New Relic
	app, err := newrelic.NewApplication(
		newrelic.ConfigAppName("BillSplit API"),
		newrelic.ConfigLicense(os.Getenv("NEW_RELIC_LICENSE_KEY")),
		newrelic.ConfigDistributedTracerEnabled(true),
	)
	if err != nil {
		log.Printf("Warning: Failed to initialize New Relic: %v", err)
	}

	// Initialize database
	if err := repository.InitDB(); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer repository.CloseDB()

	// Expense read cache is optional; when disabled every read goes to
	// the database.
	cacheEnabled := os.Getenv("CACHE_EXPENSE_ENABLED") == "true"
	var expenseCache services.ExpenseCache
	if cacheEnabled {
		redisClient, err := cache.New()
		if err != nil {
			log.Fatalf("Failed to connect to redis: %v", err)
		}
		defer redisClient.Close()
		expenseCache = redisClient
		log.Println("Expense cache enabled")
	}

	// Sessions
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("JWT_SECRET environment variable not set")
	}
	jwtExpiresIn := 24 * time.Hour
	if raw := os.Getenv("JWT_EXPIRES_IN"); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil {
			jwtExpiresIn = d
		}
	}
	tokenService := auth.NewTokenService(jwtSecret, jwtExpiresIn)

	// Wire repositories and services
	db := repository.GetDB()
	userRepo := repository.NewUserRepository(db)
	groupRepo := repository.NewGroupRepository(db)
	expenseRepo := repository.NewExpenseRepository(db, userRepo, groupRepo)

	userService := services.NewUserService(userRepo, services.NewEmailService(), tokenService)
	groupService := services.NewGroupService(groupRepo, userRepo)
	expenseService := services.NewExpenseService(userRepo, groupRepo, expenseRepo,
		services.NewCalculationService(), expenseCache, cacheEnabled)
	reportService := services.NewReportService(groupService, expenseService)

	authMW := middleware.NewAuthMiddleware(tokenService, userService)

	h := &routes.Handlers{
		Users:    handlers.NewUserHandler(userService),
		Groups:   handlers.NewGroupHandler(groupService, reportService),
		Expenses: handlers.NewExpenseHandler(expenseService),
	}

	// Set up Gin router
	router := gin.Default()

	// Add New Relic middleware
	if app != nil {
		router.Use(nrgin.Middleware(app))
	}

	// Configure CORS
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"}, // Change to your frontend URL in production
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Set up routes
	routes.SetupRoutes(router, h, authMW)

	// Get port from environment or use default
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	// Start server
	log.Printf("Server starting on port %s...", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
