package main

import (
	"log"

	"github.com/forumhub/forumhub/pkg/forumhub/auth"
	"github.com/forumhub/forumhub/pkg/forumhub/config"
	"github.com/forumhub/forumhub/pkg/forumhub/database"
	"github.com/forumhub/forumhub/pkg/forumhub/events"
	"github.com/forumhub/forumhub/pkg/forumhub/groups"
	"github.com/forumhub/forumhub/pkg/forumhub/models"
	"github.com/forumhub/forumhub/pkg/forumhub/notifications"
	"github.com/forumhub/forumhub/pkg/forumhub/posts"
	"github.com/forumhub/forumhub/pkg/forumhub/questions"
	"github.com/forumhub/forumhub/pkg/forumhub/users"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title ForumHub API
// @version 1.0
// @description A social forum backend with groups, posts, events, and notifications.

// @contact.name ForumHub Support
// @contact.url https://github.com/forumhub/forumhub

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT token. Format: "Bearer {token}"

func main() {
	cfg := config.Load()
	auth.SetJWTSecret(cfg.JWTSecret)

	// Connect to database
	if err := database.Connect(cfg.DBPath); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run auto-migrations
	if err := models.AutoMigrate(database.GetDB()); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	// Start the notification delivery worker
	notifier := notifications.NewService(database.GetDB())
	notifier.Start()
	defer notifier.Close()

	// Set up Gin router
	r := gin.Default()
	r.Use(auth.RequestID())

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
		})
	})

	// Swagger documentation
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// API routes
	api := r.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) {
			c.JSON(200, gin.H{
				"status":  "ok",
				"service": "forumhub",
			})
		})

		// Auth routes (public register/login, protected me/logout)
		authHandler := auth.NewHandler(database.GetDB())
		authHandler.RegisterRoutes(api.Group("/auth"))

		// Questions routes (public anonymous Q&A)
		questionsHandler := questions.NewHandler(database.GetDB())
		questionsHandler.RegisterRoutes(api.Group("/questions"))

		// Posts routes (protected)
		postsHandler := posts.NewHandler(database.GetDB(), notifier)
		postsGroup := api.Group("/posts")
		postsGroup.Use(auth.AuthMiddleware())
		postsHandler.RegisterRoutes(postsGroup)

		// Groups routes (protected)
		groupsHandler := groups.NewHandler(database.GetDB())
		groupsGroup := api.Group("/groups")
		groupsGroup.Use(auth.AuthMiddleware())
		groupsHandler.RegisterRoutes(groupsGroup)

		// Events routes (nested under groups, protected)
		eventsHandler := events.NewHandler(database.GetDB())
		eventsHandler.RegisterRoutes(groupsGroup)

		// Notifications routes (protected)
		notificationsHandler := notifications.NewHandler(database.GetDB())
		notificationsGroup := api.Group("/notifications")
		notificationsGroup.Use(auth.AuthMiddleware())
		notificationsHandler.RegisterRoutes(notificationsGroup)

		// Users routes (protected)
		usersHandler := users.NewHandler(database.GetDB())
		usersGroup := api.Group("/users")
		usersGroup.Use(auth.AuthMiddleware())
		usersHandler.RegisterRoutes(usersGroup)
	}

	log.Printf("Starting ForumHub server on :%s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
