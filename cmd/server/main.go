package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"

	"github.com/gin-gonic/gin"

	"github.com/SakshamChouhan/file-to-drive/api/handlers"
	"github.com/SakshamChouhan/file-to-drive/internal/collab"
	"github.com/SakshamChouhan/file-to-drive/internal/db"
	"github.com/SakshamChouhan/file-to-drive/internal/document"
	"github.com/SakshamChouhan/file-to-drive/internal/repository"
	"github.com/SakshamChouhan/file-to-drive/internal/user"
)

func main() {
	// Get configuration from environment
	port := getEnv("PORT", "8080")
	dbPath := getEnv("DB_PATH", "data/letters.db")
	maxDocuments := getEnvInt("MAX_DOCUMENTS_PER_USER", 100)

	// Ensure data directory exists
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		log.Fatalf("Failed to create database directory: %v", err)
	}

	// Initialize database
	database, err := db.InitDB(dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.CloseDB()

	// Initialize repositories
	documentRepo := repository.NewDocumentRepository(database)
	userRepo := repository.NewUserRepository(database)

	// Initialize services
	documentService := document.NewService(documentRepo, document.Config{
		MaxDocumentsPerUser: maxDocuments,
	})
	userService := user.NewService(userRepo)

	// Provision the development fallback account so document writes
	// satisfy the user foreign key before sign-in exists.
	if _, err := userService.Ensure(context.Background(), user.DefaultUser()); err != nil {
		log.Fatalf("Failed to provision default user: %v", err)
	}

	// Initialize the collaboration layer: one registry owns all group
	// state, the hub only reads it.
	registry := collab.NewRegistry()
	hub := collab.NewHub(registry)
	collabHandler := collab.NewHandler(registry, hub)

	// Initialize handlers
	documentHandler := handlers.NewDocumentHandler(documentService)
	wsHandler := handlers.NewWebSocketHandler(collabHandler)

	// Initialize Gin router
	r := gin.Default()

	// Enable CORS for development
	r.Use(corsMiddleware())

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
		})
	})

	// Collaboration channel
	wsHandler.RegisterRoutes(r)

	// API routes
	api := r.Group("/api")
	{
		documentHandler.RegisterRoutes(api)
	}

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Println("Shutting down server...")
		db.CloseDB()
		os.Exit(0)
	}()

	// Start server
	log.Printf("Starting server on port %s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// getEnv returns the value of an environment variable or a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt returns an integer environment variable or a default value.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

// corsMiddleware returns a CORS middleware for development.
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
