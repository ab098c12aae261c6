// main.go - The entry point and router setup.

package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gradelens/marksheet_ocr_gemini/configs"
	"github.com/gradelens/marksheet_ocr_gemini/internal/ai"
	"github.com/gradelens/marksheet_ocr_gemini/internal/api"
	"github.com/gradelens/marksheet_ocr_gemini/internal/extractor"
	"github.com/gradelens/marksheet_ocr_gemini/internal/ratelimit"
	"github.com/gradelens/marksheet_ocr_gemini/internal/storage"
)

func main() {
	// Step 0: Load configuration from environment variables
	configs.LoadConfig()

	if ginMode := os.Getenv("GIN_MODE"); ginMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Step 1: Create the UPLOAD_DIR folder if it doesn't exist
	if err := os.MkdirAll(configs.UPLOAD_DIR, 0755); err != nil {
		log.Fatalf("Failed to create upload directory: %v", err)
	}

	// Step 2: Initialize optional MongoDB storage
	if err := storage.InitMongoDB(); err != nil {
		log.Printf("⚠️ MongoDB unavailable, extraction history disabled: %v", err)
	}
	defer storage.CloseMongoDB()

	// Step 3: Create the AI provider and pipeline
	ratelimit.SetMinInterval(time.Duration(configs.REQUEST_INTERVAL_SECONDS) * time.Second)

	provider, err := ai.CreateProvider()
	if err != nil {
		log.Fatalf("Failed to create AI provider: %v", err)
	}
	gateway := ai.NewGatewayWithConfig(provider, ratelimit.Default(), ai.RetryConfig{
		MaxQuotaRetries: configs.MAX_QUOTA_RETRIES,
		QuotaBackoff:    time.Duration(configs.QUOTA_BACKOFF_SECONDS) * time.Second,
	})
	handler := api.NewHandler(extractor.NewExtractor(gateway))

	// Step 4: Initialize the Gin router
	router := gin.Default()

	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", configs.ALLOWED_ORIGINS)
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		c.Writer.Header().Set("Access-Control-Max-Age", "86400")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	// Root endpoint: demo page when present, plain ok otherwise
	router.GET("/", func(c *gin.Context) {
		indexPath := filepath.Join("static", "index.html")
		if _, err := os.Stat(indexPath); err == nil {
			c.File(indexPath)
			return
		}
		c.String(200, "ok")
	})

	router.GET("/health", handler.HealthHandler)
	router.GET("/info", handler.InfoHandler)

	// Step 5: Define the API routes
	authed := router.Group("/api/v1", api.AuthMiddleware())
	authed.POST("/extract", handler.ExtractHandler)
	authed.POST("/extract/batch", handler.ExtractBatchHandler)
	authed.GET("/history", handler.HistoryHandler)

	// Step 6: Setup HTTP server with timeouts
	srv := &http.Server{
		Addr:           ":" + configs.PORT,
		Handler:        router,
		ReadTimeout:    30 * time.Second,
		WriteTimeout:   5 * time.Minute, // Batch extraction can take several model calls
		MaxHeaderBytes: 1 << 20,
	}

	go func() {
		log.Printf("Starting server on :%s", configs.PORT)
		log.Println("API Endpoints:")
		log.Println("  POST /api/v1/extract")
		log.Println("  POST /api/v1/extract/batch")
		log.Println("  GET  /api/v1/history")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}
