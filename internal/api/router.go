package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/account-ledger-core/internal/api/handler"
	"github.com/account-ledger-core/internal/api/middleware"
	"github.com/gin-gonic/gin"
)

// setupRouter configures API routes and middleware for the application
func setupRouter(
	logger *slog.Logger,
	r *gin.Engine,
	accountHandler *handler.AccountHandler,
	transactionHandler *handler.TransactionHandler,
) {
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.CorrelationID())
	r.Use(middleware.Logger(logger))

	// API v1 endpoints
	v1 := r.Group("/api/v1")
	{
		// Account lifecycle
		accounts := v1.Group("/accounts")
		{
			accounts.POST("", accountHandler.Create)
			accounts.DELETE("", accountHandler.Close)
			accounts.GET("", accountHandler.GetByUserID)
		}

		// Balance operations
		transactions := v1.Group("/transactions")
		{
			transactions.POST("/use", transactionHandler.Use)
			transactions.POST("/cancel", transactionHandler.Cancel)
			transactions.GET("/:id", transactionHandler.GetByID)
		}
	}

	// Health check endpoint for monitoring
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": time.Now().UTC()})
	})
}
