package routes

import (
	"github.com/gin-gonic/gin"

	"ggmarket/internal/handlers"
	"ggmarket/internal/middleware"
)

// SetupTransactionRoutes sets up routes for purchases and escrow
func SetupTransactionRoutes(r *gin.RouterGroup, transactionHandler *handlers.TransactionHandler, jwtSecret string) {
	transactions := r.Group("/transactions")
	transactions.Use(middleware.AuthRequired(jwtSecret))
	{
		transactions.POST("", transactionHandler.Purchase)
		transactions.GET("", transactionHandler.ListMyTransactions)
		transactions.GET("/:id", transactionHandler.GetTransaction)
		transactions.POST("/:id/complete", transactionHandler.Complete)
		transactions.POST("/:id/dispute", transactionHandler.Dispute)
	}

	admin := r.Group("/admin/transactions")
	admin.Use(middleware.AuthRequired(jwtSecret), middleware.AdminRequired())
	{
		admin.POST("/:id/refund", transactionHandler.Refund)
	}
}
