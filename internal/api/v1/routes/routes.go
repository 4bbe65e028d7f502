package routes

import (
	"github.com/gin-gonic/gin"

	"spaceworks/internal/api/v1/handlers"
	"spaceworks/internal/app/jobstore"
	"spaceworks/internal/app/repository"
)

// RegisterRoutes registers all v1 API routes.
func RegisterRoutes(router *gin.RouterGroup, store *jobstore.Store, accounts repository.AccountDAO) {
	jobHandler := handlers.NewJobHandler(store)
	jobs := router.Group("/jobs")
	{
		jobs.POST("", jobHandler.Create)
		jobs.GET("", jobHandler.List)
		jobs.GET("/:id", jobHandler.Get)
		jobs.POST("/:id/cancel", jobHandler.Cancel)
	}

	accountHandler := handlers.NewAccountHandler(accounts)
	accountsGroup := router.Group("/accounts")
	{
		accountsGroup.GET("/:id/balance", accountHandler.GetBalance)
		accountsGroup.GET("/:id/transactions", accountHandler.ListTransactions)
	}
}
