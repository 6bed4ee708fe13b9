package balance

import (
	"hr-ledger/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rdb *redis.Client) {
	balances := r.Group("/balances")
	balances.Use(middleware.AuthMiddleware())
	{
		balances.GET("/year/:year", handler.GetYearView)
		balances.GET("/employee/:employeeId/year/:year/summary", handler.GetSummary)

		// Writes are gated on ADMIN/MANAGER before the engine re-checks
		// the actor at its own boundary.
		balances.PUT("/employee/:employeeId/year/:year",
			middleware.RoleMiddleware(RoleAdmin, RoleManager),
			handler.Upsert,
		)
		balances.POST("/year/:year/bulk",
			middleware.RoleMiddleware(RoleAdmin, RoleManager),
			middleware.Idempotency(rdb),
			handler.BulkInitialize,
		)
	}
}
