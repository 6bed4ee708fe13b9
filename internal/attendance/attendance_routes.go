package attendance

import (
	"hr-ledger/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	attendances := r.Group("/attendance")
	attendances.Use(middleware.AuthMiddleware())
	{
		attendances.GET("/status", handler.GetStatus)
	}
}
