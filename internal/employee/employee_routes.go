package employee

import (
	"hr-ledger/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	employees := r.Group("/employees")
	employees.Use(middleware.AuthMiddleware())
	{
		employees.GET("", handler.GetAll)
		employees.GET("/options", handler.GetOptions)
		employees.GET("/:id", handler.GetById)
		employees.POST("", middleware.RoleMiddleware("ADMIN", "MANAGER"), handler.Create)
		employees.PUT("/:id", middleware.RoleMiddleware("ADMIN", "MANAGER"), handler.Update)
	}
}
