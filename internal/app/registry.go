package app

import (
	"database/sql"

	"hr-ledger/internal/attendance"
	"hr-ledger/internal/balance"
	"hr-ledger/internal/employee"
	"hr-ledger/internal/messaging/kafka"
	"hr-ledger/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
) error {
	// --- Repositories ---
	attendanceRepo := attendance.NewRepository(gormDB)
	balanceRepo := balance.NewRepository(gormDB)
	employeeRepo := employee.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)

	// --- Services ---
	balanceService := balance.NewServiceWithOutbox(db, balanceRepo, outboxRepo, rdb)
	employeeService := employee.NewService(db, employeeRepo, rdb)
	pendingSource := attendance.NewRedisPendingSource(rdb)
	attendanceService := attendance.NewService(attendanceRepo, balanceService, pendingSource)

	// --- Handlers ---
	attendanceHandler := attendance.NewHandler(attendanceService)
	balanceHandler := balance.NewHandler(balanceService)
	employeeHandler := employee.NewHandler(employeeService)

	router.Use(middleware.RequestID())
	router.Use(middleware.RateLimitByIP(rate.Limit(20), 40))

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		attendance.RegisterRoutes(api, attendanceHandler)
		balance.RegisterRoutes(api, balanceHandler, rdb)
		employee.RegisterRoutes(api, employeeHandler)
	}

	return nil
}
