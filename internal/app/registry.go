package app

import (
	"database/sql"

	"go-hrportal/internal/authz"
	"go-hrportal/internal/employee"
	"go-hrportal/internal/leave"
	"go-hrportal/internal/messaging/kafka"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
) error {
	// --- Repositories ---
	roleRepo := authz.NewRepository(gormDB)
	employeeRepo := employee.NewRepository(gormDB, db)
	leaveRepo := leave.NewRepository(gormDB, db)
	outboxRepo := kafka.NewOutboxRepository(db)

	// --- Authorization Gate ---
	enforcer, err := authz.NewEnforcer()
	if err != nil {
		return err
	}
	gate := authz.NewGate(roleRepo, enforcer)

	// --- Services ---
	employeeService := employee.NewService(employeeRepo, gate)
	leaveService := leave.NewService(db, leaveRepo, employeeRepo, outboxRepo, gate)

	// --- Handlers ---
	employeeHandler := employee.NewHandler(employeeService)
	leaveHandler := leave.NewHandlerWithRedis(leaveService, rdb)

	// --- Routes ---
	api := router.Group("/api/v1")
	{
		employee.RegisterRoutes(api, employeeHandler)
		leave.RegisterRoutes(api, leaveHandler, rdb)
	}

	return nil
}
