package employee

import (
	"go-hrportal/internal/middleware"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	employees := r.Group("/employees")
	employees.Use(middleware.AuthMiddleware(), middleware.RateLimitByUser(rate.Limit(5), 10))
	{
		employees.POST("", handler.Create)
		employees.GET("", handler.GetAll)
		employees.GET("/:id/balance", handler.GetBalance)
		employees.PUT("/:id/allowance", handler.SetAllowance)
	}

	// the sweep lives outside /employees/:id to keep the route tree flat
	resets := r.Group("/balance-resets")
	resets.Use(middleware.AuthMiddleware(), middleware.RateLimitByUser(rate.Limit(5), 10))
	{
		resets.POST("", handler.ResetAllBalances)
	}
}
