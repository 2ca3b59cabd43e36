package leave

import (
	"go-hrportal/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rdb *redis.Client) {
	leaves := r.Group("/leave-requests")
	leaves.Use(middleware.AuthMiddleware(), middleware.RateLimitByUser(rate.Limit(5), 10))
	{
		leaves.POST("", middleware.Idempotency(rdb), handler.Submit)
		leaves.GET("", handler.ListPending)
		leaves.GET("/:id", handler.GetByID)
		leaves.POST("/:id/approve", handler.Approve)
		leaves.POST("/:id/reject", handler.Reject)
	}

	// the proxy path gets its own prefix so the route tree stays free of
	// static/param sibling segments
	proxies := r.Group("/proxy-leave-requests")
	proxies.Use(middleware.AuthMiddleware(), middleware.RateLimitByUser(rate.Limit(5), 10))
	{
		proxies.POST("", middleware.Idempotency(rdb), handler.SubmitProxy)
	}
}
