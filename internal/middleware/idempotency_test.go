package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go-hrportal/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func newIdempotencyRouter(rdb *redis.Client, userID string, handlerHit *bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Next()
	})
	r.POST("/leave-requests", middleware.Idempotency(rdb), func(c *gin.Context) {
		*handlerHit = true
		c.JSON(http.StatusCreated, gin.H{"ok": true})
	})
	return r
}

func TestIdempotency(t *testing.T) {
	t.Run("first request takes the lock and passes through", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		userID := "user-1"
		cacheKey := "idemp:/leave-requests:" + userID + ":key-1"
		mock.ExpectGet(cacheKey).RedisNil()
		mock.ExpectSetNX(cacheKey+":lock", "locked", 30*time.Second).SetVal(true)

		handlerHit := false
		router := newIdempotencyRouter(rdb, userID, &handlerHit)

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/leave-requests", nil)
		req.Header.Set("Idempotency-Key", "key-1")
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.True(t, handlerHit)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("repeated key replays the cached response", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		userID := "user-1"
		cacheKey := "idemp:/leave-requests:" + userID + ":key-1"
		mock.ExpectGet(cacheKey).SetVal(`{"id":"abc","days":"3"}`)

		handlerHit := false
		router := newIdempotencyRouter(rdb, userID, &handlerHit)

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/leave-requests", nil)
		req.Header.Set("Idempotency-Key", "key-1")
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.False(t, handlerHit)
		assert.Contains(t, rec.Body.String(), `"days":"3"`)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("negative key still in flight", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		userID := "user-1"
		cacheKey := "idemp:/leave-requests:" + userID + ":key-1"
		mock.ExpectGet(cacheKey).RedisNil()
		mock.ExpectSetNX(cacheKey+":lock", "locked", 30*time.Second).SetVal(false)

		handlerHit := false
		router := newIdempotencyRouter(rdb, userID, &handlerHit)

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/leave-requests", nil)
		req.Header.Set("Idempotency-Key", "key-1")
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.False(t, handlerHit)
		assert.Contains(t, rec.Body.String(), "PROCESSING")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no idempotency key skips redis entirely", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()

		handlerHit := false
		router := newIdempotencyRouter(rdb, "user-1", &handlerHit)

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/leave-requests", nil)
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.True(t, handlerHit)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
