package main

import (
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/ulule/limiter/v3"
	mgin "github.com/ulule/limiter/v3/drivers/middleware/gin"
	memorystore "github.com/ulule/limiter/v3/drivers/store/memory"
	redisstore "github.com/ulule/limiter/v3/drivers/store/redis"

	"github.com/wodwise/gateway/internal/errors"
	"github.com/wodwise/gateway/internal/logger"
)

// per-IP transport-level limit, separate from the per-user daily quota
const rateLimitFormat = "60-M"

// configures cross-origin access for the mobile app's web build and local dev
func CORSMiddleware() gin.HandlerFunc {
	allowedOrigins := []string{"http://localhost:8081", "http://localhost:19006"}

	if originsEnv := os.Getenv("ALLOWED_ORIGINS"); originsEnv != "" {
		allowedOrigins = strings.Split(originsEnv, ",")
	}

	return cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	})
}

// rate limits by client IP, backed by Redis when available so limits hold
// across instances
func RateLimitMiddleware(redisClient *redis.Client) gin.HandlerFunc {
	rate, err := limiter.NewRateFromFormatted(rateLimitFormat)
	if err != nil {
		logger.Fatal("invalid rate limit format", "format", rateLimitFormat, "error", err)
	}

	var store limiter.Store

	if redisClient != nil {
		store, err = redisstore.NewStoreWithOptions(redisClient, limiter.StoreOptions{
			Prefix: "wodwise:ratelimit",
		})
		if err != nil {
			logger.Warn("failed to create redis rate limit store, using memory", "error", err.Error())
			store = memorystore.NewStore()
		}
	} else {
		store = memorystore.NewStore()
	}

	return mgin.NewMiddleware(limiter.New(store, rate),
		mgin.WithLimitReachedHandler(func(c *gin.Context) {
			errors.TooManyRequests(c, "")
		}),
	)
}
