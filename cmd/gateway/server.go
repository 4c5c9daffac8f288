package main

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/wodwise/gateway/internal/config"
	"github.com/wodwise/gateway/internal/logger"
	"github.com/wodwise/gateway/wodwise/athletes"
	"github.com/wodwise/gateway/wodwise/usage"
)

// creates and configures a new gateway instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	ctx := context.Background()

	poolConfig, err := pgxpool.ParseConfig(cfg.SupabaseConnString)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	// configure connection pool for supabase free tier pooler compatibility
	// free tier has ~10-15 pooler connections, so keep our pool small
	poolConfig.MaxConns = 5
	poolConfig.MinConns = 1
	poolConfig.MaxConnLifetime = 30 * time.Minute
	poolConfig.MaxConnIdleTime = 5 * time.Minute

	// supabase's transaction pooler does not support prepared statements
	poolConfig.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeSimpleProtocol

	db, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create database pool: %w", err)
	}

	if err := db.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	services, err := InitializeServices()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	// Redis backs the per-IP rate limiter; without it the limiter falls
	// back to an in-memory store, fine for a single instance
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("failed to parse redis url: %w", err)
		}

		redisClient = redis.NewClient(opts)
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Warn("redis unreachable, rate limiting falls back to memory", "error", err.Error())
			redisClient.Close() //nolint:errcheck,gosec
			redisClient = nil
		}
	}

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()

	server := &Server{
		db:          db,
		config:      cfg,
		athleteRepo: athletes.NewRepository(db),
		usageLedger: usage.NewLedger(db),
		services:    services,
		router:      router,
		redis:       redisClient,
	}

	RegisterRoutes(router, server)

	return server, nil
}
