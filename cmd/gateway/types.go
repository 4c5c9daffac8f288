package main

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/wodwise/gateway/internal/coach"
	"github.com/wodwise/gateway/internal/config"
	"github.com/wodwise/gateway/internal/llm"
	"github.com/wodwise/gateway/wodwise/athletes"
	"github.com/wodwise/gateway/wodwise/usage"
)

// holds all dependencies and state for the gateway
type Server struct {
	db          *pgxpool.Pool
	config      *config.Config
	athleteRepo *athletes.Repository
	usageLedger *usage.Ledger
	services    *Services
	router      *gin.Engine
	redis       *redis.Client
}

// holds the external service clients
type Services struct {
	Backend llm.ModelBackend
	Coach   *coach.Coach
}
