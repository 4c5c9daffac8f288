package main

import (
	"github.com/gin-gonic/gin"

	"github.com/wodwise/gateway/api/rest/health"
	"github.com/wodwise/gateway/api/rest/proxy"
	"github.com/wodwise/gateway/api/rest/usage"
)

// sets up all API routes and middleware
func RegisterRoutes(router *gin.Engine, server *Server) {
	router.Use(CORSMiddleware())
	router.Use(RateLimitMiddleware(server.redis))

	health.RegisterRoutes(router)

	v1 := router.Group("/api/v1")

	{
		proxy.RegisterRoutes(v1, server.athleteRepo, server.usageLedger, server.services.Coach)
		usage.RegisterRoutes(v1, server.athleteRepo, server.usageLedger)
	}
}
