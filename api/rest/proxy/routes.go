package proxy

import (
	"github.com/gin-gonic/gin"

	"github.com/wodwise/gateway/internal/auth"
)

// registers the AI proxy route
func RegisterRoutes(router *gin.RouterGroup, directory AthleteDirectory, ledger UsageLedger, workoutCoach WorkoutCoach) {
	router.POST("/ai/proxy", auth.Middleware(), Handler(directory, ledger, workoutCoach))
}
