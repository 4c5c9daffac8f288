package health

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response represents the health check response
type Response struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Version string `json:"version,omitempty"`
}

// returns the server health status
func Handler(c *gin.Context) {
	c.JSON(http.StatusOK, Response{
		Status:  "healthy",
		Service: "wodwise-gateway",
		Version: "1.0.0",
	})
}

// registers health routes on the root router
func RegisterRoutes(router *gin.Engine) {
	router.GET("/health", Handler)
}
