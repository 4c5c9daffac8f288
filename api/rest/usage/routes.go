package usage

import (
	"github.com/gin-gonic/gin"

	"github.com/wodwise/gateway/internal/auth"
)

// registers the usage route
func RegisterRoutes(router *gin.RouterGroup, tiers TierLookup, ledger UsageLedger) {
	router.GET("/usage", auth.Middleware(), Handler(tiers, ledger))
}
