package usage

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wodwise/gateway/internal/auth"
	"github.com/wodwise/gateway/internal/errors"
	"github.com/wodwise/gateway/internal/quota"
)

type TierLookup interface {
	TierFor(ctx context.Context, userID string) string
}

type UsageLedger interface {
	CountToday(ctx context.Context, userID string) (int, error)
}

// Response is the caller's current quota standing.
type Response struct {
	Tier      string `json:"tier"`
	Used      int    `json:"used"`
	Limit     int    `json:"limit"`
	Remaining int    `json:"remaining"`
}

// Handler godoc
// @Summary Get today's AI usage
// @Description Returns the caller's tier, today's usage and remaining allowance.
// @Tags ai
// @Produce json
// @Success 200 {object} Response
// @Failure 401 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /api/v1/usage [get]
func Handler(tiers TierLookup, ledger UsageLedger) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := auth.GetUserID(c)
		if !ok {
			errors.Unauthorized(c, "")
			return
		}

		ctx := c.Request.Context()

		tier := tiers.TierFor(ctx, userID)

		used, err := ledger.CountToday(ctx, userID)
		if err != nil {
			errors.InternalError(c, "failed to read usage", err)
			return
		}

		c.JSON(http.StatusOK, Response{
			Tier:      tier,
			Used:      used,
			Limit:     quota.Ceiling(tier),
			Remaining: quota.Remaining(tier, used),
		})
	}
}
