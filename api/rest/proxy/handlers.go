package proxy

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wodwise/gateway/internal/auth"
	"github.com/wodwise/gateway/internal/coach"
	"github.com/wodwise/gateway/internal/errors"
	"github.com/wodwise/gateway/internal/llm"
	"github.com/wodwise/gateway/internal/logger"
	"github.com/wodwise/gateway/internal/quota"
	"github.com/wodwise/gateway/internal/resilience"
)

// Handler godoc
// @Summary Proxy an AI request
// @Description Authenticated, quota-checked proxy to the vision/text model.
// @Description The model credential never leaves the server; usage is charged
// @Description only after the model call succeeds.
// @Tags ai
// @Accept json
// @Produce json
// @Param request body Request true "proxy request"
// @Success 200 {object} Response
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 429 {object} errors.QuotaExceededResponse
// @Failure 502 {object} errors.ErrorResponse
// @Failure 503 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /api/v1/ai/proxy [post]
func Handler(directory AthleteDirectory, ledger UsageLedger, workoutCoach WorkoutCoach) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := auth.GetUserID(c)
		if !ok {
			errors.Unauthorized(c, "")
			return
		}

		var req Request
		if err := c.ShouldBindJSON(&req); err != nil {
			errors.ValidationError(c, err)
			return
		}

		ctx := c.Request.Context()

		// admission: tier ceiling vs today's count. The read here and the
		// increment after the model call are separate ledger operations;
		// concurrent requests near the ceiling may briefly overshoot, which
		// is accepted over serializing all of one user's requests.
		tier := directory.TierFor(ctx, userID)

		countBefore, err := ledger.CountToday(ctx, userID)
		if err != nil {
			// fail closed rather than hand out unmetered model calls
			errors.InternalError(c, "failed to check usage", err)
			return
		}

		if !quota.Allowed(tier, countBefore) {
			logger.Info("request rejected by daily quota",
				"user_id", userID,
				"tier", tier,
				"count", countBefore,
			)
			errors.QuotaExceeded(c, upgradeMessage(tier))
			return
		}

		var data any

		switch req.Action {
		case ActionParseWOD:
			data, err = handleParseWOD(c, workoutCoach, &req)
		case ActionGenerateStrategy:
			data, err = handleGenerateStrategy(c, directory, workoutCoach, userID, &req)
		default:
			errors.InvalidRequest(c, fmt.Sprintf("unknown action %q", req.Action))
			return
		}

		if err != nil {
			respondModelError(c, err)
			return
		}

		if data == nil {
			// the handler already wrote a validation response
			return
		}

		// charge only after success; a recording failure must not take away
		// a result the user already earned
		newCount, err := ledger.RecordRequest(ctx, userID)
		if err != nil {
			logger.ErrorErr(err, "failed to record usage, result returned uncharged",
				"user_id", userID,
			)
			newCount = countBefore + 1
		}

		c.JSON(http.StatusOK, Response{
			Data:      data,
			Remaining: quota.Remaining(tier, newCount),
		})
	}
}

// returns (nil, nil) after writing a response when validation fails
func handleParseWOD(c *gin.Context, workoutCoach WorkoutCoach, req *Request) (any, error) {
	if req.ImageBase64 == "" || req.MimeType == "" {
		errors.InvalidRequest(c, "parse_wod requires imageBase64 and mimeType")
		return nil, nil
	}

	ctx, cancel := modelCallContext(c)
	defer cancel()

	return wrapNil(workoutCoach.ParseWOD(ctx, req.ImageBase64, req.MimeType))
}

func handleGenerateStrategy(c *gin.Context, directory AthleteDirectory, workoutCoach WorkoutCoach, userID string, req *Request) (any, error) {
	if req.Workout == nil {
		errors.InvalidRequest(c, "generate_strategy requires workout")
		return nil, nil
	}

	profile := req.UserProfile
	if profile == nil {
		stored, err := directory.ProfileFor(c.Request.Context(), userID)
		if err != nil {
			// a strategy without the profile beats no strategy at all
			logger.Warn("profile lookup failed, generating without it",
				"user_id", userID,
				"error", err.Error(),
			)
		} else {
			profile = stored
		}
	}

	ctx, cancel := modelCallContext(c)
	defer cancel()

	return wrapNil(workoutCoach.GenerateStrategy(ctx, req.Workout, profile))
}

// bounds the model call separately from the general request deadline
func modelCallContext(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), resilience.AITimeout)
}

func wrapNil[T any](v *T, err error) (any, error) {
	if err != nil {
		return nil, err
	}
	return v, nil
}

func respondModelError(c *gin.Context, err error) {
	switch {
	case stderrors.Is(err, coach.ErrImageTooLarge), stderrors.Is(err, coach.ErrInvalidImageType):
		errors.InvalidRequest(c, err.Error())
	case stderrors.Is(err, coach.ErrMalformedOutput):
		errors.MalformedModelOutput(c, err)
	default:
		var apiErr *llm.APIError
		if stderrors.As(err, &apiErr) {
			errors.ModelBackendError(c, apiErr.Transient(), err)
			return
		}
		// context deadline, connection failures and the like are transient
		errors.ModelBackendError(c, true, err)
	}
}

func upgradeMessage(tier string) string {
	if tier == quota.TierPro {
		return fmt.Sprintf("you have used all %d of today's AI requests, your quota resets at midnight UTC", quota.ProDailyLimit)
	}
	return fmt.Sprintf("you have used all %d of today's free AI requests, upgrade to Pro for %d per day", quota.FreeDailyLimit, quota.ProDailyLimit)
}
