package proxy

import (
	"context"

	"github.com/wodwise/gateway/internal/coach"
)

const (
	ActionParseWOD         = "parse_wod"
	ActionGenerateStrategy = "generate_strategy"
)

// Request is the tagged-union body of a proxy call. Action selects which
// of the remaining fields are required.
type Request struct {
	Action      string               `json:"action" binding:"required"`
	ImageBase64 string               `json:"imageBase64,omitempty"`
	MimeType    string               `json:"mimeType,omitempty"`
	Workout     *coach.ParsedWorkout `json:"workout,omitempty"`
	UserProfile *coach.UserProfile   `json:"userProfile,omitempty"`
}

// Response wraps the typed payload with the caller's remaining daily allowance
type Response struct {
	Data      any `json:"data"`
	Remaining int `json:"remaining"`
}

// AthleteDirectory resolves tier and stored profile for a user.
type AthleteDirectory interface {
	TierFor(ctx context.Context, userID string) string
	ProfileFor(ctx context.Context, userID string) (*coach.UserProfile, error)
}

// UsageLedger is the per-user, per-day request counter.
type UsageLedger interface {
	CountToday(ctx context.Context, userID string) (int, error)
	RecordRequest(ctx context.Context, userID string) (int, error)
}

// WorkoutCoach turns validated proxy requests into model-backed results.
type WorkoutCoach interface {
	ParseWOD(ctx context.Context, imageBase64, mimeType string) (*coach.ParsedWorkout, error)
	GenerateStrategy(ctx context.Context, workout *coach.ParsedWorkout, profile *coach.UserProfile) (*coach.WodStrategy, error)
}
