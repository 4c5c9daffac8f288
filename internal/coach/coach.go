// Package coach turns whiteboard photos into structured workouts and
// structured workouts into personalized execution strategies, using a
// vision-capable model backend.
package coach

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/wodwise/gateway/internal/llm"
	"github.com/wodwise/gateway/internal/logger"
)

// base64 of a 10 MiB image, the largest upload the mobile client produces
const maxImageBase64Len = 10 * 1024 * 1024 * 4 / 3

var (
	ErrImageTooLarge    = errors.New("image exceeds maximum size")
	ErrMalformedOutput  = errors.New("model output contained no parseable result")
	ErrInvalidImageType = errors.New("unsupported image type")
)

var supportedMimeTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
	"image/gif":  true,
}

var workoutTypes = map[string]bool{
	"AMRAP":     true,
	"For Time":  true,
	"EMOM":      true,
	"Chipper":   true,
	"Intervals": true,
	"Other":     true,
}

var confidenceLevels = map[string]bool{
	"high":   true,
	"medium": true,
	"low":    true,
}

type Coach struct {
	backend llm.ModelBackend
}

func New(backend llm.ModelBackend) *Coach {
	return &Coach{backend: backend}
}

// ParseWOD extracts a structured workout from a base64-encoded whiteboard photo.
func (c *Coach) ParseWOD(ctx context.Context, imageBase64, mimeType string) (*ParsedWorkout, error) {
	if !supportedMimeTypes[mimeType] {
		return nil, fmt.Errorf("%w: %s", ErrInvalidImageType, mimeType)
	}

	if len(imageBase64) > maxImageBase64Len {
		return nil, ErrImageTooLarge
	}

	resp, err := c.backend.GenerateVision(ctx, llm.VisionRequest{
		SystemPrompt: parseSystemPrompt,
		Prompt:       parseUserPrompt,
		ImageBase64:  imageBase64,
		MimeType:     mimeType,
	})
	if err != nil {
		return nil, err
	}

	workout, err := decodeWorkout(resp.Text)
	if err != nil {
		logger.Warn("discarding unparseable model output",
			"model", c.backend.Model(),
			"output_len", len(resp.Text),
		)
		return nil, err
	}

	return workout, nil
}

// GenerateStrategy produces an execution plan for a parsed workout, tailored
// to the athlete's profile when one is available.
func (c *Coach) GenerateStrategy(ctx context.Context, workout *ParsedWorkout, profile *UserProfile) (*WodStrategy, error) {
	prompt, err := buildStrategyPrompt(workout, profile)
	if err != nil {
		return nil, err
	}

	resp, err := c.backend.GenerateText(ctx, llm.TextGenerationRequest{
		SystemPrompt: strategySystemPrompt,
		Messages: []llm.Message{
			{Role: "user", Content: prompt},
		},
	})
	if err != nil {
		return nil, err
	}

	strategy, err := decodeStrategy(resp.Text)
	if err != nil {
		logger.Warn("discarding unparseable model output",
			"model", c.backend.Model(),
			"output_len", len(resp.Text),
		)
		return nil, err
	}

	return strategy, nil
}

// the model is told to answer with bare JSON but wraps it in prose often
// enough that we extract the first balanced object instead of trusting it
func decodeWorkout(text string) (*ParsedWorkout, error) {
	raw := ExtractJSONObject(text)
	if raw == "" {
		return nil, ErrMalformedOutput
	}

	var workout ParsedWorkout
	if err := json.Unmarshal([]byte(raw), &workout); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedOutput, err)
	}

	if len(workout.Movements) == 0 {
		return nil, fmt.Errorf("%w: no movements", ErrMalformedOutput)
	}

	// unknown enum values degrade rather than reject
	if !workoutTypes[workout.WorkoutType] {
		workout.WorkoutType = "Other"
	}

	if !confidenceLevels[strings.ToLower(workout.Confidence)] {
		workout.Confidence = "low"
	} else {
		workout.Confidence = strings.ToLower(workout.Confidence)
	}

	return &workout, nil
}

func decodeStrategy(text string) (*WodStrategy, error) {
	raw := ExtractJSONObject(text)
	if raw == "" {
		return nil, ErrMalformedOutput
	}

	var strategy WodStrategy
	if err := json.Unmarshal([]byte(raw), &strategy); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedOutput, err)
	}

	if strategy.Pacing == "" || len(strategy.SetBreakdowns) == 0 {
		return nil, fmt.Errorf("%w: missing pacing or set breakdowns", ErrMalformedOutput)
	}

	return &strategy, nil
}
