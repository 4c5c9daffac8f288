package coach

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wodwise/gateway/internal/llm"
)

// mockBackend returns canned text and records how it was called
type mockBackend struct {
	text        string
	err         error
	textCalls   int
	visionCalls int
	lastPrompt  string
}

func (m *mockBackend) Model() string { return "mock-model" }

func (m *mockBackend) GenerateText(ctx context.Context, req llm.TextGenerationRequest) (*llm.TextGenerationResponse, error) {
	m.textCalls++
	if len(req.Messages) > 0 {
		m.lastPrompt = req.Messages[len(req.Messages)-1].Content
	}
	if m.err != nil {
		return nil, m.err
	}
	return &llm.TextGenerationResponse{Text: m.text}, nil
}

func (m *mockBackend) GenerateVision(ctx context.Context, req llm.VisionRequest) (*llm.TextGenerationResponse, error) {
	m.visionCalls++
	if m.err != nil {
		return nil, m.err
	}
	return &llm.TextGenerationResponse{Text: m.text}, nil
}

const validWorkoutJSON = `{"workoutType": "AMRAP", "timeCap": 20, "movements": [{"name": "Pull-ups", "reps": "5"}, {"name": "Push-ups", "reps": "10"}, {"name": "Air Squats", "reps": "15"}], "confidence": "high"}`

const validStrategyJSON = `{"pacing": "Consistent rounds around 1:10 each", "setBreakdowns": [{"movement": "Pull-ups", "strategy": "unbroken"}], "estimatedTime": {"min": 18, "max": 20}, "tips": ["Breathe on the squats"]}`

func TestParseWOD(t *testing.T) {
	t.Run("parses a clean response", func(t *testing.T) {
		backend := &mockBackend{text: validWorkoutJSON}
		coach := New(backend)

		workout, err := coach.ParseWOD(context.Background(), "aW1hZ2U=", "image/jpeg")

		require.NoError(t, err)
		assert.Equal(t, "AMRAP", workout.WorkoutType)
		assert.Len(t, workout.Movements, 3)
		assert.Equal(t, "high", workout.Confidence)
		assert.Equal(t, 1, backend.visionCalls)
	})

	t.Run("extracts JSON wrapped in prose", func(t *testing.T) {
		backend := &mockBackend{text: "Here's the workout I found: " + validWorkoutJSON + " Let me know if you need anything else!"}
		coach := New(backend)

		workout, err := coach.ParseWOD(context.Background(), "aW1hZ2U=", "image/png")

		require.NoError(t, err)
		assert.Equal(t, "Pull-ups", workout.Movements[0].Name)
	})

	t.Run("normalizes unknown workout type and confidence", func(t *testing.T) {
		backend := &mockBackend{text: `{"workoutType": "Death By", "movements": [{"name": "Burpees", "reps": "max"}], "confidence": "certain"}`}
		coach := New(backend)

		workout, err := coach.ParseWOD(context.Background(), "aW1hZ2U=", "image/jpeg")

		require.NoError(t, err)
		assert.Equal(t, "Other", workout.WorkoutType)
		assert.Equal(t, "low", workout.Confidence)
	})

	t.Run("rejects output with no JSON span", func(t *testing.T) {
		backend := &mockBackend{text: "I could not make out the whiteboard in this photo."}
		coach := New(backend)

		_, err := coach.ParseWOD(context.Background(), "aW1hZ2U=", "image/jpeg")

		assert.ErrorIs(t, err, ErrMalformedOutput)
	})

	t.Run("rejects workout with no movements", func(t *testing.T) {
		backend := &mockBackend{text: `{"workoutType": "AMRAP", "movements": [], "confidence": "high"}`}
		coach := New(backend)

		_, err := coach.ParseWOD(context.Background(), "aW1hZ2U=", "image/jpeg")

		assert.ErrorIs(t, err, ErrMalformedOutput)
	})

	t.Run("rejects unsupported mime type without calling the backend", func(t *testing.T) {
		backend := &mockBackend{text: validWorkoutJSON}
		coach := New(backend)

		_, err := coach.ParseWOD(context.Background(), "aW1hZ2U=", "application/pdf")

		assert.ErrorIs(t, err, ErrInvalidImageType)
		assert.Equal(t, 0, backend.visionCalls)
	})

	t.Run("rejects oversized image without calling the backend", func(t *testing.T) {
		backend := &mockBackend{text: validWorkoutJSON}
		coach := New(backend)

		huge := strings.Repeat("A", maxImageBase64Len+1)
		_, err := coach.ParseWOD(context.Background(), huge, "image/jpeg")

		assert.ErrorIs(t, err, ErrImageTooLarge)
		assert.Equal(t, 0, backend.visionCalls)
	})
}

func TestGenerateStrategy(t *testing.T) {
	workout := &ParsedWorkout{
		WorkoutType: "AMRAP",
		Movements:   []Movement{{Name: "Pull-ups", Reps: "5"}},
		Confidence:  "high",
	}

	t.Run("parses a clean response", func(t *testing.T) {
		backend := &mockBackend{text: validStrategyJSON}
		coach := New(backend)

		strategy, err := coach.GenerateStrategy(context.Background(), workout, nil)

		require.NoError(t, err)
		assert.Equal(t, "Consistent rounds around 1:10 each", strategy.Pacing)
		assert.Len(t, strategy.SetBreakdowns, 1)
		assert.Equal(t, 1, backend.textCalls)
	})

	t.Run("extracts JSON wrapped in prose", func(t *testing.T) {
		backend := &mockBackend{text: "Sure! Here's the strategy: " + validStrategyJSON + " Hope that helps!"}
		coach := New(backend)

		strategy, err := coach.GenerateStrategy(context.Background(), workout, nil)

		require.NoError(t, err)
		assert.Equal(t, float64(18), strategy.EstimatedTime.Min)
	})

	t.Run("includes profile details in the prompt", func(t *testing.T) {
		backend := &mockBackend{text: validStrategyJSON}
		coach := New(backend)

		profile := &UserProfile{
			ExperienceLevel: "intermediate",
			Skills:          map[string]int{"pull-ups": 4},
			Limitations:     []string{"shoulder impingement"},
		}

		_, err := coach.GenerateStrategy(context.Background(), workout, profile)

		require.NoError(t, err)
		assert.Contains(t, backend.lastPrompt, "intermediate")
		assert.Contains(t, backend.lastPrompt, "pull-ups: 4")
		assert.Contains(t, backend.lastPrompt, "shoulder impingement")
	})

	t.Run("rejects output with no JSON span", func(t *testing.T) {
		backend := &mockBackend{text: "Great workout! Pace yourself and have fun."}
		coach := New(backend)

		_, err := coach.GenerateStrategy(context.Background(), workout, nil)

		assert.ErrorIs(t, err, ErrMalformedOutput)
	})

	t.Run("rejects strategy missing pacing", func(t *testing.T) {
		backend := &mockBackend{text: `{"setBreakdowns": [{"movement": "Pull-ups", "strategy": "unbroken"}], "estimatedTime": {"min": 8, "max": 10}, "tips": []}`}
		coach := New(backend)

		_, err := coach.GenerateStrategy(context.Background(), workout, nil)

		assert.ErrorIs(t, err, ErrMalformedOutput)
	})
}
