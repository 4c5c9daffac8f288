package proxy

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wodwise/gateway/internal/auth"
	"github.com/wodwise/gateway/internal/coach"
	"github.com/wodwise/gateway/internal/llm"
)

type mockDirectory struct {
	tier         string
	profile      *coach.UserProfile
	tierCalls    int
	profileCalls int
}

func (m *mockDirectory) TierFor(ctx context.Context, userID string) string {
	m.tierCalls++
	return m.tier
}

func (m *mockDirectory) ProfileFor(ctx context.Context, userID string) (*coach.UserProfile, error) {
	m.profileCalls++
	return m.profile, nil
}

type mockLedger struct {
	count       int
	countErr    error
	recordErr   error
	countCalls  int
	recordCalls int
}

func (m *mockLedger) CountToday(ctx context.Context, userID string) (int, error) {
	m.countCalls++
	return m.count, m.countErr
}

func (m *mockLedger) RecordRequest(ctx context.Context, userID string) (int, error) {
	m.recordCalls++
	if m.recordErr != nil {
		return 0, m.recordErr
	}
	m.count++
	return m.count, nil
}

type mockCoach struct {
	workout       *coach.ParsedWorkout
	strategy      *coach.WodStrategy
	err           error
	parseCalls    int
	strategyCalls int
	lastProfile   *coach.UserProfile
}

func (m *mockCoach) ParseWOD(ctx context.Context, imageBase64, mimeType string) (*coach.ParsedWorkout, error) {
	m.parseCalls++
	return m.workout, m.err
}

func (m *mockCoach) GenerateStrategy(ctx context.Context, workout *coach.ParsedWorkout, profile *coach.UserProfile) (*coach.WodStrategy, error) {
	m.strategyCalls++
	m.lastProfile = profile
	return m.strategy, m.err
}

var testWorkout = &coach.ParsedWorkout{
	WorkoutType: "For Time",
	Movements:   []coach.Movement{{Name: "Thrusters", Reps: "21-15-9"}},
	Confidence:  "high",
}

var testStrategy = &coach.WodStrategy{
	Pacing:        "Go out controlled on the 21s",
	SetBreakdowns: []coach.SetBreakdown{{Movement: "Thrusters", Strategy: "11-10, 8-7, unbroken"}},
	EstimatedTime: coach.EstimatedTime{Min: 6, Max: 9},
	Tips:          []string{"Short breaks, deep breaths"},
}

func setupRouter(t *testing.T, directory AthleteDirectory, ledger UsageLedger, workoutCoach WorkoutCoach) *gin.Engine {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret-key-for-proxy-tests")

	gin.SetMode(gin.TestMode)
	router := gin.New()
	RegisterRoutes(router.Group("/api/v1"), directory, ledger, workoutCoach)
	return router
}

func doProxy(t *testing.T, router *gin.Engine, token string, body map[string]any) *httptest.ResponseRecorder {
	t.Helper()

	jsonBody, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest("POST", "/api/v1/ai/proxy", bytes.NewReader(jsonBody))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func parseWODBody() map[string]any {
	return map[string]any{
		"action":      ActionParseWOD,
		"imageBase64": "aW1hZ2U=",
		"mimeType":    "image/jpeg",
	}
}

func TestProxyQuotaLifecycle(t *testing.T) {
	// free tier, 4 prior calls today: the 5th succeeds with remaining 0,
	// the 6th is rejected without touching the model backend
	directory := &mockDirectory{tier: "free"}
	ledger := &mockLedger{count: 4}
	workoutCoach := &mockCoach{workout: testWorkout}

	router := setupRouter(t, directory, ledger, workoutCoach)

	token, err := auth.GenerateDevToken("user-1", "athlete@example.com")
	require.NoError(t, err)

	w := doProxy(t, router, token, parseWODBody())
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data      coach.ParsedWorkout `json:"data"`
		Remaining int                 `json:"remaining"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 0, resp.Remaining)
	assert.Equal(t, "For Time", resp.Data.WorkoutType)
	assert.Equal(t, 1, workoutCoach.parseCalls)
	assert.Equal(t, 1, ledger.recordCalls)

	w = doProxy(t, router, token, parseWODBody())
	require.Equal(t, http.StatusTooManyRequests, w.Code)

	var quotaResp struct {
		Error     string `json:"error"`
		Message   string `json:"message"`
		Remaining int    `json:"remaining"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &quotaResp))
	assert.Equal(t, "Daily limit reached", quotaResp.Error)
	assert.Equal(t, 0, quotaResp.Remaining)
	assert.Contains(t, quotaResp.Message, "upgrade")

	// the model was never invoked and the ledger never charged for the 6th
	assert.Equal(t, 1, workoutCoach.parseCalls)
	assert.Equal(t, 1, ledger.recordCalls)
}

func TestProxyMissingAuthorization(t *testing.T) {
	directory := &mockDirectory{tier: "free"}
	ledger := &mockLedger{}
	workoutCoach := &mockCoach{workout: testWorkout}

	router := setupRouter(t, directory, ledger, workoutCoach)

	w := doProxy(t, router, "", parseWODBody())

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	// rejected before any tier or ledger access
	assert.Equal(t, 0, directory.tierCalls)
	assert.Equal(t, 0, ledger.countCalls)
	assert.Equal(t, 0, ledger.recordCalls)
}

func TestProxyGenerateStrategy(t *testing.T) {
	t.Run("returns the strategy and charges usage", func(t *testing.T) {
		directory := &mockDirectory{tier: "pro"}
		ledger := &mockLedger{count: 10}
		workoutCoach := &mockCoach{strategy: testStrategy}

		router := setupRouter(t, directory, ledger, workoutCoach)
		token, err := auth.GenerateDevToken("user-1", "athlete@example.com")
		require.NoError(t, err)

		w := doProxy(t, router, token, map[string]any{
			"action":  ActionGenerateStrategy,
			"workout": testWorkout,
			"userProfile": map[string]any{
				"experienceLevel": "advanced",
			},
		})

		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Data      coach.WodStrategy `json:"data"`
			Remaining int               `json:"remaining"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, testStrategy.Pacing, resp.Data.Pacing)
		assert.Equal(t, 89, resp.Remaining)

		// the request's profile is used, not the stored one
		require.NotNil(t, workoutCoach.lastProfile)
		assert.Equal(t, "advanced", workoutCoach.lastProfile.ExperienceLevel)
		assert.Equal(t, 0, directory.profileCalls)
	})

	t.Run("falls back to the stored profile", func(t *testing.T) {
		directory := &mockDirectory{
			tier:    "pro",
			profile: &coach.UserProfile{ExperienceLevel: "beginner"},
		}
		ledger := &mockLedger{}
		workoutCoach := &mockCoach{strategy: testStrategy}

		router := setupRouter(t, directory, ledger, workoutCoach)
		token, err := auth.GenerateDevToken("user-1", "athlete@example.com")
		require.NoError(t, err)

		w := doProxy(t, router, token, map[string]any{
			"action":  ActionGenerateStrategy,
			"workout": testWorkout,
		})

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, 1, directory.profileCalls)
		require.NotNil(t, workoutCoach.lastProfile)
		assert.Equal(t, "beginner", workoutCoach.lastProfile.ExperienceLevel)
	})

	t.Run("rejects a missing workout", func(t *testing.T) {
		directory := &mockDirectory{tier: "free"}
		ledger := &mockLedger{}
		workoutCoach := &mockCoach{strategy: testStrategy}

		router := setupRouter(t, directory, ledger, workoutCoach)
		token, err := auth.GenerateDevToken("user-1", "athlete@example.com")
		require.NoError(t, err)

		w := doProxy(t, router, token, map[string]any{"action": ActionGenerateStrategy})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, 0, workoutCoach.strategyCalls)
		assert.Equal(t, 0, ledger.recordCalls)
	})
}

func TestProxyValidation(t *testing.T) {
	directory := &mockDirectory{tier: "free"}
	ledger := &mockLedger{}
	workoutCoach := &mockCoach{workout: testWorkout}

	router := setupRouter(t, directory, ledger, workoutCoach)
	token, err := auth.GenerateDevToken("user-1", "athlete@example.com")
	require.NoError(t, err)

	t.Run("unknown action", func(t *testing.T) {
		w := doProxy(t, router, token, map[string]any{"action": "summon_coach"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("parse_wod without image", func(t *testing.T) {
		w := doProxy(t, router, token, map[string]any{"action": ActionParseWOD, "mimeType": "image/jpeg"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, 0, workoutCoach.parseCalls)
	})

	t.Run("missing action", func(t *testing.T) {
		w := doProxy(t, router, token, map[string]any{"imageBase64": "aW1hZ2U="})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestProxyModelFailures(t *testing.T) {
	token := func(t *testing.T) string {
		tok, err := auth.GenerateDevToken("user-1", "athlete@example.com")
		require.NoError(t, err)
		return tok
	}

	t.Run("malformed output is 502 and not charged", func(t *testing.T) {
		directory := &mockDirectory{tier: "free"}
		ledger := &mockLedger{}
		workoutCoach := &mockCoach{err: coach.ErrMalformedOutput}

		router := setupRouter(t, directory, ledger, workoutCoach)
		w := doProxy(t, router, token(t), parseWODBody())

		assert.Equal(t, http.StatusBadGateway, w.Code)
		assert.Equal(t, 0, ledger.recordCalls)
	})

	t.Run("transient backend failure is 503 and not charged", func(t *testing.T) {
		directory := &mockDirectory{tier: "free"}
		ledger := &mockLedger{}
		workoutCoach := &mockCoach{err: &llm.APIError{Status: 529, Body: "overloaded"}}

		router := setupRouter(t, directory, ledger, workoutCoach)
		w := doProxy(t, router, token(t), parseWODBody())

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Equal(t, 0, ledger.recordCalls)
	})

	t.Run("permanent backend failure is 502", func(t *testing.T) {
		directory := &mockDirectory{tier: "free"}
		ledger := &mockLedger{}
		workoutCoach := &mockCoach{err: &llm.APIError{Status: 400, Body: "bad request"}}

		router := setupRouter(t, directory, ledger, workoutCoach)
		w := doProxy(t, router, token(t), parseWODBody())

		assert.Equal(t, http.StatusBadGateway, w.Code)
		assert.Equal(t, 0, ledger.recordCalls)
	})

	t.Run("ledger read failure fails closed with 500", func(t *testing.T) {
		directory := &mockDirectory{tier: "free"}
		ledger := &mockLedger{countErr: errors.New("connection refused")}
		workoutCoach := &mockCoach{workout: testWorkout}

		router := setupRouter(t, directory, ledger, workoutCoach)
		w := doProxy(t, router, token(t), parseWODBody())

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, 0, workoutCoach.parseCalls)
	})

	t.Run("recording failure still returns the result", func(t *testing.T) {
		directory := &mockDirectory{tier: "free"}
		ledger := &mockLedger{count: 1, recordErr: errors.New("connection refused")}
		workoutCoach := &mockCoach{workout: testWorkout}

		router := setupRouter(t, directory, ledger, workoutCoach)
		w := doProxy(t, router, token(t), parseWODBody())

		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Remaining int `json:"remaining"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, 3, resp.Remaining)
	})
}
