package usage

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wodwise/gateway/internal/auth"
)

type stubTiers struct{ tier string }

func (s stubTiers) TierFor(ctx context.Context, userID string) string { return s.tier }

type stubLedger struct{ count int }

func (s stubLedger) CountToday(ctx context.Context, userID string) (int, error) {
	return s.count, nil
}

func TestUsageHandler(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret-key-for-usage-tests")

	gin.SetMode(gin.TestMode)
	router := gin.New()
	RegisterRoutes(router.Group("/api/v1"), stubTiers{tier: "pro"}, stubLedger{count: 37})

	t.Run("returns the caller's standing", func(t *testing.T) {
		token, err := auth.GenerateDevToken("user-1", "athlete@example.com")
		require.NoError(t, err)

		req := httptest.NewRequest("GET", "/api/v1/usage", nil)
		req.Header.Set("Authorization", "Bearer "+token)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var resp Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "pro", resp.Tier)
		assert.Equal(t, 37, resp.Used)
		assert.Equal(t, 100, resp.Limit)
		assert.Equal(t, 63, resp.Remaining)
	})

	t.Run("requires authentication", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/v1/usage", nil)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
