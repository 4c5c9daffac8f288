package quota

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCeiling(t *testing.T) {
	tests := []struct {
		name     string
		tier     string
		expected int
	}{
		{"free tier", TierFree, 5},
		{"pro tier", TierPro, 100},
		{"empty tier defaults to free", "", 5},
		{"unknown tier defaults to free", "enterprise", 5},
		{"case-sensitive, Pro is not pro", "Pro", 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Ceiling(tt.tier))
		})
	}
}

func TestAllowed(t *testing.T) {
	assert.True(t, Allowed(TierFree, 0))
	assert.True(t, Allowed(TierFree, 4))
	assert.False(t, Allowed(TierFree, 5))
	assert.False(t, Allowed(TierFree, 6))

	assert.True(t, Allowed(TierPro, 99))
	assert.False(t, Allowed(TierPro, 100))

	// an unknown tier gets the free ceiling, never an unbounded one
	assert.False(t, Allowed("unlimited", 5))
}

func TestRemaining(t *testing.T) {
	assert.Equal(t, 5, Remaining(TierFree, 0))
	assert.Equal(t, 1, Remaining(TierFree, 4))
	assert.Equal(t, 0, Remaining(TierFree, 5))

	// overshoot from racing requests never yields a negative remaining
	assert.Equal(t, 0, Remaining(TierFree, 7))

	assert.Equal(t, 37, Remaining(TierPro, 63))
}
