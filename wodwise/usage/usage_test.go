package usage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDateKey(t *testing.T) {
	t.Run("formats as calendar date", func(t *testing.T) {
		ts := time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)
		assert.Equal(t, "2025-03-14", DateKey(ts))
	})

	t.Run("converts to UTC before keying", func(t *testing.T) {
		// 23:30 on the 14th in UTC-5 is already the 15th in UTC
		loc := time.FixedZone("EST", -5*3600)
		ts := time.Date(2025, 3, 14, 23, 30, 0, 0, loc)
		assert.Equal(t, "2025-03-15", DateKey(ts))
	})

	t.Run("midnight UTC starts a new key", func(t *testing.T) {
		before := time.Date(2025, 3, 14, 23, 59, 59, 0, time.UTC)
		after := before.Add(time.Second)
		assert.NotEqual(t, DateKey(before), DateKey(after))
	})
}
