package availability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/clinicdesk/clinic-api/internal/model"
)

func TestIsBreakTime(t *testing.T) {
	settings := &model.ClinicSettings{
		BreakStartTime: "13:00",
		BreakEndTime:   "14:00",
	}

	assert.False(t, IsBreakTime(settings, "12:30"))
	// Half-open window: break start is inside, break end is not.
	assert.True(t, IsBreakTime(settings, "13:00"))
	assert.True(t, IsBreakTime(settings, "13:30"))
	assert.False(t, IsBreakTime(settings, "14:00"))
	assert.False(t, IsBreakTime(settings, "garbage"))
}

func TestIsPastDate(t *testing.T) {
	now := time.Date(2025, 10, 15, 9, 0, 0, 0, time.UTC)

	assert.True(t, IsPastDate("2025-10-14", now))
	assert.False(t, IsPastDate("2025-10-15", now))
	assert.False(t, IsPastDate("2025-10-16", now))
	assert.False(t, IsPastDate("not-a-date", now))
}

func TestIsPastTime(t *testing.T) {
	now := time.Date(2025, 10, 15, 9, 15, 0, 0, time.UTC)

	t.Run("any time on an earlier date is past", func(t *testing.T) {
		assert.True(t, IsPastTime("2025-10-14", "23:59", now))
	})

	t.Run("future date is never past", func(t *testing.T) {
		assert.False(t, IsPastTime("2025-10-16", "00:00", now))
	})

	t.Run("today compares minutes", func(t *testing.T) {
		assert.True(t, IsPastTime("2025-10-15", "09:00", now))
		assert.True(t, IsPastTime("2025-10-15", "09:14", now))
		// A slot starting exactly now has not started in the past.
		assert.False(t, IsPastTime("2025-10-15", "09:15", now))
		assert.False(t, IsPastTime("2025-10-15", "09:30", now))
	})
}
