package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToMinutes(t *testing.T) {
	m, err := ToMinutes("09:30")
	require.NoError(t, err)
	assert.Equal(t, 570, m)

	m, err = ToMinutes("00:00")
	require.NoError(t, err)
	assert.Equal(t, 0, m)

	m, err = ToMinutes("23:59")
	require.NoError(t, err)
	assert.Equal(t, 1439, m)

	// seconds are tolerated
	m, err = ToMinutes("13:45:00")
	require.NoError(t, err)
	assert.Equal(t, 825, m)
}

func TestToMinutesInvalid(t *testing.T) {
	for _, in := range []string{"", "9:30", "24:00", "12:60", "ab:cd", "12-30"} {
		_, err := ToMinutes(in)
		assert.Error(t, err, "input %q", in)
		var perr *ParseError
		assert.ErrorAs(t, err, &perr, "input %q", in)
	}
}

func TestToTimeString(t *testing.T) {
	s, err := ToTimeString(570)
	require.NoError(t, err)
	assert.Equal(t, "09:30", s)

	s, err = ToTimeString(0)
	require.NoError(t, err)
	assert.Equal(t, "00:00", s)

	_, err = ToTimeString(1440)
	assert.Error(t, err)
	_, err = ToTimeString(-1)
	assert.Error(t, err)
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "09:30", Normalize("09:30:00"))
	assert.Equal(t, "09:30", Normalize("09:30"))
	assert.Equal(t, "9:3", Normalize("9:3"))
}

func TestAddMinutes(t *testing.T) {
	s, err := AddMinutes("09:30", 45)
	require.NoError(t, err)
	assert.Equal(t, "10:15", s)

	// crossing midnight is refused, not wrapped
	_, err = AddMinutes("23:45", 30)
	assert.Error(t, err)
}

func TestStartOfWeek(t *testing.T) {
	// 2025-10-15 is a Wednesday
	wed := time.Date(2025, 10, 15, 14, 30, 0, 0, time.UTC)
	monday := StartOfWeek(wed)
	assert.Equal(t, time.Monday, monday.Weekday())
	assert.Equal(t, "2025-10-13", monday.Format(DateLayout))

	// Sunday resolves to the Monday six days earlier
	sun := time.Date(2025, 10, 19, 8, 0, 0, 0, time.UTC)
	assert.Equal(t, "2025-10-13", StartOfWeek(sun).Format(DateLayout))

	// Monday is its own week start
	mon := time.Date(2025, 10, 13, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "2025-10-13", StartOfWeek(mon).Format(DateLayout))
}

func TestWeekDates(t *testing.T) {
	dates := WeekDates(time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC))
	require.Len(t, dates, 7)
	assert.Equal(t, "2025-10-13", dates[0])
	assert.Equal(t, "2025-10-19", dates[6])
}
