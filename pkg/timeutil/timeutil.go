package timeutil

import (
	"fmt"
	"time"
)

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

// MinutesPerDay bounds same-day minute values.
const MinutesPerDay = 24 * 60

// ParseError indicates a time string that does not match "HH:mm".
type ParseError struct {
	Value string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid time string %q: want HH:mm", e.Value)
}

// ToMinutes converts an "HH:mm" string to minutes since midnight.
// Trailing seconds are tolerated and ignored.
func ToMinutes(t string) (int, error) {
	t = Normalize(t)
	if len(t) != 5 || t[2] != ':' {
		return 0, &ParseError{Value: t}
	}
	h, ok1 := atoi2(t[0], t[1])
	m, ok2 := atoi2(t[3], t[4])
	if !ok1 || !ok2 || h > 23 || m > 59 {
		return 0, &ParseError{Value: t}
	}
	return h*60 + m, nil
}

// ToTimeString converts minutes since midnight back to "HH:mm".
// The value must be in [0, MinutesPerDay); anything else represents
// rollover to an adjacent day, which callers must handle themselves.
func ToTimeString(minutes int) (string, error) {
	if minutes < 0 || minutes >= MinutesPerDay {
		return "", fmt.Errorf("minutes %d outside same-day range [0, %d)", minutes, MinutesPerDay)
	}
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60), nil
}

// Normalize truncates an "HH:mm:ss" value to "HH:mm". Upstream rows
// routinely carry seconds; every comparison in the scheduler runs on
// the 5-char form.
func Normalize(t string) string {
	if len(t) > 5 {
		return t[:5]
	}
	return t
}

// AddMinutes shifts an "HH:mm" time forward by delta minutes, staying
// within the same day.
func AddMinutes(t string, delta int) (string, error) {
	m, err := ToMinutes(t)
	if err != nil {
		return "", err
	}
	return ToTimeString(m + delta)
}

// ParseDate parses an ISO "2006-01-02" date.
func ParseDate(date string) (time.Time, error) {
	d, err := time.Parse(DateLayout, date)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", date, err)
	}
	return d, nil
}

// StartOfWeek returns the Monday of the week containing t, at midnight
// in t's location. Sunday maps to the Monday six days earlier.
func StartOfWeek(t time.Time) time.Time {
	offset := int(t.Weekday()) - 1
	if t.Weekday() == time.Sunday {
		offset = 6
	}
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return day.AddDate(0, 0, -offset)
}

// WeekDates returns the seven ISO dates of the week containing t,
// Monday first.
func WeekDates(t time.Time) []string {
	start := StartOfWeek(t)
	dates := make([]string, 7)
	for i := range dates {
		dates[i] = start.AddDate(0, 0, i).Format(DateLayout)
	}
	return dates
}

func atoi2(a, b byte) (int, bool) {
	if a < '0' || a > '9' || b < '0' || b > '9' {
		return 0, false
	}
	return int(a-'0')*10 + int(b-'0'), true
}
