package availability

import (
	"time"

	"github.com/clinicdesk/clinic-api/internal/model"
	"github.com/clinicdesk/clinic-api/pkg/timeutil"
)

// IsBreakTime reports whether t falls inside the clinic break window.
// The window is half-open: a slot starting exactly at break end is
// allowed, one starting exactly at break start is not.
func IsBreakTime(settings *model.ClinicSettings, t string) bool {
	tm, err := timeutil.ToMinutes(t)
	if err != nil {
		return false
	}
	start, err := timeutil.ToMinutes(settings.BreakStartTime)
	if err != nil {
		return false
	}
	end, err := timeutil.ToMinutes(settings.BreakEndTime)
	if err != nil {
		return false
	}
	return tm >= start && tm < end
}

// IsPastDate reports whether date is strictly before today, at day
// granularity.
func IsPastDate(date string, now time.Time) bool {
	d, err := timeutil.ParseDate(date)
	if err != nil {
		return false
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return d.Before(today)
}

// IsPastTime reports whether the slot at date/t has already started
// relative to now. Evaluated at resolution time; there is no
// persistent past flag.
func IsPastTime(date, t string, now time.Time) bool {
	if IsPastDate(date, now) {
		return true
	}
	if date != now.Format(timeutil.DateLayout) {
		return false
	}
	tm, err := timeutil.ToMinutes(t)
	if err != nil {
		return false
	}
	return tm < now.Hour()*60+now.Minute()
}
