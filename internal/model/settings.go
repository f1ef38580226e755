package model

import "time"

// ClinicSettings is the clinic-wide scheduling configuration. One row,
// read-mostly; consumers must pick up updates published on the
// settings channel.
type ClinicSettings struct {
	Base
	WorkingDays     []int  `db:"-" json:"working_days"`
	OpenTime        string `db:"open_time" json:"open_time"`
	CloseTime       string `db:"close_time" json:"close_time"`
	BreakStartTime  string `db:"break_start_time" json:"break_start_time"`
	BreakEndTime    string `db:"break_end_time" json:"break_end_time"`
	DefaultDuration int    `db:"default_duration" json:"default_duration"`
}

// IsWorkingDay reports whether weekday (0=Sunday..6=Saturday) is a
// clinic working day.
func (s *ClinicSettings) IsWorkingDay(weekday time.Weekday) bool {
	for _, d := range s.WorkingDays {
		if d == int(weekday) {
			return true
		}
	}
	return false
}

type UpdateClinicSettingsRequest struct {
	WorkingDays     []int  `json:"working_days" binding:"required,min=1,dive,min=0,max=6"`
	OpenTime        string `json:"open_time" binding:"required,hhmm"`
	CloseTime       string `json:"close_time" binding:"required,hhmm"`
	BreakStartTime  string `json:"break_start_time" binding:"required,hhmm"`
	BreakEndTime    string `json:"break_end_time" binding:"required,hhmm"`
	DefaultDuration int    `json:"default_duration" binding:"required,gt=0"`
}
