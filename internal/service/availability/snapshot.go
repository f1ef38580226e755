package availability

import (
	"time"

	"github.com/google/uuid"

	"github.com/clinicdesk/clinic-api/internal/model"
	"github.com/clinicdesk/clinic-api/pkg/timeutil"
)

// DefaultAppointmentDuration is the fallback visit length when no
// doctor-specialty association resolves. The same value sizes slots
// and computes written end times, so the two can never disagree.
const DefaultAppointmentDuration = 30

// Snapshot is one consistent view of every input a resolution pass
// needs. All inputs are fetched together before resolving; mixing a
// stale appointment list with a fresh block list produces ghost
// availability.
type Snapshot struct {
	Settings     model.ClinicSettings
	Blocks       []model.WorkingBlock
	Associations []model.DoctorSpecialty
	Appointments []model.Appointment
	Now          time.Time
}

// BlocksFor returns the working blocks applying to a doctor on a date,
// in insertion order, optionally filtered by specialty (uuid.Nil means
// unfiltered). Dated blocks match the date exactly; recurring blocks
// are consulted only when the doctor has no dated block for that date.
// An empty result means the doctor is not working, which is a
// legitimate state, not an error.
func (s *Snapshot) BlocksFor(doctorID, specialtyID uuid.UUID, date string) []model.WorkingBlock {
	var dated, recurring []model.WorkingBlock

	weekday, haveWeekday := weekdayOf(date)
	for _, b := range s.Blocks {
		if b.DoctorID != doctorID {
			continue
		}
		if specialtyID != uuid.Nil && b.SpecialtyID != specialtyID {
			continue
		}
		switch b.Kind {
		case model.BlockKindDated:
			if b.Date != nil && *b.Date == date {
				dated = append(dated, b)
			}
		case model.BlockKindRecurring:
			if haveWeekday && b.Weekday != nil && *b.Weekday == weekday {
				recurring = append(recurring, b)
			}
		}
	}

	if len(dated) > 0 {
		return dated
	}
	return recurring
}

// DurationFor resolves the visit duration for a doctor-specialty pair,
// falling back to the clinic default and finally to
// DefaultAppointmentDuration.
func (s *Snapshot) DurationFor(doctorID, specialtyID uuid.UUID) int {
	for _, a := range s.Associations {
		if a.DoctorID == doctorID && a.SpecialtyID == specialtyID && a.DurationMinutes > 0 {
			return a.DurationMinutes
		}
	}
	if s.Settings.DefaultDuration > 0 {
		return s.Settings.DefaultDuration
	}
	return DefaultAppointmentDuration
}

// ActiveAppointmentAt returns the non-cancelled appointment occupying
// the exact doctor/date/time slot, or nil. Start times are normalized
// to "HH:mm" before comparison; upstream rows may carry seconds.
func (s *Snapshot) ActiveAppointmentAt(doctorID uuid.UUID, date, slotTime string) *model.Appointment {
	slotTime = timeutil.Normalize(slotTime)
	for i := range s.Appointments {
		a := &s.Appointments[i]
		if !a.IsActive() {
			continue
		}
		if a.DoctorID == doctorID && a.Date == date && timeutil.Normalize(a.StartTime) == slotTime {
			return a
		}
	}
	return nil
}

func weekdayOf(date string) (time.Weekday, bool) {
	d, err := timeutil.ParseDate(date)
	if err != nil {
		return 0, false
	}
	return d.Weekday(), true
}
