package availability

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicdesk/clinic-api/internal/model"
)

func strPtr(s string) *string { return &s }

func weekdayPtr(d time.Weekday) *time.Weekday { return &d }

func datedBlock(doctorID, specialtyID uuid.UUID, date, start, end string) model.WorkingBlock {
	b := block(start, end)
	b.DoctorID = doctorID
	b.SpecialtyID = specialtyID
	b.Kind = model.BlockKindDated
	b.Date = strPtr(date)
	return b
}

func recurringBlock(doctorID, specialtyID uuid.UUID, weekday time.Weekday, start, end string) model.WorkingBlock {
	b := block(start, end)
	b.DoctorID = doctorID
	b.SpecialtyID = specialtyID
	b.Kind = model.BlockKindRecurring
	b.Weekday = weekdayPtr(weekday)
	return b
}

func TestSnapshotBlocksFor(t *testing.T) {
	doctorID := uuid.New()
	specialtyID := uuid.New()
	// 2025-10-15 is a Wednesday.
	const date = "2025-10-15"

	t.Run("dated block suppresses recurring fallback", func(t *testing.T) {
		snap := &Snapshot{Blocks: []model.WorkingBlock{
			recurringBlock(doctorID, specialtyID, time.Wednesday, "08:00", "12:00"),
			datedBlock(doctorID, specialtyID, date, "14:00", "18:00"),
		}}

		blocks := snap.BlocksFor(doctorID, specialtyID, date)
		require.Len(t, blocks, 1)
		assert.Equal(t, model.BlockKindDated, blocks[0].Kind)
		assert.Equal(t, "14:00", blocks[0].StartTime)
	})

	t.Run("recurring applies when no dated block matches", func(t *testing.T) {
		snap := &Snapshot{Blocks: []model.WorkingBlock{
			recurringBlock(doctorID, specialtyID, time.Wednesday, "08:00", "12:00"),
			datedBlock(doctorID, specialtyID, "2025-10-16", "14:00", "18:00"),
		}}

		blocks := snap.BlocksFor(doctorID, specialtyID, date)
		require.Len(t, blocks, 1)
		assert.Equal(t, model.BlockKindRecurring, blocks[0].Kind)
	})

	t.Run("recurring on another weekday does not apply", func(t *testing.T) {
		snap := &Snapshot{Blocks: []model.WorkingBlock{
			recurringBlock(doctorID, specialtyID, time.Thursday, "08:00", "12:00"),
		}}

		assert.Empty(t, snap.BlocksFor(doctorID, specialtyID, date))
	})

	t.Run("specialty filter", func(t *testing.T) {
		other := uuid.New()
		snap := &Snapshot{Blocks: []model.WorkingBlock{
			datedBlock(doctorID, specialtyID, date, "09:00", "12:00"),
			datedBlock(doctorID, other, date, "14:00", "17:00"),
		}}

		blocks := snap.BlocksFor(doctorID, specialtyID, date)
		require.Len(t, blocks, 1)
		assert.Equal(t, specialtyID, blocks[0].SpecialtyID)

		// uuid.Nil means any specialty.
		assert.Len(t, snap.BlocksFor(doctorID, uuid.Nil, date), 2)
	})

	t.Run("other doctors excluded", func(t *testing.T) {
		snap := &Snapshot{Blocks: []model.WorkingBlock{
			datedBlock(uuid.New(), specialtyID, date, "09:00", "12:00"),
		}}

		assert.Empty(t, snap.BlocksFor(doctorID, specialtyID, date))
	})
}

func TestSnapshotDurationFor(t *testing.T) {
	doctorID := uuid.New()
	specialtyID := uuid.New()

	t.Run("association wins", func(t *testing.T) {
		snap := &Snapshot{
			Settings: model.ClinicSettings{DefaultDuration: 20},
			Associations: []model.DoctorSpecialty{
				{DoctorID: doctorID, SpecialtyID: specialtyID, DurationMinutes: 45},
			},
		}
		assert.Equal(t, 45, snap.DurationFor(doctorID, specialtyID))
	})

	t.Run("zero association falls through to settings", func(t *testing.T) {
		snap := &Snapshot{
			Settings: model.ClinicSettings{DefaultDuration: 20},
			Associations: []model.DoctorSpecialty{
				{DoctorID: doctorID, SpecialtyID: specialtyID, DurationMinutes: 0},
			},
		}
		assert.Equal(t, 20, snap.DurationFor(doctorID, specialtyID))
	})

	t.Run("hard default when nothing configured", func(t *testing.T) {
		snap := &Snapshot{}
		assert.Equal(t, DefaultAppointmentDuration, snap.DurationFor(doctorID, specialtyID))
	})
}

func TestSnapshotActiveAppointmentAt(t *testing.T) {
	doctorID := uuid.New()
	const date = "2025-10-15"

	apt := func(start string, status model.AppointmentStatus) model.Appointment {
		a := model.Appointment{
			DoctorID:  doctorID,
			Date:      date,
			StartTime: start,
			Status:    status,
		}
		a.ID = uuid.New()
		return a
	}

	t.Run("matches with seconds in stored time", func(t *testing.T) {
		snap := &Snapshot{Appointments: []model.Appointment{
			apt("09:30:00", model.AppointmentStatusConfirmed),
		}}
		found := snap.ActiveAppointmentAt(doctorID, date, "09:30")
		require.NotNil(t, found)
		assert.Equal(t, model.AppointmentStatusConfirmed, found.Status)
	})

	t.Run("cancelled does not occupy the slot", func(t *testing.T) {
		snap := &Snapshot{Appointments: []model.Appointment{
			apt("09:30", model.AppointmentStatusCancelled),
		}}
		assert.Nil(t, snap.ActiveAppointmentAt(doctorID, date, "09:30"))
	})

	t.Run("different slot time", func(t *testing.T) {
		snap := &Snapshot{Appointments: []model.Appointment{
			apt("09:30", model.AppointmentStatusScheduled),
		}}
		assert.Nil(t, snap.ActiveAppointmentAt(doctorID, date, "10:00"))
	})
}
