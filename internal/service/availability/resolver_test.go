package availability

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicdesk/clinic-api/internal/model"
)

// 2025-10-15 is a Wednesday.
const testDate = "2025-10-15"

func testSettings() model.ClinicSettings {
	return model.ClinicSettings{
		WorkingDays:     []int{1, 2, 3, 4, 5},
		OpenTime:        "08:00",
		CloseTime:       "18:00",
		BreakStartTime:  "13:00",
		BreakEndTime:    "14:00",
		DefaultDuration: 30,
	}
}

func slotStatuses(slots []model.Slot) map[string]model.SlotStatus {
	out := make(map[string]model.SlotStatus, len(slots))
	for _, s := range slots {
		out[s.Time] = s.Status
	}
	return out
}

func TestResolve(t *testing.T) {
	doctorID := uuid.New()
	specialtyID := uuid.New()

	t.Run("classifies booked, past and available", func(t *testing.T) {
		booked := model.Appointment{
			DoctorID:  doctorID,
			Date:      testDate,
			StartTime: "10:00",
			Status:    model.AppointmentStatusConfirmed,
		}
		booked.ID = uuid.New()

		snap := &Snapshot{
			Settings: testSettings(),
			Blocks: []model.WorkingBlock{
				datedBlock(doctorID, specialtyID, testDate, "09:00", "11:00"),
			},
			Appointments: []model.Appointment{booked},
			Now:          time.Date(2025, 10, 15, 9, 15, 0, 0, time.UTC),
		}

		slots, skipped := Resolve(snap, doctorID, specialtyID, testDate)
		require.Empty(t, skipped)
		require.Len(t, slots, 4)

		statuses := slotStatuses(slots)
		assert.Equal(t, model.SlotStatusPast, statuses["09:00"])
		assert.Equal(t, model.SlotStatusAvailable, statuses["09:30"])
		assert.Equal(t, model.SlotStatusBooked, statuses["10:00"])
		assert.Equal(t, model.SlotStatusAvailable, statuses["10:30"])
	})

	t.Run("booked wins over past", func(t *testing.T) {
		booked := model.Appointment{
			DoctorID:  doctorID,
			Date:      testDate,
			StartTime: "09:00",
			Status:    model.AppointmentStatusCompleted,
		}
		booked.ID = uuid.New()

		snap := &Snapshot{
			Settings: testSettings(),
			Blocks: []model.WorkingBlock{
				datedBlock(doctorID, specialtyID, testDate, "09:00", "10:00"),
			},
			Appointments: []model.Appointment{booked},
			Now:          time.Date(2025, 10, 15, 12, 0, 0, 0, time.UTC),
		}

		slots, _ := Resolve(snap, doctorID, specialtyID, testDate)
		statuses := slotStatuses(slots)
		assert.Equal(t, model.SlotStatusBooked, statuses["09:00"])
		assert.Equal(t, model.SlotStatusPast, statuses["09:30"])
	})

	t.Run("cancelled appointment frees the slot", func(t *testing.T) {
		cancelled := model.Appointment{
			DoctorID:  doctorID,
			Date:      testDate,
			StartTime: "10:00",
			Status:    model.AppointmentStatusCancelled,
		}
		cancelled.ID = uuid.New()

		snap := &Snapshot{
			Settings: testSettings(),
			Blocks: []model.WorkingBlock{
				datedBlock(doctorID, specialtyID, testDate, "10:00", "11:00"),
			},
			Appointments: []model.Appointment{cancelled},
			Now:          time.Date(2025, 10, 14, 0, 0, 0, 0, time.UTC),
		}

		slots, _ := Resolve(snap, doctorID, specialtyID, testDate)
		statuses := slotStatuses(slots)
		assert.Equal(t, model.SlotStatusAvailable, statuses["10:00"])
	})

	t.Run("break window slots are not emitted", func(t *testing.T) {
		snap := &Snapshot{
			Settings: testSettings(),
			Blocks: []model.WorkingBlock{
				datedBlock(doctorID, specialtyID, testDate, "12:00", "15:00"),
			},
			Now: time.Date(2025, 10, 14, 0, 0, 0, 0, time.UTC),
		}

		slots, _ := Resolve(snap, doctorID, specialtyID, testDate)
		statuses := slotStatuses(slots)
		assert.Contains(t, statuses, "12:00")
		assert.Contains(t, statuses, "12:30")
		assert.NotContains(t, statuses, "13:00")
		assert.NotContains(t, statuses, "13:30")
		// Break end is outside the half-open window.
		assert.Contains(t, statuses, "14:00")
	})

	t.Run("non-working day yields nothing", func(t *testing.T) {
		// 2025-10-18 is a Saturday.
		snap := &Snapshot{
			Settings: testSettings(),
			Blocks: []model.WorkingBlock{
				datedBlock(doctorID, specialtyID, "2025-10-18", "09:00", "12:00"),
			},
		}

		slots, skipped := Resolve(snap, doctorID, specialtyID, "2025-10-18")
		assert.Empty(t, slots)
		assert.Empty(t, skipped)
	})

	t.Run("no blocks yields empty result, not error", func(t *testing.T) {
		snap := &Snapshot{Settings: testSettings()}
		slots, skipped := Resolve(snap, doctorID, specialtyID, testDate)
		assert.Empty(t, slots)
		assert.Empty(t, skipped)
	})

	t.Run("association duration sizes the slots", func(t *testing.T) {
		snap := &Snapshot{
			Settings: testSettings(),
			Blocks: []model.WorkingBlock{
				datedBlock(doctorID, specialtyID, testDate, "09:00", "10:30"),
			},
			Associations: []model.DoctorSpecialty{
				{DoctorID: doctorID, SpecialtyID: specialtyID, DurationMinutes: 45},
			},
			Now: time.Date(2025, 10, 14, 0, 0, 0, 0, time.UTC),
		}

		slots, _ := Resolve(snap, doctorID, specialtyID, testDate)
		require.Len(t, slots, 2)
		assert.Equal(t, "09:00", slots[0].Time)
		assert.Equal(t, "09:45", slots[1].Time)
	})
}

func TestResolveGrid(t *testing.T) {
	specialtyID := uuid.New()
	drA := uuid.New()
	drB := uuid.New()

	snap := &Snapshot{
		Settings: testSettings(),
		Blocks: []model.WorkingBlock{
			datedBlock(drA, specialtyID, testDate, "09:00", "10:00"),
			datedBlock(drB, specialtyID, testDate, "09:30", "10:30"),
		},
		Now: time.Date(2025, 10, 14, 0, 0, 0, 0, time.UTC),
	}

	grid, skipped := ResolveGrid(snap, []uuid.UUID{drA, drB, uuid.New()}, specialtyID, testDate)
	require.Empty(t, skipped)

	// Axis is the sorted union of both doctors' candidate times; the
	// third doctor has no blocks and no row.
	assert.Equal(t, []string{"09:00", "09:30", "10:00"}, grid.Times)
	assert.Len(t, grid.Doctors, 2)
	assert.Len(t, grid.Doctors[drA], 2)
	assert.Len(t, grid.Doctors[drB], 2)
}

func TestBounds(t *testing.T) {
	doctorID := uuid.New()
	specialtyID := uuid.New()

	t.Run("defaults to clinic window", func(t *testing.T) {
		snap := &Snapshot{Settings: testSettings()}
		bounds := Bounds(snap, uuid.Nil, specialtyID, testDate)
		assert.Equal(t, "08:00", bounds.StartTime)
		assert.Equal(t, "18:00", bounds.EndTime)
		assert.Equal(t, 30, bounds.Duration)
	})

	t.Run("narrows to the doctor's block span", func(t *testing.T) {
		snap := &Snapshot{
			Settings: testSettings(),
			Blocks: []model.WorkingBlock{
				datedBlock(doctorID, specialtyID, testDate, "10:00", "12:00"),
				datedBlock(doctorID, specialtyID, testDate, "15:00", "16:30"),
			},
		}
		bounds := Bounds(snap, doctorID, specialtyID, testDate)
		assert.Equal(t, "10:00", bounds.StartTime)
		assert.Equal(t, "16:30", bounds.EndTime)
	})

	t.Run("doctor without blocks keeps clinic window", func(t *testing.T) {
		snap := &Snapshot{Settings: testSettings()}
		bounds := Bounds(snap, doctorID, specialtyID, testDate)
		assert.Equal(t, "08:00", bounds.StartTime)
		assert.Equal(t, "18:00", bounds.EndTime)
	})
}
