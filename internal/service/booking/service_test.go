package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicdesk/clinic-api/internal/model"
	"github.com/clinicdesk/clinic-api/internal/service/availability"
	apperrors "github.com/clinicdesk/clinic-api/pkg/errors"
	"github.com/clinicdesk/clinic-api/pkg/logger"
	"github.com/clinicdesk/clinic-api/pkg/metrics"
)

// Registered once; promauto panics on duplicate registration.
var testMetrics = metrics.NewMetrics("clinic", "booking_test")

// Dates far in the future and past keep the tests deterministic
// without overriding the clock. Both are Mondays.
const (
	futureDate = "2030-01-07"
	pastDate   = "2020-01-06"
)

type fakeAppointmentRepo struct {
	appointments []model.Appointment
	created      []*model.Appointment
	updated      []*model.Appointment
	conflict     bool

	lastExcludeID *uuid.UUID
}

func (f *fakeAppointmentRepo) Create(ctx context.Context, apt *model.Appointment) error {
	f.created = append(f.created, apt)
	return nil
}

func (f *fakeAppointmentRepo) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	for i := range f.appointments {
		if f.appointments[i].ID == id {
			apt := f.appointments[i]
			return &apt, nil
		}
	}
	return nil, errors.New("no rows")
}

func (f *fakeAppointmentRepo) Update(ctx context.Context, apt *model.Appointment) error {
	f.updated = append(f.updated, apt)
	return nil
}

func (f *fakeAppointmentRepo) Delete(ctx context.Context, id uuid.UUID) error { return nil }

func (f *fakeAppointmentRepo) List(ctx context.Context, filters *model.AppointmentFilters) ([]model.Appointment, error) {
	return f.appointments, nil
}

func (f *fakeAppointmentRepo) ListForDoctors(ctx context.Context, doctorIDs []uuid.UUID, dateFrom, dateTo string) ([]model.Appointment, error) {
	return f.appointments, nil
}

func (f *fakeAppointmentRepo) CheckConflict(ctx context.Context, doctorID uuid.UUID, date, startTime string, excludeID *uuid.UUID) (bool, error) {
	f.lastExcludeID = excludeID
	return f.conflict, nil
}

type fakeScheduleRepo struct {
	blocks []model.WorkingBlock
}

func (f *fakeScheduleRepo) Create(ctx context.Context, block *model.WorkingBlock) error { return nil }
func (f *fakeScheduleRepo) Get(ctx context.Context, id uuid.UUID) (*model.WorkingBlock, error) {
	return nil, errors.New("no rows")
}
func (f *fakeScheduleRepo) Delete(ctx context.Context, id uuid.UUID) error { return nil }
func (f *fakeScheduleRepo) List(ctx context.Context, filters *model.WorkingBlockFilters) ([]model.WorkingBlock, error) {
	return f.blocks, nil
}
func (f *fakeScheduleRepo) ListForDoctors(ctx context.Context, doctorIDs []uuid.UUID, dateFrom, dateTo string) ([]model.WorkingBlock, error) {
	return f.blocks, nil
}

type fakeAssociationRepo struct {
	associations []model.DoctorSpecialty
}

func (f *fakeAssociationRepo) Assign(ctx context.Context, assoc *model.DoctorSpecialty) error {
	return nil
}
func (f *fakeAssociationRepo) Remove(ctx context.Context, doctorID, specialtyID uuid.UUID) error {
	return nil
}
func (f *fakeAssociationRepo) Get(ctx context.Context, doctorID, specialtyID uuid.UUID) (*model.DoctorSpecialty, error) {
	return nil, errors.New("no rows")
}
func (f *fakeAssociationRepo) ListForDoctor(ctx context.Context, doctorID uuid.UUID) ([]model.DoctorSpecialty, error) {
	return f.associations, nil
}
func (f *fakeAssociationRepo) ListAll(ctx context.Context) ([]model.DoctorSpecialty, error) {
	return f.associations, nil
}

type fakeSettingsProvider struct {
	settings model.ClinicSettings
}

func (f *fakeSettingsProvider) Get(ctx context.Context) (*model.ClinicSettings, error) {
	s := f.settings
	return &s, nil
}

type fakeOutbox struct {
	events []*model.OutboxEvent
}

func (f *fakeOutbox) Create(ctx context.Context, event *model.OutboxEvent) error {
	f.events = append(f.events, event)
	return nil
}
func (f *fakeOutbox) GetPendingEvents(ctx context.Context, limit int) ([]*model.OutboxEvent, error) {
	return f.events, nil
}
func (f *fakeOutbox) UpdateStatus(ctx context.Context, id uuid.UUID, status model.OutboxStatus, errMsg *string) error {
	return nil
}
func (f *fakeOutbox) DeleteProcessedBefore(ctx context.Context, before time.Time) (int64, error) {
	return 0, nil
}

type fixture struct {
	service      *Service
	appointments *fakeAppointmentRepo
	outbox       *fakeOutbox

	doctorID    uuid.UUID
	specialtyID uuid.UUID
	patientID   uuid.UUID
}

func newFixture(t *testing.T, blockDate string) *fixture {
	t.Helper()

	f := &fixture{
		appointments: &fakeAppointmentRepo{},
		outbox:       &fakeOutbox{},
		doctorID:     uuid.New(),
		specialtyID:  uuid.New(),
		patientID:    uuid.New(),
	}

	block := model.WorkingBlock{
		DoctorID:    f.doctorID,
		SpecialtyID: f.specialtyID,
		Kind:        model.BlockKindDated,
		Date:        &blockDate,
		StartTime:   "09:00",
		EndTime:     "12:00",
	}
	block.ID = uuid.New()

	settings := &fakeSettingsProvider{settings: model.ClinicSettings{
		WorkingDays:     []int{0, 1, 2, 3, 4, 5, 6},
		OpenTime:        "08:00",
		CloseTime:       "18:00",
		BreakStartTime:  "13:00",
		BreakEndTime:    "14:00",
		DefaultDuration: 30,
	}}

	logg := logger.NewLogger(nil)
	availabilitySvc := availability.NewService(
		&fakeScheduleRepo{blocks: []model.WorkingBlock{block}},
		f.appointments,
		&fakeAssociationRepo{},
		settings,
		model.ClinicSettings{},
		logg,
		testMetrics,
	)
	f.service = NewService(f.appointments, f.outbox, availabilitySvc, logg, testMetrics)
	return f
}

func (f *fixture) withAppointment(startTime string, status model.AppointmentStatus) *model.Appointment {
	apt := model.Appointment{
		DoctorID:    f.doctorID,
		SpecialtyID: f.specialtyID,
		PatientID:   f.patientID,
		Date:        futureDate,
		StartTime:   startTime,
		Status:      status,
	}
	apt.ID = uuid.New()
	f.appointments.appointments = append(f.appointments.appointments, apt)
	return &apt
}

func (f *fixture) bookRequest(startTime string) *model.BookAppointmentRequest {
	return &model.BookAppointmentRequest{
		DoctorID:    f.doctorID,
		SpecialtyID: f.specialtyID,
		PatientID:   f.patientID,
		Date:        futureDate,
		StartTime:   startTime,
	}
}

func TestBook(t *testing.T) {
	ctx := context.Background()

	t.Run("books an available slot", func(t *testing.T) {
		f := newFixture(t, futureDate)

		apt, err := f.service.Book(ctx, f.bookRequest("09:30"))
		require.NoError(t, err)

		assert.Equal(t, "09:30", apt.StartTime)
		assert.Equal(t, "10:00", apt.EndTime)
		assert.Equal(t, model.AppointmentStatusScheduled, apt.Status)
		assert.Equal(t, model.PaymentStatusPending, apt.PaymentStatus)
		require.Len(t, f.appointments.created, 1)

		require.Len(t, f.outbox.events, 1)
		assert.Equal(t, "appointment.booked", f.outbox.events[0].EventType)
	})

	t.Run("normalizes seconds in the start time", func(t *testing.T) {
		f := newFixture(t, futureDate)

		apt, err := f.service.Book(ctx, f.bookRequest("09:30:00"))
		require.NoError(t, err)
		assert.Equal(t, "09:30", apt.StartTime)
	})

	t.Run("rejects an occupied slot", func(t *testing.T) {
		f := newFixture(t, futureDate)
		f.withAppointment("09:30", model.AppointmentStatusConfirmed)

		_, err := f.service.Book(ctx, f.bookRequest("09:30"))
		require.Error(t, err)
		assert.True(t, apperrors.IsConflict(err))
		assert.Empty(t, f.appointments.created)
		assert.Empty(t, f.outbox.events)
	})

	t.Run("a cancelled appointment does not block the slot", func(t *testing.T) {
		f := newFixture(t, futureDate)
		f.withAppointment("09:30", model.AppointmentStatusCancelled)

		_, err := f.service.Book(ctx, f.bookRequest("09:30"))
		require.NoError(t, err)
	})

	t.Run("rejects a time outside the doctor's blocks", func(t *testing.T) {
		f := newFixture(t, futureDate)

		_, err := f.service.Book(ctx, f.bookRequest("08:00"))
		require.Error(t, err)
		assert.True(t, apperrors.IsConflict(err))
	})

	t.Run("rejects a slot in the past", func(t *testing.T) {
		f := newFixture(t, pastDate)
		req := f.bookRequest("09:30")
		req.Date = pastDate

		_, err := f.service.Book(ctx, req)
		require.Error(t, err)
		assert.True(t, apperrors.IsConflict(err))
	})

	t.Run("store-level conflict wins over a stale snapshot", func(t *testing.T) {
		f := newFixture(t, futureDate)
		f.appointments.conflict = true

		_, err := f.service.Book(ctx, f.bookRequest("09:30"))
		require.Error(t, err)
		assert.True(t, apperrors.IsConflict(err))
		assert.Empty(t, f.appointments.created)
	})

	t.Run("rejects a malformed start time", func(t *testing.T) {
		f := newFixture(t, futureDate)

		_, err := f.service.Book(ctx, f.bookRequest("25:99"))
		require.Error(t, err)
		assert.False(t, apperrors.IsConflict(err))
	})
}

func TestReschedule(t *testing.T) {
	ctx := context.Background()

	t.Run("moves the appointment to a new slot", func(t *testing.T) {
		f := newFixture(t, futureDate)
		apt := f.withAppointment("09:30", model.AppointmentStatusScheduled)

		moved, err := f.service.Reschedule(ctx, apt.ID, &model.RescheduleAppointmentRequest{
			Date:      futureDate,
			StartTime: "10:00",
		})
		require.NoError(t, err)

		assert.Equal(t, "10:00", moved.StartTime)
		assert.Equal(t, "10:30", moved.EndTime)
		require.Len(t, f.appointments.updated, 1)

		require.Len(t, f.outbox.events, 1)
		assert.Equal(t, "appointment.rescheduled", f.outbox.events[0].EventType)
	})

	t.Run("own slot does not conflict with itself", func(t *testing.T) {
		f := newFixture(t, futureDate)
		apt := f.withAppointment("09:30", model.AppointmentStatusScheduled)

		_, err := f.service.Reschedule(ctx, apt.ID, &model.RescheduleAppointmentRequest{
			Date:      futureDate,
			StartTime: "09:30",
		})
		require.NoError(t, err)
		require.NotNil(t, f.appointments.lastExcludeID)
		assert.Equal(t, apt.ID, *f.appointments.lastExcludeID)
	})

	t.Run("rejects a slot held by another appointment", func(t *testing.T) {
		f := newFixture(t, futureDate)
		apt := f.withAppointment("09:30", model.AppointmentStatusScheduled)
		f.withAppointment("10:00", model.AppointmentStatusConfirmed)

		_, err := f.service.Reschedule(ctx, apt.ID, &model.RescheduleAppointmentRequest{
			Date:      futureDate,
			StartTime: "10:00",
		})
		require.Error(t, err)
		assert.True(t, apperrors.IsConflict(err))
	})

	t.Run("rejects cancelled and completed appointments", func(t *testing.T) {
		f := newFixture(t, futureDate)
		cancelled := f.withAppointment("09:30", model.AppointmentStatusCancelled)
		completed := f.withAppointment("10:00", model.AppointmentStatusCompleted)

		req := &model.RescheduleAppointmentRequest{Date: futureDate, StartTime: "11:00"}

		_, err := f.service.Reschedule(ctx, cancelled.ID, req)
		require.Error(t, err)
		assert.False(t, apperrors.IsConflict(err))

		_, err = f.service.Reschedule(ctx, completed.ID, req)
		require.Error(t, err)
	})

	t.Run("unknown appointment", func(t *testing.T) {
		f := newFixture(t, futureDate)

		_, err := f.service.Reschedule(ctx, uuid.New(), &model.RescheduleAppointmentRequest{
			Date:      futureDate,
			StartTime: "10:00",
		})
		require.Error(t, err)
		assert.True(t, apperrors.IsNotFound(err))
	})
}

func TestCancel(t *testing.T) {
	ctx := context.Background()

	t.Run("cancels and records the reason", func(t *testing.T) {
		f := newFixture(t, futureDate)
		apt := f.withAppointment("09:30", model.AppointmentStatusScheduled)

		cancelled, err := f.service.Cancel(ctx, apt.ID, "patient request")
		require.NoError(t, err)

		assert.Equal(t, model.AppointmentStatusCancelled, cancelled.Status)
		require.NotNil(t, cancelled.CancelReason)
		assert.Equal(t, "patient request", *cancelled.CancelReason)

		require.Len(t, f.outbox.events, 1)
		assert.Equal(t, "appointment.cancelled", f.outbox.events[0].EventType)
	})

	t.Run("rejects double cancellation", func(t *testing.T) {
		f := newFixture(t, futureDate)
		apt := f.withAppointment("09:30", model.AppointmentStatusCancelled)

		_, err := f.service.Cancel(ctx, apt.ID, "again")
		require.Error(t, err)
	})

	t.Run("rejects cancelling a completed appointment", func(t *testing.T) {
		f := newFixture(t, futureDate)
		apt := f.withAppointment("09:30", model.AppointmentStatusCompleted)

		_, err := f.service.Cancel(ctx, apt.ID, "late")
		require.Error(t, err)
	})
}

func TestComputeEndTime(t *testing.T) {
	ctx := context.Background()

	t.Run("uses the clinic default duration", func(t *testing.T) {
		f := newFixture(t, futureDate)

		end, err := f.service.ComputeEndTime(ctx, f.doctorID, f.specialtyID, "09:30")
		require.NoError(t, err)
		assert.Equal(t, "10:00", end)
	})

	t.Run("rejects crossing midnight", func(t *testing.T) {
		f := newFixture(t, futureDate)

		_, err := f.service.ComputeEndTime(ctx, f.doctorID, f.specialtyID, "23:45")
		require.Error(t, err)
	})
}
