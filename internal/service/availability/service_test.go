package availability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicdesk/clinic-api/internal/model"
	"github.com/clinicdesk/clinic-api/pkg/logger"
	"github.com/clinicdesk/clinic-api/pkg/metrics"
)

// Registered once; promauto panics on duplicate registration.
var testMetrics = metrics.NewMetrics("clinic", "availability_test")

type stubScheduleRepo struct {
	blocks []model.WorkingBlock
	err    error
}

func (s *stubScheduleRepo) Create(ctx context.Context, block *model.WorkingBlock) error { return nil }
func (s *stubScheduleRepo) Get(ctx context.Context, id uuid.UUID) (*model.WorkingBlock, error) {
	return nil, errors.New("no rows")
}
func (s *stubScheduleRepo) Delete(ctx context.Context, id uuid.UUID) error { return nil }
func (s *stubScheduleRepo) List(ctx context.Context, filters *model.WorkingBlockFilters) ([]model.WorkingBlock, error) {
	return s.blocks, s.err
}
func (s *stubScheduleRepo) ListForDoctors(ctx context.Context, doctorIDs []uuid.UUID, dateFrom, dateTo string) ([]model.WorkingBlock, error) {
	return s.blocks, s.err
}

type stubAppointmentRepo struct {
	appointments []model.Appointment
	err          error
}

func (s *stubAppointmentRepo) Create(ctx context.Context, apt *model.Appointment) error { return nil }
func (s *stubAppointmentRepo) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	return nil, errors.New("no rows")
}
func (s *stubAppointmentRepo) Update(ctx context.Context, apt *model.Appointment) error { return nil }
func (s *stubAppointmentRepo) Delete(ctx context.Context, id uuid.UUID) error           { return nil }
func (s *stubAppointmentRepo) List(ctx context.Context, filters *model.AppointmentFilters) ([]model.Appointment, error) {
	return s.appointments, s.err
}
func (s *stubAppointmentRepo) ListForDoctors(ctx context.Context, doctorIDs []uuid.UUID, dateFrom, dateTo string) ([]model.Appointment, error) {
	return s.appointments, s.err
}
func (s *stubAppointmentRepo) CheckConflict(ctx context.Context, doctorID uuid.UUID, date, startTime string, excludeID *uuid.UUID) (bool, error) {
	return false, nil
}

type stubAssociationRepo struct {
	err error
}

func (s *stubAssociationRepo) Assign(ctx context.Context, assoc *model.DoctorSpecialty) error {
	return nil
}
func (s *stubAssociationRepo) Remove(ctx context.Context, doctorID, specialtyID uuid.UUID) error {
	return nil
}
func (s *stubAssociationRepo) Get(ctx context.Context, doctorID, specialtyID uuid.UUID) (*model.DoctorSpecialty, error) {
	return nil, errors.New("no rows")
}
func (s *stubAssociationRepo) ListForDoctor(ctx context.Context, doctorID uuid.UUID) ([]model.DoctorSpecialty, error) {
	return nil, s.err
}
func (s *stubAssociationRepo) ListAll(ctx context.Context) ([]model.DoctorSpecialty, error) {
	return nil, s.err
}

type stubSettingsProvider struct {
	settings *model.ClinicSettings
	err      error
}

func (s *stubSettingsProvider) Get(ctx context.Context) (*model.ClinicSettings, error) {
	return s.settings, s.err
}

func newTestService(schedules *stubScheduleRepo, appointments *stubAppointmentRepo, settings *stubSettingsProvider, fallback model.ClinicSettings) *Service {
	return NewService(
		schedules,
		appointments,
		&stubAssociationRepo{},
		settings,
		fallback,
		logger.NewLogger(nil),
		testMetrics,
	)
}

func TestLoadSnapshotDegradesToEmpty(t *testing.T) {
	ctx := context.Background()
	fallback := testSettings()

	svc := newTestService(
		&stubScheduleRepo{err: errors.New("connection refused")},
		&stubAppointmentRepo{err: errors.New("connection refused")},
		&stubSettingsProvider{err: errors.New("connection refused")},
		fallback,
	)

	snap := svc.LoadSnapshot(ctx, []uuid.UUID{uuid.New()}, testDate, testDate)

	// Broken upstreams produce a sparse snapshot, never a nil one.
	assert.Empty(t, snap.Blocks)
	assert.Empty(t, snap.Appointments)
	assert.Empty(t, snap.Associations)
	assert.Equal(t, fallback.OpenTime, snap.Settings.OpenTime)
	assert.False(t, snap.Now.IsZero())
}

func TestSlotsForDoctorWithFailingUpstream(t *testing.T) {
	ctx := context.Background()

	svc := newTestService(
		&stubScheduleRepo{err: errors.New("timeout")},
		&stubAppointmentRepo{},
		&stubSettingsProvider{settings: &model.ClinicSettings{WorkingDays: []int{3}}},
		model.ClinicSettings{},
	)

	slots, err := svc.SlotsForDoctor(ctx, uuid.New(), uuid.Nil, testDate)
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestSlotsForDoctorRejectsBadDate(t *testing.T) {
	svc := newTestService(&stubScheduleRepo{}, &stubAppointmentRepo{}, &stubSettingsProvider{settings: &model.ClinicSettings{}}, model.ClinicSettings{})

	_, err := svc.SlotsForDoctor(context.Background(), uuid.New(), uuid.Nil, "15-10-2025")
	require.Error(t, err)
}

func TestWeekGrid(t *testing.T) {
	ctx := context.Background()
	doctorID := uuid.New()
	specialtyID := uuid.New()

	settings := testSettings()
	// Wednesday-only recurring schedule, resolved across a full week.
	schedules := &stubScheduleRepo{blocks: []model.WorkingBlock{
		recurringBlock(doctorID, specialtyID, time.Wednesday, "09:00", "10:00"),
	}}

	svc := newTestService(schedules, &stubAppointmentRepo{}, &stubSettingsProvider{settings: &settings}, model.ClinicSettings{})

	grids, err := svc.WeekGrid(ctx, []uuid.UUID{doctorID}, specialtyID, testDate)
	require.NoError(t, err)
	require.Len(t, grids, 7)

	// The week containing 2025-10-15 starts on Monday the 13th.
	assert.Equal(t, "2025-10-13", grids[0].Date)
	assert.Equal(t, "2025-10-19", grids[6].Date)

	for _, grid := range grids {
		if grid.Date == testDate {
			assert.NotEmpty(t, grid.Times)
		} else {
			assert.Empty(t, grid.Doctors)
		}
	}
}
