package availability

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/clinicdesk/clinic-api/internal/model"
	"github.com/clinicdesk/clinic-api/internal/repository"
	"github.com/clinicdesk/clinic-api/pkg/logger"
	"github.com/clinicdesk/clinic-api/pkg/metrics"
	"github.com/clinicdesk/clinic-api/pkg/timeutil"
)

// SettingsProvider supplies the current clinic settings; the settings
// service backs it with a cache invalidated on update events.
type SettingsProvider interface {
	Get(ctx context.Context) (*model.ClinicSettings, error)
}

// Service assembles snapshots from the repositories and runs the pure
// resolution functions over them. Every upstream fetch that fails is
// degraded to an empty input with a logged warning, so a broken
// dependency yields a sparse view instead of a frozen one.
type Service struct {
	schedules    repository.ScheduleRepository
	appointments repository.AppointmentRepository
	associations repository.AssociationRepository
	settings     SettingsProvider
	fallback     model.ClinicSettings
	logger       *logger.Logger
	metrics      *metrics.Metrics
	now          func() time.Time
}

func NewService(
	schedules repository.ScheduleRepository,
	appointments repository.AppointmentRepository,
	associations repository.AssociationRepository,
	settings SettingsProvider,
	fallback model.ClinicSettings,
	logger *logger.Logger,
	metrics *metrics.Metrics,
) *Service {
	return &Service{
		schedules:    schedules,
		appointments: appointments,
		associations: associations,
		settings:     settings,
		fallback:     fallback,
		logger:       logger,
		metrics:      metrics,
		now:          time.Now,
	}
}

// LoadSnapshot fetches blocks, appointments, associations and settings
// together so a resolution pass never mixes inputs from different
// moments.
func (s *Service) LoadSnapshot(ctx context.Context, doctorIDs []uuid.UUID, dateFrom, dateTo string) *Snapshot {
	snap := &Snapshot{
		Settings: s.fallback,
		Now:      s.now(),
	}

	if settings, err := s.settings.Get(ctx); err != nil {
		s.degrade("settings", err)
	} else if settings != nil {
		snap.Settings = *settings
	}

	blocks, err := s.schedules.ListForDoctors(ctx, doctorIDs, dateFrom, dateTo)
	if err != nil {
		s.degrade("schedules", err)
	} else {
		snap.Blocks = blocks
	}

	appointments, err := s.appointments.ListForDoctors(ctx, doctorIDs, dateFrom, dateTo)
	if err != nil {
		s.degrade("appointments", err)
	} else {
		snap.Appointments = appointments
	}

	associations, err := s.associations.ListAll(ctx)
	if err != nil {
		s.degrade("associations", err)
	} else {
		snap.Associations = associations
	}

	return snap
}

// SlotsForDoctor computes the classified slot list for one doctor on
// one date, for the booking modal and the single-day view.
func (s *Service) SlotsForDoctor(ctx context.Context, doctorID, specialtyID uuid.UUID, date string) ([]model.Slot, error) {
	if _, err := timeutil.ParseDate(date); err != nil {
		return nil, fmt.Errorf("invalid date: %w", err)
	}

	timer := time.Now()
	snap := s.LoadSnapshot(ctx, []uuid.UUID{doctorID}, date, date)
	slots, skipped := Resolve(snap, doctorID, specialtyID, date)
	s.observe("day", timer, slots, skipped)
	return slots, nil
}

// DayGrid computes the aligned multi-doctor grid for one date.
func (s *Service) DayGrid(ctx context.Context, doctorIDs []uuid.UUID, specialtyID uuid.UUID, date string) (*model.SlotGrid, error) {
	if _, err := timeutil.ParseDate(date); err != nil {
		return nil, fmt.Errorf("invalid date: %w", err)
	}

	timer := time.Now()
	snap := s.LoadSnapshot(ctx, doctorIDs, date, date)
	grid, skipped := ResolveGrid(snap, doctorIDs, specialtyID, date)
	s.observeGrid("day", timer, grid, skipped)
	return grid, nil
}

// WeekGrid computes seven DayGrids for the Monday-anchored week
// containing the given date, all drawn from one snapshot.
func (s *Service) WeekGrid(ctx context.Context, doctorIDs []uuid.UUID, specialtyID uuid.UUID, date string) ([]*model.SlotGrid, error) {
	d, err := timeutil.ParseDate(date)
	if err != nil {
		return nil, fmt.Errorf("invalid date: %w", err)
	}

	timer := time.Now()
	dates := timeutil.WeekDates(d)
	snap := s.LoadSnapshot(ctx, doctorIDs, dates[0], dates[6])

	grids := make([]*model.SlotGrid, 0, len(dates))
	for _, day := range dates {
		grid, skipped := ResolveGrid(snap, doctorIDs, specialtyID, day)
		s.observeGrid("week", timer, grid, skipped)
		grids = append(grids, grid)
	}
	return grids, nil
}

// DisplayBounds returns the grid axis for a date, narrowed to the
// selected doctor's blocks when one is selected.
func (s *Service) DisplayBounds(ctx context.Context, doctorID, specialtyID uuid.UUID, date string) (*model.DisplayBounds, error) {
	if _, err := timeutil.ParseDate(date); err != nil {
		return nil, fmt.Errorf("invalid date: %w", err)
	}

	var ids []uuid.UUID
	if doctorID != uuid.Nil {
		ids = append(ids, doctorID)
	}
	snap := s.LoadSnapshot(ctx, ids, date, date)
	bounds := Bounds(snap, doctorID, specialtyID, date)
	return &bounds, nil
}

// DurationFor resolves the visit duration for a doctor-specialty pair
// without loading schedule or appointment state.
func (s *Service) DurationFor(ctx context.Context, doctorID, specialtyID uuid.UUID) int {
	snap := &Snapshot{Settings: s.fallback}
	if settings, err := s.settings.Get(ctx); err != nil {
		s.degrade("settings", err)
	} else if settings != nil {
		snap.Settings = *settings
	}
	if associations, err := s.associations.ListAll(ctx); err != nil {
		s.degrade("associations", err)
	} else {
		snap.Associations = associations
	}
	return snap.DurationFor(doctorID, specialtyID)
}

func (s *Service) degrade(dependency string, err error) {
	s.logger.Warn("upstream fetch failed, degrading to empty input", "dependency", dependency, "error", err.Error())
	s.metrics.DegradedFetches.WithLabelValues(dependency).Inc()
}

func (s *Service) observe(view string, start time.Time, slots []model.Slot, skipped []error) {
	s.metrics.ResolutionLatency.WithLabelValues(view).Observe(time.Since(start).Seconds())
	for _, slot := range slots {
		s.metrics.SlotsComputed.WithLabelValues(string(slot.Status)).Inc()
	}
	for _, err := range skipped {
		s.logger.Warn("skipped malformed schedule record", "error", err.Error())
		s.metrics.MalformedRecords.WithLabelValues("working_block").Inc()
	}
}

func (s *Service) observeGrid(view string, start time.Time, grid *model.SlotGrid, skipped []error) {
	var all []model.Slot
	for _, slots := range grid.Doctors {
		all = append(all, slots...)
	}
	s.observe(view, start, all, skipped)
}
