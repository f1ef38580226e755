package booking

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/clinicdesk/clinic-api/internal/model"
	"github.com/clinicdesk/clinic-api/internal/repository"
	"github.com/clinicdesk/clinic-api/internal/service/availability"
	apperrors "github.com/clinicdesk/clinic-api/pkg/errors"
	"github.com/clinicdesk/clinic-api/pkg/logger"
	"github.com/clinicdesk/clinic-api/pkg/metrics"
	"github.com/clinicdesk/clinic-api/pkg/timeutil"
)

// Service guards slot writes. Between a user viewing an available slot
// and submitting, another booking may land; the guard re-validates
// against a fresh snapshot immediately before the insert to narrow
// that window. The repository conflict check on the write path is the
// authoritative backstop, so the guard is advisory, never a lock.
type Service struct {
	repo         repository.AppointmentRepository
	outbox       repository.OutboxRepository
	availability *availability.Service
	logger       *logger.Logger
	metrics      *metrics.Metrics
	now          func() time.Time
}

func NewService(
	repo repository.AppointmentRepository,
	outbox repository.OutboxRepository,
	availability *availability.Service,
	logger *logger.Logger,
	metrics *metrics.Metrics,
) *Service {
	return &Service{
		repo:         repo,
		outbox:       outbox,
		availability: availability,
		logger:       logger,
		metrics:      metrics,
		now:          time.Now,
	}
}

// CanBook re-checks a single slot against the latest appointment set.
func (s *Service) CanBook(ctx context.Context, doctorID uuid.UUID, date, startTime string) (bool, error) {
	occupied, err := s.repo.CheckConflict(ctx, doctorID, date, timeutil.Normalize(startTime), nil)
	if err != nil {
		return false, fmt.Errorf("failed to check conflict: %w", err)
	}
	return !occupied, nil
}

// ComputeEndTime derives the persisted end time from the resolved
// doctor-specialty duration. It must agree with the duration used to
// generate the slot, so both read through the same snapshot logic.
func (s *Service) ComputeEndTime(ctx context.Context, doctorID, specialtyID uuid.UUID, startTime string) (string, error) {
	duration := s.availability.DurationFor(ctx, doctorID, specialtyID)
	end, err := timeutil.AddMinutes(startTime, duration)
	if err != nil {
		return "", apperrors.NewBadRequest("appointment cannot cross midnight", err)
	}
	return end, nil
}

// Book validates the requested slot against the same availability
// rules the grid was rendered with, then persists the appointment. On
// conflict it returns a typed conflict error; the caller re-resolves
// and re-prompts, no retry happens here.
func (s *Service) Book(ctx context.Context, req *model.BookAppointmentRequest) (*model.Appointment, error) {
	startTime := timeutil.Normalize(req.StartTime)
	if _, err := timeutil.ToMinutes(startTime); err != nil {
		return nil, apperrors.NewBadRequest("invalid start time", err)
	}

	if err := s.guard(ctx, req.DoctorID, req.SpecialtyID, req.Date, startTime, nil); err != nil {
		return nil, err
	}

	endTime, err := s.ComputeEndTime(ctx, req.DoctorID, req.SpecialtyID, startTime)
	if err != nil {
		return nil, err
	}

	apt := &model.Appointment{
		DoctorID:      req.DoctorID,
		SpecialtyID:   req.SpecialtyID,
		PatientID:     req.PatientID,
		Date:          req.Date,
		StartTime:     startTime,
		EndTime:       endTime,
		Status:        model.AppointmentStatusScheduled,
		PaymentStatus: model.PaymentStatusPending,
		PaymentMethod: req.PaymentMethod,
		Notes:         req.Notes,
	}
	apt.ID = uuid.New()

	if err := s.repo.Create(ctx, apt); err != nil {
		return nil, fmt.Errorf("failed to create appointment: %w", err)
	}

	s.metrics.BookingsCreated.Inc()
	s.emit(ctx, "appointment.booked", apt)
	return apt, nil
}

// Reschedule overwrites the appointment's date and times after
// re-validating the target slot. It is a mutation of the existing row,
// not a new entity.
func (s *Service) Reschedule(ctx context.Context, id uuid.UUID, req *model.RescheduleAppointmentRequest) (*model.Appointment, error) {
	apt, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, apperrors.NewNotFound("appointment", err)
	}

	if apt.Status == model.AppointmentStatusCancelled {
		return nil, apperrors.NewBadRequest("cannot reschedule a cancelled appointment", nil)
	}
	if apt.Status == model.AppointmentStatusCompleted {
		return nil, apperrors.NewBadRequest("cannot reschedule a completed appointment", nil)
	}

	startTime := timeutil.Normalize(req.StartTime)
	if err := s.guard(ctx, apt.DoctorID, apt.SpecialtyID, req.Date, startTime, &id); err != nil {
		return nil, err
	}

	endTime, err := s.ComputeEndTime(ctx, apt.DoctorID, apt.SpecialtyID, startTime)
	if err != nil {
		return nil, err
	}

	apt.Date = req.Date
	apt.StartTime = startTime
	apt.EndTime = endTime

	if err := s.repo.Update(ctx, apt); err != nil {
		return nil, fmt.Errorf("failed to reschedule appointment: %w", err)
	}

	s.emit(ctx, "appointment.rescheduled", apt)
	return apt, nil
}

// Cancel marks the appointment cancelled. A cancelled appointment
// frees its slot immediately.
func (s *Service) Cancel(ctx context.Context, id uuid.UUID, reason string) (*model.Appointment, error) {
	apt, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, apperrors.NewNotFound("appointment", err)
	}

	if apt.Status == model.AppointmentStatusCancelled {
		return nil, apperrors.NewBadRequest("appointment is already cancelled", nil)
	}
	if apt.Status == model.AppointmentStatusCompleted {
		return nil, apperrors.NewBadRequest("cannot cancel a completed appointment", nil)
	}

	apt.Status = model.AppointmentStatusCancelled
	apt.CancelReason = &reason

	if err := s.repo.Update(ctx, apt); err != nil {
		return nil, fmt.Errorf("failed to cancel appointment: %w", err)
	}

	s.emit(ctx, "appointment.cancelled", apt)
	return apt, nil
}

// guard re-runs the availability rules for one slot against a fresh
// snapshot. The slot must exist among the generated candidates and be
// neither occupied nor past.
func (s *Service) guard(ctx context.Context, doctorID, specialtyID uuid.UUID, date, startTime string, excludeID *uuid.UUID) error {
	snap := s.availability.LoadSnapshot(ctx, []uuid.UUID{doctorID}, date, date)
	snap.Appointments = excludeAppointment(snap.Appointments, excludeID)

	slots, _ := availability.Resolve(snap, doctorID, specialtyID, date)
	var target *model.Slot
	for i := range slots {
		if slots[i].Time == startTime {
			target = &slots[i]
			break
		}
	}

	if target == nil {
		s.metrics.BookingConflicts.Inc()
		return apperrors.NewConflict("slot is not bookable for this doctor", nil)
	}

	switch target.Status {
	case model.SlotStatusBooked:
		s.metrics.BookingConflicts.Inc()
		return apperrors.NewConflict("slot is already booked", nil)
	case model.SlotStatusPast:
		s.metrics.BookingConflicts.Inc()
		return apperrors.NewConflict("slot is in the past", nil)
	}

	// Authoritative re-check against the store right before the write.
	occupied, err := s.repo.CheckConflict(ctx, doctorID, date, startTime, excludeID)
	if err != nil {
		return fmt.Errorf("failed to check conflict: %w", err)
	}
	if occupied {
		s.metrics.BookingConflicts.Inc()
		return apperrors.NewConflict("slot was booked concurrently", nil)
	}
	return nil
}

func (s *Service) emit(ctx context.Context, eventType string, apt *model.Appointment) {
	payload, err := json.Marshal(apt)
	if err != nil {
		s.logger.Error(err, "failed to marshal outbox payload", "event_type", eventType)
		return
	}
	evt := &model.OutboxEvent{
		EventType: eventType,
		Payload:   payload,
	}
	if err := s.outbox.Create(ctx, evt); err != nil {
		s.logger.Error(err, "failed to enqueue outbox event", "event_type", eventType)
	}
}

func excludeAppointment(appointments []model.Appointment, id *uuid.UUID) []model.Appointment {
	if id == nil {
		return appointments
	}
	out := appointments[:0:0]
	for _, a := range appointments {
		if a.ID != *id {
			out = append(out, a)
		}
	}
	return out
}
