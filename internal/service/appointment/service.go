package appointment

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/clinicdesk/clinic-api/internal/model"
	"github.com/clinicdesk/clinic-api/internal/repository"
	apperrors "github.com/clinicdesk/clinic-api/pkg/errors"
)

// Service covers the read and bookkeeping side of appointments.
// Slot-occupying writes (book, reschedule, cancel) go through the
// booking service so they always pass the write guard.
type Service struct {
	repo repository.AppointmentRepository
}

func NewService(repo repository.AppointmentRepository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	apt, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, apperrors.NewNotFound("appointment", err)
	}
	return apt, nil
}

func (s *Service) List(ctx context.Context, filters *model.AppointmentFilters) ([]model.Appointment, error) {
	appointments, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	return appointments, nil
}

// Update overwrites status and payment bookkeeping fields. Time
// changes are rejected here; they must go through a reschedule.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req *model.UpdateAppointmentRequest) (*model.Appointment, error) {
	apt, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, apperrors.NewNotFound("appointment", err)
	}

	if req.Status != nil {
		if apt.Status == model.AppointmentStatusCancelled {
			return nil, apperrors.NewBadRequest("cannot change status of a cancelled appointment", nil)
		}
		apt.Status = *req.Status
	}
	if req.PaymentStatus != nil {
		apt.PaymentStatus = *req.PaymentStatus
	}
	if req.PaymentMethod != nil {
		apt.PaymentMethod = *req.PaymentMethod
	}
	if req.TransactionID != nil {
		apt.TransactionID = *req.TransactionID
	}
	if req.Notes != nil {
		apt.Notes = *req.Notes
	}

	if err := s.repo.Update(ctx, apt); err != nil {
		return nil, fmt.Errorf("failed to update appointment: %w", err)
	}
	return apt, nil
}

// Delete removes an appointment row. Only cancelled appointments may
// be deleted; active history is retained.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	apt, err := s.repo.Get(ctx, id)
	if err != nil {
		return apperrors.NewNotFound("appointment", err)
	}
	if apt.Status != model.AppointmentStatusCancelled {
		return apperrors.NewBadRequest("can only delete cancelled appointments", nil)
	}
	return s.repo.Delete(ctx, id)
}
