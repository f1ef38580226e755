package doctor

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/clinicdesk/clinic-api/internal/model"
	"github.com/clinicdesk/clinic-api/internal/repository"
	apperrors "github.com/clinicdesk/clinic-api/pkg/errors"
)

type Service struct {
	repo         repository.DoctorRepository
	associations repository.AssociationRepository
}

func NewService(repo repository.DoctorRepository, associations repository.AssociationRepository) *Service {
	return &Service{repo: repo, associations: associations}
}

func (s *Service) Create(ctx context.Context, req *model.CreateDoctorRequest) (*model.Doctor, error) {
	doctor := &model.Doctor{
		Name:   req.Name,
		Email:  req.Email,
		Phone:  req.Phone,
		Status: "active",
	}
	doctor.ID = uuid.New()
	if err := s.repo.Create(ctx, doctor); err != nil {
		return nil, fmt.Errorf("failed to create doctor: %w", err)
	}
	return doctor, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Doctor, error) {
	doctor, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, apperrors.NewNotFound("doctor", err)
	}
	return doctor, nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, req *model.UpdateDoctorRequest) (*model.Doctor, error) {
	doctor, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, apperrors.NewNotFound("doctor", err)
	}
	if req.Name != nil {
		doctor.Name = *req.Name
	}
	if req.Email != nil {
		doctor.Email = *req.Email
	}
	if req.Phone != nil {
		doctor.Phone = *req.Phone
	}
	if req.Status != nil {
		doctor.Status = *req.Status
	}
	if err := s.repo.Update(ctx, doctor); err != nil {
		return nil, fmt.Errorf("failed to update doctor: %w", err)
	}
	return doctor, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.Get(ctx, id); err != nil {
		return apperrors.NewNotFound("doctor", err)
	}
	return s.repo.Delete(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]model.Doctor, error) {
	doctors, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list doctors: %w", err)
	}
	return doctors, nil
}

// AssignSpecialty sets the duration and cost for a doctor-specialty
// pair; duration must be positive because it sizes generated slots.
func (s *Service) AssignSpecialty(ctx context.Context, doctorID uuid.UUID, req *model.AssignSpecialtyRequest) (*model.DoctorSpecialty, error) {
	if req.DurationMinutes <= 0 {
		return nil, apperrors.NewBadRequest("duration must be positive", nil)
	}
	if _, err := s.repo.Get(ctx, doctorID); err != nil {
		return nil, apperrors.NewNotFound("doctor", err)
	}

	assoc := &model.DoctorSpecialty{
		DoctorID:        doctorID,
		SpecialtyID:     req.SpecialtyID,
		DurationMinutes: req.DurationMinutes,
		Cost:            req.Cost,
	}
	if err := s.associations.Assign(ctx, assoc); err != nil {
		return nil, fmt.Errorf("failed to assign specialty: %w", err)
	}
	return assoc, nil
}

func (s *Service) RemoveSpecialty(ctx context.Context, doctorID, specialtyID uuid.UUID) error {
	return s.associations.Remove(ctx, doctorID, specialtyID)
}

func (s *Service) ListSpecialties(ctx context.Context, doctorID uuid.UUID) ([]model.DoctorSpecialty, error) {
	associations, err := s.associations.ListForDoctor(ctx, doctorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list doctor specialties: %w", err)
	}
	return associations, nil
}
