package schedule

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/clinicdesk/clinic-api/internal/model"
	"github.com/clinicdesk/clinic-api/internal/repository"
	apperrors "github.com/clinicdesk/clinic-api/pkg/errors"
	"github.com/clinicdesk/clinic-api/pkg/timeutil"
)

// Service manages working-hour blocks.
type Service struct {
	repo repository.ScheduleRepository
}

func NewService(repo repository.ScheduleRepository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, req *model.CreateWorkingBlockRequest) (*model.WorkingBlock, error) {
	start, err := timeutil.ToMinutes(req.StartTime)
	if err != nil {
		return nil, apperrors.NewBadRequest("invalid start time", err)
	}
	end, err := timeutil.ToMinutes(req.EndTime)
	if err != nil {
		return nil, apperrors.NewBadRequest("invalid end time", err)
	}
	if start >= end {
		return nil, apperrors.NewBadRequest("start time must be before end time", nil)
	}

	block := &model.WorkingBlock{
		DoctorID:    req.DoctorID,
		SpecialtyID: req.SpecialtyID,
		StartTime:   timeutil.Normalize(req.StartTime),
		EndTime:     timeutil.Normalize(req.EndTime),
	}
	switch {
	case req.Date != nil:
		if _, err := timeutil.ParseDate(*req.Date); err != nil {
			return nil, apperrors.NewBadRequest("invalid date", err)
		}
		block.Kind = model.BlockKindDated
		block.Date = req.Date
	case req.Weekday != nil:
		wd := time.Weekday(*req.Weekday)
		block.Kind = model.BlockKindRecurring
		block.Weekday = &wd
	default:
		return nil, apperrors.NewBadRequest("either date or weekday is required", nil)
	}

	block.ID = uuid.New()
	if err := s.repo.Create(ctx, block); err != nil {
		return nil, fmt.Errorf("failed to create working block: %w", err)
	}
	return block, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.WorkingBlock, error) {
	block, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, apperrors.NewNotFound("working block", err)
	}
	return block, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.Get(ctx, id); err != nil {
		return apperrors.NewNotFound("working block", err)
	}
	return s.repo.Delete(ctx, id)
}

func (s *Service) List(ctx context.Context, filters *model.WorkingBlockFilters) ([]model.WorkingBlock, error) {
	blocks, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list working blocks: %w", err)
	}
	return blocks, nil
}
