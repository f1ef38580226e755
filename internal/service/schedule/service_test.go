package schedule

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicdesk/clinic-api/internal/model"
)

type fakeRepo struct {
	blocks  map[uuid.UUID]*model.WorkingBlock
	created []*model.WorkingBlock
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{blocks: make(map[uuid.UUID]*model.WorkingBlock)}
}

func (f *fakeRepo) Create(ctx context.Context, block *model.WorkingBlock) error {
	f.created = append(f.created, block)
	f.blocks[block.ID] = block
	return nil
}

func (f *fakeRepo) Get(ctx context.Context, id uuid.UUID) (*model.WorkingBlock, error) {
	block, ok := f.blocks[id]
	if !ok {
		return nil, errors.New("no rows")
	}
	return block, nil
}

func (f *fakeRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(f.blocks, id)
	return nil
}

func (f *fakeRepo) List(ctx context.Context, filters *model.WorkingBlockFilters) ([]model.WorkingBlock, error) {
	out := make([]model.WorkingBlock, 0, len(f.blocks))
	for _, b := range f.blocks {
		out = append(out, *b)
	}
	return out, nil
}

func (f *fakeRepo) ListForDoctors(ctx context.Context, doctorIDs []uuid.UUID, dateFrom, dateTo string) ([]model.WorkingBlock, error) {
	return f.List(ctx, nil)
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func TestCreateWorkingBlock(t *testing.T) {
	ctx := context.Background()
	doctorID := uuid.New()
	specialtyID := uuid.New()

	base := func() *model.CreateWorkingBlockRequest {
		return &model.CreateWorkingBlockRequest{
			DoctorID:    doctorID,
			SpecialtyID: specialtyID,
			StartTime:   "09:00",
			EndTime:     "12:00",
		}
	}

	t.Run("creates a dated block", func(t *testing.T) {
		svc := NewService(newFakeRepo())
		req := base()
		req.Date = strPtr("2025-10-15")

		block, err := svc.Create(ctx, req)
		require.NoError(t, err)

		assert.Equal(t, model.BlockKindDated, block.Kind)
		require.NotNil(t, block.Date)
		assert.Equal(t, "2025-10-15", *block.Date)
		assert.Nil(t, block.Weekday)
		assert.NotEqual(t, uuid.Nil, block.ID)
	})

	t.Run("creates a recurring block", func(t *testing.T) {
		svc := NewService(newFakeRepo())
		req := base()
		req.Weekday = intPtr(3)

		block, err := svc.Create(ctx, req)
		require.NoError(t, err)

		assert.Equal(t, model.BlockKindRecurring, block.Kind)
		require.NotNil(t, block.Weekday)
		assert.Equal(t, time.Wednesday, *block.Weekday)
		assert.Nil(t, block.Date)
	})

	t.Run("date wins when both are given", func(t *testing.T) {
		svc := NewService(newFakeRepo())
		req := base()
		req.Date = strPtr("2025-10-15")
		req.Weekday = intPtr(3)

		block, err := svc.Create(ctx, req)
		require.NoError(t, err)
		assert.Equal(t, model.BlockKindDated, block.Kind)
	})

	t.Run("requires date or weekday", func(t *testing.T) {
		svc := NewService(newFakeRepo())

		_, err := svc.Create(ctx, base())
		require.Error(t, err)
	})

	t.Run("rejects inverted time range", func(t *testing.T) {
		svc := NewService(newFakeRepo())
		req := base()
		req.Date = strPtr("2025-10-15")
		req.StartTime = "12:00"
		req.EndTime = "09:00"

		_, err := svc.Create(ctx, req)
		require.Error(t, err)
	})

	t.Run("rejects zero-length block", func(t *testing.T) {
		svc := NewService(newFakeRepo())
		req := base()
		req.Date = strPtr("2025-10-15")
		req.EndTime = "09:00"

		_, err := svc.Create(ctx, req)
		require.Error(t, err)
	})

	t.Run("rejects malformed times and dates", func(t *testing.T) {
		svc := NewService(newFakeRepo())

		req := base()
		req.Date = strPtr("2025-10-15")
		req.StartTime = "9am"
		_, err := svc.Create(ctx, req)
		require.Error(t, err)

		req = base()
		req.Date = strPtr("15/10/2025")
		_, err = svc.Create(ctx, req)
		require.Error(t, err)
	})

	t.Run("normalizes times with seconds", func(t *testing.T) {
		svc := NewService(newFakeRepo())
		req := base()
		req.Date = strPtr("2025-10-15")
		req.StartTime = "09:00:00"
		req.EndTime = "12:00:00"

		block, err := svc.Create(ctx, req)
		require.NoError(t, err)
		assert.Equal(t, "09:00", block.StartTime)
		assert.Equal(t, "12:00", block.EndTime)
	})
}

func TestDeleteWorkingBlock(t *testing.T) {
	ctx := context.Background()

	repo := newFakeRepo()
	svc := NewService(repo)

	block, err := svc.Create(ctx, &model.CreateWorkingBlockRequest{
		DoctorID:    uuid.New(),
		SpecialtyID: uuid.New(),
		Date:        strPtr("2025-10-15"),
		StartTime:   "09:00",
		EndTime:     "12:00",
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, block.ID))
	assert.Error(t, svc.Delete(ctx, block.ID))
}
