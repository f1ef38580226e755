package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/clinicdesk/clinic-api/internal/model"
)

func (r *scheduleRepository) Create(ctx context.Context, block *model.WorkingBlock) error {
	query := `
		INSERT INTO working_blocks (
			id, doctor_id, specialty_id, kind, block_date, weekday,
			start_time, end_time, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	if block.ID == uuid.Nil {
		block.ID = uuid.New()
	}
	block.CreatedAt = time.Now()
	block.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		block.ID,
		block.DoctorID,
		block.SpecialtyID,
		block.Kind,
		block.Date,
		block.Weekday,
		block.StartTime,
		block.EndTime,
		block.CreatedAt,
		block.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create working block: %w", err)
	}
	return nil
}

func (r *scheduleRepository) Get(ctx context.Context, id uuid.UUID) (*model.WorkingBlock, error) {
	query := `
		SELECT id, doctor_id, specialty_id, kind, block_date, weekday,
			   start_time, end_time, created_at, updated_at
		FROM working_blocks
		WHERE id = $1
	`
	var block model.WorkingBlock
	err := r.db.GetContext(ctx, &block, query, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get working block: %w", err)
	}
	return &block, nil
}

func (r *scheduleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `
		DELETE FROM working_blocks
		WHERE id = $1
	`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete working block: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("working block not found")
	}

	return nil
}

func (r *scheduleRepository) List(ctx context.Context, filters *model.WorkingBlockFilters) ([]model.WorkingBlock, error) {
	query := `
		SELECT id, doctor_id, specialty_id, kind, block_date, weekday,
			   start_time, end_time, created_at, updated_at
		FROM working_blocks
		WHERE 1=1
	`
	var args []interface{}
	argCount := 1

	if filters.DoctorID != uuid.Nil {
		query += fmt.Sprintf(" AND doctor_id = $%d", argCount)
		args = append(args, filters.DoctorID)
		argCount++
	}
	if filters.SpecialtyID != uuid.Nil {
		query += fmt.Sprintf(" AND specialty_id = $%d", argCount)
		args = append(args, filters.SpecialtyID)
		argCount++
	}
	if filters.DateFrom != "" {
		query += fmt.Sprintf(" AND (kind = 'recurring' OR block_date >= $%d)", argCount)
		args = append(args, filters.DateFrom)
		argCount++
	}
	if filters.DateTo != "" {
		query += fmt.Sprintf(" AND (kind = 'recurring' OR block_date <= $%d)", argCount)
		args = append(args, filters.DateTo)
		argCount++
	}

	query += " ORDER BY created_at ASC"

	var blocks []model.WorkingBlock
	err := r.db.SelectContext(ctx, &blocks, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list working blocks: %w", err)
	}
	return blocks, nil
}

func (r *scheduleRepository) ListForDoctors(ctx context.Context, doctorIDs []uuid.UUID, dateFrom, dateTo string) ([]model.WorkingBlock, error) {
	query := `
		SELECT id, doctor_id, specialty_id, kind, block_date, weekday,
			   start_time, end_time, created_at, updated_at
		FROM working_blocks
		WHERE doctor_id = ANY($1)
		AND (kind = 'recurring' OR (block_date >= $2 AND block_date <= $3))
		ORDER BY created_at ASC
	`
	ids := make([]string, len(doctorIDs))
	for i, id := range doctorIDs {
		ids[i] = id.String()
	}

	var blocks []model.WorkingBlock
	err := r.db.SelectContext(ctx, &blocks, query, pq.Array(ids), dateFrom, dateTo)
	if err != nil {
		return nil, fmt.Errorf("failed to list working blocks for doctors: %w", err)
	}
	return blocks, nil
}
