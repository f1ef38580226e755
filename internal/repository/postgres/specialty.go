package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/clinicdesk/clinic-api/internal/model"
)

func (r *specialtyRepository) Create(ctx context.Context, specialty *model.Specialty) error {
	query := `
		INSERT INTO specialties (id, name, description, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	if specialty.ID == uuid.Nil {
		specialty.ID = uuid.New()
	}
	specialty.CreatedAt = time.Now()
	specialty.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		specialty.ID,
		specialty.Name,
		specialty.Description,
		specialty.Status,
		specialty.CreatedAt,
		specialty.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create specialty: %w", err)
	}
	return nil
}

func (r *specialtyRepository) Get(ctx context.Context, id uuid.UUID) (*model.Specialty, error) {
	query := `
		SELECT id, name, description, status, created_at, updated_at
		FROM specialties
		WHERE id = $1 AND deleted_at IS NULL
	`
	var specialty model.Specialty
	err := r.db.GetContext(ctx, &specialty, query, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get specialty: %w", err)
	}
	return &specialty, nil
}

func (r *specialtyRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE specialties
		SET deleted_at = $1
		WHERE id = $2 AND deleted_at IS NULL
	`
	result, err := r.db.ExecContext(ctx, query, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to delete specialty: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("specialty not found")
	}

	return nil
}

func (r *specialtyRepository) List(ctx context.Context) ([]model.Specialty, error) {
	query := `
		SELECT id, name, description, status, created_at, updated_at
		FROM specialties
		WHERE deleted_at IS NULL
		ORDER BY name ASC
	`
	var specialties []model.Specialty
	err := r.db.SelectContext(ctx, &specialties, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list specialties: %w", err)
	}
	return specialties, nil
}
