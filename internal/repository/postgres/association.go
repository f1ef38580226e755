package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/clinicdesk/clinic-api/internal/model"
)

func (r *associationRepository) Assign(ctx context.Context, assoc *model.DoctorSpecialty) error {
	query := `
		INSERT INTO doctor_specialties (doctor_id, specialty_id, duration_minutes, cost)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (doctor_id, specialty_id)
		DO UPDATE SET duration_minutes = $3, cost = $4
	`
	_, err := r.db.ExecContext(ctx, query,
		assoc.DoctorID,
		assoc.SpecialtyID,
		assoc.DurationMinutes,
		assoc.Cost,
	)
	if err != nil {
		return fmt.Errorf("failed to assign specialty: %w", err)
	}
	return nil
}

func (r *associationRepository) Remove(ctx context.Context, doctorID, specialtyID uuid.UUID) error {
	query := `
		DELETE FROM doctor_specialties
		WHERE doctor_id = $1 AND specialty_id = $2
	`
	_, err := r.db.ExecContext(ctx, query, doctorID, specialtyID)
	if err != nil {
		return fmt.Errorf("failed to remove specialty: %w", err)
	}
	return nil
}

func (r *associationRepository) Get(ctx context.Context, doctorID, specialtyID uuid.UUID) (*model.DoctorSpecialty, error) {
	query := `
		SELECT doctor_id, specialty_id, duration_minutes, cost
		FROM doctor_specialties
		WHERE doctor_id = $1 AND specialty_id = $2
	`
	var assoc model.DoctorSpecialty
	err := r.db.GetContext(ctx, &assoc, query, doctorID, specialtyID)
	if err != nil {
		return nil, fmt.Errorf("failed to get association: %w", err)
	}
	return &assoc, nil
}

func (r *associationRepository) ListForDoctor(ctx context.Context, doctorID uuid.UUID) ([]model.DoctorSpecialty, error) {
	query := `
		SELECT doctor_id, specialty_id, duration_minutes, cost
		FROM doctor_specialties
		WHERE doctor_id = $1
	`
	var associations []model.DoctorSpecialty
	err := r.db.SelectContext(ctx, &associations, query, doctorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list associations: %w", err)
	}
	return associations, nil
}

func (r *associationRepository) ListAll(ctx context.Context) ([]model.DoctorSpecialty, error) {
	query := `
		SELECT doctor_id, specialty_id, duration_minutes, cost
		FROM doctor_specialties
	`
	var associations []model.DoctorSpecialty
	err := r.db.SelectContext(ctx, &associations, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list associations: %w", err)
	}
	return associations, nil
}
