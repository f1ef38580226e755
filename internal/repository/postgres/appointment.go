package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/clinicdesk/clinic-api/internal/model"
)

func (r *appointmentRepository) Create(ctx context.Context, appointment *model.Appointment) error {
	query := `
		INSERT INTO appointments (
			id, doctor_id, specialty_id, patient_id,
			appointment_date, start_time, end_time, status,
			payment_status, payment_method, transaction_id, notes,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`
	if appointment.ID == uuid.Nil {
		appointment.ID = uuid.New()
	}
	appointment.CreatedAt = time.Now()
	appointment.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		appointment.ID,
		appointment.DoctorID,
		appointment.SpecialtyID,
		appointment.PatientID,
		appointment.Date,
		appointment.StartTime,
		appointment.EndTime,
		appointment.Status,
		appointment.PaymentStatus,
		appointment.PaymentMethod,
		appointment.TransactionID,
		appointment.Notes,
		appointment.CreatedAt,
		appointment.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create appointment: %w", err)
	}
	return nil
}

func (r *appointmentRepository) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	query := `
		SELECT id, doctor_id, specialty_id, patient_id,
			   appointment_date, start_time, end_time, status,
			   payment_status, payment_method, transaction_id, notes,
			   cancel_reason, created_at, updated_at
		FROM appointments
		WHERE id = $1
	`
	var appointment model.Appointment
	err := r.db.GetContext(ctx, &appointment, query, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}
	return &appointment, nil
}

func (r *appointmentRepository) Update(ctx context.Context, appointment *model.Appointment) error {
	query := `
		UPDATE appointments
		SET appointment_date = $1, start_time = $2, end_time = $3,
			status = $4, payment_status = $5, payment_method = $6,
			transaction_id = $7, notes = $8, cancel_reason = $9, updated_at = $10
		WHERE id = $11
	`
	appointment.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		appointment.Date,
		appointment.StartTime,
		appointment.EndTime,
		appointment.Status,
		appointment.PaymentStatus,
		appointment.PaymentMethod,
		appointment.TransactionID,
		appointment.Notes,
		appointment.CancelReason,
		appointment.UpdatedAt,
		appointment.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update appointment: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("appointment not found")
	}

	return nil
}

func (r *appointmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `
		DELETE FROM appointments
		WHERE id = $1
	`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete appointment: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("appointment not found")
	}

	return nil
}

func (r *appointmentRepository) List(ctx context.Context, filters *model.AppointmentFilters) ([]model.Appointment, error) {
	query := `
		SELECT id, doctor_id, specialty_id, patient_id,
			   appointment_date, start_time, end_time, status,
			   payment_status, payment_method, transaction_id, notes,
			   cancel_reason, created_at, updated_at
		FROM appointments
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
	if filters.PatientID != uuid.Nil {
		query += fmt.Sprintf(" AND patient_id = $%d", argCount)
		args = append(args, filters.PatientID)
		argCount++
	}
	if filters.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", argCount)
		args = append(args, filters.Status)
		argCount++
	}
	if filters.DateFrom != "" {
		query += fmt.Sprintf(" AND appointment_date >= $%d", argCount)
		args = append(args, filters.DateFrom)
		argCount++
	}
	if filters.DateTo != "" {
		query += fmt.Sprintf(" AND appointment_date <= $%d", argCount)
		args = append(args, filters.DateTo)
		argCount++
	}

	query += " ORDER BY appointment_date ASC, start_time ASC"

	var appointments []model.Appointment
	err := r.db.SelectContext(ctx, &appointments, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	return appointments, nil
}

func (r *appointmentRepository) ListForDoctors(ctx context.Context, doctorIDs []uuid.UUID, dateFrom, dateTo string) ([]model.Appointment, error) {
	query := `
		SELECT id, doctor_id, specialty_id, patient_id,
			   appointment_date, start_time, end_time, status,
			   payment_status, payment_method, transaction_id, notes,
			   cancel_reason, created_at, updated_at
		FROM appointments
		WHERE doctor_id = ANY($1)
		AND appointment_date >= $2
		AND appointment_date <= $3
		ORDER BY appointment_date ASC, start_time ASC
	`
	ids := make([]string, len(doctorIDs))
	for i, id := range doctorIDs {
		ids[i] = id.String()
	}

	var appointments []model.Appointment
	err := r.db.SelectContext(ctx, &appointments, query, pq.Array(ids), dateFrom, dateTo)
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments for doctors: %w", err)
	}
	return appointments, nil
}

func (r *appointmentRepository) CheckConflict(ctx context.Context, doctorID uuid.UUID, date, startTime string, excludeID *uuid.UUID) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM appointments
			WHERE doctor_id = $1
			AND appointment_date = $2
			AND left(start_time, 5) = $3
			AND status != 'cancelled'
	`
	args := []interface{}{doctorID, date, startTime}

	if excludeID != nil {
		query += " AND id != $4"
		args = append(args, *excludeID)
	}

	query += ")"

	var hasConflict bool
	err := r.db.GetContext(ctx, &hasConflict, query, args...)
	if err != nil {
		return false, fmt.Errorf("failed to check conflict: %w", err)
	}
	return hasConflict, nil
}
