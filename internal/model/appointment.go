package model

import (
	"github.com/google/uuid"
)

type AppointmentStatus string

const (
	AppointmentStatusScheduled AppointmentStatus = "scheduled"
	AppointmentStatusConfirmed AppointmentStatus = "confirmed"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
	AppointmentStatusCompleted AppointmentStatus = "completed"
)

type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusWaived  PaymentStatus = "waived"
)

// Appointment occupies one slot. Rescheduling overwrites the time
// fields; cancelling overwrites the status. Rows are never hard
// deleted through the API.
type Appointment struct {
	Base
	DoctorID      uuid.UUID         `db:"doctor_id" json:"doctor_id"`
	SpecialtyID   uuid.UUID         `db:"specialty_id" json:"specialty_id"`
	PatientID     uuid.UUID         `db:"patient_id" json:"patient_id"`
	Date          string            `db:"appointment_date" json:"appointment_date"`
	StartTime     string            `db:"start_time" json:"start_time"`
	EndTime       string            `db:"end_time" json:"end_time"`
	Status        AppointmentStatus `db:"status" json:"status"`
	PaymentStatus PaymentStatus     `db:"payment_status" json:"payment_status"`
	PaymentMethod string            `db:"payment_method" json:"payment_method,omitempty"`
	TransactionID string            `db:"transaction_id" json:"transaction_id,omitempty"`
	Notes         string            `db:"notes" json:"notes,omitempty"`
	CancelReason  *string           `db:"cancel_reason" json:"cancel_reason,omitempty"`
}

// IsActive reports whether the appointment still occupies its slot.
func (a *Appointment) IsActive() bool {
	return a.Status != AppointmentStatusCancelled
}

type BookAppointmentRequest struct {
	DoctorID      uuid.UUID `json:"doctor_id" binding:"required"`
	SpecialtyID   uuid.UUID `json:"specialty_id" binding:"required"`
	PatientID     uuid.UUID `json:"patient_id" binding:"required"`
	Date          string    `json:"date" binding:"required,isodate"`
	StartTime     string    `json:"start_time" binding:"required,hhmm"`
	PaymentMethod string    `json:"payment_method" binding:"omitempty,oneof=cash card insurance"`
	Notes         string    `json:"notes" binding:"max=1000"`
}

type RescheduleAppointmentRequest struct {
	Date      string `json:"date" binding:"required,isodate"`
	StartTime string `json:"start_time" binding:"required,hhmm"`
}

type UpdateAppointmentRequest struct {
	Status        *AppointmentStatus `json:"status" binding:"omitempty,oneof=scheduled confirmed completed"`
	PaymentStatus *PaymentStatus     `json:"payment_status" binding:"omitempty,oneof=pending paid waived"`
	PaymentMethod *string            `json:"payment_method" binding:"omitempty,oneof=cash card insurance"`
	TransactionID *string            `json:"transaction_id"`
	Notes         *string            `json:"notes" binding:"omitempty,max=1000"`
}

type AppointmentFilters struct {
	DoctorID    uuid.UUID
	SpecialtyID uuid.UUID
	PatientID   uuid.UUID
	Status      AppointmentStatus
	DateFrom    string
	DateTo      string
}
