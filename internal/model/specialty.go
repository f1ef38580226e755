package model

import (
	"github.com/google/uuid"
)

type Specialty struct {
	Base
	Name        string `db:"name" json:"name"`
	Description string `db:"description" json:"description,omitempty"`
	Status      string `db:"status" json:"status"`
}

// DoctorSpecialty pairs a doctor with a specialty and carries the
// visit duration and cost for that combination. The duration sizes
// generated slots and computes a booked appointment's end time, so
// both paths must read it from the same place.
type DoctorSpecialty struct {
	DoctorID        uuid.UUID `db:"doctor_id" json:"doctor_id"`
	SpecialtyID     uuid.UUID `db:"specialty_id" json:"specialty_id"`
	DurationMinutes int       `db:"duration_minutes" json:"duration_minutes"`
	Cost            float64   `db:"cost" json:"cost"`
}

type CreateSpecialtyRequest struct {
	Name        string `json:"name" binding:"required,max=200"`
	Description string `json:"description" binding:"max=1000"`
}

type AssignSpecialtyRequest struct {
	SpecialtyID     uuid.UUID `json:"specialty_id" binding:"required"`
	DurationMinutes int       `json:"duration_minutes" binding:"required,gt=0"`
	Cost            float64   `json:"cost" binding:"gte=0"`
}
