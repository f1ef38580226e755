package model

import (
	"github.com/google/uuid"
)

type SlotStatus string

const (
	SlotStatusAvailable SlotStatus = "available"
	SlotStatusBooked    SlotStatus = "booked"
	SlotStatusPast      SlotStatus = "past"
)

// Slot is a derived, duration-sized bookable start time. Slots are
// computed fresh on every resolution call and never persisted.
type Slot struct {
	Time        string       `json:"time"`
	Date        string       `json:"date"`
	DoctorID    uuid.UUID    `json:"doctor_id"`
	SpecialtyID uuid.UUID    `json:"specialty_id,omitempty"`
	Status      SlotStatus   `json:"status"`
	Appointment *Appointment `json:"appointment,omitempty"`
}

// SlotGrid aligns slot rows across doctors. Times is the sorted union
// of candidate times; a doctor absent from a time simply has no slot
// for it.
type SlotGrid struct {
	Date    string               `json:"date"`
	Times   []string             `json:"times"`
	Doctors map[uuid.UUID][]Slot `json:"doctors"`
}

// DisplayBounds is the time axis a grid renders against, independent
// of per-slot booking status.
type DisplayBounds struct {
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Duration  int    `json:"duration_minutes"`
}
