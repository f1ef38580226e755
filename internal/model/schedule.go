package model

import (
	"time"

	"github.com/google/uuid"
)

type BlockKind string

const (
	// BlockKindDated binds a block to one concrete calendar date.
	// Slot generation runs on dated blocks.
	BlockKindDated BlockKind = "dated"
	// BlockKindRecurring binds a block to a weekday. Used as a
	// fallback only when a doctor has no dated block for the
	// requested date.
	BlockKindRecurring BlockKind = "recurring"
)

// WorkingBlock is a contiguous interval during which a doctor sees
// patients for a specialty. StartTime < EndTime always; blocks may
// overlap and need not be contiguous.
type WorkingBlock struct {
	Base
	DoctorID    uuid.UUID     `db:"doctor_id" json:"doctor_id"`
	SpecialtyID uuid.UUID     `db:"specialty_id" json:"specialty_id"`
	Kind        BlockKind     `db:"kind" json:"kind"`
	Date        *string       `db:"block_date" json:"date,omitempty"`
	Weekday     *time.Weekday `db:"weekday" json:"weekday,omitempty"`
	StartTime   string        `db:"start_time" json:"start_time"`
	EndTime     string        `db:"end_time" json:"end_time"`
}

type CreateWorkingBlockRequest struct {
	DoctorID    uuid.UUID `json:"doctor_id" binding:"required"`
	SpecialtyID uuid.UUID `json:"specialty_id" binding:"required"`
	Date        *string   `json:"date" binding:"omitempty,isodate"`
	Weekday     *int      `json:"weekday" binding:"omitempty,min=0,max=6"`
	StartTime   string    `json:"start_time" binding:"required,hhmm"`
	EndTime     string    `json:"end_time" binding:"required,hhmm"`
}

type WorkingBlockFilters struct {
	DoctorID    uuid.UUID
	SpecialtyID uuid.UUID
	DateFrom    string
	DateTo      string
}
