package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/clinicdesk/clinic-api/internal/model"
)

// All repository interfaces in one file
type (
	DoctorRepository interface {
		Create(ctx context.Context, doctor *model.Doctor) error
		Get(ctx context.Context, id uuid.UUID) (*model.Doctor, error)
		Update(ctx context.Context, doctor *model.Doctor) error
		Delete(ctx context.Context, id uuid.UUID) error
		List(ctx context.Context) ([]model.Doctor, error)
	}

	SpecialtyRepository interface {
		Create(ctx context.Context, specialty *model.Specialty) error
		Get(ctx context.Context, id uuid.UUID) (*model.Specialty, error)
		Delete(ctx context.Context, id uuid.UUID) error
		List(ctx context.Context) ([]model.Specialty, error)
	}

	// AssociationRepository manages doctor-specialty pairings and the
	// visit duration/cost they carry.
	AssociationRepository interface {
		Assign(ctx context.Context, assoc *model.DoctorSpecialty) error
		Remove(ctx context.Context, doctorID, specialtyID uuid.UUID) error
		Get(ctx context.Context, doctorID, specialtyID uuid.UUID) (*model.DoctorSpecialty, error)
		ListForDoctor(ctx context.Context, doctorID uuid.UUID) ([]model.DoctorSpecialty, error)
		ListAll(ctx context.Context) ([]model.DoctorSpecialty, error)
	}

	PatientRepository interface {
		Create(ctx context.Context, patient *model.Patient) error
		Get(ctx context.Context, id uuid.UUID) (*model.Patient, error)
		Update(ctx context.Context, patient *model.Patient) error
		Delete(ctx context.Context, id uuid.UUID) error
		List(ctx context.Context) ([]model.Patient, error)
	}

	ScheduleRepository interface {
		Create(ctx context.Context, block *model.WorkingBlock) error
		Get(ctx context.Context, id uuid.UUID) (*model.WorkingBlock, error)
		Delete(ctx context.Context, id uuid.UUID) error
		List(ctx context.Context, filters *model.WorkingBlockFilters) ([]model.WorkingBlock, error)
		// ListForDoctors returns every block for the given doctors that
		// could apply within [dateFrom, dateTo]: dated blocks in range
		// plus all recurring blocks.
		ListForDoctors(ctx context.Context, doctorIDs []uuid.UUID, dateFrom, dateTo string) ([]model.WorkingBlock, error)
	}

	AppointmentRepository interface {
		Create(ctx context.Context, appointment *model.Appointment) error
		Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error)
		Update(ctx context.Context, appointment *model.Appointment) error
		Delete(ctx context.Context, id uuid.UUID) error
		List(ctx context.Context, filters *model.AppointmentFilters) ([]model.Appointment, error)
		// ListForDoctors returns appointments for the given doctors with
		// dates in [dateFrom, dateTo], any status.
		ListForDoctors(ctx context.Context, doctorIDs []uuid.UUID, dateFrom, dateTo string) ([]model.Appointment, error)
		// CheckConflict reports whether an active appointment already
		// occupies the exact doctor/date/time slot.
		CheckConflict(ctx context.Context, doctorID uuid.UUID, date, startTime string, excludeID *uuid.UUID) (bool, error)
	}

	SettingsRepository interface {
		Get(ctx context.Context) (*model.ClinicSettings, error)
		Update(ctx context.Context, settings *model.ClinicSettings) error
	}

	OutboxRepository interface {
		Create(ctx context.Context, event *model.OutboxEvent) error
		GetPendingEvents(ctx context.Context, limit int) ([]*model.OutboxEvent, error)
		UpdateStatus(ctx context.Context, id uuid.UUID, status model.OutboxStatus, errMsg *string) error
		DeleteProcessedBefore(ctx context.Context, before time.Time) (int64, error)
	}
)
