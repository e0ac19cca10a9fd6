package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"consulta/backend/internal/domain"
)

// BookingTx is the unit of work for appointment mutations. Implementations
// must serialize all writers for one professional so that two concurrent
// requests cannot both observe "no conflict" and commit overlapping bookings.
type BookingTx interface {
	// FindConflicts returns every non-cancelled appointment of the
	// professional whose interval overlaps slot. excludeID, when non-nil,
	// removes one appointment from consideration (self-exclusion on
	// reschedule). Pure read; an empty result means the slot is bookable.
	FindConflicts(ctx context.Context, professionalID string, slot domain.Interval, excludeID uuid.UUID) ([]domain.Appointment, error)
	// FindCancelled looks up a cancelled appointment for the exact
	// (patient, professional, interval) triple, for slot reuse.
	FindCancelled(ctx context.Context, patientID, professionalID string, slot domain.Interval) (domain.Appointment, bool, error)

	GetAppointment(ctx context.Context, id uuid.UUID) (domain.Appointment, error)
	InsertAppointment(ctx context.Context, appt domain.Appointment) (domain.Appointment, error)
	UpdateAppointment(ctx context.Context, appt domain.Appointment) (domain.Appointment, error)
	DeleteAppointment(ctx context.Context, id uuid.UUID) error
}

type BookingRepository interface {
	// InProfessionalTransaction runs fn inside a store transaction that
	// holds the professional's write lock for its entire duration.
	InProfessionalTransaction(ctx context.Context, professionalID string, fn func(ctx context.Context, tx BookingTx) error) error

	Get(ctx context.Context, id uuid.UUID) (domain.Appointment, error)
	ListByPatient(ctx context.Context, patientID string, limit, offset int) ([]domain.Appointment, error)
	ListByProfessional(ctx context.Context, professionalID string, limit, offset int) ([]domain.Appointment, error)
	// ListByProfessionalRange returns the professional's appointments
	// overlapping [windowStart, windowEnd), any status, ordered by start.
	ListByProfessionalRange(ctx context.Context, professionalID string, windowStart, windowEnd time.Time) ([]domain.Appointment, error)
}
