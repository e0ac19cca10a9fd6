package domain

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type AppointmentStatus string

const (
	AppointmentStatusPending   AppointmentStatus = "pending"
	AppointmentStatusConfirmed AppointmentStatus = "confirmed"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
	AppointmentStatusCompleted AppointmentStatus = "completed"
)

// ParseAppointmentStatus maps a caller-supplied string onto the closed status
// set. Unknown values are rejected at the boundary instead of being stored.
func ParseAppointmentStatus(s string) (AppointmentStatus, error) {
	switch AppointmentStatus(strings.ToLower(strings.TrimSpace(s))) {
	case AppointmentStatusPending:
		return AppointmentStatusPending, nil
	case AppointmentStatusConfirmed:
		return AppointmentStatusConfirmed, nil
	case AppointmentStatusCancelled:
		return AppointmentStatusCancelled, nil
	case AppointmentStatusCompleted:
		return AppointmentStatusCompleted, nil
	default:
		return "", fmt.Errorf("unknown appointment status %q", s)
	}
}

type Appointment struct {
	bun.BaseModel `bun:"table:appointments"`

	ID             uuid.UUID         `bun:"id,pk,type:uuid"`
	PatientID      string            `bun:"patient_id,notnull"`
	ProfessionalID string            `bun:"professional_id,notnull"`
	StartTime      time.Time         `bun:"start_time,notnull"`
	EndTime        time.Time         `bun:"end_time,notnull"`
	Status         AppointmentStatus `bun:"status,notnull"`
	CreatedAt      time.Time         `bun:"created_at,notnull"`
	UpdatedAt      time.Time         `bun:"updated_at,notnull"`
}

func (a *Appointment) Slot() Interval {
	return Interval{Start: a.StartTime, End: a.EndTime}
}

func (a *Appointment) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	now := time.Now().UTC()
	switch query.(type) {
	case *bun.InsertQuery:
		if a.ID == uuid.Nil {
			id, err := uuid.NewV7()
			if err != nil {
				return err
			}
			a.ID = id
		}
		if a.Status == "" {
			a.Status = AppointmentStatusPending
		}
		if a.CreatedAt.IsZero() {
			a.CreatedAt = now
		}
		if a.UpdatedAt.IsZero() {
			a.UpdatedAt = now
		}
	case *bun.UpdateQuery:
		a.UpdatedAt = now
	}
	return nil
}
