package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type Review struct {
	bun.BaseModel `bun:"table:reviews"`

	ID             uuid.UUID `bun:"id,pk,type:uuid"`
	AppointmentID  uuid.UUID `bun:"appointment_id,notnull,type:uuid"`
	PatientID      string    `bun:"patient_id,notnull"`
	ProfessionalID string    `bun:"professional_id,notnull"`
	Rating         float64   `bun:"rating,notnull"`
	Comment        string    `bun:"comment"`
	Anonymous      bool      `bun:"is_anonymous,notnull"`
	CreatedAt      time.Time `bun:"created_at,notnull"`
	UpdatedAt      time.Time `bun:"updated_at,notnull"`
}

func (r *Review) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	now := time.Now().UTC()
	switch query.(type) {
	case *bun.InsertQuery:
		if r.ID == uuid.Nil {
			id, err := uuid.NewV7()
			if err != nil {
				return err
			}
			r.ID = id
		}
		if r.CreatedAt.IsZero() {
			r.CreatedAt = now
		}
		if r.UpdatedAt.IsZero() {
			r.UpdatedAt = now
		}
	case *bun.UpdateQuery:
		r.UpdatedAt = now
	}
	return nil
}
