package domain

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// ProfessionalProfile is the scheduling-relevant subset of a professional's
// profile. The profile row is owned by the profile-management side; the
// scheduling core reads it and only ever writes the denormalized rating
// fields, inside the same transaction as the triggering review mutation.
type ProfessionalProfile struct {
	bun.BaseModel `bun:"table:professional_profiles"`

	ID             string  `bun:"id,pk"`
	UserID         string  `bun:"user_id,notnull"`
	Price          float64 `bun:"price,notnull"`
	OnlyOnline     bool    `bun:"only_online,notnull"`
	OnlyPresential bool    `bun:"only_presential,notnull"`

	Rating             float64        `bun:"rating,notnull"`
	NumReviews         int            `bun:"num_reviews,notnull"`
	RatingDistribution map[string]int `bun:"rating_distribution,type:jsonb"`

	// AvailableDaysOfWeek is a CSV of lowercase weekday names, e.g.
	// "monday,tuesday". Empty means every weekday is allowed.
	AvailableDaysOfWeek string `bun:"available_days_of_week"`
	// StartHour/EndHour are "HH:MM" wall-clock strings. Empty means the
	// professional has no configured hours and therefore no bookable slots.
	StartHour string `bun:"start_hour"`
	EndHour   string `bun:"end_hour"`

	CreatedAt time.Time `bun:"created_at,notnull"`
	UpdatedAt time.Time `bun:"updated_at,notnull"`
}

// WorkedWeekdays parses AvailableDaysOfWeek. A nil map means no restriction.
func (p *ProfessionalProfile) WorkedWeekdays() map[string]struct{} {
	csv := strings.TrimSpace(p.AvailableDaysOfWeek)
	if csv == "" {
		return nil
	}
	out := make(map[string]struct{})
	for _, part := range strings.Split(csv, ",") {
		name := strings.ToLower(strings.TrimSpace(part))
		if name == "" {
			continue
		}
		out[name] = struct{}{}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

type BlackoutDate struct {
	bun.BaseModel `bun:"table:blackout_dates"`

	ID             uuid.UUID `bun:"id,pk,type:uuid"`
	ProfessionalID string    `bun:"professional_id,notnull"`
	Date           time.Time `bun:"date,notnull"`
	Reason         string    `bun:"reason"`
	CreatedAt      time.Time `bun:"created_at,notnull"`
}

func (b *BlackoutDate) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	if _, ok := query.(*bun.InsertQuery); ok {
		if b.ID == uuid.Nil {
			id, err := uuid.NewV7()
			if err != nil {
				return err
			}
			b.ID = id
		}
		if b.CreatedAt.IsZero() {
			b.CreatedAt = time.Now().UTC()
		}
	}
	return nil
}

// WeekdayName returns the lowercase English weekday name used in
// AvailableDaysOfWeek sets.
func WeekdayName(t time.Time) string {
	return strings.ToLower(t.Weekday().String())
}
