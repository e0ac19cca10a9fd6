package store

import (
	"context"
	"time"

	"consulta/backend/internal/domain"
)

// ScheduleRepository is the read-only view of professional configuration the
// scheduling core needs. The profile rows themselves are owned by the
// profile-management side.
type ScheduleRepository interface {
	GetProfile(ctx context.Context, professionalID string) (domain.ProfessionalProfile, error)
	// BlackoutOn reports whether the professional marked the calendar day
	// containing the given instant as unavailable.
	BlackoutOn(ctx context.Context, professionalID string, day time.Time) (domain.BlackoutDate, bool, error)
}
