package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/uptrace/bun"

	"consulta/backend/internal/domain"
	"consulta/backend/internal/store"
)

type ScheduleRepo struct {
	db *bun.DB
}

func NewScheduleRepo(db *bun.DB) *ScheduleRepo {
	return &ScheduleRepo{db: db}
}

func (r *ScheduleRepo) GetProfile(ctx context.Context, professionalID string) (domain.ProfessionalProfile, error) {
	var profile domain.ProfessionalProfile
	err := r.db.NewSelect().
		Model(&profile).
		Where("id = ?", professionalID).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ProfessionalProfile{}, store.ErrNotFound
		}
		return domain.ProfessionalProfile{}, err
	}
	return profile, nil
}

func (r *ScheduleRepo) BlackoutOn(ctx context.Context, professionalID string, day time.Time) (domain.BlackoutDate, bool, error) {
	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	var blackout domain.BlackoutDate
	err := r.db.NewSelect().
		Model(&blackout).
		Where("professional_id = ?", professionalID).
		Where("date >= ?", dayStart).
		Where("date < ?", dayEnd).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.BlackoutDate{}, false, nil
		}
		return domain.BlackoutDate{}, false, err
	}
	return blackout, true, nil
}
