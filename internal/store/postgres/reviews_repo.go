package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/uptrace/bun"

	"consulta/backend/internal/domain"
	"consulta/backend/internal/store"
)

type ReviewRepo struct {
	db *bun.DB
}

func NewReviewRepo(db *bun.DB) *ReviewRepo {
	return &ReviewRepo{db: db}
}

type reviewTx struct {
	tx bun.Tx
}

// InProfessionalTransaction shares the advisory lock space with the booking
// repo, so review mutations and their summary writes are serialized per
// professional alongside booking writers.
func (r *ReviewRepo) InProfessionalTransaction(ctx context.Context, professionalID string, fn func(ctx context.Context, tx store.ReviewTx) error) error {
	return r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if err := lockProfessionalSchedule(ctx, tx, professionalID); err != nil {
			return err
		}
		return fn(ctx, reviewTx{tx: tx})
	})
}

func (r *ReviewRepo) Get(ctx context.Context, id uuid.UUID) (domain.Review, error) {
	var review domain.Review
	err := r.db.NewSelect().
		Model(&review).
		Where("id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Review{}, store.ErrNotFound
		}
		return domain.Review{}, err
	}
	return review, nil
}

func (r *ReviewRepo) GetByAppointment(ctx context.Context, appointmentID uuid.UUID) (domain.Review, error) {
	var review domain.Review
	err := r.db.NewSelect().
		Model(&review).
		Where("appointment_id = ?", appointmentID).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Review{}, store.ErrNotFound
		}
		return domain.Review{}, err
	}
	return review, nil
}

func (r *ReviewRepo) ListByProfessional(ctx context.Context, professionalID string, limit, offset int) ([]domain.Review, error) {
	var rows []domain.Review
	err := r.db.NewSelect().
		Model(&rows).
		Where("professional_id = ?", professionalID).
		OrderExpr("created_at DESC").
		Limit(limit).
		Offset(offset).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *ReviewRepo) ListByPatient(ctx context.Context, patientID string, limit, offset int) ([]domain.Review, error) {
	var rows []domain.Review
	err := r.db.NewSelect().
		Model(&rows).
		Where("patient_id = ?", patientID).
		OrderExpr("created_at DESC").
		Limit(limit).
		Offset(offset).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *ReviewRepo) Summary(ctx context.Context, professionalID string) (domain.RatingSummary, error) {
	var profile domain.ProfessionalProfile
	err := r.db.NewSelect().
		Model(&profile).
		Where("id = ?", professionalID).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.RatingSummary{}, store.ErrNotFound
		}
		return domain.RatingSummary{}, err
	}
	return domain.SummaryFromProfile(profile), nil
}

func (t reviewTx) GetReview(ctx context.Context, id uuid.UUID) (domain.Review, error) {
	var review domain.Review
	err := t.tx.NewSelect().
		Model(&review).
		Where("id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Review{}, store.ErrNotFound
		}
		return domain.Review{}, err
	}
	return review, nil
}

func (t reviewTx) GetReviewByAppointment(ctx context.Context, appointmentID uuid.UUID) (domain.Review, bool, error) {
	var review domain.Review
	err := t.tx.NewSelect().
		Model(&review).
		Where("appointment_id = ?", appointmentID).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Review{}, false, nil
		}
		return domain.Review{}, false, err
	}
	return review, true, nil
}

func (t reviewTx) InsertReview(ctx context.Context, review domain.Review) (domain.Review, error) {
	m := review
	if _, err := t.tx.NewInsert().Model(&m).Exec(ctx); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domain.Review{}, store.ErrConflict
		}
		return domain.Review{}, err
	}
	return m, nil
}

func (t reviewTx) UpdateReview(ctx context.Context, review domain.Review) (domain.Review, error) {
	m := review
	res, err := t.tx.NewUpdate().
		Model(&m).
		Column("rating", "comment", "is_anonymous", "updated_at").
		WherePK().
		Exec(ctx)
	if err != nil {
		return domain.Review{}, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return domain.Review{}, err
	}
	if affected == 0 {
		return domain.Review{}, store.ErrNotFound
	}
	return m, nil
}

func (t reviewTx) DeleteReview(ctx context.Context, id uuid.UUID) error {
	res, err := t.tx.NewDelete().
		Model((*domain.Review)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (t reviewTx) ListRatings(ctx context.Context, professionalID string) ([]float64, error) {
	var ratings []float64
	err := t.tx.NewSelect().
		Model((*domain.Review)(nil)).
		Column("rating").
		Where("professional_id = ?", professionalID).
		Scan(ctx, &ratings)
	if err != nil {
		return nil, err
	}
	return ratings, nil
}

func (t reviewTx) UpdateProfessionalRating(ctx context.Context, professionalID string, summary domain.RatingSummary) error {
	dist, err := json.Marshal(summary.DistributionMap())
	if err != nil {
		return err
	}
	res, err := t.tx.NewUpdate().
		Model((*domain.ProfessionalProfile)(nil)).
		Set("rating = ?", summary.AverageRating).
		Set("num_reviews = ?", summary.NumReviews).
		Set("rating_distribution = ?::jsonb", string(dist)).
		Set("updated_at = now()").
		Where("id = ?", professionalID).
		Exec(ctx)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}
