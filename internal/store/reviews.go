package store

import (
	"context"

	"github.com/google/uuid"

	"consulta/backend/internal/domain"
)

// ReviewTx is the unit of work for review mutations. The rating summary
// write shares the transaction with the triggering mutation so a reader
// never observes one without the other.
type ReviewTx interface {
	GetReview(ctx context.Context, id uuid.UUID) (domain.Review, error)
	GetReviewByAppointment(ctx context.Context, appointmentID uuid.UUID) (domain.Review, bool, error)
	InsertReview(ctx context.Context, review domain.Review) (domain.Review, error)
	UpdateReview(ctx context.Context, review domain.Review) (domain.Review, error)
	DeleteReview(ctx context.Context, id uuid.UUID) error

	// ListRatings returns the rating of every review currently attached to
	// the professional.
	ListRatings(ctx context.Context, professionalID string) ([]float64, error)
	// UpdateProfessionalRating writes the denormalized summary onto the
	// professional profile row.
	UpdateProfessionalRating(ctx context.Context, professionalID string, summary domain.RatingSummary) error
}

type ReviewRepository interface {
	InProfessionalTransaction(ctx context.Context, professionalID string, fn func(ctx context.Context, tx ReviewTx) error) error

	Get(ctx context.Context, id uuid.UUID) (domain.Review, error)
	GetByAppointment(ctx context.Context, appointmentID uuid.UUID) (domain.Review, error)
	ListByProfessional(ctx context.Context, professionalID string, limit, offset int) ([]domain.Review, error)
	ListByPatient(ctx context.Context, patientID string, limit, offset int) ([]domain.Review, error)
	// Summary reads the denormalized rating fields from the profile row.
	Summary(ctx context.Context, professionalID string) (domain.RatingSummary, error)
}
