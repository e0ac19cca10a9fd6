package reviews

import (
	"context"
	"math"

	"github.com/google/uuid"

	"consulta/backend/internal/domain"
	"consulta/backend/internal/store"
)

type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string {
	return e.msg
}

func validationError(msg string) error {
	return &ValidationError{msg: msg}
}

type Service struct {
	repo         store.ReviewRepository
	appointments store.BookingRepository
}

func NewService(repo store.ReviewRepository, appointments store.BookingRepository) *Service {
	return &Service{repo: repo, appointments: appointments}
}

type CreateInput struct {
	AppointmentID uuid.UUID
	PatientID     string
	Rating        float64
	Comment       string
	Anonymous     bool
}

// Create adds a review for a completed appointment owned by the patient, at
// most one per appointment, and recomputes the professional's rating summary
// in the same transaction.
func (s *Service) Create(ctx context.Context, in CreateInput) (domain.Review, error) {
	if in.AppointmentID == uuid.Nil {
		return domain.Review{}, validationError("appointment_id is required")
	}
	if in.PatientID == "" {
		return domain.Review{}, validationError("patient_id is required")
	}
	rating, err := normalizeRating(in.Rating)
	if err != nil {
		return domain.Review{}, err
	}

	appt, err := s.appointments.Get(ctx, in.AppointmentID)
	if err != nil {
		return domain.Review{}, err
	}
	if appt.Status != domain.AppointmentStatusCompleted {
		return domain.Review{}, validationError("only completed appointments can be reviewed")
	}
	if appt.PatientID != in.PatientID {
		return domain.Review{}, store.ErrForbidden
	}

	var out domain.Review
	err = s.repo.InProfessionalTransaction(ctx, appt.ProfessionalID, func(ctx context.Context, tx store.ReviewTx) error {
		if _, exists, err := tx.GetReviewByAppointment(ctx, in.AppointmentID); err != nil {
			return err
		} else if exists {
			return store.ErrConflict
		}

		created, err := tx.InsertReview(ctx, domain.Review{
			AppointmentID:  in.AppointmentID,
			PatientID:      in.PatientID,
			ProfessionalID: appt.ProfessionalID,
			Rating:         rating,
			Comment:        in.Comment,
			Anonymous:      in.Anonymous,
		})
		if err != nil {
			return err
		}
		out = created

		return recomputeRating(ctx, tx, appt.ProfessionalID)
	})
	if err != nil {
		return domain.Review{}, err
	}
	return out, nil
}

type UpdateInput struct {
	ReviewID  uuid.UUID
	PatientID string
	Rating    *float64
	Comment   *string
	Anonymous *bool
}

// Update applies a partial edit by the owning patient and recomputes the
// summary alongside it.
func (s *Service) Update(ctx context.Context, in UpdateInput) (domain.Review, error) {
	if in.ReviewID == uuid.Nil {
		return domain.Review{}, validationError("review_id is required")
	}
	if in.PatientID == "" {
		return domain.Review{}, validationError("patient_id is required")
	}
	var rating float64
	if in.Rating != nil {
		r, err := normalizeRating(*in.Rating)
		if err != nil {
			return domain.Review{}, err
		}
		rating = r
	}

	review, err := s.repo.Get(ctx, in.ReviewID)
	if err != nil {
		return domain.Review{}, err
	}
	if review.PatientID != in.PatientID {
		return domain.Review{}, store.ErrForbidden
	}

	var out domain.Review
	err = s.repo.InProfessionalTransaction(ctx, review.ProfessionalID, func(ctx context.Context, tx store.ReviewTx) error {
		current, err := tx.GetReview(ctx, in.ReviewID)
		if err != nil {
			return err
		}
		if in.Rating != nil {
			current.Rating = rating
		}
		if in.Comment != nil {
			current.Comment = *in.Comment
		}
		if in.Anonymous != nil {
			current.Anonymous = *in.Anonymous
		}

		updated, err := tx.UpdateReview(ctx, current)
		if err != nil {
			return err
		}
		out = updated

		return recomputeRating(ctx, tx, current.ProfessionalID)
	})
	if err != nil {
		return domain.Review{}, err
	}
	return out, nil
}

// Delete removes the review (owner only) and recomputes the summary in the
// same transaction.
func (s *Service) Delete(ctx context.Context, reviewID uuid.UUID, patientID string) error {
	if reviewID == uuid.Nil {
		return validationError("review_id is required")
	}
	if patientID == "" {
		return validationError("patient_id is required")
	}

	review, err := s.repo.Get(ctx, reviewID)
	if err != nil {
		return err
	}
	if review.PatientID != patientID {
		return store.ErrForbidden
	}

	return s.repo.InProfessionalTransaction(ctx, review.ProfessionalID, func(ctx context.Context, tx store.ReviewTx) error {
		if err := tx.DeleteReview(ctx, reviewID); err != nil {
			return err
		}
		return recomputeRating(ctx, tx, review.ProfessionalID)
	})
}

func (s *Service) Get(ctx context.Context, reviewID uuid.UUID) (domain.Review, error) {
	if reviewID == uuid.Nil {
		return domain.Review{}, validationError("review_id is required")
	}
	return s.repo.Get(ctx, reviewID)
}

func (s *Service) GetByAppointment(ctx context.Context, appointmentID uuid.UUID) (domain.Review, error) {
	if appointmentID == uuid.Nil {
		return domain.Review{}, validationError("appointment_id is required")
	}
	return s.repo.GetByAppointment(ctx, appointmentID)
}

func (s *Service) ListByProfessional(ctx context.Context, professionalID string, limit, offset int) ([]domain.Review, error) {
	if professionalID == "" {
		return nil, validationError("professional_id is required")
	}
	limit, offset = clampPage(limit, offset)
	return s.repo.ListByProfessional(ctx, professionalID, limit, offset)
}

func (s *Service) ListByPatient(ctx context.Context, patientID string, limit, offset int) ([]domain.Review, error) {
	if patientID == "" {
		return nil, validationError("patient_id is required")
	}
	limit, offset = clampPage(limit, offset)
	return s.repo.ListByPatient(ctx, patientID, limit, offset)
}

// Summary returns the denormalized rating summary kept on the profile row.
func (s *Service) Summary(ctx context.Context, professionalID string) (domain.RatingSummary, error) {
	if professionalID == "" {
		return domain.RatingSummary{}, validationError("professional_id is required")
	}
	return s.repo.Summary(ctx, professionalID)
}

func recomputeRating(ctx context.Context, tx store.ReviewTx, professionalID string) error {
	ratings, err := tx.ListRatings(ctx, professionalID)
	if err != nil {
		return err
	}
	return tx.UpdateProfessionalRating(ctx, professionalID, domain.SummarizeRatings(ratings))
}

func normalizeRating(r float64) (float64, error) {
	if r < 1.0 || r > 5.0 {
		return 0, validationError("rating must be between 1.0 and 5.0")
	}
	return math.Round(r*10) / 10, nil
}

func clampPage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
