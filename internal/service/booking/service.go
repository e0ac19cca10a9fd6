package booking

import (
	"context"
	"time"

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

const maxAppointmentDuration = 24 * time.Hour

type Service struct {
	repo store.BookingRepository
}

func NewService(repo store.BookingRepository) *Service {
	return &Service{repo: repo}
}

type CreateInput struct {
	PatientID      string
	ProfessionalID string
	StartTime      time.Time
	EndTime        time.Time
}

// Create books the requested slot. The conflict check and the insert (or
// cancelled-slot reuse) run inside one per-professional transaction, so two
// concurrent requests cannot both commit overlapping bookings.
func (s *Service) Create(ctx context.Context, in CreateInput) (domain.Appointment, error) {
	if in.PatientID == "" {
		return domain.Appointment{}, validationError("patient_id is required")
	}
	if in.ProfessionalID == "" {
		return domain.Appointment{}, validationError("professional_id is required")
	}

	slot := domain.Interval{Start: in.StartTime.UTC(), End: in.EndTime.UTC()}
	if err := slot.Validate(); err != nil {
		return domain.Appointment{}, validationError(err.Error())
	}
	if slot.Duration() > maxAppointmentDuration {
		return domain.Appointment{}, validationError("duration too long")
	}

	var out domain.Appointment
	err := s.repo.InProfessionalTransaction(ctx, in.ProfessionalID, func(ctx context.Context, tx store.BookingTx) error {
		conflicts, err := tx.FindConflicts(ctx, in.ProfessionalID, slot, uuid.Nil)
		if err != nil {
			return err
		}
		if len(conflicts) > 0 {
			return store.ErrConflict
		}

		// A previously cancelled appointment for the exact same slot is
		// revived instead of inserting a duplicate row, preserving the
		// appointment's identity and history across book/cancel/rebook
		// cycles.
		cancelled, found, err := tx.FindCancelled(ctx, in.PatientID, in.ProfessionalID, slot)
		if err != nil {
			return err
		}
		if found {
			cancelled.Status = domain.AppointmentStatusPending
			revived, err := tx.UpdateAppointment(ctx, cancelled)
			if err != nil {
				return err
			}
			out = revived
			return nil
		}

		created, err := tx.InsertAppointment(ctx, domain.Appointment{
			PatientID:      in.PatientID,
			ProfessionalID: in.ProfessionalID,
			StartTime:      slot.Start,
			EndTime:        slot.End,
			Status:         domain.AppointmentStatusPending,
		})
		if err != nil {
			return err
		}
		out = created
		return nil
	})
	if err != nil {
		return domain.Appointment{}, err
	}
	return out, nil
}

type RescheduleInput struct {
	AppointmentID uuid.UUID
	StartTime     *time.Time
	EndTime       *time.Time
	Status        *string
}

// Reschedule applies a partial update. When the time changes, the conflict
// check runs against the new interval with the appointment's own ID excluded.
// Status transitions are not restricted here beyond enum membership; workflow
// rules belong to the calling layer.
func (s *Service) Reschedule(ctx context.Context, in RescheduleInput) (domain.Appointment, error) {
	if in.AppointmentID == uuid.Nil {
		return domain.Appointment{}, validationError("appointment_id is required")
	}

	var status domain.AppointmentStatus
	if in.Status != nil {
		parsed, err := domain.ParseAppointmentStatus(*in.Status)
		if err != nil {
			return domain.Appointment{}, validationError(err.Error())
		}
		status = parsed
	}

	appt, err := s.repo.Get(ctx, in.AppointmentID)
	if err != nil {
		return domain.Appointment{}, err
	}

	var out domain.Appointment
	err = s.repo.InProfessionalTransaction(ctx, appt.ProfessionalID, func(ctx context.Context, tx store.BookingTx) error {
		current, err := tx.GetAppointment(ctx, in.AppointmentID)
		if err != nil {
			return err
		}

		slot := current.Slot()
		timeChanged := false
		if in.StartTime != nil {
			slot.Start = in.StartTime.UTC()
			timeChanged = true
		}
		if in.EndTime != nil {
			slot.End = in.EndTime.UTC()
			timeChanged = true
		}
		if timeChanged {
			if err := slot.Validate(); err != nil {
				return validationError(err.Error())
			}
			if slot.Duration() > maxAppointmentDuration {
				return validationError("duration too long")
			}
			conflicts, err := tx.FindConflicts(ctx, current.ProfessionalID, slot, current.ID)
			if err != nil {
				return err
			}
			if len(conflicts) > 0 {
				return store.ErrConflict
			}
			current.StartTime = slot.Start
			current.EndTime = slot.End
		}
		if in.Status != nil {
			current.Status = status
		}

		updated, err := tx.UpdateAppointment(ctx, current)
		if err != nil {
			return err
		}
		out = updated
		return nil
	})
	if err != nil {
		return domain.Appointment{}, err
	}
	return out, nil
}

// Cancel flips the appointment to cancelled. The row is kept so the slot can
// be revived later by Create.
func (s *Service) Cancel(ctx context.Context, appointmentID uuid.UUID) (domain.Appointment, error) {
	status := string(domain.AppointmentStatusCancelled)
	return s.Reschedule(ctx, RescheduleInput{AppointmentID: appointmentID, Status: &status})
}

func (s *Service) Complete(ctx context.Context, appointmentID uuid.UUID) (domain.Appointment, error) {
	status := string(domain.AppointmentStatusCompleted)
	return s.Reschedule(ctx, RescheduleInput{AppointmentID: appointmentID, Status: &status})
}

// Delete removes the appointment row for good. No conflict check is needed
// since removal can never create one.
func (s *Service) Delete(ctx context.Context, appointmentID uuid.UUID) error {
	if appointmentID == uuid.Nil {
		return validationError("appointment_id is required")
	}

	appt, err := s.repo.Get(ctx, appointmentID)
	if err != nil {
		return err
	}

	return s.repo.InProfessionalTransaction(ctx, appt.ProfessionalID, func(ctx context.Context, tx store.BookingTx) error {
		return tx.DeleteAppointment(ctx, appointmentID)
	})
}

func (s *Service) Get(ctx context.Context, appointmentID uuid.UUID) (domain.Appointment, error) {
	if appointmentID == uuid.Nil {
		return domain.Appointment{}, validationError("appointment_id is required")
	}
	return s.repo.Get(ctx, appointmentID)
}

func (s *Service) ListByPatient(ctx context.Context, patientID string, limit, offset int) ([]domain.Appointment, error) {
	if patientID == "" {
		return nil, validationError("patient_id is required")
	}
	limit, offset = clampPage(limit, offset)
	return s.repo.ListByPatient(ctx, patientID, limit, offset)
}

func (s *Service) ListByProfessional(ctx context.Context, professionalID string, limit, offset int) ([]domain.Appointment, error) {
	if professionalID == "" {
		return nil, validationError("professional_id is required")
	}
	limit, offset = clampPage(limit, offset)
	return s.repo.ListByProfessional(ctx, professionalID, limit, offset)
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
