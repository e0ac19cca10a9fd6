package availability

import (
	"context"
	"time"

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

// Reasons a date yields no slots before any slot walk happens. An empty
// reason with an empty slot list means the day is configured and worked but
// fully booked, which is a different answer.
const (
	ReasonNoConfiguredHours = "no configured hours"
	ReasonNotWorkingWeekday = "professional does not work this weekday"
	ReasonDateUnavailable   = "date marked unavailable"
)

const (
	minSlotDuration = 15 * time.Minute
	maxSlotDuration = 8 * time.Hour
)

type Result struct {
	Slots             []domain.Interval
	UnavailableReason string
}

type Service struct {
	schedules store.ScheduleRepository
	bookings  store.BookingRepository
}

func NewService(schedules store.ScheduleRepository, bookings store.BookingRepository) *Service {
	return &Service{schedules: schedules, bookings: bookings}
}

// ComputeAvailableSlots derives the bookable slots of a professional on one
// date. It is a side-effect-free read recomputed from the booking ledger on
// every call; a stale result is harmless because Create re-validates through
// the conflict check.
func (s *Service) ComputeAvailableSlots(ctx context.Context, professionalID string, day time.Time, slotDuration time.Duration) (Result, error) {
	if professionalID == "" {
		return Result{}, validationError("professional_id is required")
	}
	if slotDuration < minSlotDuration || slotDuration > maxSlotDuration {
		return Result{}, validationError("slot duration must be between 15 minutes and 8 hours")
	}

	profile, err := s.schedules.GetProfile(ctx, professionalID)
	if err != nil {
		return Result{}, err
	}

	if profile.StartHour == "" || profile.EndHour == "" {
		return Result{UnavailableReason: ReasonNoConfiguredHours}, nil
	}

	if worked := profile.WorkedWeekdays(); worked != nil {
		if _, ok := worked[domain.WeekdayName(day)]; !ok {
			return Result{UnavailableReason: ReasonNotWorkingWeekday}, nil
		}
	}

	if _, blacked, err := s.schedules.BlackoutOn(ctx, professionalID, day); err != nil {
		return Result{}, err
	} else if blacked {
		return Result{UnavailableReason: ReasonDateUnavailable}, nil
	}

	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)
	appts, err := s.bookings.ListByProfessionalRange(ctx, professionalID, dayStart, dayEnd)
	if err != nil {
		return Result{}, err
	}

	booked := make([]domain.Interval, 0, len(appts))
	for _, a := range appts {
		if a.Status == domain.AppointmentStatusCancelled {
			continue
		}
		booked = append(booked, a.Slot())
	}

	slots, err := domain.GenerateDaySlots(day, profile.StartHour, profile.EndHour, slotDuration, booked)
	if err != nil {
		return Result{}, validationError(err.Error())
	}

	return Result{Slots: slots}, nil
}
