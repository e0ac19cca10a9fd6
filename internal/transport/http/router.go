package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"consulta/backend/internal/domain"
	"consulta/backend/internal/service/availability"
	"consulta/backend/internal/service/booking"
	"consulta/backend/internal/service/reviews"
)

type bookingService interface {
	Create(ctx context.Context, in booking.CreateInput) (domain.Appointment, error)
	Reschedule(ctx context.Context, in booking.RescheduleInput) (domain.Appointment, error)
	Cancel(ctx context.Context, appointmentID uuid.UUID) (domain.Appointment, error)
	Complete(ctx context.Context, appointmentID uuid.UUID) (domain.Appointment, error)
	Delete(ctx context.Context, appointmentID uuid.UUID) error
	Get(ctx context.Context, appointmentID uuid.UUID) (domain.Appointment, error)
	ListByPatient(ctx context.Context, patientID string, limit, offset int) ([]domain.Appointment, error)
	ListByProfessional(ctx context.Context, professionalID string, limit, offset int) ([]domain.Appointment, error)
}

type availabilityService interface {
	ComputeAvailableSlots(ctx context.Context, professionalID string, day time.Time, slotDuration time.Duration) (availability.Result, error)
}

type reviewService interface {
	Create(ctx context.Context, in reviews.CreateInput) (domain.Review, error)
	Update(ctx context.Context, in reviews.UpdateInput) (domain.Review, error)
	Delete(ctx context.Context, reviewID uuid.UUID, patientID string) error
	Get(ctx context.Context, reviewID uuid.UUID) (domain.Review, error)
	GetByAppointment(ctx context.Context, appointmentID uuid.UUID) (domain.Review, error)
	ListByProfessional(ctx context.Context, professionalID string, limit, offset int) ([]domain.Review, error)
	ListByPatient(ctx context.Context, patientID string, limit, offset int) ([]domain.Review, error)
	Summary(ctx context.Context, professionalID string) (domain.RatingSummary, error)
}

type RouterConfig struct {
	Bookings     bookingService
	Availability availabilityService
	Reviews      reviewService
	DB           *bun.DB
	Log          *slog.Logger
	Env          string
	Version      string
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(RequestIDMiddleware)
	r.Use(NewLoggingMiddleware(cfg.Log))

	health := NewHealthHandler(cfg.DB, cfg.Env, cfg.Version)
	r.Get("/health/live", health.Liveness)
	r.Get("/health/ready", health.Readiness)

	bookings := NewBookingHandler(cfg.Bookings, cfg.Log)
	r.Post("/appointments", bookings.Create)
	r.Get("/appointments", bookings.List)
	r.Get("/appointments/{id}", bookings.Get)
	r.Patch("/appointments/{id}", bookings.Reschedule)
	r.Delete("/appointments/{id}", bookings.Delete)
	r.Post("/appointments/{id}/cancel", bookings.Cancel)
	r.Post("/appointments/{id}/complete", bookings.Complete)

	avail := NewAvailabilityHandler(cfg.Availability, cfg.Log)
	r.Get("/professionals/{id}/available-slots", avail.AvailableSlots)

	revs := NewReviewHandler(cfg.Reviews, cfg.Log)
	r.Post("/reviews", revs.Create)
	r.Get("/reviews/{id}", revs.Get)
	r.Patch("/reviews/{id}", revs.Update)
	r.Delete("/reviews/{id}", revs.Delete)
	r.Get("/appointments/{id}/review", revs.ByAppointment)
	r.Get("/professionals/{id}/reviews", revs.List)
	r.Get("/patients/{id}/reviews", revs.ListByPatient)
	r.Get("/professionals/{id}/rating", revs.Summary)

	return r
}
