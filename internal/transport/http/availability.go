package http

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"consulta/backend/internal/service/availability"
	"consulta/backend/internal/store"
)

const defaultSlotMinutes = 60

type AvailabilityHandler struct {
	svc availabilityService
	log *slog.Logger
}

func NewAvailabilityHandler(svc availabilityService, log *slog.Logger) *AvailabilityHandler {
	if log == nil {
		log = slog.Default()
	}
	return &AvailabilityHandler{
		svc: svc,
		log: log.With(slog.String("component", "http.availability")),
	}
}

func (h *AvailabilityHandler) AvailableSlots(w http.ResponseWriter, r *http.Request) {
	professionalID := chi.URLParam(r, "id")

	day, err := time.Parse("2006-01-02", r.URL.Query().Get("date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_date", "date must be formatted YYYY-MM-DD")
		return
	}
	minutes := queryInt(r, "duration_minutes", defaultSlotMinutes)

	result, err := h.svc.ComputeAvailableSlots(r.Context(), professionalID, day, time.Duration(minutes)*time.Minute)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	resp := AvailableSlotsResponse{Slots: make([]SlotResponse, 0, len(result.Slots))}
	for _, slot := range result.Slots {
		resp.Slots = append(resp.Slots, SlotResponse{StartTime: slot.Start, EndTime: slot.End})
	}
	if result.UnavailableReason != "" {
		reason := result.UnavailableReason
		resp.UnavailableReason = &reason
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *AvailabilityHandler) handleError(w http.ResponseWriter, r *http.Request, err error) {
	var vErr *availability.ValidationError
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "professional_not_found", "professional profile not found")
	case errors.As(err, &vErr):
		writeError(w, http.StatusBadRequest, "invalid_request", vErr.Error())
	default:
		h.log.Error("availability request failed", slog.Any("err", err), slog.String("request_id", RequestID(r.Context())))
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
	}
}
