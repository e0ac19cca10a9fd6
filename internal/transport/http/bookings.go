package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"consulta/backend/internal/domain"
	"consulta/backend/internal/service/booking"
	"consulta/backend/internal/store"
)

type BookingHandler struct {
	svc bookingService
	log *slog.Logger
}

func NewBookingHandler(svc bookingService, log *slog.Logger) *BookingHandler {
	if log == nil {
		log = slog.Default()
	}
	return &BookingHandler{
		svc: svc,
		log: log.With(slog.String("component", "http.bookings")),
	}
}

func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
		return
	}

	appt, err := h.svc.Create(r.Context(), booking.CreateInput{
		PatientID:      req.PatientID,
		ProfessionalID: req.ProfessionalID,
		StartTime:      req.StartTime,
		EndTime:        req.EndTime,
	})
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	h.log.Info(
		"appointment created",
		slog.String("appointment_id", appt.ID.String()),
		slog.String("patient_id", appt.PatientID),
		slog.String("professional_id", appt.ProfessionalID),
		slog.Time("start_time", appt.StartTime),
		slog.Time("end_time", appt.EndTime),
	)
	writeJSON(w, http.StatusCreated, toAppointmentResponse(appt))
}

func (h *BookingHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := appointmentID(w, r)
	if !ok {
		return
	}
	appt, err := h.svc.Get(r.Context(), id)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toAppointmentResponse(appt))
}

func (h *BookingHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 0)
	offset := queryInt(r, "offset", 0)

	patientID := r.URL.Query().Get("patient_id")
	professionalID := r.URL.Query().Get("professional_id")

	var (
		appts []domain.Appointment
		err   error
	)
	switch {
	case patientID != "":
		appts, err = h.svc.ListByPatient(r.Context(), patientID, limit, offset)
	case professionalID != "":
		appts, err = h.svc.ListByProfessional(r.Context(), professionalID, limit, offset)
	default:
		writeError(w, http.StatusBadRequest, "missing_filter", "patient_id or professional_id is required")
		return
	}
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	out := make([]AppointmentResponse, 0, len(appts))
	for _, a := range appts {
		out = append(out, toAppointmentResponse(a))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *BookingHandler) Reschedule(w http.ResponseWriter, r *http.Request) {
	id, ok := appointmentID(w, r)
	if !ok {
		return
	}

	var req RescheduleAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
		return
	}

	appt, err := h.svc.Reschedule(r.Context(), booking.RescheduleInput{
		AppointmentID: id,
		StartTime:     req.StartTime,
		EndTime:       req.EndTime,
		Status:        req.Status,
	})
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	h.log.Info(
		"appointment rescheduled",
		slog.String("appointment_id", appt.ID.String()),
		slog.String("status", string(appt.Status)),
	)
	writeJSON(w, http.StatusOK, toAppointmentResponse(appt))
}

func (h *BookingHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	id, ok := appointmentID(w, r)
	if !ok {
		return
	}
	appt, err := h.svc.Cancel(r.Context(), id)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	h.log.Info("appointment cancelled", slog.String("appointment_id", appt.ID.String()))
	writeJSON(w, http.StatusOK, toAppointmentResponse(appt))
}

func (h *BookingHandler) Complete(w http.ResponseWriter, r *http.Request) {
	id, ok := appointmentID(w, r)
	if !ok {
		return
	}
	appt, err := h.svc.Complete(r.Context(), id)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	h.log.Info("appointment completed", slog.String("appointment_id", appt.ID.String()))
	writeJSON(w, http.StatusOK, toAppointmentResponse(appt))
}

func (h *BookingHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := appointmentID(w, r)
	if !ok {
		return
	}
	if err := h.svc.Delete(r.Context(), id); err != nil {
		h.handleError(w, r, err)
		return
	}
	h.log.Info("appointment deleted", slog.String("appointment_id", id.String()))
	w.WriteHeader(http.StatusNoContent)
}

func (h *BookingHandler) handleError(w http.ResponseWriter, r *http.Request, err error) {
	var vErr *booking.ValidationError
	switch {
	case errors.Is(err, store.ErrConflict):
		writeError(w, http.StatusConflict, "slot_conflict", "the requested time slot overlaps an existing booking")
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "appointment_not_found", "appointment not found")
	case errors.As(err, &vErr):
		writeError(w, http.StatusBadRequest, "invalid_request", vErr.Error())
	default:
		h.log.Error("booking request failed", slog.Any("err", err), slog.String("request_id", RequestID(r.Context())))
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
	}
}

func appointmentID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_appointment_id", "id must be a valid UUID")
		return uuid.Nil, false
	}
	return id, true
}

func queryInt(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}
