package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"consulta/backend/internal/service/reviews"
	"consulta/backend/internal/store"
)

type ReviewHandler struct {
	svc reviewService
	log *slog.Logger
}

func NewReviewHandler(svc reviewService, log *slog.Logger) *ReviewHandler {
	if log == nil {
		log = slog.Default()
	}
	return &ReviewHandler{
		svc: svc,
		log: log.With(slog.String("component", "http.reviews")),
	}
}

func (h *ReviewHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
		return
	}

	appointmentID, err := uuid.Parse(req.AppointmentID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_appointment_id", "appointment_id must be a valid UUID")
		return
	}

	review, err := h.svc.Create(r.Context(), reviews.CreateInput{
		AppointmentID: appointmentID,
		PatientID:     req.PatientID,
		Rating:        req.Rating,
		Comment:       req.Comment,
		Anonymous:     req.Anonymous,
	})
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	h.log.Info(
		"review created",
		slog.String("review_id", review.ID.String()),
		slog.String("professional_id", review.ProfessionalID),
	)
	writeJSON(w, http.StatusCreated, toReviewResponse(review))
}

func (h *ReviewHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := reviewID(w, r)
	if !ok {
		return
	}

	var req UpdateReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
		return
	}

	review, err := h.svc.Update(r.Context(), reviews.UpdateInput{
		ReviewID:  id,
		PatientID: req.PatientID,
		Rating:    req.Rating,
		Comment:   req.Comment,
		Anonymous: req.Anonymous,
	})
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	h.log.Info("review updated", slog.String("review_id", review.ID.String()))
	writeJSON(w, http.StatusOK, toReviewResponse(review))
}

func (h *ReviewHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := reviewID(w, r)
	if !ok {
		return
	}
	patientID := r.URL.Query().Get("patient_id")

	if err := h.svc.Delete(r.Context(), id, patientID); err != nil {
		h.handleError(w, r, err)
		return
	}

	h.log.Info("review deleted", slog.String("review_id", id.String()))
	w.WriteHeader(http.StatusNoContent)
}

func (h *ReviewHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := reviewID(w, r)
	if !ok {
		return
	}
	review, err := h.svc.Get(r.Context(), id)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toReviewResponse(review))
}

func (h *ReviewHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 0)
	offset := queryInt(r, "offset", 0)

	professionalID := chi.URLParam(r, "id")
	rows, err := h.svc.ListByProfessional(r.Context(), professionalID, limit, offset)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	out := make([]ReviewResponse, 0, len(rows))
	for _, review := range rows {
		out = append(out, toReviewResponse(review))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *ReviewHandler) ListByPatient(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 0)
	offset := queryInt(r, "offset", 0)

	patientID := chi.URLParam(r, "id")
	rows, err := h.svc.ListByPatient(r.Context(), patientID, limit, offset)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	out := make([]ReviewResponse, 0, len(rows))
	for _, review := range rows {
		out = append(out, toReviewResponse(review))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *ReviewHandler) ByAppointment(w http.ResponseWriter, r *http.Request) {
	id, ok := appointmentID(w, r)
	if !ok {
		return
	}
	review, err := h.svc.GetByAppointment(r.Context(), id)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toReviewResponse(review))
}

func (h *ReviewHandler) Summary(w http.ResponseWriter, r *http.Request) {
	professionalID := chi.URLParam(r, "id")
	summary, err := h.svc.Summary(r.Context(), professionalID)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toRatingSummaryResponse(summary))
}

func (h *ReviewHandler) handleError(w http.ResponseWriter, r *http.Request, err error) {
	var vErr *reviews.ValidationError
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, store.ErrForbidden):
		writeError(w, http.StatusForbidden, "forbidden", "only the owning patient may do this")
	case errors.Is(err, store.ErrConflict):
		writeError(w, http.StatusConflict, "review_exists", "a review already exists for this appointment")
	case errors.As(err, &vErr):
		writeError(w, http.StatusBadRequest, "invalid_request", vErr.Error())
	default:
		h.log.Error("review request failed", slog.Any("err", err), slog.String("request_id", RequestID(r.Context())))
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
	}
}

func reviewID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_review_id", "id must be a valid UUID")
		return uuid.Nil, false
	}
	return id, true
}
