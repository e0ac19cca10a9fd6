package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"consulta/backend/internal/domain"
	"consulta/backend/internal/service/availability"
	"consulta/backend/internal/service/booking"
	"consulta/backend/internal/service/reviews"
	"consulta/backend/internal/store"
)

type fakeBookingService struct {
	createFn             func(ctx context.Context, in booking.CreateInput) (domain.Appointment, error)
	rescheduleFn         func(ctx context.Context, in booking.RescheduleInput) (domain.Appointment, error)
	cancelFn             func(ctx context.Context, id uuid.UUID) (domain.Appointment, error)
	completeFn           func(ctx context.Context, id uuid.UUID) (domain.Appointment, error)
	deleteFn             func(ctx context.Context, id uuid.UUID) error
	getFn                func(ctx context.Context, id uuid.UUID) (domain.Appointment, error)
	listByPatientFn      func(ctx context.Context, patientID string, limit, offset int) ([]domain.Appointment, error)
	listByProfessionalFn func(ctx context.Context, professionalID string, limit, offset int) ([]domain.Appointment, error)
}

func (f *fakeBookingService) Create(ctx context.Context, in booking.CreateInput) (domain.Appointment, error) {
	if f.createFn == nil {
		panic("Create not configured")
	}
	return f.createFn(ctx, in)
}

func (f *fakeBookingService) Reschedule(ctx context.Context, in booking.RescheduleInput) (domain.Appointment, error) {
	if f.rescheduleFn == nil {
		panic("Reschedule not configured")
	}
	return f.rescheduleFn(ctx, in)
}

func (f *fakeBookingService) Cancel(ctx context.Context, id uuid.UUID) (domain.Appointment, error) {
	if f.cancelFn == nil {
		panic("Cancel not configured")
	}
	return f.cancelFn(ctx, id)
}

func (f *fakeBookingService) Complete(ctx context.Context, id uuid.UUID) (domain.Appointment, error) {
	if f.completeFn == nil {
		panic("Complete not configured")
	}
	return f.completeFn(ctx, id)
}

func (f *fakeBookingService) Delete(ctx context.Context, id uuid.UUID) error {
	if f.deleteFn == nil {
		panic("Delete not configured")
	}
	return f.deleteFn(ctx, id)
}

func (f *fakeBookingService) Get(ctx context.Context, id uuid.UUID) (domain.Appointment, error) {
	if f.getFn == nil {
		panic("Get not configured")
	}
	return f.getFn(ctx, id)
}

func (f *fakeBookingService) ListByPatient(ctx context.Context, patientID string, limit, offset int) ([]domain.Appointment, error) {
	if f.listByPatientFn == nil {
		panic("ListByPatient not configured")
	}
	return f.listByPatientFn(ctx, patientID, limit, offset)
}

func (f *fakeBookingService) ListByProfessional(ctx context.Context, professionalID string, limit, offset int) ([]domain.Appointment, error) {
	if f.listByProfessionalFn == nil {
		panic("ListByProfessional not configured")
	}
	return f.listByProfessionalFn(ctx, professionalID, limit, offset)
}

type fakeAvailabilityService struct {
	computeFn func(ctx context.Context, professionalID string, day time.Time, slotDuration time.Duration) (availability.Result, error)
}

func (f *fakeAvailabilityService) ComputeAvailableSlots(ctx context.Context, professionalID string, day time.Time, slotDuration time.Duration) (availability.Result, error) {
	if f.computeFn == nil {
		panic("ComputeAvailableSlots not configured")
	}
	return f.computeFn(ctx, professionalID, day, slotDuration)
}

type fakeReviewService struct {
	createFn             func(ctx context.Context, in reviews.CreateInput) (domain.Review, error)
	updateFn             func(ctx context.Context, in reviews.UpdateInput) (domain.Review, error)
	deleteFn             func(ctx context.Context, reviewID uuid.UUID, patientID string) error
	getFn                func(ctx context.Context, reviewID uuid.UUID) (domain.Review, error)
	getByAppointmentFn   func(ctx context.Context, appointmentID uuid.UUID) (domain.Review, error)
	listByProfessionalFn func(ctx context.Context, professionalID string, limit, offset int) ([]domain.Review, error)
	listByPatientFn      func(ctx context.Context, patientID string, limit, offset int) ([]domain.Review, error)
	summaryFn            func(ctx context.Context, professionalID string) (domain.RatingSummary, error)
}

func (f *fakeReviewService) Create(ctx context.Context, in reviews.CreateInput) (domain.Review, error) {
	if f.createFn == nil {
		panic("Create not configured")
	}
	return f.createFn(ctx, in)
}

func (f *fakeReviewService) Update(ctx context.Context, in reviews.UpdateInput) (domain.Review, error) {
	if f.updateFn == nil {
		panic("Update not configured")
	}
	return f.updateFn(ctx, in)
}

func (f *fakeReviewService) Delete(ctx context.Context, reviewID uuid.UUID, patientID string) error {
	if f.deleteFn == nil {
		panic("Delete not configured")
	}
	return f.deleteFn(ctx, reviewID, patientID)
}

func (f *fakeReviewService) Get(ctx context.Context, reviewID uuid.UUID) (domain.Review, error) {
	if f.getFn == nil {
		panic("Get not configured")
	}
	return f.getFn(ctx, reviewID)
}

func (f *fakeReviewService) GetByAppointment(ctx context.Context, appointmentID uuid.UUID) (domain.Review, error) {
	if f.getByAppointmentFn == nil {
		panic("GetByAppointment not configured")
	}
	return f.getByAppointmentFn(ctx, appointmentID)
}

func (f *fakeReviewService) ListByProfessional(ctx context.Context, professionalID string, limit, offset int) ([]domain.Review, error) {
	if f.listByProfessionalFn == nil {
		panic("ListByProfessional not configured")
	}
	return f.listByProfessionalFn(ctx, professionalID, limit, offset)
}

func (f *fakeReviewService) ListByPatient(ctx context.Context, patientID string, limit, offset int) ([]domain.Review, error) {
	if f.listByPatientFn == nil {
		panic("ListByPatient not configured")
	}
	return f.listByPatientFn(ctx, patientID, limit, offset)
}

func (f *fakeReviewService) Summary(ctx context.Context, professionalID string) (domain.RatingSummary, error) {
	if f.summaryFn == nil {
		panic("Summary not configured")
	}
	return f.summaryFn(ctx, professionalID)
}

func newTestRouter(b bookingService, a availabilityService, rv reviewService) http.Handler {
	return NewRouter(RouterConfig{
		Bookings:     b,
		Availability: a,
		Reviews:      rv,
		Env:          "test",
		Version:      "test",
	})
}

func doRequest(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func sampleAppointment() domain.Appointment {
	return domain.Appointment{
		ID:             uuid.MustParse("00000000-0000-0000-0000-000000000020"),
		PatientID:      "pat-1",
		ProfessionalID: "pro-1",
		StartTime:      time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC),
		EndTime:        time.Date(2026, 3, 2, 11, 0, 0, 0, time.UTC),
		Status:         domain.AppointmentStatusPending,
	}
}

func TestCreateAppointment_Created(t *testing.T) {
	var got booking.CreateInput
	h := newTestRouter(&fakeBookingService{
		createFn: func(ctx context.Context, in booking.CreateInput) (domain.Appointment, error) {
			got = in
			return sampleAppointment(), nil
		},
	}, &fakeAvailabilityService{}, &fakeReviewService{})

	body := `{"patient_id":"pat-1","professional_id":"pro-1","start_time":"2026-03-02T10:00:00Z","end_time":"2026-03-02T11:00:00Z"}`
	rec := doRequest(t, h, http.MethodPost, "/appointments", body)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
	}
	if got.PatientID != "pat-1" || got.ProfessionalID != "pro-1" {
		t.Fatalf("input = %+v", got)
	}

	var resp AppointmentResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Status != "pending" {
		t.Fatalf("status = %q, want pending", resp.Status)
	}
}

func TestCreateAppointment_ConflictMapsTo409(t *testing.T) {
	h := newTestRouter(&fakeBookingService{
		createFn: func(ctx context.Context, in booking.CreateInput) (domain.Appointment, error) {
			return domain.Appointment{}, store.ErrConflict
		},
	}, &fakeAvailabilityService{}, &fakeReviewService{})

	body := `{"patient_id":"pat-1","professional_id":"pro-1","start_time":"2026-03-02T10:00:00Z","end_time":"2026-03-02T11:00:00Z"}`
	rec := doRequest(t, h, http.MethodPost, "/appointments", body)

	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}
	var resp ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Error != "slot_conflict" {
		t.Fatalf("error = %q, want slot_conflict", resp.Error)
	}
}

func TestCreateAppointment_MalformedBody(t *testing.T) {
	h := newTestRouter(&fakeBookingService{}, &fakeAvailabilityService{}, &fakeReviewService{})

	rec := doRequest(t, h, http.MethodPost, "/appointments", "{not json")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestGetAppointment_NotFound(t *testing.T) {
	h := newTestRouter(&fakeBookingService{
		getFn: func(ctx context.Context, id uuid.UUID) (domain.Appointment, error) {
			return domain.Appointment{}, store.ErrNotFound
		},
	}, &fakeAvailabilityService{}, &fakeReviewService{})

	rec := doRequest(t, h, http.MethodGet, "/appointments/00000000-0000-0000-0000-000000000020", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestGetAppointment_BadID(t *testing.T) {
	h := newTestRouter(&fakeBookingService{}, &fakeAvailabilityService{}, &fakeReviewService{})

	rec := doRequest(t, h, http.MethodGet, "/appointments/not-a-uuid", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestListAppointments_RequiresFilter(t *testing.T) {
	h := newTestRouter(&fakeBookingService{}, &fakeAvailabilityService{}, &fakeReviewService{})

	rec := doRequest(t, h, http.MethodGet, "/appointments", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	var resp ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Error != "missing_filter" {
		t.Fatalf("error = %q, want missing_filter", resp.Error)
	}
}

func TestListAppointments_ByPatientPassesPaging(t *testing.T) {
	var gotLimit, gotOffset int
	h := newTestRouter(&fakeBookingService{
		listByPatientFn: func(ctx context.Context, patientID string, limit, offset int) ([]domain.Appointment, error) {
			gotLimit, gotOffset = limit, offset
			return []domain.Appointment{sampleAppointment()}, nil
		},
	}, &fakeAvailabilityService{}, &fakeReviewService{})

	rec := doRequest(t, h, http.MethodGet, "/appointments?patient_id=pat-1&limit=5&offset=10", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if gotLimit != 5 || gotOffset != 10 {
		t.Fatalf("limit/offset = %d/%d, want 5/10", gotLimit, gotOffset)
	}
}

func TestRescheduleAppointment_PartialBody(t *testing.T) {
	var got booking.RescheduleInput
	h := newTestRouter(&fakeBookingService{
		rescheduleFn: func(ctx context.Context, in booking.RescheduleInput) (domain.Appointment, error) {
			got = in
			return sampleAppointment(), nil
		},
	}, &fakeAvailabilityService{}, &fakeReviewService{})

	rec := doRequest(t, h, http.MethodPatch,
		"/appointments/00000000-0000-0000-0000-000000000020",
		`{"status":"confirmed"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	if got.StartTime != nil || got.EndTime != nil {
		t.Fatalf("times must stay nil for a status-only patch")
	}
	if got.Status == nil || *got.Status != "confirmed" {
		t.Fatalf("status = %v, want confirmed", got.Status)
	}
}

func TestCancelAppointment_OK(t *testing.T) {
	var gotID uuid.UUID
	h := newTestRouter(&fakeBookingService{
		cancelFn: func(ctx context.Context, id uuid.UUID) (domain.Appointment, error) {
			gotID = id
			a := sampleAppointment()
			a.Status = domain.AppointmentStatusCancelled
			return a, nil
		},
	}, &fakeAvailabilityService{}, &fakeReviewService{})

	rec := doRequest(t, h, http.MethodPost,
		"/appointments/00000000-0000-0000-0000-000000000020/cancel", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if gotID != uuid.MustParse("00000000-0000-0000-0000-000000000020") {
		t.Fatalf("id = %s", gotID)
	}
}

func TestDeleteAppointment_NoContent(t *testing.T) {
	h := newTestRouter(&fakeBookingService{
		deleteFn: func(ctx context.Context, id uuid.UUID) error {
			return nil
		},
	}, &fakeAvailabilityService{}, &fakeReviewService{})

	rec := doRequest(t, h, http.MethodDelete,
		"/appointments/00000000-0000-0000-0000-000000000020", "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rec.Code)
	}
}

func TestAvailableSlots_ReturnsSlots(t *testing.T) {
	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	h := newTestRouter(&fakeBookingService{}, &fakeAvailabilityService{
		computeFn: func(ctx context.Context, professionalID string, day time.Time, slotDuration time.Duration) (availability.Result, error) {
			if professionalID != "pro-1" {
				t.Fatalf("professional = %q", professionalID)
			}
			if slotDuration != 30*time.Minute {
				t.Fatalf("duration = %v, want 30m", slotDuration)
			}
			return availability.Result{Slots: []domain.Interval{
				{Start: start, End: start.Add(30 * time.Minute)},
			}}, nil
		},
	}, &fakeReviewService{})

	rec := doRequest(t, h, http.MethodGet,
		"/professionals/pro-1/available-slots?date=2026-03-02&duration_minutes=30", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	var resp AvailableSlotsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Slots) != 1 {
		t.Fatalf("len(slots) = %d, want 1", len(resp.Slots))
	}
	if resp.UnavailableReason != nil {
		t.Fatalf("unavailable_reason = %q, want null", *resp.UnavailableReason)
	}
}

func TestAvailableSlots_ReasonSerialized(t *testing.T) {
	h := newTestRouter(&fakeBookingService{}, &fakeAvailabilityService{
		computeFn: func(ctx context.Context, professionalID string, day time.Time, slotDuration time.Duration) (availability.Result, error) {
			return availability.Result{UnavailableReason: availability.ReasonDateUnavailable}, nil
		},
	}, &fakeReviewService{})

	rec := doRequest(t, h, http.MethodGet,
		"/professionals/pro-1/available-slots?date=2026-03-02", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp AvailableSlotsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Slots) != 0 {
		t.Fatalf("expected no slots")
	}
	if resp.UnavailableReason == nil || *resp.UnavailableReason != availability.ReasonDateUnavailable {
		t.Fatalf("unavailable_reason = %v", resp.UnavailableReason)
	}
}

func TestAvailableSlots_BadDate(t *testing.T) {
	h := newTestRouter(&fakeBookingService{}, &fakeAvailabilityService{}, &fakeReviewService{})

	rec := doRequest(t, h, http.MethodGet,
		"/professionals/pro-1/available-slots?date=03-02-2026", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestCreateReview_Created(t *testing.T) {
	h := newTestRouter(&fakeBookingService{}, &fakeAvailabilityService{}, &fakeReviewService{
		createFn: func(ctx context.Context, in reviews.CreateInput) (domain.Review, error) {
			return domain.Review{
				ID:             uuid.MustParse("00000000-0000-0000-0000-000000000021"),
				AppointmentID:  in.AppointmentID,
				PatientID:      in.PatientID,
				ProfessionalID: "pro-1",
				Rating:         in.Rating,
			}, nil
		},
	})

	body := `{"appointment_id":"00000000-0000-0000-0000-000000000020","patient_id":"pat-1","rating":4.5}`
	rec := doRequest(t, h, http.MethodPost, "/reviews", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
	}
}

func TestCreateReview_ForbiddenMapsTo403(t *testing.T) {
	h := newTestRouter(&fakeBookingService{}, &fakeAvailabilityService{}, &fakeReviewService{
		createFn: func(ctx context.Context, in reviews.CreateInput) (domain.Review, error) {
			return domain.Review{}, store.ErrForbidden
		},
	})

	body := `{"appointment_id":"00000000-0000-0000-0000-000000000020","patient_id":"pat-2","rating":4.5}`
	rec := doRequest(t, h, http.MethodPost, "/reviews", body)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
}

func TestCreateReview_DuplicateMapsTo409(t *testing.T) {
	h := newTestRouter(&fakeBookingService{}, &fakeAvailabilityService{}, &fakeReviewService{
		createFn: func(ctx context.Context, in reviews.CreateInput) (domain.Review, error) {
			return domain.Review{}, store.ErrConflict
		},
	})

	body := `{"appointment_id":"00000000-0000-0000-0000-000000000020","patient_id":"pat-1","rating":4.5}`
	rec := doRequest(t, h, http.MethodPost, "/reviews", body)
	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}
	var resp ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Error != "review_exists" {
		t.Fatalf("error = %q, want review_exists", resp.Error)
	}
}

func TestReviewResponse_AnonymousHidesPatient(t *testing.T) {
	h := newTestRouter(&fakeBookingService{}, &fakeAvailabilityService{}, &fakeReviewService{
		listByProfessionalFn: func(ctx context.Context, professionalID string, limit, offset int) ([]domain.Review, error) {
			return []domain.Review{
				{
					ID:             uuid.MustParse("00000000-0000-0000-0000-000000000022"),
					PatientID:      "pat-1",
					ProfessionalID: professionalID,
					Rating:         5.0,
					Anonymous:      true,
				},
			}, nil
		},
	})

	rec := doRequest(t, h, http.MethodGet, "/professionals/pro-1/reviews", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "pat-1") {
		t.Fatalf("anonymous review leaked patient id: %s", rec.Body.String())
	}
}

func TestRatingSummary_Serialized(t *testing.T) {
	h := newTestRouter(&fakeBookingService{}, &fakeAvailabilityService{}, &fakeReviewService{
		summaryFn: func(ctx context.Context, professionalID string) (domain.RatingSummary, error) {
			return domain.SummarizeRatings([]float64{4.9, 5.0}), nil
		},
	})

	rec := doRequest(t, h, http.MethodGet, "/professionals/pro-1/rating", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp RatingSummaryResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.NumReviews != 2 {
		t.Fatalf("num_reviews = %d, want 2", resp.NumReviews)
	}
	if len(resp.Distribution) != 5 || resp.Distribution[0].Stars != 5 {
		t.Fatalf("distribution = %+v", resp.Distribution)
	}
}

func TestHealthLiveness(t *testing.T) {
	h := newTestRouter(&fakeBookingService{}, &fakeAvailabilityService{}, &fakeReviewService{})

	rec := doRequest(t, h, http.MethodGet, "/health/live", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Fatalf("expected X-Request-ID header")
	}
}
