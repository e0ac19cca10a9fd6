package http

import (
	"time"

	"github.com/google/uuid"

	"consulta/backend/internal/domain"
)

type CreateAppointmentRequest struct {
	PatientID      string    `json:"patient_id"`
	ProfessionalID string    `json:"professional_id"`
	StartTime      time.Time `json:"start_time"`
	EndTime        time.Time `json:"end_time"`
}

type RescheduleAppointmentRequest struct {
	StartTime *time.Time `json:"start_time,omitempty"`
	EndTime   *time.Time `json:"end_time,omitempty"`
	Status    *string    `json:"status,omitempty"`
}

type AppointmentResponse struct {
	ID             uuid.UUID `json:"id"`
	PatientID      string    `json:"patient_id"`
	ProfessionalID string    `json:"professional_id"`
	StartTime      time.Time `json:"start_time"`
	EndTime        time.Time `json:"end_time"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func toAppointmentResponse(a domain.Appointment) AppointmentResponse {
	return AppointmentResponse{
		ID:             a.ID,
		PatientID:      a.PatientID,
		ProfessionalID: a.ProfessionalID,
		StartTime:      a.StartTime,
		EndTime:        a.EndTime,
		Status:         string(a.Status),
		CreatedAt:      a.CreatedAt,
		UpdatedAt:      a.UpdatedAt,
	}
}

type SlotResponse struct {
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
}

type AvailableSlotsResponse struct {
	Slots             []SlotResponse `json:"slots"`
	UnavailableReason *string        `json:"unavailable_reason"`
}

type CreateReviewRequest struct {
	AppointmentID string  `json:"appointment_id"`
	PatientID     string  `json:"patient_id"`
	Rating        float64 `json:"rating"`
	Comment       string  `json:"comment,omitempty"`
	Anonymous     bool    `json:"is_anonymous,omitempty"`
}

type UpdateReviewRequest struct {
	PatientID string   `json:"patient_id"`
	Rating    *float64 `json:"rating,omitempty"`
	Comment   *string  `json:"comment,omitempty"`
	Anonymous *bool    `json:"is_anonymous,omitempty"`
}

type ReviewResponse struct {
	ID             uuid.UUID `json:"id"`
	AppointmentID  uuid.UUID `json:"appointment_id"`
	PatientID      string    `json:"patient_id,omitempty"`
	ProfessionalID string    `json:"professional_id"`
	Rating         float64   `json:"rating"`
	Comment        string    `json:"comment,omitempty"`
	Anonymous      bool      `json:"is_anonymous"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func toReviewResponse(r domain.Review) ReviewResponse {
	resp := ReviewResponse{
		ID:             r.ID,
		AppointmentID:  r.AppointmentID,
		PatientID:      r.PatientID,
		ProfessionalID: r.ProfessionalID,
		Rating:         r.Rating,
		Comment:        r.Comment,
		Anonymous:      r.Anonymous,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
	if r.Anonymous {
		resp.PatientID = ""
	}
	return resp
}

type RatingBucketResponse struct {
	Stars int `json:"stars"`
	Count int `json:"count"`
}

type RatingSummaryResponse struct {
	AverageRating float64                `json:"average_rating"`
	NumReviews    int                    `json:"num_reviews"`
	Distribution  []RatingBucketResponse `json:"distribution"`
}

func toRatingSummaryResponse(s domain.RatingSummary) RatingSummaryResponse {
	dist := make([]RatingBucketResponse, 0, len(s.Distribution))
	for _, b := range s.Distribution {
		dist = append(dist, RatingBucketResponse{Stars: b.Stars, Count: b.Count})
	}
	return RatingSummaryResponse{
		AverageRating: s.AverageRating,
		NumReviews:    s.NumReviews,
		Distribution:  dist,
	}
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
