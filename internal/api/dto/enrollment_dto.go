package dto

import (
	"time"

	"github.com/spec-kit/course-service/internal/domain"
)

// EnrollmentCreateRequest payload for new enrollments.
type EnrollmentCreateRequest struct {
	UserID   string `json:"user_id"`
	CourseID string `json:"course_id"`
}

// EnrollmentUpdateRequest payload for full updates; nil fields are unchanged.
type EnrollmentUpdateRequest struct {
	UserID     *string    `json:"user_id"`
	CourseID   *string    `json:"course_id"`
	Status     *string    `json:"status"`
	EnrolledAt *time.Time `json:"enrolled_at"`
}

// EnrollmentStatusRequest payload for status transitions.
type EnrollmentStatusRequest struct {
	Status string `json:"status"`
}

// EnrollmentResponse is the serialized enrollment view.
type EnrollmentResponse struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	CourseID   string    `json:"course_id"`
	Status     string    `json:"status"`
	EnrolledAt time.Time `json:"enrolled_at"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// NewEnrollmentResponse maps a domain enrollment.
func NewEnrollmentResponse(enrollment *domain.Enrollment) EnrollmentResponse {
	return EnrollmentResponse{
		ID:         enrollment.ID,
		UserID:     enrollment.UserID,
		CourseID:   enrollment.CourseID,
		Status:     string(enrollment.Status),
		EnrolledAt: enrollment.EnrolledAt,
		CreatedAt:  enrollment.CreatedAt,
		UpdatedAt:  enrollment.UpdatedAt,
	}
}

// NewEnrollmentResponses maps a slice of enrollments.
func NewEnrollmentResponses(enrollments []domain.Enrollment) []EnrollmentResponse {
	out := make([]EnrollmentResponse, 0, len(enrollments))
	for i := range enrollments {
		out = append(out, NewEnrollmentResponse(&enrollments[i]))
	}
	return out
}
