package events

import (
	"time"

	"github.com/spec-kit/course-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventUserRegistered          EventType = "user_registered"
	EventRoleGranted             EventType = "role_granted"
	EventRoleRevoked             EventType = "role_revoked"
	EventEnrollmentCreated       EventType = "enrollment_created"
	EventEnrollmentStatusChanged EventType = "enrollment_status_changed"
	EventEnrollmentDeleted       EventType = "enrollment_deleted"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	UserID    string      `json:"user_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// UserRegisteredPayload payload.
type UserRegisteredPayload struct {
	Email string             `json:"email"`
	Roles []domain.RoleLabel `json:"roles"`
}

// RoleChangedPayload payload for grants and revocations.
type RoleChangedPayload struct {
	Role domain.RoleLabel `json:"role"`
}

// EnrollmentCreatedPayload payload.
type EnrollmentCreatedPayload struct {
	EnrollmentID string `json:"enrollment_id"`
	CourseID     string `json:"course_id"`
}

// EnrollmentStatusChangedPayload payload.
type EnrollmentStatusChangedPayload struct {
	EnrollmentID string                  `json:"enrollment_id"`
	CourseID     string                  `json:"course_id"`
	OldStatus    domain.EnrollmentStatus `json:"old_status"`
	NewStatus    domain.EnrollmentStatus `json:"new_status"`
}

// EnrollmentDeletedPayload payload.
type EnrollmentDeletedPayload struct {
	EnrollmentID string `json:"enrollment_id"`
	CourseID     string `json:"course_id"`
}
