package domain

import (
	"fmt"
	"time"
)

// EnrollmentStatus enumerates lifecycle states for enrollments.
type EnrollmentStatus string

const (
	EnrollmentStatusInProgress EnrollmentStatus = "IN_PROGRESS"
	EnrollmentStatusCompleted  EnrollmentStatus = "COMPLETED"
	EnrollmentStatusCancelled  EnrollmentStatus = "CANCELLED"
)

// ParseEnrollmentStatus validates a raw status value.
func ParseEnrollmentStatus(raw string) (EnrollmentStatus, error) {
	switch EnrollmentStatus(raw) {
	case EnrollmentStatusInProgress, EnrollmentStatusCompleted, EnrollmentStatusCancelled:
		return EnrollmentStatus(raw), nil
	}
	return "", fmt.Errorf("unknown enrollment status %q", raw)
}

// Enrollment associates a user with a course. At most one enrollment may
// exist per (user, course) pair at any time.
type Enrollment struct {
	ID         string
	UserID     string
	CourseID   string
	Status     EnrollmentStatus
	EnrolledAt time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
