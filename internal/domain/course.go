package domain

import "time"

// CourseStatus enumerates lifecycle states for courses.
type CourseStatus string

const (
	CourseStatusActive   CourseStatus = "ACTIVE"
	CourseStatusInactive CourseStatus = "INACTIVE"
)

// Course is the catalog entry users enroll into.
type Course struct {
	ID          string
	Name        string
	Description string
	Status      CourseStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
