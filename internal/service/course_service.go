package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/course-service/internal/domain"
	"github.com/spec-kit/course-service/internal/repository"
	"github.com/spec-kit/course-service/pkg/util"
)

// CourseService coordinates catalog management.
type CourseService struct {
	courses repository.CourseRepository
}

// CourseInput describes course create/update payloads.
type CourseInput struct {
	Name        string
	Description string
	Status      string
}

// NewCourseService constructs the service.
func NewCourseService(courses repository.CourseRepository) *CourseService {
	return &CourseService{courses: courses}
}

// Create adds a catalog entry, defaulting to ACTIVE.
func (s *CourseService) Create(ctx context.Context, input CourseInput) (*domain.Course, error) {
	status, err := parseCourseStatus(input.Status, domain.CourseStatusActive)
	if err != nil {
		return nil, err
	}

	course := &domain.Course{
		Name:        input.Name,
		Description: input.Description,
		Status:      status,
	}
	if err := s.courses.Create(ctx, course); err != nil {
		return nil, err
	}
	return course, nil
}

// List returns the full catalog.
func (s *CourseService) List(ctx context.Context) ([]domain.Course, error) {
	return s.courses.List(ctx)
}

// Get returns a single course.
func (s *CourseService) Get(ctx context.Context, id string) (*domain.Course, error) {
	course, err := s.courses.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, util.NewNotFound("course", map[string]any{"id": id})
		}
		return nil, err
	}
	return course, nil
}

// Update replaces mutable course fields.
func (s *CourseService) Update(ctx context.Context, id string, input CourseInput) (*domain.Course, error) {
	course, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != "" {
		course.Name = input.Name
	}
	if input.Description != "" {
		course.Description = input.Description
	}
	if input.Status != "" {
		status, err := parseCourseStatus(input.Status, course.Status)
		if err != nil {
			return nil, err
		}
		course.Status = status
	}

	if err := s.courses.Update(ctx, course); err != nil {
		return nil, err
	}
	return course, nil
}

// Delete removes a course.
func (s *CourseService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.courses.Delete(ctx, id)
}

func parseCourseStatus(raw string, fallback domain.CourseStatus) (domain.CourseStatus, error) {
	if raw == "" {
		return fallback, nil
	}
	switch domain.CourseStatus(raw) {
	case domain.CourseStatusActive, domain.CourseStatusInactive:
		return domain.CourseStatus(raw), nil
	}
	return "", util.NewValidationError("unknown status", map[string]any{"status": raw})
}
