package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/course-service/internal/domain"
	"github.com/spec-kit/course-service/internal/events"
	"github.com/spec-kit/course-service/internal/repository"
	"github.com/spec-kit/course-service/pkg/util"
)

// EnrollmentService coordinates enrollment workflows. The invariant it
// guards: at most one enrollment per (user, course) pair, checked before
// every insert and re-checked on any update that moves either side.
type EnrollmentService struct {
	enrollments repository.EnrollmentRepository
	users       repository.UserRepository
	courses     repository.CourseRepository
	dispatcher  events.Dispatcher
}

// EnrollmentDependencies bundles repositories for the enrollment service.
type EnrollmentDependencies struct {
	EnrollmentRepo repository.EnrollmentRepository
	UserRepo       repository.UserRepository
	CourseRepo     repository.CourseRepository
	Dispatcher     events.Dispatcher
}

// EnrollmentUpdateInput describes a full enrollment update. Nil fields are
// left unchanged.
type EnrollmentUpdateInput struct {
	UserID     *string
	CourseID   *string
	Status     *string
	EnrolledAt *time.Time
}

// NewEnrollmentService constructs the service.
func NewEnrollmentService(deps EnrollmentDependencies) *EnrollmentService {
	return &EnrollmentService{
		enrollments: deps.EnrollmentRepo,
		users:       deps.UserRepo,
		courses:     deps.CourseRepo,
		dispatcher:  deps.Dispatcher,
	}
}

// Create enrolls a user into a course.
func (s *EnrollmentService) Create(ctx context.Context, userID, courseID string) (*domain.Enrollment, error) {
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}
	if err := s.requireCourse(ctx, courseID); err != nil {
		return nil, err
	}
	if err := s.requirePairFree(ctx, userID, courseID, ""); err != nil {
		return nil, err
	}

	enrollment := &domain.Enrollment{
		UserID:     userID,
		CourseID:   courseID,
		Status:     domain.EnrollmentStatusInProgress,
		EnrolledAt: time.Now(),
	}
	if err := s.enrollments.Create(ctx, enrollment); err != nil {
		return nil, err
	}

	s.publish(ctx, events.EventEnrollmentCreated, enrollment.UserID, events.EnrollmentCreatedPayload{
		EnrollmentID: enrollment.ID,
		CourseID:     enrollment.CourseID,
	})
	return enrollment, nil
}

// List returns all enrollments.
func (s *EnrollmentService) List(ctx context.Context) ([]domain.Enrollment, error) {
	return s.enrollments.List(ctx)
}

// Get returns a single enrollment.
func (s *EnrollmentService) Get(ctx context.Context, id string) (*domain.Enrollment, error) {
	enrollment, err := s.enrollments.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, util.NewNotFound("enrollment", map[string]any{"id": id})
		}
		return nil, err
	}
	return enrollment, nil
}

// ListByUser returns a user's enrollments.
func (s *EnrollmentService) ListByUser(ctx context.Context, userID string) ([]domain.Enrollment, error) {
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}
	return s.enrollments.ListByUser(ctx, userID)
}

// ListByCourse returns a course's enrollments.
func (s *EnrollmentService) ListByCourse(ctx context.Context, courseID string) ([]domain.Enrollment, error) {
	if err := s.requireCourse(ctx, courseID); err != nil {
		return nil, err
	}
	return s.enrollments.ListByCourse(ctx, courseID)
}

// UpdateStatus moves an enrollment through its lifecycle.
func (s *EnrollmentService) UpdateStatus(ctx context.Context, id, rawStatus string) (*domain.Enrollment, error) {
	enrollment, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	status, err := domain.ParseEnrollmentStatus(rawStatus)
	if err != nil {
		return nil, util.NewValidationError(err.Error(), map[string]any{"status": rawStatus})
	}
	if status == enrollment.Status {
		return enrollment, nil
	}

	old := enrollment.Status
	enrollment.Status = status
	if err := s.enrollments.Update(ctx, enrollment); err != nil {
		return nil, err
	}

	s.publish(ctx, events.EventEnrollmentStatusChanged, enrollment.UserID, events.EnrollmentStatusChangedPayload{
		EnrollmentID: enrollment.ID,
		CourseID:     enrollment.CourseID,
		OldStatus:    old,
		NewStatus:    status,
	})
	return enrollment, nil
}

// Update replaces enrollment fields. Moving either side of the
// (user, course) pair re-checks uniqueness against the target pair.
func (s *EnrollmentService) Update(ctx context.Context, id string, input EnrollmentUpdateInput) (*domain.Enrollment, error) {
	enrollment, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	pairChanged := false
	if input.UserID != nil && *input.UserID != enrollment.UserID {
		if err := s.requireUser(ctx, *input.UserID); err != nil {
			return nil, err
		}
		enrollment.UserID = *input.UserID
		pairChanged = true
	}
	if input.CourseID != nil && *input.CourseID != enrollment.CourseID {
		if err := s.requireCourse(ctx, *input.CourseID); err != nil {
			return nil, err
		}
		enrollment.CourseID = *input.CourseID
		pairChanged = true
	}
	if pairChanged {
		if err := s.requirePairFree(ctx, enrollment.UserID, enrollment.CourseID, enrollment.ID); err != nil {
			return nil, err
		}
	}

	if input.Status != nil {
		status, err := domain.ParseEnrollmentStatus(*input.Status)
		if err != nil {
			return nil, util.NewValidationError(err.Error(), map[string]any{"status": *input.Status})
		}
		enrollment.Status = status
	}
	if input.EnrolledAt != nil {
		enrollment.EnrolledAt = *input.EnrolledAt
	}

	if err := s.enrollments.Update(ctx, enrollment); err != nil {
		return nil, err
	}
	return enrollment, nil
}

// Delete removes an enrollment, freeing the (user, course) pair.
func (s *EnrollmentService) Delete(ctx context.Context, id string) error {
	enrollment, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.enrollments.Delete(ctx, id); err != nil {
		return err
	}

	s.publish(ctx, events.EventEnrollmentDeleted, enrollment.UserID, events.EnrollmentDeletedPayload{
		EnrollmentID: enrollment.ID,
		CourseID:     enrollment.CourseID,
	})
	return nil
}

func (s *EnrollmentService) requireUser(ctx context.Context, userID string) error {
	exists, err := s.users.ExistsByID(ctx, userID)
	if err != nil {
		return err
	}
	if !exists {
		return util.NewNotFound("user", map[string]any{"id": userID})
	}
	return nil
}

func (s *EnrollmentService) requireCourse(ctx context.Context, courseID string) error {
	exists, err := s.courses.ExistsByID(ctx, courseID)
	if err != nil {
		return err
	}
	if !exists {
		return util.NewNotFound("course", map[string]any{"id": courseID})
	}
	return nil
}

// requirePairFree fails with a conflict when the (user, course) pair is
// already taken by an enrollment other than excludeID.
func (s *EnrollmentService) requirePairFree(ctx context.Context, userID, courseID, excludeID string) error {
	existing, err := s.enrollments.GetByUserAndCourse(ctx, userID, courseID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil
		}
		return err
	}
	if existing.ID == excludeID {
		return nil
	}
	return util.NewConflict("user already enrolled in course", map[string]any{
		"user_id":   userID,
		"course_id": courseID,
	})
}

func (s *EnrollmentService) publish(ctx context.Context, eventType events.EventType, userID string, payload interface{}) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		UserID:    userID,
		Timestamp: time.Now(),
		Payload:   payload,
	})
}
