package service

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/course-service/internal/domain"
)

// In-memory repository fakes backing the service tests.

type fakeUserRepo struct {
	users  map[string]*domain.User
	nextID int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*domain.User{}}
}

func (f *fakeUserRepo) add(user *domain.User) *domain.User {
	if user.ID == "" {
		f.nextID++
		user.ID = fmt.Sprintf("user-%d", f.nextID)
	}
	f.users[user.ID] = user
	return user
}

func (f *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	f.add(user)
	return nil
}

func (f *fakeUserRepo) Update(_ context.Context, user *domain.User) error {
	if _, ok := f.users[user.ID]; !ok {
		return pgx.ErrNoRows
	}
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) Delete(_ context.Context, id string) error {
	if _, ok := f.users[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.users, id)
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *user
	return &copied, nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, user := range f.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeUserRepo) List(_ context.Context) ([]domain.User, error) {
	out := make([]domain.User, 0, len(f.users))
	for _, user := range f.users {
		out = append(out, *user)
	}
	return out, nil
}

func (f *fakeUserRepo) ExistsByID(_ context.Context, id string) (bool, error) {
	_, ok := f.users[id]
	return ok, nil
}

func (f *fakeUserRepo) GrantRole(_ context.Context, userID, roleID string) error {
	user, ok := f.users[userID]
	if !ok {
		return pgx.ErrNoRows
	}
	for _, role := range user.Roles {
		if role.ID == roleID {
			return nil
		}
	}
	for _, role := range knownRoles {
		if role.ID == roleID {
			user.Roles = append(user.Roles, role)
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (f *fakeUserRepo) RevokeRole(_ context.Context, userID, roleID string) error {
	user, ok := f.users[userID]
	if !ok {
		return pgx.ErrNoRows
	}
	kept := user.Roles[:0]
	for _, role := range user.Roles {
		if role.ID != roleID {
			kept = append(kept, role)
		}
	}
	user.Roles = kept
	return nil
}

var knownRoles = []domain.Role{
	{ID: "role-admin", Label: domain.RoleAdmin},
	{ID: "role-instructor", Label: domain.RoleInstructor},
	{ID: "role-student", Label: domain.RoleStudent},
}

type fakeRoleRepo struct{}

func (fakeRoleRepo) GetByLabel(_ context.Context, label domain.RoleLabel) (*domain.Role, error) {
	for _, role := range knownRoles {
		if role.Label == label {
			copied := role
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (fakeRoleRepo) List(_ context.Context) ([]domain.Role, error) {
	return append([]domain.Role{}, knownRoles...), nil
}

type fakeCourseRepo struct {
	courses map[string]*domain.Course
	nextID  int
}

func newFakeCourseRepo() *fakeCourseRepo {
	return &fakeCourseRepo{courses: map[string]*domain.Course{}}
}

func (f *fakeCourseRepo) Create(_ context.Context, course *domain.Course) error {
	f.nextID++
	course.ID = fmt.Sprintf("course-%d", f.nextID)
	course.CreatedAt = time.Now()
	course.UpdatedAt = course.CreatedAt
	f.courses[course.ID] = course
	return nil
}

func (f *fakeCourseRepo) Update(_ context.Context, course *domain.Course) error {
	if _, ok := f.courses[course.ID]; !ok {
		return pgx.ErrNoRows
	}
	f.courses[course.ID] = course
	return nil
}

func (f *fakeCourseRepo) Delete(_ context.Context, id string) error {
	if _, ok := f.courses[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.courses, id)
	return nil
}

func (f *fakeCourseRepo) GetByID(_ context.Context, id string) (*domain.Course, error) {
	course, ok := f.courses[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *course
	return &copied, nil
}

func (f *fakeCourseRepo) List(_ context.Context) ([]domain.Course, error) {
	out := make([]domain.Course, 0, len(f.courses))
	for _, course := range f.courses {
		out = append(out, *course)
	}
	return out, nil
}

func (f *fakeCourseRepo) ExistsByID(_ context.Context, id string) (bool, error) {
	_, ok := f.courses[id]
	return ok, nil
}

type fakeEnrollmentRepo struct {
	enrollments map[string]*domain.Enrollment
	nextID      int
}

func newFakeEnrollmentRepo() *fakeEnrollmentRepo {
	return &fakeEnrollmentRepo{enrollments: map[string]*domain.Enrollment{}}
}

func (f *fakeEnrollmentRepo) Create(_ context.Context, enrollment *domain.Enrollment) error {
	f.nextID++
	enrollment.ID = fmt.Sprintf("enrollment-%d", f.nextID)
	enrollment.CreatedAt = time.Now()
	enrollment.UpdatedAt = enrollment.CreatedAt
	copied := *enrollment
	f.enrollments[enrollment.ID] = &copied
	return nil
}

func (f *fakeEnrollmentRepo) Update(_ context.Context, enrollment *domain.Enrollment) error {
	if _, ok := f.enrollments[enrollment.ID]; !ok {
		return pgx.ErrNoRows
	}
	copied := *enrollment
	f.enrollments[enrollment.ID] = &copied
	return nil
}

func (f *fakeEnrollmentRepo) Delete(_ context.Context, id string) error {
	if _, ok := f.enrollments[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.enrollments, id)
	return nil
}

func (f *fakeEnrollmentRepo) GetByID(_ context.Context, id string) (*domain.Enrollment, error) {
	enrollment, ok := f.enrollments[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *enrollment
	return &copied, nil
}

func (f *fakeEnrollmentRepo) GetByUserAndCourse(_ context.Context, userID, courseID string) (*domain.Enrollment, error) {
	for _, enrollment := range f.enrollments {
		if enrollment.UserID == userID && enrollment.CourseID == courseID {
			copied := *enrollment
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeEnrollmentRepo) List(_ context.Context) ([]domain.Enrollment, error) {
	out := make([]domain.Enrollment, 0, len(f.enrollments))
	for _, enrollment := range f.enrollments {
		out = append(out, *enrollment)
	}
	return out, nil
}

func (f *fakeEnrollmentRepo) ListByUser(_ context.Context, userID string) ([]domain.Enrollment, error) {
	var out []domain.Enrollment
	for _, enrollment := range f.enrollments {
		if enrollment.UserID == userID {
			out = append(out, *enrollment)
		}
	}
	return out, nil
}

func (f *fakeEnrollmentRepo) ListByCourse(_ context.Context, courseID string) ([]domain.Enrollment, error) {
	var out []domain.Enrollment
	for _, enrollment := range f.enrollments {
		if enrollment.CourseID == courseID {
			out = append(out, *enrollment)
		}
	}
	return out, nil
}

func (f *fakeEnrollmentRepo) CountByUser(_ context.Context, userID string) (int64, error) {
	var count int64
	for _, enrollment := range f.enrollments {
		if enrollment.UserID == userID {
			count++
		}
	}
	return count, nil
}
