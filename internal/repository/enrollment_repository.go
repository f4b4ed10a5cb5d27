package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/course-service/internal/domain"
)

// EnrollmentRepository defines persistence access for enrollments.
type EnrollmentRepository interface {
	Create(ctx context.Context, enrollment *domain.Enrollment) error
	Update(ctx context.Context, enrollment *domain.Enrollment) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Enrollment, error)
	GetByUserAndCourse(ctx context.Context, userID, courseID string) (*domain.Enrollment, error)
	List(ctx context.Context) ([]domain.Enrollment, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Enrollment, error)
	ListByCourse(ctx context.Context, courseID string) ([]domain.Enrollment, error)
	CountByUser(ctx context.Context, userID string) (int64, error)
}

type enrollmentRepository struct {
	pool *pgxpool.Pool
}

// NewEnrollmentRepository returns a Postgres-backed implementation.
func NewEnrollmentRepository(pool *pgxpool.Pool) EnrollmentRepository {
	return &enrollmentRepository{pool: pool}
}

const enrollmentColumns = `id, user_id, course_id, status, enrolled_at, created_at, updated_at`

func scanEnrollment(row pgx.Row, e *domain.Enrollment) error {
	return row.Scan(
		&e.ID,
		&e.UserID,
		&e.CourseID,
		&e.Status,
		&e.EnrolledAt,
		&e.CreatedAt,
		&e.UpdatedAt,
	)
}

func (r *enrollmentRepository) Create(ctx context.Context, enrollment *domain.Enrollment) error {
	const query = `
        INSERT INTO enrollments (user_id, course_id, status, enrolled_at)
        VALUES ($1, $2, $3, $4)
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		enrollment.UserID,
		enrollment.CourseID,
		enrollment.Status,
		enrollment.EnrolledAt,
	).Scan(&enrollment.ID, &enrollment.CreatedAt, &enrollment.UpdatedAt)
}

func (r *enrollmentRepository) Update(ctx context.Context, enrollment *domain.Enrollment) error {
	const query = `
        UPDATE enrollments SET user_id=$1, course_id=$2, status=$3, enrolled_at=$4, updated_at=NOW()
        WHERE id=$5`

	cmd, err := r.pool.Exec(ctx, query,
		enrollment.UserID,
		enrollment.CourseID,
		enrollment.Status,
		enrollment.EnrolledAt,
		enrollment.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *enrollmentRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM enrollments WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *enrollmentRepository) GetByID(ctx context.Context, id string) (*domain.Enrollment, error) {
	query := `SELECT ` + enrollmentColumns + ` FROM enrollments WHERE id=$1`

	var enrollment domain.Enrollment
	if err := scanEnrollment(r.pool.QueryRow(ctx, query, id), &enrollment); err != nil {
		return nil, err
	}
	return &enrollment, nil
}

func (r *enrollmentRepository) GetByUserAndCourse(ctx context.Context, userID, courseID string) (*domain.Enrollment, error) {
	query := `SELECT ` + enrollmentColumns + ` FROM enrollments WHERE user_id=$1 AND course_id=$2`

	var enrollment domain.Enrollment
	if err := scanEnrollment(r.pool.QueryRow(ctx, query, userID, courseID), &enrollment); err != nil {
		return nil, err
	}
	return &enrollment, nil
}

func (r *enrollmentRepository) List(ctx context.Context) ([]domain.Enrollment, error) {
	query := `SELECT ` + enrollmentColumns + ` FROM enrollments ORDER BY created_at`
	return r.queryMany(ctx, query)
}

func (r *enrollmentRepository) ListByUser(ctx context.Context, userID string) ([]domain.Enrollment, error) {
	query := `SELECT ` + enrollmentColumns + ` FROM enrollments WHERE user_id=$1 ORDER BY created_at`
	return r.queryMany(ctx, query, userID)
}

func (r *enrollmentRepository) ListByCourse(ctx context.Context, courseID string) ([]domain.Enrollment, error) {
	query := `SELECT ` + enrollmentColumns + ` FROM enrollments WHERE course_id=$1 ORDER BY created_at`
	return r.queryMany(ctx, query, courseID)
}

func (r *enrollmentRepository) CountByUser(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM enrollments WHERE user_id=$1`, userID).Scan(&count)
	return count, err
}

func (r *enrollmentRepository) queryMany(ctx context.Context, query string, args ...any) ([]domain.Enrollment, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var enrollments []domain.Enrollment
	for rows.Next() {
		var enrollment domain.Enrollment
		if err := scanEnrollment(rows, &enrollment); err != nil {
			return nil, err
		}
		enrollments = append(enrollments, enrollment)
	}
	return enrollments, rows.Err()
}
