package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ShadyM97/LearnHub-Backend/models"
	"github.com/ShadyM97/LearnHub-Backend/repositories"
	"github.com/lib/pq"
	"go.uber.org/zap"
)

const courseColumns = `id, teacher_id, title, COALESCE(description, ''), price, duration_hours, category, level, thumbnail_url, is_published, created_at, updated_at`

// CourseRepository implements the repositories.CourseRepository interface
type CourseRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewCourseRepository creates a new course repository
func NewCourseRepository(db *DB, logger *zap.Logger) repositories.CourseRepository {
	return &CourseRepository{
		db:     db,
		logger: logger,
	}
}

func scanCourse(row interface{ Scan(...interface{}) error }) (*models.Course, error) {
	c := &models.Course{}
	err := row.Scan(
		&c.ID,
		&c.TeacherID,
		&c.Title,
		&c.Description,
		&c.Price,
		&c.DurationHours,
		&c.Category,
		&c.Level,
		&c.ThumbnailURL,
		&c.IsPublished,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	return c, err
}

func (r *CourseRepository) queryCourses(ctx context.Context, query string, args ...interface{}) ([]*models.Course, error) {
	rows, err := GetExecutor(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query courses: %w", err)
	}
	defer rows.Close()

	courses := make([]*models.Course, 0)
	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan course: %w", err)
		}
		courses = append(courses, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating course rows: %w", err)
	}
	return courses, nil
}

// ListPublished retrieves published courses matching the filter, newest first
func (r *CourseRepository) ListPublished(ctx context.Context, filter models.CourseFilter) ([]*models.Course, error) {
	query := `SELECT ` + courseColumns + ` FROM courses WHERE is_published = TRUE AND price >= $1 AND price <= $2`
	args := []interface{}{filter.MinPrice, filter.MaxPrice}

	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		query += fmt.Sprintf(" AND title ILIKE $%d", len(args))
	}
	if filter.Category != "" && filter.Category != models.FilterAll {
		args = append(args, filter.Category)
		query += fmt.Sprintf(" AND category = $%d", len(args))
	}
	if filter.Level != "" && filter.Level != models.FilterAll {
		args = append(args, filter.Level)
		query += fmt.Sprintf(" AND level = $%d", len(args))
	}
	query += " ORDER BY created_at DESC"

	return r.queryCourses(ctx, query, args...)
}

// ListByTeacher retrieves a teacher's courses, newest first
func (r *CourseRepository) ListByTeacher(ctx context.Context, teacherID string) ([]*models.Course, error) {
	query := `SELECT ` + courseColumns + ` FROM courses WHERE teacher_id = $1 ORDER BY created_at DESC`
	return r.queryCourses(ctx, query, teacherID)
}

// GetByID retrieves a course by ID
func (r *CourseRepository) GetByID(ctx context.Context, id string) (*models.Course, error) {
	query := `SELECT ` + courseColumns + ` FROM courses WHERE id = $1`

	c, err := scanCourse(GetExecutor(ctx, r.db).QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repositories.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get course: %w", err)
	}
	return c, nil
}

// Create inserts a course owned by teacherID
func (r *CourseRepository) Create(ctx context.Context, teacherID string, in *models.CourseCreate) (*models.Course, error) {
	query := `
		INSERT INTO courses (teacher_id, title, description, price, duration_hours, category, level, thumbnail_url, is_published)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + courseColumns

	c, err := scanCourse(GetExecutor(ctx, r.db).QueryRowContext(ctx, query,
		teacherID,
		in.Title,
		in.Description,
		in.Price,
		in.DurationHours,
		in.Category,
		in.Level,
		in.ThumbnailURL,
		in.IsPublished,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create course: %w", err)
	}

	r.logger.Debug("course created", zap.String("id", c.ID), zap.String("teacher_id", teacherID))
	return c, nil
}

// Update applies a partial update and returns the stored row
func (r *CourseRepository) Update(ctx context.Context, id string, update *models.CourseUpdate) (*models.Course, error) {
	set := &setClause{}
	if update.Title != nil {
		set.add("title", *update.Title)
	}
	if update.Description != nil {
		set.add("description", *update.Description)
	}
	if update.Price != nil {
		set.add("price", *update.Price)
	}
	if update.DurationHours != nil {
		set.add("duration_hours", *update.DurationHours)
	}
	if update.Category != nil {
		set.add("category", *update.Category)
	}
	if update.Level != nil {
		set.add("level", *update.Level)
	}
	if update.ThumbnailURL != nil {
		set.add("thumbnail_url", *update.ThumbnailURL)
	}
	if update.IsPublished != nil {
		set.add("is_published", *update.IsPublished)
	}
	if set.empty() {
		return r.GetByID(ctx, id)
	}
	set.touch("updated_at")

	query, args := set.build("courses", id, courseColumns)
	c, err := scanCourse(GetExecutor(ctx, r.db).QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repositories.ErrNotFound
		}
		return nil, fmt.Errorf("failed to update course: %w", err)
	}

	r.logger.Debug("course updated", zap.String("id", id))
	return c, nil
}

// ReviewRepository implements the repositories.ReviewRepository interface
type ReviewRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewReviewRepository creates a new review repository
func NewReviewRepository(db *DB, logger *zap.Logger) repositories.ReviewRepository {
	return &ReviewRepository{
		db:     db,
		logger: logger,
	}
}

// RatingsByCourseIDs aggregates ratings per course
func (r *ReviewRepository) RatingsByCourseIDs(ctx context.Context, courseIDs []string) (map[string]models.RatingSummary, error) {
	ratings := make(map[string]models.RatingSummary, len(courseIDs))
	if len(courseIDs) == 0 {
		return ratings, nil
	}

	query := `
		SELECT course_id, COALESCE(SUM(rating), 0), COUNT(*)
		FROM course_reviews
		WHERE course_id = ANY($1::uuid[])
		GROUP BY course_id
	`

	rows, err := GetExecutor(ctx, r.db).QueryContext(ctx, query, pq.Array(courseIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to query course ratings: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var courseID string
		var summary models.RatingSummary
		if err := rows.Scan(&courseID, &summary.Total, &summary.Count); err != nil {
			return nil, fmt.Errorf("failed to scan course rating: %w", err)
		}
		ratings[courseID] = summary
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating course ratings: %w", err)
	}
	return ratings, nil
}

// EnrollmentRepository implements the repositories.EnrollmentRepository interface
type EnrollmentRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewEnrollmentRepository creates a new enrollment repository
func NewEnrollmentRepository(db *DB, logger *zap.Logger) repositories.EnrollmentRepository {
	return &EnrollmentRepository{
		db:     db,
		logger: logger,
	}
}

// ListByStudent retrieves a student's enrollments with their courses
func (r *EnrollmentRepository) ListByStudent(ctx context.Context, studentID string) ([]*models.EnrolledCourse, error) {
	query := `
		SELECT e.id, e.enrolled_at, COALESCE(e.progress_percentage, 0), e.completed_at,
		       c.id, c.teacher_id, c.title, COALESCE(c.description, ''), c.price, c.duration_hours,
		       c.category, c.level, c.thumbnail_url, c.is_published, c.created_at, c.updated_at
		FROM enrollments e
		JOIN courses c ON c.id = e.course_id
		WHERE e.student_id = $1
		ORDER BY e.enrolled_at DESC
	`

	rows, err := GetExecutor(ctx, r.db).QueryContext(ctx, query, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query enrollments: %w", err)
	}
	defer rows.Close()

	enrolled := make([]*models.EnrolledCourse, 0)
	for rows.Next() {
		ec := &models.EnrolledCourse{Course: &models.Course{}}
		c := ec.Course
		err := rows.Scan(
			&ec.Enrollment.ID,
			&ec.Enrollment.EnrolledAt,
			&ec.Enrollment.ProgressPercentage,
			&ec.Enrollment.CompletedAt,
			&c.ID,
			&c.TeacherID,
			&c.Title,
			&c.Description,
			&c.Price,
			&c.DurationHours,
			&c.Category,
			&c.Level,
			&c.ThumbnailURL,
			&c.IsPublished,
			&c.CreatedAt,
			&c.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan enrollment: %w", err)
		}
		enrolled = append(enrolled, ec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating enrollments: %w", err)
	}
	return enrolled, nil
}
