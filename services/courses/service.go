package courses

import (
	"context"
	"errors"

	"github.com/ShadyM97/LearnHub-Backend/models"
	"github.com/ShadyM97/LearnHub-Backend/repositories"
	"github.com/ShadyM97/LearnHub-Backend/services"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Service serves the course catalogue and the teacher/student course views
type Service struct {
	courses     repositories.CourseRepository
	reviews     repositories.ReviewRepository
	enrollments repositories.EnrollmentRepository
	users       repositories.UserRepository
	txManager   repositories.TransactionManager
	logger      *zap.Logger
}

// NewService creates a new course service
func NewService(repos *repositories.Repositories, txManager repositories.TransactionManager, logger *zap.Logger) *Service {
	return &Service{
		courses:     repos.Courses,
		reviews:     repos.Reviews,
		enrollments: repos.Enrollments,
		users:       repos.Users,
		txManager:   txManager,
		logger:      logger,
	}
}

// List returns the published catalogue matching filter, each course carrying
// its teacher summary and average rating.
func (s *Service) List(ctx context.Context, filter models.CourseFilter) ([]*models.Course, error) {
	courses, err := s.courses.ListPublished(ctx, filter)
	if err != nil {
		return nil, services.WrapInternal("Database error", err)
	}
	if len(courses) == 0 {
		return courses, nil
	}

	teacherIDs := make([]string, 0, len(courses))
	courseIDs := make([]string, 0, len(courses))
	for _, c := range courses {
		teacherIDs = append(teacherIDs, c.TeacherID)
		courseIDs = append(courseIDs, c.ID)
	}

	var (
		teachers map[string]*models.User
		ratings  map[string]models.RatingSummary
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		teachers, err = s.users.GetByIDs(gctx, services.UniqueIDs(teacherIDs))
		return err
	})
	g.Go(func() error {
		var err error
		ratings, err = s.reviews.RatingsByCourseIDs(gctx, courseIDs)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, services.WrapInternal("Database error", err)
	}

	out := make([]*models.Course, 0, len(courses))
	for _, c := range courses {
		summary := ratings[c.ID]
		if summary.Average() < filter.MinRating {
			continue
		}
		if t, ok := teachers[c.TeacherID]; ok {
			c.Teacher = t.Summary()
		}
		c.Rating = summary.Average()
		c.ReviewCount = summary.Count
		out = append(out, c)
	}
	return out, nil
}

// ListForTeacher returns the courses authored by teacherID
func (s *Service) ListForTeacher(ctx context.Context, teacherID string) ([]*models.Course, error) {
	courses, err := s.courses.ListByTeacher(ctx, teacherID)
	if err != nil {
		return nil, services.WrapInternal("Error fetching teacher courses", err)
	}

	teacher := &models.Teacher{ID: teacherID}
	if user, err := s.users.GetByID(ctx, teacherID); err != nil {
		s.logger.Warn("could not fetch teacher info", zap.String("teacher_id", teacherID), zap.Error(err))
	} else {
		teacher = user.Summary()
	}

	for _, c := range courses {
		c.Teacher = teacher
	}
	return courses, nil
}

// ListForStudent returns the courses studentID is enrolled in, each with its
// enrollment progress.
func (s *Service) ListForStudent(ctx context.Context, studentID string) ([]*models.Course, error) {
	enrolled, err := s.enrollments.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, services.WrapInternal("Database error", err)
	}

	out := make([]*models.Course, 0, len(enrolled))
	if len(enrolled) == 0 {
		return out, nil
	}

	teacherIDs := make([]string, 0, len(enrolled))
	for _, e := range enrolled {
		teacherIDs = append(teacherIDs, e.Course.TeacherID)
	}
	teachers, err := s.users.GetByIDs(ctx, services.UniqueIDs(teacherIDs))
	if err != nil {
		return nil, services.WrapInternal("Database error", err)
	}

	for _, e := range enrolled {
		c := e.Course
		if t, ok := teachers[c.TeacherID]; ok {
			c.Teacher = t.Summary()
		}
		enrollment := e.Enrollment
		c.Enrollment = &enrollment
		out = append(out, c)
	}
	return out, nil
}

// Get returns one course with its teacher summary and rating
func (s *Service) Get(ctx context.Context, id string) (*models.Course, error) {
	course, err := s.courses.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, services.ErrCourseNotFound
		}
		return nil, services.WrapInternal("Database error", err)
	}

	var (
		teacher *models.Teacher
		ratings map[string]models.RatingSummary
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		teacher = s.teacherSummary(gctx, course.TeacherID)
		return nil
	})
	g.Go(func() error {
		var err error
		ratings, err = s.reviews.RatingsByCourseIDs(gctx, []string{course.ID})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, services.WrapInternal("Database error", err)
	}

	summary := ratings[course.ID]
	course.Teacher = teacher
	course.Rating = summary.Average()
	course.ReviewCount = summary.Count
	return course, nil
}

// Create stores a course owned by teacherID
func (s *Service) Create(ctx context.Context, teacherID string, in *models.CourseCreate) (*models.Course, error) {
	course, err := s.courses.Create(ctx, teacherID, in)
	if err != nil {
		return nil, services.WrapInternal("Could not create course", err)
	}
	course.Teacher = s.teacherSummary(ctx, teacherID)

	s.logger.Info("course created", zap.String("course_id", course.ID), zap.String("teacher_id", teacherID))
	return course, nil
}

// Update applies a partial update to a course owned by teacherID
func (s *Service) Update(ctx context.Context, teacherID, id string, update *models.CourseUpdate) (*models.Course, error) {
	course, err := services.WithTransactionResult(ctx, s.txManager, func(ctx context.Context) (*models.Course, error) {
		existing, err := s.courses.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return nil, services.ErrCourseNotFound
			}
			return nil, services.WrapInternal("Database error", err)
		}
		if existing.TeacherID != teacherID {
			return nil, services.ErrNotCourseOwner
		}
		if update == nil || update.IsEmpty() {
			return nil, services.ErrNoUpdateData
		}

		updated, err := s.courses.Update(ctx, id, update)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return nil, services.ErrCourseNotFound
			}
			return nil, services.WrapInternal("Database error", err)
		}
		return updated, nil
	})
	if err != nil {
		return nil, err
	}

	course.Teacher = s.teacherSummary(ctx, teacherID)
	return course, nil
}

// teacherSummary looks up the public summary of teacherID, nil when unavailable
func (s *Service) teacherSummary(ctx context.Context, teacherID string) *models.Teacher {
	user, err := s.users.GetByID(ctx, teacherID)
	if err != nil {
		if !errors.Is(err, repositories.ErrNotFound) {
			s.logger.Warn("teacher lookup failed", zap.String("teacher_id", teacherID), zap.Error(err))
		}
		return nil
	}
	return user.Summary()
}
