package courses

import (
	"context"
	"errors"
	"testing"

	"github.com/ShadyM97/LearnHub-Backend/models"
	"github.com/ShadyM97/LearnHub-Backend/repositories"
	"github.com/ShadyM97/LearnHub-Backend/repositories/mocks"
	"github.com/ShadyM97/LearnHub-Backend/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fixture struct {
	courses     *mocks.CourseRepository
	reviews     *mocks.ReviewRepository
	enrollments *mocks.EnrollmentRepository
	users       *mocks.UserRepository
	tx          *mocks.TxManager
	svc         *Service
}

func newFixture() *fixture {
	f := &fixture{
		courses:     new(mocks.CourseRepository),
		reviews:     new(mocks.ReviewRepository),
		enrollments: new(mocks.EnrollmentRepository),
		users:       new(mocks.UserRepository),
		tx:          new(mocks.TxManager),
	}
	f.svc = NewService(&repositories.Repositories{
		Courses:     f.courses,
		Reviews:     f.reviews,
		Enrollments: f.enrollments,
		Users:       f.users,
	}, f.tx, zap.NewNop())
	return f
}

func strPtr(s string) *string { return &s }

func TestService_List(t *testing.T) {
	ctx := context.Background()

	t.Run("merges teachers and ratings, drops low ratings", func(t *testing.T) {
		f := newFixture()
		filter := models.DefaultCourseFilter()
		filter.MinRating = 3

		f.courses.On("ListPublished", ctx, filter).Return([]*models.Course{
			{ID: "c-1", TeacherID: "t-1"},
			{ID: "c-2", TeacherID: "t-1"},
			{ID: "c-3", TeacherID: "t-2"},
		}, nil)
		f.users.On("GetByIDs", mock.Anything, []string{"t-1", "t-2"}).Return(map[string]*models.User{
			"t-1": {ID: "t-1", FirstName: strPtr("Ada")},
		}, nil)
		f.reviews.On("RatingsByCourseIDs", mock.Anything, []string{"c-1", "c-2", "c-3"}).Return(map[string]models.RatingSummary{
			"c-1": {Total: 9, Count: 2},
			"c-2": {Total: 2, Count: 1},
			"c-3": {Total: 15, Count: 3},
		}, nil)

		courses, err := f.svc.List(ctx, filter)
		require.NoError(t, err)
		require.Len(t, courses, 2)

		assert.Equal(t, "c-1", courses[0].ID)
		assert.Equal(t, 4.5, courses[0].Rating)
		assert.Equal(t, 2, courses[0].ReviewCount)
		require.NotNil(t, courses[0].Teacher)
		assert.Equal(t, "Ada", *courses[0].Teacher.FirstName)

		assert.Equal(t, "c-3", courses[1].ID)
		assert.Nil(t, courses[1].Teacher, "unknown teacher stays null")
	})

	t.Run("empty catalogue skips enrichment", func(t *testing.T) {
		f := newFixture()
		f.courses.On("ListPublished", ctx, mock.Anything).Return([]*models.Course{}, nil)

		courses, err := f.svc.List(ctx, models.DefaultCourseFilter())
		require.NoError(t, err)
		assert.Empty(t, courses)
		f.users.AssertNotCalled(t, "GetByIDs", mock.Anything, mock.Anything)
	})

	t.Run("enrichment failure is internal", func(t *testing.T) {
		f := newFixture()
		f.courses.On("ListPublished", ctx, mock.Anything).Return([]*models.Course{{ID: "c-1", TeacherID: "t-1"}}, nil)
		f.users.On("GetByIDs", mock.Anything, mock.Anything).Return(map[string]*models.User{}, nil)
		f.reviews.On("RatingsByCourseIDs", mock.Anything, mock.Anything).Return(nil, errors.New("boom"))

		_, err := f.svc.List(ctx, models.DefaultCourseFilter())
		assert.True(t, services.IsInternalError(err))
	})
}

func TestService_ListForTeacher(t *testing.T) {
	ctx := context.Background()

	t.Run("attaches the teacher's own summary", func(t *testing.T) {
		f := newFixture()
		f.courses.On("ListByTeacher", ctx, "t-1").Return([]*models.Course{{ID: "c-1"}, {ID: "c-2"}}, nil)
		f.users.On("GetByID", ctx, "t-1").Return(&models.User{ID: "t-1", LastName: strPtr("Lovelace")}, nil)

		courses, err := f.svc.ListForTeacher(ctx, "t-1")
		require.NoError(t, err)
		for _, c := range courses {
			require.NotNil(t, c.Teacher)
			assert.Equal(t, "Lovelace", *c.Teacher.LastName)
		}
	})

	t.Run("falls back to an id-only summary", func(t *testing.T) {
		f := newFixture()
		f.courses.On("ListByTeacher", ctx, "t-1").Return([]*models.Course{{ID: "c-1"}}, nil)
		f.users.On("GetByID", ctx, "t-1").Return(nil, errors.New("rls denied"))

		courses, err := f.svc.ListForTeacher(ctx, "t-1")
		require.NoError(t, err)
		assert.Equal(t, &models.Teacher{ID: "t-1"}, courses[0].Teacher)
	})
}

func TestService_ListForStudent(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	f.enrollments.On("ListByStudent", ctx, "s-1").Return([]*models.EnrolledCourse{
		{
			Enrollment: models.EnrollmentData{ID: "e-1", ProgressPercentage: 40},
			Course:     &models.Course{ID: "c-1", TeacherID: "t-1"},
		},
	}, nil)
	f.users.On("GetByIDs", ctx, []string{"t-1"}).Return(map[string]*models.User{"t-1": {ID: "t-1"}}, nil)

	courses, err := f.svc.ListForStudent(ctx, "s-1")
	require.NoError(t, err)
	require.Len(t, courses, 1)
	require.NotNil(t, courses[0].Enrollment)
	assert.Equal(t, "e-1", courses[0].Enrollment.ID)
	assert.Equal(t, 40, courses[0].Enrollment.ProgressPercentage)
	assert.Equal(t, "t-1", courses[0].Teacher.ID)
}

func TestService_Get(t *testing.T) {
	ctx := context.Background()

	t.Run("not found", func(t *testing.T) {
		f := newFixture()
		f.courses.On("GetByID", ctx, "c-404").Return(nil, repositories.ErrNotFound)

		_, err := f.svc.Get(ctx, "c-404")
		assert.ErrorIs(t, err, services.ErrCourseNotFound)
	})

	t.Run("course without reviews rates zero", func(t *testing.T) {
		f := newFixture()
		f.courses.On("GetByID", ctx, "c-1").Return(&models.Course{ID: "c-1", TeacherID: "t-1"}, nil)
		f.users.On("GetByID", mock.Anything, "t-1").Return(&models.User{ID: "t-1"}, nil)
		f.reviews.On("RatingsByCourseIDs", mock.Anything, []string{"c-1"}).Return(map[string]models.RatingSummary{}, nil)

		course, err := f.svc.Get(ctx, "c-1")
		require.NoError(t, err)
		assert.Zero(t, course.Rating)
		assert.Zero(t, course.ReviewCount)
		assert.Equal(t, "t-1", course.Teacher.ID)
	})
}

func TestService_Update(t *testing.T) {
	ctx := context.Background()
	title := "New title"

	tests := []struct {
		name    string
		update  *models.CourseUpdate
		setup   func(f *fixture)
		wantErr error
	}{
		{
			name:   "missing course",
			update: &models.CourseUpdate{Title: &title},
			setup: func(f *fixture) {
				f.courses.On("GetByID", ctx, "c-1").Return(nil, repositories.ErrNotFound)
			},
			wantErr: services.ErrCourseNotFound,
		},
		{
			name:   "not the owner",
			update: &models.CourseUpdate{Title: &title},
			setup: func(f *fixture) {
				f.courses.On("GetByID", ctx, "c-1").Return(&models.Course{ID: "c-1", TeacherID: "someone-else"}, nil)
			},
			wantErr: services.ErrNotCourseOwner,
		},
		{
			name:   "empty update",
			update: &models.CourseUpdate{},
			setup: func(f *fixture) {
				f.courses.On("GetByID", ctx, "c-1").Return(&models.Course{ID: "c-1", TeacherID: "t-1"}, nil)
			},
			wantErr: services.ErrNoUpdateData,
		},
		{
			name:   "owner updates",
			update: &models.CourseUpdate{Title: &title},
			setup: func(f *fixture) {
				f.courses.On("GetByID", ctx, "c-1").Return(&models.Course{ID: "c-1", TeacherID: "t-1"}, nil)
				f.courses.On("Update", ctx, "c-1", mock.Anything).Return(&models.Course{ID: "c-1", TeacherID: "t-1", Title: title}, nil)
				f.users.On("GetByID", ctx, "t-1").Return(&models.User{ID: "t-1"}, nil)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			tt.setup(f)

			course, err := f.svc.Update(ctx, "t-1", "c-1", tt.update)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, services.PublicMessage(tt.wantErr, ""), services.PublicMessage(err, "x"))
				assert.Equal(t, 1, f.tx.RolledBack)
				f.courses.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, title, course.Title)
			assert.Equal(t, 1, f.tx.Committed)
		})
	}
}
