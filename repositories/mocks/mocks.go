// Package mocks provides testify mocks of the repository interfaces.
package mocks

import (
	"context"

	"github.com/ShadyM97/LearnHub-Backend/models"
	"github.com/ShadyM97/LearnHub-Backend/repositories"
	"github.com/stretchr/testify/mock"
)

// TxManager runs fn directly, without a database. Set Err to simulate a
// failed BEGIN.
type TxManager struct {
	Err        error
	Committed  int
	RolledBack int
}

func (m *TxManager) InTransaction(ctx context.Context, fn func(ctx context.Context, tx repositories.Transaction) error) error {
	if m.Err != nil {
		return m.Err
	}
	if err := fn(ctx, nil); err != nil {
		m.RolledBack++
		return err
	}
	m.Committed++
	return nil
}

// UserRepository is a mock implementation of repositories.UserRepository
type UserRepository struct {
	mock.Mock
}

func (m *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	if u := args.Get(0); u != nil {
		return u.(*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *UserRepository) GetRoleByID(ctx context.Context, id string) (string, error) {
	args := m.Called(ctx, id)
	return args.String(0), args.Error(1)
}

func (m *UserRepository) GetByIDs(ctx context.Context, ids []string) (map[string]*models.User, error) {
	args := m.Called(ctx, ids)
	if u := args.Get(0); u != nil {
		return u.(map[string]*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *UserRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	args := m.Called(ctx, user)
	if u := args.Get(0); u != nil {
		return u.(*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *UserRepository) Update(ctx context.Context, id string, update *models.UserUpdate) (*models.User, error) {
	args := m.Called(ctx, id, update)
	if u := args.Get(0); u != nil {
		return u.(*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

// CourseRepository is a mock implementation of repositories.CourseRepository
type CourseRepository struct {
	mock.Mock
}

func (m *CourseRepository) ListPublished(ctx context.Context, filter models.CourseFilter) ([]*models.Course, error) {
	args := m.Called(ctx, filter)
	if c := args.Get(0); c != nil {
		return c.([]*models.Course), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *CourseRepository) ListByTeacher(ctx context.Context, teacherID string) ([]*models.Course, error) {
	args := m.Called(ctx, teacherID)
	if c := args.Get(0); c != nil {
		return c.([]*models.Course), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *CourseRepository) GetByID(ctx context.Context, id string) (*models.Course, error) {
	args := m.Called(ctx, id)
	if c := args.Get(0); c != nil {
		return c.(*models.Course), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *CourseRepository) Create(ctx context.Context, teacherID string, in *models.CourseCreate) (*models.Course, error) {
	args := m.Called(ctx, teacherID, in)
	if c := args.Get(0); c != nil {
		return c.(*models.Course), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *CourseRepository) Update(ctx context.Context, id string, update *models.CourseUpdate) (*models.Course, error) {
	args := m.Called(ctx, id, update)
	if c := args.Get(0); c != nil {
		return c.(*models.Course), args.Error(1)
	}
	return nil, args.Error(1)
}

// ReviewRepository is a mock implementation of repositories.ReviewRepository
type ReviewRepository struct {
	mock.Mock
}

func (m *ReviewRepository) RatingsByCourseIDs(ctx context.Context, courseIDs []string) (map[string]models.RatingSummary, error) {
	args := m.Called(ctx, courseIDs)
	if r := args.Get(0); r != nil {
		return r.(map[string]models.RatingSummary), args.Error(1)
	}
	return nil, args.Error(1)
}

// EnrollmentRepository is a mock implementation of repositories.EnrollmentRepository
type EnrollmentRepository struct {
	mock.Mock
}

func (m *EnrollmentRepository) ListByStudent(ctx context.Context, studentID string) ([]*models.EnrolledCourse, error) {
	args := m.Called(ctx, studentID)
	if e := args.Get(0); e != nil {
		return e.([]*models.EnrolledCourse), args.Error(1)
	}
	return nil, args.Error(1)
}

// PostRepository is a mock implementation of repositories.PostRepository
type PostRepository struct {
	mock.Mock
}

func (m *PostRepository) List(ctx context.Context) ([]*models.Post, error) {
	args := m.Called(ctx)
	if p := args.Get(0); p != nil {
		return p.([]*models.Post), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *PostRepository) GetByID(ctx context.Context, id string) (*models.Post, error) {
	args := m.Called(ctx, id)
	if p := args.Get(0); p != nil {
		return p.(*models.Post), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *PostRepository) Create(ctx context.Context, userID string, in *models.PostCreate) (*models.Post, error) {
	args := m.Called(ctx, userID, in)
	if p := args.Get(0); p != nil {
		return p.(*models.Post), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *PostRepository) Update(ctx context.Context, id string, update *models.PostUpdate) (*models.Post, error) {
	args := m.Called(ctx, id, update)
	if p := args.Get(0); p != nil {
		return p.(*models.Post), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *PostRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

// CommentRepository is a mock implementation of repositories.CommentRepository
type CommentRepository struct {
	mock.Mock
}

func (m *CommentRepository) ListByPostIDs(ctx context.Context, postIDs []string) ([]*models.Comment, error) {
	args := m.Called(ctx, postIDs)
	if c := args.Get(0); c != nil {
		return c.([]*models.Comment), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *CommentRepository) Create(ctx context.Context, postID, userID string, in *models.CommentCreate) (*models.Comment, error) {
	args := m.Called(ctx, postID, userID, in)
	if c := args.Get(0); c != nil {
		return c.(*models.Comment), args.Error(1)
	}
	return nil, args.Error(1)
}

// LikeRepository is a mock implementation of repositories.LikeRepository
type LikeRepository struct {
	mock.Mock
}

func (m *LikeRepository) ListByTargetIDs(ctx context.Context, targetIDs []string) ([]*models.Like, error) {
	args := m.Called(ctx, targetIDs)
	if l := args.Get(0); l != nil {
		return l.([]*models.Like), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *LikeRepository) Exists(ctx context.Context, targetID, userID string) (bool, error) {
	args := m.Called(ctx, targetID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *LikeRepository) Add(ctx context.Context, targetID, userID string) error {
	return m.Called(ctx, targetID, userID).Error(0)
}

func (m *LikeRepository) Remove(ctx context.Context, targetID, userID string) error {
	return m.Called(ctx, targetID, userID).Error(0)
}

func (m *LikeRepository) Count(ctx context.Context, targetID string) (int, error) {
	args := m.Called(ctx, targetID)
	return args.Int(0), args.Error(1)
}

// SpaceRepository is a mock implementation of repositories.SpaceRepository
type SpaceRepository struct {
	mock.Mock
}

func (m *SpaceRepository) List(ctx context.Context) ([]*models.Space, error) {
	args := m.Called(ctx)
	if s := args.Get(0); s != nil {
		return s.([]*models.Space), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *SpaceRepository) Create(ctx context.Context, createdBy string, in *models.SpaceCreate) (*models.Space, error) {
	args := m.Called(ctx, createdBy, in)
	if s := args.Get(0); s != nil {
		return s.(*models.Space), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *SpaceRepository) MemberCounts(ctx context.Context, spaceIDs []string) (map[string]int, error) {
	args := m.Called(ctx, spaceIDs)
	if c := args.Get(0); c != nil {
		return c.(map[string]int), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *SpaceRepository) MemberSpaceIDs(ctx context.Context, userID string) ([]string, error) {
	args := m.Called(ctx, userID)
	if ids := args.Get(0); ids != nil {
		return ids.([]string), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *SpaceRepository) IsMember(ctx context.Context, spaceID, userID string) (bool, error) {
	args := m.Called(ctx, spaceID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *SpaceRepository) AddMember(ctx context.Context, member *models.SpaceMember) error {
	return m.Called(ctx, member).Error(0)
}

// ThreadRepository is a mock implementation of repositories.ThreadRepository
type ThreadRepository struct {
	mock.Mock
}

func (m *ThreadRepository) ListBySpace(ctx context.Context, spaceID string) ([]*models.SpaceThread, error) {
	args := m.Called(ctx, spaceID)
	if t := args.Get(0); t != nil {
		return t.([]*models.SpaceThread), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ThreadRepository) Create(ctx context.Context, spaceID, createdBy string, in *models.SpaceThreadCreate) (*models.SpaceThread, error) {
	args := m.Called(ctx, spaceID, createdBy, in)
	if t := args.Get(0); t != nil {
		return t.(*models.SpaceThread), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ThreadRepository) MessageCounts(ctx context.Context, threadIDs []string) (map[string]int, error) {
	args := m.Called(ctx, threadIDs)
	if c := args.Get(0); c != nil {
		return c.(map[string]int), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ThreadRepository) ListMessages(ctx context.Context, threadID string) ([]*models.SpaceMessage, error) {
	args := m.Called(ctx, threadID)
	if msgs := args.Get(0); msgs != nil {
		return msgs.([]*models.SpaceMessage), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ThreadRepository) CreateMessage(ctx context.Context, threadID, userID string, in *models.SpaceMessageCreate) (*models.SpaceMessage, error) {
	args := m.Called(ctx, threadID, userID, in)
	if msg := args.Get(0); msg != nil {
		return msg.(*models.SpaceMessage), args.Error(1)
	}
	return nil, args.Error(1)
}

var (
	_ repositories.TransactionManager   = (*TxManager)(nil)
	_ repositories.UserRepository       = (*UserRepository)(nil)
	_ repositories.CourseRepository     = (*CourseRepository)(nil)
	_ repositories.ReviewRepository     = (*ReviewRepository)(nil)
	_ repositories.EnrollmentRepository = (*EnrollmentRepository)(nil)
	_ repositories.PostRepository       = (*PostRepository)(nil)
	_ repositories.CommentRepository    = (*CommentRepository)(nil)
	_ repositories.LikeRepository       = (*LikeRepository)(nil)
	_ repositories.SpaceRepository      = (*SpaceRepository)(nil)
	_ repositories.ThreadRepository     = (*ThreadRepository)(nil)
)
