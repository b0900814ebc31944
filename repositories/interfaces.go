package repositories

import (
	"context"
	"errors"

	"github.com/ShadyM97/LearnHub-Backend/models"
)

// ErrNotFound is returned when a single-row lookup matches nothing
var ErrNotFound = errors.New("record not found")

// TransactionManager runs units of work atomically
type TransactionManager interface {
	// InTransaction runs fn in a transaction. Repositories called with the
	// ctx passed to fn take part in it. A nested call joins the outer
	// transaction instead of opening a second one. Commits when fn returns
	// nil, rolls back otherwise.
	InTransaction(ctx context.Context, fn func(ctx context.Context, tx Transaction) error) error
}

// Transaction is an open database transaction
type Transaction interface {
	Commit() error
	Rollback() error
}

// RoleReader reads the stored role of a user. Implementations must bypass
// row-level security; a missing row yields ErrNotFound.
type RoleReader interface {
	GetRoleByID(ctx context.Context, id string) (string, error)
}

// UserRepository handles user profile data operations
type UserRepository interface {
	// GetByID retrieves a user by ID
	GetByID(ctx context.Context, id string) (*models.User, error)

	// GetRoleByID retrieves only the stored role of a user
	GetRoleByID(ctx context.Context, id string) (string, error)

	// GetByIDs retrieves users keyed by ID; missing IDs are absent from the map
	GetByIDs(ctx context.Context, ids []string) (map[string]*models.User, error)

	// Create inserts a user and returns the stored row
	Create(ctx context.Context, user *models.User) (*models.User, error)

	// Update applies a partial update and returns the stored row
	Update(ctx context.Context, id string, update *models.UserUpdate) (*models.User, error)
}

// CourseRepository handles course data operations
type CourseRepository interface {
	// ListPublished retrieves published courses matching the filter, newest first.
	// MinRating is not applied here.
	ListPublished(ctx context.Context, filter models.CourseFilter) ([]*models.Course, error)

	// ListByTeacher retrieves a teacher's courses, newest first
	ListByTeacher(ctx context.Context, teacherID string) ([]*models.Course, error)

	// GetByID retrieves a course by ID
	GetByID(ctx context.Context, id string) (*models.Course, error)

	// Create inserts a course owned by teacherID
	Create(ctx context.Context, teacherID string, in *models.CourseCreate) (*models.Course, error)

	// Update applies a partial update and returns the stored row
	Update(ctx context.Context, id string, update *models.CourseUpdate) (*models.Course, error)
}

// ReviewRepository reads course_reviews
type ReviewRepository interface {
	// RatingsByCourseIDs aggregates ratings per course; courses without reviews are absent
	RatingsByCourseIDs(ctx context.Context, courseIDs []string) (map[string]models.RatingSummary, error)
}

// EnrollmentRepository reads enrollments
type EnrollmentRepository interface {
	// ListByStudent retrieves a student's enrollments with their courses
	ListByStudent(ctx context.Context, studentID string) ([]*models.EnrolledCourse, error)
}

// PostRepository handles feed posts
type PostRepository interface {
	// List retrieves all posts, newest first
	List(ctx context.Context) ([]*models.Post, error)

	// GetByID retrieves a post by ID
	GetByID(ctx context.Context, id string) (*models.Post, error)

	// Create inserts a post authored by userID
	Create(ctx context.Context, userID string, in *models.PostCreate) (*models.Post, error)

	// Update applies a partial update and returns the stored row
	Update(ctx context.Context, id string, update *models.PostUpdate) (*models.Post, error)

	// Delete removes a post
	Delete(ctx context.Context, id string) error
}

// CommentRepository handles post comments
type CommentRepository interface {
	// ListByPostIDs retrieves comments of the given posts, oldest first
	ListByPostIDs(ctx context.Context, postIDs []string) ([]*models.Comment, error)

	// Create inserts a comment
	Create(ctx context.Context, postID, userID string, in *models.CommentCreate) (*models.Comment, error)
}

// LikeRepository handles one like table (post likes or comment likes)
type LikeRepository interface {
	// ListByTargetIDs retrieves likes on the given posts or comments
	ListByTargetIDs(ctx context.Context, targetIDs []string) ([]*models.Like, error)

	// Exists reports whether userID likes targetID
	Exists(ctx context.Context, targetID, userID string) (bool, error)

	// Add records a like
	Add(ctx context.Context, targetID, userID string) error

	// Remove deletes a like
	Remove(ctx context.Context, targetID, userID string) error

	// Count returns the number of likes on targetID
	Count(ctx context.Context, targetID string) (int, error)
}

// SpaceRepository handles spaces and their membership
type SpaceRepository interface {
	// List retrieves all spaces
	List(ctx context.Context) ([]*models.Space, error)

	// Create inserts a space
	Create(ctx context.Context, createdBy string, in *models.SpaceCreate) (*models.Space, error)

	// MemberCounts counts members per space; spaces without members are absent
	MemberCounts(ctx context.Context, spaceIDs []string) (map[string]int, error)

	// MemberSpaceIDs returns the IDs of the spaces userID belongs to
	MemberSpaceIDs(ctx context.Context, userID string) ([]string, error)

	// IsMember reports whether userID belongs to spaceID
	IsMember(ctx context.Context, spaceID, userID string) (bool, error)

	// AddMember inserts a membership row
	AddMember(ctx context.Context, member *models.SpaceMember) error
}

// ThreadRepository handles space threads and their messages
type ThreadRepository interface {
	// ListBySpace retrieves a space's threads, newest first
	ListBySpace(ctx context.Context, spaceID string) ([]*models.SpaceThread, error)

	// Create inserts a thread
	Create(ctx context.Context, spaceID, createdBy string, in *models.SpaceThreadCreate) (*models.SpaceThread, error)

	// MessageCounts counts messages per thread; threads without messages are absent
	MessageCounts(ctx context.Context, threadIDs []string) (map[string]int, error)

	// ListMessages retrieves a thread's messages, oldest first
	ListMessages(ctx context.Context, threadID string) ([]*models.SpaceMessage, error)

	// CreateMessage inserts a message
	CreateMessage(ctx context.Context, threadID, userID string, in *models.SpaceMessageCreate) (*models.SpaceMessage, error)
}

// Repositories aggregates all repository interfaces
type Repositories struct {
	Users        UserRepository
	Courses      CourseRepository
	Reviews      ReviewRepository
	Enrollments  EnrollmentRepository
	Posts        PostRepository
	Comments     CommentRepository
	PostLikes    LikeRepository
	CommentLikes LikeRepository
	Spaces       SpaceRepository
	Threads      ThreadRepository
}
