package postgres

import (
	"github.com/ShadyM97/LearnHub-Backend/config"
	"github.com/ShadyM97/LearnHub-Backend/repositories"
	"go.uber.org/zap"
)

// RepositoryFactory creates and manages all repositories
type RepositoryFactory struct {
	db     *DB
	logger *zap.Logger
}

// NewRepositoryFactory opens the database and creates a new repository factory
func NewRepositoryFactory(cfg *config.Config, logger *zap.Logger) (*RepositoryFactory, error) {
	db, err := NewDB(cfg.Database, logger)
	if err != nil {
		return nil, err
	}
	return NewRepositoryFactoryWithDB(db, logger), nil
}

// NewRepositoryFactoryWithDB wraps an already opened connection
func NewRepositoryFactoryWithDB(db *DB, logger *zap.Logger) *RepositoryFactory {
	return &RepositoryFactory{db: db, logger: logger}
}

// NewRepositories creates all repository instances
func (f *RepositoryFactory) NewRepositories() *repositories.Repositories {
	return &repositories.Repositories{
		Users:        NewUserRepository(f.db, f.logger),
		Courses:      NewCourseRepository(f.db, f.logger),
		Reviews:      NewReviewRepository(f.db, f.logger),
		Enrollments:  NewEnrollmentRepository(f.db, f.logger),
		Posts:        NewPostRepository(f.db, f.logger),
		Comments:     NewCommentRepository(f.db, f.logger),
		PostLikes:    NewPostLikeRepository(f.db, f.logger),
		CommentLikes: NewCommentLikeRepository(f.db, f.logger),
		Spaces:       NewSpaceRepository(f.db, f.logger),
		Threads:      NewThreadRepository(f.db, f.logger),
	}
}

// GetTransactionManager returns a transaction manager
func (f *RepositoryFactory) GetTransactionManager() repositories.TransactionManager {
	return NewTransactionManager(f.db, f.logger)
}

// GetDB returns the database connection
func (f *RepositoryFactory) GetDB() *DB {
	return f.db
}

// Close closes the database connection
func (f *RepositoryFactory) Close() error {
	return f.db.Close()
}
