package users

import (
	"context"
	"errors"

	"github.com/ShadyM97/LearnHub-Backend/models"
	"github.com/ShadyM97/LearnHub-Backend/repositories"
	"github.com/ShadyM97/LearnHub-Backend/services"
	"go.uber.org/zap"
)

// Service manages the caller's own profile
type Service struct {
	users  repositories.UserRepository
	logger *zap.Logger
}

// NewService creates a new profile service
func NewService(users repositories.UserRepository, logger *zap.Logger) *Service {
	return &Service{
		users:  users,
		logger: logger,
	}
}

// GetOrCreate returns the profile of userID, creating a default student
// profile on first access.
func (s *Service) GetOrCreate(ctx context.Context, userID, email string) (*models.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return nil, services.WrapInternal("Database error", err)
	}

	created, err := s.users.Create(ctx, models.NewStudentProfile(userID, email))
	if err != nil {
		// A concurrent first request may have inserted the row.
		if existing, getErr := s.users.GetByID(ctx, userID); getErr == nil {
			return existing, nil
		}
		s.logger.Error("failed to create user profile", zap.String("user_id", userID), zap.Error(err))
		return nil, services.NewDomainError(services.ErrorTypeInternal, services.ErrProfileCreation.Message, err)
	}

	s.logger.Info("created default profile", zap.String("user_id", userID))
	return created, nil
}

// Update applies a partial update to the profile of userID
func (s *Service) Update(ctx context.Context, userID string, update *models.UserUpdate) (*models.User, error) {
	if update == nil || update.IsEmpty() {
		return nil, services.ErrNoUpdateData
	}

	user, err := s.users.Update(ctx, userID, update)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, services.ErrUserNotFound
		}
		return nil, services.WrapInternal("Database error", err)
	}
	return user, nil
}
