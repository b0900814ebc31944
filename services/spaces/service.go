package spaces

import (
	"context"
	"errors"

	"github.com/ShadyM97/LearnHub-Backend/models"
	"github.com/ShadyM97/LearnHub-Backend/repositories"
	"github.com/ShadyM97/LearnHub-Backend/services"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Join outcomes
const (
	MessageAlreadyMember = "Already a member"
	MessageJoined        = "Joined successfully"
)

// Service manages spaces, threads and thread messages
type Service struct {
	spaces    repositories.SpaceRepository
	threads   repositories.ThreadRepository
	users     repositories.UserRepository
	txManager repositories.TransactionManager
	logger    *zap.Logger
}

// NewService creates a new spaces service
func NewService(repos *repositories.Repositories, txManager repositories.TransactionManager, logger *zap.Logger) *Service {
	return &Service{
		spaces:    repos.Spaces,
		threads:   repos.Threads,
		users:     repos.Users,
		txManager: txManager,
		logger:    logger,
	}
}

// List returns every space with its member count and whether viewerID belongs to it.
// viewerID may be empty.
func (s *Service) List(ctx context.Context, viewerID string) ([]*models.Space, error) {
	spaces, err := s.spaces.List(ctx)
	if err != nil {
		return nil, services.WrapInternal("Database error", err)
	}
	if len(spaces) == 0 {
		return spaces, nil
	}

	ids := make([]string, 0, len(spaces))
	for _, sp := range spaces {
		ids = append(ids, sp.ID)
	}

	var (
		counts map[string]int
		joined []string
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		counts, err = s.spaces.MemberCounts(gctx, ids)
		return err
	})
	if viewerID != "" {
		g.Go(func() error {
			var err error
			joined, err = s.spaces.MemberSpaceIDs(gctx, viewerID)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, services.WrapInternal("Database error", err)
	}

	member := make(map[string]bool, len(joined))
	for _, id := range joined {
		member[id] = true
	}
	for _, sp := range spaces {
		sp.MemberCount = counts[sp.ID]
		sp.IsMember = member[sp.ID]
	}
	return spaces, nil
}

// Create stores a space and makes its creator the admin member
func (s *Service) Create(ctx context.Context, userID string, in *models.SpaceCreate) (*models.Space, error) {
	space, err := services.WithTransactionResult(ctx, s.txManager, func(ctx context.Context) (*models.Space, error) {
		space, err := s.spaces.Create(ctx, userID, in)
		if err != nil {
			return nil, err
		}
		if err := s.spaces.AddMember(ctx, &models.SpaceMember{
			SpaceID: space.ID,
			UserID:  userID,
			Role:    models.SpaceRoleAdmin,
		}); err != nil {
			return nil, err
		}
		return space, nil
	})
	if err != nil {
		return nil, services.WrapInternal("Failed to create space", err)
	}

	space.MemberCount = 1
	space.IsMember = true
	s.logger.Info("space created", zap.String("space_id", space.ID), zap.String("user_id", userID))
	return space, nil
}

// Join adds userID to a space as a member. Joining twice is not an error.
func (s *Service) Join(ctx context.Context, spaceID, userID string) (*models.JoinResult, error) {
	return services.WithTransactionResult(ctx, s.txManager, func(ctx context.Context) (*models.JoinResult, error) {
		member, err := s.spaces.IsMember(ctx, spaceID, userID)
		if err != nil {
			return nil, services.WrapInternal("Database error", err)
		}
		if member {
			return &models.JoinResult{Message: MessageAlreadyMember}, nil
		}

		if err := s.spaces.AddMember(ctx, &models.SpaceMember{
			SpaceID: spaceID,
			UserID:  userID,
			Role:    models.SpaceRoleMember,
		}); err != nil {
			return nil, services.WrapInternal("Failed to join space", err)
		}
		return &models.JoinResult{Message: MessageJoined}, nil
	})
}

// Threads returns the threads of a space, newest first
func (s *Service) Threads(ctx context.Context, spaceID string) ([]*models.SpaceThread, error) {
	threads, err := s.threads.ListBySpace(ctx, spaceID)
	if err != nil {
		return nil, services.WrapInternal("Database error", err)
	}
	if len(threads) == 0 {
		return threads, nil
	}

	ids := make([]string, 0, len(threads))
	authorIDs := make([]string, 0, len(threads))
	for _, t := range threads {
		ids = append(ids, t.ID)
		authorIDs = append(authorIDs, t.CreatedBy)
	}

	var (
		authors map[string]*models.User
		counts  map[string]int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		authors, err = s.users.GetByIDs(gctx, services.UniqueIDs(authorIDs))
		return err
	})
	g.Go(func() error {
		var err error
		counts, err = s.threads.MessageCounts(gctx, ids)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, services.WrapInternal("Database error", err)
	}

	for _, t := range threads {
		t.Users = authors[t.CreatedBy]
		t.MessageCount = counts[t.ID]
	}
	return threads, nil
}

// CreateThread opens a thread in a space
func (s *Service) CreateThread(ctx context.Context, spaceID, userID string, in *models.SpaceThreadCreate) (*models.SpaceThread, error) {
	thread, err := s.threads.Create(ctx, spaceID, userID, in)
	if err != nil {
		return nil, services.WrapInternal("Failed to create thread", err)
	}
	thread.Users = s.author(ctx, userID)
	thread.MessageCount = 0
	return thread, nil
}

// Messages returns the messages of a thread, oldest first
func (s *Service) Messages(ctx context.Context, threadID string) ([]*models.SpaceMessage, error) {
	messages, err := s.threads.ListMessages(ctx, threadID)
	if err != nil {
		return nil, services.WrapInternal("Database error", err)
	}
	if len(messages) == 0 {
		return messages, nil
	}

	authorIDs := make([]string, 0, len(messages))
	for _, m := range messages {
		authorIDs = append(authorIDs, m.UserID)
	}
	authors, err := s.users.GetByIDs(ctx, services.UniqueIDs(authorIDs))
	if err != nil {
		return nil, services.WrapInternal("Database error", err)
	}
	for _, m := range messages {
		m.Users = authors[m.UserID]
	}
	return messages, nil
}

// CreateMessage posts a message to a thread
func (s *Service) CreateMessage(ctx context.Context, threadID, userID string, in *models.SpaceMessageCreate) (*models.SpaceMessage, error) {
	message, err := s.threads.CreateMessage(ctx, threadID, userID, in)
	if err != nil {
		return nil, services.WrapInternal("Failed to send message", err)
	}
	message.Users = s.author(ctx, userID)
	return message, nil
}

func (s *Service) author(ctx context.Context, userID string) *models.User {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if !errors.Is(err, repositories.ErrNotFound) {
			s.logger.Warn("author lookup failed", zap.String("user_id", userID), zap.Error(err))
		}
		return nil
	}
	return user
}
