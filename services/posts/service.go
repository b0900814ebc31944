package posts

import (
	"context"
	"errors"
	"sort"

	"github.com/ShadyM97/LearnHub-Backend/models"
	"github.com/ShadyM97/LearnHub-Backend/repositories"
	"github.com/ShadyM97/LearnHub-Backend/services"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Publisher fans an event out to realtime subscribers
type Publisher interface {
	Publish(ctx context.Context, event interface{}) error
}

// Service implements the community feed
type Service struct {
	posts        repositories.PostRepository
	comments     repositories.CommentRepository
	postLikes    repositories.LikeRepository
	commentLikes repositories.LikeRepository
	users        repositories.UserRepository
	txManager    repositories.TransactionManager
	publisher    Publisher
	logger       *zap.Logger
}

// NewService creates a new feed service. publisher may be nil.
func NewService(repos *repositories.Repositories, txManager repositories.TransactionManager, publisher Publisher, logger *zap.Logger) *Service {
	return &Service{
		posts:        repos.Posts,
		comments:     repos.Comments,
		postLikes:    repos.PostLikes,
		commentLikes: repos.CommentLikes,
		users:        repos.Users,
		txManager:    txManager,
		publisher:    publisher,
		logger:       logger,
	}
}

// Feed returns every post, newest first, with authors, comments and likes.
// viewerID may be empty for anonymous callers; liked_by_me is then false.
func (s *Service) Feed(ctx context.Context, viewerID string) ([]*models.Post, error) {
	posts, err := s.posts.List(ctx)
	if err != nil {
		return nil, services.WrapInternal("Database error", err)
	}
	if len(posts) == 0 {
		return posts, nil
	}

	postIDs := make([]string, 0, len(posts))
	authorIDs := make([]string, 0, len(posts))
	for _, p := range posts {
		postIDs = append(postIDs, p.ID)
		authorIDs = append(authorIDs, p.UserID)
	}

	var (
		authors   map[string]*models.User
		comments  []*models.Comment
		postLikes []*models.Like
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		authors, err = s.users.GetByIDs(gctx, services.UniqueIDs(authorIDs))
		return err
	})
	g.Go(func() error {
		var err error
		comments, err = s.comments.ListByPostIDs(gctx, postIDs)
		return err
	})
	g.Go(func() error {
		var err error
		postLikes, err = s.postLikes.ListByTargetIDs(gctx, postIDs)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, services.WrapInternal("Database error", err)
	}

	commentAuthors, commentLikes, err := s.commentDetails(ctx, comments)
	if err != nil {
		return nil, services.WrapInternal("Database error", err)
	}

	commentsByPost := make(map[string][]*models.Comment, len(posts))
	for _, c := range comments {
		c.Users = commentAuthors[c.UserID]
		c.LikeCount, c.LikedByMe = tally(commentLikes[c.ID], viewerID)
		commentsByPost[c.PostID] = append(commentsByPost[c.PostID], c)
	}

	likesByPost := groupLikes(postLikes)
	for _, p := range posts {
		p.Users = authors[p.UserID]
		p.Comments = commentsByPost[p.ID]
		if p.Comments == nil {
			p.Comments = []*models.Comment{}
		}
		sort.SliceStable(p.Comments, func(i, j int) bool {
			return p.Comments[i].CreatedAt.Before(p.Comments[j].CreatedAt)
		})
		p.LikeCount, p.LikedByMe = tally(likesByPost[p.ID], viewerID)
	}
	return posts, nil
}

// commentDetails loads comment authors and comment likes. A comment-likes
// failure degrades to zero likes.
func (s *Service) commentDetails(ctx context.Context, comments []*models.Comment) (map[string]*models.User, map[string][]*models.Like, error) {
	if len(comments) == 0 {
		return map[string]*models.User{}, map[string][]*models.Like{}, nil
	}

	commentIDs := make([]string, 0, len(comments))
	authorIDs := make([]string, 0, len(comments))
	for _, c := range comments {
		commentIDs = append(commentIDs, c.ID)
		authorIDs = append(authorIDs, c.UserID)
	}

	var (
		authors map[string]*models.User
		likes   []*models.Like
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		authors, err = s.users.GetByIDs(gctx, services.UniqueIDs(authorIDs))
		return err
	})
	g.Go(func() error {
		var err error
		if likes, err = s.commentLikes.ListByTargetIDs(gctx, commentIDs); err != nil {
			s.logger.Warn("comment likes unavailable", zap.Error(err))
			likes = nil
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return authors, groupLikes(likes), nil
}

// Create stores a post and broadcasts it to realtime subscribers
func (s *Service) Create(ctx context.Context, userID string, in *models.PostCreate) (*models.Post, error) {
	post, err := s.posts.Create(ctx, userID, in)
	if err != nil {
		return nil, services.WrapInternal("Failed to create post", err)
	}

	post.Users = s.author(ctx, userID)
	post.Comments = []*models.Comment{}
	post.LikeCount = 0
	post.LikedByMe = false

	if s.publisher != nil {
		event := &models.PostEvent{Type: models.EventNewPost, Post: post}
		if err := s.publisher.Publish(ctx, event); err != nil {
			s.logger.Warn("failed to broadcast new post", zap.String("post_id", post.ID), zap.Error(err))
		}
	}
	return post, nil
}

// Update edits a post owned by userID
func (s *Service) Update(ctx context.Context, userID, postID string, update *models.PostUpdate) (*models.Post, error) {
	return services.WithTransactionResult(ctx, s.txManager, func(ctx context.Context) (*models.Post, error) {
		if err := s.checkOwner(ctx, userID, postID, services.ErrNotPostEditor); err != nil {
			return nil, err
		}
		if update == nil || update.IsEmpty() {
			return nil, services.ErrNoUpdateData
		}

		post, err := s.posts.Update(ctx, postID, update)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return nil, services.ErrPostNotFound
			}
			return nil, services.WrapInternal("Failed to update post", err)
		}
		return post, nil
	})
}

// Delete removes a post owned by userID
func (s *Service) Delete(ctx context.Context, userID, postID string) error {
	return services.WithTransaction(ctx, s.txManager, func(ctx context.Context) error {
		if err := s.checkOwner(ctx, userID, postID, services.ErrNotPostDeleter); err != nil {
			return err
		}
		if err := s.posts.Delete(ctx, postID); err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return services.ErrPostNotFound
			}
			return services.WrapInternal("Failed to delete post", err)
		}
		s.logger.Info("post deleted", zap.String("post_id", postID), zap.String("user_id", userID))
		return nil
	})
}

func (s *Service) checkOwner(ctx context.Context, userID, postID string, denied error) error {
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return services.ErrPostNotFound
		}
		return services.WrapInternal("Database error", err)
	}
	if post.UserID != userID {
		return denied
	}
	return nil
}

// TogglePostLike likes or unlikes a post for userID
func (s *Service) TogglePostLike(ctx context.Context, postID, userID string) (*models.LikeToggle, error) {
	return s.toggle(ctx, s.postLikes, postID, userID)
}

// ToggleCommentLike likes or unlikes a comment for userID
func (s *Service) ToggleCommentLike(ctx context.Context, commentID, userID string) (*models.LikeToggle, error) {
	return s.toggle(ctx, s.commentLikes, commentID, userID)
}

func (s *Service) toggle(ctx context.Context, likes repositories.LikeRepository, targetID, userID string) (*models.LikeToggle, error) {
	result, err := services.WithTransactionResult(ctx, s.txManager, func(ctx context.Context) (*models.LikeToggle, error) {
		liked, err := likes.Exists(ctx, targetID, userID)
		if err != nil {
			return nil, err
		}

		if liked {
			err = likes.Remove(ctx, targetID, userID)
		} else {
			err = likes.Add(ctx, targetID, userID)
		}
		if err != nil {
			return nil, err
		}

		count, err := likes.Count(ctx, targetID)
		if err != nil {
			return nil, err
		}
		return &models.LikeToggle{Liked: !liked, LikeCount: count}, nil
	})
	if err != nil {
		return nil, services.WrapInternal("Failed to toggle like", err)
	}
	return result, nil
}

// AddComment stores a comment on postID
func (s *Service) AddComment(ctx context.Context, postID, userID string, in *models.CommentCreate) (*models.Comment, error) {
	if _, err := s.posts.GetByID(ctx, postID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, services.ErrPostNotFound
		}
		return nil, services.WrapInternal("Database error", err)
	}

	comment, err := s.comments.Create(ctx, postID, userID, in)
	if err != nil {
		return nil, services.WrapInternal("Failed to add comment", err)
	}

	comment.Users = s.author(ctx, userID)
	comment.LikeCount = 0
	comment.LikedByMe = false
	return comment, nil
}

// author returns the profile of userID, nil when it cannot be loaded
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

func groupLikes(likes []*models.Like) map[string][]*models.Like {
	grouped := make(map[string][]*models.Like)
	for _, l := range likes {
		grouped[l.TargetID] = append(grouped[l.TargetID], l)
	}
	return grouped
}

// tally returns the like count and whether viewerID is among the likers
func tally(likes []*models.Like, viewerID string) (int, bool) {
	if viewerID == "" {
		return len(likes), false
	}
	for _, l := range likes {
		if l.UserID == viewerID {
			return len(likes), true
		}
	}
	return len(likes), false
}
