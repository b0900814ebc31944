package posts

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ShadyM97/LearnHub-Backend/models"
	"github.com/ShadyM97/LearnHub-Backend/repositories"
	"github.com/ShadyM97/LearnHub-Backend/repositories/mocks"
	"github.com/ShadyM97/LearnHub-Backend/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingPublisher struct {
	events []interface{}
	err    error
}

func (p *recordingPublisher) Publish(ctx context.Context, event interface{}) error {
	p.events = append(p.events, event)
	return p.err
}

type fixture struct {
	posts        *mocks.PostRepository
	comments     *mocks.CommentRepository
	postLikes    *mocks.LikeRepository
	commentLikes *mocks.LikeRepository
	users        *mocks.UserRepository
	tx           *mocks.TxManager
	publisher    *recordingPublisher
	svc          *Service
}

func newFixture() *fixture {
	f := &fixture{
		posts:        new(mocks.PostRepository),
		comments:     new(mocks.CommentRepository),
		postLikes:    new(mocks.LikeRepository),
		commentLikes: new(mocks.LikeRepository),
		users:        new(mocks.UserRepository),
		tx:           new(mocks.TxManager),
		publisher:    &recordingPublisher{},
	}
	f.svc = NewService(&repositories.Repositories{
		Posts:        f.posts,
		Comments:     f.comments,
		PostLikes:    f.postLikes,
		CommentLikes: f.commentLikes,
		Users:        f.users,
	}, f.tx, f.publisher, zap.NewNop())
	return f
}

func (f *fixture) seedFeed(commentLikesErr error) {
	t0 := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	f.posts.On("List", mock.Anything).Return([]*models.Post{
		{ID: "p-2", UserID: "u-1", CreatedAt: t0.Add(time.Hour)},
		{ID: "p-1", UserID: "u-2", CreatedAt: t0},
	}, nil)
	f.users.On("GetByIDs", mock.Anything, []string{"u-1", "u-2"}).Return(map[string]*models.User{
		"u-1": {ID: "u-1"},
		"u-2": {ID: "u-2"},
	}, nil)
	f.comments.On("ListByPostIDs", mock.Anything, []string{"p-2", "p-1"}).Return([]*models.Comment{
		{ID: "c-2", PostID: "p-2", UserID: "u-3", CreatedAt: t0.Add(3 * time.Hour)},
		{ID: "c-1", PostID: "p-2", UserID: "u-2", CreatedAt: t0.Add(2 * time.Hour)},
	}, nil)
	f.postLikes.On("ListByTargetIDs", mock.Anything, []string{"p-2", "p-1"}).Return([]*models.Like{
		{TargetID: "p-2", UserID: "u-1"},
		{TargetID: "p-2", UserID: "u-9"},
	}, nil)
	f.users.On("GetByIDs", mock.Anything, []string{"u-3", "u-2"}).Return(map[string]*models.User{
		"u-3": {ID: "u-3"},
		"u-2": {ID: "u-2"},
	}, nil)
	if commentLikesErr != nil {
		f.commentLikes.On("ListByTargetIDs", mock.Anything, mock.Anything).Return(nil, commentLikesErr)
	} else {
		f.commentLikes.On("ListByTargetIDs", mock.Anything, mock.Anything).Return([]*models.Like{
			{TargetID: "c-1", UserID: "u-1"},
		}, nil)
	}
}

func TestService_Feed(t *testing.T) {
	ctx := context.Background()

	t.Run("signed-in viewer", func(t *testing.T) {
		f := newFixture()
		f.seedFeed(nil)

		feed, err := f.svc.Feed(ctx, "u-1")
		require.NoError(t, err)
		require.Len(t, feed, 2)

		top := feed[0]
		assert.Equal(t, "p-2", top.ID)
		assert.Equal(t, "u-1", top.Users.ID)
		assert.Equal(t, 2, top.LikeCount)
		assert.True(t, top.LikedByMe)

		require.Len(t, top.Comments, 2)
		assert.Equal(t, "c-1", top.Comments[0].ID, "comments are oldest first")
		assert.Equal(t, 1, top.Comments[0].LikeCount)
		assert.True(t, top.Comments[0].LikedByMe)
		assert.Equal(t, "u-3", top.Comments[1].Users.ID)

		assert.NotNil(t, feed[1].Comments)
		assert.Empty(t, feed[1].Comments)
		assert.Zero(t, feed[1].LikeCount)
	})

	t.Run("anonymous viewer never likes", func(t *testing.T) {
		f := newFixture()
		f.seedFeed(nil)

		feed, err := f.svc.Feed(ctx, "")
		require.NoError(t, err)
		for _, p := range feed {
			assert.False(t, p.LikedByMe)
			for _, c := range p.Comments {
				assert.False(t, c.LikedByMe)
			}
		}
		assert.Equal(t, 2, feed[0].LikeCount)
	})

	t.Run("comment likes failure degrades to zero", func(t *testing.T) {
		f := newFixture()
		f.seedFeed(errors.New(`relation "comment_likes" does not exist`))

		feed, err := f.svc.Feed(ctx, "u-1")
		require.NoError(t, err)
		for _, c := range feed[0].Comments {
			assert.Zero(t, c.LikeCount)
		}
		assert.Equal(t, 2, feed[0].LikeCount)
	})

	t.Run("post likes failure fails the feed", func(t *testing.T) {
		f := newFixture()
		f.posts.On("List", mock.Anything).Return([]*models.Post{{ID: "p-1", UserID: "u-1"}}, nil)
		f.users.On("GetByIDs", mock.Anything, mock.Anything).Return(map[string]*models.User{}, nil)
		f.comments.On("ListByPostIDs", mock.Anything, mock.Anything).Return([]*models.Comment{}, nil)
		f.postLikes.On("ListByTargetIDs", mock.Anything, mock.Anything).Return(nil, errors.New("boom"))

		_, err := f.svc.Feed(ctx, "u-1")
		assert.True(t, services.IsInternalError(err))
	})
}

func TestService_Create(t *testing.T) {
	ctx := context.Background()
	content := "hello"
	in := &models.PostCreate{Content: &content}

	t.Run("broadcasts the enriched post", func(t *testing.T) {
		f := newFixture()
		f.posts.On("Create", ctx, "u-1", in).Return(&models.Post{ID: "p-1", UserID: "u-1", Content: &content}, nil)
		f.users.On("GetByID", ctx, "u-1").Return(&models.User{ID: "u-1"}, nil)

		post, err := f.svc.Create(ctx, "u-1", in)
		require.NoError(t, err)
		assert.Equal(t, "u-1", post.Users.ID)
		assert.Empty(t, post.Comments)

		require.Len(t, f.publisher.events, 1)
		event := f.publisher.events[0].(*models.PostEvent)
		assert.Equal(t, models.EventNewPost, event.Type)
		assert.Same(t, post, event.Post)
	})

	t.Run("broadcast failure does not fail the request", func(t *testing.T) {
		f := newFixture()
		f.publisher.err = errors.New("redis down")
		f.posts.On("Create", ctx, "u-1", in).Return(&models.Post{ID: "p-1", UserID: "u-1"}, nil)
		f.users.On("GetByID", ctx, "u-1").Return(nil, repositories.ErrNotFound)

		post, err := f.svc.Create(ctx, "u-1", in)
		require.NoError(t, err)
		assert.Nil(t, post.Users)
	})
}

func TestService_UpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	content := "edited"

	t.Run("update by someone else", func(t *testing.T) {
		f := newFixture()
		f.posts.On("GetByID", ctx, "p-1").Return(&models.Post{ID: "p-1", UserID: "owner"}, nil)

		_, err := f.svc.Update(ctx, "intruder", "p-1", &models.PostUpdate{Content: &content})
		assert.Equal(t, "Not authorized to edit this post", services.PublicMessage(err, ""))
		assert.True(t, services.IsForbiddenError(err))
	})

	t.Run("update of a missing post", func(t *testing.T) {
		f := newFixture()
		f.posts.On("GetByID", ctx, "p-1").Return(nil, repositories.ErrNotFound)

		_, err := f.svc.Update(ctx, "owner", "p-1", &models.PostUpdate{Content: &content})
		assert.True(t, services.IsNotFoundError(err))
	})

	t.Run("owner updates", func(t *testing.T) {
		f := newFixture()
		f.posts.On("GetByID", ctx, "p-1").Return(&models.Post{ID: "p-1", UserID: "owner"}, nil)
		f.posts.On("Update", ctx, "p-1", mock.Anything).Return(&models.Post{ID: "p-1", Content: &content}, nil)

		post, err := f.svc.Update(ctx, "owner", "p-1", &models.PostUpdate{Content: &content})
		require.NoError(t, err)
		assert.Equal(t, "edited", *post.Content)
	})

	t.Run("delete by someone else", func(t *testing.T) {
		f := newFixture()
		f.posts.On("GetByID", ctx, "p-1").Return(&models.Post{ID: "p-1", UserID: "owner"}, nil)

		err := f.svc.Delete(ctx, "intruder", "p-1")
		assert.Equal(t, "Not authorized to delete this post", services.PublicMessage(err, ""))
		f.posts.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("owner deletes", func(t *testing.T) {
		f := newFixture()
		f.posts.On("GetByID", ctx, "p-1").Return(&models.Post{ID: "p-1", UserID: "owner"}, nil)
		f.posts.On("Delete", ctx, "p-1").Return(nil)

		require.NoError(t, f.svc.Delete(ctx, "owner", "p-1"))
		assert.Equal(t, 1, f.tx.Committed)
	})
}

func TestService_ToggleLike(t *testing.T) {
	ctx := context.Background()

	t.Run("likes when not yet liked", func(t *testing.T) {
		f := newFixture()
		f.postLikes.On("Exists", ctx, "p-1", "u-1").Return(false, nil)
		f.postLikes.On("Add", ctx, "p-1", "u-1").Return(nil)
		f.postLikes.On("Count", ctx, "p-1").Return(1, nil)

		res, err := f.svc.TogglePostLike(ctx, "p-1", "u-1")
		require.NoError(t, err)
		assert.Equal(t, &models.LikeToggle{Liked: true, LikeCount: 1}, res)
	})

	t.Run("unlikes a liked comment", func(t *testing.T) {
		f := newFixture()
		f.commentLikes.On("Exists", ctx, "c-1", "u-1").Return(true, nil)
		f.commentLikes.On("Remove", ctx, "c-1", "u-1").Return(nil)
		f.commentLikes.On("Count", ctx, "c-1").Return(0, nil)

		res, err := f.svc.ToggleCommentLike(ctx, "c-1", "u-1")
		require.NoError(t, err)
		assert.False(t, res.Liked)
		assert.Zero(t, res.LikeCount)
		f.postLikes.AssertNotCalled(t, "Exists", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("failure rolls back", func(t *testing.T) {
		f := newFixture()
		f.postLikes.On("Exists", ctx, "p-1", "u-1").Return(false, nil)
		f.postLikes.On("Add", ctx, "p-1", "u-1").Return(errors.New("fk violation"))

		_, err := f.svc.TogglePostLike(ctx, "p-1", "u-1")
		assert.True(t, services.IsInternalError(err))
		assert.Equal(t, 1, f.tx.RolledBack)
	})
}

func TestService_AddComment(t *testing.T) {
	ctx := context.Background()
	in := &models.CommentCreate{Content: "nice"}

	t.Run("missing post", func(t *testing.T) {
		f := newFixture()
		f.posts.On("GetByID", ctx, "p-1").Return(nil, repositories.ErrNotFound)

		_, err := f.svc.AddComment(ctx, "p-1", "u-1", in)
		assert.ErrorIs(t, err, services.ErrPostNotFound)
	})

	t.Run("adds with author", func(t *testing.T) {
		f := newFixture()
		f.posts.On("GetByID", ctx, "p-1").Return(&models.Post{ID: "p-1"}, nil)
		f.comments.On("Create", ctx, "p-1", "u-1", in).Return(&models.Comment{ID: "c-1", PostID: "p-1", UserID: "u-1"}, nil)
		f.users.On("GetByID", ctx, "u-1").Return(&models.User{ID: "u-1"}, nil)

		comment, err := f.svc.AddComment(ctx, "p-1", "u-1", in)
		require.NoError(t, err)
		assert.Equal(t, "u-1", comment.Users.ID)
		assert.False(t, comment.LikedByMe)
	})
}
