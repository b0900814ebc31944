package handlers

import (
	"context"
	"net/http"

	"github.com/ShadyM97/LearnHub-Backend/middleware"
	"github.com/ShadyM97/LearnHub-Backend/models"
	"github.com/ShadyM97/LearnHub-Backend/utils"
	"go.uber.org/zap"
)

// PostService defines the feed operations used by the handler
type PostService interface {
	Feed(ctx context.Context, viewerID string) ([]*models.Post, error)
	Create(ctx context.Context, userID string, in *models.PostCreate) (*models.Post, error)
	Update(ctx context.Context, userID, postID string, update *models.PostUpdate) (*models.Post, error)
	Delete(ctx context.Context, userID, postID string) error
	TogglePostLike(ctx context.Context, postID, userID string) (*models.LikeToggle, error)
	ToggleCommentLike(ctx context.Context, commentID, userID string) (*models.LikeToggle, error)
	AddComment(ctx context.Context, postID, userID string, in *models.CommentCreate) (*models.Comment, error)
}

// LinkPreviewer resolves link metadata
type LinkPreviewer interface {
	Preview(ctx context.Context, url string) *models.LinkPreview
}

// PostHandler handles the community feed
type PostHandler struct {
	posts   PostService
	preview LinkPreviewer
	ws      http.Handler
	logger  *zap.Logger
}

// NewPostHandler creates a new PostHandler. ws serves the realtime upgrade.
func NewPostHandler(posts PostService, preview LinkPreviewer, ws http.Handler, logger *zap.Logger) *PostHandler {
	return &PostHandler{
		posts:   posts,
		preview: preview,
		ws:      ws,
		logger:  logger,
	}
}

// HandleFeed handles GET /posts. Anonymous viewers get liked_by_me=false.
func (h *PostHandler) HandleFeed(w http.ResponseWriter, r *http.Request) {
	viewerID := middleware.GetUserIDFromContext(r.Context())

	posts, err := h.posts.Feed(r.Context(), viewerID)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	_ = utils.WriteJSON(w, http.StatusOK, posts)
}

// HandleCreate handles POST /posts
func (h *PostHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	var req models.PostCreate
	if !decodeBody(w, r, &req, h.logger) {
		return
	}

	post, err := h.posts.Create(r.Context(), userID, &req)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	h.logger.Info("post created",
		zap.String("request_id", middleware.GetRequestIDFromContext(r.Context())),
		zap.String("post_id", post.ID))
	_ = utils.WriteJSON(w, http.StatusCreated, post)
}

// HandleUpdate handles PUT /posts/{postID}
func (h *PostHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	postID, ok := pathID(w, r, "postID")
	if !ok {
		return
	}

	var req models.PostUpdate
	if !decodeBody(w, r, &req, h.logger) {
		return
	}

	post, err := h.posts.Update(r.Context(), userID, postID, &req)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	_ = utils.WriteJSON(w, http.StatusOK, post)
}

// HandleDelete handles DELETE /posts/{postID}
func (h *PostHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	postID, ok := pathID(w, r, "postID")
	if !ok {
		return
	}

	if err := h.posts.Delete(r.Context(), userID, postID); err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	h.logger.Info("post deleted",
		zap.String("request_id", middleware.GetRequestIDFromContext(r.Context())),
		zap.String("post_id", postID))
	_ = utils.WriteMessage(w, "Post deleted successfully")
}

// HandleLikePost handles POST /posts/{postID}/like
func (h *PostHandler) HandleLikePost(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	postID, ok := pathID(w, r, "postID")
	if !ok {
		return
	}

	result, err := h.posts.TogglePostLike(r.Context(), postID, userID)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	_ = utils.WriteJSON(w, http.StatusOK, result)
}

// HandleLikeComment handles POST /posts/comments/{commentID}/like
func (h *PostHandler) HandleLikeComment(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	commentID, ok := pathID(w, r, "commentID")
	if !ok {
		return
	}

	result, err := h.posts.ToggleCommentLike(r.Context(), commentID, userID)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	_ = utils.WriteJSON(w, http.StatusOK, result)
}

// HandleAddComment handles POST /posts/{postID}/comments
func (h *PostHandler) HandleAddComment(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	postID, ok := pathID(w, r, "postID")
	if !ok {
		return
	}

	var req models.CommentCreate
	if !decodeBody(w, r, &req, h.logger) {
		return
	}

	comment, err := h.posts.AddComment(r.Context(), postID, userID, &req)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	_ = utils.WriteJSON(w, http.StatusCreated, comment)
}

// HandleLinkPreview handles GET /posts/utils/link-preview?url=
func (h *PostHandler) HandleLinkPreview(w http.ResponseWriter, r *http.Request) {
	target := r.URL.Query().Get("url")
	if target == "" {
		_ = utils.WriteBadRequest(w, "URL is required", nil)
		return
	}
	_ = utils.WriteJSON(w, http.StatusOK, h.preview.Preview(r.Context(), target))
}

// HandleWebSocket handles GET /posts/ws
func (h *PostHandler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	h.ws.ServeHTTP(w, r)
}
