package handlers

import (
	"context"
	"net/http"

	"github.com/ShadyM97/LearnHub-Backend/middleware"
	"github.com/ShadyM97/LearnHub-Backend/models"
	"github.com/ShadyM97/LearnHub-Backend/utils"
	"go.uber.org/zap"
)

// SpaceService defines the community space operations used by the handler
type SpaceService interface {
	List(ctx context.Context, viewerID string) ([]*models.Space, error)
	Create(ctx context.Context, userID string, in *models.SpaceCreate) (*models.Space, error)
	Join(ctx context.Context, spaceID, userID string) (*models.JoinResult, error)
	Threads(ctx context.Context, spaceID string) ([]*models.SpaceThread, error)
	CreateThread(ctx context.Context, spaceID, userID string, in *models.SpaceThreadCreate) (*models.SpaceThread, error)
	Messages(ctx context.Context, threadID string) ([]*models.SpaceMessage, error)
	CreateMessage(ctx context.Context, threadID, userID string, in *models.SpaceMessageCreate) (*models.SpaceMessage, error)
}

// SpaceHandler handles spaces, threads and messages
type SpaceHandler struct {
	spaces SpaceService
	logger *zap.Logger
}

// NewSpaceHandler creates a new SpaceHandler
func NewSpaceHandler(spaces SpaceService, logger *zap.Logger) *SpaceHandler {
	return &SpaceHandler{
		spaces: spaces,
		logger: logger,
	}
}

// HandleList handles GET /spaces
func (h *SpaceHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	spaces, err := h.spaces.List(r.Context(), userID)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	_ = utils.WriteJSON(w, http.StatusOK, spaces)
}

// HandleCreate handles POST /spaces
func (h *SpaceHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	var req models.SpaceCreate
	if !decodeBody(w, r, &req, h.logger) {
		return
	}

	space, err := h.spaces.Create(r.Context(), userID, &req)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	h.logger.Info("space created",
		zap.String("request_id", middleware.GetRequestIDFromContext(r.Context())),
		zap.String("space_id", space.ID))
	_ = utils.WriteJSON(w, http.StatusCreated, space)
}

// HandleJoin handles POST /spaces/{spaceID}/join
func (h *SpaceHandler) HandleJoin(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	spaceID, ok := pathID(w, r, "spaceID")
	if !ok {
		return
	}

	result, err := h.spaces.Join(r.Context(), spaceID, userID)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	_ = utils.WriteJSON(w, http.StatusOK, result)
}

// HandleThreads handles GET /spaces/{spaceID}/threads
func (h *SpaceHandler) HandleThreads(w http.ResponseWriter, r *http.Request) {
	spaceID, ok := pathID(w, r, "spaceID")
	if !ok {
		return
	}

	threads, err := h.spaces.Threads(r.Context(), spaceID)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	_ = utils.WriteJSON(w, http.StatusOK, threads)
}

// HandleCreateThread handles POST /spaces/{spaceID}/threads
func (h *SpaceHandler) HandleCreateThread(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	spaceID, ok := pathID(w, r, "spaceID")
	if !ok {
		return
	}

	var req models.SpaceThreadCreate
	if !decodeBody(w, r, &req, h.logger) {
		return
	}

	thread, err := h.spaces.CreateThread(r.Context(), spaceID, userID, &req)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	_ = utils.WriteJSON(w, http.StatusCreated, thread)
}

// HandleMessages handles GET /spaces/threads/{threadID}/messages
func (h *SpaceHandler) HandleMessages(w http.ResponseWriter, r *http.Request) {
	threadID, ok := pathID(w, r, "threadID")
	if !ok {
		return
	}

	messages, err := h.spaces.Messages(r.Context(), threadID)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	_ = utils.WriteJSON(w, http.StatusOK, messages)
}

// HandleCreateMessage handles POST /spaces/threads/{threadID}/messages
func (h *SpaceHandler) HandleCreateMessage(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	threadID, ok := pathID(w, r, "threadID")
	if !ok {
		return
	}

	var req models.SpaceMessageCreate
	if !decodeBody(w, r, &req, h.logger) {
		return
	}

	message, err := h.spaces.CreateMessage(r.Context(), threadID, userID, &req)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	_ = utils.WriteJSON(w, http.StatusCreated, message)
}
