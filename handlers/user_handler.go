package handlers

import (
	"context"
	"net/http"

	"github.com/ShadyM97/LearnHub-Backend/middleware"
	"github.com/ShadyM97/LearnHub-Backend/models"
	"github.com/ShadyM97/LearnHub-Backend/utils"
	"go.uber.org/zap"
)

// UserService defines the profile operations used by the handler
type UserService interface {
	GetOrCreate(ctx context.Context, userID, email string) (*models.User, error)
	Update(ctx context.Context, userID string, update *models.UserUpdate) (*models.User, error)
}

// UserHandler handles profile requests
type UserHandler struct {
	users  UserService
	logger *zap.Logger
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(users UserService, logger *zap.Logger) *UserHandler {
	return &UserHandler{
		users:  users,
		logger: logger,
	}
}

// HandleGetMe handles GET /users/me. A profile is created on first access.
func (h *UserHandler) HandleGetMe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	claims := middleware.GetClaimsFromContext(ctx)
	if claims == nil {
		_ = utils.WriteUnauthorized(w, "Authentication required")
		return
	}

	user, err := h.users.GetOrCreate(ctx, claims.UserID(), claims.Email)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	_ = utils.WriteJSON(w, http.StatusOK, user)
}

// HandleUpdateMe handles PUT /users/me
func (h *UserHandler) HandleUpdateMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	var req models.UserUpdate
	if !decodeBody(w, r, &req, h.logger) {
		return
	}

	user, err := h.users.Update(r.Context(), userID, &req)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	h.logger.Info("profile updated",
		zap.String("request_id", middleware.GetRequestIDFromContext(r.Context())),
		zap.String("user_id", userID))
	_ = utils.WriteJSON(w, http.StatusOK, user)
}
