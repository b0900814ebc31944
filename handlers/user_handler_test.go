package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/ShadyM97/LearnHub-Backend/models"
	"github.com/ShadyM97/LearnHub-Backend/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockUserService is a mock implementation of UserService
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) GetOrCreate(ctx context.Context, userID, email string) (*models.User, error) {
	args := m.Called(ctx, userID, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) Update(ctx context.Context, userID string, update *models.UserUpdate) (*models.User, error) {
	args := m.Called(ctx, userID, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func TestUserHandler_GetMe(t *testing.T) {
	t.Run("returns profile, creating it on first access", func(t *testing.T) {
		svc := new(MockUserService)
		svc.On("GetOrCreate", mock.Anything, testUserID, "member@example.com").
			Return(models.NewStudentProfile(testUserID, "member@example.com"), nil)
		h := NewUserHandler(svc, zap.NewNop())

		w := serve(h.HandleGetMe, request{method: http.MethodGet, target: "/users/me", sub: testUserID})

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
		var user models.User
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &user))
		assert.Equal(t, testUserID, user.ID)
		assert.Equal(t, models.RoleStudent, user.Role)
		svc.AssertExpectations(t)
	})

	t.Run("401 without claims", func(t *testing.T) {
		svc := new(MockUserService)
		h := NewUserHandler(svc, zap.NewNop())

		w := serve(h.HandleGetMe, request{method: http.MethodGet, target: "/users/me"})

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		svc.AssertNotCalled(t, "GetOrCreate", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("profile creation failure is 500", func(t *testing.T) {
		svc := new(MockUserService)
		svc.On("GetOrCreate", mock.Anything, testUserID, mock.Anything).Return(nil, services.ErrProfileCreation)
		h := NewUserHandler(svc, zap.NewNop())

		w := serve(h.HandleGetMe, request{method: http.MethodGet, target: "/users/me", sub: testUserID})

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestUserHandler_UpdateMe(t *testing.T) {
	t.Run("applies partial update", func(t *testing.T) {
		svc := new(MockUserService)
		updated := models.NewStudentProfile(testUserID, "member@example.com")
		updated.Country = strPtr("CO")
		svc.On("Update", mock.Anything, testUserID, mock.MatchedBy(func(u *models.UserUpdate) bool {
			return u.Country != nil && *u.Country == "CO" && u.FirstName == nil
		})).Return(updated, nil)
		h := NewUserHandler(svc, zap.NewNop())

		w := serve(h.HandleUpdateMe, request{
			method: http.MethodPut,
			target: "/users/me",
			body:   `{"country":"CO"}`,
			sub:    testUserID,
		})

		require.Equal(t, http.StatusOK, w.Code)
		var user models.User
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &user))
		require.NotNil(t, user.Country)
		assert.Equal(t, "CO", *user.Country)
		svc.AssertExpectations(t)
	})

	t.Run("empty update is rejected", func(t *testing.T) {
		svc := new(MockUserService)
		svc.On("Update", mock.Anything, testUserID, mock.Anything).Return(nil, services.ErrNoUpdateData)
		h := NewUserHandler(svc, zap.NewNop())

		w := serve(h.HandleUpdateMe, request{method: http.MethodPut, target: "/users/me", body: `{}`, sub: testUserID})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "No data to update", decodeErrorBody(t, w).Message)
	})

	t.Run("malformed body", func(t *testing.T) {
		svc := new(MockUserService)
		h := NewUserHandler(svc, zap.NewNop())

		w := serve(h.HandleUpdateMe, request{method: http.MethodPut, target: "/users/me", body: `{"country":`, sub: testUserID})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Invalid request body", decodeErrorBody(t, w).Message)
		svc.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
	})
}
