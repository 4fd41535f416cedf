package handler

import (
	"context"
	"net/http"
	"testing"

	appidentity "github.com/facturo/backend/internal/application/identity"
	"github.com/facturo/backend/internal/domain/identity"
	"github.com/facturo/backend/internal/domain/shared"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockAuthService struct {
	mock.Mock
}

func (m *mockAuthService) SignUp(ctx context.Context, input appidentity.SignUpInput) (*appidentity.AuthResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*appidentity.AuthResult), args.Error(1)
}

func (m *mockAuthService) SignIn(ctx context.Context, input appidentity.SignInInput) (*appidentity.AuthResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*appidentity.AuthResult), args.Error(1)
}

func (m *mockAuthService) Refresh(ctx context.Context, input appidentity.RefreshInput) (*appidentity.Tokens, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*appidentity.Tokens), args.Error(1)
}

func (m *mockAuthService) SignOut(ctx context.Context, p identity.Principal, input appidentity.SignOutInput) error {
	return m.Called(ctx, p, input).Error(0)
}

func (m *mockAuthService) SignOutEverywhere(ctx context.Context, p identity.Principal, userID uuid.UUID) error {
	return m.Called(ctx, p, userID).Error(0)
}

func (m *mockAuthService) Me(ctx context.Context, p identity.Principal) (*appidentity.UserInfo, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*appidentity.UserInfo), args.Error(1)
}

func (m *mockAuthService) ChangePassword(ctx context.Context, p identity.Principal, input appidentity.ChangePasswordInput) error {
	return m.Called(ctx, p, input).Error(0)
}

func setupAuthRouter(p identity.Principal) (*gin.Engine, *mockAuthService) {
	svc := new(mockAuthService)
	h := NewAuthHandler(svc, nil)
	r := newTestRouter(p)
	r.POST("/auth/sign-up", h.SignUp)
	r.POST("/auth/sign-in", h.SignIn)
	r.POST("/auth/refresh", h.Refresh)
	r.POST("/auth/sign-out", h.SignOut)
	r.GET("/auth/me", h.Me)
	r.POST("/auth/password", h.ChangePassword)
	r.POST("/admin/users/:user_id/sign-out", h.SignOutEverywhere)
	return r, svc
}

func TestAuthHandler_SignUpAndSignIn(t *testing.T) {
	r, svc := setupAuthRouter(identity.Principal{})
	result := &appidentity.AuthResult{
		Tokens: appidentity.Tokens{AccessToken: "access", RefreshToken: "refresh", TokenType: "Bearer"},
		User:   appidentity.UserInfo{ID: uuid.New(), Email: "marie@example.com", Role: "user"},
	}
	svc.On("SignUp", mock.Anything, appidentity.SignUpInput{Email: "marie@example.com", Password: "correct-horse"}).Return(result, nil)
	svc.On("SignIn", mock.Anything, appidentity.SignInInput{Email: "marie@example.com", Password: "wrong"}).
		Return(nil, shared.NewDomainError("INVALID_CREDENTIALS", "Invalid email or password"))

	w := performRequest(r, http.MethodPost, "/auth/sign-up", map[string]string{"email": "marie@example.com", "password": "correct-horse"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var got appidentity.AuthResult
	decodeData(t, w, &got)
	assert.Equal(t, "access", got.AccessToken)
	assert.Equal(t, "marie@example.com", got.User.Email)

	w = performRequest(r, http.MethodPost, "/auth/sign-up", map[string]string{"email": "not-an-email", "password": "correct-horse"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = performRequest(r, http.MethodPost, "/auth/sign-up", map[string]string{"email": "marie@example.com", "password": "short"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = performRequest(r, http.MethodPost, "/auth/sign-in", map[string]string{"email": "marie@example.com", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "INVALID_CREDENTIALS", errorCode(t, w))
}

func TestAuthHandler_Refresh(t *testing.T) {
	r, svc := setupAuthRouter(identity.Principal{})
	svc.On("Refresh", mock.Anything, appidentity.RefreshInput{RefreshToken: "revoked"}).
		Return(nil, shared.NewDomainError("TOKEN_REVOKED", "Token has been revoked"))

	w := performRequest(r, http.MethodPost, "/auth/refresh", map[string]string{"refresh_token": "revoked"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "TOKEN_REVOKED", errorCode(t, w))

	w = performRequest(r, http.MethodPost, "/auth/refresh", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthHandler_SignOut(t *testing.T) {
	r, svc := setupAuthRouter(testUser)
	svc.On("SignOut", mock.Anything, testUser, appidentity.SignOutInput{}).Return(nil).Once()
	svc.On("SignOut", mock.Anything, testUser, appidentity.SignOutInput{RefreshToken: "refresh"}).Return(nil).Once()

	w := performRequest(r, http.MethodPost, "/auth/sign-out", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = performRequest(r, http.MethodPost, "/auth/sign-out", map[string]string{"refresh_token": "refresh"})
	assert.Equal(t, http.StatusNoContent, w.Code)
	svc.AssertExpectations(t)
}

func TestAuthHandler_MeAndPassword(t *testing.T) {
	r, svc := setupAuthRouter(testUser)
	svc.On("Me", mock.Anything, testUser).Return(&appidentity.UserInfo{ID: testUser.UserID, Email: testUser.Email, Role: "user"}, nil)
	svc.On("ChangePassword", mock.Anything, testUser, appidentity.ChangePasswordInput{OldPassword: "old-secret", NewPassword: "new-secret-1"}).Return(nil)

	w := performRequest(r, http.MethodGet, "/auth/me", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var me appidentity.UserInfo
	decodeData(t, w, &me)
	assert.Equal(t, testUser.UserID, me.ID)

	w = performRequest(r, http.MethodPost, "/auth/password", map[string]string{"old_password": "old-secret", "new_password": "new-secret-1"})
	assert.Equal(t, http.StatusNoContent, w.Code)
	svc.AssertExpectations(t)
}

func TestAuthHandler_SignOutEverywhere(t *testing.T) {
	r, svc := setupAuthRouter(testAdmin)
	target := uuid.New()
	svc.On("SignOutEverywhere", mock.Anything, testAdmin, target).Return(nil)

	w := performRequest(r, http.MethodPost, "/admin/users/"+target.String()+"/sign-out", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	svc.AssertExpectations(t)
}
