package handler

import (
	"context"

	appidentity "github.com/facturo/backend/internal/application/identity"
	"github.com/facturo/backend/internal/domain/identity"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AuthService is the account API used by AuthHandler
type AuthService interface {
	SignUp(ctx context.Context, input appidentity.SignUpInput) (*appidentity.AuthResult, error)
	SignIn(ctx context.Context, input appidentity.SignInInput) (*appidentity.AuthResult, error)
	Refresh(ctx context.Context, input appidentity.RefreshInput) (*appidentity.Tokens, error)
	SignOut(ctx context.Context, p identity.Principal, input appidentity.SignOutInput) error
	SignOutEverywhere(ctx context.Context, p identity.Principal, userID uuid.UUID) error
	Me(ctx context.Context, p identity.Principal) (*appidentity.UserInfo, error)
	ChangePassword(ctx context.Context, p identity.Principal, input appidentity.ChangePasswordInput) error
}

// AuthHandler handles sign-up, sign-in and session endpoints
type AuthHandler struct {
	BaseHandler
	authService AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService AuthService, log *zap.Logger) *AuthHandler {
	return &AuthHandler{
		BaseHandler: newBaseHandler(log),
		authService: authService,
	}
}

// SignUp godoc
// @Summary      Create an account
// @Description  Creates an account and returns its first token pair
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body appidentity.SignUpInput true "Account"
// @Success      201 {object} dto.Response{data=appidentity.AuthResult}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      429 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /auth/sign-up [post]
func (h *AuthHandler) SignUp(c *gin.Context) {
	var req appidentity.SignUpInput
	if !h.bindJSON(c, &req) {
		return
	}
	result, err := h.authService.SignUp(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, result)
}

// SignIn godoc
// @Summary      Sign in
// @Description  Exchanges credentials for a token pair
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body appidentity.SignInInput true "Credentials"
// @Success      200 {object} dto.Response{data=appidentity.AuthResult}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      429 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /auth/sign-in [post]
func (h *AuthHandler) SignIn(c *gin.Context) {
	var req appidentity.SignInInput
	if !h.bindJSON(c, &req) {
		return
	}
	result, err := h.authService.SignIn(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Refresh godoc
// @Summary      Refresh the token pair
// @Description  Rotates the token pair
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body appidentity.RefreshInput true "Refresh token"
// @Success      200 {object} dto.Response{data=appidentity.Tokens}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      429 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req appidentity.RefreshInput
	if !h.bindJSON(c, &req) {
		return
	}
	tokens, err := h.authService.Refresh(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, tokens)
}

// SignOut godoc
// @Summary      Sign out
// @Description  Revokes the access token, and the refresh token when sent
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body appidentity.SignOutInput false "Refresh token to revoke"
// @Success      204
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /auth/sign-out [post]
func (h *AuthHandler) SignOut(c *gin.Context) {
	var req appidentity.SignOutInput
	// The body is optional.
	if c.Request.ContentLength > 0 && !h.bindJSON(c, &req) {
		return
	}
	if err := h.authService.SignOut(c.Request.Context(), principal(c), req); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Me godoc
// @Summary      Get current user
// @Description  Returns the caller's account
// @Tags         auth
// @Produce      json
// @Success      200 {object} dto.Response{data=appidentity.UserInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	info, err := h.authService.Me(c.Request.Context(), principal(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, info)
}

// ChangePassword godoc
// @Summary      Change password
// @Description  Changes the caller's password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body appidentity.ChangePasswordInput true "Old and new password"
// @Success      204
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /auth/password [post]
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req appidentity.ChangePasswordInput
	if !h.bindJSON(c, &req) {
		return
	}
	if err := h.authService.ChangePassword(c.Request.Context(), principal(c), req); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// SignOutEverywhere godoc
// @Summary      Revoke every token of a user
// @Description  Revokes every token of a user
// @Tags         admin
// @Produce      json
// @Param        user_id path string true "User ID" format(uuid)
// @Success      204
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/users/{user_id}/sign-out [post]
func (h *AuthHandler) SignOutEverywhere(c *gin.Context) {
	userID, ok := h.pathID(c, "user_id")
	if !ok {
		return
	}
	if err := h.authService.SignOutEverywhere(c.Request.Context(), principal(c), userID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
