package identity

import (
	"time"

	"github.com/facturo/backend/internal/domain/identity"
	"github.com/google/uuid"
)

// SignUpInput contains the input for account creation
// @Description Request body for creating an account
type SignUpInput struct {
	Email    string `json:"email" binding:"required,email,max=200" example:"marie@example.fr"`
	Password string `json:"password" binding:"required,min=8,max=72" example:"motdepasse-solide"`
	FullName string `json:"full_name" binding:"max=200" example:"Marie Dupont"`
}

// SignInInput contains the input for user sign-in
// @Description Request body for signing in
type SignInInput struct {
	Email    string `json:"email" binding:"required,email" example:"marie@example.fr"`
	Password string `json:"password" binding:"required" example:"motdepasse-solide"`
}

// RefreshInput contains the refresh token to exchange
// @Description Request body for rotating the token pair
type RefreshInput struct {
	RefreshToken string `json:"refresh_token" binding:"required" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
}

// SignOutInput optionally carries the refresh token so it is revoked too
// @Description Request body for signing out; the refresh token is optional
type SignOutInput struct {
	RefreshToken string `json:"refresh_token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
}

// ChangePasswordInput contains the input for password change
// @Description Request body for changing the password
type ChangePasswordInput struct {
	OldPassword string `json:"old_password" binding:"required" example:"motdepasse-solide"`
	NewPassword string `json:"new_password" binding:"required,min=8,max=72" example:"nouveau-motdepasse"`
}

// Tokens is an issued access and refresh token pair
type Tokens struct {
	AccessToken           string    `json:"access_token"`
	RefreshToken          string    `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time `json:"refresh_token_expires_at"`
	TokenType             string    `json:"token_type"`
}

// UserInfo is the account as shown to its owner
type UserInfo struct {
	ID           uuid.UUID  `json:"id"`
	Email        string     `json:"email"`
	FullName     string     `json:"full_name,omitempty"`
	Phone        string     `json:"phone,omitempty"`
	Role         string     `json:"role"`
	LastSignInAt *time.Time `json:"last_sign_in_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// AuthResult is returned by sign-up and sign-in
type AuthResult struct {
	Tokens
	User UserInfo `json:"user"`
}

func toUserInfo(u *identity.User, p *identity.Profile) UserInfo {
	info := UserInfo{
		ID:           u.ID,
		Email:        u.Email,
		Role:         string(identity.RoleUser),
		LastSignInAt: u.LastSignInAt,
		CreatedAt:    u.CreatedAt,
	}
	if p != nil {
		info.FullName = p.FullName
		info.Phone = p.Phone
		info.Role = string(p.Role)
	}
	return info
}
