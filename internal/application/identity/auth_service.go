// Package identity signs users up and in, and turns access tokens into the
// Principal every other service receives.
package identity

import (
	"context"
	"errors"
	"slices"
	"time"

	"github.com/facturo/backend/internal/domain/identity"
	"github.com/facturo/backend/internal/domain/shared"
	"github.com/facturo/backend/internal/infrastructure/auth"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RoleCache resolves roles and forgets them on sign-out
type RoleCache interface {
	identity.RoleLookup
	Evict(ctx context.Context, userID uuid.UUID) error
}

// AuthServiceConfig contains configuration for the auth service
type AuthServiceConfig struct {
	// AdminEmails are promoted to admin at sign-up
	AdminEmails []string
}

// AuthService handles authentication operations
type AuthService struct {
	userRepo   identity.UserRepository
	roles      RoleCache
	jwtService *auth.JWTService
	blacklist  auth.TokenBlacklist
	config     AuthServiceConfig
	now        func() time.Time
	logger     *zap.Logger
}

// NewAuthService creates a new authentication service
func NewAuthService(
	userRepo identity.UserRepository,
	roles RoleCache,
	jwtService *auth.JWTService,
	blacklist auth.TokenBlacklist,
	config AuthServiceConfig,
	logger *zap.Logger,
) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	admins := make([]string, 0, len(config.AdminEmails))
	for _, email := range config.AdminEmails {
		admins = append(admins, identity.NormalizeEmail(email))
	}
	config.AdminEmails = admins
	return &AuthService{
		userRepo:   userRepo,
		roles:      roles,
		jwtService: jwtService,
		blacklist:  blacklist,
		config:     config,
		now:        time.Now,
		logger:     logger,
	}
}

var (
	errTokenExpired = shared.NewDomainError("TOKEN_EXPIRED", "Token has expired")
	errTokenInvalid = shared.NewDomainError("TOKEN_INVALID", "Invalid token")
	errTokenRevoked = shared.NewDomainError("TOKEN_REVOKED", "Token has been revoked")
	errMaxRefresh   = shared.NewDomainError("TOKEN_MAX_REFRESH", "Maximum token refresh count exceeded. Please sign in again")
)

// SignUp creates an account and signs it in
func (s *AuthService) SignUp(ctx context.Context, input SignUpInput) (*AuthResult, error) {
	exists, err := s.userRepo.ExistsByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Email is already registered")
	}

	user, err := identity.NewUser(input.Email, input.Password)
	if err != nil {
		return nil, err
	}
	profile := identity.NewProfile(user.ID, input.FullName)
	if slices.Contains(s.config.AdminEmails, user.Email) {
		profile.Promote()
	}
	now := s.now()
	user.RecordSignIn(now)

	if err := s.userRepo.Create(ctx, user, profile); err != nil {
		return nil, err
	}
	s.logger.Info("User signed up",
		zap.String("user_id", user.ID.String()),
		zap.String("role", string(profile.Role)))

	return s.issue(user, profile)
}

// SignIn verifies credentials and returns a token pair. Unknown emails and
// wrong passwords fail the same way.
func (s *AuthService) SignIn(ctx context.Context, input SignInInput) (*AuthResult, error) {
	user, err := s.userRepo.FindByEmail(ctx, input.Email)
	if err != nil {
		if shared.IsNotFound(err) {
			s.logger.Warn("Sign-in for unknown email")
			return nil, identity.ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.VerifyPassword(input.Password) {
		s.logger.Warn("Invalid password attempt", zap.String("user_id", user.ID.String()))
		return nil, identity.ErrInvalidCredentials
	}

	user.RecordSignIn(s.now())
	if err := s.userRepo.Update(ctx, user); err != nil {
		// the sign-in itself succeeded
		s.logger.Error("Failed to record sign-in", zap.Error(err))
	}
	profile, err := s.userRepo.FindProfile(ctx, user.ID)
	if err != nil && !shared.IsNotFound(err) {
		return nil, err
	}

	s.logger.Info("User signed in", zap.String("user_id", user.ID.String()))
	return s.issue(user, profile)
}

func (s *AuthService) issue(user *identity.User, profile *identity.Profile) (*AuthResult, error) {
	pair, err := s.jwtService.GenerateTokenPair(auth.Subject{UserID: user.ID, Email: user.Email})
	if err != nil {
		s.logger.Error("Failed to generate token pair", zap.Error(err))
		return nil, err
	}
	return &AuthResult{Tokens: toTokens(pair), User: toUserInfo(user, profile)}, nil
}

// Refresh exchanges a refresh token for a new pair. The used refresh token
// is revoked so it cannot be replayed.
func (s *AuthService) Refresh(ctx context.Context, input RefreshInput) (*Tokens, error) {
	claims, err := s.jwtService.ValidateRefreshToken(input.RefreshToken)
	if err != nil {
		return nil, mapTokenError(err)
	}
	if err := s.checkRevoked(ctx, claims); err != nil {
		return nil, err
	}
	userID := claims.UserUUID()
	if _, err := s.userRepo.FindByID(ctx, userID); err != nil {
		if shared.IsNotFound(err) {
			return nil, errTokenInvalid
		}
		return nil, err
	}

	pair, used, err := s.jwtService.RefreshTokenPair(input.RefreshToken)
	if err != nil {
		return nil, mapTokenError(err)
	}
	if err := s.blacklist.AddToBlacklist(ctx, used.ID, used.RemainingTTL()); err != nil {
		s.logger.Warn("Failed to revoke used refresh token", zap.Error(err))
	}

	s.logger.Info("Token refreshed", zap.String("user_id", userID.String()))
	tokens := toTokens(pair)
	return &tokens, nil
}

// SignOut revokes the caller's access token, and the refresh token when
// given, then drops the cached role.
func (s *AuthService) SignOut(ctx context.Context, p identity.Principal, input SignOutInput) error {
	if p.TokenID != "" {
		if err := s.blacklist.AddToBlacklist(ctx, p.TokenID, s.jwtService.AccessTTL()); err != nil {
			return err
		}
	}
	if input.RefreshToken != "" {
		claims, err := s.jwtService.ValidateRefreshToken(input.RefreshToken)
		if err == nil && claims.UserID == p.UserID.String() {
			if err := s.blacklist.AddToBlacklist(ctx, claims.ID, claims.RemainingTTL()); err != nil {
				return err
			}
		}
	}
	if err := s.roles.Evict(ctx, p.UserID); err != nil {
		s.logger.Warn("Failed to evict cached role", zap.Error(err))
	}

	s.logger.Info("User signed out", zap.String("user_id", p.UserID.String()))
	return nil
}

// SignOutEverywhere revokes every token issued to userID so far. Admin only.
func (s *AuthService) SignOutEverywhere(ctx context.Context, p identity.Principal, userID uuid.UUID) error {
	if err := p.RequireAdmin(); err != nil {
		return err
	}
	ttl := s.jwtService.AccessTTL()
	if refresh := s.jwtService.RefreshTTL(); refresh > ttl {
		ttl = refresh
	}
	if err := s.blacklist.AddUserTokensToBlacklist(ctx, userID.String(), ttl); err != nil {
		return err
	}
	if err := s.roles.Evict(ctx, userID); err != nil {
		s.logger.Warn("Failed to evict cached role", zap.Error(err))
	}
	s.logger.Info("User sessions revoked",
		zap.String("user_id", userID.String()),
		zap.String("admin_id", p.UserID.String()))
	return nil
}

// Authenticate turns an access token into a Principal. The role comes from
// the role cache, not from the token.
func (s *AuthService) Authenticate(ctx context.Context, accessToken string) (identity.Principal, error) {
	claims, err := s.jwtService.ValidateAccessToken(accessToken)
	if err != nil {
		return identity.Principal{}, mapTokenError(err)
	}
	if err := s.checkRevoked(ctx, claims); err != nil {
		return identity.Principal{}, err
	}
	userID := claims.UserUUID()
	role, err := s.roles.RoleOf(ctx, userID)
	if err != nil {
		if shared.IsNotFound(err) {
			return identity.Principal{}, errTokenInvalid
		}
		return identity.Principal{}, err
	}
	return identity.Principal{
		UserID:  userID,
		Email:   claims.Email,
		Role:    role,
		TokenID: claims.ID,
	}, nil
}

func (s *AuthService) checkRevoked(ctx context.Context, claims *auth.Claims) error {
	revoked, err := s.blacklist.IsBlacklisted(ctx, claims.ID)
	if err != nil {
		return err
	}
	if revoked {
		return errTokenRevoked
	}
	invalidated, err := s.blacklist.IsUserTokenInvalidated(ctx, claims.UserID, claims.IssuedAtTime())
	if err != nil {
		return err
	}
	if invalidated {
		return errTokenRevoked
	}
	return nil
}

// Me returns the caller's account
func (s *AuthService) Me(ctx context.Context, p identity.Principal) (*UserInfo, error) {
	user, err := s.userRepo.FindByID(ctx, p.UserID)
	if err != nil {
		return nil, err
	}
	profile, err := s.userRepo.FindProfile(ctx, p.UserID)
	if err != nil && !shared.IsNotFound(err) {
		return nil, err
	}
	info := toUserInfo(user, profile)
	return &info, nil
}

// ChangePassword changes the caller's password
func (s *AuthService) ChangePassword(ctx context.Context, p identity.Principal, input ChangePasswordInput) error {
	user, err := s.userRepo.FindByID(ctx, p.UserID)
	if err != nil {
		return err
	}
	if err := user.ChangePassword(input.OldPassword, input.NewPassword); err != nil {
		return err
	}
	if err := s.userRepo.Update(ctx, user); err != nil {
		return err
	}
	s.logger.Info("User password changed", zap.String("user_id", p.UserID.String()))
	return nil
}

func mapTokenError(err error) error {
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		return errTokenExpired
	case errors.Is(err, auth.ErrMaxRefreshExceeded):
		return errMaxRefresh
	default:
		return errTokenInvalid
	}
}

func toTokens(pair *auth.TokenPair) Tokens {
	return Tokens{
		AccessToken:           pair.AccessToken,
		RefreshToken:          pair.RefreshToken,
		AccessTokenExpiresAt:  pair.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: pair.RefreshTokenExpiresAt,
		TokenType:             pair.TokenType,
	}
}
