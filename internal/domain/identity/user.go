package identity

import (
	"regexp"
	"strings"
	"time"

	"github.com/facturo/backend/internal/domain/shared"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// HashCost is the bcrypt cost used for new password hashes
var HashCost = 12

var (
	emailRegex    = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	letterRegex   = regexp.MustCompile(`[a-zA-Z]`)
	numberRegex   = regexp.MustCompile(`[0-9]`)
	errBadSignIn  = shared.NewDomainError("INVALID_CREDENTIALS", "Invalid email or password")
	maxEmailChars = 200
)

// ErrInvalidCredentials is returned for any failed sign-in, without saying which part was wrong
var ErrInvalidCredentials = errBadSignIn

// User holds the credentials of an account. Profile data lives in Profile.
type User struct {
	shared.BaseAggregateRoot
	Email        string
	PasswordHash string
	LastSignInAt *time.Time
}

// NewUser creates a user with a hashed password
func NewUser(email, password string) (*User, error) {
	email = NormalizeEmail(email)
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}
	hash, err := hashPassword(password)
	if err != nil {
		return nil, shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}

	return &User{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Email:             email,
		PasswordHash:      hash,
	}, nil
}

// VerifyPassword verifies if the provided password matches
func (u *User) VerifyPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// ChangePassword replaces the password after checking the current one
func (u *User) ChangePassword(oldPassword, newPassword string) error {
	if !u.VerifyPassword(oldPassword) {
		return shared.NewDomainError("INVALID_PASSWORD", "Current password is incorrect")
	}
	if err := validatePassword(newPassword); err != nil {
		return err
	}
	hash, err := hashPassword(newPassword)
	if err != nil {
		return shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}
	u.PasswordHash = hash
	u.Touch()
	u.IncrementVersion()
	return nil
}

// RecordSignIn stamps a successful sign-in
func (u *User) RecordSignIn(at time.Time) {
	u.LastSignInAt = &at
	u.Touch()
}

// NormalizeEmail lower-cases and trims an email address
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateEmail(email string) error {
	if email == "" {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot be empty")
	}
	if len(email) > maxEmailChars {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot exceed 200 characters")
	}
	if !emailRegex.MatchString(email) {
		return shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < 8 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password must be at least 8 characters")
	}
	if len(password) > 72 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password cannot exceed 72 characters")
	}
	if !letterRegex.MatchString(password) || !numberRegex.MatchString(password) {
		return shared.NewDomainError("INVALID_PASSWORD", "Password must contain at least one letter and one number")
	}
	return nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), HashCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Role is the authorization level of an account
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// IsValid checks if the role is known
func (r Role) IsValid() bool {
	return r == RoleUser || r == RoleAdmin
}

// Profile is the public side of an account, one per user
type Profile struct {
	UserID    uuid.UUID
	FullName  string
	Phone     string
	Role      Role
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewProfile creates a regular-user profile
func NewProfile(userID uuid.UUID, fullName string) *Profile {
	now := time.Now()
	return &Profile{
		UserID:    userID,
		FullName:  strings.TrimSpace(fullName),
		Role:      RoleUser,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Update replaces the editable profile fields
func (p *Profile) Update(fullName, phone string) error {
	fullName = strings.TrimSpace(fullName)
	if len(fullName) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Name cannot exceed 200 characters")
	}
	p.FullName = fullName
	p.Phone = strings.TrimSpace(phone)
	p.UpdatedAt = time.Now()
	return nil
}

// Promote grants the admin role
func (p *Profile) Promote() {
	p.Role = RoleAdmin
	p.UpdatedAt = time.Now()
}
