package models

import (
	"time"

	"github.com/facturo/backend/internal/domain/identity"
	"github.com/google/uuid"
)

// UserModel is the persistence model for account credentials
type UserModel struct {
	AggregateModel
	Email        string `gorm:"type:varchar(200);not null;uniqueIndex"`
	PasswordHash string `gorm:"type:varchar(255);not null"`
	LastSignInAt *time.Time
}

// TableName returns the table name for GORM
func (UserModel) TableName() string {
	return "users"
}

// ToDomain converts the persistence model to a domain User
func (m *UserModel) ToDomain() *identity.User {
	return &identity.User{
		BaseAggregateRoot: m.ToAggregateRoot(),
		Email:             m.Email,
		PasswordHash:      m.PasswordHash,
		LastSignInAt:      m.LastSignInAt,
	}
}

// UserModelFromDomain creates a persistence model from a domain User
func UserModelFromDomain(u *identity.User) *UserModel {
	m := &UserModel{
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		LastSignInAt: u.LastSignInAt,
	}
	m.FromDomainAggregateRoot(u.BaseAggregateRoot)
	return m
}

// UserProfileModel is the persistence model for user profiles
type UserProfileModel struct {
	UserID    uuid.UUID     `gorm:"type:uuid;primary_key"`
	FullName  string        `gorm:"type:varchar(200)"`
	Phone     string        `gorm:"type:varchar(50)"`
	Role      identity.Role `gorm:"type:varchar(20);not null;default:'user'"`
	CreatedAt time.Time     `gorm:"not null"`
	UpdatedAt time.Time     `gorm:"not null"`
}

// TableName returns the table name for GORM
func (UserProfileModel) TableName() string {
	return "user_profiles"
}

// ToDomain converts the persistence model to a domain Profile
func (m *UserProfileModel) ToDomain() *identity.Profile {
	return &identity.Profile{
		UserID:    m.UserID,
		FullName:  m.FullName,
		Phone:     m.Phone,
		Role:      m.Role,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// UserProfileModelFromDomain creates a persistence model from a domain Profile
func UserProfileModelFromDomain(p *identity.Profile) *UserProfileModel {
	return &UserProfileModel{
		UserID:    p.UserID,
		FullName:  p.FullName,
		Phone:     p.Phone,
		Role:      p.Role,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}
