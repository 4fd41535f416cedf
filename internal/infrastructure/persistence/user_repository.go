package persistence

import (
	"context"

	"github.com/facturo/backend/internal/domain/identity"
	"github.com/facturo/backend/internal/domain/shared"
	"github.com/facturo/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormUserRepository implements identity.UserRepository using GORM
type GormUserRepository struct {
	db *gorm.DB
}

// NewGormUserRepository creates a new GormUserRepository
func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

// Create inserts the user and its profile in one transaction
func (r *GormUserRepository) Create(ctx context.Context, user *identity.User, profile *identity.Profile) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(models.UserModelFromDomain(user)).Error; err != nil {
			if isUniqueViolation(err) {
				return shared.NewDomainError("ALREADY_EXISTS", "Email is already registered")
			}
			return err
		}
		return tx.Create(models.UserProfileModelFromDomain(profile)).Error
	})
}

// Update saves credential changes and sign-in stamps
func (r *GormUserRepository) Update(ctx context.Context, user *identity.User) error {
	result := r.db.WithContext(ctx).
		Model(&models.UserModel{}).
		Where("id = ?", user.ID).
		Updates(map[string]any{
			"password_hash":   user.PasswordHash,
			"last_sign_in_at": user.LastSignInAt,
			"version":         user.Version,
			"updated_at":      user.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindByID finds a user by ID
func (r *GormUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	var model models.UserModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return model.ToDomain(), nil
}

// FindByEmail finds a user by normalized email
func (r *GormUserRepository) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	var model models.UserModel
	if err := r.db.WithContext(ctx).
		Where("email = ?", identity.NormalizeEmail(email)).
		First(&model).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return model.ToDomain(), nil
}

// ExistsByEmail checks if an email is already registered
func (r *GormUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.UserModel{}).
		Where("email = ?", identity.NormalizeEmail(email)).
		Count(&count).Error
	return count > 0, err
}

// FindProfile returns the profile of userID
func (r *GormUserRepository) FindProfile(ctx context.Context, userID uuid.UUID) (*identity.Profile, error) {
	var model models.UserProfileModel
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&model).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return model.ToDomain(), nil
}

// SaveProfile updates a profile
func (r *GormUserRepository) SaveProfile(ctx context.Context, profile *identity.Profile) error {
	return r.db.WithContext(ctx).Save(models.UserProfileModelFromDomain(profile)).Error
}

// RoleOf implements identity.RoleLookup from user_profiles
func (r *GormUserRepository) RoleOf(ctx context.Context, userID uuid.UUID) (identity.Role, error) {
	var roles []string
	if err := r.db.WithContext(ctx).Model(&models.UserProfileModel{}).
		Where("user_id = ?", userID).
		Limit(1).
		Pluck("role", &roles).Error; err != nil {
		return "", err
	}
	if len(roles) == 0 {
		return "", shared.ErrNotFound
	}
	return identity.Role(roles[0]), nil
}

var (
	_ identity.UserRepository = (*GormUserRepository)(nil)
	_ identity.RoleLookup     = (*GormUserRepository)(nil)
)
