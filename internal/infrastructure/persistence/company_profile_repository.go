package persistence

import (
	"context"

	"github.com/facturo/backend/internal/domain/company"
	"github.com/facturo/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormCompanyProfileRepository implements company.ProfileRepository using GORM
type GormCompanyProfileRepository struct {
	db *gorm.DB
}

// NewGormCompanyProfileRepository creates a new GormCompanyProfileRepository
func NewGormCompanyProfileRepository(db *gorm.DB) *GormCompanyProfileRepository {
	return &GormCompanyProfileRepository{db: db}
}

// FindByUser returns the user's profile
func (r *GormCompanyProfileRepository) FindByUser(ctx context.Context, userID uuid.UUID) (*company.Profile, error) {
	var model models.CompanyProfileModel
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&model).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return model.ToDomain(), nil
}

// Upsert inserts the profile or replaces the existing one of the same user.
// The stored row keeps its original ID, which is written back to profile.
func (r *GormCompanyProfileRepository) Upsert(ctx context.Context, profile *company.Profile) error {
	model := models.CompanyProfileModelFromDomain(profile)
	db := r.db.WithContext(ctx)
	if err := db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"name", "address", "phone", "email", "website", "tax_id",
			"logo_url", "signature_url", "stamp_url", "version", "updated_at",
		}),
	}).Create(model).Error; err != nil {
		return err
	}

	var stored models.CompanyProfileModel
	if err := db.Select("id", "created_at").Where("user_id = ?", profile.UserID).First(&stored).Error; err != nil {
		return translateNotFound(err)
	}
	profile.ID = stored.ID
	profile.CreatedAt = stored.CreatedAt
	return nil
}

var _ company.ProfileRepository = (*GormCompanyProfileRepository)(nil)
