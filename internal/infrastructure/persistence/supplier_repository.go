package persistence

import (
	"context"

	"github.com/facturo/backend/internal/domain/partner"
	"github.com/facturo/backend/internal/domain/shared"
	"github.com/facturo/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormSupplierRepository implements partner.SupplierRepository using GORM
type GormSupplierRepository struct {
	db *gorm.DB
}

// NewGormSupplierRepository creates a new GormSupplierRepository
func NewGormSupplierRepository(db *gorm.DB) *GormSupplierRepository {
	return &GormSupplierRepository{db: db}
}

// FindByIDForUser finds a supplier owned by userID
func (r *GormSupplierRepository) FindByIDForUser(ctx context.Context, userID, id uuid.UUID) (*partner.Supplier, error) {
	var model models.SupplierModel
	if err := r.db.WithContext(ctx).
		Scopes(ownedBy(userID)).
		Where("id = ?", id).
		First(&model).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return model.ToDomain(), nil
}

// FindAllForUser lists suppliers of userID
func (r *GormSupplierRepository) FindAllForUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]partner.Supplier, error) {
	var rows []models.SupplierModel
	if err := r.db.WithContext(ctx).
		Scopes(ownedBy(userID), searchAny(filter.Search, "name", "contact_person", "email"), paginate(filter, supplierOrder)).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	suppliers := make([]partner.Supplier, len(rows))
	for i := range rows {
		suppliers[i] = *rows[i].ToDomain()
	}
	return suppliers, nil
}

// CountForUser counts suppliers matching the filter
func (r *GormSupplierRepository) CountForUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.SupplierModel{}).
		Scopes(ownedBy(userID), searchAny(filter.Search, "name", "contact_person", "email")).
		Count(&count).Error
	return count, err
}

// Save creates or updates a supplier
func (r *GormSupplierRepository) Save(ctx context.Context, supplier *partner.Supplier) error {
	return r.db.WithContext(ctx).Save(models.SupplierModelFromDomain(supplier)).Error
}

// DeleteForUser deletes a supplier owned by userID
func (r *GormSupplierRepository) DeleteForUser(ctx context.Context, userID, id uuid.UUID) error {
	return deleteOwned(r.db.WithContext(ctx), &models.SupplierModel{}, userID, id)
}

var _ partner.SupplierRepository = (*GormSupplierRepository)(nil)
