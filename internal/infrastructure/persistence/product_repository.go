package persistence

import (
	"context"

	"github.com/facturo/backend/internal/domain/catalog"
	"github.com/facturo/backend/internal/domain/shared"
	"github.com/facturo/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormProductRepository implements catalog.ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// FindByIDForUser finds a product owned by userID
func (r *GormProductRepository) FindByIDForUser(ctx context.Context, userID, id uuid.UUID) (*catalog.Product, error) {
	var model models.ProductModel
	if err := r.db.WithContext(ctx).
		Scopes(ownedBy(userID)).
		Where("id = ?", id).
		First(&model).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return model.ToDomain(), nil
}

// FindAllForUser lists products of userID
func (r *GormProductRepository) FindAllForUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]catalog.Product, error) {
	var rows []models.ProductModel
	if err := r.db.WithContext(ctx).
		Scopes(ownedBy(userID), r.filters(filter), paginate(filter, productOrder)).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	products := make([]catalog.Product, len(rows))
	for i := range rows {
		products[i] = *rows[i].ToDomain()
	}
	return products, nil
}

// CountForUser counts products matching the filter
func (r *GormProductRepository) CountForUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.ProductModel{}).
		Scopes(ownedBy(userID), r.filters(filter)).
		Count(&count).Error
	return count, err
}

// Save creates or updates a product
func (r *GormProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	return r.db.WithContext(ctx).Save(models.ProductModelFromDomain(product)).Error
}

// DeleteForUser deletes a product owned by userID
func (r *GormProductRepository) DeleteForUser(ctx context.Context, userID, id uuid.UUID) error {
	return deleteOwned(r.db.WithContext(ctx), &models.ProductModel{}, userID, id)
}

func (r *GormProductRepository) filters(filter shared.Filter) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		db = searchAny(filter.Search, "name", "description")(db)
		if t, ok := filter.Filters["product_type"]; ok {
			db = db.Where("product_type = ?", t)
		}
		return db
	}
}

var _ catalog.ProductRepository = (*GormProductRepository)(nil)
