package persistence

import (
	"context"

	"github.com/facturo/backend/internal/domain/partner"
	"github.com/facturo/backend/internal/domain/shared"
	"github.com/facturo/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormClientRepository implements partner.ClientRepository using GORM
type GormClientRepository struct {
	db *gorm.DB
}

// NewGormClientRepository creates a new GormClientRepository
func NewGormClientRepository(db *gorm.DB) *GormClientRepository {
	return &GormClientRepository{db: db}
}

// FindByIDForUser finds a client owned by userID
func (r *GormClientRepository) FindByIDForUser(ctx context.Context, userID, id uuid.UUID) (*partner.Client, error) {
	var model models.ClientModel
	if err := r.db.WithContext(ctx).
		Scopes(ownedBy(userID)).
		Where("id = ?", id).
		First(&model).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return model.ToDomain(), nil
}

// FindAllForUser lists clients of userID
func (r *GormClientRepository) FindAllForUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]partner.Client, error) {
	var rows []models.ClientModel
	if err := r.db.WithContext(ctx).
		Scopes(ownedBy(userID), searchAny(filter.Search, "name", "email", "phone"), paginate(filter, clientOrder)).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	clients := make([]partner.Client, len(rows))
	for i := range rows {
		clients[i] = *rows[i].ToDomain()
	}
	return clients, nil
}

// CountForUser counts clients matching the filter
func (r *GormClientRepository) CountForUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.ClientModel{}).
		Scopes(ownedBy(userID), searchAny(filter.Search, "name", "email", "phone")).
		Count(&count).Error
	return count, err
}

// Save creates or updates a client
func (r *GormClientRepository) Save(ctx context.Context, client *partner.Client) error {
	return r.db.WithContext(ctx).Save(models.ClientModelFromDomain(client)).Error
}

// DeleteForUser deletes a client owned by userID
func (r *GormClientRepository) DeleteForUser(ctx context.Context, userID, id uuid.UUID) error {
	return deleteOwned(r.db.WithContext(ctx), &models.ClientModel{}, userID, id)
}

// ExistsForUser checks if a client exists for userID
func (r *GormClientRepository) ExistsForUser(ctx context.Context, userID, id uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.ClientModel{}).
		Scopes(ownedBy(userID)).
		Where("id = ?", id).
		Count(&count).Error
	return count > 0, err
}

var _ partner.ClientRepository = (*GormClientRepository)(nil)
