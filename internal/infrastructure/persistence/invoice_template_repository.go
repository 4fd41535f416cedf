package persistence

import (
	"context"

	"github.com/facturo/backend/internal/domain/printing"
	"github.com/facturo/backend/internal/domain/shared"
	"github.com/facturo/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormInvoiceTemplateRepository implements printing.InvoiceTemplateRepository using GORM
type GormInvoiceTemplateRepository struct {
	db *gorm.DB
}

// NewGormInvoiceTemplateRepository creates a new GormInvoiceTemplateRepository
func NewGormInvoiceTemplateRepository(db *gorm.DB) *GormInvoiceTemplateRepository {
	return &GormInvoiceTemplateRepository{db: db}
}

// FindByIDForUser finds a template owned by userID
func (r *GormInvoiceTemplateRepository) FindByIDForUser(ctx context.Context, userID, id uuid.UUID) (*printing.InvoiceTemplate, error) {
	var model models.InvoiceTemplateModel
	if err := r.db.WithContext(ctx).Scopes(ownedBy(userID)).Where("id = ?", id).First(&model).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return model.ToDomain(), nil
}

// FindAllForUser lists the user's templates, default first
func (r *GormInvoiceTemplateRepository) FindAllForUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]printing.InvoiceTemplate, error) {
	var rows []models.InvoiceTemplateModel
	if err := r.db.WithContext(ctx).
		Scopes(ownedBy(userID), searchAny(filter.Search, "name", "description")).
		Order("is_default DESC").
		Scopes(paginate(filter, templateOrder)).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	templates := make([]printing.InvoiceTemplate, len(rows))
	for i := range rows {
		templates[i] = *rows[i].ToDomain()
	}
	return templates, nil
}

// CountForUser counts the user's templates
func (r *GormInvoiceTemplateRepository) CountForUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.InvoiceTemplateModel{}).
		Scopes(ownedBy(userID), searchAny(filter.Search, "name", "description")).
		Count(&count).Error
	return count, err
}

// FindDefault returns the user's default template
func (r *GormInvoiceTemplateRepository) FindDefault(ctx context.Context, userID uuid.UUID) (*printing.InvoiceTemplate, error) {
	var model models.InvoiceTemplateModel
	if err := r.db.WithContext(ctx).
		Scopes(ownedBy(userID)).
		Where("is_default = ?", true).
		First(&model).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return model.ToDomain(), nil
}

// Save creates or updates a template. Saving a default template clears the
// flag on the user's other templates in the same transaction.
func (r *GormInvoiceTemplateRepository) Save(ctx context.Context, template *printing.InvoiceTemplate) error {
	if template.IsDefault {
		return r.SetDefault(ctx, template)
	}
	return r.db.WithContext(ctx).Save(models.InvoiceTemplateModelFromDomain(template)).Error
}

// SetDefault clears every default of the user, then saves template as the default
func (r *GormInvoiceTemplateRepository) SetDefault(ctx context.Context, template *printing.InvoiceTemplate) error {
	template.SetAsDefault()
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.InvoiceTemplateModel{}).
			Scopes(ownedBy(template.UserID)).
			Where("is_default = ? AND id <> ?", true, template.ID).
			Update("is_default", false).Error; err != nil {
			return err
		}
		return tx.Save(models.InvoiceTemplateModelFromDomain(template)).Error
	})
}

// DeleteForUser deletes a template owned by userID
func (r *GormInvoiceTemplateRepository) DeleteForUser(ctx context.Context, userID, id uuid.UUID) error {
	return deleteOwned(r.db.WithContext(ctx), &models.InvoiceTemplateModel{}, userID, id)
}

var _ printing.InvoiceTemplateRepository = (*GormInvoiceTemplateRepository)(nil)
