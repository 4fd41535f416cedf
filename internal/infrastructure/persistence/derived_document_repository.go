package persistence

import (
	"context"

	"github.com/facturo/backend/internal/domain/invoicing"
	"github.com/facturo/backend/internal/domain/shared"
	"github.com/facturo/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func derivedFilters(filter shared.Filter) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		db = searchAny(filter.Search, "number")(db)
		if invoiceID, ok := filter.Filters["invoice_id"]; ok {
			db = db.Where("invoice_id = ?", invoiceID)
		}
		return db
	}
}

// GormQuoteRepository implements invoicing.QuoteRepository using GORM
type GormQuoteRepository struct {
	db *gorm.DB
}

// NewGormQuoteRepository creates a new GormQuoteRepository
func NewGormQuoteRepository(db *gorm.DB) *GormQuoteRepository {
	return &GormQuoteRepository{db: db}
}

// FindByIDForUser finds a quote owned by userID
func (r *GormQuoteRepository) FindByIDForUser(ctx context.Context, userID, id uuid.UUID) (*invoicing.Quote, error) {
	var model models.QuoteModel
	if err := r.db.WithContext(ctx).Scopes(ownedBy(userID)).Where("id = ?", id).First(&model).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return model.ToDomain(), nil
}

// FindAllForUser lists quotes of userID
func (r *GormQuoteRepository) FindAllForUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]invoicing.Quote, error) {
	var rows []models.QuoteModel
	if err := r.db.WithContext(ctx).
		Scopes(ownedBy(userID), derivedFilters(filter), paginate(filter, derivedOrder)).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	quotes := make([]invoicing.Quote, len(rows))
	for i := range rows {
		quotes[i] = *rows[i].ToDomain()
	}
	return quotes, nil
}

// CountForUser counts quotes matching the filter
func (r *GormQuoteRepository) CountForUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.QuoteModel{}).
		Scopes(ownedBy(userID), derivedFilters(filter)).
		Count(&count).Error
	return count, err
}

// Create inserts a quote; a duplicate number is reported as invoicing.ErrDuplicateNumber
func (r *GormQuoteRepository) Create(ctx context.Context, quote *invoicing.Quote) error {
	if err := r.db.WithContext(ctx).Create(models.QuoteModelFromDomain(quote)).Error; err != nil {
		if isUniqueViolation(err) {
			return invoicing.ErrDuplicateNumber
		}
		return err
	}
	return nil
}

// DeleteForUser deletes a quote owned by userID
func (r *GormQuoteRepository) DeleteForUser(ctx context.Context, userID, id uuid.UUID) error {
	return deleteOwned(r.db.WithContext(ctx), &models.QuoteModel{}, userID, id)
}

// ListNumbers returns every quote number of the user starting with prefix
func (r *GormQuoteRepository) ListNumbers(ctx context.Context, userID uuid.UUID, prefix string) ([]string, error) {
	return listNumbers(r.db.WithContext(ctx).Model(&models.QuoteModel{}), userID, prefix)
}

// GormDeliveryNoteRepository implements invoicing.DeliveryNoteRepository using GORM
type GormDeliveryNoteRepository struct {
	db *gorm.DB
}

// NewGormDeliveryNoteRepository creates a new GormDeliveryNoteRepository
func NewGormDeliveryNoteRepository(db *gorm.DB) *GormDeliveryNoteRepository {
	return &GormDeliveryNoteRepository{db: db}
}

// FindByIDForUser finds a delivery note owned by userID
func (r *GormDeliveryNoteRepository) FindByIDForUser(ctx context.Context, userID, id uuid.UUID) (*invoicing.DeliveryNote, error) {
	var model models.DeliveryNoteModel
	if err := r.db.WithContext(ctx).Scopes(ownedBy(userID)).Where("id = ?", id).First(&model).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return model.ToDomain(), nil
}

// FindAllForUser lists delivery notes of userID
func (r *GormDeliveryNoteRepository) FindAllForUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]invoicing.DeliveryNote, error) {
	var rows []models.DeliveryNoteModel
	if err := r.db.WithContext(ctx).
		Scopes(ownedBy(userID), derivedFilters(filter), paginate(filter, derivedOrder)).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	notes := make([]invoicing.DeliveryNote, len(rows))
	for i := range rows {
		notes[i] = *rows[i].ToDomain()
	}
	return notes, nil
}

// CountForUser counts delivery notes matching the filter
func (r *GormDeliveryNoteRepository) CountForUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.DeliveryNoteModel{}).
		Scopes(ownedBy(userID), derivedFilters(filter)).
		Count(&count).Error
	return count, err
}

// Create inserts a delivery note; a duplicate number is reported as invoicing.ErrDuplicateNumber
func (r *GormDeliveryNoteRepository) Create(ctx context.Context, note *invoicing.DeliveryNote) error {
	if err := r.db.WithContext(ctx).Create(models.DeliveryNoteModelFromDomain(note)).Error; err != nil {
		if isUniqueViolation(err) {
			return invoicing.ErrDuplicateNumber
		}
		return err
	}
	return nil
}

// DeleteForUser deletes a delivery note owned by userID
func (r *GormDeliveryNoteRepository) DeleteForUser(ctx context.Context, userID, id uuid.UUID) error {
	return deleteOwned(r.db.WithContext(ctx), &models.DeliveryNoteModel{}, userID, id)
}

// ListNumbers returns every delivery note number of the user starting with prefix
func (r *GormDeliveryNoteRepository) ListNumbers(ctx context.Context, userID uuid.UUID, prefix string) ([]string, error) {
	return listNumbers(r.db.WithContext(ctx).Model(&models.DeliveryNoteModel{}), userID, prefix)
}

var (
	_ invoicing.QuoteRepository        = (*GormQuoteRepository)(nil)
	_ invoicing.DeliveryNoteRepository = (*GormDeliveryNoteRepository)(nil)
)
