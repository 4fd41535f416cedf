package persistence

import (
	"context"

	"github.com/facturo/backend/internal/domain/invoicing"
	"github.com/facturo/backend/internal/domain/shared"
	"github.com/facturo/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormInvoiceRepository implements invoicing.InvoiceRepository using GORM
type GormInvoiceRepository struct {
	db *gorm.DB
}

// NewGormInvoiceRepository creates a new GormInvoiceRepository
func NewGormInvoiceRepository(db *gorm.DB) *GormInvoiceRepository {
	return &GormInvoiceRepository{db: db}
}

// FindByIDForUser loads an invoice with its lines in position order
func (r *GormInvoiceRepository) FindByIDForUser(ctx context.Context, userID, id uuid.UUID) (*invoicing.Invoice, error) {
	var model models.InvoiceModel
	if err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Scopes(ownedBy(userID)).
		Where("id = ?", id).
		First(&model).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return model.ToDomain(), nil
}

// FindAllForUser lists invoice headers of userID
func (r *GormInvoiceRepository) FindAllForUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]invoicing.Invoice, error) {
	var rows []models.InvoiceModel
	if err := r.db.WithContext(ctx).
		Scopes(ownedBy(userID), r.filters(filter), paginate(filter, invoiceOrder)).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	invoices := make([]invoicing.Invoice, len(rows))
	for i := range rows {
		invoices[i] = *rows[i].ToDomain()
	}
	return invoices, nil
}

// CountForUser counts invoices matching the filter
func (r *GormInvoiceRepository) CountForUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.InvoiceModel{}).
		Scopes(ownedBy(userID), r.filters(filter)).
		Count(&count).Error
	return count, err
}

// Create inserts the header then every line. Callers run it inside a
// transaction so a failing line leaves no header behind; a duplicate number
// is reported as invoicing.ErrDuplicateNumber.
func (r *GormInvoiceRepository) Create(ctx context.Context, invoice *invoicing.Invoice) error {
	model := models.InvoiceModelFromDomain(invoice)
	items := model.Items
	model.Items = nil

	db := r.db.WithContext(ctx)
	if err := db.Omit("Items").Create(model).Error; err != nil {
		if isUniqueViolation(err) {
			return invoicing.ErrDuplicateNumber
		}
		return err
	}
	if len(items) == 0 {
		return nil
	}
	return db.Create(&items).Error
}

// Save updates the mutable header columns. Lines and number are never rewritten.
func (r *GormInvoiceRepository) Save(ctx context.Context, invoice *invoicing.Invoice) error {
	model := models.InvoiceModelFromDomain(invoice)
	model.Items = nil

	result := r.db.WithContext(ctx).
		Model(model).
		Where("user_id = ?", invoice.UserID).
		Select("status", "comments", "custom_styling", "version", "updated_at").
		Updates(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// DeleteForUser deletes an invoice, its lines and the documents derived from it
func (r *GormInvoiceRepository) DeleteForUser(ctx context.Context, userID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.InvoiceModel{}).
			Scopes(ownedBy(userID)).
			Where("id = ?", id).
			Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return shared.ErrNotFound
		}
		for _, child := range []any{&models.InvoiceItemModel{}, &models.QuoteModel{}, &models.DeliveryNoteModel{}} {
			if err := tx.Where("invoice_id = ?", id).Delete(child).Error; err != nil {
				return err
			}
		}
		return deleteOwned(tx, &models.InvoiceModel{}, userID, id)
	})
}

// ListNumbers returns every invoice number of the user starting with prefix
func (r *GormInvoiceRepository) ListNumbers(ctx context.Context, userID uuid.UUID, prefix string) ([]string, error) {
	return listNumbers(r.db.WithContext(ctx).Model(&models.InvoiceModel{}), userID, prefix)
}

func (r *GormInvoiceRepository) filters(filter shared.Filter) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		db = searchAny(filter.Search, "number", "comments")(db)
		if status, ok := filter.Filters["status"]; ok {
			db = db.Where("status = ?", status)
		}
		if clientID, ok := filter.Filters["client_id"]; ok {
			db = db.Where("client_id = ?", clientID)
		}
		return db
	}
}

func listNumbers(db *gorm.DB, userID uuid.UUID, prefix string) ([]string, error) {
	var numbers []string
	err := db.Scopes(ownedBy(userID)).
		Where(`number LIKE ? ESCAPE '\'`, escapeLike(prefix)+"-%").
		Pluck("number", &numbers).Error
	return numbers, err
}

var _ invoicing.InvoiceRepository = (*GormInvoiceRepository)(nil)
