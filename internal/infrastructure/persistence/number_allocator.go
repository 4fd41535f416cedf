package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/facturo/backend/internal/domain/invoicing"
	"github.com/facturo/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormNumberAllocator hands out document numbers from the document_sequences
// counter. The counter row is read with SELECT ... FOR UPDATE, so callers
// sharing a transaction with the document insert are serialized per
// (user, family, year) until commit.
type GormNumberAllocator struct {
	db *gorm.DB
}

// NewGormNumberAllocator creates a new GormNumberAllocator
func NewGormNumberAllocator(db *gorm.DB) *GormNumberAllocator {
	return &GormNumberAllocator{db: db}
}

// Allocate returns the next number of family for the year of now
func (a *GormNumberAllocator) Allocate(ctx context.Context, userID uuid.UUID, family invoicing.Family, now time.Time) (string, error) {
	if !family.IsValid() {
		return "", fmt.Errorf("unknown document family %q", family)
	}
	db := a.db.WithContext(ctx)
	year := now.Year()

	seq, err := a.lock(db, userID, family, year)
	if err != nil {
		return "", err
	}
	if seq == nil {
		// First number of the year: seed from documents already issued so
		// that numbers created before the counter existed are never reused.
		last, err := a.lastIssued(db, userID, family, now)
		if err != nil {
			return "", err
		}
		if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&models.DocumentSequenceModel{
			UserID:    userID,
			Family:    family.String(),
			Year:      year,
			LastValue: last,
			UpdatedAt: now,
		}).Error; err != nil {
			return "", fmt.Errorf("failed to seed document sequence: %w", err)
		}
		if seq, err = a.lock(db, userID, family, year); err != nil {
			return "", err
		}
		if seq == nil {
			return "", fmt.Errorf("document sequence for %s/%d vanished after seeding", family, year)
		}
	}

	next := seq.LastValue + 1
	if err := db.Model(&models.DocumentSequenceModel{}).
		Where("user_id = ? AND family = ? AND year = ?", userID, family.String(), year).
		Updates(map[string]any{"last_value": next, "updated_at": now}).Error; err != nil {
		return "", fmt.Errorf("failed to advance document sequence: %w", err)
	}
	return invoicing.FormatNumber(family.String(), now, next), nil
}

// Resync raises the counter to the highest number actually issued. It is
// used after a duplicate-number conflict.
func (a *GormNumberAllocator) Resync(ctx context.Context, userID uuid.UUID, family invoicing.Family, now time.Time) error {
	db := a.db.WithContext(ctx)
	last, err := a.lastIssued(db, userID, family, now)
	if err != nil {
		return err
	}
	return db.Model(&models.DocumentSequenceModel{}).
		Where("user_id = ? AND family = ? AND year = ? AND last_value < ?", userID, family.String(), now.Year(), last).
		Updates(map[string]any{"last_value": last, "updated_at": now}).Error
}

func (a *GormNumberAllocator) lock(db *gorm.DB, userID uuid.UUID, family invoicing.Family, year int) (*models.DocumentSequenceModel, error) {
	var rows []models.DocumentSequenceModel
	if err := db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ? AND family = ? AND year = ?", userID, family.String(), year).
		Limit(1).
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to lock document sequence: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

func (a *GormNumberAllocator) lastIssued(db *gorm.DB, userID uuid.UUID, family invoicing.Family, now time.Time) (int, error) {
	var table any
	switch family {
	case invoicing.FamilyQuote:
		table = &models.QuoteModel{}
	case invoicing.FamilyDeliveryNote:
		table = &models.DeliveryNoteModel{}
	default:
		table = &models.InvoiceModel{}
	}

	highest := 0
	for _, prefix := range family.SeedPrefixes() {
		numbers, err := listNumbers(db.Model(table), userID, prefix)
		if err != nil {
			return 0, fmt.Errorf("failed to list issued numbers: %w", err)
		}
		if last := invoicing.LastSequence(prefix, numbers, now); last > highest {
			highest = last
		}
	}
	return highest, nil
}

var _ invoicing.NumberAllocator = (*GormNumberAllocator)(nil)
