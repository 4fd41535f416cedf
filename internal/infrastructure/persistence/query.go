package persistence

import (
	"errors"
	"strings"

	"github.com/facturo/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ownedBy scopes a query to the rows of one user
func ownedBy(userID uuid.UUID) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("user_id = ?", userID)
	}
}

// paginate applies ordering and paging from filter
func paginate(filter shared.Filter, order listOrder) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		f := filter.Normalize()
		return db.Order(order.clause(f.OrderBy, f.OrderDir)).
			Offset(f.Offset()).
			Limit(f.PageSize)
	}
}

// searchAny matches term case-insensitively against any of columns.
// LOWER/LIKE with an explicit ESCAPE keeps the query portable between
// PostgreSQL and SQLite.
func searchAny(term string, columns ...string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		term = strings.TrimSpace(term)
		if term == "" || len(columns) == 0 {
			return db
		}
		pattern := "%" + escapeLike(strings.ToLower(term)) + "%"
		clauses := make([]string, len(columns))
		args := make([]any, len(columns))
		for i, col := range columns {
			clauses[i] = "LOWER(" + col + ") LIKE ? ESCAPE '\\'"
			args[i] = pattern
		}
		return db.Where("("+strings.Join(clauses, " OR ")+")", args...)
	}
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// translateNotFound maps gorm's not-found error to shared.ErrNotFound
func translateNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return shared.ErrNotFound
	}
	return err
}

// isUniqueViolation reports whether err is a unique-constraint violation.
// gorm translates it when TranslateError is on; the string checks cover
// connections opened without translation.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLSTATE 23505") ||
		strings.Contains(msg, "duplicate key value") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}

// deleteOwned deletes the row of model with id owned by userID, or returns shared.ErrNotFound
func deleteOwned(db *gorm.DB, model any, userID, id uuid.UUID) error {
	result := db.Where("user_id = ? AND id = ?", userID, id).Delete(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}
