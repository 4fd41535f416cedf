package persistence

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestListOrderClause(t *testing.T) {
	tests := []struct {
		name   string
		order  listOrder
		column string
		dir    string
		want   string
	}{
		{"allowed column ascending", clientOrder, "email", "asc", "email ASC"},
		{"direction is case insensitive", invoiceOrder, "number", " ASC ", "number ASC"},
		{"empty direction is descending", invoiceOrder, "total_amount", "", "total_amount DESC"},
		{"unknown direction is descending", productOrder, "price", "sideways", "price DESC"},
		{"empty column uses fallback", derivedOrder, "", "asc", "date ASC"},
		{"unknown column uses fallback", templateOrder, "password_hash", "desc", "name DESC"},
		{"column is trimmed", supplierOrder, " contact_person ", "asc", "contact_person ASC"},
		{"injection attempt", clientOrder, "name; DROP TABLE clients--", "asc", "name ASC"},
		{"injection in direction", clientOrder, "name", "ASC; DELETE FROM invoices", "name DESC"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.order.clause(tt.column, tt.dir))
		})
	}
}

func TestOrderableIncludesFallback(t *testing.T) {
	o := orderable("created_at")
	assert.Equal(t, "created_at ASC", o.clause("created_at", "asc"))
	assert.Equal(t, "created_at DESC", o.clause("updated_at", "desc"))
}
