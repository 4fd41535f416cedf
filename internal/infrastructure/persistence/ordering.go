package persistence

import "strings"

// listOrder is the set of columns a list endpoint may be ordered by. The
// requested column is interpolated into ORDER BY, so anything outside the
// set is replaced by the fallback.
type listOrder struct {
	fallback string
	columns  map[string]struct{}
}

func orderable(fallback string, columns ...string) listOrder {
	o := listOrder{fallback: fallback, columns: make(map[string]struct{}, len(columns)+1)}
	o.columns[fallback] = struct{}{}
	for _, c := range columns {
		o.columns[c] = struct{}{}
	}
	return o
}

// clause renders "column DIR". Direction defaults to DESC.
func (o listOrder) clause(column, dir string) string {
	column = strings.TrimSpace(column)
	if _, ok := o.columns[column]; !ok {
		column = o.fallback
	}
	if strings.EqualFold(strings.TrimSpace(dir), "asc") {
		return column + " ASC"
	}
	return column + " DESC"
}

var (
	clientOrder   = orderable("name", "email", "created_at", "updated_at")
	supplierOrder = orderable("name", "contact_person", "created_at", "updated_at")
	productOrder  = orderable("name", "price", "product_type", "created_at", "updated_at")
	invoiceOrder  = orderable("date", "number", "status", "total_amount", "created_at")
	// quotes and delivery notes
	derivedOrder  = orderable("date", "number", "created_at")
	templateOrder = orderable("name", "created_at")
)
