package shared

// Paging defaults and the cap on a requested page size.
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Filter is a list query. Filters holds typed equality conditions keyed by
// a name each repository understands (status, client_id, invoice_id...).
type Filter struct {
	Page     int
	PageSize int
	OrderBy  string
	OrderDir string
	Search   string
	Filters  map[string]any
}

// DefaultFilter lists the first page, newest first.
func DefaultFilter() Filter {
	return Filter{
		Page:     1,
		PageSize: DefaultPageSize,
		OrderBy:  "created_at",
		OrderDir: "desc",
		Filters:  map[string]any{},
	}
}

// Normalize clamps Page and PageSize and allocates Filters.
func (f Filter) Normalize() Filter {
	f.Page = max(f.Page, 1)
	if f.PageSize < 1 {
		f.PageSize = DefaultPageSize
	}
	f.PageSize = min(f.PageSize, MaxPageSize)
	if f.Filters == nil {
		f.Filters = map[string]any{}
	}
	return f
}

func (f Filter) Offset() int { return (f.Page - 1) * f.PageSize }

// Paginated is one page of a list plus the total match count.
type Paginated[T any] struct {
	Items      []T   `json:"items"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int   `json:"total_pages"`
}

func NewPaginated[T any](items []T, total int64, page, pageSize int) Paginated[T] {
	pageSize = max(pageSize, 1)
	return Paginated[T]{
		Items:      items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: int((total + int64(pageSize) - 1) / int64(pageSize)),
	}
}
