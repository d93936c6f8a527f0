package store

// Pagination bounds for list queries.
const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

// PageParams carries normalized pagination inputs for list queries.
type PageParams struct {
	Page  int
	Limit int
}

// NewPageParams clamps raw pagination inputs into valid bounds:
// page < 1 becomes 1, limit < 1 becomes the default, limit above the
// cap becomes the cap. Out-of-range requests degrade, they never fail.
func NewPageParams(page, limit int) PageParams {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultPageLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	return PageParams{Page: page, Limit: limit}
}

// Offset returns the SQL OFFSET corresponding to the page and limit.
func (p PageParams) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Page is one page of a paginated result set.
type Page[T any] struct {
	Items      []T
	TotalCount int
	Page       int
	Limit      int
}

// TotalPages derives the page count from the total and the limit.
func (p Page[T]) TotalPages() int {
	if p.Limit <= 0 {
		return 0
	}
	return (p.TotalCount + p.Limit - 1) / p.Limit
}
