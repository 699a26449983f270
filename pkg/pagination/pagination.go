package pagination

const (
	// DefaultPerPage is the standard page size when one is not provided.
	DefaultPerPage = 12
	// MaxPerPage caps how many rows any page can request.
	MaxPerPage = 100
)

// Params holds offset pagination inputs from controllers.
type Params struct {
	Page    int
	PerPage int
}

// Normalize enforces the default and maximum page sizes and a 1-based page.
func Normalize(p Params) Params {
	if p.Page <= 0 {
		p.Page = 1
	}
	if p.PerPage <= 0 {
		p.PerPage = DefaultPerPage
	}
	if p.PerPage > MaxPerPage {
		p.PerPage = MaxPerPage
	}
	return p
}

// Offset returns the slice offset for the normalized params.
func (p Params) Offset() int {
	page := p.Page
	if page <= 0 {
		page = 1
	}
	return (page - 1) * p.PerPage
}

// PageCount returns how many pages the total spans, never less than 1.
func PageCount(total, perPage int) int {
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	if total <= 0 {
		return 1
	}
	pages := total / perPage
	if total%perPage != 0 {
		pages++
	}
	return pages
}
