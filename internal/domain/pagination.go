package domain

// DefaultPageSize is the page size when none is specified.
const DefaultPageSize = 25

// MaxPageSize is the largest page size accepted from callers.
const MaxPageSize = 500

// Page is one slice of the filtered and sorted row sequence.
type Page struct {
	Rows       []Row `json:"rows"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int   `json:"total"`
	TotalPages int   `json:"total_pages"`
}

// ClampPageSize returns n clamped to [1, limit]; non-positive n yields def.
func ClampPageSize(n, def, limit int) int {
	if n <= 0 {
		return def
	}
	if n > limit {
		return limit
	}
	return n
}

// TotalPages returns the number of pages needed for total rows.
func TotalPages(total, pageSize int) int {
	if pageSize <= 0 || total <= 0 {
		return 0
	}
	return (total + pageSize - 1) / pageSize
}
