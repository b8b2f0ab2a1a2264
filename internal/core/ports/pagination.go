package ports

const (
	DefaultPageLimit = 10
	MaxPageLimit     = 100

	// MaxPage bounds the page number so the skip offset stays small.
	MaxPage = 100000
)

// Page is one page of a listing plus the numbers needed for the meta block.
type Page[T any] struct {
	Items []T
	Total int64
	Page  int
	Limit int
	Pages int
}

// NormalizePage applies the default page/limit and caps both.
func NormalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if page > MaxPage {
		page = MaxPage
	}
	if limit <= 0 {
		limit = DefaultPageLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	return page, limit
}

// PageCount is ceil(total / limit).
func PageCount(total int64, limit int) int {
	if limit <= 0 || total <= 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}
