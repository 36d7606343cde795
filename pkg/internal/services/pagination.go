package services

const MaxPageLimit = 100

type Page[T any] struct {
	Items      []T   `json:"items"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	TotalPages int   `json:"total_pages"`
}

// NormalizePage clamps a 1-based page and its limit into a usable range.
func NormalizePage(page, limit, fallback int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = fallback
	}
	if limit <= 0 {
		limit = 10
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	return page, limit
}

func PageOffset(page, limit int) int {
	return (page - 1) * limit
}

func TotalPages(total int64, limit int) int {
	if limit <= 0 || total <= 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}

func EmptyPage[T any](page int, total int64, limit int) Page[T] {
	return Page[T]{
		Items:      []T{},
		Total:      total,
		Page:       page,
		TotalPages: TotalPages(total, limit),
	}
}
