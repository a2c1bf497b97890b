// Package pagination slices in-memory collections into cursor-addressed
// pages. The upstream API returns whole collections, so every page is cut
// from a freshly fetched slice.
package pagination

// Info is the pagination block attached to every page.
type Info struct {
	NextCursor  *string `json:"next_cursor"`
	HasMore     bool    `json:"has_more"`
	TotalCount  int     `json:"total_count"`
	PageSize    int     `json:"page_size"`
	CurrentPage int     `json:"current_page"`
}

// Page is one slice of a collection plus its pagination info.
type Page[T any] struct {
	Data       []T  `json:"data"`
	Pagination Info `json:"pagination"`
}

// Paginate returns the page of items addressed by cursor. A non-empty
// cursor takes precedence over pageSize; without one the page starts at
// offset 0. pageSize must already be positive: callers clamp it.
func Paginate[T any](items []T, pageSize int, cursor string) Page[T] {
	offset := 0
	if cursor != "" {
		c := DecodeCursor(cursor)
		offset, pageSize = c.Offset, c.PageSize
	}

	total := len(items)
	hasMore := offset < total && pageSize < total-offset

	data := make([]T, 0)
	if offset < total {
		end := total
		if hasMore {
			end = offset + pageSize
		}
		data = append(data, items[offset:end]...)
	}

	info := Info{
		HasMore:     hasMore,
		TotalCount:  total,
		PageSize:    pageSize,
		CurrentPage: offset/pageSize + 1,
	}
	if hasMore {
		next := EncodeCursor(offset+pageSize, pageSize)
		info.NextCursor = &next
	}
	return Page[T]{Data: data, Pagination: info}
}

// Clamp bounds n to [lo, hi].
func Clamp(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}
