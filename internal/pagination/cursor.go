package pagination

import (
	"encoding/base64"
	"encoding/json"
	"math"
)

// DefaultPageSize is used when no page size is given and when a cursor
// cannot be decoded.
const DefaultPageSize = 50

// Cursor is the checkpoint carried between pages.
type Cursor struct {
	Offset   int `json:"offset"`
	PageSize int `json:"page_size"`
}

// defaultCursor is what every malformed token decodes to.
func defaultCursor() Cursor {
	return Cursor{Offset: 0, PageSize: DefaultPageSize}
}

// EncodeCursor serializes offset and pageSize into an opaque token
// (base64 of a small JSON object).
func EncodeCursor(offset, pageSize int) string {
	b, err := json.Marshal(Cursor{Offset: offset, PageSize: pageSize})
	if err != nil {
		return ""
	}
	return base64.StdEncoding.EncodeToString(b)
}

// DecodeCursor never fails: any token it cannot read, including one with
// missing fields or out-of-range values, yields offset 0 and the default
// page size.
func DecodeCursor(token string) Cursor {
	raw, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return defaultCursor()
	}
	var payload struct {
		Offset   *int `json:"offset"`
		PageSize *int `json:"page_size"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return defaultCursor()
	}
	if payload.Offset == nil || payload.PageSize == nil {
		return defaultCursor()
	}
	if *payload.Offset < 0 || *payload.PageSize <= 0 {
		return defaultCursor()
	}
	// offset+page_size must fit in an int.
	if *payload.Offset > math.MaxInt-*payload.PageSize {
		return defaultCursor()
	}
	return Cursor{Offset: *payload.Offset, PageSize: *payload.PageSize}
}
