// Package paging holds the list-endpoint pagination convention: a hard
// result limit plus a hasMore flag, no cursors.
package paging

import (
	"net/http"
	"strconv"

	"github.com/dalemusser/waffle/pantry/query"
)

// DefaultLimit is the number of records returned when the caller does
// not pass a limit.
const DefaultLimit = 50

// MaxLimit caps caller-supplied limits so one request cannot drag an
// unbounded result set through the wire.
const MaxLimit = 500

// ParseLimit extracts the "limit" query parameter. Missing, malformed,
// or non-positive values fall back to DefaultLimit; values above
// MaxLimit are clamped.
func ParseLimit(r *http.Request) int64 {
	s := query.Get(r, "limit")
	if s == "" {
		return DefaultLimit
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return DefaultLimit
	}
	if n > MaxLimit {
		return MaxLimit
	}
	return int64(n)
}

// HasMore reports whether more results may exist beyond the returned
// page: the store filled the entire limit, so the next record (if any)
// was cut off.
func HasMore(returned int, limit int64) bool {
	return int64(returned) == limit
}
