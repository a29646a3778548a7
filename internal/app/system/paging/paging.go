// internal/app/system/paging/paging.go
package paging

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/dalemusser/waffle/pantry/query"
)

// PageSize is the default number of rows shown in paged admin lists.
const PageSize = 20

// ParsePage extracts the 1-based "page" query parameter.
// Returns 1 if not present or invalid.
func ParsePage(r *http.Request) int {
	s := query.Get(r, "page")
	if s == "" {
		return 1
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// TotalPages is the number of pages needed for total rows.
func TotalPages(total, pageSize int) int {
	if total <= 0 || pageSize <= 0 {
		return 1
	}
	return (total + pageSize - 1) / pageSize
}

// Slice returns the rows of page from a fully loaded list. Collections
// the backend does not page are paged here. page is clamped to the valid
// range and returned with the rows.
func Slice[T any](rows []T, page, pageSize int) ([]T, int) {
	pages := TotalPages(len(rows), pageSize)
	if page < 1 {
		page = 1
	}
	if page > pages {
		page = pages
	}
	start := (page - 1) * pageSize
	if start >= len(rows) {
		return rows[:0], page
	}
	end := start + pageSize
	if end > len(rows) {
		end = len(rows)
	}
	return rows[start:end], page
}

// Range holds computed display range values for a paginated list.
type Range struct {
	Start int // 1-based start index (0 if no results)
	End   int // 1-based end index (0 if no results)
	Total int
}

// ComputeRange calculates display range values for page given the number
// of items shown on it.
func ComputeRange(page, shown, total int) Range {
	return computeRangeWithSize(page, shown, total, PageSize)
}

func computeRangeWithSize(page, shown, total, pageSize int) Range {
	if shown == 0 {
		return Range{Total: total}
	}
	start := (page-1)*pageSize + 1
	return Range{Start: start, End: start + shown - 1, Total: total}
}

// Nav is the prev/next link pair under a paged list.
type Nav struct {
	Page       int
	TotalPages int
	PrevURL    string // "" on the first page
	NextURL    string // "" on the last page
	Range      Range
}

// NewNav builds links that keep every other query parameter of r.
func NewNav(r *http.Request, page, totalPages, shown, total int) Nav {
	if totalPages < 1 {
		totalPages = 1
	}
	n := Nav{
		Page:       page,
		TotalPages: totalPages,
		Range:      ComputeRange(page, shown, total),
	}
	if page > 1 {
		n.PrevURL = pageURL(r.URL, page-1)
	}
	if page < totalPages {
		n.NextURL = pageURL(r.URL, page+1)
	}
	return n
}

func pageURL(u *url.URL, page int) string {
	q := u.Query()
	if page <= 1 {
		q.Del("page")
	} else {
		q.Set("page", strconv.Itoa(page))
	}
	out := u.Path
	if enc := q.Encode(); enc != "" {
		out += "?" + enc
	}
	return out
}
