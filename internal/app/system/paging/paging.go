// internal/app/system/paging/paging.go
package paging

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/dalemusser/waffle/pantry/query"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DefaultPageSize is used when a list request omits page_size.
const DefaultPageSize = 20

// Page is a 1-based page request.
type Page struct {
	Page     int
	PageSize int
}

// Skip is the number of documents before this page.
func (p Page) Skip() int64 { return int64(p.Page-1) * int64(p.PageSize) }

// Apply sets skip and limit on a Find.
func (p Page) Apply(find *options.FindOptions) *options.FindOptions {
	return find.SetSkip(p.Skip()).SetLimit(int64(p.PageSize))
}

// TotalPages is ceil(total / pageSize), never negative.
func TotalPages(total int64, pageSize int) int {
	if pageSize <= 0 || total <= 0 {
		return 0
	}
	return int((total + int64(pageSize) - 1) / int64(pageSize))
}

// Parse reads page and page_size. Missing values take defaults; present
// values must satisfy page >= 1 and 1 <= page_size <= maxSize.
func Parse(r *http.Request, defSize, maxSize int) (Page, error) {
	p := Page{Page: 1, PageSize: defSize}

	if s := query.Get(r, "page"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			return Page{}, fmt.Errorf("page must be an integer >= 1")
		}
		p.Page = n
	}
	if s := query.Get(r, "page_size"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 || n > maxSize {
			return Page{}, fmt.Errorf("page_size must be between 1 and %d", maxSize)
		}
		p.PageSize = n
	}
	return p, nil
}
