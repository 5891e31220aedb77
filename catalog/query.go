package catalog

import (
	"math"
	"regexp"
	"strings"

	"storefront/models"
)

const (
	DefaultPage     = 1
	DefaultPageSize = 12
)

// Query is a storefront listing request. Use Normalize before handing it
// to a Repository.
type Query struct {
	Gender   string
	Category string
	Page     int
	PageSize int
}

// Normalize trims and lowercases the category and floors page and page
// size at 1.
func (q Query) Normalize() Query {
	q.Gender = strings.TrimSpace(q.Gender)
	q.Category = strings.ToLower(strings.TrimSpace(q.Category))
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize < 1 {
		q.PageSize = 1
	}
	return q
}

// Offset saturates at math.MaxInt64 instead of overflowing for huge pages.
func (q Query) Offset() int64 {
	pages, size := int64(q.Page-1), int64(q.PageSize)
	if pages <= 0 || size <= 0 {
		return 0
	}
	if pages > math.MaxInt64/size {
		return math.MaxInt64
	}
	return pages * size
}

func (q Query) Limit() int64 {
	return int64(q.PageSize)
}

// CategoryPattern is the category as a literal, case-insensitive regular
// expression, safe to hand to a document store.
func (q Query) CategoryPattern() string {
	return regexp.QuoteMeta(q.Category)
}

// CategoryLike is the category as an ILIKE pattern with wildcards escaped.
func (q Query) CategoryLike() string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(q.Category) + "%"
}

// Matches reports whether p passes the gender and category filters.
// The query must be normalized.
func (q Query) Matches(p models.Product) bool {
	if q.Gender != "" && string(p.Gender) != q.Gender {
		return false
	}
	if q.Category == "" {
		return true
	}
	if strings.Contains(strings.ToLower(p.Title), q.Category) {
		return true
	}
	for _, c := range p.Categories {
		if strings.Contains(strings.ToLower(c), q.Category) {
			return true
		}
	}
	return false
}
