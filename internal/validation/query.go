package validation

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/dukerupert/forever/internal/domain"
)

// Listing defaults.
const (
	DefaultSort  = "-date"
	DefaultLimit = 20
	MaxLimit     = 50
	// MaxPage keeps (page-1)*limit well inside the range of a SQL OFFSET.
	MaxPage = 1_000_000
)

const listOp = "product.list"

// ParseProductQuery turns catalog listing query parameters into a
// normalised ProductQuery. Page and limit never fail: bad values fall back
// to their defaults, page is clamped to [1, MaxPage] and limit to
// [1, MaxLimit].
func ParseProductQuery(v url.Values) (domain.ProductQuery, error) {
	var q domain.ProductQuery

	q.Filter.Category = v.Get("category")
	q.Filter.SubCategory = v.Get("subCategory")
	if b := v.Get("bestseller"); b != "" {
		best := b == "true"
		q.Filter.Bestseller = &best
	}

	if raw := v.Get("minPrice"); raw != "" {
		f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return q, domain.Invalid(listOp, "Minimum price must be a number")
		}
		q.Filter.MinPrice = &f
	}
	if raw := v.Get("maxPrice"); raw != "" {
		f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return q, domain.Invalid(listOp, "Maximum price must be a number")
		}
		q.Filter.MaxPrice = &f
	}
	if q.Filter.MinPrice != nil && q.Filter.MaxPrice != nil && *q.Filter.MinPrice > *q.Filter.MaxPrice {
		return q, domain.Invalid(listOp, "Minimum price cannot be greater than maximum price")
	}

	sort := v.Get("sort")
	if sort == "" {
		sort = DefaultSort
	}
	q.Sort = domain.ProductSort{Field: strings.TrimPrefix(sort, "-"), Desc: strings.HasPrefix(sort, "-")}
	switch q.Sort.Field {
	case domain.SortByDate, domain.SortByPrice, domain.SortByName:
	default:
		return q, domain.Invalid(listOp, "Invalid sort parameter")
	}

	q.Page = 1
	if p, err := strconv.Atoi(v.Get("page")); err == nil && p > 1 {
		q.Page = min(p, MaxPage)
	}

	q.Limit = DefaultLimit
	if l, err := strconv.Atoi(v.Get("limit")); err == nil {
		q.Limit = min(MaxLimit, max(1, l))
	}

	return q, nil
}
