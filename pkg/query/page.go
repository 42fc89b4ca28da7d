package query

import (
	"math"
	"strconv"
	"strings"
)

const (
	DefaultLimit uint64 = 50
	DefaultMax   uint64 = 100
)

// SortPolicy is the pagination side of a dataset descriptor.
type SortPolicy struct {
	// Columns maps accepted sortBy values to columns.
	Columns map[string]Column
	Default Column
	// DefaultLimit applies when limit is missing or not a number.
	DefaultLimit uint64
	// MaxLimit is the per-dataset ceiling for limit.
	MaxLimit uint64
}

// PageRequest carries the raw pagination parameters of a request.
type PageRequest struct {
	Page      string
	Limit     string
	SortBy    string
	SortOrder string
}

// Page is a resolved pagination request.
type Page struct {
	Number uint64
	Limit  uint64
	Offset uint64
	SortBy Column
	Order  SortOrder
}

// TotalPages returns ceil(total / Limit).
func (p Page) TotalPages(total uint64) uint64 {
	limit := p.Limit
	if limit == 0 {
		limit = 1
	}
	return (total + limit - 1) / limit
}

// Resolve normalizes a page request against policy. It never fails.
func Resolve(req PageRequest, policy SortPolicy) Page {
	page := uint64(1)
	if n, err := strconv.ParseInt(strings.TrimSpace(req.Page), 10, 64); err == nil && n > 1 {
		page = uint64(n)
	}

	maxLimit := policy.MaxLimit
	if maxLimit == 0 {
		maxLimit = DefaultMax
	}
	limit := policy.DefaultLimit
	if limit == 0 {
		limit = DefaultLimit
	}
	if n, err := strconv.ParseInt(strings.TrimSpace(req.Limit), 10, 64); err == nil {
		if n < 1 {
			n = 1
		}
		limit = uint64(n)
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	// Keep the offset within a signed 64-bit integer.
	if maxPage := math.MaxInt64/limit + 1; page > maxPage {
		page = maxPage
	}

	sortBy := policy.Default
	if col, ok := policy.Columns[strings.TrimSpace(req.SortBy)]; ok {
		sortBy = col
	}

	order := Desc
	if strings.EqualFold(strings.TrimSpace(req.SortOrder), string(Asc)) {
		order = Asc
	}

	return Page{
		Number: page,
		Limit:  limit,
		Offset: (page - 1) * limit,
		SortBy: sortBy,
		Order:  order,
	}
}
