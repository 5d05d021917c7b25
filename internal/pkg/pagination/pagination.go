package pagination

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidParams is returned for a page below 1, a size outside 1..MaxLimit
// or a page whose offset does not fit in an int
var ErrInvalidParams = errors.New("invalid pagination")

// Params represents pagination parameters
type Params struct {
	Page   int `json:"page"`
	Limit  int `json:"size"`
	Offset int `json:"-"`
}

// Meta represents pagination metadata
type Meta struct {
	Page       int   `json:"page"`
	Limit      int   `json:"size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
	HasNext    bool  `json:"hasNext"`
	HasPrev    bool  `json:"hasPrev"`
}

// DefaultLimit is the default number of items per page
const DefaultLimit = 20

// MaxLimit is the maximum number of items per page
const MaxLimit = 100

// New validates page and size and computes the offset as size * (page - 1)
func New(page, size int) (*Params, error) {
	if page < 1 {
		return nil, fmt.Errorf("%w: page must be at least 1, got %d", ErrInvalidParams, page)
	}
	if size < 1 || size > MaxLimit {
		return nil, fmt.Errorf("%w: size must be between 1 and %d, got %d", ErrInvalidParams, MaxLimit, size)
	}
	if page-1 > math.MaxInt/size {
		return nil, fmt.Errorf("%w: page %d is out of range", ErrInvalidParams, page)
	}

	return &Params{
		Page:   page,
		Limit:  size,
		Offset: size * (page - 1),
	}, nil
}

// GetMeta calculates pagination metadata
func GetMeta(params *Params, total int64) *Meta {
	totalPages := int(total) / params.Limit
	if int(total)%params.Limit > 0 {
		totalPages++
	}

	return &Meta{
		Page:       params.Page,
		Limit:      params.Limit,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    params.Page < totalPages,
		HasPrev:    params.Page > 1,
	}
}
