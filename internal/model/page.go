package model

import (
	"fmt"
	"math"
)

// Pagination limits.
const (
	DefaultPage    = 1
	DefaultPerPage = 10
	MaxPerPage     = 100
)

// PageRequest selects a 1-indexed page of results.
type PageRequest struct {
	Page    int
	PerPage int
}

// RangeError reports a pagination parameter outside its bounds.
type RangeError struct {
	Field   string
	Message string
}

func (e *RangeError) Error() string {
	return e.Field + " " + e.Message
}

// Validate checks the page bounds. Out-of-range values are rejected, not
// clamped.
func (p PageRequest) Validate() error {
	if p.Page < 1 {
		return &RangeError{Field: "page", Message: "must be at least 1"}
	}
	if p.PerPage < 1 || p.PerPage > MaxPerPage {
		return &RangeError{Field: "per_page", Message: fmt.Sprintf("must be between 1 and %d", MaxPerPage)}
	}
	// The row offset must fit in an int.
	if p.Page-1 > math.MaxInt/p.PerPage {
		return &RangeError{Field: "page", Message: "is too large"}
	}
	return nil
}

// Offset returns the number of rows to skip.
func (p PageRequest) Offset() int {
	return (p.Page - 1) * p.PerPage
}

// Page is the pagination envelope returned by list endpoints.
type Page[T any] struct {
	Items      []T `json:"items"`
	Total      int `json:"total"`
	Page       int `json:"page"`
	PerPage    int `json:"per_page"`
	TotalPages int `json:"total_pages"`
}

// NewPage builds an envelope for items out of total matching rows.
func NewPage[T any](items []T, total int, req PageRequest) *Page[T] {
	if items == nil {
		items = []T{}
	}
	return &Page[T]{
		Items:      items,
		Total:      total,
		Page:       req.Page,
		PerPage:    req.PerPage,
		TotalPages: TotalPages(total, req.PerPage),
	}
}

// TotalPages returns ceil(total / perPage).
func TotalPages(total, perPage int) int {
	if perPage <= 0 {
		return 0
	}
	return (total + perPage - 1) / perPage
}
