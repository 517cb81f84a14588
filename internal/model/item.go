package model

import "time"

// Item is a sellable catalogue entry.
type Item struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	Barcode     string    `json:"barcode"`
	Price       float64   `json:"price"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ItemInput holds the caller-controlled fields of an item. Updates replace
// all of them.
type ItemInput struct {
	Title       string
	Description *string
	Barcode     string
	Price       float64
	IsActive    bool
}
