package domain

import (
	"time"

	"github.com/google/uuid"
)

// Product represents a product listed in the marketplace catalog. A nil
// VendorID means the product is admin-owned (global). Vendor-created products
// start unapproved and stay hidden from customers until an admin approves them.
type Product struct {
	ID            uuid.UUID  `json:"id" db:"id"`
	Name          string     `json:"name" db:"name"`
	Description   string     `json:"description" db:"description"`
	Price         float64    `json:"price" db:"price"`
	CategoryID    uuid.UUID  `json:"category_id" db:"category_id"`
	ImageURL      string     `json:"image_url" db:"image_url"`
	Stock         int        `json:"stock" db:"stock"`
	VendorID      *uuid.UUID `json:"vendor_id,omitempty" db:"vendor_id"`
	NumReviews    int        `json:"num_reviews" db:"num_reviews"`
	AverageRating float64    `json:"average_rating" db:"average_rating"`
	Approved      bool       `json:"approved" db:"approved"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at" db:"updated_at"`
}

// Category represents a product category. Names are unique; the set grows
// implicitly when a product names a category that does not exist yet.
type Category struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
