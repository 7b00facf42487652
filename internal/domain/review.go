package domain

import (
	"time"

	"github.com/google/uuid"
)

// Review is a customer rating of a product. At most one review exists per
// (user, product) pair, enforced by a database uniqueness constraint.
type Review struct {
	ID        uuid.UUID `json:"id" db:"id"`
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	ProductID uuid.UUID `json:"product_id" db:"product_id"`
	Rating    int       `json:"rating" db:"rating"`
	Comment   string    `json:"comment" db:"comment"`
	UserName  string    `json:"user_name,omitempty" db:"-"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
