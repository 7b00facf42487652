package domain

import (
	"time"

	"github.com/google/uuid"
)

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderProcessing OrderStatus = "processing"
	OrderShipped    OrderStatus = "shipped"
	OrderDelivered  OrderStatus = "delivered"
	OrderCancelled  OrderStatus = "cancelled"
)

// orderTransitions is the explicit transition table. Every edge is currently
// allowed, including backwards ones like delivered -> pending; the table exists
// so the contract is visible and can be tightened without surprising callers.
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderPending:    {OrderPending, OrderProcessing, OrderShipped, OrderDelivered, OrderCancelled},
	OrderProcessing: {OrderPending, OrderProcessing, OrderShipped, OrderDelivered, OrderCancelled},
	OrderShipped:    {OrderPending, OrderProcessing, OrderShipped, OrderDelivered, OrderCancelled},
	OrderDelivered:  {OrderPending, OrderProcessing, OrderShipped, OrderDelivered, OrderCancelled},
	OrderCancelled:  {OrderPending, OrderProcessing, OrderShipped, OrderDelivered, OrderCancelled},
}

// Valid reports whether s is one of the known order statuses.
func (s OrderStatus) Valid() bool {
	_, ok := orderTransitions[s]
	return ok
}

// CanTransitionTo reports whether the transition from s to next is allowed by
// the transition table.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// OrderItem is a snapshot of a purchased product line. Name and price are
// copied at order time; later product changes never affect past orders.
type OrderItem struct {
	ID        uuid.UUID `json:"id" db:"id"`
	OrderID   uuid.UUID `json:"order_id" db:"order_id"`
	ProductID uuid.UUID `json:"product_id" db:"product_id"`
	Name      string    `json:"name" db:"name"`
	Price     float64   `json:"price" db:"price"`
	Quantity  int       `json:"quantity" db:"quantity"`
}

// ShippingAddress holds the free-text delivery fields of an order.
type ShippingAddress struct {
	Address    string `json:"address" db:"address"`
	City       string `json:"city" db:"city"`
	PostalCode string `json:"postal_code" db:"postal_code"`
	Country    string `json:"country" db:"country"`
}

// Order represents a customer purchase. VendorID is nil for orders placed
// through the simplified cart checkout, which does not associate a vendor.
type Order struct {
	ID              uuid.UUID       `json:"id" db:"id"`
	CustomerID      uuid.UUID       `json:"customer_id" db:"customer_id"`
	VendorID        *uuid.UUID      `json:"vendor_id,omitempty" db:"vendor_id"`
	Items           []OrderItem     `json:"items"`
	ShippingAddress ShippingAddress `json:"shipping_address"`
	TotalPrice      float64         `json:"total_price" db:"total_price"`
	Status          OrderStatus     `json:"status" db:"status"`
	CustomerName    string          `json:"customer_name,omitempty" db:"-"`
	VendorName      string          `json:"vendor_name,omitempty" db:"-"`
	CreatedAt       time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at" db:"updated_at"`
}
