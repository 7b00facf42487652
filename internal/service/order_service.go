package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"markethub/internal/domain"
	"markethub/internal/repository"

	"github.com/google/uuid"
)

var (
	ErrInvalidOrderStatus = errors.New("unknown order status")
	ErrEmptyOrder         = errors.New("order must contain at least one item")
)

// OrderItemInput is one purchased line as submitted by the client. Name and
// price are stored verbatim as the snapshot for this order.
type OrderItemInput struct {
	ProductID uuid.UUID
	Name      string
	Price     float64
	Quantity  int
}

// PlaceOrderInput carries a checkout request. TotalPrice is client-supplied
// and stored as-is; it is not recomputed from the items. This is a documented
// trust boundary carried over from the original design.
type PlaceOrderInput struct {
	Items           []OrderItemInput
	ShippingAddress domain.ShippingAddress
	TotalPrice      float64
	VendorID        *uuid.UUID
}

// OrderService defines the interface for order business logic
type OrderService interface {
	PlaceOrder(ctx context.Context, actor domain.Actor, in PlaceOrderInput) (*domain.Order, error)
	ListMyOrders(ctx context.Context, actor domain.Actor) ([]*domain.Order, error)
	ListVendorOrders(ctx context.Context, actor domain.Actor) ([]*domain.Order, error)
	UpdateOrderStatus(ctx context.Context, actor domain.Actor, orderID uuid.UUID, status domain.OrderStatus) (*domain.Order, error)
}

type orderService struct {
	orderRepo repository.OrderRepository
}

// NewOrderService creates a new instance of OrderService
func NewOrderService(orderRepo repository.OrderRepository) OrderService {
	return &orderService{orderRepo: orderRepo}
}

// PlaceOrder creates an order from the submitted line-item snapshots. Prices
// and names are copied as given, quantities default to 1, and absent address
// fields default to "N/A". No stock is decremented.
func (s *orderService) PlaceOrder(ctx context.Context, actor domain.Actor, in PlaceOrderInput) (*domain.Order, error) {
	if len(in.Items) == 0 {
		return nil, ErrEmptyOrder
	}

	items := make([]domain.OrderItem, 0, len(in.Items))
	for _, it := range in.Items {
		quantity := it.Quantity
		if quantity < 1 {
			quantity = 1
		}
		items = append(items, domain.OrderItem{
			ID:        uuid.New(),
			ProductID: it.ProductID,
			Name:      it.Name,
			Price:     it.Price,
			Quantity:  quantity,
		})
	}

	order := &domain.Order{
		ID:              uuid.New(),
		CustomerID:      actor.ID,
		VendorID:        in.VendorID,
		Items:           items,
		ShippingAddress: normalizeAddress(in.ShippingAddress),
		TotalPrice:      in.TotalPrice,
		Status:          domain.OrderPending,
		CreatedAt:       time.Now(),
		UpdatedAt:       time.Now(),
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to place order: %w", err)
	}

	return order, nil
}

// ListMyOrders retrieves the customer's own orders
func (s *orderService) ListMyOrders(ctx context.Context, actor domain.Actor) ([]*domain.Order, error) {
	return s.orderRepo.ListByCustomer(ctx, actor.ID)
}

// ListVendorOrders retrieves orders associated with the vendor. Orders placed
// through the simplified checkout carry no vendor and never show up here.
func (s *orderService) ListVendorOrders(ctx context.Context, actor domain.Actor) ([]*domain.Order, error) {
	return s.orderRepo.ListByVendor(ctx, actor.ID)
}

// UpdateOrderStatus sets the order status. The actor must be the owning
// vendor or an admin. The transition table currently permits every edge, so
// any known status is accepted from any current status.
func (s *orderService) UpdateOrderStatus(ctx context.Context, actor domain.Actor, orderID uuid.UUID, status domain.OrderStatus) (*domain.Order, error) {
	if !status.Valid() {
		return nil, ErrInvalidOrderStatus
	}

	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if !actor.CanManageResource(order.VendorID) {
		return nil, ErrForbidden
	}

	if !order.Status.CanTransitionTo(status) {
		return nil, ErrInvalidOrderStatus
	}

	if err := s.orderRepo.UpdateStatus(ctx, orderID, status); err != nil {
		return nil, err
	}

	order.Status = status
	return order, nil
}

func normalizeAddress(addr domain.ShippingAddress) domain.ShippingAddress {
	if addr.Address == "" {
		addr.Address = "N/A"
	}
	if addr.City == "" {
		addr.City = "N/A"
	}
	if addr.PostalCode == "" {
		addr.PostalCode = "N/A"
	}
	if addr.Country == "" {
		addr.Country = "N/A"
	}
	return addr
}
