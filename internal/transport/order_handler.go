package transport

import (
	"net/http"

	"markethub/internal/domain"
	"markethub/internal/middleware"
	"markethub/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// OrderItemRequest is one purchased line as submitted at checkout
type OrderItemRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Name      string    `json:"name" validate:"required"`
	Price     float64   `json:"price"`
	Quantity  int       `json:"quantity" validate:"omitempty,gte=1"`
}

// ShippingAddressRequest holds the free-text delivery fields; absent fields
// default to "N/A"
type ShippingAddressRequest struct {
	Address    string `json:"address"`
	City       string `json:"city"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

// PlaceOrderRequest represents a checkout payload. TotalPrice is stored as
// submitted; the server does not recompute it from the items.
type PlaceOrderRequest struct {
	Items           []OrderItemRequest     `json:"items" validate:"required,min=1,dive"`
	ShippingAddress ShippingAddressRequest `json:"shipping_address"`
	TotalPrice      float64                `json:"total_price"`
	VendorID        *uuid.UUID             `json:"vendor_id,omitempty"`
}

// UpdateOrderStatusRequest represents a status change payload
type UpdateOrderStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// OrderHandler handles HTTP requests for order operations
type OrderHandler struct {
	orderService service.OrderService
	logger       *zap.Logger
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orderService service.OrderService, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
		logger:       logger,
	}
}

// RegisterRoutes registers all order routes
func (h *OrderHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Route("/api/orders", func(r chi.Router) {
		r.Use(authMiddleware)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(h.logger, domain.RoleCustomer))
			r.Post("/", h.PlaceOrder)
			r.Get("/my-orders", h.ListMyOrders)
		})

		r.With(middleware.RequireRole(h.logger, domain.RoleVendor)).
			Get("/vendor", h.ListVendorOrders)

		r.With(middleware.RequireRole(h.logger, domain.RoleVendor, domain.RoleAdmin)).
			Put("/{id}/status", h.UpdateStatus)
	})
}

// PlaceOrder handles customer checkout
func (h *OrderHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	var req PlaceOrderRequest
	if !decodeBody(w, r, h.logger, &req) {
		return
	}

	actor, _ := middleware.GetActor(r.Context())

	items := make([]service.OrderItemInput, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, service.OrderItemInput{
			ProductID: it.ProductID,
			Name:      it.Name,
			Price:     it.Price,
			Quantity:  it.Quantity,
		})
	}

	order, err := h.orderService.PlaceOrder(r.Context(), actor, service.PlaceOrderInput{
		Items: items,
		ShippingAddress: domain.ShippingAddress{
			Address:    req.ShippingAddress.Address,
			City:       req.ShippingAddress.City,
			PostalCode: req.ShippingAddress.PostalCode,
			Country:    req.ShippingAddress.Country,
		},
		TotalPrice: req.TotalPrice,
		VendorID:   req.VendorID,
	})
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	h.logger.Info("Order placed",
		zap.String("order_id", order.ID.String()),
		zap.String("customer_id", actor.ID.String()),
		zap.Float64("total_price", order.TotalPrice),
	)
	middleware.RespondWithJSON(w, http.StatusCreated, order)
}

// ListMyOrders handles the customer's own order listing
func (h *OrderHandler) ListMyOrders(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.GetActor(r.Context())

	orders, err := h.orderService.ListMyOrders(r.Context(), actor)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, orders)
}

// ListVendorOrders handles the vendor's incoming order listing
func (h *OrderHandler) ListVendorOrders(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.GetActor(r.Context())

	orders, err := h.orderService.ListVendorOrders(r.Context(), actor)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, orders)
}

// UpdateStatus handles order status changes by the owning vendor or an admin
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	orderID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid order ID")
		return
	}

	var req UpdateOrderStatusRequest
	if !decodeBody(w, r, h.logger, &req) {
		return
	}

	actor, _ := middleware.GetActor(r.Context())

	order, err := h.orderService.UpdateOrderStatus(r.Context(), actor, orderID, domain.OrderStatus(req.Status))
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	h.logger.Info("Order status updated",
		zap.String("order_id", orderID.String()),
		zap.String("status", req.Status),
	)
	middleware.RespondWithJSON(w, http.StatusOK, order)
}
