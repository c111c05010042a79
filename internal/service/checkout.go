package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/harith2255/ecommerce-frontend/internal/domain"
	apperrors "github.com/harith2255/ecommerce-frontend/pkg/errors"
)

// CheckoutInput holds the details collected on the checkout page.
type CheckoutInput struct {
	PaymentMethod   string `json:"payment_method" validate:"required,oneof=card cod"`
	ShippingAddress struct {
		FullName   string `json:"full_name" validate:"required"`
		Street     string `json:"street" validate:"required"`
		City       string `json:"city" validate:"required"`
		PostalCode string `json:"postal_code" validate:"required"`
		Phone      string `json:"phone"`
	} `json:"shipping_address" validate:"required"`
}

// OrderPlacer submits orders to the platform API.
type OrderPlacer interface {
	PlaceOrder(ctx context.Context, token string, req domain.OrderRequest) (*domain.Order, error)
	ListUserOrders(ctx context.Context, token, userID string) ([]domain.Order, error)
}

// CheckoutService prices carts and turns them into orders.
type CheckoutService struct {
	carts  *CartService
	orders OrderPlacer
	logger *slog.Logger
}

// NewCheckoutService creates a checkout service.
func NewCheckoutService(carts *CartService, orders OrderPlacer, logger *slog.Logger) *CheckoutService {
	return &CheckoutService{
		carts:  carts,
		orders: orders,
		logger: logger,
	}
}

// Quote returns the current cart contents with derived pricing.
func (s *CheckoutService) Quote(ctx context.Context, sessionID string) (*domain.Cart, domain.Quote, error) {
	cart, err := s.carts.Get(ctx, sessionID)
	if err != nil {
		return nil, domain.Quote{}, err
	}
	return cart, domain.QuoteFor(cart.Items), nil
}

// PlaceOrder submits the session's cart as an order under the signed-in
// user's credential. The cart is cleared only after the order API confirms
// the order; on any failure it is left untouched so the user can retry.
func (s *CheckoutService) PlaceOrder(ctx context.Context, sessionID string, sess *domain.Session, input CheckoutInput) (*domain.Order, error) {
	if sess == nil || sess.Token == "" {
		return nil, apperrors.Unauthorized("sign in to place an order")
	}

	cart, err := s.carts.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if cart.IsEmpty() {
		return nil, apperrors.InvalidInput("cart is empty")
	}

	quote := domain.QuoteFor(cart.Items)
	req := domain.OrderRequest{
		Items:         cart.Snapshot(),
		Subtotal:      quote.Subtotal,
		Shipping:      quote.Shipping,
		Tax:           quote.Tax,
		Total:         quote.Total,
		PaymentMethod: input.PaymentMethod,
		ShippingAddress: domain.Address{
			FullName:   input.ShippingAddress.FullName,
			Street:     input.ShippingAddress.Street,
			City:       input.ShippingAddress.City,
			PostalCode: input.ShippingAddress.PostalCode,
			Phone:      input.ShippingAddress.Phone,
		},
	}

	order, err := s.orders.PlaceOrder(ctx, sess.Token, req)
	if err != nil {
		return nil, fmt.Errorf("place order: %w", err)
	}

	if _, err := s.carts.Clear(ctx, sessionID); err != nil {
		// The order exists; a failed cart clear must not fail the checkout.
		s.logger.WarnContext(ctx, "cart clear after checkout failed",
			slog.String("session_id", sessionID),
			slog.String("order_id", order.ID),
			slog.String("error", err.Error()))
	}

	s.logger.InfoContext(ctx, "order placed",
		slog.String("order_id", order.ID),
		slog.String("user_id", sess.User.ID),
		slog.Int64("total", order.Total))

	return order, nil
}

// ListOrders returns the signed-in user's order history.
func (s *CheckoutService) ListOrders(ctx context.Context, sess *domain.Session) ([]domain.Order, error) {
	if sess == nil || sess.Token == "" {
		return nil, apperrors.Unauthorized("sign in to view orders")
	}
	return s.orders.ListUserOrders(ctx, sess.Token, sess.User.ID)
}
