package upstream

import (
	"context"
	"net/http"
	"net/url"

	"github.com/harith2255/ecommerce-frontend/internal/domain"
)

// OrderClient submits orders and reads order history from the platform API.
type OrderClient struct {
	*Client
}

// NewOrderClient creates an order API client.
func NewOrderClient(base *Client) *OrderClient {
	return &OrderClient{Client: base}
}

// PlaceOrder submits the order request under the user's bearer credential
// and returns the created order.
func (c *OrderClient) PlaceOrder(ctx context.Context, token string, req domain.OrderRequest) (*domain.Order, error) {
	var order domain.Order
	if err := c.call(ctx, http.MethodPost, "/orders", token, req, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// ListUserOrders returns the order history for the given user.
func (c *OrderClient) ListUserOrders(ctx context.Context, token, userID string) ([]domain.Order, error) {
	var orders []domain.Order
	if err := c.call(ctx, http.MethodGet, "/orders/user/"+url.PathEscape(userID), token, nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}
