package domain

import "time"

// Order statuses as reported by the platform API.
const (
	OrderStatusPending   = "pending"
	OrderStatusShipped   = "shipped"
	OrderStatusDelivered = "delivered"
	OrderStatusCancelled = "cancelled"
)

// Address is a shipping address collected at checkout.
type Address struct {
	FullName   string `json:"full_name"`
	Street     string `json:"street"`
	City       string `json:"city"`
	PostalCode string `json:"postal_code"`
	Phone      string `json:"phone,omitempty"`
}

// OrderRequest is the payload submitted to the order API at checkout. The
// cart snapshot and the derived pricing travel together; the server is the
// one that persists them.
type OrderRequest struct {
	Items           []LineItem `json:"items"`
	Subtotal        int64      `json:"subtotal"`
	Shipping        int64      `json:"shipping"`
	Tax             int64      `json:"tax"`
	Total           int64      `json:"total"`
	PaymentMethod   string     `json:"paymentMethod"`
	ShippingAddress Address    `json:"shippingAddress"`
}

// Order is a placed order as returned by the platform API.
type Order struct {
	ID              string     `json:"id"`
	UserID          string     `json:"user_id"`
	Items           []LineItem `json:"items"`
	Subtotal        int64      `json:"subtotal"`
	Shipping        int64      `json:"shipping"`
	Tax             int64      `json:"tax"`
	Total           int64      `json:"total"`
	PaymentMethod   string     `json:"paymentMethod"`
	ShippingAddress Address    `json:"shippingAddress"`
	Status          string     `json:"status"`
	CreatedAt       time.Time  `json:"created_at"`
}

// IsValidOrderStatus checks whether the given string is a known order status.
func IsValidOrderStatus(status string) bool {
	switch status {
	case OrderStatusPending, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}
