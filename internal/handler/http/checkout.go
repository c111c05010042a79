package http

import (
	"log/slog"
	"net/http"

	"github.com/harith2255/ecommerce-frontend/internal/domain"
	"github.com/harith2255/ecommerce-frontend/internal/service"
	"github.com/harith2255/ecommerce-frontend/pkg/httputil"
	"github.com/harith2255/ecommerce-frontend/pkg/validator"
)

// CheckoutHandler prices the cart and submits orders.
type CheckoutHandler struct {
	checkout *service.CheckoutService
	logger   *slog.Logger
}

// NewCheckoutHandler creates a checkout HTTP handler.
func NewCheckoutHandler(checkout *service.CheckoutService, logger *slog.Logger) *CheckoutHandler {
	return &CheckoutHandler{checkout: checkout, logger: logger}
}

// quoteView is the cart contents with derived pricing.
type quoteView struct {
	Items []domain.LineItem `json:"items"`
	domain.Quote
}

// Quote handles GET /api/v1/checkout/quote
func (h *CheckoutHandler) Quote(w http.ResponseWriter, r *http.Request) {
	cart, quote, err := h.checkout.Quote(r.Context(), sessionIDFromContext(r.Context()))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: quoteView{Items: cart.Items, Quote: quote}})
}

// PlaceOrder handles POST /api/v1/checkout. It runs behind RequireAuth.
func (h *CheckoutHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	var input service.CheckoutInput
	if err := validator.DecodeAndValidate(r, &input); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	order, err := h.checkout.PlaceOrder(r.Context(), sessionIDFromContext(r.Context()), sessionFromContext(r.Context()), input)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: order})
}

// ListOrders handles GET /api/v1/orders. It runs behind RequireAuth.
func (h *CheckoutHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.checkout.ListOrders(r.Context(), sessionFromContext(r.Context()))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: orders})
}
