package repository

import (
	"context"

	"github.com/harith2255/ecommerce-frontend/internal/domain"
)

// CartRepository persists whole carts in durable key-value storage, one key
// per client session.
type CartRepository interface {
	// Get returns the cart for the session, or an error wrapping
	// apperrors.ErrNotFound when no cart is stored.
	Get(ctx context.Context, sessionID string) (*domain.Cart, error)
	// Save serializes and stores the entire cart.
	Save(ctx context.Context, cart *domain.Cart) error
	// Delete removes the stored cart for the session.
	Delete(ctx context.Context, sessionID string) error
}

// SessionRepository persists authenticated sessions keyed by bearer credential.
type SessionRepository interface {
	Get(ctx context.Context, token string) (*domain.Session, error)
	Save(ctx context.Context, session *domain.Session) error
	Delete(ctx context.Context, token string) error
}
