package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/harith2255/ecommerce-frontend/internal/domain"
	"github.com/harith2255/ecommerce-frontend/internal/repository"
	apperrors "github.com/harith2255/ecommerce-frontend/pkg/errors"
)

// persistTimeout bounds each background write so a slow store cannot stall
// the sweep loop.
const persistTimeout = 3 * time.Second

// cartEntry is the in-memory state for one session's cart. dirty is set when
// the last persist attempt failed; the next mutation or sweep retries it.
type cartEntry struct {
	cart     *domain.Cart
	dirty    bool
	lastSeen time.Time
}

// CartService holds the authoritative cart state in memory and writes every
// mutation through to durable storage. Persistence failures never fail the
// request: the in-memory cart stays correct and the write is retried later.
type CartService struct {
	repo   repository.CartRepository
	logger *slog.Logger

	mu      sync.Mutex
	entries map[string]*cartEntry

	idleTTL time.Duration
	done    chan struct{}
	stopped sync.Once
}

// NewCartService creates a cart service and starts its background sweep. The
// sweep retries failed persists and evicts entries idle longer than idleTTL.
func NewCartService(repo repository.CartRepository, logger *slog.Logger, idleTTL time.Duration) *CartService {
	s := &CartService{
		repo:    repo,
		logger:  logger,
		entries: make(map[string]*cartEntry),
		idleTTL: idleTTL,
		done:    make(chan struct{}),
	}
	go s.sweepLoop()
	return s
}

// Get returns a snapshot of the session's cart, loading it from storage on
// first access. A missing or unreadable stored cart yields an empty cart.
func (s *CartService) Get(ctx context.Context, sessionID string) (*domain.Cart, error) {
	if sessionID == "" {
		return nil, apperrors.InvalidInput("session id is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entry := s.load(ctx, sessionID)
	return entry.cart.Clone(), nil
}

// AddItem merges the product into the cart or inserts a new line, capping the
// resulting quantity at the product's stock.
func (s *CartService) AddItem(ctx context.Context, sessionID string, product domain.Product, quantity int) (*domain.Cart, error) {
	if sessionID == "" {
		return nil, apperrors.InvalidInput("session id is required")
	}
	if quantity < 1 {
		return nil, apperrors.InvalidInput("quantity must be at least 1")
	}
	if !product.InStock() {
		return nil, apperrors.Conflict("product is out of stock")
	}

	return s.mutate(ctx, sessionID, func(cart *domain.Cart) {
		cart.AddItem(product, quantity)
	})
}

// RemoveItem removes the product line from the cart. Removing a product that
// is not in the cart is a no-op.
func (s *CartService) RemoveItem(ctx context.Context, sessionID, productID string) (*domain.Cart, error) {
	if sessionID == "" {
		return nil, apperrors.InvalidInput("session id is required")
	}
	if productID == "" {
		return nil, apperrors.InvalidInput("product id is required")
	}

	return s.mutate(ctx, sessionID, func(cart *domain.Cart) {
		cart.RemoveItem(productID)
	})
}

// UpdateQuantity sets the line's quantity, clamped to [1, stock]. Updating a
// product that is not in the cart is a no-op.
func (s *CartService) UpdateQuantity(ctx context.Context, sessionID, productID string, quantity int) (*domain.Cart, error) {
	if sessionID == "" {
		return nil, apperrors.InvalidInput("session id is required")
	}
	if productID == "" {
		return nil, apperrors.InvalidInput("product id is required")
	}

	return s.mutate(ctx, sessionID, func(cart *domain.Cart) {
		cart.SetItemQuantity(productID, quantity)
	})
}

// Clear empties the session's cart.
func (s *CartService) Clear(ctx context.Context, sessionID string) (*domain.Cart, error) {
	if sessionID == "" {
		return nil, apperrors.InvalidInput("session id is required")
	}

	return s.mutate(ctx, sessionID, func(cart *domain.Cart) {
		cart.Clear()
	})
}

// Close stops the background sweep and flushes every dirty cart.
func (s *CartService) Close(ctx context.Context) error {
	s.stopped.Do(func() { close(s.done) })

	s.mu.Lock()
	defer s.mu.Unlock()

	var firstErr error
	for sessionID, entry := range s.entries {
		if !entry.dirty {
			continue
		}
		if err := s.persistLocked(ctx, sessionID, entry); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// mutate applies fn to the session's cart under the lock, persists the whole
// cart, and returns a snapshot. Persist errors are logged and swallowed.
func (s *CartService) mutate(ctx context.Context, sessionID string, fn func(*domain.Cart)) (*domain.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry := s.load(ctx, sessionID)
	fn(entry.cart)
	entry.lastSeen = time.Now()

	if err := s.persistLocked(ctx, sessionID, entry); err != nil {
		s.logger.WarnContext(ctx, "cart persist failed, will retry",
			slog.String("session_id", sessionID),
			slog.String("error", err.Error()))
	}

	return entry.cart.Clone(), nil
}

// load returns the session's entry, restoring it from storage on first
// access. Any storage failure, including corrupt data, falls back to a fresh
// empty cart rather than surfacing an error.
func (s *CartService) load(ctx context.Context, sessionID string) *cartEntry {
	if entry, ok := s.entries[sessionID]; ok {
		entry.lastSeen = time.Now()
		return entry
	}

	cart, err := s.repo.Get(ctx, sessionID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.logger.WarnContext(ctx, "stored cart unreadable, starting empty",
				slog.String("session_id", sessionID),
				slog.String("error", err.Error()))
		}
		cart = domain.NewCart(sessionID)
	}

	entry := &cartEntry{cart: cart, lastSeen: time.Now()}
	s.entries[sessionID] = entry
	return entry
}

func (s *CartService) persistLocked(ctx context.Context, sessionID string, entry *cartEntry) error {
	var err error
	if entry.cart.IsEmpty() {
		err = s.repo.Delete(ctx, sessionID)
	} else {
		err = s.repo.Save(ctx, entry.cart)
	}
	entry.dirty = err != nil
	return err
}

// sweepLoop periodically retries dirty persists and evicts idle entries. An
// idle dirty entry is kept until its write succeeds so nothing is lost.
func (s *CartService) sweepLoop() {
	interval := s.idleTTL / 4
	if interval < time.Second {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			s.sweep()
		}
	}
}

func (s *CartService) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()

	s.mu.Lock()
	defer s.mu.Unlock()

	for sessionID, entry := range s.entries {
		if entry.dirty {
			if err := s.persistLocked(ctx, sessionID, entry); err != nil {
				s.logger.Warn("cart persist retry failed",
					slog.String("session_id", sessionID),
					slog.String("error", err.Error()))
				continue
			}
		}
		if time.Since(entry.lastSeen) > s.idleTTL {
			delete(s.entries, sessionID)
		}
	}
}
