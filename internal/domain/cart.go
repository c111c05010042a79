package domain

import "time"

// LineItem is one product-and-quantity entry within a cart. The quantity is
// always within [1, Stock] after any mutation.
type LineItem struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Price     int64  `json:"price"`
	ImageURL  string `json:"image_url,omitempty"`
	Stock     int    `json:"stock"`
	Category  string `json:"category,omitempty"`
	Quantity  int    `json:"quantity"`
}

// Subtotal returns price times quantity for this line item (in cents).
func (li LineItem) Subtotal() int64 {
	return li.Price * int64(li.Quantity)
}

// Cart is an ordered collection of line items keyed by product ID.
// Totals are derived, never stored.
type Cart struct {
	SessionID string     `json:"session_id"`
	Items     []LineItem `json:"items"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// NewCart creates an empty cart owned by the given client session.
func NewCart(sessionID string) *Cart {
	now := time.Now().UTC()
	return &Cart{
		SessionID: sessionID,
		Items:     []LineItem{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// AddItem adds the product to the cart. If a line item with the same product
// ID exists, its quantity is incremented; otherwise a new line item is
// appended. The resulting quantity is clamped so it never exceeds the
// product's stock ceiling.
func (c *Cart) AddItem(p Product, quantity int) {
	if i := c.findIndex(p.ID); i >= 0 {
		c.Items[i].Quantity = clamp(c.Items[i].Quantity+quantity, 1, c.Items[i].Stock)
		c.touch()
		return
	}

	c.Items = append(c.Items, LineItem{
		ProductID: p.ID,
		Name:      p.Name,
		Price:     p.Price,
		ImageURL:  p.ImageURL,
		Stock:     p.Stock,
		Category:  p.Category,
		Quantity:  clamp(quantity, 1, p.Stock),
	})
	c.touch()
}

// RemoveItem removes the line item with the given product ID. No-op if absent.
func (c *Cart) RemoveItem(productID string) {
	i := c.findIndex(productID)
	if i < 0 {
		return
	}
	c.Items = append(c.Items[:i], c.Items[i+1:]...)
	c.touch()
}

// SetItemQuantity sets the quantity for the given line item, clamped to
// [1, stock]. Removal is the explicit path to zero, so the floor is 1.
// No-op if the product ID is absent.
func (c *Cart) SetItemQuantity(productID string, quantity int) {
	i := c.findIndex(productID)
	if i < 0 {
		return
	}
	c.Items[i].Quantity = clamp(quantity, 1, c.Items[i].Stock)
	c.touch()
}

// Clear empties the cart unconditionally.
func (c *Cart) Clear() {
	c.Items = []LineItem{}
	c.touch()
}

// TotalItems returns the sum of all line-item quantities.
func (c *Cart) TotalItems() int {
	var count int
	for _, item := range c.Items {
		count += item.Quantity
	}
	return count
}

// TotalPrice returns the sum of price times quantity over all line items (in cents).
func (c *Cart) TotalPrice() int64 {
	var total int64
	for _, item := range c.Items {
		total += item.Subtotal()
	}
	return total
}

// IsEmpty reports whether the cart has no line items.
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// Snapshot returns an independent copy of the line items, safe to hand to
// checkout while the cart continues to mutate.
func (c *Cart) Snapshot() []LineItem {
	items := make([]LineItem, len(c.Items))
	copy(items, c.Items)
	return items
}

// Clone returns a deep copy of the cart.
func (c *Cart) Clone() *Cart {
	cp := *c
	cp.Items = c.Snapshot()
	return &cp
}

func (c *Cart) findIndex(productID string) int {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			return i
		}
	}
	return -1
}

func (c *Cart) touch() {
	c.UpdatedAt = time.Now().UTC()
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
