package domain

// Checkout pricing rules. All amounts are in cents.
const (
	// FreeShippingThreshold is the subtotal above which shipping is free.
	FreeShippingThreshold = 100_00
	// FlatShippingFee applies below the free-shipping threshold.
	FlatShippingFee = 10_00
	// TaxRateBasisPoints is the tax rate applied to the subtotal (10%).
	TaxRateBasisPoints = 1000
)

// Quote is the derived pricing for a cart at checkout. It is computed from
// the line items on demand and never stored with the cart.
type Quote struct {
	Subtotal int64 `json:"subtotal"`
	Shipping int64 `json:"shipping"`
	Tax      int64 `json:"tax"`
	Total    int64 `json:"total"`
}

// QuoteFor derives checkout pricing from a set of line items:
// shipping is free above the threshold, tax is applied to the subtotal,
// and the total is the sum of all three.
func QuoteFor(items []LineItem) Quote {
	var subtotal int64
	for _, item := range items {
		subtotal += item.Subtotal()
	}

	shipping := int64(FlatShippingFee)
	if subtotal > FreeShippingThreshold {
		shipping = 0
	}

	tax := subtotal * TaxRateBasisPoints / 10_000

	return Quote{
		Subtotal: subtotal,
		Shipping: shipping,
		Tax:      tax,
		Total:    subtotal + shipping + tax,
	}
}
