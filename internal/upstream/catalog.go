package upstream

import (
	"context"
	"net/http"
	"net/url"

	"github.com/harith2255/ecommerce-frontend/internal/domain"
)

// CatalogClient reads products and categories from the platform API. All
// catalog endpoints are public.
type CatalogClient struct {
	*Client
}

// NewCatalogClient creates a catalog API client.
func NewCatalogClient(base *Client) *CatalogClient {
	return &CatalogClient{Client: base}
}

// ListProducts returns the full product catalog.
func (c *CatalogClient) ListProducts(ctx context.Context) ([]domain.Product, error) {
	var products []domain.Product
	if err := c.call(ctx, http.MethodGet, "/products", "", nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// GetProduct returns a single product by ID.
func (c *CatalogClient) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	var product domain.Product
	if err := c.call(ctx, http.MethodGet, "/products/"+url.PathEscape(id), "", nil, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// ListCategories returns all product categories.
func (c *CatalogClient) ListCategories(ctx context.Context) ([]domain.Category, error) {
	var categories []domain.Category
	if err := c.call(ctx, http.MethodGet, "/categories", "", nil, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}
