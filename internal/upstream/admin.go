package upstream

import (
	"context"
	"net/http"
	"net/url"

	"golang.org/x/sync/errgroup"

	"github.com/harith2255/ecommerce-frontend/internal/domain"
)

// AdminClient calls the admin endpoints of the platform API. Every call
// requires an administrator's bearer credential. Mutations return the
// server-confirmed record; callers must render that, never a locally
// mutated copy.
type AdminClient struct {
	*Client
}

// NewAdminClient creates an admin API client.
func NewAdminClient(base *Client) *AdminClient {
	return &AdminClient{Client: base}
}

// ProductInput is the payload for creating or updating a product.
type ProductInput struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Price       int64  `json:"price"`
	ImageURL    string `json:"image_url,omitempty"`
	Stock       int    `json:"stock"`
	Category    string `json:"category,omitempty"`
}

// CategoryInput is the payload for creating or updating a category.
type CategoryInput struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// Dashboard aggregates the three admin collections for the console landing page.
type Dashboard struct {
	Orders   []domain.Order   `json:"orders"`
	Products []domain.Product `json:"products"`
	Users    []domain.User    `json:"users"`
}

// --- Products ---

func (c *AdminClient) ListProducts(ctx context.Context, token string) ([]domain.Product, error) {
	var products []domain.Product
	if err := c.call(ctx, http.MethodGet, "/admin/products", token, nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (c *AdminClient) CreateProduct(ctx context.Context, token string, input ProductInput) (*domain.Product, error) {
	var product domain.Product
	if err := c.call(ctx, http.MethodPost, "/admin/products", token, input, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (c *AdminClient) UpdateProduct(ctx context.Context, token, id string, input ProductInput) (*domain.Product, error) {
	var product domain.Product
	if err := c.call(ctx, http.MethodPut, "/admin/products/"+url.PathEscape(id), token, input, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (c *AdminClient) DeleteProduct(ctx context.Context, token, id string) error {
	return c.call(ctx, http.MethodDelete, "/admin/products/"+url.PathEscape(id), token, nil, nil)
}

// --- Categories ---

func (c *AdminClient) ListCategories(ctx context.Context, token string) ([]domain.Category, error) {
	var categories []domain.Category
	if err := c.call(ctx, http.MethodGet, "/admin/categories", token, nil, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

func (c *AdminClient) CreateCategory(ctx context.Context, token string, input CategoryInput) (*domain.Category, error) {
	var category domain.Category
	if err := c.call(ctx, http.MethodPost, "/admin/categories", token, input, &category); err != nil {
		return nil, err
	}
	return &category, nil
}

func (c *AdminClient) UpdateCategory(ctx context.Context, token, id string, input CategoryInput) (*domain.Category, error) {
	var category domain.Category
	if err := c.call(ctx, http.MethodPut, "/admin/categories/"+url.PathEscape(id), token, input, &category); err != nil {
		return nil, err
	}
	return &category, nil
}

func (c *AdminClient) DeleteCategory(ctx context.Context, token, id string) error {
	return c.call(ctx, http.MethodDelete, "/admin/categories/"+url.PathEscape(id), token, nil, nil)
}

// --- Orders ---

func (c *AdminClient) ListOrders(ctx context.Context, token string) ([]domain.Order, error) {
	var orders []domain.Order
	if err := c.call(ctx, http.MethodGet, "/admin/orders", token, nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (c *AdminClient) UpdateOrderStatus(ctx context.Context, token, id, status string) (*domain.Order, error) {
	var order domain.Order
	body := map[string]string{"status": status}
	if err := c.call(ctx, http.MethodPut, "/admin/orders/"+url.PathEscape(id)+"/status", token, body, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// --- Users ---

func (c *AdminClient) ListUsers(ctx context.Context, token string) ([]domain.User, error) {
	var users []domain.User
	if err := c.call(ctx, http.MethodGet, "/admin/users", token, nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (c *AdminClient) SetUserStatus(ctx context.Context, token, id string, active bool) (*domain.User, error) {
	var user domain.User
	body := map[string]bool{"is_active": active}
	if err := c.call(ctx, http.MethodPut, "/admin/users/"+url.PathEscape(id)+"/status", token, body, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// --- Dashboard ---

// GetDashboard fetches orders, products, and users concurrently. Any failing
// fetch fails the whole dashboard.
func (c *AdminClient) GetDashboard(ctx context.Context, token string) (*Dashboard, error) {
	var dash Dashboard

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		orders, err := c.ListOrders(gctx, token)
		dash.Orders = orders
		return err
	})
	g.Go(func() error {
		products, err := c.ListProducts(gctx, token)
		dash.Products = products
		return err
	})
	g.Go(func() error {
		users, err := c.ListUsers(gctx, token)
		dash.Users = users
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &dash, nil
}
