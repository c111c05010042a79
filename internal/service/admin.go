package service

import (
	"context"
	"log/slog"

	"github.com/harith2255/ecommerce-frontend/internal/domain"
	"github.com/harith2255/ecommerce-frontend/internal/upstream"
	apperrors "github.com/harith2255/ecommerce-frontend/pkg/errors"
)

// ProductInput holds the admin product form fields.
type ProductInput struct {
	Name        string `json:"name" validate:"required,min=2,max=200"`
	Description string `json:"description" validate:"max=2000"`
	Price       int64  `json:"price" validate:"required,gt=0"`
	ImageURL    string `json:"image_url" validate:"omitempty,url"`
	Stock       int    `json:"stock" validate:"gte=0"`
	Category    string `json:"category"`
}

// CategoryInput holds the admin category form fields.
type CategoryInput struct {
	Name        string `json:"name" validate:"required,min=2,max=100"`
	Description string `json:"description" validate:"max=500"`
}

// AdminAPI is the slice of the platform admin API this service uses.
type AdminAPI interface {
	ListProducts(ctx context.Context, token string) ([]domain.Product, error)
	CreateProduct(ctx context.Context, token string, input upstream.ProductInput) (*domain.Product, error)
	UpdateProduct(ctx context.Context, token, id string, input upstream.ProductInput) (*domain.Product, error)
	DeleteProduct(ctx context.Context, token, id string) error

	ListCategories(ctx context.Context, token string) ([]domain.Category, error)
	CreateCategory(ctx context.Context, token string, input upstream.CategoryInput) (*domain.Category, error)
	UpdateCategory(ctx context.Context, token, id string, input upstream.CategoryInput) (*domain.Category, error)
	DeleteCategory(ctx context.Context, token, id string) error

	ListOrders(ctx context.Context, token string) ([]domain.Order, error)
	UpdateOrderStatus(ctx context.Context, token, id, status string) (*domain.Order, error)

	ListUsers(ctx context.Context, token string) ([]domain.User, error)
	SetUserStatus(ctx context.Context, token, id string, active bool) (*domain.User, error)

	GetDashboard(ctx context.Context, token string) (*upstream.Dashboard, error)
}

// AdminService fronts the platform admin API for the console screens. State
// never changes locally: every mutation returns the server-confirmed record
// and that record is what the console renders.
type AdminService struct {
	api    AdminAPI
	logger *slog.Logger
}

// NewAdminService creates an admin service.
func NewAdminService(api AdminAPI, logger *slog.Logger) *AdminService {
	return &AdminService{api: api, logger: logger}
}

func (s *AdminService) Dashboard(ctx context.Context, token string) (*upstream.Dashboard, error) {
	return s.api.GetDashboard(ctx, token)
}

func (s *AdminService) ListProducts(ctx context.Context, token string) ([]domain.Product, error) {
	return s.api.ListProducts(ctx, token)
}

func (s *AdminService) CreateProduct(ctx context.Context, token string, input ProductInput) (*domain.Product, error) {
	product, err := s.api.CreateProduct(ctx, token, upstream.ProductInput(input))
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "product created", slog.String("product_id", product.ID))
	return product, nil
}

func (s *AdminService) UpdateProduct(ctx context.Context, token, id string, input ProductInput) (*domain.Product, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("product id is required")
	}
	return s.api.UpdateProduct(ctx, token, id, upstream.ProductInput(input))
}

func (s *AdminService) DeleteProduct(ctx context.Context, token, id string) error {
	if id == "" {
		return apperrors.InvalidInput("product id is required")
	}
	if err := s.api.DeleteProduct(ctx, token, id); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "product deleted", slog.String("product_id", id))
	return nil
}

func (s *AdminService) ListCategories(ctx context.Context, token string) ([]domain.Category, error) {
	return s.api.ListCategories(ctx, token)
}

func (s *AdminService) CreateCategory(ctx context.Context, token string, input CategoryInput) (*domain.Category, error) {
	return s.api.CreateCategory(ctx, token, upstream.CategoryInput(input))
}

func (s *AdminService) UpdateCategory(ctx context.Context, token, id string, input CategoryInput) (*domain.Category, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("category id is required")
	}
	return s.api.UpdateCategory(ctx, token, id, upstream.CategoryInput(input))
}

func (s *AdminService) DeleteCategory(ctx context.Context, token, id string) error {
	if id == "" {
		return apperrors.InvalidInput("category id is required")
	}
	return s.api.DeleteCategory(ctx, token, id)
}

func (s *AdminService) ListOrders(ctx context.Context, token string) ([]domain.Order, error) {
	return s.api.ListOrders(ctx, token)
}

// UpdateOrderStatus moves an order to a new status. The status must be one
// the platform recognizes; anything else is rejected before the call.
func (s *AdminService) UpdateOrderStatus(ctx context.Context, token, id, status string) (*domain.Order, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("order id is required")
	}
	if !domain.IsValidOrderStatus(status) {
		return nil, apperrors.InvalidInput("unknown order status: " + status)
	}

	order, err := s.api.UpdateOrderStatus(ctx, token, id, status)
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "order status updated",
		slog.String("order_id", id),
		slog.String("status", order.Status))
	return order, nil
}

func (s *AdminService) ListUsers(ctx context.Context, token string) ([]domain.User, error) {
	return s.api.ListUsers(ctx, token)
}

// SetUserStatus blocks or unblocks a customer account.
func (s *AdminService) SetUserStatus(ctx context.Context, token, id string, active bool) (*domain.User, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("user id is required")
	}

	user, err := s.api.SetUserStatus(ctx, token, id, active)
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "user status updated",
		slog.String("user_id", id),
		slog.Bool("is_active", user.IsActive))
	return user, nil
}
