package ports

import (
	"context"

	"github.com/lewkins/storefront-api/internal/core/domain"
)

// ProductRepository is the catalog store.
type ProductRepository interface {
	Create(ctx context.Context, p *domain.Product) (*domain.Product, error)
	FindByID(ctx context.Context, id int64) (*domain.Product, error)
	List(ctx context.Context, filter domain.ProductFilter) ([]*domain.Product, error)
	Update(ctx context.Context, p *domain.Product) (*domain.Product, error)
	Delete(ctx context.Context, id int64) error
}

type CreateProductInput struct {
	Name        string
	Price       float64
	Category    string
	Image       string
	Description string
	Colors      []string
	Sizes       []string
}

// UpdateProductInput applies only the non-nil fields.
type UpdateProductInput struct {
	Name        *string
	Price       *float64
	Category    *string
	Image       *string
	Description *string
	Colors      *[]string
	Sizes       *[]string
}

type ProductService interface {
	List(ctx context.Context, filter domain.ProductFilter) ([]*domain.Product, error)
	Get(ctx context.Context, id int64) (*domain.Product, error)
	Create(ctx context.Context, in CreateProductInput) (*domain.Product, error)
	Update(ctx context.Context, id int64, in UpdateProductInput) (*domain.Product, error)
	Delete(ctx context.Context, id int64) error
}
