package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/lewkins/storefront-api/internal/core/domain"
	"github.com/lewkins/storefront-api/internal/core/ports"
)

type ProductService struct {
	repo ports.ProductRepository
	log  zerolog.Logger
}

func NewProductService(repo ports.ProductRepository, log zerolog.Logger) *ProductService {
	return &ProductService{repo: repo, log: log}
}

func (s *ProductService) List(ctx context.Context, filter domain.ProductFilter) ([]*domain.Product, error) {
	return s.repo.List(ctx, filter)
}

func (s *ProductService) Get(ctx context.Context, id int64) (*domain.Product, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *ProductService) Create(ctx context.Context, in ports.CreateProductInput) (*domain.Product, error) {
	p, err := s.repo.Create(ctx, &domain.Product{
		Name:        in.Name,
		Price:       in.Price,
		Category:    in.Category,
		Image:       in.Image,
		Description: in.Description,
		Colors:      in.Colors,
		Sizes:       in.Sizes,
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Int64("product_id", p.ID).Str("name", p.Name).Msg("product created")
	return p, nil
}

// Update overwrites only the fields present in the input.
func (s *ProductService) Update(ctx context.Context, id int64, in ports.UpdateProductInput) (*domain.Product, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		p.Name = *in.Name
	}
	if in.Price != nil {
		p.Price = *in.Price
	}
	if in.Category != nil {
		p.Category = *in.Category
	}
	if in.Image != nil {
		p.Image = *in.Image
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if in.Colors != nil {
		p.Colors = *in.Colors
	}
	if in.Sizes != nil {
		p.Sizes = *in.Sizes
	}

	return s.repo.Update(ctx, p)
}

func (s *ProductService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Int64("product_id", id).Msg("product deleted")
	return nil
}
