package handler

import "github.com/lewkins/storefront-api/internal/core/ports"

type createProductRequest struct {
	Name        string   `json:"name"        validate:"required"`
	Price       *float64 `json:"price"       validate:"required,gte=0"`
	Category    string   `json:"category"    validate:"required"`
	Image       string   `json:"image"`
	Description string   `json:"description" validate:"required"`
	Colors      []string `json:"colors"`
	Sizes       []string `json:"sizes"`
}

func (r createProductRequest) toInput() ports.CreateProductInput {
	in := ports.CreateProductInput{
		Name:        r.Name,
		Category:    r.Category,
		Image:       r.Image,
		Description: r.Description,
		Colors:      r.Colors,
		Sizes:       r.Sizes,
	}
	if r.Price != nil {
		in.Price = *r.Price
	}
	return in
}

// updateProductRequest uses pointers so absent fields are left untouched.
type updateProductRequest struct {
	Name        *string   `json:"name"`
	Price       *float64  `json:"price" validate:"omitempty,gte=0"`
	Category    *string   `json:"category"`
	Image       *string   `json:"image"`
	Description *string   `json:"description"`
	Colors      *[]string `json:"colors"`
	Sizes       *[]string `json:"sizes"`
}

func (r updateProductRequest) toInput() ports.UpdateProductInput {
	return ports.UpdateProductInput{
		Name:        r.Name,
		Price:       r.Price,
		Category:    r.Category,
		Image:       r.Image,
		Description: r.Description,
		Colors:      r.Colors,
		Sizes:       r.Sizes,
	}
}
