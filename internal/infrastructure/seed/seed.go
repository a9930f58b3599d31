// Package seed loads the demo accounts and catalog the storefront ships with.
package seed

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/lewkins/storefront-api/internal/core/domain"
	"github.com/lewkins/storefront-api/internal/core/ports"
)

// Account is a demo login.
type Account struct {
	Email    string
	Password string
	Name     string
	Role     string
}

var Accounts = []Account{
	{Email: "admin@lewkins.com", Password: "admin123", Name: "Admin User", Role: domain.RoleAdmin},
	{Email: "user@example.com", Password: "user123", Name: "Regular User", Role: domain.RoleBuyer},
}

var Products = []ports.CreateProductInput{
	{
		Name:        "Classic White T-Shirt",
		Price:       150000,
		Category:    "T-Shirts",
		Image:       "https://images.pexels.com/photos/996329/pexels-photo-996329.jpeg",
		Description: "A comfortable and stylish white t-shirt made from 100% cotton.",
		Colors:      []string{"White", "Black", "Gray"},
		Sizes:       []string{"XS", "S", "M", "L", "XL"},
	},
	{
		Name:        "Denim Jacket",
		Price:       450000,
		Category:    "Jackets",
		Image:       "https://images.pexels.com/photos/1040945/pexels-photo-1040945.jpeg",
		Description: "A trendy denim jacket perfect for casual outings.",
		Colors:      []string{"Blue", "Black"},
		Sizes:       []string{"S", "M", "L", "XL"},
	},
	{
		Name:        "Summer Dress",
		Price:       275000,
		Category:    "Dresses",
		Image:       "https://images.pexels.com/photos/985635/pexels-photo-985635.jpeg",
		Description: "A beautiful summer dress for warm weather.",
		Colors:      []string{"Red", "Blue", "Yellow"},
		Sizes:       []string{"XS", "S", "M", "L"},
	},
	{
		Name:        "Casual Jeans",
		Price:       350000,
		Category:    "Jeans",
		Image:       "https://images.pexels.com/photos/1598505/pexels-photo-1598505.jpeg",
		Description: "Comfortable casual jeans for everyday wear.",
		Colors:      []string{"Blue", "Black"},
		Sizes:       []string{"28", "30", "32", "34", "36"},
	},
	{
		Name:        "Black Sneakers",
		Price:       750000,
		Category:    "Shoes",
		Image:       "https://images.pexels.com/photos/2529148/pexels-photo-2529148.jpeg",
		Description: "Comfortable black sneakers with excellent support. Ideal for daily wear and light athletic activities.",
		Colors:      []string{"Black", "White", "Gray"},
		Sizes:       []string{"7", "8", "9", "10", "11", "12"},
	},
	{
		Name:        "Leather Wallet",
		Price:       300000,
		Category:    "Accessories",
		Image:       "https://images.pexels.com/photos/1152077/pexels-photo-1152077.jpeg",
		Description: "Premium leather wallet with multiple card slots and bill compartments. Compact yet spacious design.",
		Colors:      []string{"Brown", "Black"},
		Sizes:       []string{"One Size"},
	},
	{
		Name:        "Wool Sweater",
		Price:       420000,
		Category:    "Sweaters",
		Image:       "https://images.pexels.com/photos/1040945/pexels-photo-1040945.jpeg",
		Description: "Cozy wool sweater perfect for cold weather. Soft texture and classic design that never goes out of style.",
		Colors:      []string{"Navy", "Gray", "Burgundy"},
		Sizes:       []string{"S", "M", "L", "XL"},
	},
}

// Load registers the demo accounts and creates the demo catalog. It must run
// against empty stores so the admin account gets id 1.
func Load(ctx context.Context, auth ports.AuthService, products ports.ProductService, log zerolog.Logger) error {
	for _, a := range Accounts {
		if _, _, err := auth.Register(ctx, ports.RegisterInput{
			Email:    a.Email,
			Password: a.Password,
			Name:     a.Name,
			Role:     a.Role,
		}); err != nil {
			return fmt.Errorf("seed account %s: %w", a.Email, err)
		}
	}

	for _, p := range Products {
		if _, err := products.Create(ctx, p); err != nil {
			return fmt.Errorf("seed product %s: %w", p.Name, err)
		}
	}

	log.Info().Int("accounts", len(Accounts)).Int("products", len(Products)).Msg("demo data loaded")
	return nil
}
