package domain

import "strings"

// Product is a catalog entry.
type Product struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	Price       float64  `json:"price"`
	Category    string   `json:"category"`
	Image       string   `json:"image"`
	Description string   `json:"description"`
	Colors      []string `json:"colors"`
	Sizes       []string `json:"sizes"`
}

// Clone returns a deep copy so stores never hand out their own slices.
func (p *Product) Clone() *Product {
	c := *p
	c.Colors = append([]string(nil), p.Colors...)
	c.Sizes = append([]string(nil), p.Sizes...)
	if c.Colors == nil {
		c.Colors = []string{}
	}
	if c.Sizes == nil {
		c.Sizes = []string{}
	}
	return &c
}

// ProductFilter narrows a catalog listing. Empty fields match everything.
type ProductFilter struct {
	Category string
	Query    string
}

// Matches applies case-insensitive substring matching.
func (f ProductFilter) Matches(p *Product) bool {
	if f.Category != "" && !containsFold(p.Category, f.Category) {
		return false
	}
	if f.Query != "" {
		return containsFold(p.Name, f.Query) ||
			containsFold(p.Description, f.Query) ||
			containsFold(p.Category, f.Query)
	}
	return true
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(strings.TrimSpace(sub)))
}
