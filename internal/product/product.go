package product

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/wichananm65/gift-store-backend/internal/validation"
)

// Product is a catalog entry. IsActive doubles as the soft-delete flag.
// JSON tags follow the camelCase convention the storefront client expects.
type Product struct {
	ID              int       `json:"id" bson:"_id"`
	Name            string    `json:"name" bson:"name"`
	Description     string    `json:"description" bson:"description"`
	Price           float64   `json:"price" bson:"price"`
	Category        string    `json:"category" bson:"category"`
	Images          []string  `json:"images" bson:"images"`
	MainImage       string    `json:"mainImage" bson:"mainImage"`
	Slug            string    `json:"slug" bson:"slug"`
	ShowOnHome      bool      `json:"showOnHome" bson:"showOnHome"`
	Personalization string    `json:"personalization" bson:"personalization"`
	ProductionTime  string    `json:"productionTime" bson:"productionTime"`
	IsActive        bool      `json:"isActive" bson:"isActive"`
	CreatedAt       time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt" bson:"updatedAt"`
}

// Input is the payload accepted when creating a product.
type Input struct {
	Name            string   `json:"name"`
	Description     string   `json:"description"`
	Price           *float64 `json:"price"`
	Category        string   `json:"category"`
	Images          []string `json:"images"`
	MainImage       string   `json:"mainImage"`
	ShowOnHome      bool     `json:"showOnHome"`
	Personalization string   `json:"personalization"`
	ProductionTime  string   `json:"productionTime"`
	IsActive        *bool    `json:"isActive,omitempty"`
}

// Patch carries the fields an update may touch. Nil means "leave as is".
type Patch struct {
	Name            *string   `json:"name,omitempty"`
	Description     *string   `json:"description,omitempty"`
	Price           *float64  `json:"price,omitempty"`
	Category        *string   `json:"category,omitempty"`
	Images          *[]string `json:"images,omitempty"`
	MainImage       *string   `json:"mainImage,omitempty"`
	Slug            *string   `json:"slug,omitempty"`
	ShowOnHome      *bool     `json:"showOnHome,omitempty"`
	Personalization *string   `json:"personalization,omitempty"`
	ProductionTime  *string   `json:"productionTime,omitempty"`
	IsActive        *bool     `json:"isActive,omitempty"`
}

func (in Input) validate() error {
	errs := validation.Errors{}
	if strings.TrimSpace(in.Name) == "" {
		errs["name"] = "name is required"
	}
	if strings.TrimSpace(in.Category) == "" {
		errs["category"] = "category is required"
	}
	if in.Price == nil {
		errs["price"] = "price is required"
	} else if *in.Price < 0 {
		errs["price"] = "price must be >= 0"
	}
	return errs.Err()
}

func (p Patch) validate() error {
	errs := validation.Errors{}
	if p.Name != nil && strings.TrimSpace(*p.Name) == "" {
		errs["name"] = "name cannot be empty"
	}
	if p.Category != nil && strings.TrimSpace(*p.Category) == "" {
		errs["category"] = "category cannot be empty"
	}
	if p.Price != nil && *p.Price < 0 {
		errs["price"] = "price must be >= 0"
	}
	return errs.Err()
}

// Empty reports whether the patch carries no field at all.
func (p Patch) Empty() bool {
	return p == Patch{}
}

// apply merges the patch shallowly into p.
func (p Product) apply(patch Patch) Product {
	if patch.Name != nil {
		p.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.Price != nil {
		p.Price = roundPrice(*patch.Price)
	}
	if patch.Category != nil {
		p.Category = strings.TrimSpace(*patch.Category)
	}
	if patch.Images != nil {
		p.Images = append([]string{}, (*patch.Images)...)
	}
	if patch.MainImage != nil {
		p.MainImage = *patch.MainImage
	}
	if patch.ShowOnHome != nil {
		p.ShowOnHome = *patch.ShowOnHome
	}
	if patch.Personalization != nil {
		p.Personalization = *patch.Personalization
	}
	if patch.ProductionTime != nil {
		p.ProductionTime = *patch.ProductionTime
	}
	if patch.IsActive != nil {
		p.IsActive = *patch.IsActive
	}
	return p
}

// roundPrice keeps prices at cent precision so every backend stores the same
// value a NUMERIC(10,2) column would.
func roundPrice(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}
