package catalog

import (
	"strings"
	"time"

	"github.com/wichananm65/gift-store-backend/internal/validation"
)

// Item is a themed section of the storefront grouping a set of products.
// The colour fields are presentation classes stored as opaque text and
// ProductIDs are not checked against the product table.
type Item struct {
	ID              int       `json:"id" bson:"_id"`
	Title           string    `json:"title" bson:"title"`
	Description     string    `json:"description" bson:"description"`
	BackgroundColor string    `json:"backgroundColor" bson:"backgroundColor"`
	TextColor       string    `json:"textColor" bson:"textColor"`
	ButtonColor     string    `json:"buttonColor" bson:"buttonColor"`
	ProductIDs      []int     `json:"productIds" bson:"productIds"`
	Slug            string    `json:"slug" bson:"slug"`
	Image           string    `json:"image" bson:"image"`
	IsActive        bool      `json:"isActive" bson:"isActive"`
	CreatedAt       time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt" bson:"updatedAt"`
}

type Input struct {
	Title           string `json:"title"`
	Description     string `json:"description"`
	BackgroundColor string `json:"backgroundColor"`
	TextColor       string `json:"textColor"`
	ButtonColor     string `json:"buttonColor"`
	ProductIDs      []int  `json:"productIds"`
	Image           string `json:"image"`
	IsActive        *bool  `json:"isActive,omitempty"`
}

type Patch struct {
	Title           *string `json:"title,omitempty"`
	Description     *string `json:"description,omitempty"`
	BackgroundColor *string `json:"backgroundColor,omitempty"`
	TextColor       *string `json:"textColor,omitempty"`
	ButtonColor     *string `json:"buttonColor,omitempty"`
	ProductIDs      *[]int  `json:"productIds,omitempty"`
	Slug            *string `json:"slug,omitempty"`
	Image           *string `json:"image,omitempty"`
	IsActive        *bool   `json:"isActive,omitempty"`
}

func (in Input) validate() error {
	errs := validation.Errors{}
	if strings.TrimSpace(in.Title) == "" {
		errs["title"] = "title is required"
	}
	for _, id := range in.ProductIDs {
		if id <= 0 {
			errs["productIds"] = "productIds must be positive"
			break
		}
	}
	return errs.Err()
}

func (p Patch) validate() error {
	errs := validation.Errors{}
	if p.Title != nil && strings.TrimSpace(*p.Title) == "" {
		errs["title"] = "title cannot be empty"
	}
	if p.ProductIDs != nil {
		for _, id := range *p.ProductIDs {
			if id <= 0 {
				errs["productIds"] = "productIds must be positive"
				break
			}
		}
	}
	return errs.Err()
}

func (it Item) apply(p Patch) Item {
	if p.Title != nil {
		it.Title = strings.TrimSpace(*p.Title)
	}
	if p.Description != nil {
		it.Description = *p.Description
	}
	if p.BackgroundColor != nil {
		it.BackgroundColor = *p.BackgroundColor
	}
	if p.TextColor != nil {
		it.TextColor = *p.TextColor
	}
	if p.ButtonColor != nil {
		it.ButtonColor = *p.ButtonColor
	}
	if p.ProductIDs != nil {
		it.ProductIDs = append([]int{}, (*p.ProductIDs)...)
	}
	if p.Image != nil {
		it.Image = *p.Image
	}
	if p.IsActive != nil {
		it.IsActive = *p.IsActive
	}
	return it
}
