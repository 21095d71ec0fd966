// Package analytics records storefront events and summarizes them for the
// admin dashboard.
package analytics

import (
	"strings"
	"time"

	"github.com/wichananm65/gift-store-backend/internal/validation"
)

type EventType string

const (
	PageView    EventType = "page_view"
	ProductView EventType = "product_view"
	AddToCart   EventType = "add_to_cart"
	Checkout    EventType = "checkout"
)

func (t EventType) Valid() bool {
	switch t {
	case PageView, ProductView, AddToCart, Checkout:
		return true
	}
	return false
}

type Event struct {
	ID        string    `json:"id" bson:"_id"`
	Type      EventType `json:"type" bson:"type"`
	Path      string    `json:"path" bson:"path"`
	ProductID *int      `json:"productId,omitempty" bson:"productId,omitempty"`
	SessionID string    `json:"sessionId,omitempty" bson:"sessionId,omitempty"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}

// EventInput is what the storefront posts.
type EventInput struct {
	Type      EventType `json:"type"`
	Path      string    `json:"path"`
	ProductID *int      `json:"productId,omitempty"`
	SessionID string    `json:"sessionId,omitempty"`
}

func (in EventInput) validate() error {
	errs := validation.Errors{}
	if !in.Type.Valid() {
		errs["type"] = "type must be one of page_view, product_view, add_to_cart, checkout"
	}
	if strings.TrimSpace(in.Path) == "" {
		errs["path"] = "path is required"
	}
	if (in.Type == ProductView || in.Type == AddToCart) && (in.ProductID == nil || *in.ProductID <= 0) {
		errs["productId"] = "productId is required for product events"
	}
	return errs.Err()
}

type ProductStat struct {
	ProductID int `json:"productId"`
	Views     int `json:"views"`
}

type DailyPoint struct {
	Date      string `json:"date"`
	PageViews int    `json:"pageViews"`
}

// Summary aggregates the events of the last Days days.
type Summary struct {
	Days           int           `json:"days"`
	From           time.Time     `json:"from"`
	PageViews      int           `json:"pageViews"`
	ProductViews   int           `json:"productViews"`
	AddToCart      int           `json:"addToCart"`
	Checkouts      int           `json:"checkouts"`
	UniqueSessions int           `json:"uniqueSessions"`
	ConversionRate float64       `json:"conversionRate"`
	TopProducts    []ProductStat `json:"topProducts"`
	Daily          []DailyPoint  `json:"daily"`
}
