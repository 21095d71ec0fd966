// Package storefront serves the aggregate resource the client store syncs
// against: every active product, every active catalog item and the site
// settings in one payload.
package storefront

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/wichananm65/gift-store-backend/internal/catalog"
	"github.com/wichananm65/gift-store-backend/internal/product"
	"github.com/wichananm65/gift-store-backend/internal/settings"
)

// Resource types accepted by the aggregate endpoint.
const (
	TypeProduct     = "product"
	TypeCatalogItem = "catalogItem"
	TypeSettings    = "settings"
)

var ErrUnknownType = errors.New("unknown resource type")

type Aggregate struct {
	Products     []product.Product `json:"products"`
	CatalogItems []catalog.Item    `json:"catalogItems"`
	Settings     settings.Settings `json:"settings"`
}

// Mutation is the body of POST and PUT requests. ID is ignored on create and
// for settings.
type Mutation struct {
	Type string          `json:"type"`
	ID   int             `json:"id,omitempty"`
	Data json.RawMessage `json:"data"`
}

// Result is what every mutation responds with: the refreshed aggregate and
// the record that was created or updated.
type Result struct {
	Aggregate
	Item any `json:"item,omitempty"`
}

type Service struct {
	products *product.Service
	catalog  *catalog.Service
	settings *settings.Service
}

func NewService(products *product.Service, catalog *catalog.Service, settings *settings.Service) *Service {
	return &Service{products: products, catalog: catalog, settings: settings}
}

func (s *Service) Snapshot(ctx context.Context) (Aggregate, error) {
	products, err := s.products.List(ctx)
	if err != nil {
		return Aggregate{}, fmt.Errorf("list products: %w", err)
	}
	items, err := s.catalog.List(ctx)
	if err != nil {
		return Aggregate{}, fmt.Errorf("list catalog items: %w", err)
	}
	st, err := s.settings.Get(ctx)
	if err != nil {
		return Aggregate{}, fmt.Errorf("get settings: %w", err)
	}
	if products == nil {
		products = []product.Product{}
	}
	if items == nil {
		items = []catalog.Item{}
	}
	return Aggregate{Products: products, CatalogItems: items, Settings: st}, nil
}

func (s *Service) Create(ctx context.Context, m Mutation) (Result, error) {
	var item any
	switch m.Type {
	case TypeProduct:
		var in product.Input
		if err := decode(m.Data, &in); err != nil {
			return Result{}, err
		}
		p, err := s.products.Create(ctx, in)
		if err != nil {
			return Result{}, err
		}
		item = p
	case TypeCatalogItem:
		var in catalog.Input
		if err := decode(m.Data, &in); err != nil {
			return Result{}, err
		}
		it, err := s.catalog.Create(ctx, in)
		if err != nil {
			return Result{}, err
		}
		item = it
	default:
		return Result{}, fmt.Errorf("%w: %q", ErrUnknownType, m.Type)
	}
	return s.result(ctx, item)
}

func (s *Service) Update(ctx context.Context, m Mutation) (Result, error) {
	var item any
	switch m.Type {
	case TypeProduct:
		var patch product.Patch
		if err := decode(m.Data, &patch); err != nil {
			return Result{}, err
		}
		p, err := s.products.Update(ctx, m.ID, patch)
		if err != nil {
			return Result{}, err
		}
		item = p
	case TypeCatalogItem:
		var patch catalog.Patch
		if err := decode(m.Data, &patch); err != nil {
			return Result{}, err
		}
		it, err := s.catalog.Update(ctx, m.ID, patch)
		if err != nil {
			return Result{}, err
		}
		item = it
	case TypeSettings:
		var patch settings.Patch
		if err := decode(m.Data, &patch); err != nil {
			return Result{}, err
		}
		st, err := s.settings.Update(ctx, patch)
		if err != nil {
			return Result{}, err
		}
		item = st
	default:
		return Result{}, fmt.Errorf("%w: %q", ErrUnknownType, m.Type)
	}
	return s.result(ctx, item)
}

func (s *Service) Delete(ctx context.Context, typ string, id int) (Result, error) {
	var err error
	switch typ {
	case TypeProduct:
		err = s.products.Delete(ctx, id)
	case TypeCatalogItem:
		err = s.catalog.Delete(ctx, id)
	default:
		err = fmt.Errorf("%w: %q", ErrUnknownType, typ)
	}
	if err != nil {
		return Result{}, err
	}
	return s.result(ctx, nil)
}

func (s *Service) result(ctx context.Context, item any) (Result, error) {
	agg, err := s.Snapshot(ctx)
	if err != nil {
		return Result{}, err
	}
	return Result{Aggregate: agg, Item: item}, nil
}

// ErrInvalidData wraps a data field that does not decode into the target type.
var ErrInvalidData = errors.New("invalid data")

func decode(raw json.RawMessage, dst any) error {
	if len(raw) == 0 {
		raw = json.RawMessage("{}")
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidData, err)
	}
	return nil
}
