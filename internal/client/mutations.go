package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/wichananm65/gift-store-backend/internal/cart"
	"github.com/wichananm65/gift-store-backend/internal/catalog"
	"github.com/wichananm65/gift-store-backend/internal/product"
	"github.com/wichananm65/gift-store-backend/internal/settings"
	"github.com/wichananm65/gift-store-backend/internal/storefront"
)

// mutationResult is the aggregate endpoint's answer to a write, with the
// touched record decoded as T.
type mutationResult[T any] struct {
	aggregatePayload
	Item T `json:"item"`
}

// mutate sends a write to the aggregate endpoint and, on success, replaces
// local state with the returned snapshot. On failure local state is left
// untouched.
func mutate[T any](ctx context.Context, s *Store, op, method, path string, body any) (T, error) {
	var res mutationResult[T]
	if err := s.do(ctx, method, path, body, &res); err != nil {
		var zero T
		return zero, s.fail(op, err)
	}
	s.mu.Lock()
	s.applyAggregate(res.aggregatePayload)
	s.mu.Unlock()
	s.setStatus(StatusSuccess, op+" done")
	return res.Item, nil
}

func newMutation(typ string, id int, data any) (storefront.Mutation, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return storefront.Mutation{}, fmt.Errorf("encode %s: %w", typ, err)
	}
	return storefront.Mutation{Type: typ, ID: id, Data: raw}, nil
}

func deletePath(typ string, id int) string {
	q := url.Values{}
	q.Set("type", typ)
	q.Set("id", strconv.Itoa(id))
	return "/api/store?" + q.Encode()
}

func (s *Store) AddProduct(ctx context.Context, in product.Input) (product.Product, error) {
	m, err := newMutation(storefront.TypeProduct, 0, in)
	if err != nil {
		return product.Product{}, err
	}
	return mutate[product.Product](ctx, s, "add product", http.MethodPost, "/api/store", m)
}

func (s *Store) UpdateProduct(ctx context.Context, id int, patch product.Patch) (product.Product, error) {
	m, err := newMutation(storefront.TypeProduct, id, patch)
	if err != nil {
		return product.Product{}, err
	}
	return mutate[product.Product](ctx, s, "update product", http.MethodPut, "/api/store", m)
}

// DeleteProduct soft-deletes the product on the server and drops its lines
// from the local cart.
func (s *Store) DeleteProduct(ctx context.Context, id int) error {
	if _, err := mutate[json.RawMessage](ctx, s, "delete product", http.MethodDelete, deletePath(storefront.TypeProduct, id), nil); err != nil {
		return err
	}

	return s.changeCart(func(c *cart.Cart) (bool, error) {
		return c.RemoveProduct(id) > 0, nil
	})
}

func (s *Store) AddCatalogItem(ctx context.Context, in catalog.Input) (catalog.Item, error) {
	m, err := newMutation(storefront.TypeCatalogItem, 0, in)
	if err != nil {
		return catalog.Item{}, err
	}
	return mutate[catalog.Item](ctx, s, "add catalog item", http.MethodPost, "/api/store", m)
}

func (s *Store) UpdateCatalogItem(ctx context.Context, id int, patch catalog.Patch) (catalog.Item, error) {
	m, err := newMutation(storefront.TypeCatalogItem, id, patch)
	if err != nil {
		return catalog.Item{}, err
	}
	return mutate[catalog.Item](ctx, s, "update catalog item", http.MethodPut, "/api/store", m)
}

func (s *Store) DeleteCatalogItem(ctx context.Context, id int) error {
	_, err := mutate[json.RawMessage](ctx, s, "delete catalog item", http.MethodDelete, deletePath(storefront.TypeCatalogItem, id), nil)
	return err
}

// UpdateSettings merges the provided top-level keys into the site settings.
func (s *Store) UpdateSettings(ctx context.Context, patch settings.Patch) (settings.Settings, error) {
	m, err := newMutation(storefront.TypeSettings, 0, patch)
	if err != nil {
		return settings.Settings{}, err
	}
	return mutate[settings.Settings](ctx, s, "update settings", http.MethodPut, "/api/store", m)
}
