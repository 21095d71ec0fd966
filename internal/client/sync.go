package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/robfig/cron/v3"

	"github.com/wichananm65/gift-store-backend/internal/analytics"
	"github.com/wichananm65/gift-store-backend/internal/catalog"
	"github.com/wichananm65/gift-store-backend/internal/product"
	"github.com/wichananm65/gift-store-backend/internal/settings"
)

// aggregatePayload keeps each part raw so a malformed field only costs that
// field.
type aggregatePayload struct {
	Products     json.RawMessage `json:"products"`
	CatalogItems json.RawMessage `json:"catalogItems"`
	Settings     json.RawMessage `json:"settings"`
}

// Bootstrap loads the persisted cart, checks the session and pulls the
// catalog. Failures are logged; the store stays usable with what it has.
func (s *Store) Bootstrap(ctx context.Context) {
	s.persistMu.Lock()
	items, err := s.storage.Load()
	if err != nil {
		s.log.WithError(err).Warn("could not load saved cart")
	} else {
		s.mu.Lock()
		s.cart.Replace(items)
		s.mu.Unlock()
	}
	s.persistMu.Unlock()

	if _, err := s.CheckAuth(ctx); err != nil {
		s.log.WithError(err).Debug("session check failed")
	}
	if err := s.FetchData(ctx); err != nil && !errors.Is(err, ErrSyncSkipped) {
		s.log.WithError(err).Warn("initial sync failed, starting with cached data")
	}
}

// FetchData replaces products and catalog items with the server's aggregate.
// At most one fetch runs at a time, and fetches closer than minSyncInterval
// to the last completed one are dropped with ErrSyncSkipped.
func (s *Store) FetchData(ctx context.Context) error {
	s.mu.Lock()
	if s.fetching || (!s.lastSync.IsZero() && s.now().Sub(s.lastSync) < s.minSyncInterval) {
		s.mu.Unlock()
		return ErrSyncSkipped
	}
	s.fetching = true
	s.mu.Unlock()

	s.setStatus(StatusSyncing, "syncing")

	var payload aggregatePayload
	err := s.do(ctx, http.MethodGet, "/api/store", nil, &payload)

	s.mu.Lock()
	s.fetching = false
	s.lastSync = s.now()
	if err == nil {
		s.applyAggregate(payload)
	}
	s.mu.Unlock()

	if err != nil {
		return s.fail("sync", err)
	}
	s.setStatus(StatusSuccess, "catalog up to date")
	return nil
}

// applyAggregate must be called with s.mu held.
func (s *Store) applyAggregate(p aggregatePayload) {
	var products []product.Product
	if err := json.Unmarshal(p.Products, &products); err != nil || products == nil {
		products = []product.Product{}
	}
	var items []catalog.Item
	if err := json.Unmarshal(p.CatalogItems, &items); err != nil || items == nil {
		items = []catalog.Item{}
	}
	s.products = products
	s.catalogItems = items

	if len(p.Settings) == 0 || string(p.Settings) == "null" {
		return
	}
	var st settings.Settings
	if err := json.Unmarshal(p.Settings, &st); err == nil {
		s.settings = st
	}
}

// RefreshAnalytics pulls the dashboard summary. It needs a session.
func (s *Store) RefreshAnalytics(ctx context.Context) error {
	if !s.Authenticated() {
		return ErrUnauthorized
	}
	var sum analytics.Summary
	path := fmt.Sprintf("/api/analytics?days=%d", analytics.DefaultDays)
	if err := s.do(ctx, http.MethodGet, path, nil, &sum); err != nil {
		return s.fail("analytics", err)
	}
	s.mu.Lock()
	s.summary = &sum
	s.mu.Unlock()
	return nil
}

// Track reports a storefront event. Errors are returned but never touch the
// sync status.
func (s *Store) Track(ctx context.Context, typ analytics.EventType, path string, productID *int) error {
	in := analytics.EventInput{Type: typ, Path: path, ProductID: productID, SessionID: s.sessionID}
	return s.do(ctx, http.MethodPost, "/api/analytics", in, nil)
}

// StartAutoSync schedules FetchData and, while logged in, RefreshAnalytics.
// The returned func stops the scheduler and waits for running jobs.
func (s *Store) StartAutoSync(ctx context.Context) (func(), error) {
	c := cron.New()
	if _, err := c.AddFunc(s.dataSchedule, func() {
		if err := s.FetchData(ctx); err != nil && !errors.Is(err, ErrSyncSkipped) {
			s.log.WithError(err).Debug("scheduled sync failed")
		}
	}); err != nil {
		return nil, fmt.Errorf("schedule data sync: %w", err)
	}
	if _, err := c.AddFunc(s.analyticsSchedule, func() {
		if !s.Authenticated() {
			return
		}
		if err := s.RefreshAnalytics(ctx); err != nil {
			s.log.WithError(err).Debug("scheduled analytics refresh failed")
		}
	}); err != nil {
		return nil, fmt.Errorf("schedule analytics refresh: %w", err)
	}

	c.Start()
	done := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			c.Stop()
		case <-done:
		}
	}()

	var once sync.Once
	stop := func() {
		once.Do(func() {
			close(done)
			<-c.Stop().Done()
		})
	}
	return stop, nil
}
