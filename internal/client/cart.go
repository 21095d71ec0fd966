package client

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/wichananm65/gift-store-backend/internal/cart"
	"github.com/wichananm65/gift-store-backend/internal/product"
	"github.com/wichananm65/gift-store-backend/internal/settings"
)

// Cart operations never reach the server. Every change is persisted.

func (s *Store) AddToCart(p product.Product, quantity int, customText, theme string) (cart.Item, error) {
	var line cart.Item
	err := s.changeCart(func(c *cart.Cart) (bool, error) {
		var err error
		line, err = c.Add(p, quantity, customText, theme)
		return err == nil, err
	})
	if err != nil {
		return cart.Item{}, err
	}
	return line, nil
}

// UpdateCartItem sets a line's quantity; zero removes the line.
func (s *Store) UpdateCartItem(cartItemID string, quantity int) error {
	return s.changeCart(func(c *cart.Cart) (bool, error) {
		if err := c.Update(cartItemID, quantity); err != nil {
			return false, err
		}
		return true, nil
	})
}

func (s *Store) RemoveFromCart(cartItemID string) error {
	return s.changeCart(func(c *cart.Cart) (bool, error) {
		if err := c.Remove(cartItemID); err != nil {
			return false, err
		}
		return true, nil
	})
}

func (s *Store) ClearCart() error {
	return s.changeCart(func(c *cart.Cart) (bool, error) {
		c.Clear()
		return true, nil
	})
}

func (s *Store) CartSubtotal() decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cart.Subtotal()
}

// changeCart applies fn to the cart and, when fn reports a change, saves the
// result before any other cart change can start.
func (s *Store) changeCart(fn func(*cart.Cart) (bool, error)) error {
	s.persistMu.Lock()
	defer s.persistMu.Unlock()

	s.mu.Lock()
	changed, err := fn(s.cart)
	items := s.cart.Items()
	s.mu.Unlock()
	if err != nil || !changed {
		return err
	}
	return s.persistCart(items)
}

func (s *Store) persistCart(items []cart.Item) error {
	if err := s.storage.Save(items); err != nil {
		s.log.WithError(err).Warn("could not persist cart")
		return fmt.Errorf("persist cart: %w", err)
	}
	return nil
}

// CheckoutLink builds the wa.me deep link carrying the order summary. Brazil's
// country code is prepended unless the configured number already has it.
func (s *Store) CheckoutLink() (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	digits := settings.Digits(s.settings.WhatsappNumber)
	if digits == "" {
		return "", ErrNoWhatsapp
	}
	if len(s.cart.Items()) == 0 {
		return "", ErrEmptyCart
	}
	if !(len(digits) > 11 && strings.HasPrefix(digits, "55")) {
		digits = "55" + digits
	}

	text := strings.ReplaceAll(url.QueryEscape(s.cart.Summary()), "+", "%20")
	return "https://wa.me/" + digits + "?text=" + text, nil
}
