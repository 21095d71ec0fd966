// Package cart holds the shopper's local cart. It is never synced to the
// server; the client store persists it between sessions.
package cart

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/wichananm65/gift-store-backend/internal/product"
)

var (
	ErrInvalidQuantity = errors.New("quantity must be positive")
	ErrLineNotFound    = errors.New("cart line not found")
)

// Item is a product snapshot plus the line's quantity and personalization.
type Item struct {
	product.Product
	CartItemID string `json:"cartItemId"`
	Quantity   int    `json:"quantity"`
	CustomText string `json:"customText,omitempty"`
	Theme      string `json:"theme,omitempty"`
}

// LineTotal is price times quantity, exact to the cent.
func (it Item) LineTotal() decimal.Decimal {
	return decimal.NewFromFloat(it.Price).Mul(decimal.NewFromInt(int64(it.Quantity))).Round(2)
}

func (it Item) sameLine(productID int, customText, theme string) bool {
	return it.ID == productID && it.CustomText == customText && it.Theme == theme
}

// Cart is an ordered list of lines. It is not safe for concurrent use.
type Cart struct {
	items []Item
	newID func() string
}

func New(items []Item) *Cart {
	c := &Cart{newID: uuid.NewString}
	c.Replace(items)
	return c
}

// Replace swaps the cart content, dropping lines with no quantity.
func (c *Cart) Replace(items []Item) {
	c.items = make([]Item, 0, len(items))
	for _, it := range items {
		if it.Quantity <= 0 {
			continue
		}
		if it.CartItemID == "" {
			it.CartItemID = c.newID()
		}
		c.items = append(c.items, it)
	}
}

// Items returns a copy of the lines in insertion order.
func (c *Cart) Items() []Item {
	out := make([]Item, len(c.items))
	copy(out, c.items)
	return out
}

// Add merges qty into the line with the same product, custom text and theme,
// or appends a new line when none matches.
func (c *Cart) Add(p product.Product, qty int, customText, theme string) (Item, error) {
	if qty <= 0 {
		return Item{}, ErrInvalidQuantity
	}
	customText = strings.TrimSpace(customText)
	theme = strings.TrimSpace(theme)

	for i := range c.items {
		if c.items[i].sameLine(p.ID, customText, theme) {
			c.items[i].Quantity += qty
			return c.items[i], nil
		}
	}

	it := Item{Product: p, CartItemID: c.newID(), Quantity: qty, CustomText: customText, Theme: theme}
	c.items = append(c.items, it)
	return it, nil
}

// Update sets the quantity of a line. Zero removes it.
func (c *Cart) Update(cartItemID string, qty int) error {
	if qty < 0 {
		return ErrInvalidQuantity
	}
	if qty == 0 {
		return c.Remove(cartItemID)
	}
	for i := range c.items {
		if c.items[i].CartItemID == cartItemID {
			c.items[i].Quantity = qty
			return nil
		}
	}
	return ErrLineNotFound
}

func (c *Cart) Remove(cartItemID string) error {
	for i := range c.items {
		if c.items[i].CartItemID == cartItemID {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return nil
		}
	}
	return ErrLineNotFound
}

// RemoveProduct drops every line of productID and reports how many went.
func (c *Cart) RemoveProduct(productID int) int {
	kept := c.items[:0]
	removed := 0
	for _, it := range c.items {
		if it.ID == productID {
			removed++
			continue
		}
		kept = append(kept, it)
	}
	c.items = kept
	return removed
}

func (c *Cart) Clear() {
	c.items = nil
}

// Count is the number of units across all lines.
func (c *Cart) Count() int {
	n := 0
	for _, it := range c.items {
		n += it.Quantity
	}
	return n
}

func (c *Cart) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for _, it := range c.items {
		total = total.Add(it.LineTotal())
	}
	return total
}

// Summary renders the plain-text order sent through WhatsApp.
func (c *Cart) Summary() string {
	var b strings.Builder
	b.WriteString("Olá! Gostaria de fazer o pedido:\n")
	for _, it := range c.items {
		fmt.Fprintf(&b, "\n%dx %s - %s", it.Quantity, it.Name, FormatBRL(it.LineTotal()))
		if it.Theme != "" {
			fmt.Fprintf(&b, "\n   Tema: %s", it.Theme)
		}
		if it.CustomText != "" {
			fmt.Fprintf(&b, "\n   Personalização: %s", it.CustomText)
		}
	}
	fmt.Fprintf(&b, "\n\nTotal: %s", FormatBRL(c.Subtotal()))
	return b.String()
}

// FormatBRL formats an amount as Brazilian reais, e.g. "R$ 1.234,50".
func FormatBRL(d decimal.Decimal) string {
	s := d.StringFixed(2)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	intPart, frac, _ := strings.Cut(s, ".")
	var grouped strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			grouped.WriteByte('.')
		}
		grouped.WriteRune(r)
	}
	out := "R$ " + grouped.String() + "," + frac
	if neg {
		out = "-" + out
	}
	return out
}
