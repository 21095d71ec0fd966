package cart

import (
	"strconv"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wichananm65/gift-store-backend/internal/product"
)

func newTestCart() *Cart {
	c := New(nil)
	n := 0
	c.newID = func() string {
		n++
		return "line-" + strconv.Itoa(n)
	}
	return c
}

var caneca = product.Product{ID: 1, Name: "Caneca Mágica", Price: 19.9, IsActive: true}

func TestAdd_MergesSamePersonalization(t *testing.T) {
	c := newTestCart()

	first, err := c.Add(caneca, 1, "Ana", "festa")
	require.NoError(t, err)
	second, err := c.Add(caneca, 2, " Ana ", "festa")
	require.NoError(t, err)

	assert.Equal(t, first.CartItemID, second.CartItemID)
	require.Len(t, c.Items(), 1)
	assert.Equal(t, 3, c.Items()[0].Quantity)
}

func TestAdd_DifferentPersonalizationAppends(t *testing.T) {
	c := newTestCart()

	_, err := c.Add(caneca, 1, "Ana", "festa")
	require.NoError(t, err)
	_, err = c.Add(caneca, 1, "Ana", "natal")
	require.NoError(t, err)
	_, err = c.Add(caneca, 1, "Bia", "festa")
	require.NoError(t, err)
	_, err = c.Add(caneca, 1, "", "")
	require.NoError(t, err)

	assert.Len(t, c.Items(), 4)
	assert.Equal(t, 4, c.Count())
}

func TestAdd_RejectsNonPositive(t *testing.T) {
	c := newTestCart()
	_, err := c.Add(caneca, 0, "", "")
	assert.ErrorIs(t, err, ErrInvalidQuantity)
}

func TestUpdateZeroEqualsRemove(t *testing.T) {
	a, b := newTestCart(), newTestCart()
	lineA, _ := a.Add(caneca, 2, "", "festa")
	lineB, _ := b.Add(caneca, 2, "", "festa")

	require.NoError(t, a.Update(lineA.CartItemID, 0))
	require.NoError(t, b.Remove(lineB.CartItemID))
	assert.Equal(t, a.Items(), b.Items())
	assert.Empty(t, a.Items())

	assert.ErrorIs(t, a.Update("missing", 3), ErrLineNotFound)
	assert.ErrorIs(t, a.Update("missing", -1), ErrInvalidQuantity)
}

func TestSubtotalIsDecimalExact(t *testing.T) {
	c := newTestCart()
	_, err := c.Add(caneca, 2, "", "festa")
	require.NoError(t, err)
	_, err = c.Add(product.Product{ID: 2, Name: "Chaveiro", Price: 0.1}, 3, "", "")
	require.NoError(t, err)

	assert.Equal(t, "40.10", c.Subtotal().StringFixed(2))
}

func TestRemoveProduct(t *testing.T) {
	c := newTestCart()
	c.Add(caneca, 1, "Ana", "")
	c.Add(product.Product{ID: 2, Name: "Chaveiro", Price: 5}, 1, "", "")
	c.Add(caneca, 1, "Bia", "")

	assert.Equal(t, 2, c.RemoveProduct(1))
	require.Len(t, c.Items(), 1)
	assert.Equal(t, 2, c.Items()[0].ID)
}

func TestReplaceDropsEmptyLinesAndFillsIDs(t *testing.T) {
	c := newTestCart()
	c.Replace([]Item{
		{Product: caneca, Quantity: 1},
		{Product: caneca, Quantity: 0, CartItemID: "gone"},
		{Product: caneca, Quantity: 2, CartItemID: "kept"},
	})
	items := c.Items()
	require.Len(t, items, 2)
	assert.NotEmpty(t, items[0].CartItemID)
	assert.Equal(t, "kept", items[1].CartItemID)
}

func TestSummary(t *testing.T) {
	c := newTestCart()
	c.Add(caneca, 2, "Ana", "festa")

	s := c.Summary()
	assert.Contains(t, s, "2x Caneca Mágica - R$ 39,80")
	assert.Contains(t, s, "Tema: festa")
	assert.Contains(t, s, "Personalização: Ana")
	assert.Contains(t, s, "Total: R$ 39,80")
}

func TestFormatBRL(t *testing.T) {
	assert.Equal(t, "R$ 0,00", FormatBRL(decimal.Zero))
	assert.Equal(t, "R$ 1.234,50", FormatBRL(decimal.RequireFromString("1234.5")))
	assert.Equal(t, "R$ 1.000.000,00", FormatBRL(decimal.NewFromInt(1000000)))
	assert.Equal(t, "-R$ 3,10", FormatBRL(decimal.RequireFromString("-3.1")))
}
