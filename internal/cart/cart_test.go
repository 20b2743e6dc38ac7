package cart_test

import (
	"testing"

	"github.com/dukerupert/vend/internal/cart"
	"github.com/dukerupert/vend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testProduct(id string, stock int) domain.Product {
	return domain.Product{
		ID:             id,
		Name:           "Product " + id,
		Type:           "snack",
		Stock:          stock,
		Cost:           5,
		SellPriceLower: 8,
		SellPriceAvg:   10,
	}
}

func TestCart_AddOrIncrement_NewLine(t *testing.T) {
	c := cart.New()

	err := c.AddOrIncrement(testProduct("p1", 5))

	require.NoError(t, err)
	line, ok := c.Get("p1")
	require.True(t, ok)
	assert.Equal(t, 1, line.Qty)
	assert.Equal(t, 10.0, line.UnitPrice, "new lines start at the average sell price")
	assert.Equal(t, 5, line.StockSnapshot)
}

func TestCart_AddOrIncrement_SameProductTwice(t *testing.T) {
	c := cart.New()
	p := testProduct("p1", 5)

	require.NoError(t, c.AddOrIncrement(p))
	require.NoError(t, c.AddOrIncrement(p))

	line, _ := c.Get("p1")
	assert.Equal(t, 1, c.Len(), "same product must not create a second line")
	assert.Equal(t, 2, line.Qty)
}

func TestCart_AddOrIncrement_UsesLowerPriceWithoutAverage(t *testing.T) {
	c := cart.New()
	p := testProduct("p1", 5)
	p.SellPriceAvg = 0

	require.NoError(t, c.AddOrIncrement(p))

	line, _ := c.Get("p1")
	assert.Equal(t, 8.0, line.UnitPrice)
}

func TestCart_AddOrIncrement_OutOfStock(t *testing.T) {
	c := cart.New()

	err := c.AddOrIncrement(testProduct("p1", 0))

	assert.ErrorIs(t, err, domain.ErrOutOfStock)
	assert.Equal(t, 0, c.Len(), "rejected add must leave the cart unchanged")
}

func TestCart_AddOrIncrement_AtSnapshotCeiling(t *testing.T) {
	c := cart.New()
	p := testProduct("p1", 2)

	require.NoError(t, c.AddOrIncrement(p))
	require.NoError(t, c.AddOrIncrement(p))
	err := c.AddOrIncrement(p)

	assert.ErrorIs(t, err, domain.ErrStockExceeded)
	line, _ := c.Get("p1")
	assert.Equal(t, 2, line.Qty, "failed increment must not change the quantity")
}

func TestCart_AddOrIncrement_IncrementUsesSnapshotNotLiveStock(t *testing.T) {
	c := cart.New()
	require.NoError(t, c.AddOrIncrement(testProduct("p1", 3)))

	// Same product re-added with different stock: the ceiling stays at
	// the snapshot captured when the line was created.
	refetched := testProduct("p1", 0)
	err := c.AddOrIncrement(refetched)

	require.NoError(t, err)
	line, _ := c.Get("p1")
	assert.Equal(t, 2, line.Qty)
	assert.Equal(t, 3, line.StockSnapshot)
}

func TestCart_SetQty(t *testing.T) {
	tests := []struct {
		name     string
		stock    int
		qty      int
		expected int
	}{
		{name: "within range", stock: 10, qty: 7, expected: 7},
		{name: "zero is a legal edit", stock: 10, qty: 0, expected: 0},
		{name: "negative clamps to zero", stock: 10, qty: -4, expected: 0},
		{name: "above snapshot clamps to snapshot", stock: 10, qty: 25, expected: 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := cart.New()
			require.NoError(t, c.AddOrIncrement(testProduct("p1", tt.stock)))

			err := c.SetQty("p1", tt.qty)

			require.NoError(t, err)
			line, _ := c.Get("p1")
			assert.Equal(t, tt.expected, line.Qty)
		})
	}
}

func TestCart_SetQty_UnknownLine(t *testing.T) {
	c := cart.New()

	err := c.SetQty("missing", 3)

	assert.ErrorIs(t, err, domain.ErrLineNotFound)
}

func TestCart_SetQty_ZeroKeepsLine(t *testing.T) {
	c := cart.New()
	require.NoError(t, c.AddOrIncrement(testProduct("p1", 5)))

	require.NoError(t, c.SetQty("p1", 0))

	assert.Equal(t, 1, c.Len(), "a zero quantity is an in-progress edit, not a removal")
}

func TestCart_SetUnitPrice(t *testing.T) {
	c := cart.New()
	require.NoError(t, c.AddOrIncrement(testProduct("p1", 5)))

	require.NoError(t, c.SetUnitPrice("p1", 12.5))
	line, _ := c.Get("p1")
	assert.Equal(t, 12.5, line.UnitPrice)

	require.NoError(t, c.SetUnitPrice("p1", -3))
	line, _ = c.Get("p1")
	assert.Equal(t, 0.0, line.UnitPrice, "negative prices clamp to zero")
}

func TestCart_Remove(t *testing.T) {
	c := cart.New()
	require.NoError(t, c.AddOrIncrement(testProduct("p1", 5)))

	c.Remove("p1")
	c.Remove("p1") // removing an absent line is fine

	assert.True(t, c.Empty())
}

func TestCart_Total(t *testing.T) {
	c := cart.New()
	require.NoError(t, c.AddOrIncrement(testProduct("p1", 5))) // 10.0
	require.NoError(t, c.AddOrIncrement(testProduct("p2", 5))) // 10.0
	require.NoError(t, c.SetQty("p2", 3))
	require.NoError(t, c.SetUnitPrice("p2", 4))

	assert.Equal(t, 22.0, c.Total(), "1*10 + 3*4")
}

func TestCart_Lines_SortedByProductID(t *testing.T) {
	c := cart.New()
	require.NoError(t, c.AddOrIncrement(testProduct("p3", 5)))
	require.NoError(t, c.AddOrIncrement(testProduct("p1", 5)))
	require.NoError(t, c.AddOrIncrement(testProduct("p2", 5)))

	lines := c.Lines()

	require.Len(t, lines, 3)
	assert.Equal(t, "p1", lines[0].ProductID)
	assert.Equal(t, "p2", lines[1].ProductID)
	assert.Equal(t, "p3", lines[2].ProductID)
}

func TestCart_Clear(t *testing.T) {
	c := cart.New()
	require.NoError(t, c.AddOrIncrement(testProduct("p1", 5)))

	c.Clear()

	assert.True(t, c.Empty())
	assert.Equal(t, 0.0, c.Total())
}
