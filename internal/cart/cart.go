// Package cart holds the point-of-sale basket state: line items keyed
// by product, and a registry of named carts with one active pointer.
//
// Stock checks here are advisory only. A line's StockSnapshot is the
// quantity-on-hand captured when the product was added; the remote
// service is the sole arbiter of whether a checkout actually succeeds.
package cart

import (
	"sort"

	"github.com/dukerupert/vend/internal/domain"
)

// LineItem is one (product, quantity, price) tuple inside a cart.
type LineItem struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Qty       int     `json:"qty"`
	UnitPrice float64 `json:"unit_price"`

	// StockSnapshot is the product's stock at add time. Advisory
	// ceiling for local edits, never re-validated until checkout.
	StockSnapshot int `json:"stock_snapshot"`
}

// Subtotal is the line's contribution to the cart total.
func (l LineItem) Subtotal() float64 {
	return float64(l.Qty) * l.UnitPrice
}

// Cart is a collection of line items, unique by product id.
type Cart struct {
	lines map[string]*LineItem
}

// New returns an empty cart.
func New() *Cart {
	return &Cart{lines: make(map[string]*LineItem)}
}

// fromLines rebuilds a cart from persisted draft lines.
func fromLines(lines []LineItem) *Cart {
	c := New()
	for _, l := range lines {
		line := l
		c.lines[line.ProductID] = &line
	}
	return c
}

// AddOrIncrement puts p in the cart. A product already present gets
// its quantity incremented by one instead of a duplicate line; the
// increment is bounded only by the line's StockSnapshot, so p.Stock is
// never consulted again once a line exists, even when the caller holds
// a fresher product record.
//
// A new line is rejected with ErrOutOfStock when the snapshot stock is
// zero; an increment is rejected with ErrStockExceeded when it would
// pass the stock snapshot captured at add time. Rejections leave the
// cart unchanged.
func (c *Cart) AddOrIncrement(p domain.Product) error {
	if line, ok := c.lines[p.ID]; ok {
		if line.Qty+1 > line.StockSnapshot {
			return domain.ErrStockExceeded
		}
		line.Qty++
		return nil
	}

	if p.Stock <= 0 {
		return domain.ErrOutOfStock
	}

	c.lines[p.ID] = &LineItem{
		ProductID:     p.ID,
		Name:          p.Name,
		Qty:           1,
		UnitPrice:     p.DefaultUnitPrice(),
		StockSnapshot: p.Stock,
	}
	return nil
}

// SetQty sets a line's quantity, clamped to [0, StockSnapshot].
// Zero is a legal in-progress edit, not a removal.
func (c *Cart) SetQty(productID string, qty int) error {
	line, ok := c.lines[productID]
	if !ok {
		return domain.ErrLineNotFound
	}
	if qty < 0 {
		qty = 0
	}
	if qty > line.StockSnapshot {
		qty = line.StockSnapshot
	}
	line.Qty = qty
	return nil
}

// SetUnitPrice sets a line's unit price, clamped to >= 0.
func (c *Cart) SetUnitPrice(productID string, price float64) error {
	line, ok := c.lines[productID]
	if !ok {
		return domain.ErrLineNotFound
	}
	if price < 0 {
		price = 0
	}
	line.UnitPrice = price
	return nil
}

// Remove deletes the product's line item unconditionally.
func (c *Cart) Remove(productID string) {
	delete(c.lines, productID)
}

// Get returns a copy of the product's line item.
func (c *Cart) Get(productID string) (LineItem, bool) {
	line, ok := c.lines[productID]
	if !ok {
		return LineItem{}, false
	}
	return *line, true
}

// Len returns the number of line items.
func (c *Cart) Len() int {
	return len(c.lines)
}

// Empty reports whether the cart has no line items.
func (c *Cart) Empty() bool {
	return len(c.lines) == 0
}

// Total sums qty * unitPrice over all lines.
func (c *Cart) Total() float64 {
	var total float64
	for _, line := range c.lines {
		total += line.Subtotal()
	}
	return total
}

// Lines returns copies of all line items sorted by product id, so
// payloads and views built from a cart are deterministic.
func (c *Cart) Lines() []LineItem {
	out := make([]LineItem, 0, len(c.lines))
	for _, line := range c.lines {
		out = append(out, *line)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProductID < out[j].ProductID })
	return out
}

// Clear removes every line item. The cart itself survives.
func (c *Cart) Clear() {
	c.lines = make(map[string]*LineItem)
}
