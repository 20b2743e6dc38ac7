// Package returns manages the broken-stock return basket: one implicit
// cart whose submission decrements stock on the shop service instead of
// recording a sale.
package returns

import (
	"context"
	"log/slog"
	"sort"
	"sync"

	"github.com/dukerupert/vend/internal/catalog"
	"github.com/dukerupert/vend/internal/domain"
	"github.com/dukerupert/vend/internal/telemetry"
)

// Line is one broken-stock entry. Unlike a POS line it has no editable
// price: the cost sheet is a fixed copy of the product at add time.
type Line struct {
	Product domain.Product `json:"product"`
	Qty     int            `json:"qty"`
}

// Journal persists the broken cart draft under its own key,
// independent of the POS registry.
type Journal interface {
	SaveBrokenCart(lines []Line) error
	LoadBrokenCart() ([]Line, error)
}

// Manager owns the single broken-return cart. Safe for concurrent use.
type Manager struct {
	mu      sync.Mutex
	lines   map[string]*Line
	client  catalog.Client
	journal Journal
	logger  *slog.Logger
}

// NewManager restores the broken cart from the journal, starting empty
// when the draft is absent or malformed.
func NewManager(client catalog.Client, journal Journal, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}

	m := &Manager{
		lines:   make(map[string]*Line),
		client:  client,
		journal: journal,
		logger:  logger,
	}

	if journal == nil {
		return m
	}

	lines, err := journal.LoadBrokenCart()
	if err != nil {
		logger.Warn("no usable broken-cart draft, starting empty", "error", err)
		return m
	}
	for _, l := range lines {
		if l.Product.ID == "" {
			continue
		}
		line := l
		m.lines[line.Product.ID] = &line
	}
	return m
}

// Add puts a product in the broken cart with the same add-or-increment
// rules as a POS cart: zero-stock products are rejected as new lines,
// and an increment is bounded by the stock snapshot captured at add
// time, ignoring the stock on the product record passed in.
func (m *Manager) Add(p domain.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if line, ok := m.lines[p.ID]; ok {
		if line.Qty+1 > line.Product.Stock {
			return domain.ErrStockExceeded
		}
		line.Qty++
		m.persist()
		return nil
	}

	if p.Stock <= 0 {
		return domain.ErrOutOfStock
	}

	m.lines[p.ID] = &Line{Product: p, Qty: 1}
	m.persist()
	return nil
}

// SetQty sets a line's quantity, clamped to [0, stock snapshot].
func (m *Manager) SetQty(productID string, qty int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	line, ok := m.lines[productID]
	if !ok {
		return domain.ErrLineNotFound
	}
	if qty < 0 {
		qty = 0
	}
	if qty > line.Product.Stock {
		qty = line.Product.Stock
	}
	line.Qty = qty
	m.persist()
	return nil
}

// Remove deletes a line unconditionally.
func (m *Manager) Remove(productID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.lines, productID)
	m.persist()
}

// Lines returns copies of all lines sorted by product id.
func (m *Manager) Lines() []Line {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.linesLocked()
}

// Len returns the number of lines in the broken cart.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.lines)
}

// Submit issues one independent decrement-stock call per line, in
// product id order. An empty cart is a no-op with no network calls.
//
// The fan-out is best effort: a failed call does not stop the rest.
// Lines whose call succeeded leave the cart; failed lines stay so the
// operator can retry exactly those, and the returned PartialBatchError
// names each of them. Full success clears the cart.
func (m *Manager) Submit(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.lines) == 0 {
		return nil
	}

	var failures []domain.ItemFailure
	for _, line := range m.linesLocked() {
		if line.Qty <= 0 {
			// In-progress zero edits are skipped, not submitted.
			delete(m.lines, line.Product.ID)
			continue
		}
		if err := m.client.ReturnBrokenStock(ctx, line.Product.ID, line.Qty); err != nil {
			telemetry.Business.ReturnsFailed.Inc()
			m.logger.Error("broken-stock return failed",
				"product_id", line.Product.ID,
				"qty", line.Qty,
				"error", err,
			)
			failures = append(failures, domain.ItemFailure{ProductID: line.Product.ID, Err: err})
			continue
		}
		telemetry.Business.ReturnsSubmitted.Inc()
		delete(m.lines, line.Product.ID)
	}

	m.persist()

	if len(failures) > 0 {
		return &domain.PartialBatchError{Op: "returns.submit", Failures: failures}
	}
	return nil
}

// linesLocked returns line copies in product id order. Callers hold m.mu.
func (m *Manager) linesLocked() []Line {
	out := make([]Line, 0, len(m.lines))
	for _, line := range m.lines {
		out = append(out, *line)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Product.ID < out[j].Product.ID })
	return out
}

// persist journals the broken cart. Callers hold m.mu.
func (m *Manager) persist() {
	if m.journal == nil {
		return
	}
	if err := m.journal.SaveBrokenCart(m.linesLocked()); err != nil {
		m.logger.Warn("failed to persist broken-cart draft", "error", err)
	}
}
