package cart

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/dukerupert/vend/internal/catalog"
	"github.com/dukerupert/vend/internal/domain"
	"github.com/dukerupert/vend/internal/telemetry"
)

// DefaultCartID names the cart the registry falls back to when no
// draft state exists. The registry is never empty.
const DefaultCartID = "walkin-1"

// RegistrySnapshot is the persisted draft form of the registry.
type RegistrySnapshot struct {
	Active string                `json:"active"`
	Carts  map[string][]LineItem `json:"carts"`
}

// Journal persists the draft registry between sessions. Load errors
// mean "no usable draft" and must fall back to a default, never crash.
type Journal interface {
	SaveRegistry(snap RegistrySnapshot) error
	LoadRegistry() (RegistrySnapshot, error)
}

// Registry owns the cart-id -> Cart mapping and the active pointer.
// Every mutation is journaled so a panel restart keeps in-progress
// carts. All methods are safe for concurrent use; no two mutations of
// the registry interleave mid-operation.
type Registry struct {
	mu      sync.Mutex
	carts   map[string]*Cart
	active  string
	client  catalog.Client
	journal Journal
	logger  *slog.Logger
}

// NewRegistry restores the registry from the journal, falling back to
// a single default empty cart when the draft is absent or malformed.
func NewRegistry(client catalog.Client, journal Journal, logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}

	r := &Registry{
		carts:   map[string]*Cart{DefaultCartID: New()},
		active:  DefaultCartID,
		client:  client,
		journal: journal,
		logger:  logger,
	}

	if journal == nil {
		return r
	}

	snap, err := journal.LoadRegistry()
	if err != nil {
		logger.Warn("no usable cart draft, starting with default cart", "error", err)
		return r
	}
	if len(snap.Carts) == 0 {
		return r
	}

	carts := make(map[string]*Cart, len(snap.Carts))
	for id, lines := range snap.Carts {
		if strings.TrimSpace(id) == "" {
			continue
		}
		carts[id] = fromLines(lines)
	}
	if len(carts) == 0 {
		return r
	}

	active := snap.Active
	if _, ok := carts[active]; !ok {
		active = firstID(carts)
	}

	r.carts = carts
	r.active = active
	logger.Info("restored cart drafts", "carts", len(carts), "active", active)
	return r
}

// Create adds an empty cart under id and makes it active. Blank ids
// and ids already in use are rejected before any state changes.
func (r *Registry) Create(id string) error {
	if strings.TrimSpace(id) == "" {
		return domain.Errorf(domain.EINVALID, "cart.create", "cart id must not be blank")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.carts[id]; ok {
		return domain.ErrDuplicateCart
	}

	r.carts[id] = New()
	r.active = id
	telemetry.Business.CartsCreated.Inc()
	r.persist()
	return nil
}

// Delete removes a cart. Deleting the last remaining cart is a no-op;
// deleting the active cart activates the first remaining id in
// lexicographic order.
func (r *Registry) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.carts[id]; !ok {
		return domain.ErrCartNotFound
	}
	if len(r.carts) == 1 {
		return nil
	}

	delete(r.carts, id)
	if r.active == id {
		r.active = firstID(r.carts)
	}
	telemetry.Business.CartsDeleted.Inc()
	r.persist()
	return nil
}

// SetActive points add/checkout actions at an existing cart.
func (r *Registry) SetActive(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.carts[id]; !ok {
		return domain.ErrCartNotFound
	}
	r.active = id
	r.persist()
	return nil
}

// ActiveID returns the id of the active cart.
func (r *Registry) ActiveID() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.active
}

// IDs returns all cart ids in lexicographic order.
func (r *Registry) IDs() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	ids := make([]string, 0, len(r.carts))
	for id := range r.carts {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Add puts a product in a cart (add-or-increment semantics).
func (r *Registry) Add(cartID string, p domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.carts[cartID]
	if !ok {
		return domain.ErrCartNotFound
	}
	if err := c.AddOrIncrement(p); err != nil {
		return err
	}
	telemetry.Business.CartItemsAdded.Inc()
	r.persist()
	return nil
}

// AddToActive puts a product in the active cart. This is the sink the
// suggestion panel's Enter key feeds.
func (r *Registry) AddToActive(p domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c := r.carts[r.active]
	if err := c.AddOrIncrement(p); err != nil {
		return err
	}
	telemetry.Business.CartItemsAdded.Inc()
	r.persist()
	return nil
}

// SetQty updates a line quantity (clamped to the stock snapshot).
func (r *Registry) SetQty(cartID, productID string, qty int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.carts[cartID]
	if !ok {
		return domain.ErrCartNotFound
	}
	if err := c.SetQty(productID, qty); err != nil {
		return err
	}
	r.persist()
	return nil
}

// SetUnitPrice updates a line's unit price (clamped to >= 0).
func (r *Registry) SetUnitPrice(cartID, productID string, price float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.carts[cartID]
	if !ok {
		return domain.ErrCartNotFound
	}
	if err := c.SetUnitPrice(productID, price); err != nil {
		return err
	}
	r.persist()
	return nil
}

// Remove deletes a line item from a cart.
func (r *Registry) Remove(cartID, productID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.carts[cartID]
	if !ok {
		return domain.ErrCartNotFound
	}
	c.Remove(productID)
	r.persist()
	return nil
}

// Summary is a read view of one cart.
type Summary struct {
	CartID string     `json:"cart_id"`
	Active bool       `json:"active"`
	Items  []LineItem `json:"items"`
	Total  float64    `json:"total"`
}

// Summarize returns a read view of one cart.
func (r *Registry) Summarize(cartID string) (*Summary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.carts[cartID]
	if !ok {
		return nil, domain.ErrCartNotFound
	}
	return &Summary{
		CartID: cartID,
		Active: cartID == r.active,
		Items:  c.Lines(),
		Total:  c.Total(),
	}, nil
}

// Checkout submits the cart's full line-item list as one atomic sale.
// An empty cart is a no-op with no network call. On success the cart's
// contents are cleared but the cart id survives; on failure the cart
// is left untouched and the error carries the service's reason.
func (r *Registry) Checkout(ctx context.Context, cartID string) (*catalog.CheckoutResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.carts[cartID]
	if !ok {
		return nil, domain.ErrCartNotFound
	}
	if c.Empty() {
		return nil, nil
	}

	lines := c.Lines()
	items := make([]catalog.CheckoutItem, 0, len(lines))
	for _, l := range lines {
		items = append(items, catalog.CheckoutItem{
			ProductID: l.ProductID,
			Qty:       l.Qty,
			UnitPrice: l.UnitPrice,
		})
	}

	result, err := r.client.Checkout(ctx, catalog.CheckoutRequest{CartID: cartID, Items: items})
	if err != nil {
		telemetry.Business.CheckoutFailed.Inc()
		r.logger.Error("checkout failed, cart left intact", "cart_id", cartID, "error", err)
		return nil, fmt.Errorf("checkout %s: %w", cartID, err)
	}

	telemetry.Business.CheckoutCompleted.Inc()
	telemetry.Business.SaleValue.Observe(c.Total())
	r.logger.Info("checkout completed",
		"cart_id", cartID,
		"sale_id", result.SaleID,
		"items", len(items),
		"total", result.Total,
	)

	c.Clear()
	r.persist()
	return result, nil
}

// snapshotLocked builds the persisted form. Callers hold r.mu.
func (r *Registry) snapshotLocked() RegistrySnapshot {
	carts := make(map[string][]LineItem, len(r.carts))
	for id, c := range r.carts {
		carts[id] = c.Lines()
	}
	return RegistrySnapshot{Active: r.active, Carts: carts}
}

// persist journals the registry. A failed save keeps the in-memory
// state and is logged; draft durability never blocks the sale.
func (r *Registry) persist() {
	if r.journal == nil {
		return
	}
	if err := r.journal.SaveRegistry(r.snapshotLocked()); err != nil {
		r.logger.Warn("failed to persist cart draft", "error", err)
	}
}

func firstID(carts map[string]*Cart) string {
	ids := make([]string, 0, len(carts))
	for id := range carts {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids[0]
}
