// Package search drives the product autocomplete: a debounced remote
// query feeding a capped suggestion list and a full result list, with
// the keyboard contract of the panel's search boxes.
package search

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/dukerupert/vend/internal/catalog"
	"github.com/dukerupert/vend/internal/domain"
	"github.com/dukerupert/vend/internal/telemetry"
)

// DefaultMaxSuggestions caps the suggestion panel to the first N
// matches; the full result list is kept separately.
const DefaultMaxSuggestions = 10

// AddFunc receives the suggestion accepted with Enter, normally the
// active cart's add operation.
type AddFunc func(domain.Product) error

// Controller owns the suggest box state. In-flight searches are never
// cancelled: every resolved response is applied as it arrives
// (last-resolved-wins), so out-of-order resolution can transiently
// show stale suggestions. Safe for concurrent use.
type Controller struct {
	client   catalog.Client
	debounce Debouncer
	add      AddFunc
	logger   *slog.Logger
	max      int

	mu          sync.Mutex
	query       string
	results     []domain.Product
	suggestions []domain.Product
	highlight   int
	visible     bool
}

// Config contains configuration for a search controller.
type Config struct {
	Client         catalog.Client
	Add            AddFunc
	Debouncer      Debouncer    // Optional: defaults to the 150ms timer debouncer
	MaxSuggestions int          // Optional: defaults to 10
	Logger         *slog.Logger // Optional: defaults to slog.Default()
}

// NewController creates a controller for one search box.
func NewController(cfg Config) *Controller {
	debounce := cfg.Debouncer
	if debounce == nil {
		debounce = NewDebouncer(DefaultDebounce)
	}
	max := cfg.MaxSuggestions
	if max <= 0 {
		max = DefaultMaxSuggestions
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Controller{
		client:    cfg.Client,
		debounce:  debounce,
		add:       cfg.Add,
		logger:    logger,
		max:       max,
		highlight: -1,
	}
}

// SetQuery records a text-input change and arms the debounce timer.
// A blank query clears both lists immediately and cancels any pending
// search.
func (c *Controller) SetQuery(q string) {
	c.mu.Lock()
	c.query = q
	c.mu.Unlock()

	if strings.TrimSpace(q) == "" {
		c.debounce.Stop()
		c.mu.Lock()
		c.results = nil
		c.suggestions = nil
		c.highlight = -1
		c.visible = false
		c.mu.Unlock()
		return
	}

	c.debounce.Trigger(func() {
		c.runSearch(context.Background())
	})
}

// SearchNow bypasses the debounce and issues the search immediately.
func (c *Controller) SearchNow(ctx context.Context) {
	c.runSearch(ctx)
}

// runSearch issues the remote search for the current query and applies
// the response once resolved. The network call happens outside the
// state lock so the panel stays responsive.
func (c *Controller) runSearch(ctx context.Context) {
	c.mu.Lock()
	q := strings.TrimSpace(c.query)
	c.mu.Unlock()
	if q == "" {
		return
	}

	telemetry.Business.SearchesIssued.Inc()
	products, err := c.client.SearchProducts(ctx, catalog.SearchParams{Query: q})
	if err != nil {
		c.logger.Error("product search failed", "query", q, "error", err)
		return
	}

	// Last-resolved-wins: the response overwrites state regardless of
	// whether the query has moved on since.
	c.mu.Lock()
	defer c.mu.Unlock()
	c.results = products
	if len(products) > c.max {
		c.suggestions = products[:c.max]
	} else {
		c.suggestions = products
	}
	c.visible = len(c.suggestions) > 0
	if c.highlight >= len(c.suggestions) {
		c.highlight = -1
	}
}

// MoveDown advances the highlight, wrapping past the last suggestion.
func (c *Controller) MoveDown() {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := len(c.suggestions)
	if !c.visible || n == 0 {
		return
	}
	c.highlight = (c.highlight + 1) % n
}

// MoveUp retreats the highlight, wrapping before the first suggestion.
func (c *Controller) MoveUp() {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := len(c.suggestions)
	if !c.visible || n == 0 {
		return
	}
	c.highlight = (c.highlight - 1 + n) % n
}

// Enter accepts the highlighted suggestion into the cart, or, with no
// highlight, fires an immediate full search. Accepting dismisses the
// panel whether or not the add succeeded; the add error is returned to
// the caller.
func (c *Controller) Enter(ctx context.Context) error {
	c.mu.Lock()
	var picked *domain.Product
	if c.visible && c.highlight >= 0 && c.highlight < len(c.suggestions) {
		p := c.suggestions[c.highlight]
		picked = &p
	}
	c.visible = false
	c.highlight = -1
	c.mu.Unlock()

	if picked == nil {
		c.runSearch(ctx)
		return nil
	}

	if err := c.add(*picked); err != nil {
		return err
	}
	telemetry.Business.SuggestionAccepted.Inc()
	return nil
}

// Dismiss hides the suggestion panel (escape or a pointer action
// outside it) without touching the cart or the result list.
func (c *Controller) Dismiss() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.visible = false
	c.highlight = -1
}

// Show re-opens the panel when the input regains focus and there are
// suggestions to show.
func (c *Controller) Show() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.visible = len(c.suggestions) > 0
}

// Suggestions returns the capped suggestion list.
func (c *Controller) Suggestions() []domain.Product {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]domain.Product, len(c.suggestions))
	copy(out, c.suggestions)
	return out
}

// Results returns the full result list.
func (c *Controller) Results() []domain.Product {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]domain.Product, len(c.results))
	copy(out, c.results)
	return out
}

// Highlight returns the highlighted suggestion index, -1 for none.
func (c *Controller) Highlight() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.highlight
}

// Visible reports whether the suggestion panel is open.
func (c *Controller) Visible() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.visible
}
