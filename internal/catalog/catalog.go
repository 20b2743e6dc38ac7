// Package catalog is the panel's client for the remote inventory and
// sales service. The service is authoritative for every product record
// and stock counter; this package only transports requests and decodes
// snapshots.
package catalog

import (
	"context"
	"encoding/json"
	"time"

	"github.com/dukerupert/vend/internal/domain"
)

// Client defines the remote operations the panel consumes.
// Implementations must be safe for concurrent use.
type Client interface {
	// SearchProducts returns a fresh product snapshot matching params.
	// Empty params return the full catalog.
	SearchProducts(ctx context.Context, params SearchParams) ([]domain.Product, error)

	// UpdateProduct applies a partial field patch to one record and
	// returns the updated snapshot.
	UpdateProduct(ctx context.Context, id string, patch domain.Patch) (*domain.Product, error)

	// CreateProduct registers a new product with a derived profit value.
	CreateProduct(ctx context.Context, params CreateProductParams) (*domain.Product, error)

	// DeleteProducts removes the full id set in one batch request.
	// Partial rejection surfaces as a single error for the whole batch.
	DeleteProducts(ctx context.Context, ids []string) error

	// AddStock increments one product's stock counter.
	AddStock(ctx context.Context, id string, qty int) error

	// ReturnBrokenStock decrements one product's stock counter.
	ReturnBrokenStock(ctx context.Context, id string, qty int) error

	// Checkout submits one cart's line items as a single atomic sale.
	Checkout(ctx context.Context, req CheckoutRequest) (*CheckoutResult, error)

	// Analytics reads. Server-aggregated; payloads pass through untouched.
	RevenueSeries(ctx context.Context, period string) (json.RawMessage, error)
	TopProducts(ctx context.Context, period string, limit int) (json.RawMessage, error)
	SalesSummary(ctx context.Context) (json.RawMessage, error)
	SalesDetail(ctx context.Context, params SalesDetailParams) (json.RawMessage, error)
}

// SearchParams narrows a product search. Zero values are omitted from
// the request.
type SearchParams struct {
	Query string
	Type  string
}

// CreateProductParams carries a validated registration form plus the
// locally derived profit.
type CreateProductParams struct {
	domain.ProductInput
	Profit float64 `json:"profit"`
}

// CheckoutItem is one sale line: product, quantity and the unit price
// the operator agreed at the counter.
type CheckoutItem struct {
	ProductID string  `json:"product_id"`
	Qty       int     `json:"qty"`
	UnitPrice float64 `json:"unit_price"`
}

// CheckoutRequest is the atomic checkout payload for one cart.
type CheckoutRequest struct {
	CartID string         `json:"cart_id"`
	Items  []CheckoutItem `json:"items"`
}

// CheckoutResult is the service's record of a completed sale.
type CheckoutResult struct {
	SaleID string    `json:"sale_id"`
	Ts     time.Time `json:"ts"`
	Total  float64   `json:"total"`
}

// SalesDetailParams pages a sales listing by date range.
type SalesDetailParams struct {
	From     string
	To       string
	Page     int
	PageSize int
}
