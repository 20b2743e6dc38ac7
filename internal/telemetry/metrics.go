package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// BusinessMetrics holds Prometheus metrics for the panel's commerce
// funnel: searches, cart activity, checkouts and stock returns.
type BusinessMetrics struct {
	// Search
	SearchesIssued     prometheus.Counter
	SuggestionAccepted prometheus.Counter

	// Cart
	CartItemsAdded prometheus.Counter
	CartsCreated   prometheus.Counter
	CartsDeleted   prometheus.Counter

	// Checkout
	CheckoutCompleted prometheus.Counter
	CheckoutFailed    prometheus.Counter
	SaleValue         prometheus.Histogram

	// Inventory
	SnapshotReloads prometheus.Counter
	FieldEdits      prometheus.Counter
	ProductsDeleted prometheus.Counter

	// Stock movements
	ReturnsSubmitted prometheus.Counter
	ReturnsFailed    prometheus.Counter
	StockAdditions   prometheus.Counter
}

// Business is the process-wide metrics bundle, registered with the
// default Prometheus registerer and served on /metrics.
var Business = newBusinessMetrics()

func newBusinessMetrics() *BusinessMetrics {
	return &BusinessMetrics{
		SearchesIssued: promauto.NewCounter(prometheus.CounterOpts{
			Name: "vend_searches_issued_total",
			Help: "Remote product searches issued by the suggest controller.",
		}),
		SuggestionAccepted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "vend_suggestion_accepted_total",
			Help: "Suggestions accepted into a cart via Enter.",
		}),
		CartItemsAdded: promauto.NewCounter(prometheus.CounterOpts{
			Name: "vend_cart_items_added_total",
			Help: "Line items added or incremented across all carts.",
		}),
		CartsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "vend_carts_created_total",
			Help: "Named carts created in the registry.",
		}),
		CartsDeleted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "vend_carts_deleted_total",
			Help: "Named carts deleted from the registry.",
		}),
		CheckoutCompleted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "vend_checkout_completed_total",
			Help: "Checkouts accepted by the shop service.",
		}),
		CheckoutFailed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "vend_checkout_failed_total",
			Help: "Checkouts rejected by the shop service or the network.",
		}),
		SaleValue: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "vend_sale_value",
			Help:    "Value of completed sales.",
			Buckets: prometheus.ExponentialBuckets(1, 2.5, 10),
		}),
		SnapshotReloads: promauto.NewCounter(prometheus.CounterOpts{
			Name: "vend_snapshot_reloads_total",
			Help: "Fresh product snapshots fetched from the shop service.",
		}),
		FieldEdits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "vend_field_edits_total",
			Help: "Single-field product patches committed on blur.",
		}),
		ProductsDeleted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "vend_products_deleted_total",
			Help: "Products removed through bulk delete.",
		}),
		ReturnsSubmitted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "vend_returns_submitted_total",
			Help: "Broken-stock decrement calls that succeeded.",
		}),
		ReturnsFailed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "vend_returns_failed_total",
			Help: "Broken-stock decrement calls that failed.",
		}),
		StockAdditions: promauto.NewCounter(prometheus.CounterOpts{
			Name: "vend_stock_additions_total",
			Help: "Add-stock calls that succeeded.",
		}),
	}
}
