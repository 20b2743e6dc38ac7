// Package server assembles the panel's HTTP surface: the JSON facade
// for the operator UI plus the Prometheus metrics endpoint.
package server

import (
	"log/slog"

	"github.com/dukerupert/vend/internal/handler"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Deps bundles the handlers the server routes to.
type Deps struct {
	Cart          *handler.CartHandler
	Inventory     *handler.InventoryHandler
	Returns       *handler.ReturnsHandler
	POSSearch     *handler.SearchHandler
	ReturnsSearch *handler.SearchHandler
	Analytics     *handler.AnalyticsHandler
	Logger        *slog.Logger
}

// New builds the echo instance with all routes registered.
func New(deps Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.RequestID())
	e.Use(middleware.Recover())

	// POS multi-cart registry
	e.GET("/carts", deps.Cart.List)
	e.POST("/carts", deps.Cart.Create)
	e.DELETE("/carts/:id", deps.Cart.Delete)
	e.POST("/carts/:id/activate", deps.Cart.Activate)
	e.POST("/carts/:id/items", deps.Cart.AddItem)
	e.PATCH("/carts/:id/items/:productID", deps.Cart.UpdateItem)
	e.DELETE("/carts/:id/items/:productID", deps.Cart.RemoveItem)
	e.POST("/carts/:id/checkout", deps.Cart.Checkout)

	// Inventory table
	e.GET("/inventory", deps.Inventory.View)
	e.POST("/inventory", deps.Inventory.Register)
	e.POST("/inventory/reload", deps.Inventory.Reload)
	e.PUT("/inventory/filters", deps.Inventory.SetFilter)
	e.DELETE("/inventory/filters/:field", deps.Inventory.ClearFilter)
	e.PUT("/inventory/sort", deps.Inventory.SetSort)
	e.DELETE("/inventory/sort", deps.Inventory.ClearSort)
	e.POST("/inventory/selection/:id", deps.Inventory.ToggleSelect)
	e.PATCH("/inventory/:id/fields/:field", deps.Inventory.EditField)
	e.POST("/inventory/delete-selected", deps.Inventory.BulkDelete)
	e.POST("/inventory/add-stock", deps.Inventory.AddStock)
	e.GET("/inventory/export", deps.Inventory.Export)

	// Broken-stock returns
	e.GET("/returns", deps.Returns.List)
	e.POST("/returns/items", deps.Returns.Add)
	e.PATCH("/returns/items/:productID", deps.Returns.UpdateQty)
	e.DELETE("/returns/items/:productID", deps.Returns.Remove)
	e.POST("/returns/submit", deps.Returns.Submit)

	// Search/suggest controllers, one per page
	registerSearch(e, "/search/pos", deps.POSSearch)
	registerSearch(e, "/search/returns", deps.ReturnsSearch)

	// Analytics pass-through for the dashboard
	e.GET("/analytics/revenue", deps.Analytics.Revenue)
	e.GET("/analytics/top-products", deps.Analytics.TopProducts)
	e.GET("/analytics/summary", deps.Analytics.Summary)
	e.GET("/analytics/sales", deps.Analytics.Sales)

	// Operational
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	return e
}

func registerSearch(e *echo.Echo, prefix string, h *handler.SearchHandler) {
	e.GET(prefix, h.State)
	e.POST(prefix+"/input", h.Input)
	e.POST(prefix+"/key", h.Key)
	e.POST(prefix+"/dismiss", h.Dismiss)
}
