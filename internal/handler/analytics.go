package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/dukerupert/vend/internal/catalog"
	"github.com/labstack/echo/v4"
)

// AnalyticsHandler passes server-aggregated dashboard reads straight
// through to the UI. The panel imposes no contract on the payloads
// beyond transport.
type AnalyticsHandler struct {
	client catalog.Client
	logger *slog.Logger
}

// NewAnalyticsHandler creates an analytics handler.
func NewAnalyticsHandler(client catalog.Client, logger *slog.Logger) *AnalyticsHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AnalyticsHandler{client: client, logger: logger}
}

// Revenue handles GET /analytics/revenue?period=.
func (h *AnalyticsHandler) Revenue(c echo.Context) error {
	raw, err := h.client.RevenueSeries(c.Request().Context(), c.QueryParam("period"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSONBlob(http.StatusOK, raw)
}

// TopProducts handles GET /analytics/top-products?period=&limit=.
func (h *AnalyticsHandler) TopProducts(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	raw, err := h.client.TopProducts(c.Request().Context(), c.QueryParam("period"), limit)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSONBlob(http.StatusOK, raw)
}

// Summary handles GET /analytics/summary.
func (h *AnalyticsHandler) Summary(c echo.Context) error {
	raw, err := h.client.SalesSummary(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSONBlob(http.StatusOK, raw)
}

// Sales handles GET /analytics/sales?from=&to=&page=&page_size=.
func (h *AnalyticsHandler) Sales(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	pageSize, _ := strconv.Atoi(c.QueryParam("page_size"))
	raw, err := h.client.SalesDetail(c.Request().Context(), catalog.SalesDetailParams{
		From:     c.QueryParam("from"),
		To:       c.QueryParam("to"),
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSONBlob(http.StatusOK, raw)
}
