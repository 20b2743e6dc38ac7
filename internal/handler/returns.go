package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/dukerupert/vend/internal/domain"
	"github.com/dukerupert/vend/internal/returns"
	"github.com/labstack/echo/v4"
)

// RefreshFunc refetches the inventory snapshot after an operation that
// changed stock outside the inventory service's own calls.
type RefreshFunc func(ctx context.Context) error

// ReturnsHandler exposes the broken-stock return cart.
type ReturnsHandler struct {
	manager *returns.Manager
	refresh RefreshFunc
	logger  *slog.Logger
}

// NewReturnsHandler creates a returns handler. refresh may be nil.
func NewReturnsHandler(manager *returns.Manager, refresh RefreshFunc, logger *slog.Logger) *ReturnsHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReturnsHandler{manager: manager, refresh: refresh, logger: logger}
}

// List handles GET /returns.
func (h *ReturnsHandler) List(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"items": h.manager.Lines(),
	})
}

// Add handles POST /returns/items.
func (h *ReturnsHandler) Add(c echo.Context) error {
	var product domain.Product
	if err := c.Bind(&product); err != nil || product.ID == "" {
		return respondError(c, domain.Errorf(domain.EINVALID, "returns.add", "invalid product payload"))
	}
	if err := h.manager.Add(product); err != nil {
		return respondError(c, err)
	}
	return h.List(c)
}

// UpdateQty handles PATCH /returns/items/:productID.
func (h *ReturnsHandler) UpdateQty(c echo.Context) error {
	var req struct {
		Qty int `json:"qty"`
	}
	if err := c.Bind(&req); err != nil {
		return respondError(c, domain.Errorf(domain.EINVALID, "returns.update", "invalid request body"))
	}
	if err := h.manager.SetQty(c.Param("productID"), req.Qty); err != nil {
		return respondError(c, err)
	}
	return h.List(c)
}

// Remove handles DELETE /returns/items/:productID.
func (h *ReturnsHandler) Remove(c echo.Context) error {
	h.manager.Remove(c.Param("productID"))
	return h.List(c)
}

// Submit handles POST /returns/submit: one decrement call per line.
// Lines that failed stay in the cart and are reported back with their
// ids so the operator can retry just those. Any non-empty submit, full
// or partial, refetches the inventory snapshot so visible stock
// reflects the decrements that went through.
func (h *ReturnsHandler) Submit(c echo.Context) error {
	ctx := c.Request().Context()
	hadLines := h.manager.Len() > 0

	err := h.manager.Submit(ctx)

	if hadLines && h.refresh != nil {
		if rerr := h.refresh(ctx); rerr != nil {
			h.logger.Warn("snapshot refresh after return submit failed", "error", rerr)
		}
	}

	if err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
