package handler

import (
	"log/slog"
	"net/http"

	"github.com/dukerupert/vend/internal/cart"
	"github.com/dukerupert/vend/internal/domain"
	"github.com/labstack/echo/v4"
)

// CartHandler exposes the multi-cart registry to the POS page.
type CartHandler struct {
	registry *cart.Registry
	logger   *slog.Logger
}

// NewCartHandler creates a cart handler.
func NewCartHandler(registry *cart.Registry, logger *slog.Logger) *CartHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &CartHandler{registry: registry, logger: logger}
}

// List handles GET /carts.
func (h *CartHandler) List(c echo.Context) error {
	ids := h.registry.IDs()
	summaries := make([]cart.Summary, 0, len(ids))
	for _, id := range ids {
		s, err := h.registry.Summarize(id)
		if err != nil {
			continue // deleted between IDs and Summarize
		}
		summaries = append(summaries, *s)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"active": h.registry.ActiveID(),
		"carts":  summaries,
	})
}

// Create handles POST /carts.
func (h *CartHandler) Create(c echo.Context) error {
	var req struct {
		ID string `json:"id"`
	}
	if err := c.Bind(&req); err != nil {
		return respondError(c, domain.Errorf(domain.EINVALID, "cart.create", "invalid request body"))
	}
	if err := h.registry.Create(req.ID); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusCreated)
}

// Delete handles DELETE /carts/:id.
func (h *CartHandler) Delete(c echo.Context) error {
	if err := h.registry.Delete(c.Param("id")); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Activate handles POST /carts/:id/activate.
func (h *CartHandler) Activate(c echo.Context) error {
	if err := h.registry.SetActive(c.Param("id")); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// AddItem handles POST /carts/:id/items. The body is the product
// snapshot from the most recent search; the registry applies the
// add-or-increment rules against it.
func (h *CartHandler) AddItem(c echo.Context) error {
	var product domain.Product
	if err := c.Bind(&product); err != nil || product.ID == "" {
		return respondError(c, domain.Errorf(domain.EINVALID, "cart.add", "invalid product payload"))
	}
	if err := h.registry.Add(c.Param("id"), product); err != nil {
		return respondError(c, err)
	}
	return h.summary(c, c.Param("id"))
}

// UpdateItem handles PATCH /carts/:id/items/:productID for quantity
// and unit price edits.
func (h *CartHandler) UpdateItem(c echo.Context) error {
	var req struct {
		Qty       *int     `json:"qty"`
		UnitPrice *float64 `json:"unit_price"`
	}
	if err := c.Bind(&req); err != nil {
		return respondError(c, domain.Errorf(domain.EINVALID, "cart.update", "invalid request body"))
	}

	cartID, productID := c.Param("id"), c.Param("productID")
	if req.Qty != nil {
		if err := h.registry.SetQty(cartID, productID, *req.Qty); err != nil {
			return respondError(c, err)
		}
	}
	if req.UnitPrice != nil {
		if err := h.registry.SetUnitPrice(cartID, productID, *req.UnitPrice); err != nil {
			return respondError(c, err)
		}
	}
	return h.summary(c, cartID)
}

// RemoveItem handles DELETE /carts/:id/items/:productID.
func (h *CartHandler) RemoveItem(c echo.Context) error {
	if err := h.registry.Remove(c.Param("id"), c.Param("productID")); err != nil {
		return respondError(c, err)
	}
	return h.summary(c, c.Param("id"))
}

// Checkout handles POST /carts/:id/checkout.
func (h *CartHandler) Checkout(c echo.Context) error {
	result, err := h.registry.Checkout(c.Request().Context(), c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}
	if result == nil {
		// Empty cart: nothing was submitted.
		return c.NoContent(http.StatusNoContent)
	}
	return c.JSON(http.StatusOK, result)
}

func (h *CartHandler) summary(c echo.Context, cartID string) error {
	s, err := h.registry.Summarize(cartID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, s)
}
