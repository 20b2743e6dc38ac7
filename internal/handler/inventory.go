package handler

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/dukerupert/vend/internal/catalog"
	"github.com/dukerupert/vend/internal/domain"
	"github.com/dukerupert/vend/internal/export"
	"github.com/dukerupert/vend/internal/inventory"
	"github.com/dukerupert/vend/internal/query"
	"github.com/labstack/echo/v4"
)

// InventoryHandler exposes the inventory table: reload, filtered view,
// cell edits, bulk delete, registration, restock and Excel export.
type InventoryHandler struct {
	service *inventory.Service
	logger  *slog.Logger
}

// NewInventoryHandler creates an inventory handler.
func NewInventoryHandler(service *inventory.Service, logger *slog.Logger) *InventoryHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &InventoryHandler{service: service, logger: logger}
}

// Reload handles POST /inventory/reload?q=&type=.
func (h *InventoryHandler) Reload(c echo.Context) error {
	params := catalog.SearchParams{
		Query: c.QueryParam("q"),
		Type:  c.QueryParam("type"),
	}
	if err := h.service.Reload(c.Request().Context(), params); err != nil {
		return respondError(c, err)
	}
	return h.view(c)
}

// View handles GET /inventory.
func (h *InventoryHandler) View(c echo.Context) error {
	return h.view(c)
}

// filterRequest is the wire form of one field's FilterSpec.
type filterRequest struct {
	Field     string   `json:"field"`
	Values    []string `json:"values,omitempty"`
	Contains  string   `json:"contains,omitempty"`
	Op        string   `json:"op,omitempty"`
	Threshold string   `json:"threshold,omitempty"`
}

// SetFilter handles PUT /inventory/filters.
func (h *InventoryHandler) SetFilter(c echo.Context) error {
	var req filterRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, domain.Errorf(domain.EINVALID, "inventory.filter", "invalid request body"))
	}

	var spec query.FilterSpec
	switch {
	case len(req.Values) > 0:
		spec = query.ValueSet(req.Values...)
	case req.Contains != "":
		spec = query.Contains(req.Contains)
	case req.Op != "":
		spec = query.Compare(query.CompareOp(req.Op), req.Threshold)
	}

	if err := h.service.SetFilter(domain.Field(req.Field), spec); err != nil {
		return respondError(c, err)
	}
	return h.view(c)
}

// ClearFilter handles DELETE /inventory/filters/:field.
func (h *InventoryHandler) ClearFilter(c echo.Context) error {
	h.service.ClearFilter(domain.Field(c.Param("field")))
	return h.view(c)
}

// SetSort handles PUT /inventory/sort.
func (h *InventoryHandler) SetSort(c echo.Context) error {
	var req struct {
		Field      string `json:"field"`
		Descending bool   `json:"descending"`
	}
	if err := c.Bind(&req); err != nil {
		return respondError(c, domain.Errorf(domain.EINVALID, "inventory.sort", "invalid request body"))
	}

	dir := query.Ascending
	if req.Descending {
		dir = query.Descending
	}
	if err := h.service.SetSort(domain.Field(req.Field), dir); err != nil {
		return respondError(c, err)
	}
	return h.view(c)
}

// ClearSort handles DELETE /inventory/sort.
func (h *InventoryHandler) ClearSort(c echo.Context) error {
	h.service.ClearSort()
	return h.view(c)
}

// ToggleSelect handles POST /inventory/selection/:id.
func (h *InventoryHandler) ToggleSelect(c echo.Context) error {
	selected := h.service.ToggleSelect(c.Param("id"))
	return c.JSON(http.StatusOK, map[string]any{
		"id":       c.Param("id"),
		"selected": selected,
		"count":    len(h.service.SelectedIDs()),
	})
}

// EditField handles PATCH /inventory/:id/fields/:field, the
// blur-commit of one edited cell.
func (h *InventoryHandler) EditField(c echo.Context) error {
	var req struct {
		Value string `json:"value"`
	}
	if err := c.Bind(&req); err != nil {
		return respondError(c, domain.Errorf(domain.EINVALID, "inventory.edit", "invalid request body"))
	}

	err := h.service.EditField(c.Request().Context(), c.Param("id"), domain.Field(c.Param("field")), req.Value)
	if err != nil {
		return respondError(c, err)
	}
	return h.view(c)
}

// BulkDelete handles POST /inventory/delete-selected.
func (h *InventoryHandler) BulkDelete(c echo.Context) error {
	if err := h.service.BulkDelete(c.Request().Context()); err != nil {
		return respondError(c, err)
	}
	return h.view(c)
}

// Register handles POST /inventory.
func (h *InventoryHandler) Register(c echo.Context) error {
	var in domain.ProductInput
	if err := c.Bind(&in); err != nil {
		return respondError(c, domain.Errorf(domain.EINVALID, "product.register", "invalid request body"))
	}

	created, err := h.service.Register(c.Request().Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, created)
}

// AddStock handles POST /inventory/add-stock, the restock batch.
func (h *InventoryHandler) AddStock(c echo.Context) error {
	var req struct {
		Items []inventory.StockAddition `json:"items"`
	}
	if err := c.Bind(&req); err != nil {
		return respondError(c, domain.Errorf(domain.EINVALID, "inventory.add_stock", "invalid request body"))
	}

	if err := h.service.AddStockBatch(c.Request().Context(), req.Items); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Export handles GET /inventory/export: the current filtered view as
// an .xlsx download. The workbook is built in memory before the status
// is committed; a build failure yields an error response instead of a
// truncated 200 body.
func (h *InventoryHandler) Export(c echo.Context) error {
	view := h.service.View()

	var buf bytes.Buffer
	if err := export.WriteInventory(&buf, view); err != nil {
		h.logger.Error("inventory export failed", "error", err)
		return respondError(c, domain.WrapError(err, domain.EINTERNAL, "inventory.export", "failed to build workbook"))
	}

	name := fmt.Sprintf("inventory-%s.xlsx", time.Now().Format("2006-01-02"))
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+name+`"`)
	return c.Blob(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

func (h *InventoryHandler) view(c echo.Context) error {
	view := h.service.View()
	return c.JSON(http.StatusOK, map[string]any{
		"products": view,
		"selected": h.service.SelectedIDs(),
		"count":    len(view),
	})
}
