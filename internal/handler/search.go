package handler

import (
	"log/slog"
	"net/http"

	"github.com/dukerupert/vend/internal/domain"
	"github.com/dukerupert/vend/internal/search"
	"github.com/labstack/echo/v4"
)

// SearchHandler drives a suggest controller from UI input and key
// events.
type SearchHandler struct {
	controller *search.Controller
	logger     *slog.Logger
}

// NewSearchHandler creates a search handler around one controller.
func NewSearchHandler(controller *search.Controller, logger *slog.Logger) *SearchHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &SearchHandler{controller: controller, logger: logger}
}

// Input handles POST /search/input: a text change that arms the
// debounce timer. The response is the current (possibly stale) state;
// the UI polls State after the debounce interval.
func (h *SearchHandler) Input(c echo.Context) error {
	var req struct {
		Query string `json:"query"`
	}
	if err := c.Bind(&req); err != nil {
		return respondError(c, domain.Errorf(domain.EINVALID, "search.input", "invalid request body"))
	}
	h.controller.SetQuery(req.Query)
	return h.state(c)
}

// Key handles POST /search/key with one of "down", "up", "enter",
// "escape".
func (h *SearchHandler) Key(c echo.Context) error {
	var req struct {
		Key string `json:"key"`
	}
	if err := c.Bind(&req); err != nil {
		return respondError(c, domain.Errorf(domain.EINVALID, "search.key", "invalid request body"))
	}

	switch req.Key {
	case "down":
		h.controller.MoveDown()
	case "up":
		h.controller.MoveUp()
	case "enter":
		if err := h.controller.Enter(c.Request().Context()); err != nil {
			return respondError(c, err)
		}
	case "escape":
		h.controller.Dismiss()
	default:
		return respondError(c, domain.Errorf(domain.EINVALID, "search.key", "unknown key %q", req.Key))
	}
	return h.state(c)
}

// Dismiss handles POST /search/dismiss: a pointer action outside the
// suggestion panel.
func (h *SearchHandler) Dismiss(c echo.Context) error {
	h.controller.Dismiss()
	return h.state(c)
}

// State handles GET /search.
func (h *SearchHandler) State(c echo.Context) error {
	return h.state(c)
}

func (h *SearchHandler) state(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"suggestions": h.controller.Suggestions(),
		"results":     h.controller.Results(),
		"highlight":   h.controller.Highlight(),
		"visible":     h.controller.Visible(),
	})
}
