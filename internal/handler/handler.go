// Package handler is the thin JSON facade between the operator UI and
// the commerce state engine. Handlers translate requests and error
// codes; all invariants live in the services underneath.
package handler

import (
	"net/http"

	"github.com/dukerupert/vend/internal/domain"
	"github.com/labstack/echo/v4"
)

// errorResponse is the uniform error body returned to the UI.
type errorResponse struct {
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Failed  []string `json:"failed_ids,omitempty"`
}

// respondError maps a domain error to an HTTP status and a safe
// message. Partial batch failures keep their failed ids so the UI can
// offer a retry of exactly those items.
func respondError(c echo.Context, err error) error {
	if batch, ok := domain.IsPartialBatch(err); ok {
		return c.JSON(http.StatusBadGateway, errorResponse{
			Code:    domain.EUNAVAILABLE,
			Message: batch.Error(),
			Failed:  batch.FailedIDs(),
		})
	}

	code := domain.ErrorCode(err)
	return c.JSON(statusFor(code), errorResponse{
		Code:    code,
		Message: domain.ErrorMessage(err),
	})
}

func statusFor(code string) int {
	switch code {
	case domain.EINVALID:
		return http.StatusBadRequest
	case domain.ENOTFOUND:
		return http.StatusNotFound
	case domain.ECONFLICT:
		return http.StatusConflict
	case domain.EUNAVAILABLE:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
