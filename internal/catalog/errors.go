package catalog

import (
	"errors"
	"fmt"

	"github.com/dukerupert/vend/internal/domain"
)

var (
	// ErrMissingBaseURL is returned when no service URL is configured.
	ErrMissingBaseURL = errors.New("catalog: base URL is required")
)

// RemoteError is a non-2xx response from the shop service. It carries
// the status and body so the operator sees the service's own reason
// for the rejection (insufficient stock, unknown product, ...).
type RemoteError struct {
	Status int
	Body   string
	Op     string
}

// Error implements the error interface.
func (e *RemoteError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("%s: shop service returned %d: %s", e.Op, e.Status, e.Body)
	}
	return fmt.Sprintf("%s: shop service returned %d", e.Op, e.Status)
}

// Unwrap maps every remote rejection to the EUNAVAILABLE domain code
// so callers can branch on domain.ErrorCode without knowing transport
// details.
func (e *RemoteError) Unwrap() error {
	return &domain.Error{
		Code:    domain.EUNAVAILABLE,
		Op:      e.Op,
		Message: "shop service rejected the request",
	}
}

// IsRemote returns the RemoteError inside err, if any.
func IsRemote(err error) (*RemoteError, bool) {
	var e *RemoteError
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}
