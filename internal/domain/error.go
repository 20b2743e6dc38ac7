package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Application error codes.
// These map to HTTP status codes and determine user-facing messages.
const (
	ECONFLICT    = "conflict"    // 409 - Operation conflicts with current state
	EINTERNAL    = "internal"    // 500 - Internal error (hide details)
	EINVALID     = "invalid"     // 400 - Validation error (bad input)
	ENOTFOUND    = "not_found"   // 404 - Resource not found
	EUNAVAILABLE = "unavailable" // 502 - Remote inventory service call failed
)

// Error represents an application error with a code and message.
// It implements the error interface and supports error wrapping.
type Error struct {
	// Code is a machine-readable error code (e.g., EINVALID, ECONFLICT).
	Code string

	// Message is a human-readable error message safe to show to the operator.
	Message string

	// Op is the operation where the error occurred (e.g., "cart.checkout").
	// Used for logging, not shown to the operator.
	Op string

	// Err is the underlying error, if any. Used for error wrapping.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		if e.Op != "" {
			return fmt.Sprintf("%s: %s: %v", e.Op, e.Message, e.Err)
		}
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	if e.Op != "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}
	return e.Message
}

// Unwrap implements error unwrapping for errors.Is and errors.As.
func (e *Error) Unwrap() error {
	return e.Err
}

// ErrorCode extracts the error code from an error.
// Returns EINTERNAL for non-domain errors.
func ErrorCode(err error) string {
	if err == nil {
		return ""
	}

	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}

	return EINTERNAL
}

// ErrorMessage extracts an operator-facing message from an error.
// For internal errors, returns a generic message to avoid leaking details.
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}

	var e *Error
	if errors.As(err, &e) && e.Code != EINTERNAL {
		return e.Message
	}

	return "An internal error occurred. Please try again later."
}

// Errorf creates a new domain error with formatted message.
// Example: domain.Errorf(domain.EINVALID, "cart.create", "cart id %q already exists", id)
func Errorf(code, op, format string, args ...interface{}) error {
	return &Error{
		Code:    code,
		Op:      op,
		Message: fmt.Sprintf(format, args...),
	}
}

// WrapError wraps an existing error with a domain error code and operation.
// Preserves the underlying error for logging while providing structure.
// Returns nil if err is nil.
func WrapError(err error, code, op, message string) error {
	if err == nil {
		return nil
	}

	return &Error{
		Code:    code,
		Op:      op,
		Message: message,
		Err:     err,
	}
}

// IsCode returns true if err has the given error code.
func IsCode(err error, code string) bool {
	return ErrorCode(err) == code
}

// =============================================================================
// Commerce state errors
// =============================================================================

// Pre-defined instances so callers can test with errors.Is.
var (
	// ErrOutOfStock rejects adding a product whose snapshot stock is zero.
	ErrOutOfStock = &Error{
		Code:    ECONFLICT,
		Message: "Product is out of stock",
	}

	// ErrStockExceeded rejects a quantity increment past the stock
	// snapshot captured when the line item was created.
	ErrStockExceeded = &Error{
		Code:    ECONFLICT,
		Message: "Quantity would exceed available stock",
	}

	// ErrDuplicateCart rejects creating a cart under an id already in use.
	ErrDuplicateCart = &Error{
		Code:    ECONFLICT,
		Message: "A cart with this id already exists",
	}

	// ErrProductNotFound indicates a product id with no record.
	ErrProductNotFound = &Error{
		Code:    ENOTFOUND,
		Message: "Product not found",
	}

	// ErrCartNotFound indicates a cart id not present in the registry.
	ErrCartNotFound = &Error{
		Code:    ENOTFOUND,
		Message: "Cart not found",
	}

	// ErrLineNotFound indicates a product with no line item in the cart.
	ErrLineNotFound = &Error{
		Code:    ENOTFOUND,
		Message: "Product is not in the cart",
	}
)

// =============================================================================
// Partial batch failures
// =============================================================================

// ItemFailure records one failed call out of a fan-out batch.
type ItemFailure struct {
	ProductID string
	Err       error
}

// PartialBatchError reports that one or more of N independent remote
// calls failed. It names each failed product so the operator can retry
// exactly those items.
type PartialBatchError struct {
	// Op is the batch operation (e.g., "returns.submit").
	Op string

	// Failures holds one entry per failed item, in submission order.
	Failures []ItemFailure
}

// Error implements the error interface.
func (e *PartialBatchError) Error() string {
	ids := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		ids = append(ids, f.ProductID)
	}
	sort.Strings(ids)
	if e.Op != "" {
		return fmt.Sprintf("%s: %d of batch failed: %s", e.Op, len(e.Failures), strings.Join(ids, ", "))
	}
	return fmt.Sprintf("%d of batch failed: %s", len(e.Failures), strings.Join(ids, ", "))
}

// FailedIDs returns the product ids of the failed items, in
// submission order.
func (e *PartialBatchError) FailedIDs() []string {
	ids := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		ids = append(ids, f.ProductID)
	}
	return ids
}

// IsPartialBatch returns the PartialBatchError inside err, if any.
func IsPartialBatch(err error) (*PartialBatchError, bool) {
	var e *PartialBatchError
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}
