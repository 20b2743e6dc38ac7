package domain_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/dukerupert/vend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *domain.Error
		expected string
	}{
		{
			name:     "message only",
			err:      &domain.Error{Code: domain.EINVALID, Message: "bad input"},
			expected: "bad input",
		},
		{
			name:     "with op",
			err:      &domain.Error{Code: domain.EINVALID, Op: "cart.create", Message: "bad input"},
			expected: "cart.create: bad input",
		},
		{
			name: "with op and wrapped error",
			err: &domain.Error{
				Code:    domain.EUNAVAILABLE,
				Op:      "cart.checkout",
				Message: "call failed",
				Err:     errors.New("connection refused"),
			},
			expected: "cart.checkout: call failed: connection refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestErrorCode(t *testing.T) {
	assert.Equal(t, "", domain.ErrorCode(nil))
	assert.Equal(t, domain.ECONFLICT, domain.ErrorCode(domain.ErrOutOfStock))
	assert.Equal(t, domain.EINTERNAL, domain.ErrorCode(errors.New("plain")))

	wrapped := fmt.Errorf("checkout walkin-1: %w", domain.ErrStockExceeded)
	assert.Equal(t, domain.ECONFLICT, domain.ErrorCode(wrapped), "code survives fmt.Errorf wrapping")
}

func TestErrorMessage(t *testing.T) {
	assert.Equal(t, "Product is out of stock", domain.ErrorMessage(domain.ErrOutOfStock))

	internal := &domain.Error{Code: domain.EINTERNAL, Message: "sql: connection reset"}
	assert.Equal(t, "An internal error occurred. Please try again later.",
		domain.ErrorMessage(internal), "internal details never reach the operator")

	assert.Equal(t, "An internal error occurred. Please try again later.",
		domain.ErrorMessage(errors.New("plain")))
}

func TestWrapError(t *testing.T) {
	assert.Nil(t, domain.WrapError(nil, domain.EINVALID, "op", "msg"))

	inner := errors.New("boom")
	err := domain.WrapError(inner, domain.EUNAVAILABLE, "catalog.GET", "shop service unreachable")

	assert.True(t, domain.IsCode(err, domain.EUNAVAILABLE))
	assert.ErrorIs(t, err, inner)
}

func TestIsCode(t *testing.T) {
	err := domain.Errorf(domain.EINVALID, "cart.create", "cart id %q is blank", "")

	assert.True(t, domain.IsCode(err, domain.EINVALID))
	assert.False(t, domain.IsCode(err, domain.ECONFLICT))
}

func TestPartialBatchError(t *testing.T) {
	err := &domain.PartialBatchError{
		Op: "returns.submit",
		Failures: []domain.ItemFailure{
			{ProductID: "p3", Err: errors.New("timeout")},
			{ProductID: "p1", Err: errors.New("conflict")},
		},
	}

	assert.Equal(t, []string{"p3", "p1"}, err.FailedIDs(), "submission order, not sorted")
	assert.Equal(t, "returns.submit: 2 of batch failed: p1, p3", err.Error())
}

func TestIsPartialBatch(t *testing.T) {
	batch := &domain.PartialBatchError{Op: "x", Failures: []domain.ItemFailure{{ProductID: "p1"}}}
	wrapped := fmt.Errorf("submit: %w", batch)

	got, ok := domain.IsPartialBatch(wrapped)
	require.True(t, ok)
	assert.Equal(t, batch, got)

	_, ok = domain.IsPartialBatch(errors.New("plain"))
	assert.False(t, ok)
}
