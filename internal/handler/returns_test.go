package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/dukerupert/vend/internal/catalog"
	"github.com/dukerupert/vend/internal/domain"
	"github.com/dukerupert/vend/internal/returns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReturnsHandler_Submit_RefreshesSnapshot(t *testing.T) {
	client := &catalog.Mock{
		ReturnBrokenStockFunc: func(ctx context.Context, id string, qty int) error {
			return nil
		},
	}
	m := returns.NewManager(client, nil, nil)
	require.NoError(t, m.Add(domain.Product{ID: "p1", Name: "Cola", Stock: 5}))

	refreshes := 0
	h := NewReturnsHandler(m, func(ctx context.Context) error {
		refreshes++
		return nil
	}, nil)

	rec := doJSON(t, h.Submit, http.MethodPost, "/returns/submit", "", nil)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, 1, refreshes, "a successful submit refetches the product snapshot")
}

func TestReturnsHandler_Submit_PartialFailureStillRefreshes(t *testing.T) {
	client := &catalog.Mock{
		ReturnBrokenStockFunc: func(ctx context.Context, id string, qty int) error {
			if id == "p1" {
				return domain.Errorf(domain.EUNAVAILABLE, "returns", "service unreachable")
			}
			return nil
		},
	}
	m := returns.NewManager(client, nil, nil)
	require.NoError(t, m.Add(domain.Product{ID: "p1", Name: "Cola", Stock: 5}))
	require.NoError(t, m.Add(domain.Product{ID: "p2", Name: "Chips", Stock: 5}))

	refreshes := 0
	h := NewReturnsHandler(m, func(ctx context.Context) error {
		refreshes++
		return nil
	}, nil)

	rec := doJSON(t, h.Submit, http.MethodPost, "/returns/submit", "", nil)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, 1, refreshes, "decrements that went through must become visible even when others failed")
}

func TestReturnsHandler_Submit_EmptyCartSkipsRefresh(t *testing.T) {
	m := returns.NewManager(&catalog.Mock{}, nil, nil)

	refreshes := 0
	h := NewReturnsHandler(m, func(ctx context.Context) error {
		refreshes++
		return nil
	}, nil)

	rec := doJSON(t, h.Submit, http.MethodPost, "/returns/submit", "", nil)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, 0, refreshes, "an empty submit makes no remote calls")
}
