package catalog

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/dukerupert/vend/internal/domain"
)

// Mock is a test implementation of Client. Each method delegates to
// its configured function or fails, so a test only wires the calls it
// expects.
type Mock struct {
	SearchProductsFunc    func(ctx context.Context, params SearchParams) ([]domain.Product, error)
	UpdateProductFunc     func(ctx context.Context, id string, patch domain.Patch) (*domain.Product, error)
	CreateProductFunc     func(ctx context.Context, params CreateProductParams) (*domain.Product, error)
	DeleteProductsFunc    func(ctx context.Context, ids []string) error
	AddStockFunc          func(ctx context.Context, id string, qty int) error
	ReturnBrokenStockFunc func(ctx context.Context, id string, qty int) error
	CheckoutFunc          func(ctx context.Context, req CheckoutRequest) (*CheckoutResult, error)
	RevenueSeriesFunc     func(ctx context.Context, period string) (json.RawMessage, error)
	TopProductsFunc       func(ctx context.Context, period string, limit int) (json.RawMessage, error)
	SalesSummaryFunc      func(ctx context.Context) (json.RawMessage, error)
	SalesDetailFunc       func(ctx context.Context, params SalesDetailParams) (json.RawMessage, error)
}

var errMockNotConfigured = errors.New("catalog mock: call not configured")

func (m *Mock) SearchProducts(ctx context.Context, params SearchParams) ([]domain.Product, error) {
	if m.SearchProductsFunc == nil {
		return nil, errMockNotConfigured
	}
	return m.SearchProductsFunc(ctx, params)
}

func (m *Mock) UpdateProduct(ctx context.Context, id string, patch domain.Patch) (*domain.Product, error) {
	if m.UpdateProductFunc == nil {
		return nil, errMockNotConfigured
	}
	return m.UpdateProductFunc(ctx, id, patch)
}

func (m *Mock) CreateProduct(ctx context.Context, params CreateProductParams) (*domain.Product, error) {
	if m.CreateProductFunc == nil {
		return nil, errMockNotConfigured
	}
	return m.CreateProductFunc(ctx, params)
}

func (m *Mock) DeleteProducts(ctx context.Context, ids []string) error {
	if m.DeleteProductsFunc == nil {
		return errMockNotConfigured
	}
	return m.DeleteProductsFunc(ctx, ids)
}

func (m *Mock) AddStock(ctx context.Context, id string, qty int) error {
	if m.AddStockFunc == nil {
		return errMockNotConfigured
	}
	return m.AddStockFunc(ctx, id, qty)
}

func (m *Mock) ReturnBrokenStock(ctx context.Context, id string, qty int) error {
	if m.ReturnBrokenStockFunc == nil {
		return errMockNotConfigured
	}
	return m.ReturnBrokenStockFunc(ctx, id, qty)
}

func (m *Mock) Checkout(ctx context.Context, req CheckoutRequest) (*CheckoutResult, error) {
	if m.CheckoutFunc == nil {
		return nil, errMockNotConfigured
	}
	return m.CheckoutFunc(ctx, req)
}

func (m *Mock) RevenueSeries(ctx context.Context, period string) (json.RawMessage, error) {
	if m.RevenueSeriesFunc == nil {
		return nil, errMockNotConfigured
	}
	return m.RevenueSeriesFunc(ctx, period)
}

func (m *Mock) TopProducts(ctx context.Context, period string, limit int) (json.RawMessage, error) {
	if m.TopProductsFunc == nil {
		return nil, errMockNotConfigured
	}
	return m.TopProductsFunc(ctx, period, limit)
}

func (m *Mock) SalesSummary(ctx context.Context) (json.RawMessage, error) {
	if m.SalesSummaryFunc == nil {
		return nil, errMockNotConfigured
	}
	return m.SalesSummaryFunc(ctx)
}

func (m *Mock) SalesDetail(ctx context.Context, params SalesDetailParams) (json.RawMessage, error) {
	if m.SalesDetailFunc == nil {
		return nil, errMockNotConfigured
	}
	return m.SalesDetailFunc(ctx, params)
}
