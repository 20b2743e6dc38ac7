package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dukerupert/vend/internal/domain"
	"github.com/google/uuid"
)

const defaultTimeout = 15 * time.Second

// HTTPClient implements Client against the shop service's REST API.
type HTTPClient struct {
	baseURL string
	client  *http.Client
	logger  *slog.Logger
}

// Config contains configuration for the HTTP catalog client.
type Config struct {
	BaseURL string
	Timeout time.Duration // Optional: defaults to 15s
	Logger  *slog.Logger  // Optional: defaults to slog.Default()
}

// NewHTTPClient creates a catalog client for the service at cfg.BaseURL.
func NewHTTPClient(cfg Config) (*HTTPClient, error) {
	if cfg.BaseURL == "" {
		return nil, ErrMissingBaseURL
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &HTTPClient{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}, nil
}

// SearchProducts returns a fresh snapshot of products matching params.
func (c *HTTPClient) SearchProducts(ctx context.Context, params SearchParams) ([]domain.Product, error) {
	q := url.Values{}
	if params.Query != "" {
		q.Set("q", params.Query)
	}
	if params.Type != "" {
		q.Set("type", params.Type)
	}

	var products []domain.Product
	if err := c.do(ctx, http.MethodGet, "/inventory/search", q, nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// UpdateProduct applies a one-or-more field patch to a single record.
func (c *HTTPClient) UpdateProduct(ctx context.Context, id string, patch domain.Patch) (*domain.Product, error) {
	if len(patch) == 0 {
		return nil, domain.Errorf(domain.EINVALID, "catalog.update", "empty patch for product %s", id)
	}

	var product domain.Product
	path := "/inventory/" + url.PathEscape(id)
	if err := c.do(ctx, http.MethodPatch, path, nil, patch, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// CreateProduct registers a new product.
func (c *HTTPClient) CreateProduct(ctx context.Context, params CreateProductParams) (*domain.Product, error) {
	var product domain.Product
	if err := c.do(ctx, http.MethodPost, "/inventory", nil, params, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// DeleteProducts removes the id set in one batch call.
func (c *HTTPClient) DeleteProducts(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	return c.do(ctx, http.MethodPost, "/inventory/delete", nil, ids, nil)
}

// AddStock increments one product's stock counter by qty.
func (c *HTTPClient) AddStock(ctx context.Context, id string, qty int) error {
	q := url.Values{"qty": []string{strconv.Itoa(qty)}}
	path := "/inventory/" + url.PathEscape(id) + "/add-stock"
	return c.do(ctx, http.MethodPost, path, q, nil, nil)
}

// ReturnBrokenStock decrements one product's stock counter by qty.
func (c *HTTPClient) ReturnBrokenStock(ctx context.Context, id string, qty int) error {
	q := url.Values{"qty": []string{strconv.Itoa(qty)}}
	path := "/inventory/" + url.PathEscape(id) + "/return-broken"
	return c.do(ctx, http.MethodPost, path, q, nil, nil)
}

// Checkout submits a cart's lines as one atomic sale.
func (c *HTTPClient) Checkout(ctx context.Context, req CheckoutRequest) (*CheckoutResult, error) {
	var result CheckoutResult
	if err := c.do(ctx, http.MethodPost, "/cart/checkout", nil, req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// RevenueSeries returns the server-aggregated revenue/cost/profit
// series for a period ("daily", "monthly", ...). Pass-through payload.
func (c *HTTPClient) RevenueSeries(ctx context.Context, period string) (json.RawMessage, error) {
	q := url.Values{}
	if period != "" {
		q.Set("period", period)
	}
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/analytics/revenue", q, nil, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// TopProducts returns the server-ranked top sellers for a period.
func (c *HTTPClient) TopProducts(ctx context.Context, period string, limit int) (json.RawMessage, error) {
	q := url.Values{}
	if period != "" {
		q.Set("period", period)
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/analytics/top-products", q, nil, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// SalesSummary returns the server-computed summary totals.
func (c *HTTPClient) SalesSummary(ctx context.Context) (json.RawMessage, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/analytics/sales-summary", nil, nil, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// SalesDetail returns a page of the sales listing for a date range.
func (c *HTTPClient) SalesDetail(ctx context.Context, params SalesDetailParams) (json.RawMessage, error) {
	q := url.Values{}
	if params.From != "" {
		q.Set("from", params.From)
	}
	if params.To != "" {
		q.Set("to", params.To)
	}
	if params.Page > 0 {
		q.Set("page", strconv.Itoa(params.Page))
	}
	if params.PageSize > 0 {
		q.Set("page_size", strconv.Itoa(params.PageSize))
	}
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/analytics/sales", q, nil, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// do issues one request and decodes a 2xx JSON response into out.
// Non-2xx responses map to EUNAVAILABLE domain errors carrying the
// response body, so every remote rejection is decidable by the caller.
func (c *HTTPClient) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Error("remote call failed", "method", method, "path", path, "error", err)
		return domain.WrapError(err, domain.EUNAVAILABLE, "catalog."+method, "shop service unreachable")
	}
	defer resp.Body.Close()

	c.logger.Debug("remote call",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &RemoteError{
			Status: resp.StatusCode,
			Body:   strings.TrimSpace(string(detail)),
			Op:     method + " " + path,
		}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return domain.WrapError(err, domain.EUNAVAILABLE, "catalog.decode", "invalid response from shop service")
	}
	return nil
}
