// Package inventory orchestrates the inventory table: a product
// snapshot from the shop service, the query engine's filter/sort view
// over it, row selection, cell edits and bulk deletion.
package inventory

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"github.com/dukerupert/vend/internal/catalog"
	"github.com/dukerupert/vend/internal/domain"
	"github.com/dukerupert/vend/internal/query"
	"github.com/dukerupert/vend/internal/telemetry"
)

// Service holds the browse state for the inventory table. The snapshot
// is replaced wholesale on each reload, never patched in place; the
// selection is cleared with it. Safe for concurrent use.
type Service struct {
	client catalog.Client
	logger *slog.Logger

	mu         sync.Mutex
	snapshot   []domain.Product
	selection  *query.Selection
	filters    map[domain.Field]query.FilterSpec
	sortSpec   *query.SortSpec
	lastParams catalog.SearchParams
}

// NewService creates an inventory service with an empty snapshot.
func NewService(client catalog.Client, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		client:    client,
		logger:    logger,
		selection: query.NewSelection(),
		filters:   make(map[domain.Field]query.FilterSpec),
	}
}

// Reload fetches a fresh snapshot for params and invalidates the
// selection. Filters and sort survive a reload; the selection never
// does.
func (s *Service) Reload(ctx context.Context, params catalog.SearchParams) error {
	products, err := s.client.SearchProducts(ctx, params)
	if err != nil {
		return fmt.Errorf("failed to reload snapshot: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot = products
	s.lastParams = params
	s.selection.Clear()
	telemetry.Business.SnapshotReloads.Inc()
	s.logger.Debug("snapshot reloaded", "products", len(products))
	return nil
}

// Refresh refetches the snapshot with the last search params, for use
// after any operation that changed stock remotely. Callers must not
// hold s.mu.
func (s *Service) Refresh(ctx context.Context) error {
	s.mu.Lock()
	params := s.lastParams
	s.mu.Unlock()
	return s.Reload(ctx, params)
}

// Snapshot returns a copy of the current raw snapshot.
func (s *Service) Snapshot() []domain.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Product, len(s.snapshot))
	copy(out, s.snapshot)
	return out
}

// View runs the query engine over the current snapshot with the
// current filters and sort.
func (s *Service) View() []domain.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	return query.View(s.snapshot, s.filters, s.sortSpec)
}

// SetFilter installs the filter for one field, replacing any previous
// one. Comparison filters are only accepted on numeric fields.
func (s *Service) SetFilter(f domain.Field, spec query.FilterSpec) error {
	if !f.Valid() {
		return domain.Errorf(domain.EINVALID, "inventory.filter", "unknown field %q", string(f))
	}
	if spec.Op != "" && !f.Numeric() {
		return domain.Errorf(domain.EINVALID, "inventory.filter", "field %q does not support numeric comparison", string(f))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.filters[f] = spec
	return nil
}

// ClearFilter removes the filter for one field.
func (s *Service) ClearFilter(f domain.Field) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.filters, f)
}

// ClearFilters removes every filter.
func (s *Service) ClearFilters() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filters = make(map[domain.Field]query.FilterSpec)
}

// SetSort installs the single sort spec.
func (s *Service) SetSort(f domain.Field, dir query.Direction) error {
	if !f.Valid() {
		return domain.Errorf(domain.EINVALID, "inventory.sort", "unknown field %q", string(f))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sortSpec = &query.SortSpec{Field: f, Direction: dir}
	return nil
}

// ClearSort restores snapshot order.
func (s *Service) ClearSort() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sortSpec = nil
}

// ToggleSelect flips one row's checkbox and reports its new state.
func (s *Service) ToggleSelect(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selection.Toggle(id)
}

// SelectedIDs returns the checked product ids in sorted order.
func (s *Service) SelectedIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selection.IDs()
}

// EditField commits a one-field patch on focus loss, then forces a
// fresh snapshot. Concurrent edits to two cells of the same row are
// independent requests; each carries exactly one field.
func (s *Service) EditField(ctx context.Context, id string, f domain.Field, raw string) error {
	patch, err := buildPatch(f, raw)
	if err != nil {
		return err
	}

	if _, err := s.client.UpdateProduct(ctx, id, patch); err != nil {
		return fmt.Errorf("failed to update %s.%s: %w", id, string(f), err)
	}
	telemetry.Business.FieldEdits.Inc()

	return s.Refresh(ctx)
}

// BulkDelete issues one batch delete for the full selection, then
// invalidates the selection and refetches the snapshot. A partial
// server rejection surfaces as the single batch error; there is no
// per-id bookkeeping.
func (s *Service) BulkDelete(ctx context.Context) error {
	s.mu.Lock()
	ids := s.selection.IDs()
	s.mu.Unlock()

	if len(ids) == 0 {
		return nil
	}

	if err := s.client.DeleteProducts(ctx, ids); err != nil {
		return fmt.Errorf("failed to delete %d products: %w", len(ids), err)
	}
	telemetry.Business.ProductsDeleted.Add(float64(len(ids)))
	s.logger.Info("bulk delete completed", "count", len(ids))

	s.mu.Lock()
	s.selection.Clear()
	s.mu.Unlock()
	return s.Refresh(ctx)
}

// Register validates the new-product form, derives the profit column
// locally and creates the record, then refetches the snapshot.
func (s *Service) Register(ctx context.Context, in domain.ProductInput) (*domain.Product, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	created, err := s.client.CreateProduct(ctx, catalog.CreateProductParams{
		ProductInput: in,
		Profit:       in.DeriveProfit(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to register product: %w", err)
	}
	s.logger.Info("product registered", "product_id", created.ID, "name", created.Name)

	if err := s.Refresh(ctx); err != nil {
		return created, err
	}
	return created, nil
}

// StockAddition is one add-stock entry of a restock batch.
type StockAddition struct {
	ProductID string `json:"product_id"`
	Qty       int    `json:"qty"`
}

// AddStockBatch issues one independent add-stock call per entry, in
// order. Failed entries are reported together as a PartialBatchError
// so the operator can retry just those; the snapshot is refetched
// either way so visible stock reflects the successes.
func (s *Service) AddStockBatch(ctx context.Context, additions []StockAddition) error {
	if len(additions) == 0 {
		return nil
	}

	var failures []domain.ItemFailure
	for _, add := range additions {
		if add.Qty <= 0 {
			continue
		}
		if err := s.client.AddStock(ctx, add.ProductID, add.Qty); err != nil {
			s.logger.Error("add-stock failed", "product_id", add.ProductID, "qty", add.Qty, "error", err)
			failures = append(failures, domain.ItemFailure{ProductID: add.ProductID, Err: err})
			continue
		}
		telemetry.Business.StockAdditions.Inc()
	}

	refreshErr := s.Refresh(ctx)

	if len(failures) > 0 {
		return &domain.PartialBatchError{Op: "inventory.add_stock", Failures: failures}
	}
	return refreshErr
}

// buildPatch turns a raw cell value into a typed one-field patch.
func buildPatch(f domain.Field, raw string) (domain.Patch, error) {
	if !f.Valid() {
		return nil, domain.Errorf(domain.EINVALID, "inventory.edit", "unknown field %q", string(f))
	}

	if f.Numeric() {
		v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return nil, domain.Errorf(domain.EINVALID, "inventory.edit", "field %q needs a numeric value", string(f))
		}
		return domain.NewPatch().SetNumber(f, v), nil
	}
	return domain.NewPatch().SetText(f, raw), nil
}
