package inventory_test

import (
	"context"
	"testing"

	"github.com/dukerupert/vend/internal/catalog"
	"github.com/dukerupert/vend/internal/domain"
	"github.com/dukerupert/vend/internal/inventory"
	"github.com/dukerupert/vend/internal/query"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func searchClient(products []domain.Product) *catalog.Mock {
	return &catalog.Mock{
		SearchProductsFunc: func(ctx context.Context, params catalog.SearchParams) ([]domain.Product, error) {
			return products, nil
		},
	}
}

func loadedService(t *testing.T, client *catalog.Mock) *inventory.Service {
	t.Helper()
	s := inventory.NewService(client, nil)
	require.NoError(t, s.Reload(context.Background(), catalog.SearchParams{}))
	return s
}

func TestService_Reload_ReplacesSnapshotAndClearsSelection(t *testing.T) {
	products := []domain.Product{{ID: "p1", Stock: 5}, {ID: "p2", Stock: 3}}
	client := searchClient(products)
	s := loadedService(t, client)
	s.ToggleSelect("p1")
	require.Len(t, s.SelectedIDs(), 1)

	require.NoError(t, s.Reload(context.Background(), catalog.SearchParams{Query: "p"}))

	assert.Len(t, s.Snapshot(), 2)
	assert.Empty(t, s.SelectedIDs(), "a reload always invalidates the selection")
}

func TestService_Reload_FetchFailureKeepsSnapshot(t *testing.T) {
	products := []domain.Product{{ID: "p1", Stock: 5}}
	client := searchClient(products)
	s := loadedService(t, client)

	client.SearchProductsFunc = func(ctx context.Context, params catalog.SearchParams) ([]domain.Product, error) {
		return nil, domain.Errorf(domain.EUNAVAILABLE, "catalog", "service unreachable")
	}
	err := s.Reload(context.Background(), catalog.SearchParams{})

	require.Error(t, err)
	assert.Len(t, s.Snapshot(), 1, "a failed fetch must not drop the current snapshot")
}

func TestService_Refresh_ReusesLastReloadParams(t *testing.T) {
	var seen []catalog.SearchParams
	client := &catalog.Mock{
		SearchProductsFunc: func(ctx context.Context, params catalog.SearchParams) ([]domain.Product, error) {
			seen = append(seen, params)
			return []domain.Product{{ID: "p1", Stock: 5}}, nil
		},
	}
	s := inventory.NewService(client, nil)
	require.NoError(t, s.Reload(context.Background(), catalog.SearchParams{Query: "cola", Type: "drink"}))

	require.NoError(t, s.Refresh(context.Background()))

	require.Len(t, seen, 2)
	assert.Equal(t, seen[0], seen[1], "a refresh reissues the last reload's params")
}

func TestService_View_AppliesFiltersAndSort(t *testing.T) {
	products := []domain.Product{
		{ID: "p1", Type: "drink", Stock: 12},
		{ID: "p2", Type: "snack", Stock: 0},
		{ID: "p3", Type: "snack", Stock: 7},
	}
	s := loadedService(t, searchClient(products))

	require.NoError(t, s.SetFilter(domain.FieldType, query.ValueSet("snack")))
	require.NoError(t, s.SetFilter(domain.FieldStock, query.Compare(query.OpGreater, "0")))

	view := s.View()
	require.Len(t, view, 1)
	assert.Equal(t, "p3", view[0].ID)

	s.ClearFilter(domain.FieldStock)
	assert.Len(t, s.View(), 2)

	require.NoError(t, s.SetSort(domain.FieldStock, query.Descending))
	view = s.View()
	assert.Equal(t, "p3", view[0].ID)
	assert.Equal(t, "p2", view[1].ID)

	s.ClearSort()
	view = s.View()
	assert.Equal(t, "p2", view[0].ID, "clearing the sort restores snapshot order")
}

func TestService_FiltersSurviveReload(t *testing.T) {
	products := []domain.Product{
		{ID: "p1", Type: "drink", Stock: 12},
		{ID: "p2", Type: "snack", Stock: 7},
	}
	s := loadedService(t, searchClient(products))
	require.NoError(t, s.SetFilter(domain.FieldType, query.ValueSet("snack")))

	require.NoError(t, s.Reload(context.Background(), catalog.SearchParams{}))

	view := s.View()
	require.Len(t, view, 1)
	assert.Equal(t, "p2", view[0].ID)
}

func TestService_SetFilter_Validation(t *testing.T) {
	s := inventory.NewService(&catalog.Mock{}, nil)

	err := s.SetFilter("bogus", query.ValueSet("x"))
	assert.True(t, domain.IsCode(err, domain.EINVALID))

	err = s.SetFilter(domain.FieldName, query.Compare(query.OpGreater, "5"))
	assert.True(t, domain.IsCode(err, domain.EINVALID), "comparison filters need a numeric field")
}

func TestService_SetSort_UnknownField(t *testing.T) {
	s := inventory.NewService(&catalog.Mock{}, nil)

	err := s.SetSort("bogus", query.Ascending)

	assert.True(t, domain.IsCode(err, domain.EINVALID))
}

func TestService_EditField_SendsOneFieldPatch(t *testing.T) {
	products := []domain.Product{{ID: "p1", Stock: 5}}
	client := searchClient(products)
	var captured domain.Patch
	client.UpdateProductFunc = func(ctx context.Context, id string, patch domain.Patch) (*domain.Product, error) {
		captured = patch
		return &domain.Product{ID: id}, nil
	}
	reloads := 0
	base := client.SearchProductsFunc
	client.SearchProductsFunc = func(ctx context.Context, params catalog.SearchParams) ([]domain.Product, error) {
		reloads++
		return base(ctx, params)
	}
	s := loadedService(t, client)
	require.Equal(t, 1, reloads)

	err := s.EditField(context.Background(), "p1", domain.FieldStock, " 42 ")

	require.NoError(t, err)
	require.Len(t, captured, 1, "blur commits exactly the edited field")
	assert.Equal(t, 42, captured[domain.FieldStock])
	assert.Equal(t, 2, reloads, "a committed edit forces a fresh snapshot")
}

func TestService_EditField_TextField(t *testing.T) {
	client := searchClient(nil)
	var captured domain.Patch
	client.UpdateProductFunc = func(ctx context.Context, id string, patch domain.Patch) (*domain.Product, error) {
		captured = patch
		return &domain.Product{ID: id}, nil
	}
	s := loadedService(t, client)

	require.NoError(t, s.EditField(context.Background(), "p1", domain.FieldRemark, "damaged box"))

	assert.Equal(t, "damaged box", captured[domain.FieldRemark])
}

func TestService_EditField_BadNumericInput(t *testing.T) {
	client := &catalog.Mock{}
	s := inventory.NewService(client, nil)

	err := s.EditField(context.Background(), "p1", domain.FieldCost, "abc")

	assert.True(t, domain.IsCode(err, domain.EINVALID))
}

func TestService_EditField_UnknownField(t *testing.T) {
	s := inventory.NewService(&catalog.Mock{}, nil)

	err := s.EditField(context.Background(), "p1", "bogus", "1")

	assert.True(t, domain.IsCode(err, domain.EINVALID))
}

func TestService_BulkDelete(t *testing.T) {
	products := []domain.Product{{ID: "p1"}, {ID: "p2"}, {ID: "p3"}}
	client := searchClient(products)
	var deleted []string
	client.DeleteProductsFunc = func(ctx context.Context, ids []string) error {
		deleted = ids
		return nil
	}
	s := loadedService(t, client)
	s.ToggleSelect("p3")
	s.ToggleSelect("p1")

	require.NoError(t, s.BulkDelete(context.Background()))

	assert.Equal(t, []string{"p1", "p3"}, deleted, "one batch call with the sorted selection")
	assert.Empty(t, s.SelectedIDs())
}

func TestService_BulkDelete_EmptySelectionIsNoOp(t *testing.T) {
	called := false
	client := &catalog.Mock{
		DeleteProductsFunc: func(ctx context.Context, ids []string) error {
			called = true
			return nil
		},
	}
	s := inventory.NewService(client, nil)

	require.NoError(t, s.BulkDelete(context.Background()))
	assert.False(t, called)
}

func TestService_BulkDelete_FailureKeepsSelection(t *testing.T) {
	products := []domain.Product{{ID: "p1"}}
	client := searchClient(products)
	client.DeleteProductsFunc = func(ctx context.Context, ids []string) error {
		return domain.Errorf(domain.EUNAVAILABLE, "catalog", "service unreachable")
	}
	s := loadedService(t, client)
	s.ToggleSelect("p1")

	err := s.BulkDelete(context.Background())

	require.Error(t, err)
	assert.Equal(t, []string{"p1"}, s.SelectedIDs(), "a failed batch keeps the selection for retry")
}

func TestService_Register(t *testing.T) {
	client := searchClient(nil)
	var captured catalog.CreateProductParams
	client.CreateProductFunc = func(ctx context.Context, params catalog.CreateProductParams) (*domain.Product, error) {
		captured = params
		return &domain.Product{ID: "p-new", Name: params.Name}, nil
	}
	s := loadedService(t, client)

	created, err := s.Register(context.Background(), domain.ProductInput{
		Name:           "Cola",
		Stock:          24,
		Cost:           5,
		SellPriceLower: 8,
		SellPriceAvg:   10,
	})

	require.NoError(t, err)
	assert.Equal(t, "p-new", created.ID)
	assert.Equal(t, 5.0, captured.Profit, "profit is derived locally: avg 10 - cost 5")
}

func TestService_Register_InvalidInput(t *testing.T) {
	called := false
	client := &catalog.Mock{
		CreateProductFunc: func(ctx context.Context, params catalog.CreateProductParams) (*domain.Product, error) {
			called = true
			return nil, nil
		},
	}
	s := inventory.NewService(client, nil)

	_, err := s.Register(context.Background(), domain.ProductInput{Name: "", Stock: 0})

	assert.True(t, domain.IsCode(err, domain.EINVALID))
	assert.False(t, called, "invalid input never reaches the service")
}

func TestService_AddStockBatch(t *testing.T) {
	client := searchClient(nil)
	var calls []inventory.StockAddition
	client.AddStockFunc = func(ctx context.Context, id string, qty int) error {
		calls = append(calls, inventory.StockAddition{ProductID: id, Qty: qty})
		return nil
	}
	s := loadedService(t, client)

	err := s.AddStockBatch(context.Background(), []inventory.StockAddition{
		{ProductID: "p1", Qty: 12},
		{ProductID: "p2", Qty: 0}, // skipped
		{ProductID: "p3", Qty: 6},
	})

	require.NoError(t, err)
	assert.Equal(t, []inventory.StockAddition{
		{ProductID: "p1", Qty: 12},
		{ProductID: "p3", Qty: 6},
	}, calls)
}

func TestService_AddStockBatch_PartialFailure(t *testing.T) {
	client := searchClient(nil)
	client.AddStockFunc = func(ctx context.Context, id string, qty int) error {
		if id == "p2" {
			return domain.Errorf(domain.EUNAVAILABLE, "catalog", "service unreachable")
		}
		return nil
	}
	s := loadedService(t, client)

	err := s.AddStockBatch(context.Background(), []inventory.StockAddition{
		{ProductID: "p1", Qty: 1},
		{ProductID: "p2", Qty: 2},
		{ProductID: "p3", Qty: 3},
	})

	batch, ok := domain.IsPartialBatch(err)
	require.True(t, ok)
	assert.Equal(t, []string{"p2"}, batch.FailedIDs())
}

func TestService_AddStockBatch_EmptyIsNoOp(t *testing.T) {
	s := inventory.NewService(&catalog.Mock{}, nil)

	require.NoError(t, s.AddStockBatch(context.Background(), nil))
}
