package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockledger/internal/domain"
	"stockledger/internal/testutil"
)

func insertTestItem(t *testing.T, db *sql.DB, item domain.InventoryItem) {
	t.Helper()

	if item.Status == "" {
		item.Status = domain.ItemStatusActive
	}
	if item.LastStockUpdate.IsZero() {
		item.LastStockUpdate = time.Now()
	}

	_, err := NewMySQLItemRepository(db).Insert(context.Background(), item)
	require.NoError(t, err)
}

func TestReportRepository_Valuation(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)
	testutil.SetupTestTables(t, db)

	insertTestItem(t, db, domain.InventoryItem{
		ProductID: 1, WarehouseID: 1, Category: "electronics", Quantity: 10, CostPrice: 100.00,
	})
	insertTestItem(t, db, domain.InventoryItem{
		ProductID: 2, WarehouseID: 1, Category: "electronics", Quantity: 5, CostPrice: 20.00,
	})
	insertTestItem(t, db, domain.InventoryItem{
		ProductID: 3, WarehouseID: 2, Category: "apparel", Quantity: 4, CostPrice: 50.00,
	})
	// Zero quantity contributes nothing.
	insertTestItem(t, db, domain.InventoryItem{
		ProductID: 4, WarehouseID: 2, Category: "apparel", Quantity: 0, CostPrice: 999.00,
	})

	repo := NewMySQLReportRepository(db)
	ctx := context.Background()

	total, err := repo.TotalValue(ctx)
	require.NoError(t, err)
	assert.InDelta(t, 1300.00, total, 0.001)

	byCategory, err := repo.ValuationByCategory(ctx)
	require.NoError(t, err)
	require.Len(t, byCategory, 2)
	assert.Equal(t, "electronics", byCategory[0].Key, "largest value group first")
	assert.InDelta(t, 1100.00, byCategory[0].TotalValue, 0.001)
	assert.Equal(t, 2, byCategory[0].ItemCount)
	assert.Equal(t, "apparel", byCategory[1].Key)
	assert.InDelta(t, 200.00, byCategory[1].TotalValue, 0.001)

	byWarehouse, err := repo.ValuationByWarehouse(ctx)
	require.NoError(t, err)
	require.Len(t, byWarehouse, 2)
	assert.Equal(t, "1", byWarehouse[0].Key)
	assert.InDelta(t, 1100.00, byWarehouse[0].TotalValue, 0.001)
}

func TestReportRepository_Counts(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)
	testutil.SetupTestTables(t, db)

	soon := time.Now().AddDate(0, 0, 10)

	insertTestItem(t, db, domain.InventoryItem{
		ProductID: 1, WarehouseID: 1, Category: "food", Quantity: 5, ReorderLevel: 10, MaxStockLevel: 100,
	})
	insertTestItem(t, db, domain.InventoryItem{
		ProductID: 2, WarehouseID: 1, Category: "food", Quantity: 0, ReorderLevel: 10, MaxStockLevel: 100,
	})
	insertTestItem(t, db, domain.InventoryItem{
		ProductID: 3, WarehouseID: 1, Category: "food", Quantity: 150, ReorderLevel: 10, MaxStockLevel: 100,
	})
	insertTestItem(t, db, domain.InventoryItem{
		ProductID: 4, WarehouseID: 1, Category: "food", Quantity: 50, ReorderLevel: 10, MaxStockLevel: 100,
		ExpirationDate: &soon,
	})

	counts, err := NewMySQLReportRepository(db).Counts(context.Background(), time.Now().AddDate(0, 0, 30))
	require.NoError(t, err)

	assert.Equal(t, 4, counts.TotalItems)
	assert.Equal(t, 1, counts.LowStock)
	assert.Equal(t, 1, counts.OutOfStock)
	assert.Equal(t, 1, counts.Overstock)
	assert.Equal(t, 1, counts.ExpiringSoon)
}

func TestReportRepository_TopItemsAndSlowMovers(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)
	testutil.SetupTestTables(t, db)

	insertTestItem(t, db, domain.InventoryItem{
		ProductID: 1, WarehouseID: 1, Category: "electronics", Quantity: 10, CostPrice: 100.00,
	})
	insertTestItem(t, db, domain.InventoryItem{
		ProductID: 2, WarehouseID: 1, Category: "apparel", Quantity: 3, CostPrice: 10.00,
	})

	repo := NewMySQLReportRepository(db)
	ctx := context.Background()

	top, err := repo.TopItemsByValue(ctx, 1)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, 1, top[0].ProductID)
	assert.InDelta(t, 1000.00, top[0].TotalValue, 0.001)

	// No OUT movements exist, so everything stocked is a slow mover.
	movers, err := repo.SlowMovers(ctx, time.Now().AddDate(0, 0, -30), 10)
	require.NoError(t, err)
	assert.Len(t, movers, 2)

	// An OUT movement inside the window takes the item off the list.
	tx, err := db.Begin()
	require.NoError(t, err)
	_, err = NewMySQLMovementRepository(db).Insert(ctx, tx, domain.StockMovement{
		ProductID: 1, WarehouseID: 1, Type: domain.MovementOut,
		Quantity: 2, PreviousQuantity: 12, NewQuantity: 10,
		CreatedBy: "order-service", CreatedAt: time.Now(),
	})
	require.NoError(t, err)
	require.NoError(t, tx.Commit())

	movers, err = repo.SlowMovers(ctx, time.Now().AddDate(0, 0, -30), 10)
	require.NoError(t, err)
	require.Len(t, movers, 1)
	assert.Equal(t, 2, movers[0].ProductID)
}
