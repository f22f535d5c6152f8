package service

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"stockledger/internal/domain"
	"stockledger/internal/dto"
	"stockledger/internal/errors"
	"stockledger/internal/inventory/repository"
	"stockledger/internal/testutil"
)

func newReservationForTest(db *sql.DB, ledger MovementLedger) *ReservationService {
	return NewReservationService(
		db,
		repository.NewMySQLItemRepository(db),
		repository.NewMySQLReservationRepository(db),
		ledger,
		zap.NewNop(),
		5*time.Second,
	)
}

func fetchItem(t *testing.T, db *sql.DB, productID, warehouseID int) *domain.InventoryItem {
	t.Helper()

	item, err := repository.NewMySQLItemRepository(db).FindByProductAndWarehouse(context.Background(), productID, warehouseID)
	require.NoError(t, err)
	return item
}

func countReservations(t *testing.T, db *sql.DB, orderID string, status domain.ReservationStatus) int {
	t.Helper()

	var count int
	err := db.QueryRow(
		"SELECT COUNT(*) FROM InventoryReservations WHERE orderId = ? AND status = ?",
		orderID, status,
	).Scan(&count)
	require.NoError(t, err)
	return count
}

func TestReserve_HoldsAvailableStock(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)
	testutil.SetupTestTables(t, db)

	seedItem(t, db, 1, 1, 100, 20)

	svc := newReservationForTest(db, newLedgerForTest(db, &mockAlertEvaluator{}, &mockPublisher{}))

	err := svc.Reserve(context.Background(), "ORD-1", []dto.ReservationItem{
		{ProductID: 1, WarehouseID: 1, Quantity: 80},
	})

	require.NoError(t, err)

	item := fetchItem(t, db, 1, 1)
	assert.Equal(t, 100, item.Quantity, "reservation must not touch on-hand quantity")
	assert.Equal(t, 80, item.ReservedQuantity)
	assert.Equal(t, 20, item.AvailableQuantity())
	assert.Equal(t, 1, countReservations(t, db, "ORD-1", domain.ReservationActive))
}

func TestReserve_RejectsWhenAvailableInsufficient(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)
	testutil.SetupTestTables(t, db)

	seedItem(t, db, 1, 1, 100, 20)

	svc := newReservationForTest(db, newLedgerForTest(db, &mockAlertEvaluator{}, &mockPublisher{}))

	require.NoError(t, svc.Reserve(context.Background(), "ORD-1", []dto.ReservationItem{
		{ProductID: 1, WarehouseID: 1, Quantity: 80},
	}))

	err := svc.Reserve(context.Background(), "ORD-2", []dto.ReservationItem{
		{ProductID: 1, WarehouseID: 1, Quantity: 30},
	})

	require.Error(t, err)
	insErr, ok := errors.IsInsufficientInventoryError(err)
	require.True(t, ok)
	assert.Equal(t, 20, insErr.Available)
	assert.Equal(t, 30, insErr.Requested)

	item := fetchItem(t, db, 1, 1)
	assert.Equal(t, 80, item.ReservedQuantity, "failed reservation must not change holds")
	assert.Equal(t, 0, countReservations(t, db, "ORD-2", domain.ReservationActive))
}

func TestReserve_BatchIsAllOrNothing(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)
	testutil.SetupTestTables(t, db)

	seedItem(t, db, 1, 1, 100, 20)
	seedItem(t, db, 2, 1, 5, 20)

	svc := newReservationForTest(db, newLedgerForTest(db, &mockAlertEvaluator{}, &mockPublisher{}))

	err := svc.Reserve(context.Background(), "ORD-1", []dto.ReservationItem{
		{ProductID: 1, WarehouseID: 1, Quantity: 10},
		{ProductID: 2, WarehouseID: 1, Quantity: 10},
	})

	require.Error(t, err)
	_, ok := errors.IsInsufficientInventoryError(err)
	require.True(t, ok)

	assert.Equal(t, 0, fetchItem(t, db, 1, 1).ReservedQuantity, "first line must roll back with the batch")
	assert.Equal(t, 0, fetchItem(t, db, 2, 1).ReservedQuantity)
	assert.Equal(t, 0, countReservations(t, db, "ORD-1", domain.ReservationActive))
}

func TestRelease_CancelReturnsHoldToAvailable(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)
	testutil.SetupTestTables(t, db)

	seedItem(t, db, 1, 1, 100, 20)

	svc := newReservationForTest(db, newLedgerForTest(db, &mockAlertEvaluator{}, &mockPublisher{}))

	require.NoError(t, svc.Reserve(context.Background(), "ORD-1", []dto.ReservationItem{
		{ProductID: 1, WarehouseID: 1, Quantity: 30},
	}))

	result, err := svc.Release(context.Background(), "ORD-1", false, "order-service")

	require.NoError(t, err)
	assert.Equal(t, 1, result.Released)
	assert.False(t, result.Fulfilled)

	item := fetchItem(t, db, 1, 1)
	assert.Equal(t, 100, item.Quantity)
	assert.Equal(t, 0, item.ReservedQuantity)
	assert.Equal(t, 1, countReservations(t, db, "ORD-1", domain.ReservationCancelled))
}

func TestRelease_FulfillShipsHeldStock(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)
	testutil.SetupTestTables(t, db)

	seedItem(t, db, 1, 1, 100, 20)

	var evaluated []domain.InventoryItem
	ledger := newLedgerForTest(db,
		&mockAlertEvaluator{EvaluateFunc: func(ctx context.Context, item domain.InventoryItem) error {
			evaluated = append(evaluated, item)
			return nil
		}},
		&mockPublisher{},
	)
	svc := newReservationForTest(db, ledger)

	require.NoError(t, svc.Reserve(context.Background(), "ORD-1", []dto.ReservationItem{
		{ProductID: 1, WarehouseID: 1, Quantity: 30},
	}))

	result, err := svc.Release(context.Background(), "ORD-1", true, "order-service")

	require.NoError(t, err)
	assert.Equal(t, 1, result.Released)
	assert.True(t, result.Fulfilled)

	item := fetchItem(t, db, 1, 1)
	assert.Equal(t, 70, item.Quantity)
	assert.Equal(t, 0, item.ReservedQuantity)
	assert.Equal(t, 1, countReservations(t, db, "ORD-1", domain.ReservationFulfilled))

	movements, err := repository.NewMySQLMovementRepository(db).ListByItem(context.Background(), 1, 1, 10)
	require.NoError(t, err)
	require.Len(t, movements, 1)
	assert.Equal(t, domain.MovementOut, movements[0].Type)
	assert.Equal(t, 30, movements[0].Quantity)
	require.NotNil(t, movements[0].OrderID)
	assert.Equal(t, "ORD-1", *movements[0].OrderID)

	require.Len(t, evaluated, 1, "alert evaluation must run after the release commits")
	assert.Equal(t, 70, evaluated[0].Quantity)
}

func TestRelease_SecondReleaseIsNoOp(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)
	testutil.SetupTestTables(t, db)

	seedItem(t, db, 1, 1, 100, 20)

	svc := newReservationForTest(db, newLedgerForTest(db, &mockAlertEvaluator{}, &mockPublisher{}))

	require.NoError(t, svc.Reserve(context.Background(), "ORD-1", []dto.ReservationItem{
		{ProductID: 1, WarehouseID: 1, Quantity: 30},
	}))

	first, err := svc.Release(context.Background(), "ORD-1", true, "order-service")
	require.NoError(t, err)
	assert.Equal(t, 1, first.Released)

	second, err := svc.Release(context.Background(), "ORD-1", true, "order-service")
	require.NoError(t, err)
	assert.Equal(t, 0, second.Released)

	item := fetchItem(t, db, 1, 1)
	assert.Equal(t, 70, item.Quantity, "repeat release must not ship twice")
	assert.Equal(t, 0, item.ReservedQuantity)
}

func TestRelease_UnknownOrderIsNoOp(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)
	testutil.SetupTestTables(t, db)

	svc := newReservationForTest(db, newLedgerForTest(db, &mockAlertEvaluator{}, &mockPublisher{}))

	result, err := svc.Release(context.Background(), "ORD-MISSING", false, "order-service")

	require.NoError(t, err)
	assert.Equal(t, 0, result.Released)
}

func TestReserve_ConcurrentBatchesNeverOversell(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)
	testutil.SetupTestTables(t, db)

	seedItem(t, db, 1, 1, 100, 20)

	svc := newReservationForTest(db, newLedgerForTest(db, &mockAlertEvaluator{}, &mockPublisher{}))

	var wg sync.WaitGroup
	errs := make([]error, 2)
	orders := []string{"ORD-A", "ORD-B"}

	for i, orderID := range orders {
		wg.Add(1)
		go func(i int, orderID string) {
			defer wg.Done()
			errs[i] = svc.Reserve(context.Background(), orderID, []dto.ReservationItem{
				{ProductID: 1, WarehouseID: 1, Quantity: 60},
			})
		}(i, orderID)
	}
	wg.Wait()

	failures := 0
	for _, err := range errs {
		if err != nil {
			_, ok := errors.IsInsufficientInventoryError(err)
			assert.True(t, ok, "unexpected error: %v", err)
			failures++
		}
	}
	assert.Equal(t, 1, failures, "exactly one of the competing batches must lose")

	item := fetchItem(t, db, 1, 1)
	assert.Equal(t, 60, item.ReservedQuantity)
}
