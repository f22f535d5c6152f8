package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"stockledger/internal/domain"
	"stockledger/internal/errors"
	"stockledger/internal/events"
	"stockledger/internal/inventory/repository"
	"stockledger/internal/testutil"
)

type mockAlertEvaluator struct {
	EvaluateFunc func(ctx context.Context, item domain.InventoryItem) error
}

func (m *mockAlertEvaluator) Evaluate(ctx context.Context, item domain.InventoryItem) error {
	if m.EvaluateFunc == nil {
		return nil
	}
	return m.EvaluateFunc(ctx, item)
}

type mockPublisher struct {
	PublishInventoryUpdatedFunc func(ctx context.Context, event events.InventoryUpdated) error
}

func (m *mockPublisher) PublishInventoryUpdated(ctx context.Context, event events.InventoryUpdated) error {
	if m.PublishInventoryUpdatedFunc == nil {
		return nil
	}
	return m.PublishInventoryUpdatedFunc(ctx, event)
}

func seedItem(t *testing.T, db *sql.DB, productID, warehouseID, quantity, reorderLevel int) {
	t.Helper()

	repo := repository.NewMySQLItemRepository(db)
	_, err := repo.Insert(context.Background(), domain.InventoryItem{
		ProductID:       productID,
		WarehouseID:     warehouseID,
		Category:        "electronics",
		Quantity:        quantity,
		ReorderLevel:    reorderLevel,
		MaxStockLevel:   quantity * 10,
		CostPrice:       25.50,
		Status:          domain.ItemStatusActive,
		LastStockUpdate: time.Now(),
	})
	require.NoError(t, err)
}

func newLedgerForTest(db *sql.DB, alerts AlertEvaluator, publisher events.Publisher) *LedgerService {
	return NewLedgerService(
		db,
		repository.NewMySQLItemRepository(db),
		repository.NewMySQLMovementRepository(db),
		alerts,
		publisher,
		zap.NewNop(),
		5*time.Second,
	)
}

func TestRecordMovement_RejectsUnknownType(t *testing.T) {
	svc := NewLedgerService(nil, nil, nil, nil, nil, zap.NewNop(), time.Second)

	_, err := svc.RecordMovement(context.Background(), MovementParams{
		ProductID:   1,
		WarehouseID: 1,
		Quantity:    5,
		Type:        domain.MovementType("TELEPORT"),
		CreatedBy:   "tester",
	})

	require.Error(t, err)
	typeErr, ok := errors.IsInvalidMovementTypeError(err)
	require.True(t, ok)
	assert.Equal(t, "TELEPORT", typeErr.Type)
}

func TestRecordMovement_OutgoingMovement(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)
	testutil.SetupTestTables(t, db)

	seedItem(t, db, 1, 1, 100, 20)

	var evaluated []domain.InventoryItem
	var published []events.InventoryUpdated

	svc := newLedgerForTest(db,
		&mockAlertEvaluator{EvaluateFunc: func(ctx context.Context, item domain.InventoryItem) error {
			evaluated = append(evaluated, item)
			return nil
		}},
		&mockPublisher{PublishInventoryUpdatedFunc: func(ctx context.Context, event events.InventoryUpdated) error {
			published = append(published, event)
			return nil
		}},
	)

	reason := "Order shipment"
	movement, err := svc.RecordMovement(context.Background(), MovementParams{
		ProductID:   1,
		WarehouseID: 1,
		Quantity:    85,
		Type:        domain.MovementOut,
		CreatedBy:   "order-service",
		Reason:      &reason,
	})

	require.NoError(t, err)
	assert.NotZero(t, movement.ID)
	assert.Equal(t, 100, movement.PreviousQuantity)
	assert.Equal(t, 15, movement.NewQuantity)

	item, err := repository.NewMySQLItemRepository(db).FindByProductAndWarehouse(context.Background(), 1, 1)
	require.NoError(t, err)
	assert.Equal(t, 15, item.Quantity)

	require.Len(t, evaluated, 1)
	assert.Equal(t, 15, evaluated[0].Quantity)

	require.Len(t, published, 1)
	assert.Equal(t, 100, published[0].PreviousQuantity)
	assert.Equal(t, 15, published[0].NewQuantity)
	assert.Equal(t, string(domain.MovementOut), published[0].MovementType)
}

func TestRecordMovement_ClampsOutgoingAtZero(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)
	testutil.SetupTestTables(t, db)

	seedItem(t, db, 1, 1, 100, 20)

	svc := newLedgerForTest(db, &mockAlertEvaluator{}, &mockPublisher{})

	movement, err := svc.RecordMovement(context.Background(), MovementParams{
		ProductID:   1,
		WarehouseID: 1,
		Quantity:    120,
		Type:        domain.MovementOut,
		CreatedBy:   "order-service",
	})

	require.NoError(t, err)
	assert.Equal(t, 100, movement.PreviousQuantity)
	assert.Equal(t, 0, movement.NewQuantity)
	require.NotNil(t, movement.Notes)
	assert.Contains(t, *movement.Notes, "clamped at zero")
	assert.Contains(t, *movement.Notes, "requested 120")

	item, err := repository.NewMySQLItemRepository(db).FindByProductAndWarehouse(context.Background(), 1, 1)
	require.NoError(t, err)
	assert.Equal(t, 0, item.Quantity)
}

func TestRecordMovement_AdjustmentSetsAbsoluteQuantity(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)
	testutil.SetupTestTables(t, db)

	seedItem(t, db, 1, 1, 100, 20)

	svc := newLedgerForTest(db, &mockAlertEvaluator{}, &mockPublisher{})

	movement, err := svc.RecordMovement(context.Background(), MovementParams{
		ProductID:   1,
		WarehouseID: 1,
		Quantity:    42,
		Type:        domain.MovementAdjustment,
		CreatedBy:   "stock-count",
	})

	require.NoError(t, err)
	assert.Equal(t, 100, movement.PreviousQuantity)
	assert.Equal(t, 42, movement.NewQuantity)
}

func TestRecordMovement_UnknownItem(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)
	testutil.SetupTestTables(t, db)

	svc := newLedgerForTest(db, &mockAlertEvaluator{}, &mockPublisher{})

	_, err := svc.RecordMovement(context.Background(), MovementParams{
		ProductID:   99,
		WarehouseID: 99,
		Quantity:    10,
		Type:        domain.MovementIn,
		CreatedBy:   "tester",
	})

	require.Error(t, err)
	_, ok := errors.IsNotFoundError(err)
	assert.True(t, ok)
}

func TestRecordMovement_ObserverFailureDoesNotFailMovement(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)
	testutil.SetupTestTables(t, db)

	seedItem(t, db, 1, 1, 100, 20)

	svc := newLedgerForTest(db,
		&mockAlertEvaluator{EvaluateFunc: func(ctx context.Context, item domain.InventoryItem) error {
			return errors.NewPersistenceError("alert store down", sql.ErrConnDone)
		}},
		&mockPublisher{PublishInventoryUpdatedFunc: func(ctx context.Context, event events.InventoryUpdated) error {
			return context.DeadlineExceeded
		}},
	)

	movement, err := svc.RecordMovement(context.Background(), MovementParams{
		ProductID:   1,
		WarehouseID: 1,
		Quantity:    10,
		Type:        domain.MovementIn,
		CreatedBy:   "receiving",
	})

	require.NoError(t, err)
	assert.Equal(t, 110, movement.NewQuantity)

	item, err := repository.NewMySQLItemRepository(db).FindByProductAndWarehouse(context.Background(), 1, 1)
	require.NoError(t, err)
	assert.Equal(t, 110, item.Quantity)
}
