package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"stockledger/internal/domain"
	"stockledger/internal/errors"
)

type mockForecastItemRepository struct {
	FindByProductAndWarehouseFunc func(ctx context.Context, productID, warehouseID int) (*domain.InventoryItem, error)
}

func (m *mockForecastItemRepository) FindByProductAndWarehouse(ctx context.Context, productID, warehouseID int) (*domain.InventoryItem, error) {
	return m.FindByProductAndWarehouseFunc(ctx, productID, warehouseID)
}

type mockMovementAggregator struct {
	OutgoingTotalsFunc func(ctx context.Context, productID, warehouseID int, since time.Time) (int, int, error)
}

func (m *mockMovementAggregator) OutgoingTotals(ctx context.Context, productID, warehouseID int, since time.Time) (int, int, error) {
	return m.OutgoingTotalsFunc(ctx, productID, warehouseID, since)
}

func TestForecast_NilWhenItemMissing(t *testing.T) {
	itemRepo := &mockForecastItemRepository{
		FindByProductAndWarehouseFunc: func(ctx context.Context, productID, warehouseID int) (*domain.InventoryItem, error) {
			return nil, errors.NewNotFoundError("inventory item not found")
		},
	}

	svc := NewForecastService(itemRepo, &mockMovementAggregator{}, 30, zap.NewNop())

	forecast, err := svc.Forecast(context.Background(), 1, 1)

	require.NoError(t, err)
	assert.Nil(t, forecast)
}

func TestForecast_ProjectsStockoutFromTrailingUsage(t *testing.T) {
	itemRepo := &mockForecastItemRepository{
		FindByProductAndWarehouseFunc: func(ctx context.Context, productID, warehouseID int) (*domain.InventoryItem, error) {
			return &domain.InventoryItem{
				ProductID: 1, WarehouseID: 1, Quantity: 50, ReorderLevel: 20,
			}, nil
		},
	}
	movementRepo := &mockMovementAggregator{
		OutgoingTotalsFunc: func(ctx context.Context, productID, warehouseID int, since time.Time) (int, int, error) {
			return 300, 30, nil
		},
	}

	svc := NewForecastService(itemRepo, movementRepo, 30, zap.NewNop())

	forecast, err := svc.Forecast(context.Background(), 1, 1)

	require.NoError(t, err)
	require.NotNil(t, forecast)
	assert.InDelta(t, 10.0, forecast.DailyUsage, 0.001)
	assert.Equal(t, 5, forecast.DaysUntilStockout)
	// Stockout within the lead week: reorder now.
	assert.WithinDuration(t, time.Now(), forecast.RecommendedReorderDate, 5*time.Second)
}

func TestForecast_DegradesToZeroUsageOnAggregateFailure(t *testing.T) {
	itemRepo := &mockForecastItemRepository{
		FindByProductAndWarehouseFunc: func(ctx context.Context, productID, warehouseID int) (*domain.InventoryItem, error) {
			return &domain.InventoryItem{
				ProductID: 1, WarehouseID: 1, Quantity: 50, ReorderLevel: 20,
			}, nil
		},
	}
	movementRepo := &mockMovementAggregator{
		OutgoingTotalsFunc: func(ctx context.Context, productID, warehouseID int, since time.Time) (int, int, error) {
			return 0, 0, errors.NewPersistenceError("querying outgoing totals", context.DeadlineExceeded)
		},
	}

	svc := NewForecastService(itemRepo, movementRepo, 30, zap.NewNop())

	forecast, err := svc.Forecast(context.Background(), 1, 1)

	require.NoError(t, err)
	require.NotNil(t, forecast)
	assert.Equal(t, 0.0, forecast.DailyUsage)
	assert.Equal(t, domain.StockoutUnbounded, forecast.DaysUntilStockout)
	assert.Equal(t, 0.0, forecast.Confidence)
}
