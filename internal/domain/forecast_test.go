package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestComputeForecast_SteadyUsage(t *testing.T) {
	// 300 units consumed over 30 days with 50 available: usage 10/day,
	// stockout in 5 days, reorder immediately.
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	item := InventoryItem{ProductID: 1, WarehouseID: 1, Quantity: 50, ReorderLevel: 20}

	f := ComputeForecast(item, 300, 30, 30, now)

	assert.InDelta(t, 10.0, f.DailyUsage, 0.001)
	assert.Equal(t, 5, f.DaysUntilStockout)
	assert.Equal(t, 300, f.RecommendedReorderQuantity)
	assert.Equal(t, now, f.RecommendedReorderDate)
	assert.InDelta(t, 100.0, f.Confidence, 0.001)
}

func TestComputeForecast_NoUsageIsUnbounded(t *testing.T) {
	// Round(0) strips the monotonic clock reading so assert.Equal's
	// reflect.DeepEqual comparison matches the AddDate result, which has
	// no monotonic component.
	now := time.Now().Round(0)
	item := InventoryItem{Quantity: 50, ReorderLevel: 20}

	f := ComputeForecast(item, 0, 0, 30, now)

	assert.Equal(t, StockoutUnbounded, f.DaysUntilStockout)
	assert.Equal(t, 40, f.RecommendedReorderQuantity)
	assert.Equal(t, now, f.RecommendedReorderDate)
	assert.Equal(t, 0.0, f.Confidence)
}

func TestComputeForecast_ReorderDateLeadsStockoutBySevenDays(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	item := InventoryItem{Quantity: 200, ReorderLevel: 5}

	// 60 units over 30 days: 2/day, stockout in 100 days.
	f := ComputeForecast(item, 60, 12, 30, now)

	assert.Equal(t, 100, f.DaysUntilStockout)
	assert.Equal(t, now.AddDate(0, 0, 93), f.RecommendedReorderDate)
}

func TestComputeForecast_ReorderQuantityCoversLargerOfUsageOrDoubleReorderLevel(t *testing.T) {
	item := InventoryItem{Quantity: 100, ReorderLevel: 50}

	// Monthly usage 30 < reorderLevel*2 = 100.
	f := ComputeForecast(item, 30, 10, 30, time.Now())
	assert.Equal(t, 100, f.RecommendedReorderQuantity)
}

func TestComputeForecast_ReservedStockReducesRunway(t *testing.T) {
	item := InventoryItem{Quantity: 50, ReservedQuantity: 30, ReorderLevel: 5}

	f := ComputeForecast(item, 60, 6, 30, time.Now())

	// available = 20, usage = 2/day.
	assert.Equal(t, 10, f.DaysUntilStockout)
}

func TestComputeForecast_ConfidenceScalesWithMovementCount(t *testing.T) {
	item := InventoryItem{Quantity: 50, ReorderLevel: 5}

	f := ComputeForecast(item, 30, 15, 30, time.Now())

	// 15/30 * 100 * 0.7 + 30 = 65.
	assert.InDelta(t, 65.0, f.Confidence, 0.001)
}
