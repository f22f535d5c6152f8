package domain

import (
	"math"
	"time"
)

// StockoutUnbounded is reported when trailing usage is zero and no stockout
// date can be projected.
const StockoutUnbounded = -1

// Forecast projects consumption for one (productId, warehouseId).
//
// The confidence score is a heuristic blend of data availability and a flat
// bonus for having any movement history at all; it is not a statistical
// guarantee.
type Forecast struct {
	ProductID                  int
	WarehouseID                int
	DailyUsage                 float64
	DaysUntilStockout          int
	RecommendedReorderQuantity int
	RecommendedReorderDate     time.Time
	Confidence                 float64
}

// ComputeForecast derives a forecast from the trailing consumption window.
// outgoingTotal is the sum of OUT movement quantities over windowDays and
// movementCount the number of such movements.
func ComputeForecast(item InventoryItem, outgoingTotal, movementCount, windowDays int, now time.Time) Forecast {
	dailyUsage := float64(outgoingTotal) / float64(windowDays)

	daysUntilStockout := StockoutUnbounded
	if dailyUsage > 0 {
		daysUntilStockout = int(math.Floor(float64(item.AvailableQuantity()) / dailyUsage))
	}

	reorderQty := int(math.Ceil(dailyUsage * float64(windowDays)))
	if doubled := item.ReorderLevel * 2; doubled > reorderQty {
		reorderQty = doubled
	}

	leadDays := 0
	if daysUntilStockout > 7 {
		leadDays = daysUntilStockout - 7
	}

	confidence := float64(movementCount) / float64(windowDays) * 100 * 0.7
	if movementCount > 0 {
		confidence += 30
	}
	if confidence > 100 {
		confidence = 100
	}

	return Forecast{
		ProductID:                  item.ProductID,
		WarehouseID:                item.WarehouseID,
		DailyUsage:                 dailyUsage,
		DaysUntilStockout:          daysUntilStockout,
		RecommendedReorderQuantity: reorderQty,
		RecommendedReorderDate:     now.AddDate(0, 0, leadDays),
		Confidence:                 confidence,
	}
}
