package dto

import "time"

type GroupValuation struct {
	Key              string  `json:"key"`
	ItemCount        int     `json:"itemCount"`
	TotalValue       float64 `json:"totalValue"`
	AverageCostPrice float64 `json:"averageCostPrice"`
}

type Valuation struct {
	TotalValue  float64          `json:"totalValue"`
	ByCategory  []GroupValuation `json:"byCategory"`
	ByWarehouse []GroupValuation `json:"byWarehouse"`
}

type ItemValue struct {
	ProductID   int     `json:"productId"`
	WarehouseID int     `json:"warehouseId"`
	Category    string  `json:"category"`
	Quantity    int     `json:"quantity"`
	TotalValue  float64 `json:"totalValue"`
}

type SlowMover struct {
	ProductID       int       `json:"productId"`
	WarehouseID     int       `json:"warehouseId"`
	Quantity        int       `json:"quantity"`
	LastStockUpdate time.Time `json:"lastStockUpdate"`
	DaysSinceUpdate int       `json:"daysSinceUpdate"`
}

type AlertSummary struct {
	ProductID       int       `json:"productId"`
	WarehouseID     int       `json:"warehouseId"`
	Type            string    `json:"type"`
	Severity        string    `json:"severity"`
	CurrentQuantity int       `json:"currentQuantity"`
	Threshold       int       `json:"threshold"`
	CreatedAt       time.Time `json:"createdAt"`
}

type ReportCounts struct {
	TotalItems   int `json:"totalItems"`
	LowStock     int `json:"lowStock"`
	OutOfStock   int `json:"outOfStock"`
	Overstock    int `json:"overstock"`
	ExpiringSoon int `json:"expiringSoon"`
}

// Report is the read-only composite view the dashboards render.
type Report struct {
	Counts      ReportCounts   `json:"counts"`
	Valuation   Valuation      `json:"valuation"`
	TopByValue  []ItemValue    `json:"topByValue"`
	SlowMovers  []SlowMover    `json:"slowMovers"`
	TopAlerts   []AlertSummary `json:"topAlerts"`
	GeneratedAt time.Time      `json:"generatedAt"`
}

type ForecastResponse struct {
	ProductID                  int       `json:"productId"`
	WarehouseID                int       `json:"warehouseId"`
	DailyUsage                 float64   `json:"dailyUsage"`
	DaysUntilStockout          int       `json:"daysUntilStockout"`
	RecommendedReorderQuantity int       `json:"recommendedReorderQuantity"`
	RecommendedReorderDate     time.Time `json:"recommendedReorderDate"`
	Confidence                 float64   `json:"confidence"`
}
