package dto

import "time"

type CreateItemRequest struct {
	ProductID      int        `json:"productId"`
	WarehouseID    int        `json:"warehouseId"`
	Category       string     `json:"category"`
	Quantity       int        `json:"quantity"`
	ReorderLevel   int        `json:"reorderLevel"`
	MaxStockLevel  int        `json:"maxStockLevel"`
	CostPrice      float64    `json:"costPrice"`
	ExpirationDate *time.Time `json:"expirationDate,omitempty"`
	BatchNumber    *string    `json:"batchNumber,omitempty"`
	Location       *string    `json:"location,omitempty"`
	CreatedBy      string     `json:"createdBy"`
}

type ItemResponse struct {
	ProductID         int        `json:"productId"`
	WarehouseID       int        `json:"warehouseId"`
	Category          string     `json:"category"`
	Quantity          int        `json:"quantity"`
	ReservedQuantity  int        `json:"reservedQuantity"`
	AvailableQuantity int        `json:"availableQuantity"`
	ReorderLevel      int        `json:"reorderLevel"`
	MaxStockLevel     int        `json:"maxStockLevel"`
	CostPrice         float64    `json:"costPrice"`
	ExpirationDate    *time.Time `json:"expirationDate,omitempty"`
	BatchNumber       *string    `json:"batchNumber,omitempty"`
	Location          *string    `json:"location,omitempty"`
	Status            string     `json:"status"`
	LastStockUpdate   time.Time  `json:"lastStockUpdate"`
}
