package dto

import "time"

type RecordMovementRequest struct {
	Quantity  int      `json:"quantity"`
	Type      string   `json:"type"`
	CreatedBy string   `json:"createdBy"`
	Reason    *string  `json:"reason,omitempty"`
	Reference *string  `json:"reference,omitempty"`
	OrderID   *string  `json:"orderId,omitempty"`
	UnitCost  *float64 `json:"unitCost,omitempty"`
	Notes     *string  `json:"notes,omitempty"`
}

type MovementResponse struct {
	ID               int64     `json:"id"`
	ProductID        int       `json:"productId"`
	WarehouseID      int       `json:"warehouseId"`
	Type             string    `json:"type"`
	Quantity         int       `json:"quantity"`
	PreviousQuantity int       `json:"previousQuantity"`
	NewQuantity      int       `json:"newQuantity"`
	Reason           *string   `json:"reason,omitempty"`
	Reference        *string   `json:"reference,omitempty"`
	OrderID          *string   `json:"orderId,omitempty"`
	Notes            *string   `json:"notes,omitempty"`
	CreatedBy        string    `json:"createdBy"`
	CreatedAt        time.Time `json:"createdAt"`
}
