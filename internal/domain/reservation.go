package domain

import "time"

type ReservationStatus string

const (
	ReservationActive    ReservationStatus = "ACTIVE"
	ReservationFulfilled ReservationStatus = "FULFILLED"
	ReservationCancelled ReservationStatus = "CANCELLED"
)

// InventoryReservation is one hold per (orderId, productId, warehouseId).
// FULFILLED and CANCELLED are terminal; a reservation is never re-opened.
type InventoryReservation struct {
	ID          int64
	OrderID     string
	ProductID   int
	WarehouseID int
	Quantity    int
	Status      ReservationStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
