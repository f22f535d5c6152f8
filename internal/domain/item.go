package domain

import "time"

type ItemStatus string

const (
	ItemStatusActive       ItemStatus = "ACTIVE"
	ItemStatusInactive     ItemStatus = "INACTIVE"
	ItemStatusDiscontinued ItemStatus = "DISCONTINUED"
)

// InventoryItem is one row per (productId, warehouseId). It is the single
// point of truth for on-hand and reserved stock; only the ledger and the
// reservation service may write Quantity and ReservedQuantity.
type InventoryItem struct {
	ID               int
	ProductID        int
	WarehouseID      int
	Category         string
	Quantity         int
	ReservedQuantity int
	ReorderLevel     int
	MaxStockLevel    int
	CostPrice        float64
	ExpirationDate   *time.Time
	BatchNumber      *string
	Location         *string
	Status           ItemStatus
	LastStockUpdate  time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// AvailableQuantity is on-hand minus reserved. It is always derived, never
// stored, so the two counters cannot drift apart.
func (i InventoryItem) AvailableQuantity() int {
	available := i.Quantity - i.ReservedQuantity
	if available < 0 {
		return 0
	}
	return available
}

func (i InventoryItem) IsOutOfStock() bool {
	return i.Quantity <= 0
}

func (i InventoryItem) IsLowStock() bool {
	return i.Quantity > 0 && i.Quantity <= i.ReorderLevel
}

func (i InventoryItem) IsOverstocked() bool {
	return i.MaxStockLevel > 0 && i.Quantity > i.MaxStockLevel
}

// DaysUntilExpiry returns the whole days between now and the expiration
// date, and false when the item has no expiration date.
func (i InventoryItem) DaysUntilExpiry(now time.Time) (int, bool) {
	if i.ExpirationDate == nil {
		return 0, false
	}
	return int(i.ExpirationDate.Sub(now).Hours() / 24), true
}
