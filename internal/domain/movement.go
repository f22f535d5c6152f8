package domain

import "time"

type MovementType string

const (
	MovementIn         MovementType = "IN"
	MovementOut        MovementType = "OUT"
	MovementTransfer   MovementType = "TRANSFER"
	MovementAdjustment MovementType = "ADJUSTMENT"
	MovementReturn     MovementType = "RETURN"
	MovementDamage     MovementType = "DAMAGE"
	MovementExpired    MovementType = "EXPIRED"
)

func (t MovementType) Valid() bool {
	switch t {
	case MovementIn, MovementOut, MovementTransfer, MovementAdjustment,
		MovementReturn, MovementDamage, MovementExpired:
		return true
	}
	return false
}

// StockMovement is one append-only ledger entry. Rows are never updated or
// deleted; on-hand quantity is reconstructable by replaying them in order.
type StockMovement struct {
	ID               int64
	ProductID        int
	WarehouseID      int
	Type             MovementType
	Quantity         int
	PreviousQuantity int
	NewQuantity      int
	Reason           *string
	Reference        *string
	OrderID          *string
	UnitCost         *float64
	Notes            *string
	CreatedBy        string
	CreatedAt        time.Time
}

// ResolveQuantity applies the per-type quantity rules to the current
// on-hand quantity and reports whether the result was clamped at zero.
//
// IN and RETURN add the magnitude; OUT, DAMAGE and EXPIRED subtract it,
// clamping at zero rather than failing; ADJUSTMENT sets the absolute value
// (cycle counts); TRANSFER adds the signed quantity, so the caller issues a
// negative outgoing side and a positive incoming side.
func ResolveQuantity(movementType MovementType, previous, quantity int) (newQuantity int, clamped bool) {
	switch movementType {
	case MovementIn, MovementReturn:
		return previous + abs(quantity), false
	case MovementOut, MovementDamage, MovementExpired:
		next := previous - abs(quantity)
		if next < 0 {
			return 0, true
		}
		return next, false
	case MovementAdjustment:
		return quantity, false
	case MovementTransfer:
		return previous + quantity, false
	}
	return previous, false
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
