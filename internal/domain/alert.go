package domain

import "time"

type AlertType string

const (
	AlertLowStock     AlertType = "LOW_STOCK"
	AlertOutOfStock   AlertType = "OUT_OF_STOCK"
	AlertOverstock    AlertType = "OVERSTOCK"
	AlertExpiringSoon AlertType = "EXPIRING_SOON"
	AlertExpired      AlertType = "EXPIRED"
)

type AlertSeverity string

const (
	SeverityLow      AlertSeverity = "LOW"
	SeverityMedium   AlertSeverity = "MEDIUM"
	SeverityHigh     AlertSeverity = "HIGH"
	SeverityCritical AlertSeverity = "CRITICAL"
)

// AllAlertTypes lists every type the resolution sweep must consider.
var AllAlertTypes = []AlertType{
	AlertLowStock, AlertOutOfStock, AlertOverstock, AlertExpiringSoon, AlertExpired,
}

// StockAlert holds at most one active row per (productId, warehouseId, type).
// Re-triggers update the existing row instead of inserting a duplicate.
type StockAlert struct {
	ID                int64
	ProductID         int
	WarehouseID       int
	Type              AlertType
	CurrentQuantity   int
	Threshold         int
	Severity          AlertSeverity
	IsActive          bool
	NotificationsSent int
	CreatedAt         time.Time
	ResolvedAt        *time.Time
	UpdatedAt         time.Time
}

// AlertCondition is the outcome of evaluating one alert type against an
// item's current state.
type AlertCondition struct {
	Type      AlertType
	Severity  AlertSeverity
	Threshold int
}

const expiryWarningDays = 30

// EvaluateAlertConditions returns the alert conditions that hold for the
// item right now. Types absent from the result must be resolved if active.
func EvaluateAlertConditions(item InventoryItem, now time.Time) []AlertCondition {
	var conditions []AlertCondition

	if item.IsOutOfStock() {
		conditions = append(conditions, AlertCondition{
			Type:      AlertOutOfStock,
			Severity:  SeverityCritical,
			Threshold: 0,
		})
	} else if item.IsLowStock() {
		severity := SeverityMedium
		if item.Quantity*2 <= item.ReorderLevel {
			severity = SeverityHigh
		}
		conditions = append(conditions, AlertCondition{
			Type:      AlertLowStock,
			Severity:  severity,
			Threshold: item.ReorderLevel,
		})
	}

	if item.IsOverstocked() {
		conditions = append(conditions, AlertCondition{
			Type:      AlertOverstock,
			Severity:  SeverityLow,
			Threshold: item.MaxStockLevel,
		})
	}

	if days, ok := item.DaysUntilExpiry(now); ok {
		switch {
		case days <= 0:
			conditions = append(conditions, AlertCondition{
				Type:      AlertExpired,
				Severity:  SeverityCritical,
				Threshold: 0,
			})
		case days <= expiryWarningDays:
			severity := SeverityMedium
			if days <= 7 {
				severity = SeverityHigh
			}
			conditions = append(conditions, AlertCondition{
				Type:      AlertExpiringSoon,
				Severity:  severity,
				Threshold: expiryWarningDays,
			})
		}
	}

	return conditions
}
