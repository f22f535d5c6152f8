package notifier

import (
	"context"

	"go.uber.org/zap"

	"stockledger/internal/domain"
)

// Notification is what the alert state machine hands to the delivery side.
type Notification struct {
	AlertType       domain.AlertType
	Severity        domain.AlertSeverity
	ProductID       int
	WarehouseID     int
	CurrentQuantity int
	Threshold       int
}

// Notifier delivers stock alert notifications. Delivery transport
// (email/SMS/webhook) lives outside this module; implementations are
// fire-and-forget and must not block inventory transactions.
type Notifier interface {
	Notify(ctx context.Context, n Notification)
}

// LogNotifier writes notifications to the application log. It is the
// default wiring when no external transport is configured.
type LogNotifier struct {
	logger *zap.Logger
}

func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Notify(_ context.Context, notification Notification) {
	n.logger.Warn("stock alert notification",
		zap.String("alertType", string(notification.AlertType)),
		zap.String("severity", string(notification.Severity)),
		zap.Int("productId", notification.ProductID),
		zap.Int("warehouseId", notification.WarehouseID),
		zap.Int("currentQuantity", notification.CurrentQuantity),
		zap.Int("threshold", notification.Threshold),
	)
}
