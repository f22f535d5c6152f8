package events

import (
	"context"
	"encoding/json"

	"github.com/ThreeDotsLabs/watermill/message"
	"go.uber.org/zap"
)

// DashboardSync is the in-process stand-in for the real-time dashboard
// consumers. It drains inventory_updated events and logs them; real
// transports hang off the same subscription.
type DashboardSync struct {
	subscriber message.Subscriber
	logger     *zap.Logger
}

func NewDashboardSync(subscriber message.Subscriber, logger *zap.Logger) *DashboardSync {
	return &DashboardSync{
		subscriber: subscriber,
		logger:     logger,
	}
}

// Run consumes until the context is cancelled.
func (d *DashboardSync) Run(ctx context.Context) error {
	messages, err := d.subscriber.Subscribe(ctx, TopicInventoryUpdated)
	if err != nil {
		return err
	}

	for msg := range messages {
		var event InventoryUpdated
		if err := json.Unmarshal(msg.Payload, &event); err != nil {
			d.logger.Error("malformed inventory_updated payload", zap.Error(err))
			msg.Ack()
			continue
		}

		d.logger.Info("inventory updated",
			zap.Int("productId", event.ProductID),
			zap.Int("warehouseId", event.WarehouseID),
			zap.Int("previousQuantity", event.PreviousQuantity),
			zap.Int("newQuantity", event.NewQuantity),
			zap.String("movementType", event.MovementType),
		)
		msg.Ack()
	}

	return nil
}
