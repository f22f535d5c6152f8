package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
)

// TopicInventoryUpdated carries one event per committed ledger write.
const TopicInventoryUpdated = "inventory_updated"

// InventoryUpdated is published after a movement commits so push
// subscribers (dashboards, analytics) can sync without polling.
type InventoryUpdated struct {
	ProductID        int       `json:"productId"`
	WarehouseID      int       `json:"warehouseId"`
	PreviousQuantity int       `json:"previousQuantity"`
	NewQuantity      int       `json:"newQuantity"`
	MovementType     string    `json:"movementType"`
	OccurredAt       time.Time `json:"occurredAt"`
}

// Publisher is the boundary the inventory services emit through.
type Publisher interface {
	PublishInventoryUpdated(ctx context.Context, event InventoryUpdated) error
}

// WatermillPublisher adapts a watermill publisher to the domain event.
type WatermillPublisher struct {
	publisher message.Publisher
}

func NewWatermillPublisher(publisher message.Publisher) *WatermillPublisher {
	return &WatermillPublisher{publisher: publisher}
}

func (p *WatermillPublisher) PublishInventoryUpdated(_ context.Context, event InventoryUpdated) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshaling inventory_updated event: %w", err)
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	if err := p.publisher.Publish(TopicInventoryUpdated, msg); err != nil {
		return fmt.Errorf("publishing inventory_updated event: %w", err)
	}

	return nil
}
