package service

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"

	"stockledger/internal/domain"
	"stockledger/internal/errors"
	"stockledger/internal/events"
)

type TransactionManager interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

type LedgerItemRepository interface {
	FindForUpdate(ctx context.Context, tx *sql.Tx, productID, warehouseID int) (*domain.InventoryItem, error)
	UpdateQuantity(ctx context.Context, tx *sql.Tx, id, quantity int, at time.Time) error
}

type MovementRepository interface {
	Insert(ctx context.Context, tx *sql.Tx, m domain.StockMovement) (int64, error)
}

// AlertEvaluator re-checks alert conditions after a committed movement.
type AlertEvaluator interface {
	Evaluate(ctx context.Context, item domain.InventoryItem) error
}

// MovementParams describes one requested ledger write.
type MovementParams struct {
	ProductID   int
	WarehouseID int
	Quantity    int
	Type        domain.MovementType
	CreatedBy   string
	Reason      *string
	Reference   *string
	OrderID     *string
	UnitCost    *float64
	Notes       *string
}

// LedgerService is the only component allowed to change an item's on-hand
// quantity. Every change is recorded as an immutable movement in the same
// transaction as the quantity update.
type LedgerService struct {
	db           TransactionManager
	itemRepo     LedgerItemRepository
	movementRepo MovementRepository
	alerts       AlertEvaluator
	publisher    events.Publisher
	logger       *zap.Logger
	txTimeout    time.Duration
}

func NewLedgerService(
	db TransactionManager,
	itemRepo LedgerItemRepository,
	movementRepo MovementRepository,
	alerts AlertEvaluator,
	publisher events.Publisher,
	logger *zap.Logger,
	txTimeout time.Duration,
) *LedgerService {
	return &LedgerService{
		db:           db,
		itemRepo:     itemRepo,
		movementRepo: movementRepo,
		alerts:       alerts,
		publisher:    publisher,
		logger:       logger,
		txTimeout:    txTimeout,
	}
}

func (s *LedgerService) RecordMovement(ctx context.Context, params MovementParams) (*domain.StockMovement, error) {
	if !params.Type.Valid() {
		return nil, errors.NewInvalidMovementTypeError(string(params.Type))
	}

	txCtx, cancel := context.WithTimeout(ctx, s.txTimeout)
	defer cancel()

	tx, err := s.db.BeginTx(txCtx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead})
	if err != nil {
		s.logger.Error("failed to begin transaction", zap.Error(err))
		return nil, err
	}
	// Rollback is a no-op once committed.
	defer tx.Rollback()

	movement, item, err := s.RecordMovementTx(txCtx, tx, params)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("failed to commit movement transaction",
			zap.Int("productId", params.ProductID), zap.Error(err))
		return nil, err
	}

	s.AfterCommit(ctx, *item, *movement)

	return movement, nil
}

// RecordMovementTx applies one movement inside an existing transaction. The
// reservation service fulfills holds through it so fulfillment OUT
// movements share the release transaction. Callers must run AfterCommit
// for each recorded movement once their transaction commits.
func (s *LedgerService) RecordMovementTx(ctx context.Context, tx *sql.Tx, params MovementParams) (*domain.StockMovement, *domain.InventoryItem, error) {
	if !params.Type.Valid() {
		return nil, nil, errors.NewInvalidMovementTypeError(string(params.Type))
	}

	item, err := s.itemRepo.FindForUpdate(ctx, tx, params.ProductID, params.WarehouseID)
	if err != nil {
		return nil, nil, err
	}

	previous := item.Quantity
	newQuantity, clamped := domain.ResolveQuantity(params.Type, previous, params.Quantity)

	notes := params.Notes
	if clamped {
		// The shortfall is documented behavior, not an error, but it must
		// leave an audit trail.
		clampNote := fmt.Sprintf("clamped at zero: requested %d, on hand %d", params.Quantity, previous)
		if notes != nil {
			clampNote = *notes + "; " + clampNote
		}
		notes = &clampNote
		s.logger.Warn("outgoing movement clamped at zero",
			zap.Int("productId", params.ProductID),
			zap.Int("warehouseId", params.WarehouseID),
			zap.Int("requested", params.Quantity),
			zap.Int("onHand", previous),
		)
	}

	now := time.Now()
	if err := s.itemRepo.UpdateQuantity(ctx, tx, item.ID, newQuantity, now); err != nil {
		return nil, nil, err
	}

	movement := domain.StockMovement{
		ProductID:        params.ProductID,
		WarehouseID:      params.WarehouseID,
		Type:             params.Type,
		Quantity:         params.Quantity,
		PreviousQuantity: previous,
		NewQuantity:      newQuantity,
		Reason:           params.Reason,
		Reference:        params.Reference,
		OrderID:          params.OrderID,
		UnitCost:         params.UnitCost,
		Notes:            notes,
		CreatedBy:        params.CreatedBy,
		CreatedAt:        now,
	}

	movement.ID, err = s.movementRepo.Insert(ctx, tx, movement)
	if err != nil {
		return nil, nil, err
	}

	item.Quantity = newQuantity
	item.LastStockUpdate = now

	s.logger.Info("movement recorded",
		zap.Int64("movementId", movement.ID),
		zap.Int("productId", params.ProductID),
		zap.Int("warehouseId", params.WarehouseID),
		zap.String("type", string(params.Type)),
		zap.Int("previousQuantity", previous),
		zap.Int("newQuantity", newQuantity),
	)

	return &movement, item, nil
}

// AfterCommit runs the best-effort observers for a committed movement.
// Alerting and event emission never fail or roll back the ledger write.
func (s *LedgerService) AfterCommit(ctx context.Context, item domain.InventoryItem, movement domain.StockMovement) {
	if err := s.alerts.Evaluate(ctx, item); err != nil {
		s.logger.Error("alert evaluation failed",
			zap.Int("productId", item.ProductID),
			zap.Int("warehouseId", item.WarehouseID),
			zap.Error(err),
		)
	}

	event := events.InventoryUpdated{
		ProductID:        movement.ProductID,
		WarehouseID:      movement.WarehouseID,
		PreviousQuantity: movement.PreviousQuantity,
		NewQuantity:      movement.NewQuantity,
		MovementType:     string(movement.Type),
		OccurredAt:       movement.CreatedAt,
	}
	if err := s.publisher.PublishInventoryUpdated(ctx, event); err != nil {
		s.logger.Error("failed to publish inventory_updated event",
			zap.Int("productId", movement.ProductID),
			zap.Error(err),
		)
	}
}
