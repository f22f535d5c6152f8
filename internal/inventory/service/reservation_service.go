package service

import (
	"context"
	"database/sql"
	"time"

	"go.uber.org/zap"

	"stockledger/internal/domain"
	"stockledger/internal/dto"
	"stockledger/internal/errors"
)

type ReservationItemRepository interface {
	FindForUpdate(ctx context.Context, tx *sql.Tx, productID, warehouseID int) (*domain.InventoryItem, error)
	AdjustReserved(ctx context.Context, tx *sql.Tx, id, delta int) error
}

type ReservationRepository interface {
	Insert(ctx context.Context, tx *sql.Tx, reservation domain.InventoryReservation) (int64, error)
	FindActiveByOrderForUpdate(ctx context.Context, tx *sql.Tx, orderID string) ([]domain.InventoryReservation, error)
	UpdateStatus(ctx context.Context, tx *sql.Tx, id int64, status domain.ReservationStatus) error
}

// MovementLedger is the slice of the ledger the reservation service needs
// to fulfill holds inside its own transaction.
type MovementLedger interface {
	RecordMovementTx(ctx context.Context, tx *sql.Tx, params MovementParams) (*domain.StockMovement, *domain.InventoryItem, error)
	AfterCommit(ctx context.Context, item domain.InventoryItem, movement domain.StockMovement)
}

// ReservationService places and releases order-linked holds against
// available stock. A batch either reserves every line item or none.
type ReservationService struct {
	db              TransactionManager
	itemRepo        ReservationItemRepository
	reservationRepo ReservationRepository
	ledger          MovementLedger
	logger          *zap.Logger
	txTimeout       time.Duration
}

func NewReservationService(
	db TransactionManager,
	itemRepo ReservationItemRepository,
	reservationRepo ReservationRepository,
	ledger MovementLedger,
	logger *zap.Logger,
	txTimeout time.Duration,
) *ReservationService {
	return &ReservationService{
		db:              db,
		itemRepo:        itemRepo,
		reservationRepo: reservationRepo,
		ledger:          ledger,
		logger:          logger,
		txTimeout:       txTimeout,
	}
}

// Reserve expects items already sorted by (productId, warehouseId); the
// use case layer orders them so concurrent batches lock rows in the same
// sequence.
func (s *ReservationService) Reserve(ctx context.Context, orderID string, items []dto.ReservationItem) error {
	txCtx, cancel := context.WithTimeout(ctx, s.txTimeout)
	defer cancel()

	tx, err := s.db.BeginTx(txCtx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead})
	if err != nil {
		s.logger.Error("failed to begin transaction", zap.Error(err))
		return err
	}
	defer tx.Rollback()

	for _, requested := range items {
		item, err := s.itemRepo.FindForUpdate(txCtx, tx, requested.ProductID, requested.WarehouseID)
		if err != nil {
			return err
		}

		available := item.AvailableQuantity()
		if available < requested.Quantity {
			s.logger.Warn("reservation rejected",
				zap.String("orderId", orderID),
				zap.Int("productId", requested.ProductID),
				zap.Int("warehouseId", requested.WarehouseID),
				zap.Int("available", available),
				zap.Int("requested", requested.Quantity),
			)
			return errors.NewInsufficientInventoryError(
				requested.ProductID, requested.WarehouseID, available, requested.Quantity)
		}

		if err := s.itemRepo.AdjustReserved(txCtx, tx, item.ID, requested.Quantity); err != nil {
			return err
		}

		_, err = s.reservationRepo.Insert(txCtx, tx, domain.InventoryReservation{
			OrderID:     orderID,
			ProductID:   requested.ProductID,
			WarehouseID: requested.WarehouseID,
			Quantity:    requested.Quantity,
			Status:      domain.ReservationActive,
		})
		if err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("failed to commit reservation transaction",
			zap.String("orderId", orderID), zap.Error(err))
		return err
	}

	s.logger.Info("reservation placed",
		zap.String("orderId", orderID),
		zap.Int("itemCount", len(items)),
	)

	return nil
}

// Release closes every ACTIVE hold for the order. With fulfill it ships
// the held stock (OUT movement plus reserved decrement); without it the
// hold simply returns to available. Terminal reservations never match, so
// releasing twice is a no-op.
func (s *ReservationService) Release(ctx context.Context, orderID string, fulfill bool, actor string) (*dto.ReleaseResult, error) {
	txCtx, cancel := context.WithTimeout(ctx, s.txTimeout)
	defer cancel()

	tx, err := s.db.BeginTx(txCtx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead})
	if err != nil {
		s.logger.Error("failed to begin transaction", zap.Error(err))
		return nil, err
	}
	defer tx.Rollback()

	reservations, err := s.reservationRepo.FindActiveByOrderForUpdate(txCtx, tx, orderID)
	if err != nil {
		return nil, err
	}

	if len(reservations) == 0 {
		s.logger.Info("release found no active reservations", zap.String("orderId", orderID))
		return &dto.ReleaseResult{OrderID: orderID, Released: 0, Fulfilled: fulfill}, nil
	}

	type committed struct {
		item     domain.InventoryItem
		movement domain.StockMovement
	}
	var observed []committed

	for _, reservation := range reservations {
		targetStatus := domain.ReservationCancelled

		if fulfill {
			reason := "Order fulfillment"
			movement, item, err := s.ledger.RecordMovementTx(txCtx, tx, MovementParams{
				ProductID:   reservation.ProductID,
				WarehouseID: reservation.WarehouseID,
				Quantity:    reservation.Quantity,
				Type:        domain.MovementOut,
				CreatedBy:   actor,
				Reason:      &reason,
				Reference:   &reservation.OrderID,
				OrderID:     &reservation.OrderID,
			})
			if err != nil {
				return nil, err
			}

			if err := s.itemRepo.AdjustReserved(txCtx, tx, item.ID, -reservation.Quantity); err != nil {
				return nil, err
			}
			item.ReservedQuantity -= reservation.Quantity

			observed = append(observed, committed{item: *item, movement: *movement})
			targetStatus = domain.ReservationFulfilled
		} else {
			item, err := s.itemRepo.FindForUpdate(txCtx, tx, reservation.ProductID, reservation.WarehouseID)
			if err != nil {
				return nil, err
			}

			if err := s.itemRepo.AdjustReserved(txCtx, tx, item.ID, -reservation.Quantity); err != nil {
				return nil, err
			}
		}

		if err := s.reservationRepo.UpdateStatus(txCtx, tx, reservation.ID, targetStatus); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("failed to commit release transaction",
			zap.String("orderId", orderID), zap.Error(err))
		return nil, err
	}

	for _, c := range observed {
		s.ledger.AfterCommit(ctx, c.item, c.movement)
	}

	s.logger.Info("reservations released",
		zap.String("orderId", orderID),
		zap.Bool("fulfill", fulfill),
		zap.Int("count", len(reservations)),
	)

	return &dto.ReleaseResult{OrderID: orderID, Released: len(reservations), Fulfilled: fulfill}, nil
}
