package usecase

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"stockledger/internal/dto"
	"stockledger/internal/errors"
)

type StockReservationService interface {
	Reserve(ctx context.Context, orderID string, items []dto.ReservationItem) error
	Release(ctx context.Context, orderID string, fulfill bool, actor string) (*dto.ReleaseResult, error)
}

const maxReservationItems = 100

// ReservationUseCase validates reservation batches, orders their line
// items for deterministic lock acquisition, and retries lock conflicts.
type ReservationUseCase struct {
	reservationSvc   StockReservationService
	logger           *zap.Logger
	maxRetryAttempts int
}

func NewReservationUseCase(reservationSvc StockReservationService, logger *zap.Logger, maxRetryAttempts int) *ReservationUseCase {
	return &ReservationUseCase{
		reservationSvc:   reservationSvc,
		logger:           logger,
		maxRetryAttempts: maxRetryAttempts,
	}
}

func (uc *ReservationUseCase) Reserve(ctx context.Context, orderID string, items []dto.ReservationItem) error {
	if err := uc.validateReserve(orderID, items); err != nil {
		return err
	}

	uc.logger.Info("reserve started",
		zap.String("orderId", orderID),
		zap.Int("itemCount", len(items)),
	)

	// Lock rows in a fixed order so two overlapping batches cannot
	// deadlock on each other. Sorted copy; the caller keeps its order.
	sorted := make([]dto.ReservationItem, len(items))
	copy(sorted, items)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].ProductID != sorted[j].ProductID {
			return sorted[i].ProductID < sorted[j].ProductID
		}
		return sorted[i].WarehouseID < sorted[j].WarehouseID
	})

	return withDeadlockRetry(ctx, uc.logger, uc.maxRetryAttempts, func() error {
		return uc.reservationSvc.Reserve(ctx, orderID, sorted)
	})
}

func (uc *ReservationUseCase) Release(ctx context.Context, orderID string, fulfill bool, actor string) (*dto.ReleaseResult, error) {
	if orderID == "" {
		return nil, errors.NewValidationError("validation failed", errors.ValidationDetail{
			Field:   "orderId",
			Message: "orderId is required",
		})
	}
	if actor == "" {
		actor = "order-service"
	}

	uc.logger.Info("release started",
		zap.String("orderId", orderID),
		zap.Bool("fulfill", fulfill),
	)

	var result *dto.ReleaseResult
	err := withDeadlockRetry(ctx, uc.logger, uc.maxRetryAttempts, func() error {
		var err error
		result, err = uc.reservationSvc.Release(ctx, orderID, fulfill, actor)
		return err
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (uc *ReservationUseCase) validateReserve(orderID string, items []dto.ReservationItem) error {
	var details []errors.ValidationDetail

	if orderID == "" {
		details = append(details, errors.ValidationDetail{
			Field:   "orderId",
			Message: "orderId is required",
		})
	}

	if len(items) == 0 {
		details = append(details, errors.ValidationDetail{
			Field:   "items",
			Message: "items must not be empty",
		})
	}

	if len(items) > maxReservationItems {
		details = append(details, errors.ValidationDetail{
			Field:   "items",
			Message: fmt.Sprintf("items exceeds maximum of %d", maxReservationItems),
		})
	}

	type itemKey struct{ productID, warehouseID int }
	seen := make(map[itemKey]bool)

	for idx, item := range items {
		if item.ProductID <= 0 {
			details = append(details, errors.ValidationDetail{
				Field:   fmt.Sprintf("items[%d].productId", idx),
				Message: "each productId must be a positive integer",
			})
		}

		if item.WarehouseID <= 0 {
			details = append(details, errors.ValidationDetail{
				Field:   fmt.Sprintf("items[%d].warehouseId", idx),
				Message: "each warehouseId must be a positive integer",
			})
		}

		key := itemKey{item.ProductID, item.WarehouseID}
		if seen[key] {
			details = append(details, errors.ValidationDetail{
				Field:   fmt.Sprintf("items[%d]", idx),
				Message: "item must not be duplicated within a batch",
			})
		}
		seen[key] = true

		if item.Quantity < 1 {
			details = append(details, errors.ValidationDetail{
				Field:   fmt.Sprintf("items[%d].quantity", idx),
				Message: "quantity must be at least 1",
			})
		}
	}

	if len(details) > 0 {
		return errors.NewValidationError("validation failed", details...)
	}

	return nil
}
