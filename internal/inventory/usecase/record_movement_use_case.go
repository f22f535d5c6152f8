package usecase

import (
	"context"

	"go.uber.org/zap"

	"stockledger/internal/domain"
	"stockledger/internal/errors"
	"stockledger/internal/inventory/service"
)

type MovementLedger interface {
	RecordMovement(ctx context.Context, params service.MovementParams) (*domain.StockMovement, error)
}

// RecordMovementUseCase validates ledger writes and retries them through
// transient lock conflicts.
type RecordMovementUseCase struct {
	ledger           MovementLedger
	logger           *zap.Logger
	maxRetryAttempts int
}

func NewRecordMovementUseCase(ledger MovementLedger, logger *zap.Logger, maxRetryAttempts int) *RecordMovementUseCase {
	return &RecordMovementUseCase{
		ledger:           ledger,
		logger:           logger,
		maxRetryAttempts: maxRetryAttempts,
	}
}

func (uc *RecordMovementUseCase) RecordMovement(ctx context.Context, params service.MovementParams) (*domain.StockMovement, error) {
	if err := uc.validate(params); err != nil {
		return nil, err
	}

	uc.logger.Info("record movement started",
		zap.Int("productId", params.ProductID),
		zap.Int("warehouseId", params.WarehouseID),
		zap.String("type", string(params.Type)),
		zap.Int("quantity", params.Quantity),
	)

	var movement *domain.StockMovement
	err := withDeadlockRetry(ctx, uc.logger, uc.maxRetryAttempts, func() error {
		var err error
		movement, err = uc.ledger.RecordMovement(ctx, params)
		return err
	})
	if err != nil {
		return nil, err
	}

	return movement, nil
}

func (uc *RecordMovementUseCase) validate(params service.MovementParams) error {
	var details []errors.ValidationDetail

	if params.ProductID <= 0 {
		details = append(details, errors.ValidationDetail{
			Field:   "productId",
			Message: "productId must be a positive integer",
		})
	}

	if params.WarehouseID <= 0 {
		details = append(details, errors.ValidationDetail{
			Field:   "warehouseId",
			Message: "warehouseId must be a positive integer",
		})
	}

	if params.CreatedBy == "" {
		details = append(details, errors.ValidationDetail{
			Field:   "createdBy",
			Message: "createdBy is required",
		})
	}

	// ADJUSTMENT sets an absolute count and may legitimately be zero;
	// every other type needs a non-zero quantity to mean anything.
	if params.Quantity == 0 && params.Type != domain.MovementAdjustment {
		details = append(details, errors.ValidationDetail{
			Field:   "quantity",
			Message: "quantity must not be zero",
		})
	}

	if params.Type == domain.MovementAdjustment && params.Quantity < 0 {
		details = append(details, errors.ValidationDetail{
			Field:   "quantity",
			Message: "adjustment quantity must not be negative",
		})
	}

	if len(details) > 0 {
		return errors.NewValidationError("validation failed", details...)
	}

	return nil
}
