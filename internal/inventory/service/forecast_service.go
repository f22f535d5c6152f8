package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"stockledger/internal/domain"
	"stockledger/internal/errors"
)

type ForecastItemRepository interface {
	FindByProductAndWarehouse(ctx context.Context, productID, warehouseID int) (*domain.InventoryItem, error)
}

type MovementAggregator interface {
	OutgoingTotals(ctx context.Context, productID, warehouseID int, since time.Time) (total int, count int, err error)
}

// ForecastService projects stockout dates from trailing consumption. Its
// output is advisory; aggregate failures degrade to a zero-usage forecast
// instead of erroring.
type ForecastService struct {
	itemRepo     ForecastItemRepository
	movementRepo MovementAggregator
	windowDays   int
	logger       *zap.Logger
}

func NewForecastService(
	itemRepo ForecastItemRepository,
	movementRepo MovementAggregator,
	windowDays int,
	logger *zap.Logger,
) *ForecastService {
	return &ForecastService{
		itemRepo:     itemRepo,
		movementRepo: movementRepo,
		windowDays:   windowDays,
		logger:       logger,
	}
}

// Forecast returns nil when no inventory item exists for the pair.
func (s *ForecastService) Forecast(ctx context.Context, productID, warehouseID int) (*domain.Forecast, error) {
	item, err := s.itemRepo.FindByProductAndWarehouse(ctx, productID, warehouseID)
	if err != nil {
		if _, ok := errors.IsNotFoundError(err); ok {
			return nil, nil
		}
		return nil, err
	}

	now := time.Now()
	since := now.AddDate(0, 0, -s.windowDays)

	total, count, err := s.movementRepo.OutgoingTotals(ctx, productID, warehouseID, since)
	if err != nil {
		s.logger.Error("failed to aggregate outgoing movements, forecasting without usage data",
			zap.Int("productId", productID),
			zap.Int("warehouseId", warehouseID),
			zap.Error(err),
		)
		total, count = 0, 0
	}

	forecast := domain.ComputeForecast(*item, total, count, s.windowDays, now)
	return &forecast, nil
}
