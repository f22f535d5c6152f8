package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"stockledger/internal/domain"
	"stockledger/internal/errors"
	"stockledger/internal/notifier"
)

type AlertRepository interface {
	FindActiveByItem(ctx context.Context, productID, warehouseID int) ([]domain.StockAlert, error)
	Insert(ctx context.Context, alert domain.StockAlert) (int64, error)
	Refresh(ctx context.Context, id int64, currentQuantity, threshold int, severity domain.AlertSeverity) error
	Resolve(ctx context.Context, id int64, resolvedAt time.Time) error
	ListActive(ctx context.Context) ([]domain.StockAlert, error)
}

// AlertService maintains at most one active alert row per
// (productId, warehouseId, type). It runs after movements commit and is
// strictly best-effort: its errors are logged by the caller, never
// propagated into the ledger write.
type AlertService struct {
	repo     AlertRepository
	notifier notifier.Notifier
	logger   *zap.Logger
}

func NewAlertService(repo AlertRepository, n notifier.Notifier, logger *zap.Logger) *AlertService {
	return &AlertService{
		repo:     repo,
		notifier: n,
		logger:   logger,
	}
}

// Evaluate transitions each alert type for the item: conditions that hold
// activate or refresh their row, conditions that no longer hold resolve it.
func (s *AlertService) Evaluate(ctx context.Context, item domain.InventoryItem) error {
	now := time.Now()
	conditions := domain.EvaluateAlertConditions(item, now)

	active, err := s.repo.FindActiveByItem(ctx, item.ProductID, item.WarehouseID)
	if err != nil {
		return err
	}

	activeByType := make(map[domain.AlertType]domain.StockAlert, len(active))
	for _, alert := range active {
		activeByType[alert.Type] = alert
	}

	triggered := make(map[domain.AlertType]bool, len(conditions))
	for _, cond := range conditions {
		triggered[cond.Type] = true

		if existing, ok := activeByType[cond.Type]; ok {
			// Already active: update the snapshot in place, no new
			// notification.
			if err := s.repo.Refresh(ctx, existing.ID, item.Quantity, cond.Threshold, cond.Severity); err != nil {
				return err
			}
			continue
		}

		alert := domain.StockAlert{
			ProductID:         item.ProductID,
			WarehouseID:       item.WarehouseID,
			Type:              cond.Type,
			CurrentQuantity:   item.Quantity,
			Threshold:         cond.Threshold,
			Severity:          cond.Severity,
			IsActive:          true,
			NotificationsSent: 1,
		}
		if _, err := s.repo.Insert(ctx, alert); err != nil {
			if _, ok := errors.IsConflictError(err); ok {
				// A concurrent evaluation activated this type between our
				// find and insert; that writer already notified, we only
				// refresh its row.
				if err := s.refreshExisting(ctx, item, cond); err != nil {
					return err
				}
				continue
			}
			return err
		}

		s.logger.Warn("stock alert activated",
			zap.String("alertType", string(cond.Type)),
			zap.String("severity", string(cond.Severity)),
			zap.Int("productId", item.ProductID),
			zap.Int("warehouseId", item.WarehouseID),
			zap.Int("currentQuantity", item.Quantity),
		)

		s.notifier.Notify(ctx, notifier.Notification{
			AlertType:       cond.Type,
			Severity:        cond.Severity,
			ProductID:       item.ProductID,
			WarehouseID:     item.WarehouseID,
			CurrentQuantity: item.Quantity,
			Threshold:       cond.Threshold,
		})
	}

	// Resolution sweep: anything active whose condition went away.
	for _, alert := range active {
		if triggered[alert.Type] {
			continue
		}
		if err := s.repo.Resolve(ctx, alert.ID, now); err != nil {
			return err
		}
		s.logger.Info("stock alert resolved",
			zap.String("alertType", string(alert.Type)),
			zap.Int("productId", item.ProductID),
			zap.Int("warehouseId", item.WarehouseID),
		)
	}

	return nil
}

func (s *AlertService) refreshExisting(ctx context.Context, item domain.InventoryItem, cond domain.AlertCondition) error {
	active, err := s.repo.FindActiveByItem(ctx, item.ProductID, item.WarehouseID)
	if err != nil {
		return err
	}

	for _, existing := range active {
		if existing.Type != cond.Type {
			continue
		}
		return s.repo.Refresh(ctx, existing.ID, item.Quantity, cond.Threshold, cond.Severity)
	}

	return nil
}

func (s *AlertService) ListActive(ctx context.Context) ([]domain.StockAlert, error) {
	return s.repo.ListActive(ctx)
}
