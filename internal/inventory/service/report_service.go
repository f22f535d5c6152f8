package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"stockledger/internal/domain"
	"stockledger/internal/dto"
)

type ReportRepository interface {
	TotalValue(ctx context.Context) (float64, error)
	ValuationByCategory(ctx context.Context) ([]dto.GroupValuation, error)
	ValuationByWarehouse(ctx context.Context) ([]dto.GroupValuation, error)
	Counts(ctx context.Context, expiryWindow time.Time) (dto.ReportCounts, error)
	TopItemsByValue(ctx context.Context, limit int) ([]dto.ItemValue, error)
	SlowMovers(ctx context.Context, cutoff time.Time, limit int) ([]dto.SlowMover, error)
}

type AlertLister interface {
	TopActiveBySeverity(ctx context.Context, limit int) ([]domain.StockAlert, error)
}

const reportTopN = 10

// ReportService assembles the read-only dashboard views. Sections are
// best-effort: a failed aggregate is logged and left zeroed rather than
// failing the whole report.
type ReportService struct {
	reportRepo        ReportRepository
	alertRepo         AlertLister
	slowMoverWindow   int
	expiryWarningDays int
	logger            *zap.Logger
}

func NewReportService(
	reportRepo ReportRepository,
	alertRepo AlertLister,
	slowMoverWindowDays int,
	expiryWarningDays int,
	logger *zap.Logger,
) *ReportService {
	return &ReportService{
		reportRepo:        reportRepo,
		alertRepo:         alertRepo,
		slowMoverWindow:   slowMoverWindowDays,
		expiryWarningDays: expiryWarningDays,
		logger:            logger,
	}
}

func (s *ReportService) Valuation(ctx context.Context) dto.Valuation {
	var valuation dto.Valuation

	total, err := s.reportRepo.TotalValue(ctx)
	if err != nil {
		s.logger.Error("failed to compute total inventory value", zap.Error(err))
	} else {
		valuation.TotalValue = total
	}

	if byCategory, err := s.reportRepo.ValuationByCategory(ctx); err != nil {
		s.logger.Error("failed to compute valuation by category", zap.Error(err))
	} else {
		valuation.ByCategory = byCategory
	}

	if byWarehouse, err := s.reportRepo.ValuationByWarehouse(ctx); err != nil {
		s.logger.Error("failed to compute valuation by warehouse", zap.Error(err))
	} else {
		valuation.ByWarehouse = byWarehouse
	}

	return valuation
}

func (s *ReportService) Report(ctx context.Context) dto.Report {
	now := time.Now()
	report := dto.Report{GeneratedAt: now}

	expiryWindow := now.AddDate(0, 0, s.expiryWarningDays)
	if counts, err := s.reportRepo.Counts(ctx, expiryWindow); err != nil {
		s.logger.Error("failed to compute report counts", zap.Error(err))
	} else {
		report.Counts = counts
	}

	report.Valuation = s.Valuation(ctx)

	if top, err := s.reportRepo.TopItemsByValue(ctx, reportTopN); err != nil {
		s.logger.Error("failed to compute top items by value", zap.Error(err))
	} else {
		report.TopByValue = top
	}

	cutoff := now.AddDate(0, 0, -s.slowMoverWindow)
	if movers, err := s.reportRepo.SlowMovers(ctx, cutoff, reportTopN); err != nil {
		s.logger.Error("failed to compute slow movers", zap.Error(err))
	} else {
		report.SlowMovers = movers
	}

	if alerts, err := s.alertRepo.TopActiveBySeverity(ctx, reportTopN); err != nil {
		s.logger.Error("failed to load top alerts", zap.Error(err))
	} else {
		report.TopAlerts = make([]dto.AlertSummary, 0, len(alerts))
		for _, alert := range alerts {
			report.TopAlerts = append(report.TopAlerts, dto.AlertSummary{
				ProductID:       alert.ProductID,
				WarehouseID:     alert.WarehouseID,
				Type:            string(alert.Type),
				Severity:        string(alert.Severity),
				CurrentQuantity: alert.CurrentQuantity,
				Threshold:       alert.Threshold,
				CreatedAt:       alert.CreatedAt,
			})
		}
	}

	return report
}
