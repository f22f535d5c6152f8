package inventory

import (
	"database/sql"

	"go.uber.org/zap"

	"stockledger/internal/config"
	"stockledger/internal/events"
	"stockledger/internal/inventory/controller"
	"stockledger/internal/inventory/repository"
	"stockledger/internal/inventory/service"
	"stockledger/internal/inventory/usecase"
	"stockledger/internal/notifier"
)

func NewModule(
	db *sql.DB,
	cfg *config.Config,
	publisher events.Publisher,
	n notifier.Notifier,
	logger *zap.Logger,
) *controller.InventoryController {
	itemRepo := repository.NewMySQLItemRepository(db)
	movementRepo := repository.NewMySQLMovementRepository(db)
	reservationRepo := repository.NewMySQLReservationRepository(db)
	alertRepo := repository.NewMySQLAlertRepository(db)
	reportRepo := repository.NewMySQLReportRepository(db)

	alertSvc := service.NewAlertService(alertRepo, n, logger)

	ledgerSvc := service.NewLedgerService(
		db, itemRepo, movementRepo, alertSvc, publisher, logger,
		cfg.Inventory.TxTimeout,
	)

	reservationSvc := service.NewReservationService(
		db, itemRepo, reservationRepo, ledgerSvc, logger,
		cfg.Inventory.TxTimeout,
	)

	itemSvc := service.NewItemService(itemRepo, movementRepo, ledgerSvc, logger)
	forecastSvc := service.NewForecastService(itemRepo, movementRepo, cfg.Inventory.ForecastWindowDays, logger)
	reportSvc := service.NewReportService(reportRepo, alertRepo, cfg.Inventory.ForecastWindowDays, cfg.Inventory.ExpiryWarningDays, logger)

	recordMovementUC := usecase.NewRecordMovementUseCase(ledgerSvc, logger, cfg.Inventory.MaxRetryAttempts)
	reservationUC := usecase.NewReservationUseCase(reservationSvc, logger, cfg.Inventory.MaxRetryAttempts)

	return controller.NewInventoryController(
		recordMovementUC,
		reservationUC,
		itemSvc,
		forecastSvc,
		reportSvc,
		alertSvc,
		logger,
	)
}
