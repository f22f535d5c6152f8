package repository

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"

	"stockledger/internal/domain"
	"stockledger/internal/errors"
)

const alertColumns = `id, productId, warehouseId, alertType, currentQuantity, threshold,
	       severity, isActive, notificationsSent, createdAt, resolvedAt, updatedAt`

type MySQLAlertRepository struct {
	db *sql.DB
}

func NewMySQLAlertRepository(db *sql.DB) *MySQLAlertRepository {
	return &MySQLAlertRepository{db: db}
}

// FindActiveByItem returns the currently active alerts for one
// (productId, warehouseId) pair, at most one per type.
func (r *MySQLAlertRepository) FindActiveByItem(ctx context.Context, productID, warehouseID int) ([]domain.StockAlert, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM StockAlerts
		WHERE productId = ? AND warehouseId = ? AND isActive = 1
	`, alertColumns)

	rows, err := r.db.QueryContext(ctx, query, productID, warehouseID)
	if err != nil {
		return nil, fmt.Errorf("querying active alerts: %w", err)
	}
	defer rows.Close()

	return scanAlerts(rows)
}

// Insert activates an alert. The unique key over
// (productId, warehouseId, alertType, isActive) admits one active row per
// type; a concurrent activation loses with a ConflictError.
func (r *MySQLAlertRepository) Insert(ctx context.Context, alert domain.StockAlert) (int64, error) {
	query := `
		INSERT INTO StockAlerts
			(productId, warehouseId, alertType, currentQuantity, threshold, severity,
			 isActive, notificationsSent)
		VALUES (?, ?, ?, ?, ?, ?, 1, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		alert.ProductID, alert.WarehouseID, alert.Type, alert.CurrentQuantity,
		alert.Threshold, alert.Severity, alert.NotificationsSent,
	)
	if err != nil {
		var mysqlErr *mysql.MySQLError
		if stderrors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
			return 0, errors.NewConflictError(fmt.Sprintf(
				"alert %s for product %d in warehouse %d is already active",
				alert.Type, alert.ProductID, alert.WarehouseID))
		}
		return 0, fmt.Errorf("inserting stock alert: %w", err)
	}

	lastInsertID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting last insert id: %w", err)
	}

	return lastInsertID, nil
}

// Refresh updates the snapshot on an already-active alert row in place.
func (r *MySQLAlertRepository) Refresh(ctx context.Context, id int64, currentQuantity, threshold int, severity domain.AlertSeverity) error {
	query := `UPDATE StockAlerts SET currentQuantity = ?, threshold = ?, severity = ? WHERE id = ?`

	if _, err := r.db.ExecContext(ctx, query, currentQuantity, threshold, severity, id); err != nil {
		return fmt.Errorf("refreshing stock alert: %w", err)
	}
	return nil
}

// Resolve clears the row with NULL rather than 0 so resolved rows fall out
// of the unique active key and history can accumulate.
func (r *MySQLAlertRepository) Resolve(ctx context.Context, id int64, resolvedAt time.Time) error {
	query := `UPDATE StockAlerts SET isActive = NULL, resolvedAt = ? WHERE id = ?`

	if _, err := r.db.ExecContext(ctx, query, resolvedAt, id); err != nil {
		return fmt.Errorf("resolving stock alert: %w", err)
	}
	return nil
}

func (r *MySQLAlertRepository) ListActive(ctx context.Context) ([]domain.StockAlert, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM StockAlerts
		WHERE isActive = 1
		ORDER BY FIELD(severity, 'CRITICAL', 'HIGH', 'MEDIUM', 'LOW'), createdAt ASC
	`, alertColumns)

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying active alerts: %w", err)
	}
	defer rows.Close()

	return scanAlerts(rows)
}

// TopActiveBySeverity feeds the report's highest-severity alert list.
func (r *MySQLAlertRepository) TopActiveBySeverity(ctx context.Context, limit int) ([]domain.StockAlert, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM StockAlerts
		WHERE isActive = 1
		ORDER BY FIELD(severity, 'CRITICAL', 'HIGH', 'MEDIUM', 'LOW'), createdAt ASC
		LIMIT ?
	`, alertColumns)

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("querying top alerts: %w", err)
	}
	defer rows.Close()

	return scanAlerts(rows)
}

func scanAlerts(rows *sql.Rows) ([]domain.StockAlert, error) {
	var alerts []domain.StockAlert
	for rows.Next() {
		var alert domain.StockAlert
		err := rows.Scan(
			&alert.ID, &alert.ProductID, &alert.WarehouseID, &alert.Type,
			&alert.CurrentQuantity, &alert.Threshold, &alert.Severity,
			&alert.IsActive, &alert.NotificationsSent,
			&alert.CreatedAt, &alert.ResolvedAt, &alert.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning stock alert row: %w", err)
		}
		alerts = append(alerts, alert)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating stock alert rows: %w", err)
	}

	return alerts, nil
}
