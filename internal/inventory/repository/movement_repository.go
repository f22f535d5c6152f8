package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"stockledger/internal/domain"
)

type MySQLMovementRepository struct {
	db *sql.DB
}

func NewMySQLMovementRepository(db *sql.DB) *MySQLMovementRepository {
	return &MySQLMovementRepository{db: db}
}

// Insert appends one ledger entry. Movements are never updated or deleted.
func (r *MySQLMovementRepository) Insert(ctx context.Context, tx *sql.Tx, m domain.StockMovement) (int64, error) {
	query := `
		INSERT INTO StockMovements
			(productId, warehouseId, movementType, quantity, previousQuantity, newQuantity,
			 reason, reference, orderId, unitCost, notes, createdBy, createdAt)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := tx.ExecContext(ctx, query,
		m.ProductID, m.WarehouseID, m.Type, m.Quantity, m.PreviousQuantity, m.NewQuantity,
		m.Reason, m.Reference, m.OrderID, m.UnitCost, m.Notes, m.CreatedBy, m.CreatedAt,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting stock movement: %w", err)
	}

	lastInsertID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting last insert id: %w", err)
	}

	return lastInsertID, nil
}

func (r *MySQLMovementRepository) ListByItem(ctx context.Context, productID, warehouseID, limit int) ([]domain.StockMovement, error) {
	query := `
		SELECT id, productId, warehouseId, movementType, quantity, previousQuantity, newQuantity,
		       reason, reference, orderId, unitCost, notes, createdBy, createdAt
		FROM StockMovements
		WHERE productId = ? AND warehouseId = ?
		ORDER BY createdAt DESC, id DESC
		LIMIT ?
	`

	rows, err := r.db.QueryContext(ctx, query, productID, warehouseID, limit)
	if err != nil {
		return nil, fmt.Errorf("querying stock movements: %w", err)
	}
	defer rows.Close()

	var movements []domain.StockMovement
	for rows.Next() {
		var m domain.StockMovement
		err := rows.Scan(
			&m.ID, &m.ProductID, &m.WarehouseID, &m.Type, &m.Quantity,
			&m.PreviousQuantity, &m.NewQuantity, &m.Reason, &m.Reference,
			&m.OrderID, &m.UnitCost, &m.Notes, &m.CreatedBy, &m.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning stock movement row: %w", err)
		}
		movements = append(movements, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating stock movement rows: %w", err)
	}

	return movements, nil
}

// OutgoingTotals sums OUT movement quantities since the given time; it
// feeds the trailing-usage forecast.
func (r *MySQLMovementRepository) OutgoingTotals(ctx context.Context, productID, warehouseID int, since time.Time) (total int, count int, err error) {
	query := `
		SELECT COALESCE(SUM(quantity), 0), COUNT(*)
		FROM StockMovements
		WHERE productId = ? AND warehouseId = ? AND movementType = 'OUT' AND createdAt >= ?
	`

	err = r.db.QueryRowContext(ctx, query, productID, warehouseID, since).Scan(&total, &count)
	if err != nil {
		return 0, 0, fmt.Errorf("querying outgoing totals: %w", err)
	}

	return total, count, nil
}
