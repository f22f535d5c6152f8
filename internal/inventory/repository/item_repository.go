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

const itemColumns = `id, productId, warehouseId, category, quantity, reservedQuantity,
	       reorderLevel, maxStockLevel, costPrice, expirationDate, batchNumber, location,
	       status, lastStockUpdate, createdAt, updatedAt`

type MySQLItemRepository struct {
	db *sql.DB
}

func NewMySQLItemRepository(db *sql.DB) *MySQLItemRepository {
	return &MySQLItemRepository{db: db}
}

func (r *MySQLItemRepository) Insert(ctx context.Context, item domain.InventoryItem) (int, error) {
	query := `
		INSERT INTO InventoryItems
			(productId, warehouseId, category, quantity, reservedQuantity, reorderLevel,
			 maxStockLevel, costPrice, expirationDate, batchNumber, location, status, lastStockUpdate)
		VALUES (?, ?, ?, ?, 0, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		item.ProductID, item.WarehouseID, item.Category, item.Quantity,
		item.ReorderLevel, item.MaxStockLevel, item.CostPrice,
		item.ExpirationDate, item.BatchNumber, item.Location,
		item.Status, item.LastStockUpdate,
	)
	if err != nil {
		var mysqlErr *mysql.MySQLError
		if stderrors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
			return 0, errors.NewConflictError(fmt.Sprintf(
				"inventory item for product %d in warehouse %d already exists",
				item.ProductID, item.WarehouseID))
		}
		return 0, fmt.Errorf("inserting inventory item: %w", err)
	}

	lastInsertID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting last insert id: %w", err)
	}

	return int(lastInsertID), nil
}

// Delete removes a provisioning row that never received stock. Stocked
// items are discontinued instead so their movement history survives.
func (r *MySQLItemRepository) Delete(ctx context.Context, id int) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM InventoryItems WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting inventory item: %w", err)
	}
	return nil
}

func (r *MySQLItemRepository) FindByProductAndWarehouse(ctx context.Context, productID, warehouseID int) (*domain.InventoryItem, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM InventoryItems
		WHERE productId = ? AND warehouseId = ?
	`, itemColumns)

	return r.scanOne(r.db.QueryRowContext(ctx, query, productID, warehouseID), productID, warehouseID)
}

// FindForUpdate locks the item row for the remainder of the transaction so
// concurrent check-then-act sequences serialize on it.
func (r *MySQLItemRepository) FindForUpdate(ctx context.Context, tx *sql.Tx, productID, warehouseID int) (*domain.InventoryItem, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM InventoryItems
		WHERE productId = ? AND warehouseId = ?
		FOR UPDATE
	`, itemColumns)

	return r.scanOne(tx.QueryRowContext(ctx, query, productID, warehouseID), productID, warehouseID)
}

func (r *MySQLItemRepository) UpdateQuantity(ctx context.Context, tx *sql.Tx, id, quantity int, at time.Time) error {
	query := `UPDATE InventoryItems SET quantity = ?, lastStockUpdate = ? WHERE id = ?`

	if _, err := tx.ExecContext(ctx, query, quantity, at, id); err != nil {
		return fmt.Errorf("updating item quantity: %w", err)
	}
	return nil
}

// AdjustReserved shifts reservedQuantity by delta without touching on-hand.
func (r *MySQLItemRepository) AdjustReserved(ctx context.Context, tx *sql.Tx, id, delta int) error {
	query := `UPDATE InventoryItems SET reservedQuantity = reservedQuantity + ? WHERE id = ?`

	if _, err := tx.ExecContext(ctx, query, delta, id); err != nil {
		return fmt.Errorf("adjusting reserved quantity: %w", err)
	}
	return nil
}

func (r *MySQLItemRepository) UpdateStatus(ctx context.Context, productID, warehouseID int, status domain.ItemStatus) error {
	query := `UPDATE InventoryItems SET status = ? WHERE productId = ? AND warehouseId = ?`

	result, err := r.db.ExecContext(ctx, query, status, productID, warehouseID)
	if err != nil {
		return fmt.Errorf("updating item status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return errors.NewNotFoundError(fmt.Sprintf(
			"inventory item for product %d in warehouse %d not found", productID, warehouseID))
	}

	return nil
}

func (r *MySQLItemRepository) ListLowStock(ctx context.Context) ([]domain.InventoryItem, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM InventoryItems
		WHERE status = 'ACTIVE' AND quantity > 0 AND quantity <= reorderLevel
		ORDER BY quantity ASC
	`, itemColumns)

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying low stock items: %w", err)
	}
	defer rows.Close()

	return scanItems(rows)
}

func (r *MySQLItemRepository) scanOne(row *sql.Row, productID, warehouseID int) (*domain.InventoryItem, error) {
	var item domain.InventoryItem
	err := row.Scan(
		&item.ID, &item.ProductID, &item.WarehouseID, &item.Category,
		&item.Quantity, &item.ReservedQuantity, &item.ReorderLevel, &item.MaxStockLevel,
		&item.CostPrice, &item.ExpirationDate, &item.BatchNumber, &item.Location,
		&item.Status, &item.LastStockUpdate, &item.CreatedAt, &item.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf(
			"inventory item for product %d in warehouse %d not found", productID, warehouseID))
	}
	if err != nil {
		return nil, fmt.Errorf("querying inventory item: %w", err)
	}

	return &item, nil
}

func scanItems(rows *sql.Rows) ([]domain.InventoryItem, error) {
	var items []domain.InventoryItem
	for rows.Next() {
		var item domain.InventoryItem
		err := rows.Scan(
			&item.ID, &item.ProductID, &item.WarehouseID, &item.Category,
			&item.Quantity, &item.ReservedQuantity, &item.ReorderLevel, &item.MaxStockLevel,
			&item.CostPrice, &item.ExpirationDate, &item.BatchNumber, &item.Location,
			&item.Status, &item.LastStockUpdate, &item.CreatedAt, &item.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning inventory item row: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating inventory item rows: %w", err)
	}

	return items, nil
}
