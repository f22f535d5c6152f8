package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"stockledger/internal/dto"
)

// MySQLReportRepository holds the aggregate queries behind valuation and
// the operational report. All of them are plain consistent reads.
type MySQLReportRepository struct {
	db *sql.DB
}

func NewMySQLReportRepository(db *sql.DB) *MySQLReportRepository {
	return &MySQLReportRepository{db: db}
}

func (r *MySQLReportRepository) TotalValue(ctx context.Context) (float64, error) {
	query := `
		SELECT COALESCE(SUM(quantity * costPrice), 0)
		FROM InventoryItems
		WHERE quantity > 0
	`

	var total float64
	if err := r.db.QueryRowContext(ctx, query).Scan(&total); err != nil {
		return 0, fmt.Errorf("querying total inventory value: %w", err)
	}

	return total, nil
}

func (r *MySQLReportRepository) ValuationByCategory(ctx context.Context) ([]dto.GroupValuation, error) {
	query := `
		SELECT category, COUNT(*), SUM(quantity * costPrice), AVG(costPrice)
		FROM InventoryItems
		WHERE quantity > 0
		GROUP BY category
		ORDER BY SUM(quantity * costPrice) DESC
	`

	return r.queryGroups(ctx, query)
}

func (r *MySQLReportRepository) ValuationByWarehouse(ctx context.Context) ([]dto.GroupValuation, error) {
	query := `
		SELECT CAST(warehouseId AS CHAR), COUNT(*), SUM(quantity * costPrice), AVG(costPrice)
		FROM InventoryItems
		WHERE quantity > 0
		GROUP BY warehouseId
		ORDER BY SUM(quantity * costPrice) DESC
	`

	return r.queryGroups(ctx, query)
}

func (r *MySQLReportRepository) Counts(ctx context.Context, expiryWindow time.Time) (dto.ReportCounts, error) {
	query := `
		SELECT COUNT(*),
		       COALESCE(SUM(quantity > 0 AND quantity <= reorderLevel), 0),
		       COALESCE(SUM(quantity <= 0), 0),
		       COALESCE(SUM(maxStockLevel > 0 AND quantity > maxStockLevel), 0),
		       COALESCE(SUM(expirationDate IS NOT NULL AND expirationDate <= ?), 0)
		FROM InventoryItems
		WHERE status = 'ACTIVE'
	`

	var counts dto.ReportCounts
	err := r.db.QueryRowContext(ctx, query, expiryWindow).Scan(
		&counts.TotalItems, &counts.LowStock, &counts.OutOfStock,
		&counts.Overstock, &counts.ExpiringSoon,
	)
	if err != nil {
		return dto.ReportCounts{}, fmt.Errorf("querying report counts: %w", err)
	}

	return counts, nil
}

func (r *MySQLReportRepository) TopItemsByValue(ctx context.Context, limit int) ([]dto.ItemValue, error) {
	query := `
		SELECT productId, warehouseId, category, quantity, quantity * costPrice AS totalValue
		FROM InventoryItems
		WHERE quantity > 0
		ORDER BY totalValue DESC
		LIMIT ?
	`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("querying top items by value: %w", err)
	}
	defer rows.Close()

	var values []dto.ItemValue
	for rows.Next() {
		var v dto.ItemValue
		if err := rows.Scan(&v.ProductID, &v.WarehouseID, &v.Category, &v.Quantity, &v.TotalValue); err != nil {
			return nil, fmt.Errorf("scanning item value row: %w", err)
		}
		values = append(values, v)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating item value rows: %w", err)
	}

	return values, nil
}

// SlowMovers lists stocked items with no OUT movement since the cutoff,
// oldest stock update first.
func (r *MySQLReportRepository) SlowMovers(ctx context.Context, cutoff time.Time, limit int) ([]dto.SlowMover, error) {
	query := `
		SELECT i.productId, i.warehouseId, i.quantity, i.lastStockUpdate
		FROM InventoryItems i
		WHERE i.status = 'ACTIVE'
		  AND i.quantity > 0
		  AND NOT EXISTS (
			SELECT 1
			FROM StockMovements m
			WHERE m.productId = i.productId
			  AND m.warehouseId = i.warehouseId
			  AND m.movementType = 'OUT'
			  AND m.createdAt >= ?
		  )
		ORDER BY i.lastStockUpdate ASC
		LIMIT ?
	`

	rows, err := r.db.QueryContext(ctx, query, cutoff, limit)
	if err != nil {
		return nil, fmt.Errorf("querying slow movers: %w", err)
	}
	defer rows.Close()

	now := time.Now()
	var movers []dto.SlowMover
	for rows.Next() {
		var m dto.SlowMover
		if err := rows.Scan(&m.ProductID, &m.WarehouseID, &m.Quantity, &m.LastStockUpdate); err != nil {
			return nil, fmt.Errorf("scanning slow mover row: %w", err)
		}
		m.DaysSinceUpdate = int(now.Sub(m.LastStockUpdate).Hours() / 24)
		movers = append(movers, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating slow mover rows: %w", err)
	}

	return movers, nil
}

func (r *MySQLReportRepository) queryGroups(ctx context.Context, query string) ([]dto.GroupValuation, error) {
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying valuation groups: %w", err)
	}
	defer rows.Close()

	var groups []dto.GroupValuation
	for rows.Next() {
		var g dto.GroupValuation
		if err := rows.Scan(&g.Key, &g.ItemCount, &g.TotalValue, &g.AverageCostPrice); err != nil {
			return nil, fmt.Errorf("scanning valuation group row: %w", err)
		}
		groups = append(groups, g)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating valuation group rows: %w", err)
	}

	return groups, nil
}
