package repository

import (
	"context"
	"database/sql"
	"fmt"

	"stockledger/internal/domain"
)

type MySQLReservationRepository struct {
	db *sql.DB
}

func NewMySQLReservationRepository(db *sql.DB) *MySQLReservationRepository {
	return &MySQLReservationRepository{db: db}
}

func (r *MySQLReservationRepository) Insert(ctx context.Context, tx *sql.Tx, reservation domain.InventoryReservation) (int64, error) {
	query := `
		INSERT INTO InventoryReservations (orderId, productId, warehouseId, quantity, status)
		VALUES (?, ?, ?, ?, ?)
	`

	result, err := tx.ExecContext(ctx, query,
		reservation.OrderID, reservation.ProductID, reservation.WarehouseID,
		reservation.Quantity, reservation.Status,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting reservation: %w", err)
	}

	lastInsertID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting last insert id: %w", err)
	}

	return lastInsertID, nil
}

// FindActiveByOrderForUpdate locks the order's ACTIVE holds. A released
// order has none, which is what makes release idempotent.
func (r *MySQLReservationRepository) FindActiveByOrderForUpdate(ctx context.Context, tx *sql.Tx, orderID string) ([]domain.InventoryReservation, error) {
	query := `
		SELECT id, orderId, productId, warehouseId, quantity, status, createdAt, updatedAt
		FROM InventoryReservations
		WHERE orderId = ? AND status = 'ACTIVE'
		ORDER BY productId ASC, warehouseId ASC
		FOR UPDATE
	`

	rows, err := tx.QueryContext(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("querying active reservations: %w", err)
	}
	defer rows.Close()

	var reservations []domain.InventoryReservation
	for rows.Next() {
		var res domain.InventoryReservation
		err := rows.Scan(
			&res.ID, &res.OrderID, &res.ProductID, &res.WarehouseID,
			&res.Quantity, &res.Status, &res.CreatedAt, &res.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning reservation row: %w", err)
		}
		reservations = append(reservations, res)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating reservation rows: %w", err)
	}

	return reservations, nil
}

func (r *MySQLReservationRepository) UpdateStatus(ctx context.Context, tx *sql.Tx, id int64, status domain.ReservationStatus) error {
	query := `UPDATE InventoryReservations SET status = ? WHERE id = ?`

	if _, err := tx.ExecContext(ctx, query, status, id); err != nil {
		return fmt.Errorf("updating reservation status: %w", err)
	}
	return nil
}
