package testutil

import (
	"database/sql"
	"fmt"
	"testing"

	_ "github.com/go-sql-driver/mysql"
)

// SetupTestDB opens the integration test database. Expects a MySQL
// instance at localhost:3306 with a 'stockledger_test' schema; tests skip
// when it is not reachable.
func SetupTestDB(t *testing.T) *sql.DB {
	dsn := "root:@tcp(localhost:3306)/stockledger_test?parseTime=true"
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	err = db.Ping()
	if err != nil {
		t.Skipf("test database not available: %v", err)
	}

	return db
}

// CleanupTestDB empties every table and closes the pool.
func CleanupTestDB(t *testing.T, db *sql.DB) {
	if db == nil {
		return
	}

	tables := []string{"StockAlerts", "InventoryReservations", "StockMovements", "InventoryItems"}
	for _, table := range tables {
		_, err := db.Exec(fmt.Sprintf("DELETE FROM %s", table))
		if err != nil {
			t.Logf("failed to clean table %s: %v", table, err)
		}
	}

	db.Close()
}

// SetupTestTables creates the inventory schema used by the tests.
func SetupTestTables(t *testing.T, db *sql.DB) {
	createInventoryItemsTable := `
	CREATE TABLE IF NOT EXISTS InventoryItems (
		id INT NOT NULL AUTO_INCREMENT PRIMARY KEY,
		productId INT NOT NULL,
		warehouseId INT NOT NULL,
		category VARCHAR(100) NOT NULL DEFAULT '',
		quantity INT NOT NULL DEFAULT 0,
		reservedQuantity INT NOT NULL DEFAULT 0,
		reorderLevel INT NOT NULL DEFAULT 0,
		maxStockLevel INT NOT NULL DEFAULT 0,
		costPrice DECIMAL(10,2) NOT NULL DEFAULT 0.00,
		expirationDate DATETIME NULL,
		batchNumber VARCHAR(100) NULL,
		location VARCHAR(100) NULL,
		status VARCHAR(20) NOT NULL DEFAULT 'ACTIVE',
		lastStockUpdate DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		createdAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updatedAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		UNIQUE KEY uq_product_warehouse (productId, warehouseId),
		INDEX idx_status (status)
	)`

	createStockMovementsTable := `
	CREATE TABLE IF NOT EXISTS StockMovements (
		id BIGINT NOT NULL AUTO_INCREMENT PRIMARY KEY,
		productId INT NOT NULL,
		warehouseId INT NOT NULL,
		movementType VARCHAR(20) NOT NULL,
		quantity INT NOT NULL,
		previousQuantity INT NOT NULL,
		newQuantity INT NOT NULL,
		reason VARCHAR(255) NULL,
		reference VARCHAR(100) NULL,
		orderId VARCHAR(100) NULL,
		unitCost DECIMAL(10,2) NULL,
		notes TEXT NULL,
		createdBy VARCHAR(100) NOT NULL,
		createdAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		INDEX idx_item (productId, warehouseId),
		INDEX idx_item_type_time (productId, warehouseId, movementType, createdAt)
	)`

	createInventoryReservationsTable := `
	CREATE TABLE IF NOT EXISTS InventoryReservations (
		id BIGINT NOT NULL AUTO_INCREMENT PRIMARY KEY,
		orderId VARCHAR(100) NOT NULL,
		productId INT NOT NULL,
		warehouseId INT NOT NULL,
		quantity INT NOT NULL,
		status VARCHAR(20) NOT NULL DEFAULT 'ACTIVE',
		createdAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updatedAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		INDEX idx_order_status (orderId, status),
		INDEX idx_item (productId, warehouseId)
	)`

	createStockAlertsTable := `
	CREATE TABLE IF NOT EXISTS StockAlerts (
		id BIGINT NOT NULL AUTO_INCREMENT PRIMARY KEY,
		productId INT NOT NULL,
		warehouseId INT NOT NULL,
		alertType VARCHAR(30) NOT NULL,
		currentQuantity INT NOT NULL,
		threshold INT NOT NULL,
		severity VARCHAR(20) NOT NULL,
		isActive TINYINT(1) NULL DEFAULT 1,
		notificationsSent INT NOT NULL DEFAULT 0,
		createdAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		resolvedAt DATETIME NULL,
		updatedAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		UNIQUE KEY uq_item_type_active (productId, warehouseId, alertType, isActive),
		INDEX idx_active (isActive)
	)`

	tables := []struct {
		name  string
		query string
	}{
		{"InventoryItems", createInventoryItemsTable},
		{"StockMovements", createStockMovementsTable},
		{"InventoryReservations", createInventoryReservationsTable},
		{"StockAlerts", createStockAlertsTable},
	}

	for _, tbl := range tables {
		_, err := db.Exec(tbl.query)
		if err != nil {
			t.Logf("failed to create table %s: %v", tbl.name, err)
		}
	}
}
