package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"stockledger/internal/domain"
	"stockledger/internal/dto"
)

type ItemRepository interface {
	Insert(ctx context.Context, item domain.InventoryItem) (int, error)
	Delete(ctx context.Context, id int) error
	FindByProductAndWarehouse(ctx context.Context, productID, warehouseID int) (*domain.InventoryItem, error)
	UpdateStatus(ctx context.Context, productID, warehouseID int, status domain.ItemStatus) error
	ListLowStock(ctx context.Context) ([]domain.InventoryItem, error)
}

type MovementLister interface {
	ListByItem(ctx context.Context, productID, warehouseID, limit int) ([]domain.StockMovement, error)
}

type MovementRecorder interface {
	RecordMovement(ctx context.Context, params MovementParams) (*domain.StockMovement, error)
}

// ItemService provisions inventory items. Initial stock arrives through
// the ledger as an IN movement so the audit trail starts at quantity zero.
type ItemService struct {
	itemRepo     ItemRepository
	movementRepo MovementLister
	ledger       MovementRecorder
	logger       *zap.Logger
}

func NewItemService(
	itemRepo ItemRepository,
	movementRepo MovementLister,
	ledger MovementRecorder,
	logger *zap.Logger,
) *ItemService {
	return &ItemService{
		itemRepo:     itemRepo,
		movementRepo: movementRepo,
		ledger:       ledger,
		logger:       logger,
	}
}

func (s *ItemService) CreateItem(ctx context.Context, req dto.CreateItemRequest) (*domain.InventoryItem, error) {
	item := domain.InventoryItem{
		ProductID:       req.ProductID,
		WarehouseID:     req.WarehouseID,
		Category:        req.Category,
		Quantity:        0,
		ReorderLevel:    req.ReorderLevel,
		MaxStockLevel:   req.MaxStockLevel,
		CostPrice:       req.CostPrice,
		ExpirationDate:  req.ExpirationDate,
		BatchNumber:     req.BatchNumber,
		Location:        req.Location,
		Status:          domain.ItemStatusActive,
		LastStockUpdate: time.Now(),
	}

	id, err := s.itemRepo.Insert(ctx, item)
	if err != nil {
		return nil, err
	}
	item.ID = id

	s.logger.Info("inventory item created",
		zap.Int("productId", req.ProductID),
		zap.Int("warehouseId", req.WarehouseID),
		zap.String("category", req.Category),
	)

	if req.Quantity > 0 {
		reason := "Initial stock"
		if _, err := s.ledger.RecordMovement(ctx, MovementParams{
			ProductID:   req.ProductID,
			WarehouseID: req.WarehouseID,
			Quantity:    req.Quantity,
			Type:        domain.MovementIn,
			CreatedBy:   req.CreatedBy,
			Reason:      &reason,
		}); err != nil {
			// Remove the empty row so a retry does not hit the
			// duplicate-key conflict. It has no movement history yet.
			if delErr := s.itemRepo.Delete(ctx, id); delErr != nil {
				s.logger.Error("failed to remove item after initial stock error",
					zap.Int("productId", req.ProductID),
					zap.Int("warehouseId", req.WarehouseID),
					zap.Error(delErr),
				)
			}
			return nil, err
		}
		item.Quantity = req.Quantity
	}

	return &item, nil
}

func (s *ItemService) GetItem(ctx context.Context, productID, warehouseID int) (*domain.InventoryItem, error) {
	return s.itemRepo.FindByProductAndWarehouse(ctx, productID, warehouseID)
}

// Discontinue retires the item. Stocked rows are never deleted; the
// movement history must stay replayable.
func (s *ItemService) Discontinue(ctx context.Context, productID, warehouseID int) error {
	if err := s.itemRepo.UpdateStatus(ctx, productID, warehouseID, domain.ItemStatusDiscontinued); err != nil {
		return err
	}

	s.logger.Info("inventory item discontinued",
		zap.Int("productId", productID),
		zap.Int("warehouseId", warehouseID),
	)
	return nil
}

func (s *ItemService) ListLowStock(ctx context.Context) ([]domain.InventoryItem, error) {
	return s.itemRepo.ListLowStock(ctx)
}

func (s *ItemService) ListMovements(ctx context.Context, productID, warehouseID, limit int) ([]domain.StockMovement, error) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 500 {
		limit = 500
	}
	return s.movementRepo.ListByItem(ctx, productID, warehouseID, limit)
}
