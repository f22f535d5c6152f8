package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"stockledger/internal/domain"
	"stockledger/internal/dto"
	apperrors "stockledger/internal/errors"
	"stockledger/internal/inventory/service"
)

type MovementRecorder interface {
	RecordMovement(ctx context.Context, params service.MovementParams) (*domain.StockMovement, error)
}

type ReservationManager interface {
	Reserve(ctx context.Context, orderID string, items []dto.ReservationItem) error
	Release(ctx context.Context, orderID string, fulfill bool, actor string) (*dto.ReleaseResult, error)
}

type ItemManager interface {
	CreateItem(ctx context.Context, req dto.CreateItemRequest) (*domain.InventoryItem, error)
	GetItem(ctx context.Context, productID, warehouseID int) (*domain.InventoryItem, error)
	Discontinue(ctx context.Context, productID, warehouseID int) error
	ListLowStock(ctx context.Context) ([]domain.InventoryItem, error)
	ListMovements(ctx context.Context, productID, warehouseID, limit int) ([]domain.StockMovement, error)
}

type Forecaster interface {
	Forecast(ctx context.Context, productID, warehouseID int) (*domain.Forecast, error)
}

type Reporter interface {
	Valuation(ctx context.Context) dto.Valuation
	Report(ctx context.Context) dto.Report
}

type AlertLister interface {
	ListActive(ctx context.Context) ([]domain.StockAlert, error)
}

type InventoryController struct {
	movements    MovementRecorder
	reservations ReservationManager
	items        ItemManager
	forecasts    Forecaster
	reports      Reporter
	alerts       AlertLister
	logger       *zap.Logger
}

func NewInventoryController(
	movements MovementRecorder,
	reservations ReservationManager,
	items ItemManager,
	forecasts Forecaster,
	reports Reporter,
	alerts AlertLister,
	logger *zap.Logger,
) *InventoryController {
	return &InventoryController{
		movements:    movements,
		reservations: reservations,
		items:        items,
		forecasts:    forecasts,
		reports:      reports,
		alerts:       alerts,
		logger:       logger,
	}
}

func (c *InventoryController) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/inventory/items", c.CreateItem)
	r.Get("/inventory/items/low-stock", c.ListLowStock)
	r.Get("/inventory/items/{productID}/{warehouseID}", c.GetItem)
	r.Delete("/inventory/items/{productID}/{warehouseID}", c.DiscontinueItem)
	r.Post("/inventory/items/{productID}/{warehouseID}/movements", c.RecordMovement)
	r.Get("/inventory/items/{productID}/{warehouseID}/movements", c.ListMovements)
	r.Get("/inventory/items/{productID}/{warehouseID}/forecast", c.GetForecast)
	r.Post("/orders/{orderID}/reserve", c.Reserve)
	r.Post("/orders/{orderID}/release", c.Release)
	r.Get("/inventory/valuation", c.GetValuation)
	r.Get("/inventory/report", c.GetReport)
	r.Get("/inventory/alerts", c.ListAlerts)

	return r
}

func (c *InventoryController) CreateItem(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	var req dto.CreateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid JSON body", zap.Error(err))
		c.writeValidationError(w, "invalid JSON body", apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
		return
	}

	var details []apperrors.ValidationDetail
	if req.ProductID <= 0 {
		details = append(details, apperrors.ValidationDetail{Field: "productId", Message: "productId must be a positive integer"})
	}
	if req.WarehouseID <= 0 {
		details = append(details, apperrors.ValidationDetail{Field: "warehouseId", Message: "warehouseId must be a positive integer"})
	}
	if req.Quantity < 0 {
		details = append(details, apperrors.ValidationDetail{Field: "quantity", Message: "quantity must not be negative"})
	}
	if req.CreatedBy == "" {
		details = append(details, apperrors.ValidationDetail{Field: "createdBy", Message: "createdBy is required"})
	}
	if len(details) > 0 {
		c.writeValidationError(w, "validation failed", details...)
		return
	}

	item, err := c.items.CreateItem(r.Context(), req)
	if err != nil {
		c.handleError(w, err, logger)
		return
	}

	c.writeJSON(w, http.StatusCreated, itemResponse(item))
}

func (c *InventoryController) GetItem(w http.ResponseWriter, r *http.Request) {
	logger := c.logger
	productID, warehouseID, ok := c.itemKey(w, r)
	if !ok {
		return
	}

	item, err := c.items.GetItem(r.Context(), productID, warehouseID)
	if err != nil {
		c.handleError(w, err, logger)
		return
	}

	c.writeJSON(w, http.StatusOK, itemResponse(item))
}

func (c *InventoryController) DiscontinueItem(w http.ResponseWriter, r *http.Request) {
	productID, warehouseID, ok := c.itemKey(w, r)
	if !ok {
		return
	}

	if err := c.items.Discontinue(r.Context(), productID, warehouseID); err != nil {
		c.handleError(w, err, c.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (c *InventoryController) ListLowStock(w http.ResponseWriter, r *http.Request) {
	items, err := c.items.ListLowStock(r.Context())
	if err != nil {
		c.handleError(w, err, c.logger)
		return
	}

	responses := make([]dto.ItemResponse, 0, len(items))
	for i := range items {
		responses = append(responses, itemResponse(&items[i]))
	}
	c.writeJSON(w, http.StatusOK, responses)
}

func (c *InventoryController) RecordMovement(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	productID, warehouseID, ok := c.itemKey(w, r)
	if !ok {
		return
	}

	var req dto.RecordMovementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid JSON body", zap.Error(err))
		c.writeValidationError(w, "invalid JSON body", apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
		return
	}

	movement, err := c.movements.RecordMovement(r.Context(), service.MovementParams{
		ProductID:   productID,
		WarehouseID: warehouseID,
		Quantity:    req.Quantity,
		Type:        domain.MovementType(req.Type),
		CreatedBy:   req.CreatedBy,
		Reason:      req.Reason,
		Reference:   req.Reference,
		OrderID:     req.OrderID,
		UnitCost:    req.UnitCost,
		Notes:       req.Notes,
	})
	if err != nil {
		c.handleError(w, err, logger)
		return
	}

	c.writeJSON(w, http.StatusCreated, movementResponse(movement))
}

func (c *InventoryController) ListMovements(w http.ResponseWriter, r *http.Request) {
	productID, warehouseID, ok := c.itemKey(w, r)
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	movements, err := c.items.ListMovements(r.Context(), productID, warehouseID, limit)
	if err != nil {
		c.handleError(w, err, c.logger)
		return
	}

	responses := make([]dto.MovementResponse, 0, len(movements))
	for i := range movements {
		responses = append(responses, movementResponse(&movements[i]))
	}
	c.writeJSON(w, http.StatusOK, responses)
}

func (c *InventoryController) GetForecast(w http.ResponseWriter, r *http.Request) {
	productID, warehouseID, ok := c.itemKey(w, r)
	if !ok {
		return
	}

	forecast, err := c.forecasts.Forecast(r.Context(), productID, warehouseID)
	if err != nil {
		c.handleError(w, err, c.logger)
		return
	}

	if forecast == nil {
		c.writeError(w, http.StatusNotFound, "NOT_FOUND", "no inventory item to forecast")
		return
	}

	c.writeJSON(w, http.StatusOK, dto.ForecastResponse{
		ProductID:                  forecast.ProductID,
		WarehouseID:                forecast.WarehouseID,
		DailyUsage:                 forecast.DailyUsage,
		DaysUntilStockout:          forecast.DaysUntilStockout,
		RecommendedReorderQuantity: forecast.RecommendedReorderQuantity,
		RecommendedReorderDate:     forecast.RecommendedReorderDate,
		Confidence:                 forecast.Confidence,
	})
}

func (c *InventoryController) Reserve(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))
	orderID := chi.URLParam(r, "orderID")

	var req dto.ReserveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid JSON body", zap.Error(err))
		c.writeValidationError(w, "invalid JSON body", apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
		return
	}

	if err := c.reservations.Reserve(r.Context(), orderID, req.Items); err != nil {
		c.handleError(w, err, logger)
		return
	}

	c.writeJSON(w, http.StatusCreated, map[string]any{
		"orderId":  orderID,
		"reserved": len(req.Items),
	})
}

func (c *InventoryController) Release(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))
	orderID := chi.URLParam(r, "orderID")

	var req dto.ReleaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid JSON body", zap.Error(err))
		c.writeValidationError(w, "invalid JSON body", apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
		return
	}

	result, err := c.reservations.Release(r.Context(), orderID, req.Fulfill, req.Actor)
	if err != nil {
		c.handleError(w, err, logger)
		return
	}

	c.writeJSON(w, http.StatusOK, result)
}

func (c *InventoryController) GetValuation(w http.ResponseWriter, r *http.Request) {
	c.writeJSON(w, http.StatusOK, c.reports.Valuation(r.Context()))
}

func (c *InventoryController) GetReport(w http.ResponseWriter, r *http.Request) {
	c.writeJSON(w, http.StatusOK, c.reports.Report(r.Context()))
}

func (c *InventoryController) ListAlerts(w http.ResponseWriter, r *http.Request) {
	alerts, err := c.alerts.ListActive(r.Context())
	if err != nil {
		c.handleError(w, err, c.logger)
		return
	}

	summaries := make([]dto.AlertSummary, 0, len(alerts))
	for _, alert := range alerts {
		summaries = append(summaries, dto.AlertSummary{
			ProductID:       alert.ProductID,
			WarehouseID:     alert.WarehouseID,
			Type:            string(alert.Type),
			Severity:        string(alert.Severity),
			CurrentQuantity: alert.CurrentQuantity,
			Threshold:       alert.Threshold,
			CreatedAt:       alert.CreatedAt,
		})
	}
	c.writeJSON(w, http.StatusOK, summaries)
}

func (c *InventoryController) itemKey(w http.ResponseWriter, r *http.Request) (productID, warehouseID int, ok bool) {
	productID, err := strconv.Atoi(chi.URLParam(r, "productID"))
	if err != nil || productID <= 0 {
		c.writeValidationError(w, "invalid productID", apperrors.ValidationDetail{
			Field:   "productID",
			Message: "productID must be a positive integer",
		})
		return 0, 0, false
	}

	warehouseID, err = strconv.Atoi(chi.URLParam(r, "warehouseID"))
	if err != nil || warehouseID <= 0 {
		c.writeValidationError(w, "invalid warehouseID", apperrors.ValidationDetail{
			Field:   "warehouseID",
			Message: "warehouseID must be a positive integer",
		})
		return 0, 0, false
	}

	return productID, warehouseID, true
}

func (c *InventoryController) handleError(w http.ResponseWriter, err error, logger *zap.Logger) {
	if ve, ok := apperrors.IsValidationError(err); ok {
		c.writeValidationError(w, ve.Message, ve.Details...)
		return
	}

	if _, ok := apperrors.IsNotFoundError(err); ok {
		c.writeError(w, http.StatusNotFound, "NOT_FOUND", err.Error())
		return
	}

	if _, ok := apperrors.IsInvalidMovementTypeError(err); ok {
		c.writeError(w, http.StatusBadRequest, "INVALID_MOVEMENT_TYPE", err.Error())
		return
	}

	if iie, ok := apperrors.IsInsufficientInventoryError(err); ok {
		c.writeJSON(w, http.StatusConflict, map[string]any{
			"error":       "INSUFFICIENT_INVENTORY",
			"message":     iie.Error(),
			"productId":   iie.ProductID,
			"warehouseId": iie.WarehouseID,
			"available":   iie.Available,
			"requested":   iie.Requested,
		})
		return
	}

	if _, ok := apperrors.IsConflictError(err); ok {
		c.writeError(w, http.StatusConflict, "CONFLICT", err.Error())
		return
	}

	logger.Error("unexpected error", zap.Error(err))
	c.writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "an unexpected error occurred")
}

type validationErrorResponse struct {
	Error   string                       `json:"error"`
	Message string                       `json:"message"`
	Details []apperrors.ValidationDetail `json:"details"`
}

func (c *InventoryController) writeValidationError(w http.ResponseWriter, message string, details ...apperrors.ValidationDetail) {
	c.writeJSON(w, http.StatusBadRequest, validationErrorResponse{
		Error:   "VALIDATION_ERROR",
		Message: message,
		Details: details,
	})
}

func (c *InventoryController) writeError(w http.ResponseWriter, status int, code, message string) {
	c.writeJSON(w, status, map[string]string{
		"error":   code,
		"message": message,
	})
}

func (c *InventoryController) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		c.logger.Error("failed to encode response", zap.Error(err))
	}
}

func itemResponse(item *domain.InventoryItem) dto.ItemResponse {
	return dto.ItemResponse{
		ProductID:         item.ProductID,
		WarehouseID:       item.WarehouseID,
		Category:          item.Category,
		Quantity:          item.Quantity,
		ReservedQuantity:  item.ReservedQuantity,
		AvailableQuantity: item.AvailableQuantity(),
		ReorderLevel:      item.ReorderLevel,
		MaxStockLevel:     item.MaxStockLevel,
		CostPrice:         item.CostPrice,
		ExpirationDate:    item.ExpirationDate,
		BatchNumber:       item.BatchNumber,
		Location:          item.Location,
		Status:            string(item.Status),
		LastStockUpdate:   item.LastStockUpdate,
	}
}

func movementResponse(m *domain.StockMovement) dto.MovementResponse {
	return dto.MovementResponse{
		ID:               m.ID,
		ProductID:        m.ProductID,
		WarehouseID:      m.WarehouseID,
		Type:             string(m.Type),
		Quantity:         m.Quantity,
		PreviousQuantity: m.PreviousQuantity,
		NewQuantity:      m.NewQuantity,
		Reason:           m.Reason,
		Reference:        m.Reference,
		OrderID:          m.OrderID,
		Notes:            m.Notes,
		CreatedBy:        m.CreatedBy,
		CreatedAt:        m.CreatedAt,
	}
}
