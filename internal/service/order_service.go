package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"kitchenops/internal/dto"
	"kitchenops/internal/model"
	"kitchenops/internal/repository"
	"kitchenops/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Fixed procurement policy. Suggested quantities aim to cover 90% of the
// trailing 4-week average consumption; the buffer below 100% absorbs
// already-ordered stock in transit and wastage variance.
const consumptionLookbackDays = 28

var safetyStockFactor = decimal.NewFromFloat(0.9)

// orderTransitions is the strict allow-list of status changes.
// RECEIVED and CANCELLED are terminal.
var orderTransitions = map[string][]string{
	model.OrderStatusDraft:     {model.OrderStatusConfirmed, model.OrderStatusCancelled},
	model.OrderStatusConfirmed: {model.OrderStatusSent, model.OrderStatusCancelled},
	model.OrderStatusSent:      {model.OrderStatusReceived},
	model.OrderStatusReceived:  {},
	model.OrderStatusCancelled: {},
}

func transitionAllowed(from, to string) bool {
	for _, allowed := range orderTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// OrderService generates draft purchase orders from stock and consumption
// history, and manages the order lifecycle afterwards.
type OrderService interface {
	Generate(ctx context.Context, generatedBy uuid.UUID, req dto.GenerateOrderRequest) (*dto.OrderResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.OrderResponse, error)
	List(ctx context.Context, filter dto.OrderFilter) (*dto.OrderListResponse, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, newStatus string) (*dto.OrderResponse, error)
	UpdateItem(ctx context.Context, orderID, itemID uuid.UUID, req dto.UpdateOrderItemRequest) (*dto.OrderItemResponse, error)
}

type orderService struct {
	orderRepo       repository.OrderRepository
	locationRepo    repository.LocationRepository
	productRepo     repository.ProductRepository
	inventoryRepo   repository.InventoryRepository
	consumptionRepo repository.ConsumptionRepository
	dispatcher      *worker.Dispatcher
	now             func() time.Time
}

func NewOrderService(
	orderRepo repository.OrderRepository,
	locationRepo repository.LocationRepository,
	productRepo repository.ProductRepository,
	inventoryRepo repository.InventoryRepository,
	consumptionRepo repository.ConsumptionRepository,
	dispatcher *worker.Dispatcher,
) OrderService {
	return &orderService{
		orderRepo:       orderRepo,
		locationRepo:    locationRepo,
		productRepo:     productRepo,
		inventoryRepo:   inventoryRepo,
		consumptionRepo: consumptionRepo,
		dispatcher:      dispatcher,
		now:             time.Now,
	}
}

// ── Generate ──────────────────────────────────────────────────────────────────
// For each eligible product:
//   quantityNeeded = weeklyAvg * 0.9 - currentStock
// Products with quantityNeeded <= 0 are left off the order entirely; the rest
// get suggestedQty = ceil(quantityNeeded / conversionFactor) so the order
// never under-buys due to truncation. Current stock is today's counts summed
// across the location's stations; when today has no counts at all, the most
// recent counted date stands in — one fallback date for the whole batch, not
// per product. An order with zero surviving items is still a valid order.

func (s *orderService) Generate(ctx context.Context, generatedBy uuid.UUID, req dto.GenerateOrderRequest) (*dto.OrderResponse, error) {
	locationID, err := uuid.Parse(req.LocationID)
	if err != nil {
		return nil, fmt.Errorf("invalid location_id: %w", err)
	}

	if _, err := s.locationRepo.FindByID(ctx, locationID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLocationNotFound
		}
		return nil, err
	}

	stationIDs, err := s.locationRepo.StationIDs(ctx, locationID)
	if err != nil {
		return nil, err
	}
	if len(stationIDs) == 0 {
		return nil, ErrNoStations
	}

	products, err := s.productRepo.ListActiveForDelivery(ctx, req.DeliveryDay)
	if err != nil {
		return nil, err
	}

	today := truncateToDay(s.now())

	stock, err := s.inventoryRepo.StockByProductOn(ctx, stationIDs, today)
	if err != nil {
		return nil, err
	}
	if len(stock) == 0 {
		// no counts today anywhere in the location: fall back to the most
		// recent date that has any, chosen once across all stations combined
		fallback, err := s.inventoryRepo.LatestCountDate(ctx, stationIDs, today)
		if err != nil {
			return nil, err
		}
		if fallback != nil {
			if stock, err = s.inventoryRepo.StockByProductOn(ctx, stationIDs, *fallback); err != nil {
				return nil, err
			}
			log.Debug().
				Str("location_id", locationID.String()).
				Str("fallback_date", fallback.Format("2006-01-02")).
				Msg("order generation using fallback stock date")
		}
	}

	since := today.AddDate(0, 0, -consumptionLookbackDays)
	avgConsumption, err := s.consumptionRepo.AverageByProduct(ctx, stationIDs, since)
	if err != nil {
		return nil, err
	}

	var items []model.OrderItem
	for _, p := range products {
		currentStock := stock[p.ID]
		weeklyAvg := avgConsumption[p.ID]

		quantityNeeded := weeklyAvg.Mul(safetyStockFactor).Sub(currentStock)
		if quantityNeeded.LessThanOrEqual(decimal.Zero) {
			continue // enough on hand
		}

		suggested := int(quantityNeeded.Div(p.ConversionFactor).Ceil().IntPart())
		items = append(items, model.OrderItem{
			ProductID:            p.ID,
			CurrentStock:         currentStock,
			WeeklyAvgConsumption: weeklyAvg,
			SuggestedQty:         suggested,
			UnitOfOrder:          p.UnitOfOrder,
			ConversionFactor:     p.ConversionFactor,
			UnitCost:             p.UnitCost,
		})
	}

	order := &model.OrderRequest{
		LocationID:    locationID,
		Status:        model.OrderStatusDraft,
		RequestDate:   today,
		DeliveryDay:   req.DeliveryDay,
		Notes:         req.Notes,
		GeneratedByID: generatedBy,
		Items:         items,
	}
	if err := s.orderRepo.CreateWithItems(ctx, order); err != nil {
		return nil, err
	}

	log.Info().
		Str("order_id", order.ID.String()).
		Str("location_id", locationID.String()).
		Int("items", len(items)).
		Msg("purchase order generated")

	return s.Get(ctx, order.ID)
}

// ── Lifecycle ─────────────────────────────────────────────────────────────────

func (s *orderService) UpdateStatus(ctx context.Context, id uuid.UUID, newStatus string) (*dto.OrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	if !transitionAllowed(order.Status, newStatus) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, order.Status, newStatus)
	}

	// The WHERE status guard re-validates at write time: two racing updates
	// cannot both succeed against the same predecessor status.
	rows, err := s.orderRepo.UpdateStatusGuarded(ctx, id, order.Status, newStatus)
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		current, reloadErr := s.orderRepo.FindByID(ctx, id)
		if reloadErr != nil {
			return nil, reloadErr
		}
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, current.Status, newStatus)
	}

	if newStatus == model.OrderStatusSent && s.dispatcher != nil {
		// best effort: a failed enqueue never fails the transition
		if err := s.dispatcher.EnqueueOrderNotification(ctx, worker.OrderNotificationPayload{OrderID: id.String()}); err != nil {
			log.Warn().Str("order_id", id.String()).Err(err).Msg("failed to enqueue order notification")
		}
	}

	return s.Get(ctx, id)
}

func (s *orderService) UpdateItem(ctx context.Context, orderID, itemID uuid.UUID, req dto.UpdateOrderItemRequest) (*dto.OrderItemResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	// gate on status before even looking the item up
	if order.Status != model.OrderStatusDraft {
		return nil, ErrOrderNotEditable
	}

	item, err := s.orderRepo.FindItem(ctx, orderID, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, err
	}

	item.ConfirmedQty = req.ConfirmedQty
	if err := s.orderRepo.UpdateItem(ctx, item); err != nil {
		return nil, err
	}

	resp := orderItemToResponse(item)
	return &resp, nil
}

// ── Queries ───────────────────────────────────────────────────────────────────

func (s *orderService) Get(ctx context.Context, id uuid.UUID) (*dto.OrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return orderToResponse(order), nil
}

func (s *orderService) List(ctx context.Context, filter dto.OrderFilter) (*dto.OrderListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 20
	}
	orders, total, err := s.orderRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.OrderResponse, 0, len(orders))
	for i := range orders {
		data = append(data, *orderToResponse(&orders[i]))
	}
	return &dto.OrderListResponse{
		Data:  data,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

func orderItemToResponse(item *model.OrderItem) dto.OrderItemResponse {
	name := ""
	if item.Product != nil {
		name = item.Product.Name
	}
	return dto.OrderItemResponse{
		ID:                   item.ID.String(),
		ProductID:            item.ProductID.String(),
		Product:              name,
		CurrentStock:         item.CurrentStock,
		WeeklyAvgConsumption: item.WeeklyAvgConsumption,
		SuggestedQty:         item.SuggestedQty,
		ConfirmedQty:         item.ConfirmedQty,
		UnitOfOrder:          item.UnitOfOrder,
		ConversionFactor:     item.ConversionFactor,
		UnitCost:             item.UnitCost,
	}
}

func orderToResponse(o *model.OrderRequest) *dto.OrderResponse {
	items := make([]dto.OrderItemResponse, 0, len(o.Items))
	for i := range o.Items {
		items = append(items, orderItemToResponse(&o.Items[i]))
	}
	locationName := ""
	if o.Location != nil {
		locationName = o.Location.Name
	}
	return &dto.OrderResponse{
		ID:          o.ID.String(),
		LocationID:  o.LocationID.String(),
		Location:    locationName,
		Status:      o.Status,
		RequestDate: o.RequestDate.Format("2006-01-02"),
		DeliveryDay: o.DeliveryDay,
		Notes:       o.Notes,
		GeneratedBy: o.GeneratedByID.String(),
		Items:       items,
		CreatedAt:   o.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}
