package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"kitchenops/internal/dto"
	"kitchenops/internal/model"
	"kitchenops/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// InventoryService records stock-take counts and production facts.
type InventoryService interface {
	RecordCount(ctx context.Context, countedBy uuid.UUID, req dto.RecordCountRequest) (*dto.CountResponse, error)
	ListCounts(ctx context.Context, filter dto.CountFilter) ([]dto.CountResponse, error)
	LogProduction(ctx context.Context, loggedBy uuid.UUID, req dto.LogProductionRequest) (*dto.ProductionResponse, error)
	ListProduction(ctx context.Context, stationID uuid.UUID, from, to time.Time) ([]dto.ProductionResponse, error)
}

type inventoryService struct {
	inventoryRepo repository.InventoryRepository
	locationRepo  repository.LocationRepository
	productRepo   repository.ProductRepository
	now           func() time.Time
}

func NewInventoryService(
	inventoryRepo repository.InventoryRepository,
	locationRepo repository.LocationRepository,
	productRepo repository.ProductRepository,
) InventoryService {
	return &inventoryService{
		inventoryRepo: inventoryRepo,
		locationRepo:  locationRepo,
		productRepo:   productRepo,
		now:           time.Now,
	}
}

const dateLayout = "2006-01-02"

func (s *inventoryService) resolveStationProduct(ctx context.Context, stationID, productID string) (uuid.UUID, uuid.UUID, error) {
	sid, err := uuid.Parse(stationID)
	if err != nil {
		return uuid.Nil, uuid.Nil, fmt.Errorf("invalid station_id: %w", err)
	}
	pid, err := uuid.Parse(productID)
	if err != nil {
		return uuid.Nil, uuid.Nil, fmt.Errorf("invalid product_id: %w", err)
	}
	if _, err := s.locationRepo.FindStationByID(ctx, sid); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return uuid.Nil, uuid.Nil, ErrStationNotFound
		}
		return uuid.Nil, uuid.Nil, err
	}
	if _, err := s.productRepo.FindByID(ctx, pid); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return uuid.Nil, uuid.Nil, ErrProductNotFound
		}
		return uuid.Nil, uuid.Nil, err
	}
	return sid, pid, nil
}

// RecordCount upserts the day's count: staff can re-count during the day and
// the latest entry wins.
func (s *inventoryService) RecordCount(ctx context.Context, countedBy uuid.UUID, req dto.RecordCountRequest) (*dto.CountResponse, error) {
	sid, pid, err := s.resolveStationProduct(ctx, req.StationID, req.ProductID)
	if err != nil {
		return nil, err
	}
	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		return nil, fmt.Errorf("invalid date: %w", err)
	}

	count := &model.InventoryCount{
		StationID:   sid,
		ProductID:   pid,
		CountDate:   date,
		Quantity:    req.Quantity,
		CountedByID: &countedBy,
	}
	if err := s.inventoryRepo.UpsertCount(ctx, count); err != nil {
		return nil, err
	}
	return countToResponse(count), nil
}

func (s *inventoryService) ListCounts(ctx context.Context, filter dto.CountFilter) ([]dto.CountResponse, error) {
	sid, err := uuid.Parse(filter.StationID)
	if err != nil {
		return nil, fmt.Errorf("invalid station_id: %w", err)
	}
	date := truncateToDay(s.now())
	if filter.Date != "" {
		if date, err = time.Parse(dateLayout, filter.Date); err != nil {
			return nil, fmt.Errorf("invalid date: %w", err)
		}
	}

	counts, err := s.inventoryRepo.ListCounts(ctx, sid, date)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CountResponse, 0, len(counts))
	for i := range counts {
		out = append(out, *countToResponse(&counts[i]))
	}
	return out, nil
}

// LogProduction appends a fact; production entries are immutable.
func (s *inventoryService) LogProduction(ctx context.Context, loggedBy uuid.UUID, req dto.LogProductionRequest) (*dto.ProductionResponse, error) {
	sid, pid, err := s.resolveStationProduct(ctx, req.StationID, req.ProductID)
	if err != nil {
		return nil, err
	}
	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		return nil, fmt.Errorf("invalid date: %w", err)
	}
	if req.Quantity.IsNegative() {
		return nil, errors.New("quantity produced cannot be negative")
	}

	entry := &model.ProductionLog{
		StationID:        sid,
		ProductID:        pid,
		LogDate:          date,
		QuantityProduced: req.Quantity,
		LoggedByID:       &loggedBy,
	}
	if err := s.inventoryRepo.CreateProductionLog(ctx, entry); err != nil {
		return nil, err
	}
	return productionToResponse(entry), nil
}

func (s *inventoryService) ListProduction(ctx context.Context, stationID uuid.UUID, from, to time.Time) ([]dto.ProductionResponse, error) {
	logs, err := s.inventoryRepo.ListProductionLogs(ctx, stationID, from, to)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProductionResponse, 0, len(logs))
	for i := range logs {
		out = append(out, *productionToResponse(&logs[i]))
	}
	return out, nil
}

func countToResponse(c *model.InventoryCount) *dto.CountResponse {
	name := ""
	if c.Product != nil {
		name = c.Product.Name
	}
	return &dto.CountResponse{
		ID:        c.ID.String(),
		StationID: c.StationID.String(),
		ProductID: c.ProductID.String(),
		Product:   name,
		Date:      c.CountDate.Format(dateLayout),
		Quantity:  c.Quantity,
	}
}

func productionToResponse(p *model.ProductionLog) *dto.ProductionResponse {
	name := ""
	if p.Product != nil {
		name = p.Product.Name
	}
	return &dto.ProductionResponse{
		ID:        p.ID.String(),
		StationID: p.StationID.String(),
		ProductID: p.ProductID.String(),
		Product:   name,
		Date:      p.LogDate.Format(dateLayout),
		Quantity:  p.QuantityProduced,
	}
}
