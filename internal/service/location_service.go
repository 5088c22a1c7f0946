package service

import (
	"context"
	"errors"
	"fmt"

	"kitchenops/internal/dto"
	"kitchenops/internal/model"
	"kitchenops/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LocationService manages locations, stations, and station count sheets.
type LocationService interface {
	Create(ctx context.Context, req dto.CreateLocationRequest) (*dto.LocationResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*dto.LocationResponse, error)
	List(ctx context.Context, includeInactive bool) ([]dto.LocationResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateLocationRequest) (*dto.LocationResponse, error)

	CreateStation(ctx context.Context, locationID uuid.UUID, req dto.CreateStationRequest) (*dto.StationResponse, error)
	AssignProduct(ctx context.Context, stationID uuid.UUID, req dto.AssignProductRequest) error
	UnassignProduct(ctx context.Context, stationID, productID uuid.UUID) error
	StationSheet(ctx context.Context, stationID uuid.UUID) ([]dto.StationProductResponse, error)
}

type locationService struct {
	repo        repository.LocationRepository
	productRepo repository.ProductRepository
}

func NewLocationService(repo repository.LocationRepository, productRepo repository.ProductRepository) LocationService {
	return &locationService{repo: repo, productRepo: productRepo}
}

func (s *locationService) Create(ctx context.Context, req dto.CreateLocationRequest) (*dto.LocationResponse, error) {
	l := &model.Location{
		Name:         req.Name,
		ContactEmail: req.ContactEmail,
		Active:       true,
	}
	if err := s.repo.Create(ctx, l); err != nil {
		return nil, err
	}
	return locationToResponse(l), nil
}

func (s *locationService) GetByID(ctx context.Context, id uuid.UUID) (*dto.LocationResponse, error) {
	l, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLocationNotFound
		}
		return nil, err
	}
	return locationToResponse(l), nil
}

func (s *locationService) List(ctx context.Context, includeInactive bool) ([]dto.LocationResponse, error) {
	locations, err := s.repo.List(ctx, includeInactive)
	if err != nil {
		return nil, err
	}
	out := make([]dto.LocationResponse, 0, len(locations))
	for i := range locations {
		out = append(out, *locationToResponse(&locations[i]))
	}
	return out, nil
}

func (s *locationService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateLocationRequest) (*dto.LocationResponse, error) {
	l, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLocationNotFound
		}
		return nil, err
	}
	if req.Name != nil {
		l.Name = *req.Name
	}
	if req.ContactEmail != nil {
		l.ContactEmail = req.ContactEmail
	}
	if req.Active != nil {
		l.Active = *req.Active
	}
	if err := s.repo.Update(ctx, l); err != nil {
		return nil, err
	}
	return locationToResponse(l), nil
}

func (s *locationService) CreateStation(ctx context.Context, locationID uuid.UUID, req dto.CreateStationRequest) (*dto.StationResponse, error) {
	if _, err := s.repo.FindByID(ctx, locationID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLocationNotFound
		}
		return nil, err
	}
	st := &model.Station{
		LocationID: locationID,
		Name:       req.Name,
		Active:     true,
	}
	if err := s.repo.CreateStation(ctx, st); err != nil {
		return nil, err
	}
	return stationToResponse(st), nil
}

func (s *locationService) AssignProduct(ctx context.Context, stationID uuid.UUID, req dto.AssignProductRequest) error {
	if _, err := s.repo.FindStationByID(ctx, stationID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrStationNotFound
		}
		return err
	}
	pid, err := uuid.Parse(req.ProductID)
	if err != nil {
		return fmt.Errorf("invalid product_id: %w", err)
	}
	if _, err := s.productRepo.FindByID(ctx, pid); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProductNotFound
		}
		return err
	}
	return s.repo.AssignProduct(ctx, &model.StationProduct{
		StationID: stationID,
		ProductID: pid,
		Position:  req.Position,
	})
}

func (s *locationService) UnassignProduct(ctx context.Context, stationID, productID uuid.UUID) error {
	return s.repo.UnassignProduct(ctx, stationID, productID)
}

func (s *locationService) StationSheet(ctx context.Context, stationID uuid.UUID) ([]dto.StationProductResponse, error) {
	if _, err := s.repo.FindStationByID(ctx, stationID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStationNotFound
		}
		return nil, err
	}
	sheet, err := s.repo.StationProducts(ctx, stationID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.StationProductResponse, 0, len(sheet))
	for _, sp := range sheet {
		if sp.Product == nil {
			continue
		}
		out = append(out, dto.StationProductResponse{
			Position: sp.Position,
			Product:  *productToResponse(sp.Product),
		})
	}
	return out, nil
}

func locationToResponse(l *model.Location) *dto.LocationResponse {
	stations := make([]dto.StationResponse, 0, len(l.Stations))
	for i := range l.Stations {
		stations = append(stations, *stationToResponse(&l.Stations[i]))
	}
	return &dto.LocationResponse{
		ID:           l.ID.String(),
		Name:         l.Name,
		ContactEmail: l.ContactEmail,
		Active:       l.Active,
		Stations:     stations,
	}
}

func stationToResponse(st *model.Station) *dto.StationResponse {
	return &dto.StationResponse{
		ID:         st.ID.String(),
		LocationID: st.LocationID.String(),
		Name:       st.Name,
		Active:     st.Active,
	}
}
