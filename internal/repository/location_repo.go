package repository

import (
	"context"

	"kitchenops/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LocationRepository covers locations, their stations, and the product
// assignment sheet of each station.
type LocationRepository interface {
	Create(ctx context.Context, l *model.Location) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Location, error)
	List(ctx context.Context, includeInactive bool) ([]model.Location, error)
	ListActive(ctx context.Context) ([]model.Location, error)
	Update(ctx context.Context, l *model.Location) error

	CreateStation(ctx context.Context, s *model.Station) error
	FindStationByID(ctx context.Context, id uuid.UUID) (*model.Station, error)
	// StationIDs returns the ids of all active stations under a location.
	StationIDs(ctx context.Context, locationID uuid.UUID) ([]uuid.UUID, error)

	AssignProduct(ctx context.Context, sp *model.StationProduct) error
	UnassignProduct(ctx context.Context, stationID, productID uuid.UUID) error
	// StationProducts lists a station's sheet in walking order.
	StationProducts(ctx context.Context, stationID uuid.UUID) ([]model.StationProduct, error)
}

type locationRepo struct{ db *gorm.DB }

func NewLocationRepository(db *gorm.DB) LocationRepository { return &locationRepo{db: db} }

func (r *locationRepo) Create(ctx context.Context, l *model.Location) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *locationRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Location, error) {
	var l model.Location
	err := r.db.WithContext(ctx).Preload("Stations").First(&l, id).Error
	return &l, err
}

func (r *locationRepo) List(ctx context.Context, includeInactive bool) ([]model.Location, error) {
	var locations []model.Location
	q := r.db.WithContext(ctx).Preload("Stations").Order("name ASC")
	if !includeInactive {
		q = q.Where("active = true")
	}
	err := q.Find(&locations).Error
	return locations, err
}

func (r *locationRepo) ListActive(ctx context.Context) ([]model.Location, error) {
	return r.List(ctx, false)
}

func (r *locationRepo) Update(ctx context.Context, l *model.Location) error {
	return r.db.WithContext(ctx).Save(l).Error
}

func (r *locationRepo) CreateStation(ctx context.Context, s *model.Station) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *locationRepo) FindStationByID(ctx context.Context, id uuid.UUID) (*model.Station, error) {
	var s model.Station
	err := r.db.WithContext(ctx).First(&s, id).Error
	return &s, err
}

func (r *locationRepo) StationIDs(ctx context.Context, locationID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).Model(&model.Station{}).
		Where("location_id = ? AND active = true", locationID).
		Pluck("id", &ids).Error
	return ids, err
}

func (r *locationRepo) AssignProduct(ctx context.Context, sp *model.StationProduct) error {
	return r.db.WithContext(ctx).Create(sp).Error
}

func (r *locationRepo) UnassignProduct(ctx context.Context, stationID, productID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("station_id = ? AND product_id = ?", stationID, productID).
		Delete(&model.StationProduct{}).Error
}

func (r *locationRepo) StationProducts(ctx context.Context, stationID uuid.UUID) ([]model.StationProduct, error) {
	var sheet []model.StationProduct
	err := r.db.WithContext(ctx).Preload("Product").
		Where("station_id = ?", stationID).
		Order("position ASC").Find(&sheet).Error
	return sheet, err
}
