package repository

import (
	"context"
	"time"

	"kitchenops/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProductStationKey identifies one product at one station — the grain at
// which counts, production, and weekly consumption are tracked.
type ProductStationKey struct {
	ProductID uuid.UUID
	StationID uuid.UUID
}

// InventoryRepository covers stock-take counts and production logs, including
// the grouped aggregates the consumption calculator and order generator need.
// Aggregates return plain maps so the business logic stays decoupled from the
// query builder and testable against in-memory fakes.
type InventoryRepository interface {
	// UpsertCount writes a count; the same (station, product, date) key
	// overwrites the previous quantity.
	UpsertCount(ctx context.Context, c *model.InventoryCount) error
	ListCounts(ctx context.Context, stationID uuid.UUID, date time.Time) ([]model.InventoryCount, error)

	CreateProductionLog(ctx context.Context, p *model.ProductionLog) error
	ListProductionLogs(ctx context.Context, stationID uuid.UUID, from, to time.Time) ([]model.ProductionLog, error)

	// CountsOn returns every count dated exactly `date` across the stations,
	// keyed by (product, station).
	CountsOn(ctx context.Context, stationIDs []uuid.UUID, date time.Time) (map[ProductStationKey]decimal.Decimal, error)
	// ProductionBetween sums quantity produced per (product, station) over the
	// inclusive range [from, to].
	ProductionBetween(ctx context.Context, stationIDs []uuid.UUID, from, to time.Time) (map[ProductStationKey]decimal.Decimal, error)
	// StockByProductOn sums counts per product across all stations for one date.
	StockByProductOn(ctx context.Context, stationIDs []uuid.UUID, date time.Time) (map[uuid.UUID]decimal.Decimal, error)
	// LatestCountDate finds the most recent date on or before `notAfter` with
	// any count across the stations; nil when no counts exist at all.
	LatestCountDate(ctx context.Context, stationIDs []uuid.UUID, notAfter time.Time) (*time.Time, error)
}

type inventoryRepo struct{ db *gorm.DB }

func NewInventoryRepository(db *gorm.DB) InventoryRepository { return &inventoryRepo{db: db} }

func (r *inventoryRepo) UpsertCount(ctx context.Context, c *model.InventoryCount) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "station_id"}, {Name: "product_id"}, {Name: "count_date"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"quantity":      c.Quantity,
			"counted_by_id": c.CountedByID,
			"updated_at":    gorm.Expr("now()"),
		}),
	}).Create(c).Error
}

func (r *inventoryRepo) ListCounts(ctx context.Context, stationID uuid.UUID, date time.Time) ([]model.InventoryCount, error) {
	var counts []model.InventoryCount
	err := r.db.WithContext(ctx).Preload("Product").
		Where("station_id = ? AND count_date = ?", stationID, date).
		Find(&counts).Error
	return counts, err
}

func (r *inventoryRepo) CreateProductionLog(ctx context.Context, p *model.ProductionLog) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *inventoryRepo) ListProductionLogs(ctx context.Context, stationID uuid.UUID, from, to time.Time) ([]model.ProductionLog, error) {
	var logs []model.ProductionLog
	err := r.db.WithContext(ctx).Preload("Product").
		Where("station_id = ? AND log_date BETWEEN ? AND ?", stationID, from, to).
		Order("log_date ASC, created_at ASC").
		Find(&logs).Error
	return logs, err
}

func (r *inventoryRepo) CountsOn(ctx context.Context, stationIDs []uuid.UUID, date time.Time) (map[ProductStationKey]decimal.Decimal, error) {
	if len(stationIDs) == 0 {
		return map[ProductStationKey]decimal.Decimal{}, nil
	}
	var rows []model.InventoryCount
	err := r.db.WithContext(ctx).
		Where("station_id IN ? AND count_date = ?", stationIDs, date).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[ProductStationKey]decimal.Decimal, len(rows))
	for _, row := range rows {
		out[ProductStationKey{ProductID: row.ProductID, StationID: row.StationID}] = row.Quantity
	}
	return out, nil
}

func (r *inventoryRepo) ProductionBetween(ctx context.Context, stationIDs []uuid.UUID, from, to time.Time) (map[ProductStationKey]decimal.Decimal, error) {
	if len(stationIDs) == 0 {
		return map[ProductStationKey]decimal.Decimal{}, nil
	}
	var rows []struct {
		ProductID uuid.UUID
		StationID uuid.UUID
		Total     decimal.Decimal
	}
	err := r.db.WithContext(ctx).Model(&model.ProductionLog{}).
		Select("product_id, station_id, SUM(quantity_produced) AS total").
		Where("station_id IN ? AND log_date BETWEEN ? AND ?", stationIDs, from, to).
		Group("product_id, station_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[ProductStationKey]decimal.Decimal, len(rows))
	for _, row := range rows {
		out[ProductStationKey{ProductID: row.ProductID, StationID: row.StationID}] = row.Total
	}
	return out, nil
}

func (r *inventoryRepo) StockByProductOn(ctx context.Context, stationIDs []uuid.UUID, date time.Time) (map[uuid.UUID]decimal.Decimal, error) {
	if len(stationIDs) == 0 {
		return map[uuid.UUID]decimal.Decimal{}, nil
	}
	var rows []struct {
		ProductID uuid.UUID
		Total     decimal.Decimal
	}
	err := r.db.WithContext(ctx).Model(&model.InventoryCount{}).
		Select("product_id, SUM(quantity) AS total").
		Where("station_id IN ? AND count_date = ?", stationIDs, date).
		Group("product_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[uuid.UUID]decimal.Decimal, len(rows))
	for _, row := range rows {
		out[row.ProductID] = row.Total
	}
	return out, nil
}

func (r *inventoryRepo) LatestCountDate(ctx context.Context, stationIDs []uuid.UUID, notAfter time.Time) (*time.Time, error) {
	if len(stationIDs) == 0 {
		return nil, nil
	}
	var row struct {
		Latest *time.Time
	}
	err := r.db.WithContext(ctx).Model(&model.InventoryCount{}).
		Select("MAX(count_date) AS latest").
		Where("station_id IN ? AND count_date <= ?", stationIDs, notAfter).
		Scan(&row).Error
	if err != nil {
		return nil, err
	}
	return row.Latest, nil
}
