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

// ConsumptionRepository persists the derived weekly consumption aggregates.
type ConsumptionRepository interface {
	// Upsert writes one aggregate; recomputing the same
	// (product, station, weekStart) key overwrites consumption and weekEnd.
	Upsert(ctx context.Context, w *model.WeeklyConsumption) error
	// AverageByProduct returns the mean consumption per product across all
	// entries for the given stations with weekStart >= since.
	AverageByProduct(ctx context.Context, stationIDs []uuid.UUID, since time.Time) (map[uuid.UUID]decimal.Decimal, error)
	// ListByLocation returns the aggregates of a location's stations for
	// weeks starting at or after `since`, newest first.
	ListByLocation(ctx context.Context, stationIDs []uuid.UUID, since time.Time) ([]model.WeeklyConsumption, error)
}

type consumptionRepo struct{ db *gorm.DB }

func NewConsumptionRepository(db *gorm.DB) ConsumptionRepository { return &consumptionRepo{db: db} }

func (r *consumptionRepo) Upsert(ctx context.Context, w *model.WeeklyConsumption) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "product_id"}, {Name: "station_id"}, {Name: "week_start"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"consumption": w.Consumption,
			"week_end":    w.WeekEnd,
			"updated_at":  gorm.Expr("now()"),
		}),
	}).Create(w).Error
}

func (r *consumptionRepo) AverageByProduct(ctx context.Context, stationIDs []uuid.UUID, since time.Time) (map[uuid.UUID]decimal.Decimal, error) {
	if len(stationIDs) == 0 {
		return map[uuid.UUID]decimal.Decimal{}, nil
	}
	var rows []struct {
		ProductID uuid.UUID
		Avg       decimal.Decimal
	}
	err := r.db.WithContext(ctx).Model(&model.WeeklyConsumption{}).
		Select("product_id, AVG(consumption) AS avg").
		Where("station_id IN ? AND week_start >= ?", stationIDs, since).
		Group("product_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[uuid.UUID]decimal.Decimal, len(rows))
	for _, row := range rows {
		out[row.ProductID] = row.Avg
	}
	return out, nil
}

func (r *consumptionRepo) ListByLocation(ctx context.Context, stationIDs []uuid.UUID, since time.Time) ([]model.WeeklyConsumption, error) {
	if len(stationIDs) == 0 {
		return nil, nil
	}
	var rows []model.WeeklyConsumption
	err := r.db.WithContext(ctx).Preload("Product").Preload("Station").
		Where("station_id IN ? AND week_start >= ?", stationIDs, since).
		Order("week_start DESC, station_id, product_id").
		Find(&rows).Error
	return rows, err
}
