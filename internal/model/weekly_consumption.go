package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// WeeklyConsumption is a derived aggregate: how much of a product a station
// used during one 7-day window, computed as opening + produced - closing,
// clamped at zero. Recomputing the same (product, station, weekStart) key
// overwrites the row. Weeks that compute to zero leave no row at all.
type WeeklyConsumption struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_consumption_product_station_week"`
	StationID   uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_consumption_product_station_week"`
	WeekStart   time.Time       `gorm:"type:date;not null;uniqueIndex:idx_consumption_product_station_week"`
	WeekEnd     time.Time       `gorm:"type:date;not null"`
	Consumption decimal.Decimal `gorm:"type:decimal(12,4);not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Product *Product `gorm:"foreignKey:ProductID"`
	Station *Station `gorm:"foreignKey:StationID"`
}
