package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InventoryCount is a stock-take fact: how much of a product a station had on
// a given day. At most one count per (station, product, day); re-counting the
// same day overwrites the quantity (upsert, latest write wins).
type InventoryCount struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	StationID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_count_station_product_date"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_count_station_product_date"`
	CountDate time.Time `gorm:"type:date;not null;uniqueIndex:idx_count_station_product_date"`
	Quantity  decimal.Decimal `gorm:"type:decimal(12,4);not null"`
	// CountedByID is the staff member who entered the count
	CountedByID *uuid.UUID `gorm:"type:uuid"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Station *Station `gorm:"foreignKey:StationID"`
	Product *Product `gorm:"foreignKey:ProductID"`
}

// ProductionLog is an append-only fact of quantity produced at a station.
// Multiple entries per (station, product, day) are allowed and summed.
type ProductionLog struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	StationID        uuid.UUID       `gorm:"type:uuid;not null;index:idx_production_station_date"`
	ProductID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	LogDate          time.Time       `gorm:"type:date;not null;index:idx_production_station_date"`
	QuantityProduced decimal.Decimal `gorm:"type:decimal(12,4);not null"`
	LoggedByID       *uuid.UUID      `gorm:"type:uuid"`
	CreatedAt        time.Time

	Station *Station `gorm:"foreignKey:StationID"`
	Product *Product `gorm:"foreignKey:ProductID"`
}
