package model

import (
	"time"

	"github.com/google/uuid"
)

// Location is a kitchen site (restaurant, production center). Stations under a
// location track inventory independently; orders are generated per location.
type Location struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name string    `gorm:"uniqueIndex;not null"`
	// ContactEmail receives purchase-order notifications when an order is sent.
	ContactEmail *string
	Active       bool `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Stations []Station `gorm:"foreignKey:LocationID"`
}

// Station is a physical work area within a location (line, prep, bakery…).
type Station struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	LocationID uuid.UUID `gorm:"type:uuid;not null;index"`
	Name       string    `gorm:"not null"`
	Active     bool      `gorm:"not null;default:true"`
	CreatedAt  time.Time
	UpdatedAt  time.Time

	Location *Location `gorm:"foreignKey:LocationID"`
}

// StationProduct assigns a product to a station's count sheet.
// Position keeps the sheet in the order staff walk the station.
type StationProduct struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	StationID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_station_product"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_station_product"`
	Position  int       `gorm:"not null;default:0"`
	CreatedAt time.Time

	Station *Station `gorm:"foreignKey:StationID"`
	Product *Product `gorm:"foreignKey:ProductID"`
}
