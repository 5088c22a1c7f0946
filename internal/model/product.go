package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is a tracked ingredient or supply. Quantities are counted in
// UnitOfMeasure (kg, liter, piece) but purchased in UnitOfOrder (case, sack);
// ConversionFactor is how many internal units one order unit contains.
type Product struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Code     string    `gorm:"uniqueIndex;not null"`
	Name     string    `gorm:"index;not null"`
	Category string    `gorm:"not null"`
	// Internal tracking unit vs procurement unit
	UnitOfMeasure    string          `gorm:"not null;default:'unit'"`
	UnitOfOrder      string          `gorm:"not null;default:'unit'"`
	ConversionFactor decimal.Decimal `gorm:"type:decimal(12,4);not null;default:1"`
	// UnitCost is the cost of one internal unit; nil when not yet priced
	UnitCost *decimal.Decimal `gorm:"type:decimal(12,4)"`
	// DeliveryDay tags products delivered on a fixed weekday ("monday"…"sunday");
	// nil means the product can go on any order
	DeliveryDay *string `gorm:"type:varchar(10)"`
	Active      bool    `gorm:"not null;default:true"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
