package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Order statuses. Received and cancelled are terminal.
const (
	OrderStatusDraft     = "DRAFT"
	OrderStatusConfirmed = "CONFIRMED"
	OrderStatusSent      = "SENT"
	OrderStatusReceived  = "RECEIVED"
	OrderStatusCancelled = "CANCELLED"
)

// OrderRequest is a purchase order drafted by the generator for one location.
// Items are snapshots: later product edits never alter historical orders.
type OrderRequest struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	LocationID  uuid.UUID `gorm:"type:uuid;not null;index"`
	Status      string    `gorm:"type:varchar(20);not null;default:'DRAFT';index"`
	RequestDate time.Time `gorm:"type:date;not null"`
	DeliveryDay *string   `gorm:"type:varchar(10)"`
	Notes       *string
	GeneratedByID uuid.UUID `gorm:"type:uuid;not null"`
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Location    *Location   `gorm:"foreignKey:LocationID"`
	GeneratedBy *User       `gorm:"foreignKey:GeneratedByID"`
	Items       []OrderItem `gorm:"foreignKey:OrderRequestID"`
}

// OrderItem is one product line on an order. All product-derived fields are
// frozen at generation time; only ConfirmedQty changes afterwards, and only
// while the parent order is still DRAFT.
type OrderItem struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrderRequestID uuid.UUID `gorm:"type:uuid;not null;index"`
	ProductID      uuid.UUID `gorm:"type:uuid;not null"`

	CurrentStock         decimal.Decimal  `gorm:"type:decimal(12,4);not null"`
	WeeklyAvgConsumption decimal.Decimal  `gorm:"type:decimal(12,4);not null"`
	SuggestedQty         int              `gorm:"not null"`
	ConfirmedQty         *int             // nil = suggestion stands
	UnitOfOrder          string           `gorm:"not null"`
	ConversionFactor     decimal.Decimal  `gorm:"type:decimal(12,4);not null"`
	UnitCost             *decimal.Decimal `gorm:"type:decimal(12,4)"`

	CreatedAt time.Time
	UpdatedAt time.Time

	Product *Product `gorm:"foreignKey:ProductID"`
}

// EffectiveQty is the quantity to purchase: the human override when present,
// the suggestion otherwise.
func (i *OrderItem) EffectiveQty() int {
	if i.ConfirmedQty != nil {
		return *i.ConfirmedQty
	}
	return i.SuggestedQty
}
