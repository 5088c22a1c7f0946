package dto

import "github.com/shopspring/decimal"

// ─── Requests ────────────────────────────────────────────────────────────────

type GenerateOrderRequest struct {
	LocationID  string  `json:"location_id"  validate:"required,uuid"`
	DeliveryDay *string `json:"delivery_day" validate:"omitempty,oneof=monday tuesday wednesday thursday friday saturday sunday"`
	Notes       *string `json:"notes"        validate:"omitempty,max=500"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=DRAFT CONFIRMED SENT RECEIVED CANCELLED"`
}

type UpdateOrderItemRequest struct {
	ConfirmedQty *int `json:"confirmed_qty" validate:"omitempty,min=0"`
}

// ─── Filter / Pagination ─────────────────────────────────────────────────────

type OrderFilter struct {
	LocationID string `form:"location_id" validate:"omitempty,uuid"`
	Status     string `form:"status"      validate:"omitempty,oneof=DRAFT CONFIRMED SENT RECEIVED CANCELLED"`
	Page       int    `form:"page,default=1"   validate:"min=1"`
	Limit      int    `form:"limit,default=20" validate:"min=1,max=100"`
}

// ─── Responses ───────────────────────────────────────────────────────────────

type OrderItemResponse struct {
	ID                   string           `json:"id"`
	ProductID            string           `json:"product_id"`
	Product              string           `json:"product,omitempty"`
	CurrentStock         decimal.Decimal  `json:"current_stock"`
	WeeklyAvgConsumption decimal.Decimal  `json:"weekly_avg_consumption"`
	SuggestedQty         int              `json:"suggested_qty"`
	ConfirmedQty         *int             `json:"confirmed_qty"`
	UnitOfOrder          string           `json:"unit_of_order"`
	ConversionFactor     decimal.Decimal  `json:"conversion_factor"`
	UnitCost             *decimal.Decimal `json:"unit_cost"`
}

type OrderResponse struct {
	ID          string              `json:"id"`
	LocationID  string              `json:"location_id"`
	Location    string              `json:"location,omitempty"`
	Status      string              `json:"status"`
	RequestDate string              `json:"request_date"`
	DeliveryDay *string             `json:"delivery_day"`
	Notes       *string             `json:"notes"`
	GeneratedBy string              `json:"generated_by"`
	Items       []OrderItemResponse `json:"items"`
	CreatedAt   string              `json:"created_at"`
}

type OrderListResponse struct {
	Data  []OrderResponse `json:"data"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}
