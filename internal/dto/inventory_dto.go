package dto

import "github.com/shopspring/decimal"

// ─── Inventory counts ────────────────────────────────────────────────────────

// RecordCountRequest upserts the count for (station, product, date):
// re-submitting the same key overwrites the quantity.
type RecordCountRequest struct {
	StationID string          `json:"station_id" validate:"required,uuid"`
	ProductID string          `json:"product_id" validate:"required,uuid"`
	Date      string          `json:"date"       validate:"required,datetime=2006-01-02"`
	Quantity  decimal.Decimal `json:"quantity"   validate:"min=0"`
}

type CountFilter struct {
	StationID string `form:"station_id" validate:"omitempty,uuid"`
	Date      string `form:"date"       validate:"omitempty,datetime=2006-01-02"`
}

type CountResponse struct {
	ID        string          `json:"id"`
	StationID string          `json:"station_id"`
	ProductID string          `json:"product_id"`
	Product   string          `json:"product,omitempty"`
	Date      string          `json:"date"`
	Quantity  decimal.Decimal `json:"quantity"`
}

// ─── Production logs ─────────────────────────────────────────────────────────

// LogProductionRequest appends a production fact; entries are never edited,
// same-day entries for one product are summed downstream.
type LogProductionRequest struct {
	StationID string          `json:"station_id" validate:"required,uuid"`
	ProductID string          `json:"product_id" validate:"required,uuid"`
	Date      string          `json:"date"       validate:"required,datetime=2006-01-02"`
	Quantity  decimal.Decimal `json:"quantity"   validate:"required"`
}

type ProductionResponse struct {
	ID        string          `json:"id"`
	StationID string          `json:"station_id"`
	ProductID string          `json:"product_id"`
	Product   string          `json:"product,omitempty"`
	Date      string          `json:"date"`
	Quantity  decimal.Decimal `json:"quantity"`
}
