package dto

import "github.com/shopspring/decimal"

// ─── Weekly consumption ──────────────────────────────────────────────────────

type CalculateConsumptionRequest struct {
	LocationID string `json:"location_id" validate:"required,uuid"`
	WeekStart  string `json:"week_start"  validate:"required,datetime=2006-01-02"`
	WeekEnd    string `json:"week_end"    validate:"required,datetime=2006-01-02"`
}

type CalculateConsumptionResponse struct {
	Calculated int `json:"calculated"`
}

// LocationCalcResult is one entry of the batch recompute summary.
// Failed locations report zero and never abort their siblings.
type LocationCalcResult struct {
	LocationID string `json:"location_id"`
	Location   string `json:"location"`
	Calculated int    `json:"calculated"`
	Error      string `json:"error,omitempty"`
}

type CalculateAllResponse struct {
	Results []LocationCalcResult `json:"results"`
}

type ConsumptionEntryResponse struct {
	ProductID   string          `json:"product_id"`
	Product     string          `json:"product,omitempty"`
	StationID   string          `json:"station_id"`
	Station     string          `json:"station,omitempty"`
	WeekStart   string          `json:"week_start"`
	WeekEnd     string          `json:"week_end"`
	Consumption decimal.Decimal `json:"consumption"`
}
