package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CreateProductRequest struct {
	Code             string           `json:"code"              validate:"required,min=2,max=40"`
	Name             string           `json:"name"              validate:"required,min=2,max=120"`
	Category         string           `json:"category"          validate:"required"`
	UnitOfMeasure    string           `json:"unit_of_measure"   validate:"required"`
	UnitOfOrder      string           `json:"unit_of_order"     validate:"required"`
	ConversionFactor decimal.Decimal  `json:"conversion_factor" validate:"required,gt=0"`
	UnitCost         *decimal.Decimal `json:"unit_cost"`
	DeliveryDay      *string          `json:"delivery_day"      validate:"omitempty,oneof=monday tuesday wednesday thursday friday saturday sunday"`
}

type UpdateProductRequest struct {
	Name             *string          `json:"name"              validate:"omitempty,min=2,max=120"`
	Category         *string          `json:"category"`
	UnitOfMeasure    *string          `json:"unit_of_measure"`
	UnitOfOrder      *string          `json:"unit_of_order"`
	ConversionFactor *decimal.Decimal `json:"conversion_factor" validate:"omitempty,gt=0"`
	UnitCost         *decimal.Decimal `json:"unit_cost"`
	DeliveryDay      *string          `json:"delivery_day"      validate:"omitempty,oneof=monday tuesday wednesday thursday friday saturday sunday"`
}

// ─── Filter / Pagination ─────────────────────────────────────────────────────

type ProductFilter struct {
	Code        string `form:"code"`
	Name        string `form:"name"`
	Category    string `form:"category"`
	DeliveryDay string `form:"delivery_day"`
	Active      string `form:"active"`
	Page        int    `form:"page,default=1"   validate:"min=1"`
	Limit       int    `form:"limit,default=20" validate:"min=1,max=100"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ProductResponse struct {
	ID               string           `json:"id"`
	Code             string           `json:"code"`
	Name             string           `json:"name"`
	Category         string           `json:"category"`
	UnitOfMeasure    string           `json:"unit_of_measure"`
	UnitOfOrder      string           `json:"unit_of_order"`
	ConversionFactor decimal.Decimal  `json:"conversion_factor"`
	UnitCost         *decimal.Decimal `json:"unit_cost"`
	DeliveryDay      *string          `json:"delivery_day"`
	Active           bool             `json:"active"`
}

type ProductListResponse struct {
	Data  []ProductResponse `json:"data"`
	Total int64             `json:"total"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
}
