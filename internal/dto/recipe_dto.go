package dto

import "github.com/shopspring/decimal"

// ─── Recipes ─────────────────────────────────────────────────────────────────

type RecipeIngredientRequest struct {
	ProductID string          `json:"product_id" validate:"required,uuid"`
	Quantity  decimal.Decimal `json:"quantity"   validate:"required"`
}

type CreateRecipeRequest struct {
	Name        string                    `json:"name"        validate:"required,min=2,max=120"`
	LocationID  *string                   `json:"location_id" validate:"omitempty,uuid"`
	YieldQty    decimal.Decimal           `json:"yield_qty"   validate:"required,gt=0"`
	YieldUnit   string                    `json:"yield_unit"  validate:"required"`
	Ingredients []RecipeIngredientRequest `json:"ingredients" validate:"required,min=1,dive"`
}

type RecipeIngredientResponse struct {
	ProductID string          `json:"product_id"`
	Product   string          `json:"product,omitempty"`
	Quantity  decimal.Decimal `json:"quantity"`
}

type RecipeResponse struct {
	ID          string                     `json:"id"`
	Name        string                     `json:"name"`
	LocationID  *string                    `json:"location_id"`
	YieldQty    decimal.Decimal            `json:"yield_qty"`
	YieldUnit   string                     `json:"yield_unit"`
	Active      bool                       `json:"active"`
	Ingredients []RecipeIngredientResponse `json:"ingredients"`
}

// RecipeCostResponse is the costed breakdown of one recipe batch.
// Ingredients whose product has no unit cost contribute zero and are flagged.
type RecipeCostResponse struct {
	RecipeID      string          `json:"recipe_id"`
	Name          string          `json:"name"`
	BatchCost     decimal.Decimal `json:"batch_cost"`
	CostPerYield  decimal.Decimal `json:"cost_per_yield_unit"`
	YieldQty      decimal.Decimal `json:"yield_qty"`
	YieldUnit     string          `json:"yield_unit"`
	UncostedItems []string        `json:"uncosted_items,omitempty"`
}
