package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Recipe costs a menu item or prep from its ingredient products.
type Recipe struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name       string     `gorm:"not null"`
	LocationID *uuid.UUID `gorm:"type:uuid;index"` // nil = shared across locations
	// YieldQty/YieldUnit describe what one batch produces (e.g. 4.5 kg of dough)
	YieldQty  decimal.Decimal `gorm:"type:decimal(12,4);not null;default:1"`
	YieldUnit string          `gorm:"not null;default:'unit'"`
	Active    bool            `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Ingredients []RecipeIngredient `gorm:"foreignKey:RecipeID"`
}

// RecipeIngredient is one product line in a recipe, in internal units.
type RecipeIngredient struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	RecipeID  uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_recipe_product"`
	ProductID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_recipe_product"`
	Quantity  decimal.Decimal `gorm:"type:decimal(12,4);not null"`
	CreatedAt time.Time

	Product *Product `gorm:"foreignKey:ProductID"`
}
