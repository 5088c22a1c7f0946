package repository

import (
	"context"

	"kitchenops/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RecipeRepository defines the data access contract for recipes.
type RecipeRepository interface {
	Create(ctx context.Context, rec *model.Recipe) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Recipe, error)
	List(ctx context.Context, locationID *uuid.UUID) ([]model.Recipe, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
}

type recipeRepo struct{ db *gorm.DB }

func NewRecipeRepository(db *gorm.DB) RecipeRepository { return &recipeRepo{db: db} }

func (r *recipeRepo) Create(ctx context.Context, rec *model.Recipe) error {
	return r.db.WithContext(ctx).Create(rec).Error
}

func (r *recipeRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Recipe, error) {
	var rec model.Recipe
	err := r.db.WithContext(ctx).
		Preload("Ingredients").Preload("Ingredients.Product").
		First(&rec, id).Error
	return &rec, err
}

func (r *recipeRepo) List(ctx context.Context, locationID *uuid.UUID) ([]model.Recipe, error) {
	var recipes []model.Recipe
	q := r.db.WithContext(ctx).Preload("Ingredients").Preload("Ingredients.Product").
		Where("active = true")
	if locationID != nil {
		// shared recipes (no location) are visible everywhere
		q = q.Where("location_id = ? OR location_id IS NULL", *locationID)
	}
	err := q.Order("name ASC").Find(&recipes).Error
	return recipes, err
}

func (r *recipeRepo) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	return r.db.WithContext(ctx).Model(&model.Recipe{}).Where("id = ?", id).
		Update("active", active).Error
}
