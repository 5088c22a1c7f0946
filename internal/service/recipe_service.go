package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"kitchenops/internal/dto"
	"kitchenops/internal/model"
	"kitchenops/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const recipeCostCacheTTL = 15 * time.Minute

// RecipeService manages recipes and costs them from current product prices.
type RecipeService interface {
	Create(ctx context.Context, req dto.CreateRecipeRequest) (*dto.RecipeResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*dto.RecipeResponse, error)
	List(ctx context.Context, locationID *uuid.UUID) ([]dto.RecipeResponse, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
	// Cost prices one batch at current product unit costs. Results are cached
	// in Redis; product cost edits surface after the TTL at the latest.
	Cost(ctx context.Context, id uuid.UUID) (*dto.RecipeCostResponse, error)
}

type recipeService struct {
	repo        repository.RecipeRepository
	productRepo repository.ProductRepository
	rdb         *redis.Client
}

func NewRecipeService(repo repository.RecipeRepository, productRepo repository.ProductRepository, rdb *redis.Client) RecipeService {
	return &recipeService{repo: repo, productRepo: productRepo, rdb: rdb}
}

func (s *recipeService) Create(ctx context.Context, req dto.CreateRecipeRequest) (*dto.RecipeResponse, error) {
	var locationID *uuid.UUID
	if req.LocationID != nil {
		lid, err := uuid.Parse(*req.LocationID)
		if err != nil {
			return nil, errors.New("invalid location_id")
		}
		locationID = &lid
	}

	ingredients := make([]model.RecipeIngredient, 0, len(req.Ingredients))
	for _, ing := range req.Ingredients {
		pid, err := uuid.Parse(ing.ProductID)
		if err != nil {
			return nil, fmt.Errorf("invalid product_id %q", ing.ProductID)
		}
		if _, err := s.productRepo.FindByID(ctx, pid); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrProductNotFound
			}
			return nil, err
		}
		if !ing.Quantity.IsPositive() {
			return nil, errors.New("ingredient quantity must be greater than zero")
		}
		ingredients = append(ingredients, model.RecipeIngredient{
			ProductID: pid,
			Quantity:  ing.Quantity,
		})
	}

	rec := &model.Recipe{
		Name:        req.Name,
		LocationID:  locationID,
		YieldQty:    req.YieldQty,
		YieldUnit:   req.YieldUnit,
		Active:      true,
		Ingredients: ingredients,
	}
	if err := s.repo.Create(ctx, rec); err != nil {
		return nil, err
	}
	return s.GetByID(ctx, rec.ID)
}

func (s *recipeService) GetByID(ctx context.Context, id uuid.UUID) (*dto.RecipeResponse, error) {
	rec, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecipeNotFound
		}
		return nil, err
	}
	return recipeToResponse(rec), nil
}

func (s *recipeService) List(ctx context.Context, locationID *uuid.UUID) ([]dto.RecipeResponse, error) {
	recipes, err := s.repo.List(ctx, locationID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.RecipeResponse, 0, len(recipes))
	for i := range recipes {
		out = append(out, *recipeToResponse(&recipes[i]))
	}
	return out, nil
}

func (s *recipeService) Deactivate(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	if s.rdb != nil {
		_ = s.rdb.Del(ctx, recipeCostCacheKey(id)).Err()
	}
	return s.repo.SetActive(ctx, id, false)
}

func recipeCostCacheKey(id uuid.UUID) string { return "recipe_cost:" + id.String() }

func (s *recipeService) Cost(ctx context.Context, id uuid.UUID) (*dto.RecipeCostResponse, error) {
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, recipeCostCacheKey(id)).Bytes(); err == nil {
			var resp dto.RecipeCostResponse
			if jsonErr := json.Unmarshal(cached, &resp); jsonErr == nil {
				return &resp, nil
			}
		}
	}

	rec, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecipeNotFound
		}
		return nil, err
	}

	batchCost := decimal.Zero
	var uncosted []string
	for _, ing := range rec.Ingredients {
		if ing.Product == nil || ing.Product.UnitCost == nil {
			name := ing.ProductID.String()
			if ing.Product != nil {
				name = ing.Product.Name
			}
			uncosted = append(uncosted, name)
			continue
		}
		batchCost = batchCost.Add(ing.Quantity.Mul(*ing.Product.UnitCost))
	}

	costPerYield := decimal.Zero
	if rec.YieldQty.IsPositive() {
		costPerYield = batchCost.DivRound(rec.YieldQty, 4)
	}

	resp := &dto.RecipeCostResponse{
		RecipeID:      rec.ID.String(),
		Name:          rec.Name,
		BatchCost:     batchCost,
		CostPerYield:  costPerYield,
		YieldQty:      rec.YieldQty,
		YieldUnit:     rec.YieldUnit,
		UncostedItems: uncosted,
	}

	if s.rdb != nil {
		if b, jsonErr := json.Marshal(resp); jsonErr == nil {
			_ = s.rdb.Set(ctx, recipeCostCacheKey(id), b, recipeCostCacheTTL).Err()
		}
	}
	return resp, nil
}

func recipeToResponse(rec *model.Recipe) *dto.RecipeResponse {
	ingredients := make([]dto.RecipeIngredientResponse, 0, len(rec.Ingredients))
	for _, ing := range rec.Ingredients {
		name := ""
		if ing.Product != nil {
			name = ing.Product.Name
		}
		ingredients = append(ingredients, dto.RecipeIngredientResponse{
			ProductID: ing.ProductID.String(),
			Product:   name,
			Quantity:  ing.Quantity,
		})
	}
	var locationID *string
	if rec.LocationID != nil {
		str := rec.LocationID.String()
		locationID = &str
	}
	return &dto.RecipeResponse{
		ID:          rec.ID.String(),
		Name:        rec.Name,
		LocationID:  locationID,
		YieldQty:    rec.YieldQty,
		YieldUnit:   rec.YieldUnit,
		Active:      rec.Active,
		Ingredients: ingredients,
	}
}
