package service

import (
	"context"
	"errors"

	"kitchenops/internal/dto"
	"kitchenops/internal/model"
	"kitchenops/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProductService defines the business logic contract for the product catalog.
type ProductService interface {
	Create(ctx context.Context, req dto.CreateProductRequest) (*dto.ProductResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error)
	List(ctx context.Context, filter dto.ProductFilter) (*dto.ProductListResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateProductRequest) (*dto.ProductResponse, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
	Reactivate(ctx context.Context, id uuid.UUID) error
}

type productService struct {
	repo repository.ProductRepository
}

func NewProductService(repo repository.ProductRepository) ProductService {
	return &productService{repo: repo}
}

func (s *productService) Create(ctx context.Context, req dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if _, err := s.repo.FindByCode(ctx, req.Code); err == nil {
		return nil, errors.New("a product with this code already exists")
	}
	// conversion_factor > 0 is enforced by the validator tag; the check here
	// covers callers that bypass HTTP binding
	if !req.ConversionFactor.IsPositive() {
		return nil, errors.New("conversion_factor must be greater than zero")
	}

	p := &model.Product{
		Code:             req.Code,
		Name:             req.Name,
		Category:         req.Category,
		UnitOfMeasure:    req.UnitOfMeasure,
		UnitOfOrder:      req.UnitOfOrder,
		ConversionFactor: req.ConversionFactor,
		UnitCost:         req.UnitCost,
		DeliveryDay:      req.DeliveryDay,
		Active:           true,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return productToResponse(p), nil
}

func (s *productService) GetByID(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return productToResponse(p), nil
}

func (s *productService) List(ctx context.Context, filter dto.ProductFilter) (*dto.ProductListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 20
	}
	products, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.ProductResponse, 0, len(products))
	for i := range products {
		data = append(data, *productToResponse(&products[i]))
	}
	return &dto.ProductListResponse{
		Data:  data,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

// Update changes catalog attributes only. Snapshots on existing order items
// are untouched: historical orders keep the values current at generation time.
func (s *productService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.Category != nil {
		p.Category = *req.Category
	}
	if req.UnitOfMeasure != nil {
		p.UnitOfMeasure = *req.UnitOfMeasure
	}
	if req.UnitOfOrder != nil {
		p.UnitOfOrder = *req.UnitOfOrder
	}
	if req.ConversionFactor != nil {
		if !req.ConversionFactor.IsPositive() {
			return nil, errors.New("conversion_factor must be greater than zero")
		}
		p.ConversionFactor = *req.ConversionFactor
	}
	if req.UnitCost != nil {
		p.UnitCost = req.UnitCost
	}
	if req.DeliveryDay != nil {
		p.DeliveryDay = req.DeliveryDay
	}

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return productToResponse(p), nil
}

func (s *productService) Deactivate(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	return s.repo.SetActive(ctx, id, false)
}

func (s *productService) Reactivate(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProductNotFound
		}
		return err
	}
	return s.repo.SetActive(ctx, id, true)
}

func productToResponse(p *model.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:               p.ID.String(),
		Code:             p.Code,
		Name:             p.Name,
		Category:         p.Category,
		UnitOfMeasure:    p.UnitOfMeasure,
		UnitOfOrder:      p.UnitOfOrder,
		ConversionFactor: p.ConversionFactor,
		UnitCost:         p.UnitCost,
		DeliveryDay:      p.DeliveryDay,
		Active:           p.Active,
	}
}
