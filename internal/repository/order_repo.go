package repository

import (
	"context"

	"kitchenops/internal/dto"
	"kitchenops/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OrderRepository defines the data access contract for purchase orders.
type OrderRepository interface {
	// CreateWithItems persists the order and all its items atomically:
	// either the whole order is visible or none of it.
	CreateWithItems(ctx context.Context, o *model.OrderRequest) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.OrderRequest, error)
	List(ctx context.Context, filter dto.OrderFilter) ([]model.OrderRequest, int64, error)

	// UpdateStatusGuarded transitions the order only when its current status
	// still equals `from`, re-validating the transition at write time.
	// Returns the number of rows updated (0 = lost race or stale read).
	UpdateStatusGuarded(ctx context.Context, id uuid.UUID, from, to string) (int64, error)

	// FindItem looks an item up scoped to its owning order: an item id that
	// belongs to a different order is not found.
	FindItem(ctx context.Context, orderID, itemID uuid.UUID) (*model.OrderItem, error)
	UpdateItem(ctx context.Context, item *model.OrderItem) error
}

type orderRepo struct{ db *gorm.DB }

func NewOrderRepository(db *gorm.DB) OrderRepository { return &orderRepo{db: db} }

func (r *orderRepo) CreateWithItems(ctx context.Context, o *model.OrderRequest) error {
	// gorm creates the parent and the Items association in one transaction
	return r.db.WithContext(ctx).Create(o).Error
}

func (r *orderRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.OrderRequest, error) {
	var o model.OrderRequest
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Preload("Items.Product").
		Preload("Location").
		First(&o, id).Error
	return &o, err
}

func (r *orderRepo) List(ctx context.Context, filter dto.OrderFilter) ([]model.OrderRequest, int64, error) {
	var orders []model.OrderRequest
	var total int64

	q := r.db.WithContext(ctx).Model(&model.OrderRequest{})
	if filter.LocationID != "" {
		q = q.Where("location_id = ?", filter.LocationID)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Preload("Items").Preload("Items.Product").Preload("Location").
		Order("request_date DESC, created_at DESC").
		Limit(filter.Limit).Offset(offset).
		Find(&orders).Error
	return orders, total, err
}

func (r *orderRepo) UpdateStatusGuarded(ctx context.Context, id uuid.UUID, from, to string) (int64, error) {
	res := r.db.WithContext(ctx).Model(&model.OrderRequest{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	return res.RowsAffected, res.Error
}

func (r *orderRepo) FindItem(ctx context.Context, orderID, itemID uuid.UUID) (*model.OrderItem, error) {
	var item model.OrderItem
	err := r.db.WithContext(ctx).
		Where("id = ? AND order_request_id = ?", itemID, orderID).
		First(&item).Error
	return &item, err
}

func (r *orderRepo) UpdateItem(ctx context.Context, item *model.OrderItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}
