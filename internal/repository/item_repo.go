package repository

import (
	"context"

	"github.com/bitfantasy/nimo-ims/internal/entity"
	"gorm.io/gorm"
)

type ItemRepository struct {
	db *gorm.DB
}

func NewItemRepository(db *gorm.DB) *ItemRepository {
	return &ItemRepository{db: db}
}

func (r *ItemRepository) List(ctx context.Context, page, size int) ([]entity.Item, int64, error) {
	query := r.db.WithContext(ctx).Model(&entity.Item{})
	var total int64
	query.Count(&total)
	if page <= 0 {
		page = 1
	}
	if size <= 0 {
		size = 20
	}
	var items []entity.Item
	err := query.Preload("Category").Order("name").
		Offset((page - 1) * size).Limit(size).Find(&items).Error
	return items, total, err
}

func (r *ItemRepository) GetByID(ctx context.Context, id string) (*entity.Item, error) {
	var item entity.Item
	err := r.db.WithContext(ctx).Preload("Category").First(&item, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *ItemRepository) Create(ctx context.Context, item *entity.Item) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *ItemRepository) Update(ctx context.Context, item *entity.Item) error {
	return r.db.WithContext(ctx).Save(item).Error
}

func (r *ItemRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&entity.Item{}, "id = ?", id).Error
}
