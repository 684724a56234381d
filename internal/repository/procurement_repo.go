package repository

import (
	"context"

	"github.com/bitfantasy/nimo-ims/internal/entity"
	"gorm.io/gorm"
)

type ProcurementRepository struct {
	db *gorm.DB
}

func NewProcurementRepository(db *gorm.DB) *ProcurementRepository {
	return &ProcurementRepository{db: db}
}

func (r *ProcurementRepository) Create(ctx context.Context, tx *gorm.DB, p *entity.Procurement) error {
	if tx == nil {
		tx = r.db
	}
	return tx.WithContext(ctx).Create(p).Error
}

func (r *ProcurementRepository) GetByID(ctx context.Context, id string) (*entity.Procurement, error) {
	var p entity.Procurement
	err := r.db.WithContext(ctx).Preload("Item").Preload("AddedUser").
		First(&p, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProcurementRepository) Update(ctx context.Context, p *entity.Procurement) error {
	return r.db.WithContext(ctx).Save(p).Error
}

type ProcurementListParams struct {
	ItemID string
	Type   string
	Page   int
	Size   int
}

func (r *ProcurementRepository) List(ctx context.Context, params ProcurementListParams) ([]entity.Procurement, int64, error) {
	query := r.db.WithContext(ctx).Model(&entity.Procurement{})
	if params.ItemID != "" {
		query = query.Where("item_id = ?", params.ItemID)
	}
	if params.Type != "" {
		query = query.Where("procurement_type = ?", params.Type)
	}
	var total int64
	query.Count(&total)
	if params.Page <= 0 {
		params.Page = 1
	}
	if params.Size <= 0 {
		params.Size = 20
	}
	var items []entity.Procurement
	err := query.Preload("Item").Order("procurement_date DESC").
		Offset((params.Page - 1) * params.Size).Limit(params.Size).Find(&items).Error
	return items, total, err
}

// DB 返回底层db用于事务
func (r *ProcurementRepository) DB() *gorm.DB {
	return r.db
}
