package repository

import (
	"context"

	"github.com/bitfantasy/nimo-ims/internal/entity"
	"gorm.io/gorm"
)

type StockRequestRepository struct {
	db *gorm.DB
}

func NewStockRequestRepository(db *gorm.DB) *StockRequestRepository {
	return &StockRequestRepository{db: db}
}

func (r *StockRequestRepository) Create(ctx context.Context, req *entity.StockRequest) error {
	return r.db.WithContext(ctx).Create(req).Error
}

func (r *StockRequestRepository) GetByID(ctx context.Context, id string) (*entity.StockRequest, error) {
	var req entity.StockRequest
	err := r.db.WithContext(ctx).Preload("Item").Preload("User").
		First(&req, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &req, nil
}

// UpdateStatus 条件更新: 仅当当前状态仍为 from 时写入 to，返回影响行数。
// 并发流转输掉竞争时影响行数为 0，由服务层置于事务中与库存扣减一并提交。
func (r *StockRequestRepository) UpdateStatus(ctx context.Context, tx *gorm.DB, id, from, to string) (int64, error) {
	if tx == nil {
		tx = r.db
	}
	res := tx.WithContext(ctx).Model(&entity.StockRequest{}).
		Where("id = ? AND status = ?", id, from).Update("status", to)
	return res.RowsAffected, res.Error
}

type StockRequestListParams struct {
	UserID string
	Status string
	Page   int
	Size   int
}

func (r *StockRequestRepository) List(ctx context.Context, params StockRequestListParams) ([]entity.StockRequest, int64, error) {
	query := r.db.WithContext(ctx).Model(&entity.StockRequest{})
	if params.UserID != "" {
		query = query.Where("user_id = ?", params.UserID)
	}
	if params.Status != "" {
		query = query.Where("status = ?", params.Status)
	}
	var total int64
	query.Count(&total)
	if params.Page <= 0 {
		params.Page = 1
	}
	if params.Size <= 0 {
		params.Size = 20
	}
	var items []entity.StockRequest
	err := query.Preload("Item").Preload("User").Order("created_at DESC").
		Offset((params.Page - 1) * params.Size).Limit(params.Size).Find(&items).Error
	return items, total, err
}

// DB 返回底层db用于事务
func (r *StockRequestRepository) DB() *gorm.DB {
	return r.db
}
