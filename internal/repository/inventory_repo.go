package repository

import (
	"context"
	"time"

	"github.com/bitfantasy/nimo-ims/internal/entity"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type InventoryRepository struct {
	db *gorm.DB
}

func NewInventoryRepository(db *gorm.DB) *InventoryRepository {
	return &InventoryRepository{db: db}
}

func (r *InventoryRepository) GetByItem(ctx context.Context, itemID string) (*entity.Inventory, error) {
	var inv entity.Inventory
	err := r.db.WithContext(ctx).Preload("Item").
		Where("item_id = ?", itemID).First(&inv).Error
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *InventoryRepository) List(ctx context.Context, page, size int) ([]entity.Inventory, int64, error) {
	query := r.db.WithContext(ctx).Model(&entity.Inventory{})
	var total int64
	query.Count(&total)
	if page <= 0 {
		page = 1
	}
	if size <= 0 {
		size = 20
	}
	var items []entity.Inventory
	err := query.Preload("Item").Order("last_updated DESC").
		Offset((page - 1) * size).Limit(size).Find(&items).Error
	return items, total, err
}

// ListAll 导出用，不分页
func (r *InventoryRepository) ListAll(ctx context.Context) ([]entity.Inventory, error) {
	var items []entity.Inventory
	err := r.db.WithContext(ctx).Preload("Item").Order("last_updated DESC").Find(&items).Error
	return items, err
}

// Receive 入库。单条 ON CONFLICT upsert: 不存在则建行，存在则在数据库侧累加，
// 并发入库由 item_id 唯一索引串行化，不会丢失更新。
func (r *InventoryRepository) Receive(ctx context.Context, tx *gorm.DB, inv *entity.Inventory) error {
	if tx == nil {
		tx = r.db
	}
	return tx.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "item_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"quantity":       gorm.Expr("inventories.quantity + ?", inv.Quantity),
			"procurement_id": inv.ProcurementID,
			"last_updated":   time.Now(),
		}),
	}).Create(inv).Error
}

// Consume 出库。条件更新保证扣减不越过零: 行不存在或余量不足时影响行数为 0，
// 由调用方区分两种失败。
func (r *InventoryRepository) Consume(ctx context.Context, tx *gorm.DB, itemID string, quantity int) (int64, error) {
	if tx == nil {
		tx = r.db
	}
	res := tx.WithContext(ctx).Model(&entity.Inventory{}).
		Where("item_id = ? AND quantity >= ?", itemID, quantity).
		Updates(map[string]interface{}{
			"quantity":     gorm.Expr("quantity - ?", quantity),
			"last_updated": time.Now(),
		})
	return res.RowsAffected, res.Error
}

// Exists 仅判断聚合行是否存在
func (r *InventoryRepository) Exists(ctx context.Context, tx *gorm.DB, itemID string) (bool, error) {
	if tx == nil {
		tx = r.db
	}
	var count int64
	err := tx.WithContext(ctx).Model(&entity.Inventory{}).
		Where("item_id = ?", itemID).Count(&count).Error
	return count > 0, err
}

// DB 返回底层db用于事务
func (r *InventoryRepository) DB() *gorm.DB {
	return r.db
}
