package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bitfantasy/nimo-ims/internal/entity"
	"github.com/bitfantasy/nimo-ims/internal/repository"
	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// InventoryService 库存台账。每个物品一条聚合行，入库累加、核销扣减，
// 两类变更都在数据库侧单语句完成，同一物品的并发变更天然串行。
type InventoryService struct {
	repo *repository.InventoryRepository
}

func NewInventoryService(repo *repository.InventoryRepository) *InventoryService {
	return &InventoryService{repo: repo}
}

func (s *InventoryService) List(ctx context.Context, page, size int) ([]entity.Inventory, int64, error) {
	return s.repo.List(ctx, page, size)
}

func (s *InventoryService) GetByItem(ctx context.Context, itemID string) (*entity.Inventory, error) {
	inv, err := s.repo.GetByItem(ctx, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: no inventory for item %s", ErrItemNotTracked, itemID)
		}
		return nil, err
	}
	return inv, nil
}

// ApplyReceipt 入库: 无聚合行则创建，有则累加，并指向本次采购。
// tx 为 nil 时在独立事务外执行（单语句本身原子）。
func (s *InventoryService) ApplyReceipt(ctx context.Context, tx *gorm.DB, itemID string, quantity int, procurementID string) (*entity.Inventory, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity must be positive", ErrValidation)
	}
	pid := procurementID
	inv := &entity.Inventory{
		ID:            uuid.New().String(),
		ItemID:        itemID,
		Quantity:      quantity,
		ProcurementID: &pid,
		LastUpdated:   time.Now(),
	}
	if err := s.repo.Receive(ctx, tx, inv); err != nil {
		return nil, fmt.Errorf("failed to apply receipt: %w", err)
	}
	return s.currentRow(ctx, tx, itemID)
}

// ApplyConsumption 核销: 行缺失返回 ErrItemNotTracked，余量不足返回
// ErrInsufficientStock，两种失败都不改动库存。
func (s *InventoryService) ApplyConsumption(ctx context.Context, tx *gorm.DB, itemID string, quantity int) (*entity.Inventory, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity must be positive", ErrValidation)
	}
	affected, err := s.repo.Consume(ctx, tx, itemID, quantity)
	if err != nil {
		return nil, fmt.Errorf("failed to apply consumption: %w", err)
	}
	if affected == 0 {
		exists, err := s.repo.Exists(ctx, tx, itemID)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, fmt.Errorf("%w: item %s", ErrItemNotTracked, itemID)
		}
		return nil, fmt.Errorf("%w: requested %d for item %s", ErrInsufficientStock, quantity, itemID)
	}
	return s.currentRow(ctx, tx, itemID)
}

func (s *InventoryService) currentRow(ctx context.Context, tx *gorm.DB, itemID string) (*entity.Inventory, error) {
	if tx == nil {
		return s.repo.GetByItem(ctx, itemID)
	}
	var inv entity.Inventory
	if err := tx.WithContext(ctx).Where("item_id = ?", itemID).First(&inv).Error; err != nil {
		return nil, err
	}
	return &inv, nil
}

// ExportXLSX 当前库存导出
func (s *InventoryService) ExportXLSX(ctx context.Context) (*excelize.File, error) {
	rows, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load inventory: %w", err)
	}

	f := excelize.NewFile()
	sheet := "Inventory"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"Item", "Quantity", "Last Procurement", "Last Updated"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	for i, row := range rows {
		name := row.ItemID
		if row.Item != nil {
			name = row.Item.Name
		}
		procurement := ""
		if row.ProcurementID != nil {
			procurement = *row.ProcurementID
		}
		values := []interface{}{name, row.Quantity, procurement, row.LastUpdated.Format("2006-01-02 15:04:05")}
		for j, v := range values {
			cell, _ := excelize.CoordinatesToCellName(j+1, i+2)
			f.SetCellValue(sheet, cell, v)
		}
	}
	return f, nil
}
