package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/bitfantasy/nimo-ims/internal/entity"
	"github.com/bitfantasy/nimo-ims/internal/repository"
	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ProcurementService 采购录入。采购记录追加写入后不再变更，
// 记录与库存入库在同一事务内提交。
type ProcurementService struct {
	repo      *repository.ProcurementRepository
	itemRepo  *repository.ItemRepository
	inventory *InventoryService
	store     *minio.Client
	bucket    string
}

func NewProcurementService(repo *repository.ProcurementRepository, itemRepo *repository.ItemRepository, inventory *InventoryService, store *minio.Client, bucket string) *ProcurementService {
	return &ProcurementService{repo: repo, itemRepo: itemRepo, inventory: inventory, store: store, bucket: bucket}
}

type RecordProcurementRequest struct {
	ItemID          string          `json:"item_id" binding:"required"`
	ProcurementType string          `json:"procurement_type" binding:"required"`
	Supplier        string          `json:"supplier" binding:"required"`
	Quantity        int             `json:"quantity" binding:"required,gt=0"`
	UnitPrice       decimal.Decimal `json:"unit_price" binding:"required"`
	ProcurementDate string          `json:"procurement_date" binding:"required"` // YYYY-MM-DD
	DocumentType    string          `json:"document_type"`
}

// Record 持久化采购事件并入账库存，两步一个事务，失败整体回滚。
func (s *ProcurementService) Record(ctx context.Context, req RecordProcurementRequest, userID string) (*entity.Procurement, error) {
	if !entity.ValidProcurementType(req.ProcurementType) {
		return nil, fmt.Errorf("%w: unknown procurement type %q", ErrValidation, req.ProcurementType)
	}
	if !entity.ValidDocumentType(req.DocumentType) {
		return nil, fmt.Errorf("%w: unknown document type %q", ErrValidation, req.DocumentType)
	}
	if req.Quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity must be positive", ErrValidation)
	}
	if req.UnitPrice.IsNegative() {
		return nil, fmt.Errorf("%w: unit price must not be negative", ErrValidation)
	}
	date, err := time.Parse("2006-01-02", req.ProcurementDate)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid procurement date %q", ErrValidation, req.ProcurementDate)
	}

	if _, err := s.itemRepo.GetByID(ctx, req.ItemID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: item %s", ErrNotFound, req.ItemID)
		}
		return nil, err
	}

	creator := userID
	p := &entity.Procurement{
		ID:              uuid.New().String(),
		ItemID:          req.ItemID,
		ProcurementType: req.ProcurementType,
		Supplier:        req.Supplier,
		Quantity:        req.Quantity,
		UnitPrice:       req.UnitPrice,
		ProcurementDate: date,
		AddedBy:         &creator,
		DocumentType:    req.DocumentType,
	}

	err = s.repo.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.Create(ctx, tx, p); err != nil {
			return fmt.Errorf("failed to create procurement: %w", err)
		}
		if _, err := s.inventory.ApplyReceipt(ctx, tx, p.ItemID, p.Quantity, p.ID); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (s *ProcurementService) Get(ctx context.Context, id string) (*entity.Procurement, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: procurement %s", ErrNotFound, id)
		}
		return nil, err
	}
	return p, nil
}

func (s *ProcurementService) List(ctx context.Context, params repository.ProcurementListParams) ([]entity.Procurement, int64, error) {
	return s.repo.List(ctx, params)
}

// AttachDocument 上传采购凭证到对象存储并回写对象键
func (s *ProcurementService) AttachDocument(ctx context.Context, id, filename, contentType string, reader io.Reader, size int64) (*entity.Procurement, error) {
	if s.store == nil {
		return nil, fmt.Errorf("document storage is not configured")
	}
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	key := path.Join("procurements", p.ID, filename)
	_, err = s.store.PutObject(ctx, s.bucket, key, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload document: %w", err)
	}

	p.DocumentKey = key
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to save document key: %w", err)
	}
	return p, nil
}

// DownloadDocument 读取采购凭证对象
func (s *ProcurementService) DownloadDocument(ctx context.Context, id string) (io.ReadCloser, string, error) {
	if s.store == nil {
		return nil, "", fmt.Errorf("document storage is not configured")
	}
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, "", err
	}
	if p.DocumentKey == "" {
		return nil, "", fmt.Errorf("%w: procurement %s has no document", ErrNotFound, id)
	}
	obj, err := s.store.GetObject(ctx, s.bucket, p.DocumentKey, minio.GetObjectOptions{})
	if err != nil {
		return nil, "", fmt.Errorf("failed to fetch document: %w", err)
	}
	return obj, path.Base(p.DocumentKey), nil
}
