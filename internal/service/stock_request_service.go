package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/bitfantasy/nimo-ims/internal/entity"
	"github.com/bitfantasy/nimo-ims/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// StockRequestService 领用申请工作流: pending -> approved | rejected。
// 审批通过时状态落库与库存核销同一事务提交，核销失败整体回滚，申请保持 pending。
type StockRequestService struct {
	repo      *repository.StockRequestRepository
	itemRepo  *repository.ItemRepository
	inventory *InventoryService
	notify    *NotificationService
	access    *AccessService
	logger    *zap.Logger
}

func NewStockRequestService(repo *repository.StockRequestRepository, itemRepo *repository.ItemRepository, inventory *InventoryService, notify *NotificationService, access *AccessService, logger *zap.Logger) *StockRequestService {
	return &StockRequestService{
		repo:      repo,
		itemRepo:  itemRepo,
		inventory: inventory,
		notify:    notify,
		access:    access,
		logger:    logger,
	}
}

type CreateStockRequestRequest struct {
	ItemID   string `json:"item_id" binding:"required"`
	Quantity int    `json:"quantity" binding:"required,gt=0"`
	Reason   string `json:"reason" binding:"required"`
}

// Create 新建申请，状态强制 pending，随后逐个通知管理员。
// 通知尽力而为: 失败只记日志，不影响申请本身。
func (s *StockRequestService) Create(ctx context.Context, req CreateStockRequestRequest, userID string) (*entity.StockRequest, error) {
	if req.Quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity must be positive", ErrValidation)
	}
	item, err := s.itemRepo.GetByID(ctx, req.ItemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: item %s", ErrNotFound, req.ItemID)
		}
		return nil, err
	}
	requester, err := s.access.GetActor(ctx, userID)
	if err != nil {
		return nil, err
	}

	sr := &entity.StockRequest{
		ID:       uuid.New().String(),
		UserID:   userID,
		ItemID:   req.ItemID,
		Quantity: req.Quantity,
		Reason:   req.Reason,
		Status:   entity.RequestStatusPending,
	}
	if err := s.repo.Create(ctx, sr); err != nil {
		return nil, fmt.Errorf("failed to create stock request: %w", err)
	}

	s.notifyAdmins(ctx, sr, requester, item)
	return sr, nil
}

func (s *StockRequestService) notifyAdmins(ctx context.Context, sr *entity.StockRequest, requester *entity.User, item *entity.Item) {
	admins, err := s.access.ListAdmins(ctx)
	if err != nil {
		s.logger.Warn("failed to resolve admin recipients",
			zap.String("request_id", sr.ID), zap.Error(err))
		return
	}
	message := fmt.Sprintf("New stock request from %s for %d %s",
		requester.Username, sr.Quantity, item.Name)
	details := entity.JSONB{
		"request_id": sr.ID,
		"user_id":    sr.UserID,
		"item_id":    sr.ItemID,
		"quantity":   sr.Quantity,
	}
	for _, admin := range admins {
		if _, err := s.notify.Notify(ctx, admin.ID, entity.NotificationTypeStockRequest, message, details); err != nil {
			s.logger.Warn("failed to notify admin",
				zap.String("request_id", sr.ID),
				zap.String("admin_id", admin.ID),
				zap.Error(err))
		}
	}
}

// SetStatus 管理员流转申请状态。终态后的再次流转返回 ErrConflict，
// 重复设置相同状态幂等返回当前记录。审批通过在事务内扣减库存。
// 状态写入以读取到的旧状态为条件，并发流转只有一方能提交，落败方拿到 ErrConflict。
func (s *StockRequestService) SetStatus(ctx context.Context, requestID, newStatus, actorID string) (*entity.StockRequest, error) {
	if !entity.ValidRequestStatus(newStatus) {
		return nil, fmt.Errorf("%w: status must be 'pending', 'approved' or 'rejected'", ErrInvalidStatus)
	}
	if err := s.access.RequireAdmin(ctx, actorID); err != nil {
		return nil, err
	}

	sr, err := s.repo.GetByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: stock request %s", ErrNotFound, requestID)
		}
		return nil, err
	}

	if sr.Status == newStatus {
		return sr, nil
	}
	if sr.Terminal() {
		return nil, fmt.Errorf("%w: request already %s", ErrConflict, sr.Status)
	}

	err = s.repo.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		affected, err := s.repo.UpdateStatus(ctx, tx, sr.ID, sr.Status, newStatus)
		if err != nil {
			return fmt.Errorf("failed to update status: %w", err)
		}
		if affected == 0 {
			return fmt.Errorf("%w: request was updated concurrently", ErrConflict)
		}
		if newStatus == entity.RequestStatusApproved {
			if _, err := s.inventory.ApplyConsumption(ctx, tx, sr.ItemID, sr.Quantity); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sr.Status = newStatus
	s.notifyRequester(ctx, sr)
	return sr, nil
}

func (s *StockRequestService) notifyRequester(ctx context.Context, sr *entity.StockRequest) {
	itemName := sr.ItemID
	if sr.Item != nil {
		itemName = sr.Item.Name
	}
	message := fmt.Sprintf("Your stock request for %d %s has been %s",
		sr.Quantity, itemName, sr.Status)
	details := entity.JSONB{
		"request_id": sr.ID,
		"status":     sr.Status,
	}
	if _, err := s.notify.Notify(ctx, sr.UserID, entity.NotificationTypeStockRequest, message, details); err != nil {
		s.logger.Warn("failed to notify requester",
			zap.String("request_id", sr.ID),
			zap.String("user_id", sr.UserID),
			zap.Error(err))
	}
}

// Get 管理员可见全部，普通用户只能看自己的申请
func (s *StockRequestService) Get(ctx context.Context, id, actorID string) (*entity.StockRequest, error) {
	sr, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: stock request %s", ErrNotFound, id)
		}
		return nil, err
	}
	if sr.UserID != actorID {
		admin, err := s.access.IsAdmin(ctx, actorID)
		if err != nil {
			return nil, err
		}
		if !admin {
			return nil, fmt.Errorf("%w: not the request owner", ErrForbidden)
		}
	}
	return sr, nil
}

func (s *StockRequestService) List(ctx context.Context, actorID, status string, page, size int) ([]entity.StockRequest, int64, error) {
	admin, err := s.access.IsAdmin(ctx, actorID)
	if err != nil {
		return nil, 0, err
	}
	params := repository.StockRequestListParams{Status: status, Page: page, Size: size}
	if !admin {
		params.UserID = actorID
	}
	return s.repo.List(ctx, params)
}
