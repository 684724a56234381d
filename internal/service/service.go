package service

import (
	"github.com/bitfantasy/nimo-ims/internal/config"
	"github.com/bitfantasy/nimo-ims/internal/repository"
	"github.com/minio/minio-go/v7"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Services 服务集合
type Services struct {
	Auth         *AuthService
	Access       *AccessService
	Reference    *ReferenceService
	Item         *ItemService
	Procurement  *ProcurementService
	Inventory    *InventoryService
	StockRequest *StockRequestService
	Notification *NotificationService
}

func NewServices(repos *repository.Repositories, rdb *redis.Client, store *minio.Client, cfg *config.Config, logger *zap.Logger) *Services {
	access := NewAccessService(repos.User)
	inventory := NewInventoryService(repos.Inventory)
	notification := NewNotificationService(repos.Notification)
	return &Services{
		Auth:         NewAuthService(repos.User, rdb, cfg),
		Access:       access,
		Reference:    NewReferenceService(repos.Reference),
		Item:         NewItemService(repos.Item, repos.Reference),
		Procurement:  NewProcurementService(repos.Procurement, repos.Item, inventory, store, cfg.MinIO.Bucket),
		Inventory:    inventory,
		StockRequest: NewStockRequestService(repos.StockRequest, repos.Item, inventory, notification, access, logger),
		Notification: notification,
	}
}
