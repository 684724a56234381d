package repository

import "gorm.io/gorm"

// Repositories 仓库集合
type Repositories struct {
	User         *UserRepository
	Reference    *ReferenceRepository
	Item         *ItemRepository
	Procurement  *ProcurementRepository
	Inventory    *InventoryRepository
	StockRequest *StockRequestRepository
	Notification *NotificationRepository
}

func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		User:         NewUserRepository(db),
		Reference:    NewReferenceRepository(db),
		Item:         NewItemRepository(db),
		Procurement:  NewProcurementRepository(db),
		Inventory:    NewInventoryRepository(db),
		StockRequest: NewStockRequestRepository(db),
		Notification: NewNotificationRepository(db),
	}
}
