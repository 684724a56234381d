package entity

import "time"

// NotificationType 通知类型
const (
	NotificationTypeStockRequest = "stockRequest"
	NotificationTypeSystem       = "system"
	NotificationTypeInventory    = "inventory"
)

// Notification 用户站内通知，创建后仅 read 标记可变
type Notification struct {
	ID        string    `json:"id" gorm:"primaryKey;size:32"`
	UserID    string    `json:"user_id" gorm:"size:32;not null;index"`
	Message   string    `json:"message" gorm:"type:text;not null"`
	Type      string    `json:"type" gorm:"size:20;not null"`
	Read      bool      `json:"read" gorm:"not null;default:false"`
	Details   JSONB     `json:"details,omitempty" gorm:"type:jsonb"`
	CreatedAt time.Time `json:"created_at"`

	User *User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

func (Notification) TableName() string {
	return "notifications"
}
