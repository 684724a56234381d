package entity

import "time"

// StockRequest 状态机: pending -> approved | rejected，审批后为终态
const (
	RequestStatusPending  = "pending"
	RequestStatusApproved = "approved"
	RequestStatusRejected = "rejected"
)

type StockRequest struct {
	ID        string    `json:"id" gorm:"primaryKey;size:32"`
	UserID    string    `json:"user_id" gorm:"size:32;not null;index"`
	ItemID    string    `json:"item_id" gorm:"size:32;not null;index"`
	Quantity  int       `json:"quantity" gorm:"not null"`
	Reason    string    `json:"reason" gorm:"type:text;not null"`
	Status    string    `json:"status" gorm:"size:10;not null;default:pending"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	User *User `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Item *Item `json:"item,omitempty" gorm:"foreignKey:ItemID"`
}

func (StockRequest) TableName() string {
	return "stock_requests"
}

// ValidRequestStatus 校验状态取值
func ValidRequestStatus(s string) bool {
	switch s {
	case RequestStatusPending, RequestStatusApproved, RequestStatusRejected:
		return true
	}
	return false
}

// Terminal 审批通过或驳回后不允许再次流转
func (r *StockRequest) Terminal() bool {
	return r.Status == RequestStatusApproved || r.Status == RequestStatusRejected
}
