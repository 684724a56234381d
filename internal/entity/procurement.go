package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProcurementType 采购来源类型
const (
	ProcurementTypePurchase = "purchase"
	ProcurementTypeDonation = "donation"
	ProcurementTypeTransfer = "transfer"
)

// DocumentType 采购凭证类型
const (
	DocumentTypePurchaseOrder = "Purchase Order"
	DocumentTypeMOU           = "MOU"
	DocumentTypeInternalMemo  = "Internal Memo"
)

// Procurement 采购事件记录，创建后不可变更
type Procurement struct {
	ID              string          `json:"id" gorm:"primaryKey;size:32"`
	ItemID          string          `json:"item_id" gorm:"size:32;not null;index"`
	ProcurementType string          `json:"procurement_type" gorm:"size:20;not null"`
	Supplier        string          `json:"supplier" gorm:"size:100;not null"`
	Quantity        int             `json:"quantity" gorm:"not null"`
	UnitPrice       decimal.Decimal `json:"unit_price" gorm:"type:decimal(10,2);not null"`
	ProcurementDate time.Time       `json:"procurement_date" gorm:"type:date;not null"`
	AddedBy         *string         `json:"added_by" gorm:"size:32"`
	DocumentType    string          `json:"document_type,omitempty" gorm:"size:20"`
	DocumentKey     string          `json:"document_key,omitempty" gorm:"size:256"`
	CreatedAt       time.Time       `json:"created_at"`

	Item      *Item `json:"item,omitempty" gorm:"foreignKey:ItemID"`
	AddedUser *User `json:"added_by_user,omitempty" gorm:"foreignKey:AddedBy"`
}

func (Procurement) TableName() string {
	return "procurements"
}

// TotalPrice 派生值，不落库
func (p *Procurement) TotalPrice() decimal.Decimal {
	return p.UnitPrice.Mul(decimal.NewFromInt(int64(p.Quantity)))
}

// ValidProcurementType 校验来源类型取值
func ValidProcurementType(t string) bool {
	switch t {
	case ProcurementTypePurchase, ProcurementTypeDonation, ProcurementTypeTransfer:
		return true
	}
	return false
}

// ValidDocumentType 校验凭证类型取值，空值表示未提供
func ValidDocumentType(t string) bool {
	switch t {
	case "", DocumentTypePurchaseOrder, DocumentTypeMOU, DocumentTypeInternalMemo:
		return true
	}
	return false
}
