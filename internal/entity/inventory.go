package entity

import "time"

// Inventory 每个物品最多一条聚合库存记录，item_id 唯一索引在库表层面保证。
// quantity 只通过采购入库和领用核销变动，任何时刻不为负。
type Inventory struct {
	ID            string    `json:"id" gorm:"primaryKey;size:32"`
	ItemID        string    `json:"item_id" gorm:"size:32;not null;uniqueIndex"`
	Quantity      int       `json:"quantity" gorm:"not null;default:0"`
	ProcurementID *string   `json:"procurement_id" gorm:"size:32"`
	LastUpdated   time.Time `json:"last_updated" gorm:"autoUpdateTime"`
	CreatedAt     time.Time `json:"created_at"`

	Item        *Item        `json:"item,omitempty" gorm:"foreignKey:ItemID"`
	Procurement *Procurement `json:"procurement,omitempty" gorm:"foreignKey:ProcurementID"`
}

func (Inventory) TableName() string {
	return "inventories"
}
