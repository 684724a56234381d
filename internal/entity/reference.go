package entity

import "time"

// 基础参照数据: 部门、存放位置、物品类别

type Department struct {
	ID          string    `json:"id" gorm:"primaryKey;size:32"`
	Name        string    `json:"name" gorm:"size:100;not null"`
	Description string    `json:"description" gorm:"type:text"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Department) TableName() string {
	return "departments"
}

type Location struct {
	ID          string    `json:"id" gorm:"primaryKey;size:32"`
	Name        string    `json:"name" gorm:"size:100;not null"`
	Description string    `json:"description" gorm:"type:text"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Location) TableName() string {
	return "locations"
}

type Category struct {
	ID          string    `json:"id" gorm:"primaryKey;size:32"`
	Name        string    `json:"name" gorm:"size:100;not null"`
	Description string    `json:"description" gorm:"type:text"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Category) TableName() string {
	return "categories"
}

// Item 物品主数据。类别删除时置空，不级联删除物品。
type Item struct {
	ID          string    `json:"id" gorm:"primaryKey;size:32"`
	Name        string    `json:"name" gorm:"size:100;not null"`
	Description string    `json:"description" gorm:"type:text"`
	CategoryID  *string   `json:"category_id" gorm:"size:32;index"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Category *Category `json:"category,omitempty" gorm:"foreignKey:CategoryID;constraint:OnDelete:SET NULL"`
}

func (Item) TableName() string {
	return "items"
}
