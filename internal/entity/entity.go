package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"

	"gorm.io/gorm"
)

// JSONB 用于PostgreSQL JSONB类型
type JSONB map[string]interface{}

func (j JSONB) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

func (j *JSONB) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}
	b, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	return json.Unmarshal(b, j)
}

// AutoMigrate 自动迁移所有表
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		// 基础数据
		&User{},
		&Group{},
		&Department{},
		&Location{},
		&Category{},
		&Item{},

		// 采购与库存
		&Procurement{},
		&Inventory{},

		// 领用申请与通知
		&StockRequest{},
		&Notification{},
	)
}
