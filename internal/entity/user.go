package entity

import "time"

// AdminGroupName 管理员用户组
const AdminGroupName = "Admin"

type User struct {
	ID           string     `json:"id" gorm:"primaryKey;size:32"`
	Username     string     `json:"username" gorm:"size:64;not null;uniqueIndex"`
	Name         string     `json:"name" gorm:"size:64"`
	Email        string     `json:"email" gorm:"size:128;uniqueIndex"`
	PasswordHash string     `json:"-" gorm:"size:128;not null"`
	IsStaff      bool       `json:"is_staff" gorm:"not null;default:false"`
	IsSuperuser  bool       `json:"is_superuser" gorm:"not null;default:false"`
	Status       string     `json:"status" gorm:"size:16;not null;default:active"`
	LastLoginAt  *time.Time `json:"last_login_at"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	DeletedAt    *time.Time `json:"deleted_at,omitempty" gorm:"index"`

	// 关联
	Groups []Group `json:"groups,omitempty" gorm:"many2many:user_groups;"`

	// 非数据库字段
	IsAdminFlag bool `json:"is_admin" gorm:"-"`
}

func (User) TableName() string {
	return "users"
}

// IsAdmin 管理员判定: 员工标记、超级用户或 Admin 用户组成员
func (u *User) IsAdmin() bool {
	if u.IsStaff || u.IsSuperuser {
		return true
	}
	for _, g := range u.Groups {
		if g.Name == AdminGroupName {
			return true
		}
	}
	return false
}

type Group struct {
	ID        string    `json:"id" gorm:"primaryKey;size:32"`
	Name      string    `json:"name" gorm:"size:64;not null;uniqueIndex"`
	CreatedAt time.Time `json:"created_at"`
}

func (Group) TableName() string {
	return "groups"
}
