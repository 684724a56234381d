package repository

import (
	"context"

	"github.com/bitfantasy/nimo-ims/internal/entity"
	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	var user entity.User
	err := r.db.WithContext(ctx).Preload("Groups").
		Where("id = ? AND deleted_at IS NULL", id).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	var user entity.User
	err := r.db.WithContext(ctx).Preload("Groups").
		Where("username = ? AND deleted_at IS NULL", username).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) Create(ctx context.Context, user *entity.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *UserRepository) Update(ctx context.Context, user *entity.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

func (r *UserRepository) List(ctx context.Context, page, size int) ([]entity.User, int64, error) {
	query := r.db.WithContext(ctx).Model(&entity.User{}).Where("deleted_at IS NULL")
	var total int64
	query.Count(&total)
	if page <= 0 {
		page = 1
	}
	if size <= 0 {
		size = 20
	}
	var users []entity.User
	err := query.Preload("Groups").Order("created_at DESC").
		Offset((page - 1) * size).Limit(size).Find(&users).Error
	return users, total, err
}

// ListAdmins 管理员集合: 员工标记、超级用户或 Admin 用户组成员，去重
func (r *UserRepository) ListAdmins(ctx context.Context) ([]entity.User, error) {
	var admins []entity.User
	err := r.db.WithContext(ctx).
		Distinct("users.*").
		Joins("LEFT JOIN user_groups ON user_groups.user_id = users.id").
		Joins("LEFT JOIN groups ON groups.id = user_groups.group_id").
		Where("users.deleted_at IS NULL").
		Where("users.is_staff = ? OR users.is_superuser = ? OR groups.name = ?",
			true, true, entity.AdminGroupName).
		Find(&admins).Error
	return admins, err
}
