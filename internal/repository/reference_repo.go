package repository

import (
	"context"

	"github.com/bitfantasy/nimo-ims/internal/entity"
	"gorm.io/gorm"
)

// ReferenceRepository 部门/位置/类别的通用数据访问
type ReferenceRepository struct {
	db *gorm.DB
}

func NewReferenceRepository(db *gorm.DB) *ReferenceRepository {
	return &ReferenceRepository{db: db}
}

// --- Department ---

func (r *ReferenceRepository) ListDepartments(ctx context.Context) ([]entity.Department, error) {
	var items []entity.Department
	err := r.db.WithContext(ctx).Order("name").Find(&items).Error
	return items, err
}

func (r *ReferenceRepository) GetDepartment(ctx context.Context, id string) (*entity.Department, error) {
	var d entity.Department
	if err := r.db.WithContext(ctx).First(&d, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *ReferenceRepository) CreateDepartment(ctx context.Context, d *entity.Department) error {
	return r.db.WithContext(ctx).Create(d).Error
}

func (r *ReferenceRepository) UpdateDepartment(ctx context.Context, d *entity.Department) error {
	return r.db.WithContext(ctx).Save(d).Error
}

func (r *ReferenceRepository) DeleteDepartment(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&entity.Department{}, "id = ?", id).Error
}

// --- Location ---

func (r *ReferenceRepository) ListLocations(ctx context.Context) ([]entity.Location, error) {
	var items []entity.Location
	err := r.db.WithContext(ctx).Order("name").Find(&items).Error
	return items, err
}

func (r *ReferenceRepository) GetLocation(ctx context.Context, id string) (*entity.Location, error) {
	var l entity.Location
	if err := r.db.WithContext(ctx).First(&l, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *ReferenceRepository) CreateLocation(ctx context.Context, l *entity.Location) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *ReferenceRepository) UpdateLocation(ctx context.Context, l *entity.Location) error {
	return r.db.WithContext(ctx).Save(l).Error
}

func (r *ReferenceRepository) DeleteLocation(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&entity.Location{}, "id = ?", id).Error
}

// --- Category ---

func (r *ReferenceRepository) ListCategories(ctx context.Context) ([]entity.Category, error) {
	var items []entity.Category
	err := r.db.WithContext(ctx).Order("name").Find(&items).Error
	return items, err
}

func (r *ReferenceRepository) GetCategory(ctx context.Context, id string) (*entity.Category, error) {
	var c entity.Category
	if err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *ReferenceRepository) CreateCategory(ctx context.Context, c *entity.Category) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *ReferenceRepository) UpdateCategory(ctx context.Context, c *entity.Category) error {
	return r.db.WithContext(ctx).Save(c).Error
}

// DeleteCategory 删除类别并置空引用该类别的物品
func (r *ReferenceRepository) DeleteCategory(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&entity.Item{}).Where("category_id = ?", id).
			Update("category_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&entity.Category{}, "id = ?", id).Error
	})
}
