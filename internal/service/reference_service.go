package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/bitfantasy/nimo-ims/internal/entity"
	"github.com/bitfantasy/nimo-ims/internal/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ReferenceService 部门/位置/类别的普通增删改查
type ReferenceService struct {
	repo *repository.ReferenceRepository
}

func NewReferenceService(repo *repository.ReferenceRepository) *ReferenceService {
	return &ReferenceService{repo: repo}
}

type ReferenceRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

func (s *ReferenceService) ListDepartments(ctx context.Context) ([]entity.Department, error) {
	return s.repo.ListDepartments(ctx)
}

func (s *ReferenceService) CreateDepartment(ctx context.Context, req ReferenceRequest) (*entity.Department, error) {
	d := &entity.Department{ID: uuid.New().String(), Name: req.Name, Description: req.Description}
	if err := s.repo.CreateDepartment(ctx, d); err != nil {
		return nil, fmt.Errorf("failed to create department: %w", err)
	}
	return d, nil
}

func (s *ReferenceService) UpdateDepartment(ctx context.Context, id string, req ReferenceRequest) (*entity.Department, error) {
	d, err := s.repo.GetDepartment(ctx, id)
	if err != nil {
		return nil, mapNotFound(err, "department", id)
	}
	d.Name = req.Name
	d.Description = req.Description
	if err := s.repo.UpdateDepartment(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *ReferenceService) DeleteDepartment(ctx context.Context, id string) error {
	if _, err := s.repo.GetDepartment(ctx, id); err != nil {
		return mapNotFound(err, "department", id)
	}
	return s.repo.DeleteDepartment(ctx, id)
}

func (s *ReferenceService) ListLocations(ctx context.Context) ([]entity.Location, error) {
	return s.repo.ListLocations(ctx)
}

func (s *ReferenceService) CreateLocation(ctx context.Context, req ReferenceRequest) (*entity.Location, error) {
	l := &entity.Location{ID: uuid.New().String(), Name: req.Name, Description: req.Description}
	if err := s.repo.CreateLocation(ctx, l); err != nil {
		return nil, fmt.Errorf("failed to create location: %w", err)
	}
	return l, nil
}

func (s *ReferenceService) UpdateLocation(ctx context.Context, id string, req ReferenceRequest) (*entity.Location, error) {
	l, err := s.repo.GetLocation(ctx, id)
	if err != nil {
		return nil, mapNotFound(err, "location", id)
	}
	l.Name = req.Name
	l.Description = req.Description
	if err := s.repo.UpdateLocation(ctx, l); err != nil {
		return nil, err
	}
	return l, nil
}

func (s *ReferenceService) DeleteLocation(ctx context.Context, id string) error {
	if _, err := s.repo.GetLocation(ctx, id); err != nil {
		return mapNotFound(err, "location", id)
	}
	return s.repo.DeleteLocation(ctx, id)
}

func (s *ReferenceService) ListCategories(ctx context.Context) ([]entity.Category, error) {
	return s.repo.ListCategories(ctx)
}

func (s *ReferenceService) CreateCategory(ctx context.Context, req ReferenceRequest) (*entity.Category, error) {
	c := &entity.Category{ID: uuid.New().String(), Name: req.Name, Description: req.Description}
	if err := s.repo.CreateCategory(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}
	return c, nil
}

func (s *ReferenceService) UpdateCategory(ctx context.Context, id string, req ReferenceRequest) (*entity.Category, error) {
	c, err := s.repo.GetCategory(ctx, id)
	if err != nil {
		return nil, mapNotFound(err, "category", id)
	}
	c.Name = req.Name
	c.Description = req.Description
	if err := s.repo.UpdateCategory(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// DeleteCategory 引用该类别的物品 category 置空
func (s *ReferenceService) DeleteCategory(ctx context.Context, id string) error {
	if _, err := s.repo.GetCategory(ctx, id); err != nil {
		return mapNotFound(err, "category", id)
	}
	return s.repo.DeleteCategory(ctx, id)
}

func mapNotFound(err error, kind, id string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %s %s", ErrNotFound, kind, id)
	}
	return err
}
