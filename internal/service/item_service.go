package service

import (
	"context"

	"github.com/bitfantasy/nimo-ims/internal/entity"
	"github.com/bitfantasy/nimo-ims/internal/repository"
	"github.com/google/uuid"
)

type ItemService struct {
	repo    *repository.ItemRepository
	refRepo *repository.ReferenceRepository
}

func NewItemService(repo *repository.ItemRepository, refRepo *repository.ReferenceRepository) *ItemService {
	return &ItemService{repo: repo, refRepo: refRepo}
}

type ItemRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	CategoryID  *string `json:"category_id"`
}

func (s *ItemService) List(ctx context.Context, page, size int) ([]entity.Item, int64, error) {
	return s.repo.List(ctx, page, size)
}

func (s *ItemService) Get(ctx context.Context, id string) (*entity.Item, error) {
	item, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, mapNotFound(err, "item", id)
	}
	return item, nil
}

func (s *ItemService) Create(ctx context.Context, req ItemRequest) (*entity.Item, error) {
	if req.CategoryID != nil {
		if _, err := s.refRepo.GetCategory(ctx, *req.CategoryID); err != nil {
			return nil, mapNotFound(err, "category", *req.CategoryID)
		}
	}
	item := &entity.Item{
		ID:          uuid.New().String(),
		Name:        req.Name,
		Description: req.Description,
		CategoryID:  req.CategoryID,
	}
	if err := s.repo.Create(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *ItemService) Update(ctx context.Context, id string, req ItemRequest) (*entity.Item, error) {
	item, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, mapNotFound(err, "item", id)
	}
	if req.CategoryID != nil {
		if _, err := s.refRepo.GetCategory(ctx, *req.CategoryID); err != nil {
			return nil, mapNotFound(err, "category", *req.CategoryID)
		}
	}
	item.Name = req.Name
	item.Description = req.Description
	item.CategoryID = req.CategoryID
	item.Category = nil
	if err := s.repo.Update(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *ItemService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return mapNotFound(err, "item", id)
	}
	return s.repo.Delete(ctx, id)
}
