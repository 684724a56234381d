package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/bitfantasy/nimo-ims/internal/entity"
	"github.com/bitfantasy/nimo-ims/internal/repository"
	"gorm.io/gorm"
)

// AccessService 唯一的管理员判定入口。采购录入、领用审批和管理员通知
// 的收件人集合都走这里，不在各处重复推导。
type AccessService struct {
	userRepo *repository.UserRepository
}

func NewAccessService(userRepo *repository.UserRepository) *AccessService {
	return &AccessService{userRepo: userRepo}
}

func (s *AccessService) GetActor(ctx context.Context, userID string) (*entity.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user %s", ErrNotFound, userID)
		}
		return nil, err
	}
	user.IsAdminFlag = user.IsAdmin()
	return user, nil
}

func (s *AccessService) IsAdmin(ctx context.Context, userID string) (bool, error) {
	user, err := s.GetActor(ctx, userID)
	if err != nil {
		return false, err
	}
	return user.IsAdmin(), nil
}

// RequireAdmin 非管理员返回 ErrForbidden
func (s *AccessService) RequireAdmin(ctx context.Context, userID string) error {
	admin, err := s.IsAdmin(ctx, userID)
	if err != nil {
		return err
	}
	if !admin {
		return fmt.Errorf("%w: admin role required", ErrForbidden)
	}
	return nil
}

func (s *AccessService) ListAdmins(ctx context.Context) ([]entity.User, error) {
	return s.userRepo.ListAdmins(ctx)
}
