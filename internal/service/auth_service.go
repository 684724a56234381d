package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bitfantasy/nimo-ims/internal/config"
	"github.com/bitfantasy/nimo-ims/internal/entity"
	"github.com/bitfantasy/nimo-ims/internal/repository"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AuthService 账号登录与令牌签发。refresh token 的 jti 存 redis，
// 登出即删除，刷新时校验存在性。
type AuthService struct {
	userRepo *repository.UserRepository
	rdb      *redis.Client
	cfg      *config.Config
}

func NewAuthService(userRepo *repository.UserRepository, rdb *redis.Client, cfg *config.Config) *AuthService {
	return &AuthService{userRepo: userRepo, rdb: rdb, cfg: cfg}
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

var ErrInvalidCredentials = errors.New("invalid username or password")

func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*TokenPair, *entity.User, error) {
	user, err := s.userRepo.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, nil, ErrInvalidCredentials
	}
	if user.Status != "active" {
		return nil, nil, fmt.Errorf("%w: account disabled", ErrForbidden)
	}

	now := time.Now()
	user.LastLoginAt = &now
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, nil, err
	}

	pair, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	user.IsAdminFlag = user.IsAdmin()
	return pair, user, nil
}

func (s *AuthService) issueTokens(ctx context.Context, user *entity.User) (*TokenPair, error) {
	now := time.Now()
	accessClaims := jwt.MapClaims{
		"sub":      user.ID,
		"uid":      user.ID,
		"username": user.Username,
		"iss":      s.cfg.JWT.Issuer,
		"iat":      now.Unix(),
		"exp":      now.Add(s.cfg.JWT.AccessTokenExpire).Unix(),
	}
	access, err := jwt.NewWithClaims(jwt.SigningMethodHS256, accessClaims).
		SignedString([]byte(s.cfg.JWT.Secret))
	if err != nil {
		return nil, fmt.Errorf("failed to sign access token: %w", err)
	}

	refreshJti := uuid.New().String()
	refreshClaims := jwt.MapClaims{
		"sub": user.ID,
		"jti": refreshJti,
		"iss": s.cfg.JWT.Issuer,
		"iat": now.Unix(),
		"exp": now.Add(s.cfg.JWT.RefreshTokenExpire).Unix(),
	}
	refresh, err := jwt.NewWithClaims(jwt.SigningMethodHS256, refreshClaims).
		SignedString([]byte(s.cfg.JWT.Secret))
	if err != nil {
		return nil, fmt.Errorf("failed to sign refresh token: %w", err)
	}

	if s.rdb != nil {
		if err := s.rdb.Set(ctx, "token:refresh:"+refreshJti, user.ID, s.cfg.JWT.RefreshTokenExpire).Err(); err != nil {
			return nil, fmt.Errorf("failed to store refresh token: %w", err)
		}
	}

	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(s.cfg.JWT.AccessTokenExpire.Seconds()),
	}, nil
}

func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(refreshToken, &claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.JWT.Secret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: invalid refresh token", ErrForbidden)
	}
	jti, _ := claims["jti"].(string)
	if jti == "" {
		return nil, fmt.Errorf("%w: invalid refresh token", ErrForbidden)
	}

	var userID string
	if s.rdb != nil {
		userID, err = s.rdb.Get(ctx, "token:refresh:"+jti).Result()
		if err != nil {
			return nil, fmt.Errorf("%w: refresh token revoked or expired", ErrForbidden)
		}
		s.rdb.Del(ctx, "token:refresh:"+jti)
	} else {
		userID, _ = claims["sub"].(string)
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: user %s", ErrNotFound, userID)
	}
	return s.issueTokens(ctx, user)
}

func (s *AuthService) Logout(ctx context.Context, refreshToken string) {
	if s.rdb == nil || refreshToken == "" {
		return
	}
	claims := jwt.MapClaims{}
	if _, err := jwt.ParseWithClaims(refreshToken, &claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.JWT.Secret), nil
	}); err != nil {
		return
	}
	if jti, _ := claims["jti"].(string); jti != "" {
		s.rdb.Del(ctx, "token:refresh:"+jti)
	}
}

// HashPassword 供用户种子与注册使用
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
