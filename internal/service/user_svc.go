package service

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"chumslister/internal/middleware"
	"chumslister/internal/model"
	"chumslister/internal/repository"
)

// ErrInvalidCredentials 用户名或密码错误 (对外不区分哪个错)
var ErrInvalidCredentials = errors.New("用户名或密码错误")

// LoginResult 登录结果
type LoginResult struct {
	User         *model.User `json:"user"`
	AccessToken  string      `json:"access_token"`
	RefreshToken string      `json:"refresh_token"`
}

// ==================== 用户服务 ====================

// UserService 用户注册与登录
type UserService struct {
	users repository.UserRepository
}

// NewUserService 创建用户服务
func NewUserService(users repository.UserRepository) *UserService {
	return &UserService{users: users}
}

// Register 注册用户
func (s *UserService) Register(ctx context.Context, username, password, displayName string) (*model.User, error) {
	if len(username) < 3 {
		return nil, fmt.Errorf("用户名至少 3 个字符")
	}
	if len(password) < 8 {
		return nil, fmt.Errorf("密码至少 8 个字符")
	}

	if _, err := s.users.GetByUsername(ctx, username); err == nil {
		return nil, fmt.Errorf("用户名 %s 已被占用", username)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("密码加密失败: %v", err)
	}

	user := &model.User{
		Username:     username,
		PasswordHash: string(hash),
		DisplayName:  displayName,
		Role:         "user",
		Status:       1,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("创建用户失败: %v", err)
	}
	return user, nil
}

// Login 登录并签发 Token 对
func (s *UserService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if user.Status != 1 {
		return nil, fmt.Errorf("账号已被禁用")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	access, refresh, err := middleware.GenerateTokenPair(user.ID, user.Username, user.Role)
	if err != nil {
		return nil, fmt.Errorf("签发 Token 失败: %v", err)
	}

	return &LoginResult{User: user, AccessToken: access, RefreshToken: refresh}, nil
}

// RefreshToken 用 Refresh Token 换新 Token 对
func (s *UserService) RefreshToken(ctx context.Context, refreshToken string) (*LoginResult, error) {
	claims, err := middleware.ParseToken(refreshToken)
	if err != nil || claims.Subject != "refresh" {
		return nil, fmt.Errorf("refresh token 无效")
	}

	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, fmt.Errorf("用户不存在")
	}
	if user.Status != 1 {
		return nil, fmt.Errorf("账号已被禁用")
	}

	access, refresh, err := middleware.GenerateTokenPair(user.ID, user.Username, user.Role)
	if err != nil {
		return nil, fmt.Errorf("签发 Token 失败: %v", err)
	}
	return &LoginResult{User: user, AccessToken: access, RefreshToken: refresh}, nil
}

// GetProfile 取当前用户资料
func (s *UserService) GetProfile(ctx context.Context, userID int64) (*model.User, error) {
	return s.users.GetByID(ctx, userID)
}
