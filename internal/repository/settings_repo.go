package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"chumslister/internal/model"
)

// ==================== 接口定义 ====================

// SettingsRepository 用户设置仓储接口
// 设置整体读写，不提供字段级更新
type SettingsRepository interface {
	GetByUserID(ctx context.Context, userID int64) (*model.UserSettings, error)
	GetOrCreate(ctx context.Context, userID int64) (*model.UserSettings, error)
	Save(ctx context.Context, settings *model.UserSettings) error
}

// ==================== 仓储实现 ====================

type settingsRepo struct {
	db *gorm.DB
}

// NewSettingsRepository 创建用户设置仓储
func NewSettingsRepository(db *gorm.DB) SettingsRepository {
	return &settingsRepo{db: db}
}

func (r *settingsRepo) GetByUserID(ctx context.Context, userID int64) (*model.UserSettings, error) {
	var s model.UserSettings
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

// GetOrCreate 首次访问时为用户建一条空设置
func (r *settingsRepo) GetOrCreate(ctx context.Context, userID int64) (*model.UserSettings, error) {
	s, err := r.GetByUserID(ctx, userID)
	if err == nil {
		return s, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	fresh := &model.UserSettings{UserID: userID, Custom: map[string]interface{}{}}
	if err := r.db.WithContext(ctx).Create(fresh).Error; err != nil {
		return nil, err
	}
	return fresh, nil
}

func (r *settingsRepo) Save(ctx context.Context, settings *model.UserSettings) error {
	return r.db.WithContext(ctx).Save(settings).Error
}
