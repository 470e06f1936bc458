package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"chumslister/internal/model"
)

// ==================== 接口定义 ====================

// AccountRepository 平台账号仓储接口
type AccountRepository interface {
	Create(ctx context.Context, acc *model.MarketplaceAccount) error
	GetByID(ctx context.Context, id int64) (*model.MarketplaceAccount, error)
	GetByUserPlatform(ctx context.Context, userID int64, platform string) (*model.MarketplaceAccount, error)
	ListByUser(ctx context.Context, userID int64) ([]model.MarketplaceAccount, error)
	Update(ctx context.Context, acc *model.MarketplaceAccount) error
	Delete(ctx context.Context, id int64) error

	// Token 相关
	UpdateToken(ctx context.Context, id int64, accessToken, refreshToken string, expiresAt time.Time) error
	UpdateTokenStatus(ctx context.Context, id int64, status string) error
	FindExpiringAccounts(ctx context.Context, within time.Duration) ([]model.MarketplaceAccount, error)

	// ListActiveUserIDs 有 active 账号的用户 (订单轮询的遍历对象)
	ListActiveUserIDs(ctx context.Context) ([]int64, error)
}

// ==================== 仓储实现 ====================

type accountRepo struct {
	db *gorm.DB
}

// NewAccountRepository 创建平台账号仓储
func NewAccountRepository(db *gorm.DB) AccountRepository {
	return &accountRepo{db: db}
}

func (r *accountRepo) Create(ctx context.Context, acc *model.MarketplaceAccount) error {
	return r.db.WithContext(ctx).Create(acc).Error
}

func (r *accountRepo) GetByID(ctx context.Context, id int64) (*model.MarketplaceAccount, error) {
	var acc model.MarketplaceAccount
	if err := r.db.WithContext(ctx).First(&acc, id).Error; err != nil {
		return nil, err
	}
	return &acc, nil
}

func (r *accountRepo) GetByUserPlatform(ctx context.Context, userID int64, platform string) (*model.MarketplaceAccount, error) {
	var acc model.MarketplaceAccount
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND platform = ?", userID, platform).
		First(&acc).Error
	if err != nil {
		return nil, err
	}
	return &acc, nil
}

func (r *accountRepo) ListByUser(ctx context.Context, userID int64) ([]model.MarketplaceAccount, error) {
	var accs []model.MarketplaceAccount
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id ASC").
		Find(&accs).Error
	return accs, err
}

func (r *accountRepo) Update(ctx context.Context, acc *model.MarketplaceAccount) error {
	return r.db.WithContext(ctx).Save(acc).Error
}

func (r *accountRepo) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&model.MarketplaceAccount{}, id).Error
}

// UpdateToken 整体更新 Token 对并恢复 active 状态
func (r *accountRepo) UpdateToken(ctx context.Context, id int64, accessToken, refreshToken string, expiresAt time.Time) error {
	return r.db.WithContext(ctx).
		Model(&model.MarketplaceAccount{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"access_token":     accessToken,
			"refresh_token":    refreshToken,
			"token_expires_at": expiresAt,
			"token_status":     model.TokenStatusActive,
		}).Error
}

func (r *accountRepo) UpdateTokenStatus(ctx context.Context, id int64, status string) error {
	return r.db.WithContext(ctx).
		Model(&model.MarketplaceAccount{}).
		Where("id = ?", id).
		Update("token_status", status).Error
}

func (r *accountRepo) ListActiveUserIDs(ctx context.Context) ([]int64, error) {
	var ids []int64
	err := r.db.WithContext(ctx).
		Model(&model.MarketplaceAccount{}).
		Where("token_status = ?", model.TokenStatusActive).
		Distinct("user_id").
		Pluck("user_id", &ids).Error
	return ids, err
}

// FindExpiringAccounts 查找 within 内即将过期且仍为 active 的账号
// 已标记 invalid 的账号不做无谓刷新，等用户重新授权
func (r *accountRepo) FindExpiringAccounts(ctx context.Context, within time.Duration) ([]model.MarketplaceAccount, error) {
	var accs []model.MarketplaceAccount
	deadline := time.Now().Add(within)
	err := r.db.WithContext(ctx).
		Where("token_status = ? AND token_expires_at <= ?", model.TokenStatusActive, deadline).
		Find(&accs).Error
	return accs, err
}
