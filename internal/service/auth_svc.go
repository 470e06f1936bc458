package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/url"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"

	"chumslister/internal/config"
	"chumslister/internal/model"
	"chumslister/internal/repository"
	"chumslister/pkg/ebay"
	"chumslister/pkg/utils"
)

// eBay 授权页与申请的权限范围
const (
	ebayAuthorizeURL = "https://auth.ebay.com/oauth2/authorize"
	ebayScopes       = "https://api.ebay.com/oauth/api_scope https://api.ebay.com/oauth/api_scope/sell.inventory https://api.ebay.com/oauth/api_scope/sell.fulfillment"
)

// ErrInvalidState 回调携带的 state 不存在或已过期
var ErrInvalidState = errors.New("state 无效或已过期")

// ==================== 平台授权服务 ====================

// AuthService 平台账号授权
// state 走进程内缓存 (10 分钟过期、用完即焚)，回调时换 Token 并落库
type AuthService struct {
	cfg      config.EbayConfig
	oauth    *ebay.OAuthClient
	accounts repository.AccountRepository
}

// NewAuthService 创建授权服务
func NewAuthService(cfg config.EbayConfig, oauth *ebay.OAuthClient, accounts repository.AccountRepository) *AuthService {
	return &AuthService{cfg: cfg, oauth: oauth, accounts: accounts}
}

// BuildLoginURL 生成 eBay 授权跳转地址
// state 绑定发起授权的用户与账号展示名，防 CSRF 兼回调寻主
func (s *AuthService) BuildLoginURL(userID int64, label string) (string, error) {
	state, err := utils.GenerateRandomString(32)
	if err != nil {
		return "", fmt.Errorf("生成 state 失败: %v", err)
	}
	utils.SetCache(state, fmt.Sprintf("%d|%s", userID, label))

	q := url.Values{}
	q.Set("client_id", s.cfg.ClientID)
	q.Set("redirect_uri", s.cfg.RedirectURI)
	q.Set("response_type", "code")
	q.Set("scope", ebayScopes)
	q.Set("state", state)

	return ebayAuthorizeURL + "?" + q.Encode(), nil
}

// HandleCallback 处理授权回调：校验 state、换 Token、落库
// 同一用户同一平台只保留一条账号记录，重复授权按覆盖处理
func (s *AuthService) HandleCallback(ctx context.Context, state, code string) (*model.MarketplaceAccount, error) {
	cached, ok := utils.GetCache(state)
	if !ok {
		return nil, ErrInvalidState
	}
	utils.DeleteCache(state) // 用完即焚，state 不允许复用

	parts := strings.SplitN(cached, "|", 2)
	userID, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("state 绑定信息损坏: %v", err)
	}
	label := ""
	if len(parts) == 2 {
		label = parts[1]
	}

	pair, err := s.oauth.ExchangeCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("授权码换 Token 失败: %v", err)
	}

	now := time.Now()
	acc, err := s.accounts.GetByUserPlatform(ctx, userID, string(PlatformEbay))
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		acc = &model.MarketplaceAccount{
			UserID:   userID,
			Platform: string(PlatformEbay),
			Label:    label,
		}
		acc.AccessToken = pair.AccessToken
		acc.RefreshToken = pair.RefreshToken
		acc.TokenExpiresAt = pair.ExpiresAt(now)
		acc.TokenStatus = model.TokenStatusActive
		if err := s.accounts.Create(ctx, acc); err != nil {
			return nil, fmt.Errorf("保存平台账号失败: %v", err)
		}
		log.Printf("[Auth] 用户 %d 新授权 eBay 账号 %d", userID, acc.ID)
		return acc, nil
	}

	if err := s.accounts.UpdateToken(ctx, acc.ID, pair.AccessToken, pair.RefreshToken, pair.ExpiresAt(now)); err != nil {
		return nil, fmt.Errorf("更新平台账号 Token 失败: %v", err)
	}
	if label != "" && label != acc.Label {
		acc.Label = label
		if err := s.accounts.Update(ctx, acc); err != nil {
			log.Printf("[Auth] 更新账号 %d 展示名失败: %v", acc.ID, err)
		}
	}
	log.Printf("[Auth] 用户 %d 重新授权 eBay 账号 %d", userID, acc.ID)
	return acc, nil
}

// RefreshAccountToken 刷新单个账号的 Token (定时任务入口)
// 刷新被拒绝时标记 invalid，等用户重新授权
func (s *AuthService) RefreshAccountToken(ctx context.Context, acc *model.MarketplaceAccount) error {
	pair, err := s.oauth.Refresh(ctx, acc.RefreshToken)
	if err != nil {
		if stErr := s.accounts.UpdateTokenStatus(ctx, acc.ID, model.TokenStatusInvalid); stErr != nil {
			log.Printf("[Auth] 标记账号 %d 失效失败: %v", acc.ID, stErr)
		}
		return fmt.Errorf("账号 %d 刷新失败: %v", acc.ID, err)
	}

	refreshToken := pair.RefreshToken
	if refreshToken == "" {
		refreshToken = acc.RefreshToken
	}
	return s.accounts.UpdateToken(ctx, acc.ID, pair.AccessToken, refreshToken, pair.ExpiresAt(time.Now()))
}

// ListAccounts 列出用户的平台账号
func (s *AuthService) ListAccounts(ctx context.Context, userID int64) ([]model.MarketplaceAccount, error) {
	return s.accounts.ListByUser(ctx, userID)
}

// UnlinkAccount 解绑平台账号
func (s *AuthService) UnlinkAccount(ctx context.Context, userID, accountID int64) error {
	acc, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		return err
	}
	if acc.UserID != userID {
		return fmt.Errorf("账号 %d 不属于当前用户", accountID)
	}
	return s.accounts.Delete(ctx, accountID)
}
