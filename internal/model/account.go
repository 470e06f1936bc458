package model

import "time"

// Token 状态
const (
	TokenStatusActive  = "active"  // 授权有效
	TokenStatusInvalid = "invalid" // 刷新被平台拒绝，需要用户重新授权
)

// TokenState Token 生命周期状态 (纯函数判定，见 Account.TokenState)
type TokenState int

const (
	TokenValid    TokenState = iota // 距过期尚远
	TokenExpiring                   // 已进入安全边界，出站前必须刷新
	TokenExpired                    // 已过期
)

// MarketplaceAccount 平台账号
// 每条记录对应一个用户在一个平台上的授权账号，持有 OAuth Token 对
type MarketplaceAccount struct {
	BaseModel
	UserID   int64  `gorm:"index;not null" json:"user_id"`
	Platform string `gorm:"size:20;index;not null" json:"platform"` // "ebay" 等，入库前已由 Platform 枚举校验
	Label    string `gorm:"size:128" json:"label"`                  // 展示名，如 "chums-main"

	// --- OAuth Token 对 ---
	AccessToken    string    `gorm:"type:text" json:"-"`
	RefreshToken   string    `gorm:"type:text" json:"-"`
	TokenExpiresAt time.Time `json:"token_expires_at"`
	TokenStatus    string    `gorm:"size:20;default:active" json:"token_status"`
}

func (MarketplaceAccount) TableName() string {
	return "marketplace_accounts"
}

// TokenState 判定 Token 状态
// margin 为安全边界：now + margin >= 过期时间 即视为过期，必须先刷新再出站
func (a *MarketplaceAccount) TokenState(now time.Time, margin time.Duration) TokenState {
	if !now.Before(a.TokenExpiresAt) {
		return TokenExpired
	}
	if !now.Add(margin).Before(a.TokenExpiresAt) {
		return TokenExpiring
	}
	return TokenValid
}

// NeedsRefresh 出站调用前的判定：处于安全边界内或已过期都要刷新
func (a *MarketplaceAccount) NeedsRefresh(now time.Time, margin time.Duration) bool {
	return a.TokenState(now, margin) != TokenValid
}
