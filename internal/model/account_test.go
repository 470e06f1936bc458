package model

import (
	"testing"
	"time"
)

func TestMarketplaceAccount_TokenState(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	margin := 5 * time.Minute

	tests := []struct {
		name      string
		expiresAt time.Time
		want      TokenState
	}{
		{"距过期尚远", now.Add(10 * time.Minute), TokenValid},
		{"恰在边界上", now.Add(5 * time.Minute), TokenExpiring},
		{"进入安全边界", now.Add(4 * time.Minute), TokenExpiring},
		{"恰好到期", now, TokenExpired},
		{"已过期", now.Add(-time.Minute), TokenExpired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			acc := &MarketplaceAccount{TokenExpiresAt: tt.expiresAt}
			if got := acc.TokenState(now, margin); got != tt.want {
				t.Errorf("TokenState = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestMarketplaceAccount_NeedsRefresh(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	margin := 5 * time.Minute

	fresh := &MarketplaceAccount{TokenExpiresAt: now.Add(time.Hour)}
	if fresh.NeedsRefresh(now, margin) {
		t.Error("远未过期的 Token 不需要刷新")
	}

	expiring := &MarketplaceAccount{TokenExpiresAt: now.Add(3 * time.Minute)}
	if !expiring.NeedsRefresh(now, margin) {
		t.Error("进入安全边界的 Token 必须刷新")
	}

	expired := &MarketplaceAccount{TokenExpiresAt: now.Add(-time.Hour)}
	if !expired.NeedsRefresh(now, margin) {
		t.Error("已过期的 Token 必须刷新")
	}
}
