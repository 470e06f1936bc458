package middleware

import (
	"testing"
	"time"
)

func TestSyncRateLimiter_CheckBlocksWithinInterval(t *testing.T) {
	limiter := &SyncRateLimiter{}
	key := UserSyncKey(1, SyncTypeInventory)

	first := limiter.Check(key, time.Minute)
	if !first.Allowed {
		t.Fatal("首次检查应放行")
	}

	second := limiter.Check(key, time.Minute)
	if second.Allowed {
		t.Error("冷却期内应拒绝")
	}
	if second.RetryAfter <= 0 || second.RetryAfter > time.Minute {
		t.Errorf("剩余冷却时间异常: %v", second.RetryAfter)
	}
}

func TestSyncRateLimiter_KeysAreIndependent(t *testing.T) {
	limiter := &SyncRateLimiter{}

	limiter.Check(UserSyncKey(1, SyncTypeOrder), time.Minute)

	// 另一个用户 / 另一种同步类型互不影响
	if r := limiter.Check(UserSyncKey(2, SyncTypeOrder), time.Minute); !r.Allowed {
		t.Error("不同用户的 key 不应互相限流")
	}
	if r := limiter.Check(UserSyncKey(1, SyncTypeInventory), time.Minute); !r.Allowed {
		t.Error("不同同步类型的 key 不应互相限流")
	}
}

func TestSyncRateLimiter_CheckOnlyDoesNotConsume(t *testing.T) {
	limiter := &SyncRateLimiter{}
	key := GlobalSyncKey(SyncTypeScrape)

	if r := limiter.CheckOnly(key, time.Minute); !r.Allowed {
		t.Fatal("未执行过的 key 应放行")
	}
	// CheckOnly 不记录时间，随后的 Check 仍应放行
	if r := limiter.Check(key, time.Minute); !r.Allowed {
		t.Error("CheckOnly 不应占用配额")
	}
}

func TestSyncRateLimiter_MarkExecutedStartsCooldown(t *testing.T) {
	limiter := &SyncRateLimiter{}
	key := UserSyncKey(3, SyncTypeOrder)

	limiter.MarkExecuted(key)

	if r := limiter.CheckOnly(key, time.Minute); r.Allowed {
		t.Error("MarkExecuted 后冷却期内应拒绝")
	}
}

func TestSyncRateLimiter_ResetClearsCooldown(t *testing.T) {
	limiter := &SyncRateLimiter{}
	key := UserSyncKey(4, SyncTypeInventory)

	limiter.Check(key, time.Hour)
	if r := limiter.Check(key, time.Hour); r.Allowed {
		t.Fatal("冷却期内应拒绝")
	}

	limiter.Reset(key)
	if r := limiter.Check(key, time.Hour); !r.Allowed {
		t.Error("Reset 后应立即放行")
	}
}

func TestGetInterval(t *testing.T) {
	if got := GetInterval(SyncTypeInventory); got != 5*time.Minute {
		t.Errorf("库存同步间隔 = %v, want 5m", got)
	}
	if got := GetInterval(SyncTypeOrder); got != 3*time.Minute {
		t.Errorf("拉单间隔 = %v, want 3m", got)
	}
	if got := GetInterval(SyncType("unknown")); got != 5*time.Minute {
		t.Errorf("未知类型应回落到 5m, got %v", got)
	}
}
