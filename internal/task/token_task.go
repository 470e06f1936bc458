package task

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"chumslister/internal/model"
	"chumslister/internal/repository"
	"chumslister/internal/service"
)

// ==================== TokenTask Token 保活任务 ====================

// TokenTask 平台账号 Token 保活
// 定期把即将过期 (1 小时内) 且仍为 active 的账号 Token 刷新掉，
// 刷新失败的账号由 AuthService 标记 invalid，等用户重新授权
type TokenTask struct {
	accountRepo repository.AccountRepository
	authService *service.AuthService
	cron        *cron.Cron

	// 控制并发刷新的数量，避免打爆 Token 端点
	concurrencyLimit int
	sleepTime        time.Duration
}

// NewTokenTask 创建 Token 保活任务
func NewTokenTask(accountRepo repository.AccountRepository, authService *service.AuthService) *TokenTask {
	return &TokenTask{
		accountRepo:      accountRepo,
		authService:      authService,
		cron:             cron.New(cron.WithSeconds()), // 支持秒级控制
		concurrencyLimit: 10,
		sleepTime:        100 * time.Millisecond, // 每个协程启动间隔，平滑波峰
	}
}

// Start 启动定时任务
func (t *TokenTask) Start() {
	// 首次执行
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		log.Println("[Cron] 服务启动，正在执行首次 Token 检查...")
		t.refreshJob(ctx)
	}()

	// 每 40 分钟一轮
	_, err := t.cron.AddFunc("0 0/40 * * * *", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		t.refreshJob(ctx)
	})
	if err != nil {
		log.Fatalf("无法启动 Token 定时任务: %v", err)
	}

	t.cron.Start()
	log.Println("[Cron] Token 保活任务已启动 (每40分钟检查一次)")
}

// Stop 停止任务
func (t *TokenTask) Stop() {
	ctx := t.cron.Stop()
	<-ctx.Done()
	log.Println("[Cron] Token 保活任务已停止")
}

// refreshJob 刷新一轮即将过期的账号
func (t *TokenTask) refreshJob(ctx context.Context) {
	accounts, err := t.accountRepo.FindExpiringAccounts(ctx, time.Hour)
	if err != nil {
		log.Printf("[Cron] 过期账号查询失败: %v", err)
		return
	}
	if len(accounts) == 0 {
		return
	}

	// 信号量限流
	sem := make(chan struct{}, t.concurrencyLimit)
	var wg sync.WaitGroup

	log.Printf("[Cron] 开始刷新 %d 个账号的 Token，并发上限: %d", len(accounts), t.concurrencyLimit)

	for _, acc := range accounts {
		select {
		case <-ctx.Done():
			log.Println("[Cron] 任务超时停止")
			return
		default:
		}

		sem <- struct{}{}
		wg.Add(1)

		// 平滑波峰
		time.Sleep(t.sleepTime)

		go func(a model.MarketplaceAccount) {
			defer wg.Done()
			defer func() { <-sem }()

			if err := t.authService.RefreshAccountToken(ctx, &a); err != nil {
				// 日志仅记录，不中断其他协程
				log.Printf("[Cron] 账号 [%d/%s] 刷新失败: %v", a.ID, a.Label, err)
			}
		}(acc)
	}

	wg.Wait()
	log.Println("[Cron] 本轮 Token 刷新任务完成")
}
