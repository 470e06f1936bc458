package task

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"chumslister/internal/repository"
	"chumslister/internal/service"
)

// ==================== OrderSyncTask 订单轮询任务 ====================

// OrderSyncTask 订单轮询
// 逐用户拉取回溯窗口内的订单落库；用户间并发、互相隔离
type OrderSyncTask struct {
	accountRepo  repository.AccountRepository
	orderService *service.OrderService
	cron         *cron.Cron

	lookback time.Duration // 每轮回溯窗口

	// 并发控制
	concurrencyLimit int
	sleepTime        time.Duration
}

// NewOrderSyncTask 创建订单轮询任务
func NewOrderSyncTask(
	accountRepo repository.AccountRepository,
	orderService *service.OrderService,
	lookbackDays int,
) *OrderSyncTask {
	if lookbackDays <= 0 {
		lookbackDays = 7
	}
	return &OrderSyncTask{
		accountRepo:      accountRepo,
		orderService:     orderService,
		cron:             cron.New(cron.WithSeconds()),
		lookback:         time.Duration(lookbackDays) * 24 * time.Hour,
		concurrencyLimit: 5,
		sleepTime:        200 * time.Millisecond,
	}
}

// SetConcurrency 设置并发参数
func (t *OrderSyncTask) SetConcurrency(limit int, sleep time.Duration) {
	t.concurrencyLimit = limit
	t.sleepTime = sleep
}

// Start 启动定时任务
func (t *OrderSyncTask) Start() {
	// 首次执行
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()
		log.Println("[OrderSyncTask] 执行首次订单轮询...")
		t.syncAllUsers(ctx)
	}()

	// 每 15 分钟执行
	_, err := t.cron.AddFunc("0 */15 * * * *", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()
		t.syncAllUsers(ctx)
	})
	if err != nil {
		log.Printf("[OrderSyncTask] 定时任务启动失败: %v", err)
		return
	}

	t.cron.Start()
	log.Println("[OrderSyncTask] 已启动 (每15分钟)")
}

// Stop 停止任务
func (t *OrderSyncTask) Stop() {
	ctx := t.cron.Stop()
	<-ctx.Done()
	log.Println("[OrderSyncTask] 已停止")
}

// syncAllUsers 轮询全部有 active 账号的用户
func (t *OrderSyncTask) syncAllUsers(ctx context.Context) {
	userIDs, err := t.accountRepo.ListActiveUserIDs(ctx)
	if err != nil {
		log.Printf("[OrderSyncTask] 查询用户列表失败: %v", err)
		return
	}
	if len(userIDs) == 0 {
		return
	}

	to := time.Now()
	from := to.Add(-t.lookback)

	sem := make(chan struct{}, t.concurrencyLimit)
	var wg sync.WaitGroup

	for _, userID := range userIDs {
		select {
		case <-ctx.Done():
			log.Println("[OrderSyncTask] 任务超时停止")
			return
		default:
		}

		sem <- struct{}{}
		wg.Add(1)
		time.Sleep(t.sleepTime)

		go func(uid int64) {
			defer wg.Done()
			defer func() { <-sem }()

			saved, err := t.orderService.SyncSales(ctx, uid, from, to)
			if err != nil {
				log.Printf("[OrderSyncTask] 用户 %d 同步失败: %v", uid, err)
				return
			}
			if saved > 0 {
				log.Printf("[OrderSyncTask] 用户 %d 同步 %d 条订单", uid, saved)
			}
		}(userID)
	}

	wg.Wait()
}
