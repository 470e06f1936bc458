package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"chumslister/internal/config"
	"chumslister/internal/controller"
	"chumslister/internal/middleware"
	"chumslister/internal/model"
	"chumslister/internal/repository"
	"chumslister/internal/router"
	"chumslister/internal/service"
	"chumslister/internal/task"
	"chumslister/pkg/database"
	"chumslister/pkg/ebay"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// @title ChumsLister API
// @version 1.0
// @description 多平台刊登与库存同步服务
// @BasePath /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// 1. 加载配置
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("配置加载失败: %v", err)
	}

	// 2. JWT 密钥注入
	jwtCfg := middleware.DefaultJWTConfig()
	jwtCfg.SecretKey = cfg.JWTSecret
	middleware.SetJWTConfig(jwtCfg)

	// 3. 初始化数据库
	db := initDatabase(cfg)

	// 4. 初始化依赖
	deps := initDependencies(cfg, db)

	// 5. 启动定时任务
	stopTasks := initTasks(cfg, deps)

	// 6. 初始化路由
	r := gin.Default()
	router.InitRoutes(r,
		deps.Controllers.User,
		deps.Controllers.Auth,
		deps.Controllers.Draft,
		deps.Controllers.Inventory,
		deps.Controllers.Order,
		deps.Controllers.Sync,
		deps.Controllers.Bulk,
		deps.Controllers.Settings,
		deps.Controllers.Marketplace,
	)

	// 7. 启动服务
	startServer(cfg, r, stopTasks)
}

// ==================== 依赖容器 ====================

// Dependencies 依赖容器
type Dependencies struct {
	DB          *gorm.DB
	Repos       *Repositories
	Services    *Services
	Controllers *Controllers
}

// Repositories 仓库集合
type Repositories struct {
	User      repository.UserRepository
	Account   repository.AccountRepository
	Settings  repository.SettingsRepository
	Inventory repository.InventoryRepository
	Draft     repository.DraftRepository
	Sale      repository.SaleRepository
	Bulk      repository.BulkRepository
}

// Services 服务集合
type Services struct {
	User      *service.UserService
	Auth      *service.AuthService
	Settings  *service.SettingsService
	Storage   *service.StorageService
	AI        *service.AIService
	Scraper   *service.ScraperService
	Ebay      *service.EbayService
	Factory   *service.MarketplaceFactory
	Publish   *service.PublishService
	Sync      *service.SyncService
	Order     *service.OrderService
	Inventory *service.InventoryService
	Draft     *service.DraftService
	Bulk      *service.BulkService
}

// Controllers 控制器集合
type Controllers struct {
	User        *controller.UserController
	Auth        *controller.AuthController
	Draft       *controller.DraftController
	Inventory   *controller.InventoryController
	Order       *controller.OrderController
	Sync        *controller.SyncController
	Bulk        *controller.BulkController
	Settings    *controller.SettingsController
	Marketplace *controller.MarketplaceController
}

// ==================== 初始化函数 ====================

// initDatabase 初始化数据库
func initDatabase(cfg *config.Config) *gorm.DB {
	return database.InitDB(cfg.DataDir,
		// 用户与账号
		&model.User{}, &model.MarketplaceAccount{}, &model.UserSettings{},
		// 库存
		&model.InventoryItem{},
		// 刊登草稿
		&model.ListingDraft{},
		// 订单
		&model.SaleRecord{},
		// 批量刊登
		&model.BulkTask{}, &model.BulkRowResult{},
	)
}

// initDependencies 初始化所有依赖
func initDependencies(cfg *config.Config, db *gorm.DB) *Dependencies {
	// -------- Repo 层 --------
	repos := &Repositories{
		User:      repository.NewUserRepository(db),
		Account:   repository.NewAccountRepository(db),
		Settings:  repository.NewSettingsRepository(db),
		Inventory: repository.NewInventoryRepository(db),
		Draft:     repository.NewDraftRepository(db),
		Sale:      repository.NewSaleRepository(db),
		Bulk:      repository.NewBulkRepository(db),
	}

	// -------- 平台客户端 --------
	tradingClient := ebay.NewTradingClient(ebay.Config{
		Endpoint: cfg.Ebay.TradingURL,
		SiteID:   cfg.Ebay.SiteID,
	})
	oauthClient := ebay.NewOAuthClient(ebay.OAuthConfig{
		TokenURL:     cfg.Ebay.TokenURL,
		ClientID:     cfg.Ebay.ClientID,
		ClientSecret: cfg.Ebay.ClientSecret,
		RedirectURI:  cfg.Ebay.RedirectURI,
	})

	// -------- 基础服务 --------
	svcs := &Services{}
	svcs.Settings = service.NewSettingsService(repos.Settings)
	svcs.AI = service.NewAIService(cfg.AI)
	svcs.Scraper = service.NewScraperService()

	storageSvc, err := service.NewStorageService(cfg.Storage)
	if err != nil {
		log.Fatalf("存储服务初始化失败: %v", err)
	}
	svcs.Storage = storageSvc

	// -------- 平台适配 --------
	svcs.Ebay = service.NewEbayService(cfg.Ebay, tradingClient, oauthClient,
		repos.Account, svcs.Settings, svcs.Storage)
	svcs.Factory = service.NewMarketplaceFactory(svcs.Ebay)

	// -------- 业务服务 --------
	svcs.User = service.NewUserService(repos.User)
	svcs.Auth = service.NewAuthService(cfg.Ebay, oauthClient, repos.Account)
	svcs.Inventory = service.NewInventoryService(repos.Inventory)
	svcs.Publish = service.NewPublishService(svcs.Factory, repos.Draft)
	svcs.Order = service.NewOrderService(svcs.Factory, repos.Sale, svcs.Inventory)
	svcs.Draft = service.NewDraftService(repos.Draft, svcs.Scraper, svcs.AI)
	svcs.Bulk = service.NewBulkService(repos.Bulk, svcs.Scraper, svcs.AI, svcs.Publish)

	// 同步数量策略：配置为准，设置页可按用户覆盖
	var policy service.QuantityPolicy
	if cfg.SyncUseInventoryCount {
		policy = service.NewInventoryCountPolicy(repos.Inventory)
	} else {
		policy = service.NewListingSumPolicy()
	}
	svcs.Sync = service.NewSyncService(svcs.Factory, policy)

	// -------- Controller 层 --------
	controllers := &Controllers{
		User:        controller.NewUserController(svcs.User),
		Auth:        controller.NewAuthController(svcs.Auth),
		Draft:       controller.NewDraftController(svcs.Draft, svcs.Publish),
		Inventory:   controller.NewInventoryController(svcs.Inventory),
		Order:       controller.NewOrderController(svcs.Order),
		Sync:        controller.NewSyncController(svcs.Sync),
		Bulk:        controller.NewBulkController(svcs.Bulk),
		Settings:    controller.NewSettingsController(svcs.Settings),
		Marketplace: controller.NewMarketplaceController(svcs.Factory),
	}

	return &Dependencies{
		DB:          db,
		Repos:       repos,
		Services:    svcs,
		Controllers: controllers,
	}
}

// ==================== 定时任务 ====================

// initTasks 初始化定时任务，返回统一的停止函数
func initTasks(cfg *config.Config, deps *Dependencies) func() {
	// Token 刷新
	tokenTask := task.NewTokenTask(deps.Repos.Account, deps.Services.Auth)
	tokenTask.Start()

	// 订单轮询
	orderTask := task.NewOrderSyncTask(deps.Repos.Account, deps.Services.Order, cfg.OrderLookbackDays)
	orderTask.Start()

	log.Println("定时任务已启动")

	return func() {
		tokenTask.Stop()
		orderTask.Stop()
	}
}

// ==================== 服务启动 ====================

// startServer 启动服务
func startServer(cfg *config.Config, r *gin.Engine, stopTasks func()) {
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	// 异步启动服务
	go func() {
		log.Printf("服务启动在 :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("服务启动失败: %v", err)
		}
	}()

	// 等待退出信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("正在关闭服务...")

	// 优雅关闭，最多等待 30 秒
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	stopTasks()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("服务强制关闭: %v", err)
	}

	log.Println("服务已退出")
}
