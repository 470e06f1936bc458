package router

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"chumslister/internal/controller"
	"chumslister/internal/middleware"

	_ "chumslister/docs"
)

// InitRoutes 注册所有路由
func InitRoutes(r *gin.Engine,
	userCtrl *controller.UserController,
	authCtrl *controller.AuthController,
	draftCtrl *controller.DraftController,
	inventoryCtrl *controller.InventoryController,
	orderCtrl *controller.OrderController,
	syncCtrl *controller.SyncController,
	bulkCtrl *controller.BulkController,
	settingsCtrl *controller.SettingsController,
	marketplaceCtrl *controller.MarketplaceController) {
	// 1. Swagger 文档路由
	// 访问 http://localhost:8080/swagger/index.html 即可查看
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// 2. API 路由组
	api := r.Group("/api")
	{
		// 公开路由：注册 / 登录 / 刷新 / OAuth 回调
		public := api.Group("")
		{
			public.POST("/users/register", userCtrl.Register)
			public.POST("/users/login", userCtrl.Login)
			public.POST("/users/refresh", userCtrl.RefreshToken)

			// GET /api/auth/callback
			// eBay 授权回调由平台重定向触发，state 关联回发起授权的用户
			public.GET("/auth/callback", authCtrl.Callback)
		}

		// 以下路由均需登录
		protected := api.Group("", middleware.JWTAuth())
		{
			protected.GET("/users/me", userCtrl.Profile)

			// auth 平台账号授权
			auth := protected.Group("/auth")
			{
				// GET /api/auth/login
				auth.GET("/login", authCtrl.Login)
				auth.GET("/accounts", authCtrl.ListAccounts)
				auth.DELETE("/accounts/:id", authCtrl.UnlinkAccount)
			}

			// drafts 刊登草稿向导
			drafts := protected.Group("/drafts")
			{
				drafts.POST("", draftCtrl.Create)
				drafts.GET("", draftCtrl.List)
				drafts.GET("/:id", draftCtrl.Get)
				drafts.PUT("/:id", draftCtrl.Update)
				drafts.DELETE("/:id", draftCtrl.Discard)
				drafts.POST("/:id/seed", draftCtrl.Seed)
				drafts.POST("/:id/description", draftCtrl.GenerateDescription)
				drafts.POST("/:id/images", draftCtrl.AddImages)
				drafts.POST("/:id/publish", draftCtrl.Publish)
			}

			// inventory 本地库存
			inventory := protected.Group("/inventory")
			{
				inventory.POST("", inventoryCtrl.Create)
				inventory.GET("", inventoryCtrl.List)
				inventory.GET("/export", inventoryCtrl.ExportCSV)
				inventory.POST("/import", inventoryCtrl.ImportCSV)
				inventory.GET("/:id", inventoryCtrl.Get)
				inventory.PUT("/:id", inventoryCtrl.Update)
				inventory.DELETE("/:id", inventoryCtrl.Delete)
				inventory.POST("/:id/tags", inventoryCtrl.AddStatusTag)
			}

			// orders 订单
			orders := protected.Group("/orders")
			{
				orders.GET("", orderCtrl.RecentSales)
				orders.GET("/:id", orderCtrl.Details)
				orders.POST("/sync",
					middleware.SyncRateLimit(middleware.SyncTypeOrder, 0), orderCtrl.Sync)
			}

			// sync 跨平台库存同步 (带限流，避免误触发刷爆平台 API)
			protected.POST("/sync/inventory",
				middleware.SyncRateLimit(middleware.SyncTypeInventory, 0), syncCtrl.TriggerInventorySync)

			// bulk 批量刊登
			bulk := protected.Group("/bulk")
			{
				bulk.POST("", bulkCtrl.Start)
				bulk.GET("", bulkCtrl.List)
				bulk.GET("/:key", bulkCtrl.Status)
				bulk.POST("/:key/cancel", bulkCtrl.Cancel)
				bulk.GET("/:key/events", bulkCtrl.Events)
			}

			// settings 用户设置
			protected.GET("/settings", settingsCtrl.Get)
			protected.PUT("/settings", settingsCtrl.Save)

			// marketplaces 平台元数据
			marketplaces := protected.Group("/marketplaces/:platform")
			{
				marketplaces.GET("/categories", marketplaceCtrl.ChildCategories)
				marketplaces.GET("/specifics", marketplaceCtrl.ItemSpecifics)
				marketplaces.GET("/conditions", marketplaceCtrl.ConditionValues)
				marketplaces.GET("/listings", marketplaceCtrl.ActiveListings)
				marketplaces.POST("/images", marketplaceCtrl.UploadImage)
			}
		}
	}
}
