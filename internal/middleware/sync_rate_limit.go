package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// ==================== 同步限流中间件 ====================

// SyncRateLimit 同步限流中间件
// 按用户 + 同步类型维度进行限流
//
// 使用示例:
//
//	router.POST("/api/v1/sync/inventory",
//	    middleware.SyncRateLimit(middleware.SyncTypeInventory, 0),
//	    controller.TriggerInventorySync,
//	)
//
// 参数:
//   - syncType: 同步类型
//   - interval: 冷却间隔，0 表示使用默认值
func SyncRateLimit(syncType SyncType, interval time.Duration) gin.HandlerFunc {
	if interval == 0 {
		interval = GetInterval(syncType)
	}

	return func(c *gin.Context) {
		userID := GetUserID(c)
		if userID == 0 {
			// 未认证的请求交给后面的认证中间件拒绝
			c.Next()
			return
		}

		key := UserSyncKey(userID, syncType)
		result := GetLimiter().Check(key, interval)
		if !result.Allowed {
			c.Header("Retry-After", fmt.Sprintf("%d", int(result.RetryAfter.Seconds())+1))
			c.JSON(http.StatusTooManyRequests, gin.H{
				"code":    429,
				"message": fmt.Sprintf("操作过于频繁，请 %s 后再试", result.RetryAfter.Round(time.Second)),
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
