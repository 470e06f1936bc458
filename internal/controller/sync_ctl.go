package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"chumslister/internal/middleware"
	"chumslister/internal/service"
)

// SyncController 库存同步控制器
type SyncController struct {
	syncService *service.SyncService
}

// NewSyncController 创建同步控制器
func NewSyncController(syncService *service.SyncService) *SyncController {
	return &SyncController{syncService: syncService}
}

// TriggerInventorySync
// @Summary 手动触发跨平台库存同步
// @Description 按型号/归一化标题把同款刊登聚组，组内按权威总量均摊数量
// @Tags Sync (同步模块)
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.SyncReport
// @Failure 429 {string} string "操作过于频繁"
// @Router /sync/inventory [post]
func (ctrl *SyncController) TriggerInventorySync(c *gin.Context) {
	report, err := ctrl.syncService.SyncInventory(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, report)
}
