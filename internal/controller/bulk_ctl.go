package controller

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"chumslister/internal/api/dto"
	"chumslister/internal/middleware"
	"chumslister/internal/service"
)

// BulkController 批量刊登控制器
type BulkController struct {
	bulkService *service.BulkService
}

// NewBulkController 创建批量刊登控制器
func NewBulkController(bulkService *service.BulkService) *BulkController {
	return &BulkController{bulkService: bulkService}
}

// Start
// @Summary 上传 CSV 启动批量刊登
// @Description 异步执行，返回任务键；进度通过 /bulk/{key}/events 订阅
// @Tags Bulk (批量模块)
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "CSV 文件"
// @Param platforms formData []string true "目标平台"
// @Success 200 {string} string "task_key"
// @Router /bulk [post]
func (ctrl *BulkController) Start(c *gin.Context) {
	var req dto.StartBulkRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	platforms := make([]service.Platform, 0, len(req.Platforms))
	for _, name := range req.Platforms {
		p, err := service.ParsePlatform(name)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		platforms = append(platforms, p)
	}

	file, _, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "缺少 file 文件字段"})
		return
	}
	defer file.Close()

	taskKey, err := ctrl.bulkService.StartFromCSV(c.Request.Context(), middleware.GetUserID(c), file, platforms)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "任务已启动", "task_key": taskKey})
}

// Status
// @Summary 批量任务状态与行结果
// @Tags Bulk (批量模块)
// @Produce json
// @Security BearerAuth
// @Param key path string true "任务键"
// @Success 200 {object} model.BulkTask
// @Router /bulk/{key} [get]
func (ctrl *BulkController) Status(c *gin.Context) {
	task, err := ctrl.bulkService.GetTask(c.Request.Context(), middleware.GetUserID(c), c.Param("key"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, task)
}

// List
// @Summary 批量任务列表
// @Tags Bulk (批量模块)
// @Produce json
// @Security BearerAuth
// @Param page query int false "页码"
// @Param page_size query int false "每页条数"
// @Success 200 {array} model.BulkTask
// @Router /bulk [get]
func (ctrl *BulkController) List(c *gin.Context) {
	page := queryInt(c, "page", 1)
	pageSize := queryInt(c, "page_size", 20)

	tasks, total, err := ctrl.bulkService.ListTasks(c.Request.Context(), middleware.GetUserID(c), page, pageSize)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"total": total, "tasks": tasks})
}

// Cancel
// @Summary 取消批量任务
// @Description 当前行执行完后生效
// @Tags Bulk (批量模块)
// @Produce json
// @Security BearerAuth
// @Param key path string true "任务键"
// @Success 200 {string} string "已请求取消"
// @Router /bulk/{key}/cancel [post]
func (ctrl *BulkController) Cancel(c *gin.Context) {
	key := c.Param("key")

	// 先确认归属，避免越权取消别人的任务
	if _, err := ctrl.bulkService.GetTask(c.Request.Context(), middleware.GetUserID(c), key); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	ctrl.bulkService.Cancel(key)
	c.JSON(http.StatusOK, gin.H{"message": "已请求取消"})
}

// Events
// @Summary 订阅任务进度 (SSE)
// @Tags Bulk (批量模块)
// @Produce text/event-stream
// @Security BearerAuth
// @Param key path string true "任务键"
// @Router /bulk/{key}/events [get]
func (ctrl *BulkController) Events(c *gin.Context) {
	key := c.Param("key")

	if _, err := ctrl.bulkService.GetTask(c.Request.Context(), middleware.GetUserID(c), key); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	ch := ctrl.bulkService.Subscribe(key)
	defer ctrl.bulkService.Unsubscribe(key, ch)

	c.Stream(func(w io.Writer) bool {
		select {
		case progress, ok := <-ch:
			if !ok {
				return false
			}
			c.SSEvent("progress", progress)
			// 整批跑完就断流
			return progress.Done < progress.Total
		case <-c.Request.Context().Done():
			return false
		}
	})
}
