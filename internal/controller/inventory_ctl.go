package controller

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"chumslister/internal/api/dto"
	"chumslister/internal/middleware"
	"chumslister/internal/model"
	"chumslister/internal/repository"
	"chumslister/internal/service"
)

// InventoryController 库存控制器
type InventoryController struct {
	inventoryService *service.InventoryService
}

// NewInventoryController 创建库存控制器
func NewInventoryController(inventoryService *service.InventoryService) *InventoryController {
	return &InventoryController{inventoryService: inventoryService}
}

// Create
// @Summary 新建库存条目
// @Tags Inventory (库存模块)
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.InventoryItemRequest true "库存条目"
// @Success 200 {object} model.InventoryItem
// @Router /inventory [post]
func (ctrl *InventoryController) Create(c *gin.Context) {
	var req dto.InventoryItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	item := inventoryFromRequest(&req)
	if err := ctrl.inventoryService.Create(c.Request.Context(), middleware.GetUserID(c), item); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, item)
}

// Get
// @Summary 库存条目详情
// @Tags Inventory (库存模块)
// @Produce json
// @Security BearerAuth
// @Param id path int true "条目 ID"
// @Success 200 {object} model.InventoryItem
// @Router /inventory/{id} [get]
func (ctrl *InventoryController) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	item, err := ctrl.inventoryService.Get(c.Request.Context(), middleware.GetUserID(c), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, item)
}

// List
// @Summary 库存列表
// @Tags Inventory (库存模块)
// @Produce json
// @Security BearerAuth
// @Param keyword query string false "标题/SKU/型号模糊搜索"
// @Param tag query string false "状态标签过滤"
// @Param page query int false "页码"
// @Param page_size query int false "每页条数"
// @Success 200 {array} model.InventoryItem
// @Router /inventory [get]
func (ctrl *InventoryController) List(c *gin.Context) {
	var req dto.ListInventoryRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	items, total, err := ctrl.inventoryService.List(c.Request.Context(), repository.InventoryFilter{
		UserID:   middleware.GetUserID(c),
		Keyword:  req.Keyword,
		Tag:      req.Tag,
		Page:     req.Page,
		PageSize: req.PageSize,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"total": total, "items": items})
}

// Update
// @Summary 更新库存条目
// @Tags Inventory (库存模块)
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "条目 ID"
// @Param body body dto.InventoryItemRequest true "库存条目"
// @Success 200 {object} model.InventoryItem
// @Router /inventory/{id} [put]
func (ctrl *InventoryController) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req dto.InventoryItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	item := inventoryFromRequest(&req)
	item.ID = id
	if err := ctrl.inventoryService.Update(c.Request.Context(), middleware.GetUserID(c), item); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, item)
}

// Delete
// @Summary 删除库存条目
// @Tags Inventory (库存模块)
// @Produce json
// @Security BearerAuth
// @Param id path int true "条目 ID"
// @Success 200 {string} string "删除成功"
// @Router /inventory/{id} [delete]
func (ctrl *InventoryController) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := ctrl.inventoryService.Delete(c.Request.Context(), middleware.GetUserID(c), id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "删除成功"})
}

// AddStatusTag
// @Summary 追加状态标签
// @Tags Inventory (库存模块)
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "条目 ID"
// @Param body body dto.AddStatusTagRequest true "标签"
// @Success 200 {string} string "追加成功"
// @Router /inventory/{id}/tags [post]
func (ctrl *InventoryController) AddStatusTag(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req dto.AddStatusTagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := ctrl.inventoryService.AddStatusTag(c.Request.Context(), middleware.GetUserID(c), id, req.Tag); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "追加成功"})
}

// ImportCSV
// @Summary 批量导入库存 (CSV)
// @Tags Inventory (库存模块)
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "CSV 文件"
// @Success 200 {object} service.ImportReport
// @Router /inventory/import [post]
func (ctrl *InventoryController) ImportCSV(c *gin.Context) {
	file, _, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "缺少 file 文件字段"})
		return
	}
	defer file.Close()

	report, err := ctrl.inventoryService.ImportCSV(c.Request.Context(), middleware.GetUserID(c), file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, report)
}

// ExportCSV
// @Summary 导出全部库存 (CSV)
// @Tags Inventory (库存模块)
// @Produce text/csv
// @Security BearerAuth
// @Success 200 {string} string "CSV 内容"
// @Router /inventory/export [get]
func (ctrl *InventoryController) ExportCSV(c *gin.Context) {
	filename := fmt.Sprintf("inventory-%s.csv", time.Now().Format("20060102"))
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)

	if err := ctrl.inventoryService.ExportCSV(c.Request.Context(), middleware.GetUserID(c), c.Writer); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
}

func inventoryFromRequest(req *dto.InventoryItemRequest) *model.InventoryItem {
	return &model.InventoryItem{
		SKU:            req.SKU,
		Title:          req.Title,
		Brand:          req.Brand,
		ModelNumber:    req.ModelNumber,
		Description:    req.Description,
		Condition:      req.Condition,
		Category:       req.Category,
		Location:       req.Location,
		WeightLbs:      req.WeightLbs,
		QuantityOnHand: req.QuantityOnHand,
		CostCents:      req.CostCents,
		PriceCents:     req.PriceCents,
	}
}
