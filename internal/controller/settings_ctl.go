package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"

	"chumslister/internal/api/dto"
	"chumslister/internal/middleware"
	"chumslister/internal/model"
	"chumslister/internal/service"
)

// SettingsController 用户设置控制器
type SettingsController struct {
	settingsService *service.SettingsService
}

// NewSettingsController 创建用户设置控制器
func NewSettingsController(settingsService *service.SettingsService) *SettingsController {
	return &SettingsController{settingsService: settingsService}
}

// Get
// @Summary 读取当前用户设置
// @Tags Settings (用户设置)
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.UserSettings
// @Router /settings [get]
func (ctrl *SettingsController) Get(c *gin.Context) {
	settings, err := ctrl.settingsService.Get(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, settings)
}

// Save
// @Summary 整体保存当前用户设置
// @Description 覆盖式保存，不做部分更新
// @Tags Settings (用户设置)
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.SettingsRequest true "设置内容"
// @Success 200 {object} model.UserSettings
// @Router /settings [put]
func (ctrl *SettingsController) Save(c *gin.Context) {
	var req dto.SettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := middleware.GetUserID(c)

	// 先取现有记录拿到主键，再整体覆盖
	settings, err := ctrl.settingsService.Get(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	settings.ListingTemplate = datatypes.NewJSONType(model.ListingTemplateSettings{
		ShippingPolicyID:    req.ShippingPolicyID,
		PaymentPolicyID:     req.PaymentPolicyID,
		ReturnPolicyID:      req.ReturnPolicyID,
		DefaultCategoryID:   req.DefaultCategoryID,
		PaymentMethods:      req.PaymentMethods,
		DescriptionTemplate: req.DescriptionTemplate,
	})
	settings.UseInventoryCount = req.UseInventoryCount
	settings.Custom = datatypes.JSONMap(req.Custom)

	if err := ctrl.settingsService.Save(c.Request.Context(), settings); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, settings)
}
