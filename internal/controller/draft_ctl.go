package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"

	"chumslister/internal/api/dto"
	"chumslister/internal/middleware"
	"chumslister/internal/model"
	"chumslister/internal/service"
)

// DraftController 草稿控制器
type DraftController struct {
	draftService   *service.DraftService
	publishService *service.PublishService
}

// NewDraftController 创建草稿控制器
func NewDraftController(draftService *service.DraftService, publishService *service.PublishService) *DraftController {
	return &DraftController{draftService: draftService, publishService: publishService}
}

// Create
// @Summary 新建草稿
// @Tags Draft (草稿模块)
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.DraftRequest true "草稿内容"
// @Success 200 {object} model.ListingDraft
// @Router /drafts [post]
func (ctrl *DraftController) Create(c *gin.Context) {
	var req dto.DraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	draft := draftFromRequest(&req)
	if err := ctrl.draftService.Create(c.Request.Context(), middleware.GetUserID(c), draft); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, draft)
}

// Get
// @Summary 草稿详情
// @Tags Draft (草稿模块)
// @Produce json
// @Security BearerAuth
// @Param id path int true "草稿 ID"
// @Success 200 {object} model.ListingDraft
// @Router /drafts/{id} [get]
func (ctrl *DraftController) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	draft, err := ctrl.draftService.Get(c.Request.Context(), middleware.GetUserID(c), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, draft)
}

// List
// @Summary 草稿列表
// @Tags Draft (草稿模块)
// @Produce json
// @Security BearerAuth
// @Param status query string false "状态过滤" Enums(editing, published, discarded)
// @Param page query int false "页码"
// @Param page_size query int false "每页条数"
// @Success 200 {array} model.ListingDraft
// @Router /drafts [get]
func (ctrl *DraftController) List(c *gin.Context) {
	var req dto.ListDraftsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	drafts, total, err := ctrl.draftService.List(c.Request.Context(), middleware.GetUserID(c), req.Status, req.Page, req.PageSize)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"total": total, "drafts": drafts})
}

// Update
// @Summary 保存草稿
// @Tags Draft (草稿模块)
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "草稿 ID"
// @Param body body dto.DraftRequest true "草稿内容"
// @Success 200 {object} model.ListingDraft
// @Router /drafts/{id} [put]
func (ctrl *DraftController) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req dto.DraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	draft := draftFromRequest(&req)
	draft.ID = id
	if err := ctrl.draftService.Update(c.Request.Context(), middleware.GetUserID(c), draft); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, draft)
}

// Discard
// @Summary 放弃草稿
// @Tags Draft (草稿模块)
// @Produce json
// @Security BearerAuth
// @Param id path int true "草稿 ID"
// @Success 200 {string} string "已放弃"
// @Router /drafts/{id} [delete]
func (ctrl *DraftController) Discard(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := ctrl.draftService.Discard(c.Request.Context(), middleware.GetUserID(c), id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "已放弃"})
}

// Seed
// @Summary 按型号抓取补全草稿
// @Tags Draft (草稿模块)
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "草稿 ID"
// @Param body body dto.SeedDraftRequest true "型号"
// @Success 200 {object} model.ListingDraft
// @Router /drafts/{id}/seed [post]
func (ctrl *DraftController) Seed(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req dto.SeedDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	draft, err := ctrl.draftService.SeedFromModelNumber(c.Request.Context(), middleware.GetUserID(c), id, req.ModelNumber)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, draft)
}

// GenerateDescription
// @Summary AI 生成草稿描述
// @Tags Draft (草稿模块)
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "草稿 ID"
// @Param body body dto.GenerateDescriptionRequest false "生成选项"
// @Success 200 {object} model.ListingDraft
// @Router /drafts/{id}/description [post]
func (ctrl *DraftController) GenerateDescription(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req dto.GenerateDescriptionRequest
	_ = c.ShouldBindJSON(&req)

	draft, err := ctrl.draftService.GenerateDescription(c.Request.Context(), middleware.GetUserID(c), id, req.Overwrite)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, draft)
}

// AddImages
// @Summary 追加草稿图片
// @Tags Draft (草稿模块)
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "草稿 ID"
// @Param body body dto.AddImagesRequest true "图片引用"
// @Success 200 {object} model.ListingDraft
// @Router /drafts/{id}/images [post]
func (ctrl *DraftController) AddImages(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req dto.AddImagesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	draft, err := ctrl.draftService.AddImages(c.Request.Context(), middleware.GetUserID(c), id, req.RemoteImageURLs, req.LocalImagePaths)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, draft)
}

// Publish
// @Summary 刊登草稿到指定平台
// @Description 各平台并发刊登互相隔离，结果按平台逐条返回
// @Tags Draft (草稿模块)
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "草稿 ID"
// @Param body body dto.PublishDraftRequest true "目标平台"
// @Success 200 {object} map[string]service.ListingResult
// @Router /drafts/{id}/publish [post]
func (ctrl *DraftController) Publish(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req dto.PublishDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// 平台名在边界上解析，非法名直接拒绝
	platforms := make([]service.Platform, 0, len(req.Platforms))
	for _, name := range req.Platforms {
		p, err := service.ParsePlatform(name)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		platforms = append(platforms, p)
	}

	results, err := ctrl.publishService.PublishDraft(c.Request.Context(), middleware.GetUserID(c), id, platforms)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"results": results})
}

// ==================== 辅助 ====================

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的 id"})
		return 0, false
	}
	return id, true
}

func queryInt(c *gin.Context, name string, def int) int {
	if v, err := strconv.Atoi(c.Query(name)); err == nil && v > 0 {
		return v
	}
	return def
}

func draftFromRequest(req *dto.DraftRequest) *model.ListingDraft {
	draft := &model.ListingDraft{
		AccountID: req.AccountID,

		Title: req.Title,
		Brand: req.Brand,
		MPN:   req.MPN,
		SKU:   req.SKU,
		UPC:   req.UPC,
		EAN:   req.EAN,
		ISBN:  req.ISBN,

		StartPriceCents:    req.StartPriceCents,
		BuyItNowPriceCents: req.BuyItNowPriceCents,
		ReservePriceCents:  req.ReservePriceCents,
		Quantity:           req.Quantity,

		PrimaryCategoryID:     req.PrimaryCategoryID,
		PrimaryCategoryName:   req.PrimaryCategoryName,
		SecondaryCategoryID:   req.SecondaryCategoryID,
		SecondaryCategoryName: req.SecondaryCategoryName,
		StoreCategoryID:       req.StoreCategoryID,

		ConditionID:          req.ConditionID,
		ConditionName:        req.ConditionName,
		ConditionDescription: req.ConditionDescription,

		Description: req.Description,

		RemoteImageURLs: datatypes.NewJSONSlice(req.RemoteImageURLs),
		LocalImagePaths: datatypes.NewJSONSlice(req.LocalImagePaths),
		AllowNoImages:   req.AllowNoImages,

		ShippingPolicyID: req.ShippingPolicyID,
		PaymentPolicyID:  req.PaymentPolicyID,
		ReturnPolicyID:   req.ReturnPolicyID,
	}
	if req.Specifics != nil {
		draft.Specifics = datatypes.NewJSONType(model.ItemSpecifics(req.Specifics))
	}
	return draft
}
