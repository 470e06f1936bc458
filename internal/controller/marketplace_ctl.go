package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"chumslister/internal/middleware"
	"chumslister/internal/service"
)

// MarketplaceController 平台元数据控制器
// 分类树、推荐属性、成色枚举、图片上传这类刊登向导要用的查询
type MarketplaceController struct {
	factory *service.MarketplaceFactory
}

// NewMarketplaceController 创建平台元数据控制器
func NewMarketplaceController(factory *service.MarketplaceFactory) *MarketplaceController {
	return &MarketplaceController{factory: factory}
}

// resolve 解析路径里的平台名
func (ctrl *MarketplaceController) resolve(c *gin.Context) (service.MarketplaceService, bool) {
	svc, err := ctrl.factory.GetByName(c.Param("platform"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	}
	return svc, true
}

// ChildCategories
// @Summary 某分类的直接子分类
// @Description parent 为空或 0 时返回顶级分类；叶子分类返回空数组
// @Tags Marketplace (平台元数据)
// @Produce json
// @Security BearerAuth
// @Param platform path string true "平台名"
// @Param parent query string false "父分类 ID"
// @Success 200 {array} service.CategorySummary
// @Router /marketplaces/{platform}/categories [get]
func (ctrl *MarketplaceController) ChildCategories(c *gin.Context) {
	svc, ok := ctrl.resolve(c)
	if !ok {
		return
	}

	categories, err := svc.GetChildCategories(c.Request.Context(), middleware.GetUserID(c), c.Query("parent"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

// ItemSpecifics
// @Summary 分类的推荐属性
// @Tags Marketplace (平台元数据)
// @Produce json
// @Security BearerAuth
// @Param platform path string true "平台名"
// @Param category_id query string true "分类 ID"
// @Success 200 {array} service.SpecificRecommendation
// @Router /marketplaces/{platform}/specifics [get]
func (ctrl *MarketplaceController) ItemSpecifics(c *gin.Context) {
	svc, ok := ctrl.resolve(c)
	if !ok {
		return
	}

	categoryID := c.Query("category_id")
	if categoryID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "缺少 category_id"})
		return
	}

	specifics, err := svc.GetItemSpecifics(c.Request.Context(), middleware.GetUserID(c), categoryID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"specifics": specifics})
}

// ConditionValues
// @Summary 分类下的合法成色
// @Tags Marketplace (平台元数据)
// @Produce json
// @Security BearerAuth
// @Param platform path string true "平台名"
// @Param category_id query string true "分类 ID"
// @Success 200 {array} service.ConditionOption
// @Router /marketplaces/{platform}/conditions [get]
func (ctrl *MarketplaceController) ConditionValues(c *gin.Context) {
	svc, ok := ctrl.resolve(c)
	if !ok {
		return
	}

	categoryID := c.Query("category_id")
	if categoryID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "缺少 category_id"})
		return
	}

	conditions, err := svc.GetConditionValues(c.Request.Context(), middleware.GetUserID(c), categoryID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"conditions": conditions})
}

// ActiveListings
// @Summary 平台在线刊登列表
// @Tags Marketplace (平台元数据)
// @Produce json
// @Security BearerAuth
// @Param platform path string true "平台名"
// @Success 200 {array} service.ActiveListing
// @Router /marketplaces/{platform}/listings [get]
func (ctrl *MarketplaceController) ActiveListings(c *gin.Context) {
	svc, ok := ctrl.resolve(c)
	if !ok {
		return
	}

	listings, err := svc.GetActiveListings(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"listings": listings})
}

// UploadImage
// @Summary 上传图片到平台图床
// @Tags Marketplace (平台元数据)
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param platform path string true "平台名"
// @Success 200 {string} string "图床 URL"
// @Router /marketplaces/{platform}/images [post]
func (ctrl *MarketplaceController) UploadImage(c *gin.Context) {
	svc, ok := ctrl.resolve(c)
	if !ok {
		return
	}

	var req struct {
		ImageURL string `json:"image_url" binding:"required,url"`
		Name     string `json:"name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	url, err := svc.UploadImage(c.Request.Context(), middleware.GetUserID(c), req.ImageURL, req.Name)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": url})
}
