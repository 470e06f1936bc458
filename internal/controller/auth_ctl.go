package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"chumslister/internal/api/dto"
	"chumslister/internal/middleware"
	"chumslister/internal/service"
)

// AuthController 平台账号授权控制器
type AuthController struct {
	authService *service.AuthService
}

// NewAuthController 创建授权控制器
func NewAuthController(authService *service.AuthService) *AuthController {
	return &AuthController{authService: authService}
}

// Login
// @Summary 获取 eBay 授权链接
// @Description 为当前用户生成 OAuth 授权跳转链接，前端展示给用户手动跳转
// @Tags Auth (授权模块)
// @Produce json
// @Security BearerAuth
// @Param label query string false "账号展示名"
// @Success 200 {string} string "auth_url"
// @Failure 400 {string} string "错误信息"
// @Router /auth/login [get]
func (ctrl *AuthController) Login(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req dto.LoginURLRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":  "参数错误",
			"detail": err.Error(),
		})
		return
	}

	url, err := ctrl.authService.BuildLoginURL(userID, req.Label)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":  "生成失败",
			"detail": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "获取成功",
		"auth_url": url,
	})
}

// Callback
// @Summary eBay 授权回调
// @Description 接收 eBay 返回的 code 和 state，换取 Token 并入库
// @Tags Auth (授权模块)
// @Produce json
// @Param code query string true "授权码"
// @Param state query string true "防 CSRF 的 state"
// @Success 200 {string} string "授权成功"
// @Failure 400 {string} string "错误信息"
// @Router /auth/callback [get]
func (ctrl *AuthController) Callback(c *gin.Context) {
	code := c.Query("code")
	state := c.Query("state")
	if code == "" || state == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "缺少 code 或 state"})
		return
	}

	acc, err := ctrl.authService.HandleCallback(c.Request.Context(), state, code)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":  "授权失败",
			"detail": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "授权成功",
		"account_id": acc.ID,
		"platform":   acc.Platform,
	})
}

// ListAccounts
// @Summary 列出当前用户的平台账号
// @Tags Auth (授权模块)
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.MarketplaceAccount
// @Router /auth/accounts [get]
func (ctrl *AuthController) ListAccounts(c *gin.Context) {
	userID := middleware.GetUserID(c)

	accounts, err := ctrl.authService.ListAccounts(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"accounts": accounts})
}

// UnlinkAccount
// @Summary 解绑平台账号
// @Tags Auth (授权模块)
// @Produce json
// @Security BearerAuth
// @Param id path int true "账号 ID"
// @Success 200 {string} string "解绑成功"
// @Router /auth/accounts/{id} [delete]
func (ctrl *AuthController) UnlinkAccount(c *gin.Context) {
	userID := middleware.GetUserID(c)

	accountID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id 必须是数字"})
		return
	}

	if err := ctrl.authService.UnlinkAccount(c.Request.Context(), userID, accountID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "解绑成功"})
}
