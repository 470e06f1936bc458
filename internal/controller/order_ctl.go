package controller

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"chumslister/internal/api/dto"
	"chumslister/internal/middleware"
	"chumslister/internal/service"
)

// OrderController 订单控制器
type OrderController struct {
	orderService *service.OrderService
}

// NewOrderController 创建订单控制器
func NewOrderController(orderService *service.OrderService) *OrderController {
	return &OrderController{orderService: orderService}
}

// RecentSales
// @Summary 近期订单 (跨平台聚合)
// @Description 聚合全部已授权平台的近期订单，按售出时间倒序；单平台失败不影响整体
// @Tags Order (订单模块)
// @Produce json
// @Security BearerAuth
// @Param days query int false "回溯天数 (默认 7)"
// @Success 200 {array} service.OrderSummary
// @Router /orders [get]
func (ctrl *OrderController) RecentSales(c *gin.Context) {
	var req dto.ListOrdersRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	to := time.Now()
	from := to.AddDate(0, 0, -req.Days)

	orders := ctrl.orderService.GetRecentSales(c.Request.Context(), middleware.GetUserID(c), from, to)
	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

// Details
// @Summary 订单详情
// @Tags Order (订单模块)
// @Produce json
// @Security BearerAuth
// @Param id path string true "平台订单号"
// @Param platform query string true "平台名"
// @Success 200 {object} service.OrderDetails
// @Router /orders/{id} [get]
func (ctrl *OrderController) Details(c *gin.Context) {
	var req dto.OrderDetailsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	platform, err := service.ParsePlatform(req.Platform)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	details, err := ctrl.orderService.GetOrderDetails(c.Request.Context(), middleware.GetUserID(c), platform, c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, details)
}

// Sync
// @Summary 手动触发订单落库
// @Tags Order (订单模块)
// @Produce json
// @Security BearerAuth
// @Param days query int false "回溯天数 (默认 7)"
// @Success 200 {string} string "同步条数"
// @Router /orders/sync [post]
func (ctrl *OrderController) Sync(c *gin.Context) {
	var req dto.ListOrdersRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	to := time.Now()
	from := to.AddDate(0, 0, -req.Days)

	saved, err := ctrl.orderService.SyncSales(c.Request.Context(), middleware.GetUserID(c), from, to)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "同步完成", "saved": saved})
}
