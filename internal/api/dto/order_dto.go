package dto

// ==================== 订单 ====================

// ListOrdersRequest 近期订单查询 (跨平台聚合)
type ListOrdersRequest struct {
	Days int `form:"days,default=7" binding:"min=1,max=90"`
}

// OrderDetailsRequest 订单详情查询
type OrderDetailsRequest struct {
	Platform string `form:"platform" binding:"required"`
}

// ==================== 账号授权 ====================

// LoginURLRequest 生成平台授权链接请求
type LoginURLRequest struct {
	Label string `form:"label" binding:"max=128"`
}

// ==================== 批量刊登 ====================

// StartBulkRequest 批量任务启动参数 (multipart 表单的 platforms 字段)
type StartBulkRequest struct {
	Platforms []string `form:"platforms" binding:"required,min=1"`
}

// ==================== 设置 ====================

// SettingsRequest 用户设置整体保存请求
type SettingsRequest struct {
	ShippingPolicyID    string   `json:"shipping_policy_id"`
	PaymentPolicyID     string   `json:"payment_policy_id"`
	ReturnPolicyID      string   `json:"return_policy_id"`
	DefaultCategoryID   string   `json:"default_category_id"`
	PaymentMethods      []string `json:"payment_methods"`
	DescriptionTemplate string   `json:"description_template"`

	UseInventoryCount bool `json:"use_inventory_count"`

	Custom map[string]interface{} `json:"custom"`
}
