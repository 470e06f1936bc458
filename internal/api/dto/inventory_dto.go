package dto

// ==================== 库存 ====================

// InventoryItemRequest 库存条目创建/更新请求
type InventoryItemRequest struct {
	SKU         string  `json:"sku" binding:"max=64"`
	Title       string  `json:"title" binding:"max=255"`
	Brand       string  `json:"brand" binding:"max=128"`
	ModelNumber string  `json:"model_number" binding:"max=128"`
	Description string  `json:"description"`
	Condition   string  `json:"condition" binding:"max=64"`
	Category    string  `json:"category" binding:"max=128"`
	Location    string  `json:"location" binding:"max=128"`
	WeightLbs   float64 `json:"weight_lbs" binding:"min=0"`

	QuantityOnHand int   `json:"quantity_on_hand" binding:"min=0"`
	CostCents      int64 `json:"cost_cents" binding:"min=0"`
	PriceCents     int64 `json:"price_cents" binding:"min=0"`
}

// ListInventoryRequest 库存列表查询
type ListInventoryRequest struct {
	Keyword  string `form:"keyword"`
	Tag      string `form:"tag"`
	Page     int    `form:"page,default=1" binding:"min=1"`
	PageSize int    `form:"page_size,default=20" binding:"min=1,max=100"`
}

// AddStatusTagRequest 追加状态标签请求
type AddStatusTagRequest struct {
	Tag string `json:"tag" binding:"required,max=32"`
}
