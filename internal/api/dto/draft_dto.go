package dto

// ==================== 草稿编辑 ====================

// DraftRequest 草稿创建/保存请求
// 向导逐页填充，字段全部可选，服务端只校验终态与归属
type DraftRequest struct {
	AccountID int64 `json:"account_id"`

	Title string `json:"title" binding:"max=255"`
	Brand string `json:"brand" binding:"max=128"`
	MPN   string `json:"mpn" binding:"max=128"`
	SKU   string `json:"sku" binding:"max=64"`
	UPC   string `json:"upc" binding:"max=32"`
	EAN   string `json:"ean" binding:"max=32"`
	ISBN  string `json:"isbn" binding:"max=32"`

	StartPriceCents    int64 `json:"start_price_cents" binding:"min=0"`
	BuyItNowPriceCents int64 `json:"buy_it_now_price_cents" binding:"min=0"`
	ReservePriceCents  int64 `json:"reserve_price_cents" binding:"min=0"`
	Quantity           int   `json:"quantity" binding:"min=0"`

	PrimaryCategoryID     string `json:"primary_category_id"`
	PrimaryCategoryName   string `json:"primary_category_name"`
	SecondaryCategoryID   string `json:"secondary_category_id"`
	SecondaryCategoryName string `json:"secondary_category_name"`
	StoreCategoryID       string `json:"store_category_id"`

	ConditionID          string `json:"condition_id"`
	ConditionName        string `json:"condition_name"`
	ConditionDescription string `json:"condition_description"`

	Description string `json:"description"`

	Specifics map[string][]string `json:"specifics"`

	RemoteImageURLs []string `json:"remote_image_urls"`
	LocalImagePaths []string `json:"local_image_paths"`
	AllowNoImages   bool     `json:"allow_no_images"`

	ShippingPolicyID string `json:"shipping_policy_id"`
	PaymentPolicyID  string `json:"payment_policy_id"`
	ReturnPolicyID   string `json:"return_policy_id"`
}

// ListDraftsRequest 草稿列表查询
type ListDraftsRequest struct {
	Status   string `form:"status" binding:"omitempty,oneof=editing published discarded"`
	Page     int    `form:"page,default=1" binding:"min=1"`
	PageSize int    `form:"page_size,default=20" binding:"min=1,max=100"`
}

// SeedDraftRequest 按型号抓取补全请求
type SeedDraftRequest struct {
	ModelNumber string `json:"model_number" binding:"required"`
}

// GenerateDescriptionRequest AI 描述生成请求
type GenerateDescriptionRequest struct {
	Overwrite bool `json:"overwrite"`
}

// AddImagesRequest 追加图片请求
type AddImagesRequest struct {
	RemoteImageURLs []string `json:"remote_image_urls"`
	LocalImagePaths []string `json:"local_image_paths"`
}

// PublishDraftRequest 刊登请求
type PublishDraftRequest struct {
	Platforms []string `json:"platforms" binding:"required,min=1"`
}
