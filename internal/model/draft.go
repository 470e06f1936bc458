package model

import "gorm.io/datatypes"

// 草稿状态
const (
	DraftStatusEditing   = "editing"   // 编辑中
	DraftStatusPublished = "published" // 已刊登 (终态)
	DraftStatusDiscarded = "discarded" // 已放弃 (终态)
)

// ItemSpecifics 平台属性：名称 -> 多值列表
// 一个属性可能有多个取值 (如 Features: ["WiFi","Bluetooth"])
type ItemSpecifics map[string][]string

// PackageDimensions 包裹尺寸
type PackageDimensions struct {
	LengthIn  float64 `json:"length_in"`
	WidthIn   float64 `json:"width_in"`
	HeightIn  float64 `json:"height_in"`
	WeightLbs float64 `json:"weight_lbs"`
}

// ShippingConfig 物流配置
type ShippingConfig struct {
	Type            string            `json:"type"` // flat, calculated, freight
	Package         PackageDimensions `json:"package"`
	DomesticService []string          `json:"domestic_services"`
	IntlService     []string          `json:"intl_services"`
}

// ListingDraft 刊登草稿
// 向导式编辑的中间态：逐页填充，终态要么刊登要么放弃
type ListingDraft struct {
	BaseModel
	UserID    int64  `gorm:"index;not null" json:"user_id"`
	AccountID int64  `gorm:"index" json:"account_id"` // 归属的平台账号
	Status    string `gorm:"size:20;default:editing;index" json:"status"`

	// --- 身份 ---
	Title string `gorm:"size:255" json:"title"`
	Brand string `gorm:"size:128" json:"brand"`
	MPN   string `gorm:"size:128" json:"mpn"`
	SKU   string `gorm:"size:64;index" json:"sku"`
	UPC   string `gorm:"size:32" json:"upc"`
	EAN   string `gorm:"size:32" json:"ean"`
	ISBN  string `gorm:"size:32" json:"isbn"`

	// --- 价格与数量 (分) ---
	StartPriceCents    int64 `gorm:"default:0" json:"start_price_cents"`
	BuyItNowPriceCents int64 `gorm:"default:0" json:"buy_it_now_price_cents"`
	ReservePriceCents  int64 `gorm:"default:0" json:"reserve_price_cents"`
	Quantity           int   `gorm:"default:1" json:"quantity"`

	// --- 分类 ---
	PrimaryCategoryID     string `gorm:"size:32" json:"primary_category_id"`
	PrimaryCategoryName   string `gorm:"size:255" json:"primary_category_name"`
	SecondaryCategoryID   string `gorm:"size:32" json:"secondary_category_id"`
	SecondaryCategoryName string `gorm:"size:255" json:"secondary_category_name"`
	StoreCategoryID       string `gorm:"size:32" json:"store_category_id"`

	// --- 成色 ---
	ConditionID          string `gorm:"size:16" json:"condition_id"`
	ConditionName        string `gorm:"size:64" json:"condition_name"`
	ConditionDescription string `gorm:"type:text" json:"condition_description"`

	Description string `gorm:"type:text" json:"description"`

	// --- 平台属性 (多值) ---
	Specifics datatypes.JSONType[ItemSpecifics] `json:"specifics"`

	// --- 图片：远程 URL 与本地路径分开存，刊登时本地图先上传 ---
	RemoteImageURLs datatypes.JSONSlice[string] `json:"remote_image_urls"`
	LocalImagePaths datatypes.JSONSlice[string] `json:"local_image_paths"`
	AllowNoImages   bool                        `gorm:"default:false" json:"allow_no_images"` // 显式允许无图刊登

	// --- 物流与策略 ---
	Shipping         datatypes.JSONType[ShippingConfig] `json:"shipping"`
	ShippingPolicyID string                             `gorm:"size:32" json:"shipping_policy_id"`
	PaymentPolicyID  string                             `gorm:"size:32" json:"payment_policy_id"`
	ReturnPolicyID   string                             `gorm:"size:32" json:"return_policy_id"`
}

func (ListingDraft) TableName() string {
	return "listing_drafts"
}
