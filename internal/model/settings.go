package model

import "gorm.io/datatypes"

// ListingTemplateSettings 刊登模板设置
// 业务策略 ID、默认分类、付款方式与描述模板，刊登时按此填充
type ListingTemplateSettings struct {
	ShippingPolicyID    string   `json:"shipping_policy_id"`
	PaymentPolicyID     string   `json:"payment_policy_id"`
	ReturnPolicyID      string   `json:"return_policy_id"`
	DefaultCategoryID   string   `json:"default_category_id"`
	PaymentMethods      []string `json:"payment_methods"`
	DescriptionTemplate string   `json:"description_template"`
}

// UserSettings 用户设置
// 整体读写，不做部分更新；内存缓存按 user_id 命中，写入时显式失效
type UserSettings struct {
	BaseModel
	UserID int64 `gorm:"uniqueIndex;not null" json:"user_id"`

	// --- 刊登模板 ---
	ListingTemplate datatypes.JSONType[ListingTemplateSettings] `json:"listing_template"`

	// --- 同步策略 ---
	UseInventoryCount bool `gorm:"default:false" json:"use_inventory_count"` // 库存同步使用库存表权威数量

	// --- 可扩展键值袋 ---
	Custom datatypes.JSONMap `json:"custom"`
}

func (UserSettings) TableName() string {
	return "user_settings"
}
