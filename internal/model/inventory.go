package model

import (
	"time"

	"gorm.io/datatypes"
)

// InventoryItem 库存条目
// SKU 全局唯一；状态标签与售出日期是显式列表、只追加不覆盖
// (旧版把它们存成逗号拼接字符串，这里改为结构化 JSON 列)
type InventoryItem struct {
	BaseModel
	UserID int64  `gorm:"index;not null" json:"user_id"`
	SKU    string `gorm:"size:64;uniqueIndex;not null" json:"sku"`

	TransactionID string `gorm:"size:64;index" json:"transaction_id"`
	Title         string `gorm:"size:255" json:"title"`
	Brand         string `gorm:"size:128" json:"brand"`
	ModelNumber   string `gorm:"size:128;index" json:"model_number"`
	Description   string `gorm:"type:text" json:"description"`
	Condition     string `gorm:"size:64" json:"condition"`
	Category      string `gorm:"size:128" json:"category"`
	Location      string `gorm:"size:128" json:"location"`
	WeightLbs     float64 `json:"weight_lbs"`

	// --- 数量 ---
	QuantityOnHand int `gorm:"default:0" json:"quantity_on_hand"`
	QuantitySold   int `gorm:"default:0" json:"quantity_sold"`

	// --- 金额 (分) ---
	CostCents  int64 `gorm:"default:0" json:"cost_cents"`
	PriceCents int64 `gorm:"default:0" json:"price_cents"`

	// --- 多值字段：只追加 ---
	StatusTags datatypes.JSONSlice[string] `json:"status_tags"` // "listed", "sold", "repo", "ebay" 等自由标签
	SoldDates  datatypes.JSONSlice[string] `json:"sold_dates"`  // RFC3339 时间串，按售出顺序追加
}

func (InventoryItem) TableName() string {
	return "inventory_items"
}

// AppendStatusTag 追加状态标签 (幂等：已存在则不重复)
func (it *InventoryItem) AppendStatusTag(tag string) {
	for _, t := range it.StatusTags {
		if t == tag {
			return
		}
	}
	it.StatusTags = append(it.StatusTags, tag)
}

// AppendSoldDate 追加一次售出时间，同时累加售出数量
func (it *InventoryItem) AppendSoldDate(at time.Time, qty int) {
	it.SoldDates = append(it.SoldDates, at.UTC().Format(time.RFC3339))
	it.QuantitySold += qty
	if it.QuantityOnHand >= qty {
		it.QuantityOnHand -= qty
	} else {
		it.QuantityOnHand = 0
	}
}
