package model

import "time"

// SaleRecord 销售流水
// 订单轮询任务把各平台订单归一化后落到这里，(platform, order_id) 去重
type SaleRecord struct {
	BaseModel
	UserID   int64  `gorm:"index;not null" json:"user_id"`
	Platform string `gorm:"size:20;index:idx_platform_order,unique" json:"platform"`
	OrderID  string `gorm:"size:64;index:idx_platform_order,unique" json:"order_id"`

	SKU        string    `gorm:"size:64;index" json:"sku"`
	Title      string    `gorm:"size:255" json:"title"`
	Quantity   int       `gorm:"default:1" json:"quantity"`
	TotalCents int64     `gorm:"default:0" json:"total_cents"`
	Currency   string    `gorm:"size:5" json:"currency"`
	Buyer      string    `gorm:"size:128" json:"buyer"`
	Status     string    `gorm:"size:32;index" json:"status"` // 归一化后的状态词表
	SoldAt     time.Time `gorm:"index" json:"sold_at"`
}

func (SaleRecord) TableName() string {
	return "sale_records"
}
