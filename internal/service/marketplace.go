package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ==================== 平台枚举 ====================

// Platform 支持的平台 (封闭枚举)
// 平台名的字符串匹配只发生在 ParsePlatform 这一个边界上，
// 非法取值在入口处拒绝，不允许漏到调用链深处
type Platform string

const (
	PlatformEbay Platform = "ebay"
)

// ErrPlatformUnknown 未知平台
var ErrPlatformUnknown = errors.New("不支持的平台")

// ParsePlatform 解析平台名 (大小写不敏感)
func ParsePlatform(name string) (Platform, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "ebay":
		return PlatformEbay, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrPlatformUnknown, name)
	}
}

// ==================== 交换数据结构 ====================

// ProductData 平台无关的商品交换结构
// 草稿 -> 各平台适配器之间的统一载体；多值属性在转换时压平为单串
type ProductData struct {
	Title       string            `json:"title"`
	Brand       string            `json:"brand"`
	ModelNumber string            `json:"model_number"` // MPN
	SKU         string            `json:"sku"`
	UPC         string            `json:"upc"`
	Description string            `json:"description"`
	Condition   string            `json:"condition"`
	ConditionID string            `json:"condition_id"`
	CategoryID  string            `json:"category_id"`
	PriceCents  int64             `json:"price_cents"`
	Currency    string            `json:"currency"`
	Quantity    int               `json:"quantity"`
	Specifics   map[string]string `json:"specifics"` // 名称 -> 压平后的值串

	// 图片：远程 URL 与本地路径分开，刊登时本地图先上传
	RemoteImageURLs []string `json:"remote_image_urls"`
	LocalImagePaths []string `json:"local_image_paths"`
	AllowNoImages   bool     `json:"allow_no_images"`

	// 业务策略 (为空时刊登侧回落到用户模板/全局配置)
	ShippingPolicyID string `json:"shipping_policy_id"`
	PaymentPolicyID  string `json:"payment_policy_id"`
	ReturnPolicyID   string `json:"return_policy_id"`
}

// ListingResult 单次刊登结果
type ListingResult struct {
	Success   bool   `json:"success"`
	ListingID string `json:"listing_id,omitempty"`
	ErrorMsg  string `json:"error_msg,omitempty"`
}

// ActiveListing 平台在线刊登条目 (库存同步的输入)
type ActiveListing struct {
	Platform  Platform `json:"platform"`
	ListingID string   `json:"listing_id"`
	Title     string   `json:"title"`
	SKU       string   `json:"sku"`
	Quantity  int      `json:"quantity"`
}

// OrderSummary 跨平台归一化前的订单概要
// 三个原始状态字段各平台词表不同，由 NormalizeOrderStatus 统一
type OrderSummary struct {
	Platform       Platform  `json:"platform"`
	OrderID        string    `json:"order_id"`
	SKU            string    `json:"sku"`
	Title          string    `json:"title"`
	Quantity       int       `json:"quantity"`
	TotalCents     int64     `json:"total_cents"`
	Currency       string    `json:"currency"`
	Buyer          string    `json:"buyer"`
	SoldAt         time.Time `json:"sold_at"`
	OrderStatus    string    `json:"order_status"`
	PaymentStatus  string    `json:"payment_status"`
	ShippingStatus string    `json:"shipping_status"`
	Status         string    `json:"status"` // 归一化词表
}

// OrderDetails 订单详情 = 概要 + 买家地址/物流/备注
type OrderDetails struct {
	OrderSummary
	BuyerAddress    string `json:"buyer_address"`
	TrackingCarrier string `json:"tracking_carrier"`
	TrackingNumber  string `json:"tracking_number"`
	Notes           string `json:"notes"`
}

// CategorySummary 分类树节点
type CategorySummary struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	IsLeaf bool   `json:"is_leaf"`
}

// SpecificRecommendation 分类的推荐/必填属性
type SpecificRecommendation struct {
	Name     string   `json:"name"`
	Required bool     `json:"required"`
	Values   []string `json:"values,omitempty"`
}

// ConditionOption 分类下的合法成色
type ConditionOption struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ==================== 平台服务契约 ====================

// MarketplaceService 平台适配器契约
// 每个平台一个实现；所有方法按 userID 定位该用户在此平台的授权账号
type MarketplaceService interface {
	Platform() Platform

	// CheckAuthentication 探测账号授权是否可用
	CheckAuthentication(ctx context.Context, userID int64) (bool, error)

	// CreateListing 刊登；业务失败 (平台拒绝) 体现在 ListingResult 而非 error
	CreateListing(ctx context.Context, userID int64, product *ProductData) (*ListingResult, error)

	GetActiveListings(ctx context.Context, userID int64) ([]ActiveListing, error)
	UpdateListingQuantity(ctx context.Context, userID int64, listingID string, quantity int) error

	GetRecentSales(ctx context.Context, userID int64, from, to time.Time) ([]OrderSummary, error)
	GetOrderDetails(ctx context.Context, userID int64, orderID string) (*OrderDetails, error)

	GetChildCategories(ctx context.Context, userID int64, parentID string) ([]CategorySummary, error)
	GetItemSpecifics(ctx context.Context, userID int64, categoryID string) ([]SpecificRecommendation, error)
	GetConditionValues(ctx context.Context, userID int64, categoryID string) ([]ConditionOption, error)

	// UploadImage 上传图片返回托管 URL
	UploadImage(ctx context.Context, userID int64, imageURL, name string) (string, error)
}
