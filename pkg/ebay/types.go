package ebay

import "encoding/xml"

// Trading API 的 XML 命名空间，所有请求/响应都挂在这个 ns 下
const Namespace = "urn:ebay:apis:eBLBaseComponents"

// Ack 取值
const (
	AckSuccess = "Success"
	AckWarning = "Warning"
	AckFailure = "Failure"
)

// ==================== 公共片段 ====================

// RequesterCredentials 请求凭证，Token 放在 XML 体内而不是 Header
type RequesterCredentials struct {
	EBayAuthToken string `xml:"eBayAuthToken"`
}

// ErrorDetail 平台返回的错误明细
type ErrorDetail struct {
	ShortMessage  string `xml:"ShortMessage"`
	LongMessage   string `xml:"LongMessage"`
	ErrorCode     string `xml:"ErrorCode"`
	SeverityCode  string `xml:"SeverityCode"`
	ErrorClassify string `xml:"ErrorClassification"`
}

// BaseResponse 响应公共头：Ack + 错误列表
type BaseResponse struct {
	Timestamp string        `xml:"Timestamp"`
	Ack       string        `xml:"Ack"`
	Errors    []ErrorDetail `xml:"Errors"`
}

// GetAck 实现 Response 接口
func (r *BaseResponse) GetAck() string { return r.Ack }

// ErrorMessage 提取平台错误原文 (LongMessage 优先)
func (r *BaseResponse) ErrorMessage() string {
	for _, e := range r.Errors {
		if e.SeverityCode == "Error" && e.LongMessage != "" {
			return e.LongMessage
		}
	}
	for _, e := range r.Errors {
		if e.LongMessage != "" {
			return e.LongMessage
		}
	}
	return ""
}

// Response 所有 Trading 响应的公共行为
type Response interface {
	GetAck() string
	ErrorMessage() string
}

// ==================== 商品 (AddFixedPriceItem) ====================

// Amount 金额，currencyID 为属性
type Amount struct {
	CurrencyID string `xml:"currencyID,attr"`
	Value      string `xml:",chardata"`
}

// NameValueList 平台属性对：一个名称可带多个取值
type NameValueList struct {
	Name  string   `xml:"Name"`
	Value []string `xml:"Value"`
}

// ItemSpecifics 属性集合
type ItemSpecificsNode struct {
	NameValueList []NameValueList `xml:"NameValueList"`
}

// PictureDetails 图片 URL 列表
type PictureDetails struct {
	PictureURL []string `xml:"PictureURL"`
}

// CategoryNode 分类引用
type CategoryNode struct {
	CategoryID string `xml:"CategoryID"`
}

// SellerProfiles 业务策略引用
type SellerProfiles struct {
	ShippingProfile ProfileRef `xml:"SellerShippingProfile>ShippingProfileID"`
	PaymentProfile  ProfileRef `xml:"SellerPaymentProfile>PaymentProfileID"`
	ReturnProfile   ProfileRef `xml:"SellerReturnProfile>ReturnProfileID"`
}

type ProfileRef string

// Item 刊登主体
type Item struct {
	Title                string             `xml:"Title"`
	Description          string             `xml:"Description"`
	SKU                  string             `xml:"SKU"`
	PrimaryCategory      CategoryNode       `xml:"PrimaryCategory"`
	SecondaryCategory    *CategoryNode      `xml:"SecondaryCategory,omitempty"`
	StartPrice           Amount             `xml:"StartPrice"`
	ConditionID          string             `xml:"ConditionID,omitempty"`
	ConditionDescription string             `xml:"ConditionDescription,omitempty"`
	Country              string             `xml:"Country"`
	Currency             string             `xml:"Currency"`
	ListingDuration      string             `xml:"ListingDuration"`
	ListingType          string             `xml:"ListingType"`
	Quantity             int                `xml:"Quantity"`
	ItemSpecifics        *ItemSpecificsNode `xml:"ItemSpecifics,omitempty"`
	PictureDetails       *PictureDetails    `xml:"PictureDetails,omitempty"`
	SellerProfiles       SellerProfiles     `xml:"SellerProfiles"`
}

// AddFixedPriceItemRequest 一口价刊登请求
type AddFixedPriceItemRequest struct {
	XMLName              xml.Name             `xml:"urn:ebay:apis:eBLBaseComponents AddFixedPriceItemRequest"`
	RequesterCredentials RequesterCredentials `xml:"RequesterCredentials"`
	ErrorLanguage        string               `xml:"ErrorLanguage"`
	Item                 Item                 `xml:"Item"`
}

// AddFixedPriceItemResponse 刊登响应
type AddFixedPriceItemResponse struct {
	XMLName xml.Name `xml:"AddFixedPriceItemResponse"`
	BaseResponse
	ItemID string `xml:"ItemID"`
}

// ==================== 库存修订 (ReviseInventoryStatus) ====================

// InventoryStatus 单条库存修订 (最多 4 条一批，这里逐条发)
type InventoryStatus struct {
	ItemID   string `xml:"ItemID"`
	Quantity int    `xml:"Quantity"`
}

type ReviseInventoryStatusRequest struct {
	XMLName              xml.Name             `xml:"urn:ebay:apis:eBLBaseComponents ReviseInventoryStatusRequest"`
	RequesterCredentials RequesterCredentials `xml:"RequesterCredentials"`
	InventoryStatus      []InventoryStatus    `xml:"InventoryStatus"`
}

type ReviseInventoryStatusResponse struct {
	XMLName xml.Name `xml:"ReviseInventoryStatusResponse"`
	BaseResponse
}

// ==================== 分类 ====================

type GetCategoriesRequest struct {
	XMLName              xml.Name             `xml:"urn:ebay:apis:eBLBaseComponents GetCategoriesRequest"`
	RequesterCredentials RequesterCredentials `xml:"RequesterCredentials"`
	CategoryParent       string               `xml:"CategoryParent,omitempty"`
	LevelLimit           int                  `xml:"LevelLimit,omitempty"`
	DetailLevel          string               `xml:"DetailLevel"`
	ViewAllNodes         bool                 `xml:"ViewAllNodes"`
}

// Category 分类节点
type Category struct {
	CategoryID       string `xml:"CategoryID"`
	CategoryName     string `xml:"CategoryName"`
	CategoryParentID string `xml:"CategoryParentID"`
	CategoryLevel    int    `xml:"CategoryLevel"`
	LeafCategory     bool   `xml:"LeafCategory"`
}

type GetCategoriesResponse struct {
	XMLName xml.Name `xml:"GetCategoriesResponse"`
	BaseResponse
	Categories []Category `xml:"CategoryArray>Category"`
}

type GetCategoryInfoRequest struct {
	XMLName              xml.Name             `xml:"urn:ebay:apis:eBLBaseComponents GetCategoryInfoRequest"`
	RequesterCredentials RequesterCredentials `xml:"RequesterCredentials"`
	CategoryID           string               `xml:"CategoryID"`
}

type GetCategoryInfoResponse struct {
	XMLName xml.Name `xml:"GetCategoryInfoResponse"`
	BaseResponse
	Categories []Category `xml:"CategoryArray>Category"`
}

// GetCategoryFeaturesRequest 分类特性 (成色枚举等)
type GetCategoryFeaturesRequest struct {
	XMLName              xml.Name             `xml:"urn:ebay:apis:eBLBaseComponents GetCategoryFeaturesRequest"`
	RequesterCredentials RequesterCredentials `xml:"RequesterCredentials"`
	CategoryID           string               `xml:"CategoryID"`
	FeatureID            []string             `xml:"FeatureID"`
	DetailLevel          string               `xml:"DetailLevel"`
}

// ConditionValue 成色取值
type ConditionValue struct {
	ID          string `xml:"ID"`
	DisplayName string `xml:"DisplayName"`
}

type CategoryFeature struct {
	CategoryID      string           `xml:"CategoryID"`
	ConditionValues []ConditionValue `xml:"ConditionValues>Condition"`
}

type GetCategoryFeaturesResponse struct {
	XMLName xml.Name `xml:"GetCategoryFeaturesResponse"`
	BaseResponse
	Features []CategoryFeature `xml:"Category"`
}

// GetCategorySpecificsRequest 分类推荐属性
type GetCategorySpecificsRequest struct {
	XMLName              xml.Name             `xml:"urn:ebay:apis:eBLBaseComponents GetCategorySpecificsRequest"`
	RequesterCredentials RequesterCredentials `xml:"RequesterCredentials"`
	CategoryID           []string             `xml:"CategoryID"`
}

// RecommendedName 推荐属性名及候选值
type RecommendedName struct {
	Name      string   `xml:"Name"`
	MinValues int      `xml:"ValidationRules>MinValues"`
	Values    []string `xml:"ValueRecommendation>Value"`
}

type SpecificsRecommendation struct {
	CategoryID string            `xml:"CategoryID"`
	Names      []RecommendedName `xml:"NameRecommendation"`
}

type GetCategorySpecificsResponse struct {
	XMLName xml.Name `xml:"GetCategorySpecificsResponse"`
	BaseResponse
	Recommendations []SpecificsRecommendation `xml:"Recommendations"`
}

// GetSuggestedCategoriesRequest 按关键词猜分类
type GetSuggestedCategoriesRequest struct {
	XMLName              xml.Name             `xml:"urn:ebay:apis:eBLBaseComponents GetSuggestedCategoriesRequest"`
	RequesterCredentials RequesterCredentials `xml:"RequesterCredentials"`
	Query                string               `xml:"Query"`
}

type SuggestedCategory struct {
	Category       Category `xml:"Category"`
	PercentItemFit int      `xml:"PercentItemFit"`
}

type GetSuggestedCategoriesResponse struct {
	XMLName xml.Name `xml:"GetSuggestedCategoriesResponse"`
	BaseResponse
	Suggested []SuggestedCategory `xml:"SuggestedCategoryArray>SuggestedCategory"`
}

// ==================== 订单 ====================

type GetOrdersRequest struct {
	XMLName              xml.Name             `xml:"urn:ebay:apis:eBLBaseComponents GetOrdersRequest"`
	RequesterCredentials RequesterCredentials `xml:"RequesterCredentials"`
	// 时间窗与 OrderID 数组二选一：按 ID 查详情时不带时间窗
	CreateTimeFrom string   `xml:"CreateTimeFrom,omitempty"`
	CreateTimeTo   string   `xml:"CreateTimeTo,omitempty"`
	OrderIDs       []string `xml:"OrderIDArray>OrderID,omitempty"`
	OrderRole      string   `xml:"OrderRole"`
	DetailLevel    string   `xml:"DetailLevel"`
}

// ShippingAddress 买家收货地址
type ShippingAddress struct {
	Name            string `xml:"Name"`
	Street1         string `xml:"Street1"`
	Street2         string `xml:"Street2"`
	CityName        string `xml:"CityName"`
	StateOrProvince string `xml:"StateOrProvince"`
	PostalCode      string `xml:"PostalCode"`
	Country         string `xml:"CountryName"`
}

// Transaction 订单内单个成交
type Transaction struct {
	ItemID        string `xml:"Item>ItemID"`
	ItemTitle     string `xml:"Item>Title"`
	SKU           string `xml:"Item>SKU"`
	QuantitySold  int    `xml:"QuantityPurchased"`
	TransactionID string `xml:"TransactionID"`
	TrackingCarrier string `xml:"ShippingDetails>ShipmentTrackingDetails>ShippingCarrierUsed"`
	TrackingNumber  string `xml:"ShippingDetails>ShipmentTrackingDetails>ShipmentTrackingNumber"`
}

// Order 平台订单
type Order struct {
	OrderID         string          `xml:"OrderID"`
	OrderStatus     string          `xml:"OrderStatus"`
	CheckoutStatus  string          `xml:"CheckoutStatus>Status"`
	PaymentStatus   string          `xml:"CheckoutStatus>eBayPaymentStatus"`
	ShippedTime     string          `xml:"ShippedTime"`
	PaidTime        string          `xml:"PaidTime"`
	CreatedTime     string          `xml:"CreatedTime"`
	Total           Amount          `xml:"Total"`
	BuyerUserID     string          `xml:"BuyerUserID"`
	ShippingAddress ShippingAddress `xml:"ShippingAddress"`
	Transactions    []Transaction   `xml:"TransactionArray>Transaction"`
	SellerNotes     string          `xml:"MultiLegShippingDetails>SellerShipmentToLogisticsProvider>ShippingServiceDetails>ShippingService"`
}

type GetOrdersResponse struct {
	XMLName xml.Name `xml:"GetOrdersResponse"`
	BaseResponse
	Orders []Order `xml:"OrderArray>Order"`
}

// ==================== 在线刊登列表 (GetSellerList) ====================

type GetSellerListRequest struct {
	XMLName              xml.Name             `xml:"urn:ebay:apis:eBLBaseComponents GetSellerListRequest"`
	RequesterCredentials RequesterCredentials `xml:"RequesterCredentials"`
	StartTimeFrom        string               `xml:"StartTimeFrom"`
	StartTimeTo          string               `xml:"StartTimeTo"`
	DetailLevel          string               `xml:"DetailLevel"`
	PageNumber           int                  `xml:"Pagination>PageNumber"`
	EntriesPerPage       int                  `xml:"Pagination>EntriesPerPage"`
}

// SellerItem 卖家在线商品
type SellerItem struct {
	ItemID        string `xml:"ItemID"`
	Title         string `xml:"Title"`
	SKU           string `xml:"SKU"`
	Quantity      int    `xml:"Quantity"`
	QuantitySold  int    `xml:"SellingStatus>QuantitySold"`
	CurrentPrice  Amount `xml:"SellingStatus>CurrentPrice"`
	ListingStatus string `xml:"SellingStatus>ListingStatus"`
}

type GetSellerListResponse struct {
	XMLName xml.Name `xml:"GetSellerListResponse"`
	BaseResponse
	Items       []SellerItem `xml:"ItemArray>Item"`
	HasMore     bool         `xml:"HasMoreItems"`
	PageNumber  int          `xml:"PageNumber"`
	TotalPages  int          `xml:"PaginationResult>TotalNumberOfPages"`
	TotalItems  int          `xml:"PaginationResult>TotalNumberOfEntries"`
}

// ==================== 图片上传 ====================

type UploadSiteHostedPicturesRequest struct {
	XMLName              xml.Name             `xml:"urn:ebay:apis:eBLBaseComponents UploadSiteHostedPicturesRequest"`
	RequesterCredentials RequesterCredentials `xml:"RequesterCredentials"`
	PictureName          string               `xml:"PictureName"`
	// ExternalPictureURL 走 URL 引用上传；二进制直传需要 multipart，这里统一先落存储再引用
	ExternalPictureURL string `xml:"ExternalPictureURL,omitempty"`
}

type UploadSiteHostedPicturesResponse struct {
	XMLName xml.Name `xml:"UploadSiteHostedPicturesResponse"`
	BaseResponse
	FullURL string `xml:"SiteHostedPictureDetails>FullURL"`
}
