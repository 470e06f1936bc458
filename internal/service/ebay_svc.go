package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"

	"chumslister/internal/config"
	"chumslister/internal/model"
	"chumslister/internal/repository"
	"chumslister/pkg/ebay"
)

// 刊登常量：一口价 + GTC，美国站
const (
	ebayListingType     = "FixedPriceItem"
	ebayListingDuration = "GTC"
	ebayCountry         = "US"
	ebayDefaultCurrency = "USD"

	// 单个刊登最多携带的图片数，超出部分静默丢弃
	maxListingImages = 12

	// 分类兜底遍历全树时的结果上限
	maxCategoryChildren = 50

	// GetSellerList 分页尺寸与回溯窗口 (平台限制时间窗不超过 120 天)
	sellerListPageSize = 200
	sellerListLookback = 119 * 24 * time.Hour
)

// ErrAccountNotLinked 用户在该平台没有授权账号
var ErrAccountNotLinked = errors.New("账号未授权")

// ==================== eBay 平台适配器 ====================

// EbayService eBay 平台适配器，实现 MarketplaceService
// 所有出站调用前先过 ensureFreshToken：Token 进入安全边界即刷新，
// 刷新失败视为致命错误，绝不带着过期 Token 出站
type EbayService struct {
	cfg      config.EbayConfig
	trading  *ebay.TradingClient
	oauth    *ebay.OAuthClient
	accounts repository.AccountRepository
	settings *SettingsService
	storage  *StorageService
}

// NewEbayService 创建 eBay 适配器
func NewEbayService(
	cfg config.EbayConfig,
	trading *ebay.TradingClient,
	oauth *ebay.OAuthClient,
	accounts repository.AccountRepository,
	settings *SettingsService,
	storage *StorageService,
) *EbayService {
	return &EbayService{
		cfg:      cfg,
		trading:  trading,
		oauth:    oauth,
		accounts: accounts,
		settings: settings,
		storage:  storage,
	}
}

func (s *EbayService) Platform() Platform {
	return PlatformEbay
}

// ==================== Token 管理 ====================

// ensureFreshToken 取该用户的 eBay 账号并保证 Token 可用
// 进入安全边界 (过期前 5 分钟内) 或已过期的 Token 先刷新再返回；
// 刷新被平台拒绝时标记账号 invalid 并报错，调用链就此中断
func (s *EbayService) ensureFreshToken(ctx context.Context, userID int64) (*model.MarketplaceAccount, error) {
	acc, err := s.accounts.GetByUserPlatform(ctx, userID, string(PlatformEbay))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotLinked
		}
		return nil, fmt.Errorf("查询平台账号失败: %v", err)
	}

	if acc.TokenStatus == model.TokenStatusInvalid {
		return nil, fmt.Errorf("账号授权已失效，需要重新授权")
	}

	if !acc.NeedsRefresh(time.Now(), config.TokenRefreshMargin) {
		return acc, nil
	}

	// 进入安全边界，刷新
	pair, err := s.oauth.Refresh(ctx, acc.RefreshToken)
	if err != nil {
		if stErr := s.accounts.UpdateTokenStatus(ctx, acc.ID, model.TokenStatusInvalid); stErr != nil {
			log.Printf("[Ebay] 标记账号 %d 失效失败: %v", acc.ID, stErr)
		}
		return nil, fmt.Errorf("刷新 Token 失败: %v", err)
	}

	// eBay 刷新响应不回传新 refresh_token，沿用旧的
	refreshToken := pair.RefreshToken
	if refreshToken == "" {
		refreshToken = acc.RefreshToken
	}

	expiresAt := pair.ExpiresAt(time.Now())
	if err := s.accounts.UpdateToken(ctx, acc.ID, pair.AccessToken, refreshToken, expiresAt); err != nil {
		return nil, fmt.Errorf("持久化新 Token 失败: %v", err)
	}

	acc.AccessToken = pair.AccessToken
	acc.RefreshToken = refreshToken
	acc.TokenExpiresAt = expiresAt
	acc.TokenStatus = model.TokenStatusActive
	log.Printf("[Ebay] 用户 %d 的 Token 已刷新，有效期至 %s", userID, expiresAt.Format(time.RFC3339))

	return acc, nil
}

// CheckAuthentication 探测授权可用性：取不到账号或刷新失败都视为未授权
func (s *EbayService) CheckAuthentication(ctx context.Context, userID int64) (bool, error) {
	if _, err := s.ensureFreshToken(ctx, userID); err != nil {
		if errors.Is(err, ErrAccountNotLinked) {
			return false, nil
		}
		log.Printf("[Ebay] 用户 %d 授权探测失败: %v", userID, err)
		return false, nil
	}
	return true, nil
}

func creds(acc *model.MarketplaceAccount) ebay.RequesterCredentials {
	return ebay.RequesterCredentials{EBayAuthToken: acc.AccessToken}
}

// ==================== 刊登 ====================

// CreateListing 创建一口价刊登
// 失败分两类：前置条件/基建错误走 error；平台业务拒绝 (Ack=Failure) 体现在
// ListingResult.ErrorMsg，平台错误原文 (LongMessage) 原样透出不做翻译
func (s *EbayService) CreateListing(ctx context.Context, userID int64, product *ProductData) (*ListingResult, error) {
	if strings.TrimSpace(product.SKU) == "" {
		return nil, fmt.Errorf("SKU 不能为空")
	}

	// 分类三级回落：商品自带 -> 用户模板默认分类 -> 全局兜底分类
	// 不改写 product，多平台刊登共用同一份 ProductData
	category := strings.TrimSpace(product.CategoryID)
	if category == "" {
		category = firstNonEmpty(s.settings.Template(ctx, userID).DefaultCategoryID, s.cfg.FallbackCategoryID)
	}
	if category == "" {
		return nil, fmt.Errorf("分类未选择，且未配置默认分类")
	}

	acc, err := s.ensureFreshToken(ctx, userID)
	if err != nil {
		return nil, err
	}

	// 1. 业务策略三级回落：商品自带 -> 用户模板 -> 全局配置，仍缺任一项即快速失败
	shipping, payment, ret, err := s.resolvePolicies(ctx, userID, product)
	if err != nil {
		return nil, err
	}

	// 2. 图片：本地图先推到对象存储换公开 URL，再统一引用上传到平台图床
	pictures, err := s.prepareImages(ctx, acc, product)
	if err != nil {
		return nil, err
	}
	if len(pictures) == 0 && !product.AllowNoImages {
		return nil, fmt.Errorf("没有可用图片，已中止刊登")
	}

	// 3. 组装请求
	currency := product.Currency
	if currency == "" {
		currency = ebayDefaultCurrency
	}
	quantity := product.Quantity
	if quantity <= 0 {
		quantity = 1
	}

	item := ebay.Item{
		Title:           product.Title,
		Description:     product.Description,
		SKU:             product.SKU,
		PrimaryCategory: ebay.CategoryNode{CategoryID: category},
		StartPrice: ebay.Amount{
			CurrencyID: currency,
			Value:      formatCents(product.PriceCents),
		},
		ConditionID:     product.ConditionID,
		Country:         ebayCountry,
		Currency:        currency,
		ListingDuration: ebayListingDuration,
		ListingType:     ebayListingType,
		Quantity:        quantity,
		SellerProfiles: ebay.SellerProfiles{
			ShippingProfile: ebay.ProfileRef(shipping),
			PaymentProfile:  ebay.ProfileRef(payment),
			ReturnProfile:   ebay.ProfileRef(ret),
		},
	}
	if specifics := buildItemSpecifics(product); len(specifics) > 0 {
		item.ItemSpecifics = &ebay.ItemSpecificsNode{NameValueList: specifics}
	}
	if len(pictures) > 0 {
		item.PictureDetails = &ebay.PictureDetails{PictureURL: pictures}
	}

	req := &ebay.AddFixedPriceItemRequest{
		RequesterCredentials: creds(acc),
		ErrorLanguage:        "en_US",
		Item:                 item,
	}

	// 4. 调用并映射结果
	var resp ebay.AddFixedPriceItemResponse
	if err := s.trading.Call(ctx, "AddFixedPriceItem", req, &resp); err != nil {
		return nil, err
	}

	switch resp.GetAck() {
	case ebay.AckSuccess, ebay.AckWarning:
		log.Printf("[Ebay] 用户 %d 刊登成功: ItemID=%s SKU=%s", userID, resp.ItemID, product.SKU)
		return &ListingResult{Success: true, ListingID: resp.ItemID}, nil
	default:
		return &ListingResult{Success: false, ErrorMsg: resp.ErrorMessage()}, nil
	}
}

// resolvePolicies 解析三个业务策略 ID
func (s *EbayService) resolvePolicies(ctx context.Context, userID int64, product *ProductData) (shipping, payment, ret string, err error) {
	tpl := s.settings.Template(ctx, userID)

	shipping = firstNonEmpty(product.ShippingPolicyID, tpl.ShippingPolicyID, s.cfg.ShippingPolicyID)
	payment = firstNonEmpty(product.PaymentPolicyID, tpl.PaymentPolicyID, s.cfg.PaymentPolicyID)
	ret = firstNonEmpty(product.ReturnPolicyID, tpl.ReturnPolicyID, s.cfg.ReturnPolicyID)

	var missing []string
	if shipping == "" {
		missing = append(missing, "shipping")
	}
	if payment == "" {
		missing = append(missing, "payment")
	}
	if ret == "" {
		missing = append(missing, "return")
	}
	if len(missing) > 0 {
		return "", "", "", fmt.Errorf("业务策略缺失: %s，请先在设置中配置", strings.Join(missing, ", "))
	}
	return shipping, payment, ret, nil
}

// prepareImages 处理商品图片
// 远程 URL 与本地路径分开处理：本地图先落对象存储；全部转成平台图床 URL。
// 单张失败只记日志跳过，上限 12 张
func (s *EbayService) prepareImages(ctx context.Context, acc *model.MarketplaceAccount, product *ProductData) ([]string, error) {
	sources := make([]string, 0, len(product.RemoteImageURLs)+len(product.LocalImagePaths))
	sources = append(sources, product.RemoteImageURLs...)

	for _, path := range product.LocalImagePaths {
		url, err := s.storage.SaveFile(ctx, path)
		if err != nil {
			log.Printf("[Ebay] 本地图片 %s 上传存储失败，跳过: %v", path, err)
			continue
		}
		sources = append(sources, url)
	}

	if len(sources) > maxListingImages {
		sources = sources[:maxListingImages]
	}

	hosted := make([]string, 0, len(sources))
	for i, src := range sources {
		url, err := s.uploadPicture(ctx, acc, src, fmt.Sprintf("%s-%d", product.SKU, i+1))
		if err != nil {
			log.Printf("[Ebay] 图片 %s 上传平台图床失败，跳过: %v", src, err)
			continue
		}
		hosted = append(hosted, url)
	}
	return hosted, nil
}

func (s *EbayService) uploadPicture(ctx context.Context, acc *model.MarketplaceAccount, imageURL, name string) (string, error) {
	req := &ebay.UploadSiteHostedPicturesRequest{
		RequesterCredentials: creds(acc),
		PictureName:          name,
		ExternalPictureURL:   imageURL,
	}
	var resp ebay.UploadSiteHostedPicturesResponse
	if err := s.trading.Call(ctx, "UploadSiteHostedPictures", req, &resp); err != nil {
		return "", err
	}
	if resp.GetAck() == ebay.AckFailure {
		return "", fmt.Errorf("平台拒绝: %s", resp.ErrorMessage())
	}
	if resp.FullURL == "" {
		return "", fmt.Errorf("响应缺少图片 URL")
	}
	return resp.FullURL, nil
}

// UploadImage 上传单张图片返回平台图床 URL
func (s *EbayService) UploadImage(ctx context.Context, userID int64, imageURL, name string) (string, error) {
	acc, err := s.ensureFreshToken(ctx, userID)
	if err != nil {
		return "", err
	}
	return s.uploadPicture(ctx, acc, imageURL, name)
}

// buildItemSpecifics 商品属性转平台属性对，MPN/品牌并入
func buildItemSpecifics(product *ProductData) []ebay.NameValueList {
	out := make([]ebay.NameValueList, 0, len(product.Specifics)+2)

	if product.Brand != "" {
		if _, ok := product.Specifics["Brand"]; !ok {
			out = append(out, ebay.NameValueList{Name: "Brand", Value: []string{product.Brand}})
		}
	}
	if product.ModelNumber != "" {
		if _, ok := product.Specifics["MPN"]; !ok {
			out = append(out, ebay.NameValueList{Name: "MPN", Value: []string{product.ModelNumber}})
		}
	}
	for name, value := range product.Specifics {
		if strings.TrimSpace(value) == "" {
			continue
		}
		out = append(out, ebay.NameValueList{Name: name, Value: []string{value}})
	}
	return out
}

// ==================== 在线刊登与库存 ====================

// GetActiveListings 拉取全部在线刊登 (分页循环直到 HasMoreItems=false)
func (s *EbayService) GetActiveListings(ctx context.Context, userID int64) ([]ActiveListing, error) {
	acc, err := s.ensureFreshToken(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	var listings []ActiveListing

	for page := 1; ; page++ {
		req := &ebay.GetSellerListRequest{
			RequesterCredentials: creds(acc),
			StartTimeFrom:        now.Add(-sellerListLookback).Format(time.RFC3339),
			StartTimeTo:          now.Format(time.RFC3339),
			DetailLevel:          "ReturnAll",
			PageNumber:           page,
			EntriesPerPage:       sellerListPageSize,
		}

		var resp ebay.GetSellerListResponse
		if err := s.trading.Call(ctx, "GetSellerList", req, &resp); err != nil {
			return nil, err
		}
		if resp.GetAck() == ebay.AckFailure {
			return nil, fmt.Errorf("GetSellerList 被拒绝: %s", resp.ErrorMessage())
		}

		for _, item := range resp.Items {
			if item.ListingStatus != "" && item.ListingStatus != "Active" {
				continue
			}
			remaining := item.Quantity - item.QuantitySold
			if remaining < 0 {
				remaining = 0
			}
			listings = append(listings, ActiveListing{
				Platform:  PlatformEbay,
				ListingID: item.ItemID,
				Title:     item.Title,
				SKU:       item.SKU,
				Quantity:  remaining,
			})
		}

		if !resp.HasMore {
			break
		}
	}

	return listings, nil
}

// UpdateListingQuantity 修订单条刊登的库存数量
func (s *EbayService) UpdateListingQuantity(ctx context.Context, userID int64, listingID string, quantity int) error {
	acc, err := s.ensureFreshToken(ctx, userID)
	if err != nil {
		return err
	}
	if quantity < 0 {
		quantity = 0
	}

	req := &ebay.ReviseInventoryStatusRequest{
		RequesterCredentials: creds(acc),
		InventoryStatus: []ebay.InventoryStatus{
			{ItemID: listingID, Quantity: quantity},
		},
	}

	var resp ebay.ReviseInventoryStatusResponse
	if err := s.trading.Call(ctx, "ReviseInventoryStatus", req, &resp); err != nil {
		return err
	}
	if resp.GetAck() == ebay.AckFailure {
		return fmt.Errorf("修订库存被拒绝 (ItemID=%s): %s", listingID, resp.ErrorMessage())
	}
	return nil
}

// ==================== 订单 ====================

// GetRecentSales 拉取时间窗内的订单并映射为统一概要
func (s *EbayService) GetRecentSales(ctx context.Context, userID int64, from, to time.Time) ([]OrderSummary, error) {
	acc, err := s.ensureFreshToken(ctx, userID)
	if err != nil {
		return nil, err
	}

	req := &ebay.GetOrdersRequest{
		RequesterCredentials: creds(acc),
		CreateTimeFrom:       from.UTC().Format(time.RFC3339),
		CreateTimeTo:         to.UTC().Format(time.RFC3339),
		OrderRole:            "Seller",
		DetailLevel:          "ReturnAll",
	}

	var resp ebay.GetOrdersResponse
	if err := s.trading.Call(ctx, "GetOrders", req, &resp); err != nil {
		return nil, err
	}
	if resp.GetAck() == ebay.AckFailure {
		return nil, fmt.Errorf("GetOrders 被拒绝: %s", resp.ErrorMessage())
	}

	summaries := make([]OrderSummary, 0, len(resp.Orders))
	for i := range resp.Orders {
		summaries = append(summaries, s.mapOrder(&resp.Orders[i]))
	}
	return summaries, nil
}

// GetOrderDetails 按订单号取详情
func (s *EbayService) GetOrderDetails(ctx context.Context, userID int64, orderID string) (*OrderDetails, error) {
	acc, err := s.ensureFreshToken(ctx, userID)
	if err != nil {
		return nil, err
	}

	req := &ebay.GetOrdersRequest{
		RequesterCredentials: creds(acc),
		OrderIDs:             []string{orderID},
		OrderRole:            "Seller",
		DetailLevel:          "ReturnAll",
	}

	var resp ebay.GetOrdersResponse
	if err := s.trading.Call(ctx, "GetOrders", req, &resp); err != nil {
		return nil, err
	}
	if resp.GetAck() == ebay.AckFailure {
		return nil, fmt.Errorf("GetOrders 被拒绝: %s", resp.ErrorMessage())
	}
	if len(resp.Orders) == 0 {
		return nil, fmt.Errorf("订单 %s 不存在", orderID)
	}

	order := &resp.Orders[0]
	details := &OrderDetails{
		OrderSummary: s.mapOrder(order),
		BuyerAddress: formatAddress(order.ShippingAddress),
	}
	if len(order.Transactions) > 0 {
		details.TrackingCarrier = order.Transactions[0].TrackingCarrier
		details.TrackingNumber = order.Transactions[0].TrackingNumber
	}
	return details, nil
}

// mapOrder 平台订单 -> 统一概要
// 三个原始状态字段保留原文，归一化词表由 NormalizeOrderStatus 给出
func (s *EbayService) mapOrder(order *ebay.Order) OrderSummary {
	summary := OrderSummary{
		Platform:      PlatformEbay,
		OrderID:       order.OrderID,
		TotalCents:    parseCents(order.Total.Value),
		Currency:      order.Total.CurrencyID,
		Buyer:         order.BuyerUserID,
		OrderStatus:   order.OrderStatus,
		PaymentStatus: order.PaymentStatus,
	}

	if order.ShippedTime != "" {
		summary.ShippingStatus = "Shipped"
	}
	if t, err := time.Parse(time.RFC3339, order.CreatedTime); err == nil {
		summary.SoldAt = t
	}

	// 标题/SKU 取首个成交，数量累计全部成交
	for i, txn := range order.Transactions {
		if i == 0 {
			summary.SKU = txn.SKU
			summary.Title = txn.ItemTitle
		}
		summary.Quantity += txn.QuantitySold
	}

	summary.Status = NormalizeOrderStatus(summary.OrderStatus, summary.PaymentStatus, summary.ShippingStatus)
	return summary
}

func formatAddress(addr ebay.ShippingAddress) string {
	parts := []string{addr.Name, addr.Street1, addr.Street2, addr.CityName, addr.StateOrProvince, addr.PostalCode, addr.Country}
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, ", ")
}

// ==================== 分类 ====================

// GetChildCategories 取某分类的直接子分类
// 三步走：叶子节点短路返回空；CategoryParent 过滤查询；
// 失败则退化为全树遍历按 ParentID 过滤 (上限 50)。父节点永远不会出现在
// 自己的子分类列表里 (平台把父节点也塞在过滤结果里，需剔除)
func (s *EbayService) GetChildCategories(ctx context.Context, userID int64, parentID string) ([]CategorySummary, error) {
	acc, err := s.ensureFreshToken(ctx, userID)
	if err != nil {
		return nil, err
	}

	// 根查询：取顶级分类
	if parentID == "" || parentID == "0" {
		return s.fetchCategories(ctx, acc, &ebay.GetCategoriesRequest{
			RequesterCredentials: creds(acc),
			LevelLimit:           1,
			DetailLevel:          "ReturnAll",
			ViewAllNodes:         true,
		}, "")
	}

	// 1. 叶子节点短路
	infoReq := &ebay.GetCategoryInfoRequest{
		RequesterCredentials: creds(acc),
		CategoryID:           parentID,
	}
	var info ebay.GetCategoryInfoResponse
	if err := s.trading.Call(ctx, "GetCategoryInfo", infoReq, &info); err == nil && info.GetAck() != ebay.AckFailure {
		for _, cat := range info.Categories {
			if cat.CategoryID == parentID && cat.LeafCategory {
				return []CategorySummary{}, nil
			}
		}
	}

	// 2. 带 CategoryParent 的过滤查询
	children, err := s.fetchCategories(ctx, acc, &ebay.GetCategoriesRequest{
		RequesterCredentials: creds(acc),
		CategoryParent:       parentID,
		DetailLevel:          "ReturnAll",
		ViewAllNodes:         true,
	}, parentID)
	if err == nil && len(children) > 0 {
		return children, nil
	}
	if err != nil {
		log.Printf("[Ebay] 过滤查询分类 %s 子节点失败，退化为全树遍历: %v", parentID, err)
	}

	// 3. 全树遍历兜底
	return s.fetchAllAndFilter(ctx, acc, parentID)
}

// fetchCategories 执行一次 GetCategories 并过滤出 parentID 的直接子节点
func (s *EbayService) fetchCategories(ctx context.Context, acc *model.MarketplaceAccount, req *ebay.GetCategoriesRequest, parentID string) ([]CategorySummary, error) {
	var resp ebay.GetCategoriesResponse
	if err := s.trading.Call(ctx, "GetCategories", req, &resp); err != nil {
		return nil, err
	}
	if resp.GetAck() == ebay.AckFailure {
		return nil, fmt.Errorf("GetCategories 被拒绝: %s", resp.ErrorMessage())
	}

	out := make([]CategorySummary, 0, len(resp.Categories))
	for _, cat := range resp.Categories {
		// 平台会把父节点本身也返回，剔除
		if cat.CategoryID == parentID {
			continue
		}
		if parentID == "" {
			// 顶级分类：父指向自身
			if cat.CategoryParentID != cat.CategoryID {
				continue
			}
		} else if cat.CategoryParentID != parentID {
			continue
		}
		out = append(out, CategorySummary{
			ID:     cat.CategoryID,
			Name:   cat.CategoryName,
			IsLeaf: cat.LeafCategory,
		})
	}
	return out, nil
}

// fetchAllAndFilter 全树遍历兜底，结果上限 50 条
func (s *EbayService) fetchAllAndFilter(ctx context.Context, acc *model.MarketplaceAccount, parentID string) ([]CategorySummary, error) {
	var resp ebay.GetCategoriesResponse
	req := &ebay.GetCategoriesRequest{
		RequesterCredentials: creds(acc),
		DetailLevel:          "ReturnAll",
		ViewAllNodes:         true,
	}
	if err := s.trading.Call(ctx, "GetCategories", req, &resp); err != nil {
		return nil, err
	}
	if resp.GetAck() == ebay.AckFailure {
		return nil, fmt.Errorf("GetCategories 被拒绝: %s", resp.ErrorMessage())
	}

	out := make([]CategorySummary, 0, maxCategoryChildren)
	for _, cat := range resp.Categories {
		if cat.CategoryID == parentID || cat.CategoryParentID != parentID {
			continue
		}
		out = append(out, CategorySummary{
			ID:     cat.CategoryID,
			Name:   cat.CategoryName,
			IsLeaf: cat.LeafCategory,
		})
		if len(out) >= maxCategoryChildren {
			break
		}
	}
	return out, nil
}

// GetItemSpecifics 取分类的推荐属性 (MinValues>0 即必填)
func (s *EbayService) GetItemSpecifics(ctx context.Context, userID int64, categoryID string) ([]SpecificRecommendation, error) {
	acc, err := s.ensureFreshToken(ctx, userID)
	if err != nil {
		return nil, err
	}

	req := &ebay.GetCategorySpecificsRequest{
		RequesterCredentials: creds(acc),
		CategoryID:           []string{categoryID},
	}
	var resp ebay.GetCategorySpecificsResponse
	if err := s.trading.Call(ctx, "GetCategorySpecifics", req, &resp); err != nil {
		return nil, err
	}
	if resp.GetAck() == ebay.AckFailure {
		return nil, fmt.Errorf("GetCategorySpecifics 被拒绝: %s", resp.ErrorMessage())
	}

	var out []SpecificRecommendation
	for _, rec := range resp.Recommendations {
		if rec.CategoryID != "" && rec.CategoryID != categoryID {
			continue
		}
		for _, name := range rec.Names {
			out = append(out, SpecificRecommendation{
				Name:     name.Name,
				Required: name.MinValues > 0,
				Values:   name.Values,
			})
		}
	}
	return out, nil
}

// GetConditionValues 取分类下的合法成色枚举
func (s *EbayService) GetConditionValues(ctx context.Context, userID int64, categoryID string) ([]ConditionOption, error) {
	acc, err := s.ensureFreshToken(ctx, userID)
	if err != nil {
		return nil, err
	}

	req := &ebay.GetCategoryFeaturesRequest{
		RequesterCredentials: creds(acc),
		CategoryID:           categoryID,
		FeatureID:            []string{"ConditionValues"},
		DetailLevel:          "ReturnAll",
	}
	var resp ebay.GetCategoryFeaturesResponse
	if err := s.trading.Call(ctx, "GetCategoryFeatures", req, &resp); err != nil {
		return nil, err
	}
	if resp.GetAck() == ebay.AckFailure {
		return nil, fmt.Errorf("GetCategoryFeatures 被拒绝: %s", resp.ErrorMessage())
	}

	var out []ConditionOption
	for _, feature := range resp.Features {
		if feature.CategoryID != "" && feature.CategoryID != categoryID {
			continue
		}
		for _, cond := range feature.ConditionValues {
			out = append(out, ConditionOption{ID: cond.ID, Name: cond.DisplayName})
		}
	}
	return out, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

// ==================== 金额 ====================

// formatCents 分 -> "12.34"
func formatCents(cents int64) string {
	return fmt.Sprintf("%d.%02d", cents/100, cents%100)
}

// parseCents "12.34" -> 分；解析失败返回 0
func parseCents(s string) int64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return int64(f*100 + 0.5)
}
