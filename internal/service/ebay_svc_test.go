package service

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"chumslister/internal/config"
	"chumslister/internal/model"
	"chumslister/internal/repository"
	"chumslister/pkg/database"
	"chumslister/pkg/ebay"
)

// ==================== 测试辅助 ====================

// tradingStub 按 X-EBAY-API-CALL-NAME 分发的假 Trading 端点
type tradingStub struct {
	responses map[string]string // callName -> 响应 XML
	calls     []string          // 按序记录收到的调用名
	bodies    map[string]string // callName -> 最近一次请求体
}

func (s *tradingStub) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		callName := r.Header.Get("X-EBAY-API-CALL-NAME")
		s.calls = append(s.calls, callName)
		if raw, err := io.ReadAll(r.Body); err == nil {
			if s.bodies == nil {
				s.bodies = map[string]string{}
			}
			s.bodies[callName] = string(raw)
		}
		body, ok := s.responses[callName]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write([]byte(body))
	}
}

func setupEbayService(t *testing.T, stub *tradingStub) *EbayService {
	return setupEbayServiceWithConfig(t, stub, config.EbayConfig{})
}

func setupEbayServiceWithConfig(t *testing.T, stub *tradingStub, cfg config.EbayConfig) *EbayService {
	srv := httptest.NewServer(stub.handler())
	t.Cleanup(srv.Close)

	db, err := database.OpenTestDB(&model.MarketplaceAccount{}, &model.UserSettings{})
	if err != nil {
		t.Fatalf("打开测试数据库失败: %v", err)
	}

	accounts := repository.NewAccountRepository(db)
	acc := &model.MarketplaceAccount{
		UserID:         1,
		Platform:       string(PlatformEbay),
		AccessToken:    "test-token",
		RefreshToken:   "test-refresh",
		TokenExpiresAt: time.Now().Add(2 * time.Hour),
		TokenStatus:    model.TokenStatusActive,
	}
	if err := accounts.Create(context.Background(), acc); err != nil {
		t.Fatalf("建账号失败: %v", err)
	}

	trading := ebay.NewTradingClient(ebay.Config{
		Endpoint:    srv.URL,
		MaxAttempts: 1,
	})
	settings := NewSettingsService(repository.NewSettingsRepository(db))

	return NewEbayService(cfg, trading, nil, accounts, settings, nil)
}

// ==================== 刊登 ====================

func TestCreateListing_FallsBackToConfiguredCategory(t *testing.T) {
	stub := &tradingStub{responses: map[string]string{
		"AddFixedPriceItem": `<AddFixedPriceItemResponse><Ack>Success</Ack><ItemID>110012345</ItemID></AddFixedPriceItemResponse>`,
	}}
	svc := setupEbayServiceWithConfig(t, stub, config.EbayConfig{
		FallbackCategoryID: "99",
		ShippingPolicyID:   "SP-1",
		PaymentPolicyID:    "PP-1",
		ReturnPolicyID:     "RP-1",
	})

	product := &ProductData{
		Title:         "DeWalt Drill",
		SKU:           "CL-00000001",
		PriceCents:    12999,
		AllowNoImages: true,
	}
	res, err := svc.CreateListing(context.Background(), 1, product)
	if err != nil {
		t.Fatalf("刊登失败: %v", err)
	}
	if !res.Success || res.ListingID != "110012345" {
		t.Fatalf("刊登结果异常: %+v", res)
	}

	if !strings.Contains(stub.bodies["AddFixedPriceItem"], "<CategoryID>99</CategoryID>") {
		t.Error("请求未带兜底分类")
	}
	// 共享的 ProductData 不能被回落逻辑改写
	if product.CategoryID != "" {
		t.Errorf("ProductData 被改写: %q", product.CategoryID)
	}
}

func TestCreateListing_NoCategoryAnywhere(t *testing.T) {
	stub := &tradingStub{responses: map[string]string{}}
	svc := setupEbayService(t, stub)

	_, err := svc.CreateListing(context.Background(), 1, &ProductData{SKU: "CL-00000002"})
	if err == nil {
		t.Fatal("无分类且无兜底配置应报错")
	}
	if !strings.Contains(err.Error(), "分类") {
		t.Errorf("错误信息应指明分类缺失: %v", err)
	}
	if len(stub.calls) != 0 {
		t.Errorf("不应发出任何平台调用, got %v", stub.calls)
	}
}

// ==================== 分类 ====================

func TestGetChildCategories_LeafShortCircuits(t *testing.T) {
	stub := &tradingStub{responses: map[string]string{
		"GetCategoryInfo": `<GetCategoryInfoResponse><Ack>Success</Ack>
			<CategoryArray><Category>
				<CategoryID>177</CategoryID><CategoryName>Thermostats</CategoryName><LeafCategory>true</LeafCategory>
			</Category></CategoryArray>
		</GetCategoryInfoResponse>`,
	}}
	svc := setupEbayService(t, stub)

	children, err := svc.GetChildCategories(context.Background(), 1, "177")
	if err != nil {
		t.Fatalf("查询失败: %v", err)
	}
	if len(children) != 0 {
		t.Errorf("叶子分类应返回空列表, got %d", len(children))
	}

	// 叶子短路后不应再发 GetCategories
	for _, call := range stub.calls {
		if call == "GetCategories" {
			t.Error("叶子分类不应触发 GetCategories")
		}
	}
}

func TestGetChildCategories_ExcludesParentNode(t *testing.T) {
	stub := &tradingStub{responses: map[string]string{
		"GetCategoryInfo": `<GetCategoryInfoResponse><Ack>Success</Ack>
			<CategoryArray><Category>
				<CategoryID>11700</CategoryID><CategoryName>Home</CategoryName><LeafCategory>false</LeafCategory>
			</Category></CategoryArray>
		</GetCategoryInfoResponse>`,
		// 平台把父节点本身也塞在过滤结果里
		"GetCategories": `<GetCategoriesResponse><Ack>Success</Ack>
			<CategoryArray>
				<Category><CategoryID>11700</CategoryID><CategoryName>Home</CategoryName><CategoryParentID>11700</CategoryParentID></Category>
				<Category><CategoryID>20613</CategoryID><CategoryName>Tools</CategoryName><CategoryParentID>11700</CategoryParentID><LeafCategory>false</LeafCategory></Category>
				<Category><CategoryID>41986</CategoryID><CategoryName>HVAC</CategoryName><CategoryParentID>11700</CategoryParentID><LeafCategory>true</LeafCategory></Category>
			</CategoryArray>
		</GetCategoriesResponse>`,
	}}
	svc := setupEbayService(t, stub)

	children, err := svc.GetChildCategories(context.Background(), 1, "11700")
	if err != nil {
		t.Fatalf("查询失败: %v", err)
	}
	if len(children) != 2 {
		t.Fatalf("子分类数 = %d, want 2", len(children))
	}
	for _, c := range children {
		if c.ID == "11700" {
			t.Error("父节点不应出现在子分类列表里")
		}
	}
	if children[1].ID != "41986" || !children[1].IsLeaf {
		t.Errorf("叶子标记丢失: %+v", children[1])
	}
}

func TestGetChildCategories_TopLevel(t *testing.T) {
	stub := &tradingStub{responses: map[string]string{
		// 顶级分类的父指向自身
		"GetCategories": `<GetCategoriesResponse><Ack>Success</Ack>
			<CategoryArray>
				<Category><CategoryID>11700</CategoryID><CategoryName>Home</CategoryName><CategoryParentID>11700</CategoryParentID></Category>
				<Category><CategoryID>293</CategoryID><CategoryName>Electronics</CategoryName><CategoryParentID>293</CategoryParentID></Category>
				<Category><CategoryID>20613</CategoryID><CategoryName>Tools</CategoryName><CategoryParentID>11700</CategoryParentID></Category>
			</CategoryArray>
		</GetCategoriesResponse>`,
	}}
	svc := setupEbayService(t, stub)

	top, err := svc.GetChildCategories(context.Background(), 1, "")
	if err != nil {
		t.Fatalf("查询失败: %v", err)
	}
	if len(top) != 2 {
		t.Fatalf("顶级分类数 = %d, want 2 (非顶级节点要过滤)", len(top))
	}
}

// ==================== 属性与成色 ====================

func TestGetItemSpecifics_MinValuesMeansRequired(t *testing.T) {
	stub := &tradingStub{responses: map[string]string{
		"GetCategorySpecifics": `<GetCategorySpecificsResponse><Ack>Success</Ack>
			<Recommendations><CategoryID>177</CategoryID>
				<NameRecommendation>
					<Name>Brand</Name>
					<ValidationRules><MinValues>1</MinValues></ValidationRules>
					<ValueRecommendation><Value>Honeywell</Value></ValueRecommendation>
					<ValueRecommendation><Value>Nest</Value></ValueRecommendation>
				</NameRecommendation>
				<NameRecommendation><Name>Color</Name></NameRecommendation>
			</Recommendations>
		</GetCategorySpecificsResponse>`,
	}}
	svc := setupEbayService(t, stub)

	specifics, err := svc.GetItemSpecifics(context.Background(), 1, "177")
	if err != nil {
		t.Fatalf("查询失败: %v", err)
	}
	if len(specifics) != 2 {
		t.Fatalf("属性数 = %d, want 2", len(specifics))
	}
	if !specifics[0].Required {
		t.Error("MinValues>0 的属性应标记必填")
	}
	if len(specifics[0].Values) != 2 {
		t.Errorf("候选值数 = %d, want 2", len(specifics[0].Values))
	}
	if specifics[1].Required {
		t.Error("无 MinValues 的属性不应必填")
	}
}

func TestGetConditionValues(t *testing.T) {
	stub := &tradingStub{responses: map[string]string{
		"GetCategoryFeatures": `<GetCategoryFeaturesResponse><Ack>Success</Ack>
			<Category><CategoryID>177</CategoryID>
				<ConditionValues>
					<Condition><ID>1000</ID><DisplayName>New</DisplayName></Condition>
					<Condition><ID>3000</ID><DisplayName>Used</DisplayName></Condition>
				</ConditionValues>
			</Category>
		</GetCategoryFeaturesResponse>`,
	}}
	svc := setupEbayService(t, stub)

	conditions, err := svc.GetConditionValues(context.Background(), 1, "177")
	if err != nil {
		t.Fatalf("查询失败: %v", err)
	}
	if len(conditions) != 2 {
		t.Fatalf("成色数 = %d, want 2", len(conditions))
	}
	if conditions[0].ID != "1000" || conditions[0].Name != "New" {
		t.Errorf("成色映射错误: %+v", conditions[0])
	}
}

// ==================== 在线刊登与订单 ====================

func TestGetActiveListings_SkipsEndedAndClampsQuantity(t *testing.T) {
	stub := &tradingStub{responses: map[string]string{
		"GetSellerList": `<GetSellerListResponse><Ack>Success</Ack>
			<HasMoreItems>false</HasMoreItems>
			<ItemArray>
				<Item><ItemID>101</ItemID><Title>Drill</Title><SKU>CL-1</SKU>
					<SellingStatus><ListingStatus>Active</ListingStatus><QuantitySold>2</QuantitySold></SellingStatus>
					<Quantity>5</Quantity></Item>
				<Item><ItemID>102</ItemID><Title>Saw</Title><SKU>CL-2</SKU>
					<SellingStatus><ListingStatus>Completed</ListingStatus></SellingStatus>
					<Quantity>1</Quantity></Item>
				<Item><ItemID>103</ItemID><Title>Sander</Title><SKU>CL-3</SKU>
					<SellingStatus><ListingStatus>Active</ListingStatus><QuantitySold>9</QuantitySold></SellingStatus>
					<Quantity>3</Quantity></Item>
			</ItemArray>
		</GetSellerListResponse>`,
	}}
	svc := setupEbayService(t, stub)

	listings, err := svc.GetActiveListings(context.Background(), 1)
	if err != nil {
		t.Fatalf("查询失败: %v", err)
	}
	if len(listings) != 2 {
		t.Fatalf("在线刊登数 = %d, want 2 (已结束的要跳过)", len(listings))
	}
	if listings[0].Quantity != 3 {
		t.Errorf("剩余数量 = %d, want 5-2=3", listings[0].Quantity)
	}
	// 超卖时剩余数量下钳到 0
	if listings[1].Quantity != 0 {
		t.Errorf("超卖剩余数量 = %d, want 0", listings[1].Quantity)
	}
}

func TestGetRecentSales_NormalizesStatus(t *testing.T) {
	stub := &tradingStub{responses: map[string]string{
		"GetOrders": `<GetOrdersResponse><Ack>Success</Ack>
			<OrderArray><Order>
				<OrderID>12-34567-89012</OrderID>
				<OrderStatus>Completed</OrderStatus>
				<CheckoutStatus><eBayPaymentStatus>NoChange</eBayPaymentStatus></CheckoutStatus>
				<CreatedTime>2026-08-30T10:00:00Z</CreatedTime>
				<Total currencyID="USD">129.99</Total>
				<BuyerUserID>buyer42</BuyerUserID>
				<TransactionArray>
					<Transaction><Item><SKU>CL-1</SKU><Title>Drill</Title></Item><QuantityPurchased>2</QuantityPurchased></Transaction>
				</TransactionArray>
			</Order></OrderArray>
		</GetOrdersResponse>`,
	}}
	svc := setupEbayService(t, stub)

	from := time.Date(2026, 8, 25, 0, 0, 0, 0, time.UTC)
	orders, err := svc.GetRecentSales(context.Background(), 1, from, time.Now())
	if err != nil {
		t.Fatalf("查询失败: %v", err)
	}
	if len(orders) != 1 {
		t.Fatalf("订单数 = %d, want 1", len(orders))
	}

	o := orders[0]
	if o.Status != OrderStatusReadyToShip {
		t.Errorf("归一化状态 = %s, want %s", o.Status, OrderStatusReadyToShip)
	}
	if o.TotalCents != 12999 {
		t.Errorf("总额 = %d, want 12999", o.TotalCents)
	}
	if o.SKU != "CL-1" || o.Quantity != 2 {
		t.Errorf("首单映射错误: %+v", o)
	}
	// 原始状态字段保留原文
	if o.OrderStatus != "Completed" {
		t.Errorf("order_status = %s", o.OrderStatus)
	}
}

func TestEnsureFreshToken_NoAccount(t *testing.T) {
	stub := &tradingStub{responses: map[string]string{}}
	svc := setupEbayService(t, stub)

	// userID 99 没有关联账号
	ok, err := svc.CheckAuthentication(context.Background(), 99)
	if err != nil {
		t.Fatalf("探测不应报错: %v", err)
	}
	if ok {
		t.Error("未关联账号应视为未授权")
	}
}

// ==================== 纯函数 ====================

func TestBuildItemSpecifics_MergesBrandAndMPN(t *testing.T) {
	p := &ProductData{
		Brand:       "DeWalt",
		ModelNumber: "DCD771C2",
		Specifics:   map[string]string{"Color": "Yellow", "Voltage": ""},
	}

	specs := buildItemSpecifics(p)

	byName := make(map[string][]string, len(specs))
	for _, s := range specs {
		byName[s.Name] = s.Value
	}
	if len(byName["Brand"]) != 1 || byName["Brand"][0] != "DeWalt" {
		t.Errorf("Brand 未并入: %+v", byName)
	}
	if len(byName["MPN"]) != 1 || byName["MPN"][0] != "DCD771C2" {
		t.Errorf("MPN 未并入: %+v", byName)
	}
	if _, ok := byName["Voltage"]; ok {
		t.Error("空值属性应跳过")
	}

	// 属性里已有 Brand 时不重复并入
	p2 := &ProductData{Brand: "DeWalt", Specifics: map[string]string{"Brand": "Custom"}}
	specs2 := buildItemSpecifics(p2)
	if len(specs2) != 1 || specs2[0].Value[0] != "Custom" {
		t.Errorf("显式 Brand 应优先: %+v", specs2)
	}
}

func TestFirstNonEmpty(t *testing.T) {
	if got := firstNonEmpty("", "  ", "third"); got != "third" {
		t.Errorf("got %q, want third", got)
	}
	if got := firstNonEmpty("first", "second"); got != "first" {
		t.Errorf("got %q, want first", got)
	}
	if got := firstNonEmpty("", ""); got != "" {
		t.Errorf("got %q, want empty", got)
	}
}

func TestParseCents(t *testing.T) {
	tests := []struct {
		text string
		want int64
	}{
		{"129.99", 12999},
		{"0.01", 1},
		{"50", 5000},
		{"", 0},
		{"abc", 0},
	}
	for _, tt := range tests {
		if got := parseCents(tt.text); got != tt.want {
			t.Errorf("parseCents(%q) = %d, want %d", tt.text, got, tt.want)
		}
	}
}
