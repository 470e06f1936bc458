package service

import (
	"context"
	"errors"
	"testing"
	"time"
)

// ==================== 测试替身 ====================

// fakeMarketplace 可编程的平台适配器替身
type fakeMarketplace struct {
	platform      Platform
	authenticated bool
	authErr       error

	listings    []ActiveListing
	listingsErr error

	createResult *ListingResult
	createErr    error
	createPanic  bool

	orders []OrderSummary

	// 记录下发过的数量修订：listingID -> 数量
	quantityUpdates map[string]int
	quantityErr     error
}

func newFakeMarketplace(p Platform) *fakeMarketplace {
	return &fakeMarketplace{
		platform:        p,
		authenticated:   true,
		createResult:    &ListingResult{Success: true, ListingID: "fake-1"},
		quantityUpdates: make(map[string]int),
	}
}

func (f *fakeMarketplace) Platform() Platform { return f.platform }

func (f *fakeMarketplace) CheckAuthentication(_ context.Context, _ int64) (bool, error) {
	return f.authenticated, f.authErr
}

func (f *fakeMarketplace) CreateListing(_ context.Context, _ int64, _ *ProductData) (*ListingResult, error) {
	if f.createPanic {
		panic("fake marketplace exploded")
	}
	return f.createResult, f.createErr
}

func (f *fakeMarketplace) GetActiveListings(_ context.Context, _ int64) ([]ActiveListing, error) {
	return f.listings, f.listingsErr
}

func (f *fakeMarketplace) UpdateListingQuantity(_ context.Context, _ int64, listingID string, quantity int) error {
	if f.quantityErr != nil {
		return f.quantityErr
	}
	f.quantityUpdates[listingID] = quantity
	return nil
}

func (f *fakeMarketplace) GetRecentSales(_ context.Context, _ int64, _, _ time.Time) ([]OrderSummary, error) {
	return f.orders, nil
}

func (f *fakeMarketplace) GetOrderDetails(_ context.Context, _ int64, orderID string) (*OrderDetails, error) {
	return &OrderDetails{OrderSummary: OrderSummary{Platform: f.platform, OrderID: orderID}}, nil
}

func (f *fakeMarketplace) GetChildCategories(_ context.Context, _ int64, _ string) ([]CategorySummary, error) {
	return nil, nil
}

func (f *fakeMarketplace) GetItemSpecifics(_ context.Context, _ int64, _ string) ([]SpecificRecommendation, error) {
	return nil, nil
}

func (f *fakeMarketplace) GetConditionValues(_ context.Context, _ int64, _ string) ([]ConditionOption, error) {
	return nil, nil
}

func (f *fakeMarketplace) UploadImage(_ context.Context, _ int64, imageURL, _ string) (string, error) {
	return imageURL, nil
}

// ==================== 单元测试 ====================

func TestParsePlatform(t *testing.T) {
	tests := []struct {
		input   string
		want    Platform
		wantErr bool
	}{
		{"ebay", PlatformEbay, false},
		{"EBAY", PlatformEbay, false},
		{"  eBay  ", PlatformEbay, false},
		{"etsy", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		got, err := ParsePlatform(tt.input)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParsePlatform(%q) 应报错", tt.input)
			}
			if !errors.Is(err, ErrPlatformUnknown) {
				t.Errorf("ParsePlatform(%q) 错误应包装 ErrPlatformUnknown", tt.input)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParsePlatform(%q) 报错: %v", tt.input, err)
		}
		if got != tt.want {
			t.Errorf("ParsePlatform(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestMarketplaceFactory_Get(t *testing.T) {
	ebay := newFakeMarketplace(PlatformEbay)
	factory := NewMarketplaceFactory(ebay)

	svc, err := factory.Get(PlatformEbay)
	if err != nil {
		t.Fatalf("Get 失败: %v", err)
	}
	if svc.Platform() != PlatformEbay {
		t.Errorf("platform = %s, want ebay", svc.Platform())
	}

	if _, err := factory.Get(Platform("mercari")); !errors.Is(err, ErrPlatformUnknown) {
		t.Errorf("未注册平台应返回 ErrPlatformUnknown, got %v", err)
	}
}

func TestMarketplaceFactory_GetByName(t *testing.T) {
	factory := NewMarketplaceFactory(newFakeMarketplace(PlatformEbay))

	if _, err := factory.GetByName("EBAY"); err != nil {
		t.Errorf("大小写不敏感解析失败: %v", err)
	}
	if _, err := factory.GetByName("bonanza"); err == nil {
		t.Error("非法平台名应报错")
	}
}

func TestMarketplaceFactory_AllPreservesOrder(t *testing.T) {
	first := newFakeMarketplace(Platform("first"))
	second := newFakeMarketplace(Platform("second"))
	factory := NewMarketplaceFactory(first, second)

	all := factory.All()
	if len(all) != 2 {
		t.Fatalf("len = %d, want 2", len(all))
	}
	if all[0].Platform() != "first" || all[1].Platform() != "second" {
		t.Error("All 应保持注册顺序")
	}
}

func TestMarketplaceFactory_AuthenticatedServices(t *testing.T) {
	good := newFakeMarketplace(Platform("good"))
	bad := newFakeMarketplace(Platform("bad"))
	bad.authenticated = false
	broken := newFakeMarketplace(Platform("broken"))
	broken.authErr = errors.New("网络抖动")

	factory := NewMarketplaceFactory(good, bad, broken)

	authed := factory.AuthenticatedServices(context.Background(), 1)
	if len(authed) != 1 {
		t.Fatalf("已授权平台数 = %d, want 1", len(authed))
	}
	if authed[0].Platform() != "good" {
		t.Errorf("platform = %s, want good", authed[0].Platform())
	}
}
