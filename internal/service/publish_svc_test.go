package service

import (
	"context"
	"errors"
	"strings"
	"testing"
)

// ==================== 多平台隔离 ====================

func TestPublishProduct_IsolatesPlatformFailures(t *testing.T) {
	good := newFakeMarketplace(Platform("good"))
	failing := newFakeMarketplace(Platform("failing"))
	failing.createErr = errors.New("平台拒绝")
	panicking := newFakeMarketplace(Platform("panicking"))
	panicking.createPanic = true

	factory := NewMarketplaceFactory(good, failing, panicking)
	svc := NewPublishService(factory, nil)

	platforms := []Platform{"good", "failing", "panicking"}
	results := svc.PublishProduct(context.Background(), 1, &ProductData{Title: "Drill"}, platforms)

	// 每个请求的平台都要有且仅有一条结果
	if len(results) != 3 {
		t.Fatalf("结果数 = %d, want 3", len(results))
	}
	for _, p := range platforms {
		if results[p] == nil {
			t.Fatalf("平台 %s 缺少结果条目", p)
		}
	}

	if !results["good"].Success {
		t.Errorf("good 平台应成功: %s", results["good"].ErrorMsg)
	}
	if results["good"].ListingID != "fake-1" {
		t.Errorf("listing_id = %s, want fake-1", results["good"].ListingID)
	}

	if results["failing"].Success {
		t.Error("failing 平台应失败")
	}
	if !strings.Contains(results["failing"].ErrorMsg, "平台拒绝") {
		t.Errorf("失败原因应透传: %s", results["failing"].ErrorMsg)
	}

	// panic 被兜底转为失败结果，不影响其他平台
	if results["panicking"].Success {
		t.Error("panicking 平台应失败")
	}
	if !strings.Contains(results["panicking"].ErrorMsg, "内部错误") {
		t.Errorf("panic 应转为内部错误: %s", results["panicking"].ErrorMsg)
	}
}

func TestPublishProduct_UnknownPlatform(t *testing.T) {
	svc := NewPublishService(NewMarketplaceFactory(newFakeMarketplace(PlatformEbay)), nil)

	results := svc.PublishProduct(context.Background(), 1, &ProductData{}, []Platform{"mercari"})
	if len(results) != 1 {
		t.Fatalf("结果数 = %d, want 1", len(results))
	}
	if results["mercari"].Success {
		t.Error("未注册平台应失败")
	}
}

func TestPublishProduct_BusinessFailureInResult(t *testing.T) {
	// 平台拒绝 (业务失败) 体现在结果而非 error，错误文案原样保留
	rejected := newFakeMarketplace(PlatformEbay)
	rejected.createResult = &ListingResult{Success: false, ErrorMsg: "Title exceeds maximum length."}

	svc := NewPublishService(NewMarketplaceFactory(rejected), nil)
	results := svc.PublishProduct(context.Background(), 1, &ProductData{}, []Platform{PlatformEbay})

	r := results[PlatformEbay]
	if r.Success {
		t.Error("应失败")
	}
	if r.ErrorMsg != "Title exceeds maximum length." {
		t.Errorf("平台错误文案应逐字保留: %s", r.ErrorMsg)
	}
}
