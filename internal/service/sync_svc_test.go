package service

import (
	"context"
	"testing"
)

// ==================== 分组键 ====================

func TestExtractModelNumber(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"DeWalt Drill Model DCD771C2 Brand New", "DCD771C2"},
		{"Honeywell Thermostat model: TH6220U2000", "TH6220U2000"},
		{"Ryobi Saw MDL# P507 Free Shipping", "P507"},
		{"型号末尾标点剥掉 Model ABC-123.", "ABC-123"},
		{"没有型号的标题", ""},
		{"Model X", ""}, // 太短不算型号
	}

	for _, tt := range tests {
		if got := ExtractModelNumber(tt.title); got != tt.want {
			t.Errorf("ExtractModelNumber(%q) = %q, want %q", tt.title, got, tt.want)
		}
	}
}

func TestNormalizeTitle(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"Brand New DeWalt Drill!! Free Shipping", "dewalt drill"},
		{"GENUINE Honeywell  Thermostat (Sealed)", "honeywell thermostat"},
		{"  plain title  ", "plain title"},
	}

	for _, tt := range tests {
		if got := NormalizeTitle(tt.title); got != tt.want {
			t.Errorf("NormalizeTitle(%q) = %q, want %q", tt.title, got, tt.want)
		}
	}
}

func TestGroupKey(t *testing.T) {
	// 型号优先
	withModel := &ActiveListing{Platform: PlatformEbay, ListingID: "1", Title: "Drill Model DCD771C2"}
	if got := groupKey(withModel); got != "model:DCD771C2" {
		t.Errorf("groupKey = %q, want model:DCD771C2", got)
	}

	// 无型号回落归一化标题
	noModel := &ActiveListing{Platform: PlatformEbay, ListingID: "2", Title: "Brand New Drill"}
	if got := groupKey(noModel); got != "title:drill" {
		t.Errorf("groupKey = %q, want title:drill", got)
	}

	// 两者皆无时自成一组
	empty := &ActiveListing{Platform: PlatformEbay, ListingID: "3", Title: "!!"}
	if got := groupKey(empty); got != "listing:ebay:3" {
		t.Errorf("groupKey = %q, want listing:ebay:3", got)
	}
}

// ==================== 数量均摊 ====================

func TestRedistribute(t *testing.T) {
	tests := []struct {
		name  string
		total int
		n     int
		want  []int
	}{
		{"整除", 6, 3, []int{2, 2, 2}},
		{"余数归第一份", 7, 3, []int{3, 2, 2}},
		{"总量小于份数", 1, 3, []int{1, 0, 0}},
		{"总量为零", 0, 2, []int{0, 0}},
		{"负数按零处理", -5, 2, []int{0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := redistribute(tt.total, tt.n)
			if len(got) != len(tt.want) {
				t.Fatalf("redistribute(%d, %d) 长度 = %d, want %d", tt.total, tt.n, len(got), len(tt.want))
			}
			sum := 0
			for i := range got {
				sum += got[i]
				if got[i] != tt.want[i] {
					t.Errorf("redistribute(%d, %d)[%d] = %d, want %d", tt.total, tt.n, i, got[i], tt.want[i])
				}
			}
			if tt.total > 0 && sum != tt.total {
				t.Errorf("均摊后总量 = %d, want %d", sum, tt.total)
			}
		})
	}

	if got := redistribute(5, 0); got != nil {
		t.Errorf("redistribute(5, 0) = %v, want nil", got)
	}
}

// ==================== 同步执行 ====================

func TestSyncService_SkipsUnchangedQuantities(t *testing.T) {
	// 两条同款刊登数量已是均摊结果，不应下发任何修订
	fake := newFakeMarketplace(PlatformEbay)
	fake.listings = []ActiveListing{
		{Platform: PlatformEbay, ListingID: "a", Title: "Drill Model DCD771C2", Quantity: 2},
		{Platform: PlatformEbay, ListingID: "b", Title: "Drill Model DCD771C2", Quantity: 1},
	}

	svc := NewSyncService(NewMarketplaceFactory(fake), nil)
	report, err := svc.SyncInventory(context.Background(), 1)
	if err != nil {
		t.Fatalf("SyncInventory 失败: %v", err)
	}

	if report.Groups != 1 {
		t.Errorf("groups = %d, want 1", report.Groups)
	}
	if report.Updates != 0 {
		t.Errorf("updates = %d, want 0", report.Updates)
	}
	if report.Skipped != 2 {
		t.Errorf("skipped = %d, want 2", report.Skipped)
	}
	if len(fake.quantityUpdates) != 0 {
		t.Errorf("下发了 %d 次修订, want 0", len(fake.quantityUpdates))
	}
}

func TestSyncService_RedistributesWithinGroup(t *testing.T) {
	fake := newFakeMarketplace(PlatformEbay)
	fake.listings = []ActiveListing{
		{Platform: PlatformEbay, ListingID: "a", Title: "Drill Model DCD771C2", Quantity: 5},
		{Platform: PlatformEbay, ListingID: "b", Title: "Drill Model DCD771C2", Quantity: 0},
		// 单条刊登的组不参与均摊
		{Platform: PlatformEbay, ListingID: "c", Title: "Lone Saw Model P507", Quantity: 9},
	}

	svc := NewSyncService(NewMarketplaceFactory(fake), nil)
	report, err := svc.SyncInventory(context.Background(), 1)
	if err != nil {
		t.Fatalf("SyncInventory 失败: %v", err)
	}

	// 总量 5 均摊两条：3 + 2，两条都要改
	if report.Updates != 2 {
		t.Errorf("updates = %d, want 2", report.Updates)
	}
	if got := fake.quantityUpdates["a"]; got != 3 {
		t.Errorf("刊登 a 数量 = %d, want 3", got)
	}
	if got := fake.quantityUpdates["b"]; got != 2 {
		t.Errorf("刊登 b 数量 = %d, want 2", got)
	}
	if _, touched := fake.quantityUpdates["c"]; touched {
		t.Error("单条刊登 c 不应被修订")
	}
}

func TestSyncService_NoAuthenticatedPlatforms(t *testing.T) {
	fake := newFakeMarketplace(PlatformEbay)
	fake.authenticated = false

	svc := NewSyncService(NewMarketplaceFactory(fake), nil)
	if _, err := svc.SyncInventory(context.Background(), 1); err == nil {
		t.Error("没有已授权平台时应报错")
	}
}
