package service

import (
	"testing"

	"gorm.io/datatypes"

	"chumslister/internal/model"
)

// ==================== 草稿转换 ====================

func TestDraftToProduct_FlattensSpecifics(t *testing.T) {
	draft := &model.ListingDraft{
		Title:             "Honeywell Thermostat",
		Brand:             "Honeywell",
		MPN:               "TH6220U2000",
		SKU:               "CL-0001",
		PrimaryCategoryID: "115970",
		StartPriceCents:   7999,
		Quantity:          2,
		Specifics: datatypes.NewJSONType(model.ItemSpecifics{
			"Features": {"WiFi", "Programmable"},
			"Color":    {"White"},
		}),
		RemoteImageURLs: datatypes.NewJSONSlice([]string{"https://img.example/1.jpg"}),
	}

	p := DraftToProduct(draft)

	if p.Title != "Honeywell Thermostat" || p.ModelNumber != "TH6220U2000" {
		t.Errorf("身份字段映射错误: %+v", p)
	}
	if p.PriceCents != 7999 || p.Quantity != 2 {
		t.Errorf("价格/数量映射错误: %d / %d", p.PriceCents, p.Quantity)
	}

	// 多值属性压平为单串，属性名集合完整保留
	if len(p.Specifics) != 2 {
		t.Fatalf("属性数 = %d, want 2", len(p.Specifics))
	}
	if p.Specifics["Features"] != "WiFi, Programmable" {
		t.Errorf("Features = %q, want %q", p.Specifics["Features"], "WiFi, Programmable")
	}
	if p.Specifics["Color"] != "White" {
		t.Errorf("Color = %q, want White", p.Specifics["Color"])
	}

	if len(p.RemoteImageURLs) != 1 {
		t.Errorf("图片数 = %d, want 1", len(p.RemoteImageURLs))
	}
}

func TestProductToDraft_KeepsJoinedValueWhole(t *testing.T) {
	p := &ProductData{
		Title:     "Drill",
		Specifics: map[string]string{"Features": "WiFi, Programmable"},
	}

	draft := ProductToDraft(p)
	specs := draft.Specifics.Data()

	// 压平串不拆回多值，整体作为单值
	values := specs["Features"]
	if len(values) != 1 {
		t.Fatalf("值数 = %d, want 1", len(values))
	}
	if values[0] != "WiFi, Programmable" {
		t.Errorf("value = %q", values[0])
	}
}

// ==================== 价格解析 ====================

func TestParsePriceCents(t *testing.T) {
	tests := []struct {
		text string
		want int64
	}{
		{"129.99", 12999},
		{"$1,299.99", 129999},
		{"50", 5000},
		{"1.5", 150},
		{"0.99", 99},
		{"", 0},
		{"N/A", 0},
		{"12.34.56", 0},
	}

	for _, tt := range tests {
		if got := parsePriceCents(tt.text); got != tt.want {
			t.Errorf("parsePriceCents(%q) = %d, want %d", tt.text, got, tt.want)
		}
	}
}

func TestFormatCents(t *testing.T) {
	tests := []struct {
		cents int64
		want  string
	}{
		{12999, "129.99"},
		{100, "1.00"},
		{5, "0.05"},
		{0, "0.00"},
	}

	for _, tt := range tests {
		if got := formatCents(tt.cents); got != tt.want {
			t.Errorf("formatCents(%d) = %q, want %q", tt.cents, got, tt.want)
		}
	}
}
