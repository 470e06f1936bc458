package service

import (
	"context"
	"strings"
	"testing"
)

// ==================== CSV 解析 ====================

func TestParseCSV_Defaults(t *testing.T) {
	svc := &BulkService{}

	csvData := `model_number,title,price,quantity,condition
DCD771C2,DeWalt Drill,129.99,3,Used
TH6220U2000,Honeywell Thermostat,,,
`
	rows, err := svc.ParseCSV(strings.NewReader(csvData))
	if err != nil {
		t.Fatalf("ParseCSV 失败: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("行数 = %d, want 2", len(rows))
	}

	// 第一行显式给值
	if rows[0].RowIndex != 1 {
		t.Errorf("row_index = %d, want 1", rows[0].RowIndex)
	}
	if rows[0].PriceCents != 12999 {
		t.Errorf("price_cents = %d, want 12999", rows[0].PriceCents)
	}
	if rows[0].Quantity != 3 {
		t.Errorf("quantity = %d, want 3", rows[0].Quantity)
	}
	if rows[0].Condition != "Used" {
		t.Errorf("condition = %s, want Used", rows[0].Condition)
	}

	// 第二行吃默认值：数量 1、成色 New
	if rows[1].Quantity != 1 {
		t.Errorf("默认数量 = %d, want 1", rows[1].Quantity)
	}
	if rows[1].Condition != "New" {
		t.Errorf("默认成色 = %s, want New", rows[1].Condition)
	}
}

func TestParseCSV_ImageURLsSplitOnPipe(t *testing.T) {
	svc := &BulkService{}

	csvData := `model_number,image_urls
ABC123,https://a.example/1.jpg|https://a.example/2.jpg|
`
	rows, err := svc.ParseCSV(strings.NewReader(csvData))
	if err != nil {
		t.Fatalf("ParseCSV 失败: %v", err)
	}
	if len(rows[0].ImageURLs) != 2 {
		t.Fatalf("图片数 = %d, want 2", len(rows[0].ImageURLs))
	}
	if rows[0].ImageURLs[1] != "https://a.example/2.jpg" {
		t.Errorf("image_urls[1] = %s", rows[0].ImageURLs[1])
	}
}

func TestParseCSV_HeaderValidation(t *testing.T) {
	svc := &BulkService{}

	// 既无 model_number 也无 title
	if _, err := svc.ParseCSV(strings.NewReader("sku,price\nA1,9.99\n")); err == nil {
		t.Error("缺少 model_number/title 列应报错")
	}

	// 只有 title 列也合法
	if _, err := svc.ParseCSV(strings.NewReader("title\nSome Item\n")); err != nil {
		t.Errorf("只有 title 列应合法: %v", err)
	}

	// 表头大小写不敏感
	if _, err := svc.ParseCSV(strings.NewReader("Model_Number\nABC123\n")); err != nil {
		t.Errorf("表头应大小写不敏感: %v", err)
	}
}

func TestParseCSV_NoDataRows(t *testing.T) {
	svc := &BulkService{}
	if _, err := svc.ParseCSV(strings.NewReader("model_number,title\n")); err == nil {
		t.Error("没有数据行应报错")
	}
}

// ==================== 行处理 ====================

func TestProcessRow_NoModelNumberSkipsScrapeAndAI(t *testing.T) {
	fake := newFakeMarketplace(PlatformEbay)
	svc := &BulkService{
		publisher: NewPublishService(NewMarketplaceFactory(fake), nil),
	}

	// 没有型号：不抓取也不生成文案，描述保持行内原文
	// (scrapers/ai 留空即可证明这条路径不会触碰它们)
	row := &BulkRow{
		RowIndex:    1,
		Title:       "Plain Widget",
		Description: "原样描述",
		Quantity:    1,
		Condition:   "New",
	}

	result := svc.processRow(context.Background(), 1, row, []Platform{PlatformEbay})

	if !result.Success {
		t.Fatalf("刊登应成功: %s", result.ErrorMsg)
	}
	if result.Description != "原样描述" {
		t.Errorf("描述被改写: %q", result.Description)
	}
	if got := result.PlatformResults[string(PlatformEbay)]; got != "fake-1" {
		t.Errorf("平台结果 = %v, want fake-1", got)
	}
}

func TestProcessRow_EmptyRowFails(t *testing.T) {
	svc := &BulkService{}

	result := svc.processRow(context.Background(), 1, &BulkRow{RowIndex: 2}, nil)
	if result.Success {
		t.Error("型号与标题均空的行应失败")
	}
	if result.ErrorMsg == "" {
		t.Error("应给出错误原因")
	}
}
