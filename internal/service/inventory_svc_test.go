package service

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"chumslister/internal/model"
	"chumslister/internal/repository"
	"chumslister/pkg/database"
)

// ==================== 测试辅助 ====================

func setupInventoryService(t *testing.T) *InventoryService {
	db, err := database.OpenTestDB(&model.InventoryItem{})
	if err != nil {
		t.Fatalf("打开测试数据库失败: %v", err)
	}
	return NewInventoryService(repository.NewInventoryRepository(db))
}

// ==================== 单元测试 ====================

func TestInventoryService_CreateGeneratesSKU(t *testing.T) {
	svc := setupInventoryService(t)
	ctx := context.Background()

	item := &model.InventoryItem{Title: "DeWalt Drill", QuantityOnHand: 2}
	if err := svc.Create(ctx, 1, item); err != nil {
		t.Fatalf("创建失败: %v", err)
	}

	if !strings.HasPrefix(item.SKU, "CL-") {
		t.Errorf("自动生成的 SKU 应带前缀: %s", item.SKU)
	}
	if len(item.SKU) != len("CL-")+8 {
		t.Errorf("SKU 长度异常: %s", item.SKU)
	}
}

func TestInventoryService_CreateRejectsDuplicateSKU(t *testing.T) {
	svc := setupInventoryService(t)
	ctx := context.Background()

	if err := svc.Create(ctx, 1, &model.InventoryItem{SKU: "CL-DUP", Title: "A"}); err != nil {
		t.Fatalf("首次创建失败: %v", err)
	}
	if err := svc.Create(ctx, 1, &model.InventoryItem{SKU: "CL-DUP", Title: "B"}); err == nil {
		t.Error("重复 SKU 应报错")
	}
}

func TestInventoryService_UpdateRejectsSKUChange(t *testing.T) {
	svc := setupInventoryService(t)
	ctx := context.Background()

	item := &model.InventoryItem{SKU: "CL-KEEP", Title: "Original"}
	if err := svc.Create(ctx, 1, item); err != nil {
		t.Fatalf("创建失败: %v", err)
	}

	item.SKU = "CL-CHANGED"
	if err := svc.Update(ctx, 1, item); err == nil {
		t.Error("修改 SKU 应报错")
	}
}

func TestInventoryService_OwnershipCheck(t *testing.T) {
	svc := setupInventoryService(t)
	ctx := context.Background()

	item := &model.InventoryItem{SKU: "CL-OWNED", Title: "Mine"}
	if err := svc.Create(ctx, 1, item); err != nil {
		t.Fatalf("创建失败: %v", err)
	}

	// 别的用户取不到
	if _, err := svc.Get(ctx, 2, item.ID); err == nil {
		t.Error("跨用户访问应报错")
	}
	if err := svc.Delete(ctx, 2, item.ID); err == nil {
		t.Error("跨用户删除应报错")
	}
}

func TestInventoryService_RecordSale(t *testing.T) {
	svc := setupInventoryService(t)
	ctx := context.Background()

	item := &model.InventoryItem{SKU: "CL-SALE", Title: "Drill", QuantityOnHand: 3}
	if err := svc.Create(ctx, 1, item); err != nil {
		t.Fatalf("创建失败: %v", err)
	}

	soldAt := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	if err := svc.RecordSale(ctx, 1, "CL-SALE", 2, soldAt); err != nil {
		t.Fatalf("记录售出失败: %v", err)
	}

	updated, err := svc.Get(ctx, 1, item.ID)
	if err != nil {
		t.Fatalf("读回失败: %v", err)
	}
	if updated.QuantityOnHand != 1 {
		t.Errorf("在库数 = %d, want 1", updated.QuantityOnHand)
	}
	if updated.QuantitySold != 2 {
		t.Errorf("售出数 = %d, want 2", updated.QuantitySold)
	}
	if len(updated.SoldDates) != 1 || updated.SoldDates[0] != "2026-08-30T12:00:00Z" {
		t.Errorf("售出时间 = %v", updated.SoldDates)
	}

	// sold 标签追加且幂等
	hasSold := false
	for _, tag := range updated.StatusTags {
		if tag == "sold" {
			hasSold = true
		}
	}
	if !hasSold {
		t.Error("应追加 sold 标签")
	}
}

func TestInventoryService_RecordSaleUnknownSKU(t *testing.T) {
	svc := setupInventoryService(t)

	// 平台订单的 SKU 不在本地库存：只记日志，不报错
	if err := svc.RecordSale(context.Background(), 1, "NOT-THERE", 1, time.Now()); err != nil {
		t.Errorf("未知 SKU 不应报错: %v", err)
	}
}

// ==================== CSV 导入导出 ====================

func TestInventoryService_ImportCSV(t *testing.T) {
	svc := setupInventoryService(t)
	ctx := context.Background()

	csvData := `sku,title,quantity_on_hand,price,status_tags
CL-IMP1,DeWalt Drill,3,129.99,listed|ebay
CL-IMP2,Honeywell Thermostat,1,79.99,
`
	report, err := svc.ImportCSV(ctx, 1, strings.NewReader(csvData))
	if err != nil {
		t.Fatalf("导入失败: %v", err)
	}
	if report.Total != 2 || report.Imported != 2 {
		t.Errorf("total/imported = %d/%d, want 2/2", report.Total, report.Imported)
	}

	items, _, err := svc.List(ctx, repository.InventoryFilter{UserID: 1, Page: 1, PageSize: 10})
	if err != nil {
		t.Fatalf("查询失败: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("条目数 = %d, want 2", len(items))
	}
}

func TestInventoryService_ImportCSVRequiresSKUColumn(t *testing.T) {
	svc := setupInventoryService(t)
	if _, err := svc.ImportCSV(context.Background(), 1, strings.NewReader("title\nDrill\n")); err == nil {
		t.Error("缺少 sku 列应报错")
	}
}

func TestInventoryService_ExportCSV(t *testing.T) {
	svc := setupInventoryService(t)
	ctx := context.Background()

	item := &model.InventoryItem{
		SKU: "CL-EXP1", Title: "Drill", QuantityOnHand: 2, PriceCents: 12999,
	}
	item.AppendStatusTag("listed")
	item.AppendStatusTag("ebay")
	if err := svc.Create(ctx, 1, item); err != nil {
		t.Fatalf("创建失败: %v", err)
	}

	var buf bytes.Buffer
	if err := svc.ExportCSV(ctx, 1, &buf); err != nil {
		t.Fatalf("导出失败: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("行数 = %d, want 2 (表头+数据)", len(lines))
	}
	if !strings.HasPrefix(lines[0], "sku,title,brand,model_number") {
		t.Errorf("表头列序不对: %s", lines[0])
	}
	if !strings.Contains(lines[1], "129.99") {
		t.Errorf("金额应按元格式导出: %s", lines[1])
	}
	if !strings.Contains(lines[1], "listed|ebay") {
		t.Errorf("标签应竖线拼接: %s", lines[1])
	}
}
