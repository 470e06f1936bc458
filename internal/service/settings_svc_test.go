package service

import (
	"context"
	"testing"

	"gorm.io/datatypes"

	"chumslister/internal/model"
	"chumslister/internal/repository"
	"chumslister/pkg/database"
)

func setupSettingsService(t *testing.T) *SettingsService {
	db, err := database.OpenTestDB(&model.UserSettings{})
	if err != nil {
		t.Fatalf("打开测试数据库失败: %v", err)
	}
	return NewSettingsService(repository.NewSettingsRepository(db))
}

// ==================== 单元测试 ====================

func TestSettingsService_GetCreatesOnFirstRead(t *testing.T) {
	svc := setupSettingsService(t)

	settings, err := svc.Get(context.Background(), 1)
	if err != nil {
		t.Fatalf("首次读取失败: %v", err)
	}
	if settings.UserID != 1 {
		t.Errorf("user_id = %d, want 1", settings.UserID)
	}
}

func TestSettingsService_SaveInvalidatesCache(t *testing.T) {
	svc := setupSettingsService(t)
	ctx := context.Background()

	settings, err := svc.Get(ctx, 1)
	if err != nil {
		t.Fatalf("读取失败: %v", err)
	}

	settings.ListingTemplate = datatypes.NewJSONType(model.ListingTemplateSettings{
		ShippingPolicyID: "SP-100",
	})
	if err := svc.Save(ctx, settings); err != nil {
		t.Fatalf("保存失败: %v", err)
	}

	// 保存后的读取要命中落库值而非旧缓存
	reread, err := svc.Get(ctx, 1)
	if err != nil {
		t.Fatalf("读回失败: %v", err)
	}
	if reread.ListingTemplate.Data().ShippingPolicyID != "SP-100" {
		t.Errorf("shipping_policy_id = %q, want SP-100", reread.ListingTemplate.Data().ShippingPolicyID)
	}
}

func TestSettingsService_SaveNotifiesSubscribers(t *testing.T) {
	svc := setupSettingsService(t)
	ctx := context.Background()

	settings, err := svc.Get(ctx, 1)
	if err != nil {
		t.Fatalf("读取失败: %v", err)
	}

	ch := svc.Subscribe(1)
	defer svc.Unsubscribe(1, ch)

	if err := svc.Save(ctx, settings); err != nil {
		t.Fatalf("保存失败: %v", err)
	}

	select {
	case <-ch:
	default:
		t.Error("保存后订阅者应收到通知")
	}
}

func TestSettingsService_TemplateFallsBackToZero(t *testing.T) {
	svc := setupSettingsService(t)

	// 未保存过任何模板时返回零值，刊登侧继续回落全局配置
	tmpl := svc.Template(context.Background(), 42)
	if tmpl.ShippingPolicyID != "" || tmpl.DefaultCategoryID != "" {
		t.Errorf("未配置用户应返回零值模板: %+v", tmpl)
	}
}
