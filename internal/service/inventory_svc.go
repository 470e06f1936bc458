package service

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"chumslister/internal/model"
	"chumslister/internal/repository"
)

// inventoryCSVHeader 库存导入/导出的固定列序
var inventoryCSVHeader = []string{
	"sku", "title", "brand", "model_number", "condition", "category",
	"location", "quantity_on_hand", "quantity_sold", "cost", "price",
	"status_tags", "description",
}

// ImportReport CSV 导入执行报告
type ImportReport struct {
	Total    int      `json:"total"`
	Imported int      `json:"imported"`
	Failures []string `json:"failures"`
}

// ==================== 库存服务 ====================

// InventoryService 本地库存管理
// SKU 是库存条目的主身份：必须唯一，缺省时自动生成；
// 状态标签与售出日期只追加不覆盖
type InventoryService struct {
	repo repository.InventoryRepository
}

// NewInventoryService 创建库存服务
func NewInventoryService(repo repository.InventoryRepository) *InventoryService {
	return &InventoryService{repo: repo}
}

// Create 新建库存条目
// SKU 为空时自动生成；与现有条目冲突直接报错
func (s *InventoryService) Create(ctx context.Context, userID int64, item *model.InventoryItem) error {
	item.UserID = userID
	item.SKU = strings.TrimSpace(item.SKU)
	if item.SKU == "" {
		item.SKU = generateSKU()
	}

	if _, err := s.repo.GetBySKU(ctx, userID, item.SKU); err == nil {
		return fmt.Errorf("SKU %s 已存在", item.SKU)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	return s.repo.Create(ctx, item)
}

// Get 按 ID 取条目 (带归属校验)
func (s *InventoryService) Get(ctx context.Context, userID, id int64) (*model.InventoryItem, error) {
	item, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item.UserID != userID {
		return nil, fmt.Errorf("库存条目 %d 不属于当前用户", id)
	}
	return item, nil
}

// List 分页查询
func (s *InventoryService) List(ctx context.Context, filter repository.InventoryFilter) ([]model.InventoryItem, int64, error) {
	return s.repo.List(ctx, filter)
}

// Update 更新条目 (SKU 不允许改)
func (s *InventoryService) Update(ctx context.Context, userID int64, item *model.InventoryItem) error {
	existing, err := s.Get(ctx, userID, item.ID)
	if err != nil {
		return err
	}
	if item.SKU != "" && item.SKU != existing.SKU {
		return fmt.Errorf("SKU 不允许修改")
	}
	item.UserID = userID
	item.SKU = existing.SKU
	return s.repo.Update(ctx, item)
}

// Delete 删除条目
func (s *InventoryService) Delete(ctx context.Context, userID, id int64) error {
	if _, err := s.Get(ctx, userID, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// AddStatusTag 给条目追加状态标签 (幂等)
func (s *InventoryService) AddStatusTag(ctx context.Context, userID, id int64, tag string) error {
	item, err := s.Get(ctx, userID, id)
	if err != nil {
		return err
	}
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return fmt.Errorf("标签不能为空")
	}
	item.AppendStatusTag(tag)
	return s.repo.Update(ctx, item)
}

// RecordSale 记录一次售出：追加售出时间、累加售出数、扣减在库数
// 按 SKU 定位；库存里没有的 SKU 只记日志不报错 (平台订单可能不在本地库存)
func (s *InventoryService) RecordSale(ctx context.Context, userID int64, sku string, qty int, at time.Time) error {
	if qty <= 0 {
		qty = 1
	}
	item, err := s.repo.GetBySKU(ctx, userID, sku)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("[Inventory] SKU %s 不在本地库存，售出未记录", sku)
			return nil
		}
		return err
	}

	item.AppendSoldDate(at, qty)
	item.AppendStatusTag("sold")
	return s.repo.Update(ctx, item)
}

// ==================== CSV 导入导出 ====================

// ImportCSV 批量导入库存，按 SKU upsert
// 行与行互相隔离：坏行记入报告，不中断整批
func (s *InventoryService) ImportCSV(ctx context.Context, userID int64, r io.Reader) (*ImportReport, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("读取 CSV 表头失败: %v", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.ToLower(strings.TrimSpace(name))] = i
	}
	if _, ok := index["sku"]; !ok {
		return nil, fmt.Errorf("CSV 表头必须包含 sku 列")
	}

	field := func(record []string, name string) string {
		i, ok := index[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	report := &ImportReport{}
	for rowIndex := 1; ; rowIndex++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			report.Failures = append(report.Failures, fmt.Sprintf("第 %d 行: %v", rowIndex, err))
			continue
		}
		report.Total++

		item := &model.InventoryItem{
			UserID:      userID,
			SKU:         field(record, "sku"),
			Title:       field(record, "title"),
			Brand:       field(record, "brand"),
			ModelNumber: field(record, "model_number"),
			Condition:   field(record, "condition"),
			Category:    field(record, "category"),
			Location:    field(record, "location"),
			Description: field(record, "description"),
			CostCents:   parsePriceCents(field(record, "cost")),
			PriceCents:  parsePriceCents(field(record, "price")),
		}
		if item.SKU == "" {
			item.SKU = generateSKU()
		}
		if q, err := strconv.Atoi(field(record, "quantity_on_hand")); err == nil && q >= 0 {
			item.QuantityOnHand = q
		}
		if q, err := strconv.Atoi(field(record, "quantity_sold")); err == nil && q >= 0 {
			item.QuantitySold = q
		}
		for _, tag := range strings.Split(field(record, "status_tags"), "|") {
			if tag = strings.TrimSpace(tag); tag != "" {
				item.AppendStatusTag(tag)
			}
		}

		if err := s.repo.Upsert(ctx, item); err != nil {
			report.Failures = append(report.Failures, fmt.Sprintf("第 %d 行 (SKU %s): %v", rowIndex, item.SKU, err))
			continue
		}
		report.Imported++
	}

	return report, nil
}

// ExportCSV 导出全部库存到 CSV (列序固定)
func (s *InventoryService) ExportCSV(ctx context.Context, userID int64, w io.Writer) error {
	items, err := s.repo.ListAll(ctx, userID)
	if err != nil {
		return err
	}

	writer := csv.NewWriter(w)
	if err := writer.Write(inventoryCSVHeader); err != nil {
		return err
	}

	for i := range items {
		it := &items[i]
		record := []string{
			it.SKU,
			it.Title,
			it.Brand,
			it.ModelNumber,
			it.Condition,
			it.Category,
			it.Location,
			strconv.Itoa(it.QuantityOnHand),
			strconv.Itoa(it.QuantitySold),
			formatCents(it.CostCents),
			formatCents(it.PriceCents),
			strings.Join(it.StatusTags, "|"),
			it.Description,
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

// generateSKU 自动生成 SKU：uuid 前 8 位加前缀
func generateSKU() string {
	return "CL-" + strings.ToUpper(uuid.New().String()[:8])
}
