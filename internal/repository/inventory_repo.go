package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"chumslister/internal/model"
)

// ==================== 接口定义 ====================

// InventoryFilter 库存查询过滤条件
type InventoryFilter struct {
	UserID   int64
	Keyword  string // 标题 / SKU / 型号模糊搜索
	Tag      string // 状态标签精确命中
	Page     int
	PageSize int
}

// InventoryRepository 库存仓储接口
type InventoryRepository interface {
	Create(ctx context.Context, item *model.InventoryItem) error
	Upsert(ctx context.Context, item *model.InventoryItem) error
	GetByID(ctx context.Context, id int64) (*model.InventoryItem, error)
	GetBySKU(ctx context.Context, userID int64, sku string) (*model.InventoryItem, error)
	List(ctx context.Context, filter InventoryFilter) ([]model.InventoryItem, int64, error)
	ListAll(ctx context.Context, userID int64) ([]model.InventoryItem, error)
	Update(ctx context.Context, item *model.InventoryItem) error
	Delete(ctx context.Context, id int64) error

	// 同步相关
	SumQuantityByModelNumber(ctx context.Context, userID int64, modelNumber string) (int, error)
}

// ==================== 仓储实现 ====================

type inventoryRepo struct {
	db *gorm.DB
}

// NewInventoryRepository 创建库存仓储
func NewInventoryRepository(db *gorm.DB) InventoryRepository {
	return &inventoryRepo{db: db}
}

func (r *inventoryRepo) Create(ctx context.Context, item *model.InventoryItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

// Upsert SKU 冲突时更新业务字段 (CSV 导入反复执行必须幂等)
func (r *inventoryRepo) Upsert(ctx context.Context, item *model.InventoryItem) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "sku"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"title", "brand", "model_number", "description", "condition",
			"category", "location", "weight_lbs",
			"quantity_on_hand", "cost_cents", "price_cents", "updated_at",
		}),
	}).Create(item).Error
}

func (r *inventoryRepo) GetByID(ctx context.Context, id int64) (*model.InventoryItem, error) {
	var item model.InventoryItem
	if err := r.db.WithContext(ctx).First(&item, id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *inventoryRepo) GetBySKU(ctx context.Context, userID int64, sku string) (*model.InventoryItem, error) {
	var item model.InventoryItem
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND sku = ?", userID, sku).
		First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *inventoryRepo) List(ctx context.Context, filter InventoryFilter) ([]model.InventoryItem, int64, error) {
	var items []model.InventoryItem
	var total int64

	query := r.db.WithContext(ctx).Model(&model.InventoryItem{}).
		Where("user_id = ?", filter.UserID)

	if filter.Keyword != "" {
		kw := "%" + filter.Keyword + "%"
		query = query.Where("title LIKE ? OR sku LIKE ? OR model_number LIKE ?", kw, kw, kw)
	}
	if filter.Tag != "" {
		// JSON 列表里的精确标签命中
		query = query.Where("status_tags LIKE ?", "%\""+filter.Tag+"\"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	offset := (filter.Page - 1) * filter.PageSize
	if err := query.Order("updated_at DESC").Limit(filter.PageSize).Offset(offset).Find(&items).Error; err != nil {
		return nil, 0, err
	}

	return items, total, nil
}

func (r *inventoryRepo) ListAll(ctx context.Context, userID int64) ([]model.InventoryItem, error) {
	var items []model.InventoryItem
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("sku ASC").
		Find(&items).Error
	return items, err
}

func (r *inventoryRepo) Update(ctx context.Context, item *model.InventoryItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

func (r *inventoryRepo) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&model.InventoryItem{}, id).Error
}

// SumQuantityByModelNumber 按型号汇总在库数量
// 库存同步的 "权威数量" 策略会用到；语义未经原始业务验证，默认策略不走这里
func (r *inventoryRepo) SumQuantityByModelNumber(ctx context.Context, userID int64, modelNumber string) (int, error) {
	var sum int64
	err := r.db.WithContext(ctx).
		Model(&model.InventoryItem{}).
		Where("user_id = ? AND model_number = ?", userID, modelNumber).
		Select("COALESCE(SUM(quantity_on_hand), 0)").
		Scan(&sum).Error
	return int(sum), err
}
