package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"chumslister/internal/model"
)

// ==================== 接口定义 ====================

// SaleRepository 销售流水仓储接口
type SaleRepository interface {
	// UpsertByOrder 以 (platform, order_id) 去重写入；轮询任务会反复看到同一批订单
	UpsertByOrder(ctx context.Context, rec *model.SaleRecord) error
	ListRecent(ctx context.Context, userID int64, since time.Time) ([]model.SaleRecord, error)
	GetByOrder(ctx context.Context, platform, orderID string) (*model.SaleRecord, error)
}

// ==================== 仓储实现 ====================

type saleRepo struct {
	db *gorm.DB
}

// NewSaleRepository 创建销售流水仓储
func NewSaleRepository(db *gorm.DB) SaleRepository {
	return &saleRepo{db: db}
}

func (r *saleRepo) UpsertByOrder(ctx context.Context, rec *model.SaleRecord) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "platform"}, {Name: "order_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"status", "quantity", "total_cents", "updated_at",
		}),
	}).Create(rec).Error
}

func (r *saleRepo) ListRecent(ctx context.Context, userID int64, since time.Time) ([]model.SaleRecord, error) {
	var recs []model.SaleRecord
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND sold_at >= ?", userID, since).
		Order("sold_at DESC").
		Find(&recs).Error
	return recs, err
}

func (r *saleRepo) GetByOrder(ctx context.Context, platform, orderID string) (*model.SaleRecord, error) {
	var rec model.SaleRecord
	err := r.db.WithContext(ctx).
		Where("platform = ? AND order_id = ?", platform, orderID).
		First(&rec).Error
	if err != nil {
		return nil, err
	}
	return &rec, nil
}
