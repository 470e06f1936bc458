package repository

import (
	"context"

	"gorm.io/gorm"

	"chumslister/internal/model"
)

// ==================== 接口定义 ====================

// DraftRepository 刊登草稿仓储接口
type DraftRepository interface {
	Create(ctx context.Context, draft *model.ListingDraft) error
	GetByID(ctx context.Context, id int64) (*model.ListingDraft, error)
	ListByUser(ctx context.Context, userID int64, status string, page, pageSize int) ([]model.ListingDraft, int64, error)
	Update(ctx context.Context, draft *model.ListingDraft) error
	UpdateStatus(ctx context.Context, id int64, status string) error
	Delete(ctx context.Context, id int64) error
}

// ==================== 仓储实现 ====================

type draftRepo struct {
	db *gorm.DB
}

// NewDraftRepository 创建草稿仓储
func NewDraftRepository(db *gorm.DB) DraftRepository {
	return &draftRepo{db: db}
}

func (r *draftRepo) Create(ctx context.Context, draft *model.ListingDraft) error {
	return r.db.WithContext(ctx).Create(draft).Error
}

func (r *draftRepo) GetByID(ctx context.Context, id int64) (*model.ListingDraft, error) {
	var draft model.ListingDraft
	if err := r.db.WithContext(ctx).First(&draft, id).Error; err != nil {
		return nil, err
	}
	return &draft, nil
}

func (r *draftRepo) ListByUser(ctx context.Context, userID int64, status string, page, pageSize int) ([]model.ListingDraft, int64, error) {
	var drafts []model.ListingDraft
	var total int64

	query := r.db.WithContext(ctx).Model(&model.ListingDraft{}).Where("user_id = ?", userID)
	if status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}

	offset := (page - 1) * pageSize
	if err := query.Order("updated_at DESC").Limit(pageSize).Offset(offset).Find(&drafts).Error; err != nil {
		return nil, 0, err
	}

	return drafts, total, nil
}

func (r *draftRepo) Update(ctx context.Context, draft *model.ListingDraft) error {
	return r.db.WithContext(ctx).Save(draft).Error
}

func (r *draftRepo) UpdateStatus(ctx context.Context, id int64, status string) error {
	return r.db.WithContext(ctx).
		Model(&model.ListingDraft{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *draftRepo) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&model.ListingDraft{}, id).Error
}
