package repository

import (
	"context"

	"gorm.io/gorm"

	"chumslister/internal/model"
)

// ==================== 接口定义 ====================

// BulkRepository 批量任务仓储接口
type BulkRepository interface {
	CreateTask(ctx context.Context, task *model.BulkTask) error
	GetTaskByKey(ctx context.Context, taskKey string) (*model.BulkTask, error)
	GetTaskWithRows(ctx context.Context, taskKey string) (*model.BulkTask, error)
	ListTasks(ctx context.Context, userID int64, page, pageSize int) ([]model.BulkTask, int64, error)
	UpdateTaskFields(ctx context.Context, taskID int64, fields map[string]interface{}) error

	CreateRowResult(ctx context.Context, row *model.BulkRowResult) error
}

// ==================== 仓储实现 ====================

type bulkRepo struct {
	db *gorm.DB
}

// NewBulkRepository 创建批量任务仓储
func NewBulkRepository(db *gorm.DB) BulkRepository {
	return &bulkRepo{db: db}
}

func (r *bulkRepo) CreateTask(ctx context.Context, task *model.BulkTask) error {
	return r.db.WithContext(ctx).Create(task).Error
}

func (r *bulkRepo) GetTaskByKey(ctx context.Context, taskKey string) (*model.BulkTask, error) {
	var task model.BulkTask
	if err := r.db.WithContext(ctx).Where("task_key = ?", taskKey).First(&task).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *bulkRepo) GetTaskWithRows(ctx context.Context, taskKey string) (*model.BulkTask, error) {
	var task model.BulkTask
	err := r.db.WithContext(ctx).
		Preload("Rows", func(db *gorm.DB) *gorm.DB {
			return db.Order("row_index ASC")
		}).
		Where("task_key = ?", taskKey).
		First(&task).Error
	if err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *bulkRepo) ListTasks(ctx context.Context, userID int64, page, pageSize int) ([]model.BulkTask, int64, error) {
	var tasks []model.BulkTask
	var total int64

	query := r.db.WithContext(ctx).Model(&model.BulkTask{}).Where("user_id = ?", userID)
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
	if err := query.Order("created_at DESC").Limit(pageSize).Offset(offset).Find(&tasks).Error; err != nil {
		return nil, 0, err
	}

	return tasks, total, nil
}

func (r *bulkRepo) UpdateTaskFields(ctx context.Context, taskID int64, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).
		Model(&model.BulkTask{}).
		Where("id = ?", taskID).
		Updates(fields).Error
}

func (r *bulkRepo) CreateRowResult(ctx context.Context, row *model.BulkRowResult) error {
	return r.db.WithContext(ctx).Create(row).Error
}
