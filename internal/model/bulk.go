package model

import "gorm.io/datatypes"

// 批量任务状态
const (
	BulkStatusPending   = "pending"
	BulkStatusRunning   = "running"
	BulkStatusCompleted = "completed"
	BulkStatusCancelled = "cancelled"
	BulkStatusFailed    = "failed"
)

// BulkTask 批量刊登任务
// 一次 CSV 导入对应一条任务，行结果各自独立
type BulkTask struct {
	BaseModel
	UserID    int64  `gorm:"index;not null" json:"user_id"`
	TaskKey   string `gorm:"size:40;uniqueIndex" json:"task_key"` // uuid，对外引用
	Status    string `gorm:"size:20;default:pending;index" json:"status"`
	TotalRows int    `gorm:"default:0" json:"total_rows"`
	DoneRows  int    `gorm:"default:0" json:"done_rows"`
	ErrorMsg  string `gorm:"type:text" json:"error_msg"`

	// 请求的目标平台
	Platforms datatypes.JSONSlice[string] `json:"platforms"`

	Rows []BulkRowResult `gorm:"foreignKey:TaskID" json:"rows,omitempty"`
}

func (BulkTask) TableName() string {
	return "bulk_tasks"
}

// BulkRowResult 单行处理结果
type BulkRowResult struct {
	BaseModel
	TaskID   int64 `gorm:"index;not null" json:"task_id"`
	RowIndex int   `gorm:"not null" json:"row_index"` // CSV 行号 (1 起，不含表头)

	ModelNumber string `gorm:"size:128" json:"model_number"`
	Title       string `gorm:"size:255" json:"title"`
	Description string `gorm:"type:text" json:"description"`

	Success  bool   `gorm:"default:false" json:"success"`
	ErrorMsg string `gorm:"type:text" json:"error_msg"`

	// 平台 -> 刊登 ID / 错误，JSON 存储
	PlatformResults datatypes.JSONMap `json:"platform_results"`
}

func (BulkRowResult) TableName() string {
	return "bulk_row_results"
}
