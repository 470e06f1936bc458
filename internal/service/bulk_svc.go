package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"chumslister/internal/model"
	"chumslister/internal/repository"
)

// 批量行的缺省值
const (
	bulkDefaultCondition = "New"
	bulkDefaultQuantity  = 1
)

// BulkRow 一行 CSV 解析结果
type BulkRow struct {
	RowIndex    int
	SKU         string
	ModelNumber string
	Title       string
	Brand       string
	PriceCents  int64
	Quantity    int
	Condition   string
	ConditionID string
	CategoryID  string
	Description string
	ImageURLs   []string
}

// BulkProgress 任务进度事件
type BulkProgress struct {
	TaskKey  string `json:"task_key"`
	Done     int    `json:"done"`
	Total    int    `json:"total"`
	RowIndex int    `json:"row_index"`
	Success  bool   `json:"success"`
	Message  string `json:"message,omitempty"`
}

// ==================== 批量刊登服务 ====================

// BulkService 批量 CSV 刊登
// 行与行互相隔离：单行的抓取/AI/刊登错误只记在该行结果上，永不中断整批。
// 进度通过订阅通道推送，取消以任务键打标、行间检查
type BulkService struct {
	repo      repository.BulkRepository
	scrapers  *ScraperService
	ai        *AIService
	publisher *PublishService

	mu          sync.Mutex
	cancelled   map[string]bool
	subscribers map[string][]chan BulkProgress
}

// NewBulkService 创建批量刊登服务
func NewBulkService(
	repo repository.BulkRepository,
	scrapers *ScraperService,
	ai *AIService,
	publisher *PublishService,
) *BulkService {
	return &BulkService{
		repo:        repo,
		scrapers:    scrapers,
		ai:          ai,
		publisher:   publisher,
		cancelled:   make(map[string]bool),
		subscribers: make(map[string][]chan BulkProgress),
	}
}

// ==================== CSV 解析 ====================

// bulkColumns 认识的列名 (表头大小写不敏感，未知列忽略)
var bulkColumns = map[string]bool{
	"sku": true, "model_number": true, "title": true, "brand": true,
	"price": true, "quantity": true, "condition": true, "condition_id": true,
	"category_id": true, "description": true, "image_urls": true,
}

// ParseCSV 解析批量刊登 CSV
// 首行为表头；行号从 1 起 (不含表头)。格式级错误 (表头缺失) 直接报错，
// 行级缺字段留到执行阶段按行隔离处理
func (s *BulkService) ParseCSV(r io.Reader) ([]BulkRow, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("读取 CSV 表头失败: %v", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(name))
		if bulkColumns[name] {
			index[name] = i
		}
	}
	if _, ok := index["model_number"]; !ok {
		if _, ok := index["title"]; !ok {
			return nil, fmt.Errorf("CSV 表头必须包含 model_number 或 title 列")
		}
	}

	field := func(record []string, name string) string {
		i, ok := index[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	var rows []BulkRow
	for rowIndex := 1; ; rowIndex++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("第 %d 行解析失败: %v", rowIndex, err)
		}

		row := BulkRow{
			RowIndex:    rowIndex,
			SKU:         field(record, "sku"),
			ModelNumber: field(record, "model_number"),
			Title:       field(record, "title"),
			Brand:       field(record, "brand"),
			PriceCents:  parsePriceCents(field(record, "price")),
			Condition:   field(record, "condition"),
			ConditionID: field(record, "condition_id"),
			CategoryID:  field(record, "category_id"),
			Description: field(record, "description"),
		}

		if q, err := strconv.Atoi(field(record, "quantity")); err == nil && q > 0 {
			row.Quantity = q
		} else {
			row.Quantity = bulkDefaultQuantity
		}
		if row.Condition == "" {
			row.Condition = bulkDefaultCondition
		}
		if urls := field(record, "image_urls"); urls != "" {
			for _, u := range strings.Split(urls, "|") {
				if u = strings.TrimSpace(u); u != "" {
					row.ImageURLs = append(row.ImageURLs, u)
				}
			}
		}

		rows = append(rows, row)
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("CSV 没有数据行")
	}
	return rows, nil
}

// ==================== 任务执行 ====================

// StartFromCSV 解析 CSV、建任务并异步执行，返回任务键
func (s *BulkService) StartFromCSV(ctx context.Context, userID int64, r io.Reader, platforms []Platform) (string, error) {
	rows, err := s.ParseCSV(r)
	if err != nil {
		return "", err
	}
	if len(platforms) == 0 {
		return "", fmt.Errorf("未指定目标平台")
	}

	names := make([]string, len(platforms))
	for i, p := range platforms {
		names[i] = string(p)
	}

	task := &model.BulkTask{
		UserID:    userID,
		TaskKey:   uuid.New().String(),
		Status:    model.BulkStatusPending,
		TotalRows: len(rows),
		Platforms: datatypes.NewJSONSlice(names),
	}
	if err := s.repo.CreateTask(ctx, task); err != nil {
		return "", fmt.Errorf("创建批量任务失败: %v", err)
	}

	// 任务生命周期独立于请求，不挂在请求的 ctx 上
	go s.run(context.Background(), task, rows, platforms)

	return task.TaskKey, nil
}

// run 执行整批，逐行隔离
func (s *BulkService) run(ctx context.Context, task *model.BulkTask, rows []BulkRow, platforms []Platform) {
	s.updateTask(ctx, task.ID, map[string]interface{}{"status": model.BulkStatusRunning})

	done := 0
	for _, row := range rows {
		if s.isCancelled(task.TaskKey) {
			s.updateTask(ctx, task.ID, map[string]interface{}{
				"status":    model.BulkStatusCancelled,
				"done_rows": done,
			})
			s.clearCancel(task.TaskKey)
			log.Printf("[Bulk] 任务 %s 在第 %d 行后取消", task.TaskKey, done)
			return
		}

		result := s.processRow(ctx, task.UserID, &row, platforms)
		result.TaskID = task.ID
		if err := s.repo.CreateRowResult(ctx, result); err != nil {
			log.Printf("[Bulk] 任务 %s 第 %d 行结果落库失败: %v", task.TaskKey, row.RowIndex, err)
		}

		done++
		s.updateTask(ctx, task.ID, map[string]interface{}{"done_rows": done})
		s.notify(task.TaskKey, BulkProgress{
			TaskKey:  task.TaskKey,
			Done:     done,
			Total:    len(rows),
			RowIndex: row.RowIndex,
			Success:  result.Success,
			Message:  result.ErrorMsg,
		})
	}

	s.updateTask(ctx, task.ID, map[string]interface{}{
		"status":    model.BulkStatusCompleted,
		"done_rows": done,
	})
	log.Printf("[Bulk] 任务 %s 完成: %d 行", task.TaskKey, done)
}

// processRow 处理单行：抓取补全 -> 条件生成描述 -> 多平台刊登
// 本函数永不向上抛错，一切异常收敛到行结果
func (s *BulkService) processRow(ctx context.Context, userID int64, row *BulkRow, platforms []Platform) (result *model.BulkRowResult) {
	result = &model.BulkRowResult{
		RowIndex:        row.RowIndex,
		ModelNumber:     row.ModelNumber,
		Title:           row.Title,
		PlatformResults: datatypes.JSONMap{},
	}
	defer func() {
		if r := recover(); r != nil {
			result.Success = false
			result.ErrorMsg = fmt.Sprintf("内部错误: %v", r)
		}
	}()

	if row.ModelNumber == "" && row.Title == "" {
		result.ErrorMsg = "型号与标题均为空，无法刊登"
		return result
	}

	product := &ProductData{
		Title:           row.Title,
		Brand:           row.Brand,
		ModelNumber:     row.ModelNumber,
		SKU:             row.SKU,
		Description:     row.Description,
		Condition:       row.Condition,
		ConditionID:     row.ConditionID,
		CategoryID:      row.CategoryID,
		PriceCents:      row.PriceCents,
		Currency:        "USD",
		Quantity:        row.Quantity,
		Specifics:       map[string]string{},
		RemoteImageURLs: row.ImageURLs,
	}
	if row.SKU == "" {
		product.SKU = uuid.New().String()[:8]
	}

	// 抓取补全：只填 CSV 没给的字段
	if row.ModelNumber != "" {
		if data := s.scrapers.ScrapeByModelNumber(ctx, row.ModelNumber); !data.IsEmpty() {
			if product.Title == "" {
				product.Title = data.Title
			}
			if product.Brand == "" {
				product.Brand = data.Brand
			}
			if product.PriceCents == 0 {
				product.PriceCents = parsePriceCents(data.PriceText)
			}
			for name, value := range data.Specs {
				if _, exists := product.Specifics[name]; !exists {
					product.Specifics[name] = value
				}
			}
			if len(product.RemoteImageURLs) == 0 {
				product.RemoteImageURLs = data.ImageURLs
			}
			// 描述生成只在抓取拿到素材时做，空素材的 AI 文案没有价值
			if product.Description == "" {
				product.Description = s.ai.GenerateDescription(ctx, product.Title, product.Brand, product.ModelNumber, data.Features)
			}
		}
	}
	if product.Title == "" {
		result.ErrorMsg = fmt.Sprintf("型号 %s 抓取无结果且未提供标题", row.ModelNumber)
		return result
	}
	result.Title = product.Title
	result.Description = product.Description

	// 无图行必须显式放行，否则刊登侧会中止
	if len(product.RemoteImageURLs) == 0 {
		product.AllowNoImages = true
	}

	// 多平台刊登，平台间已由 PublishService 隔离
	published := s.publisher.PublishProduct(ctx, userID, product, platforms)

	anySuccess := false
	var errs []string
	for platform, res := range published {
		if res.Success {
			anySuccess = true
			result.PlatformResults[string(platform)] = res.ListingID
		} else {
			result.PlatformResults[string(platform)] = "error: " + res.ErrorMsg
			errs = append(errs, fmt.Sprintf("%s: %s", platform, res.ErrorMsg))
		}
	}

	result.Success = anySuccess
	if len(errs) > 0 {
		result.ErrorMsg = strings.Join(errs, "; ")
	}
	return result
}

// ==================== 取消与进度 ====================

// Cancel 标记任务取消，当前行跑完后生效
func (s *BulkService) Cancel(taskKey string) {
	s.mu.Lock()
	s.cancelled[taskKey] = true
	s.mu.Unlock()
}

func (s *BulkService) isCancelled(taskKey string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancelled[taskKey]
}

func (s *BulkService) clearCancel(taskKey string) {
	s.mu.Lock()
	delete(s.cancelled, taskKey)
	s.mu.Unlock()
}

// Subscribe 订阅任务进度
func (s *BulkService) Subscribe(taskKey string) chan BulkProgress {
	ch := make(chan BulkProgress, 16)
	s.mu.Lock()
	s.subscribers[taskKey] = append(s.subscribers[taskKey], ch)
	s.mu.Unlock()
	return ch
}

// Unsubscribe 退订进度
func (s *BulkService) Unsubscribe(taskKey string, ch chan BulkProgress) {
	s.mu.Lock()
	defer s.mu.Unlock()

	subs := s.subscribers[taskKey]
	for i, sub := range subs {
		if sub == ch {
			s.subscribers[taskKey] = append(subs[:i], subs[i+1:]...)
			close(ch)
			break
		}
	}
}

// notify 非阻塞推送进度
func (s *BulkService) notify(taskKey string, p BulkProgress) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, ch := range s.subscribers[taskKey] {
		select {
		case ch <- p:
		default:
		}
	}
}

// GetTask 按任务键取任务及行结果
func (s *BulkService) GetTask(ctx context.Context, userID int64, taskKey string) (*model.BulkTask, error) {
	task, err := s.repo.GetTaskWithRows(ctx, taskKey)
	if err != nil {
		return nil, err
	}
	if task.UserID != userID {
		return nil, fmt.Errorf("任务 %s 不属于当前用户", taskKey)
	}
	return task, nil
}

// ListTasks 分页列出用户的批量任务
func (s *BulkService) ListTasks(ctx context.Context, userID int64, page, pageSize int) ([]model.BulkTask, int64, error) {
	return s.repo.ListTasks(ctx, userID, page, pageSize)
}

func (s *BulkService) updateTask(ctx context.Context, taskID int64, fields map[string]interface{}) {
	if err := s.repo.UpdateTaskFields(ctx, taskID, fields); err != nil {
		log.Printf("[Bulk] 更新任务 %d 失败: %v", taskID, err)
	}
}
