package service

import (
	"context"
	"fmt"
	"log"
	"strings"

	"gorm.io/datatypes"

	"chumslister/internal/model"
	"chumslister/internal/repository"
)

// ==================== 草稿服务 ====================

// DraftService 刊登草稿的向导式编辑
// 草稿逐步填充，终态只有 published / discarded 两种；
// 终态草稿拒绝一切修改
type DraftService struct {
	repo     repository.DraftRepository
	scrapers *ScraperService
	ai       *AIService
}

// NewDraftService 创建草稿服务
func NewDraftService(repo repository.DraftRepository, scrapers *ScraperService, ai *AIService) *DraftService {
	return &DraftService{repo: repo, scrapers: scrapers, ai: ai}
}

// Create 新建草稿
func (s *DraftService) Create(ctx context.Context, userID int64, draft *model.ListingDraft) error {
	draft.UserID = userID
	draft.Status = model.DraftStatusEditing
	if draft.Quantity <= 0 {
		draft.Quantity = 1
	}
	return s.repo.Create(ctx, draft)
}

// Get 取草稿 (带归属校验)
func (s *DraftService) Get(ctx context.Context, userID, id int64) (*model.ListingDraft, error) {
	draft, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if draft.UserID != userID {
		return nil, fmt.Errorf("草稿 %d 不属于当前用户", id)
	}
	return draft, nil
}

// List 分页列出草稿
func (s *DraftService) List(ctx context.Context, userID int64, status string, page, pageSize int) ([]model.ListingDraft, int64, error) {
	return s.repo.ListByUser(ctx, userID, status, page, pageSize)
}

// Update 保存草稿 (仅编辑态允许)
func (s *DraftService) Update(ctx context.Context, userID int64, draft *model.ListingDraft) error {
	existing, err := s.Get(ctx, userID, draft.ID)
	if err != nil {
		return err
	}
	if existing.Status != model.DraftStatusEditing {
		return fmt.Errorf("草稿已是终态 (%s)，不能修改", existing.Status)
	}
	draft.UserID = userID
	draft.Status = model.DraftStatusEditing
	return s.repo.Update(ctx, draft)
}

// Discard 放弃草稿 (终态)
func (s *DraftService) Discard(ctx context.Context, userID, id int64) error {
	draft, err := s.Get(ctx, userID, id)
	if err != nil {
		return err
	}
	if draft.Status != model.DraftStatusEditing {
		return fmt.Errorf("草稿已是终态 (%s)", draft.Status)
	}
	return s.repo.UpdateStatus(ctx, id, model.DraftStatusDiscarded)
}

// ==================== 填充辅助 ====================

// SeedFromModelNumber 按型号抓取零售站数据填充草稿空字段
// 抓取数据永远只补空，不覆盖用户已填的内容
func (s *DraftService) SeedFromModelNumber(ctx context.Context, userID, id int64, modelNumber string) (*model.ListingDraft, error) {
	draft, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if draft.Status != model.DraftStatusEditing {
		return nil, fmt.Errorf("草稿已是终态 (%s)", draft.Status)
	}

	data := s.scrapers.ScrapeByModelNumber(ctx, modelNumber)
	if data.IsEmpty() {
		return nil, fmt.Errorf("型号 %s 没有抓到任何数据", modelNumber)
	}

	if draft.MPN == "" {
		draft.MPN = modelNumber
	}
	if draft.Title == "" {
		draft.Title = data.Title
	}
	if draft.Brand == "" {
		draft.Brand = data.Brand
	}
	if draft.Description == "" {
		draft.Description = data.Description
	}
	if draft.StartPriceCents == 0 {
		draft.StartPriceCents = parsePriceCents(data.PriceText)
	}

	specs := draft.Specifics.Data()
	if specs == nil {
		specs = model.ItemSpecifics{}
	}
	for name, value := range data.Specs {
		if _, exists := specs[name]; !exists {
			specs[name] = []string{value}
		}
	}
	draft.Specifics = datatypes.NewJSONType(specs)

	if len(draft.RemoteImageURLs) == 0 && len(data.ImageURLs) > 0 {
		draft.RemoteImageURLs = datatypes.NewJSONSlice(data.ImageURLs)
	}

	if err := s.repo.Update(ctx, draft); err != nil {
		return nil, err
	}
	log.Printf("[Draft] 草稿 %d 用型号 %s 的抓取结果补全 (%s)", draft.ID, modelNumber, data.Source)
	return draft, nil
}

// GenerateDescription 用 AI 为草稿生成描述
// 覆盖现有描述由调用方决定 (overwrite=false 且已有描述时原样返回)
func (s *DraftService) GenerateDescription(ctx context.Context, userID, id int64, overwrite bool) (*model.ListingDraft, error) {
	draft, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if draft.Status != model.DraftStatusEditing {
		return nil, fmt.Errorf("草稿已是终态 (%s)", draft.Status)
	}
	if draft.Title == "" {
		return nil, fmt.Errorf("草稿没有标题，无法生成描述")
	}
	if draft.Description != "" && !overwrite {
		return draft, nil
	}

	var features []string
	for name, values := range draft.Specifics.Data() {
		features = append(features, name+": "+strings.Join(values, specificValueJoiner))
	}

	desc := s.ai.GenerateDescription(ctx, draft.Title, draft.Brand, draft.MPN, features)
	draft.Description = desc
	if err := s.repo.Update(ctx, draft); err != nil {
		return nil, err
	}
	return draft, nil
}

// AddImages 追加图片引用 (远程 URL 与本地路径分别追加)
func (s *DraftService) AddImages(ctx context.Context, userID, id int64, remoteURLs, localPaths []string) (*model.ListingDraft, error) {
	draft, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if draft.Status != model.DraftStatusEditing {
		return nil, fmt.Errorf("草稿已是终态 (%s)", draft.Status)
	}

	for _, u := range remoteURLs {
		if u = strings.TrimSpace(u); u != "" {
			draft.RemoteImageURLs = append(draft.RemoteImageURLs, u)
		}
	}
	for _, p := range localPaths {
		if p = strings.TrimSpace(p); p != "" {
			draft.LocalImagePaths = append(draft.LocalImagePaths, p)
		}
	}

	if err := s.repo.Update(ctx, draft); err != nil {
		return nil, err
	}
	return draft, nil
}
