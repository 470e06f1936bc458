package service

import (
	"context"
	"fmt"
	"log"
	"sync"

	"chumslister/internal/model"
	"chumslister/internal/repository"
)

// ==================== 刊登发布服务 ====================

// PublishService 把草稿发布到一个或多个平台
// 草稿只转换一次，各平台并发刊登且互相隔离：单平台的错误 (包括 panic)
// 只体现在该平台的结果条目上，结果 map 恰好覆盖请求的每个平台
type PublishService struct {
	factory *MarketplaceFactory
	drafts  repository.DraftRepository
}

// NewPublishService 创建发布服务
func NewPublishService(factory *MarketplaceFactory, drafts repository.DraftRepository) *PublishService {
	return &PublishService{factory: factory, drafts: drafts}
}

// PublishDraft 把草稿刊登到指定平台集合
// 任一平台成功即把草稿置为 published 终态；全部失败草稿保持可编辑
func (s *PublishService) PublishDraft(ctx context.Context, userID, draftID int64, platforms []Platform) (map[Platform]*ListingResult, error) {
	draft, err := s.drafts.GetByID(ctx, draftID)
	if err != nil {
		return nil, fmt.Errorf("草稿不存在: %v", err)
	}
	if draft.UserID != userID {
		return nil, fmt.Errorf("草稿 %d 不属于当前用户", draftID)
	}
	if draft.Status != model.DraftStatusEditing {
		return nil, fmt.Errorf("草稿已是终态 (%s)，不能再次刊登", draft.Status)
	}
	if len(platforms) == 0 {
		return nil, fmt.Errorf("未指定目标平台")
	}

	// 转换只做一次，各平台共享同一份交换结构 (适配器只读不写)
	product := DraftToProduct(draft)

	results := s.PublishProduct(ctx, userID, product, platforms)

	for _, r := range results {
		if r.Success {
			if err := s.drafts.UpdateStatus(ctx, draftID, model.DraftStatusPublished); err != nil {
				log.Printf("[Publish] 草稿 %d 置为已刊登失败: %v", draftID, err)
			}
			break
		}
	}

	return results, nil
}

// PublishProduct 把交换结构并发刊登到指定平台集合
func (s *PublishService) PublishProduct(ctx context.Context, userID int64, product *ProductData, platforms []Platform) map[Platform]*ListingResult {
	results := make(map[Platform]*ListingResult, len(platforms))
	var mu sync.Mutex
	var wg sync.WaitGroup

	for _, platform := range platforms {
		wg.Add(1)
		go func(p Platform) {
			defer wg.Done()

			result := s.publishOne(ctx, userID, p, product)

			mu.Lock()
			results[p] = result
			mu.Unlock()
		}(platform)
	}
	wg.Wait()

	return results
}

// publishOne 单平台刊登，panic 兜底转为失败结果
func (s *PublishService) publishOne(ctx context.Context, userID int64, platform Platform, product *ProductData) (result *ListingResult) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[Publish] 平台 %s 刊登 panic: %v", platform, r)
			result = &ListingResult{Success: false, ErrorMsg: fmt.Sprintf("内部错误: %v", r)}
		}
	}()

	svc, err := s.factory.Get(platform)
	if err != nil {
		return &ListingResult{Success: false, ErrorMsg: err.Error()}
	}

	res, err := svc.CreateListing(ctx, userID, product)
	if err != nil {
		return &ListingResult{Success: false, ErrorMsg: err.Error()}
	}
	return res
}
