package service

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strings"

	"chumslister/internal/repository"
)

// ==================== 分组键提取 ====================

// modelNumberRe 从标题里抽型号：Model/MDL 引导的字母数字串 (可带 - / .)
var modelNumberRe = regexp.MustCompile(`(?i)\b(?:model|mdl)[#:.\s]*([A-Z0-9][A-Z0-9\-/.]{2,})`)

// marketingPhrases 归一化标题时剥掉的营销词
var marketingPhrases = []string{
	"brand new", "free shipping", "fast shipping", "new in box", "nib",
	"open box", "oem", "genuine", "authentic", "sealed", "w/ warranty",
	"with warranty", "hot sale", "best price", "!!",
}

var nonAlnumRe = regexp.MustCompile(`[^a-z0-9 ]+`)
var spacesRe = regexp.MustCompile(`\s+`)

// ExtractModelNumber 从刊登标题提取型号，提不到返回空串
func ExtractModelNumber(title string) string {
	m := modelNumberRe.FindStringSubmatch(title)
	if len(m) < 2 {
		return ""
	}
	return strings.ToUpper(strings.Trim(m[1], "-/."))
}

// NormalizeTitle 标题归一化：小写、剥营销词、去标点、压空白
// 型号提不到时作为兜底分组键
func NormalizeTitle(title string) string {
	t := strings.ToLower(title)
	for _, phrase := range marketingPhrases {
		t = strings.ReplaceAll(t, phrase, " ")
	}
	t = nonAlnumRe.ReplaceAllString(t, " ")
	t = spacesRe.ReplaceAllString(t, " ")
	return strings.TrimSpace(t)
}

// groupKey 分组键：优先型号，其次归一化标题
func groupKey(listing *ActiveListing) string {
	if mn := ExtractModelNumber(listing.Title); mn != "" {
		return "model:" + mn
	}
	if nt := NormalizeTitle(listing.Title); nt != "" {
		return "title:" + nt
	}
	// 既没型号也没标题的刊登自成一组，不参与重分配
	return "listing:" + string(listing.Platform) + ":" + listing.ListingID
}

// ==================== 数量策略 ====================

// QuantityPolicy 决定一组同款刊登的权威总量
type QuantityPolicy interface {
	// TotalQuantity 返回该组的权威总量；返回 ok=false 表示该组跳过同步
	TotalQuantity(ctx context.Context, userID int64, group []ActiveListing) (total int, ok bool)
}

// listingSumPolicy 默认策略：各平台在线数量之和即为总量
type listingSumPolicy struct{}

// NewListingSumPolicy 默认数量策略
func NewListingSumPolicy() QuantityPolicy {
	return listingSumPolicy{}
}

func (listingSumPolicy) TotalQuantity(_ context.Context, _ int64, group []ActiveListing) (int, bool) {
	total := 0
	for _, l := range group {
		total += l.Quantity
	}
	return total, true
}

// inventoryCountPolicy 以本地库存表的在库数量为权威总量
// 按型号聚合查询，查不到时回落到在线数量之和
type inventoryCountPolicy struct {
	inventory repository.InventoryRepository
}

// NewInventoryCountPolicy 库存表权威数量策略
func NewInventoryCountPolicy(inventory repository.InventoryRepository) QuantityPolicy {
	return &inventoryCountPolicy{inventory: inventory}
}

func (p *inventoryCountPolicy) TotalQuantity(ctx context.Context, userID int64, group []ActiveListing) (int, bool) {
	mn := ""
	for _, l := range group {
		if mn = ExtractModelNumber(l.Title); mn != "" {
			break
		}
	}
	if mn == "" {
		return listingSumPolicy{}.TotalQuantity(ctx, userID, group)
	}

	total, err := p.inventory.SumQuantityByModelNumber(ctx, userID, mn)
	if err != nil {
		log.Printf("[Sync] 查询型号 %s 库存总量失败，回落在线数量之和: %v", mn, err)
		return listingSumPolicy{}.TotalQuantity(ctx, userID, group)
	}
	return total, true
}

// ==================== 同步服务 ====================

// SyncReport 一次同步的执行报告
type SyncReport struct {
	Groups   int      `json:"groups"`   // 参与同步的分组数
	Updates  int      `json:"updates"`  // 实际下发的修订次数
	Skipped  int      `json:"skipped"`  // 数量未变而跳过的刊登数
	Failures []string `json:"failures"` // 修订失败明细
}

// SyncService 跨平台库存同步
// 按型号/归一化标题把各平台刊登聚成同款组，组内按权威总量均摊，
// 余数归组内第一条；数量没变的刊登不下发修订
type SyncService struct {
	factory *MarketplaceFactory
	policy  QuantityPolicy
}

// NewSyncService 创建同步服务
func NewSyncService(factory *MarketplaceFactory, policy QuantityPolicy) *SyncService {
	if policy == nil {
		policy = NewListingSumPolicy()
	}
	return &SyncService{factory: factory, policy: policy}
}

// SyncInventory 执行一轮库存同步
func (s *SyncService) SyncInventory(ctx context.Context, userID int64) (*SyncReport, error) {
	// 1. 聚合全部已授权平台的在线刊登，单平台失败只记日志
	var all []ActiveListing
	services := s.factory.AuthenticatedServices(ctx, userID)
	if len(services) == 0 {
		return nil, fmt.Errorf("没有已授权的平台")
	}
	for _, svc := range services {
		listings, err := svc.GetActiveListings(ctx, userID)
		if err != nil {
			log.Printf("[Sync] 平台 %s 拉取在线刊登失败: %v", svc.Platform(), err)
			continue
		}
		all = append(all, listings...)
	}

	// 2. 分组 (保持首见顺序，余数要归第一条)
	groups := make(map[string][]ActiveListing)
	var order []string
	for _, l := range all {
		key := groupKey(&l)
		if _, seen := groups[key]; !seen {
			order = append(order, key)
		}
		groups[key] = append(groups[key], l)
	}

	report := &SyncReport{}

	// 3. 逐组均摊并下发
	for _, key := range order {
		group := groups[key]
		if len(group) < 2 {
			continue // 单条刊登无需跨平台摊
		}

		total, ok := s.policy.TotalQuantity(ctx, userID, group)
		if !ok {
			continue
		}
		report.Groups++

		targets := redistribute(total, len(group))
		for i, listing := range group {
			want := targets[i]
			if want == listing.Quantity {
				report.Skipped++
				continue
			}

			svc, err := s.factory.Get(listing.Platform)
			if err != nil {
				report.Failures = append(report.Failures, fmt.Sprintf("%s/%s: %v", listing.Platform, listing.ListingID, err))
				continue
			}
			if err := svc.UpdateListingQuantity(ctx, userID, listing.ListingID, want); err != nil {
				report.Failures = append(report.Failures, fmt.Sprintf("%s/%s: %v", listing.Platform, listing.ListingID, err))
				continue
			}
			report.Updates++
			log.Printf("[Sync] %s/%s 数量 %d -> %d", listing.Platform, listing.ListingID, listing.Quantity, want)
		}
	}

	return report, nil
}

// redistribute 把 total 均摊到 n 份，余数归第一份
func redistribute(total, n int) []int {
	if n <= 0 {
		return nil
	}
	if total < 0 {
		total = 0
	}
	base := total / n
	remainder := total % n

	out := make([]int, n)
	for i := range out {
		out[i] = base
	}
	out[0] += remainder
	return out
}
