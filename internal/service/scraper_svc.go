package service

import (
	"context"
	"errors"
	"fmt"
	"html"
	"regexp"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// ==================== 统一数据结构 ====================

// ScrapedProductData 原始抓取结果
// 永远是临时数据，不具权威性；价格保留原始串，下游防御性重解析
type ScrapedProductData struct {
	Source      string            `json:"source"` // 站点标识
	Title       string            `json:"title"`
	Brand       string            `json:"brand"`
	ModelNumber string            `json:"model_number"`
	PriceText   string            `json:"price_text"`
	Description string            `json:"description"`
	Features    []string          `json:"features"`
	Specs       map[string]string `json:"specs"`
	ImageURLs   []string          `json:"image_urls"`
}

// IsEmpty 没抓到任何有效内容
func (s *ScrapedProductData) IsEmpty() bool {
	return s == nil || (s.Title == "" && s.Description == "" && len(s.Features) == 0)
}

// ==================== 策略接口 ====================

// ErrScraperNotImplemented 该站点尚无真实解析实现
var ErrScraperNotImplemented = errors.New("该站点抓取未实现")

// ScraperStrategy 站点抓取策略
// 各站点解析质量参差，不假设任何两个站点行为一致
type ScraperStrategy interface {
	Site() string
	Scrape(ctx context.Context, modelNumber string) (*ScrapedProductData, error)
}

// ==================== 服务 ====================

// ScraperService 抓取服务：按站点分发到策略
type ScraperService struct {
	strategies map[string]ScraperStrategy
	order      []string // 注册顺序，依次尝试
}

// NewScraperService 创建抓取服务并注册内置策略
func NewScraperService() *ScraperService {
	s := &ScraperService{strategies: make(map[string]ScraperStrategy)}
	s.Register(NewHomeDepotScraper())
	// 以下站点只有占位实现
	s.Register(&stubScraper{site: "lowes"})
	s.Register(&stubScraper{site: "amazon"})
	s.Register(&stubScraper{site: "wayfair"})
	return s
}

// Register 注册站点策略
func (s *ScraperService) Register(strategy ScraperStrategy) {
	site := strings.ToLower(strategy.Site())
	if _, exists := s.strategies[site]; !exists {
		s.order = append(s.order, site)
	}
	s.strategies[site] = strategy
}

// ScrapeSite 指定站点抓取
func (s *ScraperService) ScrapeSite(ctx context.Context, site, modelNumber string) (*ScrapedProductData, error) {
	strategy, ok := s.strategies[strings.ToLower(site)]
	if !ok {
		return nil, fmt.Errorf("未注册的站点: %s", site)
	}
	return strategy.Scrape(ctx, modelNumber)
}

// ScrapeByModelNumber 按注册顺序尝试各站点，返回第一个有效结果
// 全部失败返回 nil (不报错)：抓取是尽力而为的补充信息
func (s *ScraperService) ScrapeByModelNumber(ctx context.Context, modelNumber string) *ScrapedProductData {
	if strings.TrimSpace(modelNumber) == "" {
		return nil
	}

	for _, site := range s.order {
		data, err := s.strategies[site].Scrape(ctx, modelNumber)
		if err != nil {
			continue
		}
		if !data.IsEmpty() {
			return data
		}
	}
	return nil
}

// ==================== Home Depot 策略 ====================

// homeDepotScraper 唯一有真实解析逻辑的站点
// 基于 HTML 正则，页面改版即碎；结果仅作草稿种子
type homeDepotScraper struct {
	client  *resty.Client
	baseURL string
}

// NewHomeDepotScraper 创建 Home Depot 抓取策略
func NewHomeDepotScraper() ScraperStrategy {
	return &homeDepotScraper{
		client: resty.New().
			SetTimeout(20 * time.Second).
			SetHeader("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64)"),
		baseURL: "https://www.homedepot.com",
	}
}

func (h *homeDepotScraper) Site() string { return "homedepot" }

var (
	hdTitleRe   = regexp.MustCompile(`<h1[^>]*class="[^"]*product-details__title[^"]*"[^>]*>([^<]+)</h1>`)
	hdBrandRe   = regexp.MustCompile(`"brandName"\s*:\s*"([^"]+)"`)
	hdPriceRe   = regexp.MustCompile(`"price"\s*:\s*"?(\$?[\d,]+\.?\d*)"?`)
	hdBulletRe  = regexp.MustCompile(`<li[^>]*class="[^"]*list__item[^"]*"[^>]*>([^<]+)</li>`)
	hdSpecRowRe = regexp.MustCompile(`<th[^>]*>([^<]+)</th>\s*<td[^>]*>([^<]+)</td>`)
)

func (h *homeDepotScraper) Scrape(ctx context.Context, modelNumber string) (*ScrapedProductData, error) {
	resp, err := h.client.R().
		SetContext(ctx).
		SetQueryParam("keyword", modelNumber).
		Get(h.baseURL + "/s/searchbox")
	if err != nil {
		return nil, fmt.Errorf("homedepot 请求失败: %v", err)
	}
	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("homedepot HTTP %d", resp.StatusCode())
	}

	page := resp.String()
	data := &ScrapedProductData{
		Source:      h.Site(),
		ModelNumber: modelNumber,
		Specs:       make(map[string]string),
	}

	if m := hdTitleRe.FindStringSubmatch(page); m != nil {
		data.Title = html.UnescapeString(strings.TrimSpace(m[1]))
	}
	if m := hdBrandRe.FindStringSubmatch(page); m != nil {
		data.Brand = m[1]
	}
	if m := hdPriceRe.FindStringSubmatch(page); m != nil {
		data.PriceText = m[1]
	}
	for _, m := range hdBulletRe.FindAllStringSubmatch(page, 20) {
		if text := html.UnescapeString(strings.TrimSpace(m[1])); text != "" {
			data.Features = append(data.Features, text)
		}
	}
	for _, m := range hdSpecRowRe.FindAllStringSubmatch(page, 50) {
		name := html.UnescapeString(strings.TrimSpace(m[1]))
		value := html.UnescapeString(strings.TrimSpace(m[2]))
		if name != "" && value != "" {
			data.Specs[name] = value
		}
	}

	if len(data.Features) > 0 {
		data.Description = strings.Join(data.Features, "\n")
	}

	if data.IsEmpty() {
		return nil, fmt.Errorf("homedepot 页面未解析出内容 (型号 %s)", modelNumber)
	}
	return data, nil
}

// ==================== 占位策略 ====================

type stubScraper struct {
	site string
}

func (s *stubScraper) Site() string { return s.site }

func (s *stubScraper) Scrape(ctx context.Context, modelNumber string) (*ScrapedProductData, error) {
	return nil, fmt.Errorf("%w: %s", ErrScraperNotImplemented, s.site)
}
