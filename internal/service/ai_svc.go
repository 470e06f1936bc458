package service

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"

	"chumslister/internal/config"
)

// 生成失败时给用户的降级文案，公开接口不抛错
const DescriptionUnavailable = "unable to generate description"

// ==================== 服务 ====================

// AIService 文案生成服务 (Anthropic Messages API)
// 候选模型按优先级排列，首个可用者当选并缓存整个进程周期；
// 收到 model not found 才强制重选，而不是盲目重试同一请求
type AIService struct {
	cfg    config.AIConfig
	client *resty.Client

	mu            sync.Mutex
	selectedModel string // 进程生命周期内的当选模型，空表示尚未选定
}

// NewAIService 创建 AI 服务
func NewAIService(cfg config.AIConfig) *AIService {
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 1024
	}
	return &AIService{
		cfg:    cfg,
		client: resty.New().SetTimeout(60 * time.Second),
	}
}

// ==================== 公开接口 (降级，不抛错) ====================

// GenerateDescription 基于商品信息生成销售文案
// 任何内部失败都降级为固定文案，错误只记日志
func (s *AIService) GenerateDescription(ctx context.Context, title, brand, modelNumber string, features []string) string {
	if s.cfg.APIKey == "" {
		return DescriptionUnavailable
	}

	prompt := buildDescriptionPrompt(title, brand, modelNumber, features)
	text, err := s.complete(ctx, prompt)
	if err != nil {
		log.Printf("[AI] 描述生成失败: %v", err)
		return DescriptionUnavailable
	}

	desc := extractSection(text, "DESCRIPTION")
	if desc == "" {
		desc = strings.TrimSpace(text)
	}
	if desc == "" {
		return DescriptionUnavailable
	}
	return desc
}

// GenerateTitle 生成 80 字符以内的刊登标题
func (s *AIService) GenerateTitle(ctx context.Context, brand, modelNumber, keywords string) (string, error) {
	if s.cfg.APIKey == "" {
		return "", fmt.Errorf("Anthropic API Key 未配置")
	}

	prompt := fmt.Sprintf(`Write one eBay listing title (max 80 characters) for this product.
Brand: %s
Model: %s
Keywords: %s

Respond with only the title on a single line, no quotes.`, brand, modelNumber, keywords)

	text, err := s.complete(ctx, prompt)
	if err != nil {
		return "", err
	}

	title := strings.TrimSpace(strings.SplitN(text, "\n", 2)[0])
	title = strings.Trim(title, `"`)
	if len(title) > 80 {
		title = title[:80]
	}
	return title, nil
}

// ==================== 模型选择 ====================

// currentModel 返回当选模型；未选定时取首个候选
func (s *AIService) currentModel() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selectedModel != "" {
		return s.selectedModel
	}
	if len(s.cfg.Models) > 0 {
		return s.cfg.Models[0]
	}
	return ""
}

// commitModel 记录当选模型
func (s *AIService) commitModel(model string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selectedModel = model
}

// nextFallback 当选模型失效时，取候选表中它的下一个
func (s *AIService) nextFallback(failed string) string {
	for i, m := range s.cfg.Models {
		if m == failed && i+1 < len(s.cfg.Models) {
			return s.cfg.Models[i+1]
		}
	}
	return ""
}

// ==================== 核心调用 ====================

// anthropicResp Messages API 响应
type anthropicResp struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// complete 发送单轮 prompt 并取回文本
// 最多 3 次尝试，线性退避；model not found 触发候选降级后再试，
// 而不是对同一个失效模型做无条件重试
func (s *AIService) complete(ctx context.Context, prompt string) (string, error) {
	const maxAttempts = 3
	model := s.currentModel()
	if model == "" {
		return "", fmt.Errorf("没有可用的候选模型")
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		text, err := s.callMessages(ctx, model, prompt)
		if err == nil {
			s.commitModel(model)
			return text, nil
		}
		lastErr = err

		if isModelNotFound(err) {
			next := s.nextFallback(model)
			if next == "" {
				return "", fmt.Errorf("所有候选模型均不可用: %v", err)
			}
			log.Printf("[AI] 模型 %s 不可用，降级到 %s", model, next)
			model = next
		}

		if attempt < maxAttempts {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(time.Duration(attempt) * time.Second):
			}
		}
	}

	return "", fmt.Errorf("文案生成调用失败 (尝试 %d 次): %v", maxAttempts, lastErr)
}

func (s *AIService) callMessages(ctx context.Context, model, prompt string) (string, error) {
	reqBody := map[string]interface{}{
		"model":      model,
		"max_tokens": s.cfg.MaxTokens,
		"messages": []map[string]interface{}{
			{"role": "user", "content": prompt},
		},
	}

	var result anthropicResp
	resp, err := s.client.R().
		SetContext(ctx).
		SetHeader("x-api-key", s.cfg.APIKey).
		SetHeader("anthropic-version", "2023-06-01").
		SetHeader("Content-Type", "application/json").
		SetBody(reqBody).
		SetResult(&result).
		SetError(&result).
		Post(s.cfg.BaseURL + "/v1/messages")

	if err != nil {
		return "", fmt.Errorf("请求失败: %v", err)
	}
	if resp.StatusCode() != 200 {
		if result.Error != nil {
			return "", fmt.Errorf("API 错误 [%d] %s: %s", resp.StatusCode(), result.Error.Type, result.Error.Message)
		}
		return "", fmt.Errorf("API 错误 [%d]", resp.StatusCode())
	}

	for _, block := range result.Content {
		if block.Type == "text" && block.Text != "" {
			return block.Text, nil
		}
	}
	return "", fmt.Errorf("响应中没有文本内容")
}

// isModelNotFound 平台明确表示模型标识失效
func isModelNotFound(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "not_found") && strings.Contains(msg, "model")
}

// ==================== Prompt 与解析 ====================

func buildDescriptionPrompt(title, brand, modelNumber string, features []string) string {
	var sb strings.Builder
	sb.WriteString("Write an eBay product description for the following item.\n\n")
	fmt.Fprintf(&sb, "Title: %s\n", title)
	if brand != "" {
		fmt.Fprintf(&sb, "Brand: %s\n", brand)
	}
	if modelNumber != "" {
		fmt.Fprintf(&sb, "Model: %s\n", modelNumber)
	}
	if len(features) > 0 {
		sb.WriteString("Features:\n")
		for _, f := range features {
			fmt.Fprintf(&sb, "- %s\n", f)
		}
	}
	sb.WriteString(`
Respond in exactly this format:

DESCRIPTION:
<2-4 paragraphs of sales copy, plain text, no markdown>
END`)
	return sb.String()
}

var sectionRe = regexp.MustCompile(`(?s)DESCRIPTION:\s*(.*?)\s*(?:END|$)`)

// extractSection 正则提取标记段落 (模型输出偶尔夹带客套话，整段解析更稳)
func extractSection(text, _ string) string {
	if m := sectionRe.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}
