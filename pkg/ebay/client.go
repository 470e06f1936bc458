package ebay

import (
	"context"
	"encoding/xml"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// ==================== 配置 ====================

// Config Trading API 客户端配置
type Config struct {
	Endpoint    string // 单一端点，调用名走 Header 区分
	SiteID      string // 美国站 "0"
	CompatLevel string
	Timeout     time.Duration

	// 重试参数：HTTP 失败与解析失败按瞬时错误重试
	MaxAttempts int
	Backoff     time.Duration // 线性退避基数：第 n 次失败后睡 n*Backoff
}

// ==================== 客户端 ====================

// TradingClient eBay Trading API 客户端
// 所有调用打到同一个端点，X-EBAY-API-CALL-NAME 区分调用；Token 在 XML 体内
type TradingClient struct {
	cfg    Config
	client *resty.Client
}

// NewTradingClient 创建 Trading 客户端
func NewTradingClient(cfg Config) *TradingClient {
	if cfg.CompatLevel == "" {
		cfg.CompatLevel = "1193"
	}
	if cfg.SiteID == "" {
		cfg.SiteID = "0"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 3
	}
	if cfg.Backoff == 0 {
		cfg.Backoff = time.Second
	}

	client := resty.New().
		SetTimeout(cfg.Timeout).
		SetHeader("Content-Type", "text/xml")

	return &TradingClient{cfg: cfg, client: client}
}

// Call 发起一次 Trading 调用
// callName: X-EBAY-API-CALL-NAME 的取值
// req: 请求结构体 (须带 XMLName 与 RequesterCredentials)
// out: 响应结构体指针，须实现 Response
//
// 重试策略：HTTP 层失败与响应解析失败按瞬时错误处理，最多 MaxAttempts 次，
// 第 n 次失败后线性退避 n*Backoff；耗尽后报出带调用名与次数的错误。
// Ack=Failure 是业务结果而非瞬时错误，原样返回给上层映射。
func (c *TradingClient) Call(ctx context.Context, callName string, req interface{}, out Response) error {
	body, err := xml.Marshal(req)
	if err != nil {
		return fmt.Errorf("%s 请求序列化失败: %v", callName, err)
	}
	payload := append([]byte(xml.Header), body...)

	var lastErr error
	for attempt := 1; attempt <= c.cfg.MaxAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		resp, err := c.client.R().
			SetContext(ctx).
			SetHeader("X-EBAY-API-CALL-NAME", callName).
			SetHeader("X-EBAY-API-SITEID", c.cfg.SiteID).
			SetHeader("X-EBAY-API-COMPATIBILITY-LEVEL", c.cfg.CompatLevel).
			SetBody(payload).
			Post(c.cfg.Endpoint)

		// A. 网络层错误 -> 重试
		if err != nil {
			lastErr = fmt.Errorf("网络请求失败: %v", err)
		} else if resp.StatusCode() != 200 {
			// B. HTTP 层拒绝 -> 重试
			lastErr = fmt.Errorf("HTTP %d: %s", resp.StatusCode(), truncate(resp.String(), 200))
		} else if err := xml.Unmarshal(resp.Body(), out); err != nil {
			// C. 响应形状异常，按瞬时错误重试
			lastErr = fmt.Errorf("响应解析失败: %v", err)
		} else {
			return nil
		}

		if attempt < c.cfg.MaxAttempts {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Duration(attempt) * c.cfg.Backoff):
			}
		}
	}

	return fmt.Errorf("%s 调用失败 (尝试 %d 次): %v", callName, c.cfg.MaxAttempts, lastErr)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
