package ebay

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"
)

// ==================== OAuth2 客户端 ====================

// OAuthConfig eBay OAuth2 配置
// 客户端凭证走 HTTP Basic，授权码与刷新两种 grant 都打同一个 Token 端点
type OAuthConfig struct {
	TokenURL     string
	ClientID     string
	ClientSecret string
	RedirectURI  string
	Timeout      time.Duration
}

// TokenPair Token 端点响应
type TokenPair struct {
	AccessToken      string `json:"access_token"`
	RefreshToken     string `json:"refresh_token"`
	ExpiresIn        int    `json:"expires_in"`
	RefreshExpiresIn int    `json:"refresh_token_expires_in"`
	TokenType        string `json:"token_type"`
	Error            string `json:"error,omitempty"`
	ErrorDescription string `json:"error_description,omitempty"`
}

// ExpiresAt 以响应时刻换算出的过期时间
func (t *TokenPair) ExpiresAt(now time.Time) time.Time {
	return now.Add(time.Duration(t.ExpiresIn) * time.Second)
}

// OAuthClient Token 交换客户端
type OAuthClient struct {
	cfg    OAuthConfig
	client *resty.Client
}

// NewOAuthClient 创建 OAuth 客户端
func NewOAuthClient(cfg OAuthConfig) *OAuthClient {
	if cfg.Timeout == 0 {
		cfg.Timeout = 15 * time.Second
	}
	return &OAuthClient{
		cfg:    cfg,
		client: resty.New().SetTimeout(cfg.Timeout),
	}
}

// ExchangeCode 授权码换 Token 对
func (c *OAuthClient) ExchangeCode(ctx context.Context, code string) (*TokenPair, error) {
	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("code", code)
	form.Set("redirect_uri", c.cfg.RedirectURI)

	return c.post(ctx, form)
}

// Refresh 刷新 Token 对
// 失败必须向上传播：调用方不得带着过期 Token 出站
func (c *OAuthClient) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	form := url.Values{}
	form.Set("grant_type", "refresh_token")
	form.Set("refresh_token", refreshToken)

	return c.post(ctx, form)
}

func (c *OAuthClient) post(ctx context.Context, form url.Values) (*TokenPair, error) {
	var pair TokenPair

	resp, err := c.client.R().
		SetContext(ctx).
		SetBasicAuth(c.cfg.ClientID, c.cfg.ClientSecret).
		SetHeader("Content-Type", "application/x-www-form-urlencoded").
		SetFormDataFromValues(form).
		SetResult(&pair).
		SetError(&pair).
		Post(c.cfg.TokenURL)

	if err != nil {
		return nil, fmt.Errorf("token 端点网络错误: %v", err)
	}
	if resp.StatusCode() != 200 {
		if pair.Error != "" {
			return nil, fmt.Errorf("token 端点拒绝 [%d]: %s (%s)", resp.StatusCode(), pair.Error, pair.ErrorDescription)
		}
		return nil, fmt.Errorf("token 端点拒绝 [%d]: %s", resp.StatusCode(), truncate(resp.String(), 200))
	}
	if pair.AccessToken == "" {
		return nil, fmt.Errorf("token 端点响应缺少 access_token")
	}

	return &pair, nil
}
