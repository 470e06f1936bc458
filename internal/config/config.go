package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// ==================== 配置结构 ====================

// EbayConfig eBay 平台配置
// 业务策略 ID 不允许硬编码，必须在这里配置注入
type EbayConfig struct {
	TradingURL   string // Trading API 端点
	TokenURL     string // OAuth2 Token 端点
	ClientID     string
	ClientSecret string
	RedirectURI  string
	SiteID       string // eBay 站点 ID，美国站为 0

	// --- 业务策略 (Business Policy) ---
	ShippingPolicyID string
	PaymentPolicyID  string
	ReturnPolicyID   string

	// --- 分类兜底 ---
	FallbackCategoryID string // 刊登未选分类且用户无默认分类时的兜底分类
}

// AIConfig AI 文案服务配置
type AIConfig struct {
	APIKey    string
	BaseURL   string
	MaxTokens int
	// Models 按优先级排列的候选模型，首个可用者当选
	Models []string
}

// StorageConfig 图片存储配置
type StorageConfig struct {
	Provider  string // "s3" | "local"
	Bucket    string
	Region    string
	AccessKey string
	SecretKey string
	CDNDomain string
	BasePath  string
	LocalDir  string // provider=local 时的落盘目录
}

// Config 应用配置 (env + .env)
type Config struct {
	Port      string
	DataDir   string // 应用数据目录，SQLite 库与本地图片都放这里
	JWTSecret string

	Ebay    EbayConfig
	AI      AIConfig
	Storage StorageConfig

	// 同步策略：true 时库存同步使用本地库存表的权威数量
	SyncUseInventoryCount bool

	// 订单轮询回溯天数
	OrderLookbackDays int
}

// ==================== 加载 ====================

// Load 从环境变量与可选 .env 文件加载配置
func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	_ = viper.ReadInConfig()

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{
		Port:      getString("SERVER_PORT", "8080"),
		DataDir:   getString("DATA_DIR", "./data"),
		JWTSecret: getString("JWT_SECRET", ""),

		Ebay: EbayConfig{
			TradingURL:         getString("EBAY_TRADING_URL", "https://api.ebay.com/ws/api.dll"),
			TokenURL:           getString("EBAY_TOKEN_URL", "https://api.ebay.com/identity/v1/oauth2/token"),
			ClientID:           viper.GetString("EBAY_CLIENT_ID"),
			ClientSecret:       viper.GetString("EBAY_CLIENT_SECRET"),
			RedirectURI:        viper.GetString("EBAY_REDIRECT_URI"),
			SiteID:             getString("EBAY_SITE_ID", "0"),
			ShippingPolicyID:   viper.GetString("EBAY_SHIPPING_POLICY_ID"),
			PaymentPolicyID:    viper.GetString("EBAY_PAYMENT_POLICY_ID"),
			ReturnPolicyID:     viper.GetString("EBAY_RETURN_POLICY_ID"),
			FallbackCategoryID: getString("EBAY_FALLBACK_CATEGORY_ID", "99"),
		},

		AI: AIConfig{
			APIKey:    viper.GetString("ANTHROPIC_API_KEY"),
			BaseURL:   getString("ANTHROPIC_BASE_URL", "https://api.anthropic.com"),
			MaxTokens: getInt("AI_MAX_TOKENS", 1024),
			Models:    getStringSlice("AI_MODELS", []string{"claude-sonnet-4-20250514", "claude-3-5-haiku-20241022"}),
		},

		Storage: StorageConfig{
			Provider:  getString("STORAGE_PROVIDER", "local"),
			Bucket:    viper.GetString("AWS_BUCKET"),
			Region:    viper.GetString("AWS_REGION"),
			AccessKey: viper.GetString("AWS_ACCESS_KEY_ID"),
			SecretKey: viper.GetString("AWS_SECRET_ACCESS_KEY"),
			CDNDomain: viper.GetString("AWS_CDN_DOMAIN"),
			BasePath:  getString("STORAGE_BASE_PATH", "chumslister"),
			LocalDir:  getString("STORAGE_LOCAL_DIR", "./data/images"),
		},

		SyncUseInventoryCount: viper.GetBool("SYNC_USE_INVENTORY_COUNT"),
		OrderLookbackDays:     getInt("ORDER_LOOKBACK_DAYS", 7),
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET 未配置")
	}

	return cfg, nil
}

// TokenRefreshMargin Token 过期安全边界
// 距离过期不足该时长的 Token 视为已过期，出站请求前必须先刷新
const TokenRefreshMargin = 5 * time.Minute

// ==================== 取值辅助 ====================

func getString(key, def string) string {
	if v := viper.GetString(key); v != "" {
		return v
	}
	return def
}

func getInt(key string, def int) int {
	if v := viper.GetInt(key); v != 0 {
		return v
	}
	return def
}

func getStringSlice(key string, def []string) []string {
	raw := viper.GetString(key)
	if raw == "" {
		return def
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
