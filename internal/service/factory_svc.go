package service

import (
	"context"
	"fmt"
	"log"
)

// ==================== 平台工厂 ====================

// MarketplaceFactory 平台适配器注册表
// 启动时注册全部实现，运行期按 Platform 枚举查找；
// 平台名字符串只在 ParsePlatform 边界解析，这里只认枚举
type MarketplaceFactory struct {
	services map[Platform]MarketplaceService
	order    []Platform
}

// NewMarketplaceFactory 创建工厂并注册适配器
func NewMarketplaceFactory(services ...MarketplaceService) *MarketplaceFactory {
	f := &MarketplaceFactory{services: make(map[Platform]MarketplaceService)}
	for _, svc := range services {
		f.Register(svc)
	}
	return f
}

// Register 注册一个平台适配器，重复注册按后者覆盖
func (f *MarketplaceFactory) Register(svc MarketplaceService) {
	p := svc.Platform()
	if _, exists := f.services[p]; !exists {
		f.order = append(f.order, p)
	}
	f.services[p] = svc
}

// Get 按平台取适配器
func (f *MarketplaceFactory) Get(platform Platform) (MarketplaceService, error) {
	svc, ok := f.services[platform]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrPlatformUnknown, platform)
	}
	return svc, nil
}

// GetByName 按平台名取适配器 (边界解析)
func (f *MarketplaceFactory) GetByName(name string) (MarketplaceService, error) {
	platform, err := ParsePlatform(name)
	if err != nil {
		return nil, err
	}
	return f.Get(platform)
}

// All 按注册顺序返回全部适配器
func (f *MarketplaceFactory) All() []MarketplaceService {
	out := make([]MarketplaceService, 0, len(f.order))
	for _, p := range f.order {
		out = append(out, f.services[p])
	}
	return out
}

// AuthenticatedServices 返回该用户已授权的平台适配器
// 探测报错按未授权处理 (只记日志)，保证聚合路径不被单个平台拖垮
func (f *MarketplaceFactory) AuthenticatedServices(ctx context.Context, userID int64) []MarketplaceService {
	var out []MarketplaceService
	for _, p := range f.order {
		svc := f.services[p]
		ok, err := svc.CheckAuthentication(ctx, userID)
		if err != nil {
			log.Printf("[Factory] 平台 %s 授权探测异常，按未授权处理: %v", p, err)
			continue
		}
		if ok {
			out = append(out, svc)
		}
	}
	return out
}
