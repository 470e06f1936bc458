package service

import (
	"context"
	"log"
	"sync"

	"chumslister/internal/model"
	"chumslister/internal/repository"
)

// ==================== 设置服务 ====================

// SettingsService 用户设置服务
// 读路径带进程内缓存，写路径整体落库并失效缓存、通知订阅者
type SettingsService struct {
	repo repository.SettingsRepository

	mu    sync.RWMutex
	cache map[int64]*model.UserSettings

	subMu       sync.Mutex
	subscribers map[int64][]chan struct{}
}

// NewSettingsService 创建设置服务
func NewSettingsService(repo repository.SettingsRepository) *SettingsService {
	return &SettingsService{
		repo:        repo,
		cache:       make(map[int64]*model.UserSettings),
		subscribers: make(map[int64][]chan struct{}),
	}
}

// Get 读取用户设置 (缓存优先，未命中落库并回填)
func (s *SettingsService) Get(ctx context.Context, userID int64) (*model.UserSettings, error) {
	s.mu.RLock()
	if cached, ok := s.cache[userID]; ok {
		s.mu.RUnlock()
		return cached, nil
	}
	s.mu.RUnlock()

	settings, err := s.repo.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.cache[userID] = settings
	s.mu.Unlock()

	return settings, nil
}

// Save 整体保存设置
// 落库成功后失效缓存并通知该用户的订阅者
func (s *SettingsService) Save(ctx context.Context, settings *model.UserSettings) error {
	if err := s.repo.Save(ctx, settings); err != nil {
		return err
	}

	s.mu.Lock()
	delete(s.cache, settings.UserID)
	s.mu.Unlock()

	s.notify(settings.UserID)
	return nil
}

// Template 取刊登模板 (设置读取失败时返回零值模板，刊登侧继续回落全局配置)
func (s *SettingsService) Template(ctx context.Context, userID int64) model.ListingTemplateSettings {
	settings, err := s.Get(ctx, userID)
	if err != nil {
		log.Printf("[Settings] 读取用户 %d 设置失败: %v", userID, err)
		return model.ListingTemplateSettings{}
	}
	return settings.ListingTemplate.Data()
}

// ==================== 变更订阅 ====================

// Subscribe 订阅某用户设置变更，返回通知通道
func (s *SettingsService) Subscribe(userID int64) chan struct{} {
	ch := make(chan struct{}, 1)
	s.subMu.Lock()
	s.subscribers[userID] = append(s.subscribers[userID], ch)
	s.subMu.Unlock()
	return ch
}

// Unsubscribe 退订
func (s *SettingsService) Unsubscribe(userID int64, ch chan struct{}) {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	subs := s.subscribers[userID]
	for i, sub := range subs {
		if sub == ch {
			s.subscribers[userID] = append(subs[:i], subs[i+1:]...)
			close(ch)
			break
		}
	}
}

// notify 非阻塞通知：订阅者没在收就丢弃本次信号
func (s *SettingsService) notify(userID int64) {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	for _, ch := range s.subscribers[userID] {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
