package service

import (
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"teamsite/backend/internal/domain"
	"teamsite/backend/internal/monitoring"
	"teamsite/backend/internal/storage"
)

// SubscriberCache 订阅统计缓存接口，由 Redis 缓存实现
type SubscriberCache interface {
	CacheSubscriberCount(count int64, ttl time.Duration) error
	GetCachedSubscriberCount() (int64, error)
	InvalidateSubscriberCount() error
}

// 订阅计数缓存有效期。订阅状态变更时主动失效，这里只兜底。
const subscriberCountTTL = 5 * time.Minute

// SubscriberService 订阅者服务，处理订阅与退订的完整生命周期。
type SubscriberService struct {
	store  storage.SubscriberRepository
	cache  SubscriberCache
	logger *zap.Logger
}

// NewSubscriberService 创建订阅者服务
func NewSubscriberService(store storage.SubscriberRepository, logger *zap.Logger) *SubscriberService {
	return &SubscriberService{
		store:  store,
		logger: logger,
	}
}

// SetCache 设置可选的订阅统计缓存
func (s *SubscriberService) SetCache(cache SubscriberCache) {
	s.cache = cache
}

// Subscribe 订阅通讯
//
// 幂等语义：
//   - 新邮箱：创建激活订阅并生成退订令牌
//   - 已退订的邮箱：重新激活，刷新订阅时间，清除退订时间
//   - 已激活的邮箱：原样返回，不做修改
func (s *SubscriberService) Subscribe(email string, userID *string) (*domain.Subscriber, error) {
	normalized := domain.NormalizeEmail(email)
	if err := domain.ValidateEmail(normalized); err != nil {
		return nil, err
	}

	existing, err := s.store.GetSubscriberByEmail(normalized)
	if err == nil {
		if !existing.IsActive {
			// 重新激活
			now := time.Now().UTC()
			existing.IsActive = true
			existing.SubscribedAt = &now
			existing.UnsubscribedAt = nil
			if err := s.store.SaveSubscriber(existing); err != nil {
				return nil, err
			}
			monitoring.SubscriptionsTotal.WithLabelValues("resubscribe").Inc()
			s.invalidateCount()
			s.logger.Info("重新激活订阅", zap.String("email", normalized))
			return existing, nil
		}
		s.logger.Info("邮箱已订阅", zap.String("email", normalized))
		return existing, nil
	}
	if err != storage.ErrSubscriberNotFound {
		return nil, err
	}

	// 新订阅
	now := time.Now().UTC()
	sub := &domain.Subscriber{
		Email:            normalized,
		UserID:           userID,
		IsActive:         true,
		UnsubscribeToken: uuid.New().String(),
		SubscribedAt:     &now,
		CreatedAt:        now,
	}

	if err := s.store.SaveSubscriber(sub); err != nil {
		return nil, err
	}

	monitoring.SubscriptionsTotal.WithLabelValues("subscribe").Inc()
	s.invalidateCount()
	s.logger.Info("新增订阅者", zap.String("email", normalized))
	return sub, nil
}

// Unsubscribe 退订通讯
//
// 邮箱不存在返回 ErrSubscriberNotFound；已退订的邮箱视为成功（幂等）。
func (s *SubscriberService) Unsubscribe(email string) error {
	normalized := domain.NormalizeEmail(email)

	sub, err := s.store.GetSubscriberByEmail(normalized)
	if err != nil {
		return err
	}

	return s.deactivate(sub)
}

// UnsubscribeByToken 通过退订令牌退订（邮件内一键退订链接）
func (s *SubscriberService) UnsubscribeByToken(token string) error {
	sub, err := s.store.GetSubscriberByToken(token)
	if err != nil {
		return err
	}

	return s.deactivate(sub)
}

func (s *SubscriberService) deactivate(sub *domain.Subscriber) error {
	if !sub.IsActive {
		s.logger.Info("邮箱已退订", zap.String("email", sub.Email))
		return nil
	}

	now := time.Now().UTC()
	sub.IsActive = false
	sub.UnsubscribedAt = &now

	if err := s.store.SaveSubscriber(sub); err != nil {
		return err
	}

	monitoring.SubscriptionsTotal.WithLabelValues("unsubscribe").Inc()
	s.invalidateCount()
	s.logger.Info("退订成功", zap.String("email", sub.Email))
	return nil
}

func (s *SubscriberService) invalidateCount() {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateSubscriberCount(); err != nil {
		s.logger.Warn("失效订阅计数缓存失败", zap.Error(err))
	}
}

// List 分页列出订阅者，activeOnly 为 nil 时返回全部状态
func (s *SubscriberService) List(activeOnly *bool, page Page) ([]domain.Subscriber, PageResult, error) {
	page = page.Normalize()
	items, total, err := s.store.ListSubscribers(activeOnly, page.Number, page.Size)
	if err != nil {
		return nil, PageResult{}, err
	}
	return items, NewPageResult(total, page), nil
}

// GetByEmail 根据邮箱查询订阅者
func (s *SubscriberService) GetByEmail(email string) (*domain.Subscriber, error) {
	return s.store.GetSubscriberByEmail(domain.NormalizeEmail(email))
}

// CountActive 统计激活订阅者数量，优先读缓存
func (s *SubscriberService) CountActive() (int64, error) {
	if s.cache != nil {
		if count, err := s.cache.GetCachedSubscriberCount(); err == nil {
			return count, nil
		}
	}

	count, err := s.store.CountSubscribers(true)
	if err != nil {
		return 0, err
	}

	if s.cache != nil {
		if err := s.cache.CacheSubscriberCount(count, subscriberCountTTL); err != nil {
			s.logger.Warn("写入订阅计数缓存失败", zap.Error(err))
		}
	}
	return count, nil
}
