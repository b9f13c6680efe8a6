package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"teamsite/backend/internal/domain"
	"teamsite/backend/internal/mail"
	"teamsite/backend/internal/monitoring"
	"teamsite/backend/internal/storage"
)

// DefaultBatchSize 批量发送的默认每批收件人数量
const DefaultBatchSize = 50

// EventPublisher 发布通讯生命周期事件（可选依赖，nil 安全）。
type EventPublisher interface {
	PublishNewsletterEvent(event string, newsletterID uint, payload map[string]interface{})
}

// SendReport 一次群发的结果汇总
type SendReport struct {
	NewsletterID     uint  `json:"newsletter_id"`
	TotalSubscribers int   `json:"total_subscribers"`
	RecipientCount   int   `json:"recipient_count"` // 成功投递的收件人数
	BatchSize        int   `json:"batch_size"`
	BatchCount       int   `json:"batch_count"`
	FailedBatches    []int `json:"failed_batches,omitempty"` // 失败批次序号（从 1 开始）
	AlreadySent      bool  `json:"already_sent"`
}

// NewsletterCache 通讯详情缓存接口，由 Redis 缓存实现
type NewsletterCache interface {
	CacheNewsletter(n *domain.Newsletter, ttl time.Duration) error
	GetCachedNewsletter(id uint) (*domain.Newsletter, error)
	DeleteCachedNewsletter(id uint) error
}

// 已发送通讯内容不再变化，缓存可以长一些
const newsletterCacheTTL = time.Hour

// NewsletterService 通讯服务：草稿管理与批量发送。
type NewsletterService struct {
	store     storage.NewsletterRepository
	subs      storage.SubscriberRepository
	sender    mail.Sender
	batchSize int
	events    EventPublisher
	cache     NewsletterCache
	logger    *zap.Logger
}

// NewNewsletterService 创建通讯服务
func NewNewsletterService(
	store storage.NewsletterRepository,
	subs storage.SubscriberRepository,
	sender mail.Sender,
	batchSize int,
	events EventPublisher,
	logger *zap.Logger,
) *NewsletterService {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &NewsletterService{
		store:     store,
		subs:      subs,
		sender:    sender,
		batchSize: batchSize,
		events:    events,
		logger:    logger,
	}
}

// SetCache 设置可选的通讯详情缓存
func (s *NewsletterService) SetCache(cache NewsletterCache) {
	s.cache = cache
}

// CreateInput 手动创建通讯的输入
type CreateInput struct {
	Title     string
	Summary   string
	Content   string
	CreatedBy *string
}

// Create 创建通讯草稿
func (s *NewsletterService) Create(input CreateInput) (*domain.Newsletter, error) {
	n := &domain.Newsletter{
		Title:           input.Title,
		Summary:         input.Summary,
		Content:         input.Content,
		Status:          domain.NewsletterStatusDraft,
		IsAutoGenerated: false,
		CreatedBy:       input.CreatedBy,
	}

	if err := s.store.SaveNewsletter(n); err != nil {
		return nil, err
	}

	s.logger.Info("创建通讯草稿", zap.Uint("id", n.ID), zap.String("title", n.Title))
	return n, nil
}

// Get 获取单条通讯
//
// 仅缓存已发送的通讯：归档页读多写少，草稿还在编辑中不缓存。
func (s *NewsletterService) Get(id uint) (*domain.Newsletter, error) {
	if s.cache != nil {
		if n, err := s.cache.GetCachedNewsletter(id); err == nil {
			return n, nil
		}
	}

	n, err := s.store.GetNewsletter(id)
	if err != nil {
		return nil, err
	}

	if s.cache != nil && n.IsSent() {
		if err := s.cache.CacheNewsletter(n, newsletterCacheTTL); err != nil {
			s.logger.Warn("写入通讯缓存失败", zap.Uint("id", id), zap.Error(err))
		}
	}
	return n, nil
}

// List 分页列出通讯
func (s *NewsletterService) List(status *domain.NewsletterStatus, page Page) ([]domain.Newsletter, PageResult, error) {
	page = page.Normalize()
	items, total, err := s.store.ListNewsletters(status, page.Number, page.Size)
	if err != nil {
		return nil, PageResult{}, err
	}
	return items, NewPageResult(total, page), nil
}

// Delete 删除通讯
func (s *NewsletterService) Delete(id uint) error {
	if err := s.store.DeleteNewsletter(id); err != nil {
		return err
	}
	if s.cache != nil {
		if err := s.cache.DeleteCachedNewsletter(id); err != nil {
			s.logger.Warn("删除通讯缓存失败", zap.Uint("id", id), zap.Error(err))
		}
	}
	return nil
}

// SendToAll 将通讯群发给全部激活订阅者
//
// 发送流程：
//  1. 已发送的通讯直接返回历史收件人数（幂等，不重复投递）
//  2. 无激活订阅者：返回 0，通讯保持原状态
//  3. 按批次顺序投递，单批失败不中断后续批次
//  4. 至少一批成功：标记 SENT，收件人数为成功批次的累计人数
//  5. 全部批次失败：标记 FAILED，返回 ErrSendFailed
func (s *NewsletterService) SendToAll(ctx context.Context, id uint) (*SendReport, error) {
	n, err := s.store.GetNewsletter(id)
	if err != nil {
		return nil, err
	}

	report := &SendReport{
		NewsletterID: id,
		BatchSize:    s.batchSize,
	}

	// 重复发送保护
	if n.IsSent() {
		s.logger.Warn("通讯已发送，跳过", zap.Uint("id", id))
		report.RecipientCount = n.RecipientCount
		report.AlreadySent = true
		return report, nil
	}

	subscribers, err := s.subs.ListActiveSubscribers()
	if err != nil {
		return nil, err
	}
	report.TotalSubscribers = len(subscribers)

	if len(subscribers) == 0 {
		s.logger.Warn("没有激活订阅者", zap.Uint("id", id))
		return report, nil
	}

	recipients := make([]mail.Recipient, len(subscribers))
	for i, sub := range subscribers {
		recipients[i] = mail.Recipient{
			Email:            sub.Email,
			UnsubscribeToken: sub.UnsubscribeToken,
		}
	}

	// 分批顺序投递
	sentCount := 0
	batchIndex := 0
	for start := 0; start < len(recipients); start += s.batchSize {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		end := start + s.batchSize
		if end > len(recipients) {
			end = len(recipients)
		}
		batch := recipients[start:end]
		batchIndex++

		if err := s.sender.SendNewsletter(ctx, batch, n.Title, n.Content); err != nil {
			s.logger.Error("批次投递失败",
				zap.Uint("id", id),
				zap.Int("batch", batchIndex),
				zap.Error(err))
			report.FailedBatches = append(report.FailedBatches, batchIndex)
			monitoring.NewsletterBatchesTotal.WithLabelValues("failed").Inc()
			continue
		}

		sentCount += len(batch)
		monitoring.NewsletterBatchesTotal.WithLabelValues("sent").Inc()
		s.logger.Info("批次投递成功",
			zap.Uint("id", id),
			zap.Int("batch", batchIndex),
			zap.Int("recipients", len(batch)))
	}

	report.BatchCount = batchIndex
	report.RecipientCount = sentCount

	// 全部批次失败：标记失败并报错
	if sentCount == 0 {
		if err := s.store.MarkNewsletterFailed(id); err != nil {
			s.logger.Error("标记发送失败状态出错", zap.Uint("id", id), zap.Error(err))
		}
		s.publish("newsletter.failed", id, map[string]interface{}{
			"batches": report.BatchCount,
		})
		return report, ErrSendFailed
	}

	// 至少一批成功：标记已发送
	if err := s.store.MarkNewsletterSent(id, sentCount, time.Now().UTC()); err != nil {
		if err == storage.ErrNewsletterAlreadySent {
			// 并发发送竞争，本次投递结果以先完成者为准
			report.AlreadySent = true
			return report, nil
		}
		return nil, err
	}

	monitoring.NewslettersSentTotal.Inc()
	monitoring.NewsletterRecipientsTotal.Add(float64(sentCount))

	s.publish("newsletter.sent", id, map[string]interface{}{
		"recipient_count": sentCount,
		"batches":         report.BatchCount,
	})

	s.logger.Info("通讯群发完成",
		zap.Uint("id", id),
		zap.Int("sent", sentCount),
		zap.Int("total_subscribers", report.TotalSubscribers),
		zap.Ints("failed_batches", report.FailedBatches))

	return report, nil
}

func (s *NewsletterService) publish(event string, id uint, payload map[string]interface{}) {
	if s.events != nil {
		s.events.PublishNewsletterEvent(event, id, payload)
	}
}
