package memory

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"teamsite/backend/internal/domain"
	"teamsite/backend/internal/storage"
)

// Store 使用内存保存全部数据，主要用于开发验证和测试。
type Store struct {
	mu sync.RWMutex

	users       map[string]*domain.User // userID -> user
	usersByMail map[string]string       // email -> userID

	subscribers  map[uint]*domain.Subscriber // subscriberID -> subscriber
	subsByEmail  map[string]uint             // email -> subscriberID
	subsByToken  map[string]uint             // unsubscribe token -> subscriberID
	nextSubID    uint
	newsletters  map[uint]*domain.Newsletter
	nextNewsID   uint
	requests     map[uint]*domain.NewsletterRequest
	nextReqID    uint
	blogs        map[uint]*domain.Blog
	blogsBySlug  map[string]uint
	nextBlogID   uint
	projects     map[uint]*domain.Project
	projsBySlug  map[string]uint
	nextProjID   uint
	activities   map[uint]*domain.Activity
	nextActID    uint
}

// NewStore 创建一个内存存储实例。
func NewStore() *Store {
	return &Store{
		users:       make(map[string]*domain.User),
		usersByMail: make(map[string]string),
		subscribers: make(map[uint]*domain.Subscriber),
		subsByEmail: make(map[string]uint),
		subsByToken: make(map[string]uint),
		nextSubID:   1,
		newsletters: make(map[uint]*domain.Newsletter),
		nextNewsID:  1,
		requests:    make(map[uint]*domain.NewsletterRequest),
		nextReqID:   1,
		blogs:       make(map[uint]*domain.Blog),
		blogsBySlug: make(map[string]uint),
		nextBlogID:  1,
		projects:    make(map[uint]*domain.Project),
		projsBySlug: make(map[string]uint),
		nextProjID:  1,
		activities:  make(map[uint]*domain.Activity),
		nextActID:   1,
	}
}

// ========== User Repository ==========

// CreateUser 创建新用户。
func (s *Store) CreateUser(user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.usersByMail[user.Email]; exists {
		return fmt.Errorf("email already exists")
	}

	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	copied := *user
	s.users[user.ID] = &copied
	s.usersByMail[user.Email] = user.ID
	return nil
}

// GetUserByID 根据 ID 获取用户。
func (s *Store) GetUserByID(id string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return nil, storage.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

// GetUserByEmail 根据邮箱获取用户。
func (s *Store) GetUserByEmail(email string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.usersByMail[email]
	if !ok {
		return nil, storage.ErrUserNotFound
	}
	copied := *s.users[id]
	return &copied, nil
}

// UpdateUser 更新用户信息。
func (s *Store) UpdateUser(user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.users[user.ID]
	if !ok {
		return storage.ErrUserNotFound
	}

	// 邮箱变更时维护索引
	if existing.Email != user.Email {
		delete(s.usersByMail, existing.Email)
		s.usersByMail[user.Email] = user.ID
	}

	user.UpdatedAt = time.Now().UTC()
	copied := *user
	s.users[user.ID] = &copied
	return nil
}

// UpdateLastLogin 更新用户最后登录时间。
func (s *Store) UpdateLastLogin(userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[userID]
	if !ok {
		return storage.ErrUserNotFound
	}
	now := time.Now().UTC()
	user.LastLoginAt = &now
	user.UpdatedAt = now
	return nil
}

// ========== Subscriber Repository ==========

// SaveSubscriber 保存订阅者（新建或更新）。
func (s *Store) SaveSubscriber(sub *domain.Subscriber) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sub.ID == 0 {
		sub.ID = s.nextSubID
		s.nextSubID++
		if sub.CreatedAt.IsZero() {
			sub.CreatedAt = time.Now().UTC()
		}
	} else if existing, ok := s.subscribers[sub.ID]; ok {
		// 维护二级索引
		if existing.Email != sub.Email {
			delete(s.subsByEmail, existing.Email)
		}
		if existing.UnsubscribeToken != sub.UnsubscribeToken {
			delete(s.subsByToken, existing.UnsubscribeToken)
		}
	}

	copied := *sub
	s.subscribers[sub.ID] = &copied
	s.subsByEmail[sub.Email] = sub.ID
	if sub.UnsubscribeToken != "" {
		s.subsByToken[sub.UnsubscribeToken] = sub.ID
	}
	return nil
}

// GetSubscriber 根据 ID 获取订阅者。
func (s *Store) GetSubscriber(id uint) (*domain.Subscriber, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sub, ok := s.subscribers[id]
	if !ok {
		return nil, storage.ErrSubscriberNotFound
	}
	copied := *sub
	return &copied, nil
}

// GetSubscriberByEmail 根据邮箱获取订阅者。
func (s *Store) GetSubscriberByEmail(email string) (*domain.Subscriber, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.subsByEmail[email]
	if !ok {
		return nil, storage.ErrSubscriberNotFound
	}
	copied := *s.subscribers[id]
	return &copied, nil
}

// GetSubscriberByToken 根据退订令牌获取订阅者。
func (s *Store) GetSubscriberByToken(token string) (*domain.Subscriber, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.subsByToken[token]
	if !ok {
		return nil, storage.ErrSubscriberNotFound
	}
	copied := *s.subscribers[id]
	return &copied, nil
}

// ListActiveSubscribers 返回全部激活订阅者，按订阅时间倒序。
func (s *Store) ListActiveSubscribers() ([]domain.Subscriber, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	subs := make([]domain.Subscriber, 0)
	for _, sub := range s.subscribers {
		if sub.IsActive {
			subs = append(subs, *sub)
		}
	}
	sort.Slice(subs, func(i, j int) bool {
		ti, tj := subs[i].SubscribedAt, subs[j].SubscribedAt
		if ti == nil || tj == nil {
			return subs[i].ID > subs[j].ID
		}
		return ti.After(*tj)
	})
	return subs, nil
}

// ListSubscribers 分页列出订阅者，可按激活状态过滤，按订阅时间倒序。
func (s *Store) ListSubscribers(activeOnly *bool, page, pageSize int) ([]domain.Subscriber, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]domain.Subscriber, 0)
	for _, sub := range s.subscribers {
		if activeOnly != nil && sub.IsActive != *activeOnly {
			continue
		}
		items = append(items, *sub)
	}
	sort.Slice(items, func(i, j int) bool {
		ti, tj := items[i].SubscribedAt, items[j].SubscribedAt
		if ti == nil || tj == nil {
			return items[i].ID > items[j].ID
		}
		return ti.After(*tj)
	})

	total := int64(len(items))
	return paginate(items, page, pageSize), total, nil
}

// CountSubscribers 统计订阅者数量。
func (s *Store) CountSubscribers(activeOnly bool) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !activeOnly {
		return int64(len(s.subscribers)), nil
	}
	var count int64
	for _, sub := range s.subscribers {
		if sub.IsActive {
			count++
		}
	}
	return count, nil
}

// ========== Newsletter Repository ==========

// SaveNewsletter 保存通讯（新建或更新）。
func (s *Store) SaveNewsletter(n *domain.Newsletter) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	if n.ID == 0 {
		n.ID = s.nextNewsID
		s.nextNewsID++
		n.CreatedAt = now
	}
	n.UpdatedAt = now

	copied := *n
	s.newsletters[n.ID] = &copied
	return nil
}

// GetNewsletter 根据 ID 获取通讯。
func (s *Store) GetNewsletter(id uint) (*domain.Newsletter, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n, ok := s.newsletters[id]
	if !ok {
		return nil, storage.ErrNewsletterNotFound
	}
	copied := *n
	return &copied, nil
}

// ListNewsletters 分页列出通讯，可按状态过滤，按创建时间倒序。
func (s *Store) ListNewsletters(status *domain.NewsletterStatus, page, pageSize int) ([]domain.Newsletter, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]domain.Newsletter, 0)
	for _, n := range s.newsletters {
		if status != nil && n.Status != *status {
			continue
		}
		items = append(items, *n)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})

	total := int64(len(items))
	return paginate(items, page, pageSize), total, nil
}

// MarkNewsletterSent 将通讯标记为已发送，重复调用返回 ErrNewsletterAlreadySent。
func (s *Store) MarkNewsletterSent(id uint, recipientCount int, sentAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, ok := s.newsletters[id]
	if !ok {
		return storage.ErrNewsletterNotFound
	}
	if n.Status == domain.NewsletterStatusSent {
		return storage.ErrNewsletterAlreadySent
	}

	sentAtUTC := sentAt.UTC()
	n.Status = domain.NewsletterStatusSent
	n.RecipientCount = recipientCount
	n.SentAt = &sentAtUTC
	n.UpdatedAt = time.Now().UTC()
	return nil
}

// MarkNewsletterFailed 将通讯标记为发送失败。
func (s *Store) MarkNewsletterFailed(id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, ok := s.newsletters[id]
	if !ok {
		return storage.ErrNewsletterNotFound
	}
	if n.Status == domain.NewsletterStatusSent {
		return nil
	}
	n.Status = domain.NewsletterStatusFailed
	n.UpdatedAt = time.Now().UTC()
	return nil
}

// DeleteNewsletter 删除通讯。
func (s *Store) DeleteNewsletter(id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.newsletters[id]; !ok {
		return storage.ErrNewsletterNotFound
	}
	delete(s.newsletters, id)
	return nil
}

// ========== Newsletter Request Repository ==========

// SaveRequest 保存通讯主题请求。
func (s *Store) SaveRequest(req *domain.NewsletterRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	if req.ID == 0 {
		req.ID = s.nextReqID
		s.nextReqID++
		req.CreatedAt = now
	}
	req.UpdatedAt = now

	copied := *req
	s.requests[req.ID] = &copied
	return nil
}

// GetRequest 根据 ID 获取主题请求。
func (s *Store) GetRequest(id uint) (*domain.NewsletterRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	req, ok := s.requests[id]
	if !ok {
		return nil, storage.ErrRequestNotFound
	}
	copied := *req
	return &copied, nil
}

// ListRequests 分页列出主题请求，按优先级、票数和创建时间倒序。
func (s *Store) ListRequests(status *domain.RequestStatus, page, pageSize int) ([]domain.NewsletterRequest, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]domain.NewsletterRequest, 0)
	for _, req := range s.requests {
		if status != nil && req.Status != *status {
			continue
		}
		items = append(items, *req)
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Priority != items[j].Priority {
			return items[i].Priority > items[j].Priority
		}
		if items[i].Votes != items[j].Votes {
			return items[i].Votes > items[j].Votes
		}
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})

	total := int64(len(items))
	return paginate(items, page, pageSize), total, nil
}

// UpdateRequest 更新主题请求。
func (s *Store) UpdateRequest(req *domain.NewsletterRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.requests[req.ID]; !ok {
		return storage.ErrRequestNotFound
	}
	req.UpdatedAt = time.Now().UTC()
	copied := *req
	s.requests[req.ID] = &copied
	return nil
}

// DeleteRequest 删除主题请求。
func (s *Store) DeleteRequest(id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.requests[id]; !ok {
		return storage.ErrRequestNotFound
	}
	delete(s.requests, id)
	return nil
}

// Close 关闭存储（内存存储无需清理）。
func (s *Store) Close() error {
	return nil
}

// Health 检查存储健康状态。
func (s *Store) Health() error {
	return nil
}

// paginate 对已排序的切片执行分页截取。
func paginate[T any](items []T, page, pageSize int) []T {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}
	start := (page - 1) * pageSize
	if start >= len(items) {
		return []T{}
	}
	end := start + pageSize
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
