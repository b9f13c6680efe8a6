package postgres

import (
	"time"

	"gorm.io/gorm"

	"teamsite/backend/internal/domain"
	"teamsite/backend/internal/storage"
)

// ========== Subscriber Repository ==========

// SaveSubscriber 保存订阅者（新建或更新）
func (s *Store) SaveSubscriber(sub *domain.Subscriber) error {
	return s.db.Save(sub).Error
}

// GetSubscriber 根据 ID 获取订阅者
func (s *Store) GetSubscriber(id uint) (*domain.Subscriber, error) {
	var sub domain.Subscriber
	err := s.db.Where("id = ?", id).First(&sub).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, storage.ErrSubscriberNotFound
		}
		return nil, err
	}
	return &sub, nil
}

// GetSubscriberByEmail 根据邮箱获取订阅者（无论激活与否）
func (s *Store) GetSubscriberByEmail(email string) (*domain.Subscriber, error) {
	var sub domain.Subscriber
	err := s.db.Where("email = ?", email).First(&sub).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, storage.ErrSubscriberNotFound
		}
		return nil, err
	}
	return &sub, nil
}

// GetSubscriberByToken 根据退订令牌获取订阅者
func (s *Store) GetSubscriberByToken(token string) (*domain.Subscriber, error) {
	var sub domain.Subscriber
	err := s.db.Where("unsubscribe_token = ?", token).First(&sub).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, storage.ErrSubscriberNotFound
		}
		return nil, err
	}
	return &sub, nil
}

// ListActiveSubscribers 返回全部激活订阅者，按订阅时间倒序
func (s *Store) ListActiveSubscribers() ([]domain.Subscriber, error) {
	var subs []domain.Subscriber
	err := s.db.Where("is_active = ?", true).Order("subscribed_at DESC").Find(&subs).Error
	return subs, err
}

// ListSubscribers 分页列出订阅者，可按激活状态过滤，按订阅时间倒序
func (s *Store) ListSubscribers(activeOnly *bool, page, pageSize int) ([]domain.Subscriber, int64, error) {
	query := s.db.Model(&domain.Subscriber{})

	if activeOnly != nil {
		query = query.Where("is_active = ?", *activeOnly)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []domain.Subscriber
	offset := (page - 1) * pageSize
	err := query.Offset(offset).Limit(pageSize).Order("subscribed_at DESC").Find(&items).Error

	return items, total, err
}

// CountSubscribers 统计订阅者数量
func (s *Store) CountSubscribers(activeOnly bool) (int64, error) {
	query := s.db.Model(&domain.Subscriber{})
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}

	var count int64
	err := query.Count(&count).Error
	return count, err
}

// ========== Newsletter Repository ==========

// SaveNewsletter 保存通讯（新建或更新）
func (s *Store) SaveNewsletter(n *domain.Newsletter) error {
	now := time.Now().UTC()
	if n.ID == 0 {
		n.CreatedAt = now
	}
	n.UpdatedAt = now
	return s.db.Save(n).Error
}

// GetNewsletter 根据 ID 获取通讯
func (s *Store) GetNewsletter(id uint) (*domain.Newsletter, error) {
	var n domain.Newsletter
	err := s.db.Where("id = ?", id).First(&n).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, storage.ErrNewsletterNotFound
		}
		return nil, err
	}
	return &n, nil
}

// ListNewsletters 分页列出通讯，可按状态过滤，按创建时间倒序
func (s *Store) ListNewsletters(status *domain.NewsletterStatus, page, pageSize int) ([]domain.Newsletter, int64, error) {
	query := s.db.Model(&domain.Newsletter{})

	if status != nil {
		query = query.Where("status = ?", *status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []domain.Newsletter
	offset := (page - 1) * pageSize
	err := query.Offset(offset).Limit(pageSize).Order("created_at DESC").Find(&items).Error

	return items, total, err
}

// MarkNewsletterSent 将通讯标记为已发送
//
// 使用条件更新保证幂等：仅当当前状态不是 sent 时更新，
// RowsAffected 为 0 说明通讯不存在或已发送过。
func (s *Store) MarkNewsletterSent(id uint, recipientCount int, sentAt time.Time) error {
	result := s.db.Model(&domain.Newsletter{}).
		Where("id = ? AND status <> ?", id, domain.NewsletterStatusSent).
		Updates(map[string]interface{}{
			"status":          domain.NewsletterStatusSent,
			"recipient_count": recipientCount,
			"sent_at":         sentAt.UTC(),
			"updated_at":      time.Now().UTC(),
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		// 区分不存在与重复发送
		var n domain.Newsletter
		if err := s.db.Where("id = ?", id).First(&n).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return storage.ErrNewsletterNotFound
			}
			return err
		}
		return storage.ErrNewsletterAlreadySent
	}
	return nil
}

// MarkNewsletterFailed 将通讯标记为发送失败
func (s *Store) MarkNewsletterFailed(id uint) error {
	result := s.db.Model(&domain.Newsletter{}).
		Where("id = ? AND status <> ?", id, domain.NewsletterStatusSent).
		Updates(map[string]interface{}{
			"status":     domain.NewsletterStatusFailed,
			"updated_at": time.Now().UTC(),
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return storage.ErrNewsletterNotFound
	}
	return nil
}

// DeleteNewsletter 删除通讯
func (s *Store) DeleteNewsletter(id uint) error {
	result := s.db.Where("id = ?", id).Delete(&domain.Newsletter{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return storage.ErrNewsletterNotFound
	}
	return nil
}

// ========== Newsletter Request Repository ==========

// SaveRequest 保存通讯主题请求
func (s *Store) SaveRequest(req *domain.NewsletterRequest) error {
	now := time.Now().UTC()
	if req.ID == 0 {
		req.CreatedAt = now
	}
	req.UpdatedAt = now
	return s.db.Save(req).Error
}

// GetRequest 根据 ID 获取主题请求
func (s *Store) GetRequest(id uint) (*domain.NewsletterRequest, error) {
	var req domain.NewsletterRequest
	err := s.db.Where("id = ?", id).First(&req).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, storage.ErrRequestNotFound
		}
		return nil, err
	}
	return &req, nil
}

// ListRequests 分页列出主题请求，可按状态过滤，按优先级、票数和创建时间倒序
func (s *Store) ListRequests(status *domain.RequestStatus, page, pageSize int) ([]domain.NewsletterRequest, int64, error) {
	query := s.db.Model(&domain.NewsletterRequest{})

	if status != nil {
		query = query.Where("status = ?", *status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []domain.NewsletterRequest
	offset := (page - 1) * pageSize
	err := query.Offset(offset).Limit(pageSize).
		Order("priority DESC, votes DESC, created_at DESC").
		Find(&items).Error

	return items, total, err
}

// UpdateRequest 更新主题请求
func (s *Store) UpdateRequest(req *domain.NewsletterRequest) error {
	req.UpdatedAt = time.Now().UTC()
	return s.db.Save(req).Error
}

// DeleteRequest 删除主题请求
func (s *Store) DeleteRequest(id uint) error {
	result := s.db.Where("id = ?", id).Delete(&domain.NewsletterRequest{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return storage.ErrRequestNotFound
	}
	return nil
}
