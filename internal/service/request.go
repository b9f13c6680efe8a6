package service

import (
	"go.uber.org/zap"

	"teamsite/backend/internal/domain"
	"teamsite/backend/internal/storage"
)

// RequestService 通讯主题请求服务：读者提交想看的主题，管理员审核采纳。
type RequestService struct {
	store  storage.NewsletterRequestRepository
	logger *zap.Logger
}

// NewRequestService 创建主题请求服务
func NewRequestService(store storage.NewsletterRequestRepository, logger *zap.Logger) *RequestService {
	return &RequestService{
		store:  store,
		logger: logger,
	}
}

// RequestInput 主题请求的输入
type RequestInput struct {
	Email       string
	Name        string
	Topic       string
	Description string
	UserID      *string
}

// Create 提交主题请求
func (s *RequestService) Create(input RequestInput) (*domain.NewsletterRequest, error) {
	email := domain.NormalizeEmail(input.Email)
	if err := domain.ValidateEmail(email); err != nil {
		return nil, err
	}

	req := &domain.NewsletterRequest{
		Email:       email,
		Name:        input.Name,
		Topic:       input.Topic,
		Description: input.Description,
		UserID:      input.UserID,
		Status:      domain.RequestStatusPending,
	}

	if err := s.store.SaveRequest(req); err != nil {
		return nil, err
	}

	s.logger.Info("新增主题请求",
		zap.Uint("id", req.ID),
		zap.String("topic", req.Topic),
		zap.String("email", req.Email))
	return req, nil
}

// Get 获取单条主题请求
func (s *RequestService) Get(id uint) (*domain.NewsletterRequest, error) {
	return s.store.GetRequest(id)
}

// List 分页列出主题请求，按优先级和票数倒序
func (s *RequestService) List(status *domain.RequestStatus, page Page) ([]domain.NewsletterRequest, PageResult, error) {
	page = page.Normalize()
	items, total, err := s.store.ListRequests(status, page.Number, page.Size)
	if err != nil {
		return nil, PageResult{}, err
	}
	return items, NewPageResult(total, page), nil
}

// Vote 为主题请求投票
func (s *RequestService) Vote(id uint) (*domain.NewsletterRequest, error) {
	req, err := s.store.GetRequest(id)
	if err != nil {
		return nil, err
	}

	req.Votes++
	if err := s.store.UpdateRequest(req); err != nil {
		return nil, err
	}
	return req, nil
}

// SetPriority 设置主题请求的优先级，数值越大排序越靠前
func (s *RequestService) SetPriority(id uint, priority int) (*domain.NewsletterRequest, error) {
	req, err := s.store.GetRequest(id)
	if err != nil {
		return nil, err
	}

	req.Priority = priority
	if err := s.store.UpdateRequest(req); err != nil {
		return nil, err
	}

	s.logger.Info("主题请求优先级已更新",
		zap.Uint("id", req.ID),
		zap.Int("priority", priority))
	return req, nil
}

// Accept 采纳主题请求，可选关联生成的通讯
func (s *RequestService) Accept(id uint, newsletterID *uint) (*domain.NewsletterRequest, error) {
	return s.transition(id, domain.RequestStatusAccepted, newsletterID)
}

// Reject 拒绝主题请求
func (s *RequestService) Reject(id uint) (*domain.NewsletterRequest, error) {
	return s.transition(id, domain.RequestStatusRejected, nil)
}

func (s *RequestService) transition(id uint, status domain.RequestStatus, newsletterID *uint) (*domain.NewsletterRequest, error) {
	req, err := s.store.GetRequest(id)
	if err != nil {
		return nil, err
	}

	// 只有 pending 的请求可以审核
	if req.Status != domain.RequestStatusPending {
		return nil, ErrInvalidStatus
	}

	req.Status = status
	if newsletterID != nil {
		req.NewsletterID = newsletterID
	}

	if err := s.store.UpdateRequest(req); err != nil {
		return nil, err
	}

	s.logger.Info("主题请求审核完成",
		zap.Uint("id", req.ID),
		zap.String("status", string(status)))
	return req, nil
}

// Delete 删除主题请求
func (s *RequestService) Delete(id uint) error {
	return s.store.DeleteRequest(id)
}
