package service

import (
	"time"

	"go.uber.org/zap"

	"teamsite/backend/internal/domain"
	"teamsite/backend/internal/storage"
)

// ActivityService 团队活动服务：活动记录的增删改查。
// 更新和删除仅限创建者本人。
type ActivityService struct {
	store  storage.ActivityRepository
	logger *zap.Logger
}

// NewActivityService 创建活动服务
func NewActivityService(store storage.ActivityRepository, logger *zap.Logger) *ActivityService {
	return &ActivityService{
		store:  store,
		logger: logger,
	}
}

// ActivityInput 活动创建与更新的输入
type ActivityInput struct {
	Title        string
	Description  string
	ActivityDate time.Time
	Type         domain.ActivityType
	Participants *int
	Location     string
	Images       []string
}

// Create 创建活动记录
func (s *ActivityService) Create(input ActivityInput, creatorID string) (*domain.Activity, error) {
	a := &domain.Activity{
		Title:        input.Title,
		Description:  input.Description,
		ActivityDate: input.ActivityDate,
		Type:         input.Type,
		Participants: input.Participants,
		Location:     input.Location,
		Images:       input.Images,
		CreatedBy:    creatorID,
	}
	if a.Images == nil {
		a.Images = []string{}
	}

	if err := s.store.SaveActivity(a); err != nil {
		return nil, err
	}

	s.logger.Info("创建活动记录",
		zap.Uint("id", a.ID),
		zap.String("title", a.Title),
		zap.String("type", string(a.Type)))
	return a, nil
}

// Get 获取单条活动
func (s *ActivityService) Get(id uint) (*domain.Activity, error) {
	return s.store.GetActivity(id)
}

// List 分页列出活动，可按类型过滤，按活动日期倒序
func (s *ActivityService) List(activityType *domain.ActivityType, page Page) ([]domain.Activity, PageResult, error) {
	page = page.Normalize()
	items, total, err := s.store.ListActivities(activityType, page.Number, page.Size)
	if err != nil {
		return nil, PageResult{}, err
	}
	return items, NewPageResult(total, page), nil
}

// Update 更新活动，仅限创建者
func (s *ActivityService) Update(id uint, input ActivityInput, actorID string) (*domain.Activity, error) {
	a, err := s.store.GetActivity(id)
	if err != nil {
		return nil, err
	}
	if a.CreatedBy != actorID {
		return nil, ErrNotCreator
	}

	a.Title = input.Title
	a.Description = input.Description
	a.ActivityDate = input.ActivityDate
	a.Type = input.Type
	a.Participants = input.Participants
	a.Location = input.Location
	if input.Images != nil {
		a.Images = input.Images
	}

	if err := s.store.UpdateActivity(a); err != nil {
		return nil, err
	}
	return a, nil
}

// Delete 删除活动，仅限创建者
func (s *ActivityService) Delete(id uint, actorID string) error {
	a, err := s.store.GetActivity(id)
	if err != nil {
		return err
	}
	if a.CreatedBy != actorID {
		return ErrNotCreator
	}

	if err := s.store.DeleteActivity(id); err != nil {
		return err
	}

	s.logger.Info("删除活动记录", zap.Uint("id", id))
	return nil
}
