package service

import (
	"go.uber.org/zap"

	"teamsite/backend/internal/domain"
	"teamsite/backend/internal/storage"
)

// ProjectService 项目展示服务
type ProjectService struct {
	store  storage.ProjectRepository
	logger *zap.Logger
}

// NewProjectService 创建项目服务
func NewProjectService(store storage.ProjectRepository, logger *zap.Logger) *ProjectService {
	return &ProjectService{
		store:  store,
		logger: logger,
	}
}

// ProjectInput 项目创建与更新的输入
type ProjectInput struct {
	Name         string
	Slug         string // 留空则从名称生成
	Description  string
	Content      string
	GithubURL    string
	DemoURL      string
	ThumbnailURL string
	TechStack    []string
	Status       domain.ProjectStatus
	Category     string
}

// Create 创建项目
func (s *ProjectService) Create(input ProjectInput) (*domain.Project, error) {
	slug := input.Slug
	if slug == "" {
		slug = Slugify(input.Name)
	}

	if _, err := s.store.GetProjectBySlug(slug); err == nil {
		return nil, ErrSlugExists
	}

	status := input.Status
	if status == "" {
		status = domain.ProjectStatusActive
	}

	p := &domain.Project{
		Name:         input.Name,
		Slug:         slug,
		Description:  input.Description,
		Content:      input.Content,
		GithubURL:    input.GithubURL,
		DemoURL:      input.DemoURL,
		ThumbnailURL: input.ThumbnailURL,
		TechStack:    input.TechStack,
		Status:       status,
		Category:     input.Category,
	}

	if err := s.store.SaveProject(p); err != nil {
		return nil, err
	}

	s.logger.Info("创建项目", zap.Uint("id", p.ID), zap.String("slug", p.Slug))
	return p, nil
}

// Get 根据 ID 获取项目
func (s *ProjectService) Get(id uint) (*domain.Project, error) {
	return s.store.GetProject(id)
}

// GetBySlug 根据 slug 获取项目
func (s *ProjectService) GetBySlug(slug string) (*domain.Project, error) {
	return s.store.GetProjectBySlug(slug)
}

// List 分页列出项目
func (s *ProjectService) List(status *domain.ProjectStatus, page Page) ([]domain.Project, PageResult, error) {
	page = page.Normalize()
	items, total, err := s.store.ListProjects(status, page.Number, page.Size)
	if err != nil {
		return nil, PageResult{}, err
	}
	return items, NewPageResult(total, page), nil
}

// Update 更新项目
func (s *ProjectService) Update(id uint, input ProjectInput) (*domain.Project, error) {
	p, err := s.store.GetProject(id)
	if err != nil {
		return nil, err
	}

	if input.Slug != "" && input.Slug != p.Slug {
		if _, err := s.store.GetProjectBySlug(input.Slug); err == nil {
			return nil, ErrSlugExists
		}
		p.Slug = input.Slug
	}

	if input.Name != "" {
		p.Name = input.Name
	}
	if input.Description != "" {
		p.Description = input.Description
	}
	if input.Content != "" {
		p.Content = input.Content
	}
	if input.GithubURL != "" {
		p.GithubURL = input.GithubURL
	}
	if input.DemoURL != "" {
		p.DemoURL = input.DemoURL
	}
	if input.ThumbnailURL != "" {
		p.ThumbnailURL = input.ThumbnailURL
	}
	if input.TechStack != nil {
		p.TechStack = input.TechStack
	}
	if input.Status != "" {
		p.Status = input.Status
	}
	if input.Category != "" {
		p.Category = input.Category
	}

	if err := s.store.UpdateProject(p); err != nil {
		return nil, err
	}

	s.logger.Info("更新项目", zap.Uint("id", p.ID))
	return p, nil
}

// Delete 删除项目
func (s *ProjectService) Delete(id uint) error {
	return s.store.DeleteProject(id)
}
