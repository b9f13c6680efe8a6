package postgres

import (
	"time"

	"gorm.io/gorm"

	"teamsite/backend/internal/domain"
	"teamsite/backend/internal/storage"
)

// ========== Blog Repository ==========

// SaveBlog 保存博客（新建或更新）
func (s *Store) SaveBlog(blog *domain.Blog) error {
	now := time.Now().UTC()
	if blog.ID == 0 {
		blog.CreatedAt = now
	}
	blog.UpdatedAt = now
	return s.db.Save(blog).Error
}

// GetBlog 根据 ID 获取博客
func (s *Store) GetBlog(id uint) (*domain.Blog, error) {
	var blog domain.Blog
	err := s.db.Where("id = ?", id).First(&blog).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, storage.ErrBlogNotFound
		}
		return nil, err
	}
	return &blog, nil
}

// GetBlogBySlug 根据 slug 获取博客
func (s *Store) GetBlogBySlug(slug string) (*domain.Blog, error) {
	var blog domain.Blog
	err := s.db.Where("slug = ?", slug).First(&blog).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, storage.ErrBlogNotFound
		}
		return nil, err
	}
	return &blog, nil
}

// ListBlogs 分页列出博客，可按状态过滤，按创建时间倒序
func (s *Store) ListBlogs(status *domain.BlogStatus, page, pageSize int) ([]domain.Blog, int64, error) {
	query := s.db.Model(&domain.Blog{})

	if status != nil {
		query = query.Where("status = ?", *status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []domain.Blog
	offset := (page - 1) * pageSize
	err := query.Offset(offset).Limit(pageSize).Order("created_at DESC").Find(&items).Error

	return items, total, err
}

// ListRecentPublishedBlogs 查询指定时间之后发布的博客，按发布时间倒序
func (s *Store) ListRecentPublishedBlogs(since time.Time, limit int) ([]domain.Blog, error) {
	var blogs []domain.Blog
	err := s.db.
		Where("status = ? AND published_at IS NOT NULL AND published_at >= ?", domain.BlogStatusPublished, since).
		Order("published_at DESC").
		Limit(limit).
		Find(&blogs).Error
	return blogs, err
}

// UpdateBlog 更新博客
func (s *Store) UpdateBlog(blog *domain.Blog) error {
	blog.UpdatedAt = time.Now().UTC()
	return s.db.Save(blog).Error
}

// IncrementBlogViews 增加博客浏览计数
func (s *Store) IncrementBlogViews(id uint) error {
	return s.db.Model(&domain.Blog{}).
		Where("id = ?", id).
		UpdateColumn("view_count", gorm.Expr("view_count + 1")).
		Error
}

// DeleteBlog 删除博客
func (s *Store) DeleteBlog(id uint) error {
	result := s.db.Where("id = ?", id).Delete(&domain.Blog{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return storage.ErrBlogNotFound
	}
	return nil
}

// ========== Project Repository ==========

// SaveProject 保存项目（新建或更新）
func (s *Store) SaveProject(p *domain.Project) error {
	now := time.Now().UTC()
	if p.ID == 0 {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
	return s.db.Save(p).Error
}

// GetProject 根据 ID 获取项目
func (s *Store) GetProject(id uint) (*domain.Project, error) {
	var p domain.Project
	err := s.db.Where("id = ?", id).First(&p).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, storage.ErrProjectNotFound
		}
		return nil, err
	}
	return &p, nil
}

// GetProjectBySlug 根据 slug 获取项目
func (s *Store) GetProjectBySlug(slug string) (*domain.Project, error) {
	var p domain.Project
	err := s.db.Where("slug = ?", slug).First(&p).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, storage.ErrProjectNotFound
		}
		return nil, err
	}
	return &p, nil
}

// ListProjects 分页列出项目，可按状态过滤，按更新时间倒序
func (s *Store) ListProjects(status *domain.ProjectStatus, page, pageSize int) ([]domain.Project, int64, error) {
	query := s.db.Model(&domain.Project{})

	if status != nil {
		query = query.Where("status = ?", *status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []domain.Project
	offset := (page - 1) * pageSize
	err := query.Offset(offset).Limit(pageSize).Order("updated_at DESC").Find(&items).Error

	return items, total, err
}

// ListRecentActiveProjects 查询指定时间之后更新的活跃项目
func (s *Store) ListRecentActiveProjects(since time.Time, limit int) ([]domain.Project, error) {
	var projects []domain.Project
	err := s.db.
		Where("status IN ? AND updated_at >= ?",
			[]domain.ProjectStatus{domain.ProjectStatusActive, domain.ProjectStatusInProgress}, since).
		Order("updated_at DESC").
		Limit(limit).
		Find(&projects).Error
	return projects, err
}

// UpdateProject 更新项目
func (s *Store) UpdateProject(p *domain.Project) error {
	p.UpdatedAt = time.Now().UTC()
	return s.db.Save(p).Error
}

// DeleteProject 删除项目
func (s *Store) DeleteProject(id uint) error {
	result := s.db.Where("id = ?", id).Delete(&domain.Project{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return storage.ErrProjectNotFound
	}
	return nil
}

// ========== Activity Repository ==========

// SaveActivity 保存活动（新建或更新）
func (s *Store) SaveActivity(a *domain.Activity) error {
	now := time.Now().UTC()
	if a.ID == 0 {
		a.CreatedAt = now
	}
	a.UpdatedAt = now
	return s.db.Save(a).Error
}

// GetActivity 根据 ID 获取活动
func (s *Store) GetActivity(id uint) (*domain.Activity, error) {
	var a domain.Activity
	err := s.db.Where("id = ?", id).First(&a).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, storage.ErrActivityNotFound
		}
		return nil, err
	}
	return &a, nil
}

// ListActivities 分页列出活动，可按类型过滤，按活动日期倒序
func (s *Store) ListActivities(activityType *domain.ActivityType, page, pageSize int) ([]domain.Activity, int64, error) {
	query := s.db.Model(&domain.Activity{})

	if activityType != nil {
		query = query.Where("type = ?", *activityType)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []domain.Activity
	offset := (page - 1) * pageSize
	err := query.Offset(offset).Limit(pageSize).Order("activity_date DESC").Find(&items).Error

	return items, total, err
}

// UpdateActivity 更新活动
func (s *Store) UpdateActivity(a *domain.Activity) error {
	a.UpdatedAt = time.Now().UTC()
	return s.db.Save(a).Error
}

// DeleteActivity 删除活动
func (s *Store) DeleteActivity(id uint) error {
	result := s.db.Where("id = ?", id).Delete(&domain.Activity{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return storage.ErrActivityNotFound
	}
	return nil
}
