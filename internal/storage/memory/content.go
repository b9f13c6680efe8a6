package memory

import (
	"sort"
	"time"

	"teamsite/backend/internal/domain"
	"teamsite/backend/internal/storage"
)

// ========== Blog Repository ==========

// SaveBlog 保存博客（新建或更新）。
func (s *Store) SaveBlog(blog *domain.Blog) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	if blog.ID == 0 {
		blog.ID = s.nextBlogID
		s.nextBlogID++
		blog.CreatedAt = now
	} else if existing, ok := s.blogs[blog.ID]; ok && existing.Slug != blog.Slug {
		delete(s.blogsBySlug, existing.Slug)
	}
	blog.UpdatedAt = now

	copied := *blog
	s.blogs[blog.ID] = &copied
	s.blogsBySlug[blog.Slug] = blog.ID
	return nil
}

// GetBlog 根据 ID 获取博客。
func (s *Store) GetBlog(id uint) (*domain.Blog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	blog, ok := s.blogs[id]
	if !ok {
		return nil, storage.ErrBlogNotFound
	}
	copied := *blog
	return &copied, nil
}

// GetBlogBySlug 根据 slug 获取博客。
func (s *Store) GetBlogBySlug(slug string) (*domain.Blog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.blogsBySlug[slug]
	if !ok {
		return nil, storage.ErrBlogNotFound
	}
	copied := *s.blogs[id]
	return &copied, nil
}

// ListBlogs 分页列出博客，按创建时间倒序。
func (s *Store) ListBlogs(status *domain.BlogStatus, page, pageSize int) ([]domain.Blog, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]domain.Blog, 0)
	for _, blog := range s.blogs {
		if status != nil && blog.Status != *status {
			continue
		}
		items = append(items, *blog)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})

	total := int64(len(items))
	return paginate(items, page, pageSize), total, nil
}

// ListRecentPublishedBlogs 查询指定时间之后发布的博客，按发布时间倒序。
func (s *Store) ListRecentPublishedBlogs(since time.Time, limit int) ([]domain.Blog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	blogs := make([]domain.Blog, 0)
	for _, blog := range s.blogs {
		if blog.Status != domain.BlogStatusPublished || blog.PublishedAt == nil {
			continue
		}
		if blog.PublishedAt.Before(since) {
			continue
		}
		blogs = append(blogs, *blog)
	}
	sort.Slice(blogs, func(i, j int) bool {
		return blogs[i].PublishedAt.After(*blogs[j].PublishedAt)
	})
	if limit > 0 && len(blogs) > limit {
		blogs = blogs[:limit]
	}
	return blogs, nil
}

// UpdateBlog 更新博客。
func (s *Store) UpdateBlog(blog *domain.Blog) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.blogs[blog.ID]
	if !ok {
		return storage.ErrBlogNotFound
	}
	if existing.Slug != blog.Slug {
		delete(s.blogsBySlug, existing.Slug)
		s.blogsBySlug[blog.Slug] = blog.ID
	}

	blog.UpdatedAt = time.Now().UTC()
	copied := *blog
	s.blogs[blog.ID] = &copied
	return nil
}

// IncrementBlogViews 增加博客浏览计数。
func (s *Store) IncrementBlogViews(id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	blog, ok := s.blogs[id]
	if !ok {
		return storage.ErrBlogNotFound
	}
	blog.ViewCount++
	return nil
}

// DeleteBlog 删除博客。
func (s *Store) DeleteBlog(id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	blog, ok := s.blogs[id]
	if !ok {
		return storage.ErrBlogNotFound
	}
	delete(s.blogsBySlug, blog.Slug)
	delete(s.blogs, id)
	return nil
}

// ========== Project Repository ==========

// SaveProject 保存项目（新建或更新）。
func (s *Store) SaveProject(p *domain.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	if p.ID == 0 {
		p.ID = s.nextProjID
		s.nextProjID++
		p.CreatedAt = now
	} else if existing, ok := s.projects[p.ID]; ok && existing.Slug != p.Slug {
		delete(s.projsBySlug, existing.Slug)
	}
	p.UpdatedAt = now

	copied := *p
	s.projects[p.ID] = &copied
	s.projsBySlug[p.Slug] = p.ID
	return nil
}

// GetProject 根据 ID 获取项目。
func (s *Store) GetProject(id uint) (*domain.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.projects[id]
	if !ok {
		return nil, storage.ErrProjectNotFound
	}
	copied := *p
	return &copied, nil
}

// GetProjectBySlug 根据 slug 获取项目。
func (s *Store) GetProjectBySlug(slug string) (*domain.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.projsBySlug[slug]
	if !ok {
		return nil, storage.ErrProjectNotFound
	}
	copied := *s.projects[id]
	return &copied, nil
}

// ListProjects 分页列出项目，按更新时间倒序。
func (s *Store) ListProjects(status *domain.ProjectStatus, page, pageSize int) ([]domain.Project, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]domain.Project, 0)
	for _, p := range s.projects {
		if status != nil && p.Status != *status {
			continue
		}
		items = append(items, *p)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].UpdatedAt.After(items[j].UpdatedAt)
	})

	total := int64(len(items))
	return paginate(items, page, pageSize), total, nil
}

// ListRecentActiveProjects 查询指定时间之后更新的活跃项目。
func (s *Store) ListRecentActiveProjects(since time.Time, limit int) ([]domain.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	projects := make([]domain.Project, 0)
	for _, p := range s.projects {
		if !p.IsNewsworthy() || p.UpdatedAt.Before(since) {
			continue
		}
		projects = append(projects, *p)
	}
	sort.Slice(projects, func(i, j int) bool {
		return projects[i].UpdatedAt.After(projects[j].UpdatedAt)
	})
	if limit > 0 && len(projects) > limit {
		projects = projects[:limit]
	}
	return projects, nil
}

// UpdateProject 更新项目。
func (s *Store) UpdateProject(p *domain.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.projects[p.ID]
	if !ok {
		return storage.ErrProjectNotFound
	}
	if existing.Slug != p.Slug {
		delete(s.projsBySlug, existing.Slug)
		s.projsBySlug[p.Slug] = p.ID
	}

	p.UpdatedAt = time.Now().UTC()
	copied := *p
	s.projects[p.ID] = &copied
	return nil
}

// DeleteProject 删除项目。
func (s *Store) DeleteProject(id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.projects[id]
	if !ok {
		return storage.ErrProjectNotFound
	}
	delete(s.projsBySlug, p.Slug)
	delete(s.projects, id)
	return nil
}

// ========== Activity Repository ==========

// SaveActivity 保存活动（新建或更新）。
func (s *Store) SaveActivity(a *domain.Activity) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	if a.ID == 0 {
		a.ID = s.nextActID
		s.nextActID++
		a.CreatedAt = now
	}
	a.UpdatedAt = now

	copied := *a
	s.activities[a.ID] = &copied
	return nil
}

// GetActivity 根据 ID 获取活动。
func (s *Store) GetActivity(id uint) (*domain.Activity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.activities[id]
	if !ok {
		return nil, storage.ErrActivityNotFound
	}
	copied := *a
	return &copied, nil
}

// ListActivities 分页列出活动，可按类型过滤，按活动日期倒序。
func (s *Store) ListActivities(activityType *domain.ActivityType, page, pageSize int) ([]domain.Activity, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]domain.Activity, 0)
	for _, a := range s.activities {
		if activityType != nil && a.Type != *activityType {
			continue
		}
		items = append(items, *a)
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].ActivityDate.Equal(items[j].ActivityDate) {
			return items[i].ID > items[j].ID
		}
		return items[i].ActivityDate.After(items[j].ActivityDate)
	})

	total := int64(len(items))
	return paginate(items, page, pageSize), total, nil
}

// UpdateActivity 更新活动。
func (s *Store) UpdateActivity(a *domain.Activity) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.activities[a.ID]; !ok {
		return storage.ErrActivityNotFound
	}

	a.UpdatedAt = time.Now().UTC()
	copied := *a
	s.activities[a.ID] = &copied
	return nil
}

// DeleteActivity 删除活动。
func (s *Store) DeleteActivity(id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.activities[id]; !ok {
		return storage.ErrActivityNotFound
	}
	delete(s.activities, id)
	return nil
}
