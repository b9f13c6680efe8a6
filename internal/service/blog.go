package service

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"teamsite/backend/internal/domain"
	"teamsite/backend/internal/storage"
)

var slugPattern = regexp.MustCompile(`[^a-z0-9\x{AC00}-\x{D7A3}]+`)

// Slugify 将标题转为 URL slug。
// 非字母数字字符折叠为连字符，保留韩文音节。
func Slugify(title string) string {
	slug := strings.ToLower(strings.TrimSpace(title))
	slug = slugPattern.ReplaceAllString(slug, "-")
	slug = strings.Trim(slug, "-")
	if slug == "" {
		slug = fmt.Sprintf("post-%d", time.Now().Unix())
	}
	if len(slug) > 120 {
		slug = slug[:120]
	}
	return slug
}

// BlogCache 博客详情缓存接口，由 Redis 缓存实现
type BlogCache interface {
	CacheBlog(blog *domain.Blog, ttl time.Duration) error
	GetCachedBlog(slug string) (*domain.Blog, error)
	DeleteCachedBlog(slug string) error
}

// 详情缓存短一些，浏览计数允许有这个量级的延迟
const blogCacheTTL = time.Minute

// BlogService 博客服务
type BlogService struct {
	store  storage.BlogRepository
	cache  BlogCache
	logger *zap.Logger
}

// NewBlogService 创建博客服务
func NewBlogService(store storage.BlogRepository, logger *zap.Logger) *BlogService {
	return &BlogService{
		store:  store,
		logger: logger,
	}
}

// SetCache 设置可选的博客详情缓存
func (s *BlogService) SetCache(cache BlogCache) {
	s.cache = cache
}

// BlogInput 博客创建与更新的输入
type BlogInput struct {
	Title    string
	Slug     string // 留空则从标题生成
	Content  string
	Excerpt  string
	Tags     []string
	Status   domain.BlogStatus
	AuthorID *string
}

// Create 创建博客
func (s *BlogService) Create(input BlogInput) (*domain.Blog, error) {
	slug := input.Slug
	if slug == "" {
		slug = Slugify(input.Title)
	}

	if _, err := s.store.GetBlogBySlug(slug); err == nil {
		return nil, ErrSlugExists
	}

	status := input.Status
	if status == "" {
		status = domain.BlogStatusDraft
	}

	blog := &domain.Blog{
		Title:    input.Title,
		Slug:     slug,
		Content:  input.Content,
		Excerpt:  input.Excerpt,
		Tags:     input.Tags,
		Status:   status,
		AuthorID: input.AuthorID,
	}

	if status == domain.BlogStatusPublished {
		now := time.Now().UTC()
		blog.PublishedAt = &now
	}

	if err := s.store.SaveBlog(blog); err != nil {
		return nil, err
	}

	s.logger.Info("创建博客", zap.Uint("id", blog.ID), zap.String("slug", blog.Slug))
	return blog, nil
}

// Get 根据 ID 获取博客
func (s *BlogService) Get(id uint) (*domain.Blog, error) {
	return s.store.GetBlog(id)
}

// GetBySlug 根据 slug 获取博客并累加浏览计数
//
// 缓存命中时仍然累加数据库计数，响应中的计数最多滞后一个缓存周期。
func (s *BlogService) GetBySlug(slug string) (*domain.Blog, error) {
	if s.cache != nil {
		if blog, err := s.cache.GetCachedBlog(slug); err == nil {
			if err := s.store.IncrementBlogViews(blog.ID); err == nil {
				blog.ViewCount++
			}
			return blog, nil
		}
	}

	blog, err := s.store.GetBlogBySlug(slug)
	if err != nil {
		return nil, err
	}

	// 浏览计数失败不影响读取
	if err := s.store.IncrementBlogViews(blog.ID); err == nil {
		blog.ViewCount++
	}

	if s.cache != nil && blog.Status == domain.BlogStatusPublished {
		if err := s.cache.CacheBlog(blog, blogCacheTTL); err != nil {
			s.logger.Warn("写入博客缓存失败", zap.String("slug", slug), zap.Error(err))
		}
	}

	return blog, nil
}

// List 分页列出博客
func (s *BlogService) List(status *domain.BlogStatus, page Page) ([]domain.Blog, PageResult, error) {
	page = page.Normalize()
	items, total, err := s.store.ListBlogs(status, page.Number, page.Size)
	if err != nil {
		return nil, PageResult{}, err
	}
	return items, NewPageResult(total, page), nil
}

// Update 更新博客
func (s *BlogService) Update(id uint, input BlogInput) (*domain.Blog, error) {
	blog, err := s.store.GetBlog(id)
	if err != nil {
		return nil, err
	}
	oldSlug := blog.Slug

	if input.Slug != "" && input.Slug != blog.Slug {
		if _, err := s.store.GetBlogBySlug(input.Slug); err == nil {
			return nil, ErrSlugExists
		}
		blog.Slug = input.Slug
	}

	if input.Title != "" {
		blog.Title = input.Title
	}
	if input.Content != "" {
		blog.Content = input.Content
	}
	if input.Excerpt != "" {
		blog.Excerpt = input.Excerpt
	}
	if input.Tags != nil {
		blog.Tags = input.Tags
	}

	// 状态流转：首次发布时记录发布时间
	if input.Status != "" && input.Status != blog.Status {
		if input.Status == domain.BlogStatusPublished && blog.PublishedAt == nil {
			now := time.Now().UTC()
			blog.PublishedAt = &now
		}
		blog.Status = input.Status
	}

	if err := s.store.UpdateBlog(blog); err != nil {
		return nil, err
	}

	s.invalidate(oldSlug)
	if blog.Slug != oldSlug {
		s.invalidate(blog.Slug)
	}
	s.logger.Info("更新博客", zap.Uint("id", blog.ID))
	return blog, nil
}

// Publish 发布博客
func (s *BlogService) Publish(id uint) (*domain.Blog, error) {
	blog, err := s.store.GetBlog(id)
	if err != nil {
		return nil, err
	}

	if blog.Status == domain.BlogStatusPublished {
		return blog, nil
	}

	now := time.Now().UTC()
	blog.Status = domain.BlogStatusPublished
	if blog.PublishedAt == nil {
		blog.PublishedAt = &now
	}

	if err := s.store.UpdateBlog(blog); err != nil {
		return nil, err
	}

	s.invalidate(blog.Slug)
	s.logger.Info("发布博客", zap.Uint("id", blog.ID), zap.String("slug", blog.Slug))
	return blog, nil
}

// Delete 删除博客
func (s *BlogService) Delete(id uint) error {
	blog, err := s.store.GetBlog(id)
	if err != nil {
		return err
	}

	if err := s.store.DeleteBlog(id); err != nil {
		return err
	}

	s.invalidate(blog.Slug)
	return nil
}

func (s *BlogService) invalidate(slug string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteCachedBlog(slug); err != nil {
		s.logger.Warn("删除博客缓存失败", zap.String("slug", slug), zap.Error(err))
	}
}
