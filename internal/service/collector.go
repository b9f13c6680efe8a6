package service

import (
	"time"

	"go.uber.org/zap"

	"teamsite/backend/internal/domain"
	"teamsite/backend/internal/storage"
)

// 单期通讯最多纳入的博客和项目条数
const maxCollectedItems = 10

// Collection 通讯素材集合：聚合窗口内的已发布博客与活跃项目。
type Collection struct {
	PeriodStart time.Time
	PeriodEnd   time.Time
	Blogs       []domain.Blog
	Projects    []domain.Project
}

// IsEmpty 窗口内没有任何素材
func (c *Collection) IsEmpty() bool {
	return len(c.Blogs) == 0 && len(c.Projects) == 0
}

// Collector 素材收集器，为通讯组装服务提供内容快照。
type Collector struct {
	blogs    storage.BlogRepository
	projects storage.ProjectRepository
	logger   *zap.Logger
}

// NewCollector 创建素材收集器
func NewCollector(blogs storage.BlogRepository, projects storage.ProjectRepository, logger *zap.Logger) *Collector {
	return &Collector{
		blogs:    blogs,
		projects: projects,
		logger:   logger,
	}
}

// Collect 收集最近 periodDays 天的素材
//
// 博客：已发布且发布时间落在窗口内，按发布时间倒序。
// 项目：状态为 active/in_progress 且窗口内有更新，按更新时间倒序。
func (c *Collector) Collect(periodDays int) (*Collection, error) {
	now := time.Now().UTC()
	since := now.AddDate(0, 0, -periodDays)

	blogs, err := c.blogs.ListRecentPublishedBlogs(since, maxCollectedItems)
	if err != nil {
		return nil, err
	}

	projects, err := c.projects.ListRecentActiveProjects(since, maxCollectedItems)
	if err != nil {
		return nil, err
	}

	c.logger.Info("素材收集完成",
		zap.Int("period_days", periodDays),
		zap.Int("blogs", len(blogs)),
		zap.Int("projects", len(projects)))

	return &Collection{
		PeriodStart: since,
		PeriodEnd:   now,
		Blogs:       blogs,
		Projects:    projects,
	}, nil
}
