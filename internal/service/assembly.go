package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"teamsite/backend/internal/ai"
	"teamsite/backend/internal/domain"
	"teamsite/backend/internal/monitoring"
	"teamsite/backend/internal/storage"
)

// AssemblyService 内容组装服务：收集素材、调用 AI 生成、落库为草稿。
type AssemblyService struct {
	collector *Collector
	generator ai.Generator
	store     storage.NewsletterRepository
	projects  storage.ProjectRepository
	blogs     *BlogService
	siteName  string
	logger    *zap.Logger
}

// NewAssemblyService 创建组装服务
func NewAssemblyService(
	collector *Collector,
	generator ai.Generator,
	store storage.NewsletterRepository,
	projects storage.ProjectRepository,
	blogs *BlogService,
	siteName string,
	logger *zap.Logger,
) *AssemblyService {
	return &AssemblyService{
		collector: collector,
		generator: generator,
		store:     store,
		projects:  projects,
		blogs:     blogs,
		siteName:  siteName,
		logger:    logger,
	}
}

// GenerateInput 通讯生成参数
type GenerateInput struct {
	PeriodDays  int     // 聚合窗口天数，1-30
	SaveAsDraft bool    // true 落库为草稿，false 仅返回预览
	Trigger     string  // manual / scheduled，用于指标与日志
	CreatedBy   *string // 触发生成的用户，定时任务为 nil
}

// GenerateNewsletter 生成一期通讯
//
// 窗口内没有素材时照常生成，模型会产出一期"本期无更新"的简讯。
// 生成的草稿记录素材来源（博客 ID 列表与项目快照），便于追溯。
func (s *AssemblyService) GenerateNewsletter(ctx context.Context, input GenerateInput) (*domain.Newsletter, error) {
	if input.PeriodDays < 1 {
		input.PeriodDays = 7
	}
	trigger := input.Trigger
	if trigger == "" {
		trigger = "manual"
	}

	collection, err := s.collector.Collect(input.PeriodDays)
	if err != nil {
		return nil, err
	}

	if collection.IsEmpty() {
		s.logger.Info("聚合窗口内没有素材，生成空窗期通讯",
			zap.Int("period_days", input.PeriodDays))
	}

	start := time.Now()
	draft, err := s.generator.GenerateNewsletter(ctx, ai.NewsletterInput{
		SiteName:    s.siteName,
		PeriodStart: collection.PeriodStart,
		PeriodEnd:   collection.PeriodEnd,
		Blogs:       collection.Blogs,
		Projects:    collection.Projects,
	})
	if err != nil {
		return nil, err
	}
	monitoring.AIGenerationDuration.WithLabelValues("newsletter").Observe(time.Since(start).Seconds())

	// 记录素材来源
	sourceBlogIDs := make([]uint, len(collection.Blogs))
	for i, blog := range collection.Blogs {
		sourceBlogIDs[i] = blog.ID
	}
	sourceProjects := make([]domain.SourceProject, len(collection.Projects))
	for i, p := range collection.Projects {
		sourceProjects[i] = domain.SourceProject{
			ID:   p.ID,
			Name: p.Name,
			Slug: p.Slug,
		}
	}

	n := &domain.Newsletter{
		Title:           draft.Title,
		Summary:         draft.Summary,
		Content:         draft.Content,
		Status:          domain.NewsletterStatusDraft,
		PeriodStart:     &collection.PeriodStart,
		PeriodEnd:       &collection.PeriodEnd,
		SourceBlogIDs:   sourceBlogIDs,
		SourceProjects:  sourceProjects,
		IsAutoGenerated: true,
		CreatedBy:       input.CreatedBy,
	}

	if input.SaveAsDraft {
		if err := s.store.SaveNewsletter(n); err != nil {
			return nil, err
		}
		s.logger.Info("通讯草稿已保存",
			zap.Uint("id", n.ID),
			zap.String("title", n.Title),
			zap.String("trigger", trigger))
	}

	monitoring.NewslettersGeneratedTotal.WithLabelValues(trigger).Inc()
	return n, nil
}

// BlogGenerateInput 博客生成参数
//
// ProjectID 与 Topic 至少提供一个；指定 ProjectID 时围绕该项目写作，
// Topic 为空则以项目名代入主题。
type BlogGenerateInput struct {
	ProjectID   uint
	Topic       string
	Description string
	Style       string // technical / casual / tutorial 等写作风格
	Length      string // short / medium / long
	SaveAsDraft bool   // true 时落库为博客草稿
	AuthorID    *string
}

// GeneratedBlog 博客生成结果
type GeneratedBlog struct {
	Draft *ai.BlogDraft `json:"draft"`
	Blog  *domain.Blog  `json:"blog,omitempty"` // SaveAsDraft 时已落库的草稿
}

// GenerateBlog 生成博客草稿，可选围绕项目写作并落库
func (s *AssemblyService) GenerateBlog(ctx context.Context, input BlogGenerateInput) (*GeneratedBlog, error) {
	aiInput := ai.BlogInput{
		Topic:       input.Topic,
		Description: input.Description,
		Style:       input.Style,
		Length:      input.Length,
	}

	if input.ProjectID != 0 {
		project, err := s.projects.GetProject(input.ProjectID)
		if err != nil {
			return nil, err
		}
		aiInput.Project = project
		if aiInput.Topic == "" {
			aiInput.Topic = "Introducing " + project.Name
		}
	}

	start := time.Now()
	draft, err := s.generator.GenerateBlog(ctx, aiInput)
	if err != nil {
		return nil, err
	}
	monitoring.AIGenerationDuration.WithLabelValues("blog").Observe(time.Since(start).Seconds())

	result := &GeneratedBlog{Draft: draft}

	if input.SaveAsDraft {
		blog, err := s.blogs.Create(BlogInput{
			Title:    draft.Title,
			Content:  draft.Content,
			Excerpt:  draft.Excerpt,
			Tags:     draft.Tags,
			Status:   domain.BlogStatusDraft,
			AuthorID: input.AuthorID,
		})
		if err != nil {
			return nil, err
		}
		result.Blog = blog
		s.logger.Info("博客草稿已保存",
			zap.Uint("id", blog.ID),
			zap.String("slug", blog.Slug))
	}

	return result, nil
}
