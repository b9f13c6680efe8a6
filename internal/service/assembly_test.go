package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"teamsite/backend/internal/ai"
	"teamsite/backend/internal/domain"
	"teamsite/backend/internal/storage"
	"teamsite/backend/internal/storage/memory"
)

// fakeGenerator 返回固定草稿并记录输入。
type fakeGenerator struct {
	lastInput     ai.NewsletterInput
	lastBlogInput ai.BlogInput
	err           error
}

func (f *fakeGenerator) GenerateNewsletter(_ context.Context, input ai.NewsletterInput) (*ai.NewsletterDraft, error) {
	f.lastInput = input
	if f.err != nil {
		return nil, f.err
	}
	return &ai.NewsletterDraft{
		Title:   "Generated Issue",
		Summary: "Summary of the week.",
		Content: "<h2>Highlights</h2><p>Things happened.</p>",
	}, nil
}

func (f *fakeGenerator) GenerateBlog(_ context.Context, input ai.BlogInput) (*ai.BlogDraft, error) {
	f.lastBlogInput = input
	if f.err != nil {
		return nil, f.err
	}
	return &ai.BlogDraft{
		Title:   "Generated Post",
		Excerpt: "A generated post.",
		Tags:    []string{"go", "backend"},
		Content: "# Post",
	}, nil
}

func seedContent(t *testing.T, store *memory.Store) (*domain.Blog, *domain.Project) {
	t.Helper()
	now := time.Now().UTC()

	blog := &domain.Blog{
		Title:       "Recent Post",
		Slug:        "recent-post",
		Content:     "# Recent",
		Excerpt:     "A recent post.",
		Status:      domain.BlogStatusPublished,
		PublishedAt: &now,
	}
	require.NoError(t, store.SaveBlog(blog))

	project := &domain.Project{
		Name:        "Pipeline",
		Slug:        "pipeline",
		Description: "Data pipeline project.",
		Status:      domain.ProjectStatusActive,
	}
	require.NoError(t, store.SaveProject(project))

	return blog, project
}

func newAssembly(store *memory.Store, gen ai.Generator) *AssemblyService {
	logger := zap.NewNop()
	collector := NewCollector(store, store, logger)
	blogs := NewBlogService(store, logger)
	return NewAssemblyService(collector, gen, store, store, blogs, "Team Site", logger)
}

func TestGenerateNewsletter(t *testing.T) {
	t.Run("保存草稿并记录素材来源", func(t *testing.T) {
		store := memory.NewStore()
		blog, project := seedContent(t, store)
		gen := &fakeGenerator{}
		svc := newAssembly(store, gen)

		n, err := svc.GenerateNewsletter(context.Background(), GenerateInput{
			PeriodDays:  7,
			SaveAsDraft: true,
		})
		require.NoError(t, err)

		assert.NotZero(t, n.ID)
		assert.Equal(t, "Generated Issue", n.Title)
		assert.Equal(t, domain.NewsletterStatusDraft, n.Status)
		assert.True(t, n.IsAutoGenerated)
		assert.Equal(t, []uint{blog.ID}, n.SourceBlogIDs)
		require.Len(t, n.SourceProjects, 1)
		assert.Equal(t, project.Slug, n.SourceProjects[0].Slug)
		assert.NotNil(t, n.PeriodStart)
		assert.NotNil(t, n.PeriodEnd)

		// 生成器应收到素材
		assert.Len(t, gen.lastInput.Blogs, 1)
		assert.Len(t, gen.lastInput.Projects, 1)
		assert.Equal(t, "Team Site", gen.lastInput.SiteName)
	})

	t.Run("预览模式不落库", func(t *testing.T) {
		store := memory.NewStore()
		seedContent(t, store)
		svc := newAssembly(store, &fakeGenerator{})

		n, err := svc.GenerateNewsletter(context.Background(), GenerateInput{
			PeriodDays:  7,
			SaveAsDraft: false,
		})
		require.NoError(t, err)
		assert.Zero(t, n.ID)

		_, total, err := store.ListNewsletters(nil, 1, 10)
		require.NoError(t, err)
		assert.Zero(t, total)
	})

	t.Run("窗口内无素材时仍生成空窗期通讯", func(t *testing.T) {
		store := memory.NewStore()
		gen := &fakeGenerator{}
		svc := newAssembly(store, gen)

		n, err := svc.GenerateNewsletter(context.Background(), GenerateInput{PeriodDays: 7, SaveAsDraft: true})
		require.NoError(t, err)

		assert.NotZero(t, n.ID)
		assert.Equal(t, domain.NewsletterStatusDraft, n.Status)
		assert.Empty(t, n.SourceBlogIDs)
		assert.Empty(t, n.SourceProjects)
		assert.Empty(t, gen.lastInput.Blogs)
		assert.Empty(t, gen.lastInput.Projects)
	})

	t.Run("窗口外的旧博客不纳入", func(t *testing.T) {
		store := memory.NewStore()
		old := time.Now().UTC().AddDate(0, 0, -30)
		blog := &domain.Blog{
			Title:       "Old Post",
			Slug:        "old-post",
			Status:      domain.BlogStatusPublished,
			PublishedAt: &old,
		}
		require.NoError(t, store.SaveBlog(blog))

		gen := &fakeGenerator{}
		svc := newAssembly(store, gen)
		n, err := svc.GenerateNewsletter(context.Background(), GenerateInput{PeriodDays: 7, SaveAsDraft: true})
		require.NoError(t, err)
		assert.Empty(t, n.SourceBlogIDs)
		assert.Empty(t, gen.lastInput.Blogs)
	})

	t.Run("生成器未配置时透传错误", func(t *testing.T) {
		store := memory.NewStore()
		seedContent(t, store)
		svc := newAssembly(store, &fakeGenerator{err: ai.ErrNotConfigured})

		_, err := svc.GenerateNewsletter(context.Background(), GenerateInput{PeriodDays: 7, SaveAsDraft: true})
		assert.ErrorIs(t, err, ai.ErrNotConfigured)
	})

	t.Run("草稿博客不算素材", func(t *testing.T) {
		store := memory.NewStore()
		blog := &domain.Blog{
			Title:  "Draft Post",
			Slug:   "draft-post",
			Status: domain.BlogStatusDraft,
		}
		require.NoError(t, store.SaveBlog(blog))

		gen := &fakeGenerator{}
		svc := newAssembly(store, gen)
		_, err := svc.GenerateNewsletter(context.Background(), GenerateInput{PeriodDays: 7, SaveAsDraft: true})
		require.NoError(t, err)
		assert.Empty(t, gen.lastInput.Blogs)
	})
}

func TestGenerateBlog(t *testing.T) {
	t.Run("按主题生成仅返回预览", func(t *testing.T) {
		store := memory.NewStore()
		gen := &fakeGenerator{}
		svc := newAssembly(store, gen)

		result, err := svc.GenerateBlog(context.Background(), BlogGenerateInput{
			Topic:  "Go testing patterns",
			Style:  "tutorial",
			Length: "short",
		})
		require.NoError(t, err)
		assert.Nil(t, result.Blog)
		assert.Equal(t, "Generated Post", result.Draft.Title)
		assert.Equal(t, "Go testing patterns", gen.lastBlogInput.Topic)
		assert.Equal(t, "short", gen.lastBlogInput.Length)

		// 预览不落库
		_, total, err := store.ListBlogs(nil, 1, 10)
		require.NoError(t, err)
		assert.Zero(t, total)
	})

	t.Run("围绕项目生成并落库为草稿", func(t *testing.T) {
		store := memory.NewStore()
		_, project := seedContent(t, store)
		gen := &fakeGenerator{}
		svc := newAssembly(store, gen)

		result, err := svc.GenerateBlog(context.Background(), BlogGenerateInput{
			ProjectID:   project.ID,
			SaveAsDraft: true,
		})
		require.NoError(t, err)

		// 项目资料进入提示词输入，主题默认取项目名
		require.NotNil(t, gen.lastBlogInput.Project)
		assert.Equal(t, project.Name, gen.lastBlogInput.Project.Name)
		assert.Equal(t, "Introducing "+project.Name, gen.lastBlogInput.Topic)

		require.NotNil(t, result.Blog)
		saved, err := store.GetBlog(result.Blog.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.BlogStatusDraft, saved.Status)
		assert.Equal(t, "Generated Post", saved.Title)
		assert.Equal(t, []string{"go", "backend"}, saved.Tags)
	})

	t.Run("项目不存在", func(t *testing.T) {
		store := memory.NewStore()
		svc := newAssembly(store, &fakeGenerator{})

		_, err := svc.GenerateBlog(context.Background(), BlogGenerateInput{ProjectID: 404})
		assert.ErrorIs(t, err, storage.ErrProjectNotFound)
	})
}

func TestCollector(t *testing.T) {
	store := memory.NewStore()
	logger := zap.NewNop()
	collector := NewCollector(store, store, logger)

	for _, status := range []domain.ProjectStatus{
		domain.ProjectStatusActive,
		domain.ProjectStatusInProgress,
		domain.ProjectStatusCompleted,
		domain.ProjectStatusArchived,
	} {
		p := &domain.Project{
			Name:   "p-" + string(status),
			Slug:   "p-" + string(status),
			Status: status,
		}
		require.NoError(t, store.SaveProject(p))
	}

	collection, err := collector.Collect(7)
	require.NoError(t, err)

	// 只有 active 和 in_progress 算活跃项目
	assert.Len(t, collection.Projects, 2)
	for _, p := range collection.Projects {
		assert.True(t, p.IsNewsworthy())
	}
}
