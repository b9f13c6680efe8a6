package ai

import (
	"context"
	"errors"
	"time"

	"teamsite/backend/internal/domain"
)

// ErrNotConfigured 未配置 API Key 时调用生成操作返回此错误。
// 缺少凭证不阻止进程启动，只在实际调用时报错。
var ErrNotConfigured = errors.New("ai service is not configured: missing api key")

// ErrEmptyResponse 模型返回空内容
var ErrEmptyResponse = errors.New("ai service returned empty response")

// NewsletterInput 通讯生成的输入素材
type NewsletterInput struct {
	SiteName    string
	PeriodStart time.Time
	PeriodEnd   time.Time
	Blogs       []domain.Blog
	Projects    []domain.Project
}

// NewsletterDraft 通讯生成结果
type NewsletterDraft struct {
	Title   string
	Summary string
	Content string // HTML 正文
}

// BlogInput 博客生成的输入。
// Project 非空时提示词附带项目资料，围绕该项目写作。
type BlogInput struct {
	Topic       string
	Description string
	Style       string          // 写作风格提示，可空
	Length      string          // short / medium / long，默认 medium
	Project     *domain.Project // 围绕的项目，可空
}

// BlogDraft 博客生成结果
type BlogDraft struct {
	Title   string
	Excerpt string
	Tags    []string
	Content string // Markdown 正文
}

// Generator 定义 AI 文本生成边界。
// 实现负责提示词组装、模型调用与响应解析。
type Generator interface {
	GenerateNewsletter(ctx context.Context, input NewsletterInput) (*NewsletterDraft, error)
	GenerateBlog(ctx context.Context, input BlogInput) (*BlogDraft, error)
}
