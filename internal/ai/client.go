package ai

import (
	"context"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// Config OpenAI 客户端配置
type Config struct {
	APIKey  string
	Model   string
	BaseURL string // 可选，自定义 API 入口
	Timeout time.Duration
}

// OpenAIClient 使用 OpenAI Chat Completions API 实现 Generator。
type OpenAIClient struct {
	client  *openai.Client
	model   string
	timeout time.Duration
	logger  *zap.Logger
}

// NewOpenAIClient 创建 OpenAI 客户端
//
// APIKey 为空时客户端仍可创建，但所有生成调用返回 ErrNotConfigured。
func NewOpenAIClient(cfg Config, logger *zap.Logger) *OpenAIClient {
	var c *openai.Client
	if cfg.APIKey != "" {
		if cfg.BaseURL != "" {
			cc := openai.DefaultConfig(cfg.APIKey)
			cc.BaseURL = cfg.BaseURL
			c = openai.NewClientWithConfig(cc)
		} else {
			c = openai.NewClient(cfg.APIKey)
		}
	} else {
		logger.Warn("AI API key 未配置，生成功能不可用")
	}

	model := cfg.Model
	if model == "" {
		model = openai.GPT4o
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 120 * time.Second
	}

	return &OpenAIClient{
		client:  c,
		model:   model,
		timeout: timeout,
		logger:  logger,
	}
}

// GenerateNewsletter 生成通讯标题与 HTML 正文
func (o *OpenAIClient) GenerateNewsletter(ctx context.Context, input NewsletterInput) (*NewsletterDraft, error) {
	if o.client == nil {
		return nil, ErrNotConfigured
	}

	system := fmt.Sprintf("You are the newsletter writer for %s, a developer team site. You write friendly, engaging newsletters for the team's subscribers.", input.SiteName)
	user := buildNewsletterPrompt(input)

	o.logger.Info("生成通讯内容",
		zap.Int("blogs", len(input.Blogs)),
		zap.Int("projects", len(input.Projects)))

	out, err := o.create(ctx, system, user, 3000)
	if err != nil {
		o.logger.Error("通讯生成失败", zap.Error(err))
		return nil, err
	}

	draft := parseNewsletterResponse(out)
	o.logger.Info("通讯生成成功", zap.String("title", draft.Title))
	return draft, nil
}

// GenerateBlog 生成博客草稿（Markdown 正文）
func (o *OpenAIClient) GenerateBlog(ctx context.Context, input BlogInput) (*BlogDraft, error) {
	if o.client == nil {
		return nil, ErrNotConfigured
	}

	system := "You are a professional technical blog writer for a developer team site. You write high quality technical articles in Markdown."
	user := buildBlogPrompt(input)

	o.logger.Info("生成博客内容", zap.String("topic", input.Topic))

	out, err := o.create(ctx, system, user, 4000)
	if err != nil {
		o.logger.Error("博客生成失败", zap.Error(err))
		return nil, err
	}

	draft := parseBlogResponse(out)
	o.logger.Info("博客生成成功", zap.String("title", draft.Title))
	return draft, nil
}

// create 执行一次对话补全调用，带超时保护
func (o *OpenAIClient) create(ctx context.Context, system, user string, maxTokens int) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     o.model,
		MaxTokens: maxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		Temperature: 0.7,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyResponse
	}
	return resp.Choices[0].Message.Content, nil
}
