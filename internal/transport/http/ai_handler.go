package httptransport

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"teamsite/backend/internal/ai"
	"teamsite/backend/internal/service"
	"teamsite/backend/internal/storage"
)

// AIHandler 处理 AI 生成相关的 HTTP 请求（管理端）
type AIHandler struct {
	assembly *service.AssemblyService
	log      *zap.Logger
}

// NewAIHandler 创建 AI 处理器
func NewAIHandler(assembly *service.AssemblyService, log *zap.Logger) *AIHandler {
	return &AIHandler{
		assembly: assembly,
		log:      log,
	}
}

type generateNewsletterRequest struct {
	PeriodDays  int  `json:"period_days" binding:"omitempty,min=1,max=30"`
	SaveAsDraft bool `json:"save_as_draft"`
}

type generateBlogRequest struct {
	ProjectID   uint   `json:"project_id"`
	Topic       string `json:"topic"`
	Description string `json:"description"`
	Style       string `json:"style"`
	Length      string `json:"length" binding:"omitempty,oneof=short medium long"`
	SaveAsDraft bool   `json:"save_as_draft"`
}

// GenerateNewsletter 根据近期内容生成一期通讯
//
// save_as_draft 为 true 时落库为草稿，否则仅返回预览不落库。
func (h *AIHandler) GenerateNewsletter(c *gin.Context) {
	var req generateNewsletterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, MsgInvalidRequest)
		return
	}

	var createdBy *string
	if v, ok := c.Get("userID"); ok {
		id := v.(string)
		createdBy = &id
	}

	n, err := h.assembly.GenerateNewsletter(c.Request.Context(), service.GenerateInput{
		PeriodDays:  req.PeriodDays,
		SaveAsDraft: req.SaveAsDraft,
		Trigger:     "manual",
		CreatedBy:   createdBy,
	})
	if err != nil {
		switch err {
		case ai.ErrNotConfigured:
			Error(c, 503, GetErrorMessage(err))
		case ai.ErrEmptyResponse:
			Error(c, 502, GetErrorMessage(err))
		default:
			h.log.Error("failed to generate newsletter", zap.Error(err))
			InternalError(c, MsgNewsletterGenerateFailed)
		}
		return
	}

	if req.SaveAsDraft {
		Created(c, n)
		return
	}
	Success(c, n)
}

// GenerateBlog 生成博客草稿
//
// project_id 非 0 时围绕该项目写作；save_as_draft 为 true 时落库为博客草稿，
// 否则仅返回预览，编辑确认后通过博客接口另行创建。
func (h *AIHandler) GenerateBlog(c *gin.Context) {
	var req generateBlogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, MsgInvalidRequest)
		return
	}
	if req.ProjectID == 0 && req.Topic == "" {
		BadRequest(c, "project_id 与 topic 必须提供其一")
		return
	}

	var authorID *string
	if v, ok := c.Get("userID"); ok {
		id := v.(string)
		authorID = &id
	}

	result, err := h.assembly.GenerateBlog(c.Request.Context(), service.BlogGenerateInput{
		ProjectID:   req.ProjectID,
		Topic:       req.Topic,
		Description: req.Description,
		Style:       req.Style,
		Length:      req.Length,
		SaveAsDraft: req.SaveAsDraft,
		AuthorID:    authorID,
	})
	if err != nil {
		switch err {
		case ai.ErrNotConfigured:
			Error(c, 503, GetErrorMessage(err))
		case ai.ErrEmptyResponse:
			Error(c, 502, GetErrorMessage(err))
		case storage.ErrProjectNotFound:
			NotFound(c, GetErrorMessage(err))
		case service.ErrSlugExists:
			Conflict(c, GetErrorMessage(err))
		default:
			h.log.Error("failed to generate blog", zap.Error(err))
			InternalError(c, "生成博客草稿失败")
		}
		return
	}

	if result.Blog != nil {
		Created(c, result)
		return
	}
	Success(c, result)
}
