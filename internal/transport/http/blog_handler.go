package httptransport

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"teamsite/backend/internal/domain"
	"teamsite/backend/internal/service"
	"teamsite/backend/internal/storage"
)

// BlogHandler 处理博客相关的 HTTP 请求
type BlogHandler struct {
	blogs *service.BlogService
	log   *zap.Logger
}

// NewBlogHandler 创建博客处理器
func NewBlogHandler(blogs *service.BlogService, log *zap.Logger) *BlogHandler {
	return &BlogHandler{
		blogs: blogs,
		log:   log,
	}
}

type blogRequest struct {
	Title   string   `json:"title" binding:"required"`
	Slug    string   `json:"slug"`
	Content string   `json:"content" binding:"required"`
	Excerpt string   `json:"excerpt"`
	Tags    []string `json:"tags"`
	Status  string   `json:"status"`
}

func (r blogRequest) toInput(authorID *string) (service.BlogInput, bool) {
	status := domain.BlogStatus(r.Status)
	if r.Status != "" {
		switch status {
		case domain.BlogStatusDraft, domain.BlogStatusPublished, domain.BlogStatusArchived:
		default:
			return service.BlogInput{}, false
		}
	}

	return service.BlogInput{
		Title:    r.Title,
		Slug:     r.Slug,
		Content:  r.Content,
		Excerpt:  r.Excerpt,
		Tags:     r.Tags,
		Status:   status,
		AuthorID: authorID,
	}, true
}

// List 获取博客列表
//
// 公开接口默认只返回已发布文章；管理端可通过 status 查询参数过滤。
func (h *BlogHandler) List(c *gin.Context) {
	var status *domain.BlogStatus
	if raw := c.Query("status"); raw != "" {
		s := domain.BlogStatus(raw)
		switch s {
		case domain.BlogStatusDraft, domain.BlogStatusPublished, domain.BlogStatusArchived:
			status = &s
		default:
			BadRequest(c, "状态参数无效")
			return
		}
	} else if _, isAdmin := c.Get("user"); !isAdmin {
		s := domain.BlogStatusPublished
		status = &s
	}

	items, result, err := h.blogs.List(status, parsePage(c))
	if err != nil {
		h.log.Error("failed to list blogs", zap.Error(err))
		InternalError(c, MsgBlogListFailed)
		return
	}

	Success(c, listEnvelope(items, result))
}

// GetBySlug 按 slug 获取博客详情，同时累加浏览量
func (h *BlogHandler) GetBySlug(c *gin.Context) {
	slug := c.Param("slug")

	blog, err := h.blogs.GetBySlug(slug)
	if err != nil {
		if err == storage.ErrBlogNotFound {
			NotFound(c, GetErrorMessage(err))
			return
		}
		h.log.Error("failed to get blog", zap.Error(err), zap.String("slug", slug))
		InternalError(c, MsgBlogGetFailed)
		return
	}

	Success(c, blog)
}

// Create 创建博客文章（管理端）
func (h *BlogHandler) Create(c *gin.Context) {
	var req blogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, MsgInvalidRequest)
		return
	}

	var authorID *string
	if v, ok := c.Get("userID"); ok {
		id := v.(string)
		authorID = &id
	}

	input, ok := req.toInput(authorID)
	if !ok {
		BadRequest(c, "状态参数无效")
		return
	}

	blog, err := h.blogs.Create(input)
	if err != nil {
		if err == service.ErrSlugExists {
			Conflict(c, GetErrorMessage(err))
			return
		}
		h.log.Error("failed to create blog", zap.Error(err))
		InternalError(c, MsgBlogCreateFailed)
		return
	}

	Created(c, blog)
}

// Update 更新博客文章（管理端）
func (h *BlogHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req blogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, MsgInvalidRequest)
		return
	}

	input, valid := req.toInput(nil)
	if !valid {
		BadRequest(c, "状态参数无效")
		return
	}

	blog, err := h.blogs.Update(id, input)
	if err != nil {
		switch err {
		case storage.ErrBlogNotFound:
			NotFound(c, GetErrorMessage(err))
		case service.ErrSlugExists:
			Conflict(c, GetErrorMessage(err))
		default:
			h.log.Error("failed to update blog", zap.Error(err), zap.Uint("id", id))
			InternalError(c, MsgBlogUpdateFailed)
		}
		return
	}

	Success(c, blog)
}

// Publish 发布博客文章（管理端）
func (h *BlogHandler) Publish(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	blog, err := h.blogs.Publish(id)
	if err != nil {
		if err == storage.ErrBlogNotFound {
			NotFound(c, GetErrorMessage(err))
			return
		}
		h.log.Error("failed to publish blog", zap.Error(err), zap.Uint("id", id))
		InternalError(c, MsgBlogUpdateFailed)
		return
	}

	SuccessWithMsg(c, "发布成功", blog)
}

// Delete 删除博客文章（管理端）
func (h *BlogHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.blogs.Delete(id); err != nil {
		if err == storage.ErrBlogNotFound {
			NotFound(c, GetErrorMessage(err))
			return
		}
		h.log.Error("failed to delete blog", zap.Error(err), zap.Uint("id", id))
		InternalError(c, MsgBlogDeleteFailed)
		return
	}

	NoContent(c)
}
