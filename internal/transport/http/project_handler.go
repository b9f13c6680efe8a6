package httptransport

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"teamsite/backend/internal/domain"
	"teamsite/backend/internal/service"
	"teamsite/backend/internal/storage"
)

// ProjectHandler 处理项目展示相关的 HTTP 请求
type ProjectHandler struct {
	projects *service.ProjectService
	log      *zap.Logger
}

// NewProjectHandler 创建项目处理器
func NewProjectHandler(projects *service.ProjectService, log *zap.Logger) *ProjectHandler {
	return &ProjectHandler{
		projects: projects,
		log:      log,
	}
}

type projectRequest struct {
	Name         string   `json:"name" binding:"required"`
	Slug         string   `json:"slug"`
	Description  string   `json:"description"`
	Content      string   `json:"content"`
	GithubURL    string   `json:"github_url"`
	DemoURL      string   `json:"demo_url"`
	ThumbnailURL string   `json:"thumbnail_url"`
	TechStack    []string `json:"tech_stack"`
	Status       string   `json:"status"`
	Category     string   `json:"category"`
}

func validProjectStatus(s domain.ProjectStatus) bool {
	switch s {
	case domain.ProjectStatusActive, domain.ProjectStatusInProgress,
		domain.ProjectStatusCompleted, domain.ProjectStatusArchived:
		return true
	}
	return false
}

func (r projectRequest) toInput() (service.ProjectInput, bool) {
	status := domain.ProjectStatus(r.Status)
	if r.Status != "" && !validProjectStatus(status) {
		return service.ProjectInput{}, false
	}

	return service.ProjectInput{
		Name:         r.Name,
		Slug:         r.Slug,
		Description:  r.Description,
		Content:      r.Content,
		GithubURL:    r.GithubURL,
		DemoURL:      r.DemoURL,
		ThumbnailURL: r.ThumbnailURL,
		TechStack:    r.TechStack,
		Status:       status,
		Category:     r.Category,
	}, true
}

// List 获取项目列表
func (h *ProjectHandler) List(c *gin.Context) {
	var status *domain.ProjectStatus
	if raw := c.Query("status"); raw != "" {
		s := domain.ProjectStatus(raw)
		if !validProjectStatus(s) {
			BadRequest(c, "状态参数无效")
			return
		}
		status = &s
	}

	items, result, err := h.projects.List(status, parsePage(c))
	if err != nil {
		h.log.Error("failed to list projects", zap.Error(err))
		InternalError(c, MsgProjectListFailed)
		return
	}

	Success(c, listEnvelope(items, result))
}

// GetBySlug 按 slug 获取项目详情
func (h *ProjectHandler) GetBySlug(c *gin.Context) {
	slug := c.Param("slug")

	project, err := h.projects.GetBySlug(slug)
	if err != nil {
		if err == storage.ErrProjectNotFound {
			NotFound(c, GetErrorMessage(err))
			return
		}
		h.log.Error("failed to get project", zap.Error(err), zap.String("slug", slug))
		InternalError(c, MsgProjectGetFailed)
		return
	}

	Success(c, project)
}

// Create 创建项目（管理端）
func (h *ProjectHandler) Create(c *gin.Context) {
	var req projectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, MsgInvalidRequest)
		return
	}

	input, ok := req.toInput()
	if !ok {
		BadRequest(c, "状态参数无效")
		return
	}

	project, err := h.projects.Create(input)
	if err != nil {
		if err == service.ErrSlugExists {
			Conflict(c, GetErrorMessage(err))
			return
		}
		h.log.Error("failed to create project", zap.Error(err))
		InternalError(c, MsgProjectCreateFailed)
		return
	}

	Created(c, project)
}

// Update 更新项目（管理端）
func (h *ProjectHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req projectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, MsgInvalidRequest)
		return
	}

	input, valid := req.toInput()
	if !valid {
		BadRequest(c, "状态参数无效")
		return
	}

	project, err := h.projects.Update(id, input)
	if err != nil {
		switch err {
		case storage.ErrProjectNotFound:
			NotFound(c, GetErrorMessage(err))
		case service.ErrSlugExists:
			Conflict(c, GetErrorMessage(err))
		default:
			h.log.Error("failed to update project", zap.Error(err), zap.Uint("id", id))
			InternalError(c, MsgProjectUpdateFailed)
		}
		return
	}

	Success(c, project)
}

// Delete 删除项目（管理端）
func (h *ProjectHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.projects.Delete(id); err != nil {
		if err == storage.ErrProjectNotFound {
			NotFound(c, GetErrorMessage(err))
			return
		}
		h.log.Error("failed to delete project", zap.Error(err), zap.Uint("id", id))
		InternalError(c, MsgProjectDeleteFailed)
		return
	}

	NoContent(c)
}
