package httptransport

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"teamsite/backend/internal/domain"
	"teamsite/backend/internal/service"
	"teamsite/backend/internal/storage"
)

// RequestHandler 处理通讯选题请求相关的 HTTP 请求
//
// 访客和登录用户都可以提交想看的主题，管理员审核后采纳或拒绝。
type RequestHandler struct {
	requests *service.RequestService
	log      *zap.Logger
}

// NewRequestHandler 创建选题请求处理器
func NewRequestHandler(requests *service.RequestService, log *zap.Logger) *RequestHandler {
	return &RequestHandler{
		requests: requests,
		log:      log,
	}
}

type topicRequest struct {
	Email       string `json:"email" binding:"required"`
	Name        string `json:"name"`
	Topic       string `json:"topic" binding:"required"`
	Description string `json:"description"`
}

type acceptRequest struct {
	NewsletterID *uint `json:"newsletter_id"`
}

type priorityRequest struct {
	Priority int `json:"priority" binding:"min=0"`
}

// Create 提交选题请求
func (h *RequestHandler) Create(c *gin.Context) {
	var req topicRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, MsgInvalidRequest)
		return
	}

	var userID *string
	if v, ok := c.Get("userID"); ok {
		id := v.(string)
		userID = &id
	}

	r, err := h.requests.Create(service.RequestInput{
		Email:       req.Email,
		Name:        req.Name,
		Topic:       req.Topic,
		Description: req.Description,
		UserID:      userID,
	})
	if err != nil {
		if err == domain.ErrInvalidEmail || err == domain.ErrEmailTooLong {
			BadRequest(c, "邮箱格式无效")
			return
		}
		h.log.Error("failed to create topic request", zap.Error(err))
		InternalError(c, MsgRequestCreateFailed)
		return
	}

	Created(c, r)
}

// List 获取选题请求列表
func (h *RequestHandler) List(c *gin.Context) {
	var status *domain.RequestStatus
	if raw := c.Query("status"); raw != "" {
		s := domain.RequestStatus(raw)
		switch s {
		case domain.RequestStatusPending, domain.RequestStatusAccepted, domain.RequestStatusRejected:
			status = &s
		default:
			BadRequest(c, "状态参数无效")
			return
		}
	}

	items, result, err := h.requests.List(status, parsePage(c))
	if err != nil {
		h.log.Error("failed to list topic requests", zap.Error(err))
		InternalError(c, MsgRequestListFailed)
		return
	}

	Success(c, listEnvelope(items, result))
}

// Vote 为选题请求投票
func (h *RequestHandler) Vote(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	r, err := h.requests.Vote(id)
	if err != nil {
		if err == storage.ErrRequestNotFound {
			NotFound(c, GetErrorMessage(err))
			return
		}
		h.log.Error("failed to vote", zap.Error(err), zap.Uint("id", id))
		InternalError(c, MsgRequestVoteFailed)
		return
	}

	Success(c, gin.H{"id": r.ID, "votes": r.Votes})
}

// UpdatePriority 调整选题请求的优先级（管理端）
//
// 优先级高的请求在列表中排在前面，便于突出编辑部重点跟进的主题。
func (h *RequestHandler) UpdatePriority(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req priorityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, MsgInvalidRequest)
		return
	}

	r, err := h.requests.SetPriority(id, req.Priority)
	if err != nil {
		if err == storage.ErrRequestNotFound {
			NotFound(c, GetErrorMessage(err))
			return
		}
		h.log.Error("failed to update request priority", zap.Error(err), zap.Uint("id", id))
		InternalError(c, MsgRequestUpdateFailed)
		return
	}

	Success(c, r)
}

// Accept 采纳选题请求（管理端）
//
// 可选关联已生成的通讯 ID，便于前端展示"该主题已在第 N 期介绍"。
func (h *RequestHandler) Accept(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req acceptRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		BadRequest(c, MsgInvalidRequest)
		return
	}

	r, err := h.requests.Accept(id, req.NewsletterID)
	if err != nil {
		switch err {
		case storage.ErrRequestNotFound:
			NotFound(c, GetErrorMessage(err))
		case service.ErrInvalidStatus:
			Conflict(c, GetErrorMessage(err))
		default:
			h.log.Error("failed to accept request", zap.Error(err), zap.Uint("id", id))
			InternalError(c, MsgRequestUpdateFailed)
		}
		return
	}

	SuccessWithMsg(c, "已采纳", r)
}

// Reject 拒绝选题请求（管理端）
func (h *RequestHandler) Reject(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	r, err := h.requests.Reject(id)
	if err != nil {
		switch err {
		case storage.ErrRequestNotFound:
			NotFound(c, GetErrorMessage(err))
		case service.ErrInvalidStatus:
			Conflict(c, GetErrorMessage(err))
		default:
			h.log.Error("failed to reject request", zap.Error(err), zap.Uint("id", id))
			InternalError(c, MsgRequestUpdateFailed)
		}
		return
	}

	SuccessWithMsg(c, "已拒绝", r)
}

// Delete 删除选题请求（管理端）
func (h *RequestHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.requests.Delete(id); err != nil {
		if err == storage.ErrRequestNotFound {
			NotFound(c, GetErrorMessage(err))
			return
		}
		h.log.Error("failed to delete request", zap.Error(err), zap.Uint("id", id))
		InternalError(c, MsgRequestDeleteFailed)
		return
	}

	NoContent(c)
}
