package httptransport

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"teamsite/backend/internal/domain"
	"teamsite/backend/internal/service"
	"teamsite/backend/internal/storage"
)

// NewsletterHandler 处理通讯与订阅相关的 HTTP 请求
type NewsletterHandler struct {
	newsletters *service.NewsletterService
	subscribers *service.SubscriberService
	log         *zap.Logger
}

// NewNewsletterHandler 创建通讯处理器
func NewNewsletterHandler(
	newsletters *service.NewsletterService,
	subscribers *service.SubscriberService,
	log *zap.Logger,
) *NewsletterHandler {
	return &NewsletterHandler{
		newsletters: newsletters,
		subscribers: subscribers,
		log:         log,
	}
}

type subscribeRequest struct {
	Email string `json:"email" binding:"required"`
}

type createNewsletterRequest struct {
	Title   string `json:"title" binding:"required"`
	Summary string `json:"summary"`
	Content string `json:"content" binding:"required"`
}

// newsletterView 在实体字段之上补充 sent_count 别名，兼容早期客户端
type newsletterView struct {
	domain.Newsletter
	SentCount int `json:"sent_count"`
}

func toNewsletterView(n domain.Newsletter) newsletterView {
	return newsletterView{Newsletter: n, SentCount: n.RecipientCount}
}

// parseID 解析路径中的数字 ID
func parseID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		BadRequest(c, MsgInvalidID)
		return 0, false
	}
	return uint(id), true
}

// parsePage 解析分页查询参数
func parsePage(c *gin.Context) service.Page {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))
	return service.Page{Number: page, Size: size}
}

// listEnvelope 分页列表响应体
func listEnvelope(items interface{}, result service.PageResult) gin.H {
	return gin.H{
		"items":       items,
		"total":       result.Total,
		"page":        result.Page,
		"page_size":   result.PageSize,
		"total_pages": result.TotalPages,
	}
}

// Subscribe 订阅通讯
//
// 幂等：重复订阅返回已有记录，已退订的邮箱会被重新激活。
func (h *NewsletterHandler) Subscribe(c *gin.Context) {
	var req subscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, MsgInvalidRequest)
		return
	}

	// 已登录用户记录其 ID
	var userID *string
	if v, ok := c.Get("userID"); ok {
		id := v.(string)
		userID = &id
	}

	sub, err := h.subscribers.Subscribe(req.Email, userID)
	if err != nil {
		if err == domain.ErrInvalidEmail || err == domain.ErrEmailTooLong {
			BadRequest(c, "邮箱格式无效")
			return
		}
		h.log.Error("failed to subscribe", zap.Error(err))
		InternalError(c, MsgSubscribeFailed)
		return
	}

	CreatedWithMsg(c, "订阅成功", gin.H{
		"email":         sub.Email,
		"is_active":     sub.IsActive,
		"subscribed_at": sub.SubscribedAt,
	})
}

// Unsubscribe 按邮箱取消订阅
func (h *NewsletterHandler) Unsubscribe(c *gin.Context) {
	var req subscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, MsgInvalidRequest)
		return
	}

	if err := h.subscribers.Unsubscribe(req.Email); err != nil {
		if err == storage.ErrSubscriberNotFound {
			NotFound(c, GetErrorMessage(err))
			return
		}
		h.log.Error("failed to unsubscribe", zap.Error(err))
		InternalError(c, MsgUnsubscribeFailed)
		return
	}

	SuccessWithMsg(c, "已取消订阅", nil)
}

// UnsubscribeByToken 通过邮件中的退订链接取消订阅
func (h *NewsletterHandler) UnsubscribeByToken(c *gin.Context) {
	token := c.Param("token")
	if token == "" {
		BadRequest(c, MsgInvalidRequest)
		return
	}

	if err := h.subscribers.UnsubscribeByToken(token); err != nil {
		if err == storage.ErrSubscriberNotFound {
			NotFound(c, "退订链接无效")
			return
		}
		h.log.Error("failed to unsubscribe by token", zap.Error(err))
		InternalError(c, MsgUnsubscribeFailed)
		return
	}

	SuccessWithMsg(c, "已取消订阅", nil)
}

// SubscriberCount 获取当前活跃订阅数
func (h *NewsletterHandler) SubscriberCount(c *gin.Context) {
	count, err := h.subscribers.CountActive()
	if err != nil {
		h.log.Error("failed to count subscribers", zap.Error(err))
		InternalError(c, MsgInternalError)
		return
	}

	Success(c, gin.H{"count": count})
}

// ListSubscribers 分页列出订阅者（管理端）
//
// status 查询参数：active / inactive / all，默认 all。
func (h *NewsletterHandler) ListSubscribers(c *gin.Context) {
	var activeOnly *bool
	switch c.DefaultQuery("status", "all") {
	case "active":
		v := true
		activeOnly = &v
	case "inactive":
		v := false
		activeOnly = &v
	case "all":
	default:
		BadRequest(c, "状态参数无效")
		return
	}

	items, result, err := h.subscribers.List(activeOnly, parsePage(c))
	if err != nil {
		h.log.Error("failed to list subscribers", zap.Error(err))
		InternalError(c, MsgInternalError)
		return
	}

	Success(c, listEnvelope(items, result))
}

// List 获取通讯列表
//
// 公开接口默认只返回已发送的通讯；管理端可通过 status 查询参数过滤。
func (h *NewsletterHandler) List(c *gin.Context) {
	var status *domain.NewsletterStatus
	if raw := c.Query("status"); raw != "" {
		s := domain.NewsletterStatus(raw)
		if !s.Valid() {
			BadRequest(c, "状态参数无效")
			return
		}
		status = &s
	} else if _, isAdmin := c.Get("user"); !isAdmin {
		// 未走管理端中间件时仅暴露已发送内容
		s := domain.NewsletterStatusSent
		status = &s
	}

	items, result, err := h.newsletters.List(status, parsePage(c))
	if err != nil {
		h.log.Error("failed to list newsletters", zap.Error(err))
		InternalError(c, MsgNewsletterListFailed)
		return
	}

	views := make([]newsletterView, len(items))
	for i, n := range items {
		views[i] = toNewsletterView(n)
	}

	Success(c, listEnvelope(views, result))
}

// Get 获取通讯详情
func (h *NewsletterHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	n, err := h.newsletters.Get(id)
	if err != nil {
		if err == storage.ErrNewsletterNotFound {
			NotFound(c, GetErrorMessage(err))
			return
		}
		h.log.Error("failed to get newsletter", zap.Error(err), zap.Uint("id", id))
		InternalError(c, MsgNewsletterGetFailed)
		return
	}

	Success(c, toNewsletterView(*n))
}

// Create 创建通讯草稿（管理端）
func (h *NewsletterHandler) Create(c *gin.Context) {
	var req createNewsletterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, MsgInvalidRequest)
		return
	}

	var createdBy *string
	if v, ok := c.Get("userID"); ok {
		id := v.(string)
		createdBy = &id
	}

	n, err := h.newsletters.Create(service.CreateInput{
		Title:     req.Title,
		Summary:   req.Summary,
		Content:   req.Content,
		CreatedBy: createdBy,
	})
	if err != nil {
		h.log.Error("failed to create newsletter", zap.Error(err))
		InternalError(c, MsgNewsletterCreateFailed)
		return
	}

	Created(c, n)
}

// Send 向所有活跃订阅者群发通讯（管理端）
func (h *NewsletterHandler) Send(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	report, err := h.newsletters.SendToAll(c.Request.Context(), id)
	if err != nil {
		switch err {
		case storage.ErrNewsletterNotFound:
			NotFound(c, GetErrorMessage(err))
		case service.ErrSendFailed:
			// 全部批次失败，返回报告便于排查
			c.JSON(502, Response{
				Code: 502,
				Msg:  GetErrorMessage(err),
				Data: report,
			})
		default:
			h.log.Error("failed to send newsletter", zap.Error(err), zap.Uint("id", id))
			InternalError(c, MsgNewsletterSendFailed)
		}
		return
	}

	if report.AlreadySent {
		SuccessWithMsg(c, "通讯此前已发送", report)
		return
	}

	SuccessWithMsg(c, "发送完成", gin.H{
		"newsletter_id":     report.NewsletterID,
		"total_subscribers": report.TotalSubscribers,
		"recipient_count":   report.RecipientCount,
		"sent_count":        report.RecipientCount,
		"batch_size":        report.BatchSize,
		"batch_count":       report.BatchCount,
		"failed_batches":    report.FailedBatches,
	})
}

// Delete 删除通讯（管理端）
func (h *NewsletterHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.newsletters.Delete(id); err != nil {
		if err == storage.ErrNewsletterNotFound {
			NotFound(c, GetErrorMessage(err))
			return
		}
		h.log.Error("failed to delete newsletter", zap.Error(err), zap.Uint("id", id))
		InternalError(c, MsgNewsletterDeleteFailed)
		return
	}

	NoContent(c)
}
