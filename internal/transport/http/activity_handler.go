package httptransport

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"teamsite/backend/internal/domain"
	"teamsite/backend/internal/service"
	"teamsite/backend/internal/storage"
)

// ActivityHandler 处理团队活动相关的 HTTP 请求
type ActivityHandler struct {
	activities *service.ActivityService
	log        *zap.Logger
}

// NewActivityHandler 创建活动处理器
func NewActivityHandler(activities *service.ActivityService, log *zap.Logger) *ActivityHandler {
	return &ActivityHandler{
		activities: activities,
		log:        log,
	}
}

type activityRequest struct {
	Title        string    `json:"title" binding:"required"`
	Description  string    `json:"description" binding:"required"`
	ActivityDate time.Time `json:"activity_date" binding:"required"`
	Type         string    `json:"type" binding:"required"`
	Participants *int      `json:"participants"`
	Location     string    `json:"location"`
	Images       []string  `json:"images"`
}

func (r activityRequest) toInput() (service.ActivityInput, bool) {
	activityType := domain.ActivityType(r.Type)
	if !activityType.Valid() {
		return service.ActivityInput{}, false
	}

	return service.ActivityInput{
		Title:        r.Title,
		Description:  r.Description,
		ActivityDate: r.ActivityDate,
		Type:         activityType,
		Participants: r.Participants,
		Location:     r.Location,
		Images:       r.Images,
	}, true
}

// currentUserID 取出认证中间件写入的用户 ID
func currentUserID(c *gin.Context) (string, bool) {
	v, ok := c.Get("userID")
	if !ok {
		return "", false
	}
	id, ok := v.(string)
	return id, ok
}

// List 获取活动列表，可按类型过滤
func (h *ActivityHandler) List(c *gin.Context) {
	var activityType *domain.ActivityType
	if raw := c.Query("type"); raw != "" {
		t := domain.ActivityType(raw)
		if !t.Valid() {
			BadRequest(c, "活动类型无效")
			return
		}
		activityType = &t
	}

	items, result, err := h.activities.List(activityType, parsePage(c))
	if err != nil {
		h.log.Error("failed to list activities", zap.Error(err))
		InternalError(c, "获取活动列表失败")
		return
	}

	Success(c, listEnvelope(items, result))
}

// Get 获取活动详情
func (h *ActivityHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	a, err := h.activities.Get(id)
	if err != nil {
		if err == storage.ErrActivityNotFound {
			NotFound(c, GetErrorMessage(err))
			return
		}
		h.log.Error("failed to get activity", zap.Error(err), zap.Uint("id", id))
		InternalError(c, "获取活动失败")
		return
	}

	Success(c, a)
}

// Create 创建活动（需登录）
func (h *ActivityHandler) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		Unauthorized(c, MsgAuthRequired)
		return
	}

	var req activityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, MsgInvalidRequest)
		return
	}

	input, valid := req.toInput()
	if !valid {
		BadRequest(c, "活动类型无效")
		return
	}

	a, err := h.activities.Create(input, userID)
	if err != nil {
		h.log.Error("failed to create activity", zap.Error(err))
		InternalError(c, "创建活动失败")
		return
	}

	Created(c, a)
}

// Update 更新活动（仅限创建者）
func (h *ActivityHandler) Update(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		Unauthorized(c, MsgAuthRequired)
		return
	}

	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req activityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, MsgInvalidRequest)
		return
	}

	input, valid := req.toInput()
	if !valid {
		BadRequest(c, "活动类型无效")
		return
	}

	a, err := h.activities.Update(id, input, userID)
	if err != nil {
		switch err {
		case storage.ErrActivityNotFound:
			NotFound(c, GetErrorMessage(err))
		case service.ErrNotCreator:
			Forbidden(c, GetErrorMessage(err))
		default:
			h.log.Error("failed to update activity", zap.Error(err), zap.Uint("id", id))
			InternalError(c, "更新活动失败")
		}
		return
	}

	Success(c, a)
}

// Delete 删除活动（仅限创建者）
func (h *ActivityHandler) Delete(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		Unauthorized(c, MsgAuthRequired)
		return
	}

	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.activities.Delete(id, userID); err != nil {
		switch err {
		case storage.ErrActivityNotFound:
			NotFound(c, GetErrorMessage(err))
		case service.ErrNotCreator:
			Forbidden(c, GetErrorMessage(err))
		default:
			h.log.Error("failed to delete activity", zap.Error(err), zap.Uint("id", id))
			InternalError(c, "删除活动失败")
		}
		return
	}

	NoContent(c)
}
