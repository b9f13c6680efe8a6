package httptransport

import (
	"teamsite/backend/internal/ai"
	"teamsite/backend/internal/auth"
	"teamsite/backend/internal/mail"
	"teamsite/backend/internal/service"
	"teamsite/backend/internal/storage"
)

// 错误消息映射表（业务错误 -> 中文消息）
var errorMessages = map[error]string{
	// 订阅者错误
	storage.ErrSubscriberNotFound: "订阅者不存在",

	// 通讯错误
	storage.ErrNewsletterNotFound:    "通讯不存在",
	storage.ErrNewsletterAlreadySent: "通讯已发送，不能重复发送",
	service.ErrSendFailed:            "通讯发送失败，所有批次均未成功",

	// 内容错误
	storage.ErrBlogNotFound:     "博客文章不存在",
	storage.ErrProjectNotFound:  "项目不存在",
	storage.ErrRequestNotFound:  "选题请求不存在",
	storage.ErrActivityNotFound: "活动不存在",
	service.ErrSlugExists:       "URL 标识已存在",
	service.ErrInvalidStatus:    "当前状态不允许该操作",
	service.ErrNotCreator:       "仅限创建者操作",

	// 认证错误
	auth.ErrInvalidEmail:       "邮箱格式无效",
	auth.ErrInvalidPassword:    "密码格式无效，长度需在8到72个字符之间",
	auth.ErrEmailExists:        "邮箱已被注册",
	auth.ErrUserNotFound:       "用户不存在",
	auth.ErrInvalidCredentials: "邮箱或密码错误",
	auth.ErrUserInactive:       "账户已被停用",
	storage.ErrUserNotFound:    "用户不存在",

	// 外部服务错误
	ai.ErrNotConfigured:   "AI 服务未配置",
	ai.ErrEmptyResponse:   "AI 服务返回了空响应",
	mail.ErrNotConfigured: "邮件服务未配置",
}

// GetErrorMessage 获取错误的中文消息
func GetErrorMessage(err error) string {
	if msg, ok := errorMessages[err]; ok {
		return msg
	}
	return err.Error()
}

// 通用错误消息
const (
	// 请求相关
	MsgInvalidRequest   = "请求参数格式错误"
	MsgInvalidID        = "ID 格式无效"
	MsgRequestBodyEmpty = "请求体不能为空"

	// 认证相关
	MsgAuthRequired       = "需要登录认证"
	MsgInvalidCredentials = "邮箱或密码错误"
	MsgTokenExpired       = "登录已过期，请重新登录"
	MsgTokenInvalid       = "无效的访问令牌"
	MsgPermissionDenied   = "权限不足"

	// 订阅相关
	MsgSubscribeFailed   = "订阅失败"
	MsgUnsubscribeFailed = "取消订阅失败"

	// 通讯相关
	MsgNewsletterCreateFailed   = "创建通讯失败"
	MsgNewsletterListFailed     = "获取通讯列表失败"
	MsgNewsletterGetFailed      = "获取通讯详情失败"
	MsgNewsletterSendFailed     = "发送通讯失败"
	MsgNewsletterDeleteFailed   = "删除通讯失败"
	MsgNewsletterGenerateFailed = "生成通讯失败"

	// 博客相关
	MsgBlogCreateFailed = "创建博客文章失败"
	MsgBlogListFailed   = "获取博客列表失败"
	MsgBlogGetFailed    = "获取博客详情失败"
	MsgBlogUpdateFailed = "更新博客文章失败"
	MsgBlogDeleteFailed = "删除博客文章失败"

	// 项目相关
	MsgProjectCreateFailed = "创建项目失败"
	MsgProjectListFailed   = "获取项目列表失败"
	MsgProjectGetFailed    = "获取项目详情失败"
	MsgProjectUpdateFailed = "更新项目失败"
	MsgProjectDeleteFailed = "删除项目失败"

	// 选题请求相关
	MsgRequestCreateFailed = "提交选题请求失败"
	MsgRequestListFailed   = "获取选题请求列表失败"
	MsgRequestVoteFailed   = "投票失败"
	MsgRequestUpdateFailed = "更新选题请求失败"
	MsgRequestDeleteFailed = "删除选题请求失败"

	// 服务器错误
	MsgInternalError = "服务器内部错误，请稍后重试"
)
