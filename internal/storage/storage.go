package storage

import (
	"errors"
	"time"

	"teamsite/backend/internal/domain"
)

var (
	// ErrSubscriberNotFound 订阅者未找到错误
	ErrSubscriberNotFound = errors.New("subscriber not found")
	// ErrNewsletterNotFound 通讯未找到错误
	ErrNewsletterNotFound = errors.New("newsletter not found")
	// ErrNewsletterAlreadySent 通讯已发送错误（重复发送保护）
	ErrNewsletterAlreadySent = errors.New("newsletter already sent")
	// ErrRequestNotFound 主题请求未找到错误
	ErrRequestNotFound = errors.New("newsletter request not found")
	// ErrBlogNotFound 博客未找到错误
	ErrBlogNotFound = errors.New("blog not found")
	// ErrProjectNotFound 项目未找到错误
	ErrProjectNotFound = errors.New("project not found")
	// ErrActivityNotFound 活动未找到错误
	ErrActivityNotFound = errors.New("activity not found")
	// ErrUserNotFound 用户未找到错误
	ErrUserNotFound = errors.New("user not found")
)

// SubscriberRepository 定义订阅者数据存取操作。
type SubscriberRepository interface {
	SaveSubscriber(sub *domain.Subscriber) error
	GetSubscriber(id uint) (*domain.Subscriber, error)
	GetSubscriberByEmail(email string) (*domain.Subscriber, error)
	GetSubscriberByToken(token string) (*domain.Subscriber, error)
	ListActiveSubscribers() ([]domain.Subscriber, error)
	// ListSubscribers 分页列出订阅者，activeOnly 为 nil 时不过滤状态。
	ListSubscribers(activeOnly *bool, page, pageSize int) ([]domain.Subscriber, int64, error)
	CountSubscribers(activeOnly bool) (int64, error)
}

// NewsletterRepository 定义通讯数据存取操作。
type NewsletterRepository interface {
	SaveNewsletter(n *domain.Newsletter) error
	GetNewsletter(id uint) (*domain.Newsletter, error)
	ListNewsletters(status *domain.NewsletterStatus, page, pageSize int) ([]domain.Newsletter, int64, error)
	// MarkNewsletterSent 将通讯标记为已发送并记录收件人数。
	// 仅当当前状态不是 sent 时生效，重复调用返回 ErrNewsletterAlreadySent。
	MarkNewsletterSent(id uint, recipientCount int, sentAt time.Time) error
	MarkNewsletterFailed(id uint) error
	DeleteNewsletter(id uint) error
}

// NewsletterRequestRepository 定义通讯主题请求数据存取操作。
type NewsletterRequestRepository interface {
	SaveRequest(req *domain.NewsletterRequest) error
	GetRequest(id uint) (*domain.NewsletterRequest, error)
	ListRequests(status *domain.RequestStatus, page, pageSize int) ([]domain.NewsletterRequest, int64, error)
	UpdateRequest(req *domain.NewsletterRequest) error
	DeleteRequest(id uint) error
}

// BlogRepository 定义博客数据存取操作。
type BlogRepository interface {
	SaveBlog(blog *domain.Blog) error
	GetBlog(id uint) (*domain.Blog, error)
	GetBlogBySlug(slug string) (*domain.Blog, error)
	ListBlogs(status *domain.BlogStatus, page, pageSize int) ([]domain.Blog, int64, error)
	// ListRecentPublishedBlogs 查询指定时间之后发布的博客，按发布时间倒序。
	ListRecentPublishedBlogs(since time.Time, limit int) ([]domain.Blog, error)
	UpdateBlog(blog *domain.Blog) error
	IncrementBlogViews(id uint) error
	DeleteBlog(id uint) error
}

// ProjectRepository 定义项目数据存取操作。
type ProjectRepository interface {
	SaveProject(p *domain.Project) error
	GetProject(id uint) (*domain.Project, error)
	GetProjectBySlug(slug string) (*domain.Project, error)
	ListProjects(status *domain.ProjectStatus, page, pageSize int) ([]domain.Project, int64, error)
	// ListRecentActiveProjects 查询指定时间之后更新的活跃项目（active/in_progress）。
	ListRecentActiveProjects(since time.Time, limit int) ([]domain.Project, error)
	UpdateProject(p *domain.Project) error
	DeleteProject(id uint) error
}

// ActivityRepository 定义团队活动数据存取操作。
type ActivityRepository interface {
	SaveActivity(a *domain.Activity) error
	GetActivity(id uint) (*domain.Activity, error)
	// ListActivities 分页列出活动，可按类型过滤，按活动日期倒序。
	ListActivities(activityType *domain.ActivityType, page, pageSize int) ([]domain.Activity, int64, error)
	UpdateActivity(a *domain.Activity) error
	DeleteActivity(id uint) error
}

// UserRepository 定义用户数据存取操作。
type UserRepository interface {
	CreateUser(user *domain.User) error
	GetUserByID(id string) (*domain.User, error)
	GetUserByEmail(email string) (*domain.User, error)
	UpdateUser(user *domain.User) error
	UpdateLastLogin(userID string) error
}

// Store 定义完整的存储接口。
type Store interface {
	SubscriberRepository
	NewsletterRepository
	NewsletterRequestRepository
	BlogRepository
	ProjectRepository
	ActivityRepository
	UserRepository

	// 工具方法
	Close() error
	Health() error
}
