package domain

import "time"

// NewsletterStatus 通讯（Newsletter）状态
type NewsletterStatus string

const (
	NewsletterStatusDraft     NewsletterStatus = "draft"
	NewsletterStatusScheduled NewsletterStatus = "scheduled"
	NewsletterStatusSent      NewsletterStatus = "sent"
	NewsletterStatusFailed    NewsletterStatus = "failed"
)

// Valid 判断状态值是否合法
func (s NewsletterStatus) Valid() bool {
	switch s {
	case NewsletterStatusDraft, NewsletterStatusScheduled, NewsletterStatusSent, NewsletterStatusFailed:
		return true
	}
	return false
}

// Subscriber 表示通讯订阅者的业务实体
//
// 约束：is_active=true 时 subscribed_at 必须非空；
// unsubscribed_at 仅在转为退订时写入。
type Subscriber struct {
	ID               uint       `json:"id" gorm:"primaryKey;autoIncrement"`
	Email            string     `json:"email" gorm:"type:varchar(255);uniqueIndex;not null"`
	UserID           *string    `json:"user_id,omitempty" gorm:"type:varchar(36);index"` // 关联的注册用户（可选）
	IsActive         bool       `json:"is_active" gorm:"default:false;index"`
	UnsubscribeToken string     `json:"-" gorm:"type:varchar(36);uniqueIndex"`
	SubscribedAt     *time.Time `json:"subscribed_at,omitempty" gorm:"index"`
	UnsubscribedAt   *time.Time `json:"unsubscribed_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
}

// SourceProject 通讯引用的项目来源描述（provenance）
type SourceProject struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Newsletter 表示一期通讯的业务实体
//
// 约束：sent_at 当且仅当 status=sent 时非空；
// recipient_count 仅在 status=sent 时有意义。
type Newsletter struct {
	ID              uint             `json:"id" gorm:"primaryKey;autoIncrement"`
	Title           string           `json:"title" gorm:"type:varchar(200);not null"`
	Summary         string           `json:"summary,omitempty" gorm:"type:varchar(500)"`
	Content         string           `json:"content" gorm:"type:text;not null"` // HTML 正文
	Status          NewsletterStatus `json:"status" gorm:"type:varchar(20);default:'draft';index"`
	PeriodStart     *time.Time       `json:"period_start,omitempty"`
	PeriodEnd       *time.Time       `json:"period_end,omitempty"`
	SourceBlogIDs   []uint           `json:"source_blog_ids,omitempty" gorm:"serializer:json"`
	SourceProjects  []SourceProject  `json:"source_projects,omitempty" gorm:"serializer:json"`
	IsAutoGenerated bool             `json:"is_auto_generated" gorm:"default:false"`
	CreatedBy       *string          `json:"created_by,omitempty" gorm:"type:varchar(36)"`
	ScheduledAt     *time.Time       `json:"scheduled_at,omitempty"`
	SentAt          *time.Time       `json:"sent_at,omitempty"`
	RecipientCount  int              `json:"recipient_count" gorm:"default:0"`
	CreatedAt       time.Time        `json:"created_at" gorm:"index"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

// IsSent 判断该期通讯是否已发送
func (n *Newsletter) IsSent() bool {
	return n.Status == NewsletterStatusSent
}

// RequestStatus 通讯选题请求状态
type RequestStatus string

const (
	RequestStatusPending  RequestStatus = "pending"
	RequestStatusAccepted RequestStatus = "accepted"
	RequestStatusRejected RequestStatus = "rejected"
)

// NewsletterRequest 表示读者提交的通讯选题请求
type NewsletterRequest struct {
	ID           uint          `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID       *string       `json:"user_id,omitempty" gorm:"type:varchar(36);index"`
	Email        string        `json:"email" gorm:"type:varchar(255);not null;index"` // 游客也可提交
	Name         string        `json:"name,omitempty" gorm:"type:varchar(100)"`
	Topic        string        `json:"topic" gorm:"type:varchar(200);not null"`
	Description  string        `json:"description,omitempty" gorm:"type:text"`
	Priority     int           `json:"priority" gorm:"default:0"` // 数值越大越优先
	Votes        int           `json:"votes" gorm:"default:0"`
	Status       RequestStatus `json:"status" gorm:"type:varchar(20);default:'pending';index"`
	NewsletterID *uint         `json:"newsletter_id,omitempty"` // 最终覆盖该选题的通讯
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}
