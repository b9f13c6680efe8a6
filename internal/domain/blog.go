package domain

import "time"

// BlogStatus 博客文章状态
type BlogStatus string

const (
	BlogStatusDraft     BlogStatus = "draft"
	BlogStatusPublished BlogStatus = "published"
	BlogStatusArchived  BlogStatus = "archived"
)

// Blog 表示博客文章的业务实体
type Blog struct {
	ID          uint       `json:"id" gorm:"primaryKey;autoIncrement"`
	Title       string     `json:"title" gorm:"type:varchar(200);not null;index"`
	Slug        string     `json:"slug" gorm:"type:varchar(250);uniqueIndex;not null"`
	Content     string     `json:"content" gorm:"type:text;not null"` // Markdown 正文
	Excerpt     string     `json:"excerpt,omitempty" gorm:"type:varchar(500)"`
	AuthorID    *string    `json:"author_id,omitempty" gorm:"type:varchar(36);index"`
	Status      BlogStatus `json:"status" gorm:"type:varchar(20);default:'draft';index"`
	Tags        []string   `json:"tags" gorm:"serializer:json"` // 有序标签列表，JSON 存储
	ViewCount   int        `json:"view_count" gorm:"default:0"`
	CreatedAt   time.Time  `json:"created_at" gorm:"index"`
	UpdatedAt   time.Time  `json:"updated_at"`
	PublishedAt *time.Time `json:"published_at,omitempty" gorm:"index"`
}

// IsPublished 判断文章是否已发布
func (b *Blog) IsPublished() bool {
	return b.Status == BlogStatusPublished
}

// BlogSummary 用于内容聚合的文章摘要（标题 + 摘要 + slug）
type BlogSummary struct {
	ID      uint   `json:"id"`
	Title   string `json:"title"`
	Excerpt string `json:"excerpt"`
	Slug    string `json:"slug"`
}
