package domain

import "time"

// ProjectStatus 项目状态
type ProjectStatus string

const (
	ProjectStatusActive     ProjectStatus = "active"
	ProjectStatusInProgress ProjectStatus = "in_progress"
	ProjectStatusCompleted  ProjectStatus = "completed"
	ProjectStatusArchived   ProjectStatus = "archived"
)

// Project 表示项目展示的业务实体
type Project struct {
	ID           uint          `json:"id" gorm:"primaryKey;autoIncrement"`
	Name         string        `json:"name" gorm:"type:varchar(200);not null;index"`
	Slug         string        `json:"slug" gorm:"type:varchar(250);uniqueIndex;not null"`
	Description  string        `json:"description,omitempty" gorm:"type:varchar(500)"`
	Content      string        `json:"content,omitempty" gorm:"type:text"` // 详细介绍（Markdown）
	GithubURL    string        `json:"github_url,omitempty" gorm:"type:varchar(500)"`
	DemoURL      string        `json:"demo_url,omitempty" gorm:"type:varchar(500)"`
	ThumbnailURL string        `json:"thumbnail_url,omitempty" gorm:"type:varchar(500)"`
	TechStack    []string      `json:"tech_stack" gorm:"serializer:json"`
	Status       ProjectStatus `json:"status" gorm:"type:varchar(20);default:'active';index"`
	Category     string        `json:"category,omitempty" gorm:"type:varchar(100)"`
	ViewCount    int           `json:"view_count" gorm:"default:0"`
	StarCount    int           `json:"star_count" gorm:"default:0"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at" gorm:"index"`
}

// IsNewsworthy 判断项目是否属于活跃状态（可进入内容聚合）
func (p *Project) IsNewsworthy() bool {
	return p.Status == ProjectStatusActive || p.Status == ProjectStatusInProgress
}

// ProjectSummary 用于内容聚合的项目摘要
type ProjectSummary struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Slug        string `json:"slug"`
}
