package domain

import "time"

// ActivityType 团队活动类型
type ActivityType string

const (
	ActivityTypeMeeting ActivityType = "meeting"
	ActivityTypeSeminar ActivityType = "seminar"
	ActivityTypeStudy   ActivityType = "study"
	ActivityTypeProject ActivityType = "project"
)

// Valid 判断活动类型是否合法
func (t ActivityType) Valid() bool {
	switch t {
	case ActivityTypeMeeting, ActivityTypeSeminar, ActivityTypeStudy, ActivityTypeProject:
		return true
	}
	return false
}

// Activity 表示一次团队活动记录（会议、研讨、学习、项目活动）
type Activity struct {
	ID           uint         `json:"id" gorm:"primaryKey;autoIncrement"`
	Title        string       `json:"title" gorm:"type:varchar(200);not null;index"`
	Description  string       `json:"description" gorm:"type:text;not null"` // Markdown 正文
	ActivityDate time.Time    `json:"activity_date" gorm:"not null;index"`
	Type         ActivityType `json:"type" gorm:"type:varchar(20);not null;index"`
	Participants *int         `json:"participants,omitempty"`
	Location     string       `json:"location,omitempty" gorm:"type:varchar(200)"`
	Images       []string     `json:"images" gorm:"serializer:json"`
	CreatedBy    string       `json:"created_by" gorm:"type:varchar(36);not null;index"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}
