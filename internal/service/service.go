package service

import (
	"errors"
)

var (
	// ErrSendFailed 所有批次投递均失败
	ErrSendFailed = errors.New("newsletter delivery failed for all batches")
	// ErrSlugExists slug 已被占用
	ErrSlugExists = errors.New("slug already exists")
	// ErrInvalidStatus 非法的状态流转
	ErrInvalidStatus = errors.New("invalid status transition")
	// ErrNotCreator 只有创建者可以修改或删除
	ErrNotCreator = errors.New("only the creator can modify this record")
)

// Page 分页查询参数
type Page struct {
	Number int // 从 1 开始
	Size   int
}

// Normalize 规范化分页参数，越界值回退到默认
func (p Page) Normalize() Page {
	if p.Number < 1 {
		p.Number = 1
	}
	if p.Size < 1 {
		p.Size = 10
	}
	if p.Size > 100 {
		p.Size = 100
	}
	return p
}

// PageResult 分页查询结果元数据
type PageResult struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int   `json:"total_pages"`
}

// NewPageResult 计算分页元数据
func NewPageResult(total int64, page Page) PageResult {
	totalPages := int((total + int64(page.Size) - 1) / int64(page.Size))
	return PageResult{
		Total:      total,
		Page:       page.Number,
		PageSize:   page.Size,
		TotalPages: totalPages,
	}
}
