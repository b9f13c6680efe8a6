package mail

import (
	"context"
	"errors"
)

// ErrNotConfigured SMTP 中继未配置时调用发送操作返回此错误。
var ErrNotConfigured = errors.New("mail sender is not configured: missing smtp host")

// Recipient 通讯的单个收件人。
// UnsubscribeToken 用于在邮件底部生成该收件人专属的退订链接。
type Recipient struct {
	Email            string
	UnsubscribeToken string
}

// Sender 定义外发邮件边界。
//
// SendNewsletter 将一封通讯投递给一批收件人，
// 返回 error 表示整批投递失败。
type Sender interface {
	SendNewsletter(ctx context.Context, to []Recipient, title, htmlContent string) error
}
