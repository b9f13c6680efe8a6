package mail

import (
	"context"
	"fmt"
	"mime"
	"strings"
	"time"

	"github.com/emersion/go-sasl"
	"github.com/emersion/go-smtp"
	"go.uber.org/zap"
)

// Config SMTP 中继配置
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	SiteName string
	BaseURL  string
	Timeout  time.Duration
}

// SMTPSender 通过 SMTP 中继发送邮件。
//
// Host 为空时进入开发模式：不实际投递，仅记录日志并视为成功。
type SMTPSender struct {
	cfg    Config
	logger *zap.Logger
}

// NewSMTPSender 创建 SMTP 发送器
func NewSMTPSender(cfg Config, logger *zap.Logger) *SMTPSender {
	if cfg.Host == "" {
		logger.Warn("SMTP 中继未配置，邮件发送进入开发模式（仅记录日志）")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &SMTPSender{cfg: cfg, logger: logger}
}

// SendNewsletter 将通讯投递给一批收件人。
//
// 批内逐封投递：每封邮件单独渲染，换入该收件人专属的退订链接。
// 任一封投递失败即视为整批失败。
func (s *SMTPSender) SendNewsletter(ctx context.Context, to []Recipient, title, htmlContent string) error {
	if len(to) == 0 {
		return nil
	}

	subject := fmt.Sprintf("%s - %s Newsletter", title, s.cfg.SiteName)

	// 开发模式：模拟发送成功
	if s.cfg.Host == "" {
		s.logger.Info("[DEV MODE] 模拟发送通讯",
			zap.Int("recipients", len(to)),
			zap.String("subject", subject))
		return nil
	}

	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)

	var auth sasl.Client
	if s.cfg.Username != "" {
		auth = sasl.NewPlainClient("", s.cfg.Username, s.cfg.Password)
	}

	// go-smtp 的 SendMail 是阻塞调用，在 goroutine 中执行以尊重 ctx 超时
	done := make(chan error, 1)
	go func() {
		for _, rcpt := range to {
			body := RenderNewsletter(TemplateData{
				Title:          title,
				Content:        htmlContent,
				SiteName:       s.cfg.SiteName,
				BaseURL:        s.cfg.BaseURL,
				UnsubscribeURL: s.UnsubscribeURL(rcpt.UnsubscribeToken),
			})
			msg := s.buildMessage(rcpt.Email, subject, body)
			if err := smtp.SendMail(addr, auth, s.cfg.From, []string{rcpt.Email}, strings.NewReader(msg)); err != nil {
				done <- fmt.Errorf("smtp send to %s failed: %w", rcpt.Email, err)
				return
			}
		}
		done <- nil
	}()

	timer := time.NewTimer(s.cfg.Timeout)
	defer timer.Stop()

	select {
	case err := <-done:
		if err != nil {
			s.logger.Error("通讯投递失败",
				zap.Int("recipients", len(to)),
				zap.Error(err))
			return err
		}
		s.logger.Info("通讯投递成功",
			zap.Int("recipients", len(to)),
			zap.String("subject", subject))
		return nil
	case <-timer.C:
		return fmt.Errorf("smtp send timed out after %s", s.cfg.Timeout)
	case <-ctx.Done():
		return ctx.Err()
	}
}

// UnsubscribeURL 生成收件人专属的退订链接
func (s *SMTPSender) UnsubscribeURL(token string) string {
	return fmt.Sprintf("%s/v1/newsletter/unsubscribe/%s", strings.TrimRight(s.cfg.BaseURL, "/"), token)
}

// buildMessage 组装 MIME 邮件
func (s *SMTPSender) buildMessage(to, subject, htmlBody string) string {
	b := &strings.Builder{}
	fmt.Fprintf(b, "From: %s <%s>\r\n", mime.QEncoding.Encode("utf-8", s.cfg.SiteName), s.cfg.From)
	fmt.Fprintf(b, "To: %s\r\n", to)
	fmt.Fprintf(b, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", subject))
	fmt.Fprintf(b, "Date: %s\r\n", time.Now().UTC().Format(time.RFC1123Z))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=utf-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(htmlBody)
	return b.String()
}
