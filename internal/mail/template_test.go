package mail

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestRenderNewsletter(t *testing.T) {
	html := RenderNewsletter(TemplateData{
		Title:          "Weekly Update",
		Content:        "<h2>News</h2><p>Hello readers</p>",
		SiteName:       "Team Site",
		BaseURL:        "https://example.com/",
		UnsubscribeURL: "https://example.com/v1/newsletter/unsubscribe/tok-123",
	})

	assert.Contains(t, html, "Weekly Update")
	assert.Contains(t, html, "<p>Hello readers</p>")
	assert.Contains(t, html, "Team Site")
	// 正文链接去掉尾部斜杠
	assert.Contains(t, html, `href="https://example.com"`)
	// 退订链接是收件人专属的
	assert.Contains(t, html, `href="https://example.com/v1/newsletter/unsubscribe/tok-123"`)
}

func TestUnsubscribeURL(t *testing.T) {
	sender := NewSMTPSender(Config{BaseURL: "https://example.com/"}, zap.NewNop())
	assert.Equal(t,
		"https://example.com/v1/newsletter/unsubscribe/tok-9",
		sender.UnsubscribeURL("tok-9"))
}
