package mail

import (
	"html/template"
	"strings"
)

// TemplateData 通讯邮件模板数据
type TemplateData struct {
	Title          string
	Content        string // 已生成的 HTML 正文，原样嵌入
	SiteName       string
	BaseURL        string
	UnsubscribeURL string // 收件人专属退订链接
}

var newsletterTmpl = template.Must(template.New("newsletter").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>{{.Title}}</title>
<style>
body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, Arial, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px; background-color: #f4f4f4; }
.container { background-color: #ffffff; border-radius: 8px; padding: 30px; box-shadow: 0 2px 4px rgba(0,0,0,0.1); }
.header { text-align: center; padding-bottom: 20px; border-bottom: 2px solid #e0e0e0; margin-bottom: 30px; }
.header h1 { color: #2563eb; margin: 0; font-size: 24px; }
.content { font-size: 16px; color: #444; }
.content h2 { color: #1e40af; margin-top: 25px; margin-bottom: 15px; }
.content p { margin-bottom: 15px; }
.content a { color: #2563eb; text-decoration: none; }
.footer { margin-top: 40px; padding-top: 20px; border-top: 1px solid #e0e0e0; text-align: center; font-size: 14px; color: #666; }
.footer a { color: #2563eb; text-decoration: none; }
.unsubscribe { margin-top: 15px; font-size: 12px; color: #999; }
</style>
</head>
<body>
<div class="container">
  <div class="header">
    <h1>{{.Title}}</h1>
    <p style="color: #666; margin: 10px 0 0 0;">{{.SiteName}} Newsletter</p>
  </div>
  <div class="content">
    {{.Body}}
  </div>
  <div class="footer">
    <p>&copy; {{.SiteName}}. All rights reserved.</p>
    <p><a href="{{.BaseURL}}">Visit site</a></p>
    <p class="unsubscribe">
      Don't want these emails? <a href="{{.UnsubscribeURL}}">Unsubscribe</a>.
    </p>
  </div>
</div>
</body>
</html>`))

// RenderNewsletter 将通讯正文包装进邮件 HTML 模板
func RenderNewsletter(data TemplateData) string {
	payload := struct {
		Title          string
		Body           template.HTML // 正文来自受信任的生成管线
		SiteName       string
		BaseURL        string
		UnsubscribeURL string
	}{
		Title:          data.Title,
		Body:           template.HTML(data.Content),
		SiteName:       data.SiteName,
		BaseURL:        strings.TrimRight(data.BaseURL, "/"),
		UnsubscribeURL: data.UnsubscribeURL,
	}

	b := &strings.Builder{}
	if err := newsletterTmpl.Execute(b, payload); err != nil {
		// 模板静态定义，执行失败只可能是数据问题，退回裸正文
		return data.Content
	}
	return b.String()
}
