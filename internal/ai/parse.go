package ai

import (
	"strings"
)

// 模型响应以标记行划分段落：TITLE:、EXCERPT:、TAGS:、CONTENT:。
// 正文之后可能跟一个 "---" 结束标记，解析时去除。

// parseNewsletterResponse 解析通讯响应（TITLE + CONTENT）
func parseNewsletterResponse(raw string) *NewsletterDraft {
	var title string
	var contentLines []string
	section := ""

	for _, line := range strings.Split(raw, "\n") {
		stripped := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(stripped, "TITLE:"):
			title = strings.TrimSpace(strings.TrimPrefix(stripped, "TITLE:"))
			section = "title"
		case strings.HasPrefix(stripped, "CONTENT:"):
			section = "content"
		default:
			if section == "content" {
				contentLines = append(contentLines, line)
			}
		}
	}

	content := stripTrailingMarker(strings.Join(contentLines, "\n"))

	if title == "" {
		title = "Weekly Newsletter" // 模型未按格式返回时的兜底标题
	}

	return &NewsletterDraft{
		Title:   title,
		Summary: firstSentences(content, 2),
		Content: content,
	}
}

// parseBlogResponse 解析博客响应（TITLE + EXCERPT + TAGS + CONTENT）
func parseBlogResponse(raw string) *BlogDraft {
	var title, excerpt string
	var tags []string
	var contentLines []string
	section := ""

	for _, line := range strings.Split(raw, "\n") {
		stripped := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(stripped, "TITLE:"):
			title = strings.TrimSpace(strings.TrimPrefix(stripped, "TITLE:"))
			section = "title"
		case strings.HasPrefix(stripped, "EXCERPT:"):
			excerpt = strings.TrimSpace(strings.TrimPrefix(stripped, "EXCERPT:"))
			section = "excerpt"
		case strings.HasPrefix(stripped, "TAGS:"):
			tags = parseTags(strings.TrimPrefix(stripped, "TAGS:"))
			section = "tags"
		case strings.HasPrefix(stripped, "CONTENT:"):
			section = "content"
		default:
			if section == "content" {
				contentLines = append(contentLines, line)
			}
		}
	}

	content := stripTrailingMarker(strings.Join(contentLines, "\n"))

	if title == "" {
		title = "Generated Blog Post" // 兜底标题
	}

	return &BlogDraft{
		Title:   title,
		Excerpt: excerpt,
		Tags:    tags,
		Content: content,
	}
}

// parseTags 解析逗号分隔的标签列表
func parseTags(raw string) []string {
	raw = strings.Trim(strings.TrimSpace(raw), "[]")
	parts := strings.Split(raw, ",")
	tags := make([]string, 0, len(parts))
	for _, part := range parts {
		tag := strings.TrimSpace(part)
		if tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

// stripTrailingMarker 去除正文尾部的 "---" 结束标记
func stripTrailingMarker(content string) string {
	content = strings.TrimSpace(content)
	for strings.HasSuffix(content, "---") {
		content = strings.TrimSpace(strings.TrimSuffix(content, "---"))
	}
	return content
}

// firstSentences 截取正文前 n 句纯文本作为摘要
func firstSentences(content string, n int) string {
	text := stripHTMLTags(content)
	var sentences []string
	start := 0
	for i, r := range text {
		if r == '.' || r == '!' || r == '?' {
			sentence := strings.TrimSpace(text[start : i+1])
			if sentence != "" {
				sentences = append(sentences, sentence)
			}
			start = i + 1
			if len(sentences) >= n {
				break
			}
		}
	}
	if len(sentences) == 0 {
		if len(text) > 200 {
			return strings.TrimSpace(text[:200])
		}
		return strings.TrimSpace(text)
	}
	return strings.Join(sentences, " ")
}

// stripHTMLTags 去除简单 HTML 标签，仅用于生成摘要
func stripHTMLTags(s string) string {
	var b strings.Builder
	inTag := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
			b.WriteRune(' ')
		case !inTag:
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
