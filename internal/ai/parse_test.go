package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseNewsletterResponse(t *testing.T) {
	t.Run("标准格式", func(t *testing.T) {
		raw := `TITLE: 本周开发动态

CONTENT:
<h2>Blog Highlights</h2>
<p>This week we shipped the new storage layer.</p>

---`
		draft := parseNewsletterResponse(raw)
		assert.Equal(t, "本周开发动态", draft.Title)
		assert.Contains(t, draft.Content, "<h2>Blog Highlights</h2>")
		assert.NotContains(t, draft.Content, "---", "结束标记应被去除")
		assert.NotEmpty(t, draft.Summary)
	})

	t.Run("缺少标题使用兜底", func(t *testing.T) {
		raw := `CONTENT:
<p>Body only.</p>`
		draft := parseNewsletterResponse(raw)
		assert.Equal(t, "Weekly Newsletter", draft.Title)
		assert.Equal(t, "<p>Body only.</p>", draft.Content)
	})

	t.Run("完全无标记", func(t *testing.T) {
		draft := parseNewsletterResponse("just some text")
		assert.Equal(t, "Weekly Newsletter", draft.Title)
		assert.Empty(t, draft.Content)
	})
}

func TestParseBlogResponse(t *testing.T) {
	t.Run("标准格式", func(t *testing.T) {
		raw := `TITLE: Understanding Goroutines

EXCERPT: A practical look at Go concurrency. We cover scheduling and pitfalls.

TAGS: go, concurrency, goroutines

CONTENT:
# Understanding Goroutines

Goroutines are lightweight threads.

---`
		draft := parseBlogResponse(raw)
		assert.Equal(t, "Understanding Goroutines", draft.Title)
		assert.Equal(t, "A practical look at Go concurrency. We cover scheduling and pitfalls.", draft.Excerpt)
		assert.Equal(t, []string{"go", "concurrency", "goroutines"}, draft.Tags)
		assert.Contains(t, draft.Content, "# Understanding Goroutines")
		assert.NotContains(t, draft.Content, "---")
	})

	t.Run("带方括号的标签", func(t *testing.T) {
		raw := `TITLE: T

TAGS: [a, b]

CONTENT:
body`
		draft := parseBlogResponse(raw)
		assert.Equal(t, []string{"a", "b"}, draft.Tags)
	})

	t.Run("缺少标题使用兜底", func(t *testing.T) {
		draft := parseBlogResponse("CONTENT:\nsome body")
		assert.Equal(t, "Generated Blog Post", draft.Title)
	})
}

func TestStripTrailingMarker(t *testing.T) {
	assert.Equal(t, "body", stripTrailingMarker("body\n\n---"))
	assert.Equal(t, "body", stripTrailingMarker("body\n---\n---"))
	assert.Equal(t, "a --- b", stripTrailingMarker("a --- b"), "正文中间的分隔线应保留")
}

func TestFirstSentences(t *testing.T) {
	got := firstSentences("<p>First one. Second one. Third one.</p>", 2)
	assert.Equal(t, "First one. Second one.", got)

	assert.NotEmpty(t, firstSentences("<p>no terminal punctuation</p>", 2))
}
