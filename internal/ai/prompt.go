package ai

import (
	"fmt"
	"strings"
)

// buildNewsletterPrompt 组装通讯生成的提示词
//
// 素材部分最多各取 5 条，避免提示词过长。
func buildNewsletterPrompt(input NewsletterInput) string {
	b := &strings.Builder{}

	period := "weekly"
	days := int(input.PeriodEnd.Sub(input.PeriodStart).Hours() / 24)
	if days > 14 {
		period = "monthly"
	}

	fmt.Fprintf(b, "Write the %s newsletter for %s.\n\n", period, input.SiteName)
	fmt.Fprintf(b, "**Period**: %s to %s\n\n",
		input.PeriodStart.Format("2006-01-02"), input.PeriodEnd.Format("2006-01-02"))

	b.WriteString("**Sections to include**:\n")
	b.WriteString("1. Summary of recent blog posts\n")
	b.WriteString("2. Project updates\n")
	b.WriteString("3. Team news\n")
	b.WriteString("4. What's coming next\n\n")

	if len(input.Blogs) > 0 {
		b.WriteString("**Recent blog posts**:\n")
		for i, blog := range input.Blogs {
			if i >= 5 {
				break
			}
			fmt.Fprintf(b, "- %s: %s\n", blog.Title, blog.Excerpt)
		}
		b.WriteString("\n")
	}

	if len(input.Projects) > 0 {
		b.WriteString("**Project updates**:\n")
		for i, p := range input.Projects {
			if i >= 5 {
				break
			}
			fmt.Fprintf(b, "- %s: %s\n", p.Name, p.Description)
		}
		b.WriteString("\n")
	}

	if len(input.Blogs) == 0 && len(input.Projects) == 0 {
		b.WriteString("There were no new blog posts or project updates this period. " +
			"Write a short, friendly issue telling readers it was a quiet period and what to look forward to.\n\n")
	}

	b.WriteString(`**Requirements**:
1. Friendly, easy to read tone
2. HTML format (for email delivery)
3. Clearly separated sections
4. An engaging title that draws readers in

**Response format** (follow this format exactly):

TITLE: [newsletter title]

CONTENT:
[HTML body goes here]

---

Use only simple HTML tags (h2, h3, p, ul, li, a, strong, em).
Follow the format above exactly.`)

	return b.String()
}

// 篇幅档位到字数区间的映射
var blogLengthGuide = map[string]string{
	"short":  "500-800 words",
	"medium": "1000-1500 words",
	"long":   "2000-3000 words",
}

// buildBlogPrompt 组装博客生成的提示词
func buildBlogPrompt(input BlogInput) string {
	b := &strings.Builder{}

	fmt.Fprintf(b, "Write a blog post on the following topic.\n\n")
	fmt.Fprintf(b, "**Topic**: %s\n\n", input.Topic)
	if input.Description != "" {
		fmt.Fprintf(b, "**Details**: %s\n\n", input.Description)
	}

	style := input.Style
	if style == "" {
		style = "professional and informative"
	}
	fmt.Fprintf(b, "**Style**: %s\n\n", style)

	length, ok := blogLengthGuide[input.Length]
	if !ok {
		length = blogLengthGuide["medium"]
	}
	fmt.Fprintf(b, "**Length**: %s\n\n", length)

	if p := input.Project; p != nil {
		b.WriteString("**Project information**:\n")
		fmt.Fprintf(b, "- Name: %s\n", p.Name)
		if p.Description != "" {
			fmt.Fprintf(b, "- Description: %s\n", p.Description)
		}
		if len(p.TechStack) > 0 {
			fmt.Fprintf(b, "- Tech stack: %s\n", strings.Join(p.TechStack, ", "))
		}
		if p.GithubURL != "" {
			fmt.Fprintf(b, "- GitHub: %s\n", p.GithubURL)
		}
		if p.DemoURL != "" {
			fmt.Fprintf(b, "- Demo: %s\n", p.DemoURL)
		}
		b.WriteString("\nWrite the post around this project.\n\n")
	}

	b.WriteString(`**Requirements**:
1. Written for a technical blog audience
2. Markdown format
3. Practical examples and insights
4. SEO friendly title and excerpt

**Response format** (follow this format exactly):

TITLE: [blog title]

EXCERPT: [2-3 sentence summary]

TAGS: [tag1, tag2, tag3] (comma separated)

CONTENT:
[Markdown body goes here]

---

Follow the format above exactly.`)

	return b.String()
}
