package render

import (
	"regexp"
	"strings"
)

// ==================== 内容清洗 ====================

var (
	ruleLine      = regexp.MustCompile(`(?m)^[ \t]*(?:-{3,}|_{3,})[ \t]*$`)
	emphasis      = regexp.MustCompile(`\*+`)
	headingMarker = regexp.MustCompile(`(?m)^[ \t]*#+[ \t]*`)
	backticks     = regexp.MustCompile("`{1,3}")
	hashtag       = regexp.MustCompile(`#(\w)`)
	whitespace    = regexp.MustCompile(`\s+`)
)

// Clean 去掉模型输出里的 markdown 痕迹和话题标签
// 与输出格式无关，所有文本字段在排版前都要经过这里
func Clean(s string) string {
	if s == "" {
		return ""
	}
	s = ruleLine.ReplaceAllString(s, "")
	s = emphasis.ReplaceAllString(s, "")
	s = headingMarker.ReplaceAllString(s, "")
	s = backticks.ReplaceAllString(s, "")
	s = hashtag.ReplaceAllString(s, "$1")
	s = whitespace.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// ==================== 编码安全 ====================

var (
	typographic = strings.NewReplacer(
		"\u2022", "-", // •
		"\u2014", "-", // —
		"\u2013", "-",
		"\u2018", "'",
		"\u2019", "'",
		"\u201c", `"`,
		"\u201d", `"`,
		"\u2026", "...",
		"\u00a0", " ",
	)
	multiSpace   = regexp.MustCompile(` {2,}`)
	manyNewlines = regexp.MustCompile(`(?:\r?\n){3,}`)
)

// Sanitize 只保留可打印 ASCII 和 \t \n \r
// 常见排版符号先转成 ASCII 近似字符，其余直接丢弃
func Sanitize(s string) string {
	s = typographic.Replace(s)

	var sb strings.Builder
	sb.Grow(len(s))
	for _, r := range s {
		if r == '\t' || r == '\n' || r == '\r' || (r >= 0x20 && r <= 0x7e) {
			sb.WriteRune(r)
		}
	}

	out := multiSpace.ReplaceAllString(sb.String(), " ")
	return manyNewlines.ReplaceAllString(out, "\n\n")
}
