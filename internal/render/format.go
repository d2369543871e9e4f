package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"contenta_dev_v1/internal/model"
)

// Format 输出格式
type Format string

const (
	FormatText     Format = "text"
	FormatMarkdown Format = "markdown"
)

// Render 把一条记录转成可读文本
// 没有结构化结果时原样返回 raw
func Render(rec *model.OutputRecord, f Format) string {
	if rec == nil {
		return ""
	}
	return RenderResult(rec.Mode, rec.Structured, rec.Raw, f)
}

// RenderResult 同 Render，直接接收生成结果
func RenderResult(mode model.OutputMode, structured json.RawMessage, raw string, f Format) string {
	result := model.DecodeStructured(mode, structured)
	if result == nil {
		return raw
	}

	w := &docWriter{markdown: f == FormatMarkdown}

	switch v := result.(type) {
	case *model.GenerateResult:
		w.generate(v)
	case *model.IdeasResult:
		w.ideas(v)
	case *model.EnhanceResult:
		w.enhance(v)
	case *model.VisionResult:
		w.vision(v)
	case *model.OpaqueResult:
		w.opaque(v)
	default:
		w.opaque(&model.OpaqueResult{JSON: structured})
	}

	out := w.String()
	if out == "" {
		return raw
	}
	return out
}

// ==================== 排版 ====================

// docWriter 以空行分隔的段落序列
type docWriter struct {
	markdown bool
	blocks   []string
}

func (w *docWriter) String() string {
	return strings.Join(w.blocks, "\n\n")
}

func (w *docWriter) add(lines ...string) {
	if len(lines) > 0 {
		w.blocks = append(w.blocks, strings.Join(lines, "\n"))
	}
}

func (w *docWriter) header(title string) string {
	if w.markdown {
		return "## " + title
	}
	return strings.ToUpper(title)
}

func (w *docWriter) label(title string) string {
	if w.markdown {
		return "**" + title + "**"
	}
	return strings.ToUpper(title)
}

func (w *docWriter) bullets(items []string) []string {
	mark := "• "
	if w.markdown {
		mark = "- "
	}
	var lines []string
	for _, item := range items {
		if c := Clean(item); c != "" {
			lines = append(lines, mark+c)
		}
	}
	return lines
}

// section 标题 + 列表，列表为空时整段省略
func (w *docWriter) section(title string, items []string) {
	if lines := w.bullets(items); len(lines) > 0 {
		w.add(append([]string{w.header(title)}, lines...)...)
	}
}

func (w *docWriter) generate(v *model.GenerateResult) {
	w.section("Captions", v.Captions)

	s := v.Script
	if s == nil {
		return
	}
	head := []string{w.header("Short Video Script")}
	if title := Clean(s.Title); title != "" {
		head = append(head, "Title: "+title)
	}

	parts := []struct {
		label string
		items []string
	}{
		{"Hook", s.Hook},
		{"Body", s.Body},
		{"Call to Action", s.CTA},
	}
	var sub []string
	for _, p := range parts {
		if lines := w.bullets(p.items); len(lines) > 0 {
			sub = append(sub, strings.Join(append([]string{w.label(p.label)}, lines...), "\n"))
		}
	}
	if len(head) == 1 && len(sub) == 0 {
		return
	}
	w.add(head...)
	for _, b := range sub {
		w.add(b)
	}
}

func (w *docWriter) ideas(v *model.IdeasResult) {
	var lines []string
	n := 0
	for _, idea := range v.Ideas {
		title, hook, platform := Clean(idea.Title), Clean(idea.Hook), Clean(idea.Platform)
		if title == "" && hook == "" {
			continue
		}
		if title == "" {
			title = "Idea"
		}
		n++
		line := fmt.Sprintf("%d. %s", n, title)
		if hook != "" {
			line += " — " + hook
		}
		if platform != "" {
			line += " (" + platform + ")"
		}
		lines = append(lines, line)
	}
	if len(lines) > 0 {
		w.add(append([]string{w.header("Ideas")}, lines...)...)
	}
}

func (w *docWriter) enhance(v *model.EnhanceResult) {
	var variants []string
	for _, variant := range v.Variants {
		if c := Clean(variant); c != "" {
			variants = append(variants, fmt.Sprintf("%d. %s", len(variants)+1, c))
		}
	}
	if len(variants) == 0 {
		return
	}
	w.add(w.header("Enhanced Variants"))
	for _, line := range variants {
		w.add(line)
	}
}

func (w *docWriter) vision(v *model.VisionResult) {
	w.section("Captions", v.Captions)
	w.section("Ideas", v.Ideas)
}

func (w *docWriter) opaque(v *model.OpaqueResult) {
	var buf bytes.Buffer
	pretty := string(v.JSON)
	if err := json.Indent(&buf, v.JSON, "", "  "); err == nil {
		pretty = buf.String()
	}
	if w.markdown {
		w.add("```json", pretty, "```")
		return
	}
	w.add(pretty)
}
