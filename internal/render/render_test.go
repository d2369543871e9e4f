package render

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contenta_dev_v1/internal/model"
)

func record(mode model.OutputMode, structured string) *model.OutputRecord {
	rec := &model.OutputRecord{ID: "r1", Mode: mode}
	if structured != "" {
		rec.Structured = json.RawMessage(structured)
	}
	return rec
}

const generateJSON = `{"captions":["Buy now"],"script":{"title":"T","hook":["H"],"body":["B"],"cta":["C"]}}`

func TestClean(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"综合", "**Great** #tip\n# Heading\n---", "Great tip Heading"},
		{"斜体", "*soft* and ***strong***", "soft and strong"},
		{"代码", "use `go test` or ```bash```", "use go test or bash"},
		{"多级标题", "### Title\n## Sub", "Title Sub"},
		{"下划线分割线", "a\n___\nb", "a b"},
		{"行内井号保留", "C# rocks", "C# rocks"},
		{"空白折叠", "  a \t\n\n b  ", "a b"},
		{"空串", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Clean(tt.in))
		})
	}
}

func TestSanitize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"保留 ASCII", "plain\ttext\r\n", "plain\ttext\r\n"},
		{"排版符号", "• one — two “q” …", "- one - two \"q\" ..."},
		{"丢弃其他字符", "emoji 🎉 done", "emoji done"},
		{"多空格", "a    b", "a b"},
		// 3 个及以上连续换行折叠为两个换行符 "\n\n"，即段落之间只留一个空行
		{"三个换行", "a\n\n\nb", "a\n\nb"},
		{"多换行", "a\n\n\n\n\nb", "a\n\nb"},
		{"CRLF多换行", "a\r\n\r\n\r\nb", "a\n\nb"},
		{"两个换行不变", "a\n\nb", "a\n\nb"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Sanitize(tt.in))
		})
	}
}

func TestRender_GenerateMarkdown(t *testing.T) {
	out := Render(record(model.ModeGenerate, generateJSON), FormatMarkdown)

	for _, want := range []string{"## Captions", "- Buy now", "## Short Video Script", "Title: T", "**Hook**", "- H", "**Body**", "**Call to Action**", "- C"} {
		assert.Contains(t, out, want)
	}
	assert.Less(t, strings.Index(out, "## Captions"), strings.Index(out, "## Short Video Script"))
	assert.Less(t, strings.Index(out, "**Hook**"), strings.Index(out, "**Body**"))
}

func TestRender_GenerateText(t *testing.T) {
	out := Render(record(model.ModeGenerate, generateJSON), FormatText)

	for _, want := range []string{"CAPTIONS", "• Buy now", "SHORT VIDEO SCRIPT", "HOOK", "BODY", "CALL TO ACTION", "• C"} {
		assert.Contains(t, out, want)
	}
	for _, marker := range []string{"#", "**", "`"} {
		assert.NotContains(t, out, marker)
	}
}

func TestRender_CleansFields(t *testing.T) {
	rec := record(model.ModeGenerate, `{"captions":["**Bold** claim #sale"],"script":{"title":"# Big","hook":[],"body":[],"cta":[]}}`)

	out := Render(rec, FormatText)
	assert.Contains(t, out, "• Bold claim sale")
	assert.Contains(t, out, "Title: Big")
	assert.NotContains(t, out, "HOOK")
}

func TestRender_Ideas(t *testing.T) {
	rec := record(model.ModeIdeas, `{"ideas":[{"title":"Launch","hook":"Tease it","platform":"tiktok"},{"title":"Recap","hook":"Weekly wins"}]}`)

	out := Render(rec, FormatText)
	assert.Contains(t, out, "1. Launch — Tease it (tiktok)")
	assert.Contains(t, out, "2. Recap — Weekly wins")
	assert.NotContains(t, out, "Weekly wins (")

	md := Render(rec, FormatMarkdown)
	assert.Contains(t, md, "## Ideas")
}

func TestRender_Enhance(t *testing.T) {
	rec := record(model.ModeEnhance, `{"variants":["First take","Second take"]}`)

	out := Render(rec, FormatText)
	assert.Contains(t, out, "1. First take\n\n2. Second take")
}

func TestRender_Vision(t *testing.T) {
	rec := record(model.ModeVision, `{"captions":["Sunset vibes"],"ideas":["Timelapse reel"]}`)

	md := Render(rec, FormatMarkdown)
	assert.Contains(t, md, "## Captions\n- Sunset vibes")
	assert.Contains(t, md, "## Ideas\n- Timelapse reel")
	assert.Less(t, strings.Index(md, "## Captions"), strings.Index(md, "## Ideas"))
}

func TestRender_RawFallback(t *testing.T) {
	rec := &model.OutputRecord{Mode: model.ModeGenerate, Raw: "hello"}

	for _, f := range []Format{FormatText, FormatMarkdown} {
		assert.Equal(t, "hello", Render(rec, f))
	}

	rec.Structured = json.RawMessage("null")
	assert.Equal(t, "hello", Render(rec, FormatText))
}

func TestRender_OpaqueFallback(t *testing.T) {
	tests := []struct {
		name       string
		mode       model.OutputMode
		structured string
	}{
		{"未知字段", model.ModeGenerate, `{"foo":1}`},
		{"类型不符", model.ModeIdeas, `{"ideas":["just strings"]}`},
		{"数组", model.ModeEnhance, `[1,2]`},
		{"未知模式", model.OutputMode("other"), `{"captions":["x"]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := record(tt.mode, tt.structured)

			text := Render(rec, FormatText)
			var v interface{}
			require.NoError(t, json.Unmarshal([]byte(text), &v), "应输出合法 JSON: %s", text)

			md := Render(rec, FormatMarkdown)
			assert.True(t, strings.HasPrefix(md, "```json\n"))
		})
	}
}

func TestRender_EmptyStructuredUsesRaw(t *testing.T) {
	rec := record(model.ModeVision, `{"captions":[],"ideas":[]}`)
	rec.Raw = "raw body"
	assert.Equal(t, "raw body", Render(rec, FormatText))
}

func TestPreviewHTML(t *testing.T) {
	html, err := PreviewHTML(record(model.ModeGenerate, generateJSON))
	require.NoError(t, err)

	assert.Contains(t, html, "<h2>Captions</h2>")
	assert.Contains(t, html, "<li>Buy now</li>")
	assert.Contains(t, html, "<strong>Hook</strong>")
}
