package render

import (
	"bytes"

	"github.com/yuin/goldmark"

	"contenta_dev_v1/internal/model"
)

// PreviewHTML 把 markdown 排版转成 HTML 片段
func PreviewHTML(rec *model.OutputRecord) (string, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(Render(rec, FormatMarkdown)), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}
