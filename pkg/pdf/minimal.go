// Package pdf writes a minimal single-page PDF 1.4 document.
//
// The document always has five objects: catalog, page tree, one US-Letter page,
// the content stream and a Type1 Helvetica font reference. Text is laid out
// top-down at a fixed line height; lines past the bottom margin are not paginated.
package pdf

import (
	"bytes"
	"fmt"
	"strings"
)

const (
	PageWidth  = 612
	PageHeight = 792

	FontSize   = 12
	LineHeight = 16
	MarginLeft = 50
	StartY     = 780

	// WrapWidth 每行最大字符数
	WrapWidth = 90
)

// Build 生成包含 text 的单页 PDF
func Build(text string) []byte {
	var buf bytes.Buffer
	offsets := make([]int, 0, 5)

	buf.WriteString("%PDF-1.4\n")

	writeObj := func(num int, body string) {
		offsets = append(offsets, buf.Len())
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", num, body)
	}

	content := contentStream(Lines(text, WrapWidth))

	writeObj(1, "<< /Type /Catalog /Pages 2 0 R >>")
	writeObj(2, "<< /Type /Pages /Kids [3 0 R] /Count 1 >>")
	writeObj(3, fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 %d %d] /Resources << /Font << /F1 5 0 R >> >> /Contents 4 0 R >>",
		PageWidth, PageHeight))
	writeObj(4, fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content), content))
	writeObj(5, "<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>")

	xrefOffset := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(offsets)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(offsets)+1, xrefOffset)

	return buf.Bytes()
}

func contentStream(lines []string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "BT\n/F1 %d Tf\n%d TL\n%d %d Td\n", FontSize, LineHeight, MarginLeft, StartY)
	for i, line := range lines {
		if i > 0 {
			sb.WriteString("T*\n")
		}
		if line != "" {
			sb.WriteString("(")
			sb.WriteString(Escape(line))
			sb.WriteString(") Tj\n")
		}
	}
	sb.WriteString("ET")
	return sb.String()
}

// Escape 转义字符串字面量中的 \ ( )
func Escape(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `(`, `\(`, `)`, `\)`)
	return r.Replace(s)
}

// Lines 按行拆分并折行，非可打印 ASCII 替换为 '?'
func Lines(text string, width int) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = strings.TrimRight(text, "\n")
	if text == "" {
		return nil
	}

	var out []string
	for _, line := range strings.Split(text, "\n") {
		out = append(out, Wrap(asciiOnly(line), width)...)
	}
	return out
}

// Wrap 将单行折成不超过 width 的多行
// 优先在最后一个空格处断开，空格过于靠前（不足 60%）时硬断
func Wrap(line string, width int) []string {
	if width <= 0 || len(line) <= width {
		return []string{line}
	}

	var out []string
	for len(line) > width {
		cut := strings.LastIndexByte(line[:width], ' ')
		if cut > width*6/10 {
			out = append(out, line[:cut])
			line = line[cut+1:]
		} else {
			out = append(out, line[:width])
			line = line[width:]
		}
	}
	return append(out, line)
}

func asciiOnly(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	for _, r := range s {
		switch {
		case r == '\t':
			sb.WriteString("    ")
		case r >= 0x20 && r <= 0x7e:
			sb.WriteRune(r)
		default:
			sb.WriteByte('?')
		}
	}
	return sb.String()
}
