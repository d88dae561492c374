package letter

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

// FPDFRenderer draws letter text directly into a PDF. It is the cheapest
// strategy: no external process, plain text layout only. Markup is stripped
// to text before drawing.
type FPDFRenderer struct{}

// NewFPDFRenderer creates a new FPDFRenderer.
func NewFPDFRenderer() *FPDFRenderer {
	return &FPDFRenderer{}
}

// Render implements Renderer.
func (r *FPDFRenderer) Render(ctx context.Context, content string, opts LayoutOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRenderTimeout, err)
	}

	text := htmlToText(content)
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: no renderable text", ErrRenderContentInvalid)
	}

	pdf := gofpdf.New("P", "mm", string(opts.PageSize), "")
	pdf.SetMargins(opts.Margins.Left, opts.Margins.Top, opts.Margins.Right)
	pdf.SetAutoPageBreak(true, opts.Margins.Bottom)
	pdf.AddPage()
	pdf.SetFont("Helvetica", "", 12)

	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			pdf.Ln(6)
			continue
		}
		pdf.MultiCell(0, 6, line, "", "L", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRenderContentInvalid, err)
	}
	return buf.Bytes(), nil
}

var (
	blockEndRx = regexp.MustCompile(`(?i)</(p|div|h[1-6]|li|tr)>|<br\s*/?>`)
	tagRx      = regexp.MustCompile(`<[^>]*>`)
	blankRx    = regexp.MustCompile(`\n{3,}`)
)

// htmlToText reduces markup to plain text lines: block boundaries become
// newlines, remaining tags are dropped, entities are unescaped.
func htmlToText(s string) string {
	s = blockEndRx.ReplaceAllString(s, "\n")
	s = tagRx.ReplaceAllString(s, "")
	s = html.UnescapeString(s)

	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	s = strings.Join(lines, "\n")
	return strings.TrimSpace(blankRx.ReplaceAllString(s, "\n\n"))
}
