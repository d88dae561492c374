package letter

import (
	"bytes"
	"context"
	"errors"
	"testing"
)

func TestFPDFRenderProducesPDF(t *testing.T) {
	r := NewFPDFRenderer()

	pdf, err := r.Render(context.Background(), "<p>Dear Asha,</p><p>Welcome aboard.</p>", DefaultLayout(PageA4))
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF")) {
		t.Errorf("output does not start with %%PDF header")
	}
}

func TestFPDFRenderEmptyContent(t *testing.T) {
	r := NewFPDFRenderer()

	_, err := r.Render(context.Background(), "<div><span></span></div>", DefaultLayout(PageA4))
	if !errors.Is(err, ErrRenderContentInvalid) {
		t.Errorf("Render error = %v, want ErrRenderContentInvalid", err)
	}
}

func TestFPDFRenderCancelledContext(t *testing.T) {
	r := NewFPDFRenderer()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.Render(ctx, "<p>text</p>", DefaultLayout(PageA4))
	if !errors.Is(err, ErrRenderTimeout) {
		t.Errorf("Render error = %v, want ErrRenderTimeout", err)
	}
}

func TestHTMLToText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			"paragraphs become lines",
			"<p>one</p><p>two</p>",
			"one\ntwo",
		},
		{
			"entities unescaped",
			"<p>Tom &amp; Jerry</p>",
			"Tom & Jerry",
		},
		{
			"br breaks line",
			"line one<br>line two",
			"line one\nline two",
		},
		{
			"list items become lines",
			"<ul><li>one</li><li>two</li></ul>",
			"one\ntwo",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := htmlToText(tt.in); got != tt.want {
				t.Errorf("htmlToText(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
