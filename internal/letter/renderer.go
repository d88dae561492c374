package letter

import (
	"context"
)

// PageSize is a supported output page size.
type PageSize string

const (
	PageA4     PageSize = "A4"
	PageLetter PageSize = "Letter"
)

// inches returns the page dimensions (width, height) in inches.
func (s PageSize) inches() (float64, float64) {
	if s == PageLetter {
		return 8.5, 11.0
	}
	return 8.27, 11.69
}

// Margins holds page margins in millimetres.
type Margins struct {
	Top    float64
	Right  float64
	Bottom float64
	Left   float64
}

// LayoutOptions configures page layout for a render.
type LayoutOptions struct {
	PageSize           PageSize
	Margins            Margins
	PreserveBackground bool
}

// DefaultLayout returns the layout used for offer letters.
func DefaultLayout(size PageSize) LayoutOptions {
	if size != PageA4 && size != PageLetter {
		size = PageA4
	}
	return LayoutOptions{
		PageSize:           size,
		Margins:            Margins{Top: 20, Right: 20, Bottom: 20, Left: 20},
		PreserveBackground: true,
	}
}

// Renderer turns rendered template content into PDF bytes. Implementations
// differ in fidelity and cost (direct text layout, headless browser, remote
// service) but share one contract: any engine resource acquired for a render
// is released on every exit path, and failures map onto ErrRenderTimeout,
// ErrRenderEngineUnavailable or ErrRenderContentInvalid.
type Renderer interface {
	Render(ctx context.Context, content string, opts LayoutOptions) ([]byte, error)
}

const mmPerInch = 25.4

func mmToInches(mm float64) float64 {
	return mm / mmPerInch
}
