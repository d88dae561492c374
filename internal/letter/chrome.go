package letter

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// ChromeRenderer renders letters through headless Chrome. Highest fidelity,
// slowest strategy. The browser process is allocated per render and torn
// down on every exit path; a render never outlives Timeout.
type ChromeRenderer struct {
	Timeout time.Duration
}

// NewChromeRenderer creates a ChromeRenderer with the given render timeout.
func NewChromeRenderer(timeout time.Duration) *ChromeRenderer {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &ChromeRenderer{Timeout: timeout}
}

// Render implements Renderer.
func (r *ChromeRenderer) Render(ctx context.Context, content string, opts LayoutOptions) ([]byte, error) {
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("%w: empty content", ErrRenderContentInvalid)
	}

	ctx, cancel := context.WithTimeout(ctx, r.Timeout)
	defer cancel()

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, chromedp.DefaultExecAllocatorOptions[:]...)
	defer cancelAlloc()

	tabCtx, cancelTab := chromedp.NewContext(allocCtx)
	defer cancelTab()

	width, height := opts.PageSize.inches()

	var pdf []byte
	err := chromedp.Run(tabCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frameTree.Frame.ID, content).Do(ctx)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			buf, _, err := page.PrintToPDF().
				WithPrintBackground(opts.PreserveBackground).
				WithPaperWidth(width).
				WithPaperHeight(height).
				WithMarginTop(mmToInches(opts.Margins.Top)).
				WithMarginRight(mmToInches(opts.Margins.Right)).
				WithMarginBottom(mmToInches(opts.Margins.Bottom)).
				WithMarginLeft(mmToInches(opts.Margins.Left)).
				Do(ctx)
			if err != nil {
				return err
			}
			pdf = buf
			return nil
		}),
	)
	if err != nil {
		return nil, classifyChromeError(err)
	}
	if len(pdf) == 0 {
		return nil, fmt.Errorf("%w: browser produced no output", ErrRenderContentInvalid)
	}
	return pdf, nil
}

func classifyChromeError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrRenderTimeout, err)
	}
	var execErr *exec.Error
	if errors.As(err, &execErr) {
		return fmt.Errorf("%w: %v", ErrRenderEngineUnavailable, err)
	}
	if strings.Contains(err.Error(), "exec") || strings.Contains(err.Error(), "failed to start") {
		return fmt.Errorf("%w: %v", ErrRenderEngineUnavailable, err)
	}
	return fmt.Errorf("%w: %v", ErrRenderContentInvalid, err)
}
