package letter

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// RemoteRenderer delegates rendering to a Gotenberg-compatible HTML-to-PDF
// service. The HTTP client is shared process-wide and injected at startup;
// its timeout bounds the render.
type RemoteRenderer struct {
	baseURL string
	client  *http.Client
}

// NewRemoteRenderer creates a RemoteRenderer against baseURL.
func NewRemoteRenderer(baseURL string, client *http.Client) *RemoteRenderer {
	if client == nil {
		client = http.DefaultClient
	}
	return &RemoteRenderer{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
	}
}

// Render implements Renderer.
func (r *RemoteRenderer) Render(ctx context.Context, content string, opts LayoutOptions) ([]byte, error) {
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("%w: empty content", ErrRenderContentInvalid)
	}

	var body bytes.Buffer
	form := multipart.NewWriter(&body)

	part, err := form.CreateFormFile("files", "index.html")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRenderContentInvalid, err)
	}
	if _, err := io.WriteString(part, content); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRenderContentInvalid, err)
	}

	width, height := opts.PageSize.inches()
	fields := map[string]string{
		"paperWidth":      formatInches(width),
		"paperHeight":     formatInches(height),
		"marginTop":       formatInches(mmToInches(opts.Margins.Top)),
		"marginRight":     formatInches(mmToInches(opts.Margins.Right)),
		"marginBottom":    formatInches(mmToInches(opts.Margins.Bottom)),
		"marginLeft":      formatInches(mmToInches(opts.Margins.Left)),
		"printBackground": strconv.FormatBool(opts.PreserveBackground),
	}
	for name, value := range fields {
		if err := form.WriteField(name, value); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrRenderContentInvalid, err)
		}
	}
	if err := form.Close(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRenderContentInvalid, err)
	}

	endpoint := r.baseURL + "/forms/chromium/convert/html"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRenderEngineUnavailable, err)
	}
	req.Header.Set("Content-Type", form.FormDataContentType())

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, classifyRemoteError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		if resp.StatusCode >= 500 {
			return nil, fmt.Errorf("%w: service returned %d: %s", ErrRenderEngineUnavailable, resp.StatusCode, detail)
		}
		return nil, fmt.Errorf("%w: service returned %d: %s", ErrRenderContentInvalid, resp.StatusCode, detail)
	}

	pdf, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %v", ErrRenderEngineUnavailable, err)
	}
	if len(pdf) == 0 {
		return nil, fmt.Errorf("%w: service produced no output", ErrRenderContentInvalid)
	}
	return pdf, nil
}

func classifyRemoteError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrRenderTimeout, err)
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Timeout() {
		return fmt.Errorf("%w: %v", ErrRenderTimeout, err)
	}
	return fmt.Errorf("%w: %v", ErrRenderEngineUnavailable, err)
}

func formatInches(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
