package letter

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestRemoteRenderSuccess(t *testing.T) {
	var gotPath string
	var gotFields map[string]string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("failed to parse form: %v", err)
		}
		gotFields = map[string]string{}
		for name, vals := range r.MultipartForm.Value {
			gotFields[name] = vals[0]
		}
		w.Write([]byte("%PDF-1.4 remote"))
	}))
	defer srv.Close()

	r := NewRemoteRenderer(srv.URL, srv.Client())
	pdf, err := r.Render(context.Background(), "<p>hello</p>", DefaultLayout(PageA4))
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}

	if string(pdf) != "%PDF-1.4 remote" {
		t.Errorf("pdf = %q", pdf)
	}
	if gotPath != "/forms/chromium/convert/html" {
		t.Errorf("request path = %q", gotPath)
	}
	if gotFields["paperWidth"] != "8.27" || gotFields["paperHeight"] != "11.69" {
		t.Errorf("paper size fields = %q x %q", gotFields["paperWidth"], gotFields["paperHeight"])
	}
	if gotFields["printBackground"] != "true" {
		t.Errorf("printBackground = %q", gotFields["printBackground"])
	}
}

func TestRemoteRenderServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "chromium crashed", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	r := NewRemoteRenderer(srv.URL, srv.Client())
	_, err := r.Render(context.Background(), "<p>hello</p>", DefaultLayout(PageA4))
	if !errors.Is(err, ErrRenderEngineUnavailable) {
		t.Errorf("Render error = %v, want ErrRenderEngineUnavailable", err)
	}
}

func TestRemoteRenderBadRequest(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "malformed HTML", http.StatusBadRequest)
	}))
	defer srv.Close()

	r := NewRemoteRenderer(srv.URL, srv.Client())
	_, err := r.Render(context.Background(), "<p>hello</p>", DefaultLayout(PageA4))
	if !errors.Is(err, ErrRenderContentInvalid) {
		t.Errorf("Render error = %v, want ErrRenderContentInvalid", err)
	}
}

func TestRemoteRenderTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	r := NewRemoteRenderer(srv.URL, &http.Client{Timeout: 20 * time.Millisecond})
	_, err := r.Render(context.Background(), "<p>hello</p>", DefaultLayout(PageA4))
	if !errors.Is(err, ErrRenderTimeout) {
		t.Errorf("Render error = %v, want ErrRenderTimeout", err)
	}
}

func TestRemoteRenderConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	r := NewRemoteRenderer(srv.URL, &http.Client{})
	_, err := r.Render(context.Background(), "<p>hello</p>", DefaultLayout(PageA4))
	if !errors.Is(err, ErrRenderEngineUnavailable) {
		t.Errorf("Render error = %v, want ErrRenderEngineUnavailable", err)
	}
}

func TestRemoteRenderEmptyContent(t *testing.T) {
	r := NewRemoteRenderer("http://localhost:3000", nil)
	_, err := r.Render(context.Background(), "   ", DefaultLayout(PageA4))
	if !errors.Is(err, ErrRenderContentInvalid) {
		t.Errorf("Render error = %v, want ErrRenderContentInvalid", err)
	}
}
