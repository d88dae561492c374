package handler

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/unessa/fundraiser-api/internal/config"
	"github.com/unessa/fundraiser-api/internal/database"
	"github.com/unessa/fundraiser-api/internal/email"
	"github.com/unessa/fundraiser-api/internal/letter"
	"github.com/unessa/fundraiser-api/internal/logger"
	"github.com/unessa/fundraiser-api/internal/repository"
)

type stubSender struct {
	err  error
	sent []email.Message
}

func (s *stubSender) Send(ctx context.Context, msg email.Message) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, msg)
	return nil
}

type handlerFixture struct {
	h      *Handler
	mock   sqlmock.Sqlmock
	sender *stubSender
	cfg    *config.Config
}

func newFixture(t *testing.T) *handlerFixture {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	t.Cleanup(func() { sqlDB.Close() })

	db := &database.Postgres{DB: sqlDB}
	log := logger.New("disabled", "json")

	cfg := &config.Config{}
	cfg.Email.AppName = "Unessa Foundation"
	cfg.Razorpay.WebhookSecret = "whsec_test"

	templateDir := t.TempDir()
	content := "<p>Dear {{name}},</p><p>Welcome. Dated {{date}}.</p>"
	if err := os.WriteFile(filepath.Join(templateDir, "offer.html"), []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write template: %v", err)
	}

	userRepo := repository.NewUserRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	sender := &stubSender{}
	artifacts := letter.NewFilesystemStore(t.TempDir())
	pipeline := letter.NewPipeline(
		letter.NewResolver(templateDir),
		letter.NewFPDFRenderer(),
		artifacts,
		sender,
		userRepo,
		letter.DefaultLayout(letter.PageA4),
		cfg.Email.AppName,
		log,
	)

	h := New(db, nil, log, cfg, userRepo, paymentRepo, nil, pipeline, artifacts, nil, nil, nil)
	return &handlerFixture{h: h, mock: mock, sender: sender, cfg: cfg}
}

func userRow(state string, letterPath interface{}) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "name", "email", "phone", "avatar", "username", "amount",
		"quiz_status", "letter_state", "letter_path", "offer_sent_at",
		"has_seen_tour", "created_at", "updated_at",
	}).AddRow(
		"u1", "Asha Rao", "asha@example.com", "", "", "asharao1234", int64(0),
		"passed", state, letterPath, nil, false, now, now,
	)
}

func TestGenerateOfferRequiresEmail(t *testing.T) {
	f := newFixture(t)

	req := httptest.NewRequest(http.MethodPost, "/api/offer-letter/generate", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	f.h.GenerateOffer(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestGenerateOfferUserNotFound(t *testing.T) {
	f := newFixture(t)
	f.mock.ExpectQuery("(?s)SELECT .+ FROM users WHERE email").
		WithArgs("missing@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	req := httptest.NewRequest(http.MethodPost, "/api/offer-letter/generate",
		strings.NewReader(`{"email":"missing@example.com"}`))
	rec := httptest.NewRecorder()
	f.h.GenerateOffer(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestGenerateOfferSuccess(t *testing.T) {
	f := newFixture(t)
	f.mock.ExpectQuery("(?s)SELECT .+ FROM users WHERE email").
		WithArgs("asha@example.com").
		WillReturnRows(userRow("not_generated", nil))
	f.mock.ExpectExec("UPDATE users").
		WillReturnResult(sqlmock.NewResult(0, 1))

	req := httptest.NewRequest(http.MethodPost, "/api/offer-letter/generate",
		strings.NewReader(`{"email":"asha@example.com"}`))
	rec := httptest.NewRecorder()
	f.h.GenerateOffer(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if len(f.sender.sent) != 1 {
		t.Fatalf("sent %d emails, want 1", len(f.sender.sent))
	}
	if f.sender.sent[0].To != "asha@example.com" {
		t.Errorf("email to = %q", f.sender.sent[0].To)
	}
}

func TestGenerateOfferAlreadyDelivered(t *testing.T) {
	f := newFixture(t)
	f.mock.ExpectQuery("(?s)SELECT .+ FROM users WHERE email").
		WithArgs("asha@example.com").
		WillReturnRows(userRow("delivered", "public/offer-u1.pdf"))

	req := httptest.NewRequest(http.MethodPost, "/api/offer-letter/generate",
		strings.NewReader(`{"email":"asha@example.com"}`))
	rec := httptest.NewRecorder()
	f.h.GenerateOffer(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if len(f.sender.sent) != 0 {
		t.Error("email sent for an already delivered letter")
	}
}

func TestGetOfferLetterServesPDF(t *testing.T) {
	f := newFixture(t)

	pdfPath := filepath.Join(t.TempDir(), "offer-u1.pdf")
	if err := os.WriteFile(pdfPath, []byte("%PDF-1.4 stored"), 0o644); err != nil {
		t.Fatalf("failed to write pdf: %v", err)
	}

	f.mock.ExpectQuery("(?s)SELECT .+ FROM users WHERE email").
		WithArgs("asha@example.com").
		WillReturnRows(userRow("delivered", pdfPath))

	req := httptest.NewRequest(http.MethodGet, "/api/offer-letter/asha@example.com", nil)
	req.SetPathValue("email", "asha@example.com")
	rec := httptest.NewRecorder()
	f.h.GetOfferLetter(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Errorf("content type = %q", ct)
	}
	if rec.Body.String() != "%PDF-1.4 stored" {
		t.Error("served bytes differ from stored artifact")
	}
}

func TestGetOfferLetterNotGenerated(t *testing.T) {
	f := newFixture(t)
	f.mock.ExpectQuery("(?s)SELECT .+ FROM users WHERE email").
		WithArgs("asha@example.com").
		WillReturnRows(userRow("not_generated", nil))

	req := httptest.NewRequest(http.MethodGet, "/api/offer-letter/asha@example.com", nil)
	req.SetPathValue("email", "asha@example.com")
	rec := httptest.NewRecorder()
	f.h.GetOfferLetter(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func webhookSignature(body []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestRazorpayWebhookRejectsBadSignature(t *testing.T) {
	f := newFixture(t)

	body := `{"event":"payment.captured"}`
	req := httptest.NewRequest(http.MethodPost, "/api/webhooks/razorpay", strings.NewReader(body))
	req.Header.Set("X-Razorpay-Signature", "bogus")
	rec := httptest.NewRecorder()
	f.h.RazorpayWebhook(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestRazorpayWebhookIgnoresOtherEvents(t *testing.T) {
	f := newFixture(t)

	body := []byte(`{"event":"payment.authorized","payload":{}}`)
	req := httptest.NewRequest(http.MethodPost, "/api/webhooks/razorpay", strings.NewReader(string(body)))
	req.Header.Set("X-Razorpay-Signature", webhookSignature(body, f.cfg.Razorpay.WebhookSecret))
	rec := httptest.NewRecorder()
	f.h.RazorpayWebhook(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp["status"] != "ignored" {
		t.Errorf("status field = %q, want ignored", resp["status"])
	}
}

func TestRazorpayWebhookIdempotent(t *testing.T) {
	f := newFixture(t)
	f.mock.ExpectQuery("SELECT EXISTS").
		WithArgs("pay_dup").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	body := []byte(`{"event":"payment.captured","payload":{"payment":{"entity":{"id":"pay_dup","order_id":"order_1","amount":50000}}}}`)
	req := httptest.NewRequest(http.MethodPost, "/api/webhooks/razorpay", strings.NewReader(string(body)))
	req.Header.Set("X-Razorpay-Signature", webhookSignature(body, f.cfg.Razorpay.WebhookSecret))
	rec := httptest.NewRecorder()
	f.h.RazorpayWebhook(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if err := f.mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}
