package router

import (
	"net/http"
	"time"

	"github.com/unessa/fundraiser-api/internal/handler"
	"github.com/unessa/fundraiser-api/internal/logger"
	"github.com/unessa/fundraiser-api/internal/middleware"
)

// New creates and configures the HTTP router
func New(h *handler.Handler, mw *middleware.Middleware, log *logger.Logger, allowedOrigins []string) http.Handler {
	mux := http.NewServeMux()

	// Health check endpoints
	mux.HandleFunc("GET /health", h.Health)
	mux.HandleFunc("GET /ready", h.Ready)

	mux.HandleFunc("GET /api/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"message":"Unessa Foundation Fundraiser API","version":"1.0.0"}`))
	})

	// Registration and profile routes (rate limited)
	registerRateLimit := mw.RateLimit(middleware.RateLimitConfig{
		Limit:  5,
		Window: 1 * time.Hour,
		KeyFn:  middleware.IPKey,
	})
	lookupRateLimit := mw.RateLimit(middleware.RateLimitConfig{
		Limit:  60,
		Window: 1 * time.Minute,
		KeyFn:  middleware.IPKey,
	})

	mux.Handle("POST /api/users/register", registerRateLimit(http.HandlerFunc(h.Register)))
	mux.Handle("POST /api/users/check", lookupRateLimit(http.HandlerFunc(h.CheckUser)))
	mux.Handle("GET /api/users/{email}", lookupRateLimit(http.HandlerFunc(h.GetUser)))
	mux.Handle("POST /api/users/quiz-status", lookupRateLimit(http.HandlerFunc(h.UpdateQuizStatus)))
	mux.Handle("GET /api/users/{email}/quiz-status", lookupRateLimit(http.HandlerFunc(h.GetQuizStatus)))
	mux.Handle("POST /api/users/tour-seen", lookupRateLimit(http.HandlerFunc(h.MarkTourSeen)))

	// Payment routes
	orderRateLimit := mw.RateLimit(middleware.RateLimitConfig{
		Limit:  20,
		Window: 15 * time.Minute,
		KeyFn:  middleware.IPKey,
	})
	mux.Handle("POST /api/payments/order", orderRateLimit(http.HandlerFunc(h.CreateOrder)))
	mux.Handle("POST /api/payments/verify", orderRateLimit(http.HandlerFunc(h.VerifyPayment)))
	mux.Handle("POST /api/payments", orderRateLimit(http.HandlerFunc(h.SavePayment)))
	mux.HandleFunc("GET /api/donations", h.ListDonations)

	// Gateway webhook (signature verified in the handler, never rate limited)
	mux.HandleFunc("POST /api/webhooks/razorpay", h.RazorpayWebhook)

	// Offer letter routes. Generation holds a renderer for seconds, so the
	// limit is tight.
	offerRateLimit := mw.RateLimit(middleware.RateLimitConfig{
		Limit:  3,
		Window: 10 * time.Minute,
		KeyFn:  middleware.IPKey,
	})
	mux.Handle("POST /api/offer-letter/generate", offerRateLimit(http.HandlerFunc(h.GenerateOffer)))
	mux.HandleFunc("GET /api/offer-letter/{email}", h.GetOfferLetter)

	// Live payment feed for the dashboard
	mux.HandleFunc("GET /api/events/payments", h.StreamPayments)

	// Apply middleware stack
	var handler http.Handler = mux

	handler = mw.CORS(allowedOrigins)(handler)
	handler = mw.SecurityHeaders(handler)
	handler = mw.Logger(handler)
	handler = mw.Timing(handler)
	handler = mw.RequestID(handler)

	// Panic recovery (outermost)
	handler = mw.Recover(handler)

	return handler
}
