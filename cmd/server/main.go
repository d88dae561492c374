package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/unessa/fundraiser-api/internal/auth"
	"github.com/unessa/fundraiser-api/internal/config"
	"github.com/unessa/fundraiser-api/internal/database"
	"github.com/unessa/fundraiser-api/internal/email"
	"github.com/unessa/fundraiser-api/internal/events"
	"github.com/unessa/fundraiser-api/internal/handler"
	"github.com/unessa/fundraiser-api/internal/letter"
	"github.com/unessa/fundraiser-api/internal/logger"
	"github.com/unessa/fundraiser-api/internal/middleware"
	"github.com/unessa/fundraiser-api/internal/razorpay"
	"github.com/unessa/fundraiser-api/internal/repository"
	"github.com/unessa/fundraiser-api/internal/router"
	"github.com/unessa/fundraiser-api/internal/webhook"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New(cfg.Log.Level, cfg.Log.Format)
	log.Info().Str("version", "1.0.0").Msg("starting fundraiser API server")

	// Connect to PostgreSQL
	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()
	log.Info().Msg("connected to PostgreSQL")

	// Connect to Redis
	rdb, err := database.NewRedis(cfg.Redis)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to Redis")
	}
	defer rdb.Close()
	log.Info().Msg("connected to Redis")

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)

	// Initialize token service
	tokenSvc, err := auth.NewTokenService(cfg.Security.JWT)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize token service")
	}

	// Initialize email sender
	sender, err := newSender(context.Background(), cfg.Email)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize email sender")
	}
	log.Info().Str("provider", cfg.Email.Provider).Msg("email sender initialized")

	// Initialize the offer letter pipeline
	renderer, err := newRenderer(cfg.Letter)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize renderer")
	}
	log.Info().Str("renderer", cfg.Letter.Renderer).Msg("PDF renderer initialized")

	var artifacts letter.Store
	if cfg.Letter.Storage == "database" {
		artifacts = letter.NewDatabaseStore(userRepo)
	} else {
		artifacts = letter.NewFilesystemStore(cfg.Letter.StorageDir)
	}

	templates := letter.NewResolver(cfg.Letter.TemplateDir)
	layout := letter.DefaultLayout(letter.PageSize(cfg.Letter.PageSize))
	pipeline := letter.NewPipeline(templates, renderer, artifacts, sender, userRepo, layout, cfg.Email.AppName, log)

	// Initialize payment gateway client
	gateway := razorpay.NewClient(cfg.Razorpay.BaseURL, cfg.Razorpay.KeyID, cfg.Razorpay.KeySecret, nil)

	// Initialize the CRM registration notifier
	notifier := webhook.NewNotifier(cfg.CRM.WebhookURL, webhook.RetryPolicy{
		MaxAttempts: cfg.CRM.MaxAttempts,
		Backoff:     cfg.CRM.RetryBackoff,
	}, nil, log)

	// Initialize the payment event publisher
	publisher := events.NewPublisher(rdb)

	// Initialize handlers
	h := handler.New(db, rdb, log, cfg, userRepo, paymentRepo, tokenSvc, pipeline, artifacts, gateway, notifier, publisher)

	// Initialize middleware
	mw := middleware.New(rdb, log, cfg)

	// Set up router
	r := router.New(h, mw, log, cfg.Server.AllowedOrigins)

	// Create HTTP server. WriteTimeout is generous because offer letter
	// generation renders a PDF and sends an email inside the request.
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("addr", addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server error")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}

// newSender builds the configured email transport.
func newSender(ctx context.Context, cfg config.EmailConfig) (email.Sender, error) {
	switch cfg.Provider {
	case "smtp":
		return email.NewSMTPSender(email.SMTPConfig{
			Addr:          cfg.SMTP.Addr(),
			Host:          cfg.SMTP.Host,
			Username:      cfg.SMTP.Username,
			Password:      cfg.SMTP.Password,
			SenderAddress: cfg.SMTP.SenderAddress,
			SenderName:    cfg.SMTP.SenderName,
		})
	case "gmail", "":
		if cfg.Gmail.RefreshToken != "" {
			return email.NewGmailSenderWithToken(ctx,
				cfg.Gmail.ClientID,
				cfg.Gmail.ClientSecret,
				cfg.Gmail.RefreshToken,
				cfg.Gmail.SenderAddress,
				cfg.Gmail.SenderName,
			)
		}
		return email.NewGmailSender(ctx, email.GmailConfig{
			CredentialsJSON: cfg.Gmail.CredentialsJSON,
			SenderAddress:   cfg.Gmail.SenderAddress,
			SenderName:      cfg.Gmail.SenderName,
		})
	default:
		return nil, fmt.Errorf("unknown email provider: %q", cfg.Provider)
	}
}

// newRenderer builds the configured PDF rendering strategy.
func newRenderer(cfg config.LetterConfig) (letter.Renderer, error) {
	switch cfg.Renderer {
	case "fpdf", "":
		return letter.NewFPDFRenderer(), nil
	case "chrome":
		return letter.NewChromeRenderer(cfg.RenderTimeout), nil
	case "remote":
		if cfg.RemoteURL == "" {
			return nil, fmt.Errorf("letter.remote_url is required for the remote renderer")
		}
		return letter.NewRemoteRenderer(cfg.RemoteURL, &http.Client{Timeout: cfg.RenderTimeout}), nil
	default:
		return nil, fmt.Errorf("unknown renderer: %q", cfg.Renderer)
	}
}
