package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/unessa/fundraiser-api/internal/auth"
	"github.com/unessa/fundraiser-api/internal/config"
	"github.com/unessa/fundraiser-api/internal/database"
	"github.com/unessa/fundraiser-api/internal/events"
	"github.com/unessa/fundraiser-api/internal/letter"
	"github.com/unessa/fundraiser-api/internal/logger"
	"github.com/unessa/fundraiser-api/internal/razorpay"
	"github.com/unessa/fundraiser-api/internal/repository"
	"github.com/unessa/fundraiser-api/internal/webhook"
)

// Handler holds all HTTP handlers
type Handler struct {
	db        *database.Postgres
	rdb       *database.Redis
	log       *logger.Logger
	cfg       *config.Config
	users     *repository.UserRepository
	payments  *repository.PaymentRepository
	tokens    *auth.TokenService
	pipeline  *letter.Pipeline
	artifacts letter.Store
	gateway   *razorpay.Client
	notifier  *webhook.Notifier
	publisher *events.Publisher
}

// New creates a new Handler instance
func New(
	db *database.Postgres,
	rdb *database.Redis,
	log *logger.Logger,
	cfg *config.Config,
	users *repository.UserRepository,
	payments *repository.PaymentRepository,
	tokens *auth.TokenService,
	pipeline *letter.Pipeline,
	artifacts letter.Store,
	gateway *razorpay.Client,
	notifier *webhook.Notifier,
	publisher *events.Publisher,
) *Handler {
	return &Handler{
		db:        db,
		rdb:       rdb,
		log:       log,
		cfg:       cfg,
		users:     users,
		payments:  payments,
		tokens:    tokens,
		pipeline:  pipeline,
		artifacts: artifacts,
		gateway:   gateway,
		notifier:  notifier,
		publisher: publisher,
	}
}

// JSON helper functions

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]interface{}{
		"error": map[string]interface{}{
			"code":    code,
			"message": message,
		},
	})
}

func readJSON(r *http.Request, v interface{}) error {
	if r.Body == nil {
		return errors.New("request body is empty")
	}
	defer r.Body.Close()

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(v)
}
