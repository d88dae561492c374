package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/unessa/fundraiser-api/internal/events"
	"github.com/unessa/fundraiser-api/internal/model"
	"github.com/unessa/fundraiser-api/internal/razorpay"
	"github.com/unessa/fundraiser-api/internal/repository"
)

// webhookEvent is the slice of the gateway webhook payload we act on
type webhookEvent struct {
	Event   string `json:"event"`
	Payload struct {
		Payment struct {
			Entity struct {
				ID      string            `json:"id"`
				OrderID string            `json:"order_id"`
				Amount  int64             `json:"amount"`
				Email   string            `json:"email"`
				Contact string            `json:"contact"`
				Notes   map[string]string `json:"notes"`
			} `json:"entity"`
		} `json:"payment"`
	} `json:"payload"`
}

// RazorpayWebhook handles gateway webhook callbacks
func (h *Handler) RazorpayWebhook(w http.ResponseWriter, r *http.Request) {
	// The signature covers the raw body; read it before any decoding.
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "Failed to read request body")
		return
	}
	defer r.Body.Close()

	signature := r.Header.Get("X-Razorpay-Signature")
	if !razorpay.VerifyWebhookSignature(body, signature, h.cfg.Razorpay.WebhookSecret) {
		h.log.Warn().Msg("webhook signature verification failed")
		writeError(w, http.StatusBadRequest, "invalid_signature", "Invalid signature")
		return
	}

	var ev webhookEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "Invalid payload")
		return
	}

	if ev.Event != "payment.captured" {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ignored"})
		return
	}

	entity := ev.Payload.Payment.Entity

	exists, err := h.payments.ExistsByPaymentID(r.Context(), entity.ID)
	if err != nil {
		h.log.Error().Err(err).Msg("failed to check webhook payment")
		writeError(w, http.StatusInternalServerError, "internal_error", "Server error")
		return
	}
	if exists {
		// Gateways redeliver; the first capture already credited the referrer.
		writeJSON(w, http.StatusOK, map[string]string{"status": "already processed"})
		return
	}

	payment := &model.Payment{
		ID:        uuid.New().String(),
		RefName:   strings.TrimSpace(entity.Notes["refName"]),
		Name:      entity.Notes["name"],
		Email:     strings.ToLower(strings.TrimSpace(entity.Email)),
		Phone:     entity.Contact,
		Amount:    entity.Amount,
		Address:   entity.Notes["address"],
		OrderID:   entity.OrderID,
		PaymentID: entity.ID,
		CreatedAt: time.Now(),
	}

	if err := h.payments.Create(r.Context(), payment); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// The donation had a refName that matches no fundraiser. Accept
			// the event so the gateway stops retrying, but log it.
			h.log.Warn().
				Str("ref_name", payment.RefName).
				Str("payment_id", payment.PaymentID).
				Msg("webhook payment references unknown fundraiser")
			payment.RefName = ""
			if err := h.payments.Create(r.Context(), payment); err != nil {
				h.log.Error().Err(err).Msg("failed to save webhook payment")
				writeError(w, http.StatusInternalServerError, "internal_error", "Server error")
				return
			}
		} else {
			h.log.Error().Err(err).Msg("failed to save webhook payment")
			writeError(w, http.StatusInternalServerError, "internal_error", "Server error")
			return
		}
	}

	if err := h.publisher.PublishPayment(r.Context(), events.PaymentEvent{
		RefName: payment.RefName,
		Amount:  payment.Amount,
	}); err != nil {
		h.log.Warn().Err(err).Msg("failed to publish payment event")
	}

	h.log.Info().
		Str("payment_id", payment.PaymentID).
		Int64("amount", payment.Amount).
		Msg("webhook payment captured")

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
