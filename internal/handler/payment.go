package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/unessa/fundraiser-api/internal/events"
	"github.com/unessa/fundraiser-api/internal/model"
	"github.com/unessa/fundraiser-api/internal/razorpay"
	"github.com/unessa/fundraiser-api/internal/repository"
)

// CreateOrderRequest is the checkout order payload
type CreateOrderRequest struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Amount    int64  `json:"amount"` // in rupees
	Anonymous bool   `json:"anonymous"`
	Address   string `json:"address"`
}

// CreateOrder creates a payment order at the gateway
func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req CreateOrderRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}
	if req.Amount <= 0 {
		writeError(w, http.StatusBadRequest, "missing_field", "Amount is required")
		return
	}

	order, err := h.gateway.CreateOrder(r.Context(), razorpay.OrderRequest{
		Amount:  req.Amount * 100, // rupees to paise
		Receipt: fmt.Sprintf("receipt_%d", time.Now().UnixMilli()),
		Notes: map[string]string{
			"name":    req.Name,
			"email":   req.Email,
			"phone":   req.Phone,
			"address": req.Address,
		},
	})
	if err != nil {
		h.log.Error().Err(err).Msg("failed to create order")
		writeError(w, http.StatusInternalServerError, "internal_error", "Server error")
		return
	}

	displayName := req.Name
	if req.Anonymous {
		displayName = "Anonymous Donor"
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"orderId":  order.ID,
		"amount":   order.Amount,
		"currency": order.Currency,
		"key":      h.gateway.KeyID(),
		"name":     displayName,
	})
}

// VerifyPayment checks the checkout callback signature
func (h *Handler) VerifyPayment(w http.ResponseWriter, r *http.Request) {
	var req struct {
		OrderID   string `json:"razorpay_order_id"`
		PaymentID string `json:"razorpay_payment_id"`
		Signature string `json:"razorpay_signature"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}
	if req.OrderID == "" || req.PaymentID == "" || req.Signature == "" {
		writeError(w, http.StatusBadRequest, "missing_field", "Missing payment verification parameters")
		return
	}

	if !razorpay.VerifyPaymentSignature(req.OrderID, req.PaymentID, req.Signature, h.cfg.Razorpay.KeySecret) {
		writeError(w, http.StatusBadRequest, "invalid_signature", "Invalid signature")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "Payment verified successfully"})
}

// SavePaymentRequest is the captured donation payload
type SavePaymentRequest struct {
	RefName   string `json:"refName"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Amount    int64  `json:"amount"` // in paise
	Anonymous bool   `json:"anonymous"`
	Address   string `json:"address"`
	OrderID   string `json:"razorpay_order_id"`
	PaymentID string `json:"razorpay_payment_id"`
}

// SavePayment records a captured donation and credits the referrer
func (h *Handler) SavePayment(w http.ResponseWriter, r *http.Request) {
	var req SavePaymentRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}
	if req.Name == "" || req.Email == "" || req.OrderID == "" || req.PaymentID == "" {
		writeError(w, http.StatusBadRequest, "missing_field", "Missing required fields")
		return
	}
	if req.Amount <= 0 {
		writeError(w, http.StatusBadRequest, "invalid_amount", "Invalid amount")
		return
	}

	payment := &model.Payment{
		ID:        uuid.New().String(),
		RefName:   strings.TrimSpace(req.RefName),
		Name:      req.Name,
		Email:     strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:     req.Phone,
		Amount:    req.Amount,
		Anonymous: req.Anonymous,
		Address:   req.Address,
		OrderID:   req.OrderID,
		PaymentID: req.PaymentID,
		CreatedAt: time.Now(),
	}

	if err := h.payments.Create(r.Context(), payment); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "Referred user not found")
			return
		}
		h.log.Error().Err(err).Msg("failed to save payment")
		writeError(w, http.StatusInternalServerError, "internal_error", "Server error")
		return
	}

	if err := h.publisher.PublishPayment(r.Context(), events.PaymentEvent{
		RefName: payment.RefName,
		Amount:  payment.Amount,
	}); err != nil {
		// Fan-out is advisory; the payment is already durable.
		h.log.Warn().Err(err).Msg("failed to publish payment event")
	}

	h.log.Info().
		Str("payment_id", payment.PaymentID).
		Str("ref_name", payment.RefName).
		Int64("amount", payment.Amount).
		Msg("payment saved")

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"message": "Payment saved successfully!",
	})
}

// ListDonations returns donations, optionally filtered by referrer username
func (h *Handler) ListDonations(w http.ResponseWriter, r *http.Request) {
	refName := r.URL.Query().Get("username")

	payments, err := h.payments.ListByRefName(r.Context(), refName)
	if err != nil {
		h.log.Error().Err(err).Msg("failed to list donations")
		writeError(w, http.StatusInternalServerError, "internal_error", "Server error")
		return
	}

	type donation struct {
		*model.Payment
		FormattedDate string `json:"formattedDate"`
	}
	out := make([]donation, 0, len(payments))
	for _, p := range payments {
		out = append(out, donation{Payment: p, FormattedDate: p.FormattedDate()})
	}

	writeJSON(w, http.StatusOK, out)
}
