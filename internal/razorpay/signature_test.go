package razorpay

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"
)

func sign(payload, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(payload))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifyPaymentSignature(t *testing.T) {
	secret := "test_secret"
	orderID := "order_abc123"
	paymentID := "pay_xyz789"
	valid := sign(orderID+"|"+paymentID, secret)

	tests := []struct {
		name      string
		signature string
		secret    string
		want      bool
	}{
		{"valid signature", valid, secret, true},
		{"wrong secret", valid, "other_secret", false},
		{"tampered signature", valid[:len(valid)-1] + "0", secret, false},
		{"empty signature", "", secret, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := VerifyPaymentSignature(orderID, paymentID, tt.signature, tt.secret)
			if got != tt.want {
				t.Errorf("VerifyPaymentSignature = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestVerifyPaymentSignatureOrderMatters(t *testing.T) {
	secret := "test_secret"
	swapped := sign("pay_xyz789|order_abc123", secret)

	if VerifyPaymentSignature("order_abc123", "pay_xyz789", swapped, secret) {
		t.Error("signature over swapped IDs verified")
	}
}

func TestVerifyWebhookSignature(t *testing.T) {
	secret := "webhook_secret"
	body := []byte(`{"event":"payment.captured","payload":{}}`)
	valid := sign(string(body), secret)

	if !VerifyWebhookSignature(body, valid, secret) {
		t.Error("valid webhook signature rejected")
	}
	if VerifyWebhookSignature([]byte(`{"event":"payment.captured","payload":{} }`), valid, secret) {
		t.Error("signature verified against modified body")
	}
	if VerifyWebhookSignature(body, valid, "other_secret") {
		t.Error("signature verified with wrong secret")
	}
}
