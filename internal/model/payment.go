package model

import (
	"fmt"
	"time"
)

// Payment represents a captured donation
type Payment struct {
	ID        string    `json:"id"`
	RefName   string    `json:"refName,omitempty"` // username of the referring fundraiser
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Amount    int64     `json:"amount"` // in paise
	Anonymous bool      `json:"anonymous"`
	Address   string    `json:"address,omitempty"`
	OrderID   string    `json:"orderId"`
	PaymentID string    `json:"paymentId"`
	CreatedAt time.Time `json:"createdAt"`
}

// istOffset is UTC+5:30
var istLocation = time.FixedZone("IST", int((5*time.Hour + 30*time.Minute).Seconds()))

// FormattedDate returns the creation date in dd-mm-yyyy form, in IST,
// matching what the donor dashboard displays.
func (p *Payment) FormattedDate() string {
	t := p.CreatedAt.In(istLocation)
	return fmt.Sprintf("%02d-%02d-%d", t.Day(), int(t.Month()), t.Year())
}
