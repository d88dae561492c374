package model

import (
	"time"
)

// QuizStatus represents the onboarding quiz state of a user
type QuizStatus string

const (
	QuizNotAttempted QuizStatus = "not_attempted"
	QuizPassed       QuizStatus = "passed"
	QuizFailed       QuizStatus = "failed"
)

// Valid reports whether s is a known quiz status.
func (s QuizStatus) Valid() bool {
	switch s {
	case QuizNotAttempted, QuizPassed, QuizFailed:
		return true
	}
	return false
}

// LetterState represents the offer-letter delivery state of a user
type LetterState string

const (
	LetterNotGenerated   LetterState = "not_generated"
	LetterGenerated      LetterState = "generated"
	LetterDeliveryFailed LetterState = "delivery_failed"
	LetterDelivered      LetterState = "delivered"
)

// User represents a registered fundraiser
type User struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Email       string      `json:"email"`
	Phone       string      `json:"phone,omitempty"`
	Avatar      string      `json:"avatar,omitempty"`
	Username    string      `json:"username"`
	Amount      int64       `json:"amount"` // referral ledger total, in paise
	QuizStatus  QuizStatus  `json:"quizStatus"`
	LetterState LetterState `json:"letterState"`
	LetterPath  *string     `json:"letterPath,omitempty"`
	LetterPDF   []byte      `json:"-"` // inline artifact, only with database storage
	OfferSentAt *time.Time  `json:"offerSentAt,omitempty"`
	HasSeenTour bool        `json:"hasSeenTour"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

// HasLetter reports whether a delivered letter artifact should be resolvable.
func (u *User) HasLetter() bool {
	return u.LetterState == LetterDelivered || u.LetterState == LetterGenerated
}
