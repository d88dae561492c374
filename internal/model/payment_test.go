package model

import (
	"testing"
	"time"
)

func TestFormattedDate(t *testing.T) {
	// 2024-01-01 20:00 UTC is already 2024-01-02 01:30 in IST.
	p := &Payment{CreatedAt: time.Date(2024, 1, 1, 20, 0, 0, 0, time.UTC)}
	if got := p.FormattedDate(); got != "02-01-2024" {
		t.Errorf("FormattedDate = %q, want 02-01-2024", got)
	}

	p = &Payment{CreatedAt: time.Date(2024, 11, 15, 10, 0, 0, 0, time.UTC)}
	if got := p.FormattedDate(); got != "15-11-2024" {
		t.Errorf("FormattedDate = %q, want 15-11-2024", got)
	}
}

func TestQuizStatusValid(t *testing.T) {
	for _, s := range []QuizStatus{QuizNotAttempted, QuizPassed, QuizFailed} {
		if !s.Valid() {
			t.Errorf("QuizStatus(%q).Valid() = false", s)
		}
	}
	if QuizStatus("maybe").Valid() {
		t.Error(`QuizStatus("maybe").Valid() = true`)
	}
}
