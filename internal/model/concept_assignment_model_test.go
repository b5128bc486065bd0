package model

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

func TestStateAfterStart(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	if got := StateAfterStart(now.Add(-time.Minute), now); got != AssignmentActive {
		t.Fatalf("past start = %s, want ACTIVE", got)
	}
	if got := StateAfterStart(now, now); got != AssignmentActive {
		t.Fatalf("start == now = %s, want ACTIVE", got)
	}
	if got := StateAfterStart(now.Add(time.Minute), now); got != AssignmentWaiting {
		t.Fatalf("future start = %s, want WAITING", got)
	}
}

func TestAnswerFor(t *testing.T) {
	qID := uuid.New()
	numID := uuid.New()
	c := &Candidature{Answers: datatypes.JSONMap{
		qID.String():   "4",
		numID.String(): 7,
	}}

	if got := c.AnswerFor(qID); got != "4" {
		t.Fatalf("AnswerFor = %q, want 4", got)
	}
	if got := c.AnswerFor(numID); got != "" {
		t.Fatalf("non-string answer = %q, want empty", got)
	}
	if got := c.AnswerFor(uuid.New()); got != "" {
		t.Fatalf("missing answer = %q, want empty", got)
	}

	var empty Candidature
	if got := empty.AnswerFor(qID); got != "" {
		t.Fatalf("nil answers = %q, want empty", got)
	}
}
