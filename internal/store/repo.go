package store

import (
	"context"
)

// AnswerEventData captures one server-acknowledged answer submission.
type AnswerEventData struct {
	SessionID    string
	QuestionID   int
	PageID       int
	QuestionType string
	XPGained     int
}

// SessionEventData captures a session lifecycle transition.
type SessionEventData struct {
	SessionID string
	Action    string // "start", "abandon", or "complete"
}

// Totals aggregates the local answer mirror for one session.
type Totals struct {
	Answers int
	XP      int
}

// EventRepo provides append and query access to the local event mirror.
// Every method degrades gracefully when called by best-effort paths: the
// server stays authoritative, this log only improves offline behavior.
type EventRepo interface {
	// AppendAnswer records an acknowledged answer submission.
	AppendAnswer(ctx context.Context, data AnswerEventData) error

	// AppendSession records a session lifecycle event.
	AppendSession(ctx context.Context, data SessionEventData) error

	// AnsweredQuestionIDs returns the distinct question ids this client
	// has submitted for the session, filtered to one page when pageID > 0.
	AnsweredQuestionIDs(ctx context.Context, sessionID string, pageID int) ([]int, error)

	// SessionTotals sums locally mirrored answers and XP for a session.
	SessionTotals(ctx context.Context, sessionID string) (Totals, error)
}
