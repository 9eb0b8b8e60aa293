package assessment

import (
	"github.com/carhythm/carhythm/internal/api"
	"github.com/carhythm/carhythm/internal/progress"
	"github.com/carhythm/carhythm/internal/question"
)

// Phase is the position in the answer-submission lifecycle for the
// question currently on screen.
//
//	Viewing → Answered → Submitting → Settled (then advance)
//	                              ↘ back to Viewing with an inline error
type Phase int

const (
	// PhaseViewing shows the question; no committed answer yet, or a
	// failed submission awaiting manual retry.
	PhaseViewing Phase = iota

	// PhaseAnswered holds a committed answer not yet sent.
	PhaseAnswered

	// PhaseSubmitting has a POST in flight.
	PhaseSubmitting

	// PhaseSettled has a server-acknowledged answer; advancement is next.
	PhaseSettled
)

// State is the runtime state of one question page. Plain data driven by
// the functions in this package; the screen layer owns rendering and
// scheduling.
type State struct {
	// Page is the fetched question page, immutable once loaded.
	Page *api.QuestionPage

	// Index is the current question position within Page.Questions.
	Index int

	// SessionID correlates submissions server-side. Never created or
	// validated locally, only stored and forwarded.
	SessionID string

	// Phase is the submission lifecycle position for the current question.
	Phase Phase

	// Answer is the committed answer for the current question (set in
	// PhaseAnswered and later).
	Answer *question.Answer

	// SubmitErr is the inline, user-visible error from the last failed
	// submission. Cleared on retry and on advancement.
	SubmitErr string

	// InFlight guards against overlapping submissions from rapid
	// repeated input on auto-advance widgets.
	InFlight bool

	// XPGained and TotalXP mirror the most recent submit response for
	// the XP flash.
	XPGained int
	TotalXP  int

	// BadgesUnlocked mirrors the most recent submit response.
	BadgesUnlocked []string
}

// NewState builds the page state at the given resume index.
func NewState(page *api.QuestionPage, sessionID string, index int) *State {
	if index < 0 || index >= len(page.Questions) {
		index = 0
	}
	return &State{
		Page:      page,
		Index:     index,
		SessionID: sessionID,
		Phase:     PhaseViewing,
	}
}

// Current returns the question on screen, or nil for an empty page.
func (s *State) Current() *question.Question {
	if s.Index < 0 || s.Index >= len(s.Page.Questions) {
		return nil
	}
	return &s.Page.Questions[s.Index]
}

// Commit records the user's answer for the current question and moves to
// PhaseAnswered. It reports whether the question type auto-advances,
// i.e. whether the caller should begin submission immediately rather
// than wait for an explicit Next.
func Commit(s *State, a question.Answer) (autoAdvance bool) {
	if s.Phase == PhaseSubmitting {
		return false
	}
	s.Answer = &a
	s.Phase = PhaseAnswered
	s.SubmitErr = ""
	q := s.Current()
	return q != nil && q.Type.AutoAdvance()
}

// BeginSubmit transitions to PhaseSubmitting. It refuses when no answer
// is committed or another submission is already in flight, so rapid
// double-interaction never produces duplicate POSTs.
func BeginSubmit(s *State) bool {
	if s.InFlight || s.Phase != PhaseAnswered || s.Answer == nil {
		return false
	}
	s.Phase = PhaseSubmitting
	s.InFlight = true
	s.SubmitErr = ""
	return true
}

// Submission builds the wire payload for the in-flight answer.
func (s *State) Submission() api.AnswerSubmission {
	q := s.Current()
	sub := api.AnswerSubmission{SessionID: s.SessionID}
	if q != nil {
		sub.QuestionID = q.ID
	}
	if s.Answer != nil {
		sub.Answer = *s.Answer
	}
	return sub
}

// Settle applies a successful submit response: the XP and progress
// totals are merged into the progress record, but the resume pointer
// (page id, question index) is deliberately left untouched — only
// Advance moves it, so a slow response can never overwrite a pointer
// that local navigation already moved forward.
func Settle(s *State, resp *api.SubmitAnswerResponse, store *progress.Store) {
	s.InFlight = false
	s.Phase = PhaseSettled
	s.XPGained = resp.XPGained
	s.TotalXP = resp.TotalXP
	s.BadgesUnlocked = resp.BadgesUnlocked

	store.Update(progress.Update{
		Percentage:        progress.Ptr(resp.Progress.Percentage),
		TotalXP:           progress.Ptr(resp.TotalXP),
		QuestionsAnswered: progress.Ptr(resp.Progress.QuestionsAnswered),
	})
}

// Fail records a failed submission: back to PhaseAnswered with the
// inline error set and the committed answer kept, so the same BeginSubmit
// transition can be retried manually. No automatic retry is performed.
func Fail(s *State, msg string) {
	s.InFlight = false
	s.Phase = PhaseAnswered
	s.SubmitErr = msg
}

// Reject surfaces a local validation failure before any answer was
// committed: back to PhaseViewing with the inline error set and no
// Answer, so the widget keeps accepting input.
func Reject(s *State, msg string) {
	s.Phase = PhaseViewing
	s.Answer = nil
	s.SubmitErr = msg
}

// Outcome says where Advance landed.
type Outcome int

const (
	// OutcomeNextQuestion stays on the page at the next index.
	OutcomeNextQuestion Outcome = iota

	// OutcomeNextPage exhausted the page; NextPageID names the follow-up.
	OutcomeNextPage

	// OutcomeComplete exhausted the assessment; the flow moves on to
	// feedback, contact info, and results.
	OutcomeComplete
)

// AdvanceResult carries the outcome of an advancement step.
type AdvanceResult struct {
	Outcome    Outcome
	NextPageID int
}

// Advance moves past the current question and is the only place the
// resume pointer changes. Within a page it steps the index; past the
// last question it consults the page's navigation metadata.
func Advance(s *State, store *progress.Store) AdvanceResult {
	s.Answer = nil
	s.Phase = PhaseViewing
	s.SubmitErr = ""

	if s.Index < len(s.Page.Questions)-1 {
		s.Index++
		store.Update(progress.Update{
			SessionID:            progress.Ptr(s.SessionID),
			CurrentPageID:        progress.Ptr(s.Page.Page.ID),
			CurrentQuestionIndex: progress.Ptr(s.Index),
		})
		return AdvanceResult{Outcome: OutcomeNextQuestion}
	}

	if next := s.Page.Navigation.NextPageID; next != nil {
		store.Update(progress.Update{
			SessionID:            progress.Ptr(s.SessionID),
			CurrentPageID:        progress.Ptr(*next),
			CurrentQuestionIndex: progress.Ptr(0),
		})
		return AdvanceResult{Outcome: OutcomeNextPage, NextPageID: *next}
	}

	return AdvanceResult{Outcome: OutcomeComplete}
}
