package question

import (
	"context"
	"errors"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/google/uuid"

	"github.com/carhythm/carhythm/internal/api"
	"github.com/carhythm/carhythm/internal/assessment"
	"github.com/carhythm/carhythm/internal/debounce"
	"github.com/carhythm/carhythm/internal/progress"
	qtypes "github.com/carhythm/carhythm/internal/question"
	"github.com/carhythm/carhythm/internal/router"
	"github.com/carhythm/carhythm/internal/screen"
	"github.com/carhythm/carhythm/internal/store"
	"github.com/carhythm/carhythm/internal/ui/components"
	"github.com/carhythm/carhythm/internal/ui/layout"
)

const (
	// flashDelay is how long the XP flash stays before auto-advancing.
	flashDelay = 900 * time.Millisecond

	// heartbeatDelay coalesces activity re-stamps of the progress record
	// while the student is interacting with a widget.
	heartbeatDelay = 3 * time.Second
)

// Backend is the slice of the API client the question screen uses.
type Backend interface {
	Questions(ctx context.Context, pageID int) (*api.QuestionPage, error)
	SubmitAnswer(ctx context.Context, sub api.AnswerSubmission) (*api.SubmitAnswerResponse, error)
	AnsweredQuestions(ctx context.Context, sessionID string, pageID int) ([]int, error)
}

// widgetKind selects which input widget is live for the current question.
type widgetKind int

const (
	widgetNone widgetKind = iota
	widgetLikert
	widgetChoice
	widgetOrdering
	widgetEssay
)

// QuestionScreen walks the student through one question page at a time,
// driving the answer-submission state machine.
type QuestionScreen struct {
	backend  Backend
	progress *progress.Store
	events   store.EventRepo
	onDone   func() screen.Screen

	pageID  int
	resume  bool
	state   *assessment.State
	loadErr string

	// transientID is the minted fallback session token, cached so every
	// resolution within one run sees the same value.
	transientID string

	kind     widgetKind
	likert   components.Likert
	choice   components.MultiChoice
	ordering components.Ordering
	essay    components.Essay

	flash     components.XPFlash
	heartbeat *debounce.Debouncer
	width     int
}

var _ screen.Screen = (*QuestionScreen)(nil)
var _ screen.KeyHintProvider = (*QuestionScreen)(nil)

// New creates a QuestionScreen for the given page. resume re-reconciles
// the question index against the server's answered set; onDone produces
// the screen shown after the final page.
func New(backend Backend, progressStore *progress.Store, events store.EventRepo, pageID int, resume bool, onDone func() screen.Screen) *QuestionScreen {
	s := &QuestionScreen{
		backend:  backend,
		progress: progressStore,
		events:   events,
		onDone:   onDone,
		pageID:   pageID,
		resume:   resume,
	}
	s.heartbeat = debounce.New(heartbeatDelay, func() {
		// An empty update rewrites the record, refreshing its timestamp.
		progressStore.Update(progress.Update{})
	})
	return s
}

func (s *QuestionScreen) Init() tea.Cmd {
	return s.loadPage()
}

func (s *QuestionScreen) Title() string {
	if s.state != nil {
		return s.state.Page.Page.Title
	}
	return "Assessment"
}

func (s *QuestionScreen) KeyHints() []layout.KeyHint {
	if s.loadErr != "" {
		return []layout.KeyHint{
			{Key: "Enter", Description: "Retry"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}
	if s.state == nil {
		return nil
	}
	if s.state.SubmitErr != "" && s.state.Phase == assessment.PhaseAnswered {
		return []layout.KeyHint{
			{Key: "Enter", Description: "Retry submission"},
		}
	}
	switch s.kind {
	case widgetLikert:
		return []layout.KeyHint{
			{Key: "1-5", Description: "Rate"},
			{Key: "←→", Description: "Adjust"},
			{Key: "Enter", Description: "Confirm"},
		}
	case widgetChoice:
		if q := s.state.Current(); q != nil && q.Type == qtypes.TypeMCQMultiple {
			return []layout.KeyHint{
				{Key: "Space", Description: "Toggle"},
				{Key: "Enter", Description: "Submit"},
			}
		}
		return []layout.KeyHint{
			{Key: "A-D", Description: "Choose"},
			{Key: "Enter", Description: "Submit"},
		}
	case widgetOrdering:
		return []layout.KeyHint{
			{Key: "Shift+↑↓", Description: "Move item"},
			{Key: "Enter", Description: "Confirm order"},
		}
	case widgetEssay:
		return []layout.KeyHint{
			{Key: "Ctrl+D", Description: "Finish writing"},
		}
	}
	return nil
}

// sessionID resolves the session identifier, falling back to a
// transient per-run token when nothing is stored yet.
func (s *QuestionScreen) sessionID() string {
	if id := s.progress.SessionID(); id != "" {
		return id
	}
	if s.state != nil && s.state.SessionID != "" {
		return s.state.SessionID
	}
	if s.transientID == "" {
		s.transientID = uuid.New().String()
	}
	return s.transientID
}

// loadPage fetches the page and resolves the resume index.
func (s *QuestionScreen) loadPage() tea.Cmd {
	pageID := s.pageID
	resume := s.resume
	sessionID := s.sessionID()
	return func() tea.Msg {
		ctx := context.Background()
		page, err := s.backend.Questions(ctx, pageID)
		if err != nil {
			return pageLoadedMsg{Err: err}
		}

		index := 0
		if resume {
			lister := eventFallbackLister{backend: s.backend, events: s.events}
			index = assessment.ReconcileResume(ctx, lister, s.progress, sessionID, page)
		}
		return pageLoadedMsg{Page: page, Index: index}
	}
}

// eventFallbackLister asks the server for the answered set and falls
// back to the local event mirror when the server is unreachable.
type eventFallbackLister struct {
	backend Backend
	events  store.EventRepo
}

func (l eventFallbackLister) AnsweredQuestions(ctx context.Context, sessionID string, pageID int) ([]int, error) {
	ids, err := l.backend.AnsweredQuestions(ctx, sessionID, pageID)
	if err == nil {
		return ids, nil
	}
	if l.events != nil {
		if local, lerr := l.events.AnsweredQuestionIDs(ctx, sessionID, pageID); lerr == nil && len(local) > 0 {
			return local, nil
		}
	}
	return nil, err
}

func (s *QuestionScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case pageLoadedMsg:
		return s.handlePageLoaded(msg)

	case submitResultMsg:
		return s.handleSubmitResult(msg)

	case advanceMsg:
		return s.handleAdvance()

	case tea.KeyMsg:
		return s.handleKey(msg)
	}

	// Blink and other component messages go to the live widget.
	if s.kind == widgetEssay && s.state != nil && s.state.Phase == assessment.PhaseViewing {
		var cmd tea.Cmd
		s.essay, cmd = s.essay.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *QuestionScreen) handlePageLoaded(msg pageLoadedMsg) (screen.Screen, tea.Cmd) {
	if msg.Err != nil {
		s.loadErr = friendlyError(msg.Err)
		return s, nil
	}
	s.loadErr = ""
	s.state = assessment.NewState(msg.Page, s.sessionID(), msg.Index)
	return s, s.setupWidget()
}

// setupWidget selects and initializes the input widget for the current
// question. The switch is exhaustive over the closed type enum.
func (s *QuestionScreen) setupWidget() tea.Cmd {
	q := s.state.Current()
	if q == nil {
		// Empty page: advance straight through it.
		return func() tea.Msg { return advanceMsg{} }
	}

	switch q.Type {
	case qtypes.TypeSlider:
		min, max := q.Options.ScaleMin, q.Options.ScaleMax
		if max <= min {
			min, max = 1, 5
		}
		labels := make(map[int]string)
		if n := len(q.Options.ScaleLabels); n > 0 {
			labels[min] = q.Options.ScaleLabels[0]
			labels[max] = q.Options.ScaleLabels[n-1]
		}
		s.kind = widgetLikert
		s.likert = components.NewLikert(min, max, labels)
		return s.likert.Init()

	case qtypes.TypeMCQSingle, qtypes.TypeMCQMultiple:
		opts := make([]string, len(q.Options.Choices))
		for i, c := range q.Options.Choices {
			opts[i] = c.Label
		}
		s.kind = widgetChoice
		s.choice = components.NewMultiChoice(opts, q.Type == qtypes.TypeMCQMultiple)
		return s.choice.Init()

	case qtypes.TypeOrdering:
		items := make([]components.OrderingItem, len(q.Options.Items))
		for i, it := range q.Options.Items {
			items[i] = components.OrderingItem{ID: it.ID, Label: it.Label}
		}
		s.kind = widgetOrdering
		s.ordering = components.NewOrdering(items)
		return s.ordering.Init()

	case qtypes.TypeEssay:
		min, max := q.EssayBounds()
		s.kind = widgetEssay
		s.essay = components.NewEssay("Share your thoughts...", min, max)
		if s.width > 0 {
			s.essay.SetWidth(components.ContentWidth(s.width) - 6)
		}
		return s.essay.Init()
	}

	s.kind = widgetNone
	return nil
}

func (s *QuestionScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	if s.loadErr != "" {
		if msg.String() == "enter" {
			s.loadErr = ""
			return s, s.loadPage()
		}
		return s, nil
	}

	if s.state == nil {
		return s, nil
	}

	switch s.state.Phase {
	case assessment.PhaseSubmitting:
		// A POST is in flight; further input cannot start another.
		return s, nil

	case assessment.PhaseAnswered:
		// A failed submission waits here for a manual retry.
		if msg.String() == "enter" && assessment.BeginSubmit(s.state) {
			return s, s.submit()
		}
		return s, nil

	case assessment.PhaseSettled:
		// Any key dismisses the flash early.
		return s, func() tea.Msg { return advanceMsg{} }
	}

	// PhaseViewing: the widget owns the keys.
	s.heartbeat.Trigger()
	return s.updateWidget(msg)
}

// updateWidget forwards the message to the live widget and, once it
// commits, runs the commit-submit transition.
func (s *QuestionScreen) updateWidget(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	var committed bool
	var answer qtypes.Answer

	switch s.kind {
	case widgetLikert:
		s.likert, cmd = s.likert.Update(msg)
		if s.likert.Committed {
			committed = true
			answer = qtypes.SliderAnswer(s.likert.Value())
		}

	case widgetChoice:
		s.choice, cmd = s.choice.Update(msg)
		if s.choice.Committed {
			q := s.state.Current()
			values := make([]string, 0, len(s.choice.Selected()))
			for _, i := range s.choice.Selected() {
				values = append(values, q.Options.Choices[i].Value)
			}
			committed = true
			answer = qtypes.MCQAnswer(values, q.Type == qtypes.TypeMCQSingle)
		}

	case widgetOrdering:
		s.ordering, cmd = s.ordering.Update(msg)
		if s.ordering.Committed {
			committed = true
			answer = qtypes.OrderingAnswer(s.ordering.OrderedIDs())
		}

	case widgetEssay:
		s.essay, cmd = s.essay.Update(msg)
		if s.essay.Committed {
			committed = true
			answer = qtypes.EssayAnswer(s.essay.Value())
		}

	default:
		return s, nil
	}

	if !committed {
		return s, cmd
	}

	q := s.state.Current()
	if err := answer.Validate(*q); err != nil {
		// The widget committed something submission would reject. Roll
		// the commit back so the input stays editable.
		assessment.Reject(s.state, err.Error())
		s.uncommitWidget()
		return s, cmd
	}

	assessment.Commit(s.state, answer)
	if assessment.BeginSubmit(s.state) {
		return s, tea.Batch(cmd, s.submit())
	}
	return s, cmd
}

// uncommitWidget reopens the live widget after a rejected commit.
func (s *QuestionScreen) uncommitWidget() {
	switch s.kind {
	case widgetLikert:
		s.likert.Committed = false
	case widgetChoice:
		s.choice.Committed = false
	case widgetOrdering:
		s.ordering.Committed = false
	case widgetEssay:
		s.essay.Committed = false
	}
}

func (s *QuestionScreen) submit() tea.Cmd {
	sub := s.state.Submission()
	return func() tea.Msg {
		resp, err := s.backend.SubmitAnswer(context.Background(), sub)
		return submitResultMsg{Resp: resp, Err: err}
	}
}

func (s *QuestionScreen) handleSubmitResult(msg submitResultMsg) (screen.Screen, tea.Cmd) {
	if s.state == nil {
		return s, nil
	}
	if msg.Err != nil {
		assessment.Fail(s.state, friendlyError(msg.Err))
		return s, nil
	}

	assessment.Settle(s.state, msg.Resp, s.progress)

	// Mirror the submission locally; failure only reduces durability.
	if s.events != nil {
		if q := s.state.Current(); q != nil {
			_ = s.events.AppendAnswer(context.Background(), store.AnswerEventData{
				SessionID:    s.state.SessionID,
				QuestionID:   q.ID,
				PageID:       s.state.Page.Page.ID,
				QuestionType: q.Type.String(),
				XPGained:     msg.Resp.XPGained,
			})
		}
	}

	s.flash = components.ShowXPFlash(msg.Resp.XPGained, msg.Resp.BadgesUnlocked)
	return s, tea.Tick(flashDelay, func(time.Time) tea.Msg {
		return advanceMsg{}
	})
}

func (s *QuestionScreen) handleAdvance() (screen.Screen, tea.Cmd) {
	if s.state == nil || s.state.Phase == assessment.PhaseSubmitting {
		return s, nil
	}
	s.flash.Visible = false

	// Empty pages settle nothing; everything else must be settled first.
	if s.state.Current() != nil && s.state.Phase != assessment.PhaseSettled {
		return s, nil
	}

	result := assessment.Advance(s.state, s.progress)
	switch result.Outcome {
	case assessment.OutcomeNextQuestion:
		return s, s.setupWidget()

	case assessment.OutcomeNextPage:
		s.heartbeat.Flush()
		s.pageID = result.NextPageID
		s.resume = false
		s.state = nil
		return s, s.loadPage()

	default:
		s.heartbeat.Stop()
		if s.events != nil {
			_ = s.events.AppendSession(context.Background(), store.SessionEventData{
				SessionID: s.sessionID(),
				Action:    "complete",
			})
		}
		next := s.onDone()
		return s, func() tea.Msg {
			return router.ReplaceScreenMsg{Screen: next}
		}
	}
}

// friendlyError maps transport and server errors to what the student
// should read. Server validation detail is passed through verbatim.
func friendlyError(err error) string {
	var apiErr *api.APIError
	if errors.As(err, &apiErr) && apiErr.Detail != "" {
		return apiErr.Detail
	}
	var unreachable *api.ErrUnreachable
	if errors.As(err, &unreachable) {
		return "Cannot reach the server. Check your connection and press Enter to retry."
	}
	return err.Error()
}

var _ Backend = (*api.Client)(nil)
