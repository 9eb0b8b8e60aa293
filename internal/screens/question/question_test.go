package question

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/carhythm/carhythm/internal/api"
	"github.com/carhythm/carhythm/internal/assessment"
	"github.com/carhythm/carhythm/internal/progress"
	qtypes "github.com/carhythm/carhythm/internal/question"
	"github.com/carhythm/carhythm/internal/router"
	"github.com/carhythm/carhythm/internal/screen"
	"github.com/carhythm/carhythm/internal/store"
)

type stubBackend struct {
	page        *api.QuestionPage
	pageErr     error
	answered    []int
	answeredErr error
	submits     []api.AnswerSubmission
	submitResp  *api.SubmitAnswerResponse
	submitErr   error
}

func (b *stubBackend) Questions(_ context.Context, pageID int) (*api.QuestionPage, error) {
	if b.pageErr != nil {
		return nil, b.pageErr
	}
	return b.page, nil
}

func (b *stubBackend) SubmitAnswer(_ context.Context, sub api.AnswerSubmission) (*api.SubmitAnswerResponse, error) {
	b.submits = append(b.submits, sub)
	if b.submitErr != nil {
		return nil, b.submitErr
	}
	return b.submitResp, nil
}

func (b *stubBackend) AnsweredQuestions(_ context.Context, _ string, _ int) ([]int, error) {
	if b.answeredErr != nil {
		return nil, b.answeredErr
	}
	return b.answered, nil
}

type doneScreen struct{}

func (d *doneScreen) Init() tea.Cmd                           { return nil }
func (d *doneScreen) Update(tea.Msg) (screen.Screen, tea.Cmd) { return d, nil }
func (d *doneScreen) View(int, int) string                    { return "done" }
func (d *doneScreen) Title() string                           { return "Done" }

func sliderQuestion(id int) qtypes.Question {
	return qtypes.Question{
		ID:   id,
		Type: qtypes.TypeSlider,
		Text: "I enjoy collaborative work",
		Options: qtypes.Options{
			ScaleMin:    1,
			ScaleMax:    5,
			ScaleLabels: []string{"Disagree", "Agree"},
		},
	}
}

func essayQuestion(id int) qtypes.Question {
	return qtypes.Question{
		ID:   id,
		Type: qtypes.TypeEssay,
		Text: "Describe your ideal workday",
		Options: qtypes.Options{
			MinLength: 1,
			MaxLength: 200,
		},
	}
}

func testPage(next *int, qs ...qtypes.Question) *api.QuestionPage {
	return &api.QuestionPage{
		Page: api.PageInfo{ID: 2, Title: "Work Style", Module: "Personality"},
		Navigation: api.Navigation{
			CurrentPage: 2,
			TotalPages:  5,
			NextPageID:  next,
		},
		Questions: qs,
	}
}

func testStore(t *testing.T) *progress.Store {
	t.Helper()
	dir := t.TempDir()
	st := progress.NewStore(
		progress.NewFileBackend(filepath.Join(dir, "progress.json")),
		progress.NewCookieBackend(filepath.Join(dir, "cookie")),
	)
	st.Save(progress.Record{SessionID: "sess-1", CurrentPageID: 2})
	return st
}

func okResponse() *api.SubmitAnswerResponse {
	return &api.SubmitAnswerResponse{
		Success:  true,
		XPGained: 10,
		TotalXP:  110,
		Progress: api.AnswerProgress{
			Percentage:        25,
			QuestionsAnswered: 11,
		},
	}
}

func loadScreen(t *testing.T, s *QuestionScreen) {
	t.Helper()
	msg := s.Init()()
	loaded, ok := msg.(pageLoadedMsg)
	if !ok {
		t.Fatalf("expected pageLoadedMsg, got %T", msg)
	}
	if loaded.Err != nil {
		t.Fatalf("page load: %v", loaded.Err)
	}
	s.Update(loaded)
}

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func TestResumeSkipsAnsweredQuestions(t *testing.T) {
	backend := &stubBackend{
		page:     testPage(nil, sliderQuestion(10), sliderQuestion(11), sliderQuestion(12)),
		answered: []int{10, 11},
	}
	st := testStore(t)
	s := New(backend, st, nil, 2, true, func() screen.Screen { return &doneScreen{} })
	loadScreen(t, s)

	if s.state.Index != 2 {
		t.Errorf("resume index = %d, want 2", s.state.Index)
	}

	rec := st.Load()
	if rec == nil || rec.CurrentQuestionIndex != 2 {
		t.Error("expected resolved index persisted to the progress store")
	}
}

func TestSliderCommitSubmitsImmediately(t *testing.T) {
	backend := &stubBackend{
		page:       testPage(nil, sliderQuestion(10)),
		submitResp: okResponse(),
	}
	s := New(backend, testStore(t), nil, 2, false, func() screen.Screen { return &doneScreen{} })
	loadScreen(t, s)

	_, cmd := s.Update(keyPress('4'))
	if cmd == nil {
		t.Fatal("expected submit command after slider commit")
	}
	if s.state.Phase != assessment.PhaseSubmitting {
		t.Fatalf("phase = %v, want submitting", s.state.Phase)
	}

	// Rapid extra input while in flight must not start another submit.
	_, dup := s.Update(keyPress('5'))
	if dup != nil {
		t.Error("expected input during submission to be ignored")
	}

	msg := runBatch(t, cmd)
	res, ok := msg.(submitResultMsg)
	if !ok {
		t.Fatalf("expected submitResultMsg, got %T", msg)
	}
	if res.Err != nil {
		t.Fatalf("submit: %v", res.Err)
	}
	if len(backend.submits) != 1 {
		t.Fatalf("submits = %d, want 1", len(backend.submits))
	}
	if backend.submits[0].QuestionID != 10 {
		t.Errorf("submitted question id = %d, want 10", backend.submits[0].QuestionID)
	}
	if backend.submits[0].SessionID != "sess-1" {
		t.Errorf("submitted session id = %q, want sess-1", backend.submits[0].SessionID)
	}
}

// runBatch executes a possibly batched command and returns the first
// non-nil message that is not a tick.
func runBatch(t *testing.T, cmd tea.Cmd) tea.Msg {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected non-nil command")
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		for _, c := range batch {
			if c == nil {
				continue
			}
			if m := c(); m != nil {
				return m
			}
		}
		t.Fatal("batch produced no message")
	}
	return msg
}

func TestSubmitSuccessMergesTotalsNotPointer(t *testing.T) {
	backend := &stubBackend{
		page:       testPage(nil, sliderQuestion(10), sliderQuestion(11)),
		submitResp: okResponse(),
	}
	st := testStore(t)
	s := New(backend, st, nil, 2, false, func() screen.Screen { return &doneScreen{} })
	loadScreen(t, s)

	_, cmd := s.Update(keyPress('3'))
	res := runBatch(t, cmd).(submitResultMsg)
	s.Update(res)

	if s.state.Phase != assessment.PhaseSettled {
		t.Fatalf("phase = %v, want settled", s.state.Phase)
	}
	if !s.flash.Visible || s.flash.XPGained != 10 {
		t.Error("expected visible XP flash with gained XP")
	}

	rec := st.Load()
	if rec.TotalXP != 110 || rec.QuestionsAnswered != 11 {
		t.Errorf("totals = (%d, %d), want (110, 11)", rec.TotalXP, rec.QuestionsAnswered)
	}
	if rec.CurrentQuestionIndex != 0 {
		t.Errorf("pointer moved on settle: index = %d, want 0", rec.CurrentQuestionIndex)
	}

	// Advancing moves the pointer.
	s.Update(advanceMsg{})
	rec = st.Load()
	if rec.CurrentQuestionIndex != 1 {
		t.Errorf("pointer after advance = %d, want 1", rec.CurrentQuestionIndex)
	}
	if s.state.Index != 1 {
		t.Errorf("state index = %d, want 1", s.state.Index)
	}
}

func TestSubmitFailureShowsDetailAndRetries(t *testing.T) {
	backend := &stubBackend{
		page:      testPage(nil, sliderQuestion(10)),
		submitErr: &api.APIError{StatusCode: 422, Detail: "Invalid answer format"},
	}
	s := New(backend, testStore(t), nil, 2, false, func() screen.Screen { return &doneScreen{} })
	loadScreen(t, s)

	_, cmd := s.Update(keyPress('2'))
	res := runBatch(t, cmd).(submitResultMsg)
	s.Update(res)

	if s.state.Phase != assessment.PhaseAnswered {
		t.Fatalf("phase = %v, want answered (retryable)", s.state.Phase)
	}
	if s.state.SubmitErr != "Invalid answer format" {
		t.Errorf("submit error = %q, want server detail verbatim", s.state.SubmitErr)
	}
	if !strings.Contains(s.View(100, 40), "Invalid answer format") {
		t.Error("expected inline error in view")
	}

	// Server recovers; enter retries the same answer.
	backend.submitErr = nil
	backend.submitResp = okResponse()
	_, cmd = s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected retry command")
	}
	res = runBatch(t, cmd).(submitResultMsg)
	if res.Err != nil {
		t.Fatalf("retry: %v", res.Err)
	}
	if len(backend.submits) != 2 {
		t.Errorf("submits = %d, want 2", len(backend.submits))
	}
}

func TestLastQuestionCompletesAssessment(t *testing.T) {
	backend := &stubBackend{
		page:       testPage(nil, sliderQuestion(10)),
		submitResp: okResponse(),
	}
	s := New(backend, testStore(t), nil, 2, false, func() screen.Screen { return &doneScreen{} })
	loadScreen(t, s)

	_, cmd := s.Update(keyPress('5'))
	res := runBatch(t, cmd).(submitResultMsg)
	s.Update(res)

	_, cmd = s.Update(advanceMsg{})
	msg := runBatch(t, cmd)
	rep, ok := msg.(router.ReplaceScreenMsg)
	if !ok {
		t.Fatalf("expected ReplaceScreenMsg, got %T", msg)
	}
	if rep.Screen.Title() != "Done" {
		t.Errorf("next screen = %q, want Done", rep.Screen.Title())
	}
}

func TestPageExhaustedLoadsNextPage(t *testing.T) {
	next := 3
	backend := &stubBackend{
		page:       testPage(&next, sliderQuestion(10)),
		submitResp: okResponse(),
	}
	s := New(backend, testStore(t), nil, 2, false, func() screen.Screen { return &doneScreen{} })
	loadScreen(t, s)

	_, cmd := s.Update(keyPress('5'))
	s.Update(runBatch(t, cmd).(submitResultMsg))

	_, cmd = s.Update(advanceMsg{})
	if s.pageID != 3 {
		t.Errorf("pageID = %d, want 3", s.pageID)
	}
	if s.state != nil {
		t.Error("expected state reset while next page loads")
	}
	if cmd == nil {
		t.Fatal("expected load command for next page")
	}
}

func TestEventFallbackListerUsesLocalMirror(t *testing.T) {
	backend := &stubBackend{answeredErr: errors.New("connection refused")}
	lister := eventFallbackLister{backend: backend, events: stubEvents{ids: []int{7}}}

	ids, err := lister.AnsweredQuestions(context.Background(), "sess-1", 2)
	if err != nil {
		t.Fatalf("expected local fallback, got error: %v", err)
	}
	if len(ids) != 1 || ids[0] != 7 {
		t.Errorf("ids = %v, want [7]", ids)
	}
}

func TestLoadErrorRetriesOnEnter(t *testing.T) {
	backend := &stubBackend{pageErr: &api.ErrUnreachable{Err: errors.New("dial tcp: refused")}}
	s := New(backend, testStore(t), nil, 2, false, func() screen.Screen { return &doneScreen{} })

	msg := s.Init()()
	s.Update(msg)
	if s.loadErr == "" {
		t.Fatal("expected load error")
	}
	if !strings.Contains(s.View(100, 40), "Cannot reach the server") {
		t.Error("expected friendly unreachable message")
	}

	backend.pageErr = nil
	backend.page = testPage(nil, essayQuestion(20))
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	loaded := runBatch(t, cmd).(pageLoadedMsg)
	if loaded.Err != nil {
		t.Fatalf("reload: %v", loaded.Err)
	}
	s.Update(loaded)
	if s.kind != widgetEssay {
		t.Errorf("widget kind = %v, want essay", s.kind)
	}
}

func TestRejectedCommitKeepsEssayEditable(t *testing.T) {
	backend := &stubBackend{
		page:       testPage(nil, essayQuestion(30)),
		submitResp: okResponse(),
	}
	s := New(backend, testStore(t), nil, 2, false, func() screen.Screen { return &doneScreen{} })
	loadScreen(t, s)

	// A committed widget value that submission validation rejects must
	// not strand the question: the commit rolls back and the widget
	// keeps accepting input.
	s.essay.Model.SetValue("   ")
	s.essay.Committed = true
	s.Update(keyPress('x'))

	if s.state.Phase != assessment.PhaseViewing {
		t.Fatalf("phase = %v, want viewing", s.state.Phase)
	}
	if s.state.SubmitErr == "" {
		t.Error("expected inline validation error")
	}
	if s.essay.Committed {
		t.Fatal("expected widget reopened for editing")
	}

	// The reopened widget carries a real answer through to submission.
	for _, r := range "I like varied work" {
		s.Update(keyPress(r))
	}
	_, cmd := s.Update(tea.KeyPressMsg{Code: 'd', Mod: tea.ModCtrl})
	if cmd == nil {
		t.Fatal("expected submit command after valid commit")
	}
	if s.state.Phase != assessment.PhaseSubmitting {
		t.Fatalf("phase = %v, want submitting", s.state.Phase)
	}
}

func TestTransientSessionTokenIsStable(t *testing.T) {
	dir := t.TempDir()
	empty := progress.NewStore(
		progress.NewFileBackend(filepath.Join(dir, "progress.json")),
		progress.NewCookieBackend(filepath.Join(dir, "cookie")),
	)
	backend := &stubBackend{page: testPage(nil, sliderQuestion(10))}
	s := New(backend, empty, nil, 2, false, func() screen.Screen { return &doneScreen{} })

	first := s.sessionID()
	if first == "" {
		t.Fatal("expected a minted fallback token")
	}
	if second := s.sessionID(); second != first {
		t.Errorf("fallback token changed between calls: %q then %q", first, second)
	}

	loadScreen(t, s)
	if s.state.SessionID != first {
		t.Errorf("state session = %q, want the cached token %q", s.state.SessionID, first)
	}
}

type stubEvents struct {
	ids []int
}

func (s stubEvents) AppendAnswer(context.Context, store.AnswerEventData) error   { return nil }
func (s stubEvents) AppendSession(context.Context, store.SessionEventData) error { return nil }
func (s stubEvents) SessionTotals(context.Context, string) (store.Totals, error) {
	return store.Totals{}, nil
}
func (s stubEvents) AnsweredQuestionIDs(context.Context, string, int) ([]int, error) {
	return s.ids, nil
}
