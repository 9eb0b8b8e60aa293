package assessment

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/carhythm/carhythm/internal/api"
	"github.com/carhythm/carhythm/internal/progress"
	"github.com/carhythm/carhythm/internal/question"
)

func testStore(t *testing.T) *progress.Store {
	t.Helper()
	dir := t.TempDir()
	s := progress.NewStore(
		progress.NewFileBackend(filepath.Join(dir, "progress.json")),
		progress.NewCookieBackend(filepath.Join(dir, ".cookie")),
	)
	s.SetWarnFunc(func(string, ...any) {})
	return s
}

func testPage(nextPageID *int, questions ...question.Question) *api.QuestionPage {
	return &api.QuestionPage{
		Page:       api.PageInfo{ID: 4, Module: "Interests"},
		Questions:  questions,
		Navigation: api.Navigation{NextPageID: nextPageID},
	}
}

func sliderQ(id int) question.Question {
	return question.Question{ID: id, Type: question.TypeSlider, Text: fmt.Sprintf("q%d", id)}
}

func essayQ(id int) question.Question {
	return question.Question{ID: id, Type: question.TypeEssay, Text: fmt.Sprintf("q%d", id)}
}

func seedRecord(t *testing.T, store *progress.Store, pageID, index int) {
	t.Helper()
	if !store.Save(progress.Record{
		SessionID:            "sess-1",
		CurrentPageID:        pageID,
		CurrentQuestionIndex: index,
	}) {
		t.Fatal("seed save failed")
	}
}

func TestResolveResume(t *testing.T) {
	qs := []question.Question{sliderQ(1), sliderQ(2), sliderQ(3)}

	tests := []struct {
		name     string
		answered map[int]bool
		want     int
	}{
		{"none answered", map[int]bool{}, 0},
		{"first answered", map[int]bool{1: true}, 1},
		{"gap answered", map[int]bool{1: true, 3: true}, 1},
		{"all answered resumes at last", map[int]bool{1: true, 2: true, 3: true}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolveResume(qs, tt.answered); got != tt.want {
				t.Errorf("ResolveResume = %d, want %d", got, tt.want)
			}
		})
	}

	if got := ResolveResume(nil, map[int]bool{}); got != 0 {
		t.Errorf("empty page resume = %d, want 0", got)
	}
}

type fakeLister struct {
	ids []int
	err error
}

func (f fakeLister) AnsweredQuestions(context.Context, string, int) ([]int, error) {
	return f.ids, f.err
}

func TestReconcilePrefersServer(t *testing.T) {
	store := testStore(t)
	seedRecord(t, store, 4, 0)
	page := testPage(nil, sliderQ(1), sliderQ(2), sliderQ(3))

	got := ReconcileResume(context.Background(), fakeLister{ids: []int{1}}, store, "sess-1", page)
	if got != 1 {
		t.Errorf("resume index = %d, want 1", got)
	}

	// Resolved index persisted for later offline reloads.
	rec := store.Load()
	if rec == nil || rec.CurrentQuestionIndex != 1 || rec.CurrentPageID != 4 {
		t.Errorf("persisted pointer = %+v, want page 4 index 1", rec)
	}
}

func TestReconcileFallsBackToLocalOnSamePage(t *testing.T) {
	store := testStore(t)
	seedRecord(t, store, 4, 2)
	page := testPage(nil, sliderQ(1), sliderQ(2), sliderQ(3))

	down := fakeLister{err: &api.ErrUnreachable{Err: fmt.Errorf("refused")}}
	got := ReconcileResume(context.Background(), down, store, "sess-1", page)
	if got != 2 {
		t.Errorf("resume index = %d, want stored 2", got)
	}
}

func TestReconcileIgnoresLocalHintFromOtherPage(t *testing.T) {
	store := testStore(t)
	seedRecord(t, store, 9, 2) // hint belongs to page 9, not page 4
	page := testPage(nil, sliderQ(1), sliderQ(2), sliderQ(3))

	down := fakeLister{err: &api.ErrUnreachable{Err: fmt.Errorf("refused")}}
	got := ReconcileResume(context.Background(), down, store, "sess-1", page)
	if got != 0 {
		t.Errorf("resume index = %d, want 0 for foreign-page hint", got)
	}
}

func TestSettleMergesTotalsButNotPointer(t *testing.T) {
	store := testStore(t)
	seedRecord(t, store, 4, 0)
	s := NewState(testPage(nil, sliderQ(1), sliderQ(2)), "sess-1", 0)

	Commit(s, question.SliderAnswer(4))
	if !BeginSubmit(s) {
		t.Fatal("BeginSubmit refused")
	}

	Settle(s, &api.SubmitAnswerResponse{
		Success:  true,
		XPGained: 10,
		TotalXP:  10,
		Progress: api.AnswerProgress{Percentage: 20, QuestionsAnswered: 1},
	}, store)

	rec := store.Load()
	if rec.TotalXP != 10 || rec.Percentage != 20 || rec.QuestionsAnswered != 1 {
		t.Errorf("totals not merged: %+v", rec)
	}
	if rec.CurrentQuestionIndex != 0 || rec.CurrentPageID != 4 {
		t.Errorf("Settle moved the resume pointer: %+v", rec)
	}

	// Advance, not Settle, owns the pointer.
	res := Advance(s, store)
	if res.Outcome != OutcomeNextQuestion {
		t.Fatalf("outcome = %v, want next question", res.Outcome)
	}
	rec = store.Load()
	if rec.CurrentQuestionIndex != 1 {
		t.Errorf("Advance did not move pointer: %+v", rec)
	}
}

func TestInFlightGuardBlocksDuplicates(t *testing.T) {
	_ = testStore(t)
	s := NewState(testPage(nil, sliderQ(1), sliderQ(2)), "sess-1", 0)

	Commit(s, question.SliderAnswer(3))
	if !BeginSubmit(s) {
		t.Fatal("first BeginSubmit refused")
	}

	// Rapid repeated input while the POST is in flight.
	for range 5 {
		Commit(s, question.SliderAnswer(5))
		if BeginSubmit(s) {
			t.Fatal("duplicate submission allowed while in flight")
		}
	}
}

func TestRejectStaysViewableWithoutAnswer(t *testing.T) {
	st := NewState(testPage(nil, essayQ(1)), "sess-1", 0)

	Reject(st, "essay needs at least 3 characters, got 0")

	if st.Phase != PhaseViewing {
		t.Fatalf("phase = %v, want viewing", st.Phase)
	}
	if st.Answer != nil {
		t.Error("rejected commit must not leave an answer behind")
	}
	if st.SubmitErr == "" {
		t.Error("expected inline error")
	}
	if BeginSubmit(st) {
		t.Error("submission must not start without a committed answer")
	}

	// A later valid commit proceeds normally.
	Commit(st, question.EssayAnswer("plenty of detail"))
	if st.SubmitErr != "" {
		t.Error("commit should clear the inline error")
	}
	if !BeginSubmit(st) {
		t.Error("expected submission to start after a valid commit")
	}
}

func TestFailKeepsAnswerForManualRetry(t *testing.T) {
	s := NewState(testPage(nil, essayQ(1)), "sess-1", 0)

	Commit(s, question.EssayAnswer("my answer"))
	BeginSubmit(s)
	Fail(s, "Could not submit answer. Please try again.")

	if s.SubmitErr == "" {
		t.Error("failed submission must surface an inline error")
	}
	if s.Answer == nil {
		t.Error("failed submission dropped the committed answer")
	}
	if !BeginSubmit(s) {
		t.Error("retry after failure refused")
	}
}

func TestAdvanceAcrossPagesAndCompletion(t *testing.T) {
	store := testStore(t)
	seedRecord(t, store, 4, 0)

	next := 5
	s := NewState(testPage(&next, sliderQ(1)), "sess-1", 0)
	res := Advance(s, store)
	if res.Outcome != OutcomeNextPage || res.NextPageID != 5 {
		t.Errorf("result = %+v, want next page 5", res)
	}
	rec := store.Load()
	if rec.CurrentPageID != 5 || rec.CurrentQuestionIndex != 0 {
		t.Errorf("pointer after page advance = %+v", rec)
	}

	last := NewState(testPage(nil, sliderQ(9)), "sess-1", 0)
	if res := Advance(last, store); res.Outcome != OutcomeComplete {
		t.Errorf("outcome = %v, want complete", res.Outcome)
	}
}

func TestCommitReportsAutoAdvance(t *testing.T) {
	s := NewState(testPage(nil, sliderQ(1), essayQ(2)), "sess-1", 0)
	if !Commit(s, question.SliderAnswer(2)) {
		t.Error("slider should auto-advance")
	}

	s.Index = 1
	s.Phase = PhaseViewing
	if Commit(s, question.EssayAnswer("text")) {
		t.Error("essay should wait for explicit Next")
	}
}
