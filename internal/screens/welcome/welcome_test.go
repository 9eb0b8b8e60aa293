package welcome

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/carhythm/carhythm/internal/progress"
	"github.com/carhythm/carhythm/internal/router"
	"github.com/carhythm/carhythm/internal/screen"
)

// stubScreen is a minimal screen implementation for testing.
type stubScreen struct{ resumed bool }

func (s *stubScreen) Init() tea.Cmd                           { return nil }
func (s *stubScreen) Update(tea.Msg) (screen.Screen, tea.Cmd) { return s, nil }
func (s *stubScreen) View(int, int) string                    { return "next" }
func (s *stubScreen) Title() string                           { return "Next" }

type stubAbandoner struct {
	calls []string
	err   error
}

func (a *stubAbandoner) AbandonSession(_ context.Context, sessionID string) error {
	a.calls = append(a.calls, sessionID)
	return a.err
}

func testStore(t *testing.T) *progress.Store {
	t.Helper()
	dir := t.TempDir()
	return progress.NewStore(
		progress.NewFileBackend(filepath.Join(dir, "progress.json")),
		progress.NewCookieBackend(filepath.Join(dir, "cookie")),
	)
}

func savedStore(t *testing.T) *progress.Store {
	t.Helper()
	st := testStore(t)
	if !st.Save(progress.Record{
		SessionID:            "sess-1",
		CurrentPageID:        2,
		CurrentQuestionIndex: 3,
		Percentage:           40,
		TotalXP:              120,
		QuestionsAnswered:    12,
	}) {
		t.Fatal("save failed")
	}
	return st
}

func newTestWelcome(st *progress.Store, ab SessionAbandoner) (*WelcomeScreen, *bool) {
	var resumed bool
	next := func(resume bool) screen.Screen {
		resumed = resume
		return &stubScreen{resumed: resume}
	}
	return New(st, ab, next), &resumed
}

func runCmd(t *testing.T, cmd tea.Cmd) tea.Msg {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected non-nil command")
	}
	return cmd()
}

func TestFreshStoreShowsBeginMenu(t *testing.T) {
	w, _ := newTestWelcome(testStore(t), &stubAbandoner{})

	view := w.View(100, 40)
	if !strings.Contains(view, "BEGIN") {
		t.Error("expected BEGIN item without saved progress")
	}
	if strings.Contains(view, "CONTINUE") {
		t.Error("did not expect CONTINUE without saved progress")
	}
}

func TestSavedProgressShowsResumePrompt(t *testing.T) {
	w, _ := newTestWelcome(savedStore(t), &stubAbandoner{})

	view := w.View(100, 40)
	if !strings.Contains(view, "CONTINUE") {
		t.Error("expected CONTINUE with saved progress")
	}
	if !strings.Contains(view, "40%") {
		t.Errorf("expected summary stats in view:\n%s", view)
	}
	if !strings.Contains(view, "120 XP") {
		t.Error("expected XP in summary card")
	}
}

func TestContinueTransitionsWithResume(t *testing.T) {
	w, resumed := newTestWelcome(savedStore(t), &stubAbandoner{})

	_, cmd := w.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	msg := runCmd(t, cmd)

	if _, ok := msg.(router.ReplaceScreenMsg); !ok {
		t.Fatalf("expected ReplaceScreenMsg, got %T", msg)
	}
	if !*resumed {
		t.Error("expected resume=true on continue")
	}
}

func TestStartFreshConfirmsThenAbandonsAndClears(t *testing.T) {
	st := savedStore(t)
	ab := &stubAbandoner{}
	w, resumed := newTestWelcome(st, ab)

	// Move to START FRESH and select it.
	w.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	_, cmd := w.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd != nil {
		t.Fatal("selecting start fresh should only open the confirm prompt")
	}
	if !strings.Contains(w.View(100, 40), "Start over") {
		t.Error("expected confirm prompt")
	}

	// Confirm.
	_, cmd = w.Update(tea.KeyPressMsg{Code: 'y', Text: "y"})
	msg := runCmd(t, cmd)
	if _, ok := msg.(abandonDoneMsg); !ok {
		t.Fatalf("expected abandonDoneMsg, got %T", msg)
	}
	if len(ab.calls) != 1 || ab.calls[0] != "sess-1" {
		t.Errorf("abandon calls = %v, want [sess-1]", ab.calls)
	}

	// Completing the abandon clears the store and moves on fresh.
	_, cmd = w.Update(msg)
	msg = runCmd(t, cmd)
	if _, ok := msg.(router.ReplaceScreenMsg); !ok {
		t.Fatalf("expected ReplaceScreenMsg, got %T", msg)
	}
	if *resumed {
		t.Error("expected resume=false after start fresh")
	}
	if st.IsValid() {
		t.Error("expected store cleared after start fresh")
	}
}

func TestStartFreshProceedsWhenAbandonFails(t *testing.T) {
	st := savedStore(t)
	ab := &stubAbandoner{err: errors.New("connection refused")}
	w, resumed := newTestWelcome(st, ab)

	w.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	w.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	_, cmd := w.Update(tea.KeyPressMsg{Code: 'y', Text: "y"})
	msg := runCmd(t, cmd)

	// A dead backend must not pin the client to the stale session.
	_, cmd = w.Update(msg)
	if _, ok := runCmd(t, cmd).(router.ReplaceScreenMsg); !ok {
		t.Fatal("expected transition despite the abandon failure")
	}
	if *resumed {
		t.Error("expected resume=false after start fresh")
	}
	if st.IsValid() {
		t.Error("expected local progress cleared despite the abandon failure")
	}
}

func TestStartFreshDeclinedKeepsProgress(t *testing.T) {
	st := savedStore(t)
	w, _ := newTestWelcome(st, &stubAbandoner{})

	w.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	w.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	w.Update(tea.KeyPressMsg{Code: 'n', Text: "n"})

	if !st.IsValid() {
		t.Error("declining the confirm should keep saved progress")
	}
	if !strings.Contains(w.View(100, 40), "CONTINUE") {
		t.Error("expected to return to the resume menu")
	}
}
