package router

import (
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/carhythm/carhythm/internal/screen"
)

type fakeScreen struct {
	title    string
	initRan  bool
	received []tea.Msg
}

func (s *fakeScreen) Init() tea.Cmd {
	s.initRan = true
	return nil
}

func (s *fakeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	s.received = append(s.received, msg)
	return s, nil
}

func (s *fakeScreen) View(int, int) string { return s.title }
func (s *fakeScreen) Title() string        { return s.title }

func requireActive(t *testing.T, r *Router, title string) {
	t.Helper()
	if got := r.Active().Title(); got != title {
		t.Fatalf("active screen = %q, want %q", got, title)
	}
}

func TestPushInitsAndActivates(t *testing.T) {
	r := New(&fakeScreen{title: "welcome"})

	q := &fakeScreen{title: "question"}
	r.Push(q)

	if r.Depth() != 2 {
		t.Errorf("depth = %d, want 2", r.Depth())
	}
	requireActive(t, r, "question")
	if !q.initRan {
		t.Error("pushed screen should be initialized")
	}
}

func TestPopRestoresPrevious(t *testing.T) {
	r := New(&fakeScreen{title: "home"})
	r.Push(&fakeScreen{title: "feedback"})
	r.Pop()

	if r.Depth() != 1 {
		t.Errorf("depth = %d, want 1", r.Depth())
	}
	requireActive(t, r, "home")
}

func TestPopKeepsBottomScreen(t *testing.T) {
	r := New(&fakeScreen{title: "home"})
	r.Pop()

	if r.Depth() != 1 {
		t.Error("popping the last screen should be a no-op")
	}
	requireActive(t, r, "home")
}

func TestReplaceSwapsInPlace(t *testing.T) {
	r := New(&fakeScreen{title: "welcome"})
	r.Push(&fakeScreen{title: "question"})

	res := &fakeScreen{title: "results"}
	r.Replace(res)

	// The replaced screen must not be reachable by popping back.
	if r.Depth() != 2 {
		t.Errorf("depth = %d, want 2", r.Depth())
	}
	requireActive(t, r, "results")
	if !res.initRan {
		t.Error("replacement screen should be initialized")
	}

	r.Pop()
	requireActive(t, r, "welcome")
}

func TestUpdateHandlesNavigationMessages(t *testing.T) {
	r := New(&fakeScreen{title: "welcome"})

	r.Update(PushScreenMsg{Screen: &fakeScreen{title: "question"}})
	requireActive(t, r, "question")

	r.Update(ReplaceScreenMsg{Screen: &fakeScreen{title: "results"}})
	requireActive(t, r, "results")

	r.Update(PopScreenMsg{})
	requireActive(t, r, "welcome")
}

func TestUpdateForwardsToActiveScreenOnly(t *testing.T) {
	bottom := &fakeScreen{title: "welcome"}
	top := &fakeScreen{title: "question"}
	r := New(bottom)
	r.Push(top)

	r.Update(tea.KeyPressMsg{Code: tea.KeyEnter})

	if len(top.received) != 1 {
		t.Errorf("active screen received %d messages, want 1", len(top.received))
	}
	if len(bottom.received) != 0 {
		t.Errorf("inactive screen received %d messages, want 0", len(bottom.received))
	}
}
