package components

import (
	"fmt"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
)

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

func TestLikertNumberKeyCommits(t *testing.T) {
	l := NewLikert(1, 5, nil)
	l, _ = l.Update(keyPress('4'))

	if !l.Committed {
		t.Fatal("expected commit after number key")
	}
	if l.Value() != 4 {
		t.Errorf("value = %d, want 4", l.Value())
	}
}

func TestLikertArrowsStayInBounds(t *testing.T) {
	l := NewLikert(1, 5, nil)

	l, _ = l.Update(specialKey(tea.KeyLeft))
	if l.Value() != 1 {
		t.Errorf("value after left at min = %d, want 1", l.Value())
	}

	for i := 0; i < 10; i++ {
		l, _ = l.Update(specialKey(tea.KeyRight))
	}
	if l.Value() != 5 {
		t.Errorf("value after right past max = %d, want 5", l.Value())
	}
	if l.Committed {
		t.Error("arrows alone should not commit")
	}

	l, _ = l.Update(specialKey(tea.KeyEnter))
	if !l.Committed {
		t.Error("enter should commit")
	}
}

func TestLikertIgnoresInputAfterCommit(t *testing.T) {
	l := NewLikert(1, 5, nil)
	l, _ = l.Update(keyPress('3'))
	l, _ = l.Update(keyPress('5'))

	if l.Value() != 3 {
		t.Errorf("value = %d, want 3 (input after commit ignored)", l.Value())
	}
}

func TestMultiChoiceSingleCommitsOnEnter(t *testing.T) {
	m := NewMultiChoice([]string{"Art", "Science", "Trade"}, false)
	m, _ = m.Update(specialKey(tea.KeyDown))
	m, _ = m.Update(specialKey(tea.KeyEnter))

	if !m.Committed {
		t.Fatal("expected commit")
	}
	sel := m.Selected()
	if len(sel) != 1 || sel[0] != 1 {
		t.Errorf("selected = %v, want [1]", sel)
	}
}

func TestMultiChoiceLetterShortcutCommitsSingle(t *testing.T) {
	m := NewMultiChoice([]string{"Art", "Science", "Trade"}, false)
	m, _ = m.Update(keyPress('c'))

	if !m.Committed {
		t.Fatal("expected commit from letter shortcut")
	}
	sel := m.Selected()
	if len(sel) != 1 || sel[0] != 2 {
		t.Errorf("selected = %v, want [2]", sel)
	}
}

func TestMultiChoiceMultiTogglesWithSpace(t *testing.T) {
	m := NewMultiChoice([]string{"Art", "Science", "Trade"}, true)
	m, _ = m.Update(keyPress(' '))
	m, _ = m.Update(specialKey(tea.KeyDown))
	m, _ = m.Update(keyPress(' '))

	if m.Committed {
		t.Fatal("space should not commit in multi mode")
	}
	sel := m.Selected()
	if len(sel) != 2 || sel[0] != 0 || sel[1] != 1 {
		t.Errorf("selected = %v, want [0 1]", sel)
	}

	// Toggle off.
	m, _ = m.Update(keyPress(' '))
	sel = m.Selected()
	if len(sel) != 1 || sel[0] != 0 {
		t.Errorf("selected after toggle off = %v, want [0]", sel)
	}
}

func TestMultiChoiceMultiRejectsEmptyCommit(t *testing.T) {
	m := NewMultiChoice([]string{"Art", "Science"}, true)
	m, _ = m.Update(specialKey(tea.KeyEnter))

	if m.Committed {
		t.Fatal("enter with no selections should not commit")
	}

	m, _ = m.Update(keyPress(' '))
	m, _ = m.Update(specialKey(tea.KeyEnter))
	if !m.Committed {
		t.Fatal("enter with a selection should commit")
	}
}

func TestMultiChoiceLabelsBeyondEight(t *testing.T) {
	opts := make([]string, 30)
	for i := range opts {
		opts[i] = fmt.Sprintf("Career path %d", i+1)
	}
	view := NewMultiChoice(opts, false).View()

	if !strings.Contains(view, "I)") {
		t.Error("expected ninth option labeled I")
	}
	if !strings.Contains(view, "Z)") {
		t.Error("expected twenty-sixth option labeled Z")
	}
	// Past Z the labels fall back to numbers.
	if !strings.Contains(view, "27)") {
		t.Error("expected numeric label for option 27")
	}
}

func TestOrderingMovesItems(t *testing.T) {
	items := []OrderingItem{
		{ID: "a", Label: "Alpha"},
		{ID: "b", Label: "Beta"},
		{ID: "c", Label: "Gamma"},
	}
	o := NewOrdering(items)

	// Move first item down one slot.
	o, _ = o.Update(keyPress('J'))
	got := o.OrderedIDs()
	want := []string{"b", "a", "c"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
	if !o.Reordered() {
		t.Error("expected Reordered after a move")
	}

	o, _ = o.Update(specialKey(tea.KeyEnter))
	if !o.Committed {
		t.Error("enter should commit the permutation")
	}
}

func TestOrderingCursorStaysWithMovedItem(t *testing.T) {
	items := []OrderingItem{
		{ID: "a", Label: "Alpha"},
		{ID: "b", Label: "Beta"},
	}
	o := NewOrdering(items)
	o, _ = o.Update(keyPress('J'))

	if o.Cursor != 1 {
		t.Errorf("cursor = %d, want 1 (follows moved item)", o.Cursor)
	}
}

func TestEssayGaugeAndBounds(t *testing.T) {
	e := NewEssay("Tell us more...", 10, 100)
	if e.WithinBounds() {
		t.Error("empty essay should be below the minimum")
	}

	view := e.View()
	if !strings.Contains(view, "0 / 100") {
		t.Errorf("gauge missing from view: %q", view)
	}
	if !strings.Contains(view, "at least 10") {
		t.Errorf("minimum hint missing from view: %q", view)
	}
}

func TestEssayCommitRequiresBounds(t *testing.T) {
	e := NewEssay("", 10, 100)
	e, _ = e.Update(tea.KeyPressMsg{Code: 'd', Mod: tea.ModCtrl})
	if e.Committed {
		t.Fatal("ctrl+d below minimum should not commit")
	}
}

func TestEssayWhitespaceDoesNotMeetMinimum(t *testing.T) {
	e := NewEssay("", 3, 100)
	e.Model.SetValue("      ")

	if e.WithinBounds() {
		t.Error("whitespace-only text should not satisfy the minimum")
	}
	e, _ = e.Update(tea.KeyPressMsg{Code: 'd', Mod: tea.ModCtrl})
	if e.Committed {
		t.Fatal("ctrl+d on whitespace-only text should not commit")
	}

	e.Model.SetValue("  abc  ")
	if !e.WithinBounds() {
		t.Error("padding around real text should still satisfy the minimum")
	}
}

func TestMenuWrapsAndSkipsDisabled(t *testing.T) {
	m := NewMenu([]MenuItem{
		{Label: "Continue", Disabled: true},
		{Label: "Start"},
		{Label: "Quit"},
	})
	if m.Selected != 1 {
		t.Fatalf("initial selection = %d, want 1 (first enabled)", m.Selected)
	}

	// Moving up from the first enabled item wraps past the disabled one.
	m, _ = m.Update(specialKey(tea.KeyUp))
	if m.Selected != 2 {
		t.Errorf("selection after up = %d, want 2", m.Selected)
	}

	m, _ = m.Update(keyPress('j'))
	if m.Selected != 1 {
		t.Errorf("selection after j = %d, want 1", m.Selected)
	}
}

func TestMenuEnterRunsAction(t *testing.T) {
	ran := false
	m := NewMenu([]MenuItem{
		{Label: "Go", Action: func() tea.Cmd {
			ran = true
			return nil
		}},
	})
	m.Update(specialKey(tea.KeyEnter))
	if !ran {
		t.Error("enter should invoke the selected item's action")
	}
}

func TestProgressBarClampsAndShowsPercent(t *testing.T) {
	view := NewProgressBar("", 0.4, true, 30).View()
	if !strings.Contains(view, "40%") {
		t.Errorf("percent missing from view: %q", view)
	}

	// Out-of-range values clamp instead of panicking on negative repeats.
	_ = NewProgressBar("", 1.7, false, 30).View()
	_ = NewProgressBar("", -0.3, false, 30).View()
}
