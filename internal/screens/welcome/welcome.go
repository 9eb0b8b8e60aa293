package welcome

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/carhythm/carhythm/internal/api"
	"github.com/carhythm/carhythm/internal/progress"
	"github.com/carhythm/carhythm/internal/router"
	"github.com/carhythm/carhythm/internal/screen"
	"github.com/carhythm/carhythm/internal/ui/components"
	"github.com/carhythm/carhythm/internal/ui/layout"
	"github.com/carhythm/carhythm/internal/ui/theme"
)

// SessionAbandoner abandons a server-side session.
type SessionAbandoner interface {
	AbandonSession(ctx context.Context, sessionID string) error
}

// abandonDoneMsg is sent when the start-fresh abandon call has finished.
type abandonDoneMsg struct {
	Err error
}

// WelcomeScreen greets the student and, when stored progress exists,
// offers to continue the saved run or start over.
type WelcomeScreen struct {
	store    *progress.Store
	client   SessionAbandoner
	next     func(resume bool) screen.Screen
	summary  *progress.Summary
	menu     components.Menu
	confirm  bool
	clearing bool
}

var _ screen.Screen = (*WelcomeScreen)(nil)
var _ screen.KeyHintProvider = (*WelcomeScreen)(nil)

// New creates a WelcomeScreen. next produces the screen to transition
// to; resume reports whether the student chose to continue a saved run.
func New(store *progress.Store, client SessionAbandoner, next func(resume bool) screen.Screen) *WelcomeScreen {
	w := &WelcomeScreen{
		store:  store,
		client: client,
		next:   next,
	}

	if store.IsValid() {
		w.summary = store.Summary()
	}
	w.menu = components.NewMenu(w.menuItems())
	return w
}

func (w *WelcomeScreen) menuItems() []components.MenuItem {
	if w.summary != nil {
		return []components.MenuItem{
			{Label: "CONTINUE", Action: func() tea.Cmd {
				return w.transition(true)
			}},
			{Label: "START FRESH", Action: func() tea.Cmd {
				w.confirm = true
				return nil
			}},
			{Label: "QUIT", Action: func() tea.Cmd { return tea.Quit }},
		}
	}
	return []components.MenuItem{
		{Label: "BEGIN", Action: func() tea.Cmd {
			return w.transition(false)
		}},
		{Label: "QUIT", Action: func() tea.Cmd { return tea.Quit }},
	}
}

func (w *WelcomeScreen) Title() string {
	return ""
}

func (w *WelcomeScreen) Init() tea.Cmd {
	return nil
}

func (w *WelcomeScreen) KeyHints() []layout.KeyHint {
	if w.confirm {
		return []layout.KeyHint{
			{Key: "Y", Description: "Start over"},
			{Key: "N", Description: "Keep saved progress"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (w *WelcomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case abandonDoneMsg:
		// The server session may already be gone; either way the local
		// copies are cleared and the run starts over.
		w.clearing = false
		w.store.Clear()
		w.summary = nil
		return w, w.transition(false)

	case tea.KeyMsg:
		if w.clearing {
			return w, nil
		}
		if w.confirm {
			switch msg.String() {
			case "y", "Y":
				w.confirm = false
				return w, w.startFresh()
			case "n", "N", "esc":
				w.confirm = false
				return w, nil
			}
			return w, nil
		}
	}

	var cmd tea.Cmd
	w.menu, cmd = w.menu.Update(msg)
	return w, cmd
}

// startFresh abandons the stored server session before clearing local state.
func (w *WelcomeScreen) startFresh() tea.Cmd {
	sessionID := w.store.SessionID()
	w.clearing = true
	return func() tea.Msg {
		var err error
		if sessionID != "" && w.client != nil {
			err = w.client.AbandonSession(context.Background(), sessionID)
		}
		return abandonDoneMsg{Err: err}
	}
}

func (w *WelcomeScreen) transition(resume bool) tea.Cmd {
	nextScreen := w.next(resume)
	return func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: nextScreen}
	}
}

func (w *WelcomeScreen) View(width, height int) string {
	var sections []string

	sections = append(sections, RenderBanner(width))
	sections = append(sections, "")
	sections = append(sections, lipgloss.NewStyle().
		Foreground(theme.Text).
		Bold(true).
		Render("Discover your career rhythm"))
	sections = append(sections, "")

	if w.confirm {
		sections = append(sections, w.renderConfirm())
	} else {
		if w.summary != nil {
			sections = append(sections, w.renderSummaryCard(width))
			sections = append(sections, "")
		}
		if w.clearing {
			sections = append(sections, theme.Hint.Render("Clearing saved progress..."))
		} else {
			sections = append(sections, w.menu.View())
		}
	}

	content := strings.Join(sections, "\n")
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}

func (w *WelcomeScreen) renderSummaryCard(width int) string {
	s := w.summary
	cw := components.ContentWidth(width)
	lines := []string{
		lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).Render("Saved progress found"),
		"",
		components.NewProgressBar("", s.Percentage/100, true, cw-8).View(),
		"",
		fmt.Sprintf("%s  ·  %s",
			lipgloss.NewStyle().Foreground(theme.Accent).Render(fmt.Sprintf("✦ %d XP", s.TotalXP)),
			lipgloss.NewStyle().Foreground(theme.Text).Render(fmt.Sprintf("%d answered", s.QuestionsAnswered)),
		),
	}
	if !s.LastActivity.IsZero() {
		lines = append(lines, lipgloss.NewStyle().
			Foreground(theme.TextDim).
			Render("Last activity: "+s.LastActivity.Local().Format("Jan 2, 2006 15:04")))
	}
	return components.PanelCard(strings.Join(lines, "\n"), cw)
}

func (w *WelcomeScreen) renderConfirm() string {
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().
		Foreground(theme.Text).
		Bold(true).
		Render("Start over from the beginning?"))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Render("Your saved answers and progress will be discarded."))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.NewStyle().
		Foreground(theme.Error).
		Render("[Y] Yes, start fresh"))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().
		Foreground(theme.Primary).
		Render("[N] No, keep my progress"))
	return b.String()
}

var _ SessionAbandoner = (*api.Client)(nil)
