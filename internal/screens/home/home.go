package home

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
	"github.com/carhythm/carhythm/internal/store"
	"github.com/carhythm/carhythm/internal/ui/components"
	"github.com/carhythm/carhythm/internal/ui/theme"
)

// firstPageID is where a fresh run begins.
const firstPageID = 1

// Backend is the slice of the API the home screen uses.
type Backend interface {
	Modules(ctx context.Context) ([]api.Module, error)
	StartSession(ctx context.Context) (*api.StartSessionResponse, error)
}

// modulesMsg carries the module list fetched at init.
type modulesMsg struct {
	Modules []api.Module
	Err     error
}

// sessionStartedMsg carries the result of POST /session/start.
type sessionStartedMsg struct {
	Resp *api.StartSessionResponse
	Err  error
}

// HomeScreen lists the assessment modules and starts a fresh run.
type HomeScreen struct {
	backend  Backend
	progress *progress.Store
	events   store.EventRepo
	startRun func(pageID int) screen.Screen

	modules  []api.Module
	loadErr  string
	starting bool
	startErr string
	menu     components.Menu
}

var _ screen.Screen = (*HomeScreen)(nil)

// New creates a HomeScreen. startRun produces the question screen for
// the given page once a session exists.
func New(backend Backend, progressStore *progress.Store, events store.EventRepo, startRun func(pageID int) screen.Screen) *HomeScreen {
	h := &HomeScreen{
		backend:  backend,
		progress: progressStore,
		events:   events,
		startRun: startRun,
	}

	items := []components.MenuItem{
		{Label: "BEGIN ASSESSMENT", Action: func() tea.Cmd {
			return h.beginAssessment()
		}},
		{Label: "QUIT", Action: func() tea.Cmd { return tea.Quit }},
	}
	h.menu = components.NewMenu(items)
	return h
}

func (h *HomeScreen) Init() tea.Cmd {
	return h.fetchModules()
}

func (h *HomeScreen) Title() string {
	return "Home"
}

func (h *HomeScreen) fetchModules() tea.Cmd {
	return func() tea.Msg {
		mods, err := h.backend.Modules(context.Background())
		return modulesMsg{Modules: mods, Err: err}
	}
}

// beginAssessment starts a server session and seeds the progress record.
func (h *HomeScreen) beginAssessment() tea.Cmd {
	if h.starting {
		return nil
	}
	h.starting = true
	h.startErr = ""
	return func() tea.Msg {
		resp, err := h.backend.StartSession(context.Background())
		return sessionStartedMsg{Resp: resp, Err: err}
	}
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case modulesMsg:
		if msg.Err != nil {
			// The module list is informational; starting still works.
			h.loadErr = msg.Err.Error()
			return h, nil
		}
		h.modules = msg.Modules
		h.loadErr = ""
		return h, nil

	case sessionStartedMsg:
		h.starting = false
		if msg.Err != nil {
			h.startErr = msg.Err.Error()
			return h, nil
		}

		h.progress.Save(progress.Record{
			SessionID:            msg.Resp.SessionID,
			CurrentPageID:        firstPageID,
			CurrentQuestionIndex: 0,
		})
		if h.events != nil {
			_ = h.events.AppendSession(context.Background(), store.SessionEventData{
				SessionID: msg.Resp.SessionID,
				Action:    "start",
			})
		}

		next := h.startRun(firstPageID)
		return h, func() tea.Msg {
			return router.ReplaceScreenMsg{Screen: next}
		}
	}

	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	cw := components.ContentWidth(width)

	var sections []string
	sections = append(sections, lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true).
		Render("Your assessment journey"))

	if h.loadErr != "" {
		sections = append(sections, theme.Hint.Render("Module list unavailable: "+h.loadErr))
	} else if len(h.modules) == 0 {
		sections = append(sections, theme.Hint.Render("Loading modules..."))
	} else {
		sections = append(sections, h.renderModuleList(cw))
	}

	if h.starting {
		sections = append(sections, theme.Hint.Render("Starting your session..."))
	} else {
		sections = append(sections, h.menu.View())
	}

	if h.startErr != "" {
		sections = append(sections, lipgloss.NewStyle().
			Foreground(theme.Error).
			Render("Could not start: "+h.startErr))
	}

	content := strings.Join(sections, "\n\n")
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}

func (h *HomeScreen) renderModuleList(cw int) string {
	var lines []string
	totalQuestions, totalMinutes := 0, 0
	for _, m := range h.modules {
		label := m.Title
		if label == "" {
			label = m.Name
		}
		line := fmt.Sprintf("%s %-28s %3d questions  ~%d min",
			m.Emoji, label, m.TotalQuestions, m.EstimatedMinutes)
		lines = append(lines, lipgloss.NewStyle().Foreground(theme.Text).Render(line))
		totalQuestions += m.TotalQuestions
		totalMinutes += m.EstimatedMinutes
	}
	lines = append(lines, "")
	lines = append(lines, lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Render(fmt.Sprintf("%d modules · %d questions · about %d minutes",
			len(h.modules), totalQuestions, totalMinutes)))

	return components.PanelCard(strings.Join(lines, "\n"), cw)
}
