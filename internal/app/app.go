package app

import (
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/carhythm/carhythm/internal/api"
	"github.com/carhythm/carhythm/internal/progress"
	"github.com/carhythm/carhythm/internal/router"
	"github.com/carhythm/carhythm/internal/screen"
	"github.com/carhythm/carhythm/internal/screens/contact"
	"github.com/carhythm/carhythm/internal/screens/feedback"
	"github.com/carhythm/carhythm/internal/screens/home"
	"github.com/carhythm/carhythm/internal/screens/question"
	"github.com/carhythm/carhythm/internal/screens/results"
	"github.com/carhythm/carhythm/internal/screens/welcome"
	"github.com/carhythm/carhythm/internal/store"
	"github.com/carhythm/carhythm/internal/ui/layout"
)

// Deps carries the shared services the screen flow runs on. Events may
// be nil when the local mirror could not be opened; everything else is
// required.
type Deps struct {
	Client   *api.Client
	Progress *progress.Store
	Events   store.EventRepo
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	deps   Deps
	router *router.Router
	width  int
	height int
}

// newAppModel wires the screen flow: welcome → (home →) question pages
// → feedback → contact → results.
func newAppModel(d Deps) AppModel {
	resultsFactory := func() screen.Screen {
		return results.New(d.Client, d.Progress)
	}
	contactFactory := func() screen.Screen {
		return contact.New(d.Client, d.Progress, resultsFactory)
	}
	feedbackFactory := func() screen.Screen {
		return feedback.New(d.Client, d.Progress, contactFactory)
	}
	questionFor := func(pageID int, resume bool) screen.Screen {
		return question.New(d.Client, d.Progress, d.Events, pageID, resume, feedbackFactory)
	}
	homeFactory := func() screen.Screen {
		return home.New(d.Client, d.Progress, d.Events, func(pageID int) screen.Screen {
			return questionFor(pageID, false)
		})
	}

	welcomeScreen := welcome.New(d.Progress, d.Client, func(resume bool) screen.Screen {
		if resume {
			if rec := d.Progress.Load(); rec != nil {
				d.Client.SetSessionID(rec.SessionID)
				return questionFor(rec.CurrentPageID, true)
			}
		}
		return homeFactory()
	})

	return AppModel{
		deps:   d,
		router: router.New(welcomeScreen),
	}
}

func (m AppModel) Init() tea.Cmd {
	active := m.router.Active()
	if active == nil {
		return nil
	}
	return active.Init()
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	var totalXP int
	var percent float64
	if s := m.deps.Progress.Summary(); s != nil {
		totalXP = s.TotalXP
		percent = s.Percentage
	}

	header := layout.RenderHeader(title, totalXP, percent, m.width)

	footerHints := []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
	if provider, ok := active.(screen.KeyHintProvider); ok {
		if hints := provider.KeyHints(); len(hints) > 0 {
			footerHints = append(hints, layout.KeyHint{Key: "Ctrl+C", Description: "Quit"})
		}
	}

	footer := layout.RenderFooter(footerHints, m.width)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := m.height - headerHeight - footerHeight
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.router.View(m.width, contentHeight)
	frame := layout.RenderFrame(header, content, footer, m.width, m.height)

	v.SetContent(frame)
	return v
}

// Run starts the Bubble Tea program.
func Run(d Deps) error {
	p := tea.NewProgram(newAppModel(d))
	_, err := p.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
