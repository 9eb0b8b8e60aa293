package contact

import (
	"context"
	"errors"
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

// Backend is the slice of the API client the contact screen uses.
type Backend interface {
	SubmitStudentInfo(ctx context.Context, info api.StudentInfo) error
}

// submittedMsg is sent when the student info POST has finished. This is
// the long call: the server generates the report before responding.
type submittedMsg struct {
	Err error
}

// ageGroups mirrors the options the assessment offers.
var ageGroups = []string{"Under 16", "16-18", "19-24", "25-34", "35+"}

// field indexes into the form inputs.
const (
	fieldEmail = iota
	fieldName
	fieldCountry
	fieldOrigin
	fieldCount
)

// ContactScreen collects the student's contact details before the
// results are generated. Server-side validation errors are shown
// verbatim next to the form.
type ContactScreen struct {
	backend  Backend
	progress *progress.Store
	next     func() screen.Screen

	inputs   [fieldCount]components.TextInput
	ageGroup components.MultiChoice
	ageDone  bool
	focus    int
	sending  bool
	errMsg   string
}

var _ screen.Screen = (*ContactScreen)(nil)
var _ screen.KeyHintProvider = (*ContactScreen)(nil)

// New creates a ContactScreen; next produces the results screen.
func New(backend Backend, progressStore *progress.Store, next func() screen.Screen) *ContactScreen {
	c := &ContactScreen{
		backend:  backend,
		progress: progressStore,
		next:     next,
		ageGroup: components.NewMultiChoice(ageGroups, false),
	}
	c.inputs[fieldEmail] = components.NewTextInput("you@example.com", 120)
	c.inputs[fieldName] = components.NewTextInput("Full name", 120)
	c.inputs[fieldCountry] = components.NewTextInput("Country you live in", 60)
	c.inputs[fieldOrigin] = components.NewTextInput("Country you are from", 60)
	return c
}

func (c *ContactScreen) Init() tea.Cmd {
	return c.inputs[fieldEmail].Init()
}

func (c *ContactScreen) Title() string {
	return "Your Details"
}

func (c *ContactScreen) KeyHints() []layout.KeyHint {
	if c.sending {
		return nil
	}
	return []layout.KeyHint{
		{Key: "Tab", Description: "Next field"},
		{Key: "Enter", Description: "Submit"},
	}
}

func (c *ContactScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case submittedMsg:
		c.sending = false
		if msg.Err != nil {
			c.errMsg = friendlyError(msg.Err)
			return c, nil
		}
		nextScreen := c.next()
		return c, func() tea.Msg {
			return router.ReplaceScreenMsg{Screen: nextScreen}
		}

	case tea.KeyMsg:
		if c.sending {
			return c, nil
		}
		switch msg.String() {
		case "tab", "down":
			return c, c.focusNext()
		case "shift+tab", "up":
			if !c.ageDone {
				// The age selector handles its own up/down keys.
				break
			}
			return c, c.focusPrev()
		case "enter":
			if !c.ageDone {
				break
			}
			if c.focus == fieldCount-1 {
				return c.submitForm()
			}
			return c, c.focusNext()
		}
	}

	if !c.ageDone {
		var cmd tea.Cmd
		c.ageGroup, cmd = c.ageGroup.Update(msg)
		if c.ageGroup.Committed {
			c.ageDone = true
			return c, c.inputs[c.focus].Init()
		}
		return c, cmd
	}

	var cmd tea.Cmd
	c.inputs[c.focus], cmd = c.inputs[c.focus].Update(msg)
	return c, cmd
}

func (c *ContactScreen) focusNext() tea.Cmd {
	if c.focus < fieldCount-1 {
		c.focus++
	}
	return c.inputs[c.focus].Init()
}

func (c *ContactScreen) focusPrev() tea.Cmd {
	if c.focus > 0 {
		c.focus--
	}
	return c.inputs[c.focus].Init()
}

// submitForm runs the local presence checks, then posts. Field-level
// validation beyond presence belongs to the server.
func (c *ContactScreen) submitForm() (screen.Screen, tea.Cmd) {
	email := strings.TrimSpace(c.inputs[fieldEmail].Value())
	name := strings.TrimSpace(c.inputs[fieldName].Value())
	if email == "" || name == "" {
		c.errMsg = "Email and full name are required."
		return c, nil
	}

	age := ""
	if sel := c.ageGroup.Selected(); len(sel) > 0 {
		age = ageGroups[sel[0]]
	}

	info := api.StudentInfo{
		SessionID:     c.progress.SessionID(),
		Email:         email,
		FullName:      name,
		AgeGroup:      age,
		Country:       strings.TrimSpace(c.inputs[fieldCountry].Value()),
		OriginCountry: strings.TrimSpace(c.inputs[fieldOrigin].Value()),
	}

	c.sending = true
	c.errMsg = ""
	return c, func() tea.Msg {
		return submittedMsg{Err: c.backend.SubmitStudentInfo(context.Background(), info)}
	}
}

func (c *ContactScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	var sections []string

	sections = append(sections, lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true).
		Render("Where should we send your results?"))

	if !c.ageDone {
		sections = append(sections, lipgloss.NewStyle().
			Foreground(theme.Text).
			Render("First — which age group are you in?"))
		sections = append(sections, c.ageGroup.View())
	} else {
		labels := [fieldCount]string{"Email", "Full name", "Country", "Origin country"}
		var form []string
		for i := 0; i < fieldCount; i++ {
			label := lipgloss.NewStyle().Foreground(theme.TextDim).Render(labels[i] + ":")
			if i == c.focus {
				label = lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render(labels[i] + ":")
			}
			form = append(form, label+"\n"+c.inputs[i].View())
		}
		sections = append(sections, strings.Join(form, "\n\n"))
	}

	if c.sending {
		sections = append(sections, theme.Hint.Render(
			"Generating your report — this can take up to a minute..."))
	}

	if c.errMsg != "" {
		sections = append(sections, lipgloss.NewStyle().
			Width(cw).
			Foreground(theme.Error).
			Render(c.errMsg))
	}

	content := strings.Join(sections, "\n\n")
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}

// friendlyError passes server validation detail through verbatim.
func friendlyError(err error) string {
	var apiErr *api.APIError
	if errors.As(err, &apiErr) && apiErr.Detail != "" {
		return apiErr.Detail
	}
	var unreachable *api.ErrUnreachable
	if errors.As(err, &unreachable) {
		return "Cannot reach the server. Check your connection and press Enter to try again."
	}
	return err.Error()
}

var _ Backend = (*api.Client)(nil)
