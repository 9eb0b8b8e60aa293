package components

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"charm.land/bubbles/v2/textarea"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/carhythm/carhythm/internal/ui/theme"
)

// Essay is a free-text response area with a live character gauge against
// the allowed length bounds.
type Essay struct {
	Model     textarea.Model
	MinLen    int
	MaxLen    int
	Committed bool
}

// NewEssay creates an essay area bounded by [minLen, maxLen] characters.
func NewEssay(placeholder string, minLen, maxLen int) Essay {
	ta := textarea.New()
	ta.Placeholder = placeholder
	ta.CharLimit = maxLen
	ta.SetHeight(6)
	ta.Focus()

	return Essay{
		Model:  ta,
		MinLen: minLen,
		MaxLen: maxLen,
	}
}

// Init returns the textarea focus command.
func (e Essay) Init() tea.Cmd {
	return e.Model.Focus()
}

// Update forwards messages to the textarea. Ctrl+D commits when the
// text satisfies the length bounds; plain enter stays a newline.
func (e Essay) Update(msg tea.Msg) (Essay, tea.Cmd) {
	if e.Committed {
		return e, nil
	}

	if kmsg, ok := msg.(tea.KeyMsg); ok && kmsg.String() == "ctrl+d" {
		if e.WithinBounds() {
			e.Committed = true
		}
		return e, nil
	}

	var cmd tea.Cmd
	e.Model, cmd = e.Model.Update(msg)
	return e, cmd
}

// SetWidth resizes the textarea.
func (e *Essay) SetWidth(w int) {
	e.Model.SetWidth(w)
}

// Value returns the current text.
func (e Essay) Value() string {
	return e.Model.Value()
}

// Length returns the current text length in characters.
func (e Essay) Length() int {
	return utf8.RuneCountInString(e.Model.Value())
}

// WithinBounds reports whether the text satisfies the length bounds.
// Surrounding whitespace does not count toward the minimum, the same
// rule submission validation applies.
func (e Essay) WithinBounds() bool {
	n := utf8.RuneCountInString(strings.TrimSpace(e.Model.Value()))
	return n >= e.MinLen && n <= e.MaxLen
}

// View renders the textarea with the character gauge.
func (e Essay) View() string {
	gauge := fmt.Sprintf("%d / %d", e.Length(), e.MaxLen)
	if e.MinLen > 0 && e.Length() < e.MinLen {
		gauge += fmt.Sprintf("  (at least %d)", e.MinLen)
	}

	var gaugeStyle lipgloss.Style
	if e.WithinBounds() {
		gaugeStyle = lipgloss.NewStyle().Foreground(theme.Success)
	} else {
		gaugeStyle = lipgloss.NewStyle().Foreground(theme.TextDim)
	}

	view := e.Model.View() + "\n" + gaugeStyle.Render(gauge)
	if !e.Committed {
		view += lipgloss.NewStyle().Foreground(theme.TextDim).Render("   Ctrl+D to finish")
	}
	return view
}
