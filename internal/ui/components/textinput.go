package components

import (
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"

	"github.com/carhythm/carhythm/internal/ui/theme"
)

// TextInput wraps bubbles/textinput with CaRhythm styling. Presence and
// format checks live with the form that owns the input; the widget only
// enforces the length cap.
type TextInput struct {
	Model  textinput.Model
	MaxLen int
}

// NewTextInput creates a styled single-line input capped at maxLen runes.
func NewTextInput(placeholder string, maxLen int) TextInput {
	ti := textinput.New()
	ti.Placeholder = placeholder
	if maxLen > 0 {
		ti.CharLimit = maxLen
	}

	return TextInput{Model: ti, MaxLen: maxLen}
}

// Init focuses the input and returns the cursor command.
func (t TextInput) Init() tea.Cmd {
	return t.Model.Focus()
}

// Update forwards messages to the underlying model.
func (t TextInput) Update(msg tea.Msg) (TextInput, tea.Cmd) {
	var cmd tea.Cmd
	t.Model, cmd = t.Model.Update(msg)
	return t, cmd
}

// View renders the input.
func (t TextInput) View() string {
	return theme.Unselected.Render(t.Model.View())
}

// Value returns the current input value.
func (t TextInput) Value() string {
	return t.Model.Value()
}
