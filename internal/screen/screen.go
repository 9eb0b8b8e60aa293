// Package screen defines the contract every full-screen view in the
// client satisfies. Screens are value-ish models in the bubbletea
// style: Update returns the next screen rather than mutating in place.
package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/carhythm/carhythm/internal/ui/layout"
)

// Screen is one view on the navigation stack.
type Screen interface {
	// Init runs when the screen becomes active for the first time.
	Init() tea.Cmd

	// Update handles a message and returns the screen to keep showing.
	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the body only; the app chrome draws the header and
	// footer around it.
	View(width, height int) string

	// Title is shown in the header.
	Title() string
}

// KeyHintProvider lets a screen override the default footer hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}
