package components

import (
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/carhythm/carhythm/internal/ui/theme"
)

// MenuItem is one entry in a vertical menu. Disabled items render but
// cannot be selected.
type MenuItem struct {
	Label    string
	Action   func() tea.Cmd
	Disabled bool
}

// Menu is a vertical navigation menu with wrap-around cursor movement.
type Menu struct {
	Items    []MenuItem
	Selected int
}

// NewMenu creates a menu with the cursor on the first enabled item.
func NewMenu(items []MenuItem) Menu {
	m := Menu{Items: items}
	m.Selected = m.next(-1, 1)
	return m
}

func (m Menu) Init() tea.Cmd {
	return nil
}

// next returns the index of the first enabled item reached by stepping
// from i in direction dir, wrapping at both ends. Falls back to 0 when
// every item is disabled.
func (m Menu) next(i, dir int) int {
	n := len(m.Items)
	if n == 0 {
		return 0
	}
	for step := 0; step < n; step++ {
		i = ((i+dir)%n + n) % n
		if !m.Items[i].Disabled {
			return i
		}
	}
	return 0
}

// Update handles keyboard navigation.
func (m Menu) Update(msg tea.Msg) (Menu, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch kmsg.String() {
	case "up", "k":
		m.Selected = m.next(m.Selected, -1)
	case "down", "j":
		m.Selected = m.next(m.Selected, 1)
	case "enter":
		if m.Selected >= 0 && m.Selected < len(m.Items) {
			item := m.Items[m.Selected]
			if item.Action != nil && !item.Disabled {
				return m, item.Action()
			}
		}
	}

	return m, nil
}

// View renders the menu.
func (m Menu) View() string {
	var b strings.Builder
	for i, item := range m.Items {
		if i == m.Selected {
			b.WriteString(theme.Selected.Render("  ▸ " + item.Label))
		} else {
			b.WriteString(theme.Unselected.Render("    " + item.Label))
		}
		b.WriteByte('\n')
	}
	return b.String()
}
