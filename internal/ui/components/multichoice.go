package components

import (
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/carhythm/carhythm/internal/ui/theme"
)

// choiceLabel letters options A..Z and falls back to numbers past that,
// so option lists of any length render.
func choiceLabel(i int) string {
	if i < 26 {
		return string(rune('A' + i))
	}
	return fmt.Sprintf("%d", i+1)
}

// MultiChoice is a choice selector supporting single- and multi-select
// modes. In single mode enter commits the highlighted option; in multi
// mode space toggles membership and enter commits the whole set.
type MultiChoice struct {
	Options   []string
	Multiple  bool
	Cursor    int
	Chosen    map[int]bool
	Committed bool
}

// NewMultiChoice creates a choice selector over the given options.
func NewMultiChoice(options []string, multiple bool) MultiChoice {
	return MultiChoice{
		Options:  options,
		Multiple: multiple,
		Chosen:   make(map[int]bool),
	}
}

// Init returns nil.
func (m MultiChoice) Init() tea.Cmd {
	return nil
}

// Update handles keyboard navigation, toggling, and commit.
func (m MultiChoice) Update(msg tea.Msg) (MultiChoice, tea.Cmd) {
	if m.Committed {
		return m, nil
	}

	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	key := kmsg.String()
	switch key {
	case "up", "k":
		if m.Cursor > 0 {
			m.Cursor--
		}
	case "down", "j":
		if m.Cursor < len(m.Options)-1 {
			m.Cursor++
		}
	case " ", "space":
		if m.Multiple {
			m.Chosen[m.Cursor] = !m.Chosen[m.Cursor]
		}
	case "enter":
		if m.Multiple {
			if len(m.Selected()) > 0 {
				m.Committed = true
			}
		} else {
			m.Chosen = map[int]bool{m.Cursor: true}
			m.Committed = true
		}
	default:
		// Letter shortcut jumps to that option; in single mode it commits.
		if len(key) == 1 {
			idx := letterIndex(key[0])
			if idx >= 0 && idx < len(m.Options) {
				m.Cursor = idx
				if m.Multiple {
					m.Chosen[idx] = !m.Chosen[idx]
				} else {
					m.Chosen = map[int]bool{idx: true}
					m.Committed = true
				}
			}
		}
	}

	return m, nil
}

func letterIndex(c byte) int {
	switch {
	case c >= 'a' && c <= 'h':
		return int(c - 'a')
	case c >= 'A' && c <= 'H':
		return int(c - 'A')
	}
	return -1
}

// Selected returns the chosen option indexes in display order.
func (m MultiChoice) Selected() []int {
	var idxs []int
	for i := range m.Options {
		if m.Chosen[i] {
			idxs = append(idxs, i)
		}
	}
	return idxs
}

// View renders the option list.
func (m MultiChoice) View() string {
	var s string
	for i, opt := range m.Options {
		cursor := "  "
		if i == m.Cursor && !m.Committed {
			cursor = "▸ "
		}

		mark := ""
		if m.Multiple {
			if m.Chosen[i] {
				mark = "[x] "
			} else {
				mark = "[ ] "
			}
		}

		line := fmt.Sprintf("%s%s%s)  %s", cursor, mark, choiceLabel(i), opt)

		switch {
		case m.Committed && m.Chosen[i]:
			s += theme.Answered.Render(line) + "\n"
		case m.Committed:
			s += lipgloss.NewStyle().Foreground(theme.TextDim).Render(line) + "\n"
		case i == m.Cursor:
			s += theme.Selected.Render(line) + "\n"
		case m.Chosen[i]:
			s += lipgloss.NewStyle().Foreground(theme.Secondary).Render(line) + "\n"
		default:
			s += theme.Unselected.Render(line) + "\n"
		}
	}
	return s
}
