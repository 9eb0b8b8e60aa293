package components

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/carhythm/carhythm/internal/ui/theme"
)

// Likert is a discrete rating-scale selector. Pressing a number key or
// enter commits the highlighted value; the parent reads Committed to
// decide when the answer is final.
type Likert struct {
	Min       int
	Max       int
	Labels    map[int]string
	Selected  int
	Committed bool
}

// NewLikert creates a Likert scale over [min, max] with optional anchor labels.
func NewLikert(min, max int, labels map[int]string) Likert {
	if max <= min {
		min, max = 1, 5
	}
	return Likert{
		Min:      min,
		Max:      max,
		Labels:   labels,
		Selected: min,
	}
}

// Init returns nil.
func (l Likert) Init() tea.Cmd {
	return nil
}

// Update handles keyboard navigation and selection.
func (l Likert) Update(msg tea.Msg) (Likert, tea.Cmd) {
	if l.Committed {
		return l, nil
	}

	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return l, nil
	}

	key := kmsg.String()
	switch key {
	case "left", "h":
		if l.Selected > l.Min {
			l.Selected--
		}
	case "right", "l":
		if l.Selected < l.Max {
			l.Selected++
		}
	case "enter":
		l.Committed = true
	default:
		// Direct number selection commits immediately.
		if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
			n := l.Min + int(key[0]-'1')
			if n >= l.Min && n <= l.Max {
				l.Selected = n
				l.Committed = true
			}
		}
	}

	return l, nil
}

// Value returns the currently highlighted scale value.
func (l Likert) Value() int {
	return l.Selected
}

// View renders the scale with anchor labels beneath the endpoints.
func (l Likert) View() string {
	var cells []string
	for v := l.Min; v <= l.Max; v++ {
		cell := fmt.Sprintf(" %d ", v)
		switch {
		case l.Committed && v == l.Selected:
			cells = append(cells, theme.Answered.Render("["+cell+"]"))
		case v == l.Selected:
			cells = append(cells, theme.Selected.Render("["+cell+"]"))
		default:
			cells = append(cells, theme.Unselected.Render(" "+cell+" "))
		}
	}
	row := strings.Join(cells, " ")

	lowLabel := l.Labels[l.Min]
	highLabel := l.Labels[l.Max]
	if lowLabel == "" && highLabel == "" {
		return row
	}

	rowWidth := lipgloss.Width(row)
	gap := rowWidth - lipgloss.Width(lowLabel) - lipgloss.Width(highLabel)
	if gap < 1 {
		gap = 1
	}
	labels := lipgloss.NewStyle().Foreground(theme.TextDim).Render(
		lowLabel + strings.Repeat(" ", gap) + highLabel)

	return row + "\n" + labels
}
