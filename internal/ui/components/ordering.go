package components

import (
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/carhythm/carhythm/internal/ui/theme"
)

// OrderingItem is one rankable entry.
type OrderingItem struct {
	ID    string
	Label string
}

// Ordering is a rankable list. Up/down moves the cursor, shift+up/down
// (or K/J) moves the item under the cursor, enter commits the permutation.
type Ordering struct {
	Items     []OrderingItem
	Cursor    int
	Committed bool
	moved     bool
}

// NewOrdering creates an Ordering over the given items in their initial order.
func NewOrdering(items []OrderingItem) Ordering {
	return Ordering{Items: items}
}

// Init returns nil.
func (o Ordering) Init() tea.Cmd {
	return nil
}

// Update handles cursor movement, item reordering, and commit.
func (o Ordering) Update(msg tea.Msg) (Ordering, tea.Cmd) {
	if o.Committed {
		return o, nil
	}

	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return o, nil
	}

	switch kmsg.String() {
	case "up", "k":
		if o.Cursor > 0 {
			o.Cursor--
		}
	case "down", "j":
		if o.Cursor < len(o.Items)-1 {
			o.Cursor++
		}
	case "shift+up", "K":
		if o.Cursor > 0 {
			o.Items[o.Cursor-1], o.Items[o.Cursor] = o.Items[o.Cursor], o.Items[o.Cursor-1]
			o.Cursor--
			o.moved = true
		}
	case "shift+down", "J":
		if o.Cursor < len(o.Items)-1 {
			o.Items[o.Cursor+1], o.Items[o.Cursor] = o.Items[o.Cursor], o.Items[o.Cursor+1]
			o.Cursor++
			o.moved = true
		}
	case "enter":
		o.Committed = true
	}

	return o, nil
}

// OrderedIDs returns the item ids in their current display order.
func (o Ordering) OrderedIDs() []string {
	ids := make([]string, len(o.Items))
	for i, item := range o.Items {
		ids[i] = item.ID
	}
	return ids
}

// Reordered reports whether the user has moved any item.
func (o Ordering) Reordered() bool {
	return o.moved
}

// View renders the ranked list with position numbers.
func (o Ordering) View() string {
	var s string
	for i, item := range o.Items {
		cursor := "  "
		if i == o.Cursor && !o.Committed {
			cursor = "▸ "
		}
		line := fmt.Sprintf("%s%d.  %s", cursor, i+1, item.Label)

		switch {
		case o.Committed:
			s += theme.Answered.Render(line) + "\n"
		case i == o.Cursor:
			s += theme.Selected.Render(line) + "\n"
		default:
			s += theme.Unselected.Render(line) + "\n"
		}
	}
	s += "\n" + lipgloss.NewStyle().Foreground(theme.TextDim).Render(
		"  Shift+↑/↓ moves the item, Enter confirms the order")
	return s
}
