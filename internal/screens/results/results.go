package results

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/carhythm/carhythm/internal/api"
	"github.com/carhythm/carhythm/internal/progress"
	"github.com/carhythm/carhythm/internal/screen"
	"github.com/carhythm/carhythm/internal/ui/components"
	"github.com/carhythm/carhythm/internal/ui/layout"
	"github.com/carhythm/carhythm/internal/ui/theme"
)

// Backend is the slice of the API client the results screen uses.
type Backend interface {
	Scores(ctx context.Context, sessionID string) (*api.ScoresResponse, error)
}

// scoresMsg carries the fetched profile.
type scoresMsg struct {
	Resp *api.ScoresResponse
	Err  error
}

// ResultsScreen renders the scores profile. The profile content is
// computed server-side and treated as opaque: whatever sections the
// server sends are displayed, none are interpreted.
type ResultsScreen struct {
	backend  Backend
	progress *progress.Store

	resp    *api.ScoresResponse
	loadErr string
	scroll  int
	lines   []string
}

var _ screen.Screen = (*ResultsScreen)(nil)
var _ screen.KeyHintProvider = (*ResultsScreen)(nil)

// New creates a ResultsScreen.
func New(backend Backend, progressStore *progress.Store) *ResultsScreen {
	return &ResultsScreen{
		backend:  backend,
		progress: progressStore,
	}
}

func (r *ResultsScreen) Init() tea.Cmd {
	return r.fetch()
}

func (r *ResultsScreen) Title() string {
	return "Your Results"
}

func (r *ResultsScreen) KeyHints() []layout.KeyHint {
	if r.loadErr != "" {
		return []layout.KeyHint{
			{Key: "Enter", Description: "Retry"},
			{Key: "Q", Description: "Quit"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Scroll"},
		{Key: "Q", Description: "Quit"},
	}
}

func (r *ResultsScreen) fetch() tea.Cmd {
	sessionID := r.progress.SessionID()
	return func() tea.Msg {
		resp, err := r.backend.Scores(context.Background(), sessionID)
		return scoresMsg{Resp: resp, Err: err}
	}
}

func (r *ResultsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case scoresMsg:
		if msg.Err != nil {
			r.loadErr = msg.Err.Error()
			return r, nil
		}
		r.loadErr = ""
		r.resp = msg.Resp
		r.lines = renderProfile(msg.Resp.Profile)
		return r, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			if r.loadErr != "" {
				r.loadErr = ""
				return r, r.fetch()
			}
		case "up", "k":
			if r.scroll > 0 {
				r.scroll--
			}
		case "down", "j":
			if r.scroll < len(r.lines)-1 {
				r.scroll++
			}
		case "q", "Q":
			return r, tea.Quit
		}
	}
	return r, nil
}

func (r *ResultsScreen) View(width, height int) string {
	if r.loadErr != "" {
		return lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.Error).
			Render(fmt.Sprintf("\n\n\n  Could not load your results: %s\n\n  Press Enter to retry.", r.loadErr))
	}
	if r.resp == nil {
		return lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.TextDim).
			Render("\n\n\n  Computing your profile...")
	}

	cw := components.ContentWidth(width)
	header := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true).
		Render("Your career rhythm profile")

	sub := lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Render("A copy has been sent to your email.")

	visible := r.lines
	maxLines := height - 6
	if maxLines > 0 && r.scroll < len(visible) {
		end := r.scroll + maxLines
		if end > len(visible) {
			end = len(visible)
		}
		visible = visible[r.scroll:end]
	}

	body := components.PanelCard(strings.Join(visible, "\n"), cw)
	content := header + "\n" + sub + "\n\n" + body
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, content)
}

// renderProfile flattens the opaque profile JSON into display lines:
// section headers from top-level keys, key/value rows beneath them.
func renderProfile(profile json.RawMessage) []string {
	var sections map[string]json.RawMessage
	if err := json.Unmarshal(profile, &sections); err != nil {
		// Not an object: show the payload as-is.
		return []string{string(pretty(profile))}
	}

	keys := make([]string, 0, len(sections))
	for k := range sections {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var lines []string
	for _, k := range keys {
		lines = append(lines, lipgloss.NewStyle().
			Foreground(theme.Secondary).
			Bold(true).
			Render(titleCase(k)))
		lines = append(lines, sectionLines(sections[k])...)
		lines = append(lines, "")
	}
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}
	return lines
}

func sectionLines(raw json.RawMessage) []string {
	var obj map[string]any
	if err := json.Unmarshal(raw, &obj); err == nil {
		keys := make([]string, 0, len(obj))
		for k := range obj {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		lines := make([]string, 0, len(keys))
		for _, k := range keys {
			lines = append(lines, fmt.Sprintf("  %-24s %s", titleCase(k), formatValue(obj[k])))
		}
		return lines
	}

	var arr []any
	if err := json.Unmarshal(raw, &arr); err == nil {
		lines := make([]string, 0, len(arr))
		for _, v := range arr {
			lines = append(lines, "  · "+formatValue(v))
		}
		return lines
	}

	return []string{"  " + string(raw)}
}

func formatValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		if val == float64(int64(val)) {
			return fmt.Sprintf("%d", int64(val))
		}
		return fmt.Sprintf("%.2f", val)
	case bool:
		if val {
			return "yes"
		}
		return "no"
	case nil:
		return "-"
	default:
		b, _ := json.Marshal(val)
		return string(b)
	}
}

func titleCase(key string) string {
	words := strings.FieldsFunc(key, func(r rune) bool {
		return r == '_' || r == '-'
	})
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

func pretty(raw json.RawMessage) []byte {
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return raw
	}
	return buf.Bytes()
}

var _ Backend = (*api.Client)(nil)
