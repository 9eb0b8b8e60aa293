package feedback

import (
	"context"
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

// Backend is the slice of the API client the feedback screen uses.
type Backend interface {
	SubmitFeedback(ctx context.Context, fb api.Feedback) error
}

// submittedMsg is sent when the feedback POST has finished.
type submittedMsg struct {
	Err error
}

// step is the position in the short feedback flow.
type step int

const (
	stepRating step = iota
	stepRecommend
	stepComments
	stepSending
)

// FeedbackScreen collects an experience rating and free-text comments.
// Feedback is best-effort: skipping or a failed submit never blocks the
// way to the contact form.
type FeedbackScreen struct {
	backend  Backend
	progress *progress.Store
	next     func() screen.Screen

	step      step
	rating    components.Likert
	recommend components.MultiChoice
	comments  components.Essay
}

var _ screen.Screen = (*FeedbackScreen)(nil)
var _ screen.KeyHintProvider = (*FeedbackScreen)(nil)

// New creates a FeedbackScreen; next produces the follow-up screen.
func New(backend Backend, progressStore *progress.Store, next func() screen.Screen) *FeedbackScreen {
	return &FeedbackScreen{
		backend:  backend,
		progress: progressStore,
		next:     next,
		rating: components.NewLikert(1, 5, map[int]string{
			1: "Not for me", 5: "Loved it",
		}),
		recommend: components.NewMultiChoice([]string{"Yes", "No"}, false),
		comments:  components.NewEssay("Anything we should improve?", 0, 500),
	}
}

func (f *FeedbackScreen) Init() tea.Cmd {
	return nil
}

func (f *FeedbackScreen) Title() string {
	return "Feedback"
}

func (f *FeedbackScreen) KeyHints() []layout.KeyHint {
	switch f.step {
	case stepComments:
		return []layout.KeyHint{
			{Key: "Ctrl+D", Description: "Send"},
			{Key: "Esc", Description: "Skip"},
		}
	case stepSending:
		return nil
	}
	return []layout.KeyHint{
		{Key: "Enter", Description: "Next"},
		{Key: "Esc", Description: "Skip feedback"},
	}
}

func (f *FeedbackScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case submittedMsg:
		// Either way we move on; feedback is not worth blocking results over.
		return f, f.transition()

	case tea.KeyMsg:
		if msg.String() == "esc" && f.step != stepSending {
			return f, f.transition()
		}
		return f.handleKey(msg)
	}

	if f.step == stepComments {
		var cmd tea.Cmd
		f.comments, cmd = f.comments.Update(msg)
		return f, cmd
	}
	return f, nil
}

func (f *FeedbackScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	switch f.step {
	case stepRating:
		var cmd tea.Cmd
		f.rating, cmd = f.rating.Update(msg)
		if f.rating.Committed {
			f.step = stepRecommend
		}
		return f, cmd

	case stepRecommend:
		var cmd tea.Cmd
		f.recommend, cmd = f.recommend.Update(msg)
		if f.recommend.Committed {
			f.step = stepComments
			return f, f.comments.Init()
		}
		return f, cmd

	case stepComments:
		var cmd tea.Cmd
		f.comments, cmd = f.comments.Update(msg)
		if f.comments.Committed {
			f.step = stepSending
			return f, f.submit()
		}
		return f, cmd
	}
	return f, nil
}

func (f *FeedbackScreen) submit() tea.Cmd {
	rating := f.rating.Value()
	recommend := len(f.recommend.Selected()) > 0 && f.recommend.Selected()[0] == 0
	fb := api.Feedback{
		SessionID:      f.progress.SessionID(),
		Rating:         &rating,
		WouldRecommend: &recommend,
		ExperienceText: f.comments.Value(),
	}
	return func() tea.Msg {
		return submittedMsg{Err: f.backend.SubmitFeedback(context.Background(), fb)}
	}
}

func (f *FeedbackScreen) transition() tea.Cmd {
	nextScreen := f.next()
	return func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: nextScreen}
	}
}

func (f *FeedbackScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	var sections []string

	sections = append(sections, lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true).
		Render("That's a wrap! How was it?"))

	switch f.step {
	case stepRating:
		sections = append(sections, lipgloss.NewStyle().
			Foreground(theme.Text).
			Render("How would you rate the experience?"))
		sections = append(sections, f.rating.View())

	case stepRecommend:
		sections = append(sections, lipgloss.NewStyle().
			Foreground(theme.Text).
			Render("Would you recommend CaRhythm to a friend?"))
		sections = append(sections, f.recommend.View())

	case stepComments:
		sections = append(sections, lipgloss.NewStyle().
			Foreground(theme.Text).
			Render("Any comments? (optional)"))
		f.comments.SetWidth(cw - 6)
		sections = append(sections, f.comments.View())

	case stepSending:
		sections = append(sections, theme.Hint.Render("Sending your feedback..."))
	}

	content := strings.Join(sections, "\n\n")
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}

var _ Backend = (*api.Client)(nil)
