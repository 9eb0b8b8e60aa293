package question

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/carhythm/carhythm/internal/assessment"
	"github.com/carhythm/carhythm/internal/ui/components"
	"github.com/carhythm/carhythm/internal/ui/theme"
)

func (s *QuestionScreen) View(width, height int) string {
	s.width = width
	if s.loadErr != "" {
		return renderLoadError(width, s.loadErr)
	}
	if s.state == nil {
		return lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.TextDim).
			Render("\n\n\n  Loading questions...")
	}
	return s.renderQuestion(width, height)
}

func (s *QuestionScreen) renderQuestion(width, height int) string {
	state := s.state
	q := state.Current()
	if q == nil {
		return lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.TextDim).
			Render("\n\n  Nothing to answer on this page.")
	}

	cw := components.ContentWidth(width)
	var b strings.Builder

	// Page info line.
	page := state.Page
	infoLeft := lipgloss.NewStyle().
		Foreground(theme.Secondary).
		Bold(true).
		Render(fmt.Sprintf("  %s %s", page.Page.ModuleEmoji, page.Page.Module))

	infoRight := lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Render(fmt.Sprintf("Question %d/%d · Page %d/%d",
			state.Index+1, len(page.Questions),
			page.Navigation.CurrentPage, page.Navigation.TotalPages,
		))

	infoLine := infoLeft
	rightPad := width - lipgloss.Width(infoLeft) - lipgloss.Width(infoRight) - 4
	if rightPad > 0 {
		infoLine += strings.Repeat(" ", rightPad) + infoRight
	}
	b.WriteString(infoLine)
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", max(width-4, 0))))
	b.WriteString("\n\n")

	var sections []string

	// Scene narrative.
	if q.HasScene() {
		sections = append(sections, components.SceneCard(q.SceneTitle, q.SceneNarrative, cw))
	}

	// Question text.
	text := q.Text
	if q.Required {
		text += lipgloss.NewStyle().Foreground(theme.Error).Render(" *")
	}
	sections = append(sections, lipgloss.NewStyle().
		Width(cw).
		Foreground(theme.Text).
		Bold(true).
		Render(text))

	// The live widget.
	sections = append(sections, s.widgetView())

	// Inline submission state.
	switch {
	case state.Phase == assessment.PhaseSubmitting:
		sections = append(sections, theme.Hint.Render("Saving your answer..."))
	case state.SubmitErr != "":
		sections = append(sections, theme.Invalid.Width(cw).Render(state.SubmitErr))
		sections = append(sections, theme.Hint.Render("Press Enter to try again"))
	}

	if s.flash.Visible {
		sections = append(sections, s.flash.View(cw))
	}

	content := strings.Join(sections, "\n\n")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, content))
	return b.String()
}

func (s *QuestionScreen) widgetView() string {
	switch s.kind {
	case widgetLikert:
		return s.likert.View()
	case widgetChoice:
		return s.choice.View()
	case widgetOrdering:
		return s.ordering.View()
	case widgetEssay:
		if s.width > 0 {
			s.essay.SetWidth(components.ContentWidth(s.width) - 6)
		}
		return s.essay.View()
	}
	return ""
}

func renderLoadError(width int, msg string) string {
	return lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Error).
		Render(fmt.Sprintf("\n\n\n  %s\n\n  Press Enter to retry.", msg))
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
