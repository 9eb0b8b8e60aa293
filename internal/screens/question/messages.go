package question

import (
	"github.com/carhythm/carhythm/internal/api"
)

// pageLoadedMsg is sent when a question page has been fetched and the
// resume position resolved.
type pageLoadedMsg struct {
	Page  *api.QuestionPage
	Index int
	Err   error
}

// submitResultMsg is sent when an answer submission settles.
type submitResultMsg struct {
	Resp *api.SubmitAnswerResponse
	Err  error
}

// advanceMsg dismisses the XP flash and moves to the next question.
type advanceMsg struct{}
