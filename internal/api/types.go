package api

import (
	"encoding/json"

	"github.com/carhythm/carhythm/internal/question"
)

// Module describes one assessment chapter as listed by GET /modules.
type Module struct {
	ID               int    `json:"id"`
	Name             string `json:"name"`
	Emoji            string `json:"emoji"`
	Title            string `json:"title"`
	Description      string `json:"description"`
	TotalPages       int    `json:"total_pages"`
	TotalQuestions   int    `json:"total_questions"`
	EstimatedMinutes int    `json:"estimated_minutes"`
	Theme            string `json:"theme"`
	ChapterNumber    int    `json:"chapter_number"`
	OrderIndex       int    `json:"order_index"`
}

// PageInfo is the page-level metadata of a question page.
type PageInfo struct {
	ID             int    `json:"id"`
	Title          string `json:"title"`
	Module         string `json:"module"`
	ModuleEmoji    string `json:"module_emoji"`
	ChapterNumber  int    `json:"chapter_number"`
	ColorPrimary   string `json:"module_color_primary"`
	ColorSecondary string `json:"module_color_secondary"`
}

// Navigation describes where a page sits in the assessment flow. A nil
// NextPageID on the last page signals end of assessment.
type Navigation struct {
	CurrentPage    int  `json:"current_page"`
	TotalPages     int  `json:"total_pages"`
	IsFirst        bool `json:"is_first"`
	IsLast         bool `json:"is_last"`
	PreviousPageID *int `json:"previous_page_id"`
	NextPageID     *int `json:"next_page_id"`
}

// QuestionPage is the full payload of GET /questions for one page.
// Immutable from the client's perspective once fetched.
type QuestionPage struct {
	Page       PageInfo            `json:"page"`
	Questions  []question.Question `json:"questions"`
	Navigation Navigation          `json:"navigation"`
}

// StartSessionResponse is the result of POST /session/start.
type StartSessionResponse struct {
	SessionID string `json:"session_id"`
	CreatedAt string `json:"created_at"`
}

// AnswerSubmission is the body of POST /answers/submit.
type AnswerSubmission struct {
	SessionID  string          `json:"session_id"`
	QuestionID int             `json:"question_id"`
	Answer     question.Answer `json:"answer"`
}

// AnswerProgress is the cumulative progress block of a submit response.
type AnswerProgress struct {
	QuestionsAnswered int     `json:"questions_answered"`
	TotalQuestions    int     `json:"total_questions"`
	Percentage        float64 `json:"percentage"`
}

// SubmitAnswerResponse is the result of POST /answers/submit: per-answer
// XP plus cumulative totals.
type SubmitAnswerResponse struct {
	Success        bool           `json:"success"`
	XPGained       int            `json:"xp_gained"`
	TotalXP        int            `json:"total_xp"`
	BadgesUnlocked []string       `json:"badges_unlocked"`
	Progress       AnswerProgress `json:"progress"`
}

// SessionProgress is the server's authoritative per-session progress.
type SessionProgress struct {
	SessionID          string           `json:"session_id"`
	Modules            []map[string]any `json:"modules"`
	TotalXP            int              `json:"total_xp"`
	Badges             []string         `json:"badges"`
	CurrentPageID      *int             `json:"current_page_id"`
	PercentageComplete float64          `json:"percentage_complete"`
}

// ValidateSessionResponse is the result of GET /session/{id}/validate.
type ValidateSessionResponse struct {
	Valid   bool   `json:"valid"`
	Reason  string `json:"reason,omitempty"`
	Session *struct {
		SessionID     string `json:"session_id"`
		Status        string `json:"status"`
		CurrentPageID *int   `json:"current_page_id"`
		LastActivity  string `json:"last_activity"`
	} `json:"session,omitempty"`
}

// StudentInfo is the body of POST /student/info. The server validates
// each field and its error detail is shown to the user verbatim.
type StudentInfo struct {
	SessionID     string `json:"session_id"`
	Email         string `json:"email"`
	FullName      string `json:"full_name"`
	AgeGroup      string `json:"age_group"`
	Country       string `json:"country"`
	OriginCountry string `json:"origin_country"`
}

// Feedback is the body of POST /feedback/submit. Optional fields are
// pointers so "not answered" survives serialization.
type Feedback struct {
	SessionID      string `json:"session_id"`
	Rating         *int   `json:"rating"`
	ExperienceText string `json:"experience_text,omitempty"`
	WouldRecommend *bool  `json:"would_recommend"`
	Suggestions    string `json:"suggestions,omitempty"`
}

// ResendRequest is the body of POST /resend-results.
type ResendRequest struct {
	SessionID string `json:"session_id"`
	Email     string `json:"email"`
}

// ScoresResponse wraps the results profile. The profile itself (RIASEC,
// Big Five, behavioral flags, ikigai zones) is computed server-side and
// opaque to this client; it is carried as raw JSON and rendered as-is.
type ScoresResponse struct {
	SessionID string          `json:"session_id"`
	Profile   json.RawMessage `json:"profile"`
	Cached    bool            `json:"cached"`
}
