package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// Client is a thin wrapper over the backend's versioned REST surface.
// It performs no retries, no backoff, and no caching; transient failures
// are surfaced as typed errors for the caller to handle.
type Client struct {
	base       string
	language   string
	httpClient *http.Client

	// infoClient carries the extended timeout for the student-info
	// submission, which waits on server-side report generation.
	infoClient *http.Client

	// sessionID, when set, is echoed on every request as X-Session-ID.
	sessionID string
}

// New creates a Client for the given configuration.
func New(cfg Config) *Client {
	return &Client{
		base:       strings.TrimRight(cfg.BaseURL, "/") + "/api/v2",
		language:   cfg.Language,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		infoClient: &http.Client{Timeout: cfg.InfoTimeout},
	}
}

// SetSessionID attaches a session id to subsequent requests.
func (c *Client) SetSessionID(id string) { c.sessionID = id }

// Language returns the configured question language.
func (c *Client) Language() string { return c.language }

// Health checks backend reachability.
func (c *Client) Health(ctx context.Context) error {
	var out map[string]any
	return c.get(ctx, "/health", nil, &out)
}

// Modules fetches all assessment modules with metadata.
func (c *Client) Modules(ctx context.Context) ([]Module, error) {
	var out []Module
	if err := c.get(ctx, "/modules", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Questions fetches the ordered question list and navigation metadata
// for one page. The payload is schema-validated before decoding; an
// invalid payload is an *ErrInvalidPayload.
func (c *Client) Questions(ctx context.Context, pageID int) (*QuestionPage, error) {
	params := url.Values{
		"page_id":  {strconv.Itoa(pageID)},
		"language": {c.language},
	}

	raw, err := c.getRaw(ctx, "/questions", params)
	if err != nil {
		return nil, err
	}
	if err := validateQuestionPage(raw); err != nil {
		return nil, err
	}

	var out QuestionPage
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, &ErrInvalidPayload{Content: raw, Err: err}
	}
	return &out, nil
}

// StartSession creates a new assessment session and remembers its id
// for subsequent requests.
func (c *Client) StartSession(ctx context.Context) (*StartSessionResponse, error) {
	var out StartSessionResponse
	if err := c.post(ctx, "/session/start", struct{}{}, &out); err != nil {
		return nil, err
	}
	if out.SessionID != "" {
		c.sessionID = out.SessionID
	}
	return &out, nil
}

// SubmitAnswer posts one typed answer payload and returns XP gained plus
// cumulative progress.
func (c *Client) SubmitAnswer(ctx context.Context, sub AnswerSubmission) (*SubmitAnswerResponse, error) {
	var out SubmitAnswerResponse
	if err := c.post(ctx, "/answers/submit", sub, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Progress fetches the server's authoritative progress for a session.
func (c *Client) Progress(ctx context.Context, sessionID string) (*SessionProgress, error) {
	var out SessionProgress
	if err := c.get(ctx, "/session/"+url.PathEscape(sessionID)+"/progress", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ValidateSession checks whether a session can be resumed.
func (c *Client) ValidateSession(ctx context.Context, sessionID string) (*ValidateSessionResponse, error) {
	var out ValidateSessionResponse
	if err := c.get(ctx, "/session/"+url.PathEscape(sessionID)+"/validate", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AbandonSession marks a session abandoned so the user can start fresh.
func (c *Client) AbandonSession(ctx context.Context, sessionID string) error {
	var out struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	return c.post(ctx, "/session/"+url.PathEscape(sessionID)+"/abandon", struct{}{}, &out)
}

// AnsweredQuestions returns the ids of questions already answered in the
// session, filtered to one page when pageID > 0.
func (c *Client) AnsweredQuestions(ctx context.Context, sessionID string, pageID int) ([]int, error) {
	var params url.Values
	if pageID > 0 {
		params = url.Values{"page_id": {strconv.Itoa(pageID)}}
	}
	var out struct {
		AnsweredQuestionIDs []int `json:"answered_question_ids"`
	}
	path := "/session/" + url.PathEscape(sessionID) + "/answered-questions"
	if err := c.get(ctx, path, params, &out); err != nil {
		return nil, err
	}
	return out.AnsweredQuestionIDs, nil
}

// SubmitStudentInfo finalizes the assessment: the server computes
// scores, generates the report, and emails it. Uses the extended
// timeout.
func (c *Client) SubmitStudentInfo(ctx context.Context, info StudentInfo) error {
	var out map[string]any
	return c.do(ctx, c.infoClient, http.MethodPost, "/student/info", nil, info, &out)
}

// SubmitFeedback posts end-of-assessment feedback.
func (c *Client) SubmitFeedback(ctx context.Context, fb Feedback) error {
	var out map[string]any
	return c.post(ctx, "/feedback/submit", fb, &out)
}

// ResendResults asks the server to re-send the report email.
func (c *Client) ResendResults(ctx context.Context, req ResendRequest) error {
	var out map[string]any
	return c.post(ctx, "/resend-results", req, &out)
}

// Scores fetches the complete results profile for a session.
func (c *Client) Scores(ctx context.Context, sessionID string) (*ScoresResponse, error) {
	var out ScoresResponse
	if err := c.get(ctx, "/scores/"+url.PathEscape(sessionID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ScoreSummary fetches the condensed score view as raw JSON.
func (c *Client) ScoreSummary(ctx context.Context, sessionID string) (json.RawMessage, error) {
	return c.getRaw(ctx, "/scores/"+url.PathEscape(sessionID)+"/summary", nil)
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	return c.do(ctx, c.httpClient, http.MethodGet, path, params, nil, out)
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, c.httpClient, http.MethodPost, path, nil, body, out)
}

func (c *Client) getRaw(ctx context.Context, path string, params url.Values) (json.RawMessage, error) {
	var raw json.RawMessage
	if err := c.do(ctx, c.httpClient, http.MethodGet, path, params, nil, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

func (c *Client) do(ctx context.Context, hc *http.Client, method, path string, params url.Values, body, out any) error {
	u := c.base + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.sessionID != "" {
		req.Header.Set("X-Session-ID", c.sessionID)
	}

	resp, err := hc.Do(req)
	if err != nil {
		return &ErrUnreachable{Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &ErrUnreachable{Err: err}
	}

	if resp.StatusCode >= 400 {
		return &APIError{StatusCode: resp.StatusCode, Detail: errorDetail(data)}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &ErrInvalidPayload{Content: data, Err: err}
	}
	return nil
}

// errorDetail extracts FastAPI's {"detail": ...} message. Non-JSON or
// unexpected bodies fall back to the raw text.
func errorDetail(data []byte) string {
	var body struct {
		Detail any `json:"detail"`
	}
	if err := json.Unmarshal(data, &body); err == nil && body.Detail != nil {
		switch d := body.Detail.(type) {
		case string:
			return d
		default:
			if enc, err := json.Marshal(d); err == nil {
				return string(enc)
			}
		}
	}
	return strings.TrimSpace(string(data))
}
