package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carhythm/carhythm/internal/question"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	cfg := DefaultConfig()
	cfg.BaseURL = srv.URL
	return New(cfg)
}

const validPage = `{
	"page": {"id": 4, "module": "Interests", "module_emoji": "🎯", "chapter_number": 1},
	"questions": [
		{"id": 1, "type": "slider", "text": "I enjoy building things", "required": true, "options": {}},
		{"id": 2, "type": "mcq", "text": "Pick one", "required": true,
		 "options": {"multiple": false, "choices": [{"value": "a", "label": "A"}]}}
	],
	"navigation": {"current_page": 1, "total_pages": 3, "is_first": true, "is_last": false,
	 "previous_page_id": null, "next_page_id": 5}
}`

func TestQuestions(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v2/questions", r.URL.Path)
		assert.Equal(t, "4", r.URL.Query().Get("page_id"))
		assert.Equal(t, "en", r.URL.Query().Get("language"))
		_, _ = w.Write([]byte(validPage))
	}))

	page, err := c.Questions(context.Background(), 4)
	require.NoError(t, err)
	assert.Equal(t, "Interests", page.Page.Module)
	require.Len(t, page.Questions, 2)
	assert.Equal(t, question.TypeSlider, page.Questions[0].Type)
	assert.Equal(t, question.TypeMCQSingle, page.Questions[1].Type)
	require.NotNil(t, page.Navigation.NextPageID)
	assert.Equal(t, 5, *page.Navigation.NextPageID)
}

func TestQuestionsRejectsInvalidPayload(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing questions", `{"page": {"module": "x"}, "navigation": {}}`},
		{"unknown question type", `{
			"page": {"module": "x"},
			"questions": [{"id": 1, "type": "matrix", "text": "?"}],
			"navigation": {}
		}`},
		{"not json", `<html>502 Bad Gateway</html>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(tt.body))
			}))

			_, err := c.Questions(context.Background(), 1)
			require.Error(t, err)
			var invalid *ErrInvalidPayload
			assert.True(t, errors.As(err, &invalid), "want ErrInvalidPayload, got %T: %v", err, err)
		})
	}
}

func TestSubmitAnswerPayloadAndHeader(t *testing.T) {
	var gotBody map[string]any
	var gotHeader string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHeader = r.Header.Get("X-Session-ID")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		_, _ = w.Write([]byte(`{
			"success": true, "xp_gained": 10, "total_xp": 10,
			"progress": {"questions_answered": 1, "total_questions": 5, "percentage": 20}
		}`))
	}))
	c.SetSessionID("sess-9")

	resp, err := c.SubmitAnswer(context.Background(), AnswerSubmission{
		SessionID:  "sess-9",
		QuestionID: 12,
		Answer:     question.SliderAnswer(4),
	})
	require.NoError(t, err)

	assert.Equal(t, "sess-9", gotHeader)
	assert.Equal(t, "sess-9", gotBody["session_id"])
	assert.Equal(t, float64(12), gotBody["question_id"])
	answer := gotBody["answer"].(map[string]any)
	assert.Equal(t, "slider", answer["type"])
	assert.Equal(t, float64(4), answer["value"])

	assert.Equal(t, 10, resp.XPGained)
	assert.Equal(t, 10, resp.TotalXP)
	assert.Equal(t, float64(20), resp.Progress.Percentage)
	assert.Equal(t, 1, resp.Progress.QuestionsAnswered)
}

func TestAnsweredQuestionsUnwrapsIDs(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v2/session/s1/answered-questions", r.URL.Path)
		assert.Equal(t, "4", r.URL.Query().Get("page_id"))
		_, _ = w.Write([]byte(`{"session_id": "s1", "page_id": 4, "answered_question_ids": [1, 3]}`))
	}))

	ids, err := c.AnsweredQuestions(context.Background(), "s1", 4)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 3}, ids)
}

func TestServerErrorDetailSurfacedVerbatim(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"detail": "Session not found"}`))
	}))

	_, err := c.Scores(context.Background(), "nope")
	require.Error(t, err)
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.True(t, apiErr.NotFound())
	assert.Equal(t, "Session not found", apiErr.Detail)
}

func TestUnreachableBackend(t *testing.T) {
	cfg := DefaultConfig()
	// Port 1 is essentially never listening; connection fails fast.
	cfg.BaseURL = "http://127.0.0.1:1"
	c := New(cfg)

	_, err := c.Modules(context.Background())
	require.Error(t, err)
	var unreachable *ErrUnreachable
	assert.True(t, errors.As(err, &unreachable), "want ErrUnreachable, got %T: %v", err, err)
}

func TestStartSessionRemembersID(t *testing.T) {
	calls := 0
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		switch calls {
		case 1:
			_, _ = w.Write([]byte(`{"session_id": "fresh-1", "created_at": "2025-01-01T00:00:00Z"}`))
		default:
			assert.Equal(t, "fresh-1", r.Header.Get("X-Session-ID"))
			_, _ = w.Write([]byte(`[]`))
		}
	}))

	resp, err := c.StartSession(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "fresh-1", resp.SessionID)

	_, err = c.Modules(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}
