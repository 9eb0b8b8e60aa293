package assessment

import (
	"context"

	"github.com/carhythm/carhythm/internal/api"
	"github.com/carhythm/carhythm/internal/progress"
	"github.com/carhythm/carhythm/internal/question"
)

// AnsweredLister is the slice of the backend client that resume
// reconciliation needs.
type AnsweredLister interface {
	AnsweredQuestions(ctx context.Context, sessionID string, pageID int) ([]int, error)
}

// ResolveResume returns the index of the first question whose id is not
// in the answered set, scanning in fixed page order. When every question
// is answered it returns the last index — re-displaying an answered
// question is idempotent, running past the end is not.
func ResolveResume(questions []question.Question, answered map[int]bool) int {
	for i, q := range questions {
		if !answered[q.ID] {
			return i
		}
	}
	if len(questions) == 0 {
		return 0
	}
	return len(questions) - 1
}

// ReconcileResume decides which question of a freshly loaded page the
// user should see, reconciling the local resume hint with server truth.
// Server wins when reachable; on failure the stored index is used only
// when it refers to this same page, else index 0. The resolved index is
// persisted back so later reloads resume identically even offline.
func ReconcileResume(ctx context.Context, lister AnsweredLister, store *progress.Store, sessionID string, page *api.QuestionPage) int {
	index := 0

	if sessionID != "" && len(page.Questions) > 0 {
		ids, err := lister.AnsweredQuestions(ctx, sessionID, page.Page.ID)
		if err == nil {
			answered := make(map[int]bool, len(ids))
			for _, id := range ids {
				answered[id] = true
			}
			index = ResolveResume(page.Questions, answered)
		} else {
			index = localResumeIndex(store, page)
		}
	}

	store.Update(progress.Update{
		CurrentPageID:        progress.Ptr(page.Page.ID),
		CurrentQuestionIndex: progress.Ptr(index),
	})
	return index
}

// localResumeIndex is the degraded, local-only resume decision: the
// stored index counts only when it belongs to this page and is still in
// range.
func localResumeIndex(store *progress.Store, page *api.QuestionPage) int {
	rec := store.Load()
	if rec == nil {
		return 0
	}
	if rec.CurrentPageID != page.Page.ID {
		return 0
	}
	if rec.CurrentQuestionIndex < 0 || rec.CurrentQuestionIndex >= len(page.Questions) {
		return 0
	}
	return rec.CurrentQuestionIndex
}
