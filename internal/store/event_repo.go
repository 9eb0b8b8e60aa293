package store

import (
	"context"
	"fmt"
	"sort"

	"github.com/carhythm/carhythm/ent"
	"github.com/carhythm/carhythm/ent/answerevent"
)

type eventRepo struct {
	client *ent.Client
	seq    *sequenceCounter
}

func (r *eventRepo) AppendAnswer(ctx context.Context, data AnswerEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	_, err = r.client.AnswerEvent.Create().
		SetSequence(seqNum).
		SetSessionID(data.SessionID).
		SetQuestionID(data.QuestionID).
		SetPageID(data.PageID).
		SetQuestionType(data.QuestionType).
		SetXpGained(data.XPGained).
		Save(ctx)
	if err != nil {
		return fmt.Errorf("save answer event: %w", err)
	}
	return nil
}

func (r *eventRepo) AppendSession(ctx context.Context, data SessionEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	_, err = r.client.SessionEvent.Create().
		SetSequence(seqNum).
		SetSessionID(data.SessionID).
		SetAction(data.Action).
		Save(ctx)
	if err != nil {
		return fmt.Errorf("save session event: %w", err)
	}
	return nil
}

func (r *eventRepo) AnsweredQuestionIDs(ctx context.Context, sessionID string, pageID int) ([]int, error) {
	q := r.client.AnswerEvent.Query().
		Where(answerevent.SessionID(sessionID))
	if pageID > 0 {
		q = q.Where(answerevent.PageID(pageID))
	}

	ids, err := q.Select(answerevent.FieldQuestionID).Ints(ctx)
	if err != nil {
		return nil, fmt.Errorf("query answered questions: %w", err)
	}

	// Re-submissions of the same question produce duplicate events.
	seen := make(map[int]bool, len(ids))
	distinct := ids[:0]
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			distinct = append(distinct, id)
		}
	}
	sort.Ints(distinct)
	return distinct, nil
}

func (r *eventRepo) SessionTotals(ctx context.Context, sessionID string) (Totals, error) {
	events, err := r.client.AnswerEvent.Query().
		Where(answerevent.SessionID(sessionID)).
		All(ctx)
	if err != nil {
		return Totals{}, fmt.Errorf("query session totals: %w", err)
	}

	// Count each question once, keeping the latest XP for re-submissions.
	xpByQuestion := make(map[int]int, len(events))
	for _, e := range events {
		xpByQuestion[e.QuestionID] = e.XpGained
	}
	t := Totals{Answers: len(xpByQuestion)}
	for _, xp := range xpByQuestion {
		t.XP += xp
	}
	return t, nil
}
