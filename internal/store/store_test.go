package store

import (
	"context"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open("file::memory:?cache=shared")
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func testRepo(t *testing.T, s *Store) EventRepo {
	t.Helper()
	repo, err := s.EventRepo()
	if err != nil {
		t.Fatalf("event repo: %v", err)
	}
	return repo
}

func TestOpenClose(t *testing.T) {
	s := openTestStore(t)
	if s.Client() == nil {
		t.Fatal("expected non-nil ent client")
	}
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		// WAL mode falls back to "memory" for in-memory databases,
		// so we skip journal_mode here. It is tested with file-based DBs.
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestAppendAnswerAndQuery(t *testing.T) {
	s := openTestStore(t)
	repo := testRepo(t, s)
	ctx := context.Background()

	for _, qid := range []int{12, 7, 12, 3} {
		err := repo.AppendAnswer(ctx, AnswerEventData{
			SessionID:    "sess-1",
			QuestionID:   qid,
			PageID:       2,
			QuestionType: "slider",
			XPGained:     10,
		})
		if err != nil {
			t.Fatalf("append answer %d: %v", qid, err)
		}
	}

	ids, err := repo.AnsweredQuestionIDs(ctx, "sess-1", 2)
	if err != nil {
		t.Fatalf("answered question ids: %v", err)
	}
	// Re-submissions collapse to one entry, sorted ascending.
	want := []int{3, 7, 12}
	if len(ids) != len(want) {
		t.Fatalf("ids = %v, want %v", ids, want)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Errorf("ids[%d] = %d, want %d", i, ids[i], want[i])
		}
	}
}

func TestAnsweredQuestionIDsFiltersByPage(t *testing.T) {
	s := openTestStore(t)
	repo := testRepo(t, s)
	ctx := context.Background()

	events := []AnswerEventData{
		{SessionID: "sess-1", QuestionID: 1, PageID: 1, QuestionType: "mcq_single"},
		{SessionID: "sess-1", QuestionID: 2, PageID: 2, QuestionType: "mcq_single"},
		{SessionID: "sess-2", QuestionID: 3, PageID: 1, QuestionType: "essay"},
	}
	for _, e := range events {
		if err := repo.AppendAnswer(ctx, e); err != nil {
			t.Fatalf("append answer: %v", err)
		}
	}

	ids, err := repo.AnsweredQuestionIDs(ctx, "sess-1", 1)
	if err != nil {
		t.Fatalf("answered (page 1): %v", err)
	}
	if len(ids) != 1 || ids[0] != 1 {
		t.Errorf("page 1 ids = %v, want [1]", ids)
	}

	// Page 0 means no page filter.
	ids, err = repo.AnsweredQuestionIDs(ctx, "sess-1", 0)
	if err != nil {
		t.Fatalf("answered (all pages): %v", err)
	}
	if len(ids) != 2 {
		t.Errorf("all-page ids = %v, want 2 entries", ids)
	}
}

func TestSessionTotalsCountsQuestionsOnce(t *testing.T) {
	s := openTestStore(t)
	repo := testRepo(t, s)
	ctx := context.Background()

	events := []AnswerEventData{
		{SessionID: "sess-1", QuestionID: 1, PageID: 1, QuestionType: "slider", XPGained: 10},
		{SessionID: "sess-1", QuestionID: 2, PageID: 1, QuestionType: "essay", XPGained: 20},
		// Re-submission of question 1 replaces its XP.
		{SessionID: "sess-1", QuestionID: 1, PageID: 1, QuestionType: "slider", XPGained: 15},
	}
	for _, e := range events {
		if err := repo.AppendAnswer(ctx, e); err != nil {
			t.Fatalf("append answer: %v", err)
		}
	}

	totals, err := repo.SessionTotals(ctx, "sess-1")
	if err != nil {
		t.Fatalf("session totals: %v", err)
	}
	if totals.Answers != 2 {
		t.Errorf("answers = %d, want 2", totals.Answers)
	}
	if totals.XP != 35 {
		t.Errorf("xp = %d, want 35", totals.XP)
	}
}

func TestAppendSession(t *testing.T) {
	s := openTestStore(t)
	repo := testRepo(t, s)
	ctx := context.Background()

	for _, action := range []string{"started", "resumed", "abandoned"} {
		err := repo.AppendSession(ctx, SessionEventData{
			SessionID: "sess-1",
			Action:    action,
		})
		if err != nil {
			t.Fatalf("append session %q: %v", action, err)
		}
	}

	count, err := s.Client().SessionEvent.Query().Count(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 3 {
		t.Errorf("session events = %d, want 3", count)
	}
}

func TestSequenceCounter(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()
	ctx := context.Background()

	sc, err := newSequenceCounter(db)
	if err != nil {
		t.Fatalf("new sequence counter: %v", err)
	}

	var seqs []int64
	for i := 0; i < 5; i++ {
		seq, err := sc.Next(ctx)
		if err != nil {
			t.Fatalf("next %d: %v", i, err)
		}
		seqs = append(seqs, seq)
	}

	// Should be monotonically increasing starting from 1.
	for i, seq := range seqs {
		expected := int64(i + 1)
		if seq != expected {
			t.Errorf("seq[%d] = %d, want %d", i, seq, expected)
		}
	}
}

func TestAutoMigrationCreatesTables(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	for _, table := range []string{"answer_events", "session_events"} {
		var name string
		err := db.QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&name)
		if err != nil {
			t.Fatalf("query sqlite_master for %s: %v", table, err)
		}
		if name != table {
			t.Errorf("table name = %q, want %q", name, table)
		}
	}
}
