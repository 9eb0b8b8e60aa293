package progress

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func newTestStore(t *testing.T) (*Store, string, string) {
	t.Helper()
	dir := t.TempDir()
	statePath := filepath.Join(dir, "progress.json")
	cookiePath := filepath.Join(dir, ".carhythm_progress")
	s := NewStore(NewFileBackend(statePath), NewCookieBackend(cookiePath))
	s.warnf = func(string, ...any) {}
	return s, statePath, cookiePath
}

func testRecord() Record {
	return Record{
		SessionID:            "sess-123",
		CurrentPageID:        4,
		CurrentQuestionIndex: 2,
		Percentage:           20,
		TotalXP:              40,
		QuestionsAnswered:    4,
	}
}

func TestSaveThenLoadRoundTrip(t *testing.T) {
	s, _, _ := newTestStore(t)

	if !s.Save(testRecord()) {
		t.Fatal("save failed")
	}

	got := s.Load()
	if got == nil {
		t.Fatal("load returned nil after save")
	}
	want := testRecord()
	if got.SessionID != want.SessionID ||
		got.CurrentPageID != want.CurrentPageID ||
		got.CurrentQuestionIndex != want.CurrentQuestionIndex ||
		got.TotalXP != want.TotalXP ||
		got.QuestionsAnswered != want.QuestionsAnswered {
		t.Errorf("record fields changed across save/load: %+v", got)
	}
	if got.Version != RecordVersion {
		t.Errorf("version = %q, want %q", got.Version, RecordVersion)
	}

	ts, err := time.Parse(time.RFC3339, got.Timestamp)
	if err != nil {
		t.Fatalf("timestamp not RFC3339: %v", err)
	}
	if time.Since(ts) > time.Minute {
		t.Errorf("timestamp not refreshed on save: %v", ts)
	}
}

func TestSaveAlwaysRestamps(t *testing.T) {
	s, _, _ := newTestStore(t)

	old := time.Now().Add(-48 * time.Hour)
	s.now = func() time.Time { return old }
	s.Save(testRecord())

	s.now = time.Now
	s.Save(testRecord())

	got := s.Load()
	if got == nil {
		t.Fatal("load returned nil")
	}
	ts, _ := time.Parse(time.RFC3339, got.Timestamp)
	if time.Since(ts) > time.Minute {
		t.Errorf("second save did not re-stamp timestamp: %v", ts)
	}
}

func TestExpiredRecordTreatedAsAbsent(t *testing.T) {
	s, statePath, cookiePath := newTestStore(t)

	// Save with the clock 31 days in the past.
	s.now = func() time.Time { return time.Now().Add(-31 * 24 * time.Hour) }
	if !s.Save(testRecord()) {
		t.Fatal("save failed")
	}

	s.now = time.Now
	if got := s.Load(); got != nil {
		t.Errorf("expected nil for 31-day-old record, got %+v", got)
	}
	if s.IsValid() {
		t.Error("IsValid() = true for expired record")
	}

	// Expired load clears both copies.
	if _, err := os.Stat(statePath); !errors.Is(err, os.ErrNotExist) {
		t.Error("state file not cleared after expired load")
	}
	if _, err := os.Stat(cookiePath); !errors.Is(err, os.ErrNotExist) {
		t.Error("cookie file not cleared after expired load")
	}
}

func TestRecordSurvivesExactlyThirtyDays(t *testing.T) {
	s, _, _ := newTestStore(t)

	// 29 days and change: still good.
	s.now = func() time.Time { return time.Now().Add(-29*24*time.Hour - time.Hour) }
	s.Save(testRecord())
	s.now = time.Now
	if s.Load() == nil {
		t.Error("record under 30 days old should load")
	}
}

func TestUpdateOnEmptyStoreIsFailingNoOp(t *testing.T) {
	s, statePath, _ := newTestStore(t)

	if s.Update(Update{TotalXP: Ptr(50)}) {
		t.Error("Update on empty store should return false")
	}
	if _, err := os.Stat(statePath); !errors.Is(err, os.ErrNotExist) {
		t.Error("Update on empty store must not fabricate a record")
	}
}

func TestUpdateMergesOnlyGivenFields(t *testing.T) {
	s, _, _ := newTestStore(t)
	s.Save(testRecord())

	before := s.Load()
	if !s.Update(Update{TotalXP: Ptr(50)}) {
		t.Fatal("update failed")
	}

	after := s.Load()
	if after.TotalXP != 50 {
		t.Errorf("TotalXP = %d, want 50", after.TotalXP)
	}
	if after.SessionID != before.SessionID ||
		after.CurrentPageID != before.CurrentPageID ||
		after.CurrentQuestionIndex != before.CurrentQuestionIndex ||
		after.QuestionsAnswered != before.QuestionsAnswered {
		t.Errorf("update touched fields beyond TotalXP: %+v", after)
	}
}

func TestLoadFallsBackToCookie(t *testing.T) {
	s, statePath, _ := newTestStore(t)
	s.Save(testRecord())

	// Simulate the primary store going away.
	if err := os.Remove(statePath); err != nil {
		t.Fatalf("remove state file: %v", err)
	}

	got := s.Load()
	if got == nil {
		t.Fatal("expected cookie fallback to serve the record")
	}
	if got.SessionID != "sess-123" {
		t.Errorf("SessionID = %q from cookie fallback", got.SessionID)
	}
}

func TestMalformedPrimaryFallsBackToCookie(t *testing.T) {
	s, statePath, _ := newTestStore(t)
	s.Save(testRecord())

	if err := os.WriteFile(statePath, []byte("{not json"), 0o600); err != nil {
		t.Fatalf("corrupt state file: %v", err)
	}

	got := s.Load()
	if got == nil {
		t.Fatal("malformed primary should fall back to cookie, not return nil")
	}
	if got.SessionID != "sess-123" {
		t.Errorf("SessionID = %q", got.SessionID)
	}
}

func TestMalformedEverywhereIsAbsent(t *testing.T) {
	s, statePath, cookiePath := newTestStore(t)
	if err := os.WriteFile(statePath, []byte("garbage"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(cookiePath, []byte("garbage"), 0o600); err != nil {
		t.Fatal(err)
	}
	if got := s.Load(); got != nil {
		t.Errorf("expected nil for malformed storage, got %+v", got)
	}
}

func TestClearRemovesBothCopies(t *testing.T) {
	s, statePath, cookiePath := newTestStore(t)
	s.Save(testRecord())

	s.Clear()

	if _, err := os.Stat(statePath); !errors.Is(err, os.ErrNotExist) {
		t.Error("state file survived Clear")
	}
	if _, err := os.Stat(cookiePath); !errors.Is(err, os.ErrNotExist) {
		t.Error("cookie file survived Clear")
	}
	if s.IsValid() {
		t.Error("IsValid() = true after Clear")
	}
}

func TestIsValidRequiresSessionID(t *testing.T) {
	s, _, _ := newTestStore(t)
	rec := testRecord()
	rec.SessionID = ""
	s.Save(rec)

	if s.IsValid() {
		t.Error("IsValid() = true for record without session id")
	}
}

func TestCookieFormat(t *testing.T) {
	_, _, cookiePath := newTestStore(t)
	b := NewCookieBackend(cookiePath)

	rec := testRecord()
	data, _ := json.Marshal(rec)
	if err := b.Set(data); err != nil {
		t.Fatalf("set: %v", err)
	}

	raw, err := os.ReadFile(cookiePath)
	if err != nil {
		t.Fatalf("read cookie file: %v", err)
	}
	line := string(raw)
	for _, attr := range []string{"carhythm_progress=", "expires=", "path=/", "SameSite=Strict"} {
		if !strings.Contains(line, attr) {
			t.Errorf("cookie line missing %q: %s", attr, line)
		}
	}

	got, ok, err := b.Get()
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	var back Record
	if err := json.Unmarshal(got, &back); err != nil {
		t.Fatalf("cookie round trip broke JSON: %v", err)
	}
	if back.SessionID != rec.SessionID {
		t.Errorf("SessionID = %q, want %q", back.SessionID, rec.SessionID)
	}
}
