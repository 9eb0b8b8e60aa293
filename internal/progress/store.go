package progress

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Store persists the progress record across a ranked list of backends.
// Reads prefer the first backend that yields a usable record; writes go
// to all of them. Storage failures never propagate to callers — the
// client keeps working with reduced durability.
type Store struct {
	backends []Backend

	// now is swappable for tests.
	now func() time.Time

	// warnf receives non-fatal storage diagnostics. Defaults to stderr.
	warnf func(format string, args ...any)
}

// NewStore builds a store over the given backends, ranked in argument
// order.
func NewStore(backends ...Backend) *Store {
	return &Store{
		backends: backends,
		now:      time.Now,
		warnf: func(format string, args ...any) {
			fmt.Fprintf(os.Stderr, format+"\n", args...)
		},
	}
}

// DefaultStore builds the standard two-backend store: JSON file primary,
// cookie-format fallback.
func DefaultStore() (*Store, error) {
	statePath, err := DefaultStatePath()
	if err != nil {
		return nil, err
	}
	cookiePath, err := DefaultCookiePath()
	if err != nil {
		return nil, err
	}
	return NewStore(NewFileBackend(statePath), NewCookieBackend(cookiePath)), nil
}

// SetWarnFunc redirects storage diagnostics, e.g. into the TUI's notice
// line instead of stderr.
func (s *Store) SetWarnFunc(f func(format string, args ...any)) {
	if f != nil {
		s.warnf = f
	}
}

// Save stamps the record with the current time and version and writes it
// to every backend. It returns true when at least one backend accepted
// the write; it never returns an error.
func (s *Store) Save(r Record) bool {
	r.Timestamp = s.now().UTC().Format(time.RFC3339)
	r.Version = RecordVersion

	data, err := json.Marshal(r)
	if err != nil {
		s.warnf("progress: encode record: %v", err)
		return false
	}

	saved := false
	for _, b := range s.backends {
		if err := b.Set(data); err != nil {
			s.warnf("progress: %s backend unavailable: %v", b.Name(), err)
			continue
		}
		saved = true
	}
	return saved
}

// Load returns the stored record, or nil when nothing usable is stored.
// Backends are tried in rank order; malformed content is treated as
// absent, never surfaced as an error. A record older than ExpiryDays is
// discarded and cleared.
func (s *Store) Load() *Record {
	var rec *Record
	for _, b := range s.backends {
		data, ok, err := b.Get()
		if err != nil {
			s.warnf("progress: %s backend unavailable: %v", b.Name(), err)
			continue
		}
		if !ok {
			continue
		}
		var r Record
		if err := json.Unmarshal(data, &r); err != nil {
			s.warnf("progress: %s backend holds malformed record: %v", b.Name(), err)
			continue
		}
		rec = &r
		break
	}

	if rec == nil {
		return nil
	}
	if rec.Expired(s.now()) {
		s.Clear()
		return nil
	}
	return rec
}

// Update merges the set fields of u into the stored record and saves the
// result, refreshing the timestamp. When no record exists it is a
// failing no-op: partial updates never fabricate a record, to avoid
// creating inconsistent state.
func (s *Store) Update(u Update) bool {
	rec := s.Load()
	if rec == nil {
		return false
	}
	u.apply(rec)
	return s.Save(*rec)
}

// Clear removes the record from every backend. Used on session
// abandonment and on "start fresh".
func (s *Store) Clear() {
	for _, b := range s.backends {
		if err := b.Remove(); err != nil {
			s.warnf("progress: clear %s backend: %v", b.Name(), err)
		}
	}
}

// IsValid reports whether a record exists, carries a session id, and has
// not expired.
func (s *Store) IsValid() bool {
	rec := s.Load()
	return rec != nil && rec.SessionID != ""
}

// SessionID returns the stored session id, or "" when none is stored.
func (s *Store) SessionID() string {
	if rec := s.Load(); rec != nil {
		return rec.SessionID
	}
	return ""
}

// Summary returns the condensed record view, or nil when nothing is
// stored.
func (s *Store) Summary() *Summary {
	rec := s.Load()
	if rec == nil {
		return nil
	}
	sum := rec.Summarize()
	return &sum
}
