package progress

import (
	"math"
	"time"
)

// RecordVersion tags stored records for forward compatibility.
const RecordVersion = "1.0"

// ExpiryDays is the retention window. Because Save re-stamps the
// timestamp on every write, this means "idle for 30 days", not
// "created more than 30 days ago".
const ExpiryDays = 30

// Record is the durable resume state for one assessment attempt. The
// server holds its own authoritative copy keyed by SessionID; this local
// record is a resume hint of last resort, reconciled (never merged) on load.
type Record struct {
	SessionID            string  `json:"session_id"`
	CurrentPageID        int     `json:"current_page_id"`
	CurrentQuestionIndex int     `json:"current_question_index"`
	Percentage           float64 `json:"percentage"`
	TotalXP              int     `json:"total_xp"`
	QuestionsAnswered    int     `json:"questions_answered"`
	Timestamp            string  `json:"timestamp"`
	Version              string  `json:"version"`
}

// Update carries a partial set of record fields for Store.Update. Nil
// fields are left untouched; set fields overwrite (shallow,
// last-write-wins per field).
type Update struct {
	SessionID            *string
	CurrentPageID        *int
	CurrentQuestionIndex *int
	Percentage           *float64
	TotalXP              *int
	QuestionsAnswered    *int
}

func (u Update) apply(r *Record) {
	if u.SessionID != nil {
		r.SessionID = *u.SessionID
	}
	if u.CurrentPageID != nil {
		r.CurrentPageID = *u.CurrentPageID
	}
	if u.CurrentQuestionIndex != nil {
		r.CurrentQuestionIndex = *u.CurrentQuestionIndex
	}
	if u.Percentage != nil {
		r.Percentage = *u.Percentage
	}
	if u.TotalXP != nil {
		r.TotalXP = *u.TotalXP
	}
	if u.QuestionsAnswered != nil {
		r.QuestionsAnswered = *u.QuestionsAnswered
	}
}

// Ptr is a convenience for building Update values.
func Ptr[T any](v T) *T { return &v }

// Expired reports whether the record's timestamp is more than ExpiryDays
// in the past at the given instant. A missing or malformed timestamp is
// treated as expired. The day count rounds up, so a record is good for
// exactly ExpiryDays worth of whole or partial days.
func (r Record) Expired(now time.Time) bool {
	ts, err := time.Parse(time.RFC3339, r.Timestamp)
	if err != nil {
		return true
	}
	days := math.Ceil(now.Sub(ts).Abs().Hours() / 24)
	return days > ExpiryDays
}

// Summary is the condensed view shown by the resume prompt and the
// status command.
type Summary struct {
	SessionID         string
	Percentage        float64
	TotalXP           int
	QuestionsAnswered int
	LastActivity      time.Time
}

// Summarize builds a Summary from the record. The zero LastActivity is
// returned when the timestamp cannot be parsed.
func (r Record) Summarize() Summary {
	ts, _ := time.Parse(time.RFC3339, r.Timestamp)
	return Summary{
		SessionID:         r.SessionID,
		Percentage:        r.Percentage,
		TotalXP:           r.TotalXP,
		QuestionsAnswered: r.QuestionsAnswered,
		LastActivity:      ts,
	}
}
