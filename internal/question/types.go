package question

import (
	"encoding/json"
	"fmt"
)

// Type is the closed set of question kinds the client knows how to render.
// The wire protocol also carries a bare "mcq" tag whose single/multiple
// nature is decided by the options payload; decoding normalizes it so the
// rest of the client never sees an ambiguous type.
type Type int

const (
	TypeSlider Type = iota
	TypeMCQSingle
	TypeMCQMultiple
	TypeOrdering
	TypeEssay
)

// String returns the wire tag for the type.
func (t Type) String() string {
	switch t {
	case TypeSlider:
		return "slider"
	case TypeMCQSingle:
		return "mcq-single"
	case TypeMCQMultiple:
		return "mcq-multiple"
	case TypeOrdering:
		return "ordering"
	case TypeEssay:
		return "essay"
	}
	return fmt.Sprintf("Type(%d)", int(t))
}

// AutoAdvance reports whether answering this question type commits the
// answer immediately. Multi-select, ordering, and essay questions require
// an explicit Next action instead.
func (t Type) AutoAdvance() bool {
	return t == TypeSlider || t == TypeMCQSingle
}

// Choice is a selectable option for MCQ questions.
type Choice struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// OrderItem is one entry of an ordering question's permutable list.
type OrderItem struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// Options carries the type-dependent configuration of a question.
// Only the fields matching the question's type are populated.
type Options struct {
	// MCQ
	Multiple bool     `json:"multiple,omitempty"`
	Choices  []Choice `json:"choices,omitempty"`

	// Ordering
	Items []OrderItem `json:"items,omitempty"`

	// Essay
	MinLength int `json:"min_length,omitempty"`
	MaxLength int `json:"max_length,omitempty"`

	// Slider
	ScaleMin    int      `json:"scale_min,omitempty"`
	ScaleMax    int      `json:"scale_max,omitempty"`
	ScaleLabels []string `json:"scale_labels,omitempty"`
}

// Question is one assessment item as served by the backend. Immutable
// from the client's perspective once fetched for a page.
type Question struct {
	ID       int     `json:"id"`
	Type     Type    `json:"-"`
	Text     string  `json:"text"`
	Required bool    `json:"required"`
	Options  Options `json:"options"`

	// Scene metadata for story-mode presentation (all optional).
	SceneTitle     string `json:"scene_title,omitempty"`
	SceneNarrative string `json:"scene_narrative,omitempty"`
	SceneTheme     string `json:"scene_theme,omitempty"`
}

// questionWire mirrors Question with the raw type tag for JSON decoding.
type questionWire struct {
	ID             int     `json:"id"`
	Type           string  `json:"type"`
	Text           string  `json:"text"`
	Required       bool    `json:"required"`
	Options        Options `json:"options"`
	SceneTitle     string  `json:"scene_title"`
	SceneNarrative string  `json:"scene_narrative"`
	SceneTheme     string  `json:"scene_theme"`
}

// UnmarshalJSON decodes a question and resolves its type tag into the
// closed Type enum. A bare "mcq" tag is normalized using options.multiple.
// An unknown tag is a decode error rather than a runtime fallback.
func (q *Question) UnmarshalJSON(data []byte) error {
	var w questionWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	typ, err := parseType(w.Type, w.Options.Multiple)
	if err != nil {
		return fmt.Errorf("question %d: %w", w.ID, err)
	}

	*q = Question{
		ID:             w.ID,
		Type:           typ,
		Text:           w.Text,
		Required:       w.Required,
		Options:        w.Options,
		SceneTitle:     w.SceneTitle,
		SceneNarrative: w.SceneNarrative,
		SceneTheme:     w.SceneTheme,
	}
	return nil
}

// MarshalJSON encodes the question back to its wire form.
func (q Question) MarshalJSON() ([]byte, error) {
	return json.Marshal(questionWire{
		ID:             q.ID,
		Type:           q.Type.String(),
		Text:           q.Text,
		Required:       q.Required,
		Options:        q.Options,
		SceneTitle:     q.SceneTitle,
		SceneNarrative: q.SceneNarrative,
		SceneTheme:     q.SceneTheme,
	})
}

func parseType(tag string, multiple bool) (Type, error) {
	switch tag {
	case "slider":
		return TypeSlider, nil
	case "mcq":
		if multiple {
			return TypeMCQMultiple, nil
		}
		return TypeMCQSingle, nil
	case "mcq-single":
		return TypeMCQSingle, nil
	case "mcq-multiple":
		return TypeMCQMultiple, nil
	case "ordering":
		return TypeOrdering, nil
	case "essay":
		return TypeEssay, nil
	}
	return 0, fmt.Errorf("unknown question type %q", tag)
}

// HasScene reports whether the question carries narrative metadata.
func (q Question) HasScene() bool {
	return q.SceneTitle != "" || q.SceneNarrative != ""
}

// EssayBounds returns the essay length constraints with the backend's
// defaults applied (max 500 when unset).
func (q Question) EssayBounds() (min, max int) {
	min = q.Options.MinLength
	max = q.Options.MaxLength
	if max == 0 {
		max = 500
	}
	return min, max
}
