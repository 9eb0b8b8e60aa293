package question

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"
)

// Answer is the tagged union submitted for one question. Exactly one of
// the value fields is meaningful, matching the question's type.
type Answer struct {
	Type Type

	// TypeSlider
	Value int

	// TypeMCQSingle / TypeMCQMultiple
	SelectedOptions []string

	// TypeOrdering
	OrderedItems []string

	// TypeEssay
	Text string
}

// SliderAnswer builds a slider answer for the given scale value.
func SliderAnswer(value int) Answer {
	return Answer{Type: TypeSlider, Value: value}
}

// MCQAnswer builds a choice answer. single decides the variant tag.
func MCQAnswer(selected []string, single bool) Answer {
	t := TypeMCQMultiple
	if single {
		t = TypeMCQSingle
	}
	return Answer{Type: t, SelectedOptions: selected}
}

// OrderingAnswer builds an ordering answer from the current permutation.
func OrderingAnswer(order []string) Answer {
	return Answer{Type: TypeOrdering, OrderedItems: order}
}

// EssayAnswer builds an essay answer.
func EssayAnswer(text string) Answer {
	return Answer{Type: TypeEssay, Text: text}
}

// MarshalJSON produces the wire payload for the answer. Both MCQ variants
// share the "mcq" wire tag; the backend does not distinguish them.
func (a Answer) MarshalJSON() ([]byte, error) {
	switch a.Type {
	case TypeSlider:
		return json.Marshal(struct {
			Type  string `json:"type"`
			Value int    `json:"value"`
		}{"slider", a.Value})
	case TypeMCQSingle, TypeMCQMultiple:
		selected := a.SelectedOptions
		if selected == nil {
			selected = []string{}
		}
		return json.Marshal(struct {
			Type            string   `json:"type"`
			SelectedOptions []string `json:"selected_options"`
		}{"mcq", selected})
	case TypeOrdering:
		items := a.OrderedItems
		if items == nil {
			items = []string{}
		}
		return json.Marshal(struct {
			Type         string   `json:"type"`
			OrderedItems []string `json:"ordered_items"`
		}{"ordering", items})
	case TypeEssay:
		return json.Marshal(struct {
			Type string `json:"type"`
			Text string `json:"text"`
		}{"essay", a.Text})
	}
	return nil, fmt.Errorf("answer has unknown type %v", a.Type)
}

// Validate checks the answer against the question's presentation-layer
// constraints: scale bounds, selection counts, full permutations, essay
// length. These are usability checks, not a security boundary — the
// server revalidates everything.
func (a Answer) Validate(q Question) error {
	if a.Type != q.Type {
		return fmt.Errorf("answer type %v does not match question type %v", a.Type, q.Type)
	}

	switch q.Type {
	case TypeSlider:
		min, max := q.Options.ScaleMin, q.Options.ScaleMax
		if min == 0 && max == 0 {
			min, max = 1, 5
		}
		if a.Value < min || a.Value > max {
			return fmt.Errorf("value %d outside scale %d-%d", a.Value, min, max)
		}

	case TypeMCQSingle:
		if len(a.SelectedOptions) != 1 {
			return fmt.Errorf("exactly one option required, got %d", len(a.SelectedOptions))
		}

	case TypeMCQMultiple:
		if len(a.SelectedOptions) == 0 {
			return fmt.Errorf("at least one option required")
		}

	case TypeOrdering:
		if len(a.OrderedItems) != len(q.Options.Items) {
			return fmt.Errorf("ordering must include all %d items, got %d",
				len(q.Options.Items), len(a.OrderedItems))
		}
		seen := make(map[string]bool, len(a.OrderedItems))
		for _, id := range a.OrderedItems {
			if seen[id] {
				return fmt.Errorf("duplicate item %q in ordering", id)
			}
			seen[id] = true
		}

	case TypeEssay:
		min, max := q.EssayBounds()
		n := utf8.RuneCountInString(strings.TrimSpace(a.Text))
		if n < min {
			return fmt.Errorf("essay needs at least %d characters, got %d", min, n)
		}
		if n > max {
			return fmt.Errorf("essay exceeds %d characters", max)
		}
	}

	return nil
}
