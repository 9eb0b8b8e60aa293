package question

import (
	"encoding/json"
	"testing"
)

func TestParseType(t *testing.T) {
	tests := []struct {
		tag      string
		multiple bool
		want     Type
		wantErr  bool
	}{
		{"slider", false, TypeSlider, false},
		{"mcq", false, TypeMCQSingle, false},
		{"mcq", true, TypeMCQMultiple, false},
		{"mcq-single", false, TypeMCQSingle, false},
		{"mcq-single", true, TypeMCQSingle, false},
		{"mcq-multiple", false, TypeMCQMultiple, false},
		{"ordering", false, TypeOrdering, false},
		{"essay", false, TypeEssay, false},
		{"likert", false, 0, true},
		{"", false, 0, true},
	}

	for _, tt := range tests {
		got, err := parseType(tt.tag, tt.multiple)
		if tt.wantErr {
			if err == nil {
				t.Errorf("parseType(%q, %v): expected error", tt.tag, tt.multiple)
			}
			continue
		}
		if err != nil {
			t.Errorf("parseType(%q, %v): %v", tt.tag, tt.multiple, err)
			continue
		}
		if got != tt.want {
			t.Errorf("parseType(%q, %v) = %v, want %v", tt.tag, tt.multiple, got, tt.want)
		}
	}
}

func TestQuestionDecodeNormalizesMCQ(t *testing.T) {
	raw := `{
		"id": 7,
		"type": "mcq",
		"text": "Pick your favorites",
		"required": true,
		"options": {
			"multiple": true,
			"choices": [
				{"value": "a", "label": "Option A"},
				{"value": "b", "label": "Option B"}
			]
		}
	}`

	var q Question
	if err := json.Unmarshal([]byte(raw), &q); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if q.Type != TypeMCQMultiple {
		t.Errorf("type = %v, want TypeMCQMultiple", q.Type)
	}
	if len(q.Options.Choices) != 2 {
		t.Errorf("choices = %d, want 2", len(q.Options.Choices))
	}
}

func TestQuestionDecodeRejectsUnknownType(t *testing.T) {
	raw := `{"id": 3, "type": "matrix", "text": "?", "options": {}}`
	var q Question
	if err := json.Unmarshal([]byte(raw), &q); err == nil {
		t.Fatal("expected decode error for unknown question type")
	}
}

func TestAutoAdvance(t *testing.T) {
	tests := []struct {
		typ  Type
		want bool
	}{
		{TypeSlider, true},
		{TypeMCQSingle, true},
		{TypeMCQMultiple, false},
		{TypeOrdering, false},
		{TypeEssay, false},
	}
	for _, tt := range tests {
		if got := tt.typ.AutoAdvance(); got != tt.want {
			t.Errorf("%v.AutoAdvance() = %v, want %v", tt.typ, got, tt.want)
		}
	}
}

func TestAnswerWireShapes(t *testing.T) {
	tests := []struct {
		name   string
		answer Answer
		want   string
	}{
		{"slider", SliderAnswer(4), `{"type":"slider","value":4}`},
		{"mcq single", MCQAnswer([]string{"a"}, true), `{"type":"mcq","selected_options":["a"]}`},
		{"mcq multiple", MCQAnswer([]string{"a", "c"}, false), `{"type":"mcq","selected_options":["a","c"]}`},
		{"ordering", OrderingAnswer([]string{"x", "y", "z"}), `{"type":"ordering","ordered_items":["x","y","z"]}`},
		{"essay", EssayAnswer("hello"), `{"type":"essay","text":"hello"}`},
		{"mcq empty slice not null", MCQAnswer(nil, false), `{"type":"mcq","selected_options":[]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := json.Marshal(tt.answer)
			if err != nil {
				t.Fatalf("marshal: %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("payload = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestAnswerValidate(t *testing.T) {
	ordering := Question{
		Type: TypeOrdering,
		Options: Options{Items: []OrderItem{
			{ID: "a"}, {ID: "b"}, {ID: "c"},
		}},
	}
	essay := Question{
		Type:    TypeEssay,
		Options: Options{MinLength: 10, MaxLength: 20},
	}

	tests := []struct {
		name    string
		q       Question
		a       Answer
		wantErr bool
	}{
		{"slider in range", Question{Type: TypeSlider}, SliderAnswer(3), false},
		{"slider out of range", Question{Type: TypeSlider}, SliderAnswer(6), true},
		{"single with one", Question{Type: TypeMCQSingle}, MCQAnswer([]string{"a"}, true), false},
		{"single with two", Question{Type: TypeMCQSingle}, Answer{Type: TypeMCQSingle, SelectedOptions: []string{"a", "b"}}, true},
		{"multiple empty", Question{Type: TypeMCQMultiple}, MCQAnswer(nil, false), true},
		{"ordering complete", ordering, OrderingAnswer([]string{"c", "a", "b"}), false},
		{"ordering missing item", ordering, OrderingAnswer([]string{"c", "a"}), true},
		{"ordering duplicate", ordering, OrderingAnswer([]string{"a", "a", "b"}), true},
		{"essay too short", essay, EssayAnswer("short"), true},
		{"essay in bounds", essay, EssayAnswer("exactly eleven chars"), false},
		{"essay too long", essay, EssayAnswer("this text is well over twenty characters long"), true},
		{"type mismatch", Question{Type: TypeEssay}, SliderAnswer(1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.a.Validate(tt.q)
			if tt.wantErr && err == nil {
				t.Error("expected validation error")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}
