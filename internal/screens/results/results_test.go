package results

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestRenderProfileSectionsSorted(t *testing.T) {
	profile := json.RawMessage(`{
		"riasec": {"realistic": 12, "artistic": 30},
		"big_five": {"openness": 0.82},
		"behavioral_flags": ["fast_responder"]
	}`)

	lines := renderProfile(profile)
	joined := strings.Join(lines, "\n")

	// Sections appear alphabetically by key.
	bfIdx := strings.Index(joined, "Behavioral Flags")
	b5Idx := strings.Index(joined, "Big Five")
	riIdx := strings.Index(joined, "Riasec")
	if bfIdx < 0 || b5Idx < 0 || riIdx < 0 {
		t.Fatalf("missing section headers in:\n%s", joined)
	}
	if !(bfIdx < b5Idx && b5Idx < riIdx) {
		t.Errorf("sections out of order: %d %d %d", bfIdx, b5Idx, riIdx)
	}

	if !strings.Contains(joined, "· fast_responder") {
		t.Error("array entries should render as bullets")
	}
	if !strings.Contains(joined, "0.82") {
		t.Error("fractional scores should keep decimals")
	}
	if !strings.Contains(joined, "12") {
		t.Error("whole scores should render without decimals")
	}
}

func TestRenderProfileNonObjectFallsBack(t *testing.T) {
	lines := renderProfile(json.RawMessage(`"pending"`))
	if len(lines) != 1 || !strings.Contains(lines[0], "pending") {
		t.Errorf("lines = %v, want raw payload", lines)
	}
}

func TestTitleCase(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"big_five", "Big Five"},
		{"ikigai-zones", "Ikigai Zones"},
		{"riasec", "Riasec"},
	}
	for _, tt := range tests {
		if got := titleCase(tt.in); got != tt.want {
			t.Errorf("titleCase(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
