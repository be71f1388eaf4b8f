package cue

import (
	"strings"
	"testing"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		draft     Draft
		wantParts []string
	}{
		{
			name:      "empty text and too short",
			draft:     Draft{Text: "", Start: 1000, End: 1200},
			wantParts: []string{"text must not be empty", "at least 500ms"},
		},
		{
			name:      "inverted",
			draft:     Draft{Text: "hi", Start: 2000, End: 1000},
			wantParts: []string{"end time must be after start time"},
		},
		{
			name:      "too long duration",
			draft:     Draft{Text: "hi", Start: 0, End: MaxDuration + 1},
			wantParts: []string{"must not exceed 10000ms"},
		},
		{
			name:      "too long text",
			draft:     Draft{Text: strings.Repeat("あ", MaxTextLength+1), Start: 0, End: 1000},
			wantParts: []string{"must not exceed 200 characters"},
		},
		{
			name:  "valid",
			draft: Draft{Text: "hello", Start: 0, End: 1000},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := Validate(tt.draft)
			if len(tt.wantParts) == 0 && len(errs) != 0 {
				t.Fatalf("expected no errors, got %v", errs)
			}
			joined := strings.Join(errs, "\n")
			for _, part := range tt.wantParts {
				if !strings.Contains(joined, part) {
					t.Errorf("errors %q missing %q", joined, part)
				}
			}
		})
	}
}
