package util

import (
	"testing"
)

func TestRenderTemplate(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		state    map[string]any
		expected string
		wantErr  bool
	}{
		{
			name:     "no markers passes through",
			text:     "plain prompt",
			state:    map[string]any{"name": "ignored"},
			expected: "plain prompt",
		},
		{
			name:     "simple substitution",
			text:     "You are {{.name}}, {{.background}}.",
			state:    map[string]any{"name": "Elena", "background": "a cartographer"},
			expected: "You are Elena, a cartographer.",
		},
		{
			name:     "default function",
			text:     `Mood: {{default "calm" .mood}}`,
			state:    map[string]any{},
			expected: "Mood: calm",
		},
		{
			name:     "upper and lower",
			text:     "{{upper .a}} {{lower .b}}",
			state:    map[string]any{"a": "loud", "b": "QUIET"},
			expected: "LOUD quiet",
		},
		{
			name:     "join",
			text:     `{{join ", " .items}}`,
			state:    map[string]any{"items": []any{"one", "two", 3}},
			expected: "one, two, 3",
		},
		{
			name:    "parse error",
			text:    "{{.broken",
			state:   map[string]any{},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := RenderTemplate(tt.text, tt.state)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %q", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.expected {
				t.Fatalf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}
