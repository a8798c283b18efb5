package tui

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/ingres-ai/hydrotalk/internal/api"
	"github.com/ingres-ai/hydrotalk/internal/markup"
)

func TestMetadataBadge(t *testing.T) {
	tests := []struct {
		name string
		md   *api.Metadata
		want string
	}{
		{"nil metadata", nil, ""},
		{"empty metadata", &api.Metadata{}, ""},
		{"source only", &api.Metadata{Source: "INGRES"}, "[INGRES]"},
		{"all fields", &api.Metadata{Source: "INGRES", Year: 2023, Region: "Punjab"}, "[INGRES · 2023 · Punjab]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := metadataBadge(tt.md); got != tt.want {
				t.Errorf("metadataBadge() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatWhen(t *testing.T) {
	if got := formatWhen("2025-03-09T12:00:00Z"); got != "Mar 9" {
		t.Errorf("formatWhen() = %q, want %q", got, "Mar 9")
	}
	if got := formatWhen("not-a-date"); got != "" {
		t.Errorf("formatWhen() on bad input = %q, want empty", got)
	}
}

func TestRenderBlocks_ContainsContent(t *testing.T) {
	out := renderBlocks(markup.Parse("*a\n*b\n\ntext **bold**"), 60)

	for _, want := range []string{"• a", "• b", "text", "bold"} {
		if !strings.Contains(out, want) {
			t.Errorf("renderBlocks() output %q missing %q", out, want)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Errorf("truncate() = %q", got)
	}
	if got := truncate("a very long conversation title", 10); len([]rune(got)) != 10 {
		t.Errorf("truncate() = %q, want 10 runes", got)
	}
	// Multi-byte titles must not be cut mid-rune.
	title := "पंजाब भूजल स्थिति रिपोर्ट"
	got := truncate(title, 10)
	if !utf8.ValidString(got) {
		t.Errorf("truncate() produced invalid UTF-8: %q", got)
	}
	if want := string([]rune(title)[:9]) + "…"; got != want {
		t.Errorf("truncate() = %q, want %q", got, want)
	}
}
