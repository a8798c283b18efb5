package markup

import (
	"reflect"
	"testing"
)

func TestParse_BlockStructure(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []Block
	}{
		{
			name: "empty input",
			in:   "",
			want: nil,
		},
		{
			name: "single paragraph",
			in:   "groundwater levels are stable",
			want: []Block{
				{Kind: KindParagraph, Spans: []Span{{Text: "groundwater levels are stable"}}},
			},
		},
		{
			name: "list then break then bold paragraph",
			in:   "*a\n*b\n\ntext **bold**",
			want: []Block{
				{Kind: KindList, Items: [][]Span{
					{{Text: "a"}},
					{{Text: "b"}},
				}},
				{Kind: KindLineBreak},
				{Kind: KindParagraph, Spans: []Span{
					{Text: "text "},
					{Text: "bold", Bold: true},
				}},
			},
		},
		{
			name: "list items with surrounding spaces",
			in:   "  * Rajasthan\n* Punjab",
			want: []Block{
				{Kind: KindList, Items: [][]Span{
					{{Text: "Rajasthan"}},
					{{Text: "Punjab"}},
				}},
			},
		},
		{
			name: "blank line flushes open list",
			in:   "*a\n\n*b",
			want: []Block{
				{Kind: KindList, Items: [][]Span{{{Text: "a"}}}},
				{Kind: KindLineBreak},
				{Kind: KindList, Items: [][]Span{{{Text: "b"}}}},
			},
		},
		{
			name: "paragraph flushes open list",
			in:   "*a\nsummary",
			want: []Block{
				{Kind: KindList, Items: [][]Span{{{Text: "a"}}}},
				{Kind: KindParagraph, Spans: []Span{{Text: "summary"}}},
			},
		},
		{
			name: "open list flushed at end of input",
			in:   "intro\n*x",
			want: []Block{
				{Kind: KindParagraph, Spans: []Span{{Text: "intro"}}},
				{Kind: KindList, Items: [][]Span{{{Text: "x"}}}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Parse(%q) = %#v, want %#v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParse_Idempotent(t *testing.T) {
	const in = "**Stage** of extraction:\n*over-exploited\n*critical\n\nSee the **2023** assessment."

	first := Parse(in)
	second := Parse(in)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("Parse is not idempotent:\nfirst  = %#v\nsecond = %#v", first, second)
	}
}

func TestParseSpans(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []Span
	}{
		{"no markers", "plain text", []Span{{Text: "plain text"}}},
		{"single bold", "a **b** c", []Span{{Text: "a "}, {Text: "b", Bold: true}, {Text: " c"}}},
		{"bold at start", "**b** c", []Span{{Text: "b", Bold: true}, {Text: " c"}}},
		{"bold at end", "a **b**", []Span{{Text: "a "}, {Text: "b", Bold: true}}},
		{"two bold runs", "**a** and **b**", []Span{
			{Text: "a", Bold: true},
			{Text: " and "},
			{Text: "b", Bold: true},
		}},
		{"unmatched opener stays literal", "a **b", []Span{{Text: "a **b"}}},
		{"lone marker pair", "**", []Span{{Text: "**"}}},
		{"empty bold collapses", "a **** b", []Span{{Text: "a  b"}}},
		{"empty input", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseSpans(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseSpans(%q) = %#v, want %#v", tt.in, got, tt.want)
			}
		})
	}
}

func TestPlainText(t *testing.T) {
	blocks := Parse("*a\n*b\n\ntext **bold**")
	got := PlainText(blocks)
	want := "- a\n- b\n\ntext bold\n"
	if got != want {
		t.Errorf("PlainText() = %q, want %q", got, want)
	}
}
