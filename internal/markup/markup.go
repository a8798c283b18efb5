// Package markup parses the constrained markdown subset used by
// assistant replies into structured display blocks.
package markup

import (
	"bufio"
	"strings"
)

// BlockKind discriminates the block types produced by Parse.
type BlockKind int

const (
	// KindParagraph is a single line of inline text.
	KindParagraph BlockKind = iota
	// KindList is a bullet list accumulated from consecutive "*" lines.
	KindList
	// KindLineBreak is an empty line between blocks.
	KindLineBreak
)

// Span is a run of inline text, optionally emphasized.
type Span struct {
	Text string
	Bold bool
}

// Block is one display unit: a paragraph, a bullet list, or a line break.
// Spans is set for paragraphs, Items for lists.
type Block struct {
	Kind  BlockKind
	Spans []Span
	Items [][]Span
}

// Parse converts raw reply text into an ordered block sequence.
// Lines whose trimmed form starts with "*" accumulate into one list
// block, a blank line flushes the open list and emits a line break,
// and any other line becomes a paragraph. The transformation is pure:
// identical input yields identical blocks.
func Parse(text string) []Block {
	var blocks []Block
	var currentList [][]Span

	flushList := func() {
		if len(currentList) > 0 {
			blocks = append(blocks, Block{Kind: KindList, Items: currentList})
			currentList = nil
		}
	}

	scanner := bufio.NewScanner(strings.NewReader(text))
	for scanner.Scan() {
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)

		switch {
		case strings.HasPrefix(trimmed, "*"):
			item := strings.TrimLeft(strings.TrimPrefix(trimmed, "*"), " \t")
			currentList = append(currentList, ParseSpans(item))
		case trimmed == "":
			flushList()
			blocks = append(blocks, Block{Kind: KindLineBreak})
		default:
			flushList()
			blocks = append(blocks, Block{Kind: KindParagraph, Spans: ParseSpans(line)})
		}
	}
	flushList()

	return blocks
}

// ParseSpans splits inline text into plain and bold spans. Each
// **X** pair becomes a bold span; unmatched or partial "**" markers
// are kept as literal text.
func ParseSpans(text string) []Span {
	var spans []Span

	appendSpan := func(s string, bold bool) {
		if s == "" {
			return
		}
		// Merge with the previous span when the emphasis matches, so
		// literal "**" leftovers don't fragment the output.
		if n := len(spans); n > 0 && spans[n-1].Bold == bold {
			spans[n-1].Text += s
			return
		}
		spans = append(spans, Span{Text: s, Bold: bold})
	}

	rest := text
	for {
		open := strings.Index(rest, "**")
		if open < 0 {
			appendSpan(rest, false)
			break
		}
		closing := strings.Index(rest[open+2:], "**")
		if closing < 0 {
			// No closing marker: everything from here is literal.
			appendSpan(rest, false)
			break
		}
		appendSpan(rest[:open], false)
		appendSpan(rest[open+2:open+2+closing], true)
		rest = rest[open+2+closing+2:]
	}

	return spans
}

// PlainText flattens a block sequence back into unstyled text, one
// line per paragraph or list item. Useful for logs and tests.
func PlainText(blocks []Block) string {
	var b strings.Builder
	for _, blk := range blocks {
		switch blk.Kind {
		case KindParagraph:
			b.WriteString(spansText(blk.Spans))
			b.WriteString("\n")
		case KindList:
			for _, item := range blk.Items {
				b.WriteString("- ")
				b.WriteString(spansText(item))
				b.WriteString("\n")
			}
		case KindLineBreak:
			b.WriteString("\n")
		}
	}
	return b.String()
}

func spansText(spans []Span) string {
	var b strings.Builder
	for _, s := range spans {
		b.WriteString(s.Text)
	}
	return b.String()
}
