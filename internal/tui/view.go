package tui

import (
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/lipgloss"

	"github.com/ingres-ai/hydrotalk/internal/api"
	"github.com/ingres-ai/hydrotalk/internal/chat"
	"github.com/ingres-ai/hydrotalk/internal/markup"
)

const sidebarWidth = 32

// Theme holds the color scheme for the chat screen.
type Theme struct {
	Accent lipgloss.Color
	Bot    lipgloss.Color
	Status lipgloss.Color
	Hint   lipgloss.Color
	Badge  lipgloss.Color
	Error  lipgloss.Color
}

// defaultTheme provides default colors.
var defaultTheme = Theme{
	Accent: lipgloss.Color("#5FAFD7"), // light blue
	Bot:    lipgloss.Color("#00D787"), // green
	Status: lipgloss.Color("#AF87FF"), // purple
	Hint:   lipgloss.Color("#6C6C6C"), // dim gray
	Badge:  lipgloss.Color("#FFAF00"), // amber
	Error:  lipgloss.Color("#FF005F"), // red
}

func (t Theme) userStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Accent).Bold(true)
}

func (t Theme) botStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Bot).Bold(true)
}

func (t Theme) statusStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Status).Italic(true)
}

func (t Theme) hintStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Hint).Italic(true)
}

func (t Theme) badgeStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Badge)
}

func (t Theme) selectedStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Accent).Bold(true)
}

// View renders the full chat screen.
func (m Model) View() tea.View {
	sidebar := m.renderSidebar()
	main := m.renderMain()
	screen := lipgloss.JoinHorizontal(lipgloss.Top, sidebar, main)
	return tea.NewView(screen)
}

// renderSidebar builds the thread listing column.
func (m Model) renderSidebar() string {
	var b strings.Builder

	b.WriteString(m.theme.botStyle().Render("Chat History"))
	b.WriteString("\n")
	b.WriteString(m.search.View())
	b.WriteString("\n\n")

	filtered := chat.FilterThreads(m.threads, m.search.Value())
	if len(filtered) == 0 {
		b.WriteString(m.theme.hintStyle().Render("No conversations yet"))
		b.WriteString("\n")
	}
	for i, thread := range filtered {
		line := truncate(thread.Title, sidebarWidth-6)
		when := formatWhen(thread.UpdatedAt)
		if when != "" {
			line = fmt.Sprintf("%s  %s", line, m.theme.hintStyle().Render(when))
		}
		switch {
		case thread.ID == m.directory.Active():
			line = "● " + line
		default:
			line = "  " + line
		}
		if m.focus == focusSidebar && i == m.cursor {
			line = m.theme.selectedStyle().Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if user := m.store.User(); user != nil {
		b.WriteString(m.theme.hintStyle().Render("signed in as "+user.Email) + "\n")
	}
	b.WriteString(m.theme.hintStyle().Render("ctrl+n new · tab focus"))

	return lipgloss.NewStyle().
		Width(sidebarWidth).
		Height(m.height).
		BorderStyle(lipgloss.NormalBorder()).
		BorderRight(true).
		BorderForeground(m.theme.Hint).
		Render(b.String())
}

// renderMain builds the conversation pane plus input line.
func (m Model) renderMain() string {
	mainWidth := m.width - sidebarWidth - 2
	if mainWidth < 20 {
		mainWidth = 20
	}

	title := m.activeTitle()
	header := m.theme.botStyle().Render(title) + "\n" +
		m.theme.hintStyle().Render("Ask questions about groundwater data") + "\n"

	paneHeight := m.height - 5
	if paneHeight < 3 {
		paneHeight = 3
	}
	pane := m.renderMessages(mainWidth, paneHeight)

	input := m.input.View()
	if m.sending {
		input = m.spin.View() + " " + input
	}

	status := ""
	if m.toast != "" {
		status = m.theme.statusStyle().Render(m.toast)
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, pane, input, status)
}

// renderMessages renders the scrollable conversation window.
func (m Model) renderMessages(width, height int) string {
	var lines []string
	for _, msg := range m.session.Messages() {
		lines = append(lines, m.renderMessage(msg, width)...)
		lines = append(lines, "")
	}

	if len(lines) == 0 {
		empty := m.theme.hintStyle().Render("Start a new conversation about India's groundwater.")
		lines = []string{empty}
	}

	// Window the last `height` lines, shifted up by the scroll offset.
	end := len(lines) - m.scroll*height/2
	if end > len(lines) {
		end = len(lines)
	}
	if end < 0 {
		end = 0
	}
	start := end - height
	if start < 0 {
		start = 0
	}
	window := lines[start:end]

	return lipgloss.NewStyle().Height(height).Render(strings.Join(window, "\n"))
}

// renderMessage converts one message into display lines: a speaker
// label, the formatted body, and an optional provenance badge.
func (m Model) renderMessage(msg chat.Message, width int) []string {
	var label string
	switch {
	case msg.Transient():
		return []string{m.theme.statusStyle().Render(msg.Content)}
	case msg.Role == chat.RoleUser:
		label = m.theme.userStyle().Render("You")
	default:
		label = m.theme.botStyle().Render("INGRES AI")
	}

	body := renderBlocks(markup.Parse(msg.Content), width-2)
	lines := []string{label}
	for _, l := range strings.Split(strings.TrimRight(body, "\n"), "\n") {
		lines = append(lines, "  "+l)
	}

	if badge := metadataBadge(msg.Metadata); badge != "" {
		lines = append(lines, "  "+m.theme.badgeStyle().Render(badge))
	}
	return lines
}

// renderBlocks turns parsed markup blocks into styled terminal text.
func renderBlocks(blocks []markup.Block, width int) string {
	if width < 10 {
		width = 10
	}
	bold := lipgloss.NewStyle().Bold(true)
	wrap := lipgloss.NewStyle().Width(width)

	var b strings.Builder
	for _, blk := range blocks {
		switch blk.Kind {
		case markup.KindParagraph:
			b.WriteString(wrap.Render(renderSpans(blk.Spans, bold)))
			b.WriteString("\n")
		case markup.KindList:
			for _, item := range blk.Items {
				b.WriteString(wrap.Render("• " + renderSpans(item, bold)))
				b.WriteString("\n")
			}
		case markup.KindLineBreak:
			b.WriteString("\n")
		}
	}
	return b.String()
}

func renderSpans(spans []markup.Span, bold lipgloss.Style) string {
	var b strings.Builder
	for _, s := range spans {
		if s.Bold {
			b.WriteString(bold.Render(s.Text))
		} else {
			b.WriteString(s.Text)
		}
	}
	return b.String()
}

// metadataBadge formats provenance annotations like the dashboard's
// source badge.
func metadataBadge(md *api.Metadata) string {
	if md == nil {
		return ""
	}
	parts := make([]string, 0, 3)
	if md.Source != "" {
		parts = append(parts, md.Source)
	}
	if md.Year != 0 {
		parts = append(parts, fmt.Sprintf("%d", md.Year))
	}
	if md.Region != "" {
		parts = append(parts, md.Region)
	}
	if len(parts) == 0 {
		return ""
	}
	return "[" + strings.Join(parts, " · ") + "]"
}

// activeTitle resolves the header title from the selected thread.
func (m Model) activeTitle() string {
	active := m.directory.Active()
	for _, t := range m.threads {
		if t.ID == active {
			return t.Title
		}
	}
	return "New Chat"
}

// formatWhen renders an ISO timestamp as a short date for the sidebar.
func formatWhen(iso string) string {
	ts, err := time.Parse(time.RFC3339, iso)
	if err != nil {
		return ""
	}
	return ts.Format("Jan 2")
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if max <= 1 || len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}
