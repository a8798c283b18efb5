// Package tui implements the interactive chat screen: a thread
// sidebar with search, the conversation pane, and the input line.
package tui

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"charm.land/bubbles/v2/spinner"
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"

	"github.com/ingres-ai/hydrotalk/internal/api"
	"github.com/ingres-ai/hydrotalk/internal/chat"
	"github.com/ingres-ai/hydrotalk/internal/session"
)

// focusArea identifies which widget receives key input.
type focusArea int

const (
	focusInput focusArea = iota
	focusSearch
	focusSidebar
)

// uiEvent crosses from the chat session's callbacks into the
// bubbletea loop. A zero toast means repaint only.
type uiEvent struct {
	toast string
}

// eventMsg delivers one uiEvent.
type eventMsg uiEvent

// threadsMsg carries a refreshed thread listing.
type threadsMsg struct {
	threads []api.Thread
	err     error
}

// sendDoneMsg signals that a send settled.
type sendDoneMsg struct {
	err error
}

// loadDoneMsg signals that a thread load settled.
type loadDoneMsg struct {
	err error
}

// clearToastMsg expires the status line.
type clearToastMsg struct{}

// Model is the bubbletea model for the chat screen.
type Model struct {
	session   *chat.Session
	directory *chat.Directory
	store     *session.Store
	logger    *slog.Logger

	events chan uiEvent

	input  textinput.Model
	search textinput.Model
	spin   spinner.Model
	theme  Theme

	focus   focusArea
	threads []api.Thread
	cursor  int
	scroll  int
	width   int
	height  int
	toast   string
	sending bool
}

// New assembles the chat screen. The session and directory must have
// been created with the notifier and change callback returned by
// Callbacks, so UI repaints and toasts reach the event loop.
func New(sess *chat.Session, dir *chat.Directory, store *session.Store, logger *slog.Logger, events chan uiEvent) Model {
	input := textinput.New()
	input.Placeholder = "Ask about groundwater data..."
	input.Focus()

	search := textinput.New()
	search.Placeholder = "Search chats..."

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	return Model{
		session:   sess,
		directory: dir,
		store:     store,
		logger:    logger,
		events:    events,
		input:     input,
		search:    search,
		spin:      spin,
		theme:     defaultTheme,
		width:     80,
		height:    24,
	}
}

// Callbacks returns the event channel plus the notifier and
// change/thread callbacks to wire into chat.Options before New.
func Callbacks() (chan uiEvent, chat.Notifier, func(), func(string)) {
	events := make(chan uiEvent, 32)
	post := func(ev uiEvent) {
		select {
		case events <- ev:
		default:
		}
	}

	notify := func(title, detail string) { post(uiEvent{toast: title + ": " + detail}) }
	onChange := func() { post(uiEvent{}) }
	onThread := func(string) { post(uiEvent{}) }
	return events, notify, onChange, onThread
}

// Init starts the spinner, subscribes to session events, and fetches
// the thread listing.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.spin.Tick,
		m.waitEvent(),
		m.fetchThreads(),
	)
}

// Update handles messages and returns the updated model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyPressMsg:
		return m.handleKey(msg)

	case eventMsg:
		if msg.toast != "" {
			m.toast = msg.toast
			return m, tea.Batch(m.waitEvent(), m.expireToast())
		}
		return m, m.waitEvent()

	case threadsMsg:
		if msg.err != nil {
			m.logger.Error("thread listing failed", "error", msg.err)
			return m, nil
		}
		m.threads = msg.threads
		if m.cursor >= len(m.threads) {
			m.cursor = 0
		}
		return m, nil

	case sendDoneMsg:
		m.sending = false
		if msg.err != nil {
			m.logger.Error("send failed", "error", msg.err)
			return m, nil
		}
		// A first send may have created a thread; refresh the sidebar.
		return m, m.fetchThreads()

	case loadDoneMsg:
		if msg.err != nil {
			m.logger.Error("thread load failed", "error", msg.err)
		}
		m.scroll = 0
		return m, nil

	case clearToastMsg:
		m.toast = ""
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}

	return m.updateFocused(msg)
}

// handleKey routes key presses by focus and global bindings.
func (m Model) handleKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit

	case "tab":
		m.focus = (m.focus + 1) % 3
		m.syncFocus()
		return m, nil

	case "ctrl+n":
		// Fresh conversation, like the sidebar "+" button.
		m.session.Reset()
		m.directory.SetActive("")
		m.scroll = 0
		return m, nil

	case "pgup":
		m.scroll++
		return m, nil

	case "pgdown":
		if m.scroll > 0 {
			m.scroll--
		}
		return m, nil
	}

	switch m.focus {
	case focusSidebar:
		return m.handleSidebarKey(msg)
	case focusInput:
		if msg.String() == "enter" {
			return m.submit()
		}
	case focusSearch:
		if msg.String() == "enter" {
			m.focus = focusSidebar
			m.syncFocus()
			return m, nil
		}
	}

	return m.updateFocused(msg)
}

func (m Model) handleSidebarKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	filtered := chat.FilterThreads(m.threads, m.search.Value())

	switch msg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(filtered)-1 {
			m.cursor++
		}
	case "enter":
		if m.cursor < len(filtered) {
			thread := filtered[m.cursor]
			m.directory.Select(thread)
			m.focus = focusInput
			m.syncFocus()
			return m, m.loadThread(thread.ID)
		}
	}
	return m, nil
}

// submit sends the input line's text. Blank input and in-flight sends
// leave the line untouched, so text typed while a reply is pending
// survives the key press.
func (m Model) submit() (tea.Model, tea.Cmd) {
	text := m.input.Value()
	if strings.TrimSpace(text) == "" || m.session.State() == chat.StateSending {
		return m, nil
	}
	m.input.SetValue("")
	m.sending = true
	m.scroll = 0
	return m, m.send(text)
}

// updateFocused forwards a message to the focused text widget.
func (m Model) updateFocused(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.focus {
	case focusInput:
		m.input, cmd = m.input.Update(msg)
	case focusSearch:
		m.search, cmd = m.search.Update(msg)
		m.cursor = 0
	}
	return m, cmd
}

func (m *Model) syncFocus() {
	m.input.Blur()
	m.search.Blur()
	switch m.focus {
	case focusInput:
		m.input.Focus()
	case focusSearch:
		m.search.Focus()
	}
}

// =============================================================================
// COMMANDS
// =============================================================================

// waitEvent blocks on the session event channel. Re-issued after each
// delivery so the subscription stays alive.
func (m Model) waitEvent() tea.Cmd {
	return func() tea.Msg {
		return eventMsg(<-m.events)
	}
}

func (m Model) fetchThreads() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		threads, err := m.directory.List(ctx)
		return threadsMsg{threads: threads, err: err}
	}
}

func (m Model) send(text string) tea.Cmd {
	return func() tea.Msg {
		return sendDoneMsg{err: m.session.Send(context.Background(), text)}
	}
}

func (m Model) loadThread(id string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return loadDoneMsg{err: m.session.LoadThread(ctx, id)}
	}
}

func (m Model) expireToast() tea.Cmd {
	return tea.Tick(4*time.Second, func(time.Time) tea.Msg {
		return clearToastMsg{}
	})
}

// Run wires the chat components to a fresh program and blocks until
// the user quits.
func Run(client *api.Client, store *session.Store, logger *slog.Logger, opts chat.Options) error {
	events, notify, onChange, onThread := Callbacks()

	opts.Notify = notify
	opts.OnChange = onChange
	sess := chat.NewSession(client, opts)

	dir := chat.NewDirectory(client, notify, nil)
	sess.SetOnThread(func(id string) {
		dir.SetActive(id)
		onThread(id)
	})

	model := New(sess, dir, store, logger, events)
	p := tea.NewProgram(model)
	_, err := p.Run()
	return err
}
