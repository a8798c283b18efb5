package chat

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/ingres-ai/hydrotalk/internal/api"
)

// State identifies the exchange state machine's position.
type State int

const (
	// StateIdle accepts new submissions.
	StateIdle State = iota
	// StateSending has a request in flight; further submits are no-ops.
	StateSending
	// StateReceivedOK is the settled outcome of a successful exchange.
	StateReceivedOK
	// StateReceivedError is the settled outcome of a failed exchange.
	StateReceivedError
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSending:
		return "sending"
	case StateReceivedOK:
		return "received-ok"
	case StateReceivedError:
		return "received-error"
	default:
		return "unknown"
	}
}

// Notifier receives non-blocking user-facing notifications.
type Notifier func(title, detail string)

// Options configures a Session.
type Options struct {
	// Captions is the ordered status-simulation sequence. Defaults to
	// the three INGRES processing captions.
	Captions []string
	// Dwell is how long each caption stays visible. Defaults to 5s.
	Dwell time.Duration
	// Notify surfaces errors as ephemeral notifications.
	Notify Notifier
	// OnChange fires after every message-list or state mutation, so a
	// UI can repaint. Called without the session lock held.
	OnChange func()
	// OnThread fires when a first send creates a brand-new thread and
	// the session adopts its id (the navigation event).
	OnThread func(id string)
}

// defaultCaptions mirrors the INGRES processing phases.
var defaultCaptions = []string{
	"Interpreting your query...",
	"Searching INGRES portal for relevant data...",
	"Analyzing the data and preparing insights...",
}

// Session owns the active thread's message list and drives the
// exchange state machine. The list is mutated only by this type;
// concurrent sends are prevented by the Sending guard.
type Session struct {
	client *api.Client
	opts   Options

	mu       sync.Mutex
	state    State
	outcome  State
	threadID string
	messages []Message
}

// NewSession creates a session bound to the backend client.
func NewSession(client *api.Client, opts Options) *Session {
	if len(opts.Captions) == 0 {
		opts.Captions = defaultCaptions
	}
	if opts.Dwell <= 0 {
		opts.Dwell = 5 * time.Second
	}
	if opts.Notify == nil {
		opts.Notify = func(string, string) {}
	}
	return &Session{client: client, opts: opts}
}

// SetOnThread replaces the new-thread observer. Must be called before
// the first Send.
func (s *Session) SetOnThread(fn func(id string)) {
	s.opts.OnThread = fn
}

// State returns the current state machine position.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Outcome returns how the most recent exchange settled: StateReceivedOK,
// StateReceivedError, or StateIdle when nothing has settled yet.
func (s *Session) Outcome() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.outcome
}

// ThreadID returns the active thread id, empty for a fresh conversation.
func (s *Session) ThreadID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.threadID
}

// Messages returns a snapshot of the current message list.
func (s *Session) Messages() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// Send submits the user's text to the agent.
//
// Non-empty trimmed text appends an optimistic user message before any
// network I/O, then the status simulation and the real request run
// concurrently. On success the local list is replaced wholesale by the
// server's canonical list; on failure the optimistic message stays and
// one notification is emitted. Empty input and re-entrant submits are
// no-ops. The session always returns to Idle once the request settles.
func (s *Session) Send(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	s.mu.Lock()
	if s.state == StateSending {
		s.mu.Unlock()
		return nil
	}
	s.state = StateSending
	optimistic := Message{
		ID:        strconv.FormatInt(time.Now().UnixMilli(), 10),
		Role:      RoleUser,
		Content:   text,
		Timestamp: now(),
	}
	s.messages = append(s.messages, optimistic)
	history := s.historyLocked()
	threadID := s.threadID
	s.mu.Unlock()
	s.changed()

	// Run the caption sequence until the request settles. The derived
	// context is the cooperative stop signal; Send waits for the
	// goroutine to exit before reconciling, so a transient caption can
	// never outlive the exchange.
	simCtx, stopSim := context.WithCancel(ctx)
	simDone := make(chan struct{})
	go func() {
		defer close(simDone)
		s.simulateStatus(simCtx)
	}()

	thread, err := s.client.ChatWithAgent(ctx, api.AgentRequest{
		Query:         text,
		PreviousChats: history,
		ChatID:        threadID,
	})
	stopSim()
	<-simDone

	if err != nil {
		s.settle(StateReceivedError)
		s.opts.Notify("Error", "AI service overloaded. Try again.")
		return fmt.Errorf("chat with agent: %w", err)
	}

	canonical := make([]Message, 0, len(thread.Messages))
	for _, m := range thread.Messages {
		canonical = append(canonical, fromWire(m))
	}

	s.mu.Lock()
	s.messages = canonical
	newThread := ""
	if threadID == "" && thread.ID != "" {
		s.threadID = thread.ID
		newThread = thread.ID
	}
	s.mu.Unlock()

	s.settle(StateReceivedOK)
	if newThread != "" && s.opts.OnThread != nil {
		s.opts.OnThread(newThread)
	}
	return nil
}

// LoadThread replaces the local list with the given thread's history
// and makes it the active thread. On failure the previous list is
// retained and a notification is emitted.
func (s *Session) LoadThread(ctx context.Context, id string) error {
	wire, err := s.client.ChatMessages(ctx, id)
	if err != nil {
		s.opts.Notify("Error", "Failed to fetch messages")
		return fmt.Errorf("fetch messages: %w", err)
	}

	msgs := make([]Message, 0, len(wire))
	for _, m := range wire {
		msgs = append(msgs, fromWire(m))
	}

	s.mu.Lock()
	s.messages = msgs
	s.threadID = id
	s.mu.Unlock()
	s.changed()
	return nil
}

// Reset clears the message list and active thread id, starting a
// fresh, untitled conversation.
func (s *Session) Reset() {
	s.mu.Lock()
	s.messages = nil
	s.threadID = ""
	s.outcome = StateIdle
	s.mu.Unlock()
	s.changed()
}

// historyLocked builds the prior-conversation payload: every non-empty
// persisted or optimistic message in order. Transient captions never
// reach the wire. Caller holds s.mu.
func (s *Session) historyLocked() []api.HistoryItem {
	history := make([]api.HistoryItem, 0, len(s.messages))
	for _, m := range s.messages {
		if m.Transient() || strings.TrimSpace(m.Content) == "" {
			continue
		}
		history = append(history, api.HistoryItem{
			Role:    historyRole(m.Role),
			Content: m.Content,
		})
	}
	return history
}

// settle records the exchange outcome and returns to Idle.
func (s *Session) settle(outcome State) {
	s.mu.Lock()
	s.outcome = outcome
	s.state = StateIdle
	s.mu.Unlock()
	s.changed()
}

func (s *Session) changed() {
	if s.opts.OnChange != nil {
		s.opts.OnChange()
	}
}
