package tui

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ingres-ai/hydrotalk/internal/api"
	"github.com/ingres-ai/hydrotalk/internal/chat"
)

// newTestModel builds the chat screen against a stub backend.
func newTestModel(t *testing.T, handler http.Handler) Model {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client := api.New(srv.URL, 0)
	sess := chat.NewSession(client, chat.Options{Dwell: time.Millisecond})
	dir := chat.NewDirectory(client, nil, nil)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(sess, dir, nil, logger, make(chan uiEvent, 8))
}

func TestSubmit_WhitespaceOnlyIsNoOp(t *testing.T) {
	var calls atomic.Int64
	m := newTestModel(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	m.input.SetValue("   ")

	updated, cmd := m.submit()
	m = updated.(Model)

	assert.Nil(t, cmd)
	assert.False(t, m.sending)
	assert.Equal(t, "   ", m.input.Value())
	assert.Zero(t, calls.Load())
}

func TestSubmit_InFlightKeepsTypedText(t *testing.T) {
	release := make(chan struct{})
	mux := http.NewServeMux()
	mux.HandleFunc("POST /chat/chat-with-agent", func(w http.ResponseWriter, r *http.Request) {
		<-release
		json.NewEncoder(w).Encode(map[string]api.AgentThread{"chat": {ID: "t1"}})
	})
	m := newTestModel(t, mux)

	m.input.SetValue("first question")
	updated, cmd := m.submit()
	m = updated.(Model)
	require.NotNil(t, cmd)
	assert.True(t, m.sending)
	assert.Empty(t, m.input.Value())

	done := make(chan tea.Msg, 1)
	go func() { done <- cmd() }()
	require.Eventually(t, func() bool {
		return m.session.State() == chat.StateSending
	}, time.Second, time.Millisecond)

	// A second enter while the reply is pending must leave the typed
	// text in the input line.
	m.input.SetValue("second question")
	updated, cmd = m.submit()
	m = updated.(Model)
	assert.Nil(t, cmd)
	assert.Equal(t, "second question", m.input.Value())

	close(release)
	<-done
}
