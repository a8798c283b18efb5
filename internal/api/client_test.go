package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_BearerTokenAttached(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(map[string][]Thread{"chats": {}})
	}))
	t.Cleanup(srv.Close)

	c := New(srv.URL, 0)
	c.SetToken("tok-123")

	_, err := c.ListChats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-123", gotAuth)
}

func TestClient_TimeoutHonored(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	t.Cleanup(srv.Close)

	_, err := New(srv.URL, 20*time.Millisecond).ListChats(context.Background())
	require.Error(t, err)
}

func TestSignIn_RequestShapeAndToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/signin", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "asha@ingres.ai", body["email"])
		assert.Equal(t, "secret", body["password"])
		assert.NotContains(t, body, "name")

		json.NewEncoder(w).Encode(map[string]string{"token": "tok-1"})
	}))
	t.Cleanup(srv.Close)

	token, err := New(srv.URL, 0).SignIn(context.Background(), "asha@ingres.ai", "secret")
	require.NoError(t, err)
	assert.Equal(t, "tok-1", token)
}

func TestSignIn_RejectionMapsToBadCredentials(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"message": "wrong password"})
	}))
	t.Cleanup(srv.Close)

	_, err := New(srv.URL, 0).SignIn(context.Background(), "asha@ingres.ai", "nope")
	require.ErrorIs(t, err, ErrBadCredentials)
	assert.Contains(t, err.Error(), "wrong password")
}

func TestSignIn_MissingTokenIsAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"message": "ok but no token"})
	}))
	t.Cleanup(srv.Close)

	_, err := New(srv.URL, 0).SignIn(context.Background(), "asha@ingres.ai", "secret")
	require.ErrorIs(t, err, ErrBadCredentials)
}

func TestStatusError_UnauthorizedSentinel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	t.Cleanup(srv.Close)

	_, err := New(srv.URL, 0).ListChats(context.Background())
	require.ErrorIs(t, err, ErrUnauthorized)
}

func TestChatWithAgent_RoundTrip(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/chat-with-agent", r.URL.Path)

		var req AgentRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "query text", req.Query)
		assert.Equal(t, "t1", req.ChatID)

		json.NewEncoder(w).Encode(map[string]AgentThread{"chat": {
			ID: "t1",
			Messages: []WireMessage{
				{ID: "m1", Sender: "USER", Content: "query text"},
			},
		}})
	}))
	t.Cleanup(srv.Close)

	thread, err := New(srv.URL, 0).ChatWithAgent(context.Background(), AgentRequest{
		Query:         "query text",
		PreviousChats: []HistoryItem{{Role: "user", Content: "query text"}},
		ChatID:        "t1",
	})
	require.NoError(t, err)
	assert.Equal(t, "t1", thread.ID)
	require.Len(t, thread.Messages, 1)
}

func TestChatWithAgent_MissingChatIsMalformed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{})
	}))
	t.Cleanup(srv.Close)

	_, err := New(srv.URL, 0).ChatWithAgent(context.Background(), AgentRequest{Query: "q"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "malformed")
}

func TestChatMessages_Path(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/t42/messages", r.URL.Path)
		json.NewEncoder(w).Encode(map[string][]WireMessage{"messages": {
			{ID: "m1", Sender: "AGENT", Content: "hi", Metadata: &Metadata{Source: "INGRES", Year: 2023}},
		}})
	}))
	t.Cleanup(srv.Close)

	msgs, err := New(srv.URL, 0).ChatMessages(context.Background(), "t42")
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	require.NotNil(t, msgs[0].Metadata)
	assert.Equal(t, 2023, msgs[0].Metadata.Year)
}
