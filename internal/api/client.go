// Package api provides the HTTP client for the INGRES AI backend.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client talks to the INGRES AI backend over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
	token      string
}

// New creates a backend client. Base URL and timeout come from the
// configuration layer; a zero timeout falls back to two minutes since
// agent replies can take a while.
func New(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = "http://localhost:5000"
	}
	if timeout == 0 {
		timeout = 2 * time.Minute
	}

	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// SetToken attaches a bearer token to all subsequent requests.
func (c *Client) SetToken(token string) {
	c.token = token
}

// do issues a JSON request and decodes the JSON response into result.
// Non-2xx statuses are returned as *StatusError carrying the backend's
// error message when one is present in the body.
func (c *Client) do(ctx context.Context, method, path string, payload, result any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newStatusError(resp.StatusCode, data)
	}

	if result != nil && len(data) > 0 {
		if err := json.Unmarshal(data, result); err != nil {
			return fmt.Errorf("unmarshal response: %w", err)
		}
	}

	return nil
}

// =============================================================================
// TYPES (matching the backend contract)
// =============================================================================

// Thread is a persisted conversation as listed by the backend.
type Thread struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

// Metadata carries provenance annotations attached by the backend.
type Metadata struct {
	Source string `json:"source,omitempty"`
	Year   int    `json:"year,omitempty"`
	Region string `json:"region,omitempty"`
}

// WireMessage is a message as the backend serializes it. Sender is the
// backend's enumeration ("USER" or the agent's role name).
type WireMessage struct {
	ID        string    `json:"id"`
	Sender    string    `json:"sender"`
	Content   string    `json:"content"`
	CreatedAt string    `json:"createdAt"`
	Metadata  *Metadata `json:"metadata,omitempty"`
}

// HistoryItem is one entry of the prior conversation sent to the agent.
type HistoryItem struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// AgentRequest is the payload for a chat-with-agent exchange.
type AgentRequest struct {
	Query         string        `json:"query"`
	PreviousChats []HistoryItem `json:"previousChats"`
	ChatID        string        `json:"chatId,omitempty"`
}

// AgentThread is the canonical thread returned by a successful exchange.
type AgentThread struct {
	ID       string        `json:"id"`
	Messages []WireMessage `json:"messages"`
}

// =============================================================================
// AUTH OPERATIONS
// =============================================================================

type authRequest struct {
	Name     string `json:"name,omitempty"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Token   string `json:"token"`
	Message string `json:"message"`
}

// SignIn exchanges credentials for an opaque token.
func (c *Client) SignIn(ctx context.Context, email, password string) (string, error) {
	var resp authResponse
	err := c.do(ctx, http.MethodPost, "/auth/signin", authRequest{Email: email, Password: password}, &resp)
	if err != nil {
		return "", authError(err, ErrBadCredentials)
	}
	if resp.Token == "" {
		return "", fmt.Errorf("%w: backend returned no token", ErrBadCredentials)
	}
	return resp.Token, nil
}

// SignUp creates an account and returns its token.
func (c *Client) SignUp(ctx context.Context, name, email, password string) (string, error) {
	var resp authResponse
	err := c.do(ctx, http.MethodPost, "/auth/signup", authRequest{Name: name, Email: email, Password: password}, &resp)
	if err != nil {
		return "", authError(err, ErrAccountExists)
	}
	if resp.Token == "" {
		return "", fmt.Errorf("%w: backend returned no token", ErrAccountExists)
	}
	return resp.Token, nil
}

// =============================================================================
// CHAT OPERATIONS
// =============================================================================

// ListChats returns all conversation threads for the signed-in user.
func (c *Client) ListChats(ctx context.Context) ([]Thread, error) {
	var resp struct {
		Chats []Thread `json:"chats"`
	}
	if err := c.do(ctx, http.MethodGet, "/chat/all", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Chats, nil
}

// ChatMessages returns the full message history of one thread.
func (c *Client) ChatMessages(ctx context.Context, chatID string) ([]WireMessage, error) {
	var resp struct {
		Messages []WireMessage `json:"messages"`
	}
	if err := c.do(ctx, http.MethodGet, "/chat/"+chatID+"/messages", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Messages, nil
}

// ChatWithAgent sends a query plus prior history to the agent and
// returns the canonical thread, including the server ids and ordering
// for every message of the exchange.
func (c *Client) ChatWithAgent(ctx context.Context, req AgentRequest) (*AgentThread, error) {
	var resp struct {
		Chat *AgentThread `json:"chat"`
	}
	if err := c.do(ctx, http.MethodPost, "/chat/chat-with-agent", req, &resp); err != nil {
		return nil, err
	}
	if resp.Chat == nil {
		return nil, fmt.Errorf("malformed agent response: missing chat")
	}
	return resp.Chat, nil
}
