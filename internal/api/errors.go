// Package api error types for backend operations.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Sentinel errors for backend operations.
// Use errors.Is() to check for these errors in calling code.
var (
	// ErrBadCredentials indicates the backend rejected a sign-in.
	ErrBadCredentials = errors.New("invalid credentials")

	// ErrAccountExists indicates a sign-up conflict for an existing account.
	ErrAccountExists = errors.New("account already exists")

	// ErrUnauthorized indicates a missing or expired token on an
	// authenticated endpoint.
	ErrUnauthorized = errors.New("not authenticated")
)

// StatusError is a non-2xx backend response.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("backend error: %d - %s", e.Code, e.Message)
	}
	return fmt.Sprintf("backend error: %d %s", e.Code, http.StatusText(e.Code))
}

// Is maps 401 responses onto ErrUnauthorized so call sites can use
// errors.Is without inspecting status codes.
func (e *StatusError) Is(target error) bool {
	return target == ErrUnauthorized && e.Code == http.StatusUnauthorized
}

// newStatusError builds a StatusError, extracting the backend's error
// message from common body shapes ({"message": ...} or {"error": ...}).
func newStatusError(code int, body []byte) error {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	msg := ""
	if err := json.Unmarshal(body, &payload); err == nil {
		msg = payload.Message
		if msg == "" {
			msg = payload.Error
		}
	}
	if msg == "" {
		msg = strings.TrimSpace(string(body))
		if len(msg) > 200 {
			msg = msg[:200]
		}
	}
	return &StatusError{Code: code, Message: msg}
}

// authError wraps 4xx auth responses with the given sentinel so
// callers can distinguish credential failures from transport errors.
func authError(err error, sentinel error) error {
	var statusErr *StatusError
	if errors.As(err, &statusErr) && statusErr.Code >= 400 && statusErr.Code < 500 {
		return fmt.Errorf("%w: %s", sentinel, statusErr.Message)
	}
	return err
}
