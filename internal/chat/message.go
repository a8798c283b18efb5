// Package chat owns the active conversation: its message list, the
// exchange state machine, and the thread directory.
package chat

import (
	"strings"
	"time"

	"github.com/ingres-ai/hydrotalk/internal/api"
)

// Role distinguishes the two message authors. Roles are assigned at
// creation and never change.
type Role string

const (
	RoleUser Role = "user"
	RoleBot  Role = "bot"
)

// TransientPrefix marks the ids of synthetic status messages so they
// are provably distinguishable from persisted messages.
const TransientPrefix = "status-"

// Message is one entry of the active conversation.
type Message struct {
	ID        string
	Role      Role
	Content   string
	Timestamp string
	Metadata  *api.Metadata
}

// Transient reports whether the message is a synthetic status caption
// rather than a persisted message.
func (m Message) Transient() bool {
	return strings.HasPrefix(m.ID, TransientPrefix)
}

// roleForSender is the single canonical mapping from the backend's
// sender enumeration to local roles. Both send reconciliation and
// thread loading go through it so the two paths cannot diverge.
func roleForSender(sender string) Role {
	if sender == "USER" {
		return RoleUser
	}
	return RoleBot
}

// fromWire converts a backend message into the local shape.
func fromWire(m api.WireMessage) Message {
	return Message{
		ID:        m.ID,
		Role:      roleForSender(m.Sender),
		Content:   m.Content,
		Timestamp: m.CreatedAt,
		Metadata:  m.Metadata,
	}
}

// historyRole maps a local role to the agent endpoint's history roles.
func historyRole(r Role) string {
	if r == RoleUser {
		return "user"
	}
	return "assistant"
}

// now returns the client-side timestamp for optimistic messages.
func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}
