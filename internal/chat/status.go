package chat

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// simulateStatus runs the caption sequence: inject a transient bot
// message, dwell, remove it, advance. Cancellation is honored at every
// phase boundary and interrupts a dwell in progress; the caption being
// shown is removed before the function returns, so the settled message
// list never contains a transient entry.
func (s *Session) simulateStatus(ctx context.Context) {
	for _, caption := range s.opts.Captions {
		if ctx.Err() != nil {
			return
		}

		id := TransientPrefix + uuid.NewString()
		s.appendTransient(id, caption)
		s.changed()

		timer := time.NewTimer(s.opts.Dwell)
		select {
		case <-ctx.Done():
			timer.Stop()
			s.removeMessage(id)
			s.changed()
			return
		case <-timer.C:
			s.removeMessage(id)
			s.changed()
		}
	}
}

func (s *Session) appendTransient(id, caption string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, Message{
		ID:        id,
		Role:      RoleBot,
		Content:   caption,
		Timestamp: now(),
	})
}

// removeMessage deletes a message by identity, preserving order.
func (s *Session) removeMessage(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, m := range s.messages {
		if m.ID == id {
			s.messages = append(s.messages[:i], s.messages[i+1:]...)
			return
		}
	}
}
