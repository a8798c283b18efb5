package chat

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/ingres-ai/hydrotalk/internal/api"
)

// Directory owns the listing of the user's conversation threads.
type Directory struct {
	client   *api.Client
	notify   Notifier
	onSelect func(api.Thread)

	mu      sync.Mutex
	threads []api.Thread
	active  string
}

// NewDirectory creates a directory bound to the backend client.
// onSelect observes thread selection (may be nil).
func NewDirectory(client *api.Client, notify Notifier, onSelect func(api.Thread)) *Directory {
	if notify == nil {
		notify = func(string, string) {}
	}
	return &Directory{client: client, notify: notify, onSelect: onSelect}
}

// List fetches the thread listing. On failure the previous listing is
// retained and the error surfaced as a notification.
func (d *Directory) List(ctx context.Context) ([]api.Thread, error) {
	threads, err := d.client.ListChats(ctx)
	if err != nil {
		d.notify("Error", "Failed to fetch chats")
		return d.Threads(), fmt.Errorf("fetch chats: %w", err)
	}

	d.mu.Lock()
	d.threads = threads
	d.mu.Unlock()
	return threads, nil
}

// Threads returns a snapshot of the last successful listing.
func (d *Directory) Threads() []api.Thread {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]api.Thread, len(d.threads))
	copy(out, d.threads)
	return out
}

// Select makes the thread active and reports it to the observer.
func (d *Directory) Select(t api.Thread) {
	d.mu.Lock()
	d.active = t.ID
	d.mu.Unlock()
	if d.onSelect != nil {
		d.onSelect(t)
	}
}

// Active returns the selected thread id, empty when none is selected.
func (d *Directory) Active() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.active
}

// SetActive records the active thread id without invoking the
// observer, for adoption of server-assigned ids after a first send.
func (d *Directory) SetActive(id string) {
	d.mu.Lock()
	d.active = id
	d.mu.Unlock()
}

// FilterThreads returns the threads whose title contains query,
// case-insensitively. An empty query returns the input unchanged.
func FilterThreads(threads []api.Thread, query string) []api.Thread {
	if query == "" {
		return threads
	}
	q := strings.ToLower(query)
	out := make([]api.Thread, 0, len(threads))
	for _, t := range threads {
		if strings.Contains(strings.ToLower(t.Title), q) {
			out = append(out, t)
		}
	}
	return out
}
