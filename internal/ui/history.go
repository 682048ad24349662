package ui

import "sync"

// Role enumerates the chat roles shown in the transcript.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Message is one transcript entry. Name is the display name used for the
// assistant prefix.
type Message struct {
	Role Role
	Text string
	Name string
}

// History is the append-only chat log. Entries are appended by the input
// path and the reply worker and never deleted; readers take a snapshot copy
// so renders never observe a partially updated slice.
type History struct {
	mu      sync.RWMutex
	entries []Message
}

func NewHistory() *History {
	return &History{}
}

func (h *History) Append(m Message) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = append(h.entries, m)
}

// Snapshot returns a copy of all entries, oldest first.
func (h *History) Snapshot() []Message {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return append([]Message(nil), h.entries...)
}

func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.entries)
}
