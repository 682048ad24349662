package brain

import "sync"

// Turn is one remembered conversational exchange half.
type Turn struct {
	Role    string
	Content string
}

// Memory is the short-term conversation buffer: a fixed-capacity ring that
// evicts the oldest turn when full. Long-term storage lives outside this
// process.
type Memory struct {
	mu       sync.Mutex
	capacity int
	turns    []Turn
}

const defaultShortTermCapacity = 7

func NewMemory(capacity int) *Memory {
	if capacity <= 0 {
		capacity = defaultShortTermCapacity
	}
	return &Memory{capacity: capacity}
}

func (m *Memory) Add(role, content string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.turns = append(m.turns, Turn{Role: role, Content: content})
	if len(m.turns) > m.capacity {
		m.turns = m.turns[1:]
	}
}

// Recent returns a copy of the buffered turns, oldest first.
func (m *Memory) Recent() []Turn {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Turn(nil), m.turns...)
}

func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.turns)
}

func (m *Memory) Capacity() int { return m.capacity }
