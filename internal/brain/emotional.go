package brain

import (
	"strings"
	"sync"
)

// defaultTraits seeds the mood when a brain file carries no profile.
var defaultTraits = map[string]float64{
	"curious":    0.7,
	"creative":   0.6,
	"focused":    0.5,
	"empathetic": 0.6,
}

// EmotionalSelf holds the mood state: baseline traits plus light drift from
// interactions. Values stay clamped to [0,1].
type EmotionalSelf struct {
	mu      sync.Mutex
	current map[string]float64
}

func NewEmotionalSelf(traits map[string]float64) *EmotionalSelf {
	if len(traits) == 0 {
		traits = defaultTraits
	}
	current := make(map[string]float64, len(traits))
	for k, v := range traits {
		current[k] = clamp01(v)
	}
	return &EmotionalSelf{current: current}
}

// UpdateFromInteraction drifts the mood slightly: a long reply bumps
// creativity, a question bumps curiosity.
func (e *EmotionalSelf) UpdateFromInteraction(content, response string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(response) > 200 {
		e.nudge("creative", 0.02)
	}
	if strings.Contains(content, "?") {
		e.nudge("curious", 0.02)
	}
}

func (e *EmotionalSelf) nudge(trait string, delta float64) {
	if v, ok := e.current[trait]; ok {
		e.current[trait] = clamp01(v + delta)
	}
}

// Mood returns a copy of the current mood map.
func (e *EmotionalSelf) Mood() map[string]float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make(map[string]float64, len(e.current))
	for k, v := range e.current {
		out[k] = v
	}
	return out
}

// Dominant returns the strongest trait and its value.
func (e *EmotionalSelf) Dominant() (string, float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	var name string
	var best float64 = -1
	for k, v := range e.current {
		if v > best || (v == best && k < name) {
			name, best = k, v
		}
	}
	if best < 0 {
		return "", 0
	}
	return name, best
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
