package ui

import (
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/cerebraai/cerebra/internal/term"
)

// heartbeatPhase maps wall-clock time to the decorative pulse phase. It is a
// pure function of "now" so the pulse animates regardless of agent state.
func heartbeatPhase(now time.Time) int {
	t := float64(now.UnixNano()) / float64(time.Second) * 2
	return phaseAt(t)
}

// phaseAt computes the triangle wave: rising floor(t) for t in [0,8), falling
// floor(16-t) for t in [8,16), period 16 in t units, clamped to [0,8].
func phaseAt(t float64) int {
	cycle := math.Mod(t, 16)
	if cycle < 0 {
		cycle += 16
	}
	var phase int
	if cycle < 8 {
		phase = int(cycle)
	} else {
		phase = int(16 - cycle)
	}
	if phase < 0 {
		phase = 0
	}
	if phase > 8 {
		phase = 8
	}
	return phase
}

// bar renders a value in [0,1] as a fixed-width run of filled/empty glyphs.
func bar(v float64, width int) string {
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	n := int(v * float64(width))
	return strings.Repeat("█", n) + strings.Repeat("░", width-n)
}

// clipRunes cuts s to at most n runes.
func clipRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// padRunes pads s with spaces to exactly n runes, cutting when longer.
func padRunes(s string, n int) string {
	r := []rune(s)
	if len(r) >= n {
		return string(r[:n])
	}
	return s + strings.Repeat(" ", n-len(r))
}

// statusPanel renders the bordered activity table into rows [0, tableHeight)
// plus the divider row. It reads a fresh activity snapshot each update and is
// otherwise stateless.
type statusPanel struct {
	name       string
	activities func() map[string]float64
	now        func() time.Time
}

func newStatusPanel(name string, activities func() map[string]float64) *statusPanel {
	return &statusPanel{name: name, activities: activities, now: time.Now}
}

func (p *statusPanel) update(buf *term.Buffer) {
	activities := p.activities()
	get := func(key string, fallback float64) float64 {
		if v, ok := activities[key]; ok {
			return v
		}
		return fallback
	}
	rows := []struct {
		label string
		value float64
	}{
		{"Emotional", get("emotional", 0.5)},
		{"Logical", get("logical", 0.5)},
		{"Memory", get("memory", 0.0)},
		{"Inspiration", get("inspiration", 0.5)},
		{"Consciousness", get("consciousness", 0.5)},
		{"♥ Heartbeat", 0.0},
	}

	w := leftPanelWidth
	lines := []string{
		"╔" + strings.Repeat("═", w-2) + "╗",
		padRunes(clipRunes("║ CEREBRA - "+p.name, w-1), w-1) + "║",
		"╠" + strings.Repeat("═", w-2) + "╣",
	}
	phase := heartbeatPhase(p.now())
	for _, row := range rows {
		var fill string
		if row.label == "♥ Heartbeat" {
			fill = strings.Repeat("█", phase) + strings.Repeat("░", barWidth-phase)
		} else {
			fill = bar(row.value, barWidth)
		}
		line := fmt.Sprintf("║ %s [%s]", padRunes(clipRunes(row.label, 14), 14), fill)
		lines = append(lines, clipRunes(padRunes(clipRunes(line, w-1), w-1)+"║", w))
	}
	lines = append(lines, "╚"+strings.Repeat("═", w-2)+"╝")

	for r, line := range lines {
		if r < tableHeight {
			buf.WriteLine(tableStart+r, line, true)
		}
	}
	buf.WriteLine(dividerRow, strings.Repeat("─", buf.Cols()), true)
}

// chatPanel projects the history onto the transcript region: every message is
// prefixed, word-wrapped at the buffer width, and the most recent wrapped
// lines fill the region bottom-aligned to the newest entry.
type chatPanel struct {
	history *History
}

func (p *chatPanel) wrappedLines(cols int) []string {
	var lines []string
	for _, m := range p.history.Snapshot() {
		var prefix string
		switch {
		case m.Role == RoleUser:
			prefix = youPrefix
		case m.Role == RoleAssistant && m.Name != "":
			prefix = m.Name + ": "
		}
		lines = append(lines, wrapText(prefix+m.Text, cols)...)
	}
	return lines
}

func (p *chatPanel) update(buf *term.Buffer) {
	cols := buf.Cols()
	capacity := chatEndRow - chatStartRow + 1
	all := p.wrappedLines(cols)
	visible := all
	if len(all) > capacity {
		visible = all[len(all)-capacity:]
	}
	for i := 0; i < capacity; i++ {
		text := ""
		if i < len(visible) {
			text = visible[i]
		}
		buf.WriteLine(chatStartRow+i, text, true)
	}
}

// inputState is the in-progress line shared between the input reader and
// dispatcher (writers) and the render loop (reader). It is the only structure
// mutated from two goroutines, so every access goes through the lock; the
// lock is held only for the copy, never across I/O.
type inputState struct {
	mu   sync.Mutex
	text string
}

func (s *inputState) Set(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.text = text
}

func (s *inputState) Get() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.text
}

// CursorCol reports the 1-based terminal column just past the typed text.
func (s *inputState) CursorCol() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(youPrefix) + len([]rune(s.text)) + 1
}

func (s *inputState) update(buf *term.Buffer) {
	buf.WriteLine(promptRow, youPrefix+s.Get(), true)
}
