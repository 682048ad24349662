package ui

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/cerebraai/cerebra/internal/term"
)

func TestPhaseTriangleWave(t *testing.T) {
	t.Parallel()

	require.Equal(t, 0, phaseAt(0))
	require.Equal(t, 4, phaseAt(4))
	require.Equal(t, 7, phaseAt(7.9))
	require.Equal(t, 8, phaseAt(8))
	require.Equal(t, 4, phaseAt(12))
	require.Equal(t, 0, phaseAt(16))
	require.Equal(t, 4, phaseAt(20))
}

func TestPhaseIsPeriodicAndBounded(t *testing.T) {
	t.Parallel()

	for tv := 0.0; tv < 64; tv += 0.25 {
		p := phaseAt(tv)
		require.GreaterOrEqual(t, p, 0)
		require.LessOrEqual(t, p, 8)
		require.Equal(t, p, phaseAt(tv+16), "period 16 in t units (8 seconds)")
	}
}

func TestBarFill(t *testing.T) {
	t.Parallel()

	require.Equal(t, strings.Repeat("░", 8), bar(0.0, 8))
	require.Equal(t, strings.Repeat("█", 8), bar(1.0, 8))
	require.Equal(t, strings.Repeat("█", 4)+strings.Repeat("░", 4), bar(0.5, 8))
	require.Equal(t, strings.Repeat("░", 8), bar(-3, 8))
	require.Equal(t, strings.Repeat("█", 8), bar(7, 8))
}

func TestBarFillFloorsFractionalCells(t *testing.T) {
	t.Parallel()

	// 0.9*8 = 7.2 truncates to 7 filled cells, never rounds up to 8.
	require.Equal(t, strings.Repeat("█", 7)+"░", bar(0.9, 8))
	require.Equal(t, strings.Repeat("░", 8), bar(0.12, 8))
	require.Equal(t, "█"+strings.Repeat("░", 7), bar(0.24, 8))
}

func fixedActivities(v map[string]float64) func() map[string]float64 {
	return func() map[string]float64 { return v }
}

func TestStatusPanelLayout(t *testing.T) {
	t.Parallel()

	buf := term.NewBuffer(60, 80, &bytes.Buffer{})
	p := newStatusPanel("Mother", fixedActivities(map[string]float64{
		"emotional":     1.0,
		"logical":       0.0,
		"memory":        0.5,
		"inspiration":   0.25,
		"consciousness": 0.75,
	}))
	p.now = func() time.Time { return time.Unix(0, 0) }

	p.update(buf)

	top := strings.TrimRight(buf.Line(0), " ")
	require.Equal(t, "╔"+strings.Repeat("═", leftPanelWidth-2)+"╗", top)
	require.Contains(t, buf.Line(1), "║ CEREBRA - Mother")
	require.Equal(t, "╠"+strings.Repeat("═", leftPanelWidth-2)+"╣", strings.TrimRight(buf.Line(2), " "))

	// Every table line is exactly the left panel width before the padding.
	for r := 0; r < tableHeight; r++ {
		line := strings.TrimRight(buf.Line(r), " ")
		require.Len(t, []rune(line), leftPanelWidth, "row %d: %q", r, line)
	}

	require.Contains(t, buf.Line(3), "Emotional")
	require.Contains(t, buf.Line(3), strings.Repeat("█", 8))
	require.Contains(t, buf.Line(4), "Logical")
	require.Contains(t, buf.Line(4), strings.Repeat("░", 8))
	require.Contains(t, buf.Line(5), strings.Repeat("█", 4)+strings.Repeat("░", 4))

	// Heartbeat row uses the time-derived phase, not an activity value.
	require.Contains(t, buf.Line(8), "♥ Heartbeat")
	require.Contains(t, buf.Line(8), strings.Repeat("░", 8))

	require.Equal(t, strings.Repeat("─", buf.Cols()), buf.Line(dividerRow))
}

func TestStatusPanelHeartbeatFollowsClock(t *testing.T) {
	t.Parallel()

	buf := term.NewBuffer(60, 80, &bytes.Buffer{})
	p := newStatusPanel("x", fixedActivities(nil))
	// t = seconds*2; 2.5s -> phase 5.
	p.now = func() time.Time { return time.Unix(0, 0).Add(2500 * time.Millisecond) }

	p.update(buf)
	require.Contains(t, buf.Line(8), strings.Repeat("█", 5)+strings.Repeat("░", 3))
}

func TestChatPanelShowsNewestAtBottom(t *testing.T) {
	t.Parallel()

	history := NewHistory()
	buf := term.NewBuffer(60, 40, &bytes.Buffer{})
	p := &chatPanel{history: history}

	capacity := chatEndRow - chatStartRow + 1
	for i := 0; i < capacity+10; i++ {
		history.Append(Message{Role: RoleUser, Text: strings.Repeat("m", 3)})
	}
	history.Append(Message{Role: RoleAssistant, Text: "latest", Name: "Mother"})

	p.update(buf)

	require.Equal(t, "Mother: latest", strings.TrimRight(buf.Line(chatEndRow), " "))
	// Region is full: first visible row holds an older (scrolled) entry.
	require.Equal(t, "You: mmm", strings.TrimRight(buf.Line(chatStartRow), " "))
}

func TestChatPanelWrapsLongMessages(t *testing.T) {
	t.Parallel()

	history := NewHistory()
	buf := term.NewBuffer(60, 10, &bytes.Buffer{})
	p := &chatPanel{history: history}

	history.Append(Message{Role: RoleUser, Text: "aaaa bbbb cccc"})
	p.update(buf)

	// "You: aaaa bbbb cccc" wraps at 10 columns into three rows.
	require.Equal(t, "You: aaaa", strings.TrimRight(buf.Line(chatStartRow), " "))
	require.Equal(t, "bbbb cccc", strings.TrimRight(buf.Line(chatStartRow+1), " "))
}

func TestChatPanelBlankFillsUnusedRows(t *testing.T) {
	t.Parallel()

	history := NewHistory()
	buf := term.NewBuffer(60, 20, &bytes.Buffer{})
	p := &chatPanel{history: history}

	history.Append(Message{Role: RoleUser, Text: "hi"})
	p.update(buf)

	require.Equal(t, "You: hi", strings.TrimRight(buf.Line(chatStartRow), " "))
	for r := chatStartRow + 1; r <= chatEndRow; r++ {
		require.Equal(t, "", strings.TrimRight(buf.Line(r), " "))
	}
}

func TestInputStateCursorColumn(t *testing.T) {
	t.Parallel()

	s := &inputState{}
	require.Equal(t, len(youPrefix)+1, s.CursorCol())

	s.Set("abc")
	require.Equal(t, len(youPrefix)+3+1, s.CursorCol())

	buf := term.NewBuffer(60, 30, &bytes.Buffer{})
	s.update(buf)
	require.Equal(t, "You: abc", strings.TrimRight(buf.Line(promptRow), " "))
}

func TestInputStateCursorCountsRunes(t *testing.T) {
	t.Parallel()

	s := &inputState{}
	s.Set("héllo")
	require.Equal(t, len(youPrefix)+5+1, s.CursorCol())
}
