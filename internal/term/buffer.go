// Package term owns the low-level terminal surface: a fixed-size character
// grid flushed with absolute cursor positioning, plus raw-mode handling.
package term

import (
	"fmt"
	"io"
	"strings"

	"github.com/muesli/termenv"
	xterm "golang.org/x/term"
)

// Fallback dimensions when the terminal size cannot be detected.
const (
	DefaultCols = 200
	DefaultRows = 60
)

// Size reports the terminal dimensions for the given descriptor, falling back
// to the defaults when the query fails.
func Size(fd int) (cols, rows int) {
	cols, rows, err := xterm.GetSize(fd)
	if err != nil || cols <= 0 || rows <= 0 {
		return DefaultCols, DefaultRows
	}
	return cols, rows
}

// Buffer is a rows x cols rune grid representing the terminal screen. Rows
// are always exactly cols runes wide. The buffer performs no locking; callers
// serialize access (a single goroutine mutates and flushes it).
type Buffer struct {
	rows int
	cols int
	grid [][]rune
	w    io.Writer
}

// NewBuffer allocates a space-filled grid that flushes to w.
func NewBuffer(rows, cols int, w io.Writer) *Buffer {
	b := &Buffer{rows: rows, cols: cols, w: w}
	b.Clear()
	return b
}

func (b *Buffer) Rows() int { return b.rows }
func (b *Buffer) Cols() int { return b.cols }

// Clear fills the entire grid with spaces.
func (b *Buffer) Clear() {
	b.grid = make([][]rune, b.rows)
	for r := range b.grid {
		line := make([]rune, b.cols)
		for c := range line {
			line[c] = ' '
		}
		b.grid[r] = line
	}
}

// WriteCell writes one rune at (row, col), 0-based. Out of range is a no-op.
func (b *Buffer) WriteCell(row, col int, ch rune) {
	if row < 0 || row >= b.rows || col < 0 || col >= b.cols {
		return
	}
	b.grid[row][col] = ch
}

// WriteLine writes text at the given row, padded with spaces to the full
// width. Text longer than the width is cut either way; a logical row never
// spans multiple physical rows, so wrapping is the caller's responsibility.
func (b *Buffer) WriteLine(row int, text string, truncate bool) {
	if row < 0 || row >= b.rows {
		return
	}
	runes := []rune(text)
	line := b.grid[row]
	for c := 0; c < b.cols; c++ {
		if c < len(runes) {
			line[c] = runes[c]
		} else {
			line[c] = ' '
		}
	}
}

// Line returns the current content of a row, or "" when out of range.
func (b *Buffer) Line(row int) string {
	if row < 0 || row >= b.rows {
		return ""
	}
	return string(b.grid[row])
}

// Flush emits rows [startRow, endRow) to the terminal: one absolute
// cursor-positioning escape, then consecutive line writes, then a stream
// flush. Safe to call repeatedly with overlapping ranges from one goroutine.
func (b *Buffer) Flush(startRow, endRow int) {
	if startRow < 0 {
		startRow = 0
	}
	if endRow > b.rows {
		endRow = b.rows
	}
	if startRow >= endRow {
		return
	}
	var sb strings.Builder
	sb.Grow((endRow - startRow) * (b.cols + 1))
	// Move to (startRow+1, 1) in 1-based terminal coordinates so a partial
	// flush does not overwrite from the home position.
	fmt.Fprintf(&sb, termenv.CSI+termenv.CursorPositionSeq, startRow+1, 1)
	for r := startRow; r < endRow; r++ {
		sb.WriteString(string(b.grid[r]))
		sb.WriteByte('\n')
	}
	_, _ = io.WriteString(b.w, sb.String())
	if f, ok := b.w.(interface{ Flush() error }); ok {
		_ = f.Flush()
	}
}
