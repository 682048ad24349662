package term

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewBufferRowsAreExactlyCols(t *testing.T) {
	t.Parallel()

	for _, dims := range [][2]int{{1, 1}, {3, 7}, {60, 200}} {
		buf := NewBuffer(dims[0], dims[1], &bytes.Buffer{})
		for r := 0; r < dims[0]; r++ {
			require.Len(t, []rune(buf.Line(r)), dims[1], "rows=%d cols=%d row=%d", dims[0], dims[1], r)
		}
	}
}

func TestWriteLineAlwaysYieldsFullWidth(t *testing.T) {
	t.Parallel()

	buf := NewBuffer(3, 10, &bytes.Buffer{})

	buf.WriteLine(0, "hi", true)
	require.Equal(t, "hi        ", buf.Line(0))

	buf.WriteLine(1, "this text is far too long", true)
	require.Equal(t, "this text ", buf.Line(1))

	buf.WriteLine(2, "this text is far too long", false)
	require.Len(t, []rune(buf.Line(2)), 10)
}

func TestWriteLineHandlesWideRunes(t *testing.T) {
	t.Parallel()

	buf := NewBuffer(1, 8, &bytes.Buffer{})
	buf.WriteLine(0, "♥ beat █░", true)
	require.Equal(t, "♥ beat █", buf.Line(0))
	require.Len(t, []rune(buf.Line(0)), 8)
}

func TestWriteCellOutOfRangeIsNoOp(t *testing.T) {
	t.Parallel()

	buf := NewBuffer(2, 4, &bytes.Buffer{})
	before := []string{buf.Line(0), buf.Line(1)}

	buf.WriteCell(-1, 0, 'x')
	buf.WriteCell(2, 0, 'x')
	buf.WriteCell(0, -1, 'x')
	buf.WriteCell(0, 4, 'x')

	require.Equal(t, before, []string{buf.Line(0), buf.Line(1)})
}

func TestWriteCellInRange(t *testing.T) {
	t.Parallel()

	buf := NewBuffer(2, 4, &bytes.Buffer{})
	buf.WriteCell(1, 2, 'x')
	require.Equal(t, "  x ", buf.Line(1))
}

func TestWriteLineOutOfRangeIsNoOp(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	buf := NewBuffer(2, 4, &out)
	buf.WriteLine(-1, "nope", true)
	buf.WriteLine(2, "nope", true)
	require.Equal(t, "    ", buf.Line(0))
	require.Equal(t, "    ", buf.Line(1))
}

func TestFlushEmitsPositioningEscapeAndRows(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	buf := NewBuffer(3, 4, &out)
	buf.WriteLine(1, "ab", true)

	buf.Flush(1, 3)

	got := out.String()
	require.True(t, strings.HasPrefix(got, "\x1b[2;1H"), "expected cursor escape prefix, got %q", got)
	require.Equal(t, "\x1b[2;1H"+"ab  \n"+"    \n", got)
}

func TestFlushClampsInvalidRanges(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	buf := NewBuffer(2, 2, &out)

	buf.Flush(-5, 99)
	require.Equal(t, "\x1b[1;1H"+"  \n"+"  \n", out.String())

	out.Reset()
	buf.Flush(2, 1)
	require.Empty(t, out.String())
}

func TestFlushOverlappingRangesRepeatable(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	buf := NewBuffer(4, 3, &out)
	for i := 0; i < 3; i++ {
		buf.Flush(0, 4)
		buf.Flush(2, 4)
	}
	// Every emission restates its absolute origin, so overlaps cannot drift.
	require.Equal(t, 6, strings.Count(out.String(), "\x1b["))
}

type flushRecorder struct {
	bytes.Buffer
	flushes int
}

func (f *flushRecorder) Flush() error {
	f.flushes++
	return nil
}

func TestFlushDrainsBufferedWriters(t *testing.T) {
	t.Parallel()

	rec := &flushRecorder{}
	buf := NewBuffer(2, 2, rec)
	buf.Flush(0, 2)
	require.Equal(t, 1, rec.flushes)
}

func TestClearResetsEveryCell(t *testing.T) {
	t.Parallel()

	buf := NewBuffer(2, 3, &bytes.Buffer{})
	buf.WriteLine(0, "abc", true)
	buf.Clear()
	for r := 0; r < 2; r++ {
		require.Equal(t, "   ", buf.Line(r), fmt.Sprintf("row %d", r))
	}
}
