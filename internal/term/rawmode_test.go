package term

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWithRawReportsBadDescriptor(t *testing.T) {
	t.Parallel()

	called := false
	err := WithRaw(-1, func() error {
		called = true
		return nil
	})
	require.Error(t, err)
	require.False(t, called, "fn must not run when raw mode cannot be entered")
}

func TestSizeFallsBackToDefaults(t *testing.T) {
	t.Parallel()

	cols, rows := Size(-1)
	require.Equal(t, DefaultCols, cols)
	require.Equal(t, DefaultRows, rows)
}
