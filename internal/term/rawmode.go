package term

import (
	"fmt"

	xterm "golang.org/x/term"
)

// WithRaw runs fn with the descriptor in raw (unbuffered, no local echo)
// mode, restoring the previous terminal attributes on every exit path,
// panics included.
func WithRaw(fd int, fn func() error) (err error) {
	state, err := xterm.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("term: enter raw mode: %w", err)
	}
	defer func() {
		if restoreErr := xterm.Restore(fd, state); restoreErr != nil && err == nil {
			err = fmt.Errorf("term: restore mode: %w", restoreErr)
		}
	}()
	return fn()
}

// IsTerminal reports whether the descriptor is attached to a terminal.
func IsTerminal(fd int) bool {
	return xterm.IsTerminal(fd)
}
