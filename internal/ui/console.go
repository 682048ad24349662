package ui

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/muesli/cancelreader"
	"github.com/muesli/termenv"

	"github.com/cerebraai/cerebra/internal/logging"
	"github.com/cerebraai/cerebra/internal/term"
)

// Agent is the narrow collaborator surface the console consumes. Reply may
// take seconds and must embed failures in the returned text; Activities and
// TickIdle are called once per render tick and must not block.
type Agent interface {
	Name() string
	Activities() map[string]float64
	TickIdle()
	Reply(history []Message) string
}

// Options configures the console. Zero values pick working defaults.
type Options struct {
	Rows int
	Cols int
	// Tick is the render period.
	Tick time.Duration
	// Output receives escape sequences and grid rows. Defaults to a
	// buffered writer over stdout.
	Output io.Writer
	// Input supplies keystrokes. Defaults to stdin.
	Input io.Reader
	// InputFd is the descriptor toggled into raw mode. Defaults to stdin.
	InputFd int
	// RawInput controls whether the reader switches the terminal into raw
	// mode for each line. Disabled in tests driving Input from memory.
	RawInput bool
	Logger   logging.Logger
}

func (o *Options) setDefaults() {
	if o.Cols <= 0 || o.Rows <= 0 {
		o.Cols, o.Rows = term.Size(int(os.Stdout.Fd()))
	}
	if o.Tick <= 0 {
		o.Tick = 100 * time.Millisecond
	}
	if o.Output == nil {
		o.Output = bufio.NewWriter(os.Stdout)
		o.Input = os.Stdin
		o.InputFd = int(os.Stdin.Fd())
		o.RawInput = true
	}
	if o.Input == nil {
		o.Input = os.Stdin
	}
	if o.Logger == nil {
		o.Logger = logging.Nop{}
	}
}

// Console owns the interface lifecycle: it starts and stops the render loop,
// runs the input reader on the calling goroutine, and dispatches submitted
// lines to the reply worker.
type Console struct {
	agent   Agent
	opts    Options
	buf     *term.Buffer
	history *History
	input   *inputState
	table   *statusPanel
	chat    *chatPanel

	stop chan struct{}
	done chan struct{}
}

// NewConsole builds a console around the agent.
func NewConsole(agent Agent, opts Options) *Console {
	opts.setDefaults()
	c := &Console{
		agent:   agent,
		opts:    opts,
		buf:     term.NewBuffer(opts.Rows, opts.Cols, opts.Output),
		history: NewHistory(),
		input:   &inputState{},
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	c.table = newStatusPanel(agent.Name(), agent.Activities)
	c.chat = &chatPanel{history: c.history}
	return c
}

// History exposes the transcript, mainly for the plain-mode CLI and tests.
func (c *Console) History() *History { return c.history }

// Run clears the screen, starts the render loop, and consumes input lines
// until the reader reports an exit or the context is canceled. Shutdown stops
// the render loop with a bounded join and leaves the cursor below the drawn
// region.
func (c *Console) Run(ctx context.Context) error {
	ctx = logging.WithSessionID(ctx, logging.NewSessionID())
	c.opts.Logger.Info(ctx, "console started",
		logging.Field("agent", c.agent.Name()),
		logging.Field("rows", c.opts.Rows),
		logging.Field("cols", c.opts.Cols),
	)

	fmt.Fprintf(c.opts.Output, termenv.CSI+termenv.EraseDisplaySeq, 2)
	fmt.Fprintf(c.opts.Output, termenv.CSI+termenv.CursorPositionSeq, 1, 1)
	c.flushOutput()

	c.history.Append(Message{
		Role: RoleSystem,
		Text: "Type a message and press Enter. Ctrl+C to exit.",
	})

	// Context cancellation must unblock the keystroke read, so the input
	// goes through a cancelable reader watched by a small goroutine.
	if cr, err := cancelreader.NewReader(c.opts.Input); err == nil {
		c.opts.Input = cr
		watchDone := make(chan struct{})
		defer close(watchDone)
		defer cr.Close()
		go func() {
			select {
			case <-ctx.Done():
				cr.Cancel()
			case <-watchDone:
			}
		}()
	}

	go c.renderLoop()

	for {
		line, ok := c.readLine()
		if !ok {
			break
		}
		c.input.Set("")
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		c.dispatch(ctx, line)
	}

	c.shutdown(ctx)
	return nil
}

func (c *Console) shutdown(ctx context.Context) {
	close(c.stop)
	select {
	case <-c.done:
	case <-time.After(2 * time.Second):
		c.opts.Logger.Warn(ctx, "render loop did not stop in time")
	}
	// Park the cursor below the prompt so the shell resumes cleanly.
	fmt.Fprintf(c.opts.Output, termenv.CSI+termenv.CursorPositionSeq, promptRow+2, 1)
	fmt.Fprint(c.opts.Output, "\nGoodbye.\n")
	c.flushOutput()
	c.opts.Logger.Info(ctx, "console stopped")
}

func (c *Console) flushOutput() {
	if f, ok := c.opts.Output.(interface{ Flush() error }); ok {
		_ = f.Flush()
	}
}

// renderLoop redraws the full screen region on a fixed tick until the stop
// signal fires. A panic inside one tick is swallowed so a single bad render
// never kills the animation.
func (c *Console) renderLoop() {
	defer close(c.done)
	ticker := time.NewTicker(c.opts.Tick)
	defer ticker.Stop()
	for {
		c.renderTick()
		select {
		case <-c.stop:
			return
		case <-ticker.C:
		}
	}
}

func (c *Console) renderTick() {
	defer func() {
		_ = recover()
	}()
	c.agent.TickIdle()
	c.table.update(c.buf)
	c.chat.update(c.buf)
	c.input.update(c.buf)
	c.buf.Flush(0, promptRow+1)
	// Reposition the hardware cursor onto the input line so it tracks the
	// typing position, not the last flushed row.
	fmt.Fprintf(c.opts.Output, termenv.CSI+termenv.CursorPositionSeq, promptRow+1, c.input.CursorCol())
	c.flushOutput()
}

// readLine consumes raw keystrokes until return, publishing the in-progress
// line through the shared input state after every key. Returning ok=false
// means the user asked to exit (interrupt or EOF), distinct from an empty
// line.
func (c *Console) readLine() (line string, ok bool) {
	read := func() (string, bool) {
		var edit []rune
		var pending []byte
		buf := make([]byte, 1)
		for {
			n, err := c.opts.Input.Read(buf)
			if err != nil {
				return "", false
			}
			if n == 0 {
				continue
			}
			switch b := buf[0]; {
			case b == '\r' || b == '\n':
				return string(edit), true
			case b == 0x03 || b == 0x04: // Ctrl+C / Ctrl+D
				return "", false
			case b == 0x7f || b == 0x08: // DEL / BS
				pending = pending[:0]
				if len(edit) > 0 {
					edit = edit[:len(edit)-1]
				}
			case b >= 0x20:
				// Bytes arrive one at a time; buffer until they form a
				// complete UTF-8 sequence so the edit state stays runes.
				pending = append(pending, b)
				if !utf8.FullRune(pending) {
					continue
				}
				r, size := utf8.DecodeRune(pending)
				pending = pending[:0]
				if r == utf8.RuneError && size == 1 {
					continue
				}
				edit = append(edit, r)
			}
			c.input.Set(string(edit))
		}
	}

	if !c.opts.RawInput {
		return read()
	}
	err := term.WithRaw(c.opts.InputFd, func() error {
		line, ok = read()
		return nil
	})
	if err != nil {
		return "", false
	}
	return line, ok
}

// dispatch appends the user entry, then runs the reply collaborator on its
// own goroutine while animating a thinking marker through the input state.
// A worker that dies without reporting yields a placeholder instead of
// blocking the console forever.
func (c *Console) dispatch(ctx context.Context, line string) {
	c.history.Append(Message{Role: RoleUser, Text: line})
	c.input.Set("")

	result := make(chan string, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				result <- "(no response)"
			}
		}()
		result <- c.agent.Reply(c.history.Snapshot())
	}()

	dots := 0
	for {
		select {
		case reply := <-result:
			c.history.Append(Message{Role: RoleAssistant, Text: reply, Name: c.agent.Name()})
			c.input.Set("")
			c.opts.Logger.Debug(ctx, "reply appended", logging.Field("chars", len(reply)))
			return
		case <-ctx.Done():
			c.input.Set("")
			return
		case <-time.After(300 * time.Millisecond):
			dots = dots%3 + 1
			c.input.Set("Thinking" + strings.Repeat(".", dots))
		}
	}
}
