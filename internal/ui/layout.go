// Package ui renders the brain console: a status table, a scrolling chat
// transcript, and a fixed input line drawn into one shared grid buffer by a
// background render loop while the foreground reads raw keystrokes.
package ui

// Screen layout contract (0-based row indices). Fixed, not data-driven;
// preserved exactly for visual compatibility with earlier releases.
const (
	tableStart     = 0
	tableHeight    = 9
	dividerRow     = 9
	chatStartRow   = 10
	chatEndRow     = 56 // inclusive; 47 lines of visible history
	promptRow      = 57 // "You: " + input fixed at the bottom
	leftPanelWidth = 34
	barWidth       = 8
)

const youPrefix = "You: "
