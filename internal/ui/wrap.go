package ui

import "strings"

// wrapText breaks text into lines of at most width runes. Explicit newlines
// start a new paragraph; each paragraph breaks at the last space that fits,
// and unbroken tokens longer than the width are hard-broken so the loop
// always makes progress. A non-positive width yields no lines.
func wrapText(text string, width int) []string {
	if width <= 0 {
		return nil
	}
	var lines []string
	for _, paragraph := range strings.Split(text, "\n") {
		remaining := []rune(paragraph)
		for len(remaining) > 0 {
			if len(remaining) <= width {
				lines = append(lines, string(remaining))
				break
			}
			chunk := remaining
			if len(chunk) > width+1 {
				chunk = chunk[:width+1]
			}
			lastSpace := -1
			for i := len(chunk) - 1; i >= 0; i-- {
				if chunk[i] == ' ' {
					lastSpace = i
					break
				}
			}
			if lastSpace > 0 {
				// Trimming can empty the segment when the paragraph opens
				// with spaces; emit no line for it rather than a blank row.
				if seg := strings.TrimRight(string(remaining[:lastSpace]), " "); seg != "" {
					lines = append(lines, seg)
				}
				remaining = []rune(strings.TrimLeft(string(remaining[lastSpace+1:]), " "))
			} else {
				lines = append(lines, string(remaining[:width]))
				remaining = remaining[width:]
			}
		}
	}
	return lines
}
