// Package dashboard shows live brain metrics in a full-screen Bubble Tea
// view: per-stream activity bars, mood, memory fill, and LLM usage.
package dashboard

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/cerebraai/cerebra/internal/brain"
)

// Source is the slice of the agent the dashboard reads. Polled on every
// refresh tick.
type Source interface {
	Name() string
	Activities() map[string]float64
	TickIdle()
	Metrics() brain.Metrics
}

type refreshMsg struct{}

func refreshTick() tea.Cmd {
	return tea.Tick(500*time.Millisecond, func(time.Time) tea.Msg { return refreshMsg{} })
}

type model struct {
	source Source
	spin   spinner.Model
	width  int
	height int
	ready  bool

	activities map[string]float64
	metrics    brain.Metrics

	border lipgloss.Style
	title  lipgloss.Style
	label  lipgloss.Style
	value  lipgloss.Style
	dim    lipgloss.Style
}

func newModel(source Source) *model {
	sp := spinner.New()
	sp.Spinner = spinner.Pulse
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("63"))
	return &model{
		source:     source,
		spin:       sp,
		activities: source.Activities(),
		metrics:    source.Metrics(),
		border:     lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("63")).Padding(1, 2),
		title:      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63")),
		label:      lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
		value:      lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		dim:        lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
	}
}

func (m *model) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, refreshTick())
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		}
		return m, nil
	case refreshMsg:
		m.source.TickIdle()
		m.activities = m.source.Activities()
		m.metrics = m.source.Metrics()
		return m, refreshTick()
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}
	return m, nil
}

// activityBar renders v in [0,1] as a ten-glyph bar.
func activityBar(v float64) string {
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	n := int(v * 10)
	return strings.Repeat("█", n) + strings.Repeat("░", 10-n)
}

func (m *model) moodLine() string {
	if len(m.metrics.Mood) == 0 {
		return "—"
	}
	type trait struct {
		name  string
		value float64
	}
	traits := make([]trait, 0, len(m.metrics.Mood))
	for k, v := range m.metrics.Mood {
		traits = append(traits, trait{k, v})
	}
	sort.Slice(traits, func(i, j int) bool {
		if traits[i].value != traits[j].value {
			return traits[i].value > traits[j].value
		}
		return traits[i].name < traits[j].name
	})
	if len(traits) > 4 {
		traits = traits[:4]
	}
	parts := make([]string, 0, len(traits))
	for _, t := range traits {
		parts = append(parts, fmt.Sprintf("%s %.2f", t.name, t.value))
	}
	return strings.Join(parts, " | ")
}

func (m *model) View() string {
	if !m.ready {
		return "Initializing…"
	}
	var b strings.Builder
	b.WriteString(m.title.Render(fmt.Sprintf("CEREBRA %s — Brain Metrics", m.source.Name())))
	b.WriteString("  " + m.spin.View())
	b.WriteString("\n\n")

	streams := []string{"emotional", "logical", "memory", "inspiration", "consciousness", "heartbeat"}
	for _, s := range streams {
		v := m.activities[s]
		b.WriteString(fmt.Sprintf("%s [%s] %s\n",
			m.label.Render(fmt.Sprintf("%-13s", s)),
			activityBar(v),
			m.value.Render(fmt.Sprintf("%.2f", v)),
		))
	}

	b.WriteString("\n")
	b.WriteString(m.label.Render("Mood        ") + " " + m.value.Render(m.moodLine()) + "\n")
	b.WriteString(m.label.Render("Memory      ") + " " + m.value.Render(
		fmt.Sprintf("ST: %d/%d", m.metrics.ShortTerm, m.metrics.ShortTermCap)) + "\n")
	b.WriteString(m.label.Render("Inspiration ") + " " + m.value.Render(
		fmt.Sprintf("active: %t", m.metrics.Inspiration)) + "\n")
	b.WriteString(m.label.Render("LLM         ") + " " + m.value.Render(
		fmt.Sprintf("%s | tokens: %d", m.metrics.Model, m.metrics.TokensUsed)) + "\n")
	b.WriteString(m.label.Render("Pulse       ") + " " + m.value.Render(
		fmt.Sprintf("%.2f", m.metrics.Pulse)) + "\n")

	b.WriteString("\n" + m.dim.Render("q to quit"))
	return m.border.Render(b.String())
}

// Run launches the dashboard and blocks until it exits. Returns a
// POSIX-style exit code.
func Run(source Source) int {
	// Fixed profile avoids OSC queries contaminating stdin.
	lipgloss.SetColorProfile(termenv.TrueColor)
	lipgloss.SetHasDarkBackground(true)

	p := tea.NewProgram(newModel(source), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintln(os.Stderr, "dashboard error:", err)
		return 1
	}
	return 0
}
