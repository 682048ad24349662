package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	glam "github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/cerebraai/cerebra/internal/brain"
	"github.com/cerebraai/cerebra/internal/dashboard"
	"github.com/cerebraai/cerebra/internal/llm"
	"github.com/cerebraai/cerebra/internal/ui"
)

func newChatCmd() *cobra.Command {
	var (
		brainName string
		noVisual  bool
	)
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Start interactive chat (default shows the live console)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			agent, err := buildAgent(brainName)
			if err != nil {
				return err
			}
			if noVisual {
				return plainChat(cmd.InOrStdin(), cmd.OutOrStdout(), agent)
			}
			console := ui.NewConsole(consoleAgent{agent}, ui.Options{})
			return console.Run(cmd.Context())
		},
	}
	cmd.Flags().StringVarP(&brainName, "brain", "b", "", "brain to load (default: first)")
	cmd.Flags().BoolVar(&noVisual, "no-visual", false, "terminal chat only, no live console")
	return cmd
}

func newDashboardCmd() *cobra.Command {
	var brainName string
	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Show live brain metrics",
		RunE: func(_ *cobra.Command, _ []string) error {
			agent, err := buildAgent(brainName)
			if err != nil {
				return err
			}
			if code := dashboard.Run(agent); code != 0 {
				return fmt.Errorf("dashboard exited with code %d", code)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&brainName, "brain", "b", "", "brain to load (default: first)")
	return cmd
}

// consoleAgent adapts the brain agent to the console's collaborator surface,
// converting transcript entries to wire messages. UI-only system lines are
// not forwarded to the model.
type consoleAgent struct {
	*brain.Agent
}

func (a consoleAgent) Reply(history []ui.Message) string {
	messages := make([]llm.Message, 0, len(history))
	for _, m := range history {
		if m.Role == ui.RoleSystem {
			continue
		}
		messages = append(messages, llm.Message{Role: string(m.Role), Content: m.Text})
	}
	return a.Agent.Reply(messages)
}

// plainChat is the no-visual fallback: a line-oriented loop with replies
// rendered as markdown.
func plainChat(in io.Reader, out io.Writer, agent *brain.Agent) error {
	var (
		promptStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("33"))
		nameStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("70"))
		dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	)
	renderer, err := glam.NewTermRenderer(
		glam.WithStylePath("dark"),
		glam.WithWordWrap(80),
	)
	if err != nil {
		renderer = nil
	}

	fmt.Fprintf(out, "CEREBRA - %s (no visual)\n", agent.Name())
	fmt.Fprintln(out, dimStyle.Render("Type a message and press Enter. Ctrl+C or Ctrl+D to exit."))
	fmt.Fprintln(out)

	var history []llm.Message
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, promptStyle.Render("You:")+" ")
		if !scanner.Scan() {
			fmt.Fprintln(out, "\nGoodbye.")
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		history = append(history, llm.Message{Role: "user", Content: line})
		fmt.Fprintln(out, dimStyle.Render("» Thinking..."))
		reply := agent.Reply(history)
		history = append(history, llm.Message{Role: "assistant", Content: reply})

		fmt.Fprintln(out)
		fmt.Fprint(out, nameStyle.Render(agent.Name()+":")+" ")
		if renderer != nil {
			if rendered, err := renderer.Render(reply); err == nil {
				fmt.Fprintln(out, strings.TrimRight(rendered, "\n"))
				fmt.Fprintln(out)
				continue
			}
		}
		fmt.Fprintln(out, reply)
		fmt.Fprintln(out)
	}
}
