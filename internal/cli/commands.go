package cli

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/cerebraai/cerebra/internal/config"
)

func newInitCmd() *cobra.Command {
	var (
		name     string
		provider string
		model    string
	)
	cmd := &cobra.Command{
		Use:     "init",
		Aliases: []string{"onboard"},
		Short:   "Initialize a new brain",
		RunE: func(cmd *cobra.Command, _ []string) error {
			b := &config.Brain{
				Name: name,
				LLM: config.LLM{
					Provider:    provider,
					Model:       model,
					MaxTokens:   8192,
					Temperature: 0.7,
				},
			}
			if err := config.Save(b); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created brain %q (%s/%s) at %s\n",
				b.Name, provider, model, config.BrainPath(b.Name))
			return nil
		},
	}
	cmd.Flags().StringVarP(&name, "name", "n", "default", "brain name")
	cmd.Flags().StringVarP(&provider, "provider", "p", "openai", "LLM provider: openrouter, openai, ollama, local")
	cmd.Flags().StringVarP(&model, "model", "m", "gpt-4o", "model identifier")
	return cmd
}

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show config directory, brains, and API key status",
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			good := lipgloss.NewStyle().Foreground(lipgloss.Color("70"))
			bad := lipgloss.NewStyle().Foreground(lipgloss.Color("196"))

			dir := config.Dir()
			mark := good.Render("✓")
			if _, err := os.Stat(dir); err != nil {
				mark = bad.Render("✗")
			}
			fmt.Fprintf(out, "Home:    %s %s\n", dir, mark)

			keyMark := bad.Render("✗ not set")
			if config.APIKey() != "" {
				keyMark = good.Render("✓ set")
			}
			fmt.Fprintf(out, "API key: %s\n", keyMark)

			brains := config.List()
			fmt.Fprintf(out, "Brains:  %d\n", len(brains))
			for _, b := range brains {
				fmt.Fprintf(out, "  - %s\n", b)
			}
			if len(brains) == 0 {
				fmt.Fprintln(out, "  (none; run 'cerebra init' first)")
			}
			return nil
		},
	}
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"list-brains"},
		Short:   "List created brains",
		RunE: func(cmd *cobra.Command, _ []string) error {
			brains := config.List()
			if len(brains) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No brains. Run 'cerebra init' first.")
				return nil
			}
			for _, b := range brains {
				fmt.Fprintln(cmd.OutOrStdout(), b)
			}
			return nil
		},
	}
}

func newExportCmd() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "export <brain>",
		Short: "Export a brain definition",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.Export(args[0], format)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported to %s\n", path)
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "json", "export format: json, yaml")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "cerebra v%s\n", Version)
		},
	}
}
