package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cerebraai/cerebra/internal/api"
	"github.com/cerebraai/cerebra/internal/config"
	"github.com/cerebraai/cerebra/internal/llm"
	"github.com/cerebraai/cerebra/internal/logging"
)

func newServeCmd() *cobra.Command {
	var (
		brainName string
		port      int
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP integration API",
		Long:  "Serves POST /v1/chat, GET /health, GET /v1/brain, and an SSE stream at GET /v1/stream.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			srv, err := api.New(api.Options{
				Brain: brainName,
				Port:  port,
				Build: func(name string) (api.Agent, error) {
					return buildAgent(name)
				},
				Logger: logging.NewWriterLogger(logging.LevelInfo, cmd.ErrOrStderr()),
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "CEREBRA API on http://0.0.0.0:%d\n", srv.Port())
			return srv.Run(cmd.Context())
		},
	}
	cmd.Flags().StringVarP(&brainName, "brain", "b", "", "brain to load (default: first)")
	cmd.Flags().IntVarP(&port, "port", "p", 0, fmt.Sprintf("server port (default %d)", api.DefaultPort))
	return cmd
}

func newDiagnoseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "diagnose <brain>",
		Short: "Run brain diagnostics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			failures := 0
			check := func(label string, err error) {
				if err != nil {
					failures++
					fmt.Fprintf(out, "✗ %s: %v\n", label, err)
					return
				}
				fmt.Fprintf(out, "✓ %s\n", label)
			}

			cfg, err := config.Load(args[0])
			check("brain file loads and validates", err)
			if err != nil {
				return fmt.Errorf("diagnostics failed (%d checks)", failures)
			}

			var keyErr error
			if config.APIKey() == "" {
				keyErr = errors.New("CEREBRA_API_KEY / OPENAI_API_KEY not set")
			}
			check("API key configured", keyErr)

			_, clientErr := llm.NewClient(config.APIKey(), cfg.LLM.Model, cfg.APIBase())
			check(fmt.Sprintf("LLM client (%s @ %s)", cfg.LLM.Model, cfg.APIBase()), clientErr)

			if failures > 0 {
				return fmt.Errorf("diagnostics failed (%d checks)", failures)
			}
			fmt.Fprintf(out, "Brain %q looks healthy.\n", cfg.Name)
			return nil
		},
	}
}
