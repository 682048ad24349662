// Package cli wires the cobra command tree around the brain runtime.
package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cerebraai/cerebra/internal/brain"
	"github.com/cerebraai/cerebra/internal/config"
	"github.com/cerebraai/cerebra/internal/llm"
	"github.com/cerebraai/cerebra/internal/logging"
)

// Version is stamped at release time.
const Version = "0.3.0"

// Execute runs the CLI with the provided arguments and returns a POSIX-style
// exit code.
func Execute(args []string, stdout, stderr io.Writer) int {
	if stdout == nil {
		stdout = io.Discard
	}
	if stderr == nil {
		stderr = io.Discard
	}

	root := newRootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "cerebra",
		Short:         "Terminal-resident brain agent",
		Long:          "Cerebra runs a brain matrix (emotional, logical, memory, inspiration, consciousness) behind a live terminal console.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return config.LoadEnv()
		},
	}
	root.AddCommand(
		newChatCmd(),
		newDashboardCmd(),
		newServeCmd(),
		newInitCmd(),
		newStatusCmd(),
		newListCmd(),
		newDiagnoseCmd(),
		newExportCmd(),
		newVersionCmd(),
	)
	return root
}

// buildAgent loads the named brain and assembles the agent around it.
func buildAgent(name string) (*brain.Agent, error) {
	cfg, err := config.Load(name)
	if err != nil {
		return nil, err
	}
	client, err := llm.NewClient(config.APIKey(), cfg.LLM.Model, cfg.APIBase())
	if err != nil {
		return nil, err
	}
	client.SetSampling(cfg.LLM.MaxTokens, cfg.LLM.Temperature)
	return brain.New(brain.Options{
		Name:   cfg.Name,
		Client: client,
		Traits: cfg.Traits,
		Logger: fileLogger(),
	}), nil
}

// fileLogger logs to ~/.cerebra/logs/cerebra.log; the console owns stdout,
// so logs must never go there. Falls back to a no-op logger.
func fileLogger() logging.Logger {
	dir := filepath.Join(config.Dir(), "logs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return logging.Nop{}
	}
	f, err := os.OpenFile(filepath.Join(dir, "cerebra.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return logging.Nop{}
	}
	return logging.NewWriterLogger(logging.LevelInfo, f)
}
