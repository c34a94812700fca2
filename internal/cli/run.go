package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/vcrobe/nojs-history/config"
	"github.com/vcrobe/nojs-history/internal/scenario"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	ConfigPath string
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{}

	cmd := &cobra.Command{
		Use:   "run <scenario.yaml>",
		Short: "Replay a navigation scenario",
		Long: `Replay a YAML navigation scenario against an in-memory history stack
and print the trace of history calls, pop events, confirmations and location
changes.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScenario(rootOpts, opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", "", "router config file (.toml, .yaml)")

	return cmd
}

func runScenario(rootOpts *RootOptions, opts *RunOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    rootOpts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   rootOpts.Verbose,
	}

	cfg := config.Default()
	if opts.ConfigPath != "" {
		loaded, err := config.Load(opts.ConfigPath)
		if err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeConfig, "failed to load config", err)
		}
		cfg = loaded
		formatter.VerboseLog("Loaded config %s", opts.ConfigPath)
	}

	s, err := scenario.Load(path)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeScenario, "failed to load scenario", err)
	}
	formatter.VerboseLog("Running scenario %q (%d steps)", s.Name, len(s.Steps))

	res, err := scenario.Run(s,
		scenario.WithConfig(cfg),
		scenario.WithLogger(newLogger(rootOpts, cmd, cfg.LogLevel)),
	)
	if err != nil {
		return formatter.Fail(ExitFailure, ErrCodeRun, "scenario failed", err)
	}

	return formatter.Success(res, strings.Join(res.Trace, "\n"))
}
