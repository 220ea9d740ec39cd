package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"drillcli/internal/config"
	"drillcli/internal/infrastructure"
	"drillcli/pkg/contracts"
)

// rootOptions carries the state shared by every subcommand. It is filled
// in by the root PersistentPreRunE before a subcommand runs.
type rootOptions struct {
	configPath string
	logLevel   string

	cfg    *config.Config
	logger *slog.Logger
}

// newRootCmd builds the command tree. A fresh tree per call keeps flag
// state out of package globals.
func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "drillcli",
		Short: "Drill-hole desurvey engine",
		Long: `drillcli turns collar, survey and interval tables into 3D positions.

Every interval row is located at its "to" depth by walking the hole from
the collar, one tangential step per row using the survey station at or
above that depth. Gaps between intervals are filled with synthetic rows so
no step exceeds the maximum infill length.

Configuration comes from defaults, an optional YAML file and DESURVEY_*
environment variables. Command-line flags take precedence over both.`,
		Version:       contracts.Version,
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.load(cmd)
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "YAML config file (default: desurvey.yaml or configs/desurvey.yaml)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn, error")

	cmd.AddCommand(
		newRunCmd(opts),
		newServeCmd(opts),
		newPlanCmd(opts),
		newVersionCmd(),
	)
	return cmd
}

// load resolves configuration and the logger
func (o *rootOptions) load(cmd *cobra.Command) error {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("log-level") {
		cfg.Logging.Level = o.logLevel
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid --log-level: %w", err)
		}
	}

	// Logs go to stderr so results piped from stdout stay clean
	if cfg.Logging.Output == "console" {
		o.logger = infrastructure.NewLogger(cfg.Logging.Level, cmd.ErrOrStderr())
	} else {
		o.logger, err = infrastructure.InitializeLogger(cfg.Logging)
		if err != nil {
			return err
		}
	}

	o.cfg = cfg
	return nil
}
