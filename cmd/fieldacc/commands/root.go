// Package commands implements the fieldacc command line interface.
package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/hupe1980/fieldacc"
	"github.com/hupe1980/fieldacc/internal/config"
	"github.com/hupe1980/fieldacc/prommetrics"
	"github.com/hupe1980/fieldacc/resource"
)

var (
	// Version information injected at build time.
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// app carries state shared by all subcommands of one invocation.
type app struct {
	cfgFile string

	cfg       *config.Config
	logger    *fieldacc.Logger
	rc        *resource.Controller
	registry  *prometheus.Registry
	collector *prommetrics.Collector
}

// NewRootCommand builds the command tree.
func NewRootCommand() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "fieldacc",
		Short: "Reduce replicated field accumulators",
		Long: `fieldacc sums replicated accumulator arrays into their first replica.

Arrays are stored as dumps in a local directory, an S3 bucket or a MinIO
bucket. Every setting can be given in the config file or overridden with
FIELDACC_<SECTION>_<KEY> environment variables.

Use "fieldacc [command] --help" for more information about a command.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default: $XDG_CONFIG_HOME/fieldacc/config.yaml)")

	root.AddCommand(
		newVersionCommand(),
		newConfigCommand(a),
		newGenCommand(a),
		newReduceCommand(a),
		newInspectCommand(a),
		newListCommand(a),
	)

	return root
}

// Execute runs the root command until it finishes or a signal arrives.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return NewRootCommand().ExecuteContext(ctx)
}

// setup loads configuration and builds the logger, resource controller and
// optional metrics registry.
func (a *app) setup(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.cfgFile)
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.logger = cfg.Logger()
	a.rc = resource.NewController(cfg.ResourceConfig())

	if cfg.Metrics.Enabled {
		a.registry = prometheus.NewRegistry()
		a.collector = prommetrics.NewCollector(a.registry)
	}

	a.logger.Debug("configuration loaded", "source", a.configSource(), "store", cfg.Store.Kind)
	return nil
}

// teardown flushes metrics after a successful command.
func (a *app) teardown(cmd *cobra.Command, _ []string) error {
	if a.registry == nil {
		return nil
	}
	return writeMetrics(a.registry, a.cfg.Metrics.Output, cmd.ErrOrStderr())
}

// reducerOptions combines the config with the runtime collaborators.
func (a *app) reducerOptions() ([]fieldacc.Option, error) {
	opts, err := a.cfg.ReducerOptions()
	if err != nil {
		return nil, err
	}
	opts = append(opts,
		fieldacc.WithLogger(a.logger),
		fieldacc.WithResourceController(a.rc),
	)
	if a.collector != nil {
		opts = append(opts, fieldacc.WithMetricsCollector(a.collector))
	}
	return opts, nil
}

func (a *app) configSource() string {
	if a.cfgFile != "" {
		return a.cfgFile
	}
	if _, err := os.Stat(config.DefaultConfigPath()); err == nil {
		return config.DefaultConfigPath()
	}
	return "defaults"
}

// withSetup installs the config lifecycle on cmd.
func withSetup(a *app, cmd *cobra.Command) *cobra.Command {
	cmd.PreRunE = a.setup
	cmd.PostRunE = a.teardown
	return cmd
}
