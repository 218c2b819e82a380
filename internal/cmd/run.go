package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/bradjones1/maestro-ng/internal/config"
	"github.com/bradjones1/maestro-ng/internal/errors"
	"github.com/bradjones1/maestro-ng/internal/logging"
	"github.com/bradjones1/maestro-ng/internal/plays"
	"github.com/bradjones1/maestro-ng/internal/styles"
	"github.com/bradjones1/maestro-ng/internal/termout"
)

var (
	runOnly       []string
	runReverse    bool
	runIgnoreDeps bool
	runNoHeader   bool
)

var runCmd = &cobra.Command{
	Use:   "run <plan.yaml>",
	Short: "Run the tasks of a plan file",
	Long: `Run the tasks of a plan file, one status row per task.

Tasks start as soon as everything they depend on has completed. After
the first failure, tasks that have not started yet abort instead of
running. Interrupting maestro (Ctrl-C) aborts the remaining tasks and
restores the cursor below the status block.

When stdout is not a terminal the rows are printed as a plain
sequential log, one line per update.`,
	Args: cobra.ExactArgs(1),
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringSliceVarP(&runOnly, "only", "o", nil, "run only tasks matching these glob patterns, plus their dependencies")
	runCmd.Flags().IntP("concurrency", "n", 0, "maximum tasks running at once (0 = unlimited)")
	runCmd.Flags().BoolVar(&runReverse, "reverse", false, "invert dependencies so tasks run in teardown order")
	runCmd.Flags().BoolVar(&runIgnoreDeps, "ignore-dependencies", false, "start every task immediately")
	runCmd.Flags().BoolVar(&runNoHeader, "no-header", false, "omit the column header above the status block")
	_ = viper.BindPFlag("play.concurrency", runCmd.Flags().Lookup("concurrency"))
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return errors.Wrap(err, "invalid configuration")
	}

	plan, err := plays.LoadPlan(args[0])
	if err != nil {
		return err
	}
	if len(runOnly) > 0 {
		if plan, err = plan.Select(runOnly...); err != nil {
			return err
		}
	}
	tasks, err := plan.Build()
	if err != nil {
		return err
	}

	logger, err := buildLogger(cmd, cfg)
	if err != nil {
		return err
	}
	defer logger.Close()

	// Pick up log level edits while a long play is running.
	if viper.ConfigFileUsed() != "" {
		viper.OnConfigChange(func(e fsnotify.Event) {
			logger.SetLevel(viper.GetString("logging.level"))
			logger.Debug("config reloaded", "file", e.Name)
		})
		viper.WatchConfig()
	}

	isTTY := term.IsTerminal(int(os.Stdout.Fd()))
	switch {
	case noColor || !cfg.Output.ColorsEnabled(isTTY):
		styles.DisableColors()
	case !isTTY:
		// colors=always on a pipe: auto-detection would strip the ANSI.
		styles.ForceColors()
	}

	width := cfg.Output.Width
	if width == 0 && isTTY {
		if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
			width = w
		}
	}

	var sink termout.Sink
	tick := cfg.Output.TickInterval()
	if isTTY {
		sink = termout.NewStreamSink(os.Stdout)
	} else {
		// Cursor movement means nothing on a pipe; log rows sequentially
		// and skip the elapsed-time refresh that would spam it.
		sink = termout.NewPlainSink(os.Stdout)
		tick = 0
	}

	// The plan's own concurrency cap wins over the config file, an
	// explicit --concurrency flag wins over both.
	concurrency := viper.GetInt("play.concurrency")
	if plan.Concurrency > 0 && !cmd.Flags().Changed("concurrency") {
		concurrency = plan.Concurrency
	}

	opts := []plays.Option{
		plays.WithSink(sink),
		plays.WithLogger(logger),
		plays.WithConcurrency(concurrency),
		plays.WithWidth(width),
		plays.WithTickInterval(tick),
	}
	if runReverse {
		opts = append(opts, plays.WithReverse())
	}
	if runIgnoreDeps {
		opts = append(opts, plays.WithIgnoreDependencies())
	}
	if runNoHeader {
		opts = append(opts, plays.WithoutHeader())
	}

	play, err := plays.New(plan.Name, tasks, opts...)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return play.Run(ctx)
}

// buildLogger opens the rotating log file when logging is enabled in the
// config or a --log-file was given. Otherwise logging is a no-op.
func buildLogger(cmd *cobra.Command, cfg *config.Config) (*logging.Logger, error) {
	if !cfg.Logging.Enabled && !cmd.Flags().Changed("log-file") {
		return logging.NopLogger(), nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return nil, errors.Wrap(err, "get working directory")
	}
	path := cfg.Logging.ResolveFile(cwd)
	if path == "" {
		return logging.NopLogger(), nil
	}

	return logging.NewLoggerWithRotation(path, cfg.Logging.Level, logging.RotationConfig{
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
	})
}
