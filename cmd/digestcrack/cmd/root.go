// Package cmd provides the CLI commands for digestcrack.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/digestcrack/internal/config"
	crackerrors "github.com/Aman-CERP/digestcrack/internal/errors"
	"github.com/Aman-CERP/digestcrack/internal/logging"
	"github.com/Aman-CERP/digestcrack/internal/profiling"
	"github.com/Aman-CERP/digestcrack/pkg/version"
)

// app holds the state shared by every command of one invocation: the
// persistent flags and what PersistentPreRunE builds from them.
type app struct {
	configPath string
	debug      bool
	profile    profiling.Options

	cfg            *config.Config
	logger         *slog.Logger
	loggingCleanup func()
	profiler       *profiling.Session
}

// NewRootCmd creates the root command for the digestcrack CLI.
func NewRootCmd() *cobra.Command {
	return newRootCmd(&app{})
}

func newRootCmd(a *app) *cobra.Command {
	var opts crackOptions

	cmd := &cobra.Command{
		Use:   "digestcrack",
		Short: "Find the dictionary word behind a digest",
		Long: `digestcrack searches a wordlist for the word whose MD5, SHA1, SHA256 or
SHA512 digest equals a target. The hash type is detected from the target's
length. The wordlist is split across parallel workers and the search stops
at the first match.

With --index, every digest computed along the way is saved next to the
dictionary and consulted first on later runs.`,
		Example: `  digestcrack -c 72b302bf297a228a75730123efef7c41 -d words.txt
  digestcrack -c 72b302bf297a228a75730123efef7c41 -d words.txt -t 4 -i
  digestcrack -f hashes.txt -d words.txt --format json`,
		Version:       version.Version,
		SilenceErrors: true,
		SilenceUsage:  true,
		Args: func(_ *cobra.Command, args []string) error {
			if len(args) > 0 {
				return crackerrors.ValidationError(fmt.Sprintf("unknown command %q", args[0]), nil).
					WithSuggestion("Run 'digestcrack --help' for usage")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().NFlag() == 0 {
				return cmd.Help()
			}
			return runCrack(cmd.Context(), cmd, a, opts)
		},
	}

	cmd.SetVersionTemplate("digestcrack version {{.Version}}\n")
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return crackerrors.ValidationError(err.Error(), err).
			WithSuggestion("Run 'digestcrack --help' for usage")
	})

	addCrackFlags(cmd, &opts)

	cmd.PersistentFlags().StringVar(&a.configPath, "config", "", "Config file (default: .digestcrack.yaml in the working directory)")
	cmd.PersistentFlags().BoolVar(&a.debug, "debug", false, "Enable debug logging")
	cmd.PersistentFlags().StringVar(&a.profile.CPUPath, "profile-cpu", "", "Write CPU profile to file")
	cmd.PersistentFlags().StringVar(&a.profile.HeapPath, "profile-mem", "", "Write memory profile to file")
	cmd.PersistentFlags().StringVar(&a.profile.TracePath, "profile-trace", "", "Write execution trace to file")

	cmd.PersistentPreRunE = func(_ *cobra.Command, _ []string) error {
		return a.start()
	}
	cmd.PersistentPostRunE = func(_ *cobra.Command, _ []string) error {
		return a.close()
	}

	cmd.AddCommand(newIndexCmd(a))
	cmd.AddCommand(newConfigCmd(a))
	cmd.AddCommand(newLogsCmd(a))
	cmd.AddCommand(newDoctorCmd(a))
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// start loads the configuration, then sets up logging and profiling.
func (a *app) start() error {
	cwd, err := os.Getwd()
	if err != nil {
		return crackerrors.InternalError("failed to determine working directory", err)
	}

	cfg, err := config.Load(cwd, a.configPath)
	if err != nil {
		return err
	}
	if a.debug {
		cfg.Logging.Level = "debug"
	}
	a.cfg = cfg

	logger, cleanup, err := logging.Setup(logging.Config{
		Level:         cfg.Logging.Level,
		FilePath:      cfg.Logging.File,
		MaxSizeMB:     cfg.Logging.MaxSizeMB,
		MaxFiles:      cfg.Logging.MaxFiles,
		WriteToStderr: cfg.Logging.Stderr,
	})
	if err != nil {
		return crackerrors.ConfigError("failed to set up logging", err).
			WithDetail("path", cfg.Logging.File).
			WithSuggestion("Set logging.file to a writable path")
	}
	a.logger = logger
	a.loggingCleanup = cleanup
	slog.SetDefault(logger)
	slog.Debug("debug logging enabled", slog.String("log_file", cfg.Logging.File))

	if a.profile.Enabled() {
		session, err := profiling.Start(a.profile)
		if err != nil {
			return crackerrors.InternalError("failed to start profiling", err)
		}
		a.profiler = session
	}
	return nil
}

// close stops profiling and flushes the log. It is safe to call more than once.
func (a *app) close() error {
	var err error
	if a.profiler != nil {
		err = a.profiler.Stop()
		a.profiler = nil
	}
	if a.loggingCleanup != nil {
		a.loggingCleanup()
		a.loggingCleanup = nil
	}
	if err != nil {
		return crackerrors.InternalError("failed to write profiles", err)
	}
	return nil
}

// config returns the loaded configuration, or defaults when a command runs
// without the root's PersistentPreRunE.
func (a *app) config() *config.Config {
	if a.cfg == nil {
		a.cfg = config.NewConfig()
	}
	return a.cfg
}

func (a *app) log() *slog.Logger {
	if a.logger == nil {
		return slog.Default()
	}
	return a.logger
}

// Execute runs the root command and prints any error to stderr.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := &app{}
	root := newRootCmd(a)
	err := root.ExecuteContext(ctx)
	if cerr := a.close(); err == nil {
		err = cerr
	}
	if err != nil {
		_, _ = fmt.Fprint(root.ErrOrStderr(), formatError(err))
	}
	return err
}

// formatError renders err for the terminal.
func formatError(err error) string {
	if errors.Is(err, context.Canceled) {
		return "Interrupted\n"
	}
	return crackerrors.FormatForCLI(err)
}
