package cmd

import (
	"context"
	"fmt"
	"regexp"

	"github.com/spf13/cobra"

	crackerrors "github.com/Aman-CERP/digestcrack/internal/errors"
	"github.com/Aman-CERP/digestcrack/internal/logging"
	"github.com/Aman-CERP/digestcrack/internal/output"
)

type logsOptions struct {
	follow  bool
	lines   int
	level   string
	filter  string
	runID   string
	noColor bool
	logFile string
}

func newLogsCmd(a *app) *cobra.Command {
	var opts logsOptions

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "View digestcrack logs",
		Long: `View and tail the structured log written by every run.

By default, shows the last 50 entries of logging.file. Use -f to follow new
entries (like 'tail -f') and --run to show a single run.`,
		Example: `  digestcrack logs -n 100
  digestcrack logs --level warn
  digestcrack logs --run 1b4e28ba-2fa1-11d2-883f-0016d3cca427
  digestcrack logs -f --filter search_complete`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runLogs(cmd.Context(), cmd, a, opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.follow, "follow", "f", false, "Follow log output (like tail -f)")
	cmd.Flags().IntVarP(&opts.lines, "lines", "n", 50, "Number of lines to show (0 for all)")
	cmd.Flags().StringVar(&opts.level, "level", "", "Filter by minimum level (debug|info|warn|error)")
	cmd.Flags().StringVar(&opts.filter, "filter", "", "Filter by pattern (regex)")
	cmd.Flags().StringVar(&opts.runID, "run", "", "Show only entries of one run_id")
	cmd.Flags().BoolVar(&opts.noColor, "no-color", false, "Disable colored output")
	cmd.Flags().StringVar(&opts.logFile, "file", "", "Path to log file (default: logging.file)")

	return cmd
}

func runLogs(ctx context.Context, cmd *cobra.Command, a *app, opts logsOptions) error {
	path, err := logging.FindLogFile(opts.logFile, a.config().Logging.File)
	if err != nil {
		return crackerrors.ValidationError(err.Error(), err)
	}

	var pattern *regexp.Regexp
	if opts.filter != "" {
		pattern, err = regexp.Compile(opts.filter)
		if err != nil {
			return crackerrors.ValidationError("invalid filter pattern", err)
		}
	}

	noColor := opts.noColor || !output.ColorEnabled(cmd.OutOrStdout(), a.config().Output.Color)
	viewer := logging.NewViewer(logging.ViewerConfig{
		Level:   opts.level,
		Pattern: pattern,
		RunID:   opts.runID,
		NoColor: noColor,
	}, cmd.OutOrStdout())

	_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Log file: %s\n", path)

	if opts.follow {
		return followLogs(ctx, cmd, viewer, path)
	}

	entries, err := viewer.Tail(path, opts.lines)
	if err != nil {
		return err
	}
	viewer.Print(entries)
	return nil
}

func followLogs(ctx context.Context, cmd *cobra.Command, viewer *logging.Viewer, path string) error {
	_, _ = fmt.Fprintln(cmd.ErrOrStderr(), "Following... (Ctrl+C to stop)")

	entries := make(chan logging.LogEntry, 100)
	errCh := make(chan error, 1)
	go func() {
		errCh <- viewer.Follow(ctx, path, entries)
	}()

	for {
		select {
		case entry := <-entries:
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), viewer.FormatEntry(entry))
		case err := <-errCh:
			return err
		case <-ctx.Done():
			_, _ = fmt.Fprintln(cmd.ErrOrStderr(), "Stopped.")
			return nil
		}
	}
}
