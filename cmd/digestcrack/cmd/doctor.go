package cmd

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/digestcrack/internal/config"
	"github.com/Aman-CERP/digestcrack/internal/digest"
	crackerrors "github.com/Aman-CERP/digestcrack/internal/errors"
	"github.com/Aman-CERP/digestcrack/internal/indexstore"
	"github.com/Aman-CERP/digestcrack/internal/preflight"
)

type doctorOptions struct {
	verbose    bool
	jsonOutput bool
	dict       string
	hashType   string
}

// doctorReport is the structure for JSON output.
type doctorReport struct {
	Status string              `json:"status"`
	Checks []doctorCheckResult `json:"checks"`
}

type doctorCheckResult struct {
	Name     string `json:"name"`
	Status   string `json:"status"`
	Message  string `json:"message"`
	Required bool   `json:"required"`
	Details  string `json:"details,omitempty"`
}

func newDoctorCmd(a *app) *cobra.Command {
	var opts doctorOptions

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check system requirements and diagnose issues",
		Long: `Run diagnostics to ensure digestcrack can operate correctly.

Checks:
  - Disk space at the index location (100MB minimum)
  - Write permissions for the index and log locations
  - File descriptor limit
  - With --dict: dictionary readability and index coverage

Use --verbose for detailed diagnostic information.
Use --json for machine-readable output.`,
		Example: `  digestcrack doctor
  digestcrack doctor -d words.txt --type sha256 --verbose
  digestcrack doctor --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDoctor(cmd.Context(), cmd, a, opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "Show detailed diagnostic info")
	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Output as JSON")
	cmd.Flags().StringVarP(&opts.dict, "dict", "d", "", "Dictionary to check")
	cmd.Flags().StringVar(&opts.hashType, "type", "md5", "Hash type of the index to check")

	return cmd
}

func runDoctor(ctx context.Context, cmd *cobra.Command, a *app, opts doctorOptions) error {
	cfg := a.config()

	checkerOpts := []preflight.Option{
		preflight.WithVerbose(opts.verbose),
		preflight.WithOutput(cmd.OutOrStdout()),
	}
	if opts.dict != "" {
		hashType, err := digest.Parse(opts.hashType)
		if err != nil {
			return err
		}
		store, err := indexstore.Open(storeOptions(cfg.Index))
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()
		checkerOpts = append(checkerOpts, preflight.WithStore(store, hashType))
	}

	checker := preflight.New(checkerOpts...)
	results := checker.RunAll(ctx, preflight.Target{
		IndexDir:   indexDir(cfg, opts.dict),
		LogDir:     filepath.Dir(cfg.Logging.File),
		Dictionary: opts.dict,
	})

	if opts.jsonOutput {
		if err := printDoctorJSON(cmd, checker, results); err != nil {
			return err
		}
	} else {
		checker.PrintResults(results)
	}

	if checker.HasCriticalFailures(results) {
		return crackerrors.New(crackerrors.ErrCodePreflightFailed, "system check failed", nil).
			WithSuggestion("Fix the failed checks listed above")
	}
	return nil
}

// indexDir returns the directory indexes are written to for dict.
func indexDir(cfg *config.Config, dict string) string {
	if strings.EqualFold(cfg.Index.Backend, indexstore.BackendSQLite) {
		return filepath.Dir(cfg.Index.SQLitePath)
	}
	if cfg.Index.Dir != "" {
		return cfg.Index.Dir
	}
	if dict != "" {
		return filepath.Dir(dict)
	}
	if cwd, err := os.Getwd(); err == nil {
		return cwd
	}
	return "."
}

func printDoctorJSON(cmd *cobra.Command, checker *preflight.Checker, results []preflight.CheckResult) error {
	report := doctorReport{
		Status: checker.SummaryStatus(results),
		Checks: make([]doctorCheckResult, 0, len(results)),
	}
	for _, r := range results {
		report.Checks = append(report.Checks, doctorCheckResult{
			Name:     r.Name,
			Status:   strings.ToLower(r.Status.String()),
			Message:  r.Message,
			Required: r.Required,
			Details:  r.Details,
		})
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}
