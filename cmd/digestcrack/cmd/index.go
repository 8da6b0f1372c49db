package cmd

import (
	"context"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/digestcrack/internal/dictionary"
	"github.com/Aman-CERP/digestcrack/internal/digest"
	crackerrors "github.com/Aman-CERP/digestcrack/internal/errors"
	"github.com/Aman-CERP/digestcrack/internal/indexstore"
	"github.com/Aman-CERP/digestcrack/internal/logging"
	"github.com/Aman-CERP/digestcrack/internal/output"
	"github.com/Aman-CERP/digestcrack/internal/search"
)

// indexOptions holds CLI flags for the index subcommands.
type indexOptions struct {
	dict       string
	hashType   string
	threads    int
	jsonOutput bool
}

// indexInfoReport is the JSON form of index info.
type indexInfoReport struct {
	Dictionary string     `json:"dictionary"`
	HashType   string     `json:"hash_type"`
	Backend    string     `json:"backend"`
	Location   string     `json:"location"`
	Exists     bool       `json:"exists"`
	Records    int        `json:"records"`
	Skipped    int        `json:"skipped"`
	UpdatedAt  *time.Time `json:"updated_at,omitempty"`
}

func newIndexCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "index",
		Short: "Build and inspect digest indexes",
		Long: `An index stores the digest of every word of a dictionary under one hash
type. A crack run with --index consults it before searching and refreshes it
afterwards; 'index build' computes it for the whole dictionary up front.

The backend is selected by index.backend: "text" writes <dict>.<type> next
to the dictionary (or into index.dir), "sqlite" uses index.sqlite_path.`,
		Example: `  digestcrack index build -d words.txt --type sha256 -t 4
  digestcrack index info -d words.txt --type sha256`,
	}

	cmd.AddCommand(newIndexBuildCmd(a))
	cmd.AddCommand(newIndexInfoCmd(a))

	return cmd
}

func newIndexBuildCmd(a *app) *cobra.Command {
	var opts indexOptions

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Compute and store the index of a dictionary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runIndexBuild(cmd.Context(), cmd, a, opts)
		},
	}

	addIndexKeyFlags(cmd, &opts)
	cmd.Flags().IntVarP(&opts.threads, "threads", "t", 0, "Number of parallel workers (default from search.workers)")

	return cmd
}

func newIndexInfoCmd(a *app) *cobra.Command {
	var opts indexOptions

	cmd := &cobra.Command{
		Use:   "info",
		Short: "Show where an index is stored and how many records it holds",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runIndexInfo(cmd.Context(), cmd, a, opts)
		},
	}

	addIndexKeyFlags(cmd, &opts)
	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Output in JSON format")

	return cmd
}

func addIndexKeyFlags(cmd *cobra.Command, opts *indexOptions) {
	cmd.Flags().StringVarP(&opts.dict, "dict", "d", "", "Dictionary file")
	cmd.Flags().StringVar(&opts.hashType, "type", "md5", "Hash type: md5, sha1, sha256, sha512")
}

// indexKey validates the dictionary flag and hash type.
func indexKey(opts indexOptions) (indexstore.Key, error) {
	if opts.dict == "" {
		return indexstore.Key{}, crackerrors.ValidationError("a dictionary is required", nil).
			WithSuggestion("Pass the wordlist with -d <file>")
	}
	hashType, err := digest.Parse(opts.hashType)
	if err != nil {
		return indexstore.Key{}, err
	}
	return indexstore.Key{Dictionary: dictionary.Identity(opts.dict), HashType: hashType}, nil
}

func runIndexBuild(ctx context.Context, cmd *cobra.Command, a *app, opts indexOptions) error {
	cfg := a.config()

	key, err := indexKey(opts)
	if err != nil {
		return err
	}
	workers, err := resolveWorkers(cmd, cfg, opts.threads)
	if err != nil {
		return err
	}

	wl, err := dictionary.Load(opts.dict)
	if err != nil {
		return err
	}

	store, err := indexstore.Open(storeOptions(cfg.Index))
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	logger, _ := logging.WithRunID(a.log())
	if skipped := wl.SkippedError(); skipped != nil {
		logger.Warn("dictionary_lines_skipped", slog.Any("error", crackerrors.FormatForLog(skipped)))
	}
	logger.Info("index_build_started",
		slog.String("dictionary", key.Dictionary),
		slog.String("hash_type", key.HashType.String()),
		slog.Int("words", len(wl.Words)),
		slog.Int("workers", workers))

	res, err := search.NewEngine(search.WithLogger(logger)).Run(ctx, search.Request{
		Words:      wl.Words,
		Workers:    workers,
		Digest:     key.HashType.Func(),
		Store:      store,
		Key:        key,
		BuildIndex: true,
	})
	if err != nil {
		return err
	}

	info, err := store.Info(ctx, key)
	if err != nil {
		return err
	}

	out := output.NewForMode(cmd.OutOrStdout(), cfg.Output.Color)
	if wl.Stats.Skipped > 0 {
		out.Warningf("Skipped %d unreadable dictionary line(s): %s",
			wl.Stats.Skipped, formatLines(wl.Stats.SkippedLines, wl.Stats.Skipped))
	}
	out.Field("Hash Type", key.HashType.String())
	out.Field("Indexed records", res.Indexed)
	out.Field("Index", info.Location)
	out.Field("Time elapsed", res.Elapsed.Round(time.Microsecond))
	return nil
}

func runIndexInfo(ctx context.Context, cmd *cobra.Command, a *app, opts indexOptions) error {
	cfg := a.config()

	key, err := indexKey(opts)
	if err != nil {
		return err
	}

	store, err := indexstore.Open(storeOptions(cfg.Index))
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	info, err := store.Info(ctx, key)
	if err != nil {
		return err
	}

	out := output.NewForMode(cmd.OutOrStdout(), cfg.Output.Color)
	if opts.jsonOutput {
		report := indexInfoReport{
			Dictionary: key.Dictionary,
			HashType:   key.HashType.String(),
			Backend:    info.Backend,
			Location:   info.Location,
			Exists:     info.Exists,
			Records:    info.Records,
			Skipped:    info.Skipped,
		}
		if !info.UpdatedAt.IsZero() {
			report.UpdatedAt = &info.UpdatedAt
		}
		return out.JSON(report)
	}

	out.Field("Dictionary", key.Dictionary)
	out.Field("Hash Type", key.HashType.String())
	out.Field("Backend", info.Backend)
	out.Field("Location", info.Location)
	if !info.Exists {
		out.Plain("No index found")
		return nil
	}
	out.Field("Records", info.Records)
	if info.Skipped > 0 {
		out.Field("Unreadable records", info.Skipped)
	}
	if !info.UpdatedAt.IsZero() {
		out.Field("Updated", info.UpdatedAt.Format(time.RFC3339))
	}
	return nil
}
