package cmd

import (
	"bufio"
	"context"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/digestcrack/internal/config"
	"github.com/Aman-CERP/digestcrack/internal/dictionary"
	"github.com/Aman-CERP/digestcrack/internal/digest"
	crackerrors "github.com/Aman-CERP/digestcrack/internal/errors"
	"github.com/Aman-CERP/digestcrack/internal/indexstore"
	"github.com/Aman-CERP/digestcrack/internal/logging"
	"github.com/Aman-CERP/digestcrack/internal/output"
	"github.com/Aman-CERP/digestcrack/internal/search"
)

const (
	formatText = "text"
	formatJSON = "json"
)

// crackOptions holds CLI flags for a crack run.
type crackOptions struct {
	hash     string
	hashFile string
	dict     string
	index    bool
	threads  int
	format   string // "text", "json"; empty uses output.format
}

// crackTarget is one validated target digest.
type crackTarget struct {
	value    string
	hashType digest.HashType
}

// crackReport is the result of one target, as printed.
type crackReport struct {
	Target       string  `json:"target"`
	HashType     string  `json:"hash_type"`
	Found        bool    `json:"found"`
	Word         string  `json:"word"`
	FromIndex    bool    `json:"from_index"`
	Workers      int     `json:"workers"`
	Scanned      int     `json:"scanned"`
	Indexed      int     `json:"indexed"`
	SkippedLines int     `json:"skipped_lines"`
	ElapsedMS    float64 `json:"elapsed_ms"`
	RunID        string  `json:"run_id"`

	elapsed time.Duration
}

func addCrackFlags(cmd *cobra.Command, opts *crackOptions) {
	cmd.Flags().StringVarP(&opts.hash, "hash", "c", "", "Target digest in hex (MD5, SHA1, SHA256 or SHA512)")
	cmd.Flags().StringVarP(&opts.hashFile, "hash-file", "f", "", "File with one target digest per line")
	cmd.Flags().StringVarP(&opts.dict, "dict", "d", "", "Dictionary file, one word per line")
	cmd.Flags().BoolVarP(&opts.index, "index", "i", false, "Use and maintain a digest index for the dictionary")
	cmd.Flags().IntVarP(&opts.threads, "threads", "t", 0, "Number of parallel workers (default from search.workers)")
	cmd.Flags().StringVar(&opts.format, "format", "", "Output format: text, json (default from output.format)")
}

func runCrack(ctx context.Context, cmd *cobra.Command, a *app, opts crackOptions) error {
	cfg := a.config()

	targets, err := readTargets(opts)
	if err != nil {
		return err
	}
	if opts.dict == "" {
		return crackerrors.ValidationError("a dictionary is required", nil).
			WithSuggestion("Pass the wordlist with -d <file>")
	}
	workers, err := resolveWorkers(cmd, cfg, opts.threads)
	if err != nil {
		return err
	}
	format, err := resolveFormat(cfg, opts.format)
	if err != nil {
		return err
	}

	wl, err := dictionary.Load(opts.dict)
	if err != nil {
		return err
	}

	logger, runID := logging.WithRunID(a.log())
	if skipped := wl.SkippedError(); skipped != nil {
		logger.Warn("dictionary_lines_skipped", slog.Any("error", crackerrors.FormatForLog(skipped)))
	}

	buildIndex := opts.index || cfg.Index.Enabled
	var store indexstore.Store
	if buildIndex {
		store, err = indexstore.Open(storeOptions(cfg.Index))
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()
	}

	logger.Info("crack_started",
		slog.String("dictionary", wl.Identity()),
		slog.Int("words", len(wl.Words)),
		slog.Int("targets", len(targets)),
		slog.Int("workers", workers),
		slog.Bool("index", buildIndex))

	out := output.NewForMode(cmd.OutOrStdout(), cfg.Output.Color)
	if format == formatText && wl.Stats.Skipped > 0 {
		out.Warningf("Skipped %d unreadable dictionary line(s): %s",
			wl.Stats.Skipped, formatLines(wl.Stats.SkippedLines, wl.Stats.Skipped))
	}

	engine := search.NewEngine(search.WithLogger(logger))
	for i, t := range targets {
		res, err := engine.Run(ctx, search.Request{
			Target:     t.value,
			Words:      wl.Words,
			Workers:    workers,
			Digest:     t.hashType.Func(),
			Store:      store,
			Key:        indexstore.Key{Dictionary: wl.Identity(), HashType: t.hashType},
			BuildIndex: buildIndex,
		})
		if err != nil {
			return err
		}

		report := newCrackReport(t, res, wl, runID)
		if format == formatJSON {
			if err := out.JSON(report); err != nil {
				return err
			}
			continue
		}
		if i > 0 {
			out.Newline()
		}
		printCrackReport(out, report, len(targets) > 1, buildIndex)
	}
	return nil
}

// readTargets returns the target digests named by -c or -f, all validated
// before any search starts.
func readTargets(opts crackOptions) ([]crackTarget, error) {
	switch {
	case opts.hash != "" && opts.hashFile != "":
		return nil, crackerrors.ValidationError("--hash and --hash-file are mutually exclusive", nil)
	case opts.hash != "":
		t, err := parseTarget(opts.hash)
		if err != nil {
			return nil, err
		}
		return []crackTarget{t}, nil
	case opts.hashFile != "":
		return readTargetFile(opts.hashFile)
	default:
		return nil, crackerrors.ValidationError("a target digest is required", nil).
			WithSuggestion("Pass the digest with -c <hash> or a file of digests with -f <file>")
	}
}

// readTargetFile reads one digest per line, ignoring blank lines and lines
// starting with '#'.
func readTargetFile(path string) ([]crackTarget, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, crackerrors.ValidationError("failed to open hash file", err).
			WithDetail("path", path)
	}
	defer func() { _ = f.Close() }()

	var targets []crackTarget
	scanner := bufio.NewScanner(f)
	for line := 1; scanner.Scan(); line++ {
		raw := strings.TrimSpace(scanner.Text())
		if raw == "" || strings.HasPrefix(raw, "#") {
			continue
		}
		t, err := parseTarget(raw)
		if err != nil {
			if ce, ok := crackerrors.As(err); ok {
				return nil, ce.WithDetail("path", path).WithDetail("line", fmt.Sprint(line))
			}
			return nil, err
		}
		targets = append(targets, t)
	}
	if err := scanner.Err(); err != nil {
		return nil, crackerrors.ValidationError("failed to read hash file", err).
			WithDetail("path", path)
	}
	if len(targets) == 0 {
		return nil, crackerrors.ValidationError("hash file contains no digests", nil).
			WithDetail("path", path)
	}
	return targets, nil
}

// parseTarget normalizes raw and detects its hash type.
func parseTarget(raw string) (crackTarget, error) {
	value := digest.Normalize(raw)
	hashType, err := digest.Detect(value)
	if err != nil {
		return crackTarget{}, err
	}
	if _, err := hex.DecodeString(value); err != nil {
		return crackTarget{}, crackerrors.ValidationError("target digest is not hexadecimal", err).
			WithDetail("target", value)
	}
	return crackTarget{value: value, hashType: hashType}, nil
}

// resolveWorkers returns -t when given, search.workers otherwise, checked
// against search.max_workers.
func resolveWorkers(cmd *cobra.Command, cfg *config.Config, threads int) (int, error) {
	n := cfg.Search.Workers
	if cmd.Flags().Changed("threads") {
		n = threads
	}
	if err := cfg.ValidateWorkers("threads", n); err != nil {
		return 0, err
	}
	return n, nil
}

func resolveFormat(cfg *config.Config, flag string) (string, error) {
	format := cfg.Output.Format
	if flag != "" {
		format = flag
	}
	switch f := strings.ToLower(format); f {
	case formatText, formatJSON:
		return f, nil
	default:
		return "", crackerrors.ValidationError(fmt.Sprintf("unknown output format %q", format), nil).
			WithSuggestion("Use --format text or --format json")
	}
}

func storeOptions(ic config.IndexConfig) indexstore.Options {
	return indexstore.Options{
		Backend:     strings.ToLower(ic.Backend),
		Dir:         ic.Dir,
		SQLitePath:  ic.SQLitePath,
		CacheSize:   ic.CacheSize,
		LockRetries: ic.LockRetries,
	}
}

func newCrackReport(t crackTarget, res *search.Result, wl *dictionary.Wordlist, runID string) crackReport {
	return crackReport{
		Target:       t.value,
		HashType:     t.hashType.String(),
		Found:        res.Found,
		Word:         res.Word,
		FromIndex:    res.FromCache,
		Workers:      res.Workers,
		Scanned:      res.Scanned,
		Indexed:      res.Indexed,
		SkippedLines: wl.Stats.Skipped,
		ElapsedMS:    float64(res.Elapsed.Microseconds()) / 1000,
		RunID:        runID,
		elapsed:      res.Elapsed,
	}
}

func printCrackReport(out *output.Writer, r crackReport, showTarget, indexing bool) {
	if showTarget {
		out.Field("Target", r.Target)
	}
	out.Field("Detected Hash Type", r.HashType)
	if r.Found {
		out.Match(r.Word)
	} else {
		out.Plain("No match found")
	}
	if r.FromIndex {
		out.Field("Source", "index")
	} else if indexing {
		out.Field("Indexed records", r.Indexed)
	}
	out.Field("Time elapsed", r.elapsed.Round(time.Microsecond))
}

// formatLines lists the recorded line numbers, noting any beyond them.
func formatLines(lines []int, total int) string {
	parts := make([]string, len(lines))
	for i, n := range lines {
		parts[i] = fmt.Sprint(n)
	}
	s := "lines " + strings.Join(parts, ", ")
	if more := total - len(lines); more > 0 {
		s += fmt.Sprintf(" and %d more", more)
	}
	return s
}
