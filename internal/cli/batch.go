package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ppiankov/zwischenruf/internal/cache"
	"github.com/ppiankov/zwischenruf/internal/logging"
	"github.com/ppiankov/zwischenruf/internal/metrics"
	"github.com/ppiankov/zwischenruf/internal/model"
	"github.com/ppiankov/zwischenruf/internal/pipeline"
	"github.com/ppiankov/zwischenruf/internal/resolve"
	"github.com/ppiankov/zwischenruf/internal/store"
	"github.com/ppiankov/zwischenruf/internal/worker"
)

var (
	rosterPath   string
	concurrency  int
	outputDir    string
	sqlitePath   string
	metricsFile  string
	noCache      bool
	knownNames   []string
	batchTimeout time.Duration
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <speeches.jsonl>",
	Short: "Extract and resolve contributions of many speeches in parallel",
	Long: `Batch processes a JSONL file of speeches ({"id", "session", "text"} per line):
- Clean page headers and extract contributions from every speech
- Resolve named speakers against the politician roster
- Write the four contribution tables, a run report and a summary
- Optionally persist the run into SQLite and write a metrics textfile

Example:
  zwischenruf batch speeches.jsonl --roster roster.yaml
  zwischenruf batch speeches.jsonl --roster roster.yaml --concurrency 8 --output-dir ./out
  zwischenruf batch speeches.jsonl --sqlite run.db --metrics-file zwischenruf.prom`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().StringVar(&rosterPath, "roster", "", "politician roster YAML (identities stay unresolved without it)")
	batchCmd.Flags().IntVar(&concurrency, "concurrency", 0, "number of concurrent workers (default from config)")
	batchCmd.Flags().StringVar(&outputDir, "output-dir", "", "output directory for tables and report (default from config)")
	batchCmd.Flags().StringVar(&sqlitePath, "sqlite", "", "also store the run in this SQLite database")
	batchCmd.Flags().StringVar(&metricsFile, "metrics-file", "", "write Prometheus metrics to this textfile")
	batchCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the extraction cache")
	batchCmd.Flags().StringSliceVar(&knownNames, "names", nil, "names printed in page headers (repeatable)")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 30*time.Minute, "total timeout for batch processing")
}

// applyBatchFlags lets explicitly set flags override the loaded config
func applyBatchFlags(cmd *cobra.Command, cfg *model.Config) {
	flags := cmd.Flags()
	if flags.Changed("concurrency") {
		cfg.Concurrency.Workers = concurrency
	}
	if flags.Changed("output-dir") {
		cfg.Output.Dir = outputDir
	}
	if flags.Changed("sqlite") {
		cfg.Output.SQLitePath = sqlitePath
	}
	if flags.Changed("metrics-file") {
		cfg.Output.MetricsFile = metricsFile
	}
	if noCache {
		cfg.Cache.Enabled = false
	}
}

func runBatch(cmd *cobra.Command, args []string) error {
	file := args[0]

	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return err
	}
	applyBatchFlags(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Zwischenruf Batch Processing\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Input file:   %s\n", file)
	fmt.Fprintf(os.Stderr, "  Roster:       %s\n", orNone(rosterPath))
	fmt.Fprintf(os.Stderr, "  Workers:      %d\n", cfg.Concurrency.Workers)
	fmt.Fprintf(os.Stderr, "  Output dir:   %s\n", cfg.Output.Dir)
	fmt.Fprintf(os.Stderr, "  Timeout:      %v\n", batchTimeout)
	fmt.Fprintf(os.Stderr, "\n")

	runID := uuid.NewString()
	startedAt := time.Now()
	m := metrics.New()

	opts := []pipeline.Option{
		pipeline.WithMetrics(m),
		pipeline.WithKnownNames(knownNames),
		pipeline.WithLogger(logger.Named("pipeline")),
	}
	if rosterPath != "" {
		rosters, err := resolve.LoadRosterSet(rosterPath)
		if err != nil {
			return err
		}
		opts = append(opts, pipeline.WithRosters(rosters))
	}
	if cfg.Cache.Enabled {
		opts = append(opts, pipeline.WithCache(cache.NewLayeredCache(cfg.Cache)))
	}

	p := pipeline.NewPipeline(cfg, opts...)
	processor := worker.NewBatchProcessor(p, cfg.Concurrency.Workers,
		worker.WithLogger(logger.Named("batch")))

	batchResults, err := processor.ProcessFile(ctx, file)
	if err != nil {
		return fmt.Errorf("batch processing failed: %w", err)
	}

	results, failures := splitResults(batchResults)
	report := pipeline.Summarize(runID, startedAt, results, failures)

	renderer := pipeline.NewRenderer(cfg.Output.Dir, cfg.Output.Summary)
	written, err := renderer.RenderRun(results, report)
	if err != nil {
		return err
	}

	if cfg.Output.SQLitePath != "" {
		if err := saveToSQLite(cfg.Output.SQLitePath, runID, results, logger); err != nil {
			return err
		}
		written = append(written, cfg.Output.SQLitePath)
	}

	if cfg.Output.MetricsFile != "" {
		if err := m.WriteTextfile(cfg.Output.MetricsFile); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
		written = append(written, cfg.Output.MetricsFile)
	}

	printBatchSummary(report, written)

	if len(failures) > 0 && len(results) == 0 {
		return fmt.Errorf("all %d speeches failed", len(failures))
	}
	return nil
}

// splitResults separates processed speeches from failures, keeping input order
func splitResults(batch []*worker.SpeechResult) ([]*pipeline.SpeechResult, []model.SpeechFailure) {
	results := make([]*pipeline.SpeechResult, 0, len(batch))
	var failures []model.SpeechFailure

	for _, r := range batch {
		if r.Error != nil {
			failures = append(failures, model.SpeechFailure{SpeechID: r.SpeechID, Error: r.Error.Error()})
			continue
		}
		if r.Result != nil {
			results = append(results, r.Result)
		}
	}
	return results, failures
}

func saveToSQLite(path, runID string, results []*pipeline.SpeechResult, logger logging.Logger) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create sqlite directory: %w", err)
		}
	}

	db, err := store.InitDB(path)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	counts, err := store.SaveRun(db, runID, results)
	if err != nil {
		return err
	}
	logger.Info("run stored",
		logging.String("path", path),
		logging.String("run_id", runID),
		logging.Int("speeches", counts.Speeches),
		logging.Int("resolved", counts.Resolved),
		logging.Int("unresolved", counts.Unresolved))
	return nil
}

func printBatchSummary(report *model.Report, written []string) {
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Batch Complete\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Run ID:         %s\n", report.RunID)
	fmt.Fprintf(os.Stderr, "  Speeches:       %d\n", report.Speeches)
	fmt.Fprintf(os.Stderr, "  ✓ Processed:    %d\n", report.Speeches-len(report.Failed))
	fmt.Fprintf(os.Stderr, "  ✗ Failed:       %d\n", len(report.Failed))
	fmt.Fprintf(os.Stderr, "  Contributions:  %d\n", report.Contributions())
	fmt.Fprintf(os.Stderr, "  Malformed:      %d\n", report.Malformed)
	fmt.Fprintf(os.Stderr, "  Identities:     %d resolved, %d ambiguous, %d unresolvable, %d unnamed\n",
		report.Identities.Resolved, report.Identities.Ambiguous,
		report.Identities.Unresolvable, report.Identities.Unnamed)
	fmt.Fprintf(os.Stderr, "  Duration:       %v\n", report.FinishedAt.Sub(report.StartedAt).Round(time.Millisecond))
	fmt.Fprintf(os.Stderr, "\n")

	if len(report.Failed) > 0 {
		fmt.Fprintf(os.Stderr, "  Failed speeches:\n")
		for _, f := range report.Failed {
			fmt.Fprintf(os.Stderr, "    • %d: %s\n", f.SpeechID, f.Error)
		}
		fmt.Fprintf(os.Stderr, "\n")
	}

	fmt.Fprintf(os.Stderr, "  Output:\n")
	for _, path := range written {
		fmt.Fprintf(os.Stderr, "    %s\n", path)
	}
	fmt.Fprintf(os.Stderr, "\n")
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}
