package main

import (
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/agorla23/aws-ml-portfolio-intelligence/internal/aggregation"
	"github.com/agorla23/aws-ml-portfolio-intelligence/internal/config"
	"github.com/agorla23/aws-ml-portfolio-intelligence/internal/domain"
	"github.com/agorla23/aws-ml-portfolio-intelligence/internal/pipeline"
	"github.com/agorla23/aws-ml-portfolio-intelligence/internal/reporting"
	"github.com/agorla23/aws-ml-portfolio-intelligence/internal/storage/migrations"
	pgstore "github.com/agorla23/aws-ml-portfolio-intelligence/internal/storage/postgres"
	"github.com/agorla23/aws-ml-portfolio-intelligence/internal/verification"
)

// --- Ingest Command ---

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Pull all RSS feeds into today's raw batch",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()
		defer a.push(ctx)

		res, err := a.ingester().IngestFeeds(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("Raw batch %s: fetched %d, existing %d, saved %d\n",
			res.Day.Format(domain.DateLayout), res.Fetched, res.Existing, res.Saved)
		return nil
	},
}

// --- Market Command ---

var marketCmd = &cobra.Command{
	Use:   "market <bars.csv>",
	Short: "Derive price features from daily bars and store them",
	Long: `Reads a CSV with columns date,ticker,open,high,low,close,adj_close,volume,
computes return, log_return, vol_20d, ma_10, ma_50 and mom_10 per ticker and
appends the rows to the price feature store.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("open bars: %w", err)
		}
		defer f.Close()

		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()
		defer a.push(ctx)

		res, err := a.ingester().IngestMarket(ctx, f)
		if err != nil {
			return err
		}
		fmt.Printf("Price features: %d bars -> %d rows across %d tickers\n", res.Bars, res.Rows, res.Tickers)
		return nil
	},
}

// --- Run Command ---

var runCmd = &cobra.Command{
	Use:   "run [date|all]",
	Short: "Run the pipeline for one day (YYYY-MM-DD, default today) or the whole corpus",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		arg := ""
		if len(args) == 1 {
			arg = args[0]
		}
		rd, err := domain.ParseRunDate(arg, time.Now())
		if err != nil {
			return err
		}
		return runPipeline(cmd, rd)
	},
}

var consolidateCmd = &cobra.Command{
	Use:   "consolidate",
	Short: "Deduplicate the corpus by (title, published), relink and rebuild outputs (same as run all)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPipeline(cmd, domain.AllDates())
	},
}

func runPipeline(cmd *cobra.Command, rd domain.RunDate) error {
	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	o, err := a.orchestrator()
	if err != nil {
		return err
	}
	res, err := o.Run(ctx, rd)
	if err != nil {
		return err
	}
	printRunResult(res)
	return nil
}

func printRunResult(res *pipeline.RunResult) {
	fmt.Printf("Run %s (%s) completed in %s:\n", res.RunKey, res.RunID, res.Duration.Round(time.Millisecond))
	fmt.Printf("  Articles: %d (linked %d, scored %d)\n", res.Articles, res.Linked, res.Scored)
	fmt.Printf("  Corpus: %d (duplicates dropped %d)\n", res.CorpusSize, res.Duplicates)
	fmt.Printf("  Unparseable dates: %d\n", res.Unparseable)
	fmt.Printf("  Daily sentiment rows: %d\n", res.DailyRows)
	fmt.Printf("  Merged feature rows: %d (%d with news)\n", res.MergedRows, res.Covered)
}

// --- Daily Command ---

var dailyCmd = &cobra.Command{
	Use:   "daily",
	Short: "Ingest today's feeds and run the pipeline for today",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		o, err := a.orchestrator()
		if err != nil {
			return err
		}
		res, err := o.Daily(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("Ingested %d articles into %s\n", res.Ingest.Saved, res.Ingest.Day.Format(domain.DateLayout))
		printRunResult(res.Run)
		return nil
	},
}

// --- Backfill Command ---

var backfillCmd = &cobra.Command{
	Use:   "backfill <from> <to>",
	Short: "Run the pipeline for every day in [from, to] that has a raw batch",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		from, err := time.Parse(domain.DateLayout, args[0])
		if err != nil {
			return fmt.Errorf("parse from: %w", err)
		}
		to, err := time.Parse(domain.DateLayout, args[1])
		if err != nil {
			return fmt.Errorf("parse to: %w", err)
		}

		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		o, err := a.orchestrator()
		if err != nil {
			return err
		}
		res, err := o.Backfill(ctx, from, to)
		if res != nil {
			fmt.Printf("Backfill: %d processed, %d skipped, %d failed\n",
				len(res.Processed), len(res.Skipped), len(res.Errors))
			for _, e := range res.Errors {
				fmt.Printf("  - %s\n", e)
			}
		}
		if err != nil {
			return err
		}
		if len(res.Errors) > 0 {
			return fmt.Errorf("backfill: %d days failed", len(res.Errors))
		}
		return nil
	},
}

// --- Report Command ---

var reportCmd = &cobra.Command{
	Use:   "report [date|all]",
	Short: "Write a Markdown report and ticker summary CSV for a run key (default all)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		arg := domain.RunKeyAll
		if len(args) == 1 {
			arg = args[0]
		}
		rd, err := domain.ParseRunDate(arg, time.Now())
		if err != nil {
			return err
		}

		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		r, err := reporting.NewGenerator(a.stores.outputs, a.stores.runs).Generate(ctx, rd.Key())
		if err != nil {
			return err
		}

		dir := cfg.Data.ReportDir
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create report dir: %w", err)
		}
		mdPath := filepath.Join(dir, fmt.Sprintf("REPORT_%s.md", rd.Key()))
		if err := os.WriteFile(mdPath, []byte(reporting.RenderMarkdown(r)), 0o644); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
		csvPath := filepath.Join(dir, fmt.Sprintf("ticker_summary_%s.csv", rd.Key()))
		if err := os.WriteFile(csvPath, []byte(reporting.RenderCSV(r.Tickers)), 0o644); err != nil {
			return fmt.Errorf("write ticker summary: %w", err)
		}

		fmt.Println("Report written:")
		fmt.Printf("  - %s\n", mdPath)
		fmt.Printf("  - %s\n", csvPath)
		if !r.DataQuality.AllChecksPassed {
			fmt.Println("  WARNING: one or more data quality checks failed")
		}
		return nil
	},
}

// --- Verify Command ---

var verifyCmd = &cobra.Command{
	Use:   "verify [date|all]",
	Short: "Check that stored outputs reproduce from the current corpus and price features (default all)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		arg := domain.RunKeyAll
		if len(args) == 1 {
			arg = args[0]
		}
		rd, err := domain.ParseRunDate(arg, time.Now())
		if err != nil {
			return err
		}
		mode, err := aggregation.ParseSignalMode(cfg.Aggregation.SignalMode)
		if err != nil {
			return err
		}

		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		v := verification.NewOutputVerifier(a.stores.corpus, a.stores.prices, a.stores.outputs,
			aggregation.NewAggregator(mode, logger), logger)
		rep, err := v.Verify(ctx, rd.Key())
		if err != nil {
			return err
		}

		printTable := func(name string, t verification.TableReport) {
			fmt.Printf("  %s: %d stored, %d replayed, %d matched, %d missing, %d extra, %d divergent fields\n",
				name, t.StoredRows, t.ReplayedRows, t.Matched, len(t.Missing), len(t.Extra), len(t.Divergences))
			for _, d := range t.Divergences {
				fmt.Printf("    - %s\n", d)
			}
		}
		fmt.Printf("Verify %s:\n", rep.RunKey)
		printTable("daily_sentiment", rep.Daily)
		printTable("merged_features", rep.Merged)
		if !rep.Match() {
			return fmt.Errorf("outputs for %s do not reproduce", rep.RunKey)
		}
		return nil
	},
}

// --- Runs Command ---

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recorded pipeline runs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		runs, err := a.stores.runs.List(ctx)
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "RUN ID\tKEY\tSTATUS\tSTARTED\tARTICLES\tCORPUS\tMERGED\tERROR")
		for _, r := range runs {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%d\t%d\t%s\n",
				r.RunID, r.RunKey, r.Status, r.StartedAt.UTC().Format(time.RFC3339),
				r.Articles, r.CorpusSize, r.MergedRows, r.Error)
		}
		return w.Flush()
	},
}

// --- Migrate Command ---

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply embedded schema migrations to the configured databases",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		applied := 0

		if cfg.Storage.Articles == config.BackendPostgres {
			pool, err := pgstore.NewPool(ctx, cfg.Storage.PostgresDSN)
			if err != nil {
				return err
			}
			defer pool.Close()
			if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
				return err
			}
			logger.Info("postgres migrations applied")
			applied++
		}

		if cfg.Storage.Features == config.BackendClickhouse {
			conn, err := migrations.RunClickhouseMigrations(ctx, cfg.Storage.ClickhouseDSN)
			if err != nil {
				return err
			}
			defer conn.Close()
			logger.Info("clickhouse migrations applied")
			applied++
		}

		if applied == 0 {
			fmt.Println("No database backends configured; nothing to migrate")
		}
		return nil
	},
}
