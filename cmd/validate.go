package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/apivet/internal/config"
	"github.com/ziadkadry99/apivet/internal/engine"
	"github.com/ziadkadry99/apivet/internal/history"
	"github.com/ziadkadry99/apivet/internal/progress"
	"github.com/ziadkadry99/apivet/internal/report"
)

var validateCmd = &cobra.Command{
	Use:   "validate <openapi-spec>",
	Short: "Validate a live API against its OpenAPI specification",
	Long: `Calls every endpoint declared in the spec against the live API and checks
status codes, JSON response schemas, and headers. Writes HTML and/or JSON
reports and records the run in the local history database.`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().String("base-url", "", "base URL of the live API (overrides config and spec servers)")
	validateCmd.Flags().String("data", "", "path to a YAML test data file with per-endpoint parameters")
	validateCmd.Flags().StringSlice("include", nil, "glob patterns of endpoints to validate, e.g. 'GET /users/**'")
	validateCmd.Flags().StringSlice("exclude", nil, "glob patterns of endpoints to skip")
	validateCmd.Flags().Int("concurrency", 0, "endpoints validated in parallel (overrides config)")
	validateCmd.Flags().String("format", "", "report format: html, json, or both (overrides config)")
	validateCmd.Flags().String("output", "", "report output directory (overrides config)")
	validateCmd.Flags().Bool("strict", false, "treat validation warnings as failures")
	validateCmd.Flags().Bool("no-history", false, "do not record this run in the history database")
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true
	ctx := context.Background()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyValidateFlags(cmd, cfg)

	doc, err := loadSpec(args)
	if err != nil {
		return err
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = doc.BaseURL()
	}

	dataFile, _ := cmd.Flags().GetString("data")
	testData, err := engine.LoadTestData(dataFile)
	if err != nil {
		return fmt.Errorf("loading test data: %w", err)
	}

	eng, err := engine.New(doc, cfg, engine.WithReporter(progress.NewReporter()))
	if err != nil {
		return err
	}

	start := time.Now()
	results, summary, err := eng.ValidateAll(ctx, testData)
	if err != nil {
		return err
	}

	data := report.Data{
		Title:       fmt.Sprintf("%s - API Validation", doc.Info().Title),
		GeneratedAt: time.Now(),
		SpecInfo:    doc.Info(),
		Summary:     summary,
		Results:     results,
	}

	if err := writeReports(cfg, data); err != nil {
		return err
	}

	if noHistory, _ := cmd.Flags().GetBool("no-history"); !noHistory {
		database, store, err := openHistory(cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		} else {
			defer database.Close()
			info := doc.Info()
			runID, err := store.SaveRun(ctx, history.Run{
				SpecTitle:   info.Title,
				SpecVersion: info.Version,
				SpecPath:    args[0],
				BaseURL:     cfg.BaseURL,
				Summary:     summary,
			}, results)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Warning: could not save run: %v\n", err)
			} else if verbose {
				fmt.Fprintf(os.Stderr, "Run recorded as %s\n", runID)
			}
		}
	}

	printSummary(summary, time.Since(start))
	if summary.Failed > 0 {
		os.Exit(1)
	}
	return nil
}

// applyValidateFlags layers command-line overrides onto the loaded config.
func applyValidateFlags(cmd *cobra.Command, cfg *config.Config) {
	if baseURL, _ := cmd.Flags().GetString("base-url"); baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if include, _ := cmd.Flags().GetStringSlice("include"); len(include) > 0 {
		cfg.Include = include
	}
	if exclude, _ := cmd.Flags().GetStringSlice("exclude"); len(exclude) > 0 {
		cfg.Exclude = exclude
	}
	if concurrency, _ := cmd.Flags().GetInt("concurrency"); concurrency > 0 {
		cfg.Validation.MaxConcurrency = concurrency
	}
	if format, _ := cmd.Flags().GetString("format"); format != "" {
		cfg.Reporting.OutputFormat = config.OutputFormat(format)
	}
	if output, _ := cmd.Flags().GetString("output"); output != "" {
		cfg.Reporting.OutputDir = output
	}
	if strict, _ := cmd.Flags().GetBool("strict"); strict {
		cfg.Validation.StrictMode = true
	}
}

// writeReports generates the configured report artifacts.
func writeReports(cfg *config.Config, data report.Data) error {
	format := cfg.Reporting.OutputFormat

	if format == config.FormatHTML || format == config.FormatBoth {
		path, err := report.NewHTMLReporter(cfg.Reporting.OutputDir).Generate(data)
		if err != nil {
			return fmt.Errorf("writing HTML report: %w", err)
		}
		fmt.Fprintf(os.Stderr, "HTML report: %s\n", path)
	}
	if format == config.FormatJSON || format == config.FormatBoth {
		path, err := report.NewJSONReporter(cfg.Reporting.OutputDir).Generate(data)
		if err != nil {
			return fmt.Errorf("writing JSON report: %w", err)
		}
		fmt.Fprintf(os.Stderr, "JSON report: %s\n", path)
	}
	return nil
}

func printSummary(summary engine.Summary, elapsed time.Duration) {
	fmt.Printf("\n%d endpoints validated in %s: %d passed, %d failed (%.1f%% success)\n",
		summary.Total, elapsed.Round(time.Millisecond), summary.Passed, summary.Failed, summary.SuccessRate)
}
