package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/apivet/internal/config"
	"github.com/ziadkadry99/apivet/internal/history"
	"github.com/ziadkadry99/apivet/internal/report"
	"github.com/ziadkadry99/apivet/internal/spec"
)

var reportCmd = &cobra.Command{
	Use:   "report [run-id]",
	Short: "Re-generate report artifacts from a recorded run",
	Long:  `Reads a run from the local history database (the latest when no id is given) and writes its HTML and/or JSON reports again.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		ctx := context.Background()

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if format, _ := cmd.Flags().GetString("format"); format != "" {
			cfg.Reporting.OutputFormat = config.OutputFormat(format)
		}
		if output, _ := cmd.Flags().GetString("output"); output != "" {
			cfg.Reporting.OutputDir = output
		}

		database, store, err := openHistory(cfg)
		if err != nil {
			return err
		}
		defer database.Close()

		data, err := loadRunData(ctx, store, args)
		if err != nil {
			return err
		}
		return writeReports(cfg, data)
	},
}

func init() {
	reportCmd.Flags().String("format", "", "report format: html, json, or both (overrides config)")
	reportCmd.Flags().String("output", "", "report output directory (overrides config)")
	rootCmd.AddCommand(reportCmd)
}

// loadRunData reads a stored run and reassembles the report data.
func loadRunData(ctx context.Context, store *history.Store, args []string) (report.Data, error) {
	var (
		run *history.Run
		err error
	)
	if len(args) > 0 {
		run, err = store.GetRun(ctx, args[0])
	} else {
		run, err = store.LatestRun(ctx)
	}
	if errors.Is(err, history.ErrNotFound) {
		return report.Data{}, fmt.Errorf("no recorded runs found. Run `apivet validate` first")
	}
	if err != nil {
		return report.Data{}, fmt.Errorf("reading run history: %w", err)
	}

	results, err := store.Results(ctx, run.ID)
	if err != nil {
		return report.Data{}, fmt.Errorf("reading run results: %w", err)
	}

	return report.Data{
		Title:       fmt.Sprintf("%s - API Validation", run.SpecTitle),
		GeneratedAt: run.CreatedAt,
		SpecInfo: spec.Info{
			Title:      run.SpecTitle,
			Version:    run.SpecVersion,
			SourcePath: run.SpecPath,
		},
		Summary: run.Summary,
		Results: results,
	}, nil
}
