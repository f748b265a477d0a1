package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/apivet/internal/tui"
)

var viewCmd = &cobra.Command{
	Use:   "view [run-id]",
	Short: "Browse a recorded validation run in the terminal",
	Long:  `Opens an interactive terminal viewer over a recorded run (the latest when no id is given): summary, passed, and failed tabs with foldable per-endpoint details.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		database, store, err := openHistory(cfg)
		if err != nil {
			return err
		}
		defer database.Close()

		data, err := loadRunData(context.Background(), store, args)
		if err != nil {
			return err
		}
		return tui.Run(data)
	},
}

func init() {
	rootCmd.AddCommand(viewCmd)
}
