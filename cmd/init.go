package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/apivet/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize apivet configuration with an interactive wizard",
	Long:  `Runs an interactive wizard to configure apivet for your API and generates a .apivet.yml file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := config.RunWizard()
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
