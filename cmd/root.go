package cmd

import (
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "apivet",
	Short: "Validate live API responses against an OpenAPI specification",
	Long: `apivet calls every endpoint declared in an OpenAPI specification against
a running API and checks the responses: status codes, JSON schemas, and
headers. Results are written as HTML and JSON reports, recorded in a local
run history, and can be browsed in the terminal or a web dashboard.`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", ".apivet.yml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
