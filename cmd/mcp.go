package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/apivet/internal/config"
	"github.com/ziadkadry99/apivet/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server for AI agent integration",
	Long: `Starts an MCP (Model Context Protocol) server on stdio exposing API
validation tools: listing spec endpoints, running validation sweeps, and
reading past runs. Configure it in your AI agent as a stdio MCP server.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		// The MCP server must work out of the box; a missing config file
		// just means defaults.
		cfg, err := config.Load(cfgFile)
		if err != nil {
			cfg = config.DefaultConfig()
		}

		database, store, err := openHistory(cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: run history unavailable: %v\n", err)
			store = nil
		} else {
			defer database.Close()
		}

		mcp.Version = Version
		srv := mcp.NewServer(cfg, store)
		fmt.Fprintln(os.Stderr, "apivet MCP server listening on stdio")
		return srv.Serve()
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
