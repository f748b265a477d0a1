package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/apivet/internal/engine"
	"github.com/ziadkadry99/apivet/internal/spec"
)

var endpointsCmd = &cobra.Command{
	Use:   "endpoints <openapi-spec>",
	Short: "List the endpoints declared in an OpenAPI specification",
	Long:  `Parses the spec and prints a markdown table of endpoints with their expected status codes, without calling the API.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		doc, err := loadSpec(args)
		if err != nil {
			return err
		}

		include, _ := cmd.Flags().GetStringSlice("include")
		exclude, _ := cmd.Flags().GetStringSlice("exclude")
		eps := engine.FilterEndpoints(doc.Endpoints(), include, exclude)

		info := doc.Info()
		fmt.Printf("# %s %s\n\n", info.Title, info.Version)
		fmt.Print(formatEndpointsMarkdown(eps))
		return nil
	},
}

func init() {
	endpointsCmd.Flags().StringSlice("include", nil, "glob patterns of endpoints to list")
	endpointsCmd.Flags().StringSlice("exclude", nil, "glob patterns of endpoints to skip")
	rootCmd.AddCommand(endpointsCmd)
}

// formatEndpointsMarkdown renders endpoints as a markdown table.
func formatEndpointsMarkdown(eps []spec.Endpoint) string {
	if len(eps) == 0 {
		return "No endpoints declared.\n"
	}

	var b strings.Builder
	b.WriteString("| Method | Path | Status Codes | Summary |\n")
	b.WriteString("|--------|------|--------------|--------|\n")
	for _, ep := range eps {
		codes := strings.Join(ep.ExpectedStatusCodes(), ", ")
		fmt.Fprintf(&b, "| %s | %s | %s | %s |\n", ep.Method, ep.Path, codes, ep.Summary)
	}
	return b.String()
}
