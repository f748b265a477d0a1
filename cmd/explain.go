package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/apivet/internal/engine"
	"github.com/ziadkadry99/apivet/internal/explain"
)

var explainCmd = &cobra.Command{
	Use:   "explain [run-id]",
	Short: "Explain the failures of a recorded run using AI",
	Long: `Reads a recorded run (the latest when no id is given) and asks an OpenAI
model to explain each failed endpoint in plain language: what is wrong,
where the fault likely lies, and how to fix it. Requires OPENAI_API_KEY.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		ctx := context.Background()

		apiKey := os.Getenv("OPENAI_API_KEY")
		if apiKey == "" {
			return fmt.Errorf("OPENAI_API_KEY environment variable is required")
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
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

		failed := data.Failed()
		if len(failed) == 0 {
			fmt.Println("All endpoints passed; nothing to explain.")
			return nil
		}

		if filter, _ := cmd.Flags().GetString("endpoint"); filter != "" {
			var picked []engine.EndpointResult
			for _, res := range failed {
				if res.Endpoint.ID() == filter {
					picked = append(picked, res)
				}
			}
			if len(picked) == 0 {
				return fmt.Errorf("no failed result for endpoint %q in this run", filter)
			}
			failed = picked
		}

		explainer := explain.New(apiKey, cfg.Explain.Model)
		for i, res := range failed {
			if i > 0 {
				fmt.Println()
			}
			fmt.Printf("## %s\n\n", res.Endpoint.ID())
			text, err := explainer.Explain(ctx, res)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
				continue
			}
			fmt.Println(text)
		}
		return nil
	},
}

func init() {
	explainCmd.Flags().String("endpoint", "", "only explain one endpoint, e.g. 'GET /users/{id}'")
	rootCmd.AddCommand(explainCmd)
}
