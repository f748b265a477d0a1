package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/apivet/internal/live"
	"github.com/ziadkadry99/apivet/internal/server"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the validation dashboard server",
	Long: `Starts an HTTP server exposing the run history as a REST API, serving
generated report files, and relaying live sweep progress over a websocket.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if servePort > 0 {
			cfg.Server.Port = servePort
		}

		database, _, err := openHistory(cfg)
		if err != nil {
			return err
		}
		defer database.Close()

		hub := live.NewHub()
		srv := server.New(server.Config{
			Port:       cfg.Server.Port,
			ReportsDir: cfg.Reporting.OutputDir,
			AllowAll:   cfg.Server.AllowAll,
		}, database, hub)

		// Graceful shutdown.
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		go func() {
			<-ctx.Done()
			fmt.Fprintln(os.Stderr, "\nShutting down server...")
			srv.Shutdown(context.Background())
		}()

		fmt.Fprintf(os.Stderr, "apivet dashboard v%s starting on port %d\n", Version, cfg.Server.Port)
		fmt.Fprintf(os.Stderr, "  History: %s\n", cfg.DataDir)
		fmt.Fprintf(os.Stderr, "  Reports: %s\n", cfg.Reporting.OutputDir)

		return srv.Start()
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "port to listen on (overrides config)")
	rootCmd.AddCommand(serveCmd)
}
