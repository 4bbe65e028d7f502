package serve

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"spaceworks/internal/app"
)

// Cmd represents the serve command.
var Cmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the producer/status HTTP API",
	Long: `Run the producer/status HTTP API.

- POST /api/v1/jobs enqueues work for the worker daemons
- GET /api/v1/jobs/:id reports status, progress and result at any time
- POST /api/v1/jobs/:id/cancel requests cooperative cancellation`,
	Run: func(cmd *cobra.Command, args []string) {
		srv := app.InitializeServer()

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		errCh := make(chan error, 1)
		go func() {
			errCh <- srv.Start()
		}()

		select {
		case err := <-errCh:
			if err != nil {
				log.Fatalf("API server failed: %v\n", err)
			}
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				log.Printf("shutdown failed: %v\n", err)
				os.Exit(1)
			}
		}
	},
}
