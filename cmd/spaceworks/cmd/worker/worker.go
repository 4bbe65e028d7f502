package worker

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"spaceworks/internal/app"
	"spaceworks/internal/app/model"
)

var kind string
var jobsDir string

func init() {
	Cmd.Flags().StringVarP(&kind, "kind", "k", "",
		"Job kind this daemon consumes: transcription, translation or video")
	Cmd.Flags().StringVarP(&jobsDir, "jobs-dir", "j", "",
		"Override the job store location (default from SPACEWORKS_JOBS_DIR)")

	Cmd.MarkFlagRequired("kind")
}

// Cmd represents the worker command.
var Cmd = &cobra.Command{
	Use:   "worker",
	Short: "Run the job-consuming daemon for one job kind",
	Long: `Run the job-consuming daemon for one job kind.

- Claims the oldest pending job of its kind, one at a time
- Reports estimated progress while the external operation runs
- Prices and debits metered operations against the user's credit balance
- Runs until SIGINT/SIGTERM, finishing the current iteration before exiting`,
	Run: func(cmd *cobra.Command, args []string) {
		jobKind, ok := model.ParseKind(kind)
		if !ok {
			log.Fatalf("unknown job kind %q\n", kind)
		}
		if jobsDir != "" {
			os.Setenv("SPACEWORKS_JOBS_DIR", jobsDir)
		}

		w := app.InitializeWorker(jobKind)

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		w.Run(ctx)
	},
}
