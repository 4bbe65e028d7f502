package watch

import (
	"fmt"
	"log"
	"time"

	"github.com/spf13/cobra"
	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"

	"spaceworks/internal/app"
	"spaceworks/internal/app/model"
)

var jobID string
var interval time.Duration

func init() {
	Cmd.Flags().StringVarP(&jobID, "job", "j", "", "Job ID to watch")
	Cmd.Flags().DurationVarP(&interval, "interval", "i", time.Second, "Poll interval")

	Cmd.MarkFlagRequired("job")
}

// Cmd represents the watch command.
var Cmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch a job's progress until it reaches a terminal state",
	Run: func(cmd *cobra.Command, args []string) {
		store := app.InitializeStore()

		job, err := store.Get(jobID)
		if err != nil {
			log.Fatalf("failed to read job: %v\n", err)
		}

		container := mpb.New(mpb.WithRefreshRate(120 * time.Millisecond))
		bar := container.AddBar(100,
			mpb.PrependDecorators(
				decor.Name(string(job.Kind)+" ", decor.WC{W: len(job.Kind) + 1, C: decor.DindentRight}),
				decor.Name(job.SpaceID, decor.WCSyncSpaceR),
			),
			mpb.AppendDecorators(
				decor.Percentage(decor.WCSyncSpace),
			),
		)

		for {
			bar.SetCurrent(int64(job.Progress))
			if job.Status.IsTerminal() {
				if job.Status == model.JobStatusCompleted {
					bar.SetCurrent(100)
				} else {
					bar.Abort(false)
				}
				break
			}
			time.Sleep(interval)
			job, err = store.Get(jobID)
			if err != nil {
				log.Fatalf("failed to read job: %v\n", err)
			}
		}
		container.Wait()

		fmt.Printf("job %s finished with status %s\n", job.ID, job.Status)
		if job.Error != "" {
			fmt.Printf("error: %s\n", job.Error)
		}
	},
}
