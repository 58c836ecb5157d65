package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"promoctl/pkg/api"
	"promoctl/pkg/config"
	"promoctl/pkg/jobs"
	"promoctl/pkg/lastjob"
	"promoctl/pkg/models"
)

var (
	singlePlatform   string
	singleEngagement string
	singleLink       string
	singleQuantity   int

	runWatch bool
)

func init() {
	rootCmd.AddCommand(promoCmd)
	promoCmd.AddCommand(promoSingleCmd)
	promoCmd.AddCommand(promoRunCmd)
	promoCmd.AddCommand(promoStopCmd)
	promoCmd.AddCommand(promoStatusCmd)

	promoSingleCmd.Flags().StringVar(&singlePlatform, "platform", "", "Platform (defaults to configured platform)")
	promoSingleCmd.Flags().StringVar(&singleEngagement, "engagement", "", "Engagement type (e.g. Likes)")
	promoSingleCmd.Flags().StringVar(&singleLink, "link", "", "Post link (https://...)")
	promoSingleCmd.Flags().IntVar(&singleQuantity, "quantity", 0, "Order quantity")
	promoSingleCmd.MarkFlagRequired("engagement")
	promoSingleCmd.MarkFlagRequired("link")
	promoSingleCmd.MarkFlagRequired("quantity")

	promoRunCmd.Flags().BoolVar(&runWatch, "watch", false, "Poll the job until it finishes")
}

var promoCmd = &cobra.Command{
	Use:   "promo",
	Short: "Launch and manage promotion jobs",
}

var promoSingleCmd = &cobra.Command{
	Use:   "single",
	Short: "Schedule a one-off promotion",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := getOutputPrinter()
		ctx, cancel := commandContext()
		defer cancel()

		a := getApp(ctx)
		defer a.Close()

		platform := singlePlatform
		if platform == "" {
			platform = config.GetDefaultPlatform()
		}

		jobID, err := a.Jobs.StartSingle(ctx, api.StartSingleRequest{
			Platform:   platform,
			Engagement: singleEngagement,
			Link:       singleLink,
			Quantity:   singleQuantity,
		})
		if err != nil {
			return out.Error(err)
		}

		lastjob.Set(jobID, models.JobSingleShot.String(), singleLink)
		if out.IsJSON() {
			return out.Success(map[string]string{"job_id": jobID})
		}
		out.Printf("✓ Scheduled. Job ID: %s\n", jobID)
		return nil
	},
}

var promoRunCmd = &cobra.Command{
	Use:   "run <profile> <link>",
	Short: "Schedule a profile-based promotion",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := getOutputPrinter()

		ctx := context.Background()
		if runWatch {
			var stop context.CancelFunc
			ctx, stop = signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()
		} else {
			var cancel context.CancelFunc
			ctx, cancel = commandContext()
			defer cancel()
		}

		a := getApp(ctx)
		defer a.Close()

		done := make(chan jobs.Event, 1)
		if runWatch {
			a.Jobs.Subscribe(func(ev jobs.Event) {
				if ev.State.Terminal() {
					select {
					case done <- ev:
					default:
					}
				}
			})
		}

		jobID, err := a.Jobs.StartProfile(ctx, args[0], args[1])
		if err != nil {
			return out.Error(err)
		}
		lastjob.Set(jobID, models.JobProfileBased.String(), args[1])

		if !runWatch {
			if out.IsJSON() {
				return out.Success(map[string]string{"job_id": jobID})
			}
			out.Printf("✓ Scheduled. Job ID: %s\n", jobID)
			return nil
		}

		select {
		case <-ctx.Done():
			out.Printf("Interrupted. Job %s keeps running server-side; use 'promoctl promo stop %s' to stop it.\n", jobID, jobID)
			return nil
		case ev := <-done:
			if out.IsJSON() {
				return out.Success(map[string]string{
					"job_id":  ev.JobID,
					"status":  ev.State.String(),
					"message": ev.Message,
				})
			}
			if ev.State == jobs.StateFailed {
				return out.Error(fmt.Errorf("job %s failed: %s", ev.JobID, ev.Message))
			}
			out.Printf("✓ Job %s finished: %s\n", ev.JobID, ev.State)
			return nil
		}
	},
}

var promoStopCmd = &cobra.Command{
	Use:   "stop [job-id]",
	Short: "Request a cooperative stop of a job",
	Long:  "Stop a job by id, or the most recently scheduled one when no id is given. The job resolves through polling, not through this call.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := getOutputPrinter()
		ctx, cancel := commandContext()
		defer cancel()

		arg := ""
		if len(args) == 1 {
			arg = args[0]
		}
		jobID, fromMemory, err := lastjob.Resolve(arg)
		if err != nil {
			return out.Error(err)
		}

		a := getApp(ctx)
		defer a.Close()

		resp, err := a.Client.StopPromo(ctx, jobID)
		if err != nil {
			return out.Error(err)
		}
		if !resp.OK() {
			return out.Error(fmt.Errorf("stop job %s: %s", jobID, resp.Message))
		}
		if out.IsJSON() {
			return out.Success(map[string]string{"job_id": jobID, "message": resp.Message})
		}
		if fromMemory {
			out.Printf("✓ Stop requested for last job %s\n", jobID)
		} else {
			out.Printf("✓ Stop requested for job %s\n", jobID)
		}
		return nil
	},
}

var promoStatusCmd = &cobra.Command{
	Use:   "status [job-id]",
	Short: "Show a job's current status",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := getOutputPrinter()
		ctx, cancel := commandContext()
		defer cancel()

		arg := ""
		if len(args) == 1 {
			arg = args[0]
		}
		jobID, _, err := lastjob.Resolve(arg)
		if err != nil {
			return out.Error(err)
		}

		a := getApp(ctx)
		defer a.Close()

		resp, err := a.Client.JobStatus(ctx, jobID)
		if err != nil {
			return out.Error(err)
		}
		if !resp.Success {
			return out.Error(fmt.Errorf("job %s: %s", jobID, resp.ErrorMessage()))
		}
		if out.IsJSON() {
			return out.Success(map[string]string{
				"job_id":  jobID,
				"status":  resp.Status,
				"message": resp.Message,
			})
		}
		out.Printf("Job %s: %s", jobID, resp.Status)
		if resp.Message != "" {
			out.Printf(" - %s", resp.Message)
		}
		out.Printf("\n")
		return nil
	},
}
