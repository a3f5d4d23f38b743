package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vmunix/yodel/internal/api"
	"github.com/vmunix/yodel/internal/job"
)

var jobsCmd = &cobra.Command{
	Use:   "jobs",
	Short: "List download jobs",
	RunE:  runJobsCmd,
}

func init() {
	rootCmd.AddCommand(jobsCmd)
	jobsCmd.Flags().BoolP("completed", "c", false, "Show completed jobs instead of pending")
	jobsCmd.Flags().BoolP("all", "a", false, "Show pending and completed jobs")
}

func runJobsCmd(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	completed, _ := cmd.Flags().GetBool("completed")
	all, _ := cmd.Flags().GetBool("all")

	client := api.NewClient(cfg.Server.URL)
	ctx := cmd.Context()

	var pending, done []job.Job
	if all || !completed {
		if pending, err = client.PendingJobs(ctx); err != nil {
			return fmt.Errorf("jobs fetch failed: %w", err)
		}
	}
	if all || completed {
		if done, err = client.CompletedJobs(ctx); err != nil {
			return fmt.Errorf("jobs fetch failed: %w", err)
		}
	}

	if jsonOutput {
		printJSON(map[string][]job.Job{"pending": pending, "completed": done})
		return nil
	}

	if all || !completed {
		printJobList("Pending", pending)
	}
	if all && (len(pending) > 0 || len(done) > 0) {
		fmt.Println()
	}
	if all || completed {
		printJobList("Completed", done)
	}
	return nil
}

func printJobList(heading string, jobs []job.Job) {
	if len(jobs) == 0 {
		fmt.Printf("No %s jobs\n", strings.ToLower(heading))
		return
	}

	fmt.Printf("%s Jobs (%d):\n\n", heading, len(jobs))
	fmt.Printf("  %-36s %-12s %-14s %s\n", "TITLE", "LOCATION", "STATUS", "STARTED")
	fmt.Println("  " + strings.Repeat("-", 76))

	for _, j := range jobs {
		fmt.Printf("  %-36s %-12s %-14s %s\n",
			truncate(j.DisplayTitle(), 36),
			truncate(j.Location.Name, 12),
			truncate(j.Status.String(), 14),
			formatTimeAgo(j.StartedOn))
	}
}
