package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vmunix/yodel/internal/api"
	"github.com/vmunix/yodel/internal/notify"
	"github.com/vmunix/yodel/pkg/match"
)

var submitCmd = &cobra.Command{
	Use:   "submit <url> <location>",
	Short: "Submit a video URL for download",
	Args:  cobra.ExactArgs(2),
	RunE:  runSubmitCmd,
}

func init() {
	rootCmd.AddCommand(submitCmd)
}

func runSubmitCmd(cmd *cobra.Command, args []string) error {
	url, location := args[0], args[1]

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	client := api.NewClient(cfg.Server.URL)
	ctx := cmd.Context()

	location, err = resolveLocation(ctx, client, location)
	if err != nil {
		return err
	}

	outcome, err := client.Submit(ctx, url, location)
	if err != nil {
		return fmt.Errorf("submit failed: %w", err)
	}

	if jsonOutput {
		printJSON(map[string]string{"outcome": string(outcome.Kind), "detail": outcome.Detail})
		return nil
	}

	if alert, refused := notify.FromOutcome(outcome, url); refused {
		fmt.Printf("%s: %s\n", alert.Title, alert.Description)
		if alert.Severity == notify.SeverityError {
			return fmt.Errorf("submission not accepted")
		}
		return nil
	}

	fmt.Printf("Submitted %s to %s\n", url, location)
	return nil
}

// resolveLocation checks the requested location against the server's
// catalog before submitting. The canonical name is returned on a match;
// on a miss the error carries a close-match suggestion when one exists.
func resolveLocation(ctx context.Context, client *api.Client, requested string) (string, error) {
	locations, err := client.Locations(ctx)
	if err != nil {
		return "", fmt.Errorf("locations fetch failed: %w", err)
	}

	names := make([]string, 0, len(locations))
	for _, loc := range locations {
		if match.Exact(requested, loc.Name) {
			return loc.Name, nil
		}
		names = append(names, loc.Name)
	}

	if best, ok := match.Best(requested, names); ok {
		return "", fmt.Errorf("unknown location %q (did you mean %q?)", requested, best.Name)
	}
	return "", fmt.Errorf("unknown location %q (run 'yodel locations' to list them)", requested)
}
