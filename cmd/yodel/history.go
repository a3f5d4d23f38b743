package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/vmunix/yodel/internal/notify"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recently surfaced alerts",
	RunE:  runHistoryCmd,
}

var historyPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete old alerts from the local history",
	RunE:  runHistoryPruneCmd,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyPruneCmd)
	historyCmd.Flags().IntP("limit", "n", 20, "Maximum entries to show")
	historyPruneCmd.Flags().Duration("older-than", 30*24*time.Hour, "Delete alerts older than this")
}

func openHistory() (*notify.History, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	path, err := cfg.HistoryPath()
	if err != nil {
		return nil, err
	}
	return notify.OpenHistory(path)
}

func runHistoryCmd(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")

	history, err := openHistory()
	if err != nil {
		return err
	}
	defer func() { _ = history.Close() }()

	entries, err := history.Recent(limit)
	if err != nil {
		return fmt.Errorf("history fetch failed: %w", err)
	}

	if jsonOutput {
		printJSON(entries)
		return nil
	}

	if len(entries) == 0 {
		fmt.Println("No alerts recorded")
		return nil
	}

	fmt.Printf("  %-8s %-10s %-30s %s\n", "WHEN", "SEVERITY", "TITLE", "DETAIL")
	fmt.Println("  " + strings.Repeat("-", 76))
	for _, e := range entries {
		fmt.Printf("  %-8s %-10s %-30s %s\n",
			formatTimeAgo(e.OccurredAt),
			string(e.Severity),
			truncate(e.Title, 30),
			truncate(e.Description, 40))
	}
	return nil
}

func runHistoryPruneCmd(cmd *cobra.Command, args []string) error {
	olderThan, _ := cmd.Flags().GetDuration("older-than")

	history, err := openHistory()
	if err != nil {
		return err
	}
	defer func() { _ = history.Close() }()

	deleted, err := history.Prune(olderThan)
	if err != nil {
		return fmt.Errorf("prune failed: %w", err)
	}
	fmt.Printf("Deleted %d alerts\n", deleted)
	return nil
}
