package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/vmunix/yodel/internal/api"
	"github.com/vmunix/yodel/internal/events"
	"github.com/vmunix/yodel/internal/notify"
	"github.com/vmunix/yodel/internal/session"
	"github.com/vmunix/yodel/internal/stream"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Follow live job updates from the server",
	Long: `Connects to the server's push channel and prints job list changes
and per-job alerts as they happen. Reconnects automatically if the
connection drops. Press Ctrl-C to stop.`,
	RunE: runWatchCmd,
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().Bool("no-history", false, "Do not record alerts to the local history database")
}

// terminalSink renders alerts as lines on stdout.
type terminalSink struct{}

func (terminalSink) Show(a notify.Alert) {
	fmt.Printf("%-8s %s: %s\n", strings.ToUpper(string(a.Severity)), a.Title, a.Description)
}

func runWatchCmd(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	noHistory, _ := cmd.Flags().GetBool("no-history")

	level, err := cfg.SlogLevel()
	if err != nil {
		return err
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	streamURL, err := cfg.StreamURL()
	if err != nil {
		return err
	}

	var history *notify.History
	if !noHistory {
		path, err := cfg.HistoryPath()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return fmt.Errorf("create history dir: %w", err)
		}
		history, err = notify.OpenHistory(path)
		if err != nil {
			// History is a convenience; watching still works without it.
			logger.Warn("history disabled", "error", err)
		} else {
			defer func() { _ = history.Close() }()
		}
	}

	bus := events.NewBus(logger)
	defer bus.Close()

	mgr := stream.NewManager(streamURL, stream.Options{
		MinBackoff:  cfg.Stream.MinBackoff.Std(),
		MaxBackoff:  cfg.Stream.MaxBackoff.Std(),
		ReadTimeout: cfg.Stream.ReadTimeout.Std(),
	}, logger)
	sess := session.New(api.NewClient(cfg.Server.URL), mgr, bus, logger)
	dispatcher := notify.NewDispatcher(terminalSink{}, history, logger)

	alertCh := bus.SubscribeAll(64)
	renderCh := bus.SubscribeAll(64)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("Watching %s (Ctrl-C to stop)\n", cfg.Server.URL)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return sess.Run(ctx) })
	g.Go(func() error { return dispatcher.Run(ctx, alertCh) })
	g.Go(func() error { return renderLoop(ctx, renderCh, sess.Store()) })

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	fmt.Println("Stopped")
	return nil
}

// renderLoop prints connection flips and list changes as they arrive.
func renderLoop(ctx context.Context, ch <-chan events.Event, store *session.Store) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case e, ok := <-ch:
			if !ok {
				return nil
			}
			switch ev := e.(type) {
			case events.ConnStateChanged:
				fmt.Printf("stream %s\n", ev.State)
			case events.PendingReplaced, events.CompletedReplaced:
				pending, completed := store.Counts()
				fmt.Printf("jobs: %d pending, %d completed\n", pending, completed)
			}
		}
	}
}
