package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/strandui/strand/pkg/component"
	"github.com/strandui/strand/pkg/inspect"
	"github.com/strandui/strand/pkg/scheduler"
	"github.com/strandui/strand/pkg/telemetry"
)

func inspectCmd() *cobra.Command {
	var (
		addr       string
		components int
		tick       time.Duration
	)

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Run a demo tree with the inspector server",
		Long: `Builds a demo component tree, keeps it live with a background mutation
loop and serves the inspector API and websocket event stream.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(addr, components, tick)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", ":7071", "Inspector listen address")
	cmd.Flags().IntVarP(&components, "components", "c", 8, "Number of demo components")
	cmd.Flags().DurationVarP(&tick, "tick", "t", 500*time.Millisecond, "Mutation loop interval")

	return cmd
}

func runInspect(addr string, nComponents int, tick time.Duration) error {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	metrics := telemetry.NewMetrics()
	tracer := telemetry.NewTracer()
	hub := inspect.NewHub()

	sched := scheduler.New(
		scheduler.WithLogger(logger),
		scheduler.WithObserver(metrics),
		scheduler.WithObserver(tracer),
		scheduler.WithObserver(hub),
	)
	tree := component.NewTree(
		component.WithLogger(logger),
		component.WithScheduler(sched),
		component.WithObserver(metrics),
		component.WithObserver(tracer),
		component.WithObserver(hub),
	)
	reg := demoRegistry()

	rootID, err := tree.CreateComponent(reg, "counter", counterProps{Label: "root", Step: 1})
	if err != nil {
		return err
	}
	if err := tree.SetRoot(rootID); err != nil {
		return err
	}
	for i := 1; i < nComponents; i++ {
		id, err := tree.CreateComponent(reg, "counter",
			counterProps{Label: fmt.Sprintf("counter-%d", i), Step: int64(i)})
		if err != nil {
			return err
		}
		if err := tree.AddChild(rootID, id); err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := tree.MountTree(ctx, rootID); err != nil {
		return err
	}
	defer func() {
		if err := tree.UnmountTree(context.Background(), rootID); err != nil {
			logger.Error("unmount failed", "error", err)
		}
	}()

	// Keep the tree moving so the inspector has something to show.
	go func() {
		ticker := time.NewTicker(tick)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				for _, id := range tree.AllComponents() {
					mgr, err := tree.Manager(id)
					if err != nil {
						continue
					}
					if c, ok := mgr.Instance().Component().(*counter); ok {
						c.Increment()
					}
				}
				tree.ProcessScheduledUpdates(ctx, nil)
			}
		}
	}()

	srv := inspect.NewServer(tree,
		inspect.WithAddr(addr),
		inspect.WithLogger(logger),
		inspect.WithHub(hub),
	)
	return srv.Start(ctx)
}
