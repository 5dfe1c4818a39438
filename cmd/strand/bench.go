package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/strandui/strand/pkg/component"
	"github.com/strandui/strand/pkg/scheduler"
	"github.com/strandui/strand/pkg/telemetry"
)

func benchCmd() *cobra.Command {
	var (
		components int
		iterations int
	)

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Drive a synthetic component tree and report throughput",
		Long: `Builds a tree of counter components, then repeatedly mutates their
signals and drains the scheduler, reporting updates per second and drain
latency.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBench(cmd.OutOrStdout(), components, iterations)
		},
	}

	cmd.Flags().IntVarP(&components, "components", "c", 100, "Number of components in the tree")
	cmd.Flags().IntVarP(&iterations, "iterations", "n", 1000, "Number of mutate-and-drain passes")

	return cmd
}

func runBench(out io.Writer, nComponents, iterations int) error {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	metrics := telemetry.NewMetrics()

	sched := scheduler.New(
		scheduler.WithLogger(logger),
		scheduler.WithObserver(metrics),
	)
	tree := component.NewTree(
		component.WithLogger(logger),
		component.WithScheduler(sched),
		component.WithObserver(metrics),
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
			counterProps{Label: fmt.Sprintf("counter-%d", i), Step: 1})
		if err != nil {
			return err
		}
		if err := tree.AddChild(rootID, id); err != nil {
			return err
		}
	}

	ctx := context.Background()
	if err := tree.MountTree(ctx, rootID); err != nil {
		return err
	}

	counters := make([]*counter, 0, nComponents)
	for _, id := range tree.AllComponents() {
		mgr, err := tree.Manager(id)
		if err != nil {
			return err
		}
		c, ok := mgr.Instance().Component().(*counter)
		if !ok {
			continue
		}
		counters = append(counters, c)
	}

	var (
		drained    int
		totalDrain time.Duration
		maxDrain   time.Duration
	)

	start := time.Now()
	for i := 0; i < iterations; i++ {
		for _, c := range counters {
			c.Increment()
		}

		drainStart := time.Now()
		n := tree.ProcessScheduledUpdates(ctx, nil)
		drainTook := time.Since(drainStart)

		drained += n
		totalDrain += drainTook
		if drainTook > maxDrain {
			maxDrain = drainTook
		}
	}
	elapsed := time.Since(start)

	fmt.Fprintf(out, "components:      %d\n", nComponents)
	fmt.Fprintf(out, "iterations:      %d\n", iterations)
	fmt.Fprintf(out, "updates drained: %d\n", drained)
	fmt.Fprintf(out, "elapsed:         %s\n", elapsed)
	fmt.Fprintf(out, "updates/sec:     %.0f\n", float64(drained)/elapsed.Seconds())
	if iterations > 0 {
		fmt.Fprintf(out, "avg drain:       %s\n", totalDrain/time.Duration(iterations))
	}
	fmt.Fprintf(out, "max drain:       %s\n", maxDrain)

	return tree.UnmountTree(ctx, rootID)
}
