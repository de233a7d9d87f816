package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ja7ad/sysmon/pkg/config"
	"github.com/ja7ad/sysmon/pkg/metrics"
	"github.com/ja7ad/sysmon/pkg/process"
	"github.com/ja7ad/sysmon/pkg/render"
	"github.com/ja7ad/sysmon/pkg/session"
)

type topOpts struct {
	duration time.Duration
	frames   int
}

var top topOpts

func newTopCommand(g *globalOpts) *cobra.Command {
	var df displayFlags
	cmd := &cobra.Command{
		Use:   "top",
		Short: "Live dashboard of host metrics and the process tree",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTop(cmd, g, &df)
		},
	}
	bindDisplayFlags(cmd, &df)
	cmd.Flags().DurationVarP(&top.duration, "duration", "d", 0, "stop after this long (0 = until Ctrl-C)")
	cmd.Flags().IntVarP(&top.frames, "frames", "n", 0, "stop after this many frames (0 = unlimited)")
	return cmd
}

func runTop(cmd *cobra.Command, g *globalOpts, df *displayFlags) error {
	cfg, err := loadConfig(cmd, g, df)
	if err != nil {
		return err
	}
	src, err := openSources(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signalContext(cmd.Context())
	defer stop()
	if top.duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, top.duration)
		defer cancel()
	}

	logger := slog.Default()
	sampler := metrics.NewSampler(src.metrics, metrics.Config{Intervals: cfg.Intervals(), Logger: logger})
	engine := process.NewEngine(src.process, process.EngineConfig{Interval: cfg.ProcessInterval, Logger: logger})

	if err := sampler.Start(ctx); err != nil {
		return err
	}
	if err := engine.Start(ctx); err != nil {
		return errors.Join(err, sampler.Stop())
	}

	screen := render.NewScreen(os.Stdout)
	restore := func() {}
	if screen.IsTerminal() {
		restore = enableSingleView()
	}

	summary, started := display(ctx, screen, sampler, engine, cfg, hostHeader(src.name))

	restore()
	stopErr := errors.Join(engine.Stop(), sampler.Stop())
	printSummary(os.Stdout, summary, time.Since(started))
	return stopErr
}

// display redraws until ctx ends or the frame limit is reached.
func display(ctx context.Context, screen *render.Screen, sampler *metrics.Sampler, engine *process.Engine,
	cfg config.Config, host render.Host) (session.Summary, time.Time) {
	acc := session.New()
	opts := renderOptions(cfg)
	started := time.Now()

	ticker := time.NewTicker(cfg.FrameInterval())
	defer ticker.Stop()

	frames := 0
	for {
		select {
		case <-ctx.Done():
			slog.Info("interrupted", "frames", frames)
			return acc.Summary(), started
		case now := <-ticker.C:
			snap := sampler.Snapshot()
			acc.Apply(snap)
			frame := render.Frame{Host: host, Metrics: snap, Forest: engine.Snapshot(), Now: now}
			if err := screen.Draw(frame, opts); err != nil {
				slog.Warn("draw failed", "err", err)
			}
			frames++
			if top.frames > 0 && frames >= top.frames {
				return acc.Summary(), started
			}
		}
	}
}

func printSummary(w io.Writer, s session.Summary, elapsed time.Duration) {
	fmt.Fprintln(w)
	fmt.Fprintf(w, "sysmon session (%s, %d distinct samples):\n", elapsed.Round(time.Second), s.Samples)
	fmt.Fprintf(w, "- cpu:     avg %5.1f%%  peak %5.1f%%\n", s.AvgCPU, s.PeakCPU)
	fmt.Fprintf(w, "- memory:  avg %5.1f%%  peak %5.1f%%\n", s.AvgMemory, s.PeakMemory)
	fmt.Fprintf(w, "- disk:    read %s  write %s\n", s.DiskRead.Humanized(), s.DiskWrite.Humanized())
	fmt.Fprintf(w, "- network: recv %s  sent %s\n", s.NetRecv.Humanized(), s.NetSent.Humanized())
	fmt.Fprintln(w)
}
