package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/Zuo-Peng/droptrack/internal/capture"
	"github.com/Zuo-Peng/droptrack/internal/logging"
	"github.com/Zuo-Peng/droptrack/internal/poll"
	"github.com/Zuo-Peng/droptrack/internal/telemetry"
)

type pollFlags struct {
	source   string
	interval time.Duration
	db       string
}

func (f *pollFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.source, "source", "", "chatbox text file to poll (default from config)")
	cmd.Flags().DurationVar(&f.interval, "interval", 0, "poll interval (default from config)")
	cmd.Flags().StringVar(&f.db, "db", "", "snapshot database path (default from config)")
}

// resolve fills unset flags from config.
func (f *pollFlags) resolve(a *app) error {
	if f.source == "" {
		f.source = a.cfg.SourcePath
	}
	if f.interval <= 0 {
		d, err := a.cfg.Interval()
		if err != nil {
			return err
		}
		f.interval = d
	}
	return nil
}

func runCmd() *cobra.Command {
	var (
		flags       pollFlags
		record      string
		metricsAddr string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Poll the chatbox headlessly and persist stats",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(flags.db, logStderr)
			if err != nil {
				return err
			}
			defer a.Close()
			if err := flags.resolve(a); err != nil {
				return err
			}
			if metricsAddr == "" {
				metricsAddr = a.cfg.MetricsAddr
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			st, err := a.store.Load(ctx)
			if err != nil {
				a.log.Warn("snapshot not restored, starting fresh", "err", err)
			}

			metrics := telemetry.New()
			sess := poll.NewSession(a.cat,
				poll.WithState(st),
				poll.WithLogger(a.log),
				poll.WithMetrics(metrics),
			)

			var src capture.Source = &capture.FileSource{Path: flags.source}
			if record != "" {
				f, err := os.OpenFile(record, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
				if err != nil {
					return fmt.Errorf("open recording: %w", err)
				}
				defer f.Close()
				src = capture.NewRecorder(src, f)
			}

			runner := &poll.Runner{
				Session:  sess,
				Source:   src,
				Store:    a.store,
				Interval: flags.interval,
				Metrics:  metrics,
				OnCycle: func(res poll.CycleResult) {
					if res.Changed {
						a.log.Debug("cycle", "result", res.String())
					}
				},
			}

			a.log.Info("polling", "source", flags.source, "interval", flags.interval, "db", a.cfg.DBPath)

			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				defer stop()
				return runner.Run(gctx)
			})
			if metricsAddr != "" {
				g.Go(func() error {
					return serveMetrics(gctx, metricsAddr, metrics.Handler(), a.log)
				})
			}
			if err := g.Wait(); err != nil {
				return err
			}

			final := sess.State()
			a.log.Info("stopped", "rolls", final.TotalRolls, "feed", final.FeedProgress())
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&record, "record", "", "append every poll to this JSONL file for later replay")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address (e.g. :9108)")
	return cmd
}

// serveMetrics runs the metrics endpoint until ctx is done.
func serveMetrics(ctx context.Context, addr string, h http.Handler, log *logging.Logger) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      h,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("metrics server shutdown", "err", err)
		}
	}()

	log.Info("metrics listening", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("metrics server: %w", err)
	}
	return nil
}
