package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Zuo-Peng/droptrack/internal/assets"
	"github.com/Zuo-Peng/droptrack/internal/capture"
	"github.com/Zuo-Peng/droptrack/internal/poll"
	"github.com/Zuo-Peng/droptrack/internal/tui"
)

func watchCmd() *cobra.Command {
	var flags pollFlags

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Live dashboard: poll the chatbox and show stats as they change",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Logs go to a file; stderr belongs to the terminal UI.
			a, err := openApp(flags.db, logFile)
			if err != nil {
				return err
			}
			defer a.Close()
			if err := flags.resolve(a); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			st, err := a.store.Load(ctx)
			if err != nil {
				a.log.Warn("snapshot not restored, starting fresh", "err", err)
			}

			foods, err := assets.LoadManifest(a.cfg.AssetsDir)
			if err != nil {
				a.log.Debug("food manifest failed, fallback used", "err", err)
			} else {
				a.log.Debug("loaded food images", "count", len(foods))
			}

			runner := &poll.Runner{
				Session:  poll.NewSession(a.cat, poll.WithState(st), poll.WithLogger(a.log)),
				Source:   &capture.FileSource{Path: flags.source},
				Store:    a.store,
				Interval: flags.interval,
			}
			return tui.Run(ctx, runner, tui.Options{Interval: flags.interval, Foods: foods})
		},
	}

	flags.register(cmd)
	return cmd
}
