package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Zuo-Peng/droptrack/internal/capture"
	"github.com/Zuo-Peng/droptrack/internal/catalog"
	"github.com/Zuo-Peng/droptrack/internal/logging"
	"github.com/Zuo-Peng/droptrack/internal/poll"
	"github.com/Zuo-Peng/droptrack/internal/render"
	"github.com/Zuo-Peng/droptrack/internal/snapshot"
)

func replayCmd() *cobra.Command {
	var (
		save    bool
		db      string
		expand  bool
		verbose bool
	)

	cmd := &cobra.Command{
		Use:   "replay <recording.jsonl>",
		Short: "Feed a recorded session through a fresh tracker and print the result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open recording: %w", err)
			}
			defer f.Close()

			log := logging.Discard()
			if verbose {
				log = logging.New(os.Stderr, logging.ParseLevel("debug"))
			}

			cat := catalog.Default()
			runner := &poll.Runner{
				Session: poll.NewSession(cat, poll.WithLogger(log)),
				Source:  capture.NewReplaySource(f),
			}

			n, err := runner.Drain(cmd.Context())
			if err != nil {
				return fmt.Errorf("replay: %w", err)
			}

			st := runner.Session.State()
			fmt.Fprintf(cmd.ErrOrStderr(), "Replayed %d polls.\n", n)
			fmt.Fprint(cmd.OutOrStdout(), render.Stats(st, cat, render.Options{Color: isTerminal(os.Stdout), Expand: expand}))

			if save {
				a, err := openApp(db, logStderr)
				if err != nil {
					return err
				}
				defer a.Close()
				if err := snapshot.Save(cmd.Context(), a.kv, st); err != nil {
					return err
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "Saved to %s\n", a.cfg.DBPath)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&save, "save", false, "persist the replayed state, replacing the stored snapshot")
	cmd.Flags().StringVar(&db, "db", "", "snapshot database path (default from config)")
	cmd.Flags().BoolVar(&expand, "expand", false, "show quantity breakdowns")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log every cycle to stderr")
	return cmd
}
