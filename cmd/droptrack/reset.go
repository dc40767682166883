package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func resetCmd() *cobra.Command {
	var db string

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Clear all counters and persist the empty state",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(db, logStderr)
			if err != nil {
				return err
			}
			defer a.Close()

			if _, err := a.store.Reset(cmd.Context()); err != nil {
				return fmt.Errorf("reset: %w", err)
			}
			a.log.Info("state reset", "db", a.cfg.DBPath)
			fmt.Fprintln(os.Stderr, "Counters reset.")
			return nil
		},
	}

	cmd.Flags().StringVar(&db, "db", "", "snapshot database path (default from config)")
	return cmd
}
