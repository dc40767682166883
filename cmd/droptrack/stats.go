package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/Zuo-Peng/droptrack/internal/render"
	"github.com/Zuo-Peng/droptrack/internal/snapshot"
)

func statsCmd() *cobra.Command {
	var (
		db      string
		expand  bool
		noColor bool
		asJSON  bool
	)

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print the persisted stats",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(db, logStderr)
			if err != nil {
				return err
			}
			defer a.Close()

			st, err := a.store.Load(cmd.Context())
			if err != nil {
				a.log.Warn("snapshot unreadable, showing defaults", "err", err)
			}

			if asJSON {
				data, err := snapshot.Encode(st)
				if err != nil {
					return err
				}
				fmt.Println(string(data))
				return nil
			}

			opts := render.Options{Expand: expand, Color: !noColor && isTerminal(os.Stdout)}
			if opts.Color {
				if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
					opts.Width = w
				}
			}
			fmt.Print(render.Stats(st, a.cat, opts))
			return nil
		},
	}

	cmd.Flags().StringVar(&db, "db", "", "snapshot database path (default from config)")
	cmd.Flags().BoolVar(&expand, "expand", false, "show quantity breakdowns")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "disable ANSI colours")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the raw snapshot JSON")
	return cmd
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
