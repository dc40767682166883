package main

import (
	"context"
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/Zuo-Peng/droptrack/internal/assets"
	"github.com/Zuo-Peng/droptrack/internal/capture"
	"github.com/Zuo-Peng/droptrack/internal/catalog"
	"github.com/Zuo-Peng/droptrack/internal/chatlog"
	"github.com/Zuo-Peng/droptrack/internal/classify"
	"github.com/Zuo-Peng/droptrack/internal/config"
	"github.com/Zuo-Peng/droptrack/internal/snapshot"
)

func doctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Self-check: verify config, DB, chatbox source, assets and catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("config: %w", err)
			}

			fmt.Println("=== Config ===")
			if cfg.File != "" {
				fmt.Printf("  File: %s (OK)\n", cfg.File)
			} else {
				fmt.Println("  File: none (using defaults)")
			}
			interval, _ := cfg.Interval()
			fmt.Printf("  Poll interval: %s\n", interval)
			fmt.Printf("  Log level: %s\n", cfg.LogLevel)
			checkDir("Log dir", cfg.LogPath)

			cat := catalog.Default()
			fmt.Println("\n=== Catalog ===")
			fmt.Printf("  Items: %d\n", cat.Len())

			fmt.Println("\n=== Chatbox source ===")
			checkSource(ctx, cfg.SourcePath, cat)

			fmt.Println("\n=== Assets ===")
			foods, err := assets.LoadManifest(cfg.AssetsDir)
			if err != nil {
				fmt.Printf("  Manifest: %v (fallback: %v)\n", err, foods)
			} else {
				fmt.Printf("  Manifest: %d food images (OK)\n", len(foods))
			}

			fmt.Println("\n=== Database ===")
			fmt.Printf("  Path: %s\n", cfg.DBPath)
			if _, err := os.Stat(cfg.DBPath); os.IsNotExist(err) {
				fmt.Println("  Status: NOT FOUND (run 'droptrack run' or 'droptrack watch' first)")
				return nil
			}

			kv, err := snapshot.OpenSQLite(cfg.DBPath)
			if err != nil {
				return fmt.Errorf("open db: %w", err)
			}
			defer kv.Close()

			if v, err := kv.SchemaVersion(ctx); err == nil {
				fmt.Printf("  Schema version: %s\n", v)
			}
			updated, err := kv.UpdatedAt(ctx, snapshot.Key)
			if err != nil {
				return fmt.Errorf("read snapshot: %w", err)
			}
			if updated == "" {
				fmt.Println("  Snapshot: none yet")
			} else {
				st, err := snapshot.Load(ctx, kv, cat)
				if err != nil {
					fmt.Printf("  Snapshot: %v (defaults will be used)\n", err)
				} else {
					fmt.Printf("  Snapshot: OK, updated %s\n", updated)
					fmt.Printf("  Rolls: %s, feed %s, wasted %s\n",
						humanize.Comma(int64(st.TotalRolls)), st.FeedProgress(), humanize.Comma(int64(st.FoodWasted)))
				}
			}

			if info, err := os.Stat(cfg.DBPath); err == nil {
				fmt.Printf("\n=== DB Size: %s ===\n", humanize.Bytes(uint64(info.Size())))
			}
			return nil
		},
	}
}

// checkSource reads the chatbox once and reports what would be tracked.
func checkSource(ctx context.Context, path string, cat *catalog.Catalog) {
	info, err := os.Stat(path)
	if err != nil {
		fmt.Printf("  Path: %s (NOT FOUND)\n", path)
		return
	}
	fmt.Printf("  Path: %s (%s)\n", path, humanize.Bytes(uint64(info.Size())))

	frags, err := (&capture.FileSource{Path: path}).Read(ctx)
	if err != nil {
		fmt.Printf("  Read error: %v\n", err)
		return
	}
	lines := chatlog.Reconstruct(frags)
	c := classify.New(cat)
	var feeds, drops int
	for _, l := range lines {
		switch c.Classify(l).Kind {
		case classify.KindFeed:
			feeds++
		case classify.KindDrop:
			drops++
		}
	}
	fmt.Printf("  Fragments: %d, lines: %d (feeds %d, drops %d)\n", len(frags), len(lines), feeds, drops)
}

func checkDir(name, path string) {
	if info, err := os.Stat(path); err != nil {
		fmt.Printf("  %s: %s (NOT FOUND)\n", name, path)
	} else if !info.IsDir() {
		fmt.Printf("  %s: %s (NOT A DIRECTORY)\n", name, path)
	} else {
		fmt.Printf("  %s: %s (OK)\n", name, path)
	}
}
