package main

import (
	"fmt"
	"os"

	"github.com/Zuo-Peng/droptrack/internal/catalog"
	"github.com/Zuo-Peng/droptrack/internal/config"
	"github.com/Zuo-Peng/droptrack/internal/logging"
	"github.com/Zuo-Peng/droptrack/internal/snapshot"
)

// app bundles what every subcommand opens: config, catalog, snapshot
// store and logger.
type app struct {
	cfg   *config.Config
	cat   *catalog.Catalog
	kv    *snapshot.SQLiteKV
	store *snapshot.Store
	log   *logging.Logger

	closeLog func() error
}

type logTarget int

const (
	logStderr logTarget = iota
	logFile
)

func openApp(dbOverride string, target logTarget) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if dbOverride != "" {
		cfg.DBPath = dbOverride
	}

	a := &app{cfg: cfg, cat: catalog.Default()}

	level := logging.ParseLevel(cfg.LogLevel)
	switch target {
	case logFile:
		l, closeFn, err := logging.OpenFile(cfg.LogPath, level)
		if err != nil {
			return nil, err
		}
		a.log, a.closeLog = l, closeFn
	default:
		a.log = logging.New(os.Stderr, level)
	}

	kv, err := snapshot.OpenSQLite(cfg.DBPath)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("open db: %w", err)
	}
	a.kv = kv
	a.store = snapshot.NewStore(kv, a.cat)
	return a, nil
}

func (a *app) Close() {
	if a.kv != nil {
		a.kv.Close()
	}
	if a.closeLog != nil {
		a.closeLog()
	}
}
