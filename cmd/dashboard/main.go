package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"exchangesnapshot/internal/app"
	"exchangesnapshot/internal/config"
	"exchangesnapshot/internal/logger"
	"exchangesnapshot/internal/render"
	"exchangesnapshot/internal/snapshot"
	"exchangesnapshot/internal/ui"
	"exchangesnapshot/internal/view"
)

func main() {
	var configPath string
	var logFile string
	flag.StringVar(&configPath, "config", os.Getenv("CONFIG_FILE"), "path to config.json or config.yaml (optional)")
	flag.StringVar(&logFile, "log-file", "", "log file (default: log.file from config, else "+defaultLogFile+")")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	cfg.Log = fileLogConfig(cfg.Log, logFile)
	lg, err := logger.New(cfg.Log)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = lg.Sync() }()

	src, err := app.NewSource(cfg, lg, nil)
	if err != nil {
		log.Fatalf("building source: %v", err)
	}
	d, err := ui.NewDashboard()
	if err != nil {
		log.Fatalf("dashboard: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	v := view.New(src, view.WithLogger(lg), view.WithOnChange(func(st snapshot.FetchState) {
		if err := d.Update(render.Build(st)); err != nil {
			lg.Error("updating dashboard", zap.Error(err))
		}
	}))
	fetchCtx, cancel := context.WithTimeout(ctx, time.Duration(cfg.Server.RequestTimeoutSec)*time.Second)
	defer cancel()
	v.Activate(fetchCtx)
	defer v.Deactivate()

	if err := ui.Run(ctx, d); err != nil {
		lg.Error("dashboard", zap.Error(err))
		log.Fatalf("dashboard: %v", err)
	}
}

const defaultLogFile = "dashboard.log"

// fileLogConfig points logging at a file. tcell owns the terminal while
// the dashboard runs, so nothing may be written to stderr.
func fileLogConfig(cfg logger.Config, flagFile string) logger.Config {
	switch {
	case flagFile != "":
		cfg.File = flagFile
	case cfg.File == "":
		cfg.File = defaultLogFile
	}
	return cfg
}
