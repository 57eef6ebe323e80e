package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"go.uber.org/zap"

	"exchangesnapshot/internal/app"
	"exchangesnapshot/internal/config"
	"exchangesnapshot/internal/logger"
	"exchangesnapshot/internal/render"
	"exchangesnapshot/internal/snapshot"
	"exchangesnapshot/internal/view"
)

func main() {
	var configPath string
	var asJSON bool
	var timeout int

	flag.StringVar(&configPath, "config", os.Getenv("CONFIG_FILE"), "path to config.json or config.yaml (optional)")
	flag.BoolVar(&asJSON, "json", false, "print the fetch state as JSON instead of text")
	flag.IntVar(&timeout, "timeout", 0, "request timeout seconds (overrides config)")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if timeout > 0 {
		cfg.Server.RequestTimeoutSec = timeout
	}
	lg, err := logger.New(cfg.Log)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = lg.Sync() }()

	src, err := app.NewSource(cfg, lg, nil)
	if err != nil {
		lg.Fatal("building source", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.RequestTimeoutSec)*time.Second)
	defer cancel()
	st := fetchOnce(ctx, src, lg)

	if err := write(os.Stdout, st, asJSON); err != nil {
		lg.Fatal("writing output", zap.Error(err))
	}
	if st.Phase != snapshot.Ready {
		os.Exit(1)
	}
}

// fetchOnce runs a single view activation and returns its final state.
func fetchOnce(ctx context.Context, src snapshot.Source, lg *zap.Logger) snapshot.FetchState {
	v := view.New(src, view.WithLogger(lg))
	<-v.Activate(ctx)
	return v.State()
}

func write(w io.Writer, st snapshot.FetchState, asJSON bool) error {
	if !asJSON {
		return render.WriteText(w, render.Build(st))
	}
	b, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding state: %w", err)
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}
