package main

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"

	"exchangesnapshot/internal/app"
	"exchangesnapshot/internal/config"
	"exchangesnapshot/internal/logger"
	"exchangesnapshot/internal/metrics"
	"exchangesnapshot/internal/provider/coalesce"
	"exchangesnapshot/internal/render"
	"exchangesnapshot/internal/snapshot"
	"exchangesnapshot/internal/view"
)

type snapshotResponse struct {
	State     snapshot.Phase    `json:"state"`
	Exchanges snapshot.Snapshot `json:"exchanges"`
	Frame     render.Frame      `json:"frame"`
}

func main() {
	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	lg, err := logger.New(cfg.Log)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = lg.Sync() }()

	m := metrics.New(metrics.DefaultConfig())
	src, err := app.NewSource(cfg, lg, m)
	if err != nil {
		lg.Fatal("building source", zap.Error(err))
	}
	timeout := time.Duration(cfg.Server.RequestTimeoutSec) * time.Second

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           newHandler(coalesce.New(src, lg.With(zap.String("component", "coalesce"))), m, timeout, lg),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      timeout + 10*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		lg.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			lg.Fatal("server", zap.Error(err))
		}
	}()

	// graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()
	lg.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		lg.Error("shutdown", zap.Error(err))
	}
}

// newHandler routes the API behind the JSON middlewares. /metrics stays
// outside them since promhttp negotiates its own encoding.
func newHandler(src snapshot.Source, m *metrics.Metrics, timeout time.Duration, lg *zap.Logger) http.Handler {
	api := http.NewServeMux()
	api.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	api.HandleFunc("/api/snapshot", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		writeSnapshot(w, r.Context(), src, timeout, lg)
	})

	root := http.NewServeMux()
	root.Handle("/metrics", m.Handler())
	root.Handle("/", withJSONHeaders(withGzip(recoverPanic(lg, limitBody(api)))))
	return root
}

// writeSnapshot activates a view for this request and answers once it
// resolves. Failed maps to 502 with an empty frame.
func writeSnapshot(w http.ResponseWriter, rctx context.Context, src snapshot.Source, timeout time.Duration, lg *zap.Logger) {
	ctx := rctx
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(rctx, timeout)
		defer cancel()
	}

	v := view.New(src, view.WithLogger(lg))
	select {
	case <-v.Activate(ctx):
	case <-rctx.Done():
		v.Deactivate()
		return
	}

	st := v.State()
	resp := snapshotResponse{State: st.Phase, Exchanges: st.Snapshot, Frame: render.Build(st)}
	status := http.StatusOK
	if st.Phase != snapshot.Ready {
		status = http.StatusBadGateway
	}
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(resp); err != nil {
		lg.Warn("writing snapshot response", zap.Error(err))
	}
}

func withJSONHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// withGzip compresses the response when the client accepts gzip.
func withGzip(next http.Handler) http.Handler {
	gzPool := sync.Pool{New: func() any {
		w, _ := gzip.NewWriterLevel(io.Discard, gzip.BestSpeed)
		return w
	}}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.Header.Get("Accept-Encoding"), "gzip") {
			next.ServeHTTP(w, r)
			return
		}
		gz := gzPool.Get().(*gzip.Writer)
		gz.Reset(w)
		defer func() {
			_ = gz.Close()
			gz.Reset(io.Discard)
			gzPool.Put(gz)
		}()
		w.Header().Set("Content-Encoding", "gzip")
		w.Header().Add("Vary", "Accept-Encoding")
		next.ServeHTTP(gzipResponseWriter{ResponseWriter: w, Writer: gz}, r)
	})
}

type gzipResponseWriter struct {
	http.ResponseWriter
	Writer io.Writer
}

func (g gzipResponseWriter) Write(b []byte) (int, error) {
	return g.Writer.Write(b)
}

// limitBody caps request bodies; the API takes none.
func limitBody(next http.Handler) http.Handler {
	const maxBody = 1 << 10
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Body != nil {
			r.Body = http.MaxBytesReader(w, r.Body, maxBody)
		}
		next.ServeHTTP(w, r)
	})
}

func recoverPanic(lg *zap.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				lg.Error("handler panic", zap.Any("panic", rec), zap.String("path", r.URL.Path))
				http.Error(w, "internal server error", http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
