// Command engageproof serves the engagement-proof verification API.
//
// Configuration comes from the environment (PORT1, OCR_TIMEOUT,
// MIN_COMMENTS, ...); flags override the common toggles:
//
//	engageproof              # listen on :6000
//	engageproof -debug       # verbose logging + debug payloads
//	engageproof -addr :8080  # listen elsewhere
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/devanshd78/Backend-MHD1/engine"
	"github.com/devanshd78/Backend-MHD1/server"
)

func main() {
	debug := flag.Bool("debug", false, "enable debug logging and debug payloads")
	addr := flag.String("addr", "", "listen address (overrides PORT1)")
	flag.Parse()

	cfg, err := engine.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "configuration error:", err)
		os.Exit(1)
	}
	if *debug {
		cfg.Debug = true
	}

	logLevel := slog.LevelInfo
	if cfg.Debug {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)

	res, err := engine.New(cfg, engine.WithLogger(logger))
	if err != nil {
		logger.Error("engine initialization failed", "error", err)
		os.Exit(1)
	}

	listen := *addr
	if listen == "" {
		listen = fmt.Sprintf(":%d", cfg.Port)
	}

	srv := &http.Server{
		Addr:              listen,
		Handler:           server.New(res, server.WithLogger(logger)).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("shutdown incomplete", "error", err)
		}
	}()

	logger.Info("listening", "addr", listen, "ocr_threads", cfg.OCRThreads, "max_concurrent", cfg.MaxConcurrent)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}
}
