package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"aquascope/overview-go/internal/config"
	"aquascope/overview-go/internal/httpapi"
	"aquascope/overview-go/internal/metrics"
	"aquascope/overview-go/internal/overview"
	"aquascope/overview-go/internal/session"
	"aquascope/overview-go/internal/upstream"
)

func main() {
	cfg, err := config.Load(os.Getenv("OVERVIEW_CONFIG"))
	if err != nil {
		fallback := httpapi.NewLogger("info")
		fallback.Fatal().Err(err).Msg("failed to load configuration")
	}

	logger := httpapi.NewLogger(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var sess session.Session
	if cfg.TokenFile != "" {
		sess, err = session.Load(cfg.TokenFile)
		if err != nil {
			logger.Fatal().Err(err).Str("token_file", cfg.TokenFile).Msg("failed to load session")
		}
	} else {
		logger.Warn().Msg("no session token configured; upstream calls will be unauthorized")
	}

	client := upstream.NewClient(cfg.UpstreamBaseURL, cfg.UpstreamTimeout)
	m := metrics.New()
	view := overview.NewView(logger, client, m)

	// Initial org-wide load; the view keeps serving its empty state if this fails.
	loadCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	if _, err := view.Select(loadCtx, sess, nil); err != nil {
		logger.Warn().Err(err).Msg("initial overview load failed")
	}
	cancel()

	h := httpapi.NewHandler(logger, view, client, sess, m)
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           h.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", cfg.HTTPAddr).Str("upstream", cfg.UpstreamBaseURL).Msg("overview-go listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("http server error")
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
	logger.Info().Msg("shutdown complete")
}
