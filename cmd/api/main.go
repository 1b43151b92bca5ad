package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/bryanwahyu/brainscan-api/internal/application"
	appai "github.com/bryanwahyu/brainscan-api/internal/application/ai"
	"github.com/bryanwahyu/brainscan-api/internal/config"
	aiopenai "github.com/bryanwahyu/brainscan-api/internal/infra/ai/openai"
	"github.com/bryanwahyu/brainscan-api/internal/infra/httpserver"
	"github.com/bryanwahyu/brainscan-api/internal/logging"
	"github.com/bryanwahyu/brainscan-api/internal/middleware"
)

func main() {
	path := "config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		path = v
	}

	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	logger := logging.New(cfg.Log.Level, cfg.Log.Format, os.Stdout)
	if cfg.APIKey == "" {
		logger.Warn("model api key is empty, analyses will fail", "env", config.APIKeyEnv)
	}

	// one client for the whole process
	client := aiopenai.NewClient(cfg.APIKey)
	svc := appai.NewService(client, application.SystemClock{}, logger)

	mux := chi.NewRouter()
	mux.Mount("/", httpserver.NewRouter(svc, logger, map[string]middleware.HealthChecker{
		"credentials": middleware.CredentialsChecker{APIKey: cfg.APIKey},
	}))

	// no WriteTimeout: the model call has no deadline of its own
	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           mux,
		ReadHeaderTimeout: 15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr, "model", aiopenai.Model, "base_url", aiopenai.BaseURL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
}
