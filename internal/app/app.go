package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"deallens-dashboard/internal/apiclient"
	"deallens-dashboard/internal/config"
	"deallens-dashboard/internal/handler"
	"deallens-dashboard/internal/middleware"
	"deallens-dashboard/internal/router"
	"deallens-dashboard/internal/session"
	"deallens-dashboard/internal/view"
)

type App struct {
	server *http.Server
}

func New() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	store, err := session.NewStore(cfg.AccessCookieName, cfg.RefreshCookieName, cfg.CookieSecret, cfg.CookieSecure, cfg.RefreshCookieTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize session store: %w", err)
	}

	renderer, err := view.New()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize templates: %w", err)
	}

	api := apiclient.New(cfg.APIBaseURL, cfg.APITimeout)
	slog.Info("upstream API configured", "base_url", cfg.APIBaseURL)

	guard := middleware.NewSessionGuard(store)
	homeHandler := handler.NewHomeHandler(store, api, renderer)
	authHandler := handler.NewAuthHandler(store, api, renderer)
	propertyHandler := handler.NewPropertyHandler(store, api, renderer)
	documentHandler := handler.NewDocumentHandler(store, api, renderer, cfg.MaxUploadSize)
	analysisHandler := handler.NewAnalysisHandler(store, api, renderer)
	searchHandler := handler.NewSearchHandler(store, api, renderer)
	accountHandler := handler.NewAccountHandler(store, api, renderer)

	appRouter := router.New(cfg, guard,
		homeHandler,
		authHandler,
		propertyHandler,
		documentHandler,
		analysisHandler,
		searchHandler,
		accountHandler,
	)

	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      appRouter,
		ReadTimeout:  cfg.ServerReadTimeout,
		WriteTimeout: cfg.ServerWriteTimeout,
		IdleTimeout:  cfg.ServerIdleTimeout,
	}

	return &App{server: server}, nil
}

func (a *App) Run() error {
	go func() {
		slog.Info("server starting", "addr", a.server.Addr)
		if serveErr := a.server.ListenAndServe(); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			slog.Error("server failed", "error", serveErr)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	slog.Info("server stopped")
	return nil
}
