// Package web serves the REST API consumed by the Sprout frontend.
package web

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/sproutnotes/sprout/internal/config"
	"github.com/sproutnotes/sprout/internal/ops"
	"github.com/sproutnotes/sprout/internal/settings"
)

// NewServer creates and configures the HTTP server for the Sprout API.
func NewServer(db *sql.DB, cfg *config.Config, mgr *settings.Manager, logger *zap.Logger, version string) *http.Server {
	advisor := &ops.Advisor{
		Settings: mgr,
		Timeout:  cfg.CompletionTimeout(),
	}

	h := &Handlers{
		db:       db,
		cfg:      cfg,
		settings: mgr,
		advisor:  advisor,
		logger:   logger,
		version:  version,
	}

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(requestLogger(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/health", h.HandleHealth)

	r.Route("/ideas", func(r chi.Router) {
		r.Get("/", h.HandleList)
		r.Post("/", h.HandleCreate)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.HandleFetch)
			r.Put("/", h.HandleReplace)
			r.Delete("/", h.HandleDelete)
			r.Get("/analysis", h.HandleAnalysisHTML)
			r.Put("/folder", h.HandleMove)
			r.Post("/chat", h.HandleChat)
			r.Post("/chat/undo", h.HandleChatUndo)
			r.Post("/plan", h.HandlePlan)
			r.Post("/keywords", h.HandleKeywords)
			r.Post("/viability", h.HandleViability)
			r.Post("/competitors", h.HandleCompetitors)
		})
	})

	r.Route("/folders", func(r chi.Router) {
		r.Get("/", h.HandleFolderList)
		r.Post("/", h.HandleFolderCreate)
		r.Delete("/{id}", h.HandleFolderDelete)
	})

	r.Route("/organize", func(r chi.Router) {
		r.Post("/suggestions", h.HandleOrganizeSuggest)
		r.Post("/apply", h.HandleOrganizeApply)
	})

	r.Route("/generate", func(r chi.Router) {
		r.Post("/", h.HandleGenerate)
		r.Post("/mvp", h.HandleSelectMVP)
	})

	r.Post("/summarize", h.HandleSummarize)

	r.Get("/settings", h.HandleSettingsGet)
	r.Put("/settings", h.HandleSettingsPut)

	r.Get("/backup", h.HandleBackupExport)
	r.Post("/backup", h.HandleBackupImport)

	return &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.BindAddr, cfg.Port),
		Handler: r,
	}
}

// requestLogger logs one line per request with method, path, status,
// and duration.
func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			logger.Info("request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("duration", time.Since(start)),
				zap.String("request_id", chimiddleware.GetReqID(r.Context())),
			)
		})
	}
}

// Run starts the HTTP server and handles graceful shutdown on SIGINT/SIGTERM.
func Run(srv *http.Server, logger *zap.Logger) error {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	logger.Info("api listening", zap.String("addr", srv.Addr))

	if strings.Contains(srv.Addr, "0.0.0.0") || strings.Contains(srv.Addr, "::") {
		logger.Warn("server is binding to all interfaces and may be accessible from the network")
	}

	select {
	case err := <-errCh:
		return err
	case <-sigCh:
		logger.Info("shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(ctx)
	}
}
