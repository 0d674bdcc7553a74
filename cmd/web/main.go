// The web command serves the built POS dashboard as static files with an SPA
// fallback, plus a health endpoint for the load balancer.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"

	"github.com/hsallam/matjar-pos/api/responses"
	"github.com/hsallam/matjar-pos/pkg/config"
	"github.com/hsallam/matjar-pos/pkg/logger"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logg := logger.New(logger.Options{
		ServiceName: "matjar-pos-web",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	r := chi.NewRouter()
	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		responses.WriteSuccess(w, "ok", map[string]string{"status": "up"})
	})
	r.NotFound(spaHandler(cfg.Web.StaticDir))

	srv := &http.Server{
		Addr:              ":" + cfg.Web.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logg.Info(logg.WithFields(ctx, map[string]any{
			"port": cfg.Web.Port,
			"dir":  cfg.Web.StaticDir,
		}), "web server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "server stopped", err)
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logg.Error(shutdownCtx, "graceful shutdown failed", err)
		os.Exit(1)
	}
}

// spaHandler serves files from dir, falling back to index.html for paths that
// do not exist so client-side routes deep-link correctly.
func spaHandler(dir string) http.HandlerFunc {
	fs := http.FileServer(http.Dir(dir))
	return func(w http.ResponseWriter, r *http.Request) {
		clean := filepath.Clean(strings.TrimPrefix(r.URL.Path, "/"))
		if clean == "." {
			clean = "index.html"
		}
		if _, err := os.Stat(filepath.Join(dir, clean)); err != nil {
			http.ServeFile(w, r, filepath.Join(dir, "index.html"))
			return
		}
		fs.ServeHTTP(w, r)
	}
}
