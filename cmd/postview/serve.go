package main

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/vcrobe/postview/config"
	"github.com/vcrobe/postview/console"
	"github.com/vcrobe/postview/shell"
)

const shutdownTimeout = 5 * time.Second

func init() {
	// instantiateStreaming refuses anything else.
	_ = mime.AddExtensionType(".wasm", "application/wasm")
}

type serveCmd struct{}

func (s *serveCmd) Run(ctx context.Context, cfg *config.Config) error {
	server := &http.Server{
		Addr:              cfg.Listen,
		Handler:           newRouter(cfg.Dir),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		errc <- server.ListenAndServe()
	}()
	console.Log("postview: serving", cfg.Dir, "at", "http://"+cfg.Listen)

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	console.Log("postview: shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// newRouter serves the shell page at "/" and every other path from dir.
func newRouter(dir string) *mux.Router {
	r := mux.NewRouter()
	r.Use(logRequests)
	r.HandleFunc("/", serveIndex).Methods(http.MethodGet, http.MethodHead)
	r.HandleFunc("/index.html", serveIndex).Methods(http.MethodGet, http.MethodHead)
	r.PathPrefix("/").Handler(http.FileServer(http.Dir(dir))).Methods(http.MethodGet, http.MethodHead)
	return r
}

func serveIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	_, _ = w.Write(shell.IndexHTML)
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		console.Log("postview:", r.Method, r.URL.Path, time.Since(start).Round(time.Microsecond))
	})
}
