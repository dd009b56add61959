// Package server exposes the composer over HTTP.
package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	promptcomposer "github.com/xcud/prompt-composer"
	"github.com/xcud/prompt-composer/internal/logging"
)

// DefaultAddr is where the API listens unless told otherwise.
const DefaultAddr = ":8377"

// Options configure the HTTP server.
type Options struct {
	Addr  string // listen address, defaults to DefaultAddr
	Quiet bool   // suppress startup messages for clean CLI output
	Watch bool   // hot-reload guidance templates while serving
}

// Run serves the composition API until ctx is cancelled.
func Run(ctx context.Context, composer *promptcomposer.Composer, opts Options) error {
	addr := opts.Addr
	if addr == "" {
		addr = DefaultAddr
	}
	if err := checkAddrAvailable(addr); err != nil {
		return fmt.Errorf("address %s is already in use: %w", addr, err)
	}

	if opts.Watch {
		if err := composer.Watch(ctx); err != nil {
			logging.Warnf("guidance hot reload unavailable: %v", err)
		}
	}

	r := Router(composer, opts)

	httpServer := &http.Server{
		Addr:        addr,
		Handler:     r,
		IdleTimeout: 120 * time.Second,
	}

	if !opts.Quiet {
		fmt.Printf("Composition API listening on %s\n", addr)
	}

	go func() {
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Errorf("HTTP server error: %v", err)
		}
	}()

	<-ctx.Done()

	if !opts.Quiet {
		fmt.Println("\nShutting down...")
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}

// Router builds the chi router serving the composition API.
func Router(composer *promptcomposer.Composer, opts Options) chi.Router {
	r := chi.NewRouter()
	if !opts.Quiet {
		r.Use(chimw.Logger)
	}
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)
	r.Use(requestID)

	r.Get("/healthz", HealthHandler(composer))
	r.Route("/v1", func(r chi.Router) {
		r.Post("/compose", ComposeHandler(composer))
		r.Post("/compose/cached", ComposeCachedHandler(composer))
		r.Get("/status", StatusHandler(composer))
		r.Get("/modules/{category}", ListModulesHandler(composer))
		r.Get("/modules/{category}/{name}", GetModuleHandler(composer))
		r.Post("/servers/{name}/refresh", RefreshServerHandler(composer))
		r.Post("/servers/{name}/discover", DiscoverServerHandler(composer))
	})
	return r
}

// requestID tags every request with an id for log correlation, honoring one
// supplied by the caller.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r)
	})
}

// checkAddrAvailable checks that the listen address can be bound.
func checkAddrAvailable(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	ln.Close()
	return nil
}
