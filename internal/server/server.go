// Package server hosts the apivet dashboard: run history API, generated
// report files, and the live progress websocket.
package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/ziadkadry99/apivet/internal/db"
	"github.com/ziadkadry99/apivet/internal/history"
	"github.com/ziadkadry99/apivet/internal/live"
)

// Config holds server configuration.
type Config struct {
	Port       int
	ReportsDir string // directory containing generated report files
	AllowAll   bool   // allow all CORS origins (dev mode)
}

// Server is the apivet dashboard server.
type Server struct {
	cfg        Config
	db         *db.DB
	store      *history.Store
	hub        *live.Hub
	router     chi.Router
	httpServer *http.Server
}

// New creates a dashboard server. hub may be nil when no sweep is running
// in-process.
func New(cfg Config, database *db.DB, hub *live.Hub) *Server {
	s := &Server{
		cfg:   cfg,
		db:    database,
		store: history.NewStore(database),
		hub:   hub,
	}
	s.router = s.buildRouter()
	return s
}

// buildRouter creates and configures the chi router with all routes.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	// CORS
	corsOpts := cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	if s.cfg.AllowAll {
		corsOpts.AllowedOrigins = []string{"*"}
	}
	r.Use(cors.Handler(corsOpts))

	// Health check
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	history.RegisterRoutes(r, s.store)

	if s.hub != nil {
		s.hub.RegisterRoutes(r)
	}

	if s.cfg.ReportsDir != "" {
		fileServer := http.StripPrefix("/reports/", http.FileServer(http.Dir(s.cfg.ReportsDir)))
		r.Get("/reports/*", func(w http.ResponseWriter, r *http.Request) {
			fileServer.ServeHTTP(w, r)
		})
	}

	return r
}

// Router returns the chi router, mainly for tests.
func (s *Server) Router() chi.Router { return s.router }

// Store returns the run history store.
func (s *Server) Store() *history.Store { return s.store }

// Start begins listening on the configured port.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.cfg.Port)
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("apivet dashboard listening on %s", addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}
