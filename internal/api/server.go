// Package api provides the HTTP API server for the workspace agent.
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/workspace-agent/workspace-agent/internal/agent"
	"github.com/workspace-agent/workspace-agent/internal/logging"
	"github.com/workspace-agent/workspace-agent/internal/report"
	"github.com/workspace-agent/workspace-agent/internal/storage"
)

// Server is the HTTP API server.
type Server struct {
	router     *chi.Mux
	httpServer *http.Server

	agent     *agent.Agent
	observer  *agent.Observer
	reports   *report.Generator
	snapshots *storage.SnapshotStore
	chatStore *storage.ChatStore
	reportSt  *storage.ReportStore
	events    *EventHub

	log *logging.Logger
}

// Config for the server.
type Config struct {
	Host string
	Port int

	Agent         *agent.Agent
	Observer      *agent.Observer
	Reports       *report.Generator
	SnapshotStore *storage.SnapshotStore
	ChatStore     *storage.ChatStore
	ReportStore   *storage.ReportStore
}

// New creates the API server and mounts its routes.
func New(cfg Config) *Server {
	s := &Server{
		agent:     cfg.Agent,
		observer:  cfg.Observer,
		reports:   cfg.Reports,
		snapshots: cfg.SnapshotStore,
		chatStore: cfg.ChatStore,
		reportSt:  cfg.ReportStore,
		events:    NewEventHub(),
		log:       logging.Component("api"),
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Session-Id"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Post("/chat", s.handleChat)
		r.Get("/chat/history", s.handleChatHistory)
		r.Get("/eod-report", s.handleGetReport)
		r.Post("/eod-report/generate", s.handleGenerateReport)
		r.Get("/snapshot/today", s.handleTodaySnapshot)
		r.Post("/observe", s.handleObserve)
	})

	r.Get("/ws", s.events.HandleWebSocket)

	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		s.respondJSON(w, http.StatusOK, map[string]string{
			"service": "workspace-agent",
			"status":  "running",
		})
	})

	s.router = r

	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
	}

	return s
}

// Events exposes the event hub so background jobs can broadcast.
func (s *Server) Events() *EventHub {
	return s.events
}

// Start begins serving. Blocks until the server stops.
func (s *Server) Start() error {
	s.log.WithField("addr", s.httpServer.Addr).Info("API server listening")
	if err := s.httpServer.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Stop gracefully shuts the server down.
func (s *Server) Stop(ctx context.Context) error {
	s.events.Close()
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	writeJSON(w, data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
